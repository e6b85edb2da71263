package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/critters/game"
	"github.com/pthm-cable/critters/systems"
	"github.com/pthm-cable/critters/telemetry"
)

// InfoLines returns the label/value pairs shown in the info panel.
func InfoLines(f game.Frame) [][2]string {
	return [][2]string{
		{"Generation", fmt.Sprintf("%d", f.Generation)},
		{"Alive", fmt.Sprintf("%d / %d", f.Alive, f.Total)},
		{"Best", fmt.Sprintf("%.2f", f.Best)},
		{"Average", fmt.Sprintf("%.2f", f.Avg)},
		{"Species", fmt.Sprintf("%d", f.Species)},
		{"Time Left", fmt.Sprintf("%.1fs", f.TimeLeft)},
	}
}

// InfoPanel renders the generation summary.
type InfoPanel struct {
	renderer *Renderer
}

// NewInfoPanel creates an info panel.
func NewInfoPanel(r *Renderer) *InfoPanel {
	return &InfoPanel{renderer: r}
}

// Draw renders the panel at (x, y) and returns the Y below it.
func (p *InfoPanel) Draw(x, y int32, f game.Frame) int32 {
	y = p.renderer.DrawSectionHeader(x, y, "Generation Info")
	for _, line := range InfoLines(f) {
		y = p.renderer.DrawLabelValue(x, y, line[0], line[1])
	}
	return y
}

// DrawCompact renders a two-line summary over the world for layouts
// without a side panel.
func (p *InfoPanel) DrawCompact(f game.Frame) {
	rl.DrawText(fmt.Sprintf("Generation: %d", f.Generation), 10, 10, p.renderer.Theme.FontSize, rl.White)
	rl.DrawText(fmt.Sprintf("Alive: %d", f.Alive), 10, 10+p.renderer.Theme.LineHeight, p.renderer.Theme.FontSize, rl.White)
}

// PerfPanel renders the per-phase tick timing.
type PerfPanel struct {
	renderer *Renderer
	registry *systems.SystemRegistry
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(r *Renderer, registry *systems.SystemRegistry) *PerfPanel {
	return &PerfPanel{renderer: r, registry: registry}
}

// Draw renders the performance panel and returns the Y below it.
func (p *PerfPanel) Draw(x, y int32, stats telemetry.PerfStats) int32 {
	rl.DrawText("Tick Performance", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Tick: %s | %.0f tps | %.0f fps",
		stats.AvgTickDuration.Round(time.Microsecond), stats.TicksPerSecond, stats.FPS), x, y, 14, rl.Yellow)
	y += 16

	for _, id := range p.registry.IDs() {
		pct := stats.PhasePct[id]

		color := rl.LightGray
		if pct > 50 {
			color = rl.Red
		} else if pct > 25 {
			color = rl.Orange
		}

		rl.DrawText(
			fmt.Sprintf("%-10s %8s %5.1f%%", p.registry.GetName(id), stats.PhaseAvg[id].Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
	return y
}
