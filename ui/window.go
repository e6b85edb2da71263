package ui

import (
	"log/slog"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/critters/config"
	"github.com/pthm-cable/critters/game"
	"github.com/pthm-cable/critters/systems"
	"github.com/pthm-cable/critters/telemetry"
)

const chartHeight = 180

// Window is a raylib game.Renderer. It must be used from the goroutine that
// opened it.
type Window struct {
	worldW, worldH int32
	panelW         int32

	renderer *Renderer
	info     *InfoPanel
	perf     *PerfPanel
	chart    *ChartView
	inspect  *Inspector

	perfCollector *telemetry.PerfCollector
	paused        bool
}

// Open creates the window sized to the world plus the info panel.
func Open(cfg *config.Config, title string) *Window {
	r := NewRenderer()
	w := &Window{
		worldW:   int32(cfg.World.Width),
		worldH:   int32(cfg.World.Height),
		panelW:   int32(cfg.Screen.PanelWidth),
		renderer: r,
		info:     NewInfoPanel(r),
		perf:     NewPerfPanel(r, systems.NewSystemRegistry()),
		chart:    NewChartView(r),
		inspect:  NewInspector(r, cfg.Agent.ActivationThreshold),
	}

	rl.InitWindow(w.worldW+w.panelW, w.worldH, title)
	if cfg.Screen.TargetFPS > 0 {
		rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))
	}
	slog.Info("window opened", "width", w.worldW+w.panelW, "height", w.worldH)
	return w
}

// SetPerf attaches the collector whose stats the panel shows.
func (w *Window) SetPerf(p *telemetry.PerfCollector) {
	w.perfCollector = p
}

// Close destroys the window.
func (w *Window) Close() {
	rl.CloseWindow()
}

// Render draws one frame. While paused it keeps redrawing the same frame
// until the user resumes or closes the window.
func (w *Window) Render(f game.Frame) error {
	for {
		if rl.WindowShouldClose() {
			return game.ErrQuit
		}
		w.handleInput(f)

		rl.BeginDrawing()
		rl.ClearBackground(w.renderer.Theme.Background)
		w.drawWorld(f)
		selected, ok := w.inspect.Selected(f)
		if ok {
			w.inspect.DrawHighlight(selected)
		}
		if w.panelW > 0 {
			w.drawPanel(f, selected, ok)
		} else {
			w.info.DrawCompact(f)
		}
		rl.EndDrawing()

		if w.perfCollector != nil {
			w.perfCollector.RecordFrame()
		}
		if !w.paused {
			return nil
		}
	}
}

func (w *Window) chartRect() ChartRect {
	pad := float32(w.renderer.Theme.Padding)
	top := float32(w.worldH) - chartHeight - 4*float32(w.renderer.Theme.LineHeight) - 2*pad
	return ChartRect{
		X: float32(w.worldW) + 2*pad,
		Y: top,
		W: float32(w.panelW) - 4*pad,
		H: chartHeight,
	}
}

func (w *Window) handleInput(f game.Frame) {
	if rl.IsKeyPressed(rl.KeySpace) {
		w.paused = !w.paused
	}
	if rl.IsMouseButtonPressed(rl.MouseRightButton) {
		w.inspect.Deselect()
	}
	if !rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		return
	}
	m := rl.GetMousePosition()
	if m.X < float32(w.worldW) {
		w.inspect.HandleClick(f.Agents, float64(m.X), float64(m.Y))
		return
	}
	if rect := w.chartRect(); w.panelW > 0 && rect.Contains(m.X, m.Y) {
		w.chart.HandleClick(rect, m.X, m.Y, len(f.History))
	}
}

func (w *Window) drawPanel(f game.Frame, selected game.AgentView, inspecting bool) {
	th := w.renderer.Theme
	x := w.worldW
	w.renderer.DrawPanel(x, 0, w.panelW, w.worldH)

	y := w.info.Draw(x+th.Padding, th.Padding, f)
	y += th.Padding

	label := "Pause"
	if w.paused {
		label = "Resume"
	}
	if gui.Button(rl.Rectangle{X: float32(x + th.Padding), Y: float32(y), Width: 120, Height: 30}, label) {
		w.paused = !w.paused
	}
	y += 30 + th.Padding

	if inspecting {
		y = w.inspect.Draw(x+th.Padding, y, selected)
		y += th.Padding
	}
	if w.perfCollector != nil {
		w.perf.Draw(x+th.Padding, y, w.perfCollector.Stats())
	}

	w.chart.Draw(w.chartRect(), f.History)
}
