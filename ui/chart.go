package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/critters/telemetry"
)

// ChartRect is the plotting area of the fitness chart in screen pixels.
type ChartRect struct {
	X, Y, W, H float32
}

// Contains reports whether (px, py) lies inside the rectangle.
func (r ChartRect) Contains(px, py float32) bool {
	return px >= r.X && px <= r.X+r.W && py >= r.Y && py <= r.Y+r.H
}

// Point maps entry i of n with value v onto the rectangle, given the value
// range [lo, hi]. A flat range is drawn along the middle.
func (r ChartRect) Point(i, n int, v, lo, hi float64) rl.Vector2 {
	x := r.X
	if n > 1 {
		x = r.X + r.W*float32(i)/float32(n-1)
	}
	y := r.Y + r.H/2
	if hi > lo {
		y = r.Y + r.H - r.H*float32((v-lo)/(hi-lo))
	}
	return rl.Vector2{X: x, Y: y}
}

// Pick returns the index of the entry nearest to a click at (px, py), or -1
// when the click misses the chart or there is nothing plotted.
func (r ChartRect) Pick(px, py float32, n int) int {
	if n == 0 || !r.Contains(px, py) {
		return -1
	}
	if n == 1 || r.W <= 0 {
		return 0
	}
	step := r.W / float32(n-1)
	i := int((px-r.X)/step + 0.5)
	return min(max(i, 0), n-1)
}

// ChartView draws the best/average history and remembers the generation
// the user clicked on.
type ChartView struct {
	renderer *Renderer
	selected int // Index into the history, -1 when nothing is selected
}

// NewChartView creates a chart with no selection.
func NewChartView(r *Renderer) *ChartView {
	return &ChartView{renderer: r, selected: -1}
}

// Selected returns the selected history index, or -1.
func (c *ChartView) Selected() int { return c.selected }

// HandleClick updates the selection for a click at (px, py). Clicking
// outside the chart clears it.
func (c *ChartView) HandleClick(rect ChartRect, px, py float32, n int) {
	c.selected = rect.Pick(px, py, n)
}

// Draw renders the chart into rect.
func (c *ChartView) Draw(rect ChartRect, history []telemetry.HistoryEntry) {
	th := c.renderer.Theme
	rl.DrawRectangleLinesEx(rl.Rectangle{X: rect.X, Y: rect.Y, Width: rect.W, Height: rect.H}, 1, th.PanelBorder)
	rl.DrawText("Fitness", int32(rect.X), int32(rect.Y)-th.LineHeight, th.FontSize, th.SectionHeader)

	n := len(history)
	if n == 0 {
		c.renderer.DrawTextCentered("no generations yet", int32(rect.X+rect.W/2), int32(rect.Y+rect.H/2), 14, th.LabelColor)
		return
	}

	lo, hi := history[0].Best, history[0].Best
	for _, e := range history {
		lo = min(lo, e.Best, e.Avg)
		hi = max(hi, e.Best, e.Avg)
	}

	for _, frac := range []float32{0.25, 0.5, 0.75} {
		gy := rect.Y + rect.H*frac
		rl.DrawLineV(rl.Vector2{X: rect.X, Y: gy}, rl.Vector2{X: rect.X + rect.W, Y: gy}, th.ChartGrid)
	}

	best, avg := toColor(telemetry.BestColor), toColor(telemetry.AvgColor)
	for i := 1; i < n; i++ {
		rl.DrawLineEx(rect.Point(i-1, n, history[i-1].Best, lo, hi), rect.Point(i, n, history[i].Best, lo, hi), 2, best)
		rl.DrawLineEx(rect.Point(i-1, n, history[i-1].Avg, lo, hi), rect.Point(i, n, history[i].Avg, lo, hi), 2, avg)
	}
	if n == 1 {
		rl.DrawCircleV(rect.Point(0, n, history[0].Best, lo, hi), 3, best)
		rl.DrawCircleV(rect.Point(0, n, history[0].Avg, lo, hi), 3, avg)
	}

	rl.DrawText(fmt.Sprintf("%.1f", hi), int32(rect.X)+2, int32(rect.Y)+2, 10, th.LabelColor)
	rl.DrawText(fmt.Sprintf("%.1f", lo), int32(rect.X)+2, int32(rect.Y+rect.H)-12, 10, th.LabelColor)

	if c.selected < 0 || c.selected >= n {
		return
	}
	e := history[c.selected]
	p := rect.Point(c.selected, n, e.Best, lo, hi)
	rl.DrawLineV(rl.Vector2{X: p.X, Y: rect.Y}, rl.Vector2{X: p.X, Y: rect.Y + rect.H}, th.Selection)

	boxY := int32(rect.Y+rect.H) + 8
	c.renderer.DrawPanel(int32(rect.X), boxY, int32(rect.W), 3*th.LineHeight+th.Padding)
	y := boxY + th.Padding/2
	x := int32(rect.X) + th.Padding
	y = c.renderer.DrawLabelValue(x, y, "Selected", fmt.Sprintf("gen %d", e.Generation))
	y = c.renderer.DrawLabelValue(x, y, "Best", fmt.Sprintf("%.2f", e.Best))
	c.renderer.DrawLabelValue(x, y, "Average", fmt.Sprintf("%.2f", e.Avg))
}
