package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// Renderer handles all UI drawing with consistent styling.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel draws a panel background with border.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}

// DrawSectionHeader draws a section header and returns the new Y position.
func (r *Renderer) DrawSectionHeader(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	return y + r.Theme.LineHeight + 4
}

// DrawLabelValue draws a label and value on the same line.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string) int32 {
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawText(value, x+r.Theme.LabelWidth, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight
}

// DrawTextCentered draws text centred on (cx, cy).
func (r *Renderer) DrawTextCentered(text string, cx, cy, size int32, c rl.Color) {
	w := rl.MeasureText(text, size)
	rl.DrawText(text, cx-w/2, cy-size/2, size, c)
}

// Bar colours shared by the inspector widgets.
var (
	barBg   = rl.Color{R: 40, G: 40, B: 40, A: 255}
	barFill = rl.Color{R: 100, G: 180, B: 100, A: 255}
	barLow  = rl.Color{R: 180, G: 80, B: 80, A: 255}
)

// DrawBar renders a labelled horizontal bar filled to ratio (clamped to
// [0,1]) and returns the new Y position.
func (r *Renderer) DrawBar(x, y int32, label string, ratio float64, value string) int32 {
	ratio = min(max(ratio, 0), 1)
	const barWidth, barHeight = 120, 14

	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	barX := x + r.Theme.LabelWidth
	rl.DrawRectangle(barX, y+2, barWidth, barHeight, barBg)

	fill := barFill
	if ratio < 0.3 {
		fill = barLow
	}
	rl.DrawRectangle(barX, y+2, int32(barWidth*ratio), barHeight, fill)
	rl.DrawText(value, barX+barWidth+5, y, r.Theme.FontSize-4, r.Theme.ValueColor)
	return y + r.Theme.LineHeight
}

// DrawBarGroup renders one mini-bar per value, filled from the bottom by
// (v-lo)/(hi-lo). Values above mark are drawn in the fill colour, the rest
// in the low colour. Returns the new Y position.
func (r *Renderer) DrawBarGroup(x, y int32, label string, values []float64, lo, hi, mark float64) int32 {
	const barWidth, barHeight, gap = 14, 30, 2

	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	barX := x + r.Theme.LabelWidth
	for i, v := range values {
		bx := barX + int32(i)*(barWidth+gap)
		rl.DrawRectangle(bx, y, barWidth, barHeight, barBg)

		ratio := 0.0
		if hi > lo {
			ratio = min(max((v-lo)/(hi-lo), 0), 1)
		}
		h := int32(barHeight * ratio)
		fill := barLow
		if v > mark {
			fill = barFill
		}
		rl.DrawRectangle(bx, y+barHeight-h, barWidth, h, fill)
	}
	return y + barHeight + 6
}
