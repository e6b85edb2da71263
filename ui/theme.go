// Package ui draws episodes in a raylib window: the world on the left, an
// info panel with a fitness chart on the right.
package ui

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Theme holds UI styling constants.
type Theme struct {
	Background     rl.Color
	PanelBg        rl.Color
	PanelBorder    rl.Color
	SectionHeader  rl.Color
	LabelColor     rl.Color
	ValueColor     rl.Color
	ChartGrid      rl.Color
	Selection      rl.Color
	Padding        int32
	LineHeight     int32
	LabelWidth     int32
	FontSize       int32
	HeaderFontSize int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		Background:     rl.Black,
		PanelBg:        rl.Color{R: 20, G: 25, B: 30, A: 240},
		PanelBorder:    rl.Color{R: 60, G: 70, B: 80, A: 255},
		SectionHeader:  rl.Yellow,
		LabelColor:     rl.LightGray,
		ValueColor:     rl.White,
		ChartGrid:      rl.Color{R: 60, G: 60, B: 60, A: 255},
		Selection:      rl.Color{R: 255, G: 255, B: 255, A: 120},
		Padding:        10,
		LineHeight:     22,
		LabelWidth:     110,
		FontSize:       18,
		HeaderFontSize: 20,
	}
}

// toColor converts a palette colour to a raylib colour.
func toColor(c color.RGBA) rl.Color {
	return rl.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}
