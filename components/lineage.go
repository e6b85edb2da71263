package components

import (
	"hash/fnv"
	"image/color"

	"golang.org/x/image/colornames"
)

// UnknownLineage is the colour used for agents without a species id.
var UnknownLineage = color.RGBA{R: 0, G: 150, B: 0, A: 255}

// Palette used by renderers for non-agent entities.
var (
	FoodColor     = colornames.Limegreen
	PredatorColor = colornames.Crimson
	LifeTextColor = colornames.White
)

// LineageColor returns a stable colour for a species id. Each channel falls
// in [50, 200] so that dimmed colours stay readable on a dark background.
func LineageColor(species int) color.RGBA {
	if species <= 0 {
		return UnknownLineage
	}
	h := fnv.New32a()
	var buf [8]byte
	for i := range buf {
		buf[i] = byte(species >> (8 * i))
	}
	h.Write(buf[:])
	sum := h.Sum32()
	return color.RGBA{
		R: uint8(50 + (sum&0xff)%151),
		G: uint8(50 + ((sum>>8)&0xff)%151),
		B: uint8(50 + ((sum>>16)&0xff)%151),
		A: 255,
	}
}

// DimByLife scales c by the remaining life ratio with a floor of 10 per channel.
func DimByLife(c color.RGBA, life, maxLife int) color.RGBA {
	ratio := 1.0
	if maxLife > 0 {
		ratio = float64(life) / float64(maxLife)
	}
	if ratio > 1 {
		ratio = 1
	}
	if ratio < 0 {
		ratio = 0
	}
	dim := func(v uint8) uint8 {
		s := uint8(float64(v) * ratio)
		if s < 10 {
			return 10
		}
		return s
	}
	return color.RGBA{R: dim(c.R), G: dim(c.G), B: dim(c.B), A: c.A}
}
