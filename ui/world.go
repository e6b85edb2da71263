package ui

import (
	"math"
	"strconv"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/critters/components"
	"github.com/pthm-cable/critters/game"
)

// AgentColor returns the fill colour for an agent: its lineage colour (or
// the default green) dimmed by remaining life.
func AgentColor(a game.AgentView, lineage bool, lifeDisplay int) rl.Color {
	base := components.UnknownLineage
	if lineage {
		base = components.LineageColor(a.Species)
	}
	return toColor(components.DimByLife(base, a.Life, lifeDisplay))
}

// drawWorld draws foods, predators and agents.
func (w *Window) drawWorld(f game.Frame) {
	food := toColor(components.FoodColor)
	for _, fd := range f.Foods {
		rl.DrawCircleV(rl.Vector2{X: float32(fd.X), Y: float32(fd.Y)}, float32(fd.Radius), food)
	}

	predator := toColor(components.PredatorColor)
	for _, p := range f.Predators {
		rl.DrawCircleV(rl.Vector2{X: float32(p.X), Y: float32(p.Y)}, float32(p.Radius), predator)
	}

	text := toColor(components.LifeTextColor)
	for _, a := range f.Agents {
		ccx, ccy := agentCenter(a)
		cx, cy := float32(ccx), float32(ccy)
		half := float32(agentBody(a).Radius())
		size := float32(a.Size)
		rl.DrawRectangleV(rl.Vector2{X: cx - half, Y: cy - half}, rl.Vector2{X: size, Y: size}, AgentColor(a, f.ShowLineage, f.LifeDisplay))

		if f.ShowHeading {
			end := rl.Vector2{
				X: cx + size*float32(math.Cos(a.Heading)),
				Y: cy + size*float32(math.Sin(a.Heading)),
			}
			rl.DrawLineEx(rl.Vector2{X: cx, Y: cy}, end, 2, rl.White)
		}
		if f.ShowLife {
			w.renderer.DrawTextCentered(strconv.Itoa(a.Life), int32(cx), int32(cy), 10, text)
		}
	}
}
