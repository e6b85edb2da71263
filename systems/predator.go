package systems

import (
	"math/rand"

	"github.com/pthm-cable/critters/components"
	"github.com/pthm-cable/critters/config"
)

// PredatorWalk drives predators on an axis-aligned random walk.
type PredatorWalk struct {
	Width, Height float64
	MinTurn       int
	MaxTurn       int
	rng           *rand.Rand
}

// NewPredatorWalk creates the walk rules for cfg, drawing from rng.
func NewPredatorWalk(cfg *config.Config, rng *rand.Rand) *PredatorWalk {
	return &PredatorWalk{
		Width:   cfg.World.Width,
		Height:  cfg.World.Height,
		MinTurn: cfg.Predator.MinTurnTicks,
		MaxTurn: cfg.Predator.MaxTurnTicks,
		rng:     rng,
	}
}

// Resample picks a new direction and countdown.
func (w *PredatorWalk) Resample(p *components.Predator) {
	p.Dir = components.Directions[w.rng.Intn(len(components.Directions))]
	p.Timer = w.MinTurn
	if w.MaxTurn > w.MinTurn {
		p.Timer += w.rng.Intn(w.MaxTurn - w.MinTurn + 1)
	}
}

// Step advances one predator by one tick: count down, turn when the timer
// runs out or the predator touches the boundary, move, then clamp.
func (w *PredatorWalk) Step(pos *components.Position, p *components.Predator) {
	p.Timer--
	r := p.Radius
	touching := pos.X <= r || pos.X >= w.Width-r || pos.Y <= r || pos.Y >= w.Height-r
	if touching || p.Timer <= 0 {
		w.Resample(p)
	}

	u := p.Dir.Unit()
	pos.X = clampFloat(pos.X+u.X*p.Speed, r, w.Width-r)
	pos.Y = clampFloat(pos.Y+u.Y*p.Speed, r, w.Height-r)
}
