package systems

import (
	"math/rand"

	"github.com/pthm-cable/critters/components"
	"github.com/pthm-cable/critters/config"
)

// Spawner places new entities. Foods and predators land on whole-pixel
// positions inside the padded rectangle.
type Spawner struct {
	cfg *config.Config
	rng *rand.Rand
}

// NewSpawner creates a spawner for cfg drawing from rng.
func NewSpawner(cfg *config.Config, rng *rand.Rand) *Spawner {
	return &Spawner{cfg: cfg, rng: rng}
}

// padded returns a whole-pixel coordinate in [pad, extent-pad].
func (s *Spawner) padded(extent float64) float64 {
	pad := s.cfg.World.SpawnPadding
	span := int(extent - 2*pad)
	if span <= 0 {
		return extent / 2
	}
	return pad + float64(s.rng.Intn(span+1))
}

// FoodPosition returns a fresh food location.
func (s *Spawner) FoodPosition() components.Position {
	return components.Position{X: s.padded(s.cfg.World.Width), Y: s.padded(s.cfg.World.Height)}
}

// PredatorPosition returns a fresh predator location.
func (s *Spawner) PredatorPosition() components.Position {
	return s.FoodPosition()
}

// AgentPosition returns an agent's starting point for the configured spawn
// mode, already clamped by m.
func (s *Spawner) AgentPosition(m Mover) components.Position {
	w, h := s.cfg.World.Width, s.cfg.World.Height
	var p components.Position
	switch s.cfg.Agent.Spawn {
	case config.SpawnRandom:
		p = components.Position{X: s.rng.Float64() * w, Y: s.rng.Float64() * h}
	default:
		p = components.Position{X: w / 2, Y: h / 2}
	}
	m.Clamp(&p)
	return p
}

// Heading returns a uniformly random initial heading in [0, 2*Pi).
func (s *Spawner) Heading() components.Heading {
	return components.Heading{Angle: s.rng.Float64() * twoPi}
}
