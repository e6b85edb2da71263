package systems

import (
	"errors"
	"fmt"
	"math"

	"github.com/pthm-cable/critters/components"
	"github.com/pthm-cable/critters/config"
)

// ErrActionWidth is returned when a controller emits fewer than
// config.ActionWidth outputs.
var ErrActionWidth = errors.New("action vector too short")

// Action holds the four decoded movement gates.
type Action [config.ActionWidth]bool

// DecodeAction thresholds controller outputs into gates. Gate i is active
// iff out[i] > threshold. Extra outputs are ignored.
func DecodeAction(out []float64, threshold float64) (Action, error) {
	var a Action
	if len(out) < len(a) {
		return a, fmt.Errorf("%w: got %d, want %d", ErrActionWidth, len(out), len(a))
	}
	for i := range a {
		a[i] = out[i] > threshold
	}
	return a, nil
}

// Mover applies a decoded action to an agent and keeps it in bounds.
type Mover interface {
	Move(pos *components.Position, heading *components.Heading, a Action)
	Clamp(pos *components.Position)
	// Centered reports whether positions are box centres (true) or
	// top-left corners (false).
	Centered() bool
}

// NewMover builds the movement model selected by cfg.Movement.
func NewMover(cfg *config.Config) (Mover, error) {
	switch cfg.Movement.Model {
	case config.MovementAxis:
		return &AxisMover{
			Speed:  cfg.Agent.Speed,
			Size:   cfg.Agent.Size,
			Width:  cfg.World.Width,
			Height: cfg.World.Height,
		}, nil
	case config.MovementRotation:
		return &RotationMover{
			Speed:    cfg.Agent.Speed,
			TurnRate: cfg.Agent.TurnRate,
			Thrust:   cfg.Agent.Thrust,
			Radius:   cfg.Derived.AgentRadius,
			Width:    cfg.World.Width,
			Height:   cfg.World.Height,
		}, nil
	}
	return nil, fmt.Errorf("unknown movement model %q", cfg.Movement.Model)
}

// AxisMover moves a square agent along the axes.
// Gates: up, down, left, right. Opposite gates cancel.
type AxisMover struct {
	Speed         float64
	Size          float64
	Width, Height float64
}

func (m *AxisMover) Move(pos *components.Position, _ *components.Heading, a Action) {
	if a[0] {
		pos.Y -= m.Speed
	}
	if a[1] {
		pos.Y += m.Speed
	}
	if a[2] {
		pos.X -= m.Speed
	}
	if a[3] {
		pos.X += m.Speed
	}
	m.Clamp(pos)
}

// Clamp keeps the box's top-left corner in [0, W-size] x [0, H-size].
func (m *AxisMover) Clamp(pos *components.Position) {
	pos.X = clampFloat(pos.X, 0, m.Width-m.Size)
	pos.Y = clampFloat(pos.Y, 0, m.Height-m.Size)
}

func (m *AxisMover) Centered() bool { return false }

// RotationMover turns and thrusts a circular agent.
// Gates: turn left, turn right, forward, backward. When both thrust gates
// are active backward wins.
type RotationMover struct {
	Speed         float64
	TurnRate      float64
	Thrust        float64
	Radius        float64
	Width, Height float64
}

func (m *RotationMover) Move(pos *components.Position, heading *components.Heading, a Action) {
	if a[0] {
		heading.Angle = NormalizeHeading(heading.Angle - m.TurnRate)
	}
	if a[1] {
		heading.Angle = NormalizeHeading(heading.Angle + m.TurnRate)
	}

	step := 0.0
	if a[2] {
		step = m.Speed * m.Thrust
	}
	if a[3] {
		step = -m.Speed * m.Thrust
	}
	pos.X += math.Cos(heading.Angle) * step
	pos.Y += math.Sin(heading.Angle) * step
	m.Clamp(pos)
}

// Clamp keeps the agent's centre in [r, W-r] x [r, H-r].
func (m *RotationMover) Clamp(pos *components.Position) {
	pos.X = clampFloat(pos.X, m.Radius, m.Width-m.Radius)
	pos.Y = clampFloat(pos.Y, m.Radius, m.Height-m.Radius)
}

func (m *RotationMover) Centered() bool { return true }
