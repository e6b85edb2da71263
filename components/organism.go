package components

import (
	"log/slog"

	"github.com/pthm-cable/critters/neural"
	"gonum.org/v1/gonum/spatial/r2"
)

// Agent identifies a creature and the candidate it was built from.
type Agent struct {
	ID      int // Genome key (or candidate index for non-evolved controllers)
	Slot    int // Spawn order within the episode
	Species int // Lineage id used for colouring (<= 0 = unknown)
}

// Body holds the agent's bounding box.
type Body struct {
	Size     float64 // Side length of the square bounding box
	Centered bool    // Position is the box centre rather than its top-left corner
}

// Center returns the centre of the bounding box for an agent at p.
func (b Body) Center(p Position) r2.Vec {
	if b.Centered {
		return p.Vec()
	}
	return r2.Vec{X: p.X + b.Size/2, Y: p.Y + b.Size/2}
}

// Radius returns half the box side, the agent's collision radius.
func (b Body) Radius() float64 {
	return b.Size / 2
}

// Life counts the ticks an agent has left.
type Life struct {
	Ticks int
	Max   int // Largest value seen, for display scaling
}

// Tick decrements life by one and reports whether the agent is exhausted.
func (l *Life) Tick() bool {
	l.Ticks--
	return l.Ticks <= 0
}

// Gain adds ticks, tracking the running maximum.
func (l *Life) Gain(n int) {
	l.Ticks += n
	if l.Ticks > l.Max {
		l.Max = l.Ticks
	}
}

// Brain holds the controller driving an agent and its most recent
// observation and decision, kept for inspection.
type Brain struct {
	Controller  neural.Controller
	LastInputs  []float64
	LastOutputs []float64
}

// Remember stores copies of the latest observation and decision, reusing
// the brain's own buffers.
func (b *Brain) Remember(obs, out []float64) {
	b.LastInputs = append(b.LastInputs[:0], obs...)
	b.LastOutputs = append(b.LastOutputs[:0], out...)
}

// Fitness points at the score accumulator owned by the trainer.
// The pointer stays valid after the entity is removed, so the final score
// can be read back once the episode ends.
type Fitness struct {
	Value *float64
}

// Add accumulates delta into the score.
func (f Fitness) Add(delta float64) {
	if f.Value != nil {
		*f.Value += delta
	}
}

// Get returns the current score.
func (f Fitness) Get() float64 {
	if f.Value == nil {
		return 0
	}
	return *f.Value
}

// LogValue implements slog.LogValuer.
func (a Agent) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("id", a.ID),
		slog.Int("slot", a.Slot),
		slog.Int("species", a.Species),
	)
}
