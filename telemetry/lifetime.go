package telemetry

import "fmt"

// DeathCause records why an agent left the episode.
type DeathCause uint8

const (
	CauseNone    DeathCause = iota // Still alive
	CauseStarved                   // Life ran out
	CauseEaten                     // Touched a predator
)

func (c DeathCause) String() string {
	switch c {
	case CauseNone:
		return "alive"
	case CauseStarved:
		return "starved"
	case CauseEaten:
		return "eaten"
	}
	return fmt.Sprintf("cause(%d)", uint8(c))
}

// MarshalText lets causes appear by name in JSON output.
func (c DeathCause) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText parses a cause written by MarshalText.
func (c *DeathCause) UnmarshalText(b []byte) error {
	switch string(b) {
	case "alive":
		*c = CauseNone
	case "starved":
		*c = CauseStarved
	case "eaten":
		*c = CauseEaten
	default:
		return fmt.Errorf("unknown death cause %q", b)
	}
	return nil
}

// LifetimeStats tracks per-agent statistics over one episode.
type LifetimeStats struct {
	ID        int
	Species   int
	BirthTick int
	DeathTick int // -1 while alive
	Cause     DeathCause

	FoodsEaten int
	PeakLife   int
}

// Lifetime returns the number of ticks lived up to tick.
func (s *LifetimeStats) Lifetime(tick int) int {
	if s.DeathTick >= 0 {
		return s.DeathTick - s.BirthTick
	}
	return tick - s.BirthTick
}

// LifetimeTracker manages per-agent lifetime statistics.
type LifetimeTracker struct {
	stats map[int]*LifetimeStats
	order []int
}

// NewLifetimeTracker creates a new lifetime tracker.
func NewLifetimeTracker() *LifetimeTracker {
	return &LifetimeTracker{
		stats: make(map[int]*LifetimeStats),
	}
}

// Register creates lifetime stats for a new agent.
func (lt *LifetimeTracker) Register(id, species, birthTick, life int) {
	if _, ok := lt.stats[id]; !ok {
		lt.order = append(lt.order, id)
	}
	lt.stats[id] = &LifetimeStats{
		ID:        id,
		Species:   species,
		BirthTick: birthTick,
		DeathTick: -1,
		PeakLife:  life,
	}
}

// Get returns the lifetime stats for an agent, or nil if not found.
func (lt *LifetimeTracker) Get(id int) *LifetimeStats {
	return lt.stats[id]
}

// RecordEat increments the agent's food count and tracks peak life.
func (lt *LifetimeTracker) RecordEat(id, life int) {
	if s := lt.stats[id]; s != nil {
		s.FoodsEaten++
		if life > s.PeakLife {
			s.PeakLife = life
		}
	}
}

// RecordDeath marks the agent dead at tick and reports whether it was alive.
// Later calls are ignored.
func (lt *LifetimeTracker) RecordDeath(id, tick int, cause DeathCause) bool {
	s := lt.stats[id]
	if s == nil || s.DeathTick >= 0 {
		return false
	}
	s.DeathTick = tick
	s.Cause = cause
	return true
}

// All returns tracked stats in registration order.
func (lt *LifetimeTracker) All() []*LifetimeStats {
	out := make([]*LifetimeStats, 0, len(lt.order))
	for _, id := range lt.order {
		out = append(out, lt.stats[id])
	}
	return out
}

// Count returns the number of tracked agents.
func (lt *LifetimeTracker) Count() int {
	return len(lt.stats)
}
