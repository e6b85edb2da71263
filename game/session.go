package game

import "github.com/pthm-cable/critters/telemetry"

// Session is the state that outlives single episodes: the generation
// counter and the per-generation fitness history.
type Session struct {
	generation int
	history    telemetry.History
	last       *telemetry.GenerationStats
}

// FirstGeneration is the number of a fresh session's first generation, the
// same number evolve.Population gives its first evaluated generation.
const FirstGeneration = 1

// NewSession starts counting at FirstGeneration.
func NewSession() *Session {
	return &Session{generation: FirstGeneration}
}

// ResumeSession continues numbering from generation, e.g. after loading a
// checkpoint.
func ResumeSession(generation int) *Session {
	return &Session{generation: generation}
}

// Begin hands out the number of the next episode's generation.
func (s *Session) Begin() int {
	return s.generation
}

// Record closes the current generation with its stats.
func (s *Session) Record(stats telemetry.GenerationStats) {
	s.history.Append(stats.Generation, stats.Best, stats.Mean)
	s.last = &stats
	s.generation = stats.Generation + 1
}

// Generation returns the number the next episode will receive.
func (s *Session) Generation() int { return s.generation }

// History returns the fitness history. Callers must not retain it across
// goroutines; Frame carries a copy.
func (s *Session) History() *telemetry.History { return &s.history }

// Last returns the most recent generation's stats.
func (s *Session) Last() (telemetry.GenerationStats, bool) {
	if s.last == nil {
		return telemetry.GenerationStats{}, false
	}
	return *s.last, true
}
