package telemetry

import "time"

// Collector accumulates events within one episode and produces GenerationStats.
type Collector struct {
	generation int
	started    time.Time

	// Event counters for the current episode
	foodsEaten    int
	deathsEaten   int
	deathsStarved int

	lifetimes *LifetimeTracker
}

// NewCollector creates a stats collector for a generation.
func NewCollector(generation int) *Collector {
	return &Collector{
		generation: generation,
		started:    time.Now(),
		lifetimes:  NewLifetimeTracker(),
	}
}

// Lifetimes exposes the per-agent tracker.
func (c *Collector) Lifetimes() *LifetimeTracker {
	return c.lifetimes
}

// RecordSpawn registers a new agent.
func (c *Collector) RecordSpawn(id, species, tick, life int) {
	c.lifetimes.Register(id, species, tick, life)
}

// RecordEat records a food being eaten.
func (c *Collector) RecordEat(id, life int) {
	c.foodsEaten++
	c.lifetimes.RecordEat(id, life)
}

// RecordDeath records an agent removal.
func (c *Collector) RecordDeath(id, tick int, cause DeathCause) {
	if !c.lifetimes.RecordDeath(id, tick, cause) {
		return
	}
	switch cause {
	case CauseEaten:
		c.deathsEaten++
	case CauseStarved:
		c.deathsStarved++
	}
}

// FoodsEaten returns the running food count.
func (c *Collector) FoodsEaten() int { return c.foodsEaten }

// Deaths returns the running death counts by cause.
func (c *Collector) Deaths() map[DeathCause]int {
	return map[DeathCause]int{
		CauseEaten:   c.deathsEaten,
		CauseStarved: c.deathsStarved,
	}
}

// Flush produces the episode summary.
// fitness maps agent id to final score; ticks is the episode length.
func (c *Collector) Flush(ticks, survivors, species int, fitness map[int]float64) GenerationStats {
	values := make([]float64, 0, len(fitness))
	bestID, bestVal := -1, 0.0
	for _, s := range c.lifetimes.All() {
		v, ok := fitness[s.ID]
		if !ok {
			continue
		}
		values = append(values, v)
		if bestID < 0 || v > bestVal {
			bestID, bestVal = s.ID, v
		}
	}
	sum := ComputeFitnessStats(values)

	var lifetimeSum float64
	all := c.lifetimes.All()
	for _, s := range all {
		lifetimeSum += float64(s.Lifetime(ticks))
	}
	var meanLifetime float64
	if len(all) > 0 {
		meanLifetime = lifetimeSum / float64(len(all))
	}

	return GenerationStats{
		Generation:    c.generation,
		Ticks:         ticks,
		DurationMS:    time.Since(c.started).Milliseconds(),
		Agents:        len(all),
		Survivors:     survivors,
		Species:       species,
		FoodsEaten:    c.foodsEaten,
		DeathsEaten:   c.deathsEaten,
		DeathsStarved: c.deathsStarved,
		Best:          sum.Best,
		Mean:          sum.Mean,
		Std:           sum.Std,
		Worst:         sum.Worst,
		P10:           sum.P10,
		P50:           sum.P50,
		P90:           sum.P90,
		BestGenome:    bestID,
		MeanLifetime:  meanLifetime,
	}
}
