package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// GenerationStats holds aggregated statistics for one finished episode.
type GenerationStats struct {
	Generation int   `csv:"generation"`
	Ticks      int   `csv:"ticks"`
	DurationMS int64 `csv:"duration_ms"`

	// Population
	Agents    int `csv:"agents"`
	Survivors int `csv:"survivors"`
	Species   int `csv:"species"`

	// Events during the episode
	FoodsEaten    int `csv:"foods_eaten"`
	DeathsEaten   int `csv:"deaths_eaten"`
	DeathsStarved int `csv:"deaths_starved"`

	// Fitness distribution
	Best       float64 `csv:"best"`
	Mean       float64 `csv:"mean"`
	Std        float64 `csv:"std"`
	Worst      float64 `csv:"worst"`
	P10        float64 `csv:"p10"`
	P50        float64 `csv:"p50"`
	P90        float64 `csv:"p90"`
	BestGenome int     `csv:"best_genome"`

	// Lifetimes
	MeanLifetime float64 `csv:"mean_lifetime"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// FitnessSummary is the distribution of final scores.
type FitnessSummary struct {
	Best, Mean, Std, Worst float64
	P10, P50, P90          float64
}

// ComputeFitnessStats summarizes a set of scores. Empty input yields zeros.
func ComputeFitnessStats(values []float64) FitnessSummary {
	if len(values) == 0 {
		return FitnessSummary{}
	}

	mean, std := stat.PopMeanStdDev(values, nil)

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return FitnessSummary{
		Best:  floats.Max(values),
		Mean:  mean,
		Std:   std,
		Worst: floats.Min(values),
		P10:   Percentile(sorted, 0.10),
		P50:   Percentile(sorted, 0.50),
		P90:   Percentile(sorted, 0.90),
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (s GenerationStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("generation", s.Generation),
		slog.Int("ticks", s.Ticks),
		slog.Int64("duration_ms", s.DurationMS),
		slog.Int("agents", s.Agents),
		slog.Int("survivors", s.Survivors),
		slog.Int("species", s.Species),
		slog.Int("foods_eaten", s.FoodsEaten),
		slog.Int("deaths_eaten", s.DeathsEaten),
		slog.Int("deaths_starved", s.DeathsStarved),
		slog.Float64("best", s.Best),
		slog.Float64("mean", s.Mean),
		slog.Float64("std", s.Std),
		slog.Float64("worst", s.Worst),
		slog.Float64("p50", s.P50),
		slog.Int("best_genome", s.BestGenome),
		slog.Float64("mean_lifetime", s.MeanLifetime),
	)
}

// LogStats logs the generation stats using slog.
func (s GenerationStats) LogStats() {
	slog.Info("stats",
		"generation", s.Generation,
		"ticks", s.Ticks,
		"survivors", s.Survivors,
		"species", s.Species,
		"foods_eaten", s.FoodsEaten,
		"deaths_eaten", s.DeathsEaten,
		"deaths_starved", s.DeathsStarved,
		"best", s.Best,
		"mean", s.Mean,
		"p90", s.P90,
	)
}
