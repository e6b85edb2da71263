package telemetry

import (
	"math"
	"testing"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
		{"p50 even", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"p10", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.1, 1.9},
		{"p90", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestComputeFitnessStats(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	got := ComputeFitnessStats(values)

	if got.Best != 10 || got.Worst != 1 {
		t.Errorf("best/worst = %v/%v, want 10/1", got.Best, got.Worst)
	}
	if math.Abs(got.Mean-5.5) > 0.001 {
		t.Errorf("mean = %v, want 5.5", got.Mean)
	}
	// Population standard deviation of 1..10
	if math.Abs(got.Std-2.8723) > 0.001 {
		t.Errorf("std = %v, want ~2.8723", got.Std)
	}
	if math.Abs(got.P10-1.9) > 0.001 || math.Abs(got.P90-9.1) > 0.001 {
		t.Errorf("p10/p90 = %v/%v, want 1.9/9.1", got.P10, got.P90)
	}
	if values[0] != 1 || values[9] != 10 {
		t.Error("input slice must not be reordered")
	}
}

func TestComputeFitnessStatsEmpty(t *testing.T) {
	if got := ComputeFitnessStats(nil); got != (FitnessSummary{}) {
		t.Errorf("empty input should return zeros, got %+v", got)
	}
}

func TestCollectorFlush(t *testing.T) {
	c := NewCollector(4)
	c.RecordSpawn(10, 1, 0, 600)
	c.RecordSpawn(11, 1, 0, 600)
	c.RecordSpawn(12, 2, 0, 600)

	c.RecordEat(10, 1200)
	c.RecordEat(10, 1700)
	c.RecordDeath(11, 50, CauseEaten)
	c.RecordDeath(12, 600, CauseStarved)
	c.RecordDeath(12, 700, CauseEaten) // already dead

	stats := c.Flush(1800, 1, 2, map[int]float64{10: 380, 11: -15, 12: 60})

	if stats.Generation != 4 || stats.Agents != 3 || stats.Survivors != 1 {
		t.Errorf("header: got gen=%d agents=%d survivors=%d", stats.Generation, stats.Agents, stats.Survivors)
	}
	if stats.DeathsEaten != 1 || stats.DeathsStarved != 1 {
		t.Errorf("deaths: got eaten=%d starved=%d, want 1/1", stats.DeathsEaten, stats.DeathsStarved)
	}
	if stats.FoodsEaten != 2 {
		t.Errorf("foods eaten: got %d, want 2", stats.FoodsEaten)
	}
	if stats.BestGenome != 10 || stats.Best != 380 || stats.Worst != -15 {
		t.Errorf("best: got genome=%d best=%v worst=%v", stats.BestGenome, stats.Best, stats.Worst)
	}
	if got := c.Lifetimes().Get(12); got.DeathTick != 600 || got.Cause != CauseStarved {
		t.Errorf("second death should be ignored: got %+v", got)
	}
	if got := c.Lifetimes().Get(10); got.FoodsEaten != 2 || got.PeakLife != 1700 {
		t.Errorf("eater lifetime: got %+v", got)
	}
	// Lifetimes: 1800 (alive), 50, 600
	if math.Abs(stats.MeanLifetime-(1800+50+600)/3.0) > 0.001 {
		t.Errorf("mean lifetime: got %v", stats.MeanLifetime)
	}
}
