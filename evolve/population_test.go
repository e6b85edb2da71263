package evolve

import (
	"errors"
	"path/filepath"
	"slices"
	"testing"

	"github.com/pthm-cable/critters/neural"
)

func testConfig(t *testing.T) *Config {
	t.Helper()
	cfg, err := LoadConfig(defaultConfig)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	return cfg
}

// scoreByFirstWeight ranks genomes by their first weight.
func scoreByFirstWeight(genomes []*Genome) error {
	for _, g := range genomes {
		g.Fitness = g.Weights[0]
	}
	return nil
}

func TestNewPopulation(t *testing.T) {
	cfg := testConfig(t)
	p := NewPopulation(cfg, 3)

	if len(p.Genomes) != cfg.Population.PopSize {
		t.Fatalf("genomes: got %d, want %d", len(p.Genomes), cfg.Population.PopSize)
	}
	size := neural.NetworkSize(cfg.Genome.NumInputs, cfg.Genome.NumHidden, cfg.Genome.NumOutputs)
	for i, g := range p.Genomes {
		if g.Key != i+1 {
			t.Errorf("genome %d: got key %d, want %d", i, g.Key, i+1)
		}
		if len(g.Weights) != size {
			t.Errorf("genome %d: got %d weights, want %d", g.Key, len(g.Weights), size)
		}
		if g.Species == 0 {
			t.Errorf("genome %d has no species", g.Key)
		}
	}
	if p.SpeciesCount() == 0 {
		t.Error("no species after initial speciation")
	}

	again := NewPopulation(cfg, 3)
	for i := range p.Genomes {
		if !slices.Equal(p.Genomes[i].Weights, again.Genomes[i].Weights) {
			t.Fatalf("same seed gave different genome %d", p.Genomes[i].Key)
		}
	}
}

func TestRunGenerationKeepsElites(t *testing.T) {
	cfg := testConfig(t)
	p := NewPopulation(cfg, 11)

	ranked := slices.Clone(p.Genomes)
	slices.SortStableFunc(ranked, func(a, b *Genome) int {
		switch {
		case a.Weights[0] > b.Weights[0]:
			return -1
		case a.Weights[0] < b.Weights[0]:
			return 1
		}
		return 0
	})
	elites := ranked[:cfg.Population.Elitism]

	winner, err := p.RunGeneration(scoreByFirstWeight)
	if err != nil {
		t.Fatalf("RunGeneration: %v", err)
	}
	if winner != nil {
		t.Errorf("winner with no_fitness_termination: got genome %d", winner.Key)
	}
	if p.Generation != 1 {
		t.Errorf("generation: got %d, want 1", p.Generation)
	}
	if p.Best == nil || p.Best.Key != elites[0].Key || p.Best.Fitness != elites[0].Weights[0] {
		t.Errorf("best: got %+v, want genome %d with fitness %v", p.Best, elites[0].Key, elites[0].Weights[0])
	}

	if len(p.Genomes) != cfg.Population.PopSize {
		t.Fatalf("next generation size: got %d, want %d", len(p.Genomes), cfg.Population.PopSize)
	}
	byKey := map[int]*Genome{}
	for i, g := range p.Genomes {
		if i > 0 && p.Genomes[i-1].Key >= g.Key {
			t.Errorf("genomes not ordered by key at %d", i)
		}
		byKey[g.Key] = g
	}
	for _, e := range elites {
		g, ok := byKey[e.Key]
		if !ok {
			t.Errorf("elite %d dropped", e.Key)
			continue
		}
		if !slices.Equal(g.Weights, e.Weights) {
			t.Errorf("elite %d was mutated", e.Key)
		}
	}
	for _, g := range p.Genomes {
		if g.Fitness != 0 {
			t.Errorf("child %d starts with fitness %v", g.Key, g.Fitness)
		}
		for _, w := range g.Weights {
			if w < cfg.Genome.WeightMinValue || w > cfg.Genome.WeightMaxValue {
				t.Errorf("genome %d weight %v outside [%v, %v]", g.Key, w, cfg.Genome.WeightMinValue, cfg.Genome.WeightMaxValue)
			}
		}
	}
}

func TestRunGenerationThreshold(t *testing.T) {
	cfg := testConfig(t)
	cfg.Population.NoFitnessTermination = false
	cfg.Population.FitnessThreshold = 10
	p := NewPopulation(cfg, 5)
	keys := make([]int, len(p.Genomes))
	for i, g := range p.Genomes {
		keys[i] = g.Key
	}

	winner, err := p.RunGeneration(func(genomes []*Genome) error {
		genomes[3].Fitness = 12
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if winner == nil || winner.Key != keys[3] {
		t.Fatalf("winner: got %v, want genome %d", winner, keys[3])
	}
	for i, g := range p.Genomes {
		if g.Key != keys[i] {
			t.Errorf("population bred after threshold: genome %d is now %d", keys[i], g.Key)
		}
	}
}

func TestRunGenerationEvalError(t *testing.T) {
	p := NewPopulation(testConfig(t), 1)
	boom := errors.New("boom")
	if _, err := p.RunGeneration(func([]*Genome) error { return boom }); !errors.Is(err, boom) {
		t.Errorf("RunGeneration: got %v, want boom", err)
	}
	if p.Best != nil {
		t.Error("best recorded for a failed generation")
	}
	if p.Generation != 0 {
		t.Errorf("generation after failed eval: got %d, want 0", p.Generation)
	}
}

func TestSpeciateByDistance(t *testing.T) {
	cfg := testConfig(t)
	cfg.Population.PopSize = 4
	p := NewPopulation(cfg, 1)

	// Two tight clusters far apart.
	for i, g := range p.Genomes {
		base := 0.0
		if i >= 2 {
			base = 10
		}
		for j := range g.Weights {
			g.Weights[j] = base + float64(i%2)*0.01
		}
	}
	p.species = map[int]*Genome{}
	p.speciate()

	if p.SpeciesCount() != 2 {
		t.Fatalf("species: got %d, want 2", p.SpeciesCount())
	}
	g := p.Genomes
	if g[0].Species != g[1].Species || g[2].Species != g[3].Species || g[0].Species == g[2].Species {
		t.Errorf("species ids: got %d %d %d %d", g[0].Species, g[1].Species, g[2].Species, g[3].Species)
	}

	// Existing species keep their ids while members stay close.
	before := g[2].Species
	p.speciate()
	if g[2].Species != before {
		t.Errorf("species id changed: got %d, want %d", g[2].Species, before)
	}
}

func TestGenomeDistance(t *testing.T) {
	a := &Genome{Weights: []float64{0, 1, 2, 3}}
	b := &Genome{Weights: []float64{1, 1, 0, 3}}
	if got := a.Distance(b); got != 0.75 {
		t.Errorf("Distance: got %v, want 0.75", got)
	}
	if got := a.Distance(a); got != 0 {
		t.Errorf("self distance: got %v, want 0", got)
	}
}

func TestLoadCheckpoint(t *testing.T) {
	cfg := testConfig(t)
	p := NewPopulation(cfg, 2)
	path := filepath.Join(t.TempDir(), "checkpoint-0.gz")
	if err := p.SaveCheckpoint(path); err != nil {
		t.Fatalf("SaveCheckpoint: %v", err)
	}

	wider := testConfig(t)
	wider.Genome.NumInputs = 8
	if _, err := LoadCheckpoint(path, wider); !errors.Is(err, ErrTopology) {
		t.Errorf("LoadCheckpoint with 8 inputs: got %v, want ErrTopology", err)
	}

	back, err := LoadCheckpoint(path, cfg)
	if err != nil {
		t.Fatalf("LoadCheckpoint: %v", err)
	}
	// The restored rng continues where the saved one stopped.
	if _, err := back.RunGeneration(scoreByFirstWeight); err != nil {
		t.Fatal(err)
	}
	if _, err := p.RunGeneration(scoreByFirstWeight); err != nil {
		t.Fatal(err)
	}
	for i := range p.Genomes {
		if !slices.Equal(p.Genomes[i].Weights, back.Genomes[i].Weights) {
			t.Fatalf("generation bred from checkpoint differs at genome %d", p.Genomes[i].Key)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero pop", func(c *Config) { c.Population.PopSize = 0 }},
		{"elitism above pop", func(c *Config) { c.Population.Elitism = c.Population.PopSize + 1 }},
		{"no survivors", func(c *Config) { c.Population.SurvivalThreshold = 0 }},
		{"negative hidden", func(c *Config) { c.Genome.NumHidden = -1 }},
		{"inverted bounds", func(c *Config) { c.Genome.WeightMinValue = c.Genome.WeightMaxValue }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			tt.modify(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate accepted an invalid config")
			}
		})
	}
}
