package evolve

import (
	"math/rand/v2"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/pthm-cable/critters/neural"
)

// Genome is one flat weight vector for a fixed-shape network.
type Genome struct {
	Key     int
	Species int
	Weights []float64
	Fitness float64
}

// newGenome draws every weight from N(0, weight_init_stdev).
func newGenome(key int, cfg *GenomeConfig, src rand.Source) *Genome {
	n := neural.NetworkSize(cfg.NumInputs, cfg.NumHidden, cfg.NumOutputs)
	draw := distuv.Normal{Mu: 0, Sigma: cfg.WeightInitStdev, Src: src}
	g := &Genome{Key: key, Weights: make([]float64, n)}
	for i := range g.Weights {
		g.Weights[i] = cfg.clamp(draw.Rand())
	}
	return g
}

// Network builds the controller for g.
func (g *Genome) Network(cfg *GenomeConfig) (*neural.Network, error) {
	return neural.NewNetwork(g.Key, cfg.NumInputs, cfg.NumHidden, cfg.NumOutputs, g.Weights)
}

// Distance is the mean absolute weight difference between two genomes.
func (g *Genome) Distance(other *Genome) float64 {
	if len(g.Weights) == 0 {
		return 0
	}
	return floats.Distance(g.Weights, other.Weights, 1) / float64(len(g.Weights))
}

func (g *Genome) clone(key int) *Genome {
	return &Genome{Key: key, Species: g.Species, Weights: slices.Clone(g.Weights)}
}

// crossover copies each weight from a or b with equal probability.
func crossover(key int, a, b *Genome, rng *rand.Rand) *Genome {
	child := a.clone(key)
	for i := range child.Weights {
		if rng.IntN(2) == 1 {
			child.Weights[i] = b.Weights[i]
		}
	}
	return child
}

// mutate perturbs each weight with probability weight_mutate_rate, or redraws
// it with probability weight_replace_rate.
func (g *Genome) mutate(cfg *GenomeConfig, rng *rand.Rand, src rand.Source) {
	perturb := distuv.Normal{Mu: 0, Sigma: cfg.WeightMutatePower, Src: src}
	redraw := distuv.Normal{Mu: 0, Sigma: cfg.WeightInitStdev, Src: src}
	for i, w := range g.Weights {
		r := rng.Float64()
		switch {
		case r < cfg.WeightMutateRate:
			g.Weights[i] = cfg.clamp(w + perturb.Rand())
		case r < cfg.WeightMutateRate+cfg.WeightReplaceRate:
			g.Weights[i] = cfg.clamp(redraw.Rand())
		}
	}
}

func (cfg *GenomeConfig) clamp(w float64) float64 {
	return min(max(w, cfg.WeightMinValue), cfg.WeightMaxValue)
}
