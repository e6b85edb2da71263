package main

import (
	"context"
	"math"
	"sync"

	"github.com/pthm-cable/critters/config"
	"github.com/pthm-cable/critters/game"
	"github.com/pthm-cable/critters/neural"
	"github.com/pthm-cable/critters/telemetry"
)

// FitnessEvaluator runs headless episodes and scores a policy.
type FitnessEvaluator struct {
	params *ParamVector
	cfg    *config.Config
	seeds  []int64
	agents int

	mu          sync.Mutex
	bestFitness float64
	bestHOF     *telemetry.HallOfFame
	lastFoods   float64 // mean foods eaten per episode in the most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, cfg *config.Config, seeds []int64, agents int) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		cfg:         cfg,
		seeds:       seeds,
		agents:      agents,
		bestFitness: math.Inf(1),
	}
}

// BestHallOfFame returns the hall of fame from the best evaluation.
func (fe *FitnessEvaluator) BestHallOfFame() *telemetry.HallOfFame {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestHOF
}

// LastFoods returns the mean foods eaten in the most recent evaluation.
func (fe *FitnessEvaluator) LastFoods() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastFoods
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	mean  float64
	foods int
	hof   *telemetry.HallOfFame
	err   error
}

// Evaluate scores raw parameter values (lower = better): the negated mean
// agent fitness across seeds.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	policy := fe.params.Policy(x)

	// Seeds run in parallel; each gets its own runner and world.
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runSeed(policy, s)
		}(i, seed)
	}
	wg.Wait()

	var total, foods float64
	bestSeed := math.Inf(-1)
	var bestHOF *telemetry.HallOfFame
	for _, r := range results {
		if r.err != nil {
			return math.Inf(1)
		}
		total += r.mean
		foods += float64(r.foods)
		if r.mean > bestSeed {
			bestSeed, bestHOF = r.mean, r.hof
		}
	}
	n := float64(len(results))
	fitness := -total / n

	fe.mu.Lock()
	fe.lastFoods = foods / n
	if fitness < fe.bestFitness {
		fe.bestFitness = fitness
		fe.bestHOF = bestHOF
	}
	fe.mu.Unlock()

	return fitness
}

func (fe *FitnessEvaluator) runSeed(policy neural.Linear, seed int64) seedResult {
	hof := telemetry.NewHallOfFame(5)
	runner := game.NewRunner(fe.cfg, game.RunnerOptions{Seed: seed, HallOfFame: hof})

	cands := make([]game.Candidate, fe.agents)
	for i := range cands {
		cands[i] = game.Candidate{ID: i + 1, Controller: policy, Fitness: new(float64)}
	}
	res, err := runner.Evaluate(context.Background(), cands, 0)
	if err != nil {
		return seedResult{err: err}
	}
	return seedResult{mean: res.Stats.Mean, foods: res.FoodsEaten, hof: hof}
}
