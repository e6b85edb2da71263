// Package evolve trains creature controllers by neuroevolution over
// fixed-shape feed-forward networks.
package evolve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pthm-cable/critters/game"
)

// EvalFunc scores one generation. It must accumulate each candidate's score
// through Candidate.Fitness. game.Runner.Evaluate satisfies it.
type EvalFunc func(ctx context.Context, candidates []game.Candidate, speciesCount int) (*game.Result, error)

// Options configures a Trainer.
type Options struct {
	ConfigPath      string // Resolved evolution ini (see ResolveConfig)
	Resume          string // Checkpoint to continue from; empty starts fresh
	CheckpointDir   string // Empty disables checkpoints
	CheckpointEvery int
	Seed            int64 // Seeds a fresh population; a checkpoint carries its own
}

// Trainer owns a Population and its config.
type Trainer struct {
	pop  *Population
	cfg  *Config
	opts Options
}

// NewTrainer loads the evolution config and creates or restores the
// population.
func NewTrainer(opts Options) (*Trainer, error) {
	cfg, err := LoadConfig(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	var pop *Population
	if opts.Resume != "" {
		pop, err = LoadCheckpoint(opts.Resume, cfg)
		if err != nil {
			return nil, fmt.Errorf("resuming from %s: %w", opts.Resume, err)
		}
		slog.Info("resumed population", "checkpoint", opts.Resume, "generation", pop.Generation, "genomes", len(pop.Genomes))
	} else {
		pop = NewPopulation(cfg, uint64(opts.Seed))
	}
	return &Trainer{pop: pop, cfg: cfg, opts: opts}, nil
}

// Generation returns the number of completed generations.
func (t *Trainer) Generation() int { return t.pop.Generation }

// NextGeneration returns the number the population carries while the next
// Run step evaluates it; sessions feeding this trainer should resume from it.
func (t *Trainer) NextGeneration() int { return t.pop.Generation + 1 }

// Best returns the best genome seen so far, or nil before the first generation.
func (t *Trainer) Best() *Genome { return t.pop.Best }

// SpeciesCount returns the number of species in the current generation.
func (t *Trainer) SpeciesCount() int { return t.pop.SpeciesCount() }

// Candidates builds one controller per genome, in genome order.
// Genome fitness is reset to zero. Genomes whose network cannot be built
// are left out and keep a zero score.
func (t *Trainer) Candidates(genomes []*Genome) []game.Candidate {
	cands := make([]game.Candidate, 0, len(genomes))
	for _, g := range genomes {
		g.Fitness = 0

		net, err := g.Network(&t.cfg.Genome)
		if err != nil {
			slog.Warn("skipping genome", "genome", g.Key, "error", err)
			continue
		}
		cands = append(cands, game.Candidate{
			ID:         g.Key,
			Species:    g.Species,
			Controller: net,
			Fitness:    &g.Fitness,
		})
	}
	return cands
}

// Run trains for up to generations generations. It stops early when the
// fitness threshold is met, when ctx is done or when eval fails; the
// error from eval (for example game.ErrQuit) is returned unchanged.
func (t *Trainer) Run(ctx context.Context, generations int, eval EvalFunc) error {
	for i := 0; i < generations; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		var evalErr error
		winner, err := t.pop.RunGeneration(func(genomes []*Genome) error {
			cands := t.Candidates(genomes)
			if len(cands) == 0 {
				return errors.New("no genome produced a usable network")
			}
			_, evalErr = eval(ctx, cands, t.SpeciesCount())
			return evalErr
		})
		if evalErr != nil {
			return evalErr
		}
		if err != nil {
			return err
		}
		t.logBest()

		if t.opts.CheckpointDir != "" && t.opts.CheckpointEvery > 0 && t.pop.Generation%t.opts.CheckpointEvery == 0 {
			if _, err := t.Checkpoint(); err != nil {
				slog.Error("failed to save checkpoint", "error", err)
			}
		}

		if winner != nil {
			slog.Info("fitness threshold reached", "generation", t.pop.Generation, "genome", winner.Key, "fitness", winner.Fitness)
			return nil
		}
	}
	return nil
}

// logBest reports the size of the best network found so far.
func (t *Trainer) logBest() {
	best := t.pop.Best
	if best == nil {
		return
	}
	net, err := best.Network(&t.cfg.Genome)
	if err != nil {
		return
	}
	slog.Info("best genome",
		"generation", t.pop.Generation,
		"genome", best.Key,
		"fitness", best.Fitness,
		"nodes", net.NodeCount(),
		"connections", net.ConnectionCount(),
		"species", t.pop.SpeciesCount(),
	)
}

// Checkpoint saves the population into the checkpoint directory and returns
// the file path.
func (t *Trainer) Checkpoint() (string, error) {
	if t.opts.CheckpointDir == "" {
		return "", errors.New("no checkpoint directory configured")
	}
	if err := os.MkdirAll(t.opts.CheckpointDir, 0755); err != nil {
		return "", fmt.Errorf("creating checkpoint dir: %w", err)
	}
	path := filepath.Join(t.opts.CheckpointDir, fmt.Sprintf("checkpoint-%d.gz", t.pop.Generation))
	if err := t.pop.SaveCheckpoint(path); err != nil {
		return "", err
	}
	slog.Info("checkpoint saved", "path", path, "generation", t.pop.Generation)
	return path, nil
}
