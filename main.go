package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/pthm-cable/critters/config"
	"github.com/pthm-cable/critters/evolve"
	"github.com/pthm-cable/critters/game"
	"github.com/pthm-cable/critters/neural"
	"github.com/pthm-cable/critters/stream"
	"github.com/pthm-cable/critters/telemetry"
	"github.com/pthm-cable/critters/ui"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	preset := flag.String("preset", "", "Embedded preset to apply before -config")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output per-generation stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs, chart and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	generations := flag.Int("generations", 0, "Generations to run (0 = use config)")
	evolveConfig := flag.String("evolve-config", "", "Evolution ini file (empty = embedded default)")
	checkpointDir := flag.String("checkpoint-dir", "", "Directory for population checkpoints")
	resume := flag.String("resume", "", "Population checkpoint to resume from")
	streamAddr := flag.String("stream", "", "Serve spectator websocket on this address (e.g. :8080)")
	baseline := flag.String("baseline", "", "Run a fixed controller instead of evolving: seeker | turner | idle | linear")
	policy := flag.String("policy", "", "Linear policy JSON for -baseline linear (see cmd/optimize)")
	baselineAgents := flag.Int("baseline-agents", 10, "Agents per generation in baseline mode")
	listPresets := flag.Bool("presets", false, "List embedded presets and exit")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if *listPresets {
		for _, name := range config.Presets() {
			fmt.Println(name)
		}
		return
	}

	cfg, err := config.Load(*configPath, *preset)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *outputDir != "" {
		cfg.Telemetry.OutputDir = *outputDir
	}
	if *evolveConfig != "" {
		cfg.Evolve.ConfigPath = *evolveConfig
	}
	if *checkpointDir != "" {
		cfg.Evolve.CheckpointDir = *checkpointDir
	}
	if *streamAddr != "" {
		cfg.Stream.Addr = *streamAddr
	}
	if *generations > 0 {
		cfg.Episode.Generations = *generations
	}

	// Set up seed
	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, runOptions{
		seed:           rngSeed,
		headless:       *headless,
		logStats:       *logStats,
		resume:         *resume,
		baseline:       *baseline,
		baselineAgents: *baselineAgents,
		policy:         *policy,
	}); err != nil {
		if errors.Is(err, game.ErrQuit) || errors.Is(err, context.Canceled) {
			slog.Info("stopped by user")
			return
		}
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
}

type runOptions struct {
	seed           int64
	headless       bool
	logStats       bool
	resume         string
	baseline       string
	baselineAgents int
	policy         string
}

func run(ctx context.Context, cfg *config.Config, opts runOptions) error {
	output, err := telemetry.NewOutputManager(cfg.Telemetry.OutputDir)
	if err != nil {
		return err
	}
	defer output.Close()
	if err := output.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
	}

	var renderers game.MultiRenderer
	var window *ui.Window
	if !opts.headless {
		window = ui.Open(cfg, "Critters")
		defer window.Close()
		renderers = append(renderers, window)
	}
	if cfg.Stream.Addr != "" {
		hub := stream.NewHub(cfg.Stream.Every)
		defer hub.Close()
		go func() {
			if err := hub.Serve(ctx, cfg.Stream.Addr); err != nil {
				slog.Error("spectator stream stopped", "error", err)
			}
		}()
		renderers = append(renderers, hub)
	}

	var renderer game.Renderer
	if len(renderers) > 0 {
		renderer = renderers
	}

	slog.Info("starting simulation",
		"seed", opts.seed,
		"encoder", cfg.Sensors.Encoder,
		"movement", cfg.Movement.Model,
		"inputs", cfg.Derived.NumInputs,
		"generations", cfg.Episode.Generations,
		"headless", opts.headless,
	)

	if opts.baseline != "" {
		runner := newRunner(cfg, opts, renderer, output, nil, window)
		defer finish(runner)
		return runBaseline(ctx, cfg, runner, opts)
	}

	evolveDir := cfg.Telemetry.OutputDir
	if evolveDir == "" {
		evolveDir, err = os.MkdirTemp("", "critters-evolve-")
		if err != nil {
			return fmt.Errorf("creating evolution config dir: %w", err)
		}
		defer os.RemoveAll(evolveDir)
	}
	evolvePath, err := evolve.ResolveConfig(cfg.Evolve.ConfigPath, evolveDir, cfg.Derived.NumInputs, cfg.Derived.NumOutputs)
	if err != nil {
		return err
	}

	trainer, err := evolve.NewTrainer(evolve.Options{
		ConfigPath:      evolvePath,
		Resume:          opts.resume,
		CheckpointDir:   cfg.Evolve.CheckpointDir,
		CheckpointEvery: cfg.Evolve.CheckpointEvery,
		Seed:            opts.seed,
	})
	if err != nil {
		return err
	}

	runner := newRunner(cfg, opts, renderer, output, game.ResumeSession(trainer.NextGeneration()), window)
	defer finish(runner)

	if err := trainer.Run(ctx, cfg.Episode.Generations, runner.Evaluate); err != nil {
		return err
	}
	if best := trainer.Best(); best != nil {
		slog.Info("training finished", "generations", trainer.Generation(), "best_genome", best.Key, "best_fitness", best.Fitness)
	}
	if cfg.Evolve.CheckpointDir != "" {
		if _, err := trainer.Checkpoint(); err != nil {
			slog.Error("failed to save final checkpoint", "error", err)
		}
	}
	return nil
}

func newRunner(cfg *config.Config, opts runOptions, r game.Renderer, output *telemetry.OutputManager, session *game.Session, window *ui.Window) *game.Runner {
	runner := game.NewRunner(cfg, game.RunnerOptions{
		Seed:       opts.seed,
		Renderer:   r,
		Output:     output,
		HallOfFame: hallOfFame(output, opts.resume != ""),
		Session:    session,
		LogStats:   opts.logStats,
	})
	if window != nil {
		window.SetPerf(runner.Perf())
	}
	return runner
}

// hallOfFame continues the hall written by an earlier run into the same
// output directory when resuming, and starts a fresh one otherwise.
func hallOfFame(output *telemetry.OutputManager, resuming bool) *telemetry.HallOfFame {
	const size = 10
	if resuming && output != nil {
		path := filepath.Join(output.Dir(), "hall_of_fame.json")
		if _, err := os.Stat(path); err == nil {
			hof, err := telemetry.LoadHallOfFameFromFile(path, size)
			if err == nil {
				return hof
			}
			slog.Error("failed to load hall of fame", "error", err)
		}
	}
	return telemetry.NewHallOfFame(size)
}

func finish(runner *game.Runner) {
	if err := runner.Finish(); err != nil {
		slog.Error("failed to write run summary", "error", err)
	}
}

// runBaseline evaluates a fixed controller for every generation.
func runBaseline(ctx context.Context, cfg *config.Config, runner *game.Runner, opts runOptions) error {
	var ctrl neural.Controller
	switch opts.baseline {
	case "seeker":
		ctrl = neural.Seeker{In: cfg.Derived.NumInputs, Deadband: cfg.Agent.Speed / 2}
	case "turner":
		ctrl = neural.Turner{In: cfg.Derived.NumInputs, Tolerance: cfg.Agent.TurnRate}
	case "idle":
		ctrl = neural.Idle{In: cfg.Derived.NumInputs}
	case "linear":
		if opts.policy == "" {
			return fmt.Errorf("baseline linear needs -policy")
		}
		l, err := neural.LoadLinear(opts.policy)
		if err != nil {
			return err
		}
		ctrl = l
	default:
		return fmt.Errorf("unknown baseline %q", opts.baseline)
	}

	for gen := 0; gen < cfg.Episode.Generations; gen++ {
		cands := make([]game.Candidate, opts.baselineAgents)
		for i := range cands {
			cands[i] = game.Candidate{ID: i + 1, Controller: ctrl, Fitness: new(float64)}
		}
		if _, err := runner.Evaluate(ctx, cands, 0); err != nil {
			return err
		}
	}
	return nil
}
