package game

import (
	"context"
	"log/slog"
	"math/rand"

	"github.com/pthm-cable/critters/config"
	"github.com/pthm-cable/critters/telemetry"
)

// RunnerOptions holds the collaborators of a Runner. Zero values disable
// the corresponding output.
type RunnerOptions struct {
	Seed          int64
	Renderer      Renderer                 // nil = headless
	Output        *telemetry.OutputManager // nil = no files
	HallOfFame    *telemetry.HallOfFame    // nil = not tracked
	Session       *Session                 // nil = new session at FirstGeneration
	LogStats      bool                     // Log per-generation stats and perf
	StatsCallback func(telemetry.GenerationStats)
}

// Runner evaluates successive generations, one episode each, and takes care
// of the per-generation bookkeeping.
type Runner struct {
	cfg      *config.Config
	session  *Session
	renderer Renderer
	rng      *rand.Rand

	perfCollector    *telemetry.PerfCollector
	outputManager    *telemetry.OutputManager
	hallOfFame       *telemetry.HallOfFame
	bookmarkDetector *telemetry.BookmarkDetector
	logStats         bool
	statsCallback    func(telemetry.GenerationStats)
}

// NewRunner creates a runner for cfg.
func NewRunner(cfg *config.Config, opts RunnerOptions) *Runner {
	session := opts.Session
	if session == nil {
		session = NewSession()
	}
	return &Runner{
		cfg:              cfg,
		session:          session,
		renderer:         opts.Renderer,
		rng:              rand.New(rand.NewSource(opts.Seed)),
		perfCollector:    telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		outputManager:    opts.Output,
		hallOfFame:       opts.HallOfFame,
		bookmarkDetector: telemetry.NewBookmarkDetector(10, 10),
		logStats:         opts.LogStats,
		statsCallback:    opts.StatsCallback,
	}
}

// Session returns the runner's session.
func (r *Runner) Session() *Session { return r.session }

// Evaluate runs one episode for candidates and records its outcome.
// Fitness is accumulated through each candidate's Fitness pointer.
func (r *Runner) Evaluate(ctx context.Context, candidates []Candidate, speciesCount int) (*Result, error) {
	ep, err := NewEpisode(r.cfg, r.session, candidates, Options{
		Rand:         r.rng,
		Perf:         r.perfCollector,
		SpeciesCount: speciesCount,
	})
	if err != nil {
		return nil, err
	}

	res, err := ep.Run(ctx, r.renderer)
	if err != nil {
		return nil, err
	}
	r.flushTelemetry(ep, res)
	return res, nil
}

// flushTelemetry handles logging, files and bookmarks for a finished generation.
func (r *Runner) flushTelemetry(ep *Episode, res *Result) {
	stats := res.Stats
	perfStats := r.perfCollector.Stats()

	if r.statsCallback != nil {
		r.statsCallback(stats)
	}

	if r.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if r.hallOfFame != nil {
		if added := r.hallOfFame.Consider(res.Generation, res.Ticks, ep.Collector().Lifetimes(), res.Fitness); added > 0 {
			slog.Debug("hall of fame updated", "generation", res.Generation, "added", added)
		}
	}

	if r.outputManager != nil {
		if err := r.outputManager.WriteGeneration(stats); err != nil {
			slog.Error("failed to write generation", "error", err)
		}
		if err := r.outputManager.WritePerf(perfStats, res.Generation); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}

	for _, bm := range r.bookmarkDetector.Check(stats) {
		if r.logStats {
			bm.LogBookmark()
		}
		if r.outputManager != nil {
			if err := r.outputManager.WriteBookmark(bm); err != nil {
				slog.Error("failed to write bookmark", "error", err)
			}
		}
	}
}

// Finish writes the end-of-run artifacts: hall of fame and fitness chart.
func (r *Runner) Finish() error {
	if r.outputManager == nil {
		return nil
	}
	if r.hallOfFame != nil {
		if err := r.outputManager.WriteHallOfFame(r.hallOfFame); err != nil {
			return err
		}
	}
	if r.session.History().Len() == 0 {
		return nil
	}
	return r.outputManager.WriteChart(r.session.History(), r.cfg.Telemetry.ChartWidth, r.cfg.Telemetry.ChartHeight)
}

// Perf exposes the tick timing collector.
func (r *Runner) Perf() *telemetry.PerfCollector { return r.perfCollector }
