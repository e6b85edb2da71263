// Package game runs simulation episodes: one generation of candidates living
// in a shared world until they all die or the tick budget runs out.
package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/critters/components"
	"github.com/pthm-cable/critters/config"
	"github.com/pthm-cable/critters/neural"
	"github.com/pthm-cable/critters/systems"
	"github.com/pthm-cable/critters/telemetry"
)

var (
	// ErrWidthMismatch means an encoder, controller and action disagree on
	// vector widths.
	ErrWidthMismatch = errors.New("width mismatch")
	// ErrQuit is returned by a renderer when the user closes the view.
	ErrQuit = errors.New("quit requested")
	// ErrEpisodeEnded is returned by Step after the episode has finished.
	ErrEpisodeEnded = errors.New("episode ended")
	// ErrEpisodeFailed is returned by Step after a tick was aborted by an
	// error; part of that tick already ran, so the episode cannot continue.
	ErrEpisodeFailed = errors.New("episode failed")
)

// State is the episode lifecycle state.
type State uint8

const (
	Running State = iota
	Ended
	Failed
)

func (s State) String() string {
	switch s {
	case Ended:
		return "ended"
	case Failed:
		return "failed"
	}
	return "running"
}

// Candidate is one agent to place in an episode.
type Candidate struct {
	ID         int // Genome key or any unique id
	Species    int // Lineage id for colouring (<= 0 = unknown)
	Controller neural.Controller
	Fitness    *float64 // Score accumulator; may be nil
}

// Options tune an episode beyond the config.
type Options struct {
	Rand         *rand.Rand               // Required source of randomness
	Perf         *telemetry.PerfCollector // Optional tick timing
	SpeciesCount int                      // Reported in frames
}

// Result summarizes a finished episode.
type Result struct {
	Generation int
	Ticks      int
	Fitness    map[int]float64 // Final score by candidate id
	Survivors  []int           // Ids alive at the end, spawn order
	Deaths     map[telemetry.DeathCause]int
	FoodsEaten int
	Stats      telemetry.GenerationStats
}

// Episode is one generation's simulation.
type Episode struct {
	cfg     *config.Config
	session *Session
	world   *ecs.World
	rng     *rand.Rand
	perf    *telemetry.PerfCollector

	encoder systems.Encoder
	mover   systems.Mover
	walk    *systems.PredatorWalk
	spawner *systems.Spawner

	// Entity mappers
	agentMap *ecs.Map7[
		components.Position,
		components.Heading,
		components.Body,
		components.Life,
		components.Agent,
		components.Brain,
		components.Fitness,
	]
	foodMap     *ecs.Map2[components.Position, components.Food]
	predatorMap *ecs.Map2[components.Position, components.Predator]

	// Rosters in spawn order. Agents are dropped at the end of the tick in
	// which they die; foods and predators are mirrored by position caches.
	agents      []ecs.Entity
	spare       []ecs.Entity // next tick's roster, swapped with agents
	foods       []ecs.Entity
	foodPos     []r2.Vec
	predators   []ecs.Entity
	predatorPos []r2.Vec

	collector  *telemetry.Collector
	fitness    map[int]*float64
	order      []int
	generation int
	species    int
	tick       int
	state      State
	err        error // cause of Failed
	result     *Result
	obs        []float64
}

// NewEpisode builds a fresh world for session's next generation.
func NewEpisode(cfg *config.Config, session *Session, candidates []Candidate, opts Options) (*Episode, error) {
	if opts.Rand == nil {
		return nil, errors.New("episode needs a random source")
	}
	encoder, err := systems.NewEncoder(cfg)
	if err != nil {
		return nil, err
	}
	mover, err := systems.NewMover(cfg)
	if err != nil {
		return nil, err
	}
	seen := make(map[int]bool, len(candidates))
	for _, c := range candidates {
		if seen[c.ID] {
			return nil, fmt.Errorf("duplicate candidate id %d", c.ID)
		}
		seen[c.ID] = true
		if c.Controller == nil {
			return nil, fmt.Errorf("candidate %d has no controller", c.ID)
		}
		if err := neural.CheckShape(c.Controller, encoder.Width(), config.ActionWidth); err != nil {
			return nil, fmt.Errorf("%w: candidate %d: %v", ErrWidthMismatch, c.ID, err)
		}
	}

	world := ecs.NewWorld()
	e := &Episode{
		cfg:     cfg,
		session: session,
		world:   world,
		rng:     opts.Rand,
		perf:    opts.Perf,
		encoder: encoder,
		mover:   mover,
		walk:    systems.NewPredatorWalk(cfg, opts.Rand),
		spawner: systems.NewSpawner(cfg, opts.Rand),

		agentMap: ecs.NewMap7[
			components.Position,
			components.Heading,
			components.Body,
			components.Life,
			components.Agent,
			components.Brain,
			components.Fitness,
		](world),
		foodMap:     ecs.NewMap2[components.Position, components.Food](world),
		predatorMap: ecs.NewMap2[components.Position, components.Predator](world),

		fitness:    make(map[int]*float64, len(candidates)),
		generation: session.Begin(),
		species:    opts.SpeciesCount,
		obs:        make([]float64, 0, encoder.Width()),
	}
	e.collector = telemetry.NewCollector(e.generation)

	for i := 0; i < cfg.Food.Count; i++ {
		e.spawnFood()
	}
	for i := 0; i < cfg.Predator.Count; i++ {
		e.spawnPredator()
	}
	for i, c := range candidates {
		e.spawnAgent(i, c)
	}
	if len(e.agents) == 0 {
		e.finish()
	}

	slog.Debug("episode started",
		"generation", e.generation,
		"agents", len(e.agents),
		"foods", len(e.foods),
		"predators", len(e.predators),
	)
	return e, nil
}

func (e *Episode) spawnFood() {
	pos := e.spawner.FoodPosition()
	food := components.Food{Radius: e.cfg.Food.Radius}
	ent := e.foodMap.NewEntity(&pos, &food)
	e.foods = append(e.foods, ent)
	e.foodPos = append(e.foodPos, pos.Vec())
}

func (e *Episode) spawnPredator() {
	pos := e.spawner.PredatorPosition()
	p := components.Predator{Speed: e.cfg.Predator.Speed, Radius: e.cfg.Predator.Radius}
	e.walk.Resample(&p)
	ent := e.predatorMap.NewEntity(&pos, &p)
	e.predators = append(e.predators, ent)
	e.predatorPos = append(e.predatorPos, pos.Vec())
}

func (e *Episode) spawnAgent(slot int, c Candidate) {
	if c.Fitness == nil {
		c.Fitness = new(float64)
	}
	pos := e.spawner.AgentPosition(e.mover)
	heading := e.spawner.Heading()
	body := components.Body{Size: e.cfg.Agent.Size, Centered: e.mover.Centered()}
	life := components.Life{Ticks: e.cfg.Scoring.InitialLife, Max: e.cfg.Scoring.InitialLife}
	agent := components.Agent{ID: c.ID, Slot: slot, Species: c.Species}
	brain := components.Brain{Controller: c.Controller}
	fit := components.Fitness{Value: c.Fitness}

	ent := e.agentMap.NewEntity(&pos, &heading, &body, &life, &agent, &brain, &fit)
	e.agents = append(e.agents, ent)
	e.fitness[c.ID] = c.Fitness
	e.order = append(e.order, c.ID)
	e.collector.RecordSpawn(c.ID, c.Species, 0, life.Ticks)
}

// State returns the lifecycle state.
func (e *Episode) State() State { return e.state }

// Tick returns the number of completed ticks.
func (e *Episode) Tick() int { return e.tick }

// Generation returns the generation number this episode belongs to.
func (e *Episode) Generation() int { return e.generation }

// Alive returns the number of agents still in the world.
func (e *Episode) Alive() int { return len(e.agents) }

// Step executes one tick. After the episode has ended it returns
// ErrEpisodeEnded and changes nothing. An error from a controller aborts
// the tick and fails the episode: the roster still matches the world, and
// every later Step returns ErrEpisodeFailed.
func (e *Episode) Step() error {
	switch e.state {
	case Ended:
		return ErrEpisodeEnded
	case Failed:
		return fmt.Errorf("%w: %v", ErrEpisodeFailed, e.err)
	}

	e.phase(telemetry.PhasePredators)
	e.stepPredators()

	survivors := e.spare[:0]
	for i, ent := range e.agents {
		alive, err := e.stepAgent(ent)
		if err != nil {
			// The failing agent and the ones after it are still in the world.
			survivors = append(survivors, e.agents[i:]...)
			e.swapRoster(survivors)
			e.state, e.err = Failed, err
			return err
		}
		if alive {
			survivors = append(survivors, ent)
		}
	}
	e.swapRoster(survivors)
	e.tick++

	if len(e.agents) == 0 || e.tick >= e.cfg.Episode.TickBudget {
		e.finish()
	}
	return nil
}

// swapRoster installs next as the agent roster and keeps the old backing
// array, cleared of stale handles, for the following tick.
func (e *Episode) swapRoster(next []ecs.Entity) {
	clear(e.agents)
	e.spare = e.agents[:0]
	e.agents = next
}

func (e *Episode) phase(name string) {
	if e.perf != nil {
		e.perf.StartPhase(name)
	}
}

func (e *Episode) stepPredators() {
	for i, ent := range e.predators {
		pos, p := e.predatorMap.Get(ent)
		e.walk.Step(pos, p)
		e.predatorPos[i] = pos.Vec()
	}
}

// stepAgent runs the per-agent pipeline and reports whether the agent survives.
func (e *Episode) stepAgent(ent ecs.Entity) (bool, error) {
	pos, heading, _, life, agent, brain, fit := e.agentMap.Get(ent)
	scoring := &e.cfg.Scoring

	e.phase(telemetry.PhaseSense)
	e.obs = e.encoder.Encode(e.obs, systems.Observer{Pos: pos.Vec(), Heading: heading.Angle}, e.foodPos, e.predatorPos)

	e.phase(telemetry.PhaseThink)
	out, err := brain.Controller.Decide(e.obs)
	if err != nil {
		if errors.Is(err, neural.ErrShape) {
			return false, fmt.Errorf("%w: agent %d: %v", ErrWidthMismatch, agent.ID, err)
		}
		return false, fmt.Errorf("agent %d decide: %w", agent.ID, err)
	}
	brain.Remember(e.obs, out)
	action, err := systems.DecodeAction(out, e.cfg.Agent.ActivationThreshold)
	if err != nil {
		return false, fmt.Errorf("%w: agent %d: %v", ErrWidthMismatch, agent.ID, err)
	}

	e.phase(telemetry.PhaseMove)
	e.mover.Move(pos, heading, action)

	e.phase(telemetry.PhaseLifecycle)
	here := pos.Vec()
	exhausted := life.Tick()

	cause := telemetry.CauseStarved
	if systems.AnyWithin(here, e.predatorPos, e.cfg.Derived.CollisionRadius) >= 0 {
		life.Ticks = 0
		fit.Add(-scoring.PredatorPenalty)
		cause = telemetry.CauseEaten
		exhausted = true
	}

	if exhausted {
		e.collector.RecordDeath(agent.ID, e.tick+1, cause)
		e.world.RemoveEntity(ent)
		return false, nil
	}

	fit.Add(scoring.SurvivalBonus)

	if i := systems.NearestWithin(here, e.foodPos, scoring.EatRadius); i >= 0 {
		fit.Add(scoring.EatReward)
		life.Gain(scoring.EatLifeBonus)
		e.collector.RecordEat(agent.ID, life.Ticks)
		e.replaceFood(i)
	}
	return true, nil
}

// replaceFood removes food i and appends a fresh one, keeping the count fixed.
func (e *Episode) replaceFood(i int) {
	e.world.RemoveEntity(e.foods[i])
	e.foods = append(e.foods[:i], e.foods[i+1:]...)
	e.foodPos = append(e.foodPos[:i], e.foodPos[i+1:]...)
	e.spawnFood()
}

func (e *Episode) finish() {
	e.state = Ended

	res := &Result{
		Generation: e.generation,
		Ticks:      e.tick,
		Fitness:    make(map[int]float64, len(e.fitness)),
		Deaths:     e.collector.Deaths(),
		FoodsEaten: e.collector.FoodsEaten(),
	}
	for id, f := range e.fitness {
		res.Fitness[id] = *f
	}
	for _, ent := range e.agents {
		_, _, _, _, agent, _, _ := e.agentMap.Get(ent)
		res.Survivors = append(res.Survivors, agent.ID)
	}
	res.Stats = e.collector.Flush(e.tick, len(res.Survivors), e.species, res.Fitness)
	e.result = res

	e.session.Record(res.Stats)
}

// Result returns the summary once the episode has ended.
func (e *Episode) Result() (*Result, bool) {
	return e.result, e.state == Ended
}

// Collector exposes the episode's event collector.
func (e *Episode) Collector() *telemetry.Collector {
	return e.collector
}

// Run steps the episode to the end, handing each tick's frame to r (which
// may be nil). ctx and the renderer are checked once per tick; a renderer
// returning ErrQuit stops the episode without scoring.
func (e *Episode) Run(ctx context.Context, r Renderer) (*Result, error) {
	for e.state == Running {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e.perf != nil {
			e.perf.StartTick()
		}
		if err := e.Step(); err != nil {
			return nil, err
		}
		if r != nil {
			e.phase(telemetry.PhaseRender)
			if err := r.Render(e.Frame()); err != nil {
				return nil, err
			}
		}
		if e.perf != nil {
			e.perf.EndTick()
		}
	}
	return e.result, nil
}
