package game

import (
	"slices"

	"github.com/pthm-cable/critters/telemetry"
)

// AgentView is the drawable state of one agent.
type AgentView struct {
	ID       int     `json:"id"`
	Species  int     `json:"species"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Size     float64 `json:"size"`
	Centered bool    `json:"centered"`
	Heading  float64 `json:"heading"`
	Life     int     `json:"life"`
	MaxLife  int     `json:"max_life"`
	Fitness  float64 `json:"fitness"`

	// Latest observation and controller output.
	Inputs  []float64 `json:"inputs,omitempty"`
	Outputs []float64 `json:"outputs,omitempty"`
}

// FoodView is the drawable state of one food.
type FoodView struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
}

// PredatorView is the drawable state of one predator.
type PredatorView struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
}

// Frame is a read-only snapshot of an episode after a tick. It shares no
// memory with the simulation and may be handed to other goroutines.
type Frame struct {
	Generation int     `json:"generation"`
	Tick       int     `json:"tick"`
	Budget     int     `json:"budget"`
	Alive      int     `json:"alive"`
	Total      int     `json:"total"`
	Species    int     `json:"species"`
	TimeLeft   float64 `json:"time_left"` // Seconds at the target frame rate
	Best       float64 `json:"best"`      // Live scores of the current generation
	Avg        float64 `json:"avg"`
	Ended      bool    `json:"ended"`

	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	ShowLife    bool    `json:"show_life"`
	ShowLineage bool    `json:"show_lineage"`
	ShowHeading bool    `json:"show_heading"`
	LifeDisplay int     `json:"life_display"`

	Agents    []AgentView              `json:"agents"`
	Foods     []FoodView               `json:"foods"`
	Predators []PredatorView           `json:"predators"`
	History   []telemetry.HistoryEntry `json:"history"`
}

// Frame snapshots the current episode state.
func (e *Episode) Frame() Frame {
	cfg := e.cfg
	fps := cfg.Screen.TargetFPS
	if fps <= 0 {
		fps = 60
	}

	f := Frame{
		Generation:  e.generation,
		Tick:        e.tick,
		Budget:      cfg.Episode.TickBudget,
		Alive:       len(e.agents),
		Total:       len(e.order),
		Species:     e.species,
		TimeLeft:    float64(max(cfg.Episode.TickBudget-e.tick, 0)) / float64(fps),
		Ended:       e.state == Ended,
		Width:       cfg.World.Width,
		Height:      cfg.World.Height,
		ShowLife:    cfg.Screen.ShowLife,
		ShowLineage: cfg.Screen.ShowLineage,
		ShowHeading: cfg.Screen.ShowHeading,
		LifeDisplay: cfg.Scoring.MaxLifeDisplay,
		Agents:      make([]AgentView, 0, len(e.agents)),
		Foods:       make([]FoodView, 0, len(e.foods)),
		Predators:   make([]PredatorView, 0, len(e.predators)),
		History:     e.session.History().Entries(),
	}

	if len(e.order) > 0 {
		var sum float64
		for i, id := range e.order {
			v := *e.fitness[id]
			sum += v
			if i == 0 || v > f.Best {
				f.Best = v
			}
		}
		f.Avg = sum / float64(len(e.order))
	}

	for _, ent := range e.agents {
		pos, heading, body, life, agent, brain, fit := e.agentMap.Get(ent)
		f.Agents = append(f.Agents, AgentView{
			ID:       agent.ID,
			Species:  agent.Species,
			X:        pos.X,
			Y:        pos.Y,
			Size:     body.Size,
			Centered: body.Centered,
			Heading:  heading.Angle,
			Life:     life.Ticks,
			MaxLife:  life.Max,
			Fitness:  fit.Get(),
			Inputs:   slices.Clone(brain.LastInputs),
			Outputs:  slices.Clone(brain.LastOutputs),
		})
	}

	for _, ent := range e.foods {
		pos, food := e.foodMap.Get(ent)
		f.Foods = append(f.Foods, FoodView{X: pos.X, Y: pos.Y, Radius: food.Radius})
	}
	for _, ent := range e.predators {
		pos, p := e.predatorMap.Get(ent)
		f.Predators = append(f.Predators, PredatorView{X: pos.X, Y: pos.Y, Radius: p.Radius})
	}
	return f
}
