// Package config provides configuration loading and access for the simulation.
package config

import (
	"embed"
	"errors"
	"fmt"
	"math"
	"os"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

//go:embed presets/*.yaml
var presetFS embed.FS

// ActionWidth is the number of gates every controller must produce.
const ActionWidth = 4

// Sensor encoder names.
const (
	EncoderSingleDelta = "single_delta"
	EncoderMultiDelta  = "multi_delta"
	EncoderPolar       = "polar"
)

// Movement model names.
const (
	MovementAxis     = "axis"
	MovementRotation = "rotation"
)

// Agent spawn modes.
const (
	SpawnCenter = "center"
	SpawnRandom = "random"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	World     WorldConfig     `yaml:"world"`
	Episode   EpisodeConfig   `yaml:"episode"`
	Agent     AgentConfig     `yaml:"agent"`
	Food      FoodConfig      `yaml:"food"`
	Predator  PredatorConfig  `yaml:"predator"`
	Scoring   ScoringConfig   `yaml:"scoring"`
	Sensors   SensorsConfig   `yaml:"sensors"`
	Movement  MovementConfig  `yaml:"movement"`
	Evolve    EvolveConfig    `yaml:"evolve"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Stream    StreamConfig    `yaml:"stream"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	PanelWidth  int  `yaml:"panel_width"` // Info panel to the right of the world (0 = hidden)
	TargetFPS   int  `yaml:"target_fps"`
	ShowLife    bool `yaml:"show_life"`    // Draw remaining life on each creature
	ShowLineage bool `yaml:"show_lineage"` // Colour creatures by species id
	ShowHeading bool `yaml:"show_heading"` // Draw a heading line (rotation model)
}

// WorldConfig holds the playable rectangle.
type WorldConfig struct {
	Width        float64 `yaml:"width"`
	Height       float64 `yaml:"height"`
	SpawnPadding float64 `yaml:"spawn_padding"` // Foods and predators spawn at least this far from the edges
}

// EpisodeConfig holds per-generation limits.
type EpisodeConfig struct {
	TickBudget  int `yaml:"tick_budget"` // Ticks executed before a generation ends
	Generations int `yaml:"generations"`
}

// AgentConfig holds creature kinematics.
type AgentConfig struct {
	Speed               float64 `yaml:"speed"`
	Size                float64 `yaml:"size"`      // Bounding box side; half of it is the collision radius
	Spawn               string  `yaml:"spawn"`     // center | random
	TurnRate            float64 `yaml:"turn_rate"` // Radians per tick (rotation model)
	Thrust              float64 `yaml:"thrust"`    // Speed multiplier (rotation model)
	ActivationThreshold float64 `yaml:"activation_threshold"`
}

// FoodConfig holds food parameters.
type FoodConfig struct {
	Count  int     `yaml:"count"`
	Radius float64 `yaml:"radius"`
}

// PredatorConfig holds predator random walk parameters.
type PredatorConfig struct {
	Count        int     `yaml:"count"`
	Speed        float64 `yaml:"speed"`
	Radius       float64 `yaml:"radius"`
	MinTurnTicks int     `yaml:"min_turn_ticks"`
	MaxTurnTicks int     `yaml:"max_turn_ticks"`
}

// ScoringConfig holds fitness and lifecycle constants.
type ScoringConfig struct {
	SurvivalBonus   float64 `yaml:"survival_bonus"`   // Fitness per tick alive
	EatReward       float64 `yaml:"eat_reward"`       // Fitness per food eaten
	EatLifeBonus    int     `yaml:"eat_life_bonus"`   // Life ticks gained per food
	PredatorPenalty float64 `yaml:"predator_penalty"` // Fitness lost on predator contact
	EatRadius       float64 `yaml:"eat_radius"`
	InitialLife     int     `yaml:"initial_life"`
	MaxLifeDisplay  int     `yaml:"max_life_display"` // Life that maps to full colour brightness
}

// SensorsConfig selects and shapes the observation vector.
type SensorsConfig struct {
	Encoder         string `yaml:"encoder"`          // single_delta | multi_delta | polar
	Nearest         bool   `yaml:"nearest"`          // single_delta: nearest food instead of the first
	FoodTargets     int    `yaml:"food_targets"`     // multi_delta: K
	PredatorTargets int    `yaml:"predator_targets"` // multi_delta: M
}

// MovementConfig selects the action interpreter.
type MovementConfig struct {
	Model string `yaml:"model"` // axis | rotation
}

// EvolveConfig points at the evolutionary trainer settings.
type EvolveConfig struct {
	ConfigPath      string `yaml:"config_path"` // empty = embedded evolve.ini
	CheckpointDir   string `yaml:"checkpoint_dir"`
	CheckpointEvery int    `yaml:"checkpoint_every"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	OutputDir   string  `yaml:"output_dir"`
	PerfWindow  int     `yaml:"perf_window"`
	ChartWidth  float64 `yaml:"chart_width"`  // inches
	ChartHeight float64 `yaml:"chart_height"` // inches
}

// StreamConfig holds spectator websocket settings.
type StreamConfig struct {
	Addr  string `yaml:"addr"`  // empty = disabled
	Every int    `yaml:"every"` // broadcast every N ticks
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	NumInputs       int     // Encoder output width
	NumOutputs      int     // Always ActionWidth
	AgentRadius     float64 // Agent.Size / 2
	CollisionRadius float64 // AgentRadius + Predator.Radius
	Diagonal        float64 // World diagonal, used as the "nothing seen" distance
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If preset is non-empty the named embedded preset is applied before the file.
// If path is empty, only embedded defaults (and the preset) are used.
func Load(path, preset string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if preset != "" {
		data, err := presetFS.ReadFile("presets/" + preset + ".yaml")
		if err != nil {
			return nil, fmt.Errorf("%w: unknown preset %q (have %s)", ErrInvalid, preset, strings.Join(Presets(), ", "))
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing preset %s: %w", preset, err)
		}
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Default returns the embedded defaults. Panics if they do not parse.
func Default() *Config {
	cfg, err := Load("", "")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

// Presets lists the embedded preset names.
func Presets() []string {
	entries, err := presetFS.ReadDir("presets")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), path.Ext(e.Name())))
	}
	sort.Strings(names)
	return names
}

// Validate reports the first inconsistent setting.
func (c *Config) Validate() error {
	switch {
	case c.World.Width <= 0 || c.World.Height <= 0:
		return fmt.Errorf("%w: world must have positive size", ErrInvalid)
	case 2*c.World.SpawnPadding >= c.World.Width || 2*c.World.SpawnPadding >= c.World.Height:
		return fmt.Errorf("%w: spawn_padding %.0f leaves no room in %.0fx%.0f", ErrInvalid, c.World.SpawnPadding, c.World.Width, c.World.Height)
	case c.Episode.TickBudget <= 0:
		return fmt.Errorf("%w: tick_budget must be positive", ErrInvalid)
	case c.Agent.Size <= 0 || c.Agent.Size >= c.World.Width || c.Agent.Size >= c.World.Height:
		return fmt.Errorf("%w: agent size %.1f does not fit the world", ErrInvalid, c.Agent.Size)
	case c.Food.Count < 0 || c.Predator.Count < 0:
		return fmt.Errorf("%w: entity counts cannot be negative", ErrInvalid)
	case c.Predator.Count > 0 && (c.Predator.MinTurnTicks <= 0 || c.Predator.MaxTurnTicks < c.Predator.MinTurnTicks):
		return fmt.Errorf("%w: predator turn ticks must satisfy 0 < min <= max", ErrInvalid)
	case c.Scoring.InitialLife <= 0:
		return fmt.Errorf("%w: initial_life must be positive", ErrInvalid)
	case c.Scoring.EatRadius < 0:
		return fmt.Errorf("%w: eat_radius cannot be negative", ErrInvalid)
	}

	switch c.Movement.Model {
	case MovementAxis, MovementRotation:
	default:
		return fmt.Errorf("%w: unknown movement model %q", ErrInvalid, c.Movement.Model)
	}

	switch c.Agent.Spawn {
	case SpawnCenter, SpawnRandom:
	default:
		return fmt.Errorf("%w: unknown spawn mode %q", ErrInvalid, c.Agent.Spawn)
	}

	switch c.Sensors.Encoder {
	case EncoderSingleDelta, EncoderPolar:
	case EncoderMultiDelta:
		if c.Sensors.FoodTargets < 0 || c.Sensors.PredatorTargets < 0 || c.Sensors.FoodTargets+c.Sensors.PredatorTargets == 0 {
			return fmt.Errorf("%w: multi_delta needs at least one target", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown sensor encoder %q", ErrInvalid, c.Sensors.Encoder)
	}

	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	switch c.Sensors.Encoder {
	case EncoderSingleDelta:
		c.Derived.NumInputs = 2
	case EncoderMultiDelta:
		c.Derived.NumInputs = 2 * (c.Sensors.FoodTargets + c.Sensors.PredatorTargets)
	case EncoderPolar:
		c.Derived.NumInputs = 4
	}
	c.Derived.NumOutputs = ActionWidth
	c.Derived.AgentRadius = c.Agent.Size / 2
	c.Derived.CollisionRadius = c.Derived.AgentRadius + c.Predator.Radius
	c.Derived.Diagonal = math.Hypot(c.World.Width, c.World.Height)
}

// Recompute refreshes derived values after fields were changed in code.
func (c *Config) Recompute() error {
	if err := c.Validate(); err != nil {
		return err
	}
	c.computeDerived()
	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
