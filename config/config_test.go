package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", "")
	if err != nil {
		t.Fatalf("Load defaults: %v", err)
	}

	if cfg.World.Width != 800 || cfg.World.Height != 600 {
		t.Errorf("world: got %vx%v, want 800x600", cfg.World.Width, cfg.World.Height)
	}
	if cfg.Derived.NumInputs != 2 {
		t.Errorf("NumInputs: got %d, want 2", cfg.Derived.NumInputs)
	}
	if cfg.Derived.NumOutputs != ActionWidth {
		t.Errorf("NumOutputs: got %d, want %d", cfg.Derived.NumOutputs, ActionWidth)
	}
	if cfg.Derived.CollisionRadius != 25 {
		t.Errorf("CollisionRadius: got %v, want 25", cfg.Derived.CollisionRadius)
	}
	if cfg.Derived.Diagonal != 1000 {
		t.Errorf("Diagonal: got %v, want 1000", cfg.Derived.Diagonal)
	}
}

func TestPresetsDeriveInputWidth(t *testing.T) {
	tests := []struct {
		preset string
		inputs int
		model  string
	}{
		{"center", 2, MovementAxis},
		{"nearest_food", 2, MovementAxis},
		{"lineage", 2, MovementAxis},
		{"console", 2, MovementAxis},
		{"predators", 8, MovementAxis},
		{"one_predator", 4, MovementAxis},
		{"polar", 4, MovementRotation},
	}

	for _, tt := range tests {
		t.Run(tt.preset, func(t *testing.T) {
			cfg, err := Load("", tt.preset)
			if err != nil {
				t.Fatalf("Load(%q): %v", tt.preset, err)
			}
			if cfg.Derived.NumInputs != tt.inputs {
				t.Errorf("NumInputs: got %d, want %d", cfg.Derived.NumInputs, tt.inputs)
			}
			if cfg.Movement.Model != tt.model {
				t.Errorf("movement: got %q, want %q", cfg.Movement.Model, tt.model)
			}
		})
	}

	if got := len(Presets()); got != len(tests) {
		t.Errorf("Presets: got %d names, want %d", got, len(tests))
	}
}

func TestCenterPresetUsesFirstFood(t *testing.T) {
	cfg, err := Load("", "center")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Sensors.Nearest {
		t.Error("center preset should track the first food, not the nearest")
	}
	if cfg.Food.Count != 1 || cfg.Episode.TickBudget != 600 {
		t.Errorf("center: got food=%d budget=%d, want 1/600", cfg.Food.Count, cfg.Episode.TickBudget)
	}
}

func TestUnknownPreset(t *testing.T) {
	_, err := Load("", "nope")
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("unknown preset: got %v, want ErrInvalid", err)
	}
}

func TestUserFileOverlaysPreset(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")
	if err := os.WriteFile(path, []byte("food:\n  count: 7\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path, "predators")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Food.Count != 7 {
		t.Errorf("food count: got %d, want 7", cfg.Food.Count)
	}
	// Preset values not named in the file survive.
	if cfg.Predator.Count != 2 {
		t.Errorf("predator count: got %d, want 2", cfg.Predator.Count)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero budget", func(c *Config) { c.Episode.TickBudget = 0 }},
		{"bad encoder", func(c *Config) { c.Sensors.Encoder = "sonar" }},
		{"bad movement", func(c *Config) { c.Movement.Model = "hover" }},
		{"bad spawn", func(c *Config) { c.Agent.Spawn = "corner" }},
		{"padding too large", func(c *Config) { c.World.SpawnPadding = 400 }},
		{"no multi targets", func(c *Config) {
			c.Sensors.Encoder = EncoderMultiDelta
			c.Sensors.FoodTargets = 0
			c.Sensors.PredatorTargets = 0
		}},
		{"inverted turn ticks", func(c *Config) {
			c.Predator.Count = 1
			c.Predator.MinTurnTicks = 90
			c.Predator.MaxTurnTicks = 30
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate: got %v, want ErrInvalid", err)
			}
		})
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Food.Count = 3
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	back, err := Load(path, "")
	if err != nil {
		t.Fatalf("Load written file: %v", err)
	}
	if back.Food.Count != 3 {
		t.Errorf("food count after reload: got %d, want 3", back.Food.Count)
	}
}
