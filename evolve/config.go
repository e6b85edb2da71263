package evolve

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/ini.v1"
)

//go:embed evolve.ini
var defaultConfig []byte

// ErrTopology means an evolution config declares network widths that do not
// match the observation and action widths.
var ErrTopology = errors.New("network topology mismatch")

const (
	populationSection = "Population"
	genomeSection     = "Genome"
	speciesSection    = "Species"
	keyInputs         = "num_inputs"
	keyOutputs        = "num_outputs"
)

var loadOptions = ini.LoadOptions{
	IgnoreInlineComment:         true,
	UnescapeValueCommentSymbols: true,
}

// Config holds the evolution parameters read from an ini file.
type Config struct {
	Population PopulationConfig
	Genome     GenomeConfig
	Species    SpeciesConfig
}

// PopulationConfig controls generation size, selection and termination.
type PopulationConfig struct {
	PopSize              int     `ini:"pop_size"`
	FitnessThreshold     float64 `ini:"fitness_threshold"`
	NoFitnessTermination bool    `ini:"no_fitness_termination"`
	Elitism              int     `ini:"elitism"`            // best genomes copied unchanged
	SurvivalThreshold    float64 `ini:"survival_threshold"` // fraction allowed to reproduce
}

// GenomeConfig describes the network shape and weight mutation.
type GenomeConfig struct {
	NumInputs         int     `ini:"num_inputs"`
	NumOutputs        int     `ini:"num_outputs"`
	NumHidden         int     `ini:"num_hidden"`
	WeightInitStdev   float64 `ini:"weight_init_stdev"`
	WeightMutateRate  float64 `ini:"weight_mutate_rate"`
	WeightMutatePower float64 `ini:"weight_mutate_power"`
	WeightReplaceRate float64 `ini:"weight_replace_rate"`
	WeightMaxValue    float64 `ini:"weight_max_value"`
	WeightMinValue    float64 `ini:"weight_min_value"`
	CrossoverRate     float64 `ini:"crossover_rate"`
}

// SpeciesConfig controls lineage grouping.
type SpeciesConfig struct {
	// Mean absolute weight difference under which two genomes share a species.
	CompatibilityThreshold float64 `ini:"compatibility_threshold"`
}

// LoadConfig parses an evolution ini source (a file path or raw bytes).
func LoadConfig(source any) (*Config, error) {
	f, err := ini.LoadSources(loadOptions, source)
	if err != nil {
		return nil, fmt.Errorf("loading evolution config: %w", err)
	}
	cfg := &Config{}
	sections := []struct {
		name string
		dst  any
	}{
		{populationSection, &cfg.Population},
		{genomeSection, &cfg.Genome},
		{speciesSection, &cfg.Species},
	}
	for _, s := range sections {
		if err := f.Section(s.name).MapTo(s.dst); err != nil {
			return nil, fmt.Errorf("mapping [%s]: %w", s.name, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges that would otherwise break reproduction.
func (c *Config) Validate() error {
	switch {
	case c.Population.PopSize < 1:
		return fmt.Errorf("%s.pop_size must be positive, got %d", populationSection, c.Population.PopSize)
	case c.Population.Elitism < 0 || c.Population.Elitism > c.Population.PopSize:
		return fmt.Errorf("%s.elitism must be in [0, pop_size], got %d", populationSection, c.Population.Elitism)
	case c.Population.SurvivalThreshold <= 0 || c.Population.SurvivalThreshold > 1:
		return fmt.Errorf("%s.survival_threshold must be in (0, 1], got %v", populationSection, c.Population.SurvivalThreshold)
	case c.Genome.NumInputs < 1 || c.Genome.NumOutputs < 1 || c.Genome.NumHidden < 0:
		return fmt.Errorf("%w: %d inputs, %d hidden, %d outputs", ErrTopology, c.Genome.NumInputs, c.Genome.NumHidden, c.Genome.NumOutputs)
	case c.Genome.WeightMinValue >= c.Genome.WeightMaxValue:
		return fmt.Errorf("%s.weight_min_value must be below weight_max_value", genomeSection)
	}
	return nil
}

// Topology reads num_inputs and num_outputs from an evolution ini source.
func Topology(source any) (inputs, outputs int, err error) {
	f, err := ini.LoadSources(loadOptions, source)
	if err != nil {
		return 0, 0, fmt.Errorf("loading evolution config: %w", err)
	}
	sec := f.Section(genomeSection)
	if inputs, err = sec.Key(keyInputs).Int(); err != nil {
		return 0, 0, fmt.Errorf("%s.%s: %w", genomeSection, keyInputs, err)
	}
	if outputs, err = sec.Key(keyOutputs).Int(); err != nil {
		return 0, 0, fmt.Errorf("%s.%s: %w", genomeSection, keyOutputs, err)
	}
	return inputs, outputs, nil
}

// ResolveConfig returns the path of an evolution config whose topology
// matches inputs and outputs.
//
// With an empty path the embedded default is written into dir with its
// widths rewritten. A user file is used as is and must already agree.
func ResolveConfig(path, dir string, inputs, outputs int) (string, error) {
	if path != "" {
		in, out, err := Topology(path)
		if err != nil {
			return "", err
		}
		if in != inputs || out != outputs {
			return "", fmt.Errorf("%w: %s declares %d inputs / %d outputs, simulation needs %d / %d",
				ErrTopology, path, in, out, inputs, outputs)
		}
		return path, nil
	}

	f, err := ini.LoadSources(loadOptions, defaultConfig)
	if err != nil {
		return "", fmt.Errorf("loading embedded evolution config: %w", err)
	}
	sec := f.Section(genomeSection)
	sec.Key(keyInputs).SetValue(strconv.Itoa(inputs))
	sec.Key(keyOutputs).SetValue(strconv.Itoa(outputs))

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating evolution config dir: %w", err)
	}
	out := filepath.Join(dir, "evolve.ini")
	if err := f.SaveTo(out); err != nil {
		return "", fmt.Errorf("writing evolution config: %w", err)
	}
	return out, nil
}
