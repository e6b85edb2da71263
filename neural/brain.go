// Package neural provides the controller contract that drives creatures and
// its implementations: evolved feed-forward networks and fixed heuristics.
package neural

import (
	"errors"
	"fmt"
)

// ErrShape is returned when a controller sees an observation or produces an
// output of the wrong width.
var ErrShape = errors.New("controller shape mismatch")

// Controller maps an observation vector to an output vector.
// Implementations must not retain obs after Decide returns.
type Controller interface {
	Decide(obs []float64) ([]float64, error)
}

// Shaped is implemented by controllers that know their input and output
// widths up front, so mismatches surface before the first tick.
type Shaped interface {
	Inputs() int
	Outputs() int
}

// ControllerFunc adapts a plain function to the Controller interface.
type ControllerFunc func(obs []float64) ([]float64, error)

// Decide calls f(obs).
func (f ControllerFunc) Decide(obs []float64) ([]float64, error) {
	return f(obs)
}

// CheckShape verifies a controller against the expected widths.
// Controllers that do not implement Shaped pass and are checked on first use.
func CheckShape(c Controller, inputs, outputs int) error {
	s, ok := c.(Shaped)
	if !ok {
		return nil
	}
	if s.Inputs() != inputs {
		return fmt.Errorf("%w: controller takes %d inputs, observation has %d", ErrShape, s.Inputs(), inputs)
	}
	if s.Outputs() < outputs {
		return fmt.Errorf("%w: controller emits %d outputs, action needs %d", ErrShape, s.Outputs(), outputs)
	}
	return nil
}

// Fixed wraps a function with declared widths.
type Fixed struct {
	In, Out int
	Fn      ControllerFunc
}

func (f Fixed) Decide(obs []float64) ([]float64, error) {
	if len(obs) != f.In {
		return nil, fmt.Errorf("%w: got %d inputs, want %d", ErrShape, len(obs), f.In)
	}
	return f.Fn(obs)
}

func (f Fixed) Inputs() int  { return f.In }
func (f Fixed) Outputs() int { return f.Out }
