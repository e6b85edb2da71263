// Package main searches linear controller weights with CMA-ES. The result is
// a baseline policy for comparison with evolved populations (see -baseline linear).
package main

import (
	"fmt"

	"github.com/pthm-cable/critters/neural"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the weights of an inputs x outputs linear policy.
type ParamVector struct {
	Inputs, Outputs int
	Specs           []ParamSpec
}

// gateNames label the action gates in parameter names.
var gateNames = []string{"g0", "g1", "g2", "g3"}

// NewParamVector creates one bounded parameter per weight and bias.
func NewParamVector(inputs, outputs int, bound float64) *ParamVector {
	pv := &ParamVector{Inputs: inputs, Outputs: outputs}
	for o := 0; o < outputs; o++ {
		gate := fmt.Sprintf("o%d", o)
		if o < len(gateNames) {
			gate = gateNames[o]
		}
		for i := 0; i <= inputs; i++ {
			name := fmt.Sprintf("%s_w%d", gate, i)
			if i == inputs {
				name = gate + "_bias"
			}
			pv.Specs = append(pv.Specs, ParamSpec{Name: name, Min: -bound, Max: bound})
		}
	}
	return pv
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// Policy builds the controller for raw (denormalized) values.
func (pv *ParamVector) Policy(values []float64) neural.Linear {
	l := neural.NewLinear(pv.Inputs, pv.Outputs)
	copy(l.Weights, pv.Clamp(values))
	return l
}
