package neural

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// Linear is a single-layer policy: out = sigmoid(W*obs + b). Weights are
// row-major, one row of In weights plus a bias per output.
type Linear struct {
	In      int       `json:"inputs"`
	Out     int       `json:"outputs"`
	Weights []float64 `json:"weights"`
}

// NewLinear returns a zero policy, which outputs 0.5 on every gate.
func NewLinear(in, out int) Linear {
	return Linear{In: in, Out: out, Weights: make([]float64, LinearSize(in, out))}
}

// LinearSize is the number of parameters of an in x out policy.
func LinearSize(in, out int) int {
	return out * (in + 1)
}

func (l Linear) Decide(obs []float64) ([]float64, error) {
	if len(obs) != l.In {
		return nil, fmt.Errorf("%w: got %d inputs, want %d", ErrShape, len(obs), l.In)
	}
	if len(l.Weights) != LinearSize(l.In, l.Out) {
		return nil, fmt.Errorf("%w: %d weights for %dx%d policy", ErrShape, len(l.Weights), l.In, l.Out)
	}
	out := make([]float64, l.Out)
	stride := l.In + 1
	for o := range out {
		row := l.Weights[o*stride : (o+1)*stride]
		sum := row[l.In]
		for i, x := range obs {
			sum += row[i] * x
		}
		out[o] = 1 / (1 + math.Exp(-sum))
	}
	return out, nil
}

func (l Linear) Inputs() int  { return l.In }
func (l Linear) Outputs() int { return l.Out }

// Save writes the policy as JSON.
func (l Linear) Save(path string) error {
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling policy: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing policy: %w", err)
	}
	return nil
}

// LoadLinear reads a policy written by Save.
func LoadLinear(path string) (Linear, error) {
	var l Linear
	data, err := os.ReadFile(path)
	if err != nil {
		return l, fmt.Errorf("reading policy: %w", err)
	}
	if err := json.Unmarshal(data, &l); err != nil {
		return l, fmt.Errorf("parsing policy: %w", err)
	}
	if len(l.Weights) != LinearSize(l.In, l.Out) {
		return l, fmt.Errorf("%w: %s has %d weights for a %dx%d policy", ErrShape, path, len(l.Weights), l.In, l.Out)
	}
	return l, nil
}
