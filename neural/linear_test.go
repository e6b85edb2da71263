package neural

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestLinearDecide(t *testing.T) {
	l := NewLinear(2, 4)
	out, err := l.Decide([]float64{3, -3})
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	for i, v := range out {
		if v != 0.5 {
			t.Errorf("zero policy gate %d: got %v, want 0.5", i, v)
		}
	}

	// Gate 3 follows obs[0], gate 2 follows -obs[0].
	stride := l.In + 1
	l.Weights[3*stride+0] = 10
	l.Weights[2*stride+0] = -10
	out, err = l.Decide([]float64{1, 0})
	if err != nil {
		t.Fatal(err)
	}
	if out[3] < 0.99 || out[2] > 0.01 {
		t.Errorf("weighted gates: got %v", out)
	}
}

func TestLinearShapeErrors(t *testing.T) {
	l := NewLinear(2, 4)
	if _, err := l.Decide([]float64{1}); !errors.Is(err, ErrShape) {
		t.Errorf("short obs: got %v, want ErrShape", err)
	}
	l.Weights = l.Weights[:3]
	if _, err := l.Decide([]float64{1, 2}); !errors.Is(err, ErrShape) {
		t.Errorf("short weights: got %v, want ErrShape", err)
	}
}

func TestLinearSaveLoad(t *testing.T) {
	l := NewLinear(4, 4)
	for i := range l.Weights {
		l.Weights[i] = float64(i) / 10
	}
	path := filepath.Join(t.TempDir(), "policy.json")
	if err := l.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	back, err := LoadLinear(path)
	if err != nil {
		t.Fatalf("LoadLinear: %v", err)
	}
	if back.In != 4 || back.Out != 4 || len(back.Weights) != 20 || back.Weights[7] != 0.7 {
		t.Errorf("round trip: got %+v", back)
	}
}
