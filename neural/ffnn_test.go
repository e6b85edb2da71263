package neural

import (
	"errors"
	"math"
	"testing"
)

func TestNetworkSize(t *testing.T) {
	tests := []struct {
		in, hidden, out int
		want            int
	}{
		{2, 0, 4, 12},
		{8, 0, 4, 36},
		{2, 3, 4, 9 + 16},
	}
	for _, tt := range tests {
		if got := NetworkSize(tt.in, tt.hidden, tt.out); got != tt.want {
			t.Errorf("NetworkSize(%d, %d, %d): got %d, want %d", tt.in, tt.hidden, tt.out, got, tt.want)
		}
	}
}

func TestNetworkDecideDirect(t *testing.T) {
	// Output 0 = tanh(2*x0 - x1 + 0.5), the rest see only their bias.
	w := make([]float64, NetworkSize(2, 0, 4))
	w[0], w[1], w[2] = 2, -1, 0.5
	w[3*3+2] = -1
	net, err := NewNetwork(7, 2, 0, 4, w)
	if err != nil {
		t.Fatalf("NewNetwork: %v", err)
	}

	obs := []float64{1, 3}
	out, err := net.Decide(obs)
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	want := []float64{math.Tanh(-0.5), 0, 0, math.Tanh(-1)}
	for i := range want {
		if math.Abs(out[i]-want[i]) > 1e-12 {
			t.Errorf("output %d: got %v, want %v", i, out[i], want[i])
		}
	}
	if obs[0] != 1 || obs[1] != 3 {
		t.Errorf("observation modified: %v", obs)
	}

	w[0] = 100
	if again, _ := net.Decide(obs); again[0] != out[0] {
		t.Errorf("network aliases its weight slice: got %v, want %v", again[0], out[0])
	}
}

func TestNetworkDecideHidden(t *testing.T) {
	// One hidden unit copies x0; every output reads it with weight 1.
	w := make([]float64, NetworkSize(2, 1, 4))
	w[0] = 1
	for o := 0; o < 4; o++ {
		w[3+o*2] = 1
	}
	net, err := NewNetwork(1, 2, 1, 4, w)
	if err != nil {
		t.Fatal(err)
	}
	out, err := net.Decide([]float64{0.3, 9})
	if err != nil {
		t.Fatal(err)
	}
	want := math.Tanh(math.Tanh(0.3))
	for i, v := range out {
		if math.Abs(v-want) > 1e-12 {
			t.Errorf("output %d: got %v, want %v", i, v, want)
		}
	}
	if net.Inputs() != 2 || net.Outputs() != 4 || net.NodeCount() != 5 || net.ConnectionCount() != 5 {
		t.Errorf("shape: got in=%d out=%d nodes=%d conns=%d, want 2/4/5/5",
			net.Inputs(), net.Outputs(), net.NodeCount(), net.ConnectionCount())
	}
}

func TestNetworkShapeErrors(t *testing.T) {
	if _, err := NewNetwork(1, 2, 0, 4, make([]float64, 5)); !errors.Is(err, ErrShape) {
		t.Errorf("short weights: got %v, want ErrShape", err)
	}
	net, err := NewNetwork(1, 2, 0, 4, make([]float64, 12))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := net.Decide([]float64{1}); !errors.Is(err, ErrShape) {
		t.Errorf("short obs: got %v, want ErrShape", err)
	}
	if err := CheckShape(net, 2, 4); err != nil {
		t.Errorf("CheckShape: %v", err)
	}
}
