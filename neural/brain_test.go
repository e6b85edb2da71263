package neural

import (
	"errors"
	"testing"
)

func TestControllerFunc(t *testing.T) {
	var calls int
	c := ControllerFunc(func(obs []float64) ([]float64, error) {
		calls++
		return []float64{obs[0], 0, 0, 0}, nil
	})

	out, err := c.Decide([]float64{0.7, 0})
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if out[0] != 0.7 || calls != 1 {
		t.Errorf("got out=%v calls=%d, want out[0]=0.7 calls=1", out, calls)
	}
}

func TestCheckShape(t *testing.T) {
	tests := []struct {
		name    string
		c       Controller
		in, out int
		wantErr bool
	}{
		{"unshaped passes", ControllerFunc(nil), 8, 4, false},
		{"match", Idle{In: 2}, 2, 4, false},
		{"input mismatch", Idle{In: 2}, 8, 4, true},
		{"too few outputs", Fixed{In: 2, Out: 3}, 2, 4, true},
		{"extra outputs allowed", Fixed{In: 2, Out: 6}, 2, 4, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckShape(tt.c, tt.in, tt.out)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CheckShape: got %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrShape) {
				t.Errorf("error %v should wrap ErrShape", err)
			}
		})
	}
}

func TestFixedRejectsWrongWidth(t *testing.T) {
	f := Fixed{In: 2, Out: 4, Fn: func([]float64) ([]float64, error) { return make([]float64, 4), nil }}
	if _, err := f.Decide([]float64{1, 2, 3}); !errors.Is(err, ErrShape) {
		t.Errorf("Decide with 3 inputs: got %v, want ErrShape", err)
	}
	if _, err := f.Decide([]float64{1, 2}); err != nil {
		t.Errorf("Decide with 2 inputs: %v", err)
	}
}

func TestSeeker(t *testing.T) {
	s := Seeker{In: 2, Deadband: 1}

	tests := []struct {
		name string
		obs  []float64
		want [4]float64
	}{
		{"up-left", []float64{-10, -10}, [4]float64{1, 0, 1, 0}},
		{"down-right", []float64{10, 10}, [4]float64{0, 1, 0, 1}},
		{"inside deadband", []float64{0.5, -0.5}, [4]float64{}},
		{"too short", []float64{3}, [4]float64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := s.Decide(tt.obs)
			if err != nil {
				t.Fatal(err)
			}
			for i := range tt.want {
				if out[i] != tt.want[i] {
					t.Errorf("out[%d]: got %v, want %v", i, out[i], tt.want[i])
				}
			}
		})
	}
}

func TestTurner(t *testing.T) {
	tr := Turner{In: 4, Tolerance: 0.1}

	out, _ := tr.Decide([]float64{100, -1, 0, 0})
	if out[0] != 1 || out[1] != 0 || out[2] != 1 {
		t.Errorf("target to the left: got %v, want turn left and thrust", out)
	}

	out, _ = tr.Decide([]float64{100, 3, 0, 0})
	if out[1] != 1 || out[2] != 0 {
		t.Errorf("target behind: got %v, want turn right without thrust", out)
	}

	out, _ = tr.Decide([]float64{100, 0.05, 0, 0})
	if out[0] != 0 || out[1] != 0 || out[2] != 1 {
		t.Errorf("aligned: got %v, want straight ahead", out)
	}
}
