package systems

import (
	"math/rand"
	"testing"

	"github.com/pthm-cable/critters/components"
)

func newTestWalk(seed int64) *PredatorWalk {
	return &PredatorWalk{Width: 800, Height: 600, MinTurn: 30, MaxTurn: 90, rng: rand.New(rand.NewSource(seed))}
}

func TestPredatorStaysInBounds(t *testing.T) {
	w := newTestWalk(1)
	pos := components.Position{X: 400, Y: 300}
	p := components.Predator{Speed: 5, Radius: 15}
	w.Resample(&p)

	for i := 0; i < 5000; i++ {
		w.Step(&pos, &p)
		if pos.X < p.Radius || pos.X > 800-p.Radius || pos.Y < p.Radius || pos.Y > 600-p.Radius {
			t.Fatalf("step %d: predator left [r, W-r]: %+v", i, pos)
		}
		if p.Timer < 0 || p.Timer > 90 {
			t.Fatalf("step %d: timer out of range: %d", i, p.Timer)
		}
	}
}

func TestPredatorKeepsDirectionUntilTimer(t *testing.T) {
	w := newTestWalk(2)
	pos := components.Position{X: 400, Y: 300}
	p := components.Predator{Speed: 5, Radius: 15, Dir: components.DirRight, Timer: 3}

	w.Step(&pos, &p)
	w.Step(&pos, &p)
	if pos.X != 410 || pos.Y != 300 || p.Timer != 1 {
		t.Errorf("after 2 steps: pos=%+v timer=%d, want (410,300) timer=1", pos, p.Timer)
	}

	w.Step(&pos, &p)
	if p.Timer < 30 || p.Timer > 90 {
		t.Errorf("timer should be resampled into [30,90]: got %d", p.Timer)
	}
}

func TestPredatorTurnsAtBoundary(t *testing.T) {
	w := newTestWalk(3)
	pos := components.Position{X: 785, Y: 300}
	p := components.Predator{Speed: 5, Radius: 15, Dir: components.DirRight, Timer: 200}

	w.Step(&pos, &p)
	if p.Timer > 90 {
		t.Errorf("touching the boundary should resample the timer: got %d", p.Timer)
	}
	if pos.X > 785 {
		t.Errorf("clamped x: got %v, want <= 785", pos.X)
	}
}
