package components

import (
	"image/color"
	"testing"
)

func TestLineageColor(t *testing.T) {
	if got := LineageColor(0); got != UnknownLineage {
		t.Errorf("LineageColor(0): got %v, want %v", got, UnknownLineage)
	}
	if got := LineageColor(-3); got != UnknownLineage {
		t.Errorf("LineageColor(-3): got %v, want %v", got, UnknownLineage)
	}

	for id := 1; id < 200; id++ {
		c := LineageColor(id)
		for _, v := range []uint8{c.R, c.G, c.B} {
			if v < 50 || v > 200 {
				t.Fatalf("LineageColor(%d) channel out of range: %v", id, c)
			}
		}
		if again := LineageColor(id); again != c {
			t.Fatalf("LineageColor(%d) not stable: %v vs %v", id, c, again)
		}
	}
}

func TestDimByLife(t *testing.T) {
	base := color.RGBA{R: 200, G: 100, B: 50, A: 255}

	tests := []struct {
		name      string
		life, max int
		want      color.RGBA
	}{
		{"full", 600, 600, base},
		{"half", 300, 600, color.RGBA{R: 100, G: 50, B: 25, A: 255}},
		{"floor", 1, 600, color.RGBA{R: 10, G: 10, B: 10, A: 255}},
		{"overfull clamps", 1200, 600, base},
		{"no max", 5, 0, base},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DimByLife(base, tt.life, tt.max); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLife(t *testing.T) {
	l := Life{Ticks: 2, Max: 2}
	if l.Tick() {
		t.Error("Tick at 2 should not exhaust")
	}
	l.Gain(10)
	if l.Ticks != 11 || l.Max != 11 {
		t.Errorf("after Gain: got %+v, want Ticks=11 Max=11", l)
	}
	l.Ticks = 1
	if !l.Tick() {
		t.Error("Tick at 1 should exhaust")
	}
}

func TestFitnessNilSafe(t *testing.T) {
	var f Fitness
	f.Add(3)
	if f.Get() != 0 {
		t.Errorf("nil fitness: got %v, want 0", f.Get())
	}

	v := 1.5
	f = Fitness{Value: &v}
	f.Add(-0.5)
	if v != 1.0 {
		t.Errorf("fitness: got %v, want 1", v)
	}
}

func TestBodyCenter(t *testing.T) {
	p := Position{X: 10, Y: 20}
	if c := (Body{Size: 20}).Center(p); c.X != 20 || c.Y != 30 {
		t.Errorf("corner body centre: got %v, want (20,30)", c)
	}
	if c := (Body{Size: 20, Centered: true}).Center(p); c.X != 10 || c.Y != 20 {
		t.Errorf("centred body centre: got %v, want (10,20)", c)
	}
}

func TestBodyRadius(t *testing.T) {
	if r := (Body{Size: 20}).Radius(); r != 10 {
		t.Errorf("radius: got %v, want 10", r)
	}
}
