package systems

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/critters/config"
)

// Observer is the sensing agent's reference point and heading.
type Observer struct {
	Pos     r2.Vec
	Heading float64
}

// Encoder turns the world as seen by one agent into a fixed-width vector.
type Encoder interface {
	// Width is the length of every vector Encode produces.
	Width() int
	// Encode writes the observation into dst[:0] and returns it.
	Encode(dst []float64, self Observer, foods, predators []r2.Vec) []float64
}

// NewEncoder builds the encoder selected by cfg.Sensors.
func NewEncoder(cfg *config.Config) (Encoder, error) {
	switch cfg.Sensors.Encoder {
	case config.EncoderSingleDelta:
		return &SingleDelta{Nearest: cfg.Sensors.Nearest}, nil
	case config.EncoderMultiDelta:
		return &MultiDelta{Foods: cfg.Sensors.FoodTargets, Predators: cfg.Sensors.PredatorTargets}, nil
	case config.EncoderPolar:
		return &Polar{Far: cfg.Derived.Diagonal}, nil
	}
	return nil, fmt.Errorf("unknown sensor encoder %q", cfg.Sensors.Encoder)
}

// SingleDelta observes (dx, dy) to one food.
// With Nearest unset it always tracks the first food in the set.
// An empty food set reads as (0, 0).
type SingleDelta struct {
	Nearest bool
}

func (e *SingleDelta) Width() int { return 2 }

func (e *SingleDelta) Encode(dst []float64, self Observer, foods, _ []r2.Vec) []float64 {
	dst = dst[:0]
	if len(foods) == 0 {
		return append(dst, 0, 0)
	}
	i := 0
	if e.Nearest {
		i = Nearest(self.Pos, foods)
	}
	d := r2.Sub(foods[i], self.Pos)
	return append(dst, d.X, d.Y)
}

// MultiDelta observes (dx, dy) to the Foods nearest foods followed by the
// Predators nearest predators, each group nearest first.
// Missing targets are padded with (0, 0).
type MultiDelta struct {
	Foods     int
	Predators int

	scratch []Neighbor
}

func (e *MultiDelta) Width() int { return 2 * (e.Foods + e.Predators) }

func (e *MultiDelta) Encode(dst []float64, self Observer, foods, predators []r2.Vec) []float64 {
	dst = dst[:0]
	dst = e.appendGroup(dst, self.Pos, foods, e.Foods)
	dst = e.appendGroup(dst, self.Pos, predators, e.Predators)
	return dst
}

func (e *MultiDelta) appendGroup(dst []float64, origin r2.Vec, pts []r2.Vec, k int) []float64 {
	e.scratch = NearestInto(e.scratch[:0], origin, pts, k)
	for _, n := range e.scratch {
		dst = append(dst, n.Delta.X, n.Delta.Y)
	}
	for i := len(e.scratch); i < k; i++ {
		dst = append(dst, 0, 0)
	}
	return dst
}

// Polar observes (distance, relative bearing) to the nearest food and the
// nearest predator. The bearing is the target's absolute angle minus the
// observer's heading, wrapped into (-Pi, Pi]. A missing target reads as
// (Far, 0).
type Polar struct {
	Far float64
}

func (e *Polar) Width() int { return 4 }

func (e *Polar) Encode(dst []float64, self Observer, foods, predators []r2.Vec) []float64 {
	dst = dst[:0]
	dst = e.appendTarget(dst, self, foods)
	dst = e.appendTarget(dst, self, predators)
	return dst
}

func (e *Polar) appendTarget(dst []float64, self Observer, pts []r2.Vec) []float64 {
	i := Nearest(self.Pos, pts)
	if i < 0 {
		return append(dst, e.Far, 0)
	}
	d := r2.Sub(pts[i], self.Pos)
	bearing := math.Atan2(d.Y, d.X)
	return append(dst, r2.Norm(d), NormalizeAngle(bearing-self.Heading))
}
