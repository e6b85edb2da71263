// Package components defines ECS components for the simulation.
package components

import "gonum.org/v1/gonum/spatial/r2"

// Food is a stationary pellet. Its position is the centre.
type Food struct {
	Radius float64
}

// Direction is one of the four axis-aligned predator headings.
type Direction uint8

const (
	DirRight Direction = iota
	DirLeft
	DirDown
	DirUp
)

// Directions lists every predator heading in sampling order.
var Directions = [...]Direction{DirRight, DirLeft, DirDown, DirUp}

// Unit returns the direction as a unit vector (screen coordinates, y down).
func (d Direction) Unit() r2.Vec {
	switch d {
	case DirRight:
		return r2.Vec{X: 1}
	case DirLeft:
		return r2.Vec{X: -1}
	case DirDown:
		return r2.Vec{Y: 1}
	default:
		return r2.Vec{Y: -1}
	}
}

func (d Direction) String() string {
	switch d {
	case DirRight:
		return "right"
	case DirLeft:
		return "left"
	case DirDown:
		return "down"
	case DirUp:
		return "up"
	}
	return "unknown"
}

// Predator holds random-walk state. Its position is the centre.
type Predator struct {
	Speed  float64
	Radius float64
	Dir    Direction
	Timer  int // Ticks until the next direction change
}
