package components

import "gonum.org/v1/gonum/spatial/r2"

// Position represents an entity's world position.
// For agents it is the top-left corner of the bounding box under the axis
// model and the centre under the rotation model; see Body.Center.
type Position struct {
	X, Y float64
}

// Vec returns the position as a gonum vector.
func (p Position) Vec() r2.Vec {
	return r2.Vec{X: p.X, Y: p.Y}
}

// Heading represents an agent's facing angle in radians, kept in [0, 2π).
// Only the rotation movement model reads it.
type Heading struct {
	Angle float64
}
