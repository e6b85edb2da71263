// Package systems provides the per-tick rules of the simulation: sensing,
// action decoding, movement and predator behaviour.
package systems

import (
	"slices"

	"gonum.org/v1/gonum/spatial/r2"
)

// Neighbor is a candidate point ranked by distance from a query origin.
type Neighbor struct {
	Index  int     // Position in the candidate slice
	Delta  r2.Vec  // Candidate minus origin
	DistSq float64 // Squared distance (avoid sqrt when ranking)
}

// NearestInto ranks pts by Euclidean distance from origin and appends the
// closest k to dst, nearest first. Ties keep candidate order. k < 0 returns
// every candidate. Reuse dst across calls to avoid allocations.
func NearestInto(dst []Neighbor, origin r2.Vec, pts []r2.Vec, k int) []Neighbor {
	start := len(dst)
	for i, p := range pts {
		d := r2.Sub(p, origin)
		dst = append(dst, Neighbor{Index: i, Delta: d, DistSq: r2.Dot(d, d)})
	}
	ranked := dst[start:]
	slices.SortStableFunc(ranked, func(a, b Neighbor) int {
		switch {
		case a.DistSq < b.DistSq:
			return -1
		case a.DistSq > b.DistSq:
			return 1
		}
		return 0
	})
	if k >= 0 && k < len(ranked) {
		dst = dst[:start+k]
	}
	return dst
}

// Nearest returns the index of the point closest to origin, or -1 if pts is
// empty. Ties go to the lower index.
func Nearest(origin r2.Vec, pts []r2.Vec) int {
	best, bestSq := -1, 0.0
	for i, p := range pts {
		d := r2.Sub(p, origin)
		sq := r2.Dot(d, d)
		if best < 0 || sq < bestSq {
			best, bestSq = i, sq
		}
	}
	return best
}

// NearestWithin returns the index of the point closest to origin among those
// strictly closer than radius, or -1 if none qualifies.
func NearestWithin(origin r2.Vec, pts []r2.Vec, radius float64) int {
	i := Nearest(origin, pts)
	if i < 0 {
		return -1
	}
	if r2.Norm(r2.Sub(pts[i], origin)) < radius {
		return i
	}
	return -1
}

// AnyWithin reports the first point strictly closer than radius, or -1.
func AnyWithin(origin r2.Vec, pts []r2.Vec, radius float64) int {
	for i, p := range pts {
		if r2.Norm(r2.Sub(p, origin)) < radius {
			return i
		}
	}
	return -1
}
