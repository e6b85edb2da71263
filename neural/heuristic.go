package neural

import "math"

// Gate indices shared by the axis movement model.
const (
	GateUp = iota
	GateDown
	GateLeft
	GateRight
)

// Seeker steers toward the first (dx, dy) pair in the observation using the
// axis model gates. It is a baseline for comparing evolved controllers.
type Seeker struct {
	In int
	// Deadband is the per-axis distance under which no gate fires.
	Deadband float64
}

func (s Seeker) Decide(obs []float64) ([]float64, error) {
	out := make([]float64, 4)
	if len(obs) < 2 {
		return out, nil
	}
	dx, dy := obs[0], obs[1]
	if dy < -s.Deadband {
		out[GateUp] = 1
	} else if dy > s.Deadband {
		out[GateDown] = 1
	}
	if dx < -s.Deadband {
		out[GateLeft] = 1
	} else if dx > s.Deadband {
		out[GateRight] = 1
	}
	return out, nil
}

func (s Seeker) Inputs() int  { return s.In }
func (s Seeker) Outputs() int { return 4 }

// Idle never moves.
type Idle struct {
	In int
}

func (i Idle) Decide([]float64) ([]float64, error) {
	return make([]float64, 4), nil
}

func (i Idle) Inputs() int  { return i.In }
func (i Idle) Outputs() int { return 4 }

// Turner is a rotation model baseline driven by a polar observation
// (distance, relative angle, ...): it turns toward the target and thrusts
// forward once roughly aligned.
type Turner struct {
	In int
	// Tolerance is the bearing, in radians, inside which it stops turning.
	Tolerance float64
}

func (t Turner) Decide(obs []float64) ([]float64, error) {
	out := make([]float64, 4)
	if len(obs) < 2 {
		return out, nil
	}
	bearing := obs[1]
	switch {
	case bearing < -t.Tolerance:
		out[0] = 1
	case bearing > t.Tolerance:
		out[1] = 1
	}
	if math.Abs(bearing) < math.Pi/2 {
		out[2] = 1
	}
	return out, nil
}

func (t Turner) Inputs() int  { return t.In }
func (t Turner) Outputs() int { return 4 }
