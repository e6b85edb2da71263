package systems

import "math"

const twoPi = 2 * math.Pi

// clampFloat clamps v between minVal and maxVal. When the range is empty
// (maxVal < minVal) it returns minVal.
func clampFloat(v, minVal, maxVal float64) float64 {
	if v > maxVal {
		v = maxVal
	}
	if v < minVal {
		v = minVal
	}
	return v
}

// NormalizeAngle wraps an angle into (-Pi, Pi].
func NormalizeAngle(angle float64) float64 {
	a := math.Mod(angle+math.Pi, twoPi)
	if a < 0 {
		a += twoPi
	}
	// a is in [0, 2Pi); shift so -Pi maps to +Pi.
	a -= math.Pi
	if a == -math.Pi {
		a = math.Pi
	}
	return a
}

// NormalizeHeading wraps a heading into [0, 2*Pi).
func NormalizeHeading(h float64) float64 {
	h = math.Mod(h, twoPi)
	if h < 0 {
		h += twoPi
	}
	if h >= twoPi {
		h = 0
	}
	return h
}
