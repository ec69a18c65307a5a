package core

import "math"

const defaultEpsilon = 1e-12

// Clamp limits value to the inclusive range [min, max].
func Clamp(value, min, max float64) float64 {
	if min > max {
		min, max = max, min
	}

	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}

// Lerp maps t in [0, 1] linearly onto [a, b].
// Values of t outside [0, 1] extrapolate.
func Lerp(t, a, b float64) float64 {
	return a + t*(b-a)
}

// CubicLerp maps t through a cubic taper onto [a, b].
// Useful for pot curves where fine control is wanted at the low end.
func CubicLerp(t, a, b float64) float64 {
	return Lerp(t*t*t, a, b)
}

// PotFrequencyHz maps a normalized pot value onto [minHz, maxHz]
// with an exponential (equal-octaves) taper.
func PotFrequencyHz(pot, minHz, maxHz float64) float64 {
	if minHz <= 0 || maxHz <= minHz {
		return minHz
	}

	return minHz * math.Pow(maxHz/minHz, Clamp(pot, 0, 1))
}

// WrapPhase wraps a normalized phase into [0, 1).
func WrapPhase(phase float64) float64 {
	phase -= math.Floor(phase)
	if phase >= 1 { // guards -0.0 and float residue from Floor
		phase = 0
	}

	return phase
}

// WrapRadians wraps an angle into [-pi, pi].
func WrapRadians(angle float64) float64 {
	for angle > math.Pi {
		angle -= 2 * math.Pi
	}

	for angle < -math.Pi {
		angle += 2 * math.Pi
	}

	return angle
}

// NearlyEqual reports whether a and b are equal within eps.
func NearlyEqual(a, b, eps float64) bool {
	if eps <= 0 {
		eps = defaultEpsilon
	}

	diff := math.Abs(a - b)
	if diff <= eps {
		return true
	}

	largest := math.Max(math.Abs(a), math.Abs(b))
	if largest == 0 {
		return diff <= eps
	}

	return diff/largest <= eps
}

// FlushDenormals converts tiny denormal-like values to exact zero.
// This reduces denormal-related CPU slowdowns in the per-sample loops.
func FlushDenormals(x float64) float64 {
	const epsilon = 1e-30
	if x > -epsilon && x < epsilon {
		return 0
	}

	return x
}
