//go:build !fastmath

package effects

import "math"

// mathSqrt computes sqrt(x) using the standard library.
func mathSqrt(x float64) float64 {
	return math.Sqrt(x)
}

// mathExp computes e^x using the standard library.
func mathExp(x float64) float64 {
	return math.Exp(x)
}
