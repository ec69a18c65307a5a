//go:build fastmath

package effects

import "github.com/meko-christian/algo-approx"

// mathSqrt computes sqrt(x) using fast approximation. The envelope
// extraction runs it once per sample, so the cheaper path matters on
// small cores.
func mathSqrt(x float64) float64 {
	return approx.FastSqrt(x)
}

// mathExp computes e^x using fast approximation. Only used when
// deriving slew coefficients, but kept alongside mathSqrt so both
// builds share one seam.
func mathExp(x float64) float64 {
	return approx.FastExp(x)
}
