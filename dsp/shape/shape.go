// Package shape provides the memoryless waveshapers shared by the
// effects: the saturating output limiter, the distortion clippers, and
// the foldback/diode extensions.
package shape

// Limit smoothly limits x toward [-1, 1] as it approaches [-2, 2].
//
// The odd polynomial x*(1 - 0.19*x^2 + 0.0162*x^4) lets two values in
// the [-1, 1] range be summed and bounded again without a hard corner.
// Every effect output passes through it, which is what keeps the
// engine's output bounded (|y| < ~1.05) regardless of upstream
// numerical excursions.
func Limit(x float64) float64 {
	// The polynomial only limits on [-2, 2]; beyond that it folds back
	// over and eventually diverges, so pathological inputs clamp first.
	if x > 2 {
		x = 2
	} else if x < -2 {
		x = -2
	}

	x2 := x * x

	return x * (1 - 0.19*x2 + 0.0162*x2*x2)
}

// SoftClip is a smooth saturation curve, x / (1 + |x|).
func SoftClip(x float64) float64 {
	if x < 0 {
		return x / (1 - x)
	}

	return x / (1 + x)
}

// HardClip clamps x to [-1, 1].
func HardClip(x float64) float64 {
	if x > 1 {
		return 1
	}

	if x < -1 {
		return -1
	}

	return x
}

// AsymmetricClip saturates the negative half harder than the positive
// half, approximating tube-style even-harmonic distortion.
func AsymmetricClip(x float64) float64 {
	if x > 0 {
		return SoftClip(x)
	}

	return SoftClip(x*0.7) * 0.7
}

// foldBackMaxIterations caps the reflection loop; extreme inputs give a
// partially folded value instead of spinning.
const foldBackMaxIterations = 16

// FoldBack reflects x back into [-threshold, threshold], creating the
// dense harmonics of foldback fuzz. A zero or negative threshold is
// degenerate configuration and yields 0.
func FoldBack(x, threshold float64) float64 {
	if threshold <= 0 {
		return 0
	}

	for i := 0; (x > threshold || x < -threshold) && i < foldBackMaxIterations; i++ {
		if x > threshold {
			x = 2*threshold - x
		} else {
			x = -2*threshold - x
		}
	}

	return x
}

// DiodeClip approximates silicon diode clipping. ratio controls the
// asymmetry of the negative half (1 = symmetric); non-positive ratios
// fall back to the symmetric limiter.
func DiodeClip(x, ratio float64) float64 {
	if ratio <= 0 {
		return Limit(x)
	}

	if x >= 0 {
		return Limit(x)
	}

	return Limit(x*ratio) / ratio
}
