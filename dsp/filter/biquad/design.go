package biquad

import "math"

const (
	defaultQ          = 1 / math.Sqrt2
	nyquistSafetyFrac = 0.49
)

// Lowpass designs a lowpass section at freq (Hz) with quality factor q.
// DC gain is exactly 1 by construction.
func Lowpass(freq, q, sampleRate float64) Coefficients {
	w0, ok := normalizedW0(freq, sampleRate)
	if !ok {
		return Coefficients{B0: 1}
	}

	q = normalizedQ(q)
	cw := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * q)

	b1 := 1 - cw
	b0 := b1 / 2
	b2 := b0
	a0 := 1 + alpha
	a1 := -2 * cw
	a2 := 1 - alpha

	return normalize(b0, b1, b2, a0, a1, a2)
}

// Highpass designs a highpass section at freq (Hz) with quality factor q.
func Highpass(freq, q, sampleRate float64) Coefficients {
	w0, ok := normalizedW0(freq, sampleRate)
	if !ok {
		return Coefficients{B0: 1}
	}

	q = normalizedQ(q)
	cw := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * q)

	b1 := -(1 + cw)
	b0 := (1 + cw) / 2
	b2 := b0
	a0 := 1 + alpha
	a1 := -2 * cw
	a2 := 1 - alpha

	return normalize(b0, b1, b2, a0, a1, a2)
}

// Allpass designs a unity-magnitude allpass section centered at freq (Hz).
func Allpass(freq, q, sampleRate float64) Coefficients {
	w0, ok := normalizedW0(freq, sampleRate)
	if !ok {
		return Coefficients{B0: 1}
	}

	q = normalizedQ(q)
	cw := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * q)

	b0 := 1 - alpha
	b1 := -2 * cw
	b2 := 1 + alpha
	a0 := 1 + alpha
	a1 := -2 * cw
	a2 := 1 - alpha

	return normalize(b0, b1, b2, a0, a1, a2)
}

// normalizedW0 converts freq to normalized angular frequency, clamping
// into the stable (0, 0.49*fs] band rather than signaling an error.
func normalizedW0(freq, sampleRate float64) (float64, bool) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return 0, false
	}

	if math.IsNaN(freq) || math.IsInf(freq, 0) {
		return 0, false
	}

	maxFreq := nyquistSafetyFrac * sampleRate
	if freq > maxFreq {
		freq = maxFreq
	}

	if freq <= 0 {
		return 0, false
	}

	return 2 * math.Pi * freq / sampleRate, true
}

func normalizedQ(q float64) float64 {
	if q <= 0 || math.IsNaN(q) || math.IsInf(q, 0) {
		return defaultQ
	}

	return q
}

func normalize(b0, b1, b2, a0, a1, a2 float64) Coefficients {
	if a0 == 0 || math.IsNaN(a0) || math.IsInf(a0, 0) {
		return Coefficients{B0: 1}
	}

	return Coefficients{
		B0: b0 / a0,
		B1: b1 / a0,
		B2: b2 / a0,
		A1: a1 / a0,
		A2: a2 / a0,
	}
}
