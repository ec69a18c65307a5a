// Package response provides offline signal analysis for verifying the
// engine's effects: level metering and FFT-based spectrum estimation
// for dominant-frequency checks. It is test and measurement tooling,
// not part of the per-sample processing path.
package response

import (
	"fmt"
	"math"

	algofft "github.com/cwbudde/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

// RMS returns the root-mean-square level of the signal, 0 for empty
// input.
func RMS(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}

	sum := 0.0
	for _, x := range signal {
		sum += x * x
	}

	return math.Sqrt(sum / float64(len(signal)))
}

// Peak returns the largest absolute sample value, 0 for empty input.
func Peak(signal []float64) float64 {
	peak := 0.0

	for _, x := range signal {
		if a := math.Abs(x); a > peak {
			peak = a
		}
	}

	return peak
}

// DB converts a linear amplitude ratio to decibels.
func DB(ratio float64) float64 {
	if ratio <= 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(ratio)
}

// hannWindow generates Hann coefficients for in-place windowing.
func hannWindow(n int) []float64 {
	coeffs := make([]float64, n)
	if n == 1 {
		coeffs[0] = 1
		return coeffs
	}

	for i := range coeffs {
		coeffs[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
	}

	return coeffs
}

// MagnitudeSpectrum returns |X[k]| for the non-negative-frequency bins
// [0..Nyquist] of the Hann-windowed signal, zero-padded to the next
// power of two.
func MagnitudeSpectrum(signal []float64) ([]float64, error) {
	if len(signal) == 0 {
		return nil, fmt.Errorf("spectrum requires a non-empty signal")
	}

	fftSize := nextPowerOf2(len(signal))

	windowed := make([]float64, len(signal))
	copy(windowed, signal)
	vecmath.MulBlockInPlace(windowed, hannWindow(len(signal)))

	in := make([]complex128, fftSize)
	for i, x := range windowed {
		in[i] = complex(x, 0)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("spectrum plan: %w", err)
	}

	out := make([]complex128, fftSize)
	if err := plan.Forward(out, in); err != nil {
		return nil, fmt.Errorf("spectrum forward transform: %w", err)
	}

	binCount := fftSize/2 + 1

	re := make([]float64, binCount)
	im := make([]float64, binCount)

	for i := 0; i < binCount; i++ {
		re[i] = real(out[i])
		im[i] = imag(out[i])
	}

	mags := make([]float64, binCount)
	vecmath.Magnitude(mags, re, im)

	return mags, nil
}

// DominantFrequencyHz estimates the strongest spectral component of the
// signal in Hz, ignoring the DC bin.
func DominantFrequencyHz(signal []float64, sampleRate float64) (float64, error) {
	if sampleRate <= 0 {
		return 0, fmt.Errorf("spectrum sample rate must be > 0: %f", sampleRate)
	}

	mags, err := MagnitudeSpectrum(signal)
	if err != nil {
		return 0, err
	}

	fftSize := 2 * (len(mags) - 1)

	bestBin := 1
	bestVal := -1.0

	for i := 1; i < len(mags); i++ {
		if mags[i] > bestVal {
			bestVal = mags[i]
			bestBin = i
		}
	}

	return float64(bestBin) * sampleRate / float64(fftSize), nil
}

func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}

	p := 1
	for p < n {
		p <<= 1
	}

	return p
}
