// Package track estimates the amplitude envelope and fundamental
// frequency of a monophonic input using zero-crossing timing.
//
// The estimator is deliberately approximate: polyphonic or noisy input
// tracks whichever zero-crossing period dominates, with no guarantee of
// picking the perceptually dominant pitch. That is a documented
// limitation of the method, not a defect.
package track

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-pedal/dsp/core"
	"github.com/cwbudde/algo-pedal/dsp/filter/biquad"
)

const (
	defaultInitialFreqHz = 110.0 // A2, reasonable for guitar
	conditionCutoffHz    = 1000.0
	conditionQ           = 1 / math.Sqrt2

	// Candidate periods outside this band are discarded; guitar
	// fundamentals live roughly here.
	minFundamentalHz = 40.0
	maxFundamentalHz = 2000.0

	amplitudeHalfLifeSamples = 40.0
	thresholdFraction        = 0.1
	thresholdFloor           = 1e-4
	frequencyBlend           = 0.1
)

// Option mutates tracker construction parameters.
type Option func(*Tracker) error

// WithInitialFrequencyHz sets the frequency the estimate starts from
// before any edges have been observed.
func WithInitialFrequencyHz(freqHz float64) Option {
	return func(t *Tracker) error {
		if freqHz < minFundamentalHz || freqHz > maxFundamentalHz {
			return fmt.Errorf("tracker initial frequency must be in [%g, %g]: %f",
				minFundamentalHz, maxFundamentalHz, freqHz)
		}

		t.initialFreq = freqHz

		return nil
	}
}

// Tracker follows the input's amplitude with instant attack and
// exponential decay, and times rising edges through a hysteresis
// comparator to estimate the fundamental.
type Tracker struct {
	sampleRate  float64
	decay       float64
	initialFreq float64

	condition *biquad.Section

	amplitude         float64
	samplesSinceCross int
	isHigh            bool
	smoothedFreq      float64
}

// New creates a tracker for the given sample rate.
func New(sampleRate float64, opts ...Option) (*Tracker, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("tracker sample rate must be > 0 and finite: %f", sampleRate)
	}

	t := &Tracker{
		sampleRate:  sampleRate,
		decay:       math.Pow(0.5, 1/amplitudeHalfLifeSamples),
		initialFreq: defaultInitialFreqHz,
		condition:   biquad.NewSection(biquad.Lowpass(conditionCutoffHz, conditionQ, sampleRate)),
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(t); err != nil {
			return nil, err
		}
	}

	t.smoothedFreq = t.initialFreq

	return t, nil
}

// Process consumes one sample and returns the current amplitude
// estimate and smoothed fundamental frequency.
func (t *Tracker) Process(x float64) (amplitude, frequency float64) {
	// instant attack, exponential decay toward the current level
	a := math.Abs(x)
	if a < t.amplitude {
		a = core.Lerp(t.decay, a, t.amplitude)
	}

	t.amplitude = a

	t.trackFrequency(x)

	return t.amplitude, t.smoothedFreq
}

func (t *Tracker) trackFrequency(x float64) {
	clean := t.condition.ProcessSample(x)

	t.samplesSinceCross++

	threshold := t.amplitude * thresholdFraction
	if threshold < thresholdFloor {
		threshold = thresholdFloor
	}

	switch {
	case !t.isHigh && clean > threshold:
		// rising edge: the interval since the previous rising edge is
		// one period candidate
		t.isHigh = true

		freq := t.sampleRate / float64(t.samplesSinceCross)
		if freq > minFundamentalHz && freq < maxFundamentalHz {
			t.smoothedFreq = core.Lerp(frequencyBlend, t.smoothedFreq, freq)
		}

		t.samplesSinceCross = 0

	case t.isHigh && clean < -threshold:
		t.isHigh = false
	}
}

// Amplitude returns the current envelope estimate.
func (t *Tracker) Amplitude() float64 { return t.amplitude }

// Frequency returns the current smoothed fundamental estimate in Hz.
func (t *Tracker) Frequency() float64 { return t.smoothedFreq }

// SampleRate returns the sample rate in Hz.
func (t *Tracker) SampleRate() float64 { return t.sampleRate }

// Reset restores the initial state, including the conditioning filter.
func (t *Tracker) Reset() {
	t.condition.Reset()
	t.amplitude = 0
	t.samplesSinceCross = 0
	t.isHigh = false
	t.smoothedFreq = t.initialFreq
}
