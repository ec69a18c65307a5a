package effects

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-pedal/dsp/osc"
)

const (
	tremoloMinRateHz  = 0.5
	tremoloRateSpanHz = 10.0
)

// Tremolo modulates the input's amplitude with a sine LFO, the way old
// amps did (and mislabeled "vibrato").
//
// Pot mapping: pot0 LFO rate 0.5..10.5 Hz on a squared taper, pot1
// depth in [0, 1]. Pots 2 and 3 are unused.
type Tremolo struct {
	sampleRate float64

	ratePot *Smoothed
	depth   *Smoothed

	lfo *osc.Oscillator
}

// NewTremolo creates a tremolo from the four pot values.
func NewTremolo(sampleRate float64, pots Pots) (*Tremolo, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("tremolo sample rate must be > 0 and finite: %f", sampleRate)
	}

	pots = pots.Clamped()

	lfo, err := osc.New(sampleRate, osc.ShapeSine)
	if err != nil {
		return nil, err
	}

	return &Tremolo{
		sampleRate: sampleRate,
		ratePot:    NewSmoothed(sampleRate, defaultSlewMs, pots[0]),
		depth:      NewSmoothed(sampleRate, defaultSlewMs, pots[1]),
		lfo:        lfo,
	}, nil
}

// SetPots retargets the controls.
func (t *Tremolo) SetPots(pots Pots) {
	pots = pots.Clamped()
	t.ratePot.Set(pots[0])
	t.depth.Set(pots[1])
}

// RateHz returns the resolved LFO rate in Hz.
func (t *Tremolo) RateHz() float64 {
	p := t.ratePot.Target()

	return tremoloMinRateHz + p*p*tremoloRateSpanHz
}

// Process runs one sample through the tremolo.
func (t *Tremolo) Process(sample float64) float64 {
	p := t.ratePot.Next()
	depth := t.depth.Next()

	t.lfo.SetFrequency(tremoloMinRateHz + p*p*tremoloRateSpanHz)
	mod := t.lfo.Step()

	// Scale mod from [-1, 1] to [1-depth, 1]: at depth 1 the signal
	// pumps all the way to silence, at depth 0 it passes untouched.
	multiplier := 1 - depth*(1-mod)/2

	return sample * multiplier
}

// Reset rewinds the LFO and snaps the smoothed controls.
func (t *Tremolo) Reset() {
	t.lfo.Reset()
	t.ratePot.Snap()
	t.depth.Snap()
}

// Describe reports the resolved physical parameters.
func (t *Tremolo) Describe() string {
	return fmt.Sprintf("tremolo: lfo=%.2f Hz depth=%.2f", t.RateHz(), t.depth.Target())
}
