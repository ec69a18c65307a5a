// Package osc implements the normalized-phase oscillator used as the
// timing source for every periodic effect in the engine.
//
// Phase lives in [0, 1). The sine shape goes through a quarter-wave
// lookup table with linear interpolation; with 256 steps the result is
// good to roughly 4.5 digits, which is plenty for audio.
package osc

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-pedal/dsp/core"
)

// Shape selects the waveform an Oscillator produces.
type Shape int

const (
	// ShapeSine is a table-lookup sine.
	ShapeSine Shape = iota
	// ShapeTriangle is a zero-DC piecewise-linear triangle with peaks at +-1.
	ShapeTriangle
	// ShapeSaw is a bipolar ramp rising across one period.
	ShapeSaw
)

func (s Shape) String() string {
	switch s {
	case ShapeSine:
		return "sine"
	case ShapeTriangle:
		return "triangle"
	case ShapeSaw:
		return "saw"
	default:
		return fmt.Sprintf("shape(%d)", int(s))
	}
}

const quarterSteps = 256

// quarterSine holds sin over the first quadrant, inclusive of both ends.
var quarterSine [quarterSteps + 1]float64

func init() {
	for i := range quarterSine {
		quarterSine[i] = math.Sin(math.Pi / 2 * float64(i) / quarterSteps)
	}
}

// Oscillator is a single voice with an owned phase in [0, 1).
type Oscillator struct {
	sampleRate float64
	shape      Shape

	phase float64
	inc   float64
}

// New creates an oscillator at rest (phase 0, frequency 0).
func New(sampleRate float64, shape Shape) (*Oscillator, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("osc sample rate must be > 0 and finite: %f", sampleRate)
	}

	if shape < ShapeSine || shape > ShapeSaw {
		return nil, fmt.Errorf("osc shape out of range: %d", int(shape))
	}

	return &Oscillator{sampleRate: sampleRate, shape: shape}, nil
}

// SetFrequency sets the per-sample phase increment to freqHz/sampleRate.
// Zero freezes the phase; negative values run the waveform backwards.
// Both are deliberate features, not error conditions.
func (o *Oscillator) SetFrequency(freqHz float64) {
	if math.IsNaN(freqHz) || math.IsInf(freqHz, 0) {
		return
	}

	o.inc = freqHz / o.sampleRate
}

// SetPeriodMs sets the frequency from a period in milliseconds.
func (o *Oscillator) SetPeriodMs(ms float64) {
	if ms <= 0 || math.IsNaN(ms) || math.IsInf(ms, 0) {
		return
	}

	o.SetFrequency(1000 / ms)
}

// Frequency returns the current frequency in Hz.
func (o *Oscillator) Frequency() float64 { return o.inc * o.sampleRate }

// SampleRate returns the sample rate in Hz.
func (o *Oscillator) SampleRate() float64 { return o.sampleRate }

// Phase returns the current normalized phase in [0, 1).
func (o *Oscillator) Phase() float64 { return o.phase }

// SetPhase overwrites the phase, wrapping into [0, 1). This is the
// coupling-update view of the phase: phase-nudging effects read Phase,
// compute a correction, and write the result back before stepping.
func (o *Oscillator) SetPhase(phase float64) {
	if math.IsNaN(phase) || math.IsInf(phase, 0) {
		return
	}

	o.phase = core.WrapPhase(phase)
}

// Step advances the phase by one sample and returns the waveform value
// at the new phase.
func (o *Oscillator) Step() float64 {
	o.phase = core.WrapPhase(o.phase + o.inc)

	switch o.shape {
	case ShapeTriangle:
		return Triangle(o.phase)
	case ShapeSaw:
		return Saw(o.phase)
	default:
		return Sine(o.phase)
	}
}

// Reset returns the oscillator to phase 0 without touching frequency.
func (o *Oscillator) Reset() {
	o.phase = 0
}

// Sine evaluates the table sine at a normalized phase in [0, 1).
func Sine(phase float64) float64 {
	p := core.WrapPhase(phase) * 4
	quadrant := int(p)
	p -= float64(quadrant)

	p *= quarterSteps
	idx := int(p)
	frac := p - float64(idx)

	var v float64

	// Quadrant symmetry: the table only covers the first quarter wave.
	switch quadrant & 3 {
	case 0:
		v = quarterSine[idx] + frac*(quarterSine[idx+1]-quarterSine[idx])
	case 1:
		a := quarterSine[quarterSteps-idx]
		b := quarterSine[quarterSteps-idx-1]
		v = a + frac*(b-a)
	case 2:
		v = -(quarterSine[idx] + frac*(quarterSine[idx+1]-quarterSine[idx]))
	default:
		a := quarterSine[quarterSteps-idx]
		b := quarterSine[quarterSteps-idx-1]
		v = -(a + frac*(b-a))
	}

	return v
}

// SinCos evaluates sine and cosine together from one table walk.
func SinCos(phase float64) (sin, cos float64) {
	sin = Sine(phase)
	cos = Sine(phase + 0.25)

	return sin, cos
}

// Triangle evaluates a zero-DC triangle at a normalized phase in [0, 1):
// rising through 0 at phase 0, peaking at +1 and -1 a quarter and three
// quarters through the cycle.
func Triangle(phase float64) float64 {
	p := core.WrapPhase(phase)

	switch {
	case p < 0.25:
		return 4 * p
	case p < 0.75:
		return 2 - 4*p
	default:
		return 4*p - 4
	}
}

// Saw evaluates a bipolar rising ramp at a normalized phase in [0, 1).
func Saw(phase float64) float64 {
	return 2*core.WrapPhase(phase) - 1
}
