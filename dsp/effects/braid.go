package effects

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-pedal/dsp/core"
	"github.com/cwbudde/algo-pedal/dsp/filter/biquad"
	"github.com/cwbudde/algo-pedal/dsp/osc"
	"github.com/cwbudde/algo-pedal/dsp/shape"
	"github.com/cwbudde/algo-pedal/dsp/track"
)

const (
	braidOscillators = 5

	// Per-sample Kuramoto correction scale. At 48 kHz even small nudges
	// accumulate fast; with at most two neighbors (|correction| <= 2)
	// and K <= 1, no phase moves more than 0.002 of a cycle per sample,
	// which keeps the ring stable at full coupling.
	braidCouplingScale = 0.001

	braidMinOscHz = 20.0
	braidMaxOscHz = 16000.0

	braidFundamentalWeight = 0.3
	braidSubCutoffHz       = 300.0
	braidBrightCutoffHz    = 800.0
	braidFilterQ           = 1 / math.Sqrt2
)

// braidRatios is the harmonic series the five oscillators lock to:
// sub-octave, fundamental, octave, twelfth, double octave.
var braidRatios = [braidOscillators]float64{0.5, 1, 2, 3, 4}

// braidUpperWeights mixes the three upper oscillators.
var braidUpperWeights = [3]float64{0.5, 0.3, 0.2}

// Braid is a bank of five oscillators at ratios {0.5, 1, 2, 3, 4} of
// the tracked fundamental, phase-coupled with Kuramoto-style nudging on
// a ring (the end oscillators have a single neighbor).
//
// Pot mapping: pot0 coupling strength K in [0, 1], pot1 sub-oscillator
// level, pot2 brightness of the upper harmonics, pot3 dry/wet blend.
//
// Coupling character: near K=0 the oscillators drift freely and beat
// against each other; around K=0.4 they partially synchronize; at K=1
// they phase-lock into a clean harmonic series.
type Braid struct {
	sampleRate float64

	coupling   *Smoothed
	subLevel   *Smoothed
	brightness *Smoothed
	blend      *Smoothed

	tracker *track.Tracker
	oscs    [braidOscillators]*osc.Oscillator

	// Float64bits of the tracked fundamental. The tracker itself is
	// owned by the audio thread; Describe and Frequency read this
	// snapshot so the control thread never touches tracker state.
	trackedFreq atomic.Uint64

	subLPF    *biquad.Section
	brightHPF *biquad.Section
}

// NewBraid creates a harmonic braid from the four pot values.
func NewBraid(sampleRate float64, pots Pots) (*Braid, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("braid sample rate must be > 0 and finite: %f", sampleRate)
	}

	pots = pots.Clamped()

	tracker, err := track.New(sampleRate)
	if err != nil {
		return nil, err
	}

	b := &Braid{
		sampleRate: sampleRate,
		coupling:   NewSmoothed(sampleRate, defaultSlewMs, pots[0]),
		subLevel:   NewSmoothed(sampleRate, defaultSlewMs, pots[1]),
		brightness: NewSmoothed(sampleRate, defaultSlewMs, pots[2]),
		blend:      NewSmoothed(sampleRate, defaultSlewMs, pots[3]),
		tracker:    tracker,
		subLPF:     biquad.NewSection(biquad.Lowpass(braidSubCutoffHz, braidFilterQ, sampleRate)),
		brightHPF:  biquad.NewSection(biquad.Highpass(braidBrightCutoffHz, braidFilterQ, sampleRate)),
	}

	for i := range b.oscs {
		o, err := osc.New(sampleRate, osc.ShapeSine)
		if err != nil {
			return nil, err
		}

		b.oscs[i] = o
	}

	b.seedOscillators()

	return b, nil
}

// seedOscillators spreads the phases evenly and tunes each oscillator
// to its ratio of the tracker's resting frequency.
func (b *Braid) seedOscillators() {
	freq := b.tracker.Frequency()
	b.trackedFreq.Store(math.Float64bits(freq))

	for i, o := range b.oscs {
		o.SetPhase(float64(i) / braidOscillators)
		o.SetFrequency(core.Clamp(freq*braidRatios[i], braidMinOscHz, braidMaxOscHz))
	}
}

// SetPots retargets the four controls; values are approached by slew
// limiting on the audio thread.
func (b *Braid) SetPots(pots Pots) {
	pots = pots.Clamped()
	b.coupling.Set(pots[0])
	b.subLevel.Set(pots[1])
	b.brightness.Set(pots[2])
	b.blend.Set(pots[3])
}

// Process runs one sample through the braid.
func (b *Braid) Process(sample float64) float64 {
	amplitude, freq := b.tracker.Process(sample)
	b.trackedFreq.Store(math.Float64bits(freq))

	k := b.coupling.Next()
	subLevel := b.subLevel.Next()
	brightness := b.brightness.Next()
	blend := b.blend.Next()

	// Retune to the tracked fundamental and snapshot the phases the
	// coupling update reads. The oscillator owns its phase; the
	// Kuramoto step is just a second view onto it.
	var phases [braidOscillators]float64

	for i, o := range b.oscs {
		o.SetFrequency(core.Clamp(freq*braidRatios[i], braidMinOscHz, braidMaxOscHz))
		phases[i] = o.Phase()
	}

	// Each oscillator is pulled toward its ring neighbors by
	// sin(2*pi*(theta_j - theta_i)): zero when locked, maximal at 90
	// degrees, repelling past 180.
	for i, o := range b.oscs {
		correction := 0.0
		if i > 0 {
			correction += osc.Sine(phases[i-1] - phases[i])
		}

		if i < braidOscillators-1 {
			correction += osc.Sine(phases[i+1] - phases[i])
		}

		o.SetPhase(phases[i] + k*correction*braidCouplingScale)
	}

	var out [braidOscillators]float64
	for i, o := range b.oscs {
		out[i] = o.Step()
	}

	// The oscillators sing only as loud as the input is playing.
	sub := b.subLPF.ProcessSample(out[0] * amplitude * subLevel)
	fund := out[1] * amplitude * braidFundamentalWeight

	upper := out[2]*braidUpperWeights[0] + out[3]*braidUpperWeights[1] + out[4]*braidUpperWeights[2]
	upper = b.brightHPF.ProcessSample(upper * amplitude * brightness)

	wet := shape.Limit(sub + fund + upper)

	return core.Lerp(blend, sample, wet)
}

// Reset restores tracker, filters, phases, and smoothed controls to
// their initial values.
func (b *Braid) Reset() {
	b.tracker.Reset()
	b.subLPF.Reset()
	b.brightHPF.Reset()
	b.seedOscillators()

	b.coupling.Snap()
	b.subLevel.Snap()
	b.brightness.Snap()
	b.blend.Snap()
}

// Describe reports the resolved control values.
func (b *Braid) Describe() string {
	return fmt.Sprintf("braid: coupling=%.2f sub=%.2f brightness=%.2f blend=%.2f freq=%.1f Hz",
		b.coupling.Target(), b.subLevel.Target(), b.brightness.Target(), b.blend.Target(),
		b.Frequency())
}

// Frequency returns the tracked fundamental in Hz, for diagnostics.
// Safe to call from the control thread while Process runs.
func (b *Braid) Frequency() float64 {
	return math.Float64frombits(b.trackedFreq.Load())
}
