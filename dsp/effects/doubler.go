package effects

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-pedal/dsp/core"
	"github.com/cwbudde/algo-pedal/dsp/delay"
	"github.com/cwbudde/algo-pedal/dsp/osc"
	"github.com/cwbudde/algo-pedal/dsp/shape"
)

const (
	// doublerSteps is the grain length in samples; the ramp period is
	// twice that, so both taps complete a full scan every 8192 samples.
	doublerSteps = 4096

	doublerMask = doublerSteps - 1
)

// Doubler layers a pitch-shifted copy over the input using two delay
// taps that scan backward through a ring buffer at different offsets.
// The taps crossfade on a sin^2 window so each one is silent at the
// instant its read position jumps, trading a subtle warble for
// glitch-free shifting.
//
// Pot mapping: pot0 shift amount (ratio 1..2 on a 2^x taper, unison to
// one octave up), pot1 dry/wet mix. Pots 2 and 3 are unused.
type Doubler struct {
	sampleRate float64

	shiftPot *Smoothed
	mix      *Smoothed

	line *delay.Line
	lfo  *osc.Oscillator
}

// NewDoubler creates a doubler from the four pot values.
func NewDoubler(sampleRate float64, pots Pots) (*Doubler, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("doubler sample rate must be > 0 and finite: %f", sampleRate)
	}

	pots = pots.Clamped()

	// Deepest tap sits at 2*doublerSteps samples when the shift is a
	// full octave.
	line, err := delay.New(2*doublerSteps + 2)
	if err != nil {
		return nil, err
	}

	lfo, err := osc.New(sampleRate, osc.ShapeSine)
	if err != nil {
		return nil, err
	}

	// One scan cycle every 2*doublerSteps samples, independent of the
	// shift amount.
	lfo.SetFrequency(sampleRate / (2 * doublerSteps))

	return &Doubler{
		sampleRate: sampleRate,
		shiftPot:   NewSmoothed(sampleRate, defaultSlewMs, pots[0]),
		mix:        NewSmoothed(sampleRate, defaultSlewMs, pots[1]),
		line:       line,
		lfo:        lfo,
	}, nil
}

// SetPots retargets the controls.
func (d *Doubler) SetPots(pots Pots) {
	pots = pots.Clamped()
	d.shiftPot.Set(pots[0])
	d.mix.Set(pots[1])
}

// PitchRatio returns the resolved pitch ratio of the shifted copy.
func (d *Doubler) PitchRatio() float64 {
	return math.Exp2(d.shiftPot.Target())
}

// Process runs one sample through the doubler.
func (d *Doubler) Process(sample float64) float64 {
	// step is the extra samples the read point gains per sample; the
	// shifted copy plays back at ratio 1+step.
	step := math.Exp2(d.shiftPot.Next()) - 1
	mix := d.mix.Next()

	d.line.Write(sample)

	phase := d.lfo.Phase()

	// Both tap indices advance one per sample; the second runs half a
	// scan behind so one tap is always mid-grain.
	i := int(core.WrapPhase(2*phase) * doublerSteps)
	ni := (i + doublerSteps/2) & doublerMask

	base := 2 * doublerSteps * step

	// sin^2 is zero exactly when tap one's index wraps (phase 0 and
	// 0.5) and one when tap two's wraps.
	s := osc.Sine(phase)
	w := s * s

	wet := d.line.ReadFractional(base-float64(i)*step)*w +
		d.line.ReadFractional(base-float64(ni)*step)*(1-w)

	d.lfo.Step()

	// Dry plus the shifted copy can reach twice full scale; limit the
	// sum before it leaves.
	return core.Lerp(mix, sample, shape.Limit(sample+wet))
}

// Reset clears the buffer, rewinds the scan, and snaps the smoothed
// controls.
func (d *Doubler) Reset() {
	d.line.Reset()
	d.lfo.Reset()

	d.shiftPot.Snap()
	d.mix.Snap()
}

// Describe reports the resolved physical parameters.
func (d *Doubler) Describe() string {
	return fmt.Sprintf("doubler: ratio=%.2fx mix=%.2f", d.PitchRatio(), d.mix.Target())
}
