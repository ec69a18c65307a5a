package effects

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-pedal/dsp/core"
	"github.com/cwbudde/algo-pedal/dsp/filter/biquad"
	"github.com/cwbudde/algo-pedal/dsp/osc"
	"github.com/cwbudde/algo-pedal/dsp/shape"
)

const (
	phaserStages = 3

	phaserMinPeriodMs = 25.0
	phaserMaxPeriodMs = 2000.0

	phaserMaxFeedback = 0.75

	phaserMinCenterHz = 220.0
	phaserMaxCenterHz = 880.0

	// The sweep covers two octaves centered on the resolved frequency.
	phaserOctaves = 2.0

	phaserMinQ = 0.25
	phaserMaxQ = 2.0
)

// Phaser sweeps a cascade of three allpass stages with a triangle LFO
// and mixes the shifted copy back against the dry signal, producing
// moving notches where the two paths cancel.
//
// Pot mapping: pot0 sweep period 25..2000 ms on a cubic taper (most of
// the throw lands on musical slow sweeps), pot1 feedback 0..0.75, pot2
// sweep center 220..880 Hz on a squared-and-stretched taper, pot3
// resonance Q 0.25..2.
type Phaser struct {
	sampleRate float64

	periodPot *Smoothed
	feedback  *Smoothed
	centerPot *Smoothed
	qPot      *Smoothed

	lfo    *osc.Oscillator
	stages [phaserStages]*biquad.Section

	last float64
}

// NewPhaser creates a phaser from the four pot values.
func NewPhaser(sampleRate float64, pots Pots) (*Phaser, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("phaser sample rate must be > 0 and finite: %f", sampleRate)
	}

	pots = pots.Clamped()

	lfo, err := osc.New(sampleRate, osc.ShapeTriangle)
	if err != nil {
		return nil, err
	}

	p := &Phaser{
		sampleRate: sampleRate,
		periodPot:  NewSmoothed(sampleRate, defaultSlewMs, pots[0]),
		feedback:   NewSmoothed(sampleRate, defaultSlewMs, pots[1]),
		centerPot:  NewSmoothed(sampleRate, defaultSlewMs, pots[2]),
		qPot:       NewSmoothed(sampleRate, defaultSlewMs, pots[3]),
		lfo:        lfo,
	}

	identity := biquad.Allpass(phaserMinCenterHz, phaserMinQ, sampleRate)
	for i := range p.stages {
		p.stages[i] = biquad.NewSection(identity)
	}

	return p, nil
}

// SetPots retargets the four controls.
func (p *Phaser) SetPots(pots Pots) {
	pots = pots.Clamped()
	p.periodPot.Set(pots[0])
	p.feedback.Set(pots[1])
	p.centerPot.Set(pots[2])
	p.qPot.Set(pots[3])
}

// PeriodMs returns the resolved sweep period in milliseconds.
func (p *Phaser) PeriodMs() float64 {
	return core.CubicLerp(p.periodPot.Target(), phaserMinPeriodMs, phaserMaxPeriodMs)
}

// CenterHz returns the resolved sweep center in Hz.
func (p *Phaser) CenterHz() float64 {
	return phaserCenterHz(p.centerPot.Target())
}

// phaserCenterHz stretches the squared pot past the nominal top so the
// last quarter of the throw pushes the center well above 880 Hz.
func phaserCenterHz(pot float64) float64 {
	return core.Lerp(4*pot*pot, phaserMinCenterHz, phaserMaxCenterHz)
}

// Process runs one sample through the phaser.
func (p *Phaser) Process(sample float64) float64 {
	p.lfo.SetPeriodMs(core.CubicLerp(p.periodPot.Next(), phaserMinPeriodMs, phaserMaxPeriodMs))

	fb := core.Lerp(p.feedback.Next(), 0, phaserMaxFeedback)
	center := phaserCenterHz(p.centerPot.Next())
	q := core.Lerp(p.qPot.Next(), phaserMinQ, phaserMaxQ)

	// Triangle in [-1, 1] sweeps the allpass corner one octave either
	// side of the center.
	freq := math.Exp2(p.lfo.Step()*phaserOctaves/2) * center

	coeffs := biquad.Allpass(freq, q, p.sampleRate)

	x := sample + p.last*fb
	for _, stage := range p.stages {
		stage.SetCoefficients(coeffs)
		x = stage.ProcessSample(x)
	}

	p.last = x

	return shape.Limit(sample + x)
}

// Reset clears the allpass chain, rewinds the LFO, and snaps the
// smoothed controls.
func (p *Phaser) Reset() {
	for _, stage := range p.stages {
		stage.Reset()
	}

	p.lfo.Reset()
	p.last = 0

	p.periodPot.Snap()
	p.feedback.Snap()
	p.centerPot.Snap()
	p.qPot.Snap()
}

// Describe reports the resolved physical parameters.
func (p *Phaser) Describe() string {
	return fmt.Sprintf("phaser: period=%.0f ms feedback=%.2f center=%.0f Hz q=%.2f",
		p.PeriodMs(), core.Lerp(p.feedback.Target(), 0, phaserMaxFeedback), p.CenterHz(),
		core.Lerp(p.qPot.Target(), phaserMinQ, phaserMaxQ))
}
