package effects

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-pedal/dsp/core"
	"github.com/cwbudde/algo-pedal/dsp/filter/biquad"
	"github.com/cwbudde/algo-pedal/dsp/shape"
)

const (
	// The sub chain works on a lowpassed copy so string harmonics do not
	// confuse the period parity.
	growlInputCutoffHz = 300.0

	growlMinToneHz = 200.0
	growlMaxToneHz = 5000.0

	growlFilterQ = 1 / math.Sqrt2

	// Inputs inside this dead band pass the odd-harmonics clipper
	// unshaped; beyond it they clip to the rolling ceiling.
	growlClipThreshold = 0.05
)

// GrowlingBass layers a minus-one-octave subharmonic under the input
// and adds tunable odd and even harmonic distortion on filtered side
// chains.
//
// The sub is synthesized by inverting every other period of the
// lowpassed input: rising edges of its sign count periods, and the
// positive half of each period is emitted straight or negated by
// period parity, halving the repetition rate. Odd harmonics come from
// a hard clipper whose ceiling follows the previous period's peak so
// the growl stays relative to the playing level; even harmonics come
// from full-wave rectification.
//
// Pot mapping: pot0 sub level, pot1 odd harmonics level, pot2 even
// harmonics level, pot3 tone (lowpass on both harmonic chains, 200
// Hz..5 kHz on a geometric taper).
type GrowlingBass struct {
	sampleRate float64

	subLevel  *Smoothed
	oddLevel  *Smoothed
	evenLevel *Smoothed
	tonePot   *Smoothed

	inputLPF *biquad.Section
	oddLPF   *biquad.Section
	evenLPF  *biquad.Section

	toneHz float64

	periodCount int
	prevSign    float64
	peak        float64
	prevPeak    float64
}

// NewGrowlingBass creates a growling bass from the four pot values.
func NewGrowlingBass(sampleRate float64, pots Pots) (*GrowlingBass, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("growlingbass sample rate must be > 0 and finite: %f", sampleRate)
	}

	pots = pots.Clamped()

	g := &GrowlingBass{
		sampleRate: sampleRate,
		subLevel:   NewSmoothed(sampleRate, defaultSlewMs, pots[0]),
		oddLevel:   NewSmoothed(sampleRate, defaultSlewMs, pots[1]),
		evenLevel:  NewSmoothed(sampleRate, defaultSlewMs, pots[2]),
		tonePot:    NewSmoothed(sampleRate, defaultSlewMs, pots[3]),
		inputLPF:   biquad.NewSection(biquad.Lowpass(growlInputCutoffHz, growlFilterQ, sampleRate)),
		prevSign:   -1,
	}

	g.toneHz = core.PotFrequencyHz(pots[3], growlMinToneHz, growlMaxToneHz)
	g.oddLPF = biquad.NewSection(biquad.Lowpass(g.toneHz, growlFilterQ, sampleRate))
	g.evenLPF = biquad.NewSection(biquad.Lowpass(g.toneHz, growlFilterQ, sampleRate))

	return g, nil
}

// SetPots retargets the four controls.
func (g *GrowlingBass) SetPots(pots Pots) {
	pots = pots.Clamped()
	g.subLevel.Set(pots[0])
	g.oddLevel.Set(pots[1])
	g.evenLevel.Set(pots[2])
	g.tonePot.Set(pots[3])
}

// growlClip hard-clips x to the rolling ceiling once it leaves the
// small linear dead band around zero.
func growlClip(x, ceiling float64) float64 {
	if x > growlClipThreshold {
		return ceiling
	}

	if x < -growlClipThreshold {
		return -ceiling
	}

	return x
}

// Process runs one sample through the growling bass.
func (g *GrowlingBass) Process(sample float64) float64 {
	subLevel := g.subLevel.Next()
	oddLevel := g.oddLevel.Next()
	evenLevel := g.evenLevel.Next()

	toneHz := core.PotFrequencyHz(g.tonePot.Next(), growlMinToneHz, growlMaxToneHz)
	if math.Abs(toneHz-g.toneHz) > 1e-9 {
		g.toneHz = toneHz
		g.oddLPF.SetCoefficients(biquad.Lowpass(toneHz, growlFilterQ, g.sampleRate))
		g.evenLPF.SetCoefficients(biquad.Lowpass(toneHz, growlFilterQ, g.sampleRate))
	}

	filtered := g.inputLPF.ProcessSample(sample)

	shapedOdd := growlClip(filtered, g.prevPeak)
	shapedEven := math.Abs(sample)

	sign := 1.0
	if filtered <= 0 {
		sign = -1
	}

	// A rising edge of the sign starts a new period; the peak memory
	// rolls over so the clipper ceiling tracks the current amplitude
	// with one period of lag.
	if sign > g.prevSign {
		g.periodCount++
		g.prevPeak = g.peak
		g.peak = 0
	}

	g.prevSign = sign

	if a := math.Abs(sample); a > g.peak {
		g.peak = a
	}

	// Emit the positive half of each period, negating every other one.
	sub := 0.0
	if sign > 0 {
		if g.periodCount%2 == 0 {
			sub = filtered
		} else {
			sub = -filtered
		}
	}

	odd := g.oddLPF.ProcessSample(shapedOdd)
	even := g.evenLPF.ProcessSample(shapedEven)

	return shape.Limit(sample + sub*subLevel + odd*oddLevel + even*evenLevel)
}

// Reset clears the filters, the period parity, and the peak memory,
// and snaps the smoothed controls.
func (g *GrowlingBass) Reset() {
	g.inputLPF.Reset()
	g.oddLPF.Reset()
	g.evenLPF.Reset()

	g.periodCount = 0
	g.prevSign = -1
	g.peak = 0
	g.prevPeak = 0

	g.subLevel.Snap()
	g.oddLevel.Snap()
	g.evenLevel.Snap()
	g.tonePot.Snap()
}

// Describe reports the resolved physical parameters.
func (g *GrowlingBass) Describe() string {
	return fmt.Sprintf("growlingbass: sub=%.2f odd=%.2f even=%.2f tone=%.0f Hz",
		g.subLevel.Target(), g.oddLevel.Target(), g.evenLevel.Target(),
		core.PotFrequencyHz(g.tonePot.Target(), growlMinToneHz, growlMaxToneHz))
}
