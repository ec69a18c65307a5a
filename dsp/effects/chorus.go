package effects

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-pedal/dsp/core"
	"github.com/cwbudde/algo-pedal/dsp/delay"
	"github.com/cwbudde/algo-pedal/dsp/osc"
)

const (
	chorusVoices = 3

	chorusMinRateHz  = 0.1
	chorusRateSpanHz = 4.9

	chorusMinDelayMs  = 5.0
	chorusDelaySpanMs = 25.0
)

// chorusRateRatios detune the voice LFOs so the three taps never track
// each other exactly.
var chorusRateRatios = [chorusVoices]float64{1.0, 1.1, 0.9}

// Chorus thickens the input with three modulated delay taps mixed at
// equal weight.
//
// Pot mapping: pot0 LFO rate 0.1..5 Hz, pot1 base delay 5..30 ms, pot2
// modulation depth, pot3 dry/wet mix.
type Chorus struct {
	sampleRate float64

	ratePot *Smoothed
	delayMs *Smoothed
	depth   *Smoothed
	mix     *Smoothed

	line *delay.Line
	lfos [chorusVoices]*osc.Oscillator
}

// NewChorus creates a chorus from the four pot values.
func NewChorus(sampleRate float64, pots Pots) (*Chorus, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("chorus sample rate must be > 0 and finite: %f", sampleRate)
	}

	pots = pots.Clamped()

	// Worst case is 30 ms base plus half of that again in modulation.
	maxSamples := int((chorusMinDelayMs + chorusDelaySpanMs) * 1.5 / 1000 * sampleRate)

	line, err := delay.New(maxSamples + 2)
	if err != nil {
		return nil, err
	}

	c := &Chorus{
		sampleRate: sampleRate,
		ratePot:    NewSmoothed(sampleRate, defaultSlewMs, pots[0]),
		delayMs:    NewSmoothed(sampleRate, defaultSlewMs, pots[1]),
		depth:      NewSmoothed(sampleRate, defaultSlewMs, pots[2]),
		mix:        NewSmoothed(sampleRate, defaultSlewMs, pots[3]),
		line:       line,
	}

	for i := range c.lfos {
		lfo, err := osc.New(sampleRate, osc.ShapeSine)
		if err != nil {
			return nil, err
		}

		// Stagger the start phases so the voices fan out immediately
		// instead of waiting for the rate ratios to separate them.
		lfo.SetPhase(float64(i) / chorusVoices)
		c.lfos[i] = lfo
	}

	return c, nil
}

// SetPots retargets the four controls.
func (c *Chorus) SetPots(pots Pots) {
	pots = pots.Clamped()
	c.ratePot.Set(pots[0])
	c.delayMs.Set(pots[1])
	c.depth.Set(pots[2])
	c.mix.Set(pots[3])
}

// RateHz returns the resolved base LFO rate in Hz.
func (c *Chorus) RateHz() float64 {
	return chorusMinRateHz + c.ratePot.Target()*chorusRateSpanHz
}

// BaseDelayMs returns the resolved base delay in milliseconds.
func (c *Chorus) BaseDelayMs() float64 {
	return chorusMinDelayMs + c.delayMs.Target()*chorusDelaySpanMs
}

// Process runs one sample through the chorus.
func (c *Chorus) Process(sample float64) float64 {
	rate := chorusMinRateHz + c.ratePot.Next()*chorusRateSpanHz
	baseMs := chorusMinDelayMs + c.delayMs.Next()*chorusDelaySpanMs
	depth := c.depth.Next()
	mix := c.mix.Next()

	c.line.Write(sample)

	base := baseMs / 1000 * c.sampleRate
	modRange := base * depth * 0.5

	wet := 0.0

	for i, lfo := range c.lfos {
		lfo.SetFrequency(rate * chorusRateRatios[i])
		wet += c.line.ReadFractional(base + lfo.Step()*modRange)
	}

	wet /= chorusVoices

	return core.Lerp(mix, sample, wet)
}

// Reset clears the delay line, rewinds the LFOs, and snaps the
// smoothed controls.
func (c *Chorus) Reset() {
	c.line.Reset()

	for i, lfo := range c.lfos {
		lfo.Reset()
		lfo.SetPhase(float64(i) / chorusVoices)
	}

	c.ratePot.Snap()
	c.delayMs.Snap()
	c.depth.Snap()
	c.mix.Snap()
}

// Describe reports the resolved physical parameters.
func (c *Chorus) Describe() string {
	return fmt.Sprintf("chorus: lfo=%.2f Hz delay=%.1f ms depth=%.2f mix=%.2f",
		c.RateHz(), c.BaseDelayMs(), c.depth.Target(), c.mix.Target())
}
