package effects

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-pedal/dsp/core"
	"github.com/cwbudde/algo-pedal/dsp/delay"
	"github.com/cwbudde/algo-pedal/dsp/filter/biquad"
	"github.com/cwbudde/algo-pedal/dsp/shape"
)

const (
	echoMinDelayMs = 50.0
	echoMaxDelayMs = 1000.0

	// Feedback tops out below unity so every repeat decays.
	echoMaxFeedback = 0.9

	echoMinDampHz = 500.0
	echoMaxDampHz = 8000.0

	echoFilterQ = 1 / math.Sqrt2
)

// Echo is a single-tap feedback delay with a damping lowpass in the
// loop, so repeats darken as they fade the way tape echoes do.
//
// Pot mapping: pot0 delay time 50..1000 ms, pot1 feedback 0..0.9, pot2
// damping (loop lowpass 500 Hz..8 kHz on a geometric taper), pot3
// dry/wet mix.
type Echo struct {
	sampleRate float64

	timePot  *Smoothed
	feedback *Smoothed
	dampPot  *Smoothed
	mix      *Smoothed

	line *delay.Line
	damp *biquad.Section

	dampHz float64
}

// NewEcho creates an echo from the four pot values.
func NewEcho(sampleRate float64, pots Pots) (*Echo, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("echo sample rate must be > 0 and finite: %f", sampleRate)
	}

	pots = pots.Clamped()

	line, err := delay.New(int(echoMaxDelayMs/1000*sampleRate) + 2)
	if err != nil {
		return nil, err
	}

	e := &Echo{
		sampleRate: sampleRate,
		timePot:    NewSmoothed(sampleRate, defaultSlewMs, pots[0]),
		feedback:   NewSmoothed(sampleRate, defaultSlewMs, pots[1]),
		dampPot:    NewSmoothed(sampleRate, defaultSlewMs, pots[2]),
		mix:        NewSmoothed(sampleRate, defaultSlewMs, pots[3]),
		line:       line,
	}

	e.dampHz = core.PotFrequencyHz(1-pots[2], echoMinDampHz, echoMaxDampHz)
	e.damp = biquad.NewSection(biquad.Lowpass(e.dampHz, echoFilterQ, sampleRate))

	return e, nil
}

// SetPots retargets the four controls.
func (e *Echo) SetPots(pots Pots) {
	pots = pots.Clamped()
	e.timePot.Set(pots[0])
	e.feedback.Set(pots[1])
	e.dampPot.Set(pots[2])
	e.mix.Set(pots[3])
}

// DelayMs returns the resolved delay time in milliseconds.
func (e *Echo) DelayMs() float64 {
	return core.Lerp(e.timePot.Target(), echoMinDelayMs, echoMaxDelayMs)
}

// Process runs one sample through the echo.
func (e *Echo) Process(sample float64) float64 {
	delayMs := core.Lerp(e.timePot.Next(), echoMinDelayMs, echoMaxDelayMs)
	fb := e.feedback.Next() * echoMaxFeedback
	mix := e.mix.Next()

	// More damping pot means a darker loop, so the pot inverts onto the
	// cutoff taper.
	dampHz := core.PotFrequencyHz(1-e.dampPot.Next(), echoMinDampHz, echoMaxDampHz)
	if math.Abs(dampHz-e.dampHz) > 1e-9 {
		e.dampHz = dampHz
		e.damp.SetCoefficients(biquad.Lowpass(dampHz, echoFilterQ, e.sampleRate))
	}

	tap := e.line.ReadFractional(delayMs / 1000 * e.sampleRate)

	e.line.Write(sample + e.damp.ProcessSample(tap)*fb)

	// The loop itself may ring above unity while repeats pile up; the
	// limiter keeps that out of the output.
	return core.Lerp(mix, sample, shape.Limit(tap))
}

// Reset clears the delay line and damping filter and snaps the
// smoothed controls.
func (e *Echo) Reset() {
	e.line.Reset()
	e.damp.Reset()

	e.timePot.Snap()
	e.feedback.Snap()
	e.dampPot.Snap()
	e.mix.Snap()
}

// Describe reports the resolved physical parameters.
func (e *Echo) Describe() string {
	return fmt.Sprintf("echo: delay=%.0f ms feedback=%.2f damp=%.0f Hz mix=%.2f",
		e.DelayMs(), e.feedback.Target()*echoMaxFeedback,
		core.PotFrequencyHz(1-e.dampPot.Target(), echoMinDampHz, echoMaxDampHz), e.mix.Target())
}
