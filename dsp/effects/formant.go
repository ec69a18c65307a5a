package effects

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-pedal/dsp/core"
	"github.com/cwbudde/algo-pedal/dsp/filter/biquad"
	"github.com/cwbudde/algo-pedal/dsp/shape"
)

const (
	formantStages = 4
	formantQ      = 0.7071

	formantMinRatio = 0.5
	formantMaxRatio = 2.0

	formantEnvSmoothBase = 0.001
	formantEnvSmoothSpan = 0.05
)

// The two cascades approximate a Hilbert pair: each chain has roughly
// constant group delay, and their phase responses differ by about 90
// degrees from ~100 Hz to ~10 kHz. The center frequencies are
// hand-tuned for that band and degrade gracefully outside it.
var (
	formantFreqI = [formantStages]float64{100, 560, 2400, 9500}
	formantFreqQ = [formantStages]float64{170, 960, 4300, 15500}
)

// Formant is a formant-preserving pitch shifter. The input is split
// into an instantaneous envelope and carrier phase via an allpass
// analytic-signal approximation; only the carrier's phase increment is
// rescaled, so the spectral envelope (the perceived "size" of the
// source) stays put.
//
// Pot mapping: pot0 pitch ratio in [0.5, 2.0], pot1 envelope smoothing,
// pot2 dry/wet blend, pot3 formant strength (how far toward the target
// ratio the shift is applied; 0 leaves the ratio at 1).
//
// Phase unwrapping is sample-by-sample with no lookahead, so transients
// can glitch briefly. Accepted behavior, not corrected.
type Formant struct {
	sampleRate float64

	pitchPot        *Smoothed
	envSmooth       *Smoothed
	blend           *Smoothed
	formantStrength *Smoothed

	apI [formantStages]*biquad.Section // in-phase path (delay matching)
	apQ [formantStages]*biquad.Section // quadrature path (~90 degrees)

	prevPhase float64
	outPhase  float64
	envelope  float64
}

// NewFormant creates a formant shifter from the four pot values.
func NewFormant(sampleRate float64, pots Pots) (*Formant, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("formant sample rate must be > 0 and finite: %f", sampleRate)
	}

	pots = pots.Clamped()

	f := &Formant{
		sampleRate:      sampleRate,
		pitchPot:        NewSmoothed(sampleRate, defaultSlewMs, pots[0]),
		envSmooth:       NewSmoothed(sampleRate, defaultSlewMs, pots[1]),
		blend:           NewSmoothed(sampleRate, defaultSlewMs, pots[2]),
		formantStrength: NewSmoothed(sampleRate, defaultSlewMs, pots[3]),
	}

	for i := 0; i < formantStages; i++ {
		f.apI[i] = biquad.NewSection(biquad.Allpass(formantFreqI[i], formantQ, sampleRate))
		f.apQ[i] = biquad.NewSection(biquad.Allpass(formantFreqQ[i], formantQ, sampleRate))
	}

	return f, nil
}

// SetPots retargets the four controls.
func (f *Formant) SetPots(pots Pots) {
	pots = pots.Clamped()
	f.pitchPot.Set(pots[0])
	f.envSmooth.Set(pots[1])
	f.blend.Set(pots[2])
	f.formantStrength.Set(pots[3])
}

// PitchRatio returns the resolved target pitch ratio in [0.5, 2.0].
func (f *Formant) PitchRatio() float64 {
	return core.Lerp(f.pitchPot.Target(), formantMinRatio, formantMaxRatio)
}

// Process runs one sample through the shifter.
func (f *Formant) Process(sample float64) float64 {
	pitchRatio := core.Lerp(f.pitchPot.Next(), formantMinRatio, formantMaxRatio)
	envSmooth := f.envSmooth.Next()
	blend := f.blend.Next()
	strength := f.formantStrength.Next()

	sigI := sample
	sigQ := sample

	for i := 0; i < formantStages; i++ {
		sigI = f.apI[i].ProcessSample(sigI)
		sigQ = f.apQ[i].ProcessSample(sigQ)
	}

	// sigI is roughly the delayed original, sigQ its 90-degree shift;
	// together an approximate analytic signal.
	env := mathSqrt(sigI*sigI + sigQ*sigQ)

	// Low smoothing keeps envelope detail; high smoothing flattens it
	// toward a whisper.
	smooth := formantEnvSmoothBase + envSmooth*formantEnvSmoothSpan
	f.envelope += smooth * (env - f.envelope)

	phase := math.Atan2(sigQ, sigI)

	// First difference of the instantaneous phase, unwrapped into
	// [-pi, pi]. No lookahead: smooth signals track well, transients
	// produce a brief glitch.
	dphase := core.WrapRadians(phase - f.prevPhase)
	f.prevPhase = phase

	ratio := core.Lerp(strength, 1, pitchRatio)

	// Accumulate the rescaled increment, keeping the accumulator
	// wrapped so float precision holds up over millions of samples.
	f.outPhase = core.WrapRadians(f.outPhase + dphase*ratio)

	wet := shape.Limit(f.envelope * math.Cos(f.outPhase))

	return core.Lerp(blend, sample, wet)
}

// Reset clears the analytic-signal chains and phase accumulators.
func (f *Formant) Reset() {
	for i := 0; i < formantStages; i++ {
		f.apI[i].Reset()
		f.apQ[i].Reset()
	}

	f.prevPhase = 0
	f.outPhase = 0
	f.envelope = 0

	f.pitchPot.Snap()
	f.envSmooth.Snap()
	f.blend.Snap()
	f.formantStrength.Snap()
}

// Describe reports the resolved physical parameters.
func (f *Formant) Describe() string {
	return fmt.Sprintf("formant: pitch=%.2fx env_smooth=%.2f blend=%.2f formant=%.2f",
		f.PitchRatio(), f.envSmooth.Target(), f.blend.Target(), f.formantStrength.Target())
}
