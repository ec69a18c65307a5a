package effects

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-pedal/dsp/core"
	"github.com/cwbudde/algo-pedal/dsp/filter/biquad"
	"github.com/cwbudde/algo-pedal/dsp/shape"
)

const (
	distortionMaxDrive = 50.0

	distortionMinToneHz = 1000.0
	distortionMaxToneHz = 10000.0

	distortionFilterQ = 1 / math.Sqrt2
)

// DistortionMode selects the clipping curve.
type DistortionMode int

const (
	DistortionSoft DistortionMode = iota
	DistortionHard
	DistortionAsymmetric
)

func (m DistortionMode) String() string {
	switch m {
	case DistortionSoft:
		return "soft"
	case DistortionHard:
		return "hard"
	case DistortionAsymmetric:
		return "asymmetric"
	default:
		return "unknown"
	}
}

// Distortion drives the input into a clipping curve and rolls the fizz
// off with a post lowpass.
//
// Pot mapping: pot0 drive 1..50x, pot1 tone (post lowpass 1..10 kHz on
// a geometric taper), pot2 output level, pot3 selects the clipping
// curve by thirds: soft, hard, asymmetric.
type Distortion struct {
	sampleRate float64

	drivePot *Smoothed
	tonePot  *Smoothed
	level    *Smoothed

	// The mode switch is flipped from the control thread while the
	// audio thread reads it, so it lives behind an atomic.
	mode atomic.Int32
	tone *biquad.Section

	toneHz float64
}

// NewDistortion creates a distortion from the four pot values.
func NewDistortion(sampleRate float64, pots Pots) (*Distortion, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("distortion sample rate must be > 0 and finite: %f", sampleRate)
	}

	pots = pots.Clamped()

	d := &Distortion{
		sampleRate: sampleRate,
		drivePot:   NewSmoothed(sampleRate, defaultSlewMs, pots[0]),
		tonePot:    NewSmoothed(sampleRate, defaultSlewMs, pots[1]),
		level:      NewSmoothed(sampleRate, defaultSlewMs, pots[2]),
	}
	d.mode.Store(int32(distortionMode(pots[3])))

	d.toneHz = core.PotFrequencyHz(pots[1], distortionMinToneHz, distortionMaxToneHz)
	d.tone = biquad.NewSection(biquad.Lowpass(d.toneHz, distortionFilterQ, sampleRate))

	return d, nil
}

// distortionMode maps the mode pot onto the three curves by thirds.
func distortionMode(pot float64) DistortionMode {
	switch {
	case pot < 1.0/3:
		return DistortionSoft
	case pot < 2.0/3:
		return DistortionHard
	default:
		return DistortionAsymmetric
	}
}

// SetPots retargets the controls. The mode switch takes effect
// immediately; the curve selection is a discrete choice, not a value to
// slew through.
func (d *Distortion) SetPots(pots Pots) {
	pots = pots.Clamped()
	d.drivePot.Set(pots[0])
	d.tonePot.Set(pots[1])
	d.level.Set(pots[2])
	d.mode.Store(int32(distortionMode(pots[3])))
}

// Drive returns the resolved input gain.
func (d *Distortion) Drive() float64 {
	return 1 + d.drivePot.Target()*(distortionMaxDrive-1)
}

// Mode returns the active clipping curve.
func (d *Distortion) Mode() DistortionMode { return DistortionMode(d.mode.Load()) }

// Process runs one sample through the distortion.
func (d *Distortion) Process(sample float64) float64 {
	drive := 1 + d.drivePot.Next()*(distortionMaxDrive-1)
	level := d.level.Next()

	// Retune the tone filter only when the pot actually moved; a biquad
	// redesign per sample is wasted work while the knob is at rest.
	toneHz := core.PotFrequencyHz(d.tonePot.Next(), distortionMinToneHz, distortionMaxToneHz)
	if math.Abs(toneHz-d.toneHz) > 1e-9 {
		d.toneHz = toneHz
		d.tone.SetCoefficients(biquad.Lowpass(toneHz, distortionFilterQ, d.sampleRate))
	}

	x := sample * drive

	var clipped float64

	switch d.Mode() {
	case DistortionHard:
		clipped = shape.HardClip(x)
	case DistortionAsymmetric:
		clipped = shape.AsymmetricClip(x)
	default:
		clipped = shape.SoftClip(x)
	}

	return d.tone.ProcessSample(clipped) * level
}

// Reset clears the tone filter and snaps the smoothed controls.
func (d *Distortion) Reset() {
	d.tone.Reset()
	d.drivePot.Snap()
	d.tonePot.Snap()
	d.level.Snap()
}

// Describe reports the resolved physical parameters.
func (d *Distortion) Describe() string {
	return fmt.Sprintf("distortion: drive=%.1fx tone=%.0f Hz level=%.2f mode=%s",
		d.Drive(), core.PotFrequencyHz(d.tonePot.Target(), distortionMinToneHz, distortionMaxToneHz),
		d.level.Target(), d.Mode())
}
