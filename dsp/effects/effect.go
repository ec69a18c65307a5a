// Package effects implements the pedal effects: the Kuramoto harmonic
// braid and the formant-preserving pitch shifter, plus the companion
// tremolo, chorus, phaser, distortion, echo, doubler, and growling
// bass.
//
// Every effect follows the same contract: it is constructed from a
// sample rate and four normalized pot values, processes exactly one
// sample per call with no allocation and no blocking, and keeps its
// output bounded through the shared saturating limiter. The per-sample
// path is total: there are no runtime errors, only defensive clamping.
package effects

import "github.com/cwbudde/algo-pedal/dsp/core"

// Effect is the per-sample processing contract shared by all effects.
type Effect interface {
	// Process consumes one normalized input sample and returns one
	// output sample, both nominally in [-1, 1]. Output is finite for
	// any finite input.
	Process(sample float64) float64

	// Reset restores all internal state (filters, phases, trackers) to
	// the values established at construction.
	Reset()

	// Describe reports the effect's resolved physical parameters for
	// diagnostics. It has no effect on processing state.
	Describe() string
}

// PotUpdater is implemented by effects whose pots may be retargeted
// while audio is running. New values take effect through per-sample
// slew limiting, never as discontinuities.
type PotUpdater interface {
	SetPots(pots Pots)
}

// Pots holds the four normalized control inputs in [0, 1]. Each effect
// documents its own mapping from pot position to physical units.
type Pots [4]float64

// DefaultPots centers all four controls.
func DefaultPots() Pots {
	return Pots{0.5, 0.5, 0.5, 0.5}
}

// Clamped returns a copy with every pot clamped into [0, 1].
func (p Pots) Clamped() Pots {
	for i := range p {
		p[i] = core.Clamp(p[i], 0, 1)
	}

	return p
}
