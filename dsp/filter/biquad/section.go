// Package biquad implements the second-order recursive filter section
// the engine is built on, together with the lowpass, highpass, and
// allpass designs the effects use.
package biquad

import "github.com/cwbudde/algo-pedal/dsp/core"

// Coefficients holds the transfer function coefficients for a single
// second-order section. a0 is normalized to 1 and not stored.
//
// The sign convention follows Direct Form II Transposed:
//
//	y  = B0*x + d0
//	d0 = B1*x - A1*y + d1
//	d1 = B2*x - A2*y
type Coefficients struct {
	B0, B1, B2 float64 // feedforward (numerator)
	A1, A2     float64 // feedback (denominator)
}

// Section is a single biquad filter with coefficients and internal state.
// It implements Direct Form II Transposed processing.
type Section struct {
	Coefficients

	d0, d1 float64
}

// NewSection returns a Section initialized with the given coefficients
// and zero state.
func NewSection(c Coefficients) *Section {
	return &Section{Coefficients: c}
}

// ProcessSample filters one input sample and returns the output.
// The state registers are flushed of denormals so long silent stretches
// cannot slow the hot path down.
func (s *Section) ProcessSample(x float64) float64 {
	y := s.B0*x + s.d0
	s.d0 = core.FlushDenormals(s.B1*x - s.A1*y + s.d1)
	s.d1 = core.FlushDenormals(s.B2*x - s.A2*y)

	return y
}

// ProcessBlock filters a block of samples in-place. Zero-alloc.
func (s *Section) ProcessBlock(buf []float64) {
	b0, b1, b2 := s.B0, s.B1, s.B2
	a1, a2 := s.A1, s.A2
	d0, d1 := s.d0, s.d1

	for i, x := range buf {
		y := b0*x + d0
		d0 = b1*x - a1*y + d1
		d1 = b2*x - a2*y
		buf[i] = y
	}

	s.d0 = core.FlushDenormals(d0)
	s.d1 = core.FlushDenormals(d1)
}

// SetCoefficients swaps the transfer function while keeping the delay
// registers, so a modulated filter can retune every sample without
// clicking.
func (s *Section) SetCoefficients(c Coefficients) {
	s.Coefficients = c
}

// Reset clears the delay registers to zero.
func (s *Section) Reset() {
	s.d0 = 0
	s.d1 = 0
}

// State returns the current delay-register state [d0, d1].
func (s *Section) State() [2]float64 {
	return [2]float64{s.d0, s.d1}
}

// SetState restores a previously saved delay-register state.
func (s *Section) SetState(state [2]float64) {
	s.d0 = state[0]
	s.d1 = state[1]
}
