package effects

import (
	"math"
	"sync/atomic"
)

// defaultSlewMs is the time constant pot-derived values approach a new
// target with. Fast enough to feel immediate, slow enough that a knob
// sweep never clicks.
const defaultSlewMs = 20.0

// Smoothed is a slew-limited parameter bridging the control channel and
// the audio thread.
//
// Set may be called from any goroutine at any time; the target is a
// single atomic word, so the audio thread can never observe a torn
// value. Next, called once per sample from the processing thread only,
// moves the working value exponentially toward the latest target. A
// stale read during a race costs at worst one sample of imperceptibly
// wrong smoothing input, never state corruption.
type Smoothed struct {
	target  atomic.Uint64
	current float64
	coef    float64
}

// NewSmoothed creates a parameter resting at initial, approaching new
// targets with the given time constant in milliseconds.
func NewSmoothed(sampleRate, timeConstantMs, initial float64) *Smoothed {
	s := &Smoothed{current: initial}
	s.coef = slewCoefficient(sampleRate, timeConstantMs)
	s.target.Store(math.Float64bits(initial))

	return s
}

func slewCoefficient(sampleRate, timeConstantMs float64) float64 {
	if sampleRate <= 0 || timeConstantMs <= 0 {
		return 1
	}

	tau := timeConstantMs / 1000

	coef := 1 - mathExp(-1/(tau*sampleRate))
	if coef < 0 {
		coef = 0
	}

	if coef > 1 {
		coef = 1
	}

	return coef
}

// Set retargets the parameter. Safe from any goroutine.
func (s *Smoothed) Set(target float64) {
	if math.IsNaN(target) || math.IsInf(target, 0) {
		return
	}

	s.target.Store(math.Float64bits(target))
}

// Snap jumps the working value directly to the target, for use at
// (re)initialization when a discontinuity is acceptable.
func (s *Smoothed) Snap() {
	s.current = math.Float64frombits(s.target.Load())
}

// Next advances one sample toward the target and returns the working
// value. Audio thread only.
func (s *Smoothed) Next() float64 {
	target := math.Float64frombits(s.target.Load())

	if s.coef >= 1 {
		s.current = target
	} else {
		s.current += (target - s.current) * s.coef
	}

	return s.current
}

// Value returns the current working value without advancing.
func (s *Smoothed) Value() float64 {
	return s.current
}

// Target returns the most recently set target.
func (s *Smoothed) Target() float64 {
	return math.Float64frombits(s.target.Load())
}
