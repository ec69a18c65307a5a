// Package delay implements the circular sample-history buffer shared by
// the time-based effects: a power-of-two ring with a monotonically
// advancing write cursor and fractional-delay linear-interpolated reads.
package delay

import (
	"fmt"
	"math"
)

// DefaultSize is the shared history length: about 1.25 s at 48 kHz.
const DefaultSize = 65536

// Line is a fixed-capacity circular delay line.
type Line struct {
	buffer []float64
	mask   int
	cursor int
}

// New returns a delay line whose capacity is size rounded up to the
// next power of two.
func New(size int) (*Line, error) {
	if size <= 0 {
		return nil, fmt.Errorf("delay size must be > 0: %d", size)
	}

	n := 1
	for n < size {
		n <<= 1
	}

	return &Line{buffer: make([]float64, n), mask: n - 1}, nil
}

// Len returns the internal buffer capacity in samples.
func (l *Line) Len() int {
	return len(l.buffer)
}

// MaxDelay returns the largest delay ReadFractional resolves without
// clamping.
func (l *Line) MaxDelay() float64 {
	return float64(len(l.buffer) - 2)
}

// Write stores one sample and advances the cursor.
func (l *Line) Write(sample float64) {
	l.cursor++
	l.buffer[l.cursor&l.mask] = sample
}

// Read returns the sample written delay steps ago. Delay 0 is the most
// recent write. Out-of-range delays are clamped to the capacity.
func (l *Line) Read(delay int) float64 {
	if delay < 0 {
		delay = 0
	}

	if max := len(l.buffer) - 1; delay > max {
		delay = max
	}

	return l.buffer[(l.cursor-delay)&l.mask]
}

// ReadFractional returns a linearly interpolated sample at a possibly
// fractional delay. Delays beyond the capacity are clamped rather than
// wrapped, so a misbehaving caller gets stale audio, never corruption.
func (l *Line) ReadFractional(delay float64) float64 {
	if math.IsNaN(delay) || delay < 0 {
		delay = 0
	}

	if max := l.MaxDelay(); delay > max {
		delay = max
	}

	i := int(delay)
	frac := delay - float64(i)

	a := l.buffer[(l.cursor-i)&l.mask]
	b := l.buffer[(l.cursor-i-1)&l.mask]

	return a + (b-a)*frac
}

// Reset clears the history and rewinds the cursor.
func (l *Line) Reset() {
	for i := range l.buffer {
		l.buffer[i] = 0
	}

	l.cursor = 0
}
