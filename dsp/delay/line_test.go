package delay

import (
	"math"
	"testing"
)

func TestNewRoundsUpToPowerOfTwo(t *testing.T) {
	cases := []struct{ size, want int }{
		{1, 1},
		{2, 2},
		{3, 4},
		{100, 128},
		{65536, 65536},
	}

	for _, tc := range cases {
		l, err := New(tc.size)
		if err != nil {
			t.Fatalf("New(%d) error = %v", tc.size, err)
		}

		if l.Len() != tc.want {
			t.Errorf("New(%d).Len() = %d, want %d", tc.size, l.Len(), tc.want)
		}
	}

	if _, err := New(0); err == nil {
		t.Fatal("New(0) expected error")
	}
}

func TestReadZeroDelayReturnsMostRecent(t *testing.T) {
	l, err := New(256)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	for i := 0; i < 100; i++ {
		l.Write(float64(i))
	}

	if got := l.Read(0); got != 99 {
		t.Fatalf("Read(0) = %g, want 99", got)
	}

	if got := l.ReadFractional(0); got != 99 {
		t.Fatalf("ReadFractional(0) = %g, want 99", got)
	}
}

func TestReadIntegerDelaysAgainstRamp(t *testing.T) {
	l, err := New(256)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	for i := 0; i < 100; i++ {
		l.Write(float64(i))
	}

	for d := 0; d < 100; d++ {
		if got := l.Read(d); got != float64(99-d) {
			t.Fatalf("Read(%d) = %g, want %d", d, got, 99-d)
		}
	}
}

func TestReadFractionalBetweenNeighbors(t *testing.T) {
	l, err := New(256)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	for i := 0; i < 100; i++ {
		l.Write(float64(i * i)) // strictly convex ramp
	}

	for _, d := range []float64{0.5, 1.25, 10.75, 42.5} {
		lo := l.Read(int(d))
		hi := l.Read(int(d) + 1)
		got := l.ReadFractional(d)

		// the ramp decreases with delay, so hi < got < lo
		if !(got < lo && got > hi) {
			t.Fatalf("ReadFractional(%g) = %g not strictly between %g and %g", d, got, hi, lo)
		}
	}
}

func TestReadFractionalExactOnRamp(t *testing.T) {
	l, err := New(256)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	for i := 0; i < 200; i++ {
		l.Write(float64(i))
	}

	// On a linear ramp, linear interpolation is exact.
	for _, d := range []float64{0.5, 3.25, 17.5} {
		want := 199 - d
		if got := l.ReadFractional(d); math.Abs(got-want) > 1e-9 {
			t.Fatalf("ReadFractional(%g) = %g, want %g", d, got, want)
		}
	}
}

func TestReadClampsOutOfRangeDelays(t *testing.T) {
	l, err := New(64)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	for i := 0; i < 64; i++ {
		l.Write(1)
	}

	// Must not panic and must return something from the buffer.
	for _, d := range []float64{-5, 1e9, math.NaN()} {
		if got := l.ReadFractional(d); math.IsNaN(got) || math.IsInf(got, 0) {
			t.Fatalf("ReadFractional(%g) = %g", d, got)
		}
	}

	if got := l.Read(-3); got != 1 {
		t.Fatalf("Read(-3) = %g, want clamp to most recent", got)
	}
}

func TestCursorWrapsAroundCapacity(t *testing.T) {
	l, err := New(8)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	for i := 0; i < 1000; i++ {
		l.Write(float64(i))
	}

	for d := 0; d < 8; d++ {
		if got := l.Read(d); got != float64(999-d) {
			t.Fatalf("after wrap Read(%d) = %g, want %d", d, got, 999-d)
		}
	}
}

func TestReset(t *testing.T) {
	l, err := New(16)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	for i := 0; i < 20; i++ {
		l.Write(0.5)
	}

	l.Reset()

	for d := 0; d < 16; d++ {
		if got := l.Read(d); got != 0 {
			t.Fatalf("Read(%d) after Reset = %g, want 0", d, got)
		}
	}
}
