package core

import (
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	cases := []struct {
		value, min, max, want float64
	}{
		{0.5, 0, 1, 0.5},
		{-1, 0, 1, 0},
		{2, 0, 1, 1},
		{0.5, 1, 0, 0.5}, // swapped bounds
	}

	for _, tc := range cases {
		if got := Clamp(tc.value, tc.min, tc.max); got != tc.want {
			t.Errorf("Clamp(%g, %g, %g) = %g, want %g", tc.value, tc.min, tc.max, got, tc.want)
		}
	}
}

func TestLerpEndpoints(t *testing.T) {
	if got := Lerp(0, 3, 7); got != 3 {
		t.Fatalf("Lerp(0) = %g, want 3", got)
	}

	if got := Lerp(1, 3, 7); got != 7 {
		t.Fatalf("Lerp(1) = %g, want 7", got)
	}

	if got := Lerp(0.5, 0, 2); got != 1 {
		t.Fatalf("Lerp(0.5) = %g, want 1", got)
	}
}

func TestPotFrequencyHzTaper(t *testing.T) {
	lo := PotFrequencyHz(0, 100, 10000)
	mid := PotFrequencyHz(0.5, 100, 10000)
	hi := PotFrequencyHz(1, 100, 10000)

	if math.Abs(lo-100) > 1e-9 || math.Abs(hi-10000) > 1e-9 {
		t.Fatalf("endpoints: got %g..%g, want 100..10000", lo, hi)
	}

	// Exponential taper: midpoint is the geometric mean.
	if math.Abs(mid-1000) > 1e-6 {
		t.Fatalf("midpoint = %g, want 1000", mid)
	}
}

func TestWrapPhase(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{0, 0},
		{0.25, 0.25},
		{1, 0},
		{1.75, 0.75},
		{-0.25, 0.75},
		{-3.5, 0.5},
	}

	for _, tc := range cases {
		if got := WrapPhase(tc.in); math.Abs(got-tc.want) > 1e-12 {
			t.Errorf("WrapPhase(%g) = %g, want %g", tc.in, got, tc.want)
		}
	}
}

func TestWrapRadians(t *testing.T) {
	for _, in := range []float64{0, 1, -1, 3 * math.Pi, -5 * math.Pi, 100} {
		got := WrapRadians(in)
		if got < -math.Pi || got > math.Pi {
			t.Errorf("WrapRadians(%g) = %g outside [-pi, pi]", in, got)
		}

		// The wrapped angle must agree with the input modulo 2*pi.
		if diff := math.Mod(in-got, 2*math.Pi); math.Abs(math.Remainder(diff, 2*math.Pi)) > 1e-9 {
			t.Errorf("WrapRadians(%g) = %g not congruent mod 2pi", in, got)
		}
	}
}

func TestFlushDenormals(t *testing.T) {
	if got := FlushDenormals(1e-300); got != 0 {
		t.Fatalf("FlushDenormals(1e-300) = %g, want 0", got)
	}

	if got := FlushDenormals(0.5); got != 0.5 {
		t.Fatalf("FlushDenormals(0.5) = %g, want 0.5", got)
	}
}

func TestApplyEngineOptionsNumeric(t *testing.T) {
	cfg := ApplyEngineOptions(WithSampleRate(44100), WithBlockSize(128))
	if cfg.SampleRate != 44100 || cfg.BlockSize != 128 {
		t.Fatalf("got %+v", cfg)
	}

	// Invalid values keep defaults.
	cfg = ApplyEngineOptions(WithSampleRate(-1), WithBlockSize(0))
	def := DefaultEngineConfig()
	if cfg != def {
		t.Fatalf("got %+v, want defaults %+v", cfg, def)
	}
}
