package track

import (
	"math"
	"testing"
)

const testRate = 48000.0

func TestTrackerConvergesOnSteadyTone(t *testing.T) {
	tr, err := New(testRate)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	var freq float64
	for i := 0; i < 2*int(testRate); i++ {
		x := 0.5 * math.Sin(2*math.Pi*440*float64(i)/testRate)
		_, freq = tr.Process(x)
	}

	// Zero-crossing timing has half-cycle granularity, so the accepted
	// band is wide by design.
	if freq < 200 || freq > 1000 {
		t.Fatalf("tracked frequency = %g Hz, want 200..1000", freq)
	}
}

func TestTrackerAmplitudeFollowsEnvelope(t *testing.T) {
	tr, err := New(testRate)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	var amp float64
	for i := 0; i < 4800; i++ {
		x := 0.8 * math.Sin(2*math.Pi*440*float64(i)/testRate)
		amp, _ = tr.Process(x)
	}

	if amp < 0.4 || amp > 0.81 {
		t.Fatalf("amplitude estimate = %g, want near 0.8", amp)
	}

	// Feed silence: the envelope must decay toward zero.
	for i := 0; i < 4800; i++ {
		amp, _ = tr.Process(0)
	}

	if amp > 0.01 {
		t.Fatalf("amplitude after silence = %g, want < 0.01", amp)
	}
}

func TestTrackerInstantAttack(t *testing.T) {
	tr, err := New(testRate)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	amp, _ := tr.Process(0.9)
	if amp != 0.9 {
		t.Fatalf("attack amplitude = %g, want 0.9", amp)
	}
}

func TestTrackerRejectsOutOfBandCandidates(t *testing.T) {
	tr, err := New(testRate, WithInitialFrequencyHz(110))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	// A 5 Hz tone crosses zero far too slowly to be a plausible
	// fundamental; the estimate must hold at its initial value.
	// The 1 kHz conditioning filter passes 5 Hz unchanged.
	var freq float64
	for i := 0; i < 2*int(testRate); i++ {
		x := 0.5 * math.Sin(2*math.Pi*5*float64(i)/testRate)
		_, freq = tr.Process(x)
	}

	if freq != 110 {
		t.Fatalf("tracked frequency = %g Hz, want initial 110 to hold", freq)
	}
}

func TestTrackerHoldsEstimateOnSilence(t *testing.T) {
	tr, err := New(testRate)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	for i := 0; i < int(testRate); i++ {
		x := 0.5 * math.Sin(2*math.Pi*440*float64(i)/testRate)
		tr.Process(x)
	}

	locked := tr.Frequency()

	for i := 0; i < int(testRate); i++ {
		tr.Process(0)
	}

	if tr.Frequency() != locked {
		t.Fatalf("estimate drifted on silence: %g -> %g", locked, tr.Frequency())
	}
}

func TestTrackerReset(t *testing.T) {
	tr, err := New(testRate, WithInitialFrequencyHz(220))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	for i := 0; i < 4800; i++ {
		tr.Process(math.Sin(2 * math.Pi * 440 * float64(i) / testRate))
	}

	tr.Reset()

	if tr.Amplitude() != 0 || tr.Frequency() != 220 {
		t.Fatalf("Reset() state: amp=%g freq=%g", tr.Amplitude(), tr.Frequency())
	}
}

func TestTrackerValidation(t *testing.T) {
	if _, err := New(0); err == nil {
		t.Fatal("New() expected error for zero sample rate")
	}

	if _, err := New(testRate, WithInitialFrequencyHz(5)); err == nil {
		t.Fatal("New() expected error for out-of-band initial frequency")
	}
}
