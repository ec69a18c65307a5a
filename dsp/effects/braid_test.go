package effects

import (
	"math"
	"testing"
)

func TestBraidDryAtZeroBlend(t *testing.T) {
	b, err := NewBraid(testRate, Pots{0.7, 0.5, 0.5, 0})
	if err != nil {
		t.Fatalf("NewBraid failed: %v", err)
	}

	input := sineInput(4800, 440, 0.8)
	for i, x := range input {
		if y := b.Process(x); y != x {
			t.Fatalf("sample %d: got=%g want=%g", i, y, x)
		}
	}
}

func TestBraidStableAcrossCoupling(t *testing.T) {
	input := sineInput(2*testRate, 440, 0.8)

	for _, k := range []float64{0, 0.4, 1} {
		b, err := NewBraid(testRate, Pots{k, 0.5, 0.5, 1})
		if err != nil {
			t.Fatalf("NewBraid failed: %v", err)
		}

		for i, x := range input {
			y := b.Process(x)
			if math.IsNaN(y) || math.IsInf(y, 0) {
				t.Fatalf("k=%g: non-finite output at sample %d: %g", k, i, y)
			}

			if math.Abs(y) > 1.06 {
				t.Fatalf("k=%g: output %g exceeds limiter bound at sample %d", k, y, i)
			}
		}
	}
}

func TestBraidCouplingChangesOutput(t *testing.T) {
	input := sineInput(testRate, 440, 0.8)

	free, err := NewBraid(testRate, Pots{0, 0.5, 0.5, 1})
	if err != nil {
		t.Fatalf("NewBraid failed: %v", err)
	}

	locked, err := NewBraid(testRate, Pots{1, 0.5, 0.5, 1})
	if err != nil {
		t.Fatalf("NewBraid failed: %v", err)
	}

	maxDiff := 0.0

	for _, x := range input {
		diff := math.Abs(free.Process(x) - locked.Process(x))
		if diff > maxDiff {
			maxDiff = diff
		}
	}

	if maxDiff < 1e-6 {
		t.Fatalf("coupling had no effect on output: max diff %g", maxDiff)
	}
}

func TestBraidSubLevelAddsEnergy(t *testing.T) {
	input := sineInput(testRate+testRate/2, 440, 0.8)

	process := func(subLevel float64) float64 {
		b, err := NewBraid(testRate, Pots{0.5, subLevel, 0, 1})
		if err != nil {
			t.Fatalf("NewBraid failed: %v", err)
		}

		out := processAll(b, input)

		// Skip the first half second while the tracker converges.
		return rms(out[testRate/2:])
	}

	quiet := process(0)
	loud := process(1)

	if loud <= quiet {
		t.Fatalf("sub level did not add energy: rms(sub=1)=%g rms(sub=0)=%g", loud, quiet)
	}
}

func TestBraidTracksFundamental(t *testing.T) {
	b, err := NewBraid(testRate, Pots{0.5, 0.5, 0.5, 1})
	if err != nil {
		t.Fatalf("NewBraid failed: %v", err)
	}

	for _, x := range sineInput(2*testRate, 440, 0.8) {
		b.Process(x)
	}

	freq := b.Frequency()
	if freq < 200 || freq > 1000 {
		t.Fatalf("tracked frequency %g Hz outside [200, 1000] for 440 Hz input", freq)
	}
}

func TestBraidDescribeConcurrentWithProcessing(t *testing.T) {
	// The live host reads pot commands on a second goroutine and calls
	// SetPots and Describe while audio is running; both must be safe
	// against the per-sample tracker updates.
	b, err := NewBraid(testRate, Pots{0.5, 0.5, 0.5, 1})
	if err != nil {
		t.Fatalf("NewBraid failed: %v", err)
	}

	done := make(chan struct{})

	go func() {
		defer close(done)

		for _, x := range sineInput(testRate, 440, 0.5) {
			b.Process(x)
		}
	}()

	for i := 0; i < 1000; i++ {
		b.SetPots(Pots{0.6, 0.4, 0.5, 1})

		if s := b.Describe(); s == "" {
			t.Fatal("empty Describe during processing")
		}

		if f := b.Frequency(); math.IsNaN(f) || f <= 0 {
			t.Fatalf("bad tracked frequency during processing: %g", f)
		}
	}

	<-done
}

func TestBraidFullScenario(t *testing.T) {
	b, err := NewBraid(testRate, Pots{0.4, 0.5, 0.3, 1.0})
	if err != nil {
		t.Fatalf("NewBraid failed: %v", err)
	}

	for i, x := range sineInput(2*testRate, 440, 0.5) {
		y := b.Process(x)
		if math.IsNaN(y) || math.IsInf(y, 0) || math.Abs(y) > 1.06 {
			t.Fatalf("sample %d: output %g out of bounds", i, y)
		}
	}

	if freq := b.Frequency(); freq < 200 || freq > 1000 {
		t.Fatalf("tracked frequency after scenario: got=%g want in [200, 1000]", freq)
	}
}
