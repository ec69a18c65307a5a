package biquad

import (
	"math"
	"testing"
)

const testRate = 48000.0

// sineRMSRatio runs a tone through a fresh section and returns output
// RMS over input RMS, measured after the filter settles.
func sineRMSRatio(t *testing.T, c Coefficients, freqHz float64) float64 {
	t.Helper()

	s := NewSection(c)

	const settle = 4800
	const measure = 48000

	inSq := 0.0
	outSq := 0.0

	for i := 0; i < settle+measure; i++ {
		x := math.Sin(2 * math.Pi * freqHz * float64(i) / testRate)
		y := s.ProcessSample(x)

		if i >= settle {
			inSq += x * x
			outSq += y * y
		}
	}

	if inSq == 0 {
		t.Fatal("zero input energy")
	}

	return math.Sqrt(outSq / inSq)
}

func TestLowpassPassAndStopBands(t *testing.T) {
	// 10x the highest cutoff must stay below Nyquist.
	for _, cutoff := range []float64{200, 1000, 2000} {
		c := Lowpass(cutoff, 1/math.Sqrt2, testRate)

		if pass := sineRMSRatio(t, c, 0.1*cutoff); pass < 0.9 || pass > 1.1 {
			t.Errorf("lowpass %g Hz: passband ratio = %g, want (0.9, 1.1)", cutoff, pass)
		}

		if stop := sineRMSRatio(t, c, 10*cutoff); stop >= 0.1 {
			t.Errorf("lowpass %g Hz: stopband ratio = %g, want < 0.1", cutoff, stop)
		}
	}
}

func TestHighpassPassAndStopBands(t *testing.T) {
	for _, cutoff := range []float64{100, 500, 2000} {
		c := Highpass(cutoff, 1/math.Sqrt2, testRate)

		if pass := sineRMSRatio(t, c, 10*cutoff); pass < 0.9 || pass > 1.1 {
			t.Errorf("highpass %g Hz: passband ratio = %g, want (0.9, 1.1)", cutoff, pass)
		}

		if stop := sineRMSRatio(t, c, 0.1*cutoff); stop >= 0.1 {
			t.Errorf("highpass %g Hz: stopband ratio = %g, want < 0.1", cutoff, stop)
		}
	}
}

func TestAllpassPreservesMagnitude(t *testing.T) {
	c := Allpass(1000, 1/math.Sqrt2, testRate)

	// Six test tones spanning two decades.
	for _, freq := range []float64{100, 250, 630, 1600, 4000, 10000} {
		if ratio := sineRMSRatio(t, c, freq); ratio < 0.95 || ratio > 1.05 {
			t.Errorf("allpass at %g Hz: ratio = %g, want (0.95, 1.05)", freq, ratio)
		}
	}
}

func TestLowpassDCGain(t *testing.T) {
	s := NewSection(Lowpass(1000, 1/math.Sqrt2, testRate))

	var y float64
	for i := 0; i < 48000; i++ {
		y = s.ProcessSample(1)
	}

	if math.Abs(y-1) > 0.01 {
		t.Fatalf("DC steady state = %g, want 1 +- 0.01", y)
	}
}

func TestDesignStableAcrossCutoffRange(t *testing.T) {
	for _, freq := range []float64{20, 100, 1000, 10000, 20000} {
		for _, design := range []func(f, q, sr float64) Coefficients{Lowpass, Highpass, Allpass} {
			c := design(freq, 1/math.Sqrt2, testRate)

			// Poles inside the unit circle: |a2| < 1 and |a1| < 1 + a2.
			if math.Abs(c.A2) >= 1 || math.Abs(c.A1) >= 1+c.A2 {
				t.Errorf("unstable design at %g Hz: a1=%g a2=%g", freq, c.A1, c.A2)
			}
		}
	}
}

func TestProcessSampleFiniteForExtremeInputs(t *testing.T) {
	s := NewSection(Lowpass(1000, 1/math.Sqrt2, testRate))

	inputs := []float64{0, 1e-300, -1e-300, 1e300, -1e300, 1, -1}
	for _, x := range inputs {
		for i := 0; i < 1000; i++ {
			y := s.ProcessSample(x)
			if math.IsNaN(y) || math.IsInf(y, 0) {
				t.Fatalf("non-finite output for input %g", x)
			}
		}
	}
}

func TestDegenerateDesignIsIdentity(t *testing.T) {
	for _, c := range []Coefficients{
		Lowpass(0, 0.7, testRate),
		Lowpass(-50, 0.7, testRate),
		Lowpass(1000, 0.7, 0),
		Lowpass(math.NaN(), 0.7, testRate),
	} {
		s := NewSection(c)
		for _, x := range []float64{0.5, -0.25, 1} {
			if y := s.ProcessSample(x); y != x {
				t.Fatalf("degenerate design not identity: in=%g out=%g coeffs=%+v", x, y, c)
			}
		}
	}
}

func TestCutoffClampedBelowNyquist(t *testing.T) {
	c := Lowpass(40000, 0.7, testRate)

	if math.Abs(c.A2) >= 1 || math.Abs(c.A1) >= 1+c.A2 {
		t.Fatalf("clamped design unstable: %+v", c)
	}
}

func TestProcessBlockMatchesProcessSample(t *testing.T) {
	c := Highpass(800, 0.7, testRate)
	s1 := NewSection(c)
	s2 := NewSection(c)

	buf := make([]float64, 512)
	want := make([]float64, len(buf))

	for i := range buf {
		buf[i] = math.Sin(2 * math.Pi * float64(i) / 37)
		want[i] = s1.ProcessSample(buf[i])
	}

	s2.ProcessBlock(buf)

	for i := range buf {
		if diff := math.Abs(buf[i] - want[i]); diff > 1e-12 {
			t.Fatalf("sample %d mismatch: got=%g want=%g", i, buf[i], want[i])
		}
	}
}

func TestSectionResetAndState(t *testing.T) {
	s := NewSection(Lowpass(500, 0.7, testRate))

	for i := 0; i < 32; i++ {
		s.ProcessSample(1)
	}

	saved := s.State()
	if saved == ([2]float64{}) {
		t.Fatal("expected non-zero state after processing")
	}

	s.Reset()
	if s.State() != ([2]float64{}) {
		t.Fatal("Reset() left residual state")
	}

	s.SetState(saved)
	if s.State() != saved {
		t.Fatal("SetState() did not restore state")
	}
}
