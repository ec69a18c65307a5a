package main

import "math"

// gateDecay matches the envelope decay used by the frequency tracker:
// half-life of 40 samples.
var gateDecay = math.Pow(0.5, 1.0/40)

// noiseGate mutes the signal while its envelope sits below the
// threshold, keeping idle hiss out of high-gain effects. The envelope
// has instant attack and exponential decay, so note tails are released
// rather than chopped.
type noiseGate struct {
	threshold float64
	envelope  float64
}

// newNoiseGate creates a gate. A threshold <= 0 disables gating.
func newNoiseGate(threshold float64) *noiseGate {
	return &noiseGate{threshold: threshold}
}

func (g *noiseGate) Process(x float64) float64 {
	if g.threshold <= 0 {
		return x
	}

	a := math.Abs(x)
	if a < g.envelope {
		a = g.envelope * gateDecay
	}

	g.envelope = a

	if g.envelope < g.threshold {
		return 0
	}

	return x
}
