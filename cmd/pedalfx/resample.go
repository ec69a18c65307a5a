package main

import (
	"fmt"

	"github.com/dh1tw/gosamplerate"
)

// resampleTo converts mono samples from one rate to another with
// libsamplerate's sinc converter.
func resampleTo(samples []float64, fromRate, toRate float64) ([]float64, error) {
	if fromRate <= 0 || toRate <= 0 {
		return nil, fmt.Errorf("rates must be > 0: %g -> %g", fromRate, toRate)
	}

	if fromRate == toRate {
		return samples, nil
	}

	in := make([]float32, len(samples))
	for i, x := range samples {
		in[i] = float32(x)
	}

	out, err := gosamplerate.Simple(in, toRate/fromRate, 1, gosamplerate.SRC_SINC_MEDIUM_QUALITY)
	if err != nil {
		return nil, err
	}

	result := make([]float64, len(out))
	for i, x := range out {
		result[i] = float64(x)
	}

	return result, nil
}
