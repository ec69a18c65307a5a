package main

import (
	"fmt"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const outputBitDepth = 24

// readWAV decodes a WAV file into mono float64 samples in [-1, 1].
// Multi-channel input is averaged down to mono.
func readWAV(path string) ([]float64, float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, err
	}

	if buf.Format == nil || buf.Format.NumChannels < 1 {
		return nil, 0, fmt.Errorf("missing format information")
	}

	depth := int(dec.BitDepth)
	if depth <= 0 {
		depth = buf.SourceBitDepth
	}

	if depth <= 0 || depth > 32 {
		return nil, 0, fmt.Errorf("unsupported bit depth %d", depth)
	}

	// Full-scale integer samples map onto [-1, 1); for 32-bit input
	// this is the 1/2^31 scaling.
	scale := 1 / float64(int64(1)<<(depth-1))

	channels := buf.Format.NumChannels
	frames := len(buf.Data) / channels

	samples := make([]float64, frames)

	for i := 0; i < frames; i++ {
		sum := 0.0
		for ch := 0; ch < channels; ch++ {
			sum += float64(buf.Data[i*channels+ch]) * scale
		}

		samples[i] = sum / float64(channels)
	}

	return samples, float64(buf.Format.SampleRate), nil
}

// writeWAV encodes mono float64 samples as a 24-bit WAV file. Samples
// outside [-1, 1] are clamped.
func writeWAV(path string, samples []float64, sampleRate float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := wav.NewEncoder(f, int(sampleRate), outputBitDepth, 1, 1)

	fullScale := float64(int64(1)<<(outputBitDepth-1)) - 1

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: 1,
			SampleRate:  int(sampleRate),
		},
		SourceBitDepth: outputBitDepth,
		Data:           make([]int, len(samples)),
	}

	for i, x := range samples {
		if math.IsNaN(x) {
			x = 0
		}

		if x > 1 {
			x = 1
		}

		if x < -1 {
			x = -1
		}

		buf.Data[i] = int(math.Round(x * fullScale))
	}

	if err := enc.Write(buf); err != nil {
		return err
	}

	return enc.Close()
}
