package main

import (
	"encoding/binary"
	"io"
	"math"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/cwbudde/algo-pedal/dsp/effects"
)

// effectReader streams processed audio to the player. Samples run
// through the gate and effect on demand, so pot updates arriving over
// stdin are audible immediately.
type effectReader struct {
	samples []float64
	pos     int

	effect effects.Effect
	gate   *noiseGate
}

func (r *effectReader) Read(p []byte) (int, error) {
	const bytesPerSample = 4

	if r.pos >= len(r.samples) {
		return 0, io.EOF
	}

	n := 0

	for n+bytesPerSample <= len(p) && r.pos < len(r.samples) {
		y := r.effect.Process(r.gate.Process(r.samples[r.pos]))
		r.pos++

		binary.LittleEndian.PutUint32(p[n:], math.Float32bits(float32(y)))
		n += bytesPerSample
	}

	return n, nil
}

// playSamples processes the buffer through the effect while streaming
// it to the default audio device, blocking until playback finishes.
func playSamples(samples []float64, sampleRate float64, effect effects.Effect, gateThreshold float64) error {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   int(sampleRate),
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		return err
	}
	<-ready

	player := ctx.NewPlayer(&effectReader{
		samples: samples,
		effect:  effect,
		gate:    newNoiseGate(gateThreshold),
	})
	defer player.Close()

	player.Play()

	for player.IsPlaying() {
		time.Sleep(10 * time.Millisecond)
	}

	return nil
}
