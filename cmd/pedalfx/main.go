// Command pedalfx runs one effect over a WAV file or live playback.
//
// Usage:
//
//	pedalfx [flags] <effect> <input.wav> [output.wav]
//
// The four pots map to effect parameters as documented per effect.
//
// Examples:
//
//	pedalfx -list
//	pedalfx braid in.wav out.wav
//	pedalfx -pots 0.4,0.5,0.3,1.0 braid in.wav out.wav
//	pedalfx -play -pots 1,0,1,1 formant in.wav
//
// During -play, pot updates are read from stdin as lines of the form
// pNXX, where N is the pot index 0..3 and XX is the position 00..99.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-pedal/dsp/core"
	"github.com/cwbudde/algo-pedal/dsp/effects"
)

func main() {
	rate := flag.Float64("rate", 48000, "engine sample rate in Hz")
	potsFlag := flag.String("pots", "0.5,0.5,0.5,0.5", "comma-separated pot values in [0,1]")
	gate := flag.Float64("gate", 0.002, "noise gate threshold, 0 disables")
	play := flag.Bool("play", false, "play the processed audio instead of writing a file")
	list := flag.Bool("list", false, "list available effect names")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: pedalfx [flags] <effect> <input.wav> [output.wav]\n\n")
		fmt.Fprintf(os.Stderr, "Runs one effect over a WAV file or live playback.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	registry := effects.DefaultRegistry()

	if *list {
		for _, name := range registry.Names() {
			fmt.Println(name)
		}

		return
	}

	args := flag.Args()
	if len(args) < 2 {
		flag.Usage()
		os.Exit(2)
	}

	pots, err := parsePots(*potsFlag)
	if err != nil {
		fatalf("invalid -pots: %v", err)
	}

	cfg := core.ApplyEngineOptions(core.WithSampleRate(*rate))

	effect, err := registry.New(args[0], cfg.SampleRate, pots)
	if err != nil {
		fatalf("%v", err)
	}

	fmt.Fprintln(os.Stderr, effect.Describe())

	samples, inputRate, err := readWAV(args[1])
	if err != nil {
		fatalf("read %s: %v", args[1], err)
	}

	if inputRate != cfg.SampleRate {
		samples, err = resampleTo(samples, inputRate, cfg.SampleRate)
		if err != nil {
			fatalf("resample %g -> %g Hz: %v", inputRate, cfg.SampleRate, err)
		}

		fmt.Fprintf(os.Stderr, "resampled %g Hz -> %g Hz\n", inputRate, cfg.SampleRate)
	}

	if *play {
		go watchPots(os.Stdin, effect, pots)

		if err := playSamples(samples, cfg.SampleRate, effect, *gate); err != nil {
			fatalf("playback: %v", err)
		}

		return
	}

	if len(args) < 3 {
		fatalf("output file required unless -play is set")
	}

	out := processSamples(effect, samples, cfg.BlockSize, *gate)

	if err := writeWAV(args[2], out, cfg.SampleRate); err != nil {
		fatalf("write %s: %v", args[2], err)
	}
}

// processSamples runs the buffer through the gate and effect one
// transport block at a time, the way the live host hands audio to the
// engine.
func processSamples(effect effects.Effect, samples []float64, blockSize int, gateThreshold float64) []float64 {
	gate := newNoiseGate(gateThreshold)

	out := make([]float64, len(samples))

	for start := 0; start < len(samples); start += blockSize {
		end := start + blockSize
		if end > len(samples) {
			end = len(samples)
		}

		for i := start; i < end; i++ {
			out[i] = effect.Process(gate.Process(samples[i]))
		}
	}

	return out
}

func parsePots(s string) (effects.Pots, error) {
	var pots effects.Pots

	parts := strings.Split(s, ",")
	if len(parts) != len(pots) {
		return pots, fmt.Errorf("expected %d comma-separated values, got %d", len(pots), len(parts))
	}

	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return pots, fmt.Errorf("pot %d: %w", i, err)
		}

		if v < 0 || v > 1 {
			return pots, fmt.Errorf("pot %d out of [0,1]: %g", i, v)
		}

		pots[i] = v
	}

	return pots, nil
}

// watchPots applies pNXX lines from r to the running effect, starting
// from the pots the effect was constructed with. N is the pot index,
// XX the position 00..99. Malformed lines are reported and skipped.
func watchPots(r *os.File, effect effects.Effect, pots effects.Pots) {
	updater, ok := effect.(effects.PotUpdater)
	if !ok {
		return
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		idx, value, err := parsePotCommand(line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "pot command %q: %v\n", line, err)
			continue
		}

		pots[idx] = value
		updater.SetPots(pots)

		fmt.Fprintln(os.Stderr, effect.Describe())
	}
}

func parsePotCommand(line string) (idx int, value float64, err error) {
	if len(line) != 4 || line[0] != 'p' {
		return 0, 0, fmt.Errorf("want pNXX")
	}

	idx = int(line[1] - '0')
	if idx < 0 || idx > 3 {
		return 0, 0, fmt.Errorf("pot index out of range")
	}

	pos, err := strconv.Atoi(line[2:])
	if err != nil || pos < 0 || pos > 99 {
		return 0, 0, fmt.Errorf("position must be 00..99")
	}

	return idx, float64(pos) / 99, nil
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "pedalfx: "+format+"\n", args...)
	os.Exit(1)
}
