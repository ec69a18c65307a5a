// Package core holds configuration and numeric helpers shared by the
// pedal engine packages.
package core

// EngineConfig defines common real-time processing settings.
type EngineConfig struct {
	SampleRate float64
	BlockSize  int
}

// EngineOption mutates an EngineConfig.
type EngineOption func(*EngineConfig)

// DefaultEngineConfig returns the settings the pedal host runs with.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		SampleRate: 48000,
		BlockSize:  200,
	}
}

// WithSampleRate sets the processing sample rate.
func WithSampleRate(sampleRate float64) EngineOption {
	return func(cfg *EngineConfig) {
		if sampleRate > 0 {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithBlockSize sets the transport block size in samples.
func WithBlockSize(blockSize int) EngineOption {
	return func(cfg *EngineConfig) {
		if blockSize > 0 {
			cfg.BlockSize = blockSize
		}
	}
}

// ApplyEngineOptions applies zero or more options to the default config.
func ApplyEngineOptions(opts ...EngineOption) EngineConfig {
	cfg := DefaultEngineConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}
