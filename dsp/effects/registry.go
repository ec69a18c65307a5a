package effects

import (
	"errors"
	"fmt"
	"sort"
)

// Factory builds one effect instance from a sample rate and pot values.
type Factory func(sampleRate float64, pots Pots) (Effect, error)

// Registry maps effect names to their factories. It replaces the
// function-pointer dispatch table of a classic pedal host with a closed
// set of variants selected by name at startup.
type Registry struct {
	factories map[string]Factory
}

var (
	errDuplicateEffect = errors.New("duplicate effect name")
	// ErrUnknownEffect is returned by New for names never registered.
	ErrUnknownEffect = errors.New("unknown effect name")
)

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory under the given name.
func (r *Registry) Register(name string, factory Factory) error {
	if name == "" {
		return errors.New("empty effect name")
	}

	if factory == nil {
		return errors.New("nil factory")
	}

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("%w: %s", errDuplicateEffect, name)
	}

	r.factories[name] = factory

	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(name string, factory Factory) {
	err := r.Register(name, factory)
	if err != nil {
		panic("effects registry: " + err.Error())
	}
}

// Lookup returns the factory for the given name, or nil.
func (r *Registry) Lookup(name string) Factory {
	return r.factories[name]
}

// New builds an effect by name.
func (r *Registry) New(name string, sampleRate float64, pots Pots) (Effect, error) {
	factory := r.factories[name]
	if factory == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEffect, name)
	}

	return factory(sampleRate, pots)
}

// Names returns the registered effect names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// DefaultRegistry returns a registry with every built-in effect.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.MustRegister("braid", func(sampleRate float64, pots Pots) (Effect, error) {
		return NewBraid(sampleRate, pots)
	})
	r.MustRegister("formant", func(sampleRate float64, pots Pots) (Effect, error) {
		return NewFormant(sampleRate, pots)
	})
	r.MustRegister("tremolo", func(sampleRate float64, pots Pots) (Effect, error) {
		return NewTremolo(sampleRate, pots)
	})
	r.MustRegister("chorus", func(sampleRate float64, pots Pots) (Effect, error) {
		return NewChorus(sampleRate, pots)
	})
	r.MustRegister("phaser", func(sampleRate float64, pots Pots) (Effect, error) {
		return NewPhaser(sampleRate, pots)
	})
	r.MustRegister("distortion", func(sampleRate float64, pots Pots) (Effect, error) {
		return NewDistortion(sampleRate, pots)
	})
	r.MustRegister("echo", func(sampleRate float64, pots Pots) (Effect, error) {
		return NewEcho(sampleRate, pots)
	})
	r.MustRegister("doubler", func(sampleRate float64, pots Pots) (Effect, error) {
		return NewDoubler(sampleRate, pots)
	})
	r.MustRegister("growlingbass", func(sampleRate float64, pots Pots) (Effect, error) {
		return NewGrowlingBass(sampleRate, pots)
	})

	return r
}
