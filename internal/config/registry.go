package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/lorikeet-audio/lorikeet/pkg/synth"
)

// ErrEngineNotRegistered is returned by [Registry.CreateEngine] when no
// factory has been registered under the requested engine name.
var ErrEngineNotRegistered = errors.New("config: engine not registered")

// Registry maps engine names to their constructor functions. It is safe for
// concurrent use.
type Registry struct {
	mu      sync.RWMutex
	engines map[string]func(EngineConfig) (synth.Provider, error)
}

// NewRegistry returns an empty, ready-to-use [Registry].
func NewRegistry() *Registry {
	return &Registry{
		engines: make(map[string]func(EngineConfig) (synth.Provider, error)),
	}
}

// RegisterEngine registers an engine factory under name.
// Subsequent calls with the same name overwrite the previous registration.
func (r *Registry) RegisterEngine(name string, factory func(EngineConfig) (synth.Provider, error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.engines[name] = factory
}

// CreateEngine instantiates an engine using the factory registered under
// cfg.Name. Returns [ErrEngineNotRegistered] if no factory has been
// registered for that name.
func (r *Registry) CreateEngine(cfg EngineConfig) (synth.Provider, error) {
	r.mu.RLock()
	factory, ok := r.engines[cfg.Name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrEngineNotRegistered, cfg.Name)
	}
	return factory(cfg)
}
