// Package flags provides a feature flag provider backed by configuration.
package flags

import (
	"context"
	"maps"
	"sync"

	"github.com/jsamuelsen/quote-generator/internal/ports"
)

// Static serves flags from a fixed map loaded at startup. Set allows tests
// and operators to flip a flag at runtime.
type Static struct {
	mu    sync.RWMutex
	flags map[string]bool
}

var _ ports.FeatureFlags = (*Static)(nil)

// NewStatic copies values into a new provider.
func NewStatic(values map[string]bool) *Static {
	flags := make(map[string]bool, len(values))
	maps.Copy(flags, values)

	return &Static{flags: flags}
}

// IsEnabled returns the flag value, or defaultValue for unknown flags.
func (s *Static) IsEnabled(_ context.Context, flag string, defaultValue bool) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	enabled, ok := s.flags[flag]
	if !ok {
		return defaultValue
	}

	return enabled
}

// Flags returns a copy of every known flag.
func (s *Static) Flags(_ context.Context) map[string]bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return maps.Clone(s.flags)
}

// Set overrides a single flag.
func (s *Static) Set(flag string, enabled bool) {
	s.mu.Lock()
	s.flags[flag] = enabled
	s.mu.Unlock()
}
