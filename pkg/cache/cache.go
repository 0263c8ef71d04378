// Package cache provides the memoization store for computed hierarchy trees.
// The engine is a pure function of its inputs, so identical inputs can be
// served from cache without rebuilding; correctness never depends on it.
package cache

import (
	"context"
	"fmt"
)

// Cache stores serialized engine results keyed by an input digest.
type Cache interface {
	// Get returns the cached value and whether the key was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores the value under key. Backends may evict or expire freely.
	Set(ctx context.Context, key string, value []byte) error
}

// New constructs the backend selected by the configuration.
func New(config *Config) (Cache, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid cache config: %w", err)
	}

	switch config.Backend {
	case BackendMemory:
		return NewLRU(config.Size)
	case BackendRedis:
		return NewRedis(config.Redis)
	default:
		return nil, fmt.Errorf("unknown cache backend: %s", config.Backend)
	}
}
