package cache

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// LRU is the in-process memoization backend.
type LRU struct {
	entries *lru.Cache[string, []byte]
}

// NewLRU creates an in-memory cache holding at most size entries.
func NewLRU(size int) (*LRU, error) {
	entries, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create lru cache: %w", err)
	}

	return &LRU{entries: entries}, nil
}

func (c *LRU) Get(_ context.Context, key string) ([]byte, bool, error) {
	value, ok := c.entries.Get(key)

	return value, ok, nil
}

func (c *LRU) Set(_ context.Context, key string, value []byte) error {
	c.entries.Add(key, value)

	return nil
}
