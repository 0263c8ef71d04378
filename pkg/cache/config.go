package cache

import (
	"fmt"
	"time"
)

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Config selects and configures the memoization backend.
type Config struct {
	// Backend is the cache backend to use: "memory" or "redis".
	Backend string `yaml:"backend" default:"memory"`
	// Size is the entry limit for the in-memory backend.
	Size int `yaml:"size" default:"512"`
	// Redis is the redis backend configuration, required when backend=redis.
	Redis *RedisConfig `yaml:"redis"`
}

// RedisConfig configures the redis cache backend.
type RedisConfig struct {
	Address string        `yaml:"address"`
	Prefix  string        `yaml:"prefix" default:"trace-icicle"`
	TTL     time.Duration `yaml:"ttl" default:"1h"`
}

func (c *Config) Validate() error {
	switch c.Backend {
	case BackendMemory:
		if c.Size <= 0 {
			return fmt.Errorf("cache size must be positive")
		}
	case BackendRedis:
		if c.Redis == nil {
			return fmt.Errorf("redis configuration is required when backend=redis")
		}

		if err := c.Redis.Validate(); err != nil {
			return fmt.Errorf("invalid redis cache configuration: %w", err)
		}
	default:
		return fmt.Errorf("unknown cache backend: %s", c.Backend)
	}

	return nil
}

func (c *RedisConfig) Validate() error {
	if c.Address == "" {
		return fmt.Errorf("redis address is required")
	}

	if c.Prefix == "" {
		c.Prefix = "trace-icicle"
	}

	return nil
}
