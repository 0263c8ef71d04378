package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is the shared memoization backend for multi-replica deployments.
type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedis creates a redis-backed cache from configuration.
func NewRedis(config *RedisConfig) (*Redis, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid redis config: %w", err)
	}

	addr := strings.TrimPrefix(config.Address, "redis://")

	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	return &Redis{
		client: client,
		prefix: config.Prefix,
		ttl:    config.TTL,
	}, nil
}

func (c *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := c.client.Get(ctx, c.prefixed(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}

		return nil, false, err
	}

	return value, true, nil
}

func (c *Redis) Set(ctx context.Context, key string, value []byte) error {
	return c.client.Set(ctx, c.prefixed(key), value, c.ttl).Err()
}

// Close releases the underlying redis connection.
func (c *Redis) Close() error {
	return c.client.Close()
}

func (c *Redis) prefixed(key string) string {
	return c.prefix + ":hierarchy:" + key
}
