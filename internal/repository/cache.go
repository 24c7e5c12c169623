package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"roomnlu/internal/model"

	"github.com/redis/go-redis/v9"
)

// ParseCache stores compiled results in Redis. The pipeline is deterministic
// for a fixed reference date, so the key folds in the model name, the
// reference date, and a hash of the utterance.
type ParseCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewParseCache creates a new Redis-backed parse cache
func NewParseCache(addr, password string, db int, ttl time.Duration) *ParseCache {
	return &ParseCache{
		client: redis.NewClient(&redis.Options{
			Addr:         addr,
			Password:     password,
			DB:           db,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		}),
		ttl: ttl,
	}
}

// Ping tests the Redis connection
func (c *ParseCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Close closes the Redis connection
func (c *ParseCache) Close() error {
	return c.client.Close()
}

// Key derives the cache key for an utterance parsed with a given model on a
// given reference date.
func (c *ParseCache) Key(modelName, referenceDate, utterance string) string {
	sum := sha256.Sum256([]byte(utterance))
	return fmt.Sprintf("parse:%s:%s:%s", modelName, referenceDate, hex.EncodeToString(sum[:16]))
}

// Get returns the cached compiled result, or nil on a miss. Errors are
// returned so the caller can log them, but a broken cache never blocks a
// parse.
func (c *ParseCache) Get(ctx context.Context, key string) (*model.CompiledRequest, error) {
	data, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis GET failed: %w", err)
	}

	var compiled model.CompiledRequest
	if err := json.Unmarshal([]byte(data), &compiled); err != nil {
		// stale or corrupt entry: drop it and treat as a miss
		c.client.Del(ctx, key)
		return nil, nil
	}
	return &compiled, nil
}

// Set stores a compiled result under the key with the configured TTL.
func (c *ParseCache) Set(ctx context.Context, key string, compiled *model.CompiledRequest) error {
	data, err := json.Marshal(compiled)
	if err != nil {
		return fmt.Errorf("failed to marshal compiled request: %w", err)
	}
	if err := c.client.Set(ctx, key, string(data), c.ttl).Err(); err != nil {
		return fmt.Errorf("redis SET failed: %w", err)
	}
	return nil
}
