package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// SubmissionCache implements ports.SubmissionCache using Redis.
type SubmissionCache struct {
	client *goredis.Client
	prefix string
}

// NewSubmissionCache creates a new Redis-backed submission cache.
func NewSubmissionCache(client *goredis.Client) *SubmissionCache {
	return &SubmissionCache{
		client: client,
		prefix: "submission:",
	}
}

// Reserve atomically records the transaction hash before submission.
// Returns true if the hash is new, false if already reserved.
func (c *SubmissionCache) Reserve(ctx context.Context, txHash string, ttl time.Duration) (bool, error) {
	result, err := c.client.SetArgs(ctx, c.prefix+txHash, 1, goredis.SetArgs{
		Mode: "NX",
		TTL:  ttl,
	}).Result()
	if err != nil {
		if err == goredis.Nil {
			// Key already exists — hash already submitted
			return false, nil
		}
		return false, fmt.Errorf("redis submission reserve: %w", err)
	}
	return result == "OK", nil
}

// Get retrieves a cached submission result by transaction hash.
// Returns nil, nil if no result is cached.
func (c *SubmissionCache) Get(ctx context.Context, txHash string) ([]byte, error) {
	val, err := c.client.Get(ctx, c.prefix+"result:"+txHash).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis submission get: %w", err)
	}
	return val, nil
}

// Set stores a submission result with TTL.
func (c *SubmissionCache) Set(ctx context.Context, txHash string, result []byte, ttl time.Duration) error {
	err := c.client.Set(ctx, c.prefix+"result:"+txHash, result, ttl).Err()
	if err != nil {
		return fmt.Errorf("redis submission set: %w", err)
	}
	return nil
}
