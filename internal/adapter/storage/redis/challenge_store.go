package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// ChallengeStore implements ports.ChallengeStore using Redis GETDEL.
// GETDEL makes consumption atomic: two concurrent assertions over the same
// challenge cannot both succeed.
type ChallengeStore struct {
	client *goredis.Client
	prefix string
}

// NewChallengeStore creates a new Redis-backed challenge store.
func NewChallengeStore(client *goredis.Client) *ChallengeStore {
	return &ChallengeStore{
		client: client,
		prefix: "challenge:",
	}
}

func (s *ChallengeStore) key(identifier, rpID string) string {
	return s.prefix + rpID + ":" + identifier
}

// Issue stores a challenge with TTL, overwriting any prior unconsumed
// challenge for the same key. Last-issued wins.
func (s *ChallengeStore) Issue(ctx context.Context, identifier, rpID string, challenge []byte, ttl time.Duration) error {
	err := s.client.Set(ctx, s.key(identifier, rpID), challenge, ttl).Err()
	if err != nil {
		return fmt.Errorf("redis challenge issue: %w", err)
	}
	return nil
}

// Consume removes and returns the live challenge.
// Returns nil, nil when no challenge exists (expired or already consumed).
func (s *ChallengeStore) Consume(ctx context.Context, identifier, rpID string) ([]byte, error) {
	val, err := s.client.GetDel(ctx, s.key(identifier, rpID)).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis challenge consume: %w", err)
	}
	return val, nil
}
