package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChallengeStore_IssueAndConsume(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := NewChallengeStore(client)
	ctx := context.Background()

	challenge := []byte("random-challenge-bytes")
	err := store.Issue(ctx, "GPAYER", "kindfi.org", challenge, 5*time.Minute)
	require.NoError(t, err)

	got, err := store.Consume(ctx, "GPAYER", "kindfi.org")
	require.NoError(t, err)
	assert.Equal(t, challenge, got)
}

func TestChallengeStore_Consume_SecondCallReturnsNil(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := NewChallengeStore(client)
	ctx := context.Background()

	err := store.Issue(ctx, "GPAYER", "kindfi.org", []byte("one-shot"), 5*time.Minute)
	require.NoError(t, err)

	got, err := store.Consume(ctx, "GPAYER", "kindfi.org")
	require.NoError(t, err)
	require.NotNil(t, got)

	// Consumption is destructive
	got, err = store.Consume(ctx, "GPAYER", "kindfi.org")
	require.NoError(t, err)
	assert.Nil(t, got, "consumed challenge must not be replayable")
}

func TestChallengeStore_Consume_Expired(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := NewChallengeStore(client)
	ctx := context.Background()

	err := store.Issue(ctx, "GPAYER", "kindfi.org", []byte("short-lived"), 1*time.Second)
	require.NoError(t, err)

	s.FastForward(2 * time.Second)

	got, err := store.Consume(ctx, "GPAYER", "kindfi.org")
	require.NoError(t, err)
	assert.Nil(t, got, "expired challenge must not be consumable")
}

func TestChallengeStore_Issue_LastIssuedWins(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := NewChallengeStore(client)
	ctx := context.Background()

	require.NoError(t, store.Issue(ctx, "GPAYER", "kindfi.org", []byte("first"), 5*time.Minute))
	require.NoError(t, store.Issue(ctx, "GPAYER", "kindfi.org", []byte("second"), 5*time.Minute))

	got, err := store.Consume(ctx, "GPAYER", "kindfi.org")
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), got)
}

func TestChallengeStore_KeysScopedByRelyingParty(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := NewChallengeStore(client)
	ctx := context.Background()

	require.NoError(t, store.Issue(ctx, "GPAYER", "kindfi.org", []byte("prod"), 5*time.Minute))
	require.NoError(t, store.Issue(ctx, "GPAYER", "staging.kindfi.org", []byte("staging"), 5*time.Minute))

	got, err := store.Consume(ctx, "GPAYER", "kindfi.org")
	require.NoError(t, err)
	assert.Equal(t, []byte("prod"), got)

	got, err = store.Consume(ctx, "GPAYER", "staging.kindfi.org")
	require.NoError(t, err)
	assert.Equal(t, []byte("staging"), got)
}
