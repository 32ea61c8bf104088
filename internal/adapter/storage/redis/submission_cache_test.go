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

func TestSubmissionCache_Reserve_NewHash(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	cache := NewSubmissionCache(client)
	ctx := context.Background()

	ok, err := cache.Reserve(ctx, "a1b2c3", 10*time.Minute)
	require.NoError(t, err)
	assert.True(t, ok, "new hash should reserve")
}

func TestSubmissionCache_Reserve_DuplicateHash(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	cache := NewSubmissionCache(client)
	ctx := context.Background()

	ok, err := cache.Reserve(ctx, "a1b2c3", 10*time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = cache.Reserve(ctx, "a1b2c3", 10*time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "duplicate hash should not reserve")
}

func TestSubmissionCache_GetSet(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	cache := NewSubmissionCache(client)
	ctx := context.Background()

	// Nothing cached yet
	val, err := cache.Get(ctx, "a1b2c3")
	require.NoError(t, err)
	assert.Nil(t, val)

	result := []byte(`{"transaction_hash":"a1b2c3","successful":true}`)
	require.NoError(t, cache.Set(ctx, "a1b2c3", result, 10*time.Minute))

	val, err = cache.Get(ctx, "a1b2c3")
	require.NoError(t, err)
	assert.Equal(t, result, val)
}

func TestSubmissionCache_Get_Expired(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	cache := NewSubmissionCache(client)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "a1b2c3", []byte("result"), 1*time.Second))
	s.FastForward(2 * time.Second)

	val, err := cache.Get(ctx, "a1b2c3")
	require.NoError(t, err)
	assert.Nil(t, val)
}
