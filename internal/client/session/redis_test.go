package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestRedisBackend_RoundTrip(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newTestRedis(t)
	b := NewRedisBackend(rdb, "authflow:", 0)

	_, ok, err := b.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, b.Save(ctx, "tok"))
	got, err := mr.Get("authflow:token")
	require.NoError(t, err)
	assert.Equal(t, "tok", got)

	tok, ok, err := b.Load(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, Token("tok"), tok)

	require.NoError(t, b.Delete(ctx))
	require.NoError(t, b.Delete(ctx))
	assert.False(t, mr.Exists("authflow:token"))
}

func TestRedisBackend_TTL(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newTestRedis(t)
	b := NewRedisBackend(rdb, "p:", time.Minute)

	require.NoError(t, b.Save(ctx, "tok"))
	assert.Equal(t, time.Minute, mr.TTL("p:token"))

	mr.FastForward(2 * time.Minute)
	_, ok, err := b.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisBackend_Unavailable(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newTestRedis(t)
	b := NewRedisBackend(rdb, "p:", 0)
	mr.Close()

	_, _, err := b.Load(ctx)
	require.Error(t, err)
	require.Error(t, b.Save(ctx, "tok"))
}
