package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogcore/internal/auth/adapters/redis"
	kvredis "blogcore/pkg/db/redis"
)

func newRegistry(t *testing.T) (*miniredis.Miniredis, *redis.RevocationRegistry) {
	t.Helper()

	srv := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return srv, redis.NewRevocationRegistry(kvredis.NewFromClient(rdb, 0))
}

func TestRevocationRegistry_Revoke(t *testing.T) {
	ctx := context.Background()
	srv, registry := newRegistry(t)

	revoked, err := registry.IsRevoked(ctx, "tok")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, registry.Revoke(ctx, "tok", time.Minute))

	revoked, err = registry.IsRevoked(ctx, "tok")
	require.NoError(t, err)
	assert.True(t, revoked)

	value, err := srv.Get("blacklist:tok")
	require.NoError(t, err)
	assert.Equal(t, "1", value)
	assert.Equal(t, time.Minute, srv.TTL("blacklist:tok"))

	srv.FastForward(61 * time.Second)

	revoked, err = registry.IsRevoked(ctx, "tok")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRevocationRegistry_NonPositiveTTLWritesNothing(t *testing.T) {
	ctx := context.Background()
	srv, registry := newRegistry(t)

	require.NoError(t, registry.Revoke(ctx, "tok", 0))
	require.NoError(t, registry.Revoke(ctx, "tok", -time.Second))

	assert.False(t, srv.Exists("blacklist:tok"))
}

func TestRevocationRegistry_StoreFailure(t *testing.T) {
	ctx := context.Background()
	srv, registry := newRegistry(t)
	srv.Close()

	_, err := registry.IsRevoked(ctx, "tok")
	require.Error(t, err)

	require.Error(t, registry.Revoke(ctx, "tok", time.Minute))
}
