package redis_test

import (
	"context"
	"testing"
	"time"

	"stablecoin-wallet-backend/internal/adapter/storage/redis"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenBlacklist(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer client.Close()

	store := redis.NewTokenBlacklist(client)
	ctx := context.Background()

	t.Run("unknown token is not revoked", func(t *testing.T) {
		revoked, err := store.Contains(ctx, "jti-unknown")
		require.NoError(t, err)
		assert.False(t, revoked)
	})

	t.Run("added token is revoked", func(t *testing.T) {
		require.NoError(t, store.Add(ctx, "jti-1", time.Hour))

		revoked, err := store.Contains(ctx, "jti-1")
		require.NoError(t, err)
		assert.True(t, revoked)
	})

	t.Run("entry expires with the token", func(t *testing.T) {
		require.NoError(t, store.Add(ctx, "jti-2", time.Minute))

		mr.FastForward(61 * time.Second)

		revoked, err := store.Contains(ctx, "jti-2")
		require.NoError(t, err)
		assert.False(t, revoked, "revocation entry should expire with the token")
	})

	t.Run("non-positive ttl is a no-op", func(t *testing.T) {
		require.NoError(t, store.Add(ctx, "jti-3", -time.Minute))

		revoked, err := store.Contains(ctx, "jti-3")
		require.NoError(t, err)
		assert.False(t, revoked)
	})
}
