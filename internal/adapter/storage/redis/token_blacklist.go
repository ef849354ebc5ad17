package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// TokenBlacklist implements ports.TokenBlacklist using Redis keys with
// per-entry TTL. An entry lives exactly as long as the token it revokes,
// so the set never needs explicit cleanup.
type TokenBlacklist struct {
	client *goredis.Client
	prefix string
}

// NewTokenBlacklist creates a new Redis-backed token blacklist.
func NewTokenBlacklist(client *goredis.Client) *TokenBlacklist {
	return &TokenBlacklist{
		client: client,
		prefix: "revoked:",
	}
}

// Add marks a token ID as revoked until its natural expiry.
func (s *TokenBlacklist) Add(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		// Already expired, nothing to revoke.
		return nil
	}
	if err := s.client.Set(ctx, s.prefix+tokenID, 1, ttl).Err(); err != nil {
		return fmt.Errorf("redis blacklist add: %w", err)
	}
	return nil
}

// Contains reports whether a token ID has been revoked.
func (s *TokenBlacklist) Contains(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, s.prefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("redis blacklist check: %w", err)
	}
	return n > 0, nil
}
