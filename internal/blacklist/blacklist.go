// Package blacklist tracks revoked refresh tokens by jti until their natural
// expiry. Redis is the hot path; an optional durable mirror backs it so a
// cache flush cannot resurrect a revoked token.
package blacklist

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "blacklist:"

// Mirror is the durable side of the store, implemented by the postgres
// blacklist repository.
type Mirror interface {
	Add(ctx context.Context, jti string, expiresAt time.Time) error
	Contains(ctx context.Context, jti string) (bool, error)
}

type Store struct {
	cache  *redis.Client
	mirror Mirror
}

func NewStore(cache *redis.Client, mirror Mirror) *Store {
	return &Store{cache: cache, mirror: mirror}
}

// Add marks the jti revoked. The redis TTL equals the token's remaining
// lifetime, so the entry evicts itself once the token would be rejected as
// expired anyway. Adding an already-revoked jti is not an error.
func (s *Store) Add(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}

	if err := s.cache.Set(ctx, keyPrefix+jti, "1", ttl).Err(); err != nil {
		return fmt.Errorf("blacklist set: %w", err)
	}

	if s.mirror != nil {
		if err := s.mirror.Add(ctx, jti, expiresAt); err != nil {
			return fmt.Errorf("blacklist mirror: %w", err)
		}
	}
	return nil
}

// Contains reports whether the jti has been revoked. A redis miss falls
// through to the mirror.
func (s *Store) Contains(ctx context.Context, jti string) (bool, error) {
	n, err := s.cache.Exists(ctx, keyPrefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("blacklist exists: %w", err)
	}
	if n > 0 {
		return true, nil
	}

	if s.mirror != nil {
		return s.mirror.Contains(ctx, jti)
	}
	return false, nil
}
