// Copyright (c) 2026 Receitaria. All rights reserved.
// Author: dev@receitaria.app

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/saborlabs/receitaria/internal/platform/constants"
)

// RedisBlockedTokenRepository implements BlockedTokenRepository using Redis.
//
// Expiry is delegated to key TTLs, so the daily sweep has nothing to do for
// this backend. Selected via the REVOCATION_BACKEND configuration.
type RedisBlockedTokenRepository struct {
	client *redis.Client
}

// NewRedisBlockedTokenRepository creates a new Redis-backed BlockedTokenRepository.
func NewRedisBlockedTokenRepository(client *redis.Client) *RedisBlockedTokenRepository {
	return &RedisBlockedTokenRepository{client: client}
}

/*
Add places a token on the blocklist until expiresAt.

Description: SETNX keeps the operation idempotent; a repeated logout with the
same token leaves the original TTL untouched. Tokens already past expiry are
skipped entirely since Redis rejects non-positive TTLs.

Parameters:
  - context: context.Context
  - token: string
  - expiresAt: time.Time

Returns:
  - error: Execution errors
*/
func (repository *RedisBlockedTokenRepository) Add(context context.Context, token string, expiresAt time.Time) error {

	// Use constants for key prefix
	key := constants.RedisPrefixBlockedToken + token

	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}

	// SetNX the token with TTL
	if err := repository.client.SetNX(context, key, "1", ttl).Err(); err != nil {
		return fmt.Errorf("redis_blocked_token_add_failed: %w", err)
	}

	// Return nil on success
	return nil
}

/*
IsBlocked reports whether the token is currently on the blocklist.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - bool: true if the token has been revoked
  - error: Connectivity errors
*/
func (repository *RedisBlockedTokenRepository) IsBlocked(context context.Context, token string) (bool, error) {

	// Use constants for key prefix
	key := constants.RedisPrefixBlockedToken + token

	// Check for key existence
	count, err := repository.client.Exists(context, key).Result()
	if err != nil {
		return false, fmt.Errorf("redis_blocked_token_lookup_failed: %w", err)
	}

	return count > 0, nil
}

/*
PurgeExpired is a no-op for the Redis backend.

Description: Key TTLs expire entries automatically, so there is never
anything to sweep.

Parameters:
  - context: context.Context
  - now: time.Time

Returns:
  - int64: Always 0
  - error: Always nil
*/
func (repository *RedisBlockedTokenRepository) PurgeExpired(context context.Context, now time.Time) (int64, error) {
	return 0, nil
}
