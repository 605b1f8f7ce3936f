// internal/pkg/auth/denylist.go
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const denylistKeyPrefix = "auth:denylist:"

// TokenDenylist tracks revoked access tokens in Redis until they expire.
type TokenDenylist struct {
	redis *redis.Client
}

// NewTokenDenylist creates a new token denylist
func NewTokenDenylist(client *redis.Client) *TokenDenylist {
	return &TokenDenylist{
		redis: client,
	}
}

// Revoke marks a token ID as revoked for the remaining token lifetime.
func (d *TokenDenylist) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		// Already expired, nothing to track
		return nil
	}
	if err := d.redis.Set(ctx, denylistKeyPrefix+tokenID, "revoked", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether a token ID has been revoked.
func (d *TokenDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	count, err := d.redis.Exists(ctx, denylistKeyPrefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return count > 0, nil
}
