package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "session:revoked:"

// RevocationList tracks signed-out session tokens until they expire on
// their own. Backed by Redis so every instance sees the same set.
type RevocationList struct {
	client *redis.Client
}

// NewRevocationList builds the list over the shared Redis client.
func NewRevocationList(client *redis.Client) *RevocationList {
	return &RevocationList{client: client}
}

// Revoke marks a token id as signed out until its natural expiry.
func (r *RevocationList) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if r == nil || r.client == nil {
		return nil
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, revokedKeyPrefix+tokenID, "1", ttl).Err()
}

// IsRevoked reports whether a token id has been signed out. A Redis outage
// fails open: sessions stay valid until their expiry.
func (r *RevocationList) IsRevoked(ctx context.Context, tokenID string) bool {
	if r == nil || r.client == nil {
		return false
	}
	exists, err := r.client.Exists(ctx, revokedKeyPrefix+tokenID).Result()
	if err != nil {
		return false
	}
	return exists > 0
}
