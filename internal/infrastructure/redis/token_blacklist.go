package redis

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const blacklistKey = "blacklist:%s"

// TokenBlacklist stores revoked access token ids until they expire.
type TokenBlacklist struct {
	client *Client
}

// NewTokenBlacklist creates a new token blacklist.
func NewTokenBlacklist(client *Client) *TokenBlacklist {
	return &TokenBlacklist{client: client}
}

// Revoke blacklists tokenID until expiresAt.
func (tb *TokenBlacklist) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := tb.client.Set(ctx, fmt.Sprintf(blacklistKey, tokenID), "1", ttl); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// IsBlacklisted checks if a token id is on the blacklist.
func (tb *TokenBlacklist) IsBlacklisted(ctx context.Context, tokenID string) (bool, error) {
	exists, err := tb.client.Exists(ctx, fmt.Sprintf(blacklistKey, tokenID))
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return false, err
		}
		return false, fmt.Errorf("blacklist check failed: %w", err)
	}
	return exists, nil
}
