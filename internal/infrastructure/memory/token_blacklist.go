package memory

import (
	"context"
	"sync"
	"time"
)

// TokenBlacklist keeps revoked token ids in process memory. It is used when
// Redis is disabled; revocations do not survive a restart.
type TokenBlacklist struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

// NewTokenBlacklist creates an empty blacklist.
func NewTokenBlacklist() *TokenBlacklist {
	return &TokenBlacklist{revoked: make(map[string]time.Time), now: time.Now}
}

// Revoke blacklists tokenID until expiresAt.
func (b *TokenBlacklist) Revoke(_ context.Context, tokenID string, expiresAt time.Time) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	if !expiresAt.After(now) {
		return nil
	}
	b.purge(now)
	b.revoked[tokenID] = expiresAt
	return nil
}

// IsBlacklisted reports whether tokenID was revoked and has not expired yet.
func (b *TokenBlacklist) IsBlacklisted(_ context.Context, tokenID string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	expiresAt, ok := b.revoked[tokenID]
	if !ok {
		return false, nil
	}
	if !expiresAt.After(b.now()) {
		delete(b.revoked, tokenID)
		return false, nil
	}
	return true, nil
}

func (b *TokenBlacklist) purge(now time.Time) {
	for id, expiresAt := range b.revoked {
		if !expiresAt.After(now) {
			delete(b.revoked, id)
		}
	}
}
