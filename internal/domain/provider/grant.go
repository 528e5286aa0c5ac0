package provider

import (
	"time"

	"github.com/google/uuid"
)

// RoleGrant records that a verified provider's owner must end up holding
// exactly Role. It is written in the same transaction as the verification
// flip and completed once the identity subsystem has converged.
type RoleGrant struct {
	id          uuid.UUID
	providerID  uuid.UUID
	userID      uuid.UUID
	role        string
	attempts    int
	lastError   string
	createdAt   time.Time
	completedAt *time.Time
	abandonedAt *time.Time
}

// NewRoleGrant creates a pending grant for the provider's owner.
func NewRoleGrant(p *Provider, role string) *RoleGrant {
	return &RoleGrant{
		id:         uuid.New(),
		providerID: p.ID(),
		userID:     p.UserID(),
		role:       role,
		createdAt:  time.Now().UTC(),
	}
}

// ReconstructRoleGrant reconstructs a RoleGrant from persistence data.
func ReconstructRoleGrant(
	id, providerID, userID uuid.UUID,
	role string,
	attempts int,
	lastError string,
	createdAt time.Time,
	completedAt, abandonedAt *time.Time,
) *RoleGrant {
	return &RoleGrant{
		id:          id,
		providerID:  providerID,
		userID:      userID,
		role:        role,
		attempts:    attempts,
		lastError:   lastError,
		createdAt:   createdAt,
		completedAt: completedAt,
		abandonedAt: abandonedAt,
	}
}

// ID returns the grant ID.
func (g *RoleGrant) ID() uuid.UUID { return g.id }

// ProviderID returns the verified provider.
func (g *RoleGrant) ProviderID() uuid.UUID { return g.providerID }

// UserID returns the user that must receive the role.
func (g *RoleGrant) UserID() uuid.UUID { return g.userID }

// Role returns the role to grant.
func (g *RoleGrant) Role() string { return g.role }

// Attempts returns how many failed attempts were recorded.
func (g *RoleGrant) Attempts() int { return g.attempts }

// LastError returns the last recorded failure.
func (g *RoleGrant) LastError() string { return g.lastError }

// CreatedAt returns when the grant was recorded.
func (g *RoleGrant) CreatedAt() time.Time { return g.createdAt }

// CompletedAt returns when the grant converged, nil while pending.
func (g *RoleGrant) CompletedAt() *time.Time { return g.completedAt }

// AbandonedAt returns when the grant was given up on, nil unless abandoned.
func (g *RoleGrant) AbandonedAt() *time.Time { return g.abandonedAt }

// IsPending reports whether the grant still needs to be applied.
func (g *RoleGrant) IsPending() bool { return g.completedAt == nil && g.abandonedAt == nil }

// IsAbandoned reports whether the grant will no longer be retried.
func (g *RoleGrant) IsAbandoned() bool { return g.abandonedAt != nil }

// Complete marks the grant converged.
func (g *RoleGrant) Complete() {
	now := time.Now().UTC()
	g.completedAt = &now
}

// Fail records a failed attempt.
func (g *RoleGrant) Fail(err error) {
	g.attempts++
	if err != nil {
		g.lastError = err.Error()
	}
}

// Abandon stops retrying a grant that cannot converge. The last error is kept.
func (g *RoleGrant) Abandon() {
	if g.abandonedAt != nil || g.completedAt != nil {
		return
	}
	now := time.Now().UTC()
	g.abandonedAt = &now
}
