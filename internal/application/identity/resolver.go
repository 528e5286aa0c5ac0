// Package identity provides application layer handlers for accounts,
// authentication and actor resolution.
package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/mutugading/marketplace-backend/internal/domain/actor"
	"github.com/mutugading/marketplace-backend/internal/domain/shared"
	"github.com/mutugading/marketplace-backend/internal/domain/user"
)

// ActorResolver turns the authenticated subject of a request into an Actor.
type ActorResolver struct {
	identity user.Identity
}

// NewActorResolver creates a new ActorResolver.
func NewActorResolver(identity user.Identity) *ActorResolver {
	return &ActorResolver{identity: identity}
}

// Resolve loads the user behind userID with its current roles. Unknown or
// inactive users are unauthenticated. No authorization happens here.
func (r *ActorResolver) Resolve(ctx context.Context, userID string) (*actor.Actor, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, actor.ErrMissing
	}

	u, err := r.identity.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, actor.ErrMissing
		}
		return nil, err
	}
	if !u.IsActive() {
		return nil, user.ErrInactive
	}

	roles, err := r.identity.GetRoles(ctx, u)
	if err != nil {
		return nil, shared.OperationFailed("ROLE_READ_FAILED", "failed to read user roles", err)
	}

	return &actor.Actor{
		ID:       u.ID(),
		Username: u.Username(),
		Name:     u.Name(),
		Email:    u.Email(),
		Phone:    u.Phone(),
		Roles:    roles,
	}, nil
}
