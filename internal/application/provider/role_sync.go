package provider

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/mutugading/marketplace-backend/internal/domain/event"
	"github.com/mutugading/marketplace-backend/internal/domain/provider"
	"github.com/mutugading/marketplace-backend/internal/domain/shared"
	"github.com/mutugading/marketplace-backend/internal/domain/user"
)

// DefaultMaxGrantAttempts is the number of failed attempts after which a
// grant is abandoned.
const DefaultMaxGrantAttempts = 10

// RoleSync applies recorded role grants to the identity subsystem: the owner
// ends up holding exactly the granted role.
type RoleSync struct {
	users       user.Finder
	roles       user.RoleAssigner
	grants      provider.GrantRepository
	publisher   event.Publisher
	maxAttempts int
}

// NewRoleSync creates a new RoleSync.
func NewRoleSync(users user.Finder, roles user.RoleAssigner, grants provider.GrantRepository, publisher event.Publisher) *RoleSync {
	if publisher == nil {
		publisher = event.NopPublisher{}
	}
	return &RoleSync{
		users:       users,
		roles:       roles,
		grants:      grants,
		publisher:   publisher,
		maxAttempts: DefaultMaxGrantAttempts,
	}
}

// SetMaxAttempts sets how many failed attempts a grant gets before it is
// abandoned. Non-positive values keep the default.
func (s *RoleSync) SetMaxAttempts(n int) {
	if n > 0 {
		s.maxAttempts = n
	}
}

// Apply replaces the roles of the grant's user with the granted role and
// records the outcome on the grant. The returned error is the identity
// failure, if any.
func (s *RoleSync) Apply(ctx context.Context, g *provider.RoleGrant) error {
	if err := s.replaceRoles(ctx, g); err != nil {
		g.Fail(err)
		// A missing owner never comes back
		if errors.Is(err, user.ErrNotFound) || g.Attempts() >= s.maxAttempts {
			g.Abandon()
			log.Error().
				Err(err).
				Str("grant_id", g.ID().String()).
				Str("user_id", g.UserID().String()).
				Int("attempts", g.Attempts()).
				Msg("Role grant abandoned")
		}
		s.save(ctx, g)
		return err
	}

	g.Complete()
	s.save(ctx, g)

	evt := event.New(event.ProviderVerified, g.ProviderID(), map[string]string{
		"user_id": g.UserID().String(),
		"role":    g.Role(),
	})
	if err := s.publisher.Publish(ctx, evt); err != nil {
		log.Warn().Err(err).Str("provider_id", g.ProviderID().String()).Msg("Failed to publish provider event")
	}
	return nil
}

func (s *RoleSync) replaceRoles(ctx context.Context, g *provider.RoleGrant) error {
	// Owning user
	u, err := s.users.FindByID(ctx, g.UserID())
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.ErrNotFound
		}
		return shared.OperationFailed("USER_LOOKUP_FAILED", "failed to load provider owner", err)
	}

	// Current roles
	current, err := s.roles.GetRoles(ctx, u)
	if err != nil {
		return shared.OperationFailed("ROLE_READ_FAILED", "failed to read user roles", err)
	}

	// Drop every current role
	if len(current) > 0 {
		if err := s.roles.RemoveFromRoles(ctx, u, current); err != nil {
			return shared.OperationFailed("ROLE_REMOVE_FAILED", "failed to remove user roles", err)
		}
	}

	// Grant exactly the recorded role
	if err := s.roles.AddToRole(ctx, u, g.Role()); err != nil {
		return shared.OperationFailed("ROLE_ADD_FAILED", "failed to add user to role "+g.Role(), err)
	}

	return nil
}

// save persists the grant state. A failed save leaves the grant pending, so
// the reconciler applies it again.
func (s *RoleSync) save(ctx context.Context, g *provider.RoleGrant) {
	if err := s.grants.SaveGrant(ctx, g); err != nil {
		log.Warn().Err(err).Str("grant_id", g.ID().String()).Msg("Failed to save role grant")
	}
}
