package provider

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mutugading/marketplace-backend/internal/application/validation"
	"github.com/mutugading/marketplace-backend/internal/domain/actor"
	"github.com/mutugading/marketplace-backend/internal/domain/provider"
)

// SummaryCache drops cached provider summaries after a profile change.
type SummaryCache interface {
	Invalidate(ctx context.Context, providerID uuid.UUID) error
}

// UpdateCommand represents the update provider command.
type UpdateCommand struct {
	ProviderID string `json:"-"`
	ProfileInput
}

// UpdateHandler handles the UpdateProvider command.
type UpdateHandler struct {
	repo      provider.Repository
	validator *validation.Validator
	cache     SummaryCache
}

// NewUpdateHandler creates a new UpdateHandler. cache may be nil.
func NewUpdateHandler(repo provider.Repository, validator *validation.Validator, cache SummaryCache) *UpdateHandler {
	return &UpdateHandler{repo: repo, validator: validator, cache: cache}
}

// Handle overwrites the profile of a verified provider owned by the actor and
// returns its id. Providers owned by someone else are reported as not found.
// An unverified provider is rejected before its fields are validated.
func (h *UpdateHandler) Handle(ctx context.Context, act *actor.Actor, cmd UpdateCommand) (uuid.UUID, error) {
	// 1. Resolve actor
	if err := actor.Require(act); err != nil {
		return uuid.Nil, err
	}

	// 2. Load provider owned by the actor
	id, err := uuid.Parse(cmd.ProviderID)
	if err != nil {
		return uuid.Nil, provider.ErrNotFound
	}
	entity, err := h.repo.GetByID(ctx, id)
	if err != nil {
		return uuid.Nil, err
	}
	if !entity.IsOwnedBy(act.ID) {
		return uuid.Nil, provider.ErrNotFound
	}

	// 3. Only verified providers may edit their profile
	if !entity.IsVerified() {
		return uuid.Nil, provider.ErrNotVerified
	}

	// 4. Validate fields
	if err := h.validator.Validate(ctx, cmd); err != nil {
		return uuid.Nil, err
	}

	// 5. Update domain entity
	if err := entity.UpdateProfile(cmd.toProfile()); err != nil {
		return uuid.Nil, err
	}

	// 6. Persist
	if err := h.repo.Update(ctx, entity); err != nil {
		return uuid.Nil, err
	}

	if h.cache != nil {
		if err := h.cache.Invalidate(ctx, entity.ID()); err != nil {
			log.Warn().Err(err).Str("provider_id", entity.ID().String()).Msg("Failed to invalidate provider summary cache")
		}
	}

	return entity.ID(), nil
}
