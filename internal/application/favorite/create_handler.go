// Package favorite provides application layer handlers for favorite operations.
package favorite

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/mutugading/marketplace-backend/internal/application/validation"
	"github.com/mutugading/marketplace-backend/internal/domain/actor"
	"github.com/mutugading/marketplace-backend/internal/domain/favorite"
	"github.com/mutugading/marketplace-backend/internal/domain/provider"
)

// CreateCommand represents the create favorite command.
type CreateCommand struct {
	ProviderID string `json:"provider_id" validate:"required,uuid"`
}

// CreateHandler handles the CreateFavorite command.
type CreateHandler struct {
	repo      favorite.Repository
	providers provider.Repository
	validator *validation.Validator
}

// NewCreateHandler creates a new CreateHandler.
func NewCreateHandler(repo favorite.Repository, providers provider.Repository, validator *validation.Validator) *CreateHandler {
	return &CreateHandler{repo: repo, providers: providers, validator: validator}
}

// Handle executes the create favorite command.
func (h *CreateHandler) Handle(ctx context.Context, act *actor.Actor, cmd CreateCommand) (*favorite.Favorite, error) {
	// 1. Validate fields
	if err := h.validator.Validate(ctx, cmd); err != nil {
		return nil, err
	}

	// 2. Resolve actor
	if err := actor.Require(act); err != nil {
		return nil, err
	}

	// 3. Load provider
	providerID, err := uuid.Parse(cmd.ProviderID)
	if err != nil {
		return nil, provider.ErrNotFound
	}
	p, err := h.providers.GetByID(ctx, providerID)
	if err != nil {
		return nil, err
	}

	// 4. Check uniqueness of the pair
	exists, err := h.repo.ExistsByUserAndProvider(ctx, act.ID, p.ID())
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, favorite.ErrAlreadyExists
	}

	// 5. Persist
	entity := favorite.NewFavorite(act.ID, p.ID())
	if err := h.repo.Create(ctx, entity); err != nil {
		if errors.Is(err, favorite.ErrAlreadyExists) {
			return nil, favorite.ErrAlreadyExists
		}
		return nil, err
	}

	return entity, nil
}
