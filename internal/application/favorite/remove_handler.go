package favorite

import (
	"context"

	"github.com/google/uuid"

	"github.com/mutugading/marketplace-backend/internal/domain/actor"
	"github.com/mutugading/marketplace-backend/internal/domain/favorite"
	"github.com/mutugading/marketplace-backend/internal/domain/provider"
)

// RemoveCommand represents the remove favorite command.
type RemoveCommand struct {
	ProviderID string
}

// RemoveHandler handles the RemoveFavorite command.
type RemoveHandler struct {
	repo      favorite.Repository
	providers provider.Repository
}

// NewRemoveHandler creates a new RemoveHandler.
func NewRemoveHandler(repo favorite.Repository, providers provider.Repository) *RemoveHandler {
	return &RemoveHandler{repo: repo, providers: providers}
}

// Handle executes the remove favorite command.
func (h *RemoveHandler) Handle(ctx context.Context, act *actor.Actor, cmd RemoveCommand) error {
	// 1. Resolve actor
	if err := actor.Require(act); err != nil {
		return err
	}

	// 2. Load provider
	providerID, err := uuid.Parse(cmd.ProviderID)
	if err != nil {
		return provider.ErrNotFound
	}
	p, err := h.providers.GetByID(ctx, providerID)
	if err != nil {
		return err
	}

	// 3. Load the favorite row of the pair
	entity, err := h.repo.GetByUserAndProvider(ctx, act.ID, p.ID())
	if err != nil {
		return err
	}

	// 4. Delete
	return h.repo.Delete(ctx, entity)
}
