package provider

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mutugading/marketplace-backend/internal/domain/actor"
	"github.com/mutugading/marketplace-backend/internal/domain/event"
	"github.com/mutugading/marketplace-backend/internal/domain/provider"
)

// DeactivateCommand represents the deactivate provider command.
type DeactivateCommand struct {
	ProviderID string
}

// DeactivateHandler handles the DeactivateProvider command.
type DeactivateHandler struct {
	repo      provider.Repository
	publisher event.Publisher
}

// NewDeactivateHandler creates a new DeactivateHandler.
func NewDeactivateHandler(repo provider.Repository, publisher event.Publisher) *DeactivateHandler {
	if publisher == nil {
		publisher = event.NopPublisher{}
	}
	return &DeactivateHandler{repo: repo, publisher: publisher}
}

// Handle deactivates a provider owned by the actor.
func (h *DeactivateHandler) Handle(ctx context.Context, act *actor.Actor, cmd DeactivateCommand) error {
	// 1. Resolve actor
	if err := actor.Require(act); err != nil {
		return err
	}

	// 2. Load provider
	id, err := uuid.Parse(cmd.ProviderID)
	if err != nil {
		return provider.ErrNotFound
	}
	entity, err := h.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	// 3. Only the owner may deactivate
	if !entity.IsOwnedBy(act.ID) {
		return provider.ErrNotOwner
	}

	// 4. Update domain entity
	if err := entity.Deactivate(); err != nil {
		return err
	}

	// 5. Persist
	if err := h.repo.Update(ctx, entity); err != nil {
		return err
	}

	evt := event.New(event.ProviderDeactivated, entity.ID(), map[string]string{"user_id": act.ID.String()})
	if err := h.publisher.Publish(ctx, evt); err != nil {
		log.Warn().Err(err).Str("provider_id", entity.ID().String()).Msg("Failed to publish provider event")
	}

	return nil
}
