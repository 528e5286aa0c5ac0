package provider

import (
	"context"

	"github.com/google/uuid"

	"github.com/mutugading/marketplace-backend/internal/domain/actor"
	"github.com/mutugading/marketplace-backend/internal/domain/provider"
)

// GetQuery represents the get provider query.
type GetQuery struct {
	ProviderID string
}

// GetHandler handles the GetProvider and GetMyProvider queries.
type GetHandler struct {
	repo provider.Repository
}

// NewGetHandler creates a new GetHandler.
func NewGetHandler(repo provider.Repository) *GetHandler {
	return &GetHandler{repo: repo}
}

// Handle returns a provider by id.
func (h *GetHandler) Handle(ctx context.Context, query GetQuery) (*provider.Provider, error) {
	id, err := uuid.Parse(query.ProviderID)
	if err != nil {
		return nil, provider.ErrNotFound
	}
	return h.repo.GetByID(ctx, id)
}

// HandleMine returns the provider owned by the actor.
func (h *GetHandler) HandleMine(ctx context.Context, act *actor.Actor) (*provider.Provider, error) {
	if err := actor.Require(act); err != nil {
		return nil, err
	}
	return h.repo.GetByUserID(ctx, act.ID)
}
