package schedule

import (
	"context"

	"github.com/google/uuid"

	"github.com/mutugading/marketplace-backend/internal/domain/provider"
	"github.com/mutugading/marketplace-backend/internal/domain/schedule"
)

// ListQuery represents the list schedules query.
type ListQuery struct {
	ProviderID string
}

// ListHandler handles the ListSchedules query. It does not need an actor.
type ListHandler struct {
	repo      schedule.Repository
	providers provider.Repository
}

// NewListHandler creates a new ListHandler.
func NewListHandler(repo schedule.Repository, providers provider.Repository) *ListHandler {
	return &ListHandler{repo: repo, providers: providers}
}

// Handle returns every schedule row of the provider.
func (h *ListHandler) Handle(ctx context.Context, query ListQuery) ([]*schedule.Schedule, error) {
	id, err := uuid.Parse(query.ProviderID)
	if err != nil {
		return nil, provider.ErrNotFound
	}

	if _, err := h.providers.GetByID(ctx, id); err != nil {
		return nil, err
	}

	return h.repo.ListByProviderID(ctx, id)
}
