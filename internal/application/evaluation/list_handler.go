package evaluation

import (
	"context"

	"github.com/google/uuid"

	"github.com/mutugading/marketplace-backend/internal/domain/evaluation"
	"github.com/mutugading/marketplace-backend/internal/domain/provider"
)

// ListQuery represents the list evaluations of a provider query.
type ListQuery struct {
	ProviderID string
}

// ListResult represents the evaluations of a provider and their mean note.
type ListResult struct {
	Evaluations []*evaluation.Evaluation
	Average     float64
	Count       int
}

// ListHandler handles the ListProviderEvaluations query.
type ListHandler struct {
	repo      evaluation.Repository
	providers provider.Repository
}

// NewListHandler creates a new ListHandler.
func NewListHandler(repo evaluation.Repository, providers provider.Repository) *ListHandler {
	return &ListHandler{repo: repo, providers: providers}
}

// Handle executes the list evaluations query.
func (h *ListHandler) Handle(ctx context.Context, query ListQuery) (*ListResult, error) {
	id, err := uuid.Parse(query.ProviderID)
	if err != nil {
		return nil, provider.ErrNotFound
	}

	if _, err := h.providers.GetByID(ctx, id); err != nil {
		return nil, err
	}

	evals, err := h.repo.ListByProviderID(ctx, id)
	if err != nil {
		return nil, err
	}

	return &ListResult{
		Evaluations: evals,
		Average:     evaluation.Average(evals),
		Count:       len(evals),
	}, nil
}
