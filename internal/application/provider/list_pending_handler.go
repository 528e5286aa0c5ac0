package provider

import (
	"context"

	"github.com/mutugading/marketplace-backend/internal/domain/provider"
	"github.com/mutugading/marketplace-backend/pkg/safeconv"
)

// ListPendingQuery represents the list pending providers query.
type ListPendingQuery struct {
	Page     int
	PageSize int
}

// ListPendingResult represents a page of unverified providers.
type ListPendingResult struct {
	Providers   []*provider.Provider
	TotalItems  int64
	TotalPages  int32
	CurrentPage int32
	PageSize    int32
}

// ListPendingHandler handles the ListPendingProviders query.
type ListPendingHandler struct {
	repo provider.Repository
}

// NewListPendingHandler creates a new ListPendingHandler.
func NewListPendingHandler(repo provider.Repository) *ListPendingHandler {
	return &ListPendingHandler{repo: repo}
}

// Handle executes the list pending providers query.
func (h *ListPendingHandler) Handle(ctx context.Context, query ListPendingQuery) (*ListPendingResult, error) {
	filter := provider.ListFilter{Page: query.Page, PageSize: query.PageSize}
	filter.Validate()

	providers, total, err := h.repo.ListPending(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &ListPendingResult{
		Providers:   providers,
		TotalItems:  total,
		TotalPages:  safeconv.TotalPages(total, filter.PageSize),
		CurrentPage: safeconv.ToInt32(filter.Page),
		PageSize:    safeconv.ToInt32(filter.PageSize),
	}, nil
}
