package favorite

import (
	"context"

	"github.com/google/uuid"

	"github.com/mutugading/marketplace-backend/internal/domain/actor"
	"github.com/mutugading/marketplace-backend/internal/domain/favorite"
	"github.com/mutugading/marketplace-backend/internal/domain/provider"
)

// Item is a favorite projected into a provider summary.
type Item struct {
	ProviderID  uuid.UUID
	DisplayName string
	ServiceName string
}

// ListHandler handles the ListFavorites query.
type ListHandler struct {
	repo      favorite.Repository
	summaries provider.SummaryReader
}

// NewListHandler creates a new ListHandler.
func NewListHandler(repo favorite.Repository, summaries provider.SummaryReader) *ListHandler {
	return &ListHandler{repo: repo, summaries: summaries}
}

// Handle returns the favorites of the actor. A user without favorites gets
// favorite.ErrNoFavorites instead of an empty list, including when none of the
// favorited providers has a summary left.
func (h *ListHandler) Handle(ctx context.Context, act *actor.Actor) ([]Item, error) {
	// 1. Resolve actor
	if err := actor.Require(act); err != nil {
		return nil, err
	}

	// 2. Fetch favorites
	favorites, err := h.repo.ListByUserID(ctx, act.ID)
	if err != nil {
		return nil, err
	}
	if len(favorites) == 0 {
		return nil, favorite.ErrNoFavorites
	}

	// 3. Project into provider summaries, keeping favorite order
	ids := make([]uuid.UUID, 0, len(favorites))
	for _, f := range favorites {
		ids = append(ids, f.ProviderID())
	}
	summaries, err := h.summaries.ListSummaries(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*provider.Summary, len(summaries))
	for _, s := range summaries {
		byID[s.ProviderID] = s
	}

	items := make([]Item, 0, len(favorites))
	for _, f := range favorites {
		s, ok := byID[f.ProviderID()]
		if !ok {
			continue
		}
		items = append(items, Item{
			ProviderID:  s.ProviderID,
			DisplayName: s.DisplayName,
			ServiceName: s.ServiceName,
		})
	}
	if len(items) == 0 {
		return nil, favorite.ErrNoFavorites
	}

	return items, nil
}
