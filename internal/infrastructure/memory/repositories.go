package memory

import (
	"context"
	"errors"
	"slices"

	"github.com/google/uuid"

	"github.com/mutugading/marketplace-backend/internal/domain/evaluation"
	"github.com/mutugading/marketplace-backend/internal/domain/favorite"
	"github.com/mutugading/marketplace-backend/internal/domain/schedule"
)

// =============================================================================
// Schedules
// =============================================================================

// ScheduleRepository implements schedule.Repository.
type ScheduleRepository struct {
	s *Store
}

var _ schedule.Repository = (*ScheduleRepository)(nil)

// Create appends a schedule row.
func (r *ScheduleRepository) Create(ctx context.Context, sc *schedule.Schedule) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.schedules = append(r.s.schedules, *sc)
	return nil
}

// ListByProviderID returns the rows of a provider in insertion order.
func (r *ScheduleRepository) ListByProviderID(ctx context.Context, providerID uuid.UUID) ([]*schedule.Schedule, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rows := make([]*schedule.Schedule, 0)
	for _, sc := range r.s.schedules {
		if sc.ProviderID() == providerID {
			cp := sc
			rows = append(rows, &cp)
		}
	}
	return rows, nil
}

// =============================================================================
// Favorites
// =============================================================================

// FavoriteRepository implements favorite.Repository.
type FavoriteRepository struct {
	s *Store
}

var _ favorite.Repository = (*FavoriteRepository)(nil)

// Create stores a favorite, rejecting a duplicate pair.
func (r *FavoriteRepository) Create(ctx context.Context, f *favorite.Favorite) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.favorites {
		if existing.UserID() == f.UserID() && existing.ProviderID() == f.ProviderID() {
			return favorite.ErrAlreadyExists
		}
	}
	r.s.favorites[f.ID()] = *f
	return nil
}

// GetByUserAndProvider returns the favorite of the pair.
func (r *FavoriteRepository) GetByUserAndProvider(ctx context.Context, userID, providerID uuid.UUID) (*favorite.Favorite, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, f := range r.s.favorites {
		if f.UserID() == userID && f.ProviderID() == providerID {
			return &f, nil
		}
	}
	return nil, favorite.ErrNotFound
}

// ExistsByUserAndProvider reports whether the pair is stored.
func (r *FavoriteRepository) ExistsByUserAndProvider(ctx context.Context, userID, providerID uuid.UUID) (bool, error) {
	_, err := r.GetByUserAndProvider(ctx, userID, providerID)
	if errors.Is(err, favorite.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// ListByUserID returns the favorites of a user, oldest first.
func (r *FavoriteRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*favorite.Favorite, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	rows := make([]*favorite.Favorite, 0)
	for _, f := range r.s.favorites {
		if f.UserID() == userID {
			cp := f
			rows = append(rows, &cp)
		}
	}
	r.s.mu.RUnlock()

	slices.SortFunc(rows, func(a, b *favorite.Favorite) int {
		return a.CreatedAt().Compare(b.CreatedAt())
	})
	return rows, nil
}

// Delete removes a favorite.
func (r *FavoriteRepository) Delete(ctx context.Context, f *favorite.Favorite) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.favorites[f.ID()]; !ok {
		return favorite.ErrNotFound
	}
	delete(r.s.favorites, f.ID())
	return nil
}

// =============================================================================
// Evaluations
// =============================================================================

// EvaluationRepository implements evaluation.Repository.
type EvaluationRepository struct {
	s *Store
}

var _ evaluation.Repository = (*EvaluationRepository)(nil)

// Create appends an evaluation, rejecting a duplicate pair.
func (r *EvaluationRepository) Create(ctx context.Context, e *evaluation.Evaluation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.evaluations {
		if existing.UserID() == e.UserID() && existing.ProviderID() == e.ProviderID() {
			return evaluation.ErrAlreadyExists
		}
	}
	r.s.evaluations = append(r.s.evaluations, *e)
	return nil
}

// ExistsByUserAndProvider reports whether the user evaluated the provider.
func (r *EvaluationRepository) ExistsByUserAndProvider(ctx context.Context, userID, providerID uuid.UUID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return slices.ContainsFunc(r.s.evaluations, func(e evaluation.Evaluation) bool {
		return e.UserID() == userID && e.ProviderID() == providerID
	}), nil
}

// ListByProviderID returns the evaluations of a provider, newest first.
func (r *EvaluationRepository) ListByProviderID(ctx context.Context, providerID uuid.UUID) ([]*evaluation.Evaluation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rows := make([]*evaluation.Evaluation, 0)
	for i := len(r.s.evaluations) - 1; i >= 0; i-- {
		if r.s.evaluations[i].ProviderID() == providerID {
			cp := r.s.evaluations[i]
			rows = append(rows, &cp)
		}
	}
	return rows, nil
}
