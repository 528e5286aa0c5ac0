package memory

import (
	"context"
	"errors"
	"slices"

	"github.com/google/uuid"

	"github.com/mutugading/marketplace-backend/internal/domain/provider"
)

// ProviderRepository implements provider.Repository, provider.GrantRepository
// and provider.SummaryReader.
type ProviderRepository struct {
	s *Store
}

// Verify interface implementation at compile time.
var (
	_ provider.Repository      = (*ProviderRepository)(nil)
	_ provider.GrantRepository = (*ProviderRepository)(nil)
	_ provider.SummaryReader   = (*ProviderRepository)(nil)
)

// Create stores a new provider, one per user.
func (r *ProviderRepository) Create(ctx context.Context, p *provider.Provider) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.providers {
		if existing.UserID() == p.UserID() {
			return provider.ErrAlreadyExists
		}
	}
	r.s.providers[p.ID()] = *p
	return nil
}

// GetByID returns a copy of the provider.
func (r *ProviderRepository) GetByID(ctx context.Context, id uuid.UUID) (*provider.Provider, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.providers[id]
	if !ok {
		return nil, provider.ErrNotFound
	}
	return &p, nil
}

// GetByUserID returns the provider owned by userID.
func (r *ProviderRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*provider.Provider, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, p := range r.s.providers {
		if p.UserID() == userID {
			return &p, nil
		}
	}
	return nil, provider.ErrNotFound
}

// ExistsByUserID reports whether userID owns a provider.
func (r *ProviderRepository) ExistsByUserID(ctx context.Context, userID uuid.UUID) (bool, error) {
	_, err := r.GetByUserID(ctx, userID)
	if errors.Is(err, provider.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// Update replaces the stored provider.
func (r *ProviderRepository) Update(ctx context.Context, p *provider.Provider) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.providers[p.ID()]; !ok {
		return provider.ErrNotFound
	}
	r.s.providers[p.ID()] = *p
	return nil
}

// MarkVerified stores the verified provider and its pending grant under one lock.
func (r *ProviderRepository) MarkVerified(ctx context.Context, p *provider.Provider, grant *provider.RoleGrant) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.providers[p.ID()]; !ok {
		return provider.ErrNotFound
	}
	r.s.providers[p.ID()] = *p
	r.s.grants[grant.ID()] = *grant
	return nil
}

// ListPending returns unverified providers, oldest first.
func (r *ProviderRepository) ListPending(ctx context.Context, filter provider.ListFilter) ([]*provider.Provider, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	filter.Validate()

	r.s.mu.RLock()
	pending := make([]*provider.Provider, 0)
	for _, p := range r.s.providers {
		if !p.IsVerified() {
			cp := p
			pending = append(pending, &cp)
		}
	}
	r.s.mu.RUnlock()

	slices.SortFunc(pending, func(a, b *provider.Provider) int {
		return a.CreatedAt().Compare(b.CreatedAt())
	})

	total := int64(len(pending))
	start := min(filter.Offset(), len(pending))
	end := min(start+filter.PageSize, len(pending))
	return pending[start:end], total, nil
}

// ListPendingGrants returns up to limit pending grants, oldest first.
func (r *ProviderRepository) ListPendingGrants(ctx context.Context, limit int) ([]*provider.RoleGrant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	grants := make([]*provider.RoleGrant, 0)
	for _, g := range r.s.grants {
		if g.IsPending() {
			cp := g
			grants = append(grants, &cp)
		}
	}
	r.s.mu.RUnlock()

	slices.SortFunc(grants, func(a, b *provider.RoleGrant) int {
		return a.CreatedAt().Compare(b.CreatedAt())
	})
	if limit > 0 && len(grants) > limit {
		grants = grants[:limit]
	}
	return grants, nil
}

// SaveGrant stores the grant state unless the stored grant already completed.
func (r *ProviderRepository) SaveGrant(ctx context.Context, g *provider.RoleGrant) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.grants[g.ID()]
	if !ok {
		return provider.ErrGrantNotFound
	}
	if stored.CompletedAt() != nil {
		return nil
	}
	r.s.grants[g.ID()] = *g
	return nil
}

// ListSummaries projects providers with their owner's name.
func (r *ProviderRepository) ListSummaries(ctx context.Context, ids []uuid.UUID) ([]*provider.Summary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	summaries := make([]*provider.Summary, 0, len(ids))
	for _, id := range ids {
		p, ok := r.s.providers[id]
		if !ok {
			continue
		}
		var displayName string
		if rec, ok := r.s.users[p.UserID()]; ok {
			displayName = rec.user.Name()
		}
		summaries = append(summaries, &provider.Summary{
			ProviderID:  p.ID(),
			DisplayName: displayName,
			ServiceName: p.ServiceName(),
		})
	}
	return summaries, nil
}
