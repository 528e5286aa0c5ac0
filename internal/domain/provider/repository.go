package provider

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for provider persistence.
// This interface is defined in domain layer, implemented in infrastructure layer.
type Repository interface {
	// Create persists a new provider. Returns ErrAlreadyExists when the user
	// already owns one.
	Create(ctx context.Context, p *Provider) error

	// GetByID retrieves a provider by its ID.
	GetByID(ctx context.Context, id uuid.UUID) (*Provider, error)

	// GetByUserID retrieves the provider owned by a user.
	GetByUserID(ctx context.Context, userID uuid.UUID) (*Provider, error)

	// ExistsByUserID checks if the user already owns a provider.
	ExistsByUserID(ctx context.Context, userID uuid.UUID) (bool, error)

	// Update persists changes to an existing provider.
	Update(ctx context.Context, p *Provider) error

	// MarkVerified persists the verification flip of p together with a
	// pending role grant in one atomic write.
	MarkVerified(ctx context.Context, p *Provider, grant *RoleGrant) error

	// ListPending retrieves unverified providers.
	ListPending(ctx context.Context, filter ListFilter) ([]*Provider, int64, error)
}

// GrantRepository persists role grants recorded by verification.
type GrantRepository interface {
	// ListPendingGrants returns up to limit grants that are neither completed
	// nor abandoned, oldest first.
	ListPendingGrants(ctx context.Context, limit int) ([]*RoleGrant, error)

	// SaveGrant persists the attempt counters, completion and abandonment of
	// a grant. A grant already completed in storage is left untouched.
	SaveGrant(ctx context.Context, g *RoleGrant) error
}

// Summary is the public projection of a provider used by favorites listings.
type Summary struct {
	ProviderID  uuid.UUID
	DisplayName string
	ServiceName string
}

// SummaryReader reads provider summaries in bulk.
type SummaryReader interface {
	// ListSummaries returns the summaries of the given providers. Unknown ids are skipped.
	ListSummaries(ctx context.Context, ids []uuid.UUID) ([]*Summary, error)
}

// ListFilter contains pagination options for listing providers.
type ListFilter struct {
	Page     int
	PageSize int
}

// Validate normalizes the filter values.
func (f *ListFilter) Validate() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = 20
	}
	if f.PageSize > 100 {
		f.PageSize = 100
	}
}

// Offset returns the offset for pagination.
func (f *ListFilter) Offset() int {
	return (f.Page - 1) * f.PageSize
}
