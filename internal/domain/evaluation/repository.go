package evaluation

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for evaluation persistence. Evaluations
// are never updated or deleted.
type Repository interface {
	// Create persists an evaluation. Returns ErrAlreadyExists when the pair exists.
	Create(ctx context.Context, e *Evaluation) error

	// ExistsByUserAndProvider checks whether the user already evaluated the provider.
	ExistsByUserAndProvider(ctx context.Context, userID, providerID uuid.UUID) (bool, error)

	// ListByProviderID returns every evaluation of a provider, newest first.
	ListByProviderID(ctx context.Context, providerID uuid.UUID) ([]*Evaluation, error)
}
