package schedule

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for schedule persistence.
type Repository interface {
	// Create persists a new schedule row.
	Create(ctx context.Context, s *Schedule) error

	// ListByProviderID returns every schedule row of a provider in storage order.
	ListByProviderID(ctx context.Context, providerID uuid.UUID) ([]*Schedule, error)
}
