// Package favorite provides domain logic for customer bookmarks of providers.
package favorite

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mutugading/marketplace-backend/internal/domain/shared"
)

// Domain errors for favorite operations.
var (
	// ErrNotFound is returned when the user has not favorited the provider.
	ErrNotFound = shared.NewDomainError("FAVORITE_NOT_FOUND", "favorite not found", shared.ErrNotFound, nil)

	// ErrAlreadyExists is returned when the pair (user, provider) is already a favorite.
	ErrAlreadyExists = shared.NewDomainError("FAVORITE_ALREADY_EXISTS", "provider is already in favorites", shared.ErrConflict, nil)

	// ErrNoFavorites is returned when listing favorites of a user that has none.
	ErrNoFavorites = shared.NewDomainError("NO_FAVORITES", "no favorites found", shared.ErrNotFound, nil)
)

// Favorite is a user's bookmark of a provider. Favoriting one's own provider is allowed.
type Favorite struct {
	id         uuid.UUID
	userID     uuid.UUID
	providerID uuid.UUID
	createdAt  time.Time
}

// NewFavorite creates a new favorite for the pair.
func NewFavorite(userID, providerID uuid.UUID) *Favorite {
	return &Favorite{
		id:         uuid.New(),
		userID:     userID,
		providerID: providerID,
		createdAt:  time.Now().UTC(),
	}
}

// ReconstructFavorite reconstructs a Favorite from persistence data.
func ReconstructFavorite(id, userID, providerID uuid.UUID, createdAt time.Time) *Favorite {
	return &Favorite{id: id, userID: userID, providerID: providerID, createdAt: createdAt}
}

// ID returns the favorite ID.
func (f *Favorite) ID() uuid.UUID { return f.id }

// UserID returns the owner of the bookmark.
func (f *Favorite) UserID() uuid.UUID { return f.userID }

// ProviderID returns the bookmarked provider.
func (f *Favorite) ProviderID() uuid.UUID { return f.providerID }

// CreatedAt returns the creation timestamp.
func (f *Favorite) CreatedAt() time.Time { return f.createdAt }

// Repository defines the interface for favorite persistence.
type Repository interface {
	// Create persists a favorite. Returns ErrAlreadyExists when the pair exists.
	Create(ctx context.Context, f *Favorite) error

	// GetByUserAndProvider retrieves the favorite of the pair.
	GetByUserAndProvider(ctx context.Context, userID, providerID uuid.UUID) (*Favorite, error)

	// ExistsByUserAndProvider checks whether the pair is a favorite.
	ExistsByUserAndProvider(ctx context.Context, userID, providerID uuid.UUID) (bool, error)

	// ListByUserID returns every favorite of a user, oldest first.
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*Favorite, error)

	// Delete removes a favorite.
	Delete(ctx context.Context, f *Favorite) error
}
