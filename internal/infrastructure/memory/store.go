// Package memory provides in-process implementations of every repository
// port. A single Store backs all views so uniqueness rules that span
// aggregates hold under one lock.
package memory

import (
	"sync"

	"github.com/google/uuid"

	"github.com/mutugading/marketplace-backend/internal/domain/evaluation"
	"github.com/mutugading/marketplace-backend/internal/domain/favorite"
	"github.com/mutugading/marketplace-backend/internal/domain/provider"
	"github.com/mutugading/marketplace-backend/internal/domain/schedule"
	"github.com/mutugading/marketplace-backend/internal/domain/user"
)

type userRecord struct {
	user       user.User
	secretHash string
	roles      []string
}

// Store holds all aggregates in memory.
type Store struct {
	mu sync.RWMutex

	users       map[uuid.UUID]*userRecord
	roles       map[string]struct{}
	providers   map[uuid.UUID]provider.Provider
	grants      map[uuid.UUID]provider.RoleGrant
	schedules   []schedule.Schedule
	favorites   map[uuid.UUID]favorite.Favorite
	evaluations []evaluation.Evaluation
}

// NewStore creates an empty store with the marketplace roles registered.
func NewStore() *Store {
	return &Store{
		users:     make(map[uuid.UUID]*userRecord),
		roles:     map[string]struct{}{user.RoleAdmin: {}, user.RoleCustomer: {}, user.RoleProvider: {}},
		providers: make(map[uuid.UUID]provider.Provider),
		grants:    make(map[uuid.UUID]provider.RoleGrant),
		favorites: make(map[uuid.UUID]favorite.Favorite),
	}
}

// Providers returns the provider.Repository view.
func (s *Store) Providers() *ProviderRepository { return &ProviderRepository{s: s} }

// Schedules returns the schedule.Repository view.
func (s *Store) Schedules() *ScheduleRepository { return &ScheduleRepository{s: s} }

// Favorites returns the favorite.Repository view.
func (s *Store) Favorites() *FavoriteRepository { return &FavoriteRepository{s: s} }

// Evaluations returns the evaluation.Repository view.
func (s *Store) Evaluations() *EvaluationRepository { return &EvaluationRepository{s: s} }
