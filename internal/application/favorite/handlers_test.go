package favorite_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mutugading/marketplace-backend/internal/application/favorite"
	"github.com/mutugading/marketplace-backend/internal/application/validation"
	"github.com/mutugading/marketplace-backend/internal/domain/actor"
	favdomain "github.com/mutugading/marketplace-backend/internal/domain/favorite"
	"github.com/mutugading/marketplace-backend/internal/domain/provider"
	"github.com/mutugading/marketplace-backend/internal/domain/shared"
	"github.com/mutugading/marketplace-backend/internal/domain/user"
	"github.com/mutugading/marketplace-backend/internal/infrastructure/memory"
)

// MockFavoriteRepository is a mock implementation of favorite.Repository.
type MockFavoriteRepository struct {
	mock.Mock
}

func (m *MockFavoriteRepository) Create(ctx context.Context, f *favdomain.Favorite) error {
	return m.Called(ctx, f).Error(0)
}

func (m *MockFavoriteRepository) GetByUserAndProvider(ctx context.Context, userID, providerID uuid.UUID) (*favdomain.Favorite, error) {
	args := m.Called(ctx, userID, providerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*favdomain.Favorite), args.Error(1)
}

func (m *MockFavoriteRepository) ExistsByUserAndProvider(ctx context.Context, userID, providerID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, providerID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFavoriteRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*favdomain.Favorite, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*favdomain.Favorite), args.Error(1)
}

func (m *MockFavoriteRepository) Delete(ctx context.Context, f *favdomain.Favorite) error {
	return m.Called(ctx, f).Error(0)
}

type fixture struct {
	store     *memory.Store
	validator *validation.Validator
	customer  *actor.Actor
	provider  *provider.Provider
}

func setup(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	owner, err := user.NewUser("carla", "Carla Souza", "carla@example.com", "")
	require.NoError(t, err)
	require.NoError(t, store.Identity(plainHasher{}).CreateUser(ctx, owner, "Secret123"))

	p, err := provider.NewProvider(owner.ID(), provider.Profile{ServiceName: "Faxina"})
	require.NoError(t, err)
	require.NoError(t, store.Providers().Create(ctx, p))

	return &fixture{
		store:     store,
		validator: validation.MustNew(validation.CPFCheckerFunc(func(string) bool { return true }), validation.LocaleEN),
		customer:  &actor.Actor{ID: uuid.New(), Username: "bruno"},
		provider:  p,
	}
}

type plainHasher struct{}

func (plainHasher) Hash(secret string) (string, error) { return secret, nil }

func (plainHasher) Verify(secret, encoded string) (bool, error) { return secret == encoded, nil }

type noSummaries struct{}

func (noSummaries) ListSummaries(context.Context, []uuid.UUID) ([]*provider.Summary, error) {
	return nil, nil
}

func TestCreateRemoveCreate(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	create := favorite.NewCreateHandler(f.store.Favorites(), f.store.Providers(), f.validator)
	remove := favorite.NewRemoveHandler(f.store.Favorites(), f.store.Providers())
	id := f.provider.ID().String()

	_, err := create.Handle(ctx, f.customer, favorite.CreateCommand{ProviderID: id})
	require.NoError(t, err)

	_, err = create.Handle(ctx, f.customer, favorite.CreateCommand{ProviderID: id})
	assert.ErrorIs(t, err, shared.ErrConflict)

	require.NoError(t, remove.Handle(ctx, f.customer, favorite.RemoveCommand{ProviderID: id}))

	_, err = create.Handle(ctx, f.customer, favorite.CreateCommand{ProviderID: id})
	require.NoError(t, err)
}

func TestCreateHandler_Handle(t *testing.T) {
	ctx := context.Background()

	t.Run("success - owners may favorite their own provider", func(t *testing.T) {
		f := setup(t)
		handler := favorite.NewCreateHandler(f.store.Favorites(), f.store.Providers(), f.validator)
		owner := &actor.Actor{ID: f.provider.UserID()}

		fav, err := handler.Handle(ctx, owner, favorite.CreateCommand{ProviderID: f.provider.ID().String()})

		require.NoError(t, err)
		assert.Equal(t, owner.ID, fav.UserID())
	})

	t.Run("error - provider id required", func(t *testing.T) {
		f := setup(t)
		handler := favorite.NewCreateHandler(f.store.Favorites(), f.store.Providers(), f.validator)

		_, err := handler.Handle(ctx, f.customer, favorite.CreateCommand{})

		assert.ErrorIs(t, err, shared.ErrValidationFailed)
	})

	t.Run("error - missing actor", func(t *testing.T) {
		f := setup(t)
		handler := favorite.NewCreateHandler(f.store.Favorites(), f.store.Providers(), f.validator)

		_, err := handler.Handle(ctx, nil, favorite.CreateCommand{ProviderID: f.provider.ID().String()})

		assert.ErrorIs(t, err, shared.ErrUnauthenticated)
	})

	t.Run("error - provider not found", func(t *testing.T) {
		f := setup(t)
		handler := favorite.NewCreateHandler(f.store.Favorites(), f.store.Providers(), f.validator)

		_, err := handler.Handle(ctx, f.customer, favorite.CreateCommand{ProviderID: uuid.NewString()})

		assert.ErrorIs(t, err, provider.ErrNotFound)
	})

	t.Run("error - concurrent writer rejected by the store", func(t *testing.T) {
		f := setup(t)
		repo := new(MockFavoriteRepository)
		handler := favorite.NewCreateHandler(repo, f.store.Providers(), f.validator)

		repo.On("ExistsByUserAndProvider", ctx, f.customer.ID, f.provider.ID()).Return(false, nil)
		repo.On("Create", ctx, mock.AnythingOfType("*favorite.Favorite")).Return(favdomain.ErrAlreadyExists)

		_, err := handler.Handle(ctx, f.customer, favorite.CreateCommand{ProviderID: f.provider.ID().String()})

		assert.ErrorIs(t, err, favdomain.ErrAlreadyExists)
		assert.ErrorIs(t, err, shared.ErrConflict)
		repo.AssertExpectations(t)
	})
}

func TestRemoveHandler_Handle(t *testing.T) {
	ctx := context.Background()

	t.Run("error - favorite not found", func(t *testing.T) {
		f := setup(t)
		handler := favorite.NewRemoveHandler(f.store.Favorites(), f.store.Providers())

		err := handler.Handle(ctx, f.customer, favorite.RemoveCommand{ProviderID: f.provider.ID().String()})

		assert.ErrorIs(t, err, favdomain.ErrNotFound)
	})

	t.Run("error - provider not found", func(t *testing.T) {
		f := setup(t)
		handler := favorite.NewRemoveHandler(f.store.Favorites(), f.store.Providers())

		err := handler.Handle(ctx, f.customer, favorite.RemoveCommand{ProviderID: "not-an-id"})

		assert.ErrorIs(t, err, provider.ErrNotFound)
	})

	t.Run("error - missing actor", func(t *testing.T) {
		f := setup(t)
		handler := favorite.NewRemoveHandler(f.store.Favorites(), f.store.Providers())

		err := handler.Handle(ctx, &actor.Actor{}, favorite.RemoveCommand{ProviderID: f.provider.ID().String()})

		assert.ErrorIs(t, err, shared.ErrUnauthenticated)
	})
}

func TestListHandler_Handle(t *testing.T) {
	ctx := context.Background()

	t.Run("success - projects provider summaries", func(t *testing.T) {
		f := setup(t)
		create := favorite.NewCreateHandler(f.store.Favorites(), f.store.Providers(), f.validator)
		list := favorite.NewListHandler(f.store.Favorites(), f.store.Providers())

		_, err := create.Handle(ctx, f.customer, favorite.CreateCommand{ProviderID: f.provider.ID().String()})
		require.NoError(t, err)

		items, err := list.Handle(ctx, f.customer)

		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, f.provider.ID(), items[0].ProviderID)
		assert.Equal(t, "Carla Souza", items[0].DisplayName)
		assert.Equal(t, "Faxina", items[0].ServiceName)
	})

	t.Run("error - no favorites is reported as not found", func(t *testing.T) {
		f := setup(t)
		list := favorite.NewListHandler(f.store.Favorites(), f.store.Providers())

		items, err := list.Handle(ctx, f.customer)

		assert.Nil(t, items)
		assert.ErrorIs(t, err, favdomain.ErrNoFavorites)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("error - favorites without summaries are reported as not found", func(t *testing.T) {
		f := setup(t)
		create := favorite.NewCreateHandler(f.store.Favorites(), f.store.Providers(), f.validator)
		list := favorite.NewListHandler(f.store.Favorites(), noSummaries{})

		_, err := create.Handle(ctx, f.customer, favorite.CreateCommand{ProviderID: f.provider.ID().String()})
		require.NoError(t, err)

		items, err := list.Handle(ctx, f.customer)

		assert.Nil(t, items)
		assert.ErrorIs(t, err, favdomain.ErrNoFavorites)
	})

	t.Run("error - missing actor", func(t *testing.T) {
		f := setup(t)
		list := favorite.NewListHandler(f.store.Favorites(), f.store.Providers())

		_, err := list.Handle(ctx, nil)

		assert.ErrorIs(t, err, shared.ErrUnauthenticated)
	})
}
