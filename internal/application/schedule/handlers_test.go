package schedule_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mutugading/marketplace-backend/internal/application/schedule"
	"github.com/mutugading/marketplace-backend/internal/application/validation"
	"github.com/mutugading/marketplace-backend/internal/domain/actor"
	"github.com/mutugading/marketplace-backend/internal/domain/provider"
	"github.com/mutugading/marketplace-backend/internal/domain/shared"
	"github.com/mutugading/marketplace-backend/internal/infrastructure/memory"
)

type fixture struct {
	store    *memory.Store
	create   *schedule.CreateHandler
	list     *schedule.ListHandler
	owner    *actor.Actor
	provider *provider.Provider
}

func setup(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	v := validation.MustNew(validation.CPFCheckerFunc(func(string) bool { return true }), validation.LocaleEN)

	owner := &actor.Actor{ID: uuid.New(), Username: "joao"}
	p, err := provider.NewProvider(owner.ID, provider.Profile{ServiceName: "Eletricista"})
	require.NoError(t, err)
	require.NoError(t, store.Providers().Create(context.Background(), p))

	return &fixture{
		store:    store,
		create:   schedule.NewCreateHandler(store.Schedules(), store.Providers(), v),
		list:     schedule.NewListHandler(store.Schedules(), store.Providers()),
		owner:    owner,
		provider: p,
	}
}

func TestCreateHandler_Handle(t *testing.T) {
	ctx := context.Background()

	t.Run("success - defaults to available", func(t *testing.T) {
		f := setup(t)

		s, err := f.create.Handle(ctx, f.owner, schedule.CreateCommand{
			ProviderID: f.provider.ID().String(),
			DayOfWeek:  2,
			StartTime:  "10:00",
			EndTime:    "11:00",
		})

		require.NoError(t, err)
		assert.True(t, s.IsAvailable())
		assert.Equal(t, f.provider.ID(), s.ProviderID())
		assert.Equal(t, "Tuesday", s.DayOfWeek().String())
	})

	t.Run("error - end before start", func(t *testing.T) {
		f := setup(t)

		_, err := f.create.Handle(ctx, f.owner, schedule.CreateCommand{
			ProviderID: f.provider.ID().String(),
			DayOfWeek:  2,
			StartTime:  "10:00",
			EndTime:    "09:00",
		})

		assert.ErrorIs(t, err, shared.ErrValidationFailed)
		rows, _ := f.store.Schedules().ListByProviderID(ctx, f.provider.ID())
		assert.Empty(t, rows)
	})

	t.Run("error - validation runs before actor resolution", func(t *testing.T) {
		f := setup(t)

		_, err := f.create.Handle(ctx, nil, schedule.CreateCommand{ProviderID: f.provider.ID().String(), DayOfWeek: 9, StartTime: "10:00", EndTime: "11:00"})

		assert.ErrorIs(t, err, shared.ErrValidationFailed)
	})

	t.Run("error - missing actor", func(t *testing.T) {
		f := setup(t)

		_, err := f.create.Handle(ctx, nil, schedule.CreateCommand{ProviderID: f.provider.ID().String(), DayOfWeek: 1, StartTime: "10:00", EndTime: "11:00"})

		assert.ErrorIs(t, err, shared.ErrUnauthenticated)
	})

	t.Run("error - provider not found", func(t *testing.T) {
		f := setup(t)

		_, err := f.create.Handle(ctx, f.owner, schedule.CreateCommand{ProviderID: uuid.NewString(), DayOfWeek: 1, StartTime: "10:00", EndTime: "11:00"})

		assert.ErrorIs(t, err, provider.ErrNotFound)
	})

	t.Run("success - any authenticated user may add a row", func(t *testing.T) {
		f := setup(t)
		other := &actor.Actor{ID: uuid.New(), Username: "admin"}

		s, err := f.create.Handle(ctx, other, schedule.CreateCommand{ProviderID: f.provider.ID().String(), DayOfWeek: 1, StartTime: "10:00", EndTime: "11:00"})

		require.NoError(t, err)
		assert.Equal(t, f.provider.ID(), s.ProviderID())
		assert.True(t, s.IsAvailable())
		rows, err := f.store.Schedules().ListByProviderID(ctx, f.provider.ID())
		require.NoError(t, err)
		assert.Len(t, rows, 1)
	})
}

func TestListHandler_Handle(t *testing.T) {
	ctx := context.Background()

	t.Run("success - rows in storage order without an actor", func(t *testing.T) {
		f := setup(t)
		for _, window := range [][2]string{{"14:00", "18:00"}, {"08:00", "12:00"}} {
			_, err := f.create.Handle(ctx, f.owner, schedule.CreateCommand{
				ProviderID: f.provider.ID().String(),
				DayOfWeek:  3,
				StartTime:  window[0],
				EndTime:    window[1],
			})
			require.NoError(t, err)
		}

		rows, err := f.list.Handle(ctx, schedule.ListQuery{ProviderID: f.provider.ID().String()})

		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "14:00", rows[0].StartTime())
		assert.Equal(t, "08:00", rows[1].StartTime())
	})

	t.Run("error - provider not found", func(t *testing.T) {
		f := setup(t)

		_, err := f.list.Handle(ctx, schedule.ListQuery{ProviderID: uuid.NewString()})

		assert.ErrorIs(t, err, provider.ErrNotFound)
	})
}
