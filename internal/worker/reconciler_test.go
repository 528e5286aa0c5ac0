package worker_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	providerapp "github.com/mutugading/marketplace-backend/internal/application/provider"
	"github.com/mutugading/marketplace-backend/internal/domain/provider"
	"github.com/mutugading/marketplace-backend/internal/domain/user"
	"github.com/mutugading/marketplace-backend/internal/infrastructure/memory"
	"github.com/mutugading/marketplace-backend/internal/worker"
)

type MockGrantReconciler struct {
	mock.Mock
}

func (m *MockGrantReconciler) Handle(ctx context.Context, batchSize int) (*providerapp.ReconcileResult, error) {
	args := m.Called(ctx, batchSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*providerapp.ReconcileResult), args.Error(1)
}

type plainHasher struct{}

func (plainHasher) Hash(secret string) (string, error) { return secret, nil }

func (plainHasher) Verify(secret, encoded string) (bool, error) { return secret == encoded, nil }

func TestReconciler_RunOnce(t *testing.T) {
	ctx := context.Background()

	t.Run("success - reports the pass", func(t *testing.T) {
		handler := new(MockGrantReconciler)
		handler.On("Handle", mock.Anything, 25).
			Return(&providerapp.ReconcileResult{Processed: 3, Completed: 2, Failed: 1, Abandoned: 1}, nil).Once()

		result := worker.NewReconciler(handler, time.Minute, 25).RunOnce(ctx)

		require.NotNil(t, result)
		assert.Equal(t, 2, result.Completed)
		assert.Equal(t, 1, result.Failed)
		assert.Equal(t, 1, result.Abandoned)
		handler.AssertExpectations(t)
	})

	t.Run("success - default batch size", func(t *testing.T) {
		handler := new(MockGrantReconciler)
		handler.On("Handle", mock.Anything, 50).Return(&providerapp.ReconcileResult{}, nil).Once()

		worker.NewReconciler(handler, time.Minute, 0).RunOnce(ctx)

		handler.AssertExpectations(t)
	})

	t.Run("error - listing failure is absorbed", func(t *testing.T) {
		handler := new(MockGrantReconciler)
		handler.On("Handle", mock.Anything, 10).Return(nil, errors.New("connection refused")).Once()

		assert.NotPanics(t, func() {
			assert.Nil(t, worker.NewReconciler(handler, time.Minute, 10).RunOnce(ctx))
		})
		handler.AssertExpectations(t)
	})
}

func TestReconciler_Start(t *testing.T) {
	t.Run("success - runs immediately and stops with the context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		handler := new(MockGrantReconciler)
		handler.On("Handle", mock.Anything, 5).
			Run(func(mock.Arguments) { cancel() }).
			Return(&providerapp.ReconcileResult{}, nil).Once()

		done := make(chan struct{})
		go func() {
			worker.NewReconciler(handler, time.Hour, 5).Start(ctx)
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("reconciler did not stop")
		}
		handler.AssertExpectations(t)
	})
}

// TestReconciler_ConvergesPendingGrant covers a verification whose role
// replacement never ran: the next pass must finish it.
func TestReconciler_ConvergesPendingGrant(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	identity := store.Identity(plainHasher{})
	providers := store.Providers()

	owner, err := user.NewUser("alice", "Alice Prado", "alice@example.com", "")
	require.NoError(t, err)
	require.NoError(t, identity.CreateUser(ctx, owner, "Secret123"))
	require.NoError(t, identity.AddToRole(ctx, owner, user.RoleCustomer))

	p, err := provider.NewProvider(owner.ID(), provider.Profile{
		CPF:         "52998224725",
		RG:          "123456789",
		Address:     "Rua das Flores, 10",
		Phone:       "11999990000",
		ServiceName: "Encanador",
		Categories:  []string{"hidraulica"},
	})
	require.NoError(t, err)
	require.NoError(t, providers.Create(ctx, p))

	require.NoError(t, p.Verify())
	require.NoError(t, providers.MarkVerified(ctx, p, provider.NewRoleGrant(p, user.RoleProvider)))

	sync := providerapp.NewRoleSync(identity, identity, providers, nil)
	reconciler := worker.NewReconciler(providerapp.NewReconcileHandler(providers, sync), time.Minute, 10)

	result := reconciler.RunOnce(ctx)
	require.NotNil(t, result)
	assert.Equal(t, 1, result.Completed)

	roles, err := identity.GetRoles(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, []string{user.RoleProvider}, roles)

	pending, err := providers.ListPendingGrants(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)

	result = reconciler.RunOnce(ctx)
	require.NotNil(t, result)
	assert.Equal(t, 0, result.Processed)
}
