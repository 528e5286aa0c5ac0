package provider_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appprovider "github.com/mutugading/marketplace-backend/internal/application/provider"
	"github.com/mutugading/marketplace-backend/internal/application/validation"
	"github.com/mutugading/marketplace-backend/internal/domain/actor"
	"github.com/mutugading/marketplace-backend/internal/domain/shared"
	"github.com/mutugading/marketplace-backend/internal/domain/user"
	"github.com/mutugading/marketplace-backend/internal/infrastructure/cpf"
	"github.com/mutugading/marketplace-backend/internal/infrastructure/memory"
)

type plainHasher struct{}

func (plainHasher) Hash(secret string) (string, error) { return secret, nil }

func (plainHasher) Verify(secret, encoded string) (bool, error) { return secret == encoded, nil }

// TestProviderLifecycle walks a provider from registration to an edited,
// verified profile against the in-memory adapters.
func TestProviderLifecycle(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	identity := store.Identity(plainHasher{})
	providers := store.Providers()
	v := validation.MustNew(cpf.NewChecker(), validation.LocaleEN)

	owner, err := user.NewUser("alice", "Alice Prado", "alice@example.com", "")
	require.NoError(t, err)
	require.NoError(t, identity.CreateUser(ctx, owner, "Secret123"))
	require.NoError(t, identity.AddToRole(ctx, owner, user.RoleCustomer))
	a := &actor.Actor{ID: owner.ID(), Username: owner.Username(), Name: owner.Name()}

	register := appprovider.NewCreateHandler(providers, v)
	update := appprovider.NewUpdateHandler(providers, v, nil)
	sync := appprovider.NewRoleSync(identity, identity, providers, nil)
	verify := appprovider.NewVerifyHandler(providers, sync, v)

	// A registers a provider: unverified and inactive.
	p, err := register.Handle(ctx, a, appprovider.CreateCommand{ProfileInput: validProfile()})
	require.NoError(t, err)
	assert.False(t, p.IsVerified())
	assert.False(t, p.IsActive())

	// A second registration conflicts.
	_, err = register.Handle(ctx, a, appprovider.CreateCommand{ProfileInput: validProfile()})
	assert.ErrorIs(t, err, shared.ErrConflict)

	// Editing before verification is gated.
	edit := validProfile()
	edit.ServiceName = "Encanador 24h"
	_, err = update.Handle(ctx, a, appprovider.UpdateCommand{ProviderID: p.ID().String(), ProfileInput: edit})
	assert.ErrorIs(t, err, shared.ErrPreconditionFailed)

	// An admin verifies.
	verified, err := verify.Handle(ctx, appprovider.VerifyCommand{ProviderID: p.ID().String()})
	require.NoError(t, err)
	assert.True(t, verified.IsVerified())
	assert.True(t, verified.IsActive())

	stored, err := providers.GetByID(ctx, p.ID())
	require.NoError(t, err)
	assert.True(t, stored.IsVerified())
	assert.True(t, stored.IsActive())

	roles, err := identity.GetRoles(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, []string{user.RoleProvider}, roles)

	pending, err := providers.ListPendingGrants(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)

	// Verifying twice conflicts.
	_, err = verify.Handle(ctx, appprovider.VerifyCommand{ProviderID: p.ID().String()})
	assert.ErrorIs(t, err, shared.ErrConflict)

	// The edit now succeeds and returns the provider id.
	id, err := update.Handle(ctx, a, appprovider.UpdateCommand{ProviderID: p.ID().String(), ProfileInput: edit})
	require.NoError(t, err)
	assert.Equal(t, p.ID(), id)

	stored, err = providers.GetByID(ctx, p.ID())
	require.NoError(t, err)
	assert.Equal(t, "Encanador 24h", stored.ServiceName())
}

// TestVerifyConvergesThroughReconciler covers a verification whose role change
// failed: the provider stays verified and the reconciler finishes the grant.
func TestVerifyConvergesThroughReconciler(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	identity := store.Identity(plainHasher{})
	providers := store.Providers()
	v := validation.MustNew(cpf.NewChecker(), validation.LocaleEN)

	owner, err := user.NewUser("bia", "Bia", "bia@example.com", "")
	require.NoError(t, err)
	require.NoError(t, identity.CreateUser(ctx, owner, "Secret123"))

	p, err := appprovider.NewCreateHandler(providers, v).Handle(ctx, &actor.Actor{ID: owner.ID()}, appprovider.CreateCommand{ProfileInput: validProfile()})
	require.NoError(t, err)

	failing := new(MockIdentity)
	failing.On("FindByID", ctx, owner.ID()).Return(owner, nil)
	failing.On("GetRoles", ctx, owner).Return([]string{}, nil)
	failing.On("AddToRole", ctx, owner, user.RoleProvider).Return(assert.AnError)

	_, err = appprovider.NewVerifyHandler(providers, appprovider.NewRoleSync(failing, failing, providers, nil), v).
		Handle(ctx, appprovider.VerifyCommand{ProviderID: p.ID().String()})
	assert.ErrorIs(t, err, shared.ErrOperationFailed)

	stored, err := providers.GetByID(ctx, p.ID())
	require.NoError(t, err)
	assert.True(t, stored.IsVerified())

	reconcile := appprovider.NewReconcileHandler(providers, appprovider.NewRoleSync(identity, identity, providers, nil))
	result, err := reconcile.Handle(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Completed)

	roles, err := identity.GetRoles(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, []string{user.RoleProvider}, roles)
}
