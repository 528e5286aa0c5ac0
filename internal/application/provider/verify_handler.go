package provider

import (
	"context"

	"github.com/google/uuid"

	"github.com/mutugading/marketplace-backend/internal/application/validation"
	"github.com/mutugading/marketplace-backend/internal/domain/provider"
	"github.com/mutugading/marketplace-backend/internal/domain/user"
)

// VerifyCommand represents the verify provider command.
type VerifyCommand struct {
	ProviderID string `json:"provider_id" validate:"required,uuid"`
}

// VerifyHandler handles the VerifyProvider command. Callers must be admins;
// the delivery layer enforces that before dispatching.
type VerifyHandler struct {
	repo      provider.Repository
	sync      *RoleSync
	validator *validation.Validator
}

// NewVerifyHandler creates a new VerifyHandler.
func NewVerifyHandler(repo provider.Repository, sync *RoleSync, validator *validation.Validator) *VerifyHandler {
	return &VerifyHandler{repo: repo, sync: sync, validator: validator}
}

// Handle verifies and activates the provider, then gives its owner exactly the
// Provider role. The flip and a pending role grant are written together; if
// the role change fails the grant stays pending for the reconciler and the
// identity failure is returned.
func (h *VerifyHandler) Handle(ctx context.Context, cmd VerifyCommand) (*provider.Provider, error) {
	// 1. Validate fields
	if err := h.validator.Validate(ctx, cmd); err != nil {
		return nil, err
	}

	// 2. Load provider
	id, err := uuid.Parse(cmd.ProviderID)
	if err != nil {
		return nil, provider.ErrNotFound
	}
	entity, err := h.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// 3. Verify domain entity
	if err := entity.Verify(); err != nil {
		return nil, err
	}

	// 4. Persist the flip with its role grant
	grant := provider.NewRoleGrant(entity, user.RoleProvider)
	if err := h.repo.MarkVerified(ctx, entity, grant); err != nil {
		return nil, err
	}

	// 5-8. Replace the owner's roles
	if err := h.sync.Apply(ctx, grant); err != nil {
		return nil, err
	}

	return entity, nil
}
