package identity

import (
	"context"
	"errors"
	"slices"

	"github.com/mutugading/marketplace-backend/internal/application/validation"
	"github.com/mutugading/marketplace-backend/internal/domain/shared"
	"github.com/mutugading/marketplace-backend/internal/domain/user"
)

// SeedAdminCommand represents the seed administrator command.
type SeedAdminCommand struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=72"`
}

// SeedAdminResult reports what the seed run changed.
type SeedAdminResult struct {
	User        *user.User
	Created     bool
	RoleGranted bool
}

// SeedAdminHandler provisions the administrator account. Running it again is
// a no-op once the account exists and holds the Admin role.
type SeedAdminHandler struct {
	identity  user.Identity
	validator *validation.Validator
	policy    PasswordPolicy
}

// NewSeedAdminHandler creates a new SeedAdminHandler.
func NewSeedAdminHandler(identity user.Identity, validator *validation.Validator, policy PasswordPolicy) *SeedAdminHandler {
	return &SeedAdminHandler{identity: identity, validator: validator, policy: policy}
}

// Handle creates the administrator when missing and grants the Admin role.
func (h *SeedAdminHandler) Handle(ctx context.Context, cmd SeedAdminCommand) (*SeedAdminResult, error) {
	// 1. Validate fields
	if err := h.validator.Validate(ctx, cmd); err != nil {
		return nil, err
	}

	result := &SeedAdminResult{}

	// 2. Reuse an existing account
	existing, err := h.identity.FindByName(ctx, cmd.Username)
	switch {
	case err == nil:
		result.User = existing
	case errors.Is(err, user.ErrNotFound):
		if err := h.policy.Check(cmd.Password); err != nil {
			return nil, shared.NewValidationErrors(shared.ValidationError{Field: "password", Message: err.Error()})
		}
		entity, err := user.NewUser(cmd.Username, cmd.Name, cmd.Email, "")
		if err != nil {
			return nil, err
		}
		if err := h.identity.CreateUser(ctx, entity, cmd.Password); err != nil {
			return nil, err
		}
		result.User = entity
		result.Created = true
	default:
		return nil, err
	}

	// 3. Grant the Admin role once
	roles, err := h.identity.GetRoles(ctx, result.User)
	if err != nil {
		return nil, err
	}
	if slices.Contains(roles, user.RoleAdmin) {
		return result, nil
	}
	if err := h.identity.AddToRole(ctx, result.User, user.RoleAdmin); err != nil {
		return nil, shared.OperationFailed("ROLE_ADD_FAILED", "failed to add user to role "+user.RoleAdmin, err)
	}
	result.RoleGranted = true

	return result, nil
}
