package identity

import (
	"context"
	"errors"

	"github.com/mutugading/marketplace-backend/internal/application/validation"
	"github.com/mutugading/marketplace-backend/internal/domain/shared"
	"github.com/mutugading/marketplace-backend/internal/domain/user"
)

// PasswordPolicy checks the strength of a new secret.
type PasswordPolicy interface {
	Check(secret string) error
}

// RegisterCommand represents the register user command.
type RegisterCommand struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Phone    string `json:"phone" validate:"max=20"`
	Password string `json:"password" validate:"required,max=72"`
}

// RegisterHandler handles the RegisterUser command.
type RegisterHandler struct {
	identity  user.Identity
	validator *validation.Validator
	policy    PasswordPolicy
}

// NewRegisterHandler creates a new RegisterHandler.
func NewRegisterHandler(identity user.Identity, validator *validation.Validator, policy PasswordPolicy) *RegisterHandler {
	return &RegisterHandler{identity: identity, validator: validator, policy: policy}
}

// Handle creates a customer account.
func (h *RegisterHandler) Handle(ctx context.Context, cmd RegisterCommand) (*user.User, error) {
	// 1. Validate fields
	if err := h.validator.Validate(ctx, cmd); err != nil {
		return nil, err
	}
	if err := h.policy.Check(cmd.Password); err != nil {
		return nil, shared.NewValidationErrors(shared.ValidationError{Field: "password", Message: err.Error()})
	}

	// 2. Create domain entity
	entity, err := user.NewUser(cmd.Username, cmd.Name, cmd.Email, cmd.Phone)
	if err != nil {
		return nil, err
	}

	// 3. Check uniqueness
	if err := h.ensureAvailable(ctx, entity); err != nil {
		return nil, err
	}

	// 4. Persist with credential
	if err := h.identity.CreateUser(ctx, entity, cmd.Password); err != nil {
		return nil, err
	}

	// 5. Every new account is a customer
	if err := h.identity.AddToRole(ctx, entity, user.RoleCustomer); err != nil {
		return nil, shared.OperationFailed("ROLE_ADD_FAILED", "failed to add user to role "+user.RoleCustomer, err)
	}

	return entity, nil
}

func (h *RegisterHandler) ensureAvailable(ctx context.Context, u *user.User) error {
	if _, err := h.identity.FindByName(ctx, u.Username()); err == nil {
		return user.ErrUsernameTaken
	} else if !errors.Is(err, user.ErrNotFound) {
		return err
	}

	if _, err := h.identity.FindByEmail(ctx, u.Email()); err == nil {
		return user.ErrEmailTaken
	} else if !errors.Is(err, user.ErrNotFound) {
		return err
	}

	return nil
}
