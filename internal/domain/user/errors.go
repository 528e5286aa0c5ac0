package user

import (
	"errors"

	"github.com/mutugading/marketplace-backend/internal/domain/shared"
)

// Domain errors for identity operations.
var (
	// ErrNotFound is returned when a user is not found.
	ErrNotFound = shared.NewDomainError("USER_NOT_FOUND", "user not found", shared.ErrNotFound, nil)

	// ErrUsernameTaken is returned when registering with an existing username.
	ErrUsernameTaken = shared.NewDomainError("USERNAME_TAKEN", "username is already taken", shared.ErrConflict, nil)

	// ErrEmailTaken is returned when registering with an existing email.
	ErrEmailTaken = shared.NewDomainError("EMAIL_TAKEN", "email is already registered", shared.ErrConflict, nil)

	// ErrInvalidCredentials is returned when the identifier or secret does not match.
	ErrInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "invalid credentials", shared.ErrUnauthenticated, nil)

	// ErrInactive is returned when a disabled account attempts to sign in.
	ErrInactive = shared.NewDomainError("USER_INACTIVE", "user account is inactive", shared.ErrUnauthenticated, nil)

	// ErrRoleNotFound is returned when adding a user to an unknown role.
	ErrRoleNotFound = errors.New("role not found")

	ErrEmptyUsername = errors.New("username cannot be empty")
	ErrEmptyName     = errors.New("name cannot be empty")
	ErrEmptyEmail    = errors.New("email cannot be empty")
)
