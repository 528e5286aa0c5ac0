package provider

import (
	"errors"

	"github.com/mutugading/marketplace-backend/internal/domain/shared"
)

// Domain errors for provider operations.
var (
	// ErrNotFound is returned when a provider is not found, or is not owned by the actor.
	ErrNotFound = shared.NewDomainError("PROVIDER_NOT_FOUND", "provider not found", shared.ErrNotFound, nil)

	// ErrAlreadyExists is returned when the user already owns a provider.
	ErrAlreadyExists = shared.NewDomainError("PROVIDER_ALREADY_EXISTS", "user already has a provider profile", shared.ErrConflict, nil)

	// ErrAlreadyVerified is returned when verifying a verified provider.
	ErrAlreadyVerified = shared.NewDomainError("PROVIDER_ALREADY_VERIFIED", "provider is already verified", shared.ErrConflict, nil)

	// ErrAlreadyInactive is returned when deactivating an inactive provider.
	ErrAlreadyInactive = shared.NewDomainError("PROVIDER_ALREADY_INACTIVE", "provider is already inactive", shared.ErrConflict, nil)

	// ErrNotVerified is returned when editing the profile of an unverified provider.
	ErrNotVerified = shared.NewDomainError("PROVIDER_NOT_VERIFIED", "provider must be verified before editing its profile", shared.ErrPreconditionFailed, nil)

	// ErrNotOwner is returned when the actor does not own the provider.
	ErrNotOwner = shared.NewDomainError("PROVIDER_NOT_OWNER", "only the owner can change this provider", shared.ErrForbidden, nil)

	// ErrGrantNotFound is returned when a role grant is not found.
	ErrGrantNotFound = shared.NewDomainError("ROLE_GRANT_NOT_FOUND", "role grant not found", shared.ErrNotFound, nil)

	ErrEmptyUserID      = errors.New("provider user id cannot be empty")
	ErrEmptyServiceName = errors.New("provider service name cannot be empty")
	ErrEmptyDocumentURL = errors.New("document photo url cannot be empty")
)
