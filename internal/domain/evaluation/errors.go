package evaluation

import (
	"github.com/mutugading/marketplace-backend/internal/domain/shared"
)

// Domain errors for evaluation operations.
var (
	// ErrAlreadyExists is returned when the user already evaluated the provider.
	ErrAlreadyExists = shared.NewDomainError("EVALUATION_ALREADY_EXISTS", "provider was already evaluated by this user", shared.ErrConflict, nil)

	// ErrSelfReference is returned when a user evaluates a provider they own.
	ErrSelfReference = shared.NewDomainError("EVALUATION_SELF_REFERENCE", "users cannot evaluate their own provider", shared.ErrConflict, nil)

	// ErrInvalidNote is returned when the note is outside [MinNote, MaxNote].
	ErrInvalidNote = shared.NewDomainError("EVALUATION_INVALID_NOTE", "note must be between 1 and 5", shared.ErrValidationFailed, nil)
)
