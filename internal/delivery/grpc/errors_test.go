package grpc

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/mutugading/marketplace-backend/internal/domain/actor"
	"github.com/mutugading/marketplace-backend/internal/domain/evaluation"
	"github.com/mutugading/marketplace-backend/internal/domain/provider"
	"github.com/mutugading/marketplace-backend/internal/domain/shared"
)

func TestCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want codes.Code
	}{
		{"nil", nil, codes.OK},
		{"validation", shared.NewValidationErrors(shared.ValidationError{Field: "note", Message: "bad"}), codes.InvalidArgument},
		{"unauthenticated", actor.ErrMissing, codes.Unauthenticated},
		{"not found", provider.ErrNotFound, codes.NotFound},
		{"forbidden", provider.ErrNotOwner, codes.PermissionDenied},
		{"conflict", evaluation.ErrSelfReference, codes.AlreadyExists},
		{"precondition", provider.ErrNotVerified, codes.FailedPrecondition},
		{"operation failed", shared.OperationFailed("ROLE_ADD_FAILED", "role add failed", errors.New("down")), codes.Unavailable},
		{"wrapped kind", fmt.Errorf("handler: %w", provider.ErrAlreadyExists), codes.AlreadyExists},
		{"canceled", context.Canceled, codes.Canceled},
		{"status passthrough", status.Error(codes.ResourceExhausted, "slow down"), codes.ResourceExhausted},
		{"unexpected", errors.New("disk on fire"), codes.Internal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Code(tt.err))
		})
	}
}

func TestErrorCodeAndMessage(t *testing.T) {
	assert.Equal(t, "PROVIDER_NOT_VERIFIED", ErrorCode(provider.ErrNotVerified))
	assert.Equal(t, "VALIDATION_FAILED", ErrorCode(shared.NewValidationErrors()))
	assert.Equal(t, "INTERNAL", ErrorCode(errors.New("boom")))

	assert.Equal(t, "provider not found", Message(provider.ErrNotFound))
	assert.Equal(t, "internal server error", Message(errors.New("password=hunter2")))
}

func TestToStatus(t *testing.T) {
	st := ToStatus(provider.ErrNotFound)
	assert.Equal(t, codes.NotFound, st.Code())
	assert.Equal(t, "provider not found", st.Message())

	assert.Equal(t, codes.OK, ToStatus(nil).Code())
}
