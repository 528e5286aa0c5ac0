// Package grpc provides the gRPC server and the mapping from domain errors to status codes.
package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/mutugading/marketplace-backend/internal/domain/shared"
)

// Code returns the gRPC code for a domain error kind. Errors without a kind
// are internal failures.
func Code(err error) codes.Code {
	switch {
	case err == nil:
		return codes.OK
	case errors.Is(err, context.Canceled):
		return codes.Canceled
	case errors.Is(err, context.DeadlineExceeded):
		return codes.DeadlineExceeded
	}

	switch shared.KindOf(err) {
	case shared.ErrValidationFailed:
		return codes.InvalidArgument
	case shared.ErrUnauthenticated:
		return codes.Unauthenticated
	case shared.ErrNotFound:
		return codes.NotFound
	case shared.ErrForbidden:
		return codes.PermissionDenied
	case shared.ErrConflict:
		return codes.AlreadyExists
	case shared.ErrPreconditionFailed:
		return codes.FailedPrecondition
	case shared.ErrOperationFailed:
		return codes.Unavailable
	default:
		if s, ok := status.FromError(err); ok {
			return s.Code()
		}
		return codes.Internal
	}
}

// ErrorCode returns the machine readable code carried by err.
func ErrorCode(err error) string {
	var de *shared.DomainError
	if errors.As(err, &de) && de.Code != "" {
		return de.Code
	}
	var ve *shared.ValidationErrors
	if errors.As(err, &ve) {
		return "VALIDATION_FAILED"
	}
	if Code(err) == codes.Internal {
		return "INTERNAL"
	}
	return ""
}

// Message returns the client-facing message of err. Internal failures are
// not described to clients.
func Message(err error) string {
	if Code(err) == codes.Internal {
		return "internal server error"
	}
	var de *shared.DomainError
	if errors.As(err, &de) {
		return de.Message
	}
	return err.Error()
}

// ToStatus converts err into a gRPC status.
func ToStatus(err error) *status.Status {
	if err == nil {
		return status.New(codes.OK, "")
	}
	if s, ok := status.FromError(err); ok && shared.KindOf(err) == nil {
		return s
	}
	return status.New(Code(err), Message(err))
}
