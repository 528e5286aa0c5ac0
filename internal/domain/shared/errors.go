// Package shared provides common domain types used across all marketplace domain packages.
package shared

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Every domain error wraps exactly one of these so the delivery
// layer can map it without knowing the concrete aggregate.
var (
	ErrValidationFailed   = errors.New("validation failed")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrNotFound           = errors.New("entity not found")
	ErrForbidden          = errors.New("permission denied")
	ErrConflict           = errors.New("conflicts with existing state")
	ErrPreconditionFailed = errors.New("precondition failed")
	ErrOperationFailed    = errors.New("operation failed")
)

// kinds lists the error kinds in lookup order.
var kinds = []error{
	ErrValidationFailed,
	ErrUnauthenticated,
	ErrNotFound,
	ErrForbidden,
	ErrConflict,
	ErrPreconditionFailed,
	ErrOperationFailed,
}

// KindOf returns the error kind wrapped by err, or nil when err carries none.
func KindOf(err error) error {
	for _, kind := range kinds {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

// DomainError wraps domain-specific errors with additional context.
type DomainError struct {
	Code    string
	Message string
	Kind    error
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes both the kind and the underlying cause to errors.Is/As.
func (e *DomainError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// NewDomainError creates a new DomainError.
func NewDomainError(code, message string, kind, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Kind:    kind,
		Err:     err,
	}
}

// Unauthenticated returns an error of kind ErrUnauthenticated.
func Unauthenticated(message string) *DomainError {
	return NewDomainError("UNAUTHENTICATED", message, ErrUnauthenticated, nil)
}

// Forbidden returns an error of kind ErrForbidden.
func Forbidden(message string) *DomainError {
	return NewDomainError("FORBIDDEN", message, ErrForbidden, nil)
}

// OperationFailed returns an error of kind ErrOperationFailed carrying the collaborator's error.
func OperationFailed(code, message string, err error) *DomainError {
	return NewDomainError(code, message, ErrOperationFailed, err)
}

// ValidationError represents a validation error with field details.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// ValidationErrors carries every violated field of a single command.
type ValidationErrors struct {
	Fields []ValidationError
}

// NewValidationErrors creates a ValidationErrors from field errors.
func NewValidationErrors(fields ...ValidationError) *ValidationErrors {
	return &ValidationErrors{Fields: fields}
}

func (e *ValidationErrors) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidationFailed.Error()
	}
	parts := make([]string, len(e.Fields))
	for i := range e.Fields {
		parts[i] = e.Fields[i].Error()
	}
	return fmt.Sprintf("%s: %s", ErrValidationFailed.Error(), strings.Join(parts, "; "))
}

// Unwrap makes every ValidationErrors an ErrValidationFailed.
func (e *ValidationErrors) Unwrap() error {
	return ErrValidationFailed
}

// Has reports whether the given field failed validation.
func (e *ValidationErrors) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}
