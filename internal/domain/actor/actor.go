// Package actor describes the authenticated identity behind a request.
package actor

import (
	"slices"

	"github.com/google/uuid"

	"github.com/mutugading/marketplace-backend/internal/domain/shared"
)

// ErrMissing is returned when a handler needs an actor and none was resolved.
var ErrMissing = shared.Unauthenticated("authentication required")

// Actor is the resolved identity of the current request. It is built once at
// the request boundary and passed explicitly to every handler that needs it.
type Actor struct {
	ID       uuid.UUID
	Username string
	Name     string
	Email    string
	Phone    string
	Roles    []string
}

// HasRole reports whether the actor holds the given role.
func (a *Actor) HasRole(role string) bool {
	if a == nil {
		return false
	}
	return slices.Contains(a.Roles, role)
}

// Require returns ErrMissing unless a is a resolved actor.
func Require(a *Actor) error {
	if a == nil || a.ID == uuid.Nil {
		return ErrMissing
	}
	return nil
}

// RequireRole fails with ErrMissing for anonymous requests and with a
// forbidden error when the actor lacks the role.
func RequireRole(a *Actor, role string) error {
	if err := Require(a); err != nil {
		return err
	}
	if !a.HasRole(role) {
		return shared.Forbidden("requires role " + role)
	}
	return nil
}
