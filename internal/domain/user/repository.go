package user

import (
	"context"

	"github.com/google/uuid"
)

// Finder looks users up. Lookups return ErrNotFound when nothing matches.
type Finder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByName(ctx context.Context, username string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
}

// RoleAssigner is the narrow role capability of the identity subsystem.
type RoleAssigner interface {
	// GetRoles returns the names of the roles currently held by the user.
	GetRoles(ctx context.Context, u *User) ([]string, error)

	// AddToRole grants a single role to the user.
	AddToRole(ctx context.Context, u *User, role string) error

	// RemoveFromRoles revokes the given roles from the user.
	RemoveFromRoles(ctx context.Context, u *User, roles []string) error
}

// Identity is the full identity subsystem port.
// This interface is defined in domain layer, implemented in infrastructure layer.
type Identity interface {
	Finder
	RoleAssigner

	// CheckCredential reports whether secret matches the user's stored credential.
	CheckCredential(ctx context.Context, u *User, secret string) (bool, error)

	// CreateUser persists a new user together with its credential.
	CreateUser(ctx context.Context, u *User, secret string) error
}
