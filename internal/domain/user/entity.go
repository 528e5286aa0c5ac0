// Package user provides the identity domain: users and their roles.
package user

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role names known to the marketplace.
const (
	RoleAdmin    = "Admin"
	RoleCustomer = "Customer"
	RoleProvider = "Provider"
)

// User is an account of the marketplace identity subsystem.
type User struct {
	id        uuid.UUID
	username  string
	name      string
	email     string
	phone     string
	isActive  bool
	createdAt time.Time
	updatedAt *time.Time
}

// NewUser creates a new User entity with validation.
func NewUser(username, name, email, phone string) (*User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	if username == "" {
		return nil, ErrEmptyUsername
	}
	if name == "" {
		return nil, ErrEmptyName
	}
	if email == "" {
		return nil, ErrEmptyEmail
	}

	return &User{
		id:        uuid.New(),
		username:  username,
		name:      name,
		email:     email,
		phone:     phone,
		isActive:  true,
		createdAt: time.Now().UTC(),
	}, nil
}

// ReconstructUser reconstructs a User entity from persistence data.
func ReconstructUser(
	id uuid.UUID,
	username, name, email, phone string,
	isActive bool,
	createdAt time.Time,
	updatedAt *time.Time,
) *User {
	return &User{
		id:        id,
		username:  username,
		name:      name,
		email:     email,
		phone:     phone,
		isActive:  isActive,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// ID returns the user ID.
func (u *User) ID() uuid.UUID { return u.id }

// Username returns the login name.
func (u *User) Username() string { return u.username }

// Name returns the display name.
func (u *User) Name() string { return u.name }

// Email returns the email address.
func (u *User) Email() string { return u.email }

// Phone returns the phone number.
func (u *User) Phone() string { return u.phone }

// IsActive returns whether the account may sign in.
func (u *User) IsActive() bool { return u.isActive }

// CreatedAt returns the creation timestamp.
func (u *User) CreatedAt() time.Time { return u.createdAt }

// UpdatedAt returns the last update timestamp.
func (u *User) UpdatedAt() *time.Time { return u.updatedAt }
