package memory

import (
	"context"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/mutugading/marketplace-backend/internal/domain/user"
)

// SecretHasher hashes and verifies account secrets.
type SecretHasher interface {
	Hash(secret string) (string, error)
	Verify(secret, encoded string) (bool, error)
}

// IdentityStore implements user.Identity.
type IdentityStore struct {
	s      *Store
	hasher SecretHasher
}

var _ user.Identity = (*IdentityStore)(nil)

// Identity returns the user.Identity view. Secrets are hashed with hasher.
func (s *Store) Identity(hasher SecretHasher) *IdentityStore {
	return &IdentityStore{s: s, hasher: hasher}
}

// CreateUser stores the user with its hashed secret. Usernames and emails are
// unique case-insensitively.
func (i *IdentityStore) CreateUser(ctx context.Context, u *user.User, secret string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	hash, err := i.hasher.Hash(secret)
	if err != nil {
		return err
	}

	i.s.mu.Lock()
	defer i.s.mu.Unlock()

	for _, rec := range i.s.users {
		if strings.EqualFold(rec.user.Username(), u.Username()) {
			return user.ErrUsernameTaken
		}
		if strings.EqualFold(rec.user.Email(), u.Email()) {
			return user.ErrEmailTaken
		}
	}
	i.s.users[u.ID()] = &userRecord{user: *u, secretHash: hash}
	return nil
}

// FindByID looks a user up by id.
func (i *IdentityStore) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return i.find(ctx, func(u *user.User) bool { return u.ID() == id })
}

// FindByName looks a user up by username.
func (i *IdentityStore) FindByName(ctx context.Context, username string) (*user.User, error) {
	return i.find(ctx, func(u *user.User) bool { return strings.EqualFold(u.Username(), username) })
}

// FindByEmail looks a user up by email.
func (i *IdentityStore) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return i.find(ctx, func(u *user.User) bool { return strings.EqualFold(u.Email(), email) })
}

func (i *IdentityStore) find(ctx context.Context, match func(*user.User) bool) (*user.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	i.s.mu.RLock()
	defer i.s.mu.RUnlock()

	for _, rec := range i.s.users {
		if match(&rec.user) {
			u := rec.user
			return &u, nil
		}
	}
	return nil, user.ErrNotFound
}

// CheckCredential verifies secret against the stored hash.
func (i *IdentityStore) CheckCredential(ctx context.Context, u *user.User, secret string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	i.s.mu.RLock()
	rec, ok := i.s.users[u.ID()]
	var hash string
	if ok {
		hash = rec.secretHash
	}
	i.s.mu.RUnlock()

	if !ok {
		return false, user.ErrNotFound
	}
	return i.hasher.Verify(secret, hash)
}

// GetRoles returns the roles of u, sorted.
func (i *IdentityStore) GetRoles(ctx context.Context, u *user.User) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	i.s.mu.RLock()
	defer i.s.mu.RUnlock()

	rec, ok := i.s.users[u.ID()]
	if !ok {
		return nil, user.ErrNotFound
	}
	roles := slices.Clone(rec.roles)
	slices.Sort(roles)
	return roles, nil
}

// AddToRole grants a registered role.
func (i *IdentityStore) AddToRole(ctx context.Context, u *user.User, role string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	i.s.mu.Lock()
	defer i.s.mu.Unlock()

	rec, ok := i.s.users[u.ID()]
	if !ok {
		return user.ErrNotFound
	}
	if _, ok := i.s.roles[role]; !ok {
		return user.ErrRoleNotFound
	}
	if !slices.Contains(rec.roles, role) {
		rec.roles = append(rec.roles, role)
	}
	return nil
}

// RemoveFromRoles revokes the given roles.
func (i *IdentityStore) RemoveFromRoles(ctx context.Context, u *user.User, roles []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	i.s.mu.Lock()
	defer i.s.mu.Unlock()

	rec, ok := i.s.users[u.ID()]
	if !ok {
		return user.ErrNotFound
	}
	rec.roles = slices.DeleteFunc(rec.roles, func(r string) bool {
		return slices.Contains(roles, r)
	})
	return nil
}
