package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/mutugading/marketplace-backend/internal/domain/user"
)

// SecretHasher hashes and verifies account secrets.
type SecretHasher interface {
	Hash(secret string) (string, error)
	Verify(secret, encoded string) (bool, error)
}

// IdentityRepository implements user.Identity using PostgreSQL.
type IdentityRepository struct {
	db     *DB
	hasher SecretHasher
}

// NewIdentityRepository creates a new IdentityRepository instance.
func NewIdentityRepository(db *DB, hasher SecretHasher) *IdentityRepository {
	return &IdentityRepository{db: db, hasher: hasher}
}

var _ user.Identity = (*IdentityRepository)(nil)

// CreateUser persists a new user together with its hashed secret.
func (r *IdentityRepository) CreateUser(ctx context.Context, u *user.User, secret string) error {
	hash, err := r.hasher.Hash(secret)
	if err != nil {
		return fmt.Errorf("failed to hash secret: %w", err)
	}

	query := `
		INSERT INTO users (user_id, username, name, email, phone, secret_hash, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = r.db.ExecContext(ctx, query,
		u.ID(), u.Username(), u.Name(), u.Email(), u.Phone(), hash, u.IsActive(), u.CreatedAt(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			if violatedConstraint(err) == "ux_users_email" {
				return user.ErrEmailTaken
			}
			return user.ErrUsernameTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// FindByID looks a user up by id.
func (r *IdentityRepository) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return r.findOne(ctx, `user_id = $1`, id)
}

// FindByName looks a user up by username, case-insensitively.
func (r *IdentityRepository) FindByName(ctx context.Context, username string) (*user.User, error) {
	return r.findOne(ctx, `LOWER(username) = LOWER($1)`, username)
}

// FindByEmail looks a user up by email, case-insensitively.
func (r *IdentityRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.findOne(ctx, `LOWER(email) = LOWER($1)`, email)
}

// CheckCredential reports whether secret matches the user's stored hash.
func (r *IdentityRepository) CheckCredential(ctx context.Context, u *user.User, secret string) (bool, error) {
	var hash string
	err := r.db.QueryRowContext(ctx, `SELECT secret_hash FROM users WHERE user_id = $1`, u.ID()).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return false, user.ErrNotFound
	}
	if err != nil {
		return false, fmt.Errorf("failed to read credential: %w", err)
	}

	return r.hasher.Verify(secret, hash)
}

// GetRoles returns the names of the roles held by the user, sorted.
func (r *IdentityRepository) GetRoles(ctx context.Context, u *user.User) ([]string, error) {
	query := `
		SELECT r.role_name
		FROM user_roles ur
		JOIN roles r ON r.role_id = ur.role_id
		WHERE ur.user_id = $1
		ORDER BY r.role_name ASC
	`

	rows, err := r.db.QueryContext(ctx, query, u.ID())
	if err != nil {
		return nil, fmt.Errorf("failed to get user roles: %w", err)
	}
	defer closeRows(rows)

	roles := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan role row: %w", err)
		}
		roles = append(roles, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating role rows: %w", err)
	}

	return roles, nil
}

// AddToRole grants a single role to the user. Granting a held role is a no-op.
func (r *IdentityRepository) AddToRole(ctx context.Context, u *user.User, role string) error {
	return r.db.Transaction(ctx, func(tx *sql.Tx) error {
		var roleID uuid.UUID
		err := tx.QueryRowContext(ctx, `SELECT role_id FROM roles WHERE role_name = $1`, role).Scan(&roleID)
		if errors.Is(err, sql.ErrNoRows) {
			return user.ErrRoleNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to look up role: %w", err)
		}

		query := `
			INSERT INTO user_roles (user_id, role_id, created_at)
			VALUES ($1, $2, $3)
			ON CONFLICT (user_id, role_id) DO NOTHING
		`
		if _, err := tx.ExecContext(ctx, query, u.ID(), roleID, time.Now().UTC()); err != nil {
			return fmt.Errorf("failed to assign role: %w", err)
		}
		return nil
	})
}

// RemoveFromRoles revokes the given roles from the user.
func (r *IdentityRepository) RemoveFromRoles(ctx context.Context, u *user.User, roles []string) error {
	if len(roles) == 0 {
		return nil
	}

	query := `
		DELETE FROM user_roles
		WHERE user_id = $1
		  AND role_id IN (SELECT role_id FROM roles WHERE role_name = ANY($2))
	`
	if _, err := r.db.ExecContext(ctx, query, u.ID(), pq.Array(roles)); err != nil {
		return fmt.Errorf("failed to remove roles: %w", err)
	}

	return nil
}

// EnsureRoles creates the named roles when missing.
func (r *IdentityRepository) EnsureRoles(ctx context.Context, roles ...string) error {
	query := `
		INSERT INTO roles (role_id, role_name, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (role_name) DO NOTHING
	`
	for _, role := range roles {
		if _, err := r.db.ExecContext(ctx, query, uuid.New(), role, time.Now().UTC()); err != nil {
			return fmt.Errorf("failed to ensure role %s: %w", role, err)
		}
	}
	return nil
}

func (r *IdentityRepository) findOne(ctx context.Context, where string, arg interface{}) (*user.User, error) {
	query := `
		SELECT user_id, username, name, email, phone, is_active, created_at, updated_at
		FROM users
		WHERE ` + where

	var (
		id                           uuid.UUID
		username, name, email, phone string
		isActive                     bool
		createdAt                    time.Time
		updatedAt                    sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&id, &username, &name, &email, &phone, &isActive, &createdAt, &updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, user.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user.ReconstructUser(id, username, name, email, phone, isActive, createdAt, nullTime(updatedAt)), nil
}
