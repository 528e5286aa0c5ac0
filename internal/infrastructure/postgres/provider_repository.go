package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/mutugading/marketplace-backend/internal/domain/provider"
)

const providerColumns = `
	provider_id, user_id, cpf, rg, address, phone, service_name, description,
	categories, document_photo_urls, is_active, is_verified, created_at, updated_at
`

// ProviderRepository implements provider.Repository, provider.GrantRepository
// and provider.SummaryReader using PostgreSQL.
type ProviderRepository struct {
	db *DB
}

// NewProviderRepository creates a new ProviderRepository instance.
func NewProviderRepository(db *DB) *ProviderRepository {
	return &ProviderRepository{db: db}
}

// Verify interface implementation at compile time.
var (
	_ provider.Repository      = (*ProviderRepository)(nil)
	_ provider.GrantRepository = (*ProviderRepository)(nil)
	_ provider.SummaryReader   = (*ProviderRepository)(nil)
)

// Create persists a new provider to the database.
func (r *ProviderRepository) Create(ctx context.Context, p *provider.Provider) error {
	query := `
		INSERT INTO providers (
			provider_id, user_id, cpf, rg, address, phone, service_name, description,
			categories, document_photo_urls, is_active, is_verified, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.db.ExecContext(ctx, query,
		p.ID(),
		p.UserID(),
		p.CPF(),
		p.RG(),
		p.Address(),
		p.Phone(),
		p.ServiceName(),
		p.Description(),
		pq.Array(p.Categories()),
		pq.Array(p.DocumentPhotoURLs()),
		p.IsActive(),
		p.IsVerified(),
		p.CreatedAt(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return provider.ErrAlreadyExists
		}
		return fmt.Errorf("failed to create provider: %w", err)
	}

	return nil
}

// GetByID retrieves a provider by its ID.
func (r *ProviderRepository) GetByID(ctx context.Context, id uuid.UUID) (*provider.Provider, error) {
	query := `SELECT ` + providerColumns + ` FROM providers WHERE provider_id = $1`
	return scanProvider(r.db.QueryRowContext(ctx, query, id))
}

// GetByUserID retrieves the provider owned by a user.
func (r *ProviderRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*provider.Provider, error) {
	query := `SELECT ` + providerColumns + ` FROM providers WHERE user_id = $1`
	return scanProvider(r.db.QueryRowContext(ctx, query, userID))
}

// ExistsByUserID checks if the user already owns a provider.
func (r *ProviderRepository) ExistsByUserID(ctx context.Context, userID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM providers WHERE user_id = $1)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check provider existence: %w", err)
	}

	return exists, nil
}

// Update persists changes to an existing provider.
func (r *ProviderRepository) Update(ctx context.Context, p *provider.Provider) error {
	return updateProvider(ctx, r.db, p)
}

// MarkVerified persists the verification flip and the pending grant in one transaction.
func (r *ProviderRepository) MarkVerified(ctx context.Context, p *provider.Provider, grant *provider.RoleGrant) error {
	return r.db.Transaction(ctx, func(tx *sql.Tx) error {
		if err := updateProvider(ctx, tx, p); err != nil {
			return err
		}
		return insertGrant(ctx, tx, grant)
	})
}

// ListPending retrieves unverified providers, oldest first.
func (r *ProviderRepository) ListPending(ctx context.Context, filter provider.ListFilter) ([]*provider.Provider, int64, error) {
	filter.Validate()

	var total int64
	countQuery := `SELECT COUNT(*) FROM providers WHERE is_verified = FALSE`
	if err := r.db.QueryRowContext(ctx, countQuery).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count pending providers: %w", err)
	}

	query := `SELECT ` + providerColumns + `
		FROM providers
		WHERE is_verified = FALSE
		ORDER BY created_at ASC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, filter.PageSize, filter.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list pending providers: %w", err)
	}
	defer closeRows(rows)

	var providers []*provider.Provider
	for rows.Next() {
		p, err := scanProvider(rows)
		if err != nil {
			return nil, 0, err
		}
		providers = append(providers, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating provider rows: %w", err)
	}

	return providers, total, nil
}

// ListPendingGrants returns up to limit grants that have not converged, oldest first.
func (r *ProviderRepository) ListPendingGrants(ctx context.Context, limit int) ([]*provider.RoleGrant, error) {
	query := `
		SELECT grant_id, provider_id, user_id, role_name, attempts, last_error, created_at, completed_at, abandoned_at
		FROM role_grants
		WHERE completed_at IS NULL AND abandoned_at IS NULL
		ORDER BY created_at ASC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending grants: %w", err)
	}
	defer closeRows(rows)

	var grants []*provider.RoleGrant
	for rows.Next() {
		var (
			id, providerID, userID uuid.UUID
			role, lastError        string
			attempts               int
			createdAt              time.Time
			completedAt            sql.NullTime
			abandonedAt            sql.NullTime
		)
		if err := rows.Scan(&id, &providerID, &userID, &role, &attempts, &lastError, &createdAt, &completedAt, &abandonedAt); err != nil {
			return nil, fmt.Errorf("failed to scan grant row: %w", err)
		}
		grants = append(grants, provider.ReconstructRoleGrant(
			id, providerID, userID, role, attempts, lastError, createdAt, nullTime(completedAt), nullTime(abandonedAt),
		))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating grant rows: %w", err)
	}

	return grants, nil
}

// SaveGrant persists the attempt counters, completion and abandonment of a
// grant. Rows already completed are never rewritten, so a slower concurrent
// attempt cannot reopen a converged grant.
func (r *ProviderRepository) SaveGrant(ctx context.Context, g *provider.RoleGrant) error {
	query := `
		UPDATE role_grants SET
			attempts = $2,
			last_error = $3,
			completed_at = $4,
			abandoned_at = $5
		WHERE grant_id = $1 AND completed_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, g.ID(), g.Attempts(), g.LastError(), g.CompletedAt(), g.AbandonedAt())
	if err != nil {
		return fmt.Errorf("failed to save grant: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected > 0 {
		return nil
	}

	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM role_grants WHERE grant_id = $1)`, g.ID()).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check grant existence: %w", err)
	}
	if !exists {
		return provider.ErrGrantNotFound
	}

	return nil
}

// ListSummaries returns the summaries of the given providers joined with the owner name.
func (r *ProviderRepository) ListSummaries(ctx context.Context, ids []uuid.UUID) ([]*provider.Summary, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = id.String()
	}

	query := `
		SELECT p.provider_id, u.name, p.service_name
		FROM providers p
		JOIN users u ON u.user_id = p.user_id
		WHERE p.provider_id = ANY($1::uuid[])
	`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(keys))
	if err != nil {
		return nil, fmt.Errorf("failed to list provider summaries: %w", err)
	}
	defer closeRows(rows)

	var summaries []*provider.Summary
	for rows.Next() {
		var s provider.Summary
		if err := rows.Scan(&s.ProviderID, &s.DisplayName, &s.ServiceName); err != nil {
			return nil, fmt.Errorf("failed to scan summary row: %w", err)
		}
		summaries = append(summaries, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating summary rows: %w", err)
	}

	return summaries, nil
}

// =============================================================================
// Helper functions
// =============================================================================

// execer is satisfied by both *DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func updateProvider(ctx context.Context, db execer, p *provider.Provider) error {
	query := `
		UPDATE providers SET
			cpf = $2,
			rg = $3,
			address = $4,
			phone = $5,
			service_name = $6,
			description = $7,
			categories = $8,
			document_photo_urls = $9,
			is_active = $10,
			is_verified = $11,
			updated_at = $12
		WHERE provider_id = $1
	`

	result, err := db.ExecContext(ctx, query,
		p.ID(),
		p.CPF(),
		p.RG(),
		p.Address(),
		p.Phone(),
		p.ServiceName(),
		p.Description(),
		pq.Array(p.Categories()),
		pq.Array(p.DocumentPhotoURLs()),
		p.IsActive(),
		p.IsVerified(),
		p.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to update provider: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return provider.ErrNotFound
	}

	return nil
}

func insertGrant(ctx context.Context, db execer, g *provider.RoleGrant) error {
	query := `
		INSERT INTO role_grants (
			grant_id, provider_id, user_id, role_name, attempts, last_error, created_at, completed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := db.ExecContext(ctx, query,
		g.ID(),
		g.ProviderID(),
		g.UserID(),
		g.Role(),
		g.Attempts(),
		g.LastError(),
		g.CreatedAt(),
		g.CompletedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to record role grant: %w", err)
	}

	return nil
}

func scanProvider(row rowScanner) (*provider.Provider, error) {
	var dto providerDTO
	err := row.Scan(
		&dto.ID,
		&dto.UserID,
		&dto.CPF,
		&dto.RG,
		&dto.Address,
		&dto.Phone,
		&dto.ServiceName,
		&dto.Description,
		&dto.Categories,
		&dto.DocumentPhotoURLs,
		&dto.IsActive,
		&dto.IsVerified,
		&dto.CreatedAt,
		&dto.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, provider.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan provider: %w", err)
	}

	return dto.ToEntity(), nil
}

// providerDTO is a data transfer object for database operations.
type providerDTO struct {
	ID                uuid.UUID
	UserID            uuid.UUID
	CPF               string
	RG                string
	Address           string
	Phone             string
	ServiceName       string
	Description       string
	Categories        pq.StringArray
	DocumentPhotoURLs pq.StringArray
	IsActive          bool
	IsVerified        bool
	CreatedAt         time.Time
	UpdatedAt         sql.NullTime
}

// ToEntity converts DTO to domain entity.
func (d *providerDTO) ToEntity() *provider.Provider {
	return provider.ReconstructProvider(
		d.ID,
		d.UserID,
		provider.Profile{
			CPF:         d.CPF,
			RG:          d.RG,
			Address:     d.Address,
			Phone:       d.Phone,
			ServiceName: d.ServiceName,
			Description: d.Description,
			Categories:  []string(d.Categories),
		},
		[]string(d.DocumentPhotoURLs),
		d.IsActive,
		d.IsVerified,
		d.CreatedAt,
		nullTime(d.UpdatedAt),
	)
}

func nullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
