package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mutugading/marketplace-backend/internal/domain/evaluation"
	"github.com/mutugading/marketplace-backend/internal/domain/favorite"
	"github.com/mutugading/marketplace-backend/internal/domain/schedule"
)

// ScheduleRepository implements schedule.Repository using PostgreSQL.
type ScheduleRepository struct {
	db *DB
}

// NewScheduleRepository creates a new ScheduleRepository instance.
func NewScheduleRepository(db *DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

var _ schedule.Repository = (*ScheduleRepository)(nil)

// Create persists a new schedule row.
func (r *ScheduleRepository) Create(ctx context.Context, s *schedule.Schedule) error {
	query := `
		INSERT INTO schedules (
			schedule_id, provider_id, day_of_week, start_time, end_time, is_available, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		s.ID(),
		s.ProviderID(),
		int(s.DayOfWeek()),
		s.StartTime(),
		s.EndTime(),
		s.IsAvailable(),
		s.CreatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to create schedule: %w", err)
	}

	return nil
}

// ListByProviderID returns every schedule row of a provider in insertion order.
func (r *ScheduleRepository) ListByProviderID(ctx context.Context, providerID uuid.UUID) ([]*schedule.Schedule, error) {
	query := `
		SELECT schedule_id, provider_id, day_of_week, start_time, end_time, is_available, created_at
		FROM schedules
		WHERE provider_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, providerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	defer closeRows(rows)

	var schedules []*schedule.Schedule
	for rows.Next() {
		var (
			id, pid     uuid.UUID
			day         int
			start, end  string
			isAvailable bool
			createdAt   time.Time
		)
		if err := rows.Scan(&id, &pid, &day, &start, &end, &isAvailable, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan schedule row: %w", err)
		}
		schedules = append(schedules, schedule.ReconstructSchedule(
			id, pid, schedule.DayOfWeek(day), start, end, isAvailable, createdAt,
		))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating schedule rows: %w", err)
	}

	return schedules, nil
}

// FavoriteRepository implements favorite.Repository using PostgreSQL.
type FavoriteRepository struct {
	db *DB
}

// NewFavoriteRepository creates a new FavoriteRepository instance.
func NewFavoriteRepository(db *DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

var _ favorite.Repository = (*FavoriteRepository)(nil)

// Create persists a favorite.
func (r *FavoriteRepository) Create(ctx context.Context, f *favorite.Favorite) error {
	query := `
		INSERT INTO favorites (favorite_id, user_id, provider_id, created_at)
		VALUES ($1, $2, $3, $4)
	`

	if _, err := r.db.ExecContext(ctx, query, f.ID(), f.UserID(), f.ProviderID(), f.CreatedAt()); err != nil {
		if isUniqueViolation(err) {
			return favorite.ErrAlreadyExists
		}
		return fmt.Errorf("failed to create favorite: %w", err)
	}

	return nil
}

// GetByUserAndProvider retrieves the favorite of the pair.
func (r *FavoriteRepository) GetByUserAndProvider(ctx context.Context, userID, providerID uuid.UUID) (*favorite.Favorite, error) {
	query := `
		SELECT favorite_id, user_id, provider_id, created_at
		FROM favorites
		WHERE user_id = $1 AND provider_id = $2
	`

	f, err := scanFavorite(r.db.QueryRowContext(ctx, query, userID, providerID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, favorite.ErrNotFound
	}
	return f, err
}

// ExistsByUserAndProvider checks whether the pair is a favorite.
func (r *FavoriteRepository) ExistsByUserAndProvider(ctx context.Context, userID, providerID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM favorites WHERE user_id = $1 AND provider_id = $2)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, userID, providerID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check favorite existence: %w", err)
	}

	return exists, nil
}

// ListByUserID returns every favorite of a user, oldest first.
func (r *FavoriteRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*favorite.Favorite, error) {
	query := `
		SELECT favorite_id, user_id, provider_id, created_at
		FROM favorites
		WHERE user_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	defer closeRows(rows)

	var favorites []*favorite.Favorite
	for rows.Next() {
		f, err := scanFavorite(rows)
		if err != nil {
			return nil, err
		}
		favorites = append(favorites, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating favorite rows: %w", err)
	}

	return favorites, nil
}

// Delete removes a favorite.
func (r *FavoriteRepository) Delete(ctx context.Context, f *favorite.Favorite) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM favorites WHERE favorite_id = $1`, f.ID())
	if err != nil {
		return fmt.Errorf("failed to delete favorite: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return favorite.ErrNotFound
	}

	return nil
}

func scanFavorite(row rowScanner) (*favorite.Favorite, error) {
	var (
		id, userID, providerID uuid.UUID
		createdAt              time.Time
	)
	if err := row.Scan(&id, &userID, &providerID, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan favorite: %w", err)
	}
	return favorite.ReconstructFavorite(id, userID, providerID, createdAt), nil
}

// EvaluationRepository implements evaluation.Repository using PostgreSQL.
type EvaluationRepository struct {
	db *DB
}

// NewEvaluationRepository creates a new EvaluationRepository instance.
func NewEvaluationRepository(db *DB) *EvaluationRepository {
	return &EvaluationRepository{db: db}
}

var _ evaluation.Repository = (*EvaluationRepository)(nil)

// Create persists an evaluation.
func (r *EvaluationRepository) Create(ctx context.Context, e *evaluation.Evaluation) error {
	query := `
		INSERT INTO evaluations (evaluation_id, user_id, provider_id, note, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query, e.ID(), e.UserID(), e.ProviderID(), e.Note(), e.Comment(), e.CreatedAt())
	if err != nil {
		if isUniqueViolation(err) {
			return evaluation.ErrAlreadyExists
		}
		return fmt.Errorf("failed to create evaluation: %w", err)
	}

	return nil
}

// ExistsByUserAndProvider checks whether the user already evaluated the provider.
func (r *EvaluationRepository) ExistsByUserAndProvider(ctx context.Context, userID, providerID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM evaluations WHERE user_id = $1 AND provider_id = $2)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, userID, providerID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check evaluation existence: %w", err)
	}

	return exists, nil
}

// ListByProviderID returns every evaluation of a provider, newest first.
func (r *EvaluationRepository) ListByProviderID(ctx context.Context, providerID uuid.UUID) ([]*evaluation.Evaluation, error) {
	query := `
		SELECT evaluation_id, user_id, provider_id, note, comment, created_at
		FROM evaluations
		WHERE provider_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, providerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list evaluations: %w", err)
	}
	defer closeRows(rows)

	var evals []*evaluation.Evaluation
	for rows.Next() {
		var (
			id, userID, pid uuid.UUID
			note            int
			comment         string
			createdAt       time.Time
		)
		if err := rows.Scan(&id, &userID, &pid, &note, &comment, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan evaluation row: %w", err)
		}
		evals = append(evals, evaluation.ReconstructEvaluation(id, userID, pid, note, comment, createdAt))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating evaluation rows: %w", err)
	}

	return evals, nil
}
