// AngelaMos | 2026
// repository.go

package workout

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/liftlog/liftlog-api/internal/core"
)

type Repository interface {
	Create(ctx context.Context, w *Workout) error
	GetByID(ctx context.Context, userID, id string) (*Workout, error)
	List(ctx context.Context, userID string, filter ListFilter) ([]Workout, int, error)
	ListBetween(ctx context.Context, userID string, from, to time.Time) ([]Workout, error)
	Update(ctx context.Context, w *Workout) error
	SoftDelete(ctx context.Context, userID, id string) error
}

// ListFilter narrows a workout listing. Zero dates and an empty status are
// ignored.
type ListFilter struct {
	From   time.Time
	To     time.Time
	Status Status
	Page   core.PageParams
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const workoutColumns = `
	id, user_id, name, date, status, exercises, duration_min, notes,
	completed_at, records_set, created_at, updated_at, deleted_at`

func (r *repository) Create(ctx context.Context, w *Workout) error {
	query := `
		INSERT INTO workouts (
			id, user_id, name, date, status, exercises, duration_min, notes, completed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		w.ID,
		w.UserID,
		w.Name,
		w.Date,
		w.Status,
		w.Exercises,
		w.DurationMin,
		w.Notes,
		w.CompletedAt,
	).Scan(&w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create workout: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, userID, id string) (*Workout, error) {
	query := `SELECT` + workoutColumns + `
		FROM workouts
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`

	var w Workout
	err := r.db.GetContext(ctx, &w, query, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get workout: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get workout: %w", err)
	}

	return &w, nil
}

func (r *repository) List(
	ctx context.Context,
	userID string,
	filter ListFilter,
) ([]Workout, int, error) {
	where := `
		WHERE user_id = $1
		  AND deleted_at IS NULL
		  AND ($2::date IS NULL OR date >= $2)
		  AND ($3::date IS NULL OR date <= $3)
		  AND ($4 = '' OR status = $4)`

	args := []any{userID, nullDate(filter.From), nullDate(filter.To), string(filter.Status)}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM workouts`+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count workouts: %w", err)
	}

	query := `SELECT` + workoutColumns + `
		FROM workouts` + where + `
		ORDER BY date DESC, created_at DESC
		LIMIT $5 OFFSET $6`

	var workouts []Workout
	args = append(args, filter.Page.PageSize, filter.Page.Offset())
	if err := r.db.SelectContext(ctx, &workouts, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list workouts: %w", err)
	}

	return workouts, total, nil
}

func (r *repository) ListBetween(
	ctx context.Context,
	userID string,
	from, to time.Time,
) ([]Workout, error) {
	query := `SELECT` + workoutColumns + `
		FROM workouts
		WHERE user_id = $1
		  AND deleted_at IS NULL
		  AND date >= $2
		  AND date < $3
		ORDER BY date ASC, created_at ASC`

	var workouts []Workout
	if err := r.db.SelectContext(ctx, &workouts, query, userID, from, to); err != nil {
		return nil, fmt.Errorf("list workouts between: %w", err)
	}

	return workouts, nil
}

func (r *repository) Update(ctx context.Context, w *Workout) error {
	query := `
		UPDATE workouts
		SET name = $3,
		    date = $4,
		    status = $5,
		    exercises = $6,
		    duration_min = $7,
		    notes = $8,
		    completed_at = $9,
		    records_set = $10,
		    updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &w.UpdatedAt, query,
		w.ID,
		w.UserID,
		w.Name,
		w.Date,
		w.Status,
		w.Exercises,
		w.DurationMin,
		w.Notes,
		w.CompletedAt,
		w.RecordsSet,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update workout: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update workout: %w", err)
	}

	return nil
}

func (r *repository) SoftDelete(ctx context.Context, userID, id string) error {
	query := `
		UPDATE workouts
		SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("delete workout: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete workout: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete workout: %w", core.ErrNotFound)
	}

	return nil
}

func nullDate(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
