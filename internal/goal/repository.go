// AngelaMos | 2026
// repository.go

package goal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/liftlog/liftlog-api/internal/core"
)

type Repository interface {
	Create(ctx context.Context, g *Goal) error
	GetByID(ctx context.Context, userID, id string) (*Goal, error)
	ListByYear(ctx context.Context, userID string, year int) ([]Goal, error)
	Update(ctx context.Context, g *Goal) error
	MarkAchieved(ctx context.Context, id string, at time.Time) error
	Delete(ctx context.Context, userID, id string) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, g *Goal) error {
	query := `
		INSERT INTO goals (id, user_id, year, target, target_weight, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		g.ID,
		g.UserID,
		g.Year,
		g.Target,
		g.TargetWeight,
		g.Notes,
	).Scan(&g.CreatedAt, &g.UpdatedAt)
	if core.IsDuplicateKeyError(err) {
		return fmt.Errorf("create goal: %w", core.ErrDuplicateKey)
	}
	if err != nil {
		return fmt.Errorf("create goal: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, userID, id string) (*Goal, error) {
	query := `
		SELECT id, user_id, year, target, target_weight, achieved_at, notes,
		       created_at, updated_at
		FROM goals
		WHERE id = $1 AND user_id = $2`

	var g Goal
	err := r.db.GetContext(ctx, &g, query, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get goal: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get goal: %w", err)
	}

	return &g, nil
}

func (r *repository) ListByYear(ctx context.Context, userID string, year int) ([]Goal, error) {
	query := `
		SELECT id, user_id, year, target, target_weight, achieved_at, notes,
		       created_at, updated_at
		FROM goals
		WHERE user_id = $1 AND year = $2
		ORDER BY CASE target
			WHEN 'squat' THEN 1 WHEN 'bench' THEN 2
			WHEN 'deadlift' THEN 3 ELSE 4 END`

	var goals []Goal
	if err := r.db.SelectContext(ctx, &goals, query, userID, year); err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}

	return goals, nil
}

func (r *repository) Update(ctx context.Context, g *Goal) error {
	query := `
		UPDATE goals
		SET target_weight = $3,
		    achieved_at = $4,
		    notes = $5,
		    updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &g.UpdatedAt, query,
		g.ID,
		g.UserID,
		g.TargetWeight,
		g.AchievedAt,
		g.Notes,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update goal: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update goal: %w", err)
	}

	return nil
}

// MarkAchieved stamps a goal once. Later calls keep the first timestamp.
func (r *repository) MarkAchieved(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE goals
		SET achieved_at = $2, updated_at = NOW()
		WHERE id = $1 AND achieved_at IS NULL`, id, at)
	if err != nil {
		return fmt.Errorf("mark goal achieved: %w", err)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, userID, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM goals WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete goal: %w", core.ErrNotFound)
	}

	return nil
}
