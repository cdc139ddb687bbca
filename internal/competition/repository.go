// AngelaMos | 2026
// repository.go

package competition

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/liftlog/liftlog-api/internal/core"
)

type Repository interface {
	Create(ctx context.Context, c *Competition) error
	GetByID(ctx context.Context, userID, id string) (*Competition, error)
	List(
		ctx context.Context,
		userID string,
		status Status,
		params core.PageParams,
	) ([]Competition, int, error)
	Update(ctx context.Context, c *Competition) error
	Delete(ctx context.Context, userID, id string) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const competitionColumns = `
	id, user_id, name, date, location, federation, division, weight_class,
	bodyweight, status, attempts, placement, notes, created_at, updated_at`

func (r *repository) Create(ctx context.Context, c *Competition) error {
	query := `
		INSERT INTO competitions (
			id, user_id, name, date, location, federation, division,
			weight_class, bodyweight, status, attempts, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		c.ID,
		c.UserID,
		c.Name,
		c.Date,
		c.Location,
		c.Federation,
		c.Division,
		c.WeightClass,
		c.Bodyweight,
		c.Status,
		c.Attempts,
		c.Notes,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create competition: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, userID, id string) (*Competition, error) {
	query := `SELECT` + competitionColumns + `
		FROM competitions
		WHERE id = $1 AND user_id = $2`

	var c Competition
	err := r.db.GetContext(ctx, &c, query, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get competition: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get competition: %w", err)
	}

	return &c, nil
}

func (r *repository) List(
	ctx context.Context,
	userID string,
	status Status,
	params core.PageParams,
) ([]Competition, int, error) {
	var total int
	countQuery := `
		SELECT COUNT(*) FROM competitions
		WHERE user_id = $1 AND ($2 = '' OR status = $2)`
	if err := r.db.GetContext(ctx, &total, countQuery, userID, string(status)); err != nil {
		return nil, 0, fmt.Errorf("count competitions: %w", err)
	}

	query := `SELECT` + competitionColumns + `
		FROM competitions
		WHERE user_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY date DESC, created_at DESC
		LIMIT $3 OFFSET $4`

	var comps []Competition
	err := r.db.SelectContext(ctx, &comps, query,
		userID,
		string(status),
		params.PageSize,
		params.Offset(),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list competitions: %w", err)
	}

	return comps, total, nil
}

func (r *repository) Update(ctx context.Context, c *Competition) error {
	query := `
		UPDATE competitions
		SET name = $3,
		    date = $4,
		    location = $5,
		    federation = $6,
		    division = $7,
		    weight_class = $8,
		    bodyweight = $9,
		    status = $10,
		    attempts = $11,
		    placement = $12,
		    notes = $13,
		    updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &c.UpdatedAt, query,
		c.ID,
		c.UserID,
		c.Name,
		c.Date,
		c.Location,
		c.Federation,
		c.Division,
		c.WeightClass,
		c.Bodyweight,
		c.Status,
		c.Attempts,
		c.Placement,
		c.Notes,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update competition: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update competition: %w", err)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, userID, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM competitions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete competition: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete competition: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete competition: %w", core.ErrNotFound)
	}

	return nil
}
