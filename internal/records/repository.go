// AngelaMos | 2026
// repository.go

package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/liftlog/liftlog-api/internal/core"
	"github.com/liftlog/liftlog-api/internal/strength"
)

type Repository interface {
	Create(ctx context.Context, rec *PersonalRecord) error
	GetByID(ctx context.Context, userID, id string) (*PersonalRecord, error)
	GetByIDAny(ctx context.Context, id string) (*PersonalRecord, error)
	BestWeight(
		ctx context.Context,
		userID, lift string,
		reps int,
		asOf time.Time,
	) (*PersonalRecord, error)
	BestWeightByCategory(
		ctx context.Context,
		userID string,
		category strength.Category,
		reps int,
		asOf time.Time,
	) (*PersonalRecord, error)
	ListActive(ctx context.Context, userID string) ([]PersonalRecord, error)
	ListByLift(
		ctx context.Context,
		userID, lift string,
		params core.PageParams,
	) ([]PersonalRecord, int, error)
	ListInWindow(
		ctx context.Context,
		userID, lift string,
		from time.Time,
		includeInactive bool,
	) ([]PersonalRecord, error)
	Latest(ctx context.Context, userID string) (*PersonalRecord, error)
	UpdateStatus(ctx context.Context, rec *PersonalRecord) error
	CountByUser(ctx context.Context, userID string, monthStart time.Time) (Counts, error)
}

type Counts struct {
	Active      int `db:"active"`
	Training    int `db:"training"`
	Competition int `db:"competition"`
	Verified    int `db:"verified"`
	ThisMonth   int `db:"this_month"`
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const recordColumns = `
	id, user_id, lift, weight, reps, date, context, workout_id, competition_id,
	rpe, estimated_one_rm, notes, is_active, verified, verified_by, verified_at,
	version, created_at, updated_at`

func (r *repository) Create(ctx context.Context, rec *PersonalRecord) error {
	query := `
		INSERT INTO personal_records (
			id, user_id, lift, weight, reps, date, context, workout_id,
			competition_id, rpe, estimated_one_rm, notes, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, true)
		RETURNING is_active, verified, version, created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		rec.ID,
		rec.UserID,
		rec.Lift,
		rec.Weight,
		rec.Reps,
		rec.Date,
		rec.Context,
		rec.WorkoutID,
		rec.CompetitionID,
		rec.RPE,
		rec.EstimatedOneRM,
		rec.Notes,
	).Scan(&rec.IsActive, &rec.Verified, &rec.Version, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("create record: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create record: %w", err)
	}

	return nil
}

func (r *repository) GetByID(
	ctx context.Context,
	userID, id string,
) (*PersonalRecord, error) {
	query := `SELECT` + recordColumns + `
		FROM personal_records
		WHERE id = $1 AND user_id = $2`

	var rec PersonalRecord
	err := r.db.GetContext(ctx, &rec, query, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get record: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get record: %w", err)
	}

	return &rec, nil
}

func (r *repository) GetByIDAny(
	ctx context.Context,
	id string,
) (*PersonalRecord, error) {
	query := `SELECT` + recordColumns + `
		FROM personal_records
		WHERE id = $1`

	var rec PersonalRecord
	err := r.db.GetContext(ctx, &rec, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get record: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get record: %w", err)
	}

	return &rec, nil
}

func (r *repository) BestWeight(
	ctx context.Context,
	userID, lift string,
	reps int,
	asOf time.Time,
) (*PersonalRecord, error) {
	query := `SELECT` + recordColumns + `
		FROM personal_records
		WHERE user_id = $1
		  AND lower(lift) = lower($2)
		  AND reps = $3
		  AND is_active
		  AND date <= $4
		ORDER BY weight DESC, date DESC, created_at DESC
		LIMIT 1`

	var rec PersonalRecord
	err := r.db.GetContext(ctx, &rec, query, userID, lift, reps, asOf)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("best weight: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("best weight: %w", err)
	}

	return &rec, nil
}

// liftCategorySQL mirrors strength.CategorizeLift: first substring match in
// squat, bench, deadlift order.
const liftCategorySQL = `
	CASE
		WHEN lower(lift) LIKE '%squat%' THEN 'squat'
		WHEN lower(lift) LIKE '%bench%' THEN 'bench'
		WHEN lower(lift) LIKE '%deadlift%' THEN 'deadlift'
		ELSE 'other'
	END`

// BestWeightByCategory is BestWeight across every lift name that categorizes
// to category, so "Back Squat" counts against a "Squat" attempt.
func (r *repository) BestWeightByCategory(
	ctx context.Context,
	userID string,
	category strength.Category,
	reps int,
	asOf time.Time,
) (*PersonalRecord, error) {
	query := `SELECT` + recordColumns + `
		FROM personal_records
		WHERE user_id = $1
		  AND` + liftCategorySQL + ` = $2
		  AND reps = $3
		  AND is_active
		  AND date <= $4
		ORDER BY weight DESC, date DESC, created_at DESC
		LIMIT 1`

	var rec PersonalRecord
	err := r.db.GetContext(ctx, &rec, query, userID, string(category), reps, asOf)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("best weight by category: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("best weight by category: %w", err)
	}

	return &rec, nil
}

func (r *repository) ListActive(
	ctx context.Context,
	userID string,
) ([]PersonalRecord, error) {
	query := `SELECT` + recordColumns + `
		FROM personal_records
		WHERE user_id = $1 AND is_active
		ORDER BY lower(lift), reps, weight DESC, date DESC`

	var recs []PersonalRecord
	if err := r.db.SelectContext(ctx, &recs, query, userID); err != nil {
		return nil, fmt.Errorf("list active records: %w", err)
	}

	return recs, nil
}

func (r *repository) ListByLift(
	ctx context.Context,
	userID, lift string,
	params core.PageParams,
) ([]PersonalRecord, int, error) {
	var total int
	countQuery := `
		SELECT COUNT(*) FROM personal_records
		WHERE user_id = $1 AND lower(lift) = lower($2) AND is_active`
	if err := r.db.GetContext(ctx, &total, countQuery, userID, lift); err != nil {
		return nil, 0, fmt.Errorf("count lift history: %w", err)
	}

	query := `SELECT` + recordColumns + `
		FROM personal_records
		WHERE user_id = $1 AND lower(lift) = lower($2) AND is_active
		ORDER BY date DESC, created_at DESC
		LIMIT $3 OFFSET $4`

	var recs []PersonalRecord
	err := r.db.SelectContext(ctx, &recs, query,
		userID,
		lift,
		params.PageSize,
		params.Offset(),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list lift history: %w", err)
	}

	return recs, total, nil
}

func (r *repository) ListInWindow(
	ctx context.Context,
	userID, lift string,
	from time.Time,
	includeInactive bool,
) ([]PersonalRecord, error) {
	query := `SELECT` + recordColumns + `
		FROM personal_records
		WHERE user_id = $1
		  AND date >= $2
		  AND ($3 = '' OR lower(lift) = lower($3))
		  AND ($4 OR is_active)
		ORDER BY date ASC, created_at ASC`

	var recs []PersonalRecord
	err := r.db.SelectContext(ctx, &recs, query, userID, from, lift, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("list records in window: %w", err)
	}

	return recs, nil
}

func (r *repository) Latest(
	ctx context.Context,
	userID string,
) (*PersonalRecord, error) {
	query := `SELECT` + recordColumns + `
		FROM personal_records
		WHERE user_id = $1 AND is_active
		ORDER BY date DESC, created_at DESC
		LIMIT 1`

	var rec PersonalRecord
	err := r.db.GetContext(ctx, &rec, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("latest record: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("latest record: %w", err)
	}

	return &rec, nil
}

// UpdateStatus writes the active and verification fields guarded by the
// record version.
func (r *repository) UpdateStatus(ctx context.Context, rec *PersonalRecord) error {
	query := `
		UPDATE personal_records
		SET is_active = $3,
		    verified = $4,
		    verified_by = $5,
		    verified_at = $6,
		    version = version + 1,
		    updated_at = NOW()
		WHERE id = $1 AND version = $2
		RETURNING version, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		rec.ID,
		rec.Version,
		rec.IsActive,
		rec.Verified,
		rec.VerifiedBy,
		rec.VerifiedAt,
	).Scan(&rec.Version, &rec.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update record status: %w", core.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("update record status: %w", err)
	}

	return nil
}

func (r *repository) CountByUser(
	ctx context.Context,
	userID string,
	monthStart time.Time,
) (Counts, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE is_active)                          AS active,
			COUNT(*) FILTER (WHERE is_active AND context = 'training')    AS training,
			COUNT(*) FILTER (WHERE is_active AND context = 'competition') AS competition,
			COUNT(*) FILTER (WHERE is_active AND verified)             AS verified,
			COUNT(*) FILTER (WHERE is_active AND date >= $2)           AS this_month
		FROM personal_records
		WHERE user_id = $1`

	var c Counts
	if err := r.db.GetContext(ctx, &c, query, userID, monthStart); err != nil {
		return Counts{}, fmt.Errorf("count records: %w", err)
	}

	return c, nil
}
