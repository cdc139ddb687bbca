// AngelaMos | 2026
// repository.go

package subscription

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/liftlog/liftlog-api/internal/core"
)

type Repository interface {
	Create(ctx context.Context, sub *Subscription) error
	GetByUserID(ctx context.Context, userID string) (*Subscription, error)
	GetByCustomerID(ctx context.Context, customerID string) (*Subscription, error)
	Update(ctx context.Context, sub *Subscription) error
	CountByStatus(ctx context.Context) ([]StatusCount, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const subscriptionColumns = `
	user_id, status, plan, trial_ends_at, current_period_end, cancel_at_period_end,
	provider_customer_id, provider_subscription_id, last_event_at, version,
	created_at, updated_at`

func (r *repository) Create(ctx context.Context, sub *Subscription) error {
	query := `
		INSERT INTO subscriptions (
			user_id, status, plan, trial_ends_at, current_period_end
		) VALUES ($1, $2, $3, $4, $5)
		RETURNING version, created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		sub.UserID,
		sub.Status,
		sub.Plan,
		sub.TrialEndsAt,
		sub.CurrentPeriodEnd,
	).Scan(&sub.Version, &sub.CreatedAt, &sub.UpdatedAt)
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("create subscription: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create subscription: %w", err)
	}

	return nil
}

func (r *repository) GetByUserID(ctx context.Context, userID string) (*Subscription, error) {
	query := `SELECT` + subscriptionColumns + `
		FROM subscriptions
		WHERE user_id = $1`

	var sub Subscription
	err := r.db.GetContext(ctx, &sub, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get subscription: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get subscription: %w", err)
	}

	return &sub, nil
}

func (r *repository) GetByCustomerID(ctx context.Context, customerID string) (*Subscription, error) {
	query := `SELECT` + subscriptionColumns + `
		FROM subscriptions
		WHERE provider_customer_id = $1`

	var sub Subscription
	err := r.db.GetContext(ctx, &sub, query, customerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get subscription by customer: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get subscription by customer: %w", err)
	}

	return &sub, nil
}

// Update writes every mutable column if sub.Version still matches the stored
// row, then bumps sub.Version.
func (r *repository) Update(ctx context.Context, sub *Subscription) error {
	query := `
		UPDATE subscriptions
		SET status = $3,
		    plan = $4,
		    trial_ends_at = $5,
		    current_period_end = $6,
		    cancel_at_period_end = $7,
		    provider_customer_id = $8,
		    provider_subscription_id = $9,
		    last_event_at = $10,
		    version = version + 1,
		    updated_at = NOW()
		WHERE user_id = $1 AND version = $2
		RETURNING version, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		sub.UserID,
		sub.Version,
		sub.Status,
		sub.Plan,
		sub.TrialEndsAt,
		sub.CurrentPeriodEnd,
		sub.CancelAtPeriodEnd,
		sub.ProviderCustomerID,
		sub.ProviderSubscriptionID,
		sub.LastEventAt,
	).Scan(&sub.Version, &sub.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update subscription: %w", core.ErrConflict)
	}
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("update subscription: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("update subscription: %w", err)
	}

	return nil
}

func (r *repository) CountByStatus(ctx context.Context) ([]StatusCount, error) {
	query := `
		SELECT status, COUNT(*) AS count
		FROM subscriptions
		GROUP BY status
		ORDER BY status`

	var counts []StatusCount
	if err := r.db.SelectContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("count subscriptions: %w", err)
	}

	return counts, nil
}
