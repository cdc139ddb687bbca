// AngelaMos | 2026
// entity.go

package subscription

import (
	"time"
)

type Subscription struct {
	UserID                 string     `db:"user_id"`
	Status                 Status     `db:"status"`
	Plan                   string     `db:"plan"`
	TrialEndsAt            *time.Time `db:"trial_ends_at"`
	CurrentPeriodEnd       *time.Time `db:"current_period_end"`
	CancelAtPeriodEnd      bool       `db:"cancel_at_period_end"`
	ProviderCustomerID     *string    `db:"provider_customer_id"`
	ProviderSubscriptionID *string    `db:"provider_subscription_id"`
	LastEventAt            *time.Time `db:"last_event_at"`
	Version                int        `db:"version"`
	CreatedAt              time.Time  `db:"created_at"`
	UpdatedAt              time.Time  `db:"updated_at"`
}

// StatusCount is one row of the per-status breakdown.
type StatusCount struct {
	Status Status `db:"status"`
	Count  int    `db:"count"`
}
