// AngelaMos | 2026
// events.go

package events

import (
	"context"
	"time"
)

const (
	TypePersonalRecordAchieved = "personal_record.achieved"
	TypeSubscriptionChanged    = "subscription.changed"
)

// Event is a domain event. Key selects the partition; events for one user
// share a key so consumers see them in order.
type Event struct {
	Type       string    `json:"type"`
	Key        string    `json:"key"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

type Publisher interface {
	Publish(ctx context.Context, events ...Event) error
	Close() error
}

type PersonalRecordAchieved struct {
	RecordID       string   `json:"record_id"`
	UserID         string   `json:"user_id"`
	Lift           string   `json:"lift"`
	Weight         float64  `json:"weight"`
	Reps           int      `json:"reps"`
	EstimatedOneRM float64  `json:"estimated_one_rm"`
	Context        string   `json:"context"`
	PreviousBest   *float64 `json:"previous_best,omitempty"`
}

type SubscriptionChanged struct {
	UserID string `json:"user_id"`
	From   string `json:"from"`
	To     string `json:"to"`
	Reason string `json:"reason"`
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, ...Event) error { return nil }

func (NopPublisher) Close() error { return nil }
