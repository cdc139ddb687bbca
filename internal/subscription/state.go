// AngelaMos | 2026
// state.go

package subscription

import (
	"errors"
	"fmt"
	"time"
)

type Status string

const (
	StatusTrial     Status = "trial"
	StatusActive    Status = "active"
	StatusPastDue   Status = "past_due"
	StatusCancelled Status = "cancelled"
	StatusUnpaid    Status = "unpaid"
	StatusExpired   Status = "expired"
)

func AllStatuses() []Status {
	return []Status{
		StatusTrial,
		StatusActive,
		StatusPastDue,
		StatusCancelled,
		StatusUnpaid,
		StatusExpired,
	}
}

type Event string

const (
	EventActivate      Event = "activate"
	EventPaymentFailed Event = "payment_failed"
	EventMarkUnpaid    Event = "mark_unpaid"
	EventCancel        Event = "cancel"
	EventReactivate    Event = "reactivate"
	EventExpire        Event = "expire"
	EventTrialExpired  Event = "trial_expired"
)

var ErrInvalidTransition = errors.New("invalid subscription transition")

// transitions lists every allowed move. Self-loops let provider redeliveries
// refresh timestamps without a status change.
var transitions = map[Status]map[Event]Status{
	StatusTrial: {
		EventActivate:     StatusActive,
		EventTrialExpired: StatusExpired,
	},
	StatusActive: {
		EventActivate:      StatusActive,
		EventPaymentFailed: StatusPastDue,
		EventCancel:        StatusCancelled,
		EventExpire:        StatusExpired,
	},
	StatusPastDue: {
		EventActivate:      StatusActive,
		EventPaymentFailed: StatusPastDue,
		EventMarkUnpaid:    StatusUnpaid,
		EventCancel:        StatusCancelled,
		EventExpire:        StatusExpired,
	},
	StatusCancelled: {
		EventActivate:   StatusActive,
		EventReactivate: StatusActive,
		EventCancel:     StatusCancelled,
		EventExpire:     StatusExpired,
	},
	StatusUnpaid: {
		EventActivate:   StatusActive,
		EventMarkUnpaid: StatusUnpaid,
		EventExpire:     StatusExpired,
	},
	StatusExpired: {
		EventActivate: StatusActive,
		EventExpire:   StatusExpired,
	},
}

// Transition returns the status reached by applying event to current, or
// ErrInvalidTransition when the table has no such edge.
func Transition(current Status, event Event) (Status, error) {
	next, ok := transitions[current][event]
	if !ok {
		return current, fmt.Errorf("%w: %s on %s", ErrInvalidTransition, event, current)
	}
	return next, nil
}

// HasAccess derives feature access from the stored timestamps alone.
func HasAccess(sub *Subscription, now time.Time, grace time.Duration) bool {
	if sub == nil {
		return false
	}

	switch sub.Status {
	case StatusTrial:
		return sub.TrialEndsAt != nil && now.Before(*sub.TrialEndsAt)
	case StatusActive:
		return sub.CurrentPeriodEnd == nil || now.Before(*sub.CurrentPeriodEnd)
	case StatusPastDue:
		return sub.CurrentPeriodEnd != nil && now.Before(sub.CurrentPeriodEnd.Add(grace))
	case StatusCancelled:
		return sub.CurrentPeriodEnd != nil && now.Before(*sub.CurrentPeriodEnd)
	default:
		return false
	}
}

// GraceEndsAt is when a past-due subscription loses access.
func GraceEndsAt(sub *Subscription, grace time.Duration) *time.Time {
	if sub.Status != StatusPastDue || sub.CurrentPeriodEnd == nil {
		return nil
	}
	t := sub.CurrentPeriodEnd.Add(grace)
	return &t
}
