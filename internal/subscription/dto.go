// AngelaMos | 2026
// dto.go

package subscription

import (
	"time"
)

type SubscriptionResponse struct {
	Status            Status     `json:"status"`
	Plan              string     `json:"plan"`
	HasAccess         bool       `json:"has_access"`
	TrialEndsAt       *time.Time `json:"trial_ends_at,omitempty"`
	CurrentPeriodEnd  *time.Time `json:"current_period_end,omitempty"`
	GraceEndsAt       *time.Time `json:"grace_ends_at,omitempty"`
	CancelAtPeriodEnd bool       `json:"cancel_at_period_end"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func (s *Service) toResponse(sub *Subscription) SubscriptionResponse {
	return SubscriptionResponse{
		Status:            sub.Status,
		Plan:              sub.Plan,
		HasAccess:         s.Access(sub),
		TrialEndsAt:       sub.TrialEndsAt,
		CurrentPeriodEnd:  sub.CurrentPeriodEnd,
		GraceEndsAt:       s.GraceEndsAt(sub),
		CancelAtPeriodEnd: sub.CancelAtPeriodEnd,
		UpdatedAt:         sub.UpdatedAt,
	}
}

type WebhookResponse struct {
	Received bool    `json:"received"`
	Outcome  Outcome `json:"outcome"`
}
