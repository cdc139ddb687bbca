// AngelaMos | 2026
// provider.go

package subscription

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/liftlog/liftlog-api/internal/config"
)

var ErrInvalidSignature = errors.New("invalid webhook signature")

// ProviderEvent is the subset of a billing provider event used to reconcile
// local state.
type ProviderEvent struct {
	ID                string
	Type              string
	Created           time.Time
	CustomerID        string
	SubscriptionID    string
	UserID            string
	Plan              string
	ProviderStatus    string
	CurrentPeriodEnd  *time.Time
	CancelAtPeriodEnd bool
}

// Action maps the provider event onto a local state machine event. The
// second result is false for events that carry no state change.
func (e *ProviderEvent) Action() (Event, bool) {
	switch stripe.EventType(e.Type) {
	case stripe.EventTypeCustomerSubscriptionCreated, stripe.EventTypeCustomerSubscriptionUpdated:
		switch stripe.SubscriptionStatus(e.ProviderStatus) {
		case stripe.SubscriptionStatusActive, stripe.SubscriptionStatusTrialing:
			if e.CancelAtPeriodEnd {
				return EventCancel, true
			}
			return EventActivate, true
		case stripe.SubscriptionStatusPastDue:
			return EventPaymentFailed, true
		case stripe.SubscriptionStatusUnpaid:
			return EventMarkUnpaid, true
		case stripe.SubscriptionStatusCanceled, stripe.SubscriptionStatusIncompleteExpired:
			return EventExpire, true
		}
	case stripe.EventTypeCustomerSubscriptionDeleted:
		return EventExpire, true
	case stripe.EventTypeInvoicePaid:
		return EventActivate, true
	case stripe.EventTypeInvoicePaymentFailed:
		return EventPaymentFailed, true
	}
	return "", false
}

type Verifier interface {
	Verify(payload []byte, signatureHeader string) (*ProviderEvent, error)
}

type StripeVerifier struct {
	secret    string
	tolerance time.Duration
}

func NewStripeVerifier(secret string, tolerance time.Duration) *StripeVerifier {
	return &StripeVerifier{secret: secret, tolerance: tolerance}
}

// Verify checks the Stripe-Signature header before decoding anything from the
// payload. Every failure wraps ErrInvalidSignature.
func (v *StripeVerifier) Verify(payload []byte, signatureHeader string) (*ProviderEvent, error) {
	if v.secret == "" {
		return nil, fmt.Errorf("%w: no signing secret configured", ErrInvalidSignature)
	}

	evt, err := webhook.ConstructEventWithOptions(payload, signatureHeader, v.secret,
		webhook.ConstructEventOptions{
			Tolerance:                v.tolerance,
			IgnoreAPIVersionMismatch: true,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	return decodeEvent(evt)
}

type subscriptionObject struct {
	ID                string                    `json:"id"`
	Customer          string                    `json:"customer"`
	Status            stripe.SubscriptionStatus `json:"status"`
	CancelAtPeriodEnd bool                      `json:"cancel_at_period_end"`
	CurrentPeriodEnd  int64                     `json:"current_period_end"`
	Metadata          map[string]string         `json:"metadata"`
	Items             struct {
		Data []struct {
			CurrentPeriodEnd int64 `json:"current_period_end"`
			Price            struct {
				ID        string `json:"id"`
				LookupKey string `json:"lookup_key"`
			} `json:"price"`
		} `json:"data"`
	} `json:"items"`
}

type invoiceObject struct {
	Customer     string `json:"customer"`
	Subscription string `json:"subscription"`
	Lines        struct {
		Data []struct {
			Period struct {
				End int64 `json:"end"`
			} `json:"period"`
		} `json:"data"`
	} `json:"lines"`
}

func decodeEvent(evt stripe.Event) (*ProviderEvent, error) {
	pe := &ProviderEvent{
		ID:      evt.ID,
		Type:    string(evt.Type),
		Created: time.Unix(evt.Created, 0).UTC(),
	}
	if evt.Data == nil {
		return pe, nil
	}

	switch evt.Type {
	case stripe.EventTypeCustomerSubscriptionCreated,
		stripe.EventTypeCustomerSubscriptionUpdated,
		stripe.EventTypeCustomerSubscriptionDeleted:
		var obj subscriptionObject
		if err := json.Unmarshal(evt.Data.Raw, &obj); err != nil {
			return nil, fmt.Errorf("decode subscription object: %w", err)
		}

		pe.CustomerID = obj.Customer
		pe.SubscriptionID = obj.ID
		pe.UserID = obj.Metadata["user_id"]
		pe.ProviderStatus = string(obj.Status)
		pe.CancelAtPeriodEnd = obj.CancelAtPeriodEnd

		periodEnd := obj.CurrentPeriodEnd
		for _, item := range obj.Items.Data {
			periodEnd = max(periodEnd, item.CurrentPeriodEnd)
			if pe.Plan == "" {
				pe.Plan = item.Price.LookupKey
				if pe.Plan == "" {
					pe.Plan = item.Price.ID
				}
			}
		}
		pe.CurrentPeriodEnd = unixPtr(periodEnd)

	case stripe.EventTypeInvoicePaid, stripe.EventTypeInvoicePaymentFailed:
		var obj invoiceObject
		if err := json.Unmarshal(evt.Data.Raw, &obj); err != nil {
			return nil, fmt.Errorf("decode invoice object: %w", err)
		}

		pe.CustomerID = obj.Customer
		pe.SubscriptionID = obj.Subscription

		var periodEnd int64
		for _, line := range obj.Lines.Data {
			periodEnd = max(periodEnd, line.Period.End)
		}
		pe.CurrentPeriodEnd = unixPtr(periodEnd)
	}

	return pe, nil
}

func unixPtr(sec int64) *time.Time {
	if sec <= 0 {
		return nil
	}
	t := time.Unix(sec, 0).UTC()
	return &t
}

// Billing performs user-initiated changes at the provider.
type Billing interface {
	CancelAtPeriodEnd(ctx context.Context, providerSubscriptionID string) error
	Resume(ctx context.Context, providerSubscriptionID string) error
}

func NewBilling(cfg config.BillingConfig) Billing {
	if !cfg.Enabled {
		return NopBilling{}
	}
	return NewStripeBilling(cfg.SecretKey)
}

type StripeBilling struct {
	api *client.API
}

func NewStripeBilling(secretKey string) *StripeBilling {
	return &StripeBilling{api: client.New(secretKey, nil)}
}

func (b *StripeBilling) CancelAtPeriodEnd(ctx context.Context, id string) error {
	return b.setCancelAtPeriodEnd(ctx, id, true)
}

func (b *StripeBilling) Resume(ctx context.Context, id string) error {
	return b.setCancelAtPeriodEnd(ctx, id, false)
}

func (b *StripeBilling) setCancelAtPeriodEnd(ctx context.Context, id string, cancel bool) error {
	params := &stripe.SubscriptionParams{
		CancelAtPeriodEnd: stripe.Bool(cancel),
	}
	params.Context = ctx

	if _, err := b.api.Subscriptions.Update(id, params); err != nil {
		return fmt.Errorf("stripe update subscription %s: %w", id, err)
	}
	return nil
}

type NopBilling struct{}

func (NopBilling) CancelAtPeriodEnd(context.Context, string) error { return nil }

func (NopBilling) Resume(context.Context, string) error { return nil }
