// AngelaMos | 2026
// service.go

package subscription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/liftlog/liftlog-api/internal/config"
	"github.com/liftlog/liftlog-api/internal/core"
	"github.com/liftlog/liftlog-api/internal/events"
)

var ErrBillingUnavailable = errors.New("billing provider unavailable")

// Outcome describes what a verified webhook delivery did.
type Outcome string

const (
	OutcomeApplied           Outcome = "applied"
	OutcomeIgnored           Outcome = "ignored"
	OutcomeStale             Outcome = "stale"
	OutcomeInvalidTransition Outcome = "invalid_transition"
	OutcomeUnknownCustomer   Outcome = "unknown_customer"
	OutcomeConflict          Outcome = "conflict"
	OutcomeFailed            Outcome = "failed"
	OutcomeRejected          Outcome = "rejected"
)

type Service struct {
	repo        Repository
	verifier    Verifier
	billing     Billing
	publisher   events.Publisher
	logger      *slog.Logger
	cfg         config.SubscriptionConfig
	defaultPlan string
	now         func() time.Time
}

func NewService(
	repo Repository,
	verifier Verifier,
	billing Billing,
	publisher events.Publisher,
	logger *slog.Logger,
	cfg config.SubscriptionConfig,
	defaultPlan string,
) *Service {
	if billing == nil {
		billing = NopBilling{}
	}
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Service{
		repo:        repo,
		verifier:    verifier,
		billing:     billing,
		publisher:   publisher,
		logger:      logger,
		cfg:         cfg,
		defaultPlan: defaultPlan,
		now:         time.Now,
	}
}

// StartTrial opens the free trial a new account starts with.
func (s *Service) StartTrial(ctx context.Context, userID string) (*Subscription, error) {
	trialEnd := s.now().UTC().Add(s.cfg.TrialLength)
	sub := &Subscription{
		UserID:      userID,
		Status:      StatusTrial,
		Plan:        s.defaultPlan,
		TrialEndsAt: &trialEnd,
	}

	if err := s.repo.Create(ctx, sub); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "trial started", "user_id", userID, "trial_ends_at", trialEnd)
	return sub, nil
}

// Get returns the user's subscription, expiring an elapsed trial first.
func (s *Service) Get(ctx context.Context, userID string) (*Subscription, error) {
	sub, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if sub.Status != StatusTrial || sub.TrialEndsAt == nil || s.now().Before(*sub.TrialEndsAt) {
		return sub, nil
	}

	from := sub.Status
	sub.Status, _ = Transition(from, EventTrialExpired)

	err = s.commit(ctx, sub, from, "trial_ended")
	if errors.Is(err, core.ErrConflict) {
		return s.repo.GetByUserID(ctx, userID)
	}
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// CheckAccess reports whether the user may use subscription features. A user
// without a subscription row has no access.
func (s *Service) CheckAccess(ctx context.Context, userID string) (bool, error) {
	sub, err := s.Get(ctx, userID)
	if errors.Is(err, core.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return HasAccess(sub, s.now(), s.cfg.PastDueGrace), nil
}

func (s *Service) Access(sub *Subscription) bool {
	return HasAccess(sub, s.now(), s.cfg.PastDueGrace)
}

func (s *Service) GraceEndsAt(sub *Subscription) *time.Time {
	return GraceEndsAt(sub, s.cfg.PastDueGrace)
}

// Cancel stops renewal at the provider. Access continues until the end of
// the paid period.
func (s *Service) Cancel(ctx context.Context, userID string) (*Subscription, error) {
	sub, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	from := sub.Status
	next, err := Transition(from, EventCancel)
	if err != nil {
		return nil, err
	}

	if sub.ProviderSubscriptionID != nil && !sub.CancelAtPeriodEnd {
		if err := s.billing.CancelAtPeriodEnd(ctx, *sub.ProviderSubscriptionID); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBillingUnavailable, err)
		}
	}

	sub.Status = next
	sub.CancelAtPeriodEnd = true

	if err := s.commit(ctx, sub, from, "user_cancelled"); err != nil {
		return nil, err
	}
	return sub, nil
}

// Reactivate undoes a pending cancellation while the paid period lasts.
func (s *Service) Reactivate(ctx context.Context, userID string) (*Subscription, error) {
	sub, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	from := sub.Status
	next, err := Transition(from, EventReactivate)
	if err != nil {
		return nil, err
	}
	if sub.CurrentPeriodEnd != nil && !s.now().Before(*sub.CurrentPeriodEnd) {
		return nil, fmt.Errorf("%w: billing period already ended", ErrInvalidTransition)
	}

	if sub.ProviderSubscriptionID != nil {
		if err := s.billing.Resume(ctx, *sub.ProviderSubscriptionID); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBillingUnavailable, err)
		}
	}

	sub.Status = next
	sub.CancelAtPeriodEnd = false

	if err := s.commit(ctx, sub, from, "user_reactivated"); err != nil {
		return nil, err
	}
	return sub, nil
}

// HandleWebhook verifies and applies one provider delivery. Verification
// failures return ErrInvalidSignature and touch nothing.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, signature string) (Outcome, error) {
	ctx, span := core.StartSpan(ctx, "subscription.webhook")
	defer span.End()

	pe, err := s.verifier.Verify(payload, signature)
	if err != nil {
		webhookEvents.WithLabelValues("unverified", string(OutcomeRejected)).Inc()
		s.logger.WarnContext(ctx, "webhook rejected", "error", err)
		return OutcomeRejected, err
	}

	outcome, err := s.reconcile(ctx, pe)
	webhookEvents.WithLabelValues(pe.Type, string(outcome)).Inc()
	if err != nil {
		core.SetSpanError(ctx, err)
	}
	return outcome, err
}

func (s *Service) reconcile(ctx context.Context, pe *ProviderEvent) (Outcome, error) {
	logger := s.logger.With("event_id", pe.ID, "event_type", pe.Type)

	action, ok := pe.Action()
	if !ok {
		logger.DebugContext(ctx, "webhook event carries no state change")
		return OutcomeIgnored, nil
	}

	sub, err := s.findForEvent(ctx, pe)
	if errors.Is(err, core.ErrNotFound) {
		logger.WarnContext(ctx, "webhook for unknown customer", "customer_id", pe.CustomerID)
		return OutcomeUnknownCustomer, nil
	}
	if err != nil {
		return OutcomeFailed, err
	}

	if sub.LastEventAt != nil && pe.Created.Before(*sub.LastEventAt) {
		logger.InfoContext(ctx, "stale webhook event ignored",
			"user_id", sub.UserID,
			"event_created", pe.Created,
			"last_event_at", *sub.LastEventAt,
		)
		return OutcomeStale, nil
	}

	from := sub.Status
	next, err := Transition(from, action)
	if err != nil {
		logger.WarnContext(ctx, "webhook transition rejected",
			"user_id", sub.UserID,
			"status", from,
			"action", action,
		)
		return OutcomeInvalidTransition, nil
	}

	sub.Status = next
	if pe.CustomerID != "" {
		sub.ProviderCustomerID = &pe.CustomerID
	}
	if pe.SubscriptionID != "" {
		sub.ProviderSubscriptionID = &pe.SubscriptionID
	}
	if pe.CurrentPeriodEnd != nil {
		sub.CurrentPeriodEnd = pe.CurrentPeriodEnd
	}
	if pe.Plan != "" {
		sub.Plan = pe.Plan
	}
	if strings.HasPrefix(pe.Type, "customer.subscription.") {
		sub.CancelAtPeriodEnd = pe.CancelAtPeriodEnd
	}
	created := pe.Created
	sub.LastEventAt = &created

	if err := s.commit(ctx, sub, from, "webhook:"+pe.Type); err != nil {
		if errors.Is(err, core.ErrConflict) {
			return OutcomeConflict, err
		}
		return OutcomeFailed, err
	}

	return OutcomeApplied, nil
}

// findForEvent resolves the local subscription by provider customer, falling
// back to the user ID carried in subscription metadata on first contact.
func (s *Service) findForEvent(ctx context.Context, pe *ProviderEvent) (*Subscription, error) {
	if pe.CustomerID != "" {
		sub, err := s.repo.GetByCustomerID(ctx, pe.CustomerID)
		if err == nil || !errors.Is(err, core.ErrNotFound) || pe.UserID == "" {
			return sub, err
		}
	}
	userID, err := uuid.Parse(pe.UserID)
	if err != nil {
		return nil, fmt.Errorf("resolve webhook subscription: %w", core.ErrNotFound)
	}
	return s.repo.GetByUserID(ctx, userID.String())
}

func (s *Service) commit(ctx context.Context, sub *Subscription, from Status, reason string) error {
	if err := s.repo.Update(ctx, sub); err != nil {
		return err
	}
	if from == sub.Status {
		return nil
	}

	transitionsTotal.WithLabelValues(string(from), string(sub.Status)).Inc()
	s.logger.InfoContext(ctx, "subscription status changed",
		"user_id", sub.UserID,
		"from", from,
		"to", sub.Status,
		"reason", reason,
	)

	err := s.publisher.Publish(ctx, events.Event{
		Type:       events.TypeSubscriptionChanged,
		Key:        sub.UserID,
		OccurredAt: s.now().UTC(),
		Payload: events.SubscriptionChanged{
			UserID: sub.UserID,
			From:   string(from),
			To:     string(sub.Status),
			Reason: reason,
		},
	})
	if err != nil {
		s.logger.WarnContext(ctx, "publish subscription event failed", "error", err)
	}
	return nil
}

// StatusBreakdown counts subscriptions per status, including empty ones.
func (s *Service) StatusBreakdown(ctx context.Context) (map[Status]int, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	out := make(map[Status]int, len(AllStatuses()))
	for _, st := range AllStatuses() {
		out[st] = 0
	}
	for _, c := range counts {
		out[c.Status] = c.Count
	}
	return out, nil
}
