// AngelaMos | 2026
// handler.go

package subscription

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/liftlog/liftlog-api/internal/core"
	"github.com/liftlog/liftlog-api/internal/middleware"
)

const (
	SignatureHeader     = "Stripe-Signature"
	maxWebhookBodyBytes = 64 << 10
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router, authenticator func(http.Handler) http.Handler) {
	r.Route("/subscription", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.Get)
		r.Post("/cancel", h.Cancel)
		r.Post("/reactivate", h.Reactivate)
	})
}

// RegisterWebhookRoutes mounts the unauthenticated provider callback.
func (h *Handler) RegisterWebhookRoutes(r chi.Router) {
	r.Post("/webhooks/billing", h.Webhook)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	sub, err := h.service.Get(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, h.service.toResponse(sub))
}

func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	sub, err := h.service.Cancel(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, h.service.toResponse(sub))
}

func (h *Handler) Reactivate(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	sub, err := h.service.Reactivate(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, h.service.toResponse(sub))
}

// Webhook answers 2xx for every verified delivery it has handled, including
// ignored and stale ones, so the provider stops retrying. Conflicts answer
// 409 so the delivery is retried.
func (h *Handler) Webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBodyBytes))
	if err != nil {
		core.BadRequest(w, "unreadable webhook body")
		return
	}

	outcome, err := h.service.HandleWebhook(r.Context(), payload, r.Header.Get(SignatureHeader))
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, WebhookResponse{Received: true, Outcome: outcome})
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidSignature):
		core.JSONError(w, core.NewAppError(err, "webhook signature verification failed",
			http.StatusBadRequest, "INVALID_SIGNATURE"))
	case errors.Is(err, ErrInvalidTransition):
		core.JSONError(w, core.NewAppError(err, err.Error(), http.StatusConflict, "INVALID_TRANSITION"))
	case errors.Is(err, core.ErrConflict):
		core.Conflict(w, "subscription was modified concurrently, retry")
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "subscription")
	case errors.Is(err, ErrBillingUnavailable):
		core.JSONError(w, core.NewAppError(err, "billing provider unavailable, try again later",
			http.StatusBadGateway, "BILLING_UNAVAILABLE"))
	default:
		core.InternalServerError(w, err)
	}
}
