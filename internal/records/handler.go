// AngelaMos | 2026
// handler.go

package records

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/liftlog/liftlog-api/internal/core"
	"github.com/liftlog/liftlog-api/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// RegisterRoutes mounts the record endpoints. Trend and stats reads sit
// behind requireAccess.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, requireAccess func(http.Handler) http.Handler,
) {
	r.Route("/records", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/bests", h.CurrentBests)
		r.Get("/best-lifts", h.BestLifts)
		r.Get("/lifts/{lift}/history", h.History)
		r.With(requireAccess).Get("/trends", h.Trend)
		r.With(requireAccess).Get("/stats", h.Stats)
		r.Post("/", h.Create)
		r.Get("/{recordID}", h.Get)
		r.Delete("/{recordID}", h.Delete)
	})
}

func (h *Handler) RegisterAdminRoutes(
	r chi.Router,
	authenticator, verifiers func(http.Handler) http.Handler,
) {
	r.Route("/admin/records", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(verifiers)

		r.Post("/{recordID}/verify", h.Verify)
	})
}

func (h *Handler) CurrentBests(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	bests, err := h.service.CurrentBests(r.Context(), userID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToRecordResponseList(bests))
}

func (h *Handler) BestLifts(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	best, err := h.service.BestLifts(r.Context(), userID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToBestLiftsResponse(best))
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	lift := chi.URLParam(r, "lift")
	params := core.ParsePageParams(r)

	recs, total, err := h.service.History(r.Context(), userID, lift, params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(w, ToRecordResponseList(recs), params.Page, params.PageSize, total)
}

func (h *Handler) Trend(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	trend, err := h.service.Trend(
		r.Context(),
		userID,
		r.URL.Query().Get("lift"),
		core.ParseIntQuery(r, "months", 0),
		core.ParseBoolQuery(r, "include_inactive"),
	)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToTrendResponse(trend))
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	stats, err := h.service.Stats(r.Context(), userID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToStatsResponse(stats))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	recordID, ok := core.URLParamUUID(r, "recordID")
	if !ok {
		core.NotFound(w, "record")
		return
	}

	rec, err := h.service.Get(r.Context(), userID, recordID)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToRecordResponse(rec))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req CreateRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	rec, err := h.service.CreateManual(r.Context(), userID, req)
	if err != nil {
		writeError(w, err)
		return
	}

	core.Created(w, ToRecordResponse(rec))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	recordID, ok := core.URLParamUUID(r, "recordID")
	if !ok {
		core.NotFound(w, "record")
		return
	}

	if err := h.service.SoftDelete(r.Context(), userID, recordID); err != nil {
		writeError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	verifierID := middleware.GetUserID(r.Context())

	recordID, ok := core.URLParamUUID(r, "recordID")
	if !ok {
		core.NotFound(w, "record")
		return
	}

	rec, err := h.service.Verify(r.Context(), verifierID, recordID)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToRecordResponse(rec))
}

func writeError(w http.ResponseWriter, err error) {
	var notARecord *NotARecordError
	switch {
	case errors.As(err, &notARecord):
		core.JSONError(w, core.UnprocessableError(err, notARecord.Error(), "NOT_A_RECORD"))
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "record")
	case errors.Is(err, core.ErrConflict):
		core.Conflict(w, "record was modified concurrently, retry")
	case errors.Is(err, core.ErrInvalidInput):
		core.BadRequest(w, err.Error())
	default:
		core.InternalServerError(w, err)
	}
}
