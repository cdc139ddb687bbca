// AngelaMos | 2026
// handler.go

package goal

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

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, requireAccess func(http.Handler) http.Handler,
) {
	r.Route("/goals", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(requireAccess)

		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Put("/{goalID}", h.Update)
		r.Delete("/{goalID}", h.Delete)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	year := core.ParseIntQuery(r, "year", 0)
	if year != 0 && (year < 2000 || year > 2100) {
		core.BadRequest(w, "year must be between 2000 and 2100")
		return
	}

	progress, err := h.service.List(r.Context(), userID, year)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToGoalResponseList(progress))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req CreateGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	progress, err := h.service.Create(r.Context(), userID, req)
	if err != nil {
		writeError(w, err)
		return
	}

	core.Created(w, ToGoalResponse(progress))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req UpdateGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	goalID, ok := core.URLParamUUID(r, "goalID")
	if !ok {
		core.NotFound(w, "goal")
		return
	}

	progress, err := h.service.Update(r.Context(), userID, goalID, req)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToGoalResponse(progress))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	goalID, ok := core.URLParamUUID(r, "goalID")
	if !ok {
		core.NotFound(w, "goal")
		return
	}

	if err := h.service.Delete(r.Context(), userID, goalID); err != nil {
		writeError(w, err)
		return
	}

	core.NoContent(w)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrDuplicateKey):
		core.JSONError(w, core.DuplicateError("goal for this year and target"))
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "goal")
	default:
		core.InternalServerError(w, err)
	}
}
