// AngelaMos | 2026
// handler.go

package competition

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/liftlog/liftlog-api/internal/core"
	"github.com/liftlog/liftlog-api/internal/middleware"
	"github.com/liftlog/liftlog-api/internal/records"
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

// RegisterRoutes mounts competition tracking. Every route requires an
// active subscription.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, requireAccess func(http.Handler) http.Handler,
) {
	r.Route("/competitions", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(requireAccess)

		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{competitionID}", h.Get)
		r.Put("/{competitionID}", h.Update)
		r.Put("/{competitionID}/results", h.RecordResults)
		r.Delete("/{competitionID}", h.Delete)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	params := core.ParsePageParams(r)

	status := Status(r.URL.Query().Get("status"))
	if status != "" && status != StatusUpcoming && status != StatusCompleted {
		core.BadRequest(w, "status must be one of: upcoming completed")
		return
	}

	comps, total, err := h.service.List(r.Context(), userID, status, params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	out := make([]CompetitionResponse, 0, len(comps))
	for i := range comps {
		out = append(out, ToCompetitionResponse(&comps[i], nil))
	}

	core.Paginated(w, out, params.Page, params.PageSize, total)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req CreateCompetitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	c, err := h.service.Create(r.Context(), userID, req)
	if err != nil {
		writeError(w, err)
		return
	}

	core.Created(w, ToCompetitionResponse(c, nil))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	competitionID, ok := core.URLParamUUID(r, "competitionID")
	if !ok {
		core.NotFound(w, "competition")
		return
	}

	c, result, err := h.service.Get(r.Context(), userID, competitionID)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToCompetitionResponse(c, result))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req UpdateCompetitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	competitionID, ok := core.URLParamUUID(r, "competitionID")
	if !ok {
		core.NotFound(w, "competition")
		return
	}

	c, err := h.service.Update(r.Context(), userID, competitionID, req)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToCompetitionResponse(c, nil))
}

func (h *Handler) RecordResults(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req ResultsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	competitionID, ok := core.URLParamUUID(r, "competitionID")
	if !ok {
		core.NotFound(w, "competition")
		return
	}

	c, result, found, err := h.service.RecordResults(
		r.Context(), userID, competitionID, req)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ResultsResponse{
		Competition: ToCompetitionResponse(c, result),
		NewRecords:  records.ToRecordResponseList(found),
	})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	competitionID, ok := core.URLParamUUID(r, "competitionID")
	if !ok {
		core.NotFound(w, "competition")
		return
	}

	if err := h.service.Delete(r.Context(), userID, competitionID); err != nil {
		writeError(w, err)
		return
	}

	core.NoContent(w)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "competition")
	case errors.Is(err, core.ErrInvalidInput):
		core.BadRequest(w, err.Error())
	default:
		core.InternalServerError(w, err)
	}
}
