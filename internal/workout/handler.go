// AngelaMos | 2026
// handler.go

package workout

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

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

func (h *Handler) RegisterRoutes(r chi.Router, authenticator func(http.Handler) http.Handler) {
	r.Route("/workouts", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/week", h.Week)
		r.Get("/{workoutID}", h.Get)
		r.Put("/{workoutID}", h.Update)
		r.Post("/{workoutID}/complete", h.Complete)
		r.Delete("/{workoutID}", h.Delete)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	filter := ListFilter{
		Status: Status(r.URL.Query().Get("status")),
		Page:   core.ParsePageParams(r),
	}
	for key, dst := range map[string]*time.Time{"from": &filter.From, "to": &filter.To} {
		raw := r.URL.Query().Get(key)
		if raw == "" {
			continue
		}
		d, err := time.Parse(dateLayout, raw)
		if err != nil {
			core.BadRequest(w, key+" must be a YYYY-MM-DD date")
			return
		}
		*dst = d
	}

	workouts, total, err := h.service.List(r.Context(), userID, filter)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(w, ToWorkoutResponseList(workouts), filter.Page.Page, filter.Page.PageSize, total)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req CreateWorkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	wo, found, err := h.service.Create(r.Context(), userID, req)
	if err != nil {
		writeError(w, err)
		return
	}

	core.Created(w, CompletionResponse{
		Workout:    ToWorkoutResponse(wo),
		NewRecords: records.ToRecordResponseList(found),
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	workoutID, ok := core.URLParamUUID(r, "workoutID")
	if !ok {
		core.NotFound(w, "workout")
		return
	}

	wo, err := h.service.Get(r.Context(), userID, workoutID)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToWorkoutResponse(wo))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req UpdateWorkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	workoutID, ok := core.URLParamUUID(r, "workoutID")
	if !ok {
		core.NotFound(w, "workout")
		return
	}

	wo, found, err := h.service.Update(r.Context(), userID, workoutID, req)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, CompletionResponse{
		Workout:    ToWorkoutResponse(wo),
		NewRecords: records.ToRecordResponseList(found),
	})
}

func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	workoutID, ok := core.URLParamUUID(r, "workoutID")
	if !ok {
		core.NotFound(w, "workout")
		return
	}

	wo, found, err := h.service.Complete(r.Context(), userID, workoutID)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, CompletionResponse{
		Workout:    ToWorkoutResponse(wo),
		NewRecords: records.ToRecordResponseList(found),
	})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	workoutID, ok := core.URLParamUUID(r, "workoutID")
	if !ok {
		core.NotFound(w, "workout")
		return
	}

	if err := h.service.Delete(r.Context(), userID, workoutID); err != nil {
		writeError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) Week(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	wk, err := h.service.Week(r.Context(), userID, r.URL.Query().Get("start"))
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToWeekResponse(wk))
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "workout")
	case errors.Is(err, core.ErrInvalidInput):
		core.BadRequest(w, err.Error())
	default:
		core.InternalServerError(w, err)
	}
}
