// AngelaMos | 2026
// handler_test.go

package records

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liftlog/liftlog-api/internal/core"
	"github.com/liftlog/liftlog-api/internal/middleware"
)

func asUser(userID, role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(middleware.ContextWithUser(r.Context(), userID, role)))
		})
	}
}

func passthrough(next http.Handler) http.Handler { return next }

func denyAccess(http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		core.JSONError(w, core.PaymentRequiredError("subscription required"))
	})
}

func newTestRouter(svc *Service, requireAccess func(http.Handler) http.Handler) http.Handler {
	h := NewHandler(svc)
	r := chi.NewRouter()
	h.RegisterRoutes(r, asUser(testUser, "user"), requireAccess)
	h.RegisterAdminRoutes(r, asUser("coach-1", "coach"), middleware.RequireRole("coach", "admin"))
	return r
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *core.ErrorBody `json:"error"`
	Meta    *core.Meta      `json:"meta"`
}

func serve(t *testing.T, h http.Handler, method, path, body string) (int, envelope) {
	t.Helper()

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, path, strings.NewReader(body)))

	var env envelope
	if w.Code != http.StatusNoContent {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w.Code, env
}

func TestHandlerCreateRecord(t *testing.T) {
	svc, repo, _ := newTestService(nil)
	router := newTestRouter(svc, passthrough)

	repo.seed(PersonalRecord{UserID: testUser, Lift: "Bench Press", Weight: 120, Date: day(2026, 5, 1)})

	status, env := serve(t, router, http.MethodPost, "/records",
		`{"lift":"bench press","weight":125,"date":"2026-06-01"}`)
	require.Equal(t, http.StatusCreated, status)

	var rec RecordResponse
	require.NoError(t, json.Unmarshal(env.Data, &rec))
	assert.Equal(t, 125.0, rec.Weight)
	assert.Equal(t, 1, rec.Reps)
	assert.Equal(t, "bench", rec.Category)
	assert.Equal(t, ContextTraining, rec.Context)

	status, env = serve(t, router, http.MethodPost, "/records",
		`{"lift":"Bench Press","weight":125}`)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_A_RECORD", env.Error.Code)
}

func TestHandlerCreateRecordValidation(t *testing.T) {
	svc, _, _ := newTestService(nil)
	router := newTestRouter(svc, passthrough)

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"lift":`},
		{"missing lift", `{"weight":100}`},
		{"zero weight", `{"lift":"Squat","weight":0}`},
		{"bad date", `{"lift":"Squat","weight":100,"date":"06/01/2026"}`},
		{"future date", `{"lift":"Squat","weight":100,"date":"2027-01-01"}`},
		{"bad context", `{"lift":"Squat","weight":100,"context":"gym"}`},
		{"rpe out of range", `{"lift":"Squat","weight":100,"rpe":11}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := serve(t, router, http.MethodPost, "/records", tt.body)
			assert.Equal(t, http.StatusBadRequest, status)
			require.NotNil(t, env.Error)
			assert.Equal(t, "BAD_REQUEST", env.Error.Code)
		})
	}
}

func TestHandlerGetAndDelete(t *testing.T) {
	svc, repo, _ := newTestService(nil)
	router := newTestRouter(svc, passthrough)

	mine := repo.seed(PersonalRecord{UserID: testUser, Lift: "Squat", Weight: 180, Date: day(2026, 4, 2)})
	theirs := repo.seed(PersonalRecord{UserID: "user-2", Lift: "Squat", Weight: 220, Date: day(2026, 4, 2)})

	status, _ := serve(t, router, http.MethodGet, "/records/"+mine.ID, "")
	assert.Equal(t, http.StatusOK, status)

	status, env := serve(t, router, http.MethodGet, "/records/"+theirs.ID, "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)

	status, _ = serve(t, router, http.MethodDelete, "/records/"+mine.ID, "")
	assert.Equal(t, http.StatusNoContent, status)

	status, _ = serve(t, router, http.MethodDelete, "/records/"+mine.ID, "")
	assert.Equal(t, http.StatusNoContent, status, "deleting twice is a no-op")

	status, env = serve(t, router, http.MethodGet, "/records/bests", "")
	require.Equal(t, http.StatusOK, status)
	var bests []RecordResponse
	require.NoError(t, json.Unmarshal(env.Data, &bests))
	assert.Empty(t, bests)
}

func TestHandlerHistoryPagination(t *testing.T) {
	svc, repo, _ := newTestService(nil)
	router := newTestRouter(svc, passthrough)

	for i, w := range []float64{100, 105, 110} {
		repo.seed(PersonalRecord{UserID: testUser, Lift: "Deadlift", Weight: w, Date: day(2026, 3, i+1)})
	}

	status, env := serve(t, router, http.MethodGet, "/records/lifts/deadlift/history?page=1&page_size=2", "")
	require.Equal(t, http.StatusOK, status)
	require.NotNil(t, env.Meta)
	assert.Equal(t, 3, env.Meta.Total)
	assert.Equal(t, 2, env.Meta.TotalPages)

	var recs []RecordResponse
	require.NoError(t, json.Unmarshal(env.Data, &recs))
	require.Len(t, recs, 2)
	assert.Equal(t, 110.0, recs[0].Weight, "newest first")
}

func TestHandlerTrendRequiresAccess(t *testing.T) {
	svc, _, _ := newTestService(nil)
	router := newTestRouter(svc, denyAccess)

	status, env := serve(t, router, http.MethodGet, "/records/trends?lift=Squat", "")
	assert.Equal(t, http.StatusPaymentRequired, status)
	assert.Equal(t, "SUBSCRIPTION_REQUIRED", env.Error.Code)

	status, _ = serve(t, router, http.MethodGet, "/records/stats", "")
	assert.Equal(t, http.StatusPaymentRequired, status)

	status, _ = serve(t, router, http.MethodGet, "/records/best-lifts", "")
	assert.Equal(t, http.StatusOK, status, "best lifts stay free")
}

func TestHandlerTrend(t *testing.T) {
	svc, repo, _ := newTestService(nil)
	router := newTestRouter(svc, passthrough)

	repo.seed(PersonalRecord{UserID: testUser, Lift: "Squat", Weight: 150, Date: day(2026, 5, 10)})
	repo.seed(PersonalRecord{UserID: testUser, Lift: "Squat", Weight: 160, Date: day(2026, 6, 3)})

	status, env := serve(t, router, http.MethodGet, "/records/trends?lift=squat&months=2", "")
	require.Equal(t, http.StatusOK, status)

	var trend TrendResponse
	require.NoError(t, json.Unmarshal(env.Data, &trend))
	assert.Equal(t, 2, trend.Months)
	assert.Equal(t, 100.0, trend.Consistency)
	require.Len(t, trend.Points, 2)
	assert.Equal(t, "2026-05", trend.Points[0].Month)
	assert.Equal(t, "2026-06", trend.Points[1].Month)
	require.NotNil(t, trend.Points[1].DeltaOneRM)
	assert.InDelta(t, 10.0, *trend.Points[1].DeltaOneRM, 0.01)
}

func TestHandlerVerify(t *testing.T) {
	svc, repo, _ := newTestService(nil)
	router := newTestRouter(svc, passthrough)

	rec := repo.seed(PersonalRecord{UserID: testUser, Lift: "Squat", Weight: 200, Date: day(2026, 6, 1)})

	status, env := serve(t, router, http.MethodPost, "/admin/records/"+rec.ID+"/verify", "")
	require.Equal(t, http.StatusOK, status)

	var resp RecordResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.True(t, resp.Verified)
	assert.NotNil(t, resp.VerifiedAt)

	status, _ = serve(t, router, http.MethodPost, "/admin/records/missing/verify", "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestHandlerVerifyForbiddenForAthletes(t *testing.T) {
	svc, repo, _ := newTestService(nil)
	rec := repo.seed(PersonalRecord{UserID: testUser, Lift: "Squat", Weight: 200, Date: day(2026, 6, 1)})

	h := NewHandler(svc)
	r := chi.NewRouter()
	h.RegisterAdminRoutes(r, asUser(testUser, "user"), middleware.RequireRole("coach", "admin"))

	status, env := serve(t, r, http.MethodPost, "/admin/records/"+rec.ID+"/verify", "")
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)
}

func TestHandlerMalformedRecordIDIsNotFound(t *testing.T) {
	svc, _, _ := newTestService(nil)
	router := newTestRouter(svc, passthrough)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/records/not-a-uuid"},
		{http.MethodDelete, "/records/42"},
		{http.MethodPost, "/admin/records/abc/verify"},
	} {
		status, env := serve(t, router, tc.method, tc.path, "")
		assert.Equal(t, http.StatusNotFound, status, tc.path)
		require.NotNil(t, env.Error, tc.path)
		assert.Equal(t, "NOT_FOUND", env.Error.Code, tc.path)
	}
}
