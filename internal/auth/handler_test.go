// AngelaMos | 2026
// handler_test.go

package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liftlog/liftlog-api/internal/middleware"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code string `json:"code"`
	} `json:"error"`
}

func serve(t *testing.T, h http.Handler, method, path, body, token string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var env envelope
	if w.Code != http.StatusNoContent {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w.Code, env
}

func TestHandlerAuthFlow(t *testing.T) {
	env := newTestEnv(t)
	r := chi.NewRouter()
	NewHandler(env.svc).RegisterRoutes(r, middleware.Authenticator(env.svc))

	status, body := serve(t, r, http.MethodPost, "/auth/register",
		`{"email":"coach@example.com","password":"hook-grip-1","name":"Coach","weight_unit":"lb"}`, "")
	require.Equal(t, http.StatusCreated, status)

	var registered AuthResponse
	require.NoError(t, json.Unmarshal(body.Data, &registered))

	status, body = serve(t, r, http.MethodPost, "/auth/register",
		`{"email":"coach@example.com","password":"hook-grip-1","name":"Coach"}`, "")
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "DUPLICATE", body.Error.Code)

	status, body = serve(t, r, http.MethodPost, "/auth/login",
		`{"email":"coach@example.com","password":"wrong-grip-1"}`, "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", body.Error.Code)

	status, body = serve(t, r, http.MethodGet, "/auth/me", "", registered.Tokens.AccessToken)
	require.Equal(t, http.StatusOK, status)
	var me UserResponse
	require.NoError(t, json.Unmarshal(body.Data, &me))
	assert.Equal(t, "coach@example.com", me.Email)

	refresh := `{"refresh_token":"` + registered.Tokens.RefreshToken + `"}`
	status, _ = serve(t, r, http.MethodPost, "/auth/refresh", refresh, "")
	require.Equal(t, http.StatusOK, status)

	status, body = serve(t, r, http.MethodPost, "/auth/refresh", refresh, "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "TOKEN_REUSE_DETECTED", body.Error.Code)

	status, _ = serve(t, r, http.MethodPost, "/auth/logout-all", "", registered.Tokens.AccessToken)
	assert.Equal(t, http.StatusNoContent, status)

	status, body = serve(t, r, http.MethodGet, "/auth/me", "", registered.Tokens.AccessToken)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "TOKEN_REVOKED", body.Error.Code)
}

func TestHandlerRegisterValidation(t *testing.T) {
	env := newTestEnv(t)
	r := chi.NewRouter()
	NewHandler(env.svc).RegisterRoutes(r, middleware.Authenticator(env.svc))

	for _, body := range []string{
		`{"email":"not-an-email","password":"long-enough","name":"x"}`,
		`{"email":"a@example.com","password":"short","name":"x"}`,
		`{"email":"a@example.com","password":"long-enough","name":"x","weight_unit":"stone"}`,
		`{`,
	} {
		status, resp := serve(t, r, http.MethodPost, "/auth/register", body, "")
		assert.Equal(t, http.StatusBadRequest, status, body)
		assert.Equal(t, "BAD_REQUEST", resp.Error.Code)
	}
}
