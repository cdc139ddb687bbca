// AngelaMos | 2026
// service_test.go

package auth

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liftlog/liftlog-api/internal/config"
	"github.com/liftlog/liftlog-api/internal/core"
)

var testJWTConfig = config.JWTConfig{
	AccessTokenExpire:  15 * time.Minute,
	RefreshTokenExpire: 7 * 24 * time.Hour,
	Issuer:             "liftlog-test",
	Audience:           "liftlog-api-test",
}

type testEnv struct {
	svc    *Service
	jwt    *JWTManager
	tokens *fakeTokens
	users  *fakeUsers
	trials *fakeTrials
}

func newJWT(t *testing.T) *JWTManager {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	m, err := NewJWTManagerFromKey(key, testJWTConfig)
	require.NoError(t, err)
	return m
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		jwt:    newJWT(t),
		tokens: newFakeTokens(),
		users:  newFakeUsers(),
		trials: &fakeTrials{},
	}
	env.svc = NewService(env.tokens, env.jwt, env.users, env.trials,
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	return env
}

func (e *testEnv) register(t *testing.T) *AuthResponse {
	t.Helper()
	resp, err := e.svc.Register(context.Background(), RegisterRequest{
		Email:    "Lifter@Example.com",
		Password: "squat-bench-dead",
		Name:     "Lifter",
	}, "test-agent", "203.0.113.7")
	require.NoError(t, err)
	return resp
}

func TestRegisterStartsTrialAndIssuesTokens(t *testing.T) {
	env := newTestEnv(t)
	resp := env.register(t)

	assert.Equal(t, "lifter@example.com", resp.User.Email)
	assert.Equal(t, []string{resp.User.ID}, env.trials.started)
	assert.Equal(t, "Bearer", resp.Tokens.TokenType)
	assert.Equal(t, 900, resp.Tokens.ExpiresIn)
	assert.NotEmpty(t, resp.Tokens.RefreshToken)

	claims, err := env.svc.VerifyAccessToken(context.Background(), resp.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, "user", claims.Role)
	assert.Equal(t, 1, claims.TokenVersion)

	_, err = env.svc.Register(context.Background(), RegisterRequest{
		Email:    "lifter@example.com",
		Password: "another-password",
		Name:     "Copycat",
	}, "", "")
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestRegisterSurvivesTrialFailure(t *testing.T) {
	env := newTestEnv(t)
	env.trials.err = errors.New("subscriptions unavailable")

	resp := env.register(t)
	assert.NotEmpty(t, resp.Tokens.AccessToken)
	assert.Empty(t, env.trials.started)
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	env.register(t)

	resp, err := env.svc.Login(context.Background(), LoginRequest{
		Email:    "LIFTER@example.com",
		Password: "squat-bench-dead",
	}, "", "")
	require.NoError(t, err)
	assert.Equal(t, "Lifter", resp.User.Name)

	_, err = env.svc.Login(context.Background(), LoginRequest{
		Email:    "lifter@example.com",
		Password: "wrong-password",
	}, "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = env.svc.Login(context.Background(), LoginRequest{
		Email:    "nobody@example.com",
		Password: "squat-bench-dead",
	}, "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshRotatesAndDetectsReuse(t *testing.T) {
	env := newTestEnv(t)
	first := env.register(t)

	second, err := env.svc.Refresh(context.Background(), first.Tokens.RefreshToken, "", "")
	require.NoError(t, err)
	assert.NotEqual(t, first.Tokens.RefreshToken, second.Tokens.RefreshToken)
	assert.Equal(t, 1, env.tokens.live(first.User.ID))

	_, err = env.svc.Refresh(context.Background(), first.Tokens.RefreshToken, "", "")
	require.ErrorIs(t, err, ErrTokenReuse)

	_, err = env.svc.Refresh(context.Background(), second.Tokens.RefreshToken, "", "")
	assert.ErrorIs(t, err, core.ErrTokenRevoked)
	assert.Zero(t, env.tokens.live(first.User.ID))
}

func TestRefreshRejectsUnknownAndExpired(t *testing.T) {
	env := newTestEnv(t)
	resp := env.register(t)

	_, err := env.svc.Refresh(context.Background(), "not-a-token", "", "")
	assert.ErrorIs(t, err, core.ErrTokenInvalid)

	pruned, err := env.svc.PruneExpired(context.Background())
	require.NoError(t, err)
	assert.Zero(t, pruned)

	env.svc.now = func() time.Time { return time.Now().Add(7*24*time.Hour + time.Minute) }
	_, err = env.svc.Refresh(context.Background(), resp.Tokens.RefreshToken, "", "")
	assert.ErrorIs(t, err, core.ErrTokenExpired)

	env.svc.now = func() time.Time { return time.Now().Add(9 * 24 * time.Hour) }
	pruned, err = env.svc.PruneExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), pruned)
}

func TestLogoutAllRevokesAccessTokens(t *testing.T) {
	env := newTestEnv(t)
	resp := env.register(t)

	require.NoError(t, env.svc.LogoutAll(context.Background(), resp.User.ID))

	_, err := env.svc.VerifyAccessToken(context.Background(), resp.Tokens.AccessToken)
	assert.ErrorIs(t, err, core.ErrTokenRevoked)

	_, err = env.svc.Refresh(context.Background(), resp.Tokens.RefreshToken, "", "")
	assert.ErrorIs(t, err, core.ErrTokenRevoked)

	fresh, err := env.svc.Login(context.Background(), LoginRequest{
		Email:    "lifter@example.com",
		Password: "squat-bench-dead",
	}, "", "")
	require.NoError(t, err)
	claims, err := env.svc.VerifyAccessToken(context.Background(), fresh.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, 2, claims.TokenVersion)
}

func TestLogoutOnlyRevokesOwnToken(t *testing.T) {
	env := newTestEnv(t)
	resp := env.register(t)

	err := env.svc.Logout(context.Background(), resp.Tokens.RefreshToken, "someone-else")
	assert.ErrorIs(t, err, core.ErrForbidden)

	require.NoError(t, env.svc.Logout(context.Background(), resp.Tokens.RefreshToken, resp.User.ID))
	require.NoError(t, env.svc.Logout(context.Background(), "unknown", resp.User.ID))
	assert.Zero(t, env.tokens.live(resp.User.ID))
}

func TestChangePassword(t *testing.T) {
	env := newTestEnv(t)
	resp := env.register(t)

	err := env.svc.ChangePassword(context.Background(), resp.User.ID, ChangePasswordRequest{
		CurrentPassword: "nope-nope-nope",
		NewPassword:     "deadlift-day-2026",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, env.svc.ChangePassword(context.Background(), resp.User.ID, ChangePasswordRequest{
		CurrentPassword: "squat-bench-dead",
		NewPassword:     "deadlift-day-2026",
	}))

	_, err = env.svc.VerifyAccessToken(context.Background(), resp.Tokens.AccessToken)
	assert.ErrorIs(t, err, core.ErrTokenRevoked)

	_, err = env.svc.Login(context.Background(), LoginRequest{
		Email:    "lifter@example.com",
		Password: "deadlift-day-2026",
	}, "", "")
	assert.NoError(t, err)
}

func TestVerifyAccessTokenFailures(t *testing.T) {
	env := newTestEnv(t)
	resp := env.register(t)

	env.jwt.now = func() time.Time { return time.Now().Add(-time.Hour) }
	stale, _, err := env.jwt.CreateAccessToken(AccessTokenClaims{UserID: resp.User.ID, Role: "user", TokenVersion: 1})
	require.NoError(t, err)
	env.jwt.now = time.Now

	_, err = env.svc.VerifyAccessToken(context.Background(), stale)
	assert.ErrorIs(t, err, core.ErrTokenExpired)

	foreign, _, err := newJWT(t).CreateAccessToken(AccessTokenClaims{UserID: resp.User.ID, Role: "admin", TokenVersion: 1})
	require.NoError(t, err)
	_, err = env.svc.VerifyAccessToken(context.Background(), foreign)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)

	_, err = env.svc.VerifyAccessToken(context.Background(), "garbage")
	assert.ErrorIs(t, err, core.ErrTokenInvalid)

	ghost, _, err := env.jwt.CreateAccessToken(AccessTokenClaims{UserID: "deleted-user", Role: "user", TokenVersion: 1})
	require.NoError(t, err)
	_, err = env.svc.VerifyAccessToken(context.Background(), ghost)
	assert.ErrorIs(t, err, core.ErrTokenRevoked)
}
