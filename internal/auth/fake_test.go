// AngelaMos | 2026
// fake_test.go

package auth

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/liftlog/liftlog-api/internal/core"
	"github.com/liftlog/liftlog-api/internal/subscription"
)

type fakeTokens struct {
	mu     sync.Mutex
	tokens map[string]*RefreshToken
}

func newFakeTokens() *fakeTokens {
	return &fakeTokens{tokens: make(map[string]*RefreshToken)}
}

func (f *fakeTokens) Create(_ context.Context, token *RefreshToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	token.CreatedAt = time.Now()
	cp := *token
	f.tokens[token.ID] = &cp
	return nil
}

func (f *fakeTokens) FindByHash(_ context.Context, hash string) (*RefreshToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, t := range f.tokens {
		if t.TokenHash == hash {
			cp := *t
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("find refresh token: %w", core.ErrNotFound)
}

func (f *fakeTokens) MarkAsUsed(_ context.Context, id, replacedByID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	t, ok := f.tokens[id]
	if !ok || t.IsUsed || t.RevokedAt != nil {
		return fmt.Errorf("mark refresh token used: %w", core.ErrNotFound)
	}
	now := time.Now()
	t.IsUsed = true
	t.UsedAt = &now
	t.ReplacedByID = &replacedByID
	return nil
}

func (f *fakeTokens) revoke(match func(*RefreshToken) bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := time.Now()
	for _, t := range f.tokens {
		if t.RevokedAt == nil && match(t) {
			t.RevokedAt = &now
		}
	}
}

func (f *fakeTokens) RevokeByID(_ context.Context, id string) error {
	f.revoke(func(t *RefreshToken) bool { return t.ID == id })
	return nil
}

func (f *fakeTokens) RevokeByFamilyID(_ context.Context, familyID string) error {
	f.revoke(func(t *RefreshToken) bool { return t.FamilyID == familyID })
	return nil
}

func (f *fakeTokens) RevokeAllForUser(_ context.Context, userID string) error {
	f.revoke(func(t *RefreshToken) bool { return t.UserID == userID })
	return nil
}

func (f *fakeTokens) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var n int64
	for id, t := range f.tokens {
		if t.ExpiresAt.Before(before) {
			delete(f.tokens, id)
			n++
		}
	}
	return n, nil
}

func (f *fakeTokens) live(userID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := 0
	for _, t := range f.tokens {
		if t.UserID == userID && !t.IsUsed && t.RevokedAt == nil {
			n++
		}
	}
	return n
}

type fakeUsers struct {
	mu    sync.Mutex
	users map[string]*UserInfo
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: make(map[string]*UserInfo)}
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*UserInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("get user by email: %w", core.ErrNotFound)
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*UserInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) Create(_ context.Context, email, hash, name, _ string) (*UserInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			return nil, fmt.Errorf("create user: %w", core.ErrDuplicateKey)
		}
	}
	u := &UserInfo{
		ID:           uuid.New().String(),
		Email:        strings.ToLower(email),
		Name:         name,
		PasswordHash: hash,
		Role:         "user",
		TokenVersion: 1,
	}
	f.users[u.ID] = u
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) IncrementTokenVersion(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[id]
	if !ok {
		return fmt.Errorf("increment token version: %w", core.ErrNotFound)
	}
	u.TokenVersion++
	return nil
}

func (f *fakeUsers) UpdatePassword(_ context.Context, id, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[id]
	if !ok {
		return fmt.Errorf("update password: %w", core.ErrNotFound)
	}
	u.PasswordHash = hash
	return nil
}

type fakeTrials struct {
	mu      sync.Mutex
	started []string
	err     error
}

func (f *fakeTrials) StartTrial(_ context.Context, userID string) (*subscription.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	f.started = append(f.started, userID)
	return &subscription.Subscription{UserID: userID, Status: subscription.StatusTrial}, nil
}
