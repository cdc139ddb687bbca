// AngelaMos | 2026
// fake_test.go

package user

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/liftlog/liftlog-api/internal/core"
)

type fakeRepo struct {
	mu    sync.Mutex
	users map[string]*User
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: make(map[string]*User)}
}

func (f *fakeRepo) Create(_ context.Context, u *User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.users {
		if existing.DeletedAt == nil && strings.EqualFold(existing.Email, u.Email) {
			return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
		}
	}
	u.TokenVersion = 1
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeRepo) live(id string) (*User, error) {
	u, ok := f.users[id]
	if !ok || u.DeletedAt != nil {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	return u, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, err := f.live(id)
	if err != nil {
		return nil, err
	}
	cp := *u
	return &cp, nil
}

func (f *fakeRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.DeletedAt == nil && strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("get user by email: %w", core.ErrNotFound)
}

func (f *fakeRepo) Update(_ context.Context, u *User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, err := f.live(u.ID); err != nil {
		return err
	}
	u.UpdatedAt = time.Now()
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeRepo) UpdatePassword(_ context.Context, id, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, err := f.live(id)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (f *fakeRepo) IncrementTokenVersion(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, err := f.live(id)
	if err != nil {
		return err
	}
	u.TokenVersion++
	return nil
}

func (f *fakeRepo) SoftDelete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, err := f.live(id)
	if err != nil {
		return err
	}
	now := time.Now()
	u.DeletedAt = &now
	u.TokenVersion++
	return nil
}

func (f *fakeRepo) List(_ context.Context, filter ListFilter) ([]User, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	page := filter.Page.Normalize()
	search := strings.ToLower(filter.Search)

	var out []User
	for _, u := range f.users {
		if u.DeletedAt != nil {
			continue
		}
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(u.Email), search) &&
			!strings.Contains(strings.ToLower(u.Name), search) {
			continue
		}
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })

	total := len(out)
	start := min(page.Offset(), total)
	end := min(start+page.PageSize, total)
	return out[start:end], total, nil
}

func (f *fakeRepo) CountByRole(_ context.Context) (map[string]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := map[string]int{RoleUser: 0, RoleCoach: 0, RoleAdmin: 0}
	for _, u := range f.users {
		if u.DeletedAt == nil {
			out[u.Role]++
		}
	}
	return out, nil
}
