// AngelaMos | 2026
// fake_test.go

package goal

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/liftlog/liftlog-api/internal/core"
	"github.com/liftlog/liftlog-api/internal/records"
)

type fakeRepo struct {
	mu      sync.Mutex
	goals   map[string]*Goal
	order   []string
	stamped int
	markErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{goals: make(map[string]*Goal)}
}

func (f *fakeRepo) Create(_ context.Context, g *Goal) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.goals {
		if existing.UserID == g.UserID && existing.Year == g.Year && existing.Target == g.Target {
			return fmt.Errorf("create goal: %w", core.ErrDuplicateKey)
		}
	}
	g.CreatedAt = time.Now()
	g.UpdatedAt = g.CreatedAt
	cp := *g
	f.goals[g.ID] = &cp
	f.order = append(f.order, g.ID)
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, userID, id string) (*Goal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	g, ok := f.goals[id]
	if !ok || g.UserID != userID {
		return nil, fmt.Errorf("get goal: %w", core.ErrNotFound)
	}
	cp := *g
	return &cp, nil
}

func (f *fakeRepo) ListByYear(_ context.Context, userID string, year int) ([]Goal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []Goal
	for _, id := range f.order {
		g, ok := f.goals[id]
		if ok && g.UserID == userID && g.Year == year {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (f *fakeRepo) Update(_ context.Context, g *Goal) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	existing, ok := f.goals[g.ID]
	if !ok || existing.UserID != g.UserID {
		return fmt.Errorf("update goal: %w", core.ErrNotFound)
	}
	g.UpdatedAt = time.Now()
	cp := *g
	f.goals[g.ID] = &cp
	return nil
}

func (f *fakeRepo) MarkAchieved(_ context.Context, id string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.markErr != nil {
		return f.markErr
	}
	g, ok := f.goals[id]
	if ok && g.AchievedAt == nil {
		g.AchievedAt = &at
		f.stamped++
	}
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, userID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	g, ok := f.goals[id]
	if !ok || g.UserID != userID {
		return fmt.Errorf("delete goal: %w", core.ErrNotFound)
	}
	delete(f.goals, id)
	return nil
}

type fakeBests struct {
	mu    sync.Mutex
	bests *records.BestLifts
	err   error
}

func (f *fakeBests) set(squat, bench, deadlift float64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	b := &records.BestLifts{}
	for _, slot := range []struct {
		dst    **records.PersonalRecord
		lift   string
		weight float64
	}{
		{&b.Squat, "Squat", squat},
		{&b.Bench, "Bench Press", bench},
		{&b.Deadlift, "Deadlift", deadlift},
	} {
		if slot.weight == 0 {
			continue
		}
		*slot.dst = &records.PersonalRecord{Lift: slot.lift, Weight: slot.weight, Reps: 1}
		b.Total += slot.weight
	}
	f.bests = b
}

func (f *fakeBests) BestLifts(_ context.Context, _ string) (*records.BestLifts, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bests, f.err
}
