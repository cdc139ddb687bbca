// AngelaMos | 2026
// fake_test.go

package workout

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/liftlog/liftlog-api/internal/core"
	"github.com/liftlog/liftlog-api/internal/records"
)

type fakeRepo struct {
	mu       sync.Mutex
	workouts map[string]*Workout
	updates  int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{workouts: make(map[string]*Workout)}
}

func (f *fakeRepo) Create(_ context.Context, w *Workout) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	w.CreatedAt = time.Now()
	w.UpdatedAt = w.CreatedAt
	cp := *w
	f.workouts[w.ID] = &cp
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, userID, id string) (*Workout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w, ok := f.workouts[id]
	if !ok || w.UserID != userID || w.DeletedAt != nil {
		return nil, fmt.Errorf("get workout: %w", core.ErrNotFound)
	}
	cp := *w
	return &cp, nil
}

func (f *fakeRepo) List(_ context.Context, userID string, filter ListFilter) ([]Workout, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []Workout
	for _, w := range f.workouts {
		if w.UserID != userID || w.DeletedAt != nil {
			continue
		}
		if !filter.From.IsZero() && w.Date.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && w.Date.After(filter.To) {
			continue
		}
		if filter.Status != "" && w.Status != filter.Status {
			continue
		}
		out = append(out, *w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })

	start := min(filter.Page.Offset(), len(out))
	end := min(start+filter.Page.PageSize, len(out))
	return out[start:end], len(out), nil
}

func (f *fakeRepo) ListBetween(_ context.Context, userID string, from, to time.Time) ([]Workout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []Workout
	for _, w := range f.workouts {
		if w.UserID == userID && w.DeletedAt == nil && !w.Date.Before(from) && w.Date.Before(to) {
			out = append(out, *w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (f *fakeRepo) Update(_ context.Context, w *Workout) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	stored, ok := f.workouts[w.ID]
	if !ok || stored.UserID != w.UserID || stored.DeletedAt != nil {
		return fmt.Errorf("update workout: %w", core.ErrNotFound)
	}
	f.updates++
	w.UpdatedAt = time.Now()
	cp := *w
	f.workouts[w.ID] = &cp
	return nil
}

func (f *fakeRepo) SoftDelete(_ context.Context, userID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	w, ok := f.workouts[id]
	if !ok || w.UserID != userID || w.DeletedAt != nil {
		return fmt.Errorf("delete workout: %w", core.ErrNotFound)
	}
	now := time.Now()
	w.DeletedAt = &now
	return nil
}

// fakeDetector keeps the heaviest set per (lift, reps) and records it when it
// beats the best seen so far, so reruns find nothing new.
type fakeDetector struct {
	mu    sync.Mutex
	best  map[string]float64
	calls int
	err   error
}

func newFakeDetector() *fakeDetector {
	return &fakeDetector{best: make(map[string]float64)}
}

func (d *fakeDetector) DetectFromWorkout(
	_ context.Context,
	userID, workoutID string,
	date time.Time,
	sets []records.Performance,
) ([]records.PersonalRecord, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.calls++
	if d.err != nil {
		return nil, d.err
	}

	heaviest := map[string]records.Performance{}
	var order []string
	for _, s := range sets {
		key := fmt.Sprintf("%s/%d", s.Lift, s.Reps)
		prev, seen := heaviest[key]
		if !seen {
			order = append(order, key)
		}
		if !seen || s.Weight > prev.Weight {
			heaviest[key] = s
		}
	}

	out := []records.PersonalRecord{}
	for _, key := range order {
		s := heaviest[key]
		if s.Weight <= d.best[key] {
			continue
		}
		d.best[key] = s.Weight
		out = append(out, records.PersonalRecord{
			ID:        fmt.Sprintf("pr-%d", len(d.best)),
			UserID:    userID,
			Lift:      s.Lift,
			Weight:    s.Weight,
			Reps:      s.Reps,
			Date:      date,
			Context:   records.ContextTraining,
			WorkoutID: &workoutID,
			IsActive:  true,
		})
	}
	return out, nil
}
