// AngelaMos | 2026
// fake_test.go

package competition

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/liftlog/liftlog-api/internal/core"
	"github.com/liftlog/liftlog-api/internal/records"
)

type fakeRepo struct {
	mu    sync.Mutex
	comps map[string]*Competition
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{comps: make(map[string]*Competition)}
}

func (f *fakeRepo) Create(_ context.Context, c *Competition) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	cp := *c
	f.comps[c.ID] = &cp
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, userID, id string) (*Competition, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	c, ok := f.comps[id]
	if !ok || c.UserID != userID {
		return nil, fmt.Errorf("get competition: %w", core.ErrNotFound)
	}
	cp := *c
	return &cp, nil
}

func (f *fakeRepo) List(
	_ context.Context,
	userID string,
	status Status,
	params core.PageParams,
) ([]Competition, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []Competition
	for _, c := range f.comps {
		if c.UserID != userID || (status != "" && c.Status != status) {
			continue
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })

	total := len(out)
	start := min(params.Offset(), total)
	end := min(start+params.PageSize, total)
	return out[start:end], total, nil
}

func (f *fakeRepo) Update(_ context.Context, c *Competition) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	existing, ok := f.comps[c.ID]
	if !ok || existing.UserID != c.UserID {
		return fmt.Errorf("update competition: %w", core.ErrNotFound)
	}
	c.UpdatedAt = time.Now()
	cp := *c
	f.comps[c.ID] = &cp
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, userID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	c, ok := f.comps[id]
	if !ok || c.UserID != userID {
		return fmt.Errorf("delete competition: %w", core.ErrNotFound)
	}
	delete(f.comps, id)
	return nil
}

type detectCall struct {
	competitionID string
	date          time.Time
	attempts      []records.Performance
}

// fakeDetector records every candidate whose weight beats the best seen
// for its lift.
type fakeDetector struct {
	mu    sync.Mutex
	best  map[string]float64
	calls []detectCall
	err   error
}

func newFakeDetector() *fakeDetector {
	return &fakeDetector{best: make(map[string]float64)}
}

func (f *fakeDetector) DetectFromCompetition(
	_ context.Context,
	userID, competitionID string,
	date time.Time,
	attempts []records.Performance,
) ([]records.PersonalRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, detectCall{competitionID: competitionID, date: date, attempts: attempts})
	if f.err != nil {
		return nil, f.err
	}

	var out []records.PersonalRecord
	for _, a := range attempts {
		if a.Weight <= f.best[a.Lift] {
			continue
		}
		f.best[a.Lift] = a.Weight
		out = append(out, records.PersonalRecord{
			ID:            fmt.Sprintf("pr-%d", len(f.calls)*10+len(out)),
			UserID:        userID,
			Lift:          a.Lift,
			Weight:        a.Weight,
			Reps:          a.Reps,
			Context:       records.ContextCompetition,
			Date:          date,
			CompetitionID: &competitionID,
			IsActive:      true,
		})
	}
	return out, nil
}

type fakeAthletes struct {
	athlete *records.Athlete
	err     error
}

var errAthleteUnavailable = errors.New("profile store unavailable")

func (f fakeAthletes) Athlete(_ context.Context, _ string) (*records.Athlete, error) {
	return f.athlete, f.err
}
