// AngelaMos | 2026
// fake_test.go

package records

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/liftlog/liftlog-api/internal/core"
	"github.com/liftlog/liftlog-api/internal/strength"
)

type fakeRepo struct {
	mu      sync.Mutex
	records map[string]*PersonalRecord
	clock   time.Time
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		records: make(map[string]*PersonalRecord),
		clock:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (f *fakeRepo) tick() time.Time {
	f.clock = f.clock.Add(time.Second)
	return f.clock
}

func (f *fakeRepo) seed(rec PersonalRecord) *PersonalRecord {
	f.mu.Lock()
	defer f.mu.Unlock()

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Reps == 0 {
		rec.Reps = 1
	}
	if rec.Context == "" {
		rec.Context = ContextTraining
	}
	if rec.EstimatedOneRM == 0 {
		rec.EstimatedOneRM = strength.EstimatedOneRepMax(rec.Weight, rec.Reps)
	}
	rec.IsActive = true
	rec.Version = 1
	rec.CreatedAt = f.tick()
	f.records[rec.ID] = &rec
	cp := rec
	return &cp
}

func sameSlot(r *PersonalRecord, userID, lift string, reps int) bool {
	return r.UserID == userID && strings.EqualFold(r.Lift, lift) && r.Reps == reps
}

func (f *fakeRepo) Create(_ context.Context, rec *PersonalRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, r := range f.records {
		if r.IsActive && sameSlot(r, rec.UserID, rec.Lift, rec.Reps) && r.Weight == rec.Weight {
			return fmt.Errorf("create record: %w", core.ErrDuplicateKey)
		}
	}

	rec.IsActive = true
	rec.Version = 1
	rec.CreatedAt = f.tick()
	rec.UpdatedAt = rec.CreatedAt
	cp := *rec
	f.records[rec.ID] = &cp
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, userID, id string) (*PersonalRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	r, ok := f.records[id]
	if !ok || r.UserID != userID {
		return nil, fmt.Errorf("get record: %w", core.ErrNotFound)
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRepo) GetByIDAny(_ context.Context, id string) (*PersonalRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	r, ok := f.records[id]
	if !ok {
		return nil, fmt.Errorf("get record: %w", core.ErrNotFound)
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRepo) BestWeight(
	_ context.Context,
	userID, lift string,
	reps int,
	asOf time.Time,
) (*PersonalRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var best *PersonalRecord
	for _, r := range f.records {
		if !r.IsActive || !sameSlot(r, userID, lift, reps) || r.Date.After(asOf) {
			continue
		}
		if best == nil || r.beats(best) {
			best = r
		}
	}
	if best == nil {
		return nil, fmt.Errorf("best weight: %w", core.ErrNotFound)
	}
	cp := *best
	return &cp, nil
}

func (f *fakeRepo) BestWeightByCategory(
	_ context.Context,
	userID string,
	category strength.Category,
	reps int,
	asOf time.Time,
) (*PersonalRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var best *PersonalRecord
	for _, r := range f.records {
		if !r.IsActive || r.UserID != userID || r.Reps != reps || r.Date.After(asOf) {
			continue
		}
		if strength.CategorizeLift(r.Lift) != category {
			continue
		}
		if best == nil || r.beats(best) {
			best = r
		}
	}
	if best == nil {
		return nil, fmt.Errorf("best weight by category: %w", core.ErrNotFound)
	}
	cp := *best
	return &cp, nil
}

func (f *fakeRepo) sorted(keep func(*PersonalRecord) bool) []PersonalRecord {
	out := []PersonalRecord{}
	for _, r := range f.records {
		if keep(r) {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (f *fakeRepo) ListActive(_ context.Context, userID string) ([]PersonalRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.sorted(func(r *PersonalRecord) bool {
		return r.UserID == userID && r.IsActive
	}), nil
}

func (f *fakeRepo) ListByLift(
	_ context.Context,
	userID, lift string,
	params core.PageParams,
) ([]PersonalRecord, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	all := f.sorted(func(r *PersonalRecord) bool {
		return r.UserID == userID && r.IsActive && strings.EqualFold(r.Lift, lift)
	})
	for i, j := 0, len(all)-1; i < j; i, j = i+1, j-1 {
		all[i], all[j] = all[j], all[i]
	}

	start := min(params.Offset(), len(all))
	end := min(start+params.PageSize, len(all))
	return all[start:end], len(all), nil
}

func (f *fakeRepo) ListInWindow(
	_ context.Context,
	userID, lift string,
	from time.Time,
	includeInactive bool,
) ([]PersonalRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.sorted(func(r *PersonalRecord) bool {
		return r.UserID == userID &&
			!r.Date.Before(from) &&
			(lift == "" || strings.EqualFold(r.Lift, lift)) &&
			(includeInactive || r.IsActive)
	}), nil
}

func (f *fakeRepo) Latest(_ context.Context, userID string) (*PersonalRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	all := f.sorted(func(r *PersonalRecord) bool {
		return r.UserID == userID && r.IsActive
	})
	if len(all) == 0 {
		return nil, fmt.Errorf("latest record: %w", core.ErrNotFound)
	}
	return &all[len(all)-1], nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, rec *PersonalRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	stored, ok := f.records[rec.ID]
	if !ok || stored.Version != rec.Version {
		return fmt.Errorf("update record status: %w", core.ErrConflict)
	}

	stored.IsActive = rec.IsActive
	stored.Verified = rec.Verified
	stored.VerifiedBy = rec.VerifiedBy
	stored.VerifiedAt = rec.VerifiedAt
	stored.Version++
	rec.Version = stored.Version
	return nil
}

func (f *fakeRepo) CountByUser(_ context.Context, userID string, monthStart time.Time) (Counts, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var c Counts
	for _, r := range f.records {
		if r.UserID != userID || !r.IsActive {
			continue
		}
		c.Active++
		if r.Context == ContextTraining {
			c.Training++
		} else {
			c.Competition++
		}
		if r.Verified {
			c.Verified++
		}
		if !r.Date.Before(monthStart) {
			c.ThisMonth++
		}
	}
	return c, nil
}

func (f *fakeRepo) activeCount(userID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := 0
	for _, r := range f.records {
		if r.UserID == userID && r.IsActive {
			n++
		}
	}
	return n
}

type fakeAthletes struct {
	athlete *Athlete
}

func (f fakeAthletes) Athlete(context.Context, string) (*Athlete, error) {
	return f.athlete, nil
}
