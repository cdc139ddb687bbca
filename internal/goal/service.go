// AngelaMos | 2026
// service.go

package goal

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/liftlog/liftlog-api/internal/records"
)

// BestsSource supplies the current single-rep bests goals are measured
// against.
type BestsSource interface {
	BestLifts(ctx context.Context, userID string) (*records.BestLifts, error)
}

type Service struct {
	repo   Repository
	bests  BestsSource
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo Repository, bests BestsSource, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		bests:  bests,
		logger: logger,
		now:    time.Now,
	}
}

func (s *Service) Create(ctx context.Context, userID string, req CreateGoalRequest) (*Progress, error) {
	year := req.Year
	if year == 0 {
		year = s.now().UTC().Year()
	}

	g := &Goal{
		ID:           uuid.New().String(),
		UserID:       userID,
		Year:         year,
		Target:       req.Target,
		TargetWeight: req.TargetWeight,
		Notes:        req.Notes,
	}
	if err := s.repo.Create(ctx, g); err != nil {
		return nil, err
	}

	bests, err := s.bests.BestLifts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load best lifts: %w", err)
	}
	return s.evaluate(ctx, *g, bests), nil
}

// List returns the year's goals with progress. Goals whose target has been
// reached are stamped achieved on the way out.
func (s *Service) List(ctx context.Context, userID string, year int) ([]Progress, error) {
	if year == 0 {
		year = s.now().UTC().Year()
	}

	goals, err := s.repo.ListByYear(ctx, userID, year)
	if err != nil {
		return nil, err
	}
	if len(goals) == 0 {
		return []Progress{}, nil
	}

	bests, err := s.bests.BestLifts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load best lifts: %w", err)
	}

	out := make([]Progress, 0, len(goals))
	for _, g := range goals {
		out = append(out, *s.evaluate(ctx, g, bests))
	}
	return out, nil
}

// Update changes the target. Raising it past the current best reopens an
// achieved goal.
func (s *Service) Update(
	ctx context.Context,
	userID, id string,
	req UpdateGoalRequest,
) (*Progress, error) {
	g, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	bests, err := s.bests.BestLifts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load best lifts: %w", err)
	}

	if req.TargetWeight != nil {
		g.TargetWeight = *req.TargetWeight
		if current(g.Target, bests) < g.TargetWeight {
			g.AchievedAt = nil
		}
	}
	if req.Notes != nil {
		g.Notes = *req.Notes
	}

	if err := s.repo.Update(ctx, g); err != nil {
		return nil, err
	}
	return s.evaluate(ctx, *g, bests), nil
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	return s.repo.Delete(ctx, userID, id)
}

func (s *Service) evaluate(ctx context.Context, g Goal, bests *records.BestLifts) *Progress {
	p := measure(g, bests)

	if p.Current >= g.TargetWeight && !g.Achieved() {
		at := s.now().UTC()
		if err := s.repo.MarkAchieved(ctx, g.ID, at); err != nil {
			s.logger.WarnContext(ctx, "failed to stamp goal achieved",
				"goal_id", g.ID,
				"error", err,
			)
		} else {
			p.Goal.AchievedAt = &at
			s.logger.InfoContext(ctx, "goal achieved",
				"goal_id", g.ID,
				"user_id", g.UserID,
				"target", g.Target,
				"target_weight", g.TargetWeight,
			)
		}
	}

	return p
}

func measure(g Goal, bests *records.BestLifts) *Progress {
	cur := current(g.Target, bests)

	percent := 0.0
	if g.TargetWeight > 0 {
		percent = math.Min(100, math.Round(cur/g.TargetWeight*1000)/10)
	}

	return &Progress{
		Goal:      g,
		Current:   cur,
		Percent:   percent,
		Remaining: math.Max(0, g.TargetWeight-cur),
	}
}

func current(target Target, bests *records.BestLifts) float64 {
	if bests == nil {
		return 0
	}

	var rec *records.PersonalRecord
	switch target {
	case TargetSquat:
		rec = bests.Squat
	case TargetBench:
		rec = bests.Bench
	case TargetDeadlift:
		rec = bests.Deadlift
	case TargetTotal:
		return bests.Total
	}
	if rec == nil {
		return 0
	}
	return rec.Weight
}
