// AngelaMos | 2026
// service.go

package competition

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/liftlog/liftlog-api/internal/core"
	"github.com/liftlog/liftlog-api/internal/records"
	"github.com/liftlog/liftlog-api/internal/strength"
)

// RecordDetector runs the competition record trigger.
type RecordDetector interface {
	DetectFromCompetition(
		ctx context.Context,
		userID, competitionID string,
		date time.Time,
		attempts []records.Performance,
	) ([]records.PersonalRecord, error)
}

type Service struct {
	repo     Repository
	detector RecordDetector
	athletes records.AthleteSource
	logger   *slog.Logger
}

func NewService(
	repo Repository,
	detector RecordDetector,
	athletes records.AthleteSource,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:     repo,
		detector: detector,
		athletes: athletes,
		logger:   logger,
	}
}

func parseDate(raw string) (time.Time, error) {
	d, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", raw, core.ErrInvalidInput)
	}
	return d, nil
}

func (s *Service) Create(
	ctx context.Context,
	userID string,
	req CreateCompetitionRequest,
) (*Competition, error) {
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}

	c := &Competition{
		ID:          uuid.New().String(),
		UserID:      userID,
		Name:        req.Name,
		Date:        date,
		Location:    req.Location,
		Federation:  req.Federation,
		Division:    req.Division,
		WeightClass: req.WeightClass,
		Bodyweight:  req.Bodyweight,
		Status:      StatusUpcoming,
		Attempts:    NewAttempts(),
		Notes:       req.Notes,
	}
	if req.Plan != nil {
		applyPlan(&c.Attempts, req.Plan)
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Get(ctx context.Context, userID, id string) (*Competition, *Result, error) {
	c, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, nil, err
	}
	if c.Status != StatusCompleted {
		return c, nil, nil
	}

	result, err := s.score(ctx, c)
	if err != nil {
		return nil, nil, err
	}
	return c, result, nil
}

func (s *Service) List(
	ctx context.Context,
	userID string,
	status Status,
	params core.PageParams,
) ([]Competition, int, error) {
	return s.repo.List(ctx, userID, status, params.Normalize())
}

// Update edits meet details and planned attempts. Results are recorded
// separately.
func (s *Service) Update(
	ctx context.Context,
	userID, id string,
	req UpdateCompetitionRequest,
) (*Competition, error) {
	c, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			return nil, err
		}
		c.Date = date
	}
	if req.Location != nil {
		c.Location = *req.Location
	}
	if req.Federation != nil {
		c.Federation = *req.Federation
	}
	if req.Division != nil {
		c.Division = *req.Division
	}
	if req.WeightClass != nil {
		c.WeightClass = *req.WeightClass
	}
	if req.Bodyweight != nil {
		c.Bodyweight = req.Bodyweight
	}
	if req.Notes != nil {
		c.Notes = *req.Notes
	}
	if req.Plan != nil {
		applyPlan(&c.Attempts, req.Plan)
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func applyPlan(a *Attempts, plan *PlanRequest) {
	for cat, planned := range map[strength.Category][]*float64{
		strength.CategorySquat:    plan.Squat,
		strength.CategoryBench:    plan.Bench,
		strength.CategoryDeadlift: plan.Deadlift,
	} {
		if planned == nil {
			continue
		}
		la := a.lift(cat)
		for i := range la {
			la[i].Planned = nil
			if i < len(planned) {
				la[i].Planned = planned[i]
			}
		}
	}
}

// RecordResults stores attempt outcomes, completes the meet, and offers the
// best made attempt of each lift to the record engine.
func (s *Service) RecordResults(
	ctx context.Context,
	userID, id string,
	req ResultsRequest,
) (*Competition, *Result, []records.PersonalRecord, error) {
	c, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, nil, nil, err
	}

	for cat, results := range map[strength.Category][]AttemptResultRequest{
		strength.CategorySquat:    req.Squat,
		strength.CategoryBench:    req.Bench,
		strength.CategoryDeadlift: req.Deadlift,
	} {
		la := c.Attempts.lift(cat)
		for i, res := range results {
			if res.Result != ResultPending && res.Weight == nil {
				return nil, nil, nil, fmt.Errorf("%s attempt %d: weight required for a %s attempt: %w",
					cat, i+1, res.Result, core.ErrInvalidInput)
			}
			la[i].Weight = res.Weight
			la[i].Result = res.Result
		}
	}

	if req.Bodyweight != nil {
		c.Bodyweight = req.Bodyweight
	}
	if req.Placement != nil {
		c.Placement = req.Placement
	}
	c.Status = StatusCompleted

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, nil, nil, err
	}

	found, err := s.detector.DetectFromCompetition(ctx, userID, c.ID, c.Date, performances(c))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("detect competition records: %w", err)
	}

	result, err := s.score(ctx, c)
	if err != nil {
		return nil, nil, nil, err
	}

	s.logger.InfoContext(ctx, "competition results recorded",
		"competition_id", c.ID,
		"user_id", userID,
		"total", result.Total,
		"new_records", len(found),
	)

	return c, result, found, nil
}

// performances offers one single-rep candidate per lift under its
// canonical name.
func performances(c *Competition) []records.Performance {
	bests := c.bests()
	out := make([]records.Performance, 0, len(bests))
	for _, cat := range strength.CompetitionLifts() {
		best, ok := bests[cat]
		if !ok {
			continue
		}
		out = append(out, records.Performance{
			Lift:   strength.CanonicalLiftName(cat),
			Weight: best,
			Reps:   1,
		})
	}
	return out
}

// score totals the meet and rates it against the meet-day bodyweight.
func (s *Service) score(ctx context.Context, c *Competition) (*Result, error) {
	bests := c.bests()
	result := &Result{}

	for cat, dst := range map[strength.Category]**float64{
		strength.CategorySquat:    &result.Squat,
		strength.CategoryBench:    &result.Bench,
		strength.CategoryDeadlift: &result.Deadlift,
	} {
		if best, ok := bests[cat]; ok {
			*dst = &best
		}
	}

	if len(bests) != len(strength.CompetitionLifts()) {
		return result, nil
	}
	for _, v := range bests {
		result.Total += v
	}

	if c.Bodyweight == nil || s.athletes == nil {
		return result, nil
	}

	athlete, err := s.athletes.Athlete(ctx, c.UserID)
	if err != nil {
		return nil, fmt.Errorf("load athlete: %w", err)
	}
	if athlete == nil {
		return result, nil
	}

	bw := strength.ToKilograms(*c.Bodyweight, athlete.Unit)
	total := strength.ToKilograms(result.Total, athlete.Unit)
	result.Wilks = strength.Wilks(bw, total, athlete.Sex)
	result.DOTS = strength.DOTS(bw, total, athlete.Sex)

	return result, nil
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	return s.repo.Delete(ctx, userID, id)
}
