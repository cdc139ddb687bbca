// AngelaMos | 2026
// service.go

package workout

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/liftlog/liftlog-api/internal/core"
	"github.com/liftlog/liftlog-api/internal/records"
)

// RecordDetector runs the workout record trigger.
type RecordDetector interface {
	DetectFromWorkout(
		ctx context.Context,
		userID, workoutID string,
		date time.Time,
		sets []records.Performance,
	) ([]records.PersonalRecord, error)
}

type Service struct {
	repo     Repository
	detector RecordDetector
	logger   *slog.Logger
	now      func() time.Time
}

func NewService(repo Repository, detector RecordDetector, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		detector: detector,
		logger:   logger,
		now:      time.Now,
	}
}

func parseDate(raw string) (time.Time, error) {
	d, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", raw, core.ErrInvalidInput)
	}
	return d, nil
}

// Create stores a workout. One created already completed runs the record
// trigger straight away.
func (s *Service) Create(
	ctx context.Context,
	userID string,
	req CreateWorkoutRequest,
) (*Workout, []records.PersonalRecord, error) {
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, nil, err
	}

	status := req.Status
	if status == "" {
		status = StatusPlanned
	}

	w := &Workout{
		ID:          uuid.New().String(),
		UserID:      userID,
		Name:        req.Name,
		Date:        date,
		Status:      status,
		Exercises:   toExercises(req.Exercises),
		DurationMin: req.DurationMin,
		Notes:       req.Notes,
	}
	if status == StatusCompleted {
		now := s.now().UTC()
		w.CompletedAt = &now
	}

	if err := s.repo.Create(ctx, w); err != nil {
		return nil, nil, err
	}

	if status != StatusCompleted {
		return w, nil, nil
	}
	return s.detect(ctx, w)
}

func (s *Service) Get(ctx context.Context, userID, id string) (*Workout, error) {
	return s.repo.GetByID(ctx, userID, id)
}

func (s *Service) List(
	ctx context.Context,
	userID string,
	filter ListFilter,
) ([]Workout, int, error) {
	filter.Page = filter.Page.Normalize()
	return s.repo.List(ctx, userID, filter)
}

// Update replaces the supplied fields. When the result is completed the
// record trigger runs over the stored sets.
func (s *Service) Update(
	ctx context.Context,
	userID, id string,
	req UpdateWorkoutRequest,
) (*Workout, []records.PersonalRecord, error) {
	w, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, nil, err
	}

	if req.Name != nil {
		w.Name = *req.Name
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			return nil, nil, err
		}
		w.Date = date
	}
	if req.Status != nil {
		w.Status = *req.Status
	}
	if req.Exercises != nil {
		w.Exercises = toExercises(*req.Exercises)
	}
	if req.DurationMin != nil {
		w.DurationMin = req.DurationMin
	}
	if req.Notes != nil {
		w.Notes = *req.Notes
	}

	switch {
	case w.Status == StatusCompleted && w.CompletedAt == nil:
		now := s.now().UTC()
		w.CompletedAt = &now
	case w.Status != StatusCompleted:
		w.CompletedAt = nil
	}

	if err := s.repo.Update(ctx, w); err != nil {
		return nil, nil, err
	}

	if w.Status != StatusCompleted {
		return w, nil, nil
	}
	return s.detect(ctx, w)
}

// Complete marks the workout done and runs the record trigger. Completing
// an already completed workout returns it unchanged.
func (s *Service) Complete(
	ctx context.Context,
	userID, id string,
) (*Workout, []records.PersonalRecord, error) {
	w, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, nil, err
	}
	if w.Status == StatusCompleted {
		return w, []records.PersonalRecord{}, nil
	}

	now := s.now().UTC()
	w.Status = StatusCompleted
	w.CompletedAt = &now

	if err := s.repo.Update(ctx, w); err != nil {
		return nil, nil, err
	}

	return s.detect(ctx, w)
}

func (s *Service) detect(ctx context.Context, w *Workout) (*Workout, []records.PersonalRecord, error) {
	found, err := s.detector.DetectFromWorkout(ctx, w.UserID, w.ID, w.Date, w.Performances())
	if err != nil {
		return nil, nil, fmt.Errorf("detect workout records: %w", err)
	}
	if len(found) == 0 {
		return w, []records.PersonalRecord{}, nil
	}

	w.RecordsSet += len(found)
	if err := s.repo.Update(ctx, w); err != nil {
		s.logger.WarnContext(ctx, "store workout record count failed",
			"workout_id", w.ID,
			"error", err,
		)
	}

	return w, found, nil
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	return s.repo.SoftDelete(ctx, userID, id)
}

type Day struct {
	Date     time.Time
	Workouts []Workout
}

// Week is the seven-day plan view. Planned counts every scheduled workout.
type Week struct {
	Start           time.Time
	Days            []Day
	Planned         int
	Completed       int
	Skipped         int
	PlannedVolume   float64
	CompletedVolume float64
}

// WeekStart returns the Monday on or before t.
func WeekStart(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// Week builds the plan view for the seven days from start. An empty start
// selects the current week.
func (s *Service) Week(ctx context.Context, userID, start string) (*Week, error) {
	from := WeekStart(s.now())
	if start != "" {
		d, err := parseDate(start)
		if err != nil {
			return nil, err
		}
		from = d
	}

	workouts, err := s.repo.ListBetween(ctx, userID, from, from.AddDate(0, 0, 7))
	if err != nil {
		return nil, err
	}

	wk := &Week{Start: from, Days: make([]Day, 7)}
	for i := range wk.Days {
		wk.Days[i] = Day{Date: from.AddDate(0, 0, i), Workouts: []Workout{}}
	}

	for _, w := range workouts {
		idx := int(w.Date.UTC().Sub(from).Hours() / 24)
		if idx < 0 || idx > 6 {
			continue
		}
		wk.Days[idx].Workouts = append(wk.Days[idx].Workouts, w)

		wk.Planned++
		wk.PlannedVolume += w.Volume(false)
		switch w.Status {
		case StatusCompleted:
			wk.Completed++
			wk.CompletedVolume += w.Volume(true)
		case StatusSkipped:
			wk.Skipped++
		}
	}

	return wk, nil
}
