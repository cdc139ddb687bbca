// AngelaMos | 2026
// service.go

package records

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/liftlog/liftlog-api/internal/config"
	"github.com/liftlog/liftlog-api/internal/core"
	"github.com/liftlog/liftlog-api/internal/events"
	"github.com/liftlog/liftlog-api/internal/strength"
)

type Service struct {
	repo       Repository
	evaluator  *Evaluator
	aggregator *Aggregator
	publisher  events.Publisher
	logger     *slog.Logger
	cfg        config.RecordsConfig
	now        func() time.Time
}

func NewService(
	repo Repository,
	aggregator *Aggregator,
	publisher events.Publisher,
	logger *slog.Logger,
	cfg config.RecordsConfig,
) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Service{
		repo:       repo,
		evaluator:  NewEvaluator(repo),
		aggregator: aggregator,
		publisher:  publisher,
		logger:     logger,
		cfg:        cfg,
		now:        time.Now,
	}
}

func (s *Service) today() time.Time {
	y, m, d := s.now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// CreateManual stores a hand-entered record. Submissions that do not beat
// the current best fail with a *NotARecordError.
func (s *Service) CreateManual(
	ctx context.Context,
	userID string,
	req CreateRecordRequest,
) (*PersonalRecord, error) {
	date := s.today()
	if req.Date != "" {
		parsed, err := time.Parse(dateLayout, req.Date)
		if err != nil {
			return nil, fmt.Errorf("parse date: %w", core.ErrInvalidInput)
		}
		date = parsed
	}
	if date.After(s.today()) {
		return nil, fmt.Errorf("record date in the future: %w", core.ErrInvalidInput)
	}

	recCtx := req.Context
	if recCtx == "" {
		recCtx = ContextTraining
	}

	perf := Performance{
		Lift:   strength.NormalizeLiftName(req.Lift),
		Weight: req.Weight,
		Reps:   max(req.Reps, 1),
		RPE:    req.RPE,
	}

	rec, prev, err := s.recordIfNew(ctx, userID, Source{Context: recCtx, Date: date}, perf, req.Notes)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		recordsRejected.Inc()
		return nil, &NotARecordError{
			Lift:    perf.Lift,
			Reps:    perf.Reps,
			Weight:  perf.Weight,
			Current: prev,
		}
	}

	s.aggregator.Invalidate(ctx, userID)
	s.publish(ctx, []achieved{{rec: rec, prev: prev}})

	return rec, nil
}

// DetectFromWorkout records every completed set that beats the user's best
// for its (lift, reps). Re-running it on unchanged data creates nothing.
func (s *Service) DetectFromWorkout(
	ctx context.Context,
	userID, workoutID string,
	date time.Time,
	sets []Performance,
) ([]PersonalRecord, error) {
	return s.detect(ctx, userID, Source{
		Context:   ContextTraining,
		Date:      date,
		WorkoutID: &workoutID,
	}, sets)
}

// DetectFromCompetition records each lift's best made attempt as a
// single-rep competition record when it beats the existing best.
func (s *Service) DetectFromCompetition(
	ctx context.Context,
	userID, competitionID string,
	date time.Time,
	attempts []Performance,
) ([]PersonalRecord, error) {
	return s.detect(ctx, userID, Source{
		Context:       ContextCompetition,
		Date:          date,
		CompetitionID: &competitionID,
	}, attempts)
}

type achieved struct {
	rec  *PersonalRecord
	prev *PersonalRecord
}

func (s *Service) detect(
	ctx context.Context,
	userID string,
	src Source,
	perfs []Performance,
) ([]PersonalRecord, error) {
	ctx, span := core.StartSpan(ctx, "records.detect")
	defer span.End()

	var found []achieved
	defer func() {
		if len(found) > 0 {
			s.aggregator.Invalidate(ctx, userID)
			s.publish(ctx, found)
		}
	}()

	for _, perf := range strongestPerSlot(perfs) {
		rec, prev, err := s.recordIfNew(ctx, userID, src, perf, "")
		if err != nil {
			core.SetSpanError(ctx, err)
			return recordsOf(found), err
		}
		if rec != nil {
			found = append(found, achieved{rec: rec, prev: prev})
		}
	}

	if len(found) > 0 {
		s.logger.InfoContext(ctx, "personal records detected",
			"user_id", userID,
			"context", src.Context,
			"count", len(found),
		)
	}

	return recordsOf(found), nil
}

func recordsOf(found []achieved) []PersonalRecord {
	out := make([]PersonalRecord, 0, len(found))
	for _, a := range found {
		out = append(out, *a.rec)
	}
	return out
}

// recordIfNew persists perf when it is a new record. A nil record with a nil
// error means it was not one, or a concurrent writer stored it first.
func (s *Service) recordIfNew(
	ctx context.Context,
	userID string,
	src Source,
	perf Performance,
	notes string,
) (*PersonalRecord, *PersonalRecord, error) {
	isNew, prev, err := s.evaluate(ctx, userID, src, perf)
	if err != nil {
		return nil, nil, err
	}
	if !isNew {
		return nil, prev, nil
	}

	rec := &PersonalRecord{
		ID:             uuid.New().String(),
		UserID:         userID,
		Lift:           perf.Lift,
		Weight:         perf.Weight,
		Reps:           perf.Reps,
		Date:           src.Date,
		Context:        src.Context,
		WorkoutID:      src.WorkoutID,
		CompetitionID:  src.CompetitionID,
		RPE:            perf.RPE,
		EstimatedOneRM: strength.EstimatedOneRepMax(perf.Weight, perf.Reps),
		Notes:          notes,
	}

	if err := s.repo.Create(ctx, rec); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			s.logger.DebugContext(ctx, "record already stored by a concurrent writer",
				"user_id", userID,
				"lift", perf.Lift,
				"reps", perf.Reps,
			)
			return nil, prev, nil
		}
		return nil, nil, err
	}

	recordsDetected.WithLabelValues(string(src.Context)).Inc()

	return rec, prev, nil
}

// evaluate compares competition lifts against the whole lift category and
// everything else against the exact (lift, reps) slot.
func (s *Service) evaluate(
	ctx context.Context,
	userID string,
	src Source,
	perf Performance,
) (bool, *PersonalRecord, error) {
	if src.Context == ContextCompetition {
		if c := strength.CategorizeLift(perf.Lift); c != strength.CategoryOther {
			return s.evaluator.IsNewLiftRecord(ctx, userID, c, perf.Reps, perf.Weight, src.Date)
		}
	}
	return s.evaluator.IsNewRecord(ctx, userID, perf.Lift, perf.Reps, perf.Weight, src.Date)
}

// strongestPerSlot keeps the heaviest valid set per (lift, reps), in first
// seen order.
func strongestPerSlot(perfs []Performance) []Performance {
	index := make(map[bestKey]int, len(perfs))
	out := make([]Performance, 0, len(perfs))

	for _, p := range perfs {
		p.Lift = strength.NormalizeLiftName(p.Lift)
		if p.Lift == "" || p.Weight <= 0 || p.Reps < 1 {
			continue
		}

		k := bestKey{lift: strength.LiftKey(p.Lift), reps: p.Reps}
		if i, ok := index[k]; ok {
			if p.Weight > out[i].Weight {
				out[i] = p
			}
			continue
		}
		index[k] = len(out)
		out = append(out, p)
	}

	return out
}

func (s *Service) publish(ctx context.Context, found []achieved) {
	evts := make([]events.Event, 0, len(found))
	for _, a := range found {
		payload := events.PersonalRecordAchieved{
			RecordID:       a.rec.ID,
			UserID:         a.rec.UserID,
			Lift:           a.rec.Lift,
			Weight:         a.rec.Weight,
			Reps:           a.rec.Reps,
			EstimatedOneRM: a.rec.EstimatedOneRM,
			Context:        string(a.rec.Context),
		}
		if a.prev != nil {
			payload.PreviousBest = &a.prev.Weight
		}
		evts = append(evts, events.Event{
			Type:       events.TypePersonalRecordAchieved,
			Key:        a.rec.UserID,
			OccurredAt: s.now().UTC(),
			Payload:    payload,
		})
	}

	if err := s.publisher.Publish(ctx, evts...); err != nil {
		s.logger.WarnContext(ctx, "publish record events failed", "count", len(evts), "error", err)
	}
}

func (s *Service) Get(ctx context.Context, userID, id string) (*PersonalRecord, error) {
	return s.repo.GetByID(ctx, userID, id)
}

// SoftDelete deactivates a record. Deleting an inactive record is a no-op.
func (s *Service) SoftDelete(ctx context.Context, userID, id string) error {
	rec, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return err
	}
	if !rec.IsActive {
		return nil
	}

	rec.IsActive = false
	if err := s.repo.UpdateStatus(ctx, rec); err != nil {
		return err
	}

	s.aggregator.Invalidate(ctx, userID)
	return nil
}

// Verify marks an active record as checked by a coach or judge.
func (s *Service) Verify(ctx context.Context, verifierID, id string) (*PersonalRecord, error) {
	rec, err := s.repo.GetByIDAny(ctx, id)
	if err != nil {
		return nil, err
	}
	if !rec.IsActive {
		return nil, fmt.Errorf("verify inactive record: %w", core.ErrNotFound)
	}
	if rec.Verified {
		return rec, nil
	}

	now := s.now().UTC()
	rec.Verified = true
	rec.VerifiedBy = &verifierID
	rec.VerifiedAt = &now

	if err := s.repo.UpdateStatus(ctx, rec); err != nil {
		return nil, err
	}

	s.aggregator.Invalidate(ctx, rec.UserID)
	return rec, nil
}

func (s *Service) CurrentBests(ctx context.Context, userID string) ([]PersonalRecord, error) {
	return s.aggregator.CurrentBests(ctx, userID)
}

func (s *Service) BestLifts(ctx context.Context, userID string) (*BestLifts, error) {
	return s.aggregator.BestLifts(ctx, userID)
}

func (s *Service) History(
	ctx context.Context,
	userID, lift string,
	params core.PageParams,
) ([]PersonalRecord, int, error) {
	return s.repo.ListByLift(ctx, userID, strength.NormalizeLiftName(lift), params.Normalize())
}

// Trend clamps months to the configured window. Zero selects the default.
func (s *Service) Trend(
	ctx context.Context,
	userID, lift string,
	months int,
	includeInactive bool,
) (*Trend, error) {
	if months <= 0 {
		months = s.cfg.DefaultTrendMonths
	}
	months = min(max(months, 1), s.cfg.MaxTrendMonths)

	return s.aggregator.Trend(ctx, userID, strength.NormalizeLiftName(lift), months, includeInactive)
}

func (s *Service) Stats(ctx context.Context, userID string) (*Stats, error) {
	return s.aggregator.Stats(ctx, userID)
}
