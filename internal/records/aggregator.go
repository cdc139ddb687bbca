// AngelaMos | 2026
// aggregator.go

package records

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"sync/atomic"
	"time"

	"github.com/liftlog/liftlog-api/internal/core"
	"github.com/liftlog/liftlog-api/internal/strength"
)

// AthleteSource supplies the profile fields used for Wilks and DOTS.
type AthleteSource interface {
	Athlete(ctx context.Context, userID string) (*Athlete, error)
}

type Aggregator struct {
	repo     Repository
	cache    BestsCache
	athletes AthleteSource
	logger   *slog.Logger
	now      func() time.Time

	// writes counts invalidations so a fill that raced one can undo itself.
	writes atomic.Uint64
}

func NewAggregator(
	repo Repository,
	cache BestsCache,
	athletes AthleteSource,
	logger *slog.Logger,
) *Aggregator {
	if cache == nil {
		cache = NoopBestsCache()
	}
	return &Aggregator{
		repo:     repo,
		cache:    cache,
		athletes: athletes,
		logger:   logger,
		now:      time.Now,
	}
}

type bestKey struct {
	lift string
	reps int
}

// CurrentBests returns one record per (lift, reps): the heaviest active
// record, ties going to the most recent.
func (a *Aggregator) CurrentBests(
	ctx context.Context,
	userID string,
) ([]PersonalRecord, error) {
	ctx, span := core.StartSpan(ctx, "records.CurrentBests")
	defer span.End()

	cached, ok, err := a.cache.Get(ctx, userID)
	if err != nil {
		a.logger.WarnContext(ctx, "bests cache read failed", "user_id", userID, "error", err)
	}
	if ok {
		bestsCacheLookups.WithLabelValues("hit").Inc()
		return cached, nil
	}
	bestsCacheLookups.WithLabelValues("miss").Inc()

	gen := a.writes.Load()
	active, err := a.repo.ListActive(ctx, userID)
	if err != nil {
		core.SetSpanError(ctx, err)
		return nil, err
	}

	bests := reduceBests(active)

	if err := a.cache.Set(ctx, userID, bests); err != nil {
		a.logger.WarnContext(ctx, "bests cache write failed", "user_id", userID, "error", err)
	}
	if a.writes.Load() != gen {
		if err := a.cache.Invalidate(ctx, userID); err != nil {
			a.logger.WarnContext(ctx, "bests cache invalidation failed", "user_id", userID, "error", err)
		}
	}

	return bests, nil
}

// Invalidate drops the cached bests after a record write. Failures are
// logged; the TTL bounds staleness.
func (a *Aggregator) Invalidate(ctx context.Context, userID string) {
	a.writes.Add(1)
	if err := a.cache.Invalidate(ctx, userID); err != nil {
		a.logger.WarnContext(ctx, "bests cache invalidation failed", "user_id", userID, "error", err)
	}
}

func reduceBests(recs []PersonalRecord) []PersonalRecord {
	byKey := make(map[bestKey]int, len(recs))
	out := make([]PersonalRecord, 0, len(recs))

	for _, rec := range recs {
		k := bestKey{lift: strength.LiftKey(rec.Lift), reps: rec.Reps}
		idx, seen := byKey[k]
		if !seen {
			byKey[k] = len(out)
			out = append(out, rec)
			continue
		}
		if rec.beats(&out[idx]) {
			out[idx] = rec
		}
	}

	sort.Slice(out, func(i, j int) bool {
		li, lj := strength.LiftKey(out[i].Lift), strength.LiftKey(out[j].Lift)
		if li != lj {
			return li < lj
		}
		return out[i].Reps < out[j].Reps
	})

	return out
}

type BestLifts struct {
	Squat    *PersonalRecord
	Bench    *PersonalRecord
	Deadlift *PersonalRecord
	Total    float64
	Wilks    float64
	DOTS     float64
	Unit     strength.Unit
}

func (b *BestLifts) byCategory(c strength.Category) **PersonalRecord {
	switch c {
	case strength.CategorySquat:
		return &b.Squat
	case strength.CategoryBench:
		return &b.Bench
	case strength.CategoryDeadlift:
		return &b.Deadlift
	default:
		return nil
	}
}

func (b *BestLifts) complete() bool {
	return b.Squat != nil && b.Bench != nil && b.Deadlift != nil
}

// BestLifts sums the single-rep squat, bench, and deadlift bests. Lifts that
// categorize as other never count toward the total.
func (a *Aggregator) BestLifts(ctx context.Context, userID string) (*BestLifts, error) {
	bests, err := a.CurrentBests(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := summarizeBestLifts(bests)

	if a.athletes == nil || !out.complete() {
		return out, nil
	}

	athlete, err := a.athletes.Athlete(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load athlete: %w", err)
	}
	if athlete == nil {
		return out, nil
	}

	out.Unit = athlete.Unit
	if athlete.Bodyweight != nil {
		bw := strength.ToKilograms(*athlete.Bodyweight, athlete.Unit)
		total := strength.ToKilograms(out.Total, athlete.Unit)
		out.Wilks = strength.Wilks(bw, total, athlete.Sex)
		out.DOTS = strength.DOTS(bw, total, athlete.Sex)
	}

	return out, nil
}

// summarizeBestLifts sums whichever categorized singles exist, so Total is a
// running total even before all three lifts have a record.
func summarizeBestLifts(bests []PersonalRecord) *BestLifts {
	out := &BestLifts{Unit: strength.UnitKg}

	for i := range bests {
		rec := &bests[i]
		if rec.Reps != 1 {
			continue
		}
		slot := out.byCategory(rec.Category())
		if slot == nil {
			continue
		}
		if *slot == nil || rec.beats(*slot) {
			*slot = rec
		}
	}

	for _, rec := range []*PersonalRecord{out.Squat, out.Bench, out.Deadlift} {
		if rec != nil {
			out.Total += rec.Weight
		}
	}

	return out
}

type TrendPoint struct {
	Month       time.Time
	BestWeight  float64
	BestOneRM   float64
	RecordCount int
	DeltaOneRM  *float64
}

type Trend struct {
	Lift        string
	Months      int
	From        time.Time
	Records     []PersonalRecord
	Points      []TrendPoint
	Consistency float64
}

func monthStart(t time.Time) time.Time {
	y, m, _ := t.UTC().Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

// Trend buckets records from the last months calendar months (the current
// month included) and reports the share of months that produced a record.
func (a *Aggregator) Trend(
	ctx context.Context,
	userID, lift string,
	months int,
	includeInactive bool,
) (*Trend, error) {
	ctx, span := core.StartSpan(ctx, "records.Trend")
	defer span.End()

	if months < 1 {
		months = 1
	}

	from := monthStart(a.now()).AddDate(0, -(months - 1), 0)

	recs, err := a.repo.ListInWindow(ctx, userID, lift, from, includeInactive)
	if err != nil {
		core.SetSpanError(ctx, err)
		return nil, err
	}

	return buildTrend(lift, months, from, recs), nil
}

func buildTrend(lift string, months int, from time.Time, recs []PersonalRecord) *Trend {
	points := make([]TrendPoint, months)
	for i := range points {
		points[i].Month = from.AddDate(0, i, 0)
	}

	for _, rec := range recs {
		d := rec.Date.UTC()
		idx := (d.Year()-from.Year())*12 + int(d.Month()) - int(from.Month())
		if idx < 0 || idx >= months {
			continue
		}
		p := &points[idx]
		p.RecordCount++
		p.BestWeight = math.Max(p.BestWeight, rec.Weight)
		p.BestOneRM = math.Max(p.BestOneRM, rec.EstimatedOneRM)
	}

	active := 0
	for i := range points {
		if points[i].RecordCount == 0 {
			continue
		}
		active++
		if i > 0 && points[i-1].RecordCount > 0 {
			delta := math.Round((points[i].BestOneRM-points[i-1].BestOneRM)*10) / 10
			points[i].DeltaOneRM = &delta
		}
	}

	if recs == nil {
		recs = []PersonalRecord{}
	}

	return &Trend{
		Lift:        lift,
		Months:      months,
		From:        from,
		Records:     recs,
		Points:      points,
		Consistency: math.Round(float64(active)/float64(months)*1000) / 10,
	}
}

type Stats struct {
	Counts     Counts
	MostRecent *PersonalRecord
	BestLifts  *BestLifts
}

func (a *Aggregator) Stats(ctx context.Context, userID string) (*Stats, error) {
	counts, err := a.repo.CountByUser(ctx, userID, monthStart(a.now()))
	if err != nil {
		return nil, err
	}

	bestLifts, err := a.BestLifts(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &Stats{Counts: counts, BestLifts: bestLifts}

	latest, err := a.repo.Latest(ctx, userID)
	switch {
	case err == nil:
		stats.MostRecent = latest
	case !errors.Is(err, core.ErrNotFound):
		return nil, err
	}

	return stats, nil
}
