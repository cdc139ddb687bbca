// AngelaMos | 2026
// evaluator.go

package records

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/liftlog/liftlog-api/internal/core"
	"github.com/liftlog/liftlog-api/internal/strength"
)

type Evaluator struct {
	repo Repository
}

func NewEvaluator(repo Repository) *Evaluator {
	return &Evaluator{repo: repo}
}

// IsNewRecord reports whether weight strictly beats the heaviest active
// record for (user, lift, reps) dated on or before asOf. It also returns that
// record, or nil when there is none. Equal weight is not a new record.
func (e *Evaluator) IsNewRecord(
	ctx context.Context,
	userID, lift string,
	reps int,
	weight float64,
	asOf time.Time,
) (bool, *PersonalRecord, error) {
	ctx, span := core.StartSpan(ctx, "records.IsNewRecord",
		attribute.String("lift", lift),
		attribute.Int("reps", reps),
	)
	defer span.End()

	best, err := e.repo.BestWeight(ctx, userID, lift, reps, asOf)
	if errors.Is(err, core.ErrNotFound) {
		return true, nil, nil
	}
	if err != nil {
		core.SetSpanError(ctx, err)
		return false, nil, err
	}

	return weight > best.Weight, best, nil
}

// IsNewLiftRecord is IsNewRecord for a competition lift: the weight must beat
// every active record whose name categorizes to the same lift.
func (e *Evaluator) IsNewLiftRecord(
	ctx context.Context,
	userID string,
	category strength.Category,
	reps int,
	weight float64,
	asOf time.Time,
) (bool, *PersonalRecord, error) {
	ctx, span := core.StartSpan(ctx, "records.IsNewLiftRecord",
		attribute.String("category", string(category)),
		attribute.Int("reps", reps),
	)
	defer span.End()

	best, err := e.repo.BestWeightByCategory(ctx, userID, category, reps, asOf)
	if errors.Is(err, core.ErrNotFound) {
		return true, nil, nil
	}
	if err != nil {
		core.SetSpanError(ctx, err)
		return false, nil, err
	}

	return weight > best.Weight, best, nil
}
