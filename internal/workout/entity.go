// AngelaMos | 2026
// entity.go

package workout

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/liftlog/liftlog-api/internal/records"
)

type Status string

const (
	StatusPlanned    Status = "planned"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusSkipped    Status = "skipped"
)

type Target struct {
	Reps   int      `json:"reps"`
	Weight float64  `json:"weight"`
	RPE    *float64 `json:"rpe,omitempty"`
}

type Actual struct {
	Reps   *int     `json:"reps,omitempty"`
	Weight *float64 `json:"weight,omitempty"`
	RPE    *float64 `json:"rpe,omitempty"`
}

type Set struct {
	Planned   Target `json:"planned"`
	Actual    Actual `json:"actual"`
	Completed bool   `json:"completed"`
}

// Performed returns what was lifted for volume totals, preferring logged
// actuals over the plan.
func (s Set) Performed() (weight float64, reps int, rpe *float64) {
	weight, reps, rpe = s.Planned.Weight, s.Planned.Reps, s.Planned.RPE
	if s.Actual.Weight != nil {
		weight = *s.Actual.Weight
	}
	if s.Actual.Reps != nil {
		reps = *s.Actual.Reps
	}
	if s.Actual.RPE != nil {
		rpe = s.Actual.RPE
	}
	return weight, reps, rpe
}

type Exercise struct {
	Name  string `json:"name"`
	Notes string `json:"notes,omitempty"`
	Sets  []Set  `json:"sets"`
}

// Exercises is stored as a JSONB column.
type Exercises []Exercise

func (e Exercises) Value() (driver.Value, error) {
	if e == nil {
		return []byte("[]"), nil
	}
	b, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal exercises: %w", err)
	}
	return b, nil
}

func (e *Exercises) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*e = Exercises{}
		return nil
	case []byte:
		return json.Unmarshal(v, e)
	case string:
		return json.Unmarshal([]byte(v), e)
	default:
		return fmt.Errorf("scan exercises: unsupported type %T", src)
	}
}

type Workout struct {
	ID          string     `db:"id"`
	UserID      string     `db:"user_id"`
	Name        string     `db:"name"`
	Date        time.Time  `db:"date"`
	Status      Status     `db:"status"`
	Exercises   Exercises  `db:"exercises"`
	DurationMin *int       `db:"duration_min"`
	Notes       string     `db:"notes"`
	CompletedAt *time.Time `db:"completed_at"`
	RecordsSet  int        `db:"records_set"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
	DeletedAt   *time.Time `db:"deleted_at"`
}

// Logged reports whether the set was completed with both weight and reps
// recorded. The plan never stands in for a missing actual.
func (s Set) Logged() bool {
	return s.Completed &&
		s.Actual.Weight != nil && *s.Actual.Weight > 0 &&
		s.Actual.Reps != nil && *s.Actual.Reps > 0
}

// Performances lists every logged set as a record candidate.
func (w *Workout) Performances() []records.Performance {
	var out []records.Performance
	for _, ex := range w.Exercises {
		for _, set := range ex.Sets {
			if !set.Logged() {
				continue
			}
			out = append(out, records.Performance{
				Lift:   ex.Name,
				Weight: *set.Actual.Weight,
				Reps:   *set.Actual.Reps,
				RPE:    set.Actual.RPE,
			})
		}
	}
	return out
}

// Volume sums reps times weight over the planned sets, or over completed
// sets when completedOnly is set.
func (w *Workout) Volume(completedOnly bool) float64 {
	var total float64
	for _, ex := range w.Exercises {
		for _, set := range ex.Sets {
			if completedOnly {
				if !set.Completed {
					continue
				}
				weight, reps, _ := set.Performed()
				total += weight * float64(reps)
				continue
			}
			total += set.Planned.Weight * float64(set.Planned.Reps)
		}
	}
	return total
}

func (w *Workout) SetCount() int {
	n := 0
	for _, ex := range w.Exercises {
		n += len(ex.Sets)
	}
	return n
}
