// AngelaMos | 2026
// entity.go

package competition

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/liftlog/liftlog-api/internal/strength"
)

type Status string

const (
	StatusUpcoming  Status = "upcoming"
	StatusCompleted Status = "completed"
)

type AttemptResult string

const (
	ResultPending AttemptResult = "pending"
	ResultMade    AttemptResult = "made"
	ResultMissed  AttemptResult = "missed"
)

type Attempt struct {
	Planned *float64      `json:"planned,omitempty"`
	Weight  *float64      `json:"weight,omitempty"`
	Result  AttemptResult `json:"result"`
}

// LiftAttempts holds the opener, second, and third attempt of one lift.
type LiftAttempts [3]Attempt

// BestMade returns the heaviest made attempt.
func (la LiftAttempts) BestMade() (float64, bool) {
	var best float64
	found := false
	for _, a := range la {
		if a.Result != ResultMade || a.Weight == nil {
			continue
		}
		if !found || *a.Weight > best {
			best = *a.Weight
			found = true
		}
	}
	return best, found
}

// Attempts is stored as a JSONB column.
type Attempts struct {
	Squat    LiftAttempts `json:"squat"`
	Bench    LiftAttempts `json:"bench"`
	Deadlift LiftAttempts `json:"deadlift"`
}

func NewAttempts() Attempts {
	var a Attempts
	for _, c := range strength.CompetitionLifts() {
		la := a.lift(c)
		for i := range la {
			la[i].Result = ResultPending
		}
	}
	return a
}

func (a *Attempts) lift(c strength.Category) *LiftAttempts {
	switch c {
	case strength.CategorySquat:
		return &a.Squat
	case strength.CategoryBench:
		return &a.Bench
	case strength.CategoryDeadlift:
		return &a.Deadlift
	default:
		return nil
	}
}

func (a Attempts) Value() (driver.Value, error) {
	b, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("marshal attempts: %w", err)
	}
	return b, nil
}

func (a *Attempts) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*a = NewAttempts()
		return nil
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	default:
		return fmt.Errorf("scan attempts: unsupported type %T", src)
	}
}

type Competition struct {
	ID          string    `db:"id"`
	UserID      string    `db:"user_id"`
	Name        string    `db:"name"`
	Date        time.Time `db:"date"`
	Location    string    `db:"location"`
	Federation  string    `db:"federation"`
	Division    string    `db:"division"`
	WeightClass string    `db:"weight_class"`
	Bodyweight  *float64  `db:"bodyweight"`
	Status      Status    `db:"status"`
	Attempts    Attempts  `db:"attempts"`
	Placement   *int      `db:"placement"`
	Notes       string    `db:"notes"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// Result summarises a completed meet. Total is zero unless every lift has
// a made attempt.
type Result struct {
	Squat    *float64
	Bench    *float64
	Deadlift *float64
	Total    float64
	Wilks    float64
	DOTS     float64
}

func (c *Competition) bests() map[strength.Category]float64 {
	out := make(map[strength.Category]float64, 3)
	for _, cat := range strength.CompetitionLifts() {
		if best, ok := c.Attempts.lift(cat).BestMade(); ok {
			out[cat] = best
		}
	}
	return out
}
