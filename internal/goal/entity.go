// AngelaMos | 2026
// entity.go

package goal

import (
	"time"
)

type Target string

const (
	TargetSquat    Target = "squat"
	TargetBench    Target = "bench"
	TargetDeadlift Target = "deadlift"
	TargetTotal    Target = "total"
)

type Goal struct {
	ID           string     `db:"id"`
	UserID       string     `db:"user_id"`
	Year         int        `db:"year"`
	Target       Target     `db:"target"`
	TargetWeight float64    `db:"target_weight"`
	AchievedAt   *time.Time `db:"achieved_at"`
	Notes        string     `db:"notes"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
}

func (g *Goal) Achieved() bool {
	return g.AchievedAt != nil
}

// Progress compares a goal with the lifter's current best.
type Progress struct {
	Goal      Goal
	Current   float64
	Percent   float64
	Remaining float64
}
