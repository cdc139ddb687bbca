// AngelaMos | 2026
// entity.go

package records

import (
	"time"

	"github.com/liftlog/liftlog-api/internal/strength"
)

type Context string

const (
	ContextTraining    Context = "training"
	ContextCompetition Context = "competition"
)

type PersonalRecord struct {
	ID             string     `db:"id"`
	UserID         string     `db:"user_id"`
	Lift           string     `db:"lift"`
	Weight         float64    `db:"weight"`
	Reps           int        `db:"reps"`
	Date           time.Time  `db:"date"`
	Context        Context    `db:"context"`
	WorkoutID      *string    `db:"workout_id"`
	CompetitionID  *string    `db:"competition_id"`
	RPE            *float64   `db:"rpe"`
	EstimatedOneRM float64    `db:"estimated_one_rm"`
	Notes          string     `db:"notes"`
	IsActive       bool       `db:"is_active"`
	Verified       bool       `db:"verified"`
	VerifiedBy     *string    `db:"verified_by"`
	VerifiedAt     *time.Time `db:"verified_at"`
	Version        int        `db:"version"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
}

func (r *PersonalRecord) Category() strength.Category {
	return strength.CategorizeLift(r.Lift)
}

// beats orders two records for the same (lift, reps) slot: heavier wins,
// ties go to the later date, then the later insert.
func (r *PersonalRecord) beats(other *PersonalRecord) bool {
	if r.Weight != other.Weight {
		return r.Weight > other.Weight
	}
	if !r.Date.Equal(other.Date) {
		return r.Date.After(other.Date)
	}
	return r.CreatedAt.After(other.CreatedAt)
}

// Performance is a single set that a trigger offers as a PR candidate.
type Performance struct {
	Lift   string
	Weight float64
	Reps   int
	RPE    *float64
}

// Source describes where trigger candidates came from.
type Source struct {
	Context       Context
	Date          time.Time
	WorkoutID     *string
	CompetitionID *string
}

// Athlete is the profile data needed for bodyweight-relative scores.
type Athlete struct {
	Bodyweight *float64
	Sex        strength.Sex
	Unit       strength.Unit
}
