// AngelaMos | 2026
// dto.go

package workout

import (
	"time"

	"github.com/liftlog/liftlog-api/internal/records"
	"github.com/liftlog/liftlog-api/internal/strength"
)

const dateLayout = "2006-01-02"

type TargetRequest struct {
	Reps   int      `json:"reps"   validate:"gte=0,lte=100"`
	Weight float64  `json:"weight" validate:"gte=0,lte=2000"`
	RPE    *float64 `json:"rpe"    validate:"omitempty,min=1,max=10"`
}

type ActualRequest struct {
	Reps   *int     `json:"reps"   validate:"omitempty,gte=0,lte=100"`
	Weight *float64 `json:"weight" validate:"omitempty,gte=0,lte=2000"`
	RPE    *float64 `json:"rpe"    validate:"omitempty,min=1,max=10"`
}

type SetRequest struct {
	Planned   TargetRequest `json:"planned"`
	Actual    ActualRequest `json:"actual"`
	Completed bool          `json:"completed"`
}

type ExerciseRequest struct {
	Name  string       `json:"name"  validate:"required,min=1,max=100"`
	Notes string       `json:"notes" validate:"max=500"`
	Sets  []SetRequest `json:"sets"  validate:"max=50,dive"`
}

type CreateWorkoutRequest struct {
	Name        string            `json:"name"         validate:"required,min=1,max=200"`
	Date        string            `json:"date"         validate:"required,datetime=2006-01-02"`
	Status      Status            `json:"status"       validate:"omitempty,oneof=planned in_progress completed skipped"`
	Exercises   []ExerciseRequest `json:"exercises"    validate:"max=30,dive"`
	DurationMin *int              `json:"duration_min" validate:"omitempty,min=1,max=1440"`
	Notes       string            `json:"notes"        validate:"max=2000"`
}

// UpdateWorkoutRequest replaces only the fields that are present.
type UpdateWorkoutRequest struct {
	Name        *string            `json:"name"         validate:"omitempty,min=1,max=200"`
	Date        *string            `json:"date"         validate:"omitempty,datetime=2006-01-02"`
	Status      *Status            `json:"status"       validate:"omitempty,oneof=planned in_progress completed skipped"`
	Exercises   *[]ExerciseRequest `json:"exercises"    validate:"omitempty,max=30,dive"`
	DurationMin *int               `json:"duration_min" validate:"omitempty,min=1,max=1440"`
	Notes       *string            `json:"notes"        validate:"omitempty,max=2000"`
}

func toExercises(reqs []ExerciseRequest) Exercises {
	out := make(Exercises, 0, len(reqs))
	for _, req := range reqs {
		ex := Exercise{
			Name:  strength.NormalizeLiftName(req.Name),
			Notes: req.Notes,
			Sets:  make([]Set, 0, len(req.Sets)),
		}
		for _, s := range req.Sets {
			ex.Sets = append(ex.Sets, Set{
				Planned: Target{
					Reps:   s.Planned.Reps,
					Weight: s.Planned.Weight,
					RPE:    s.Planned.RPE,
				},
				Actual: Actual{
					Reps:   s.Actual.Reps,
					Weight: s.Actual.Weight,
					RPE:    s.Actual.RPE,
				},
				Completed: s.Completed,
			})
		}
		out = append(out, ex)
	}
	return out
}

type WorkoutResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Date        string     `json:"date"`
	Status      Status     `json:"status"`
	Exercises   Exercises  `json:"exercises"`
	DurationMin *int       `json:"duration_min,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	RecordsSet  int        `json:"records_set"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func ToWorkoutResponse(w *Workout) WorkoutResponse {
	exercises := w.Exercises
	if exercises == nil {
		exercises = Exercises{}
	}
	return WorkoutResponse{
		ID:          w.ID,
		Name:        w.Name,
		Date:        w.Date.Format(dateLayout),
		Status:      w.Status,
		Exercises:   exercises,
		DurationMin: w.DurationMin,
		Notes:       w.Notes,
		CompletedAt: w.CompletedAt,
		RecordsSet:  w.RecordsSet,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
}

func ToWorkoutResponseList(ws []Workout) []WorkoutResponse {
	out := make([]WorkoutResponse, 0, len(ws))
	for i := range ws {
		out = append(out, ToWorkoutResponse(&ws[i]))
	}
	return out
}

// CompletionResponse pairs a saved workout with the records it produced.
type CompletionResponse struct {
	Workout    WorkoutResponse          `json:"workout"`
	NewRecords []records.RecordResponse `json:"new_records"`
}

type DayResponse struct {
	Date     string            `json:"date"`
	Workouts []WorkoutResponse `json:"workouts"`
}

type WeekResponse struct {
	Start           string        `json:"start"`
	End             string        `json:"end"`
	Days            []DayResponse `json:"days"`
	Planned         int           `json:"planned"`
	Completed       int           `json:"completed"`
	Skipped         int           `json:"skipped"`
	PlannedVolume   float64       `json:"planned_volume"`
	CompletedVolume float64       `json:"completed_volume"`
}

func ToWeekResponse(wk *Week) WeekResponse {
	days := make([]DayResponse, 0, len(wk.Days))
	for _, d := range wk.Days {
		days = append(days, DayResponse{
			Date:     d.Date.Format(dateLayout),
			Workouts: ToWorkoutResponseList(d.Workouts),
		})
	}
	return WeekResponse{
		Start:           wk.Start.Format(dateLayout),
		End:             wk.Start.AddDate(0, 0, 6).Format(dateLayout),
		Days:            days,
		Planned:         wk.Planned,
		Completed:       wk.Completed,
		Skipped:         wk.Skipped,
		PlannedVolume:   wk.PlannedVolume,
		CompletedVolume: wk.CompletedVolume,
	}
}
