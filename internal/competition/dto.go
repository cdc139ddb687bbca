// AngelaMos | 2026
// dto.go

package competition

import (
	"time"

	"github.com/liftlog/liftlog-api/internal/records"
)

const dateLayout = "2006-01-02"

// PlanRequest sets planned attempts per lift, opener first. Null entries
// leave an attempt unplanned.
type PlanRequest struct {
	Squat    []*float64 `json:"squat"    validate:"max=3,dive,omitempty,gt=0,lte=2000"`
	Bench    []*float64 `json:"bench"    validate:"max=3,dive,omitempty,gt=0,lte=2000"`
	Deadlift []*float64 `json:"deadlift" validate:"max=3,dive,omitempty,gt=0,lte=2000"`
}

type CreateCompetitionRequest struct {
	Name        string       `json:"name"         validate:"required,min=1,max=200"`
	Date        string       `json:"date"         validate:"required,datetime=2006-01-02"`
	Location    string       `json:"location"     validate:"max=200"`
	Federation  string       `json:"federation"   validate:"max=100"`
	Division    string       `json:"division"     validate:"max=100"`
	WeightClass string       `json:"weight_class" validate:"max=50"`
	Bodyweight  *float64     `json:"bodyweight"   validate:"omitempty,gt=0,lte=500"`
	Plan        *PlanRequest `json:"plan"`
	Notes       string       `json:"notes"        validate:"max=2000"`
}

type UpdateCompetitionRequest struct {
	Name        *string      `json:"name"         validate:"omitempty,min=1,max=200"`
	Date        *string      `json:"date"         validate:"omitempty,datetime=2006-01-02"`
	Location    *string      `json:"location"     validate:"omitempty,max=200"`
	Federation  *string      `json:"federation"   validate:"omitempty,max=100"`
	Division    *string      `json:"division"     validate:"omitempty,max=100"`
	WeightClass *string      `json:"weight_class" validate:"omitempty,max=50"`
	Bodyweight  *float64     `json:"bodyweight"   validate:"omitempty,gt=0,lte=500"`
	Plan        *PlanRequest `json:"plan"`
	Notes       *string      `json:"notes"        validate:"omitempty,max=2000"`
}

type AttemptResultRequest struct {
	Weight *float64      `json:"weight" validate:"omitempty,gt=0,lte=2000"`
	Result AttemptResult `json:"result" validate:"required,oneof=pending made missed"`
}

type ResultsRequest struct {
	Bodyweight *float64               `json:"bodyweight" validate:"omitempty,gt=0,lte=500"`
	Placement  *int                   `json:"placement"  validate:"omitempty,min=1"`
	Squat      []AttemptResultRequest `json:"squat"      validate:"max=3,dive"`
	Bench      []AttemptResultRequest `json:"bench"      validate:"max=3,dive"`
	Deadlift   []AttemptResultRequest `json:"deadlift"   validate:"max=3,dive"`
}

type ResultResponse struct {
	Squat    *float64 `json:"squat"`
	Bench    *float64 `json:"bench"`
	Deadlift *float64 `json:"deadlift"`
	Total    float64  `json:"total"`
	Wilks    float64  `json:"wilks,omitempty"`
	DOTS     float64  `json:"dots,omitempty"`
}

func ToResultResponse(r *Result) *ResultResponse {
	if r == nil {
		return nil
	}
	return &ResultResponse{
		Squat:    r.Squat,
		Bench:    r.Bench,
		Deadlift: r.Deadlift,
		Total:    r.Total,
		Wilks:    r.Wilks,
		DOTS:     r.DOTS,
	}
}

type CompetitionResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Date        string          `json:"date"`
	Location    string          `json:"location,omitempty"`
	Federation  string          `json:"federation,omitempty"`
	Division    string          `json:"division,omitempty"`
	WeightClass string          `json:"weight_class,omitempty"`
	Bodyweight  *float64        `json:"bodyweight,omitempty"`
	Status      Status          `json:"status"`
	Attempts    Attempts        `json:"attempts"`
	Placement   *int            `json:"placement,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	Result      *ResultResponse `json:"result,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func ToCompetitionResponse(c *Competition, result *Result) CompetitionResponse {
	return CompetitionResponse{
		ID:          c.ID,
		Name:        c.Name,
		Date:        c.Date.Format(dateLayout),
		Location:    c.Location,
		Federation:  c.Federation,
		Division:    c.Division,
		WeightClass: c.WeightClass,
		Bodyweight:  c.Bodyweight,
		Status:      c.Status,
		Attempts:    c.Attempts,
		Placement:   c.Placement,
		Notes:       c.Notes,
		Result:      ToResultResponse(result),
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

type ResultsResponse struct {
	Competition CompetitionResponse      `json:"competition"`
	NewRecords  []records.RecordResponse `json:"new_records"`
}
