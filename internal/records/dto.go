// AngelaMos | 2026
// dto.go

package records

import (
	"time"

	"github.com/liftlog/liftlog-api/internal/strength"
)

const dateLayout = "2006-01-02"

type CreateRecordRequest struct {
	Lift    string   `json:"lift"    validate:"required,min=1,max=100"`
	Weight  float64  `json:"weight"  validate:"required,gt=0,lte=2000"`
	Reps    int      `json:"reps"    validate:"omitempty,min=1,max=100"`
	Date    string   `json:"date"    validate:"omitempty,datetime=2006-01-02"`
	Context Context  `json:"context" validate:"omitempty,oneof=training competition"`
	RPE     *float64 `json:"rpe"     validate:"omitempty,min=1,max=10"`
	Notes   string   `json:"notes"   validate:"max=1000"`
}

type RecordResponse struct {
	ID             string     `json:"id"`
	Lift           string     `json:"lift"`
	Category       string     `json:"category"`
	Weight         float64    `json:"weight"`
	Reps           int        `json:"reps"`
	Date           string     `json:"date"`
	Context        Context    `json:"context"`
	WorkoutID      *string    `json:"workout_id,omitempty"`
	CompetitionID  *string    `json:"competition_id,omitempty"`
	RPE            *float64   `json:"rpe,omitempty"`
	EstimatedOneRM float64    `json:"estimated_one_rm"`
	Notes          string     `json:"notes,omitempty"`
	IsActive       bool       `json:"is_active"`
	Verified       bool       `json:"verified"`
	VerifiedAt     *time.Time `json:"verified_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

func ToRecordResponse(r *PersonalRecord) RecordResponse {
	return RecordResponse{
		ID:             r.ID,
		Lift:           r.Lift,
		Category:       string(r.Category()),
		Weight:         r.Weight,
		Reps:           r.Reps,
		Date:           r.Date.Format(dateLayout),
		Context:        r.Context,
		WorkoutID:      r.WorkoutID,
		CompetitionID:  r.CompetitionID,
		RPE:            r.RPE,
		EstimatedOneRM: r.EstimatedOneRM,
		Notes:          r.Notes,
		IsActive:       r.IsActive,
		Verified:       r.Verified,
		VerifiedAt:     r.VerifiedAt,
		CreatedAt:      r.CreatedAt,
	}
}

func ToRecordResponseList(recs []PersonalRecord) []RecordResponse {
	out := make([]RecordResponse, 0, len(recs))
	for i := range recs {
		out = append(out, ToRecordResponse(&recs[i]))
	}
	return out
}

type BestLiftsResponse struct {
	Squat    *RecordResponse `json:"squat"`
	Bench    *RecordResponse `json:"bench"`
	Deadlift *RecordResponse `json:"deadlift"`
	Total    float64         `json:"total"`
	Wilks    float64         `json:"wilks,omitempty"`
	DOTS     float64         `json:"dots,omitempty"`
	Unit     strength.Unit   `json:"unit"`
}

func optionalRecord(r *PersonalRecord) *RecordResponse {
	if r == nil {
		return nil
	}
	resp := ToRecordResponse(r)
	return &resp
}

func ToBestLiftsResponse(b *BestLifts) BestLiftsResponse {
	return BestLiftsResponse{
		Squat:    optionalRecord(b.Squat),
		Bench:    optionalRecord(b.Bench),
		Deadlift: optionalRecord(b.Deadlift),
		Total:    b.Total,
		Wilks:    b.Wilks,
		DOTS:     b.DOTS,
		Unit:     b.Unit,
	}
}

type TrendPointResponse struct {
	Month       string   `json:"month"`
	BestWeight  float64  `json:"best_weight"`
	BestOneRM   float64  `json:"best_estimated_one_rm"`
	RecordCount int      `json:"record_count"`
	DeltaOneRM  *float64 `json:"delta_estimated_one_rm,omitempty"`
}

type TrendResponse struct {
	Lift        string               `json:"lift,omitempty"`
	Months      int                  `json:"months"`
	From        string               `json:"from"`
	Consistency float64              `json:"consistency_percent"`
	Points      []TrendPointResponse `json:"points"`
	Records     []RecordResponse     `json:"records"`
}

func ToTrendResponse(t *Trend) TrendResponse {
	points := make([]TrendPointResponse, 0, len(t.Points))
	for _, p := range t.Points {
		points = append(points, TrendPointResponse{
			Month:       p.Month.Format("2006-01"),
			BestWeight:  p.BestWeight,
			BestOneRM:   p.BestOneRM,
			RecordCount: p.RecordCount,
			DeltaOneRM:  p.DeltaOneRM,
		})
	}

	return TrendResponse{
		Lift:        t.Lift,
		Months:      t.Months,
		From:        t.From.Format(dateLayout),
		Consistency: t.Consistency,
		Points:      points,
		Records:     ToRecordResponseList(t.Records),
	}
}

type StatsResponse struct {
	ActiveRecords      int               `json:"active_records"`
	TrainingRecords    int               `json:"training_records"`
	CompetitionRecords int               `json:"competition_records"`
	VerifiedRecords    int               `json:"verified_records"`
	RecordsThisMonth   int               `json:"records_this_month"`
	MostRecent         *RecordResponse   `json:"most_recent"`
	BestLifts          BestLiftsResponse `json:"best_lifts"`
}

func ToStatsResponse(s *Stats) StatsResponse {
	return StatsResponse{
		ActiveRecords:      s.Counts.Active,
		TrainingRecords:    s.Counts.Training,
		CompetitionRecords: s.Counts.Competition,
		VerifiedRecords:    s.Counts.Verified,
		RecordsThisMonth:   s.Counts.ThisMonth,
		MostRecent:         optionalRecord(s.MostRecent),
		BestLifts:          ToBestLiftsResponse(s.BestLifts),
	}
}
