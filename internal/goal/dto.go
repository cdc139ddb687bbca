// AngelaMos | 2026
// dto.go

package goal

import (
	"time"
)

type CreateGoalRequest struct {
	Year         int     `json:"year"          validate:"omitempty,min=2000,max=2100"`
	Target       Target  `json:"target"        validate:"required,oneof=squat bench deadlift total"`
	TargetWeight float64 `json:"target_weight" validate:"required,gt=0,lte=5000"`
	Notes        string  `json:"notes"         validate:"max=1000"`
}

type UpdateGoalRequest struct {
	TargetWeight *float64 `json:"target_weight" validate:"omitempty,gt=0,lte=5000"`
	Notes        *string  `json:"notes"         validate:"omitempty,max=1000"`
}

type GoalResponse struct {
	ID           string     `json:"id"`
	Year         int        `json:"year"`
	Target       Target     `json:"target"`
	TargetWeight float64    `json:"target_weight"`
	Current      float64    `json:"current"`
	Percent      float64    `json:"percent"`
	Remaining    float64    `json:"remaining"`
	Achieved     bool       `json:"achieved"`
	AchievedAt   *time.Time `json:"achieved_at,omitempty"`
	Notes        string     `json:"notes,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func ToGoalResponse(p *Progress) GoalResponse {
	return GoalResponse{
		ID:           p.Goal.ID,
		Year:         p.Goal.Year,
		Target:       p.Goal.Target,
		TargetWeight: p.Goal.TargetWeight,
		Current:      p.Current,
		Percent:      p.Percent,
		Remaining:    p.Remaining,
		Achieved:     p.Goal.Achieved(),
		AchievedAt:   p.Goal.AchievedAt,
		Notes:        p.Goal.Notes,
		CreatedAt:    p.Goal.CreatedAt,
		UpdatedAt:    p.Goal.UpdatedAt,
	}
}

func ToGoalResponseList(ps []Progress) []GoalResponse {
	out := make([]GoalResponse, 0, len(ps))
	for i := range ps {
		out = append(out, ToGoalResponse(&ps[i]))
	}
	return out
}
