// AngelaMos | 2026
// dto.go

package user

import (
	"time"

	"github.com/liftlog/liftlog-api/internal/core"
	"github.com/liftlog/liftlog-api/internal/strength"
)

type UpdateProfileRequest struct {
	Name       *string        `json:"name,omitempty"        validate:"omitempty,min=1,max=100"`
	Bodyweight *float64       `json:"bodyweight,omitempty"  validate:"omitempty,gt=0,lte=500"`
	Sex        *strength.Sex  `json:"sex,omitempty"         validate:"omitempty,oneof=male female"`
	WeightUnit *strength.Unit `json:"weight_unit,omitempty" validate:"omitempty,oneof=kg lb"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user coach admin"`
}

type UserResponse struct {
	ID         string        `json:"id"`
	Email      string        `json:"email"`
	Name       string        `json:"name"`
	Role       string        `json:"role"`
	Bodyweight *float64      `json:"bodyweight,omitempty"`
	Sex        *strength.Sex `json:"sex,omitempty"`
	WeightUnit strength.Unit `json:"weight_unit"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

type ListFilter struct {
	Search string
	Role   string
	Page   core.PageParams
}

func ToUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		Role:       u.Role,
		Bodyweight: u.Bodyweight,
		Sex:        u.Sex,
		WeightUnit: u.WeightUnit,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

func ToUserResponseList(users []User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, ToUserResponse(&users[i]))
	}
	return out
}
