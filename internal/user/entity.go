// AngelaMos | 2026
// entity.go

package user

import (
	"time"

	"github.com/liftlog/liftlog-api/internal/strength"
)

const (
	RoleUser  = "user"
	RoleCoach = "coach"
	RoleAdmin = "admin"
)

func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleCoach, RoleAdmin:
		return true
	default:
		return false
	}
}

type User struct {
	ID           string        `db:"id"`
	Email        string        `db:"email"`
	PasswordHash string        `db:"password_hash"`
	Name         string        `db:"name"`
	Role         string        `db:"role"`
	Bodyweight   *float64      `db:"bodyweight"`
	Sex          *strength.Sex `db:"sex"`
	WeightUnit   strength.Unit `db:"weight_unit"`
	TokenVersion int           `db:"token_version"`
	CreatedAt    time.Time     `db:"created_at"`
	UpdatedAt    time.Time     `db:"updated_at"`
	DeletedAt    *time.Time    `db:"deleted_at"`
}

func (u *User) IsDeleted() bool {
	return u.DeletedAt != nil
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
