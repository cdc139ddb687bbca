// AngelaMos | 2026
// lift.go

package strength

import (
	"strings"
)

type Category string

const (
	CategorySquat    Category = "squat"
	CategoryBench    Category = "bench"
	CategoryDeadlift Category = "deadlift"
	CategoryOther    Category = "other"
)

// competitionOrder is also the match priority: "squat to deadlift" is a squat.
var competitionOrder = []Category{CategorySquat, CategoryBench, CategoryDeadlift}

func CompetitionLifts() []Category {
	out := make([]Category, len(competitionOrder))
	copy(out, competitionOrder)
	return out
}

// CategorizeLift maps a free-text lift name onto one of the three competition
// lifts by case-insensitive substring, falling back to CategoryOther.
func CategorizeLift(name string) Category {
	lower := strings.ToLower(name)
	for _, c := range competitionOrder {
		if strings.Contains(lower, string(c)) {
			return c
		}
	}
	return CategoryOther
}

func CanonicalLiftName(c Category) string {
	switch c {
	case CategorySquat:
		return "Squat"
	case CategoryBench:
		return "Bench Press"
	case CategoryDeadlift:
		return "Deadlift"
	default:
		return ""
	}
}

func NormalizeLiftName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// LiftKey is the comparison key for lift names.
func LiftKey(name string) string {
	return strings.ToLower(NormalizeLiftName(name))
}
