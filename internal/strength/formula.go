// AngelaMos | 2026
// formula.go

package strength

import (
	"math"
)

const (
	brzyckiA = 1.0278
	brzyckiB = 0.0278

	// the Brzycki denominator reaches zero at 37 reps
	maxBrzyckiReps = 36

	poundsToKg = 0.45359237
)

type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

type Unit string

const (
	UnitKg Unit = "kg"
	UnitLb Unit = "lb"
)

// EstimatedOneRepMax returns the Brzycki estimate rounded to 0.1.
func EstimatedOneRepMax(weight float64, reps int) float64 {
	if weight <= 0 {
		return 0
	}
	if reps <= 1 {
		return round(weight, 1)
	}
	if reps > maxBrzyckiReps {
		reps = maxBrzyckiReps
	}
	return round(weight/(brzyckiA-brzyckiB*float64(reps)), 1)
}

func ToKilograms(value float64, unit Unit) float64 {
	if unit == UnitLb {
		return value * poundsToKg
	}
	return value
}

var (
	wilksMale = [6]float64{
		47.46178854, 8.472061379, 0.07369410346,
		-0.001395833811, 7.07665973070743e-06, -1.20804336482315e-08,
	}
	wilksFemale = [6]float64{
		-125.4255398, 13.71219419, -0.03307250631,
		-0.001050400051, 9.38773881462799e-06, -2.3334613884954e-08,
	}

	dotsMale   = [5]float64{-307.75076, 24.0900756, -0.1918759221, 0.0007391293, -0.000001093}
	dotsFemale = [5]float64{-57.96288, 13.6175032, -0.1126655495, 0.0005158568, -0.0000010706}
)

// Wilks scores a kilogram total with the 2020 coefficients. Unknown sex or
// bodyweight yields 0.
func Wilks(bodyweightKg, totalKg float64, sex Sex) float64 {
	var coef [6]float64
	var bw float64

	switch sex {
	case SexMale:
		coef, bw = wilksMale, clamp(bodyweightKg, 40, 200.95)
	case SexFemale:
		coef, bw = wilksFemale, clamp(bodyweightKg, 40, 150.95)
	default:
		return 0
	}
	if bodyweightKg <= 0 || totalKg <= 0 {
		return 0
	}

	return round(totalKg*600/polynomial(coef[:], bw), 2)
}

func DOTS(bodyweightKg, totalKg float64, sex Sex) float64 {
	var coef [5]float64
	var bw float64

	switch sex {
	case SexMale:
		coef, bw = dotsMale, clamp(bodyweightKg, 40, 210)
	case SexFemale:
		coef, bw = dotsFemale, clamp(bodyweightKg, 40, 150)
	default:
		return 0
	}
	if bodyweightKg <= 0 || totalKg <= 0 {
		return 0
	}

	return round(totalKg*500/polynomial(coef[:], bw), 2)
}

// polynomial evaluates coef[0] + coef[1]*x + coef[2]*x^2 + ...
func polynomial(coef []float64, x float64) float64 {
	sum := 0.0
	for i := len(coef) - 1; i >= 0; i-- {
		sum = sum*x + coef[i]
	}
	return sum
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
