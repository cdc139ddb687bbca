// AngelaMos | 2026
// errors.go

package records

import (
	"errors"
	"fmt"
)

var ErrNotARecord = errors.New("not a personal record")

// NotARecordError carries the best the submission failed to beat.
type NotARecordError struct {
	Lift    string
	Reps    int
	Weight  float64
	Current *PersonalRecord
}

func (e *NotARecordError) Error() string {
	if e.Current == nil {
		return fmt.Sprintf("%s %gx%d is not a personal record", e.Lift, e.Weight, e.Reps)
	}
	return fmt.Sprintf(
		"%s %gx%d does not beat the current best of %g set on %s",
		e.Lift,
		e.Weight,
		e.Reps,
		e.Current.Weight,
		e.Current.Date.Format(dateLayout),
	)
}

func (e *NotARecordError) Unwrap() error {
	return ErrNotARecord
}
