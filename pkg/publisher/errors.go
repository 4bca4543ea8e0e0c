package publisher

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidScript = errors.New("publisher: invalid script")
	ErrNoFile        = errors.New("publisher: no video file")
)

// StepError reports which step of the script failed.
type StepError struct {
	Err  error
	Step Step
}

func (e *StepError) Error() string {
	return fmt.Sprintf("publisher: %s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// FailedStep returns the step recorded in err, if any.
func FailedStep(err error) (Step, bool) {
	var se *StepError
	if errors.As(err, &se) {
		return se.Step, true
	}
	return "", false
}
