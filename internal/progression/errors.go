package progression

import (
	"errors"
	"fmt"
)

var (
	ErrEmptySession   = errors.New("session has no sets")
	ErrUnknownUser    = errors.New("user not found")
	ErrHistoryMissing = errors.New("exercise history not found")
)

// ExerciseError marks a single exercise as unusable without failing the
// whole batch recommendation. Callers iterate exercises independently.
type ExerciseError struct {
	ExerciseID string
	Err        error
}

func (e *ExerciseError) Error() string {
	return fmt.Sprintf("exercise %s: %s", e.ExerciseID, e.Err)
}

func (e *ExerciseError) Unwrap() error {
	return e.Err
}
