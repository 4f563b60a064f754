// internal/disc/errors.go
package disc

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyAssessment = errors.New("EMPTY_ASSESSMENT")
	ErrInvalidAnswer   = errors.New("INVALID_ANSWER")
	ErrUnknownStyle    = errors.New("UNKNOWN_STYLE")
)

// EmptyAssessmentError is returned when there is nothing to score.
type EmptyAssessmentError struct {
	Answers int
}

func (e *EmptyAssessmentError) Error() string {
	if e.Answers == 0 {
		return "empty assessment: no answers supplied"
	}
	return fmt.Sprintf("empty assessment: %d answers produced zero total weight", e.Answers)
}

func (e *EmptyAssessmentError) Unwrap() error { return ErrEmptyAssessment }

// InvalidAnswerError rejects an answer at the scoring boundary.
type InvalidAnswerError struct {
	QuestionID  string
	OptionIndex int
	Reason      string
}

func (e *InvalidAnswerError) Error() string {
	return fmt.Sprintf("invalid answer for question %q (option %d): %s", e.QuestionID, e.OptionIndex, e.Reason)
}

func (e *InvalidAnswerError) Unwrap() error { return ErrInvalidAnswer }

// UnknownStyleError guards every lookup table against traits outside D, I, S, C.
type UnknownStyleError struct {
	Trait Trait
}

func (e *UnknownStyleError) Error() string {
	return fmt.Sprintf("unknown behavioral style %q", string(e.Trait))
}

func (e *UnknownStyleError) Unwrap() error { return ErrUnknownStyle }
