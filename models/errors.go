package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for the recoverable failure kinds of the flow engine.
// Callers should test them with errors.Is after unwrapping.
var (
	ErrSurveyNotFound     = errors.New("survey not found")
	ErrSurveyOperation    = errors.New("survey operation not allowed")
	ErrDuplicateResponse  = errors.New("respondent already completed this survey")
	ErrResponseNotFound   = errors.New("response not found")
	ErrInvalidDeterminant = errors.New("invalid next-step determinant")
)

// AnswerFormatError reports a failed answer value validation. Reason names
// the offending constraint (e.g. "latitude must be between -90 and 90") and
// is safe to show to a respondent.
type AnswerFormatError struct {
	Reason string
}

func (e *AnswerFormatError) Error() string {
	return fmt.Sprintf("invalid answer format: %s", e.Reason)
}

// NewAnswerFormatError builds an AnswerFormatError with a formatted reason.
func NewAnswerFormatError(format string, args ...interface{}) *AnswerFormatError {
	return &AnswerFormatError{Reason: fmt.Sprintf(format, args...)}
}
