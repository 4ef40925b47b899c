package models

import (
	"encoding/json"
	"fmt"
)

// NextStepType discriminates the two variants of a NextStep determinant.
type NextStepType int

const (
	// NextStepGoToQuestion continues the flow at a specific question.
	NextStepGoToQuestion NextStepType = 0
	// NextStepEndSurvey terminates the flow.
	NextStepEndSurvey NextStepType = 1
)

// NextStep describes where survey flow goes after a question: either to a
// specific question or to the end of the survey. It is an immutable value;
// construct it through GoToQuestion or EndSurvey so the invariants
// (GoToQuestion carries a strictly positive id, EndSurvey carries none)
// hold everywhere, including on every deserialization path.
//
// NextStep is comparable: two values are equal iff type and question id
// match, so it is safe to use as a map key or compare with ==.
type NextStep struct {
	stepType   NextStepType
	questionID int64
}

// GoToQuestion builds a determinant pointing at the given question id.
// Ids must be strictly positive; zero and negative ids fail construction.
func GoToQuestion(questionID int64) (NextStep, error) {
	if questionID <= 0 {
		return NextStep{}, fmt.Errorf("%w: question id must be positive, got %d", ErrInvalidDeterminant, questionID)
	}
	return NextStep{stepType: NextStepGoToQuestion, questionID: questionID}, nil
}

// MustGoToQuestion is GoToQuestion for statically known ids; it panics on an
// invalid id and is intended for tests and fixtures.
func MustGoToQuestion(questionID int64) NextStep {
	step, err := GoToQuestion(questionID)
	if err != nil {
		panic(err)
	}
	return step
}

// EndSurvey builds the terminating determinant.
func EndSurvey() NextStep {
	return NextStep{stepType: NextStepEndSurvey}
}

// Type returns the variant tag.
func (s NextStep) Type() NextStepType {
	return s.stepType
}

// IsEnd reports whether the determinant terminates the survey.
func (s NextStep) IsEnd() bool {
	return s.stepType == NextStepEndSurvey
}

// QuestionID returns the target question id for a GoToQuestion determinant.
// The boolean is false for EndSurvey.
func (s NextStep) QuestionID() (int64, bool) {
	if s.stepType != NextStepGoToQuestion {
		return 0, false
	}
	return s.questionID, true
}

// String renders the determinant for logs and validation messages.
func (s NextStep) String() string {
	if s.IsEnd() {
		return "end of survey"
	}
	return fmt.Sprintf("go to question %d", s.questionID)
}

// nextStepJSON is the canonical wire form of a determinant:
// {"type":0,"nextQuestionId":5} or {"type":1,"nextQuestionId":null}.
type nextStepJSON struct {
	Type           NextStepType `json:"type"`
	NextQuestionID *int64       `json:"nextQuestionId"`
}

// MarshalJSON encodes the canonical form.
func (s NextStep) MarshalJSON() ([]byte, error) {
	out := nextStepJSON{Type: s.stepType}
	if s.stepType == NextStepGoToQuestion {
		id := s.questionID
		out.NextQuestionID = &id
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes and validates the canonical form. Malformed
// combinations (GoToQuestion without a positive id, EndSurvey with an id,
// unknown type tags) fail with ErrInvalidDeterminant; they are never
// silently coerced.
func (s *NextStep) UnmarshalJSON(data []byte) error {
	var raw nextStepJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDeterminant, err)
	}
	switch raw.Type {
	case NextStepGoToQuestion:
		if raw.NextQuestionID == nil {
			return fmt.Errorf("%w: go-to-question requires a question id", ErrInvalidDeterminant)
		}
		step, err := GoToQuestion(*raw.NextQuestionID)
		if err != nil {
			return err
		}
		*s = step
	case NextStepEndSurvey:
		if raw.NextQuestionID != nil {
			return fmt.Errorf("%w: end-survey must not carry a question id", ErrInvalidDeterminant)
		}
		*s = EndSurvey()
	default:
		return fmt.Errorf("%w: unknown type %d", ErrInvalidDeterminant, raw.Type)
	}
	return nil
}
