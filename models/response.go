package models

import "time"

// Response tracks one respondent's progress through a survey: the set of
// visited questions, the answers given so far, and completion. It is
// created in progress by StartResponse and transitions to complete exactly
// once, when flow resolution yields no next question.
type Response struct {
	ID           int64      `json:"id" gorm:"primaryKey"`
	SurveyID     int64      `json:"survey_id" gorm:"index"`
	RespondentID string     `json:"respondent_id" gorm:"index"`
	StartedAt    time.Time  `json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	IsComplete   bool       `json:"is_complete" gorm:"index"`

	// Visited holds the ids of questions already shown to the respondent.
	// Insertion order is irrelevant and ids never repeat.
	Visited []int64 `json:"visited" gorm:"serializer:json"`

	// Answers holds at most one answer per question; re-submission
	// replaces the prior answer for that question.
	Answers []Answer `json:"answers,omitempty" gorm:"foreignKey:ResponseID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasVisited reports whether the question id is in the visited set.
func (r *Response) HasVisited(questionID int64) bool {
	for _, id := range r.Visited {
		if id == questionID {
			return true
		}
	}
	return false
}

// MarkVisited adds the question id to the visited set. Adding an id twice
// is a no-op; the return value reports whether the set changed.
func (r *Response) MarkVisited(questionID int64) bool {
	if r.HasVisited(questionID) {
		return false
	}
	r.Visited = append(r.Visited, questionID)
	return true
}

// AnswerFor returns the stored answer for the question, or nil.
func (r *Response) AnswerFor(questionID int64) *Answer {
	for i := range r.Answers {
		if r.Answers[i].QuestionID == questionID {
			return &r.Answers[i]
		}
	}
	return nil
}

// LatestAnswer returns the most recently submitted answer, or nil if none
// has been submitted yet. Re-submitting an answer refreshes its timestamp,
// so a replaced answer counts as the latest.
func (r *Response) LatestAnswer() *Answer {
	var latest *Answer
	for i := range r.Answers {
		candidate := &r.Answers[i]
		if latest == nil || !candidate.SubmittedAt.Before(latest.SubmittedAt) {
			latest = candidate
		}
	}
	return latest
}

// Answer ties a response to a question, the typed answer value in its
// canonical JSON form, and the next-step determinant that was resolved at
// submission time. The snapshot makes the flow auditable and replayable
// even if the survey's branching is edited later.
type Answer struct {
	ID         int64        `json:"id" gorm:"primaryKey"`
	ResponseID int64        `json:"response_id" gorm:"index"`
	QuestionID int64        `json:"question_id" gorm:"index"`
	Kind       QuestionKind `json:"kind"`

	// Value is the canonical JSON encoding of the AnswerValue.
	Value string `json:"value"`

	// ResolvedNextStep is the determinant the flow engine resolved when
	// this answer was submitted.
	ResolvedNextStep *NextStep `json:"resolved_next_step,omitempty" gorm:"serializer:json"`

	SubmittedAt time.Time `json:"submitted_at"`
}

// DecodedValue parses the stored canonical JSON back into a typed value.
func (a *Answer) DecodedValue() (AnswerValue, error) {
	return DecodeAnswerValue(a.Kind, []byte(a.Value))
}
