package models

import "time"

// QuestionStats summarizes the answers collected for one question.
type QuestionStats struct {
	QuestionID  int64        `json:"question_id"`
	Text        string       `json:"text"`
	Kind        QuestionKind `json:"kind"`
	AnswerCount int          `json:"answer_count"`

	// OptionCounts maps option label to selection count for choice
	// questions (each selected label of a multiple-choice answer counts).
	OptionCounts map[string]int `json:"option_counts,omitempty"`

	// AverageRating is set for rating questions with at least one answer.
	AverageRating *float64 `json:"average_rating,omitempty"`
}

// SurveyStats is the aggregated statistics payload for one survey.
type SurveyStats struct {
	SurveyID           int64           `json:"survey_id"`
	Title              string          `json:"title"`
	TotalResponses     int             `json:"total_responses"`
	CompletedResponses int             `json:"completed_responses"`
	CompletionRate     float64         `json:"completion_rate"`
	Questions          []QuestionStats `json:"questions"`
	GeneratedAt        time.Time       `json:"generated_at"`
}

// FlowValidationResult is the structured outcome of the pre-publication
// static analysis over a survey's question graph. The validator never
// fails; an invalid graph is reported through Errors and, for cycles,
// CyclePath (ordered from the entry point to the repeated question).
type FlowValidationResult struct {
	Valid     bool     `json:"valid"`
	Errors    []string `json:"errors,omitempty"`
	CyclePath []int64  `json:"cycle_path,omitempty"`
}
