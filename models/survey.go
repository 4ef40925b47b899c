package models

import (
	"sort"
	"time"
)

// SurveyStatus defines the lifecycle status of a survey.
type SurveyStatus string

const (
	SurveyStatusDraft  SurveyStatus = "draft"  // Being edited, not accepting responses
	SurveyStatusActive SurveyStatus = "active" // Published and accepting responses
	SurveyStatusClosed SurveyStatus = "closed" // No longer accepting responses
)

// Survey is the aggregate owning the question graph. Questions reference
// each other by integer id only (through next-step determinants), never by
// pointer, which keeps the graph flat and makes cycle detection a plain DFS
// over ids.
type Survey struct {
	ID                     int64        `json:"id" gorm:"primaryKey"`
	Title                  string       `json:"title"`
	Status                 SurveyStatus `json:"status" gorm:"index"`
	AllowMultipleResponses bool         `json:"allow_multiple_responses"`
	Questions              []Question   `json:"questions,omitempty" gorm:"foreignKey:SurveyID;constraint:OnDelete:CASCADE"`
	CreatedAt              time.Time    `json:"created_at"`
	UpdatedAt              time.Time    `json:"updated_at"`
}

// QuestionByID locates a question of this survey by id, or nil.
func (s *Survey) QuestionByID(id int64) *Question {
	for i := range s.Questions {
		if s.Questions[i].ID == id {
			return &s.Questions[i]
		}
	}
	return nil
}

// QuestionsInOrder returns the questions sorted by ascending order index.
// The survey's own slice is left untouched.
func (s *Survey) QuestionsInOrder() []*Question {
	ordered := make([]*Question, 0, len(s.Questions))
	for i := range s.Questions {
		ordered = append(ordered, &s.Questions[i])
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].OrderIndex < ordered[j].OrderIndex
	})
	return ordered
}

// QuestionAfter returns the next question by ascending order index after q,
// or nil if q is the last one. This is the sequential fallback used when no
// explicit next-step is configured.
func (s *Survey) QuestionAfter(q *Question) *Question {
	var next *Question
	for i := range s.Questions {
		candidate := &s.Questions[i]
		if candidate.OrderIndex <= q.OrderIndex {
			continue
		}
		if next == nil || candidate.OrderIndex < next.OrderIndex {
			next = candidate
		}
	}
	return next
}

// FirstQuestion returns the question with the lowest order index, or nil
// for an empty survey.
func (s *Survey) FirstQuestion() *Question {
	var first *Question
	for i := range s.Questions {
		candidate := &s.Questions[i]
		if first == nil || candidate.OrderIndex < first.OrderIndex {
			first = candidate
		}
	}
	return first
}
