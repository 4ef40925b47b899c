package models

import "time"

// QuestionKind defines the kind of a survey question.
type QuestionKind string

const (
	QuestionKindText           QuestionKind = "text"            // Free text input
	QuestionKindSingleChoice   QuestionKind = "single_choice"   // Radio buttons
	QuestionKindMultipleChoice QuestionKind = "multiple_choice" // Checkboxes
	QuestionKindRating         QuestionKind = "rating"          // 1-5 scale
	QuestionKindDate           QuestionKind = "date"            // Calendar date, DD.MM.YYYY
	QuestionKindLocation       QuestionKind = "location"        // Geo coordinates
)

// HasOptions reports whether questions of this kind carry an option list.
func (k QuestionKind) HasOptions() bool {
	switch k {
	case QuestionKindSingleChoice, QuestionKindMultipleChoice, QuestionKindRating:
		return true
	}
	return false
}

// Question is a node of a survey's question graph. OrderIndex positions it
// in the default linear sequence and is unique within its survey.
// DefaultNextStep, when set, overrides the sequential order; a nil value
// means "fall back to the next question by order index, or end if none".
type Question struct {
	ID         int64        `json:"id" gorm:"primaryKey"`
	SurveyID   int64        `json:"survey_id" gorm:"index"`
	OrderIndex int          `json:"order_index"`
	Kind       QuestionKind `json:"kind"`
	Text       string       `json:"text"`
	IsRequired bool         `json:"is_required"`

	// Options are present for choice and rating kinds, empty otherwise.
	// For rating questions the option at order index r-1 corresponds to
	// rating value r.
	Options []Option `json:"options,omitempty" gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE"`

	DefaultNextStep *NextStep `json:"default_next_step,omitempty" gorm:"serializer:json"`

	// MinDate and MaxDate bound answers to date questions, DD.MM.YYYY.
	MinDate string `json:"min_date,omitempty"`
	MaxDate string `json:"max_date,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OptionByText locates the option whose display text equals text, or nil.
func (q *Question) OptionByText(text string) *Option {
	for i := range q.Options {
		if q.Options[i].Text == text {
			return &q.Options[i]
		}
	}
	return nil
}

// OptionByOrderIndex locates the option at the given order index, or nil.
func (q *Question) OptionByOrderIndex(idx int) *Option {
	for i := range q.Options {
		if q.Options[i].OrderIndex == idx {
			return &q.Options[i]
		}
	}
	return nil
}

// OptionTexts returns the display texts of the options in order-index order.
func (q *Question) OptionTexts() []string {
	texts := make([]string, 0, len(q.Options))
	for idx := 0; idx < len(q.Options); idx++ {
		if opt := q.OptionByOrderIndex(idx); opt != nil {
			texts = append(texts, opt.Text)
		}
	}
	return texts
}

// Option is one selectable choice of a question. OrderIndex is dense and
// zero-based within the owning question. NextStep, when set, overrides the
// question's default next-step for this specific choice; nil means "use the
// owning question's default".
type Option struct {
	ID         int64     `json:"id" gorm:"primaryKey"`
	QuestionID int64     `json:"question_id" gorm:"index"`
	Text       string    `json:"text"`
	OrderIndex int       `json:"order_index"`
	NextStep   *NextStep `json:"next_step,omitempty" gorm:"serializer:json"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
