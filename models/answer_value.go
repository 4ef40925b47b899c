package models

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// DateLayout is the only textual date form the engine accepts, two-digit
// day and month with a four-digit year. ISO-8601 and month-first orderings
// are rejected on purpose: dashboards and exports depend on this exact
// format, so the narrow contract must be preserved.
const DateLayout = "02.01.2006"

const (
	ratingMin = 1
	ratingMax = 5
)

// AnswerValue is the closed set of typed, validated answer representations,
// one variant per question kind. Values are immutable once constructed,
// encode to a canonical JSON form that round-trips losslessly, and compare
// structurally through Equal.
type AnswerValue interface {
	// Kind names the question kind this value answers.
	Kind() QuestionKind
	// DisplayString renders the value for humans (chat echo, CSV export).
	DisplayString() string
	// Equal reports structural equality with another value.
	Equal(other AnswerValue) bool

	json.Marshaler
}

// EncodeAnswerValue renders a value's canonical JSON form.
func EncodeAnswerValue(v AnswerValue) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode %s answer: %w", v.Kind(), err)
	}
	return string(data), nil
}

// DecodeAnswerValue parses the canonical JSON form of the given kind,
// re-validating the value's intrinsic constraints. Question-level
// constraints (option membership, required flags) are enforced only at
// submission time by ParseAnswerValue.
func DecodeAnswerValue(kind QuestionKind, data []byte) (AnswerValue, error) {
	switch kind {
	case QuestionKindText:
		var v TextAnswer
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return v, nil
	case QuestionKindSingleChoice:
		var v SingleChoiceAnswer
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return v, nil
	case QuestionKindMultipleChoice:
		var v MultipleChoiceAnswer
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return v, nil
	case QuestionKindRating:
		var v RatingAnswer
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return v, nil
	case QuestionKindDate:
		var v DateAnswer
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return v, nil
	case QuestionKindLocation:
		var v LocationAnswer
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return v, nil
	default:
		return nil, NewAnswerFormatError("unknown question kind %q", kind)
	}
}

// ParseAnswerValue builds the answer value for a submitted raw payload,
// validating it against the question it answers. The raw payload uses the
// same canonical JSON form the value encodes to.
func ParseAnswerValue(q *Question, raw []byte) (AnswerValue, error) {
	switch q.Kind {
	case QuestionKindText:
		var dto textAnswerJSON
		if err := json.Unmarshal(raw, &dto); err != nil {
			return nil, NewAnswerFormatError("malformed text answer: %v", err)
		}
		return NewTextAnswer(dto.Text, q.IsRequired)
	case QuestionKindSingleChoice:
		var dto singleChoiceJSON
		if err := json.Unmarshal(raw, &dto); err != nil {
			return nil, NewAnswerFormatError("malformed single-choice answer: %v", err)
		}
		return NewSingleChoiceAnswer(dto.Selected, q.OptionTexts())
	case QuestionKindMultipleChoice:
		var dto multipleChoiceJSON
		if err := json.Unmarshal(raw, &dto); err != nil {
			return nil, NewAnswerFormatError("malformed multiple-choice answer: %v", err)
		}
		return NewMultipleChoiceAnswer(dto.Selected, q.OptionTexts(), q.IsRequired)
	case QuestionKindRating:
		var dto ratingJSON
		if err := json.Unmarshal(raw, &dto); err != nil {
			return nil, NewAnswerFormatError("malformed rating answer: %v", err)
		}
		return NewRatingAnswer(dto.Rating)
	case QuestionKindDate:
		var dto dateAnswerJSON
		if err := json.Unmarshal(raw, &dto); err != nil {
			return nil, NewAnswerFormatError("malformed date answer: %v", err)
		}
		minDate, maxDate, err := questionDateBounds(q)
		if err != nil {
			return nil, err
		}
		return ParseDateAnswer(dto.Date, minDate, maxDate)
	case QuestionKindLocation:
		var dto locationJSON
		if err := json.Unmarshal(raw, &dto); err != nil {
			return nil, NewAnswerFormatError("malformed location answer: %v", err)
		}
		return NewLocationAnswer(dto.Latitude, dto.Longitude, dto.Accuracy, dto.CapturedAt)
	default:
		return nil, NewAnswerFormatError("unknown question kind %q", q.Kind)
	}
}

func questionDateBounds(q *Question) (minDate, maxDate *time.Time, err error) {
	if q.MinDate != "" {
		t, parseErr := time.Parse(DateLayout, q.MinDate)
		if parseErr != nil {
			return nil, nil, NewAnswerFormatError("question has malformed minimum date %q", q.MinDate)
		}
		minDate = &t
	}
	if q.MaxDate != "" {
		t, parseErr := time.Parse(DateLayout, q.MaxDate)
		if parseErr != nil {
			return nil, nil, NewAnswerFormatError("question has malformed maximum date %q", q.MaxDate)
		}
		maxDate = &t
	}
	return minDate, maxDate, nil
}

// --- Text ---

// TextAnswer is a free-text answer.
type TextAnswer struct {
	text string
}

type textAnswerJSON struct {
	Text string `json:"text"`
}

// NewTextAnswer validates and builds a text answer. Required questions
// reject empty and whitespace-only input.
func NewTextAnswer(text string, required bool) (TextAnswer, error) {
	if required && strings.TrimSpace(text) == "" {
		return TextAnswer{}, NewAnswerFormatError("text answer must not be empty")
	}
	return TextAnswer{text: text}, nil
}

// Text returns the answered text.
func (a TextAnswer) Text() string { return a.text }

func (a TextAnswer) Kind() QuestionKind    { return QuestionKindText }
func (a TextAnswer) DisplayString() string { return a.text }

func (a TextAnswer) Equal(other AnswerValue) bool {
	o, ok := other.(TextAnswer)
	return ok && a.text == o.text
}

func (a TextAnswer) MarshalJSON() ([]byte, error) {
	return json.Marshal(textAnswerJSON{Text: a.text})
}

func (a *TextAnswer) UnmarshalJSON(data []byte) error {
	var dto textAnswerJSON
	if err := json.Unmarshal(data, &dto); err != nil {
		return NewAnswerFormatError("malformed text answer: %v", err)
	}
	a.text = dto.Text
	return nil
}

// --- Single choice ---

// SingleChoiceAnswer is one selected option label.
type SingleChoiceAnswer struct {
	selected string
}

type singleChoiceJSON struct {
	Selected string `json:"selected"`
}

// NewSingleChoiceAnswer validates that the selected label matches one of
// the question's option texts.
func NewSingleChoiceAnswer(selected string, optionTexts []string) (SingleChoiceAnswer, error) {
	if selected == "" {
		return SingleChoiceAnswer{}, NewAnswerFormatError("an option must be selected")
	}
	for _, text := range optionTexts {
		if text == selected {
			return SingleChoiceAnswer{selected: selected}, nil
		}
	}
	return SingleChoiceAnswer{}, NewAnswerFormatError("%q is not one of the question's options", selected)
}

// Selected returns the chosen option label.
func (a SingleChoiceAnswer) Selected() string { return a.selected }

func (a SingleChoiceAnswer) Kind() QuestionKind    { return QuestionKindSingleChoice }
func (a SingleChoiceAnswer) DisplayString() string { return a.selected }

func (a SingleChoiceAnswer) Equal(other AnswerValue) bool {
	o, ok := other.(SingleChoiceAnswer)
	return ok && a.selected == o.selected
}

func (a SingleChoiceAnswer) MarshalJSON() ([]byte, error) {
	return json.Marshal(singleChoiceJSON{Selected: a.selected})
}

func (a *SingleChoiceAnswer) UnmarshalJSON(data []byte) error {
	var dto singleChoiceJSON
	if err := json.Unmarshal(data, &dto); err != nil {
		return NewAnswerFormatError("malformed single-choice answer: %v", err)
	}
	if dto.Selected == "" {
		return NewAnswerFormatError("an option must be selected")
	}
	a.selected = dto.Selected
	return nil
}

// --- Multiple choice ---

// MultipleChoiceAnswer is a set of selected option labels. Order is
// irrelevant and duplicates are dropped; the labels are stored sorted so
// equality and the canonical JSON form are stable.
type MultipleChoiceAnswer struct {
	selected []string
}

type multipleChoiceJSON struct {
	Selected []string `json:"selected"`
}

// NewMultipleChoiceAnswer validates every label against the question's
// option texts, de-duplicates, and requires at least one selection for
// required questions.
func NewMultipleChoiceAnswer(selected []string, optionTexts []string, required bool) (MultipleChoiceAnswer, error) {
	normalized := normalizeSelection(selected)
	if required && len(normalized) == 0 {
		return MultipleChoiceAnswer{}, NewAnswerFormatError("at least one option must be selected")
	}
	allowed := make(map[string]bool, len(optionTexts))
	for _, text := range optionTexts {
		allowed[text] = true
	}
	for _, label := range normalized {
		if !allowed[label] {
			return MultipleChoiceAnswer{}, NewAnswerFormatError("%q is not one of the question's options", label)
		}
	}
	return MultipleChoiceAnswer{selected: normalized}, nil
}

func normalizeSelection(selected []string) []string {
	seen := make(map[string]bool, len(selected))
	normalized := make([]string, 0, len(selected))
	for _, label := range selected {
		if label == "" || seen[label] {
			continue
		}
		seen[label] = true
		normalized = append(normalized, label)
	}
	sort.Strings(normalized)
	return normalized
}

// Selected returns a copy of the selected labels, sorted.
func (a MultipleChoiceAnswer) Selected() []string {
	out := make([]string, len(a.selected))
	copy(out, a.selected)
	return out
}

func (a MultipleChoiceAnswer) Kind() QuestionKind    { return QuestionKindMultipleChoice }
func (a MultipleChoiceAnswer) DisplayString() string { return strings.Join(a.selected, ", ") }

func (a MultipleChoiceAnswer) Equal(other AnswerValue) bool {
	o, ok := other.(MultipleChoiceAnswer)
	if !ok || len(a.selected) != len(o.selected) {
		return false
	}
	for i := range a.selected {
		if a.selected[i] != o.selected[i] {
			return false
		}
	}
	return true
}

func (a MultipleChoiceAnswer) MarshalJSON() ([]byte, error) {
	selected := a.selected
	if selected == nil {
		selected = []string{}
	}
	return json.Marshal(multipleChoiceJSON{Selected: selected})
}

func (a *MultipleChoiceAnswer) UnmarshalJSON(data []byte) error {
	var dto multipleChoiceJSON
	if err := json.Unmarshal(data, &dto); err != nil {
		return NewAnswerFormatError("malformed multiple-choice answer: %v", err)
	}
	a.selected = normalizeSelection(dto.Selected)
	return nil
}

// --- Rating ---

// RatingAnswer is an integer rating on the fixed 1..5 scale.
type RatingAnswer struct {
	rating int
}

type ratingJSON struct {
	Rating int `json:"rating"`
}

// NewRatingAnswer validates the rating range.
func NewRatingAnswer(rating int) (RatingAnswer, error) {
	if rating < ratingMin || rating > ratingMax {
		return RatingAnswer{}, NewAnswerFormatError("rating must be between %d and %d, got %d", ratingMin, ratingMax, rating)
	}
	return RatingAnswer{rating: rating}, nil
}

// Rating returns the rating value.
func (a RatingAnswer) Rating() int { return a.rating }

func (a RatingAnswer) Kind() QuestionKind    { return QuestionKindRating }
func (a RatingAnswer) DisplayString() string { return fmt.Sprintf("%d/%d", a.rating, ratingMax) }

func (a RatingAnswer) Equal(other AnswerValue) bool {
	o, ok := other.(RatingAnswer)
	return ok && a.rating == o.rating
}

func (a RatingAnswer) MarshalJSON() ([]byte, error) {
	return json.Marshal(ratingJSON{Rating: a.rating})
}

func (a *RatingAnswer) UnmarshalJSON(data []byte) error {
	var dto ratingJSON
	if err := json.Unmarshal(data, &dto); err != nil {
		return NewAnswerFormatError("malformed rating answer: %v", err)
	}
	v, err := NewRatingAnswer(dto.Rating)
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// --- Date ---

// DateAnswer is a calendar date with an optional [min, max] range carried
// along from the question's configuration. Time-of-day is discarded.
type DateAnswer struct {
	date    time.Time
	minDate *time.Time
	maxDate *time.Time
}

type dateAnswerJSON struct {
	Date    string `json:"date"`
	MinDate string `json:"minDate,omitempty"`
	MaxDate string `json:"maxDate,omitempty"`
}

// NewDateAnswer validates the date against the optional bounds. All inputs
// are truncated to midnight UTC.
func NewDateAnswer(date time.Time, minDate, maxDate *time.Time) (DateAnswer, error) {
	d := truncateToDate(date)
	var lo, hi *time.Time
	if minDate != nil {
		t := truncateToDate(*minDate)
		lo = &t
	}
	if maxDate != nil {
		t := truncateToDate(*maxDate)
		hi = &t
	}
	if lo != nil && hi != nil && hi.Before(*lo) {
		return DateAnswer{}, NewAnswerFormatError("maximum date is before minimum date")
	}
	if lo != nil && d.Before(*lo) {
		return DateAnswer{}, NewAnswerFormatError("date is before minimum %s", lo.Format(DateLayout))
	}
	if hi != nil && d.After(*hi) {
		return DateAnswer{}, NewAnswerFormatError("date is after maximum %s", hi.Format(DateLayout))
	}
	return DateAnswer{date: d, minDate: lo, maxDate: hi}, nil
}

// ParseDateAnswer parses the strict DD.MM.YYYY form and validates bounds.
// Any other pattern fails, including ISO-8601 and month-first orderings.
func ParseDateAnswer(raw string, minDate, maxDate *time.Time) (DateAnswer, error) {
	date, err := time.Parse(DateLayout, raw)
	if err != nil {
		return DateAnswer{}, NewAnswerFormatError("date must use the %s format, got %q", "DD.MM.YYYY", raw)
	}
	return NewDateAnswer(date, minDate, maxDate)
}

// Date returns the answered date, truncated to midnight UTC.
func (a DateAnswer) Date() time.Time { return a.date }

// Bounds returns the optional [min, max] range.
func (a DateAnswer) Bounds() (minDate, maxDate *time.Time) { return a.minDate, a.maxDate }

func (a DateAnswer) Kind() QuestionKind    { return QuestionKindDate }
func (a DateAnswer) DisplayString() string { return a.date.Format(DateLayout) }

func (a DateAnswer) Equal(other AnswerValue) bool {
	o, ok := other.(DateAnswer)
	return ok && a.date.Equal(o.date) &&
		equalOptionalDate(a.minDate, o.minDate) &&
		equalOptionalDate(a.maxDate, o.maxDate)
}

func (a DateAnswer) MarshalJSON() ([]byte, error) {
	dto := dateAnswerJSON{Date: a.date.Format(DateLayout)}
	if a.minDate != nil {
		dto.MinDate = a.minDate.Format(DateLayout)
	}
	if a.maxDate != nil {
		dto.MaxDate = a.maxDate.Format(DateLayout)
	}
	return json.Marshal(dto)
}

func (a *DateAnswer) UnmarshalJSON(data []byte) error {
	var dto dateAnswerJSON
	if err := json.Unmarshal(data, &dto); err != nil {
		return NewAnswerFormatError("malformed date answer: %v", err)
	}
	var minDate, maxDate *time.Time
	if dto.MinDate != "" {
		t, err := time.Parse(DateLayout, dto.MinDate)
		if err != nil {
			return NewAnswerFormatError("minimum date must use the DD.MM.YYYY format, got %q", dto.MinDate)
		}
		minDate = &t
	}
	if dto.MaxDate != "" {
		t, err := time.Parse(DateLayout, dto.MaxDate)
		if err != nil {
			return NewAnswerFormatError("maximum date must use the DD.MM.YYYY format, got %q", dto.MaxDate)
		}
		maxDate = &t
	}
	v, err := ParseDateAnswer(dto.Date, minDate, maxDate)
	if err != nil {
		return err
	}
	*a = v
	return nil
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func equalOptionalDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

// --- Location ---

// LocationAnswer is a geographic coordinate with optional accuracy (meters)
// and capture timestamp.
type LocationAnswer struct {
	latitude   float64
	longitude  float64
	accuracy   *float64
	capturedAt *time.Time
}

type locationJSON struct {
	Latitude   float64    `json:"latitude"`
	Longitude  float64    `json:"longitude"`
	Accuracy   *float64   `json:"accuracy,omitempty"`
	CapturedAt *time.Time `json:"capturedAt,omitempty"`
}

// NewLocationAnswer validates the coordinate ranges.
func NewLocationAnswer(latitude, longitude float64, accuracy *float64, capturedAt *time.Time) (LocationAnswer, error) {
	if latitude < -90 || latitude > 90 {
		return LocationAnswer{}, NewAnswerFormatError("latitude must be between -90 and 90, got %v", latitude)
	}
	if longitude < -180 || longitude > 180 {
		return LocationAnswer{}, NewAnswerFormatError("longitude must be between -180 and 180, got %v", longitude)
	}
	if accuracy != nil && *accuracy < 0 {
		return LocationAnswer{}, NewAnswerFormatError("accuracy must not be negative, got %v", *accuracy)
	}
	v := LocationAnswer{latitude: latitude, longitude: longitude}
	if accuracy != nil {
		acc := *accuracy
		v.accuracy = &acc
	}
	if capturedAt != nil {
		ts := capturedAt.UTC()
		v.capturedAt = &ts
	}
	return v, nil
}

// Coordinates returns latitude and longitude.
func (a LocationAnswer) Coordinates() (latitude, longitude float64) {
	return a.latitude, a.longitude
}

// Accuracy returns the optional accuracy in meters.
func (a LocationAnswer) Accuracy() *float64 {
	if a.accuracy == nil {
		return nil
	}
	acc := *a.accuracy
	return &acc
}

// CapturedAt returns the optional capture timestamp.
func (a LocationAnswer) CapturedAt() *time.Time {
	if a.capturedAt == nil {
		return nil
	}
	ts := *a.capturedAt
	return &ts
}

func (a LocationAnswer) Kind() QuestionKind { return QuestionKindLocation }

func (a LocationAnswer) DisplayString() string {
	return fmt.Sprintf("%.6f, %.6f", a.latitude, a.longitude)
}

func (a LocationAnswer) Equal(other AnswerValue) bool {
	o, ok := other.(LocationAnswer)
	if !ok || a.latitude != o.latitude || a.longitude != o.longitude {
		return false
	}
	if (a.accuracy == nil) != (o.accuracy == nil) {
		return false
	}
	if a.accuracy != nil && *a.accuracy != *o.accuracy {
		return false
	}
	if (a.capturedAt == nil) != (o.capturedAt == nil) {
		return false
	}
	if a.capturedAt != nil && !a.capturedAt.Equal(*o.capturedAt) {
		return false
	}
	return true
}

func (a LocationAnswer) MarshalJSON() ([]byte, error) {
	return json.Marshal(locationJSON{
		Latitude:   a.latitude,
		Longitude:  a.longitude,
		Accuracy:   a.accuracy,
		CapturedAt: a.capturedAt,
	})
}

func (a *LocationAnswer) UnmarshalJSON(data []byte) error {
	var dto locationJSON
	if err := json.Unmarshal(data, &dto); err != nil {
		return NewAnswerFormatError("malformed location answer: %v", err)
	}
	v, err := NewLocationAnswer(dto.Latitude, dto.Longitude, dto.Accuracy, dto.CapturedAt)
	if err != nil {
		return err
	}
	*a = v
	return nil
}
