package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(day, month, year int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

func TestNewTextAnswer(t *testing.T) {
	t.Run("required rejects empty", func(t *testing.T) {
		_, err := NewTextAnswer("", true)
		var formatErr *AnswerFormatError
		assert.ErrorAs(t, err, &formatErr)
		assert.Contains(t, formatErr.Reason, "must not be empty")

		_, err = NewTextAnswer("   ", true)
		assert.ErrorAs(t, err, &formatErr)
	})

	t.Run("optional accepts empty", func(t *testing.T) {
		answer, err := NewTextAnswer("", false)
		assert.NoError(t, err)
		assert.Equal(t, "", answer.Text())
	})

	t.Run("display and equality", func(t *testing.T) {
		a, _ := NewTextAnswer("Alice", true)
		b, _ := NewTextAnswer("Alice", true)
		c, _ := NewTextAnswer("Bob", true)
		assert.Equal(t, "Alice", a.DisplayString())
		assert.True(t, a.Equal(b))
		assert.False(t, a.Equal(c))
	})
}

func TestNewSingleChoiceAnswer(t *testing.T) {
	options := []string{"Yes", "No"}

	t.Run("matching label succeeds", func(t *testing.T) {
		answer, err := NewSingleChoiceAnswer("Yes", options)
		assert.NoError(t, err)
		assert.Equal(t, "Yes", answer.Selected())
	})

	t.Run("unknown label fails", func(t *testing.T) {
		_, err := NewSingleChoiceAnswer("Maybe", options)
		var formatErr *AnswerFormatError
		assert.ErrorAs(t, err, &formatErr)
		assert.Contains(t, formatErr.Reason, "not one of the question's options")
	})

	t.Run("empty selection fails", func(t *testing.T) {
		_, err := NewSingleChoiceAnswer("", options)
		var formatErr *AnswerFormatError
		assert.ErrorAs(t, err, &formatErr)
	})
}

func TestNewMultipleChoiceAnswer(t *testing.T) {
	options := []string{"A", "B", "C"}

	t.Run("deduplicates and sorts", func(t *testing.T) {
		answer, err := NewMultipleChoiceAnswer([]string{"C", "A", "C", "A"}, options, true)
		require.NoError(t, err)
		assert.Equal(t, []string{"A", "C"}, answer.Selected())
	})

	t.Run("order is irrelevant for equality", func(t *testing.T) {
		a, _ := NewMultipleChoiceAnswer([]string{"B", "A"}, options, true)
		b, _ := NewMultipleChoiceAnswer([]string{"A", "B"}, options, true)
		assert.True(t, a.Equal(b))
	})

	t.Run("required rejects empty selection", func(t *testing.T) {
		_, err := NewMultipleChoiceAnswer(nil, options, true)
		var formatErr *AnswerFormatError
		assert.ErrorAs(t, err, &formatErr)
		assert.Contains(t, formatErr.Reason, "at least one option")
	})

	t.Run("unknown label fails", func(t *testing.T) {
		_, err := NewMultipleChoiceAnswer([]string{"A", "X"}, options, true)
		var formatErr *AnswerFormatError
		assert.ErrorAs(t, err, &formatErr)
	})
}

func TestNewRatingAnswer(t *testing.T) {
	for rating := 1; rating <= 5; rating++ {
		answer, err := NewRatingAnswer(rating)
		assert.NoError(t, err)
		assert.Equal(t, rating, answer.Rating())
	}
	for _, rating := range []int{0, 6, -1, 100} {
		_, err := NewRatingAnswer(rating)
		var formatErr *AnswerFormatError
		assert.ErrorAs(t, err, &formatErr, "rating %d", rating)
		assert.Contains(t, formatErr.Reason, "between 1 and 5")
	}
	answer, _ := NewRatingAnswer(4)
	assert.Equal(t, "4/5", answer.DisplayString())
}

func TestParseDateAnswer(t *testing.T) {
	t.Run("strict DD.MM.YYYY only", func(t *testing.T) {
		answer, err := ParseDateAnswer("24.12.2024", nil, nil)
		require.NoError(t, err)
		assert.Equal(t, date(24, 12, 2024), answer.Date())
		assert.Equal(t, "24.12.2024", answer.DisplayString())

		// Other patterns are rejected on purpose: dashboards and exports
		// depend on the narrow format.
		rejected := []string{
			"2024-12-24",  // ISO-8601
			"12.24.2024",  // month-first
			"4.1.2024",    // single-digit day/month
			"24.12.24",    // two-digit year
			"24/12/2024",  // wrong separator
			"24.12.2024 10:30", // trailing time
			"",
		}
		for _, raw := range rejected {
			_, err := ParseDateAnswer(raw, nil, nil)
			var formatErr *AnswerFormatError
			assert.ErrorAs(t, err, &formatErr, "input %q", raw)
		}
	})

	t.Run("range bounds", func(t *testing.T) {
		minDate := date(1, 1, 2024)
		maxDate := date(31, 12, 2024)

		_, err := ParseDateAnswer("15.06.2024", &minDate, &maxDate)
		assert.NoError(t, err)

		_, err = ParseDateAnswer("31.12.2023", &minDate, &maxDate)
		var formatErr *AnswerFormatError
		assert.ErrorAs(t, err, &formatErr)
		assert.Contains(t, formatErr.Reason, "before minimum")

		_, err = ParseDateAnswer("01.01.2025", &minDate, &maxDate)
		assert.ErrorAs(t, err, &formatErr)
		assert.Contains(t, formatErr.Reason, "after maximum")
	})

	t.Run("time-of-day is discarded", func(t *testing.T) {
		withTime := time.Date(2024, 6, 15, 13, 45, 12, 0, time.UTC)
		answer, err := NewDateAnswer(withTime, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, date(15, 6, 2024), answer.Date())
	})
}

func TestNewLocationAnswer(t *testing.T) {
	t.Run("coordinate ranges", func(t *testing.T) {
		_, err := NewLocationAnswer(60.17, 24.94, nil, nil)
		assert.NoError(t, err)

		var formatErr *AnswerFormatError
		_, err = NewLocationAnswer(90.5, 0, nil, nil)
		assert.ErrorAs(t, err, &formatErr)
		assert.Contains(t, formatErr.Reason, "latitude must be between -90 and 90")

		_, err = NewLocationAnswer(0, -180.1, nil, nil)
		assert.ErrorAs(t, err, &formatErr)
		assert.Contains(t, formatErr.Reason, "longitude must be between -180 and 180")

		negAcc := -5.0
		_, err = NewLocationAnswer(0, 0, &negAcc, nil)
		assert.ErrorAs(t, err, &formatErr)
	})

	t.Run("boundary values are accepted", func(t *testing.T) {
		for _, coords := range [][2]float64{{-90, -180}, {90, 180}, {0, 0}} {
			_, err := NewLocationAnswer(coords[0], coords[1], nil, nil)
			assert.NoError(t, err)
		}
	})
}

// Round-trip: decoding a value's canonical JSON yields an equal value, for
// every variant.
func TestAnswerValueRoundTrip(t *testing.T) {
	accuracy := 12.5
	capturedAt := time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)
	minDate := date(1, 1, 2024)
	maxDate := date(31, 12, 2024)

	text, _ := NewTextAnswer("hello world", true)
	single, _ := NewSingleChoiceAnswer("Yes", []string{"Yes", "No"})
	multi, _ := NewMultipleChoiceAnswer([]string{"B", "A"}, []string{"A", "B"}, true)
	rating, _ := NewRatingAnswer(3)
	plainDate, _ := ParseDateAnswer("15.06.2024", nil, nil)
	boundedDate, _ := ParseDateAnswer("15.06.2024", &minDate, &maxDate)
	location, _ := NewLocationAnswer(60.169857, 24.938379, &accuracy, &capturedAt)
	bareLocation, _ := NewLocationAnswer(-45.5, 170.25, nil, nil)

	values := []AnswerValue{
		text, single, multi, rating, plainDate, boundedDate, location, bareLocation,
	}
	for _, value := range values {
		encoded, err := EncodeAnswerValue(value)
		require.NoError(t, err)
		decoded, err := DecodeAnswerValue(value.Kind(), []byte(encoded))
		require.NoError(t, err, "kind %s, payload %s", value.Kind(), encoded)
		assert.True(t, value.Equal(decoded), "kind %s: %s", value.Kind(), encoded)
		assert.Equal(t, value.Kind(), decoded.Kind())
	}
}

func TestDecodeAnswerValueValidates(t *testing.T) {
	t.Run("rating range re-checked on decode", func(t *testing.T) {
		_, err := DecodeAnswerValue(QuestionKindRating, []byte(`{"rating":9}`))
		var formatErr *AnswerFormatError
		assert.ErrorAs(t, err, &formatErr)
	})

	t.Run("location range re-checked on decode", func(t *testing.T) {
		_, err := DecodeAnswerValue(QuestionKindLocation, []byte(`{"latitude":120,"longitude":0}`))
		var formatErr *AnswerFormatError
		assert.ErrorAs(t, err, &formatErr)
	})

	t.Run("unknown kind fails", func(t *testing.T) {
		_, err := DecodeAnswerValue(QuestionKind("mystery"), []byte(`{}`))
		assert.Error(t, err)
	})
}

func TestParseAnswerValueAgainstQuestion(t *testing.T) {
	question := &Question{
		ID:         1,
		Kind:       QuestionKindSingleChoice,
		IsRequired: true,
		Options: []Option{
			{Text: "Yes", OrderIndex: 0},
			{Text: "No", OrderIndex: 1},
		},
	}

	t.Run("valid option", func(t *testing.T) {
		value, err := ParseAnswerValue(question, []byte(`{"selected":"Yes"}`))
		require.NoError(t, err)
		assert.Equal(t, "Yes", value.(SingleChoiceAnswer).Selected())
	})

	t.Run("label not on the question", func(t *testing.T) {
		_, err := ParseAnswerValue(question, []byte(`{"selected":"Perhaps"}`))
		var formatErr *AnswerFormatError
		assert.ErrorAs(t, err, &formatErr)
	})

	t.Run("date question bounds come from the question", func(t *testing.T) {
		dateQuestion := &Question{
			ID:      2,
			Kind:    QuestionKindDate,
			MinDate: "01.01.2024",
			MaxDate: "31.12.2024",
		}
		_, err := ParseAnswerValue(dateQuestion, []byte(`{"date":"15.06.2024"}`))
		assert.NoError(t, err)

		_, err = ParseAnswerValue(dateQuestion, []byte(`{"date":"15.06.2023"}`))
		var formatErr *AnswerFormatError
		assert.ErrorAs(t, err, &formatErr)
		assert.Contains(t, formatErr.Reason, "before minimum")
	})

	t.Run("malformed payload", func(t *testing.T) {
		_, err := ParseAnswerValue(question, []byte(`{"selected":`))
		var formatErr *AnswerFormatError
		assert.ErrorAs(t, err, &formatErr)
	})
}
