package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGoToQuestion(t *testing.T) {
	t.Run("positive id succeeds", func(t *testing.T) {
		step, err := GoToQuestion(5)
		assert.NoError(t, err)
		assert.Equal(t, NextStepGoToQuestion, step.Type())
		assert.False(t, step.IsEnd())
		id, ok := step.QuestionID()
		assert.True(t, ok)
		assert.Equal(t, int64(5), id)
	})

	t.Run("zero id fails construction", func(t *testing.T) {
		_, err := GoToQuestion(0)
		assert.ErrorIs(t, err, ErrInvalidDeterminant)
	})

	t.Run("negative id fails construction", func(t *testing.T) {
		_, err := GoToQuestion(-3)
		assert.ErrorIs(t, err, ErrInvalidDeterminant)
	})
}

func TestEndSurvey(t *testing.T) {
	step := EndSurvey()
	assert.True(t, step.IsEnd())
	assert.Equal(t, NextStepEndSurvey, step.Type())
	id, ok := step.QuestionID()
	assert.False(t, ok)
	assert.Zero(t, id)
}

func TestNextStepEquality(t *testing.T) {
	a := MustGoToQuestion(7)
	b := MustGoToQuestion(7)
	c := MustGoToQuestion(8)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.NotEqual(t, a, EndSurvey())
	assert.Equal(t, EndSurvey(), EndSurvey())

	// Comparable: usable as a map key.
	seen := map[NextStep]int{a: 1, EndSurvey(): 2}
	assert.Equal(t, 1, seen[b])
	assert.Equal(t, 2, seen[EndSurvey()])
}

func TestNextStepJSON(t *testing.T) {
	t.Run("go-to-question canonical form", func(t *testing.T) {
		data, err := json.Marshal(MustGoToQuestion(42))
		assert.NoError(t, err)
		assert.JSONEq(t, `{"type":0,"nextQuestionId":42}`, string(data))
	})

	t.Run("end-survey canonical form", func(t *testing.T) {
		data, err := json.Marshal(EndSurvey())
		assert.NoError(t, err)
		assert.JSONEq(t, `{"type":1,"nextQuestionId":null}`, string(data))
	})

	t.Run("round-trip", func(t *testing.T) {
		for _, step := range []NextStep{MustGoToQuestion(3), EndSurvey()} {
			data, err := json.Marshal(step)
			assert.NoError(t, err)
			var decoded NextStep
			assert.NoError(t, json.Unmarshal(data, &decoded))
			assert.Equal(t, step, decoded)
		}
	})

	t.Run("malformed combinations fail deserialization", func(t *testing.T) {
		cases := []string{
			`{"type":0,"nextQuestionId":null}`, // go-to without id
			`{"type":0,"nextQuestionId":0}`,    // non-positive id
			`{"type":0,"nextQuestionId":-1}`,
			`{"type":1,"nextQuestionId":5}`, // end with id
			`{"type":2,"nextQuestionId":5}`, // unknown tag
			`{"type":"goto"}`,
		}
		for _, raw := range cases {
			var step NextStep
			err := json.Unmarshal([]byte(raw), &step)
			assert.ErrorIs(t, err, ErrInvalidDeterminant, "payload: %s", raw)
		}
	})
}
