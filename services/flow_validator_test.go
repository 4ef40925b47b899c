package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SpitiusK/SurveyBot-sub014/models"
)

func TestValidateSurveyFlowLinearChain(t *testing.T) {
	survey := &models.Survey{
		ID: 1,
		Questions: []models.Question{
			{ID: 1, OrderIndex: 0, DefaultNextStep: stepPtr(models.MustGoToQuestion(2))},
			{ID: 2, OrderIndex: 1, DefaultNextStep: stepPtr(models.MustGoToQuestion(3))},
			{ID: 3, OrderIndex: 2, DefaultNextStep: stepPtr(models.EndSurvey())},
		},
	}

	result := ValidateSurveyFlow(survey)
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
	assert.Nil(t, result.CyclePath)
}

func TestValidateSurveyFlowBranchingGraph(t *testing.T) {
	// The full branching graph from the flow tests is acyclic and complete.
	result := ValidateSurveyFlow(branchingSurvey())
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
}

func TestValidateSurveyFlowEmptySurvey(t *testing.T) {
	result := ValidateSurveyFlow(&models.Survey{ID: 1})
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
	assert.Nil(t, result.CyclePath)
}

func TestValidateSurveyFlowCycle(t *testing.T) {
	// Q1 -> Q2 -> Q3 -> Q1
	survey := &models.Survey{
		ID: 1,
		Questions: []models.Question{
			{ID: 1, OrderIndex: 0, DefaultNextStep: stepPtr(models.MustGoToQuestion(2))},
			{ID: 2, OrderIndex: 1, DefaultNextStep: stepPtr(models.MustGoToQuestion(3))},
			{ID: 3, OrderIndex: 2, DefaultNextStep: stepPtr(models.MustGoToQuestion(1))},
		},
	}

	result := ValidateSurveyFlow(survey)
	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "cycle")
	assert.Equal(t, []int64{1, 2, 3, 1}, result.CyclePath)
}

func TestValidateSurveyFlowSelfLoop(t *testing.T) {
	survey := &models.Survey{
		ID: 1,
		Questions: []models.Question{
			{ID: 5, OrderIndex: 0, DefaultNextStep: stepPtr(models.MustGoToQuestion(5))},
		},
	}

	result := ValidateSurveyFlow(survey)
	assert.False(t, result.Valid)
	assert.Equal(t, []int64{5, 5}, result.CyclePath)
}

func TestValidateSurveyFlowCycleThroughOption(t *testing.T) {
	survey := &models.Survey{
		ID: 1,
		Questions: []models.Question{
			{ID: 1, OrderIndex: 0, DefaultNextStep: stepPtr(models.MustGoToQuestion(2))},
			{
				ID: 2, OrderIndex: 1, Kind: models.QuestionKindSingleChoice,
				Options: []models.Option{
					{Text: "again", OrderIndex: 0, NextStep: stepPtr(models.MustGoToQuestion(1))},
					{Text: "done", OrderIndex: 1, NextStep: stepPtr(models.EndSurvey())},
				},
			},
		},
	}

	result := ValidateSurveyFlow(survey)
	assert.False(t, result.Valid)
	assert.Equal(t, []int64{1, 2, 1}, result.CyclePath)
}

func TestValidateSurveyFlowDanglingReferences(t *testing.T) {
	survey := &models.Survey{
		ID: 1,
		Questions: []models.Question{
			{ID: 1, OrderIndex: 0, DefaultNextStep: stepPtr(models.MustGoToQuestion(99))},
			{
				ID: 2, OrderIndex: 1, Kind: models.QuestionKindSingleChoice,
				Options: []models.Option{
					{Text: "Yes", OrderIndex: 0, NextStep: stepPtr(models.MustGoToQuestion(77))},
					{Text: "No", OrderIndex: 1, NextStep: stepPtr(models.EndSurvey())},
				},
			},
		},
	}

	result := ValidateSurveyFlow(survey)
	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "nonexistent question 99")
	assert.Contains(t, result.Errors[0], "default next-step")
	assert.Contains(t, result.Errors[1], "nonexistent question 77")
	assert.Contains(t, result.Errors[1], `option "Yes"`)
	assert.Nil(t, result.CyclePath)
}

func TestValidateSurveyFlowSequentialEdgesIgnored(t *testing.T) {
	// Sequential fallback never forms edges: a survey with no explicit
	// next-steps at all is trivially valid.
	survey := &models.Survey{
		ID: 1,
		Questions: []models.Question{
			{ID: 1, OrderIndex: 0},
			{ID: 2, OrderIndex: 1},
			{ID: 3, OrderIndex: 2},
		},
	}
	result := ValidateSurveyFlow(survey)
	assert.True(t, result.Valid)
}

func TestValidateSurveyFlowIsPure(t *testing.T) {
	survey := &models.Survey{
		ID: 1,
		Questions: []models.Question{
			{ID: 1, OrderIndex: 0, DefaultNextStep: stepPtr(models.MustGoToQuestion(2))},
			{ID: 2, OrderIndex: 1, DefaultNextStep: stepPtr(models.MustGoToQuestion(1))},
		},
	}

	first := ValidateSurveyFlow(survey)
	second := ValidateSurveyFlow(survey)
	assert.Equal(t, first, second)
	assert.Equal(t, []int64{1, 2, 1}, second.CyclePath)
}
