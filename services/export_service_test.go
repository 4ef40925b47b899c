package services

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SpitiusK/SurveyBot-sub014/models"
)

func TestExportResponsesCSV(t *testing.T) {
	surveyRepo := &fakeSurveyRepo{surveys: map[int64]*models.Survey{1: branchingSurvey()}}
	responseRepo := &fakeResponseRepo{responses: make(map[int64]*models.Response)}

	submittedAt := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	responseRepo.responses[1] = &models.Response{
		ID: 1, SurveyID: 1, RespondentID: "resp_a",
		Answers: []models.Answer{
			// Stored out of question order on purpose; the export re-orders.
			{QuestionID: 2, Kind: models.QuestionKindSingleChoice, Value: `{"selected":"No"}`,
				ResolvedNextStep: stepPtr(models.EndSurvey()), SubmittedAt: submittedAt.Add(time.Minute)},
			{QuestionID: 1, Kind: models.QuestionKindText, Value: `{"text":"Alice"}`,
				ResolvedNextStep: stepPtr(models.MustGoToQuestion(2)), SubmittedAt: submittedAt},
		},
	}
	service := NewExportService(surveyRepo, responseRepo)

	data, err := service.ExportResponsesCSV(1)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{
		"response_id", "respondent_id", "question_id", "question_text",
		"answer", "resolved_next_step", "submitted_at",
	}, records[0])

	assert.Equal(t, []string{
		"1", "resp_a", "1", "What is your name?",
		"Alice", "go to question 2", "2026-08-01T10:00:00Z",
	}, records[1])

	assert.Equal(t, []string{
		"1", "resp_a", "2", "Would you recommend us?",
		"No", "end of survey", "2026-08-01T10:01:00Z",
	}, records[2])
}

func TestExportResponsesCSVEmptySurvey(t *testing.T) {
	surveyRepo := &fakeSurveyRepo{surveys: map[int64]*models.Survey{1: branchingSurvey()}}
	responseRepo := &fakeResponseRepo{responses: make(map[int64]*models.Response)}
	service := NewExportService(surveyRepo, responseRepo)

	data, err := service.ExportResponsesCSV(1)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 1, "header only")
}

func TestExportResponsesCSVUnknownSurvey(t *testing.T) {
	service := NewExportService(
		&fakeSurveyRepo{surveys: make(map[int64]*models.Survey)},
		&fakeResponseRepo{responses: make(map[int64]*models.Response)},
	)
	_, err := service.ExportResponsesCSV(404)
	assert.ErrorIs(t, err, models.ErrSurveyNotFound)
}
