package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/SpitiusK/SurveyBot-sub014/models"
	"github.com/SpitiusK/SurveyBot-sub014/repository"
)

// ExportService renders collected responses as long-format CSV, one row
// per answer, with the answer's display string and the next-step
// determinant that was resolved at submission time.
type ExportService interface {
	ExportResponsesCSV(surveyID int64) ([]byte, error)
}

type exportService struct {
	surveyRepo   repository.SurveyRepository
	responseRepo repository.ResponseRepository
}

// NewExportService creates a new instance of ExportService.
func NewExportService(surveyRepo repository.SurveyRepository, responseRepo repository.ResponseRepository) ExportService {
	return &exportService{surveyRepo: surveyRepo, responseRepo: responseRepo}
}

var exportHeader = []string{
	"response_id", "respondent_id", "question_id", "question_text",
	"answer", "resolved_next_step", "submitted_at",
}

// ExportResponsesCSV renders every answer of every response of the survey.
// Rows follow response creation order and, within a response, the survey's
// question order.
func (s *exportService) ExportResponsesCSV(surveyID int64) ([]byte, error) {
	survey, err := s.surveyRepo.GetSurveyByID(surveyID)
	if err != nil {
		return nil, err
	}
	if survey == nil {
		return nil, fmt.Errorf("%w: id %d", models.ErrSurveyNotFound, surveyID)
	}
	responses, err := s.responseRepo.GetResponsesBySurveyID(surveyID)
	if err != nil {
		return nil, err
	}

	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write(exportHeader); err != nil {
		return nil, err
	}
	for _, response := range responses {
		for _, question := range survey.QuestionsInOrder() {
			answer := response.AnswerFor(question.ID)
			if answer == nil {
				continue
			}
			display := ""
			if value, decodeErr := answer.DecodedValue(); decodeErr == nil {
				display = value.DisplayString()
			}
			nextStep := ""
			if answer.ResolvedNextStep != nil {
				nextStep = answer.ResolvedNextStep.String()
			}
			record := []string{
				strconv.FormatInt(response.ID, 10),
				response.RespondentID,
				strconv.FormatInt(question.ID, 10),
				question.Text,
				display,
				nextStep,
				answer.SubmittedAt.UTC().Format(time.RFC3339),
			}
			if err := w.Write(record); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
