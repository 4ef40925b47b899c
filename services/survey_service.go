package services

import (
	"fmt"
	"log"

	"github.com/SpitiusK/SurveyBot-sub014/models"
	"github.com/SpitiusK/SurveyBot-sub014/repository"
)

// SurveyService manages the survey lifecycle: building the question graph
// in draft, validating it, and publishing. Publication is the gate that
// keeps invalid graphs (cycles, dangling references) away from
// respondents.
type SurveyService interface {
	CreateSurvey(title string, allowMultipleResponses bool) (*models.Survey, error)
	GetSurvey(surveyID int64) (*models.Survey, error)
	ListSurveys() ([]*models.Survey, error)
	AddQuestion(surveyID int64, question *models.Question) (*models.Question, error)
	ValidateSurveyFlow(surveyID int64) (*models.FlowValidationResult, error)
	PublishSurvey(surveyID int64) (*models.Survey, error)
	CloseSurvey(surveyID int64) (*models.Survey, error)
}

type surveyService struct {
	surveyRepo repository.SurveyRepository
}

// NewSurveyService creates a new instance of SurveyService.
func NewSurveyService(surveyRepo repository.SurveyRepository) SurveyService {
	return &surveyService{surveyRepo: surveyRepo}
}

// CreateSurvey creates a new draft survey.
func (s *surveyService) CreateSurvey(title string, allowMultipleResponses bool) (*models.Survey, error) {
	if title == "" {
		return nil, fmt.Errorf("%w: survey title cannot be empty", models.ErrSurveyOperation)
	}
	survey := &models.Survey{
		Title:                  title,
		Status:                 models.SurveyStatusDraft,
		AllowMultipleResponses: allowMultipleResponses,
	}
	if err := s.surveyRepo.CreateSurvey(survey); err != nil {
		return nil, err
	}
	log.Printf("INFO: [SurveyService] Created draft survey %d ('%s').", survey.ID, survey.Title)
	return survey, nil
}

// GetSurvey retrieves a survey with its full question graph.
func (s *surveyService) GetSurvey(surveyID int64) (*models.Survey, error) {
	survey, err := s.surveyRepo.GetSurveyByID(surveyID)
	if err != nil {
		return nil, err
	}
	if survey == nil {
		return nil, fmt.Errorf("%w: id %d", models.ErrSurveyNotFound, surveyID)
	}
	return survey, nil
}

// ListSurveys retrieves all surveys without their question graphs.
func (s *surveyService) ListSurveys() ([]*models.Survey, error) {
	return s.surveyRepo.ListSurveys()
}

// AddQuestion appends a question to a draft survey, enforcing the
// structural invariants: order indices unique per survey, option order
// indices dense and zero-based, options only on kinds that carry them.
func (s *surveyService) AddQuestion(surveyID int64, question *models.Question) (*models.Question, error) {
	survey, err := s.GetSurvey(surveyID)
	if err != nil {
		return nil, err
	}
	if survey.Status != models.SurveyStatusDraft {
		return nil, fmt.Errorf("%w: survey %d is %s; questions can only be added to drafts", models.ErrSurveyOperation, surveyID, survey.Status)
	}
	if question == nil {
		return nil, fmt.Errorf("%w: question cannot be nil", models.ErrSurveyOperation)
	}
	for i := range survey.Questions {
		if survey.Questions[i].OrderIndex == question.OrderIndex {
			return nil, fmt.Errorf("%w: order index %d is already used by question %d", models.ErrSurveyOperation, question.OrderIndex, survey.Questions[i].ID)
		}
	}
	if len(question.Options) > 0 && !question.Kind.HasOptions() {
		return nil, fmt.Errorf("%w: %s questions do not carry options", models.ErrSurveyOperation, question.Kind)
	}
	seen := make(map[int]bool, len(question.Options))
	for i := range question.Options {
		idx := question.Options[i].OrderIndex
		if idx < 0 || idx >= len(question.Options) || seen[idx] {
			return nil, fmt.Errorf("%w: option order indices must be dense and zero-based", models.ErrSurveyOperation)
		}
		seen[idx] = true
	}

	question.SurveyID = surveyID
	if err := s.surveyRepo.CreateQuestion(question); err != nil {
		return nil, err
	}
	return question, nil
}

// ValidateSurveyFlow runs the static flow analysis over the survey's
// question graph and returns the structured result.
func (s *surveyService) ValidateSurveyFlow(surveyID int64) (*models.FlowValidationResult, error) {
	survey, err := s.GetSurvey(surveyID)
	if err != nil {
		return nil, err
	}
	result := ValidateSurveyFlow(survey)
	if !result.Valid {
		log.Printf("WARN: [SurveyService] Survey %d failed flow validation: %v", surveyID, result.Errors)
	}
	return &result, nil
}

// PublishSurvey validates the question graph and, if it is sound,
// activates the survey. An invalid graph refuses publication.
func (s *surveyService) PublishSurvey(surveyID int64) (*models.Survey, error) {
	survey, err := s.GetSurvey(surveyID)
	if err != nil {
		return nil, err
	}
	if survey.Status == models.SurveyStatusActive {
		return survey, nil
	}
	result := ValidateSurveyFlow(survey)
	if !result.Valid {
		return nil, fmt.Errorf("%w: survey %d failed flow validation: %v", models.ErrSurveyOperation, surveyID, result.Errors)
	}
	survey.Status = models.SurveyStatusActive
	if err := s.surveyRepo.UpdateSurvey(survey); err != nil {
		return nil, err
	}
	log.Printf("INFO: [SurveyService] Published survey %d ('%s').", survey.ID, survey.Title)
	return survey, nil
}

// CloseSurvey stops a survey from accepting new responses.
func (s *surveyService) CloseSurvey(surveyID int64) (*models.Survey, error) {
	survey, err := s.GetSurvey(surveyID)
	if err != nil {
		return nil, err
	}
	if survey.Status == models.SurveyStatusClosed {
		return survey, nil
	}
	survey.Status = models.SurveyStatusClosed
	if err := s.surveyRepo.UpdateSurvey(survey); err != nil {
		return nil, err
	}
	log.Printf("INFO: [SurveyService] Closed survey %d ('%s').", survey.ID, survey.Title)
	return survey, nil
}
