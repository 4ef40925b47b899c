package services

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/SpitiusK/SurveyBot-sub014/models"
	"github.com/SpitiusK/SurveyBot-sub014/repository"
)

// ResponseService drives a respondent through a survey's question graph:
// it owns the response lifecycle (in progress -> complete) and delegates
// "what comes next" to the flow resolution engine.
//
// Operations on the same response must be applied in the order the
// respondent produces them; the service holds no lock, so callers (e.g. a
// webhook dispatcher) serialize per response id. Different respondents'
// responses share no mutable state and can be processed in parallel.
type ResponseService interface {
	StartResponse(surveyID int64, respondentID string) (*models.Response, error)
	SubmitAnswer(responseID, questionID int64, rawValue json.RawMessage) (*models.Answer, error)
	RecordVisited(responseID, questionID int64) error
	GetNextQuestion(responseID int64) (*models.Question, error)
	CompleteResponse(responseID int64) (*models.Response, error)
}

type responseService struct {
	surveyRepo   repository.SurveyRepository
	responseRepo repository.ResponseRepository
	now          func() time.Time
}

// NewResponseService creates a new instance of ResponseService.
func NewResponseService(surveyRepo repository.SurveyRepository, responseRepo repository.ResponseRepository) ResponseService {
	return &responseService{
		surveyRepo:   surveyRepo,
		responseRepo: responseRepo,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// StartResponse creates a new in-progress response for the respondent.
// It fails with ErrSurveyNotFound for an unknown survey, ErrSurveyOperation
// for a survey that is not active, and ErrDuplicateResponse when the survey
// disallows multiple responses and the respondent already completed one.
func (s *responseService) StartResponse(surveyID int64, respondentID string) (*models.Response, error) {
	if respondentID == "" {
		return nil, fmt.Errorf("%w: respondent ID cannot be empty", models.ErrSurveyOperation)
	}
	survey, err := s.surveyRepo.GetSurveyByID(surveyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load survey %d: %w", surveyID, err)
	}
	if survey == nil {
		return nil, fmt.Errorf("%w: id %d", models.ErrSurveyNotFound, surveyID)
	}
	if survey.Status != models.SurveyStatusActive {
		return nil, fmt.Errorf("%w: survey %d is %s, not active", models.ErrSurveyOperation, surveyID, survey.Status)
	}
	if !survey.AllowMultipleResponses {
		completed, err := s.responseRepo.HasCompletedResponse(surveyID, respondentID)
		if err != nil {
			return nil, fmt.Errorf("failed to check prior responses for survey %d: %w", surveyID, err)
		}
		if completed {
			return nil, fmt.Errorf("%w: survey %d, respondent '%s'", models.ErrDuplicateResponse, surveyID, respondentID)
		}
	}

	response := &models.Response{
		SurveyID:     surveyID,
		RespondentID: respondentID,
		StartedAt:    s.now(),
		Visited:      make([]int64, 0),
		Answers:      make([]models.Answer, 0),
	}
	if err := s.responseRepo.CreateResponse(response); err != nil {
		return nil, fmt.Errorf("failed to create response for survey %d: %w", surveyID, err)
	}
	log.Printf("INFO: [ResponseService] Respondent '%s' started response %d for survey %d.", respondentID, response.ID, surveyID)
	return response, nil
}

// SubmitAnswer validates the raw payload against the question, resolves the
// next-step determinant for audit, and stores the answer, replacing any
// prior answer for the same question. It does not mark the question visited
// and does not advance the response; callers pair it with RecordVisited and
// GetNextQuestion.
func (s *responseService) SubmitAnswer(responseID, questionID int64, rawValue json.RawMessage) (*models.Answer, error) {
	response, survey, err := s.loadResponseAndSurvey(responseID)
	if err != nil {
		return nil, err
	}
	question := survey.QuestionByID(questionID)
	if question == nil {
		return nil, fmt.Errorf("question %d does not belong to survey %d", questionID, survey.ID)
	}

	value, err := models.ParseAnswerValue(question, rawValue)
	if err != nil {
		return nil, err
	}
	encoded, err := models.EncodeAnswerValue(value)
	if err != nil {
		return nil, err
	}

	resolved := ResolveNext(survey, question, value)

	submittedAt := s.now()
	answer := response.AnswerFor(questionID)
	if answer != nil {
		// Re-submission replaces the stored value in place; the visited
		// set is untouched and a complete response stays complete.
		answer.Kind = question.Kind
		answer.Value = encoded
		answer.ResolvedNextStep = &resolved
		answer.SubmittedAt = submittedAt
		log.Printf("INFO: [ResponseService] Replaced answer for question %d on response %d.", questionID, responseID)
	} else {
		response.Answers = append(response.Answers, models.Answer{
			ResponseID:       responseID,
			QuestionID:       questionID,
			Kind:             question.Kind,
			Value:            encoded,
			ResolvedNextStep: &resolved,
			SubmittedAt:      submittedAt,
		})
		answer = &response.Answers[len(response.Answers)-1]
	}

	if err := s.responseRepo.UpdateResponse(response); err != nil {
		return nil, fmt.Errorf("failed to save answer for response %d: %w", responseID, err)
	}
	log.Printf("INFO: [ResponseService] Response %d answered question %d (%s), resolved next step: %s.", responseID, questionID, question.Kind, resolved)
	return answer, nil
}

// RecordVisited idempotently adds the question id to the response's visited
// set; adding it twice is a no-op, not an error.
func (s *responseService) RecordVisited(responseID, questionID int64) error {
	response, err := s.loadResponse(responseID)
	if err != nil {
		return err
	}
	if !response.MarkVisited(questionID) {
		return nil
	}
	if err := s.responseRepo.UpdateResponse(response); err != nil {
		return fmt.Errorf("failed to record visit for response %d: %w", responseID, err)
	}
	return nil
}

// GetNextQuestion resolves the question that follows the most recently
// submitted answer. A nil question with a nil error means the survey flow
// has ended. Before any answer has been submitted the result is undefined
// by contract; this implementation returns the survey's first question by
// order index, which suits the conversational driver.
func (s *responseService) GetNextQuestion(responseID int64) (*models.Question, error) {
	response, survey, err := s.loadResponseAndSurvey(responseID)
	if err != nil {
		return nil, err
	}

	latest := response.LatestAnswer()
	if latest == nil {
		return survey.FirstQuestion(), nil
	}
	question := survey.QuestionByID(latest.QuestionID)
	if question == nil {
		return nil, fmt.Errorf("answered question %d no longer exists in survey %d", latest.QuestionID, survey.ID)
	}
	value, err := latest.DecodedValue()
	if err != nil {
		return nil, fmt.Errorf("failed to decode stored answer for question %d: %w", latest.QuestionID, err)
	}

	step := ResolveNext(survey, question, value)
	if step.IsEnd() {
		return nil, nil
	}
	nextID, _ := step.QuestionID()
	next := survey.QuestionByID(nextID)
	if next == nil {
		// Out of contract: the validator prevents dangling references at
		// publish time, so this indicates post-publication data corruption.
		log.Printf("ERROR: [ResponseService] Response %d resolved to nonexistent question %d in survey %d.", responseID, nextID, survey.ID)
		return nil, fmt.Errorf("resolved next question %d does not exist in survey %d", nextID, survey.ID)
	}
	return next, nil
}

// CompleteResponse marks the response complete. Only the first transition
// counts: calling it again neither fails nor moves the completion
// timestamp.
func (s *responseService) CompleteResponse(responseID int64) (*models.Response, error) {
	response, err := s.loadResponse(responseID)
	if err != nil {
		return nil, err
	}
	if response.IsComplete {
		return response, nil
	}
	completedAt := s.now()
	response.IsComplete = true
	response.CompletedAt = &completedAt
	if err := s.responseRepo.UpdateResponse(response); err != nil {
		return nil, fmt.Errorf("failed to complete response %d: %w", responseID, err)
	}
	log.Printf("INFO: [ResponseService] Response %d completed.", responseID)
	return response, nil
}

func (s *responseService) loadResponse(responseID int64) (*models.Response, error) {
	response, err := s.responseRepo.GetResponseByID(responseID)
	if err != nil {
		return nil, fmt.Errorf("failed to load response %d: %w", responseID, err)
	}
	if response == nil {
		return nil, fmt.Errorf("%w: id %d", models.ErrResponseNotFound, responseID)
	}
	return response, nil
}

func (s *responseService) loadResponseAndSurvey(responseID int64) (*models.Response, *models.Survey, error) {
	response, err := s.loadResponse(responseID)
	if err != nil {
		return nil, nil, err
	}
	survey, err := s.surveyRepo.GetSurveyByID(response.SurveyID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load survey %d: %w", response.SurveyID, err)
	}
	if survey == nil {
		return nil, nil, fmt.Errorf("%w: id %d", models.ErrSurveyNotFound, response.SurveyID)
	}
	return response, survey, nil
}
