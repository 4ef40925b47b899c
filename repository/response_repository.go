package repository

import (
	"errors"
	"fmt"
	"log"

	"github.com/SpitiusK/SurveyBot-sub014/models"

	"gorm.io/gorm"
)

// ResponseRepository defines the interface for interacting with response
// and answer data. Not-found lookups return (nil, nil).
type ResponseRepository interface {
	CreateResponse(response *models.Response) error
	GetResponseByID(responseID int64) (*models.Response, error)
	GetResponsesBySurveyID(surveyID int64) ([]*models.Response, error)
	UpdateResponse(response *models.Response) error
	HasCompletedResponse(surveyID int64, respondentID string) (bool, error)
}

type responseRepository struct {
	db *gorm.DB
}

// NewResponseRepository creates a new instance of ResponseRepository.
func NewResponseRepository(db *gorm.DB) ResponseRepository {
	return &responseRepository{db: db}
}

// CreateResponse creates a new response record.
func (r *responseRepository) CreateResponse(response *models.Response) error {
	if response == nil {
		return errors.New("response cannot be nil")
	}
	if response.RespondentID == "" {
		return errors.New("respondent ID cannot be empty")
	}
	if err := r.db.Create(response).Error; err != nil {
		log.Printf("ERROR: [ResponseRepository] Failed to create response for survey ID %d, respondent '%s': %v", response.SurveyID, response.RespondentID, err)
		return fmt.Errorf("failed to create response: %w", err)
	}
	log.Printf("INFO: [ResponseRepository] Created response ID %d for survey ID %d, respondent '%s'.", response.ID, response.SurveyID, response.RespondentID)
	return nil
}

// GetResponseByID retrieves a response with its answers.
func (r *responseRepository) GetResponseByID(responseID int64) (*models.Response, error) {
	var response models.Response
	err := r.db.Preload("Answers").First(&response, responseID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("ERROR: [ResponseRepository] Failed to retrieve response ID %d: %v", responseID, err)
		return nil, fmt.Errorf("failed to retrieve response ID %d: %w", responseID, err)
	}
	return &response, nil
}

// GetResponsesBySurveyID retrieves all responses for a survey with their
// answers, newest first.
func (r *responseRepository) GetResponsesBySurveyID(surveyID int64) ([]*models.Response, error) {
	var responses []*models.Response
	err := r.db.Preload("Answers").Where("survey_id = ?", surveyID).Order("created_at desc").Find(&responses).Error
	if err != nil {
		log.Printf("ERROR: [ResponseRepository] Failed to retrieve responses for survey ID %d: %v", surveyID, err)
		return nil, fmt.Errorf("failed to retrieve responses for survey ID %d: %w", surveyID, err)
	}
	return responses, nil
}

// UpdateResponse saves a response together with its answers. Replaced
// answers are saved in place through their primary keys.
func (r *responseRepository) UpdateResponse(response *models.Response) error {
	if response == nil {
		return errors.New("response cannot be nil")
	}
	if response.ID == 0 {
		return errors.New("response ID must be provided for update")
	}
	err := r.db.Session(&gorm.Session{FullSaveAssociations: true}).Save(response).Error
	if err != nil {
		log.Printf("ERROR: [ResponseRepository] Failed to update response ID %d: %v", response.ID, err)
		return fmt.Errorf("failed to update response ID %d: %w", response.ID, err)
	}
	return nil
}

// HasCompletedResponse reports whether the respondent already has a
// completed response for the survey. Used to enforce single-response
// surveys at start time.
func (r *responseRepository) HasCompletedResponse(surveyID int64, respondentID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Response{}).
		Where("survey_id = ? AND respondent_id = ? AND is_complete = ?", surveyID, respondentID, true).
		Count(&count).Error
	if err != nil {
		log.Printf("ERROR: [ResponseRepository] Failed to count completed responses for survey ID %d, respondent '%s': %v", surveyID, respondentID, err)
		return false, fmt.Errorf("failed to count completed responses: %w", err)
	}
	return count > 0, nil
}
