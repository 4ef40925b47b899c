package repository

import (
	"errors"
	"fmt"
	"log"

	"github.com/SpitiusK/SurveyBot-sub014/models"

	"gorm.io/gorm"
)

// SurveyRepository defines the interface for interacting with survey,
// question and option data. Not-found lookups return (nil, nil); callers
// translate that into their own typed errors.
type SurveyRepository interface {
	CreateSurvey(survey *models.Survey) error
	GetSurveyByID(surveyID int64) (*models.Survey, error)
	ListSurveys() ([]*models.Survey, error)
	UpdateSurvey(survey *models.Survey) error
	DeleteSurvey(surveyID int64) error
	CreateQuestion(question *models.Question) error
	UpdateQuestion(question *models.Question) error
	DeleteQuestion(questionID int64) error
}

type surveyRepository struct {
	db *gorm.DB
}

// NewSurveyRepository creates a new instance of SurveyRepository.
func NewSurveyRepository(db *gorm.DB) SurveyRepository {
	return &surveyRepository{db: db}
}

// CreateSurvey creates a new survey, including any questions and options
// attached to the struct.
func (r *surveyRepository) CreateSurvey(survey *models.Survey) error {
	if survey == nil {
		return errors.New("survey cannot be nil")
	}
	if err := r.db.Create(survey).Error; err != nil {
		log.Printf("ERROR: [SurveyRepository] Failed to create survey '%s': %v", survey.Title, err)
		return fmt.Errorf("failed to create survey: %w", err)
	}
	log.Printf("INFO: [SurveyRepository] Created survey ID %d with %d questions.", survey.ID, len(survey.Questions))
	return nil
}

// GetSurveyByID retrieves a survey with its questions and options, questions
// ordered by order index and options ordered within each question.
func (r *surveyRepository) GetSurveyByID(surveyID int64) (*models.Survey, error) {
	var survey models.Survey
	err := r.db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.order_index asc")
		}).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("options.order_index asc")
		}).
		First(&survey, surveyID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("ERROR: [SurveyRepository] Failed to retrieve survey ID %d: %v", surveyID, err)
		return nil, fmt.Errorf("failed to retrieve survey ID %d: %w", surveyID, err)
	}
	return &survey, nil
}

// ListSurveys retrieves all surveys without their question graphs.
func (r *surveyRepository) ListSurveys() ([]*models.Survey, error) {
	var surveys []*models.Survey
	if err := r.db.Order("created_at desc").Find(&surveys).Error; err != nil {
		log.Printf("ERROR: [SurveyRepository] Failed to list surveys: %v", err)
		return nil, fmt.Errorf("failed to list surveys: %w", err)
	}
	return surveys, nil
}

// UpdateSurvey updates an existing survey row. Associated questions are not
// touched; use the question-level operations for graph edits.
func (r *surveyRepository) UpdateSurvey(survey *models.Survey) error {
	if survey == nil {
		return errors.New("survey cannot be nil")
	}
	if survey.ID == 0 {
		return errors.New("survey ID must be provided for update")
	}
	if err := r.db.Omit("Questions").Save(survey).Error; err != nil {
		log.Printf("ERROR: [SurveyRepository] Failed to update survey ID %d: %v", survey.ID, err)
		return fmt.Errorf("failed to update survey ID %d: %w", survey.ID, err)
	}
	log.Printf("INFO: [SurveyRepository] Updated survey ID %d (status: %s).", survey.ID, survey.Status)
	return nil
}

// DeleteSurvey permanently deletes a survey and, via the cascade
// constraints, its questions and options.
func (r *surveyRepository) DeleteSurvey(surveyID int64) error {
	if err := r.db.Delete(&models.Survey{}, surveyID).Error; err != nil {
		log.Printf("ERROR: [SurveyRepository] Failed to delete survey ID %d: %v", surveyID, err)
		return fmt.Errorf("failed to delete survey ID %d: %w", surveyID, err)
	}
	log.Printf("INFO: [SurveyRepository] Deleted survey ID %d.", surveyID)
	return nil
}

// CreateQuestion creates a new question, including attached options.
func (r *surveyRepository) CreateQuestion(question *models.Question) error {
	if question == nil {
		return errors.New("question cannot be nil")
	}
	if question.SurveyID == 0 {
		return errors.New("question must be associated with a survey")
	}
	if err := r.db.Create(question).Error; err != nil {
		log.Printf("ERROR: [SurveyRepository] Failed to create question for survey ID %d: %v", question.SurveyID, err)
		return fmt.Errorf("failed to create question for survey ID %d: %w", question.SurveyID, err)
	}
	log.Printf("INFO: [SurveyRepository] Created question ID %d (order %d) for survey ID %d.", question.ID, question.OrderIndex, question.SurveyID)
	return nil
}

// UpdateQuestion updates an existing question and its options.
func (r *surveyRepository) UpdateQuestion(question *models.Question) error {
	if question == nil {
		return errors.New("question cannot be nil")
	}
	if question.ID == 0 {
		return errors.New("question ID must be provided for update")
	}
	err := r.db.Session(&gorm.Session{FullSaveAssociations: true}).Save(question).Error
	if err != nil {
		log.Printf("ERROR: [SurveyRepository] Failed to update question ID %d: %v", question.ID, err)
		return fmt.Errorf("failed to update question ID %d: %w", question.ID, err)
	}
	return nil
}

// DeleteQuestion permanently deletes a question and its options.
func (r *surveyRepository) DeleteQuestion(questionID int64) error {
	if err := r.db.Delete(&models.Question{}, questionID).Error; err != nil {
		log.Printf("ERROR: [SurveyRepository] Failed to delete question ID %d: %v", questionID, err)
		return fmt.Errorf("failed to delete question ID %d: %w", questionID, err)
	}
	log.Printf("INFO: [SurveyRepository] Deleted question ID %d.", questionID)
	return nil
}
