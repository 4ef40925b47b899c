package services

import (
	"fmt"
	"log"
	"time"

	"github.com/SpitiusK/SurveyBot-sub014/models"
	"github.com/SpitiusK/SurveyBot-sub014/repository"
)

// StatsService aggregates collected responses into per-survey statistics
// for the dashboard: response counts, completion rate, option selection
// counts and rating averages.
type StatsService interface {
	GenerateSurveyStats(surveyID int64) (*models.SurveyStats, error)
}

type statsService struct {
	surveyRepo   repository.SurveyRepository
	responseRepo repository.ResponseRepository
	now          func() time.Time
}

// NewStatsService creates a new instance of StatsService.
func NewStatsService(surveyRepo repository.SurveyRepository, responseRepo repository.ResponseRepository) StatsService {
	return &statsService{
		surveyRepo:   surveyRepo,
		responseRepo: responseRepo,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// GenerateSurveyStats aggregates all responses of a survey. Stored answers
// that fail to decode are skipped with a warning rather than failing the
// whole report.
func (s *statsService) GenerateSurveyStats(surveyID int64) (*models.SurveyStats, error) {
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

	stats := &models.SurveyStats{
		SurveyID:       surveyID,
		Title:          survey.Title,
		TotalResponses: len(responses),
		GeneratedAt:    s.now(),
	}
	for _, response := range responses {
		if response.IsComplete {
			stats.CompletedResponses++
		}
	}
	if stats.TotalResponses > 0 {
		stats.CompletionRate = float64(stats.CompletedResponses) / float64(stats.TotalResponses)
	}

	for _, question := range survey.QuestionsInOrder() {
		qs := models.QuestionStats{
			QuestionID: question.ID,
			Text:       question.Text,
			Kind:       question.Kind,
		}
		if question.Kind == models.QuestionKindSingleChoice || question.Kind == models.QuestionKindMultipleChoice {
			qs.OptionCounts = make(map[string]int, len(question.Options))
			for _, text := range question.OptionTexts() {
				qs.OptionCounts[text] = 0
			}
		}

		ratingSum := 0
		ratingCount := 0
		for _, response := range responses {
			answer := response.AnswerFor(question.ID)
			if answer == nil {
				continue
			}
			value, err := answer.DecodedValue()
			if err != nil {
				log.Printf("WARN: [StatsService] Skipping undecodable answer %d (response %d, question %d): %v", answer.ID, response.ID, question.ID, err)
				continue
			}
			qs.AnswerCount++
			switch v := value.(type) {
			case models.SingleChoiceAnswer:
				qs.OptionCounts[v.Selected()]++
			case models.MultipleChoiceAnswer:
				for _, label := range v.Selected() {
					qs.OptionCounts[label]++
				}
			case models.RatingAnswer:
				ratingSum += v.Rating()
				ratingCount++
			}
		}
		if ratingCount > 0 {
			avg := float64(ratingSum) / float64(ratingCount)
			qs.AverageRating = &avg
		}
		stats.Questions = append(stats.Questions, qs)
	}

	log.Printf("INFO: [StatsService] Generated stats for survey %d: %d responses, %d complete.", surveyID, stats.TotalResponses, stats.CompletedResponses)
	return stats, nil
}
