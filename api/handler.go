package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/SpitiusK/SurveyBot-sub014/config"
	"github.com/SpitiusK/SurveyBot-sub014/models"
	"github.com/SpitiusK/SurveyBot-sub014/services"
	"github.com/SpitiusK/SurveyBot-sub014/utils"

	"github.com/gin-gonic/gin"
)

// APIHandler holds all dependencies for API handlers.
type APIHandler struct {
	surveyService   services.SurveyService
	responseService services.ResponseService
	statsService    services.StatsService
	exportService   services.ExportService
}

// NewAPIHandler creates a new APIHandler with necessary dependencies.
func NewAPIHandler(
	surveyService services.SurveyService,
	responseService services.ResponseService,
	statsService services.StatsService,
	exportService services.ExportService,
) *APIHandler {
	return &APIHandler{
		surveyService:   surveyService,
		responseService: responseService,
		statsService:    statsService,
		exportService:   exportService,
	}
}

// handleServiceError maps the typed service failures onto HTTP statuses.
func handleServiceError(c *gin.Context, err error) {
	var formatErr *models.AnswerFormatError
	switch {
	case errors.Is(err, models.ErrSurveyNotFound), errors.Is(err, models.ErrResponseNotFound):
		utils.SendJSONError(c, http.StatusNotFound, err.Error(), err)
	case errors.Is(err, models.ErrDuplicateResponse):
		utils.SendJSONError(c, http.StatusConflict, err.Error(), err)
	case errors.As(err, &formatErr):
		utils.SendJSONError(c, http.StatusBadRequest, formatErr.Reason, err)
	case errors.Is(err, models.ErrSurveyOperation), errors.Is(err, models.ErrInvalidDeterminant):
		utils.SendJSONError(c, http.StatusBadRequest, err.Error(), err)
	default:
		utils.SendJSONError(c, http.StatusInternalServerError, "", err)
	}
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		utils.SendJSONError(c, http.StatusBadRequest, "invalid "+name, err)
		return 0, false
	}
	return id, true
}

// --- Survey management ---

type createSurveyRequest struct {
	Title                  string `json:"title" binding:"required"`
	AllowMultipleResponses *bool  `json:"allow_multiple_responses"`
}

// CreateSurveyHandler creates a new draft survey.
func (h *APIHandler) CreateSurveyHandler(c *gin.Context) {
	var req createSurveyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}
	allowMultiple := config.AppConfig.Survey.AllowMultipleResponses
	if req.AllowMultipleResponses != nil {
		allowMultiple = *req.AllowMultipleResponses
	}
	survey, err := h.surveyService.CreateSurvey(req.Title, allowMultiple)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, survey)
}

// ListSurveysHandler lists all surveys without their question graphs.
func (h *APIHandler) ListSurveysHandler(c *gin.Context) {
	surveys, err := h.surveyService.ListSurveys()
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, surveys)
}

// GetSurveyHandler returns a survey with its full question graph.
func (h *APIHandler) GetSurveyHandler(c *gin.Context) {
	surveyID, ok := pathID(c, "surveyID")
	if !ok {
		return
	}
	survey, err := h.surveyService.GetSurvey(surveyID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, survey)
}

// AddQuestionHandler appends a question (with options) to a draft survey.
func (h *APIHandler) AddQuestionHandler(c *gin.Context) {
	surveyID, ok := pathID(c, "surveyID")
	if !ok {
		return
	}
	var question models.Question
	if err := c.ShouldBindJSON(&question); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "invalid question body", err)
		return
	}
	created, err := h.surveyService.AddQuestion(surveyID, &question)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// ValidateSurveyHandler runs the flow validator and returns its structured
// result; an invalid graph is still a 200 with valid=false.
func (h *APIHandler) ValidateSurveyHandler(c *gin.Context) {
	surveyID, ok := pathID(c, "surveyID")
	if !ok {
		return
	}
	result, err := h.surveyService.ValidateSurveyFlow(surveyID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// PublishSurveyHandler validates and activates a survey.
func (h *APIHandler) PublishSurveyHandler(c *gin.Context) {
	surveyID, ok := pathID(c, "surveyID")
	if !ok {
		return
	}
	survey, err := h.surveyService.PublishSurvey(surveyID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, survey)
}

// CloseSurveyHandler stops a survey from accepting responses.
func (h *APIHandler) CloseSurveyHandler(c *gin.Context) {
	surveyID, ok := pathID(c, "surveyID")
	if !ok {
		return
	}
	survey, err := h.surveyService.CloseSurvey(surveyID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, survey)
}

// --- Response flow ---

type startResponseRequest struct {
	SurveyID     int64  `json:"survey_id" binding:"required"`
	RespondentID string `json:"respondent_id"`
}

// StartResponseHandler starts a new response. Respondents arriving without
// an identifier get a generated one back in the payload.
func (h *APIHandler) StartResponseHandler(c *gin.Context) {
	var req startResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.RespondentID == "" {
		req.RespondentID = utils.GenerateRespondentID()
	}
	response, err := h.responseService.StartResponse(req.SurveyID, req.RespondentID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response)
}

type submitAnswerRequest struct {
	QuestionID int64           `json:"question_id" binding:"required"`
	Value      json.RawMessage `json:"value" binding:"required"`
}

// SubmitAnswerHandler validates and stores an answer, then marks the
// question visited and returns the resolved next question (null when the
// flow has ended) so the channel adapter can drive the conversation from a
// single round trip.
func (h *APIHandler) SubmitAnswerHandler(c *gin.Context) {
	responseID, ok := pathID(c, "responseID")
	if !ok {
		return
	}
	var req submitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}
	answer, err := h.responseService.SubmitAnswer(responseID, req.QuestionID, req.Value)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	if err := h.responseService.RecordVisited(responseID, req.QuestionID); err != nil {
		handleServiceError(c, err)
		return
	}
	next, err := h.responseService.GetNextQuestion(responseID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"answer":        answer,
		"next_question": next,
		"end_of_survey": next == nil,
	})
}

type recordVisitedRequest struct {
	QuestionID int64 `json:"question_id" binding:"required"`
}

// RecordVisitedHandler adds a question to the response's visited set.
func (h *APIHandler) RecordVisitedHandler(c *gin.Context) {
	responseID, ok := pathID(c, "responseID")
	if !ok {
		return
	}
	var req recordVisitedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if err := h.responseService.RecordVisited(responseID, req.QuestionID); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// NextQuestionHandler resolves the next question for a response.
func (h *APIHandler) NextQuestionHandler(c *gin.Context) {
	responseID, ok := pathID(c, "responseID")
	if !ok {
		return
	}
	next, err := h.responseService.GetNextQuestion(responseID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"next_question": next,
		"end_of_survey": next == nil,
	})
}

// CompleteResponseHandler marks a response complete.
func (h *APIHandler) CompleteResponseHandler(c *gin.Context) {
	responseID, ok := pathID(c, "responseID")
	if !ok {
		return
	}
	response, err := h.responseService.CompleteResponse(responseID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

// --- Statistics and export ---

// SurveyStatsHandler returns aggregated statistics for a survey.
func (h *APIHandler) SurveyStatsHandler(c *gin.Context) {
	surveyID, ok := pathID(c, "surveyID")
	if !ok {
		return
	}
	stats, err := h.statsService.GenerateSurveyStats(surveyID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ExportSurveyCSVHandler streams the survey's answers as CSV.
func (h *APIHandler) ExportSurveyCSVHandler(c *gin.Context) {
	surveyID, ok := pathID(c, "surveyID")
	if !ok {
		return
	}
	data, err := h.exportService.ExportResponsesCSV(surveyID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=survey_"+strconv.FormatInt(surveyID, 10)+"_responses.csv")
	c.Data(http.StatusOK, "text/csv", data)
}
