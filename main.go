package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/SpitiusK/SurveyBot-sub014/api"
	"github.com/SpitiusK/SurveyBot-sub014/config"
	"github.com/SpitiusK/SurveyBot-sub014/database"
	"github.com/SpitiusK/SurveyBot-sub014/middleware"
	"github.com/SpitiusK/SurveyBot-sub014/models"
	"github.com/SpitiusK/SurveyBot-sub014/repository"
	"github.com/SpitiusK/SurveyBot-sub014/services"

	"gorm.io/gorm"
)

func main() {
	config.LoadConfig()

	db, err := database.Init()
	if err != nil {
		log.Fatalf("FATAL: [Main] Failed to initialize database: %v", err)
	}
	runMigrations(db)

	// Repositories
	surveyRepo := repository.NewSurveyRepository(db)
	responseRepo := repository.NewResponseRepository(db)
	log.Println("INFO: [Main] Repositories initialized.")

	// Services
	surveyService := services.NewSurveyService(surveyRepo)
	responseService := services.NewResponseService(surveyRepo, responseRepo)
	statsService := services.NewStatsService(surveyRepo, responseRepo)
	exportService := services.NewExportService(surveyRepo, responseRepo)
	log.Println("INFO: [Main] Services initialized.")

	apiHandler := api.NewAPIHandler(surveyService, responseService, statsService, exportService)

	r := gin.Default()
	r.SetTrustedProxies(nil)
	r.Use(middleware.Logger())
	r.Use(middleware.Cors())

	registerRoutes(r, apiHandler)
	log.Println("INFO: [Main] Routes registered.")

	serverPort := ":" + config.AppConfig.Server.Port
	log.Printf("INFO: [Main] Starting server on port %s", serverPort)
	if err := r.Run(serverPort); err != nil {
		log.Fatalf("FATAL: [Main] Server failed to start: %v", err)
	}
}

func runMigrations(db *gorm.DB) {
	log.Println("INFO: [Main] Running database migrations...")
	err := db.AutoMigrate(
		&models.Survey{},
		&models.Question{},
		&models.Option{},
		&models.Response{},
		&models.Answer{},
	)
	if err != nil {
		log.Fatalf("FATAL: [Main] Failed to auto-migrate database: %v", err)
	}
	log.Println("INFO: [Main] Database migration completed.")
}

func registerRoutes(r *gin.Engine, handler *api.APIHandler) {
	apiGroup := r.Group("/api")
	{
		surveyGroup := apiGroup.Group("/surveys")
		{
			surveyGroup.POST("", handler.CreateSurveyHandler)
			surveyGroup.GET("", handler.ListSurveysHandler)
			surveyGroup.GET("/:surveyID", handler.GetSurveyHandler)
			surveyGroup.POST("/:surveyID/questions", handler.AddQuestionHandler)
			surveyGroup.GET("/:surveyID/validate", handler.ValidateSurveyHandler)
			surveyGroup.POST("/:surveyID/publish", handler.PublishSurveyHandler)
			surveyGroup.POST("/:surveyID/close", handler.CloseSurveyHandler)
			surveyGroup.GET("/:surveyID/stats", handler.SurveyStatsHandler)
			surveyGroup.GET("/:surveyID/export", handler.ExportSurveyCSVHandler)
		}

		responseGroup := apiGroup.Group("/responses")
		{
			responseGroup.POST("", handler.StartResponseHandler)
			responseGroup.POST("/:responseID/answers", handler.SubmitAnswerHandler)
			responseGroup.POST("/:responseID/visited", handler.RecordVisitedHandler)
			responseGroup.GET("/:responseID/next", handler.NextQuestionHandler)
			responseGroup.POST("/:responseID/complete", handler.CompleteResponseHandler)
		}
	}
}
