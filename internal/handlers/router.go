package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/diagnostic-service/internal/config"
	"github.com/SAP-F-2025/diagnostic-service/internal/services"
	"github.com/SAP-F-2025/diagnostic-service/internal/utils"
)

type HandlerManager struct {
	diagnosticHandler   *DiagnosticHandler
	practiceHandler     *PracticeHandler
	skillHandler        *SkillHandler
	questionBankHandler *QuestionBankHandler
	reportHandler       *ReportHandler
	cfg                 *config.Config
	logger              utils.Logger
}

func NewHandlerManager(
	serviceManager *services.ServiceManager,
	cfg *config.Config,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		diagnosticHandler:   NewDiagnosticHandler(serviceManager.Diagnostic, logger),
		practiceHandler:     NewPracticeHandler(serviceManager.Practice, logger),
		skillHandler:        NewSkillHandler(serviceManager.Skill, logger),
		questionBankHandler: NewQuestionBankHandler(serviceManager.QuestionBank, logger),
		reportHandler:       NewReportHandler(serviceManager.Report, logger),
		cfg:                 cfg,
		logger:              logger,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// Health check endpoint
	router.GET("/health", HealthCheck)

	auth := AuthMiddleware(hm.cfg, hm.logger)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Diagnostic session routes
		diagnostic := v1.Group("/diagnostic", auth)
		{
			diagnostic.GET("/session", hm.diagnosticHandler.GetSession)
			diagnostic.POST("/modules/start", hm.diagnosticHandler.StartModule)
			diagnostic.POST("/modules/answers", hm.diagnosticHandler.SaveAnswer)
			diagnostic.POST("/modules/submit", hm.diagnosticHandler.SubmitModule)
			diagnostic.GET("/summary", hm.diagnosticHandler.GetSummary)
			diagnostic.POST("/summary/seen", hm.diagnosticHandler.MarkSummarySeen)
		}

		// Continuous practice routes
		practice := v1.Group("/practice", auth)
		{
			practice.GET("/skills/:skill_id/next", hm.practiceHandler.NextQuestion)
			practice.POST("/answers", hm.practiceHandler.SubmitAnswer)
			practice.GET("/mastery", hm.practiceHandler.MasteryOverview)
			practice.GET("/daily-skill", hm.practiceHandler.DailySkill)
		}

		// Skill taxonomy routes
		skills := v1.Group("/skills")
		{
			skills.GET("/domains", hm.skillHandler.ListDomains)
			skills.GET("/:id", hm.skillHandler.GetSkill)
			skills.POST("/seed", hm.skillHandler.SeedTaxonomy)
		}

		// Question bank routes
		questions := v1.Group("/questions")
		{
			questions.POST("/drafts", hm.questionBankHandler.GenerateDrafts)
			questions.GET("", hm.questionBankHandler.ListQuestions)
			questions.POST("/:id/review", hm.questionBankHandler.ReviewQuestion)
			questions.DELETE("/:id", hm.questionBankHandler.DeleteQuestion)
		}

		// Report routes
		reports := v1.Group("/reports", auth)
		{
			reports.GET("/diagnostic", hm.reportHandler.ExportDiagnosticReport)
		}
	}
}

// HealthCheck returns the service health status
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "diagnostic-service",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
