package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/diagnostic-service/internal/services"
	"github.com/SAP-F-2025/diagnostic-service/internal/utils"
)

type PracticeHandler struct {
	BaseHandler
	practiceService services.PracticeService
}

func NewPracticeHandler(
	practiceService services.PracticeService,
	logger utils.Logger,
) *PracticeHandler {
	return &PracticeHandler{
		BaseHandler:     NewBaseHandler(logger),
		practiceService: practiceService,
	}
}

// NextQuestion serves one practice question for a skill
// @Summary Get next practice question
// @Description Generates a question at the tier matching the student's current mastery
// @Tags practice
// @Produce json
// @Param skill_id path string true "Skill ID"
// @Success 200 {object} services.QuestionView
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /practice/skills/{skill_id}/next [get]
func (h *PracticeHandler) NextQuestion(c *gin.Context) {
	studentID, ok := h.StudentID(c)
	if !ok {
		return
	}
	skillID := ParseStringIDParam(c, "skill_id")
	if skillID == "" {
		return
	}

	question, err := h.practiceService.NextQuestion(c.Request.Context(), studentID, skillID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, question)
}

// SubmitAnswer scores one practice answer and updates mastery
// @Summary Submit a practice answer
// @Description Applies the continuous mastery update and reveals the answer key
// @Tags practice
// @Accept json
// @Produce json
// @Param answer body services.PracticeAnswerRequest true "Answer data"
// @Success 200 {object} services.PracticeResult
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /practice/answers [post]
func (h *PracticeHandler) SubmitAnswer(c *gin.Context) {
	studentID, ok := h.StudentID(c)
	if !ok {
		return
	}

	var req services.PracticeAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	result, err := h.practiceService.SubmitAnswer(c.Request.Context(), studentID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// DailySkill returns today's priority skill
// @Summary Get the daily priority skill
// @Description Re-derives the lowest-mastery skill, ties broken by domain weight
// @Tags practice
// @Produce json
// @Success 200 {object} services.DailySkillView
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /practice/daily-skill [get]
func (h *PracticeHandler) DailySkill(c *gin.Context) {
	studentID, ok := h.StudentID(c)
	if !ok {
		return
	}

	view, err := h.practiceService.DailySkill(c.Request.Context(), studentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// MasteryOverview lists every skill with the student's mastery
// @Summary Get mastery overview
// @Tags practice
// @Produce json
// @Success 200 {array} services.SkillMasteryView
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /practice/mastery [get]
func (h *PracticeHandler) MasteryOverview(c *gin.Context) {
	studentID, ok := h.StudentID(c)
	if !ok {
		return
	}

	views, err := h.practiceService.MasteryOverview(c.Request.Context(), studentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}
