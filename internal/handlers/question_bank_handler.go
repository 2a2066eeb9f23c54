package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/diagnostic-service/internal/models"
	"github.com/SAP-F-2025/diagnostic-service/internal/repositories"
	"github.com/SAP-F-2025/diagnostic-service/internal/services"
	"github.com/SAP-F-2025/diagnostic-service/internal/utils"
)

type QuestionBankHandler struct {
	BaseHandler
	questionBankService services.QuestionBankService
}

func NewQuestionBankHandler(
	questionBankService services.QuestionBankService,
	logger utils.Logger,
) *QuestionBankHandler {
	return &QuestionBankHandler{
		BaseHandler:         NewBaseHandler(logger),
		questionBankService: questionBankService,
	}
}

// GenerateDrafts produces a batch of draft questions for review
// @Summary Generate question drafts
// @Description Generates drafts for one skill and tier; drafts that fail validation are skipped
// @Tags questions
// @Accept json
// @Produce json
// @Param request body services.GenerateDraftRequest true "Generation parameters"
// @Success 201 {array} models.Question
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /questions/drafts [post]
func (h *QuestionBankHandler) GenerateDrafts(c *gin.Context) {
	var req services.GenerateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}
	h.LogRequest(c, "Generating question drafts",
		"skill_id", req.SkillID,
		"count", req.Count)

	drafts, err := h.questionBankService.GenerateDrafts(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, drafts)
}

// ListQuestions lists bank questions with filters
// @Summary List questions
// @Tags questions
// @Produce json
// @Param skill_id query string false "Filter by skill"
// @Param difficulty query string false "Filter by difficulty tier"
// @Param status query string false "Filter by review status"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} services.QuestionListResponse
// @Router /questions [get]
func (h *QuestionBankHandler) ListQuestions(c *gin.Context) {
	filters := repositories.QuestionFilters{
		SortBy:    c.DefaultQuery("sort_by", "created_at"),
		SortOrder: c.DefaultQuery("sort_order", "desc"),
	}
	if v := c.Query("skill_id"); v != "" {
		filters.SkillID = &v
	}
	if v := c.Query("difficulty"); v != "" {
		tier := models.DifficultyTier(v)
		filters.Difficulty = &tier
	}
	if v := c.Query("status"); v != "" {
		status := models.QuestionStatus(v)
		filters.Status = &status
	}
	if v := c.Query("source"); v != "" {
		source := models.QuestionSourceKind(v)
		filters.Source = &source
	}
	if v, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil {
		filters.Limit = v
	}
	if v, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil {
		filters.Offset = v
	}

	resp, err := h.questionBankService.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ReviewQuestion approves or rejects a draft
// @Summary Review a draft question
// @Tags questions
// @Accept json
// @Produce json
// @Param id path string true "Question ID"
// @Param review body services.ReviewQuestionRequest true "Review decision"
// @Success 200 {object} models.Question
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /questions/{id}/review [post]
func (h *QuestionBankHandler) ReviewQuestion(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	var req services.ReviewQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}
	h.LogRequest(c, "Reviewing question",
		"question_id", id,
		"approve", req.Approve)

	question, err := h.questionBankService.Review(c.Request.Context(), id, req.Approve)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, question)
}

// DeleteQuestion removes a non-battery question
// @Summary Delete a question
// @Tags questions
// @Produce json
// @Param id path string true "Question ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /questions/{id} [delete]
func (h *QuestionBankHandler) DeleteQuestion(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}
	h.LogRequest(c, "Deleting question", "question_id", id)

	if err := h.questionBankService.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Question deleted"})
}
