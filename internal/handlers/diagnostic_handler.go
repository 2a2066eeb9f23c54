package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/diagnostic-service/internal/services"
	"github.com/SAP-F-2025/diagnostic-service/internal/utils"
)

type DiagnosticHandler struct {
	BaseHandler
	diagnosticService services.DiagnosticService
}

func NewDiagnosticHandler(
	diagnosticService services.DiagnosticService,
	logger utils.Logger,
) *DiagnosticHandler {
	return &DiagnosticHandler{
		BaseHandler:       NewBaseHandler(logger),
		diagnosticService: diagnosticService,
	}
}

// GetSession returns the student's diagnostic session state
// @Summary Get diagnostic session
// @Description Returns the current status, active module and remaining time
// @Tags diagnostic
// @Produce json
// @Success 200 {object} services.SessionResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /diagnostic/session [get]
func (h *DiagnosticHandler) GetSession(c *gin.Context) {
	studentID, ok := h.StudentID(c)
	if !ok {
		return
	}

	session, err := h.diagnosticService.GetSession(c.Request.Context(), studentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// StartModule enters or resumes the next pending module
// @Summary Start or resume a module
// @Description Enters Routing on a fresh session, the routed Stage-2 module after routing; resuming never resets the timer
// @Tags diagnostic
// @Produce json
// @Success 200 {object} services.ModuleResponse
// @Failure 401 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /diagnostic/modules/start [post]
func (h *DiagnosticHandler) StartModule(c *gin.Context) {
	studentID, ok := h.StudentID(c)
	if !ok {
		return
	}
	h.LogRequest(c, "Starting diagnostic module")

	module, err := h.diagnosticService.StartModule(c.Request.Context(), studentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, module)
}

// SaveAnswer scores and stores one answer in the active module
// @Summary Save an answer
// @Description Upserts the response for one question; saves are accepted until the module is finalized
// @Tags diagnostic
// @Accept json
// @Produce json
// @Param answer body services.SaveAnswerRequest true "Answer data"
// @Success 200 {object} services.SaveAnswerResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /diagnostic/modules/answers [post]
func (h *DiagnosticHandler) SaveAnswer(c *gin.Context) {
	studentID, ok := h.StudentID(c)
	if !ok {
		return
	}

	var req services.SaveAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	resp, err := h.diagnosticService.SaveAnswer(c.Request.Context(), studentID, &req)
	if err != nil {
		if errors.Is(err, services.ErrModuleNotActive) || errors.Is(err, services.ErrQuestionNotInModule) {
			c.JSON(http.StatusConflict, ErrorResponse{
				Message: "Answer rejected",
				Details: err.Error(),
			})
			return
		}
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SubmitModule finalizes the active module
// @Summary Submit the active module
// @Description Finalizes the module; unanswered questions require acknowledge_unanswered, an expired timer downgrades the submit to a timeout
// @Tags diagnostic
// @Accept json
// @Produce json
// @Param submit body services.SubmitModuleRequest false "Submit options"
// @Success 200 {object} services.ModuleResult
// @Failure 401 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /diagnostic/modules/submit [post]
func (h *DiagnosticHandler) SubmitModule(c *gin.Context) {
	studentID, ok := h.StudentID(c)
	if !ok {
		return
	}
	h.LogRequest(c, "Submitting diagnostic module")

	var req services.SubmitModuleRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Message: "Invalid request payload",
				Details: err.Error(),
			})
			return
		}
	}

	result, err := h.diagnosticService.SubmitModule(c.Request.Context(), studentID, &req)
	if err != nil {
		// The confirmation round-trip: the client re-submits with
		// acknowledge_unanswered after showing the warning.
		if errors.Is(err, services.ErrUnansweredNotAcked) {
			c.JSON(http.StatusConflict, gin.H{
				"message":        "Module has unanswered questions",
				"unanswered_ids": result.UnansweredIDs,
			})
			return
		}
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetSummary returns the finalized diagnostic summary
// @Summary Get diagnostic summary
// @Description Returns routing stats, per-skill accuracy, seeded mastery and the practice plan of a completed session
// @Tags diagnostic
// @Produce json
// @Success 200 {object} services.SummaryResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /diagnostic/summary [get]
func (h *DiagnosticHandler) GetSummary(c *gin.Context) {
	studentID, ok := h.StudentID(c)
	if !ok {
		return
	}

	summary, err := h.diagnosticService.GetSummary(c.Request.Context(), studentID)
	if err != nil {
		if errors.Is(err, services.ErrNoDiagnostic) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Message: "Diagnostic not completed",
				Details: err.Error(),
			})
			return
		}
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// MarkSummarySeen records that the student viewed the summary
// @Summary Mark summary as seen
// @Tags diagnostic
// @Produce json
// @Success 200 {object} SuccessResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /diagnostic/summary/seen [post]
func (h *DiagnosticHandler) MarkSummarySeen(c *gin.Context) {
	studentID, ok := h.StudentID(c)
	if !ok {
		return
	}

	if err := h.diagnosticService.MarkSummarySeen(c.Request.Context(), studentID); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Summary marked as seen"})
}
