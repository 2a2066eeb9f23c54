package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/diagnostic-service/internal/services"
	"github.com/SAP-F-2025/diagnostic-service/internal/utils"
)

type SkillHandler struct {
	BaseHandler
	skillService services.SkillService
}

func NewSkillHandler(
	skillService services.SkillService,
	logger utils.Logger,
) *SkillHandler {
	return &SkillHandler{
		BaseHandler:  NewBaseHandler(logger),
		skillService: skillService,
	}
}

// ListDomains returns the full skill taxonomy
// @Summary List skill domains
// @Tags skills
// @Produce json
// @Success 200 {array} models.Domain
// @Router /skills/domains [get]
func (h *SkillHandler) ListDomains(c *gin.Context) {
	domains, err := h.skillService.ListDomains(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, domains)
}

// GetSkill returns one skill
// @Summary Get skill
// @Tags skills
// @Produce json
// @Param id path string true "Skill ID"
// @Success 200 {object} models.Skill
// @Failure 404 {object} ErrorResponse
// @Router /skills/{id} [get]
func (h *SkillHandler) GetSkill(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	skill, err := h.skillService.GetSkill(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, skill)
}

// SeedTaxonomy upserts the built-in domain/skill tree
// @Summary Seed the skill taxonomy
// @Tags skills
// @Produce json
// @Success 200 {object} SuccessResponse
// @Router /skills/seed [post]
func (h *SkillHandler) SeedTaxonomy(c *gin.Context) {
	h.LogRequest(c, "Seeding skill taxonomy")

	if err := h.skillService.SeedTaxonomy(c.Request.Context()); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Taxonomy seeded"})
}
