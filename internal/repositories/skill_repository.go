package repositories

import (
	"context"

	"github.com/SAP-F-2025/diagnostic-service/internal/models"
)

// SkillRepository interface for the skill taxonomy
type SkillRepository interface {
	List(ctx context.Context) ([]*models.Skill, error)
	GetByID(ctx context.Context, id string) (*models.Skill, error)
	ListByDomain(ctx context.Context, domainID string) ([]*models.Skill, error)
	ListDomains(ctx context.Context) ([]*models.Domain, error)

	// SeedTaxonomy upserts the built-in domain/skill tree. Safe to run at
	// every startup.
	SeedTaxonomy(ctx context.Context, domains []*models.Domain) error
}
