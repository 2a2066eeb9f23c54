package postgres

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/diagnostic-service/internal/models"
	"github.com/SAP-F-2025/diagnostic-service/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SkillPostgreSQL struct {
	db *gorm.DB
}

func NewSkillPostgreSQL(db *gorm.DB) repositories.SkillRepository {
	return &SkillPostgreSQL{db: db}
}

func (s *SkillPostgreSQL) List(ctx context.Context) ([]*models.Skill, error) {
	var skills []*models.Skill
	err := s.db.WithContext(ctx).
		Order("domain_id ASC, id ASC").
		Find(&skills).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list skills: %w", err)
	}
	return skills, nil
}

func (s *SkillPostgreSQL) GetByID(ctx context.Context, id string) (*models.Skill, error) {
	var skill models.Skill
	err := s.db.WithContext(ctx).
		Where("id = ?", id).
		First(&skill).Error
	if err != nil {
		return nil, err
	}
	return &skill, nil
}

func (s *SkillPostgreSQL) ListByDomain(ctx context.Context, domainID string) ([]*models.Skill, error) {
	var skills []*models.Skill
	err := s.db.WithContext(ctx).
		Where("domain_id = ?", domainID).
		Order("id ASC").
		Find(&skills).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list skills by domain: %w", err)
	}
	return skills, nil
}

func (s *SkillPostgreSQL) ListDomains(ctx context.Context) ([]*models.Domain, error) {
	var domains []*models.Domain
	err := s.db.WithContext(ctx).
		Preload("Skills").
		Order("id ASC").
		Find(&domains).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list domains: %w", err)
	}
	return domains, nil
}

// SeedTaxonomy upserts the built-in domain and skill rows. Existing rows
// get their names refreshed, unknown rows are left alone.
func (s *SkillPostgreSQL) SeedTaxonomy(ctx context.Context, domains []*models.Domain) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, domain := range domains {
			row := models.Domain{ID: domain.ID, Name: domain.Name, Weight: domain.Weight}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns([]string{"name", "weight"}),
			}).Create(&row).Error
			if err != nil {
				return fmt.Errorf("failed to seed domain %s: %w", domain.ID, err)
			}

			for _, skill := range domain.Skills {
				skillRow := models.Skill{ID: skill.ID, Name: skill.Name, DomainID: domain.ID}
				err := tx.Clauses(clause.OnConflict{
					Columns:   []clause.Column{{Name: "id"}},
					DoUpdates: clause.AssignmentColumns([]string{"name", "domain_id"}),
				}).Create(&skillRow).Error
				if err != nil {
					return fmt.Errorf("failed to seed skill %s: %w", skill.ID, err)
				}
			}
		}
		return nil
	})
}
