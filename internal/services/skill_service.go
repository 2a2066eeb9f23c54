package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/diagnostic-service/internal/cache"
	"github.com/SAP-F-2025/diagnostic-service/internal/models"
	"github.com/SAP-F-2025/diagnostic-service/internal/questionsource"
	"github.com/SAP-F-2025/diagnostic-service/internal/repositories"
)

const (
	skillDomainsCacheKey = "skills:domains"
	skillCacheTTL        = time.Hour
)

type skillService struct {
	repo   repositories.Repository
	cache  cache.CacheService
	logger *slog.Logger
}

func NewSkillService(repo repositories.Repository, cacheService cache.CacheService, logger *slog.Logger) SkillService {
	return &skillService{
		repo:   repo,
		cache:  cacheService,
		logger: logger,
	}
}

// ListDomains returns the full domain/skill taxonomy. The taxonomy only
// changes on reseed, so it is served from cache when one is configured.
func (s *skillService) ListDomains(ctx context.Context) ([]*models.Domain, error) {
	if s.cache != nil {
		var cached []*models.Domain
		err := s.cache.Get(ctx, skillDomainsCacheKey, &cached)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn("Failed to read taxonomy cache", "error", err)
		}
	}

	domains, err := s.repo.Skill().ListDomains(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list domains: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, skillDomainsCacheKey, domains, skillCacheTTL); err != nil {
			s.logger.Warn("Failed to cache taxonomy", "error", err)
		}
	}
	return domains, nil
}

func (s *skillService) GetSkill(ctx context.Context, skillID string) (*models.Skill, error) {
	skill, err := s.repo.Skill().GetByID(ctx, skillID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSkillNotFound
		}
		return nil, fmt.Errorf("failed to get skill %s: %w", skillID, err)
	}
	return skill, nil
}

// SeedTaxonomy upserts the built-in taxonomy and invalidates the cached
// domain list.
func (s *skillService) SeedTaxonomy(ctx context.Context) error {
	if err := s.repo.Skill().SeedTaxonomy(ctx, questionsource.SeedTaxonomy()); err != nil {
		return fmt.Errorf("failed to seed taxonomy: %w", err)
	}
	if s.cache != nil {
		if err := s.cache.Delete(ctx, skillDomainsCacheKey); err != nil {
			s.logger.Warn("Failed to invalidate taxonomy cache", "error", err)
		}
	}
	s.logger.Info("Skill taxonomy seeded")
	return nil
}
