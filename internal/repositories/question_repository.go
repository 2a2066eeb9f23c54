package repositories

import (
	"context"

	"github.com/SAP-F-2025/diagnostic-service/internal/models"
)

// QuestionRepository interface for question bank operations
type QuestionRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, question *models.Question) error
	CreateBatch(ctx context.Context, questions []*models.Question) error
	GetByID(ctx context.Context, id string) (*models.Question, error)
	GetByIDs(ctx context.Context, ids []string) ([]*models.Question, error)
	Update(ctx context.Context, question *models.Question) error
	Delete(ctx context.Context, id string) error

	// Query operations
	List(ctx context.Context, filters QuestionFilters) ([]*models.Question, int64, error)
	GetRandom(ctx context.Context, skillID string, difficulty models.DifficultyTier, status models.QuestionStatus) (*models.Question, error)

	// Status management
	UpdateStatus(ctx context.Context, id string, status models.QuestionStatus) error
	CountBySkill(ctx context.Context, skillID string, status models.QuestionStatus) (int64, error)
}
