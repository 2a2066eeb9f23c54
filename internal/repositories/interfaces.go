package repositories

import (
	"errors"

	"github.com/SAP-F-2025/diagnostic-service/internal/models"
	"gorm.io/gorm"
)

// Repository aggregates all data access for the service. Implementations
// live under repositories/postgres.
type Repository interface {
	Session() SessionRepository
	Profile() ProfileRepository
	Question() QuestionRepository
	Skill() SkillRepository
}

// ===== SHARED FILTER STRUCTS =====

type QuestionFilters struct {
	SkillID    *string                    `json:"skill_id"`
	Difficulty *models.DifficultyTier     `json:"difficulty"`
	Status     *models.QuestionStatus     `json:"status"`
	Source     *models.QuestionSourceKind `json:"source"`
	Limit      int                        `json:"limit"`
	Offset     int                        `json:"offset"`
	SortBy     string                     `json:"sort_by"`    // "created_at", "skill_id"
	SortOrder  string                     `json:"sort_order"` // "asc", "desc"
}

// ===== ERROR HELPERS =====

// ErrStaleWrite is returned by guarded writes when the stored row no
// longer matches the expected status (someone finalized first).
var ErrStaleWrite = errors.New("conditional write matched no rows")

// IsNotFoundError checks if error represents a record not found condition
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsStaleWriteError checks if error represents a lost guarded write
func IsStaleWriteError(err error) bool {
	return errors.Is(err, ErrStaleWrite)
}
