package repositories

import (
	"context"
	"time"

	"github.com/SAP-F-2025/diagnostic-service/internal/models"
)

// ProfileRepository interface for student profile operations
type ProfileRepository interface {
	GetByStudentID(ctx context.Context, studentID string) (*models.StudentProfile, error)
	GetOrCreate(ctx context.Context, studentID string) (*models.StudentProfile, error)

	// MergeDiagnosticResults writes seeded mastery, the daily skill and the
	// diagnostic flags without touching unrelated profile columns.
	MergeDiagnosticResults(ctx context.Context, studentID string, mastery map[string]int, dailySkillID string, at time.Time) error

	// SetSkillMastery replaces a single key inside the mastery JSONB map.
	// Other skills' values are left untouched.
	SetSkillMastery(ctx context.Context, studentID string, skillID string, percent int, practicedAt time.Time) error

	MarkSummarySeen(ctx context.Context, studentID string) error
}
