package repositories

import (
	"context"
	"time"

	"github.com/SAP-F-2025/diagnostic-service/internal/models"
)

// SessionRepository interface for diagnostic session operations
type SessionRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, session *models.DiagnosticSession) error
	GetByStudentID(ctx context.Context, studentID string) (*models.DiagnosticSession, error)
	Save(ctx context.Context, session *models.DiagnosticSession) error

	// SaveIfStatus persists the session only while the stored row still has
	// the expected status. Returns ErrStaleWrite when another writer won,
	// which callers treat as an already-finalized module.
	SaveIfStatus(ctx context.Context, session *models.DiagnosticSession, expected models.SessionStatus) error

	// Query operations
	ListExpired(ctx context.Context, now time.Time, limit int) ([]*models.DiagnosticSession, error)
	CountByStatus(ctx context.Context, status models.SessionStatus) (int64, error)
}
