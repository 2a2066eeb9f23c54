package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/SAP-F-2025/diagnostic-service/internal/models"
	"github.com/SAP-F-2025/diagnostic-service/internal/repositories"
	"gorm.io/gorm"
)

type SessionPostgreSQL struct {
	db *gorm.DB
}

func NewSessionPostgreSQL(db *gorm.DB) repositories.SessionRepository {
	return &SessionPostgreSQL{db: db}
}

// Create creates a new diagnostic session row for a student
func (s *SessionPostgreSQL) Create(ctx context.Context, session *models.DiagnosticSession) error {
	if err := s.db.WithContext(ctx).Create(session).Error; err != nil {
		return fmt.Errorf("failed to create diagnostic session: %w", err)
	}
	return nil
}

// GetByStudentID retrieves the single session owned by a student
func (s *SessionPostgreSQL) GetByStudentID(ctx context.Context, studentID string) (*models.DiagnosticSession, error) {
	var session models.DiagnosticSession
	err := s.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// Save persists the full session state
func (s *SessionPostgreSQL) Save(ctx context.Context, session *models.DiagnosticSession) error {
	err := s.db.WithContext(ctx).
		Model(&models.DiagnosticSession{}).
		Where("student_id = ?", session.StudentID).
		Select("*").
		Omit("student_id", "created_at").
		Updates(session).Error
	if err != nil {
		return fmt.Errorf("failed to save diagnostic session: %w", err)
	}
	return nil
}

// SaveIfStatus persists the session only while the stored status still
// matches expected. A zero-row update means another writer finalized the
// module first and the caller's result must be discarded.
func (s *SessionPostgreSQL) SaveIfStatus(ctx context.Context, session *models.DiagnosticSession, expected models.SessionStatus) error {
	result := s.db.WithContext(ctx).
		Model(&models.DiagnosticSession{}).
		Where("student_id = ? AND status = ?", session.StudentID, expected).
		Select("*").
		Omit("student_id", "created_at").
		Updates(session)
	if result.Error != nil {
		return fmt.Errorf("failed to save diagnostic session: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrStaleWrite
	}
	return nil
}

// ListExpired returns sessions whose active module timer has elapsed,
// oldest expiry first. Used by the timeout sweeper.
func (s *SessionPostgreSQL) ListExpired(ctx context.Context, now time.Time, limit int) ([]*models.DiagnosticSession, error) {
	var sessions []*models.DiagnosticSession
	query := s.db.WithContext(ctx).
		Where("status IN ? AND module_expires_at IS NOT NULL AND module_expires_at <= ?",
			[]models.SessionStatus{models.StatusRoutingInProgress, models.StatusStage2InProgress}, now).
		Order("module_expires_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("failed to list expired sessions: %w", err)
	}
	return sessions, nil
}

func (s *SessionPostgreSQL) CountByStatus(ctx context.Context, status models.SessionStatus) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.DiagnosticSession{}).
		Where("status = ?", status).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}
	return count, nil
}
