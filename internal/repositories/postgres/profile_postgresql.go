package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SAP-F-2025/diagnostic-service/internal/models"
	"github.com/SAP-F-2025/diagnostic-service/internal/repositories"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProfilePostgreSQL struct {
	db *gorm.DB
}

func NewProfilePostgreSQL(db *gorm.DB) repositories.ProfileRepository {
	return &ProfilePostgreSQL{db: db}
}

func (p *ProfilePostgreSQL) GetByStudentID(ctx context.Context, studentID string) (*models.StudentProfile, error) {
	var profile models.StudentProfile
	err := p.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetOrCreate returns the existing profile or inserts an empty one. The
// insert ignores conflicts so concurrent first reads are safe.
func (p *ProfilePostgreSQL) GetOrCreate(ctx context.Context, studentID string) (*models.StudentProfile, error) {
	profile, err := p.GetByStudentID(ctx, studentID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to get student profile: %w", err)
	}

	fresh := &models.StudentProfile{
		StudentID:    studentID,
		SkillMastery: datatypes.JSONMap{},
	}
	err = p.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(fresh).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create student profile: %w", err)
	}
	return p.GetByStudentID(ctx, studentID)
}

// MergeDiagnosticResults writes the seeded mastery map and diagnostic flags
// in one transaction. Unrelated columns are never listed in the update.
func (p *ProfilePostgreSQL) MergeDiagnosticResults(ctx context.Context, studentID string, mastery map[string]int, dailySkillID string, at time.Time) error {
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var profile models.StudentProfile
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("student_id = ?", studentID).
			First(&profile).Error
		if err != nil {
			return fmt.Errorf("failed to load profile for merge: %w", err)
		}

		merged := profile.SkillMastery
		if merged == nil {
			merged = datatypes.JSONMap{}
		}
		for skillID, percent := range mastery {
			merged[skillID] = percent
		}

		updates := map[string]interface{}{
			"skill_mastery":        merged,
			"daily_skill_id":       dailySkillID,
			"has_taken_diagnostic": true,
			"last_diagnostic_at":   at,
			"updated_at":           at,
		}
		err = tx.Model(&models.StudentProfile{}).
			Where("student_id = ?", studentID).
			Updates(updates).Error
		if err != nil {
			return fmt.Errorf("failed to merge diagnostic results: %w", err)
		}
		return nil
	})
}

// SetSkillMastery replaces one key of the mastery JSONB map via jsonb_set,
// leaving every other skill's value alone.
func (p *ProfilePostgreSQL) SetSkillMastery(ctx context.Context, studentID string, skillID string, percent int, practicedAt time.Time) error {
	result := p.db.WithContext(ctx).
		Model(&models.StudentProfile{}).
		Where("student_id = ?", studentID).
		Updates(map[string]interface{}{
			"skill_mastery":     datatypes.JSONSet("skill_mastery").Set("{"+skillID+"}", percent),
			"last_practiced_at": practicedAt,
			"updated_at":        practicedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to set skill mastery: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (p *ProfilePostgreSQL) MarkSummarySeen(ctx context.Context, studentID string) error {
	result := p.db.WithContext(ctx).
		Model(&models.StudentProfile{}).
		Where("student_id = ?", studentID).
		Update("summary_seen", true)
	if result.Error != nil {
		return fmt.Errorf("failed to mark summary seen: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
