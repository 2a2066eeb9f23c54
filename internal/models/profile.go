package models

import (
	"time"

	"gorm.io/datatypes"
)

// StudentProfile is the long-lived per-student document. The per-skill
// mastery map is seeded at diagnostic finalization and nudged by every
// subsequent correct practice answer. Writes to this row are always
// partial merge updates so unrelated profile fields are never clobbered.
type StudentProfile struct {
	StudentID string `json:"student_id" gorm:"primaryKey;size:255"`

	// skillID -> integer percent 0-100.
	SkillMastery datatypes.JSONMap `json:"skill_mastery" gorm:"type:jsonb"`

	DailySkillID       *string    `json:"daily_skill_id" gorm:"size:32"`
	HasTakenDiagnostic bool       `json:"has_taken_diagnostic" gorm:"default:false"`
	SummarySeen        bool       `json:"summary_seen" gorm:"default:false"`
	LastDiagnosticAt   *time.Time `json:"last_diagnostic_at"`
	LastPracticedAt    *time.Time `json:"last_practiced_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MasteryPercent reads one skill's mastery, defaulting to 0 for skills
// the student has never been assessed on. JSONB numbers scan as float64.
func (p *StudentProfile) MasteryPercent(skillID string) int {
	if p.SkillMastery == nil {
		return 0
	}
	switch v := p.SkillMastery[skillID].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

func (StudentProfile) TableName() string {
	return "student_profiles"
}
