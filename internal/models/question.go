package models

import (
	"time"

	"gorm.io/datatypes"
)

type DifficultyTier string

const (
	TierEasy   DifficultyTier = "Easy"
	TierMedium DifficultyTier = "Medium"
	TierHard   DifficultyTier = "Hard"
)

type QuestionStatus string

const (
	QuestionDraft    QuestionStatus = "draft"
	QuestionApproved QuestionStatus = "approved"
	QuestionRejected QuestionStatus = "rejected"
)

type QuestionSourceKind string

const (
	SourceBank      QuestionSourceKind = "bank"
	SourceGenerated QuestionSourceKind = "ai_v1"
	SourceOffline   QuestionSourceKind = "offline_fallback"
)

// Choice is one of the four labeled options of a multiple-choice item.
type Choice struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

// Question is immutable once issued to a module.
type Question struct {
	ID         string         `json:"id" gorm:"primaryKey;size:64"`
	SkillID    string         `json:"skill_id" gorm:"not null;size:32;index" validate:"required"`
	Difficulty DifficultyTier `json:"difficulty" gorm:"not null;size:10;index" validate:"required,difficulty_tier"`

	Stimulus     string `json:"stimulus" gorm:"type:text;not null" validate:"required"`
	Explanation  string `json:"explanation" gorm:"type:text"`
	CorrectLabel string `json:"correct_label" gorm:"not null;size:1" validate:"required,oneof=A B C D"`
	Points       int    `json:"points" gorm:"default:1" validate:"min=1"`

	// Exactly four entries, labels A-D in order.
	Choices datatypes.JSONType[[]Choice] `json:"choices" gorm:"type:jsonb"`

	Status QuestionStatus     `json:"status" gorm:"default:approved;size:16;index"`
	Source QuestionSourceKind `json:"source" gorm:"default:bank;size:20"`
	SeedID *string            `json:"seed_id,omitempty" gorm:"size:64"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Skill *Skill `json:"skill,omitempty" gorm:"foreignKey:SkillID"`
}

// ChoiceTexts returns the option texts in label order.
func (q *Question) ChoiceTexts() []string {
	choices := q.Choices.Data()
	texts := make([]string, len(choices))
	for i, c := range choices {
		texts[i] = c.Text
	}
	return texts
}

// PointsPossible returns the item's point value, defaulting to 1 for
// records created before scoring metadata existed.
func (q *Question) PointsPossible() int {
	if q.Points <= 0 {
		return 1
	}
	return q.Points
}

func (Question) TableName() string {
	return "questions"
}
