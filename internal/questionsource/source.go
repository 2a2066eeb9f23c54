// Package questionsource provides the two Question Source variants the
// engine is agnostic between: a deterministic bank backed by the
// question repository and a generative Gemini-backed source. Both return
// the same fixed-shape four-choice question.
package questionsource

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/diagnostic-service/internal/models"
	"gorm.io/datatypes"
)

// Source serves one question for a skill at a difficulty tier.
type Source interface {
	Question(ctx context.Context, skillID string, tier models.DifficultyTier) (*models.Question, error)
}

// BatterySource additionally serves the fixed, ordered battery of a
// diagnostic module.
type BatterySource interface {
	Source
	Battery(ctx context.Context, module models.ModuleName) ([]models.Question, error)
}

// offlineChoices is the fixed placeholder choice set served when every
// generation attempt fails. The question is visible and scorable so a
// source outage never blocks a module.
var offlineChoices = []models.Choice{
	{Label: "A", Text: "Retry"},
	{Label: "B", Text: "Skip"},
	{Label: "C", Text: "Error"},
	{Label: "D", Text: "Contact Support"},
}

// OfflineQuestion builds the sentinel fallback question for a skill and
// tier.
func OfflineQuestion(skillID string, tier models.DifficultyTier, cause error) *models.Question {
	stimulus := "(Offline Mode) This question could not be generated."
	if cause != nil {
		stimulus = fmt.Sprintf("(Offline Mode) Error: %v", cause)
	}
	return &models.Question{
		ID:           fmt.Sprintf("OFFLINE_%s_%s", skillID, tier),
		SkillID:      skillID,
		Difficulty:   tier,
		Stimulus:     stimulus,
		CorrectLabel: "A",
		Points:       1,
		Explanation:  "Please try again.",
		Choices:      datatypes.NewJSONType(offlineChoices),
		Status:       models.QuestionApproved,
		Source:       models.SourceOffline,
	}
}
