package utils

import (
	"fmt"

	"github.com/SAP-F-2025/diagnostic-service/internal/models"
)

// QuestionValidator handles structural validation for four-choice questions
type QuestionValidator struct{}

// NewQuestionValidator creates a new question validator
func NewQuestionValidator() *QuestionValidator {
	return &QuestionValidator{}
}

// Validate checks that a question is structurally servable: a stem, four
// uniquely labeled choices, and a correct label that points at one of them.
func (v *QuestionValidator) Validate(q *models.Question) error {
	if q == nil {
		return fmt.Errorf("question cannot be nil")
	}
	if q.Stimulus == "" {
		return fmt.Errorf("question %s has an empty stimulus", q.ID)
	}
	if q.SkillID == "" {
		return fmt.Errorf("question %s has no skill", q.ID)
	}

	choices := q.Choices.Data()
	if len(choices) != 4 {
		return fmt.Errorf("question %s has %d choices, want 4", q.ID, len(choices))
	}

	seen := make(map[string]bool, len(choices))
	correctFound := false
	for _, choice := range choices {
		if choice.Label == "" || choice.Text == "" {
			return fmt.Errorf("question %s has an incomplete choice", q.ID)
		}
		if seen[choice.Label] {
			return fmt.Errorf("question %s has duplicate choice label %s", q.ID, choice.Label)
		}
		seen[choice.Label] = true
		if choice.Label == q.CorrectLabel {
			correctFound = true
		}
	}
	if !correctFound {
		return fmt.Errorf("question %s correct label %s matches no choice", q.ID, q.CorrectLabel)
	}
	return nil
}
