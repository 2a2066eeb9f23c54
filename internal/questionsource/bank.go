package questionsource

import (
	"context"
	"errors"
	"fmt"

	"github.com/SAP-F-2025/diagnostic-service/internal/models"
	"github.com/SAP-F-2025/diagnostic-service/internal/repositories"
	"github.com/SAP-F-2025/diagnostic-service/internal/utils"
)

var (
	ErrUnknownModule     = errors.New("unknown diagnostic module")
	ErrBatteryIncomplete = errors.New("battery has missing questions")
	ErrNoBankQuestion    = errors.New("no approved question for skill and tier")
)

// Bank serves questions from the persisted question bank. Batteries come
// out in their fixed slot order, single questions are drawn at random
// from the approved pool.
type Bank struct {
	questions repositories.QuestionRepository
	logger    utils.Logger
}

func NewBank(questions repositories.QuestionRepository, logger utils.Logger) *Bank {
	return &Bank{
		questions: questions,
		logger:    logger.With("component", "question_bank"),
	}
}

// Seed upserts the built-in batteries into the bank. Safe to run at every
// startup, existing rows are kept.
func (b *Bank) Seed(ctx context.Context) error {
	seeds := SeedQuestions()
	if err := b.questions.CreateBatch(ctx, seeds); err != nil {
		return fmt.Errorf("failed to seed question bank: %w", err)
	}
	b.logger.InfoContext(ctx, "question bank seeded", "count", len(seeds))
	return nil
}

// Question draws one approved bank question for the skill at the tier.
func (b *Bank) Question(ctx context.Context, skillID string, tier models.DifficultyTier) (*models.Question, error) {
	question, err := b.questions.GetRandom(ctx, skillID, tier, models.QuestionApproved)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, fmt.Errorf("%w: skill=%s tier=%s", ErrNoBankQuestion, skillID, tier)
		}
		return nil, fmt.Errorf("failed to draw bank question: %w", err)
	}
	return question, nil
}

// Battery returns the module's full question list in slot order.
func (b *Bank) Battery(ctx context.Context, module models.ModuleName) ([]models.Question, error) {
	ids := BatteryOrder(module)
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownModule, module)
	}

	rows, err := b.questions.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load battery %s: %w", module, err)
	}

	byID := make(map[string]*models.Question, len(rows))
	for _, q := range rows {
		byID[q.ID] = q
	}

	battery := make([]models.Question, 0, len(ids))
	for _, id := range ids {
		q, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: module=%s question=%s", ErrBatteryIncomplete, module, id)
		}
		battery = append(battery, *q)
	}
	return battery, nil
}
