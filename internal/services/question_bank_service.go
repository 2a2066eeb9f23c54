package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/diagnostic-service/internal/models"
	"github.com/SAP-F-2025/diagnostic-service/internal/questionsource"
	"github.com/SAP-F-2025/diagnostic-service/internal/repositories"
	"github.com/SAP-F-2025/diagnostic-service/internal/utils"
)

// DraftGenerator produces review-workflow drafts. Satisfied by the
// Gemini source.
type DraftGenerator interface {
	GenerateDraft(ctx context.Context, skillID string, tier models.DifficultyTier) (*models.Question, error)
}

type questionBankService struct {
	repo              repositories.Repository
	generator         DraftGenerator
	logger            *slog.Logger
	validator         *utils.Validator
	questionValidator *utils.QuestionValidator
}

func NewQuestionBankService(
	repo repositories.Repository,
	generator DraftGenerator,
	logger *slog.Logger,
	validator *utils.Validator,
) QuestionBankService {
	return &questionBankService{
		repo:              repo,
		generator:         generator,
		logger:            logger,
		validator:         validator,
		questionValidator: utils.NewQuestionValidator(),
	}
}

// GenerateDrafts produces a batch of draft questions for review. Drafts
// that fail generation or structural validation are skipped, not fatal;
// the caller gets whatever survived.
func (s *questionBankService) GenerateDrafts(ctx context.Context, req *GenerateDraftRequest) ([]*models.Question, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, err)
	}
	if _, err := s.repo.Skill().GetByID(ctx, req.SkillID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSkillNotFound
		}
		return nil, fmt.Errorf("failed to load skill: %w", err)
	}

	drafts := make([]*models.Question, 0, req.Count)
	for i := 0; i < req.Count; i++ {
		draft, err := s.generator.GenerateDraft(ctx, req.SkillID, req.Difficulty)
		if err != nil {
			s.logger.Warn("Draft generation failed",
				"skill_id", req.SkillID,
				"difficulty", req.Difficulty,
				"error", err)
			continue
		}
		if err := s.questionValidator.Validate(draft); err != nil {
			s.logger.Warn("Generated draft failed validation",
				"question_id", draft.ID,
				"error", err)
			continue
		}
		drafts = append(drafts, draft)
	}

	if len(drafts) == 0 {
		return nil, fmt.Errorf("%w: no usable drafts generated", ErrInternalError)
	}
	if err := s.repo.Question().CreateBatch(ctx, drafts); err != nil {
		return nil, fmt.Errorf("failed to store drafts: %w", err)
	}

	s.logger.Info("Question drafts generated",
		"skill_id", req.SkillID,
		"difficulty", req.Difficulty,
		"requested", req.Count,
		"stored", len(drafts))
	return drafts, nil
}

func (s *questionBankService) List(ctx context.Context, filters repositories.QuestionFilters) (*QuestionListResponse, error) {
	if filters.Limit <= 0 || filters.Limit > 100 {
		filters.Limit = 50
	}

	questions, total, err := s.repo.Question().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	return &QuestionListResponse{
		Questions: questions,
		Total:     total,
		Limit:     filters.Limit,
		Offset:    filters.Offset,
	}, nil
}

// Review approves or rejects one draft. Only drafts can be reviewed;
// approved questions become servable to students.
func (s *questionBankService) Review(ctx context.Context, questionID string, approve bool) (*models.Question, error) {
	question, err := s.repo.Question().GetByID(ctx, questionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to load question: %w", err)
	}
	if question.Status != models.QuestionDraft {
		return nil, ErrQuestionNotDraft
	}

	status := models.QuestionRejected
	if approve {
		status = models.QuestionApproved
	}
	if err := s.repo.Question().UpdateStatus(ctx, questionID, status); err != nil {
		return nil, fmt.Errorf("failed to update question status: %w", err)
	}
	question.Status = status

	s.logger.Info("Question reviewed",
		"question_id", questionID,
		"status", status)
	return question, nil
}

// Delete removes a question unless it belongs to a fixed battery.
func (s *questionBankService) Delete(ctx context.Context, questionID string) error {
	for _, module := range []models.ModuleName{
		models.ModuleRouting, models.ModuleStage2Easy,
		models.ModuleStage2Medium, models.ModuleStage2Hard,
	} {
		for _, id := range questionsource.BatteryOrder(module) {
			if id == questionID {
				return NewBusinessRuleError("battery_question_immutable",
					fmt.Sprintf("question %s belongs to the %s battery and cannot be deleted", questionID, module))
			}
		}
	}

	if err := s.repo.Question().Delete(ctx, questionID); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrQuestionNotFound
		}
		return fmt.Errorf("failed to delete question: %w", err)
	}
	return nil
}

var _ DraftGenerator = (*questionsource.Gemini)(nil)
