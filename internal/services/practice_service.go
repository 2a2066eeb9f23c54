package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/diagnostic-service/internal/engine"
	"github.com/SAP-F-2025/diagnostic-service/internal/events"
	"github.com/SAP-F-2025/diagnostic-service/internal/models"
	"github.com/SAP-F-2025/diagnostic-service/internal/questionsource"
	"github.com/SAP-F-2025/diagnostic-service/internal/repositories"
	"github.com/SAP-F-2025/diagnostic-service/internal/utils"
)

// Generator produces one question for a skill at a tier. Satisfied by the
// Gemini source; tests substitute their own.
type Generator interface {
	Question(ctx context.Context, skillID string, tier models.DifficultyTier) (*models.Question, error)
}

type practiceService struct {
	repo      repositories.Repository
	generator Generator
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *utils.Validator
	now       func() time.Time
}

func NewPracticeService(
	repo repositories.Repository,
	generator Generator,
	publisher events.EventPublisher,
	logger *slog.Logger,
	validator *utils.Validator,
) PracticeService {
	return &practiceService{
		repo:      repo,
		generator: generator,
		publisher: publisher,
		logger:    logger,
		validator: validator,
		now:       time.Now,
	}
}

// NextQuestion serves one practice question for a skill, generated at a
// tier matching the student's current mastery. Generated questions are
// persisted so the answer can be scored server-side later.
func (s *practiceService) NextQuestion(ctx context.Context, studentID, skillID string) (*QuestionView, error) {
	if skillID == "" {
		return nil, fmt.Errorf("%w: skill id is required", ErrValidationFailed)
	}
	if _, err := s.repo.Skill().GetByID(ctx, skillID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSkillNotFound
		}
		return nil, fmt.Errorf("failed to load skill: %w", err)
	}

	profile, err := s.repo.Profile().GetOrCreate(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	tier := tierForMastery(profile.MasteryPercent(skillID))

	question, err := s.generator.Question(ctx, skillID, tier)
	if err != nil {
		return nil, fmt.Errorf("failed to generate question: %w", err)
	}

	// Offline sentinels are synthetic and never stored; everything else
	// must be retrievable at submit time.
	if question.Source != models.SourceOffline {
		if err := s.repo.Question().Create(ctx, question); err != nil {
			return nil, fmt.Errorf("failed to store generated question: %w", err)
		}
	}

	return &QuestionView{
		ID:         question.ID,
		SkillID:    question.SkillID,
		Difficulty: question.Difficulty,
		Stimulus:   question.Stimulus,
		Choices:    question.Choices.Data(),
	}, nil
}

// SubmitAnswer scores one practice answer and applies the continuous
// mastery update. The write is optimistic: the new mastery is persisted
// and reported without waiting for downstream consumers.
func (s *practiceService) SubmitAnswer(ctx context.Context, studentID string, req *PracticeAnswerRequest) (*PracticeResult, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, err)
	}

	question, err := s.repo.Question().GetByID(ctx, req.QuestionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to load question: %w", err)
	}

	profile, err := s.repo.Profile().GetOrCreate(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	isCorrect := req.SelectedLabel == question.CorrectLabel
	current := profile.MasteryPercent(question.SkillID)
	update := engine.PracticeDelta(current, question.SkillID, question.Difficulty, isCorrect,
		time.Duration(req.TimeTakenMs)*time.Millisecond)

	// Optimistic: the computed mastery is what the student sees even when
	// the write fails; the failure is reported, never rolled back.
	var persistenceWarning string
	now := s.now()
	if update.Delta != 0 {
		if err := s.repo.Profile().SetSkillMastery(ctx, studentID, question.SkillID, update.NewMastery, now); err != nil {
			s.logger.Error("Failed to persist mastery update",
				"student_id", studentID,
				"skill_id", question.SkillID,
				"mastery", update.NewMastery,
				"error", err)
			persistenceWarning = "mastery update could not be saved"
		}
	}

	s.logger.Info("Practice answer scored",
		"student_id", studentID,
		"skill_id", question.SkillID,
		"correct", isCorrect,
		"slow", update.IsSlow,
		"delta", update.Delta,
		"mastery", update.NewMastery)

	event := events.NewMasteryUpdatedEvent(studentID, question.SkillID, question.Difficulty,
		isCorrect, update.IsSlow, update.Delta, update.NewMastery, now)
	if err := s.publisher.PublishDiagnosticEvent(ctx, event); err != nil {
		s.logger.Error("Failed to publish mastery update",
			"student_id", studentID,
			"error", err)
	}

	return &PracticeResult{
		QuestionID:   question.ID,
		SkillID:      question.SkillID,
		IsCorrect:    isCorrect,
		IsSlow:       update.IsSlow,
		CorrectLabel: question.CorrectLabel,
		Explanation:  question.Explanation,
		Delta:        update.Delta,
		NewMastery:   update.NewMastery,
		Difficulty:   question.Difficulty,

		PersistenceWarning: persistenceWarning,
	}, nil
}

// MasteryOverview lists every skill with the student's current mastery,
// flagging the daily recommendation.
func (s *practiceService) MasteryOverview(ctx context.Context, studentID string) ([]SkillMasteryView, error) {
	profile, err := s.repo.Profile().GetByStudentID(ctx, studentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	domains, err := s.repo.Skill().ListDomains(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load taxonomy: %w", err)
	}

	var out []SkillMasteryView
	for _, domain := range domains {
		for _, skill := range domain.Skills {
			out = append(out, SkillMasteryView{
				SkillID:    skill.ID,
				SkillName:  skill.Name,
				DomainID:   domain.ID,
				DomainName: domain.Name,
				Mastery:    profile.MasteryPercent(skill.ID),
				IsDaily:    profile.DailySkillID != nil && *profile.DailySkillID == skill.ID,
			})
		}
	}
	return out, nil
}

// DailySkill derives today's priority skill: lowest current mastery,
// ties broken by the higher blueprint domain weight, then by taxonomy
// order.
func (s *practiceService) DailySkill(ctx context.Context, studentID string) (*DailySkillView, error) {
	profile, err := s.repo.Profile().GetByStudentID(ctx, studentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	domains, err := s.repo.Skill().ListDomains(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load taxonomy: %w", err)
	}

	var pick *DailySkillView
	var pickWeight float64
	for _, domain := range domains {
		for _, skill := range domain.Skills {
			mastery := profile.MasteryPercent(skill.ID)
			if pick != nil {
				if mastery > pick.Mastery {
					continue
				}
				if mastery == pick.Mastery && domain.Weight <= pickWeight {
					continue
				}
			}
			pick = &DailySkillView{
				SkillID:    skill.ID,
				SkillName:  skill.Name,
				DomainID:   domain.ID,
				DomainName: domain.Name,
				Mastery:    mastery,
			}
			pickWeight = domain.Weight
		}
	}
	if pick == nil {
		return nil, ErrSkillNotFound
	}
	return pick, nil
}

// tierForMastery picks the generation tier from current mastery: weak
// skills practice easier items, strong skills harder ones.
func tierForMastery(mastery int) models.DifficultyTier {
	switch {
	case mastery < 40:
		return models.TierEasy
	case mastery < 75:
		return models.TierMedium
	default:
		return models.TierHard
	}
}

// Gemini satisfies Generator.
var _ Generator = (*questionsource.Gemini)(nil)
