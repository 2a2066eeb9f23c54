package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/SAP-F-2025/diagnostic-service/internal/models"
	"github.com/SAP-F-2025/diagnostic-service/internal/utils"
)

// MockDraftGenerator is a mock implementation of DraftGenerator
type MockDraftGenerator struct {
	mock.Mock
}

func (m *MockDraftGenerator) GenerateDraft(ctx context.Context, skillID string, tier models.DifficultyTier) (*models.Question, error) {
	args := m.Called(ctx, skillID, tier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Question), args.Error(1)
}

func newQuestionBankFixture(t *testing.T) (*questionBankService, *MockRepository, *MockDraftGenerator) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := NewMockRepository()
	generator := &MockDraftGenerator{}

	svc := &questionBankService{
		repo:              repo,
		generator:         generator,
		logger:            logger,
		validator:         utils.NewValidator(),
		questionValidator: utils.NewQuestionValidator(),
	}
	return svc, repo, generator
}

func draftQuestion(id string) *models.Question {
	return &models.Question{
		ID:           id,
		SkillID:      "M_ALG_LIN1",
		Difficulty:   models.TierMedium,
		Stimulus:     "stimulus",
		CorrectLabel: "A",
		Points:       1,
		Choices: datatypes.NewJSONType([]models.Choice{
			{Label: "A", Text: "1"}, {Label: "B", Text: "2"},
			{Label: "C", Text: "3"}, {Label: "D", Text: "4"},
		}),
		Status: models.QuestionDraft,
		Source: models.SourceGenerated,
	}
}

func TestGenerateDrafts_SkipsFailedOnes(t *testing.T) {
	svc, repo, generator := newQuestionBankFixture(t)
	ctx := context.Background()

	repo.SkillRepo.On("GetByID", ctx, "M_ALG_LIN1").Return(&models.Skill{ID: "M_ALG_LIN1"}, nil)

	// One good draft, one generation failure, one structurally broken
	// draft: only the good one is stored.
	broken := draftQuestion("AI_broken")
	broken.Choices = datatypes.NewJSONType([]models.Choice{{Label: "A", Text: "1"}})
	generator.On("GenerateDraft", ctx, "M_ALG_LIN1", models.TierMedium).Return(draftQuestion("AI_ok"), nil).Once()
	generator.On("GenerateDraft", ctx, "M_ALG_LIN1", models.TierMedium).Return(nil, assert.AnError).Once()
	generator.On("GenerateDraft", ctx, "M_ALG_LIN1", models.TierMedium).Return(broken, nil).Once()

	repo.QuestionRepo.On("CreateBatch", ctx, mock.MatchedBy(func(drafts []*models.Question) bool {
		return len(drafts) == 1 && drafts[0].ID == "AI_ok"
	})).Return(nil).Once()

	drafts, err := svc.GenerateDrafts(ctx, &GenerateDraftRequest{
		SkillID:    "M_ALG_LIN1",
		Difficulty: models.TierMedium,
		Count:      3,
	})

	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, "AI_ok", drafts[0].ID)
	repo.QuestionRepo.AssertExpectations(t)
}

func TestGenerateDrafts_AllFailed(t *testing.T) {
	svc, repo, generator := newQuestionBankFixture(t)
	ctx := context.Background()

	repo.SkillRepo.On("GetByID", ctx, "M_ALG_LIN1").Return(&models.Skill{ID: "M_ALG_LIN1"}, nil)
	generator.On("GenerateDraft", ctx, "M_ALG_LIN1", models.TierEasy).Return(nil, assert.AnError)

	_, err := svc.GenerateDrafts(ctx, &GenerateDraftRequest{
		SkillID:    "M_ALG_LIN1",
		Difficulty: models.TierEasy,
		Count:      2,
	})

	assert.ErrorIs(t, err, ErrInternalError)
	repo.QuestionRepo.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
}

func TestGenerateDrafts_ValidatesRequest(t *testing.T) {
	svc, _, _ := newQuestionBankFixture(t)

	_, err := svc.GenerateDrafts(context.Background(), &GenerateDraftRequest{
		SkillID:    "M_ALG_LIN1",
		Difficulty: "Impossible",
		Count:      1,
	})
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestReview_ApprovesDraft(t *testing.T) {
	svc, repo, _ := newQuestionBankFixture(t)
	ctx := context.Background()

	repo.QuestionRepo.On("GetByID", ctx, "AI_ok").Return(draftQuestion("AI_ok"), nil)
	repo.QuestionRepo.On("UpdateStatus", ctx, "AI_ok", models.QuestionApproved).Return(nil).Once()

	question, err := svc.Review(ctx, "AI_ok", true)

	require.NoError(t, err)
	assert.Equal(t, models.QuestionApproved, question.Status)
}

func TestReview_RejectsNonDraft(t *testing.T) {
	svc, repo, _ := newQuestionBankFixture(t)
	ctx := context.Background()

	approved := draftQuestion("AI_ok")
	approved.Status = models.QuestionApproved
	repo.QuestionRepo.On("GetByID", ctx, "AI_ok").Return(approved, nil)

	_, err := svc.Review(ctx, "AI_ok", false)
	assert.ErrorIs(t, err, ErrQuestionNotDraft)
}

func TestDelete_RefusesBatteryQuestions(t *testing.T) {
	svc, repo, _ := newQuestionBankFixture(t)

	err := svc.Delete(context.Background(), "MATH_ROUTING_Q1")

	assert.True(t, IsBusinessRule(err))
	repo.QuestionRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDelete_RemovesGeneratedQuestion(t *testing.T) {
	svc, repo, _ := newQuestionBankFixture(t)
	ctx := context.Background()

	repo.QuestionRepo.On("Delete", ctx, "AI_gone").Return(nil).Once()

	require.NoError(t, svc.Delete(ctx, "AI_gone"))
	repo.QuestionRepo.AssertExpectations(t)
}
