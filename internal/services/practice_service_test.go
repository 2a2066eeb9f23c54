package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/diagnostic-service/internal/events"
	"github.com/SAP-F-2025/diagnostic-service/internal/models"
	"github.com/SAP-F-2025/diagnostic-service/internal/questionsource"
	"github.com/SAP-F-2025/diagnostic-service/internal/utils"
)

func newPracticeFixture(t *testing.T) (*practiceService, *MockRepository, *MockGenerator, *events.MockEventPublisher) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := NewMockRepository()
	generator := &MockGenerator{}
	publisher := events.NewMockEventPublisher(logger)

	svc := &practiceService{
		repo:      repo,
		generator: generator,
		publisher: publisher,
		logger:    logger,
		validator: utils.NewValidator(),
		now:       func() time.Time { return testClock },
	}
	return svc, repo, generator, publisher
}

func practiceQuestion(id, skillID string, tier models.DifficultyTier) *models.Question {
	return &models.Question{
		ID:           id,
		SkillID:      skillID,
		Difficulty:   tier,
		Stimulus:     "stimulus",
		CorrectLabel: "C",
		Explanation:  "because",
		Points:       1,
		Choices: datatypes.NewJSONType([]models.Choice{
			{Label: "A", Text: "1"}, {Label: "B", Text: "2"},
			{Label: "C", Text: "3"}, {Label: "D", Text: "4"},
		}),
		Status: models.QuestionApproved,
		Source: models.SourceGenerated,
	}
}

func TestNextQuestion_TierFollowsMastery(t *testing.T) {
	svc, repo, generator, _ := newPracticeFixture(t)
	ctx := context.Background()

	profile := &models.StudentProfile{
		StudentID:    "student-1",
		SkillMastery: datatypes.JSONMap{"M_ALG_LIN1": float64(80)},
	}
	generated := practiceQuestion("AI_abc", "M_ALG_LIN1", models.TierHard)

	repo.SkillRepo.On("GetByID", ctx, "M_ALG_LIN1").Return(&models.Skill{ID: "M_ALG_LIN1"}, nil)
	repo.ProfileRepo.On("GetOrCreate", ctx, "student-1").Return(profile, nil)
	generator.On("Question", ctx, "M_ALG_LIN1", models.TierHard).Return(generated, nil).Once()
	repo.QuestionRepo.On("Create", ctx, generated).Return(nil).Once()

	view, err := svc.NextQuestion(ctx, "student-1", "M_ALG_LIN1")

	require.NoError(t, err)
	assert.Equal(t, "AI_abc", view.ID)
	assert.Equal(t, models.TierHard, view.Difficulty)
	assert.Len(t, view.Choices, 4)

	repo.QuestionRepo.AssertExpectations(t)
}

func TestNextQuestion_OfflineSentinelNotPersisted(t *testing.T) {
	svc, repo, generator, _ := newPracticeFixture(t)
	ctx := context.Background()

	repo.SkillRepo.On("GetByID", ctx, "M_GEO_AV").Return(&models.Skill{ID: "M_GEO_AV"}, nil)
	repo.ProfileRepo.On("GetOrCreate", ctx, "student-1").
		Return(&models.StudentProfile{StudentID: "student-1"}, nil)
	generator.On("Question", ctx, "M_GEO_AV", models.TierEasy).
		Return(questionsource.OfflineQuestion("M_GEO_AV", models.TierEasy, nil), nil).Once()

	view, err := svc.NextQuestion(ctx, "student-1", "M_GEO_AV")

	require.NoError(t, err)
	assert.Equal(t, "OFFLINE_M_GEO_AV_Easy", view.ID)
	repo.QuestionRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestNextQuestion_UnknownSkill(t *testing.T) {
	svc, repo, _, _ := newPracticeFixture(t)
	ctx := context.Background()

	repo.SkillRepo.On("GetByID", ctx, "NOPE").Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.NextQuestion(ctx, "student-1", "NOPE")
	assert.ErrorIs(t, err, ErrSkillNotFound)
}

func TestSubmitAnswer_CorrectMediumGainsEight(t *testing.T) {
	svc, repo, _, publisher := newPracticeFixture(t)
	ctx := context.Background()

	question := practiceQuestion("AI_q1", "M_ALG_LIN1", models.TierMedium)
	profile := &models.StudentProfile{
		StudentID:    "student-1",
		SkillMastery: datatypes.JSONMap{"M_ALG_LIN1": float64(50)},
	}

	repo.QuestionRepo.On("GetByID", ctx, "AI_q1").Return(question, nil)
	repo.ProfileRepo.On("GetOrCreate", ctx, "student-1").Return(profile, nil)
	repo.ProfileRepo.On("SetSkillMastery", ctx, "student-1", "M_ALG_LIN1", 58, testClock).Return(nil).Once()

	result, err := svc.SubmitAnswer(ctx, "student-1", &PracticeAnswerRequest{
		QuestionID:    "AI_q1",
		SelectedLabel: "C",
		TimeTakenMs:   45_000,
	})

	require.NoError(t, err)
	assert.True(t, result.IsCorrect)
	assert.False(t, result.IsSlow)
	assert.Equal(t, 8, result.Delta)
	assert.Equal(t, 58, result.NewMastery)

	published := publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventMasteryUpdated, published[0].Type)

	repo.ProfileRepo.AssertExpectations(t)
}

func TestSubmitAnswer_SlowMediumMathGainsSix(t *testing.T) {
	svc, repo, _, _ := newPracticeFixture(t)
	ctx := context.Background()

	question := practiceQuestion("AI_q1", "M_ALG_LIN1", models.TierMedium)
	profile := &models.StudentProfile{
		StudentID:    "student-1",
		SkillMastery: datatypes.JSONMap{"M_ALG_LIN1": float64(50)},
	}

	repo.QuestionRepo.On("GetByID", ctx, "AI_q1").Return(question, nil)
	repo.ProfileRepo.On("GetOrCreate", ctx, "student-1").Return(profile, nil)
	repo.ProfileRepo.On("SetSkillMastery", ctx, "student-1", "M_ALG_LIN1", 56, testClock).Return(nil).Once()

	// 95s exceeds the 90s math fluency target at Medium.
	result, err := svc.SubmitAnswer(ctx, "student-1", &PracticeAnswerRequest{
		QuestionID:    "AI_q1",
		SelectedLabel: "C",
		TimeTakenMs:   95_000,
	})

	require.NoError(t, err)
	assert.True(t, result.IsSlow)
	assert.Equal(t, 6, result.Delta)
	assert.Equal(t, 56, result.NewMastery)
}

func TestSubmitAnswer_PersistenceFailureKeepsComputedMastery(t *testing.T) {
	svc, repo, _, _ := newPracticeFixture(t)
	ctx := context.Background()

	question := practiceQuestion("AI_q1", "M_ALG_LIN1", models.TierHard)
	profile := &models.StudentProfile{
		StudentID:    "student-1",
		SkillMastery: datatypes.JSONMap{"M_ALG_LIN1": float64(50)},
	}

	repo.QuestionRepo.On("GetByID", ctx, "AI_q1").Return(question, nil)
	repo.ProfileRepo.On("GetOrCreate", ctx, "student-1").Return(profile, nil)
	repo.ProfileRepo.On("SetSkillMastery", ctx, "student-1", "M_ALG_LIN1", 62, testClock).
		Return(assert.AnError).Once()

	result, err := svc.SubmitAnswer(ctx, "student-1", &PracticeAnswerRequest{
		QuestionID:    "AI_q1",
		SelectedLabel: "C",
		TimeTakenMs:   30_000,
	})

	// The computed update is never rolled back; the failed write is
	// reported as a warning instead.
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, 12, result.Delta)
	assert.Equal(t, 62, result.NewMastery)
	assert.NotEmpty(t, result.PersistenceWarning)
}

func TestSubmitAnswer_IncorrectNeverRegresses(t *testing.T) {
	svc, repo, _, _ := newPracticeFixture(t)
	ctx := context.Background()

	question := practiceQuestion("AI_q1", "M_ALG_LIN1", models.TierHard)
	profile := &models.StudentProfile{
		StudentID:    "student-1",
		SkillMastery: datatypes.JSONMap{"M_ALG_LIN1": float64(50)},
	}

	repo.QuestionRepo.On("GetByID", ctx, "AI_q1").Return(question, nil)
	repo.ProfileRepo.On("GetOrCreate", ctx, "student-1").Return(profile, nil)

	result, err := svc.SubmitAnswer(ctx, "student-1", &PracticeAnswerRequest{
		QuestionID:    "AI_q1",
		SelectedLabel: "A",
		TimeTakenMs:   30_000,
	})

	require.NoError(t, err)
	assert.False(t, result.IsCorrect)
	assert.Equal(t, 0, result.Delta)
	assert.Equal(t, 50, result.NewMastery)
	// The answer key is revealed after submission.
	assert.Equal(t, "C", result.CorrectLabel)
	assert.Equal(t, "because", result.Explanation)

	repo.ProfileRepo.AssertNotCalled(t, "SetSkillMastery",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitAnswer_UnknownQuestion(t *testing.T) {
	svc, repo, _, _ := newPracticeFixture(t)
	ctx := context.Background()

	repo.QuestionRepo.On("GetByID", ctx, "OFFLINE_M_GEO_AV_Easy").Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.SubmitAnswer(ctx, "student-1", &PracticeAnswerRequest{
		QuestionID:    "OFFLINE_M_GEO_AV_Easy",
		SelectedLabel: "A",
	})
	assert.ErrorIs(t, err, ErrQuestionNotFound)
}

func TestMasteryOverview(t *testing.T) {
	svc, repo, _, _ := newPracticeFixture(t)
	ctx := context.Background()

	daily := "M_GEO_AV"
	profile := &models.StudentProfile{
		StudentID:    "student-1",
		SkillMastery: datatypes.JSONMap{"M_GEO_AV": float64(35)},
		DailySkillID: &daily,
	}
	domains := []*models.Domain{
		{
			ID:   "M_GEO",
			Name: "Geometry and Trigonometry",
			Skills: []models.Skill{
				{ID: "M_GEO_AV", Name: "Area and Volume", DomainID: "M_GEO"},
				{ID: "M_GEO_TRIG", Name: "Right Triangles and Trigonometry", DomainID: "M_GEO"},
			},
		},
	}

	repo.ProfileRepo.On("GetByStudentID", ctx, "student-1").Return(profile, nil)
	repo.SkillRepo.On("ListDomains", ctx).Return(domains, nil)

	views, err := svc.MasteryOverview(ctx, "student-1")

	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, 35, views[0].Mastery)
	assert.True(t, views[0].IsDaily)
	assert.Equal(t, 0, views[1].Mastery)
	assert.False(t, views[1].IsDaily)
}

func TestDailySkill_LowestMasteryWins(t *testing.T) {
	svc, repo, _, _ := newPracticeFixture(t)
	ctx := context.Background()

	profile := &models.StudentProfile{
		StudentID: "student-1",
		SkillMastery: datatypes.JSONMap{
			"M_ALG_LIN1": float64(60),
			"M_GEO_AV":   float64(30),
			"M_GEO_TRIG": float64(45),
		},
	}
	domains := []*models.Domain{
		{
			ID: "M_ALG", Name: "Algebra", Weight: 0.35,
			Skills: []models.Skill{{ID: "M_ALG_LIN1", Name: "Linear equations", DomainID: "M_ALG"}},
		},
		{
			ID: "M_GEO", Name: "Geometry and Trigonometry", Weight: 0.15,
			Skills: []models.Skill{
				{ID: "M_GEO_AV", Name: "Area and Volume", DomainID: "M_GEO"},
				{ID: "M_GEO_TRIG", Name: "Right Triangles and Trigonometry", DomainID: "M_GEO"},
			},
		},
	}

	repo.ProfileRepo.On("GetByStudentID", ctx, "student-1").Return(profile, nil)
	repo.SkillRepo.On("ListDomains", ctx).Return(domains, nil)

	view, err := svc.DailySkill(ctx, "student-1")

	require.NoError(t, err)
	assert.Equal(t, "M_GEO_AV", view.SkillID)
	assert.Equal(t, 30, view.Mastery)
}

func TestDailySkill_TieBrokenByDomainWeight(t *testing.T) {
	svc, repo, _, _ := newPracticeFixture(t)
	ctx := context.Background()

	profile := &models.StudentProfile{
		StudentID: "student-1",
		SkillMastery: datatypes.JSONMap{
			"M_GEO_AV":   float64(40),
			"M_ALG_LIN1": float64(40),
		},
	}
	// Geometry sorts first but Algebra carries the heavier blueprint
	// weight, so the tie goes to the algebra skill.
	domains := []*models.Domain{
		{
			ID: "M_GEO", Name: "Geometry and Trigonometry", Weight: 0.15,
			Skills: []models.Skill{{ID: "M_GEO_AV", Name: "Area and Volume", DomainID: "M_GEO"}},
		},
		{
			ID: "M_ALG", Name: "Algebra", Weight: 0.35,
			Skills: []models.Skill{{ID: "M_ALG_LIN1", Name: "Linear equations", DomainID: "M_ALG"}},
		},
	}

	repo.ProfileRepo.On("GetByStudentID", ctx, "student-1").Return(profile, nil)
	repo.SkillRepo.On("ListDomains", ctx).Return(domains, nil)

	view, err := svc.DailySkill(ctx, "student-1")

	require.NoError(t, err)
	assert.Equal(t, "M_ALG_LIN1", view.SkillID)
	assert.Equal(t, "M_ALG", view.DomainID)
}

func TestDailySkill_EqualWeightKeepsTaxonomyOrder(t *testing.T) {
	svc, repo, _, _ := newPracticeFixture(t)
	ctx := context.Background()

	profile := &models.StudentProfile{StudentID: "student-1"}
	domains := []*models.Domain{
		{
			ID: "M_GEO", Name: "Geometry and Trigonometry", Weight: 0.15,
			Skills: []models.Skill{
				{ID: "M_GEO_AV", Name: "Area and Volume", DomainID: "M_GEO"},
				{ID: "M_GEO_TRIG", Name: "Right Triangles and Trigonometry", DomainID: "M_GEO"},
			},
		},
	}

	repo.ProfileRepo.On("GetByStudentID", ctx, "student-1").Return(profile, nil)
	repo.SkillRepo.On("ListDomains", ctx).Return(domains, nil)

	view, err := svc.DailySkill(ctx, "student-1")

	require.NoError(t, err)
	assert.Equal(t, "M_GEO_AV", view.SkillID)
}

func TestTierForMastery(t *testing.T) {
	assert.Equal(t, models.TierEasy, tierForMastery(0))
	assert.Equal(t, models.TierEasy, tierForMastery(39))
	assert.Equal(t, models.TierMedium, tierForMastery(40))
	assert.Equal(t, models.TierMedium, tierForMastery(74))
	assert.Equal(t, models.TierHard, tierForMastery(75))
	assert.Equal(t, models.TierHard, tierForMastery(100))
}
