package services

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/SAP-F-2025/diagnostic-service/internal/models"
	"github.com/SAP-F-2025/diagnostic-service/internal/repositories"
)

// MockSessionRepository is a mock implementation of SessionRepository
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Create(ctx context.Context, session *models.DiagnosticSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) GetByStudentID(ctx context.Context, studentID string) (*models.DiagnosticSession, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DiagnosticSession), args.Error(1)
}

func (m *MockSessionRepository) Save(ctx context.Context, session *models.DiagnosticSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) SaveIfStatus(ctx context.Context, session *models.DiagnosticSession, expected models.SessionStatus) error {
	args := m.Called(ctx, session, expected)
	return args.Error(0)
}

func (m *MockSessionRepository) ListExpired(ctx context.Context, now time.Time, limit int) ([]*models.DiagnosticSession, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.DiagnosticSession), args.Error(1)
}

func (m *MockSessionRepository) CountByStatus(ctx context.Context, status models.SessionStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

// MockProfileRepository is a mock implementation of ProfileRepository
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) GetByStudentID(ctx context.Context, studentID string) (*models.StudentProfile, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StudentProfile), args.Error(1)
}

func (m *MockProfileRepository) GetOrCreate(ctx context.Context, studentID string) (*models.StudentProfile, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StudentProfile), args.Error(1)
}

func (m *MockProfileRepository) MergeDiagnosticResults(ctx context.Context, studentID string, mastery map[string]int, dailySkillID string, at time.Time) error {
	args := m.Called(ctx, studentID, mastery, dailySkillID, at)
	return args.Error(0)
}

func (m *MockProfileRepository) SetSkillMastery(ctx context.Context, studentID string, skillID string, percent int, practicedAt time.Time) error {
	args := m.Called(ctx, studentID, skillID, percent, practicedAt)
	return args.Error(0)
}

func (m *MockProfileRepository) MarkSummarySeen(ctx context.Context, studentID string) error {
	args := m.Called(ctx, studentID)
	return args.Error(0)
}

// MockQuestionRepository is a mock implementation of QuestionRepository
type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) Create(ctx context.Context, question *models.Question) error {
	args := m.Called(ctx, question)
	return args.Error(0)
}

func (m *MockQuestionRepository) CreateBatch(ctx context.Context, questions []*models.Question) error {
	args := m.Called(ctx, questions)
	return args.Error(0)
}

func (m *MockQuestionRepository) GetByID(ctx context.Context, id string) (*models.Question, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Question), args.Error(1)
}

func (m *MockQuestionRepository) GetByIDs(ctx context.Context, ids []string) ([]*models.Question, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Question), args.Error(1)
}

func (m *MockQuestionRepository) Update(ctx context.Context, question *models.Question) error {
	args := m.Called(ctx, question)
	return args.Error(0)
}

func (m *MockQuestionRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockQuestionRepository) List(ctx context.Context, filters repositories.QuestionFilters) ([]*models.Question, int64, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*models.Question), args.Get(1).(int64), args.Error(2)
}

func (m *MockQuestionRepository) GetRandom(ctx context.Context, skillID string, difficulty models.DifficultyTier, status models.QuestionStatus) (*models.Question, error) {
	args := m.Called(ctx, skillID, difficulty, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Question), args.Error(1)
}

func (m *MockQuestionRepository) UpdateStatus(ctx context.Context, id string, status models.QuestionStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockQuestionRepository) CountBySkill(ctx context.Context, skillID string, status models.QuestionStatus) (int64, error) {
	args := m.Called(ctx, skillID, status)
	return args.Get(0).(int64), args.Error(1)
}

// MockSkillRepository is a mock implementation of SkillRepository
type MockSkillRepository struct {
	mock.Mock
}

func (m *MockSkillRepository) List(ctx context.Context) ([]*models.Skill, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Skill), args.Error(1)
}

func (m *MockSkillRepository) GetByID(ctx context.Context, id string) (*models.Skill, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Skill), args.Error(1)
}

func (m *MockSkillRepository) ListByDomain(ctx context.Context, domainID string) ([]*models.Skill, error) {
	args := m.Called(ctx, domainID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Skill), args.Error(1)
}

func (m *MockSkillRepository) ListDomains(ctx context.Context) ([]*models.Domain, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Domain), args.Error(1)
}

func (m *MockSkillRepository) SeedTaxonomy(ctx context.Context, domains []*models.Domain) error {
	args := m.Called(ctx, domains)
	return args.Error(0)
}

// MockRepository aggregates the four repository mocks.
type MockRepository struct {
	SessionRepo  *MockSessionRepository
	ProfileRepo  *MockProfileRepository
	QuestionRepo *MockQuestionRepository
	SkillRepo    *MockSkillRepository
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		SessionRepo:  &MockSessionRepository{},
		ProfileRepo:  &MockProfileRepository{},
		QuestionRepo: &MockQuestionRepository{},
		SkillRepo:    &MockSkillRepository{},
	}
}

func (m *MockRepository) Session() repositories.SessionRepository   { return m.SessionRepo }
func (m *MockRepository) Profile() repositories.ProfileRepository   { return m.ProfileRepo }
func (m *MockRepository) Question() repositories.QuestionRepository { return m.QuestionRepo }
func (m *MockRepository) Skill() repositories.SkillRepository       { return m.SkillRepo }

// MockBatterySource is a mock implementation of questionsource.BatterySource
type MockBatterySource struct {
	mock.Mock
}

func (m *MockBatterySource) Question(ctx context.Context, skillID string, tier models.DifficultyTier) (*models.Question, error) {
	args := m.Called(ctx, skillID, tier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Question), args.Error(1)
}

func (m *MockBatterySource) Battery(ctx context.Context, module models.ModuleName) ([]models.Question, error) {
	args := m.Called(ctx, module)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Question), args.Error(1)
}

// MockGenerator is a mock implementation of the practice Generator
type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Question(ctx context.Context, skillID string, tier models.DifficultyTier) (*models.Question, error) {
	args := m.Called(ctx, skillID, tier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Question), args.Error(1)
}
