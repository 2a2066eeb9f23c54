package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/diagnostic-service/internal/cache"
	"github.com/SAP-F-2025/diagnostic-service/internal/config"
	"github.com/SAP-F-2025/diagnostic-service/internal/events"
	"github.com/SAP-F-2025/diagnostic-service/internal/models"
	"github.com/SAP-F-2025/diagnostic-service/internal/questionsource"
	"github.com/SAP-F-2025/diagnostic-service/internal/repositories"
	"github.com/SAP-F-2025/diagnostic-service/internal/utils"
)

// ===== REQUEST / RESPONSE DTOS =====

// QuestionView is a question as served to a student: the correct answer
// and explanation stay server-side until the session is finalized.
type QuestionView struct {
	ID         string                `json:"id"`
	SkillID    string                `json:"skill_id"`
	Difficulty models.DifficultyTier `json:"difficulty"`
	Stimulus   string                `json:"stimulus"`
	Choices    []models.Choice       `json:"choices"`
	Slot       int                   `json:"slot"`
}

type ModuleResponse struct {
	StudentID        string               `json:"student_id"`
	Status           models.SessionStatus `json:"status"`
	Module           models.ModuleName    `json:"module"`
	Questions        []QuestionView       `json:"questions"`
	AnsweredIDs      []string             `json:"answered_ids"`
	TimeRemainingSec int                  `json:"time_remaining_sec"`
	ExpiresAt        time.Time            `json:"expires_at"`
	Resumed          bool                 `json:"resumed"`
}

type SessionResponse struct {
	StudentID        string                 `json:"student_id"`
	Status           models.SessionStatus   `json:"status"`
	CurrentModule    *models.ModuleName     `json:"current_module,omitempty"`
	Stage2Route      *models.DifficultyTier `json:"stage2_route,omitempty"`
	TimeRemainingSec int                    `json:"time_remaining_sec"`
	AnsweredCount    int                    `json:"answered_count"`
}

type SaveAnswerRequest struct {
	QuestionID    string  `json:"question_id" validate:"required"`
	SelectedLabel *string `json:"selected_label" validate:"omitempty,choice_label"`
	TimeTakenMs   *int64  `json:"time_taken_ms" validate:"omitempty,min=0"`
}

type SaveAnswerResponse struct {
	QuestionID       string `json:"question_id"`
	Saved            bool   `json:"saved"`
	AnsweredCount    int    `json:"answered_count"`
	TimeRemainingSec int    `json:"time_remaining_sec"`
}

type SubmitModuleRequest struct {
	// Submitting with unanswered questions requires explicit confirmation;
	// timeout finalization never does.
	AcknowledgeUnanswered bool `json:"acknowledge_unanswered"`
}

type ModuleResult struct {
	StudentID string                 `json:"student_id"`
	Module    models.ModuleName      `json:"module"`
	Status    models.SessionStatus   `json:"status"`
	Trigger   models.FinalizeTrigger `json:"trigger"`
	// Set when the routing module was finalized.
	Stage2Route *models.DifficultyTier `json:"stage2_route,omitempty"`
	// Set when the whole session was finalized.
	Summary *SummaryResponse `json:"summary,omitempty"`
	// IDs the student left unanswered, for the confirmation step.
	UnansweredIDs []string `json:"unanswered_ids,omitempty"`
}

type SummaryResponse struct {
	StudentID         string               `json:"student_id"`
	CompletedAt       *time.Time           `json:"completed_at,omitempty"`
	Routing           *models.RoutingStats `json:"routing,omitempty"`
	Stage2Module      models.ModuleName    `json:"stage2_module,omitempty"`
	SkillStats        []models.SkillStat   `json:"skill_stats"`
	MasteryBySkill    map[string]int       `json:"mastery_by_skill"`
	RecommendedSkills []string             `json:"recommended_skills"`
	DailySkillID      string               `json:"daily_skill_id"`
	SummarySeen       bool                 `json:"summary_seen"`
}

type PracticeAnswerRequest struct {
	QuestionID    string `json:"question_id" validate:"required"`
	SelectedLabel string `json:"selected_label" validate:"required,choice_label"`
	TimeTakenMs   int64  `json:"time_taken_ms" validate:"min=0"`
}

type PracticeResult struct {
	QuestionID   string                `json:"question_id"`
	SkillID      string                `json:"skill_id"`
	IsCorrect    bool                  `json:"is_correct"`
	IsSlow       bool                  `json:"is_slow"`
	CorrectLabel string                `json:"correct_label"`
	Explanation  string                `json:"explanation"`
	Delta        int                   `json:"delta"`
	NewMastery   int                   `json:"new_mastery"`
	Difficulty   models.DifficultyTier `json:"difficulty"`

	// Set when the mastery write failed. The computed value above is
	// still the one the student sees; it is re-derived on next write.
	PersistenceWarning string `json:"persistence_warning,omitempty"`
}

type GenerateDraftRequest struct {
	SkillID    string                `json:"skill_id" validate:"required"`
	Difficulty models.DifficultyTier `json:"difficulty" validate:"required,difficulty_tier"`
	Count      int                   `json:"count" validate:"min=1,max=20"`
}

type ReviewQuestionRequest struct {
	Approve bool `json:"approve"`
}

type QuestionListResponse struct {
	Questions []*models.Question `json:"questions"`
	Total     int64              `json:"total"`
	Limit     int                `json:"limit"`
	Offset    int                `json:"offset"`
}

type SkillMasteryView struct {
	SkillID    string `json:"skill_id"`
	SkillName  string `json:"skill_name"`
	DomainID   string `json:"domain_id"`
	DomainName string `json:"domain_name"`
	Mastery    int    `json:"mastery"`
	IsDaily    bool   `json:"is_daily"`
}

type DailySkillView struct {
	SkillID    string `json:"skill_id"`
	SkillName  string `json:"skill_name"`
	DomainID   string `json:"domain_id"`
	DomainName string `json:"domain_name"`
	Mastery    int    `json:"mastery"`
}

// ===== SERVICE INTERFACES =====

// DiagnosticService drives the two-stage diagnostic session: module
// entry, answer saving, and unified finalization by submit or timeout.
type DiagnosticService interface {
	GetSession(ctx context.Context, studentID string) (*SessionResponse, error)
	StartModule(ctx context.Context, studentID string) (*ModuleResponse, error)
	SaveAnswer(ctx context.Context, studentID string, req *SaveAnswerRequest) (*SaveAnswerResponse, error)
	SubmitModule(ctx context.Context, studentID string, req *SubmitModuleRequest) (*ModuleResult, error)
	GetSummary(ctx context.Context, studentID string) (*SummaryResponse, error)
	MarkSummarySeen(ctx context.Context, studentID string) error

	// FinalizeExpired finalizes every session whose module timer has
	// elapsed. Returns how many were finalized.
	FinalizeExpired(ctx context.Context, limit int) (int, error)
}

// PracticeService serves practice questions and applies the continuous
// mastery update on each answer.
type PracticeService interface {
	NextQuestion(ctx context.Context, studentID, skillID string) (*QuestionView, error)
	SubmitAnswer(ctx context.Context, studentID string, req *PracticeAnswerRequest) (*PracticeResult, error)
	MasteryOverview(ctx context.Context, studentID string) ([]SkillMasteryView, error)

	// DailySkill re-derives the current daily priority from the live
	// mastery map; it is never read from a stored snapshot.
	DailySkill(ctx context.Context, studentID string) (*DailySkillView, error)
}

// QuestionBankService manages the draft/approve question workflow.
type QuestionBankService interface {
	GenerateDrafts(ctx context.Context, req *GenerateDraftRequest) ([]*models.Question, error)
	List(ctx context.Context, filters repositories.QuestionFilters) (*QuestionListResponse, error)
	Review(ctx context.Context, questionID string, approve bool) (*models.Question, error)
	Delete(ctx context.Context, questionID string) error
}

// SkillService exposes the skill taxonomy.
type SkillService interface {
	ListDomains(ctx context.Context) ([]*models.Domain, error)
	GetSkill(ctx context.Context, skillID string) (*models.Skill, error)
	SeedTaxonomy(ctx context.Context) error
}

// ReportService renders downloadable diagnostic reports.
type ReportService interface {
	ExportDiagnosticReport(ctx context.Context, studentID string) ([]byte, error)
}

// ===== SERVICE MANAGER =====

// ServiceManager wires every service with shared dependencies.
type ServiceManager struct {
	Diagnostic   DiagnosticService
	Practice     PracticeService
	QuestionBank QuestionBankService
	Skill        SkillService
	Report       ReportService
}

type ManagerDeps struct {
	Repo      repositories.Repository
	Publisher events.EventPublisher
	Bank      *questionsource.Bank
	Generator *questionsource.Gemini
	Cache     cache.CacheService
	Config    *config.Config
	Logger    *slog.Logger
	Validator *utils.Validator
}

func NewServiceManager(deps ManagerDeps) *ServiceManager {
	skill := NewSkillService(deps.Repo, deps.Cache, deps.Logger)
	return &ServiceManager{
		Diagnostic:   NewDiagnosticService(deps.Repo, deps.Bank, deps.Publisher, deps.Config, deps.Logger, deps.Validator),
		Practice:     NewPracticeService(deps.Repo, deps.Generator, deps.Publisher, deps.Logger, deps.Validator),
		QuestionBank: NewQuestionBankService(deps.Repo, deps.Generator, deps.Logger, deps.Validator),
		Skill:        skill,
		Report:       NewReportService(deps.Repo, deps.Logger),
	}
}
