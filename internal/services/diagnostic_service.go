package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/diagnostic-service/internal/config"
	"github.com/SAP-F-2025/diagnostic-service/internal/engine"
	"github.com/SAP-F-2025/diagnostic-service/internal/events"
	"github.com/SAP-F-2025/diagnostic-service/internal/models"
	"github.com/SAP-F-2025/diagnostic-service/internal/questionsource"
	"github.com/SAP-F-2025/diagnostic-service/internal/repositories"
	"github.com/SAP-F-2025/diagnostic-service/internal/utils"
	"gorm.io/datatypes"
)

type diagnosticService struct {
	repo      repositories.Repository
	source    questionsource.BatterySource
	publisher events.EventPublisher
	cfg       *config.Config
	logger    *slog.Logger
	validator *utils.Validator
	now       func() time.Time
}

func NewDiagnosticService(
	repo repositories.Repository,
	source questionsource.BatterySource,
	publisher events.EventPublisher,
	cfg *config.Config,
	logger *slog.Logger,
	validator *utils.Validator,
) DiagnosticService {
	return &diagnosticService{
		repo:      repo,
		source:    source,
		publisher: publisher,
		cfg:       cfg,
		logger:    logger,
		validator: validator,
		now:       time.Now,
	}
}

// ===== SESSION QUERIES =====

func (s *diagnosticService) GetSession(ctx context.Context, studentID string) (*SessionResponse, error) {
	session, err := s.loadSession(ctx, studentID)
	if err != nil {
		return nil, err
	}

	answered := 0
	if session.CurrentModule != nil {
		for _, r := range session.ModuleResponses(*session.CurrentModule) {
			if r.Answered() {
				answered++
			}
		}
	}

	return &SessionResponse{
		StudentID:        session.StudentID,
		Status:           session.Status,
		CurrentModule:    session.CurrentModule,
		Stage2Route:      session.Stage2Route,
		TimeRemainingSec: int(session.TimeRemaining(s.now()).Seconds()),
		AnsweredCount:    answered,
	}, nil
}

// ===== MODULE ENTRY =====

// StartModule enters the next pending module for the student: Routing on
// a fresh session, the routed Stage-2 module after routing finishes.
// Re-entering an already-open module resumes it without touching the
// timer, so a page reload never grants extra time.
func (s *diagnosticService) StartModule(ctx context.Context, studentID string) (*ModuleResponse, error) {
	if studentID == "" {
		return nil, fmt.Errorf("%w: student id is required", ErrValidationFailed)
	}

	session, err := s.repo.Session().GetByStudentID(ctx, studentID)
	if err != nil {
		if !repositories.IsNotFoundError(err) {
			return nil, fmt.Errorf("failed to load session: %w", err)
		}
		session = &models.DiagnosticSession{
			StudentID: studentID,
			Status:    models.StatusNotStarted,
		}
		if err := s.repo.Session().Create(ctx, session); err != nil {
			return nil, fmt.Errorf("failed to create session: %w", err)
		}
	}

	// A module whose timer already ran out is finalized before anything
	// else happens; the student then enters whatever comes next.
	if s.moduleActive(session) && session.Expired(s.now()) {
		if _, err := s.finalizeModule(ctx, session, models.TriggerTimeout); err != nil {
			return nil, err
		}
		session, err = s.loadSession(ctx, studentID)
		if err != nil {
			return nil, err
		}
	}

	resumed := false
	switch session.Status {
	case models.StatusNotStarted:
		if err := s.enterModule(ctx, session, models.ModuleRouting, s.cfg.RoutingDuration, models.StatusRoutingInProgress); err != nil {
			return nil, err
		}

	case models.StatusRoutingInProgress, models.StatusStage2InProgress:
		resumed = true

	case models.StatusRoutingCompleted, models.StatusRoutingTimedOut:
		if session.Stage2Route == nil {
			return nil, fmt.Errorf("%w: routing finished without a route", ErrInternalError)
		}
		module := models.Stage2ModuleFor(*session.Stage2Route)
		if err := s.enterModule(ctx, session, module, s.cfg.Stage2Duration, models.StatusStage2InProgress); err != nil {
			return nil, err
		}

	case models.StatusCompleted:
		return nil, ErrSessionCompleted

	default:
		return nil, fmt.Errorf("%w: unexpected session status %s", ErrInternalError, session.Status)
	}

	return s.buildModuleResponse(ctx, session, resumed)
}

// enterModule stamps the module, its timer and the new status onto the
// session and persists it in one write.
func (s *diagnosticService) enterModule(ctx context.Context, session *models.DiagnosticSession, module models.ModuleName, duration time.Duration, status models.SessionStatus) error {
	if !session.Status.CanEnter(status) {
		return fmt.Errorf("%w: cannot move from %s to %s", ErrConflict, session.Status, status)
	}

	now := s.now()
	expiresAt := now.Add(duration)
	durationSec := int(duration.Seconds())

	session.Status = status
	session.CurrentModule = &module
	session.ModuleStartedAt = &now
	session.ModuleDurationSec = &durationSec
	session.ModuleExpiresAt = &expiresAt
	if module.IsStage2() {
		session.Stage2ModuleID = &module
	}

	if err := s.repo.Session().Save(ctx, session); err != nil {
		return fmt.Errorf("failed to start module %s: %w", module, err)
	}

	s.logger.Info("Module started",
		"student_id", session.StudentID,
		"module", module,
		"expires_at", expiresAt)

	s.publish(ctx, events.NewModuleStartedEvent(session.StudentID, module, now, expiresAt, false))
	return nil
}

func (s *diagnosticService) buildModuleResponse(ctx context.Context, session *models.DiagnosticSession, resumed bool) (*ModuleResponse, error) {
	module := *session.CurrentModule

	battery, err := s.source.Battery(ctx, module)
	if err != nil {
		return nil, fmt.Errorf("failed to load battery: %w", err)
	}

	questions := make([]QuestionView, len(battery))
	for i, q := range battery {
		questions[i] = QuestionView{
			ID:         q.ID,
			SkillID:    q.SkillID,
			Difficulty: q.Difficulty,
			Stimulus:   q.Stimulus,
			Choices:    q.Choices.Data(),
			Slot:       i + 1,
		}
	}

	var answeredIDs []string
	for _, r := range session.ModuleResponses(module) {
		if r.Answered() {
			answeredIDs = append(answeredIDs, r.QuestionID)
		}
	}

	return &ModuleResponse{
		StudentID:        session.StudentID,
		Status:           session.Status,
		Module:           module,
		Questions:        questions,
		AnsweredIDs:      answeredIDs,
		TimeRemainingSec: int(session.TimeRemaining(s.now()).Seconds()),
		ExpiresAt:        *session.ModuleExpiresAt,
		Resumed:          resumed,
	}, nil
}

// ===== ANSWER SAVING =====

// SaveAnswer scores and upserts one response in the active module.
// Saves are accepted until the module is finalized, including the window
// between timer expiry and the timeout sweep, so an in-flight answer is
// never lost to a race with the clock.
func (s *diagnosticService) SaveAnswer(ctx context.Context, studentID string, req *SaveAnswerRequest) (*SaveAnswerResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, err)
	}

	session, err := s.loadSession(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if !s.moduleActive(session) {
		return nil, ErrModuleNotActive
	}
	module := *session.CurrentModule

	if !s.inBattery(module, req.QuestionID) {
		return nil, fmt.Errorf("%w: %s is not part of %s", ErrQuestionNotInModule, req.QuestionID, module)
	}

	question, err := s.repo.Question().GetByID(ctx, req.QuestionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to load question: %w", err)
	}

	scored := engine.ScoreResponse(question, module, engine.Submission{
		SelectedLabel: req.SelectedLabel,
		TimeTakenMs:   req.TimeTakenMs,
	}, s.now())

	responses := engine.UpsertResponse(session.Responses.Data(), scored)
	session.Responses = datatypes.NewJSONType(responses)

	if err := s.repo.Session().Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save answer: %w", err)
	}

	answered := 0
	for _, r := range session.ModuleResponses(module) {
		if r.Answered() {
			answered++
		}
	}

	return &SaveAnswerResponse{
		QuestionID:       req.QuestionID,
		Saved:            true,
		AnsweredCount:    answered,
		TimeRemainingSec: int(session.TimeRemaining(s.now()).Seconds()),
	}, nil
}

// ===== FINALIZATION =====

// SubmitModule finalizes the active module on the student's request.
// Unanswered questions require explicit acknowledgement first; a timer
// that already ran out downgrades the submit to a timeout finalization.
func (s *diagnosticService) SubmitModule(ctx context.Context, studentID string, req *SubmitModuleRequest) (*ModuleResult, error) {
	session, err := s.loadSession(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if !s.moduleActive(session) {
		if session.Status == models.StatusCompleted {
			return nil, ErrSessionCompleted
		}
		return nil, ErrModuleNotActive
	}
	module := *session.CurrentModule

	trigger := models.TriggerSubmit
	if session.Expired(s.now()) {
		trigger = models.TriggerTimeout
	}

	if trigger == models.TriggerSubmit {
		unanswered := engine.UnansweredQuestions(questionsource.BatteryOrder(module), session.Responses.Data(), module)
		if len(unanswered) > 0 && (req == nil || !req.AcknowledgeUnanswered) {
			return &ModuleResult{
				StudentID:     studentID,
				Module:        module,
				Status:        session.Status,
				UnansweredIDs: unanswered,
			}, ErrUnansweredNotAcked
		}
	}

	return s.finalizeModule(ctx, session, trigger)
}

// finalizeModule is the single authority for closing a module, shared by
// manual submit, timer expiry on re-entry, and the background sweeper.
// The conditional status write makes it idempotent: whichever caller
// persists first wins, every later caller observes the stored outcome.
func (s *diagnosticService) finalizeModule(ctx context.Context, session *models.DiagnosticSession, trigger models.FinalizeTrigger) (*ModuleResult, error) {
	if !s.moduleActive(session) {
		return nil, ErrModuleNotActive
	}
	module := *session.CurrentModule
	expected := session.Status

	if module == models.ModuleRouting {
		return s.finalizeRouting(ctx, session, trigger, expected)
	}
	return s.finalizeStage2(ctx, session, trigger, expected)
}

func (s *diagnosticService) finalizeRouting(ctx context.Context, session *models.DiagnosticSession, trigger models.FinalizeTrigger, expected models.SessionStatus) (*ModuleResult, error) {
	now := s.now()
	responses := session.Responses.Data()
	answered := answeredCount(responses, models.ModuleRouting)

	decision := engine.ComputeRoute(responses)
	decision.Stats.TimedOut = trigger == models.TriggerTimeout

	newStatus := models.StatusRoutingCompleted
	if trigger == models.TriggerTimeout {
		newStatus = models.StatusRoutingTimedOut
	}

	stage2 := models.Stage2ModuleFor(decision.Route)
	summary := session.Summary.Data()
	summary.Routing = &decision.Stats
	summary.Stage2Module = stage2

	session.Status = newStatus
	session.Stage2Route = &decision.Route
	session.Summary = datatypes.NewJSONType(summary)
	s.clearModuleTimer(session)

	if err := s.repo.Session().SaveIfStatus(ctx, session, expected); err != nil {
		if repositories.IsStaleWriteError(err) {
			return s.alreadyFinalizedResult(ctx, session.StudentID, models.ModuleRouting)
		}
		return nil, fmt.Errorf("failed to finalize routing: %w", err)
	}

	s.logger.Info("Routing finalized",
		"student_id", session.StudentID,
		"trigger", trigger,
		"route", decision.Route,
		"stats", decision.Stats)

	s.publish(ctx, events.NewModuleSubmittedEvent(session.StudentID, models.ModuleRouting, trigger, answered, len(questionsource.BatteryOrder(models.ModuleRouting)), now))
	s.publish(ctx, events.NewRoutingComputedEvent(session.StudentID, decision.Route, decision.Stats, now))

	return &ModuleResult{
		StudentID:   session.StudentID,
		Module:      models.ModuleRouting,
		Status:      newStatus,
		Trigger:     trigger,
		Stage2Route: &decision.Route,
	}, nil
}

func (s *diagnosticService) finalizeStage2(ctx context.Context, session *models.DiagnosticSession, trigger models.FinalizeTrigger, expected models.SessionStatus) (*ModuleResult, error) {
	now := s.now()
	module := *session.CurrentModule
	responses := session.Responses.Data()
	answered := answeredCount(responses, module)

	result := engine.Finalize(responses)

	summary := session.Summary.Data()
	summary.Stage2TimedOut = trigger == models.TriggerTimeout
	summary.CompletedAt = &now
	summary.SkillStats = result.SkillStats
	summary.RecommendedSkill = result.RecommendedSkills

	session.Status = models.StatusCompleted
	session.Summary = datatypes.NewJSONType(summary)
	session.MasteryBySkill = masteryToJSONMap(result.MasteryBySkill)
	session.RecommendedSkills = datatypes.NewJSONType(result.RecommendedSkills)
	if result.DailySkillID != "" {
		session.DailySkillID = &result.DailySkillID
	}
	s.clearModuleTimer(session)

	// The profile merge happens before the status write: once the session
	// is completed there is no retry path, so a failed merge must leave
	// the module open. A concurrent finalizer that loses the status race
	// merges the same computed results, which the merge-write absorbs.
	if err := s.mergeProfile(ctx, session.StudentID, result, now); err != nil {
		return nil, fmt.Errorf("failed to seed profile: %w", err)
	}

	if err := s.repo.Session().SaveIfStatus(ctx, session, expected); err != nil {
		if repositories.IsStaleWriteError(err) {
			return s.alreadyFinalizedResult(ctx, session.StudentID, module)
		}
		return nil, fmt.Errorf("failed to finalize session: %w", err)
	}

	s.logger.Info("Diagnostic session finalized",
		"student_id", session.StudentID,
		"module", module,
		"trigger", trigger,
		"daily_skill", result.DailySkillID)

	s.publish(ctx, events.NewModuleSubmittedEvent(session.StudentID, module, trigger, answered, len(questionsource.BatteryOrder(module)), now))
	route := models.TierMedium
	if session.Stage2Route != nil {
		route = *session.Stage2Route
	}
	s.publish(ctx, events.NewDiagnosticCompletedEvent(session.StudentID, route, result.MasteryBySkill, result.RecommendedSkills, result.DailySkillID, now))

	summaryResp := s.summaryFromSession(session, false)
	return &ModuleResult{
		StudentID: session.StudentID,
		Module:    module,
		Status:    models.StatusCompleted,
		Trigger:   trigger,
		Summary:   summaryResp,
	}, nil
}

func (s *diagnosticService) mergeProfile(ctx context.Context, studentID string, result engine.FinalizeResult, at time.Time) error {
	if _, err := s.repo.Profile().GetOrCreate(ctx, studentID); err != nil {
		return err
	}
	return s.repo.Profile().MergeDiagnosticResults(ctx, studentID, result.MasteryBySkill, result.DailySkillID, at)
}

// alreadyFinalizedResult reloads the stored session after losing the
// finalization race and reports its outcome as this caller's result.
func (s *diagnosticService) alreadyFinalizedResult(ctx context.Context, studentID string, module models.ModuleName) (*ModuleResult, error) {
	stored, err := s.loadSession(ctx, studentID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Module was finalized concurrently",
		"student_id", studentID,
		"module", module,
		"status", stored.Status)

	result := &ModuleResult{
		StudentID:   studentID,
		Module:      module,
		Status:      stored.Status,
		Stage2Route: stored.Stage2Route,
	}
	if stored.Status == models.StatusCompleted {
		result.Summary = s.summaryFromSession(stored, false)
	}
	return result, nil
}

// FinalizeExpired closes every module whose timer has elapsed. Called
// periodically by the timeout sweeper.
func (s *diagnosticService) FinalizeExpired(ctx context.Context, limit int) (int, error) {
	expired, err := s.repo.Session().ListExpired(ctx, s.now(), limit)
	if err != nil {
		return 0, err
	}

	finalized := 0
	for _, session := range expired {
		if _, err := s.finalizeModule(ctx, session, models.TriggerTimeout); err != nil {
			s.logger.Error("Failed to finalize expired module",
				"student_id", session.StudentID,
				"error", err)
			continue
		}
		finalized++
	}
	return finalized, nil
}

// ===== SUMMARY =====

func (s *diagnosticService) GetSummary(ctx context.Context, studentID string) (*SummaryResponse, error) {
	session, err := s.loadSession(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if session.Status != models.StatusCompleted {
		return nil, ErrNoDiagnostic
	}

	seen := false
	if profile, err := s.repo.Profile().GetByStudentID(ctx, studentID); err == nil {
		seen = profile.SummarySeen
	}
	return s.summaryFromSession(session, seen), nil
}

func (s *diagnosticService) MarkSummarySeen(ctx context.Context, studentID string) error {
	err := s.repo.Profile().MarkSummarySeen(ctx, studentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrProfileNotFound
		}
		return fmt.Errorf("failed to mark summary seen: %w", err)
	}
	return nil
}

func (s *diagnosticService) summaryFromSession(session *models.DiagnosticSession, seen bool) *SummaryResponse {
	summary := session.Summary.Data()

	daily := ""
	if session.DailySkillID != nil {
		daily = *session.DailySkillID
	}

	return &SummaryResponse{
		StudentID:         session.StudentID,
		CompletedAt:       summary.CompletedAt,
		Routing:           summary.Routing,
		Stage2Module:      summary.Stage2Module,
		SkillStats:        summary.SkillStats,
		MasteryBySkill:    jsonMapToMastery(session.MasteryBySkill),
		RecommendedSkills: session.RecommendedSkills.Data(),
		DailySkillID:      daily,
		SummarySeen:       seen,
	}
}

// ===== HELPERS =====

func (s *diagnosticService) loadSession(ctx context.Context, studentID string) (*models.DiagnosticSession, error) {
	session, err := s.repo.Session().GetByStudentID(ctx, studentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return session, nil
}

func (s *diagnosticService) moduleActive(session *models.DiagnosticSession) bool {
	return session.CurrentModule != nil &&
		(session.Status == models.StatusRoutingInProgress || session.Status == models.StatusStage2InProgress)
}

func (s *diagnosticService) inBattery(module models.ModuleName, questionID string) bool {
	for _, id := range questionsource.BatteryOrder(module) {
		if id == questionID {
			return true
		}
	}
	return false
}

func (s *diagnosticService) clearModuleTimer(session *models.DiagnosticSession) {
	session.CurrentModule = nil
	session.ModuleStartedAt = nil
	session.ModuleDurationSec = nil
	session.ModuleExpiresAt = nil
}

func (s *diagnosticService) publish(ctx context.Context, event *events.DiagnosticEvent) {
	if err := s.publisher.PublishDiagnosticEvent(ctx, event); err != nil {
		s.logger.Error("Failed to publish event",
			"event_type", event.Type,
			"error", err)
	}
}

func answeredCount(responses []models.ScoredResponse, module models.ModuleName) int {
	count := 0
	for _, r := range responses {
		if r.Module == module && r.Answered() {
			count++
		}
	}
	return count
}

func masteryToJSONMap(mastery map[string]int) datatypes.JSONMap {
	out := datatypes.JSONMap{}
	for skillID, percent := range mastery {
		out[skillID] = percent
	}
	return out
}

func jsonMapToMastery(m datatypes.JSONMap) map[string]int {
	out := make(map[string]int, len(m))
	for skillID, v := range m {
		switch n := v.(type) {
		case float64:
			out[skillID] = int(n)
		case int:
			out[skillID] = n
		}
	}
	return out
}
