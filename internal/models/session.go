package models

import (
	"time"

	"gorm.io/datatypes"
)

type ModuleName string

const (
	ModuleRouting      ModuleName = "Routing"
	ModuleStage2Easy   ModuleName = "Stage2_Easy"
	ModuleStage2Medium ModuleName = "Stage2_Medium"
	ModuleStage2Hard   ModuleName = "Stage2_Hard"
)

// Stage2ModuleFor maps a routing decision to its Stage-2 module.
func Stage2ModuleFor(route DifficultyTier) ModuleName {
	switch route {
	case TierEasy:
		return ModuleStage2Easy
	case TierHard:
		return ModuleStage2Hard
	default:
		return ModuleStage2Medium
	}
}

// IsStage2 reports whether the module is one of the three Stage-2 tiers.
func (m ModuleName) IsStage2() bool {
	return m == ModuleStage2Easy || m == ModuleStage2Medium || m == ModuleStage2Hard
}

type SessionStatus string

const (
	StatusNotStarted        SessionStatus = "not_started"
	StatusRoutingInProgress SessionStatus = "routing_in_progress"
	StatusRoutingCompleted  SessionStatus = "routing_completed"
	StatusRoutingTimedOut   SessionStatus = "routing_timed_out"
	StatusStage2InProgress  SessionStatus = "stage2_in_progress"
	StatusCompleted         SessionStatus = "completed"
)

// CanEnter reports whether the state machine allows moving into next
// from the current status. Transitions are monotonic; completed is
// terminal.
func (s SessionStatus) CanEnter(next SessionStatus) bool {
	switch next {
	case StatusRoutingInProgress:
		return s == StatusNotStarted || s == StatusRoutingInProgress
	case StatusRoutingCompleted, StatusRoutingTimedOut:
		return s == StatusRoutingInProgress
	case StatusStage2InProgress:
		return s == StatusRoutingCompleted || s == StatusRoutingTimedOut || s == StatusStage2InProgress
	case StatusCompleted:
		return s == StatusStage2InProgress
	default:
		return false
	}
}

// FinalizeTrigger distinguishes the two entry points into module
// finalization. They share one code path and differ only in the status
// written and the timed-out audit flag.
type FinalizeTrigger string

const (
	TriggerSubmit  FinalizeTrigger = "submit"
	TriggerTimeout FinalizeTrigger = "timeout"
)

// ScoredResponse is created exactly once per question per module and may
// be overwritten in place when a student re-answers before submission.
// Identity key is QuestionID within a module's response set.
type ScoredResponse struct {
	QuestionID     string         `json:"question_id"`
	Module         ModuleName     `json:"module"`
	SkillID        string         `json:"skill_id"`
	Difficulty     DifficultyTier `json:"difficulty"`
	SelectedLabel  *string        `json:"selected_label"` // nil = unanswered
	CorrectLabel   string         `json:"correct_label"`
	IsCorrect      bool           `json:"is_correct"`
	PointsEarned   int            `json:"points_earned"`
	PointsPossible int            `json:"points_possible"`
	TimeTakenMs    *int64         `json:"time_taken_ms,omitempty"`
	AnsweredAt     time.Time      `json:"answered_at"`
}

// Answered reports whether the student actually selected a choice.
// Unanswered responses score zero but are excluded from the mastery
// estimator, unlike in routing where they are simply absent from counts.
func (r ScoredResponse) Answered() bool {
	return r.SelectedLabel != nil
}

// RoutingStats is the audit record of a routing decision.
type RoutingStats struct {
	EasyCorrect    int  `json:"easy_correct"`
	MediumCorrect  int  `json:"medium_correct"`
	HardCorrect    int  `json:"hard_correct"`
	TotalCorrect   int  `json:"total_correct"`
	TotalResponses int  `json:"total_responses"`
	TimedOut       bool `json:"timed_out"`
}

// SkillStat is the human-readable per-skill accuracy report computed at
// finalization, separate from the stored mastery map.
type SkillStat struct {
	SkillID        string       `json:"skill_id"`
	Correct        int          `json:"correct"`
	Total          int          `json:"total"`
	Accuracy       float64      `json:"accuracy"`
	PointsAccuracy float64      `json:"points_accuracy"`
	Level          MasteryLevel `json:"level"`
}

type MasteryLevel string

const (
	LevelMastery    MasteryLevel = "Mastery"
	LevelProficient MasteryLevel = "Proficient"
	LevelDeveloping MasteryLevel = "Developing"
	LevelNeedsHelp  MasteryLevel = "Needs Help"
)

// SessionSummary accumulates audit data across module transitions.
type SessionSummary struct {
	Routing          *RoutingStats `json:"routing,omitempty"`
	Stage2Module     ModuleName    `json:"stage2_module,omitempty"`
	Stage2TimedOut   bool          `json:"stage2_timed_out"`
	CompletedAt      *time.Time    `json:"completed_at,omitempty"`
	SkillStats       []SkillStat   `json:"skill_stats,omitempty"`
	RecommendedSkill []string      `json:"recommended_skills,omitempty"`
}

// DiagnosticSession is the single per-student diagnostic document.
// Responses are append-only (upsert by question id); status and derived
// fields are replaced in place by module transitions. There is exactly
// one authoritative write path per transition.
type DiagnosticSession struct {
	StudentID string        `json:"student_id" gorm:"primaryKey;size:255"`
	Status    SessionStatus `json:"status" gorm:"not null;default:not_started;size:32;index"`

	CurrentModule     *ModuleName `json:"current_module" gorm:"size:20"`
	ModuleStartedAt   *time.Time  `json:"module_started_at"`
	ModuleDurationSec *int        `json:"module_duration_sec"`
	ModuleExpiresAt   *time.Time  `json:"module_expires_at"`

	Stage2Route    *DifficultyTier `json:"stage2_route" gorm:"size:10"`
	Stage2ModuleID *ModuleName     `json:"stage2_module_id" gorm:"size:20"`

	Responses datatypes.JSONType[[]ScoredResponse] `json:"responses" gorm:"type:jsonb"`
	Summary   datatypes.JSONType[SessionSummary]   `json:"summary" gorm:"type:jsonb"`

	// Derived at finalization.
	MasteryBySkill    datatypes.JSONMap            `json:"mastery_by_skill" gorm:"type:jsonb"`
	RecommendedSkills datatypes.JSONType[[]string] `json:"recommended_skills" gorm:"type:jsonb"`
	DailySkillID      *string                      `json:"daily_skill_id" gorm:"size:32"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ModuleResponses returns the responses recorded for one module.
func (s *DiagnosticSession) ModuleResponses(module ModuleName) []ScoredResponse {
	var out []ScoredResponse
	for _, r := range s.Responses.Data() {
		if r.Module == module {
			out = append(out, r)
		}
	}
	return out
}

// TimeRemaining derives the authoritative remaining time from the stored
// absolute expiry. A client-side countdown is advisory only.
func (s *DiagnosticSession) TimeRemaining(now time.Time) time.Duration {
	if s.ModuleExpiresAt == nil {
		return 0
	}
	remaining := s.ModuleExpiresAt.Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Expired reports whether the active module's timer has run out.
func (s *DiagnosticSession) Expired(now time.Time) bool {
	return s.ModuleExpiresAt != nil && now.After(*s.ModuleExpiresAt)
}

func (DiagnosticSession) TableName() string {
	return "diagnostic_sessions"
}
