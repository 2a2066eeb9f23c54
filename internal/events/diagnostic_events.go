package events

import (
	"time"

	"github.com/SAP-F-2025/diagnostic-service/internal/models"
	"github.com/google/uuid"
)

const eventSource = "diagnostic-service"

// EventType represents different types of diagnostic events
type EventType string

const (
	// Module lifecycle events
	EventModuleStarted   EventType = "diagnostic.module_started"
	EventModuleSubmitted EventType = "diagnostic.module_submitted"
	EventModuleTimedOut  EventType = "diagnostic.module_timed_out"
	EventRoutingComputed EventType = "diagnostic.routing_computed"

	// Session lifecycle events
	EventDiagnosticCompleted EventType = "diagnostic.completed"

	// Practice events
	EventMasteryUpdated EventType = "mastery.updated"
)

// DiagnosticEvent is the base event structure for all diagnostic events
type DiagnosticEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Module lifecycle event payloads

type ModuleStartedEvent struct {
	StudentID string            `json:"student_id"`
	Module    models.ModuleName `json:"module"`
	StartedAt time.Time         `json:"started_at"`
	ExpiresAt time.Time         `json:"expires_at"`
	Resumed   bool              `json:"resumed"`
}

type ModuleSubmittedEvent struct {
	StudentID   string                 `json:"student_id"`
	Module      models.ModuleName      `json:"module"`
	Trigger     models.FinalizeTrigger `json:"trigger"`
	Answered    int                    `json:"answered"`
	Total       int                    `json:"total"`
	SubmittedAt time.Time              `json:"submitted_at"`
}

type RoutingComputedEvent struct {
	StudentID    string                `json:"student_id"`
	Route        models.DifficultyTier `json:"route"`
	Stats        models.RoutingStats   `json:"stats"`
	Stage2Module models.ModuleName     `json:"stage2_module"`
	ComputedAt   time.Time             `json:"computed_at"`
}

// Session lifecycle event payloads

type DiagnosticCompletedEvent struct {
	StudentID         string                `json:"student_id"`
	Route             models.DifficultyTier `json:"route"`
	MasteryBySkill    map[string]int        `json:"mastery_by_skill"`
	RecommendedSkills []string              `json:"recommended_skills"`
	DailySkillID      string                `json:"daily_skill_id"`
	CompletedAt       time.Time             `json:"completed_at"`
}

// Practice event payloads

type MasteryUpdatedEvent struct {
	StudentID  string                `json:"student_id"`
	SkillID    string                `json:"skill_id"`
	Difficulty models.DifficultyTier `json:"difficulty"`
	IsCorrect  bool                  `json:"is_correct"`
	IsSlow     bool                  `json:"is_slow"`
	Delta      int                   `json:"delta"`
	NewMastery int                   `json:"new_mastery"`
	UpdatedAt  time.Time             `json:"updated_at"`
}

// Event factory functions

func NewDiagnosticEvent(eventType EventType, data interface{}) *DiagnosticEvent {
	return &DiagnosticEvent{
		ID:        GenerateEventID(),
		Type:      eventType,
		Timestamp: time.Now(),
		Source:    eventSource,
		Version:   "1.0",
		Data:      data,
	}
}

func NewModuleStartedEvent(studentID string, module models.ModuleName, startedAt, expiresAt time.Time, resumed bool) *DiagnosticEvent {
	return NewDiagnosticEvent(EventModuleStarted, ModuleStartedEvent{
		StudentID: studentID,
		Module:    module,
		StartedAt: startedAt,
		ExpiresAt: expiresAt,
		Resumed:   resumed,
	})
}

func NewModuleSubmittedEvent(studentID string, module models.ModuleName, trigger models.FinalizeTrigger, answered, total int, at time.Time) *DiagnosticEvent {
	eventType := EventModuleSubmitted
	if trigger == models.TriggerTimeout {
		eventType = EventModuleTimedOut
	}
	return NewDiagnosticEvent(eventType, ModuleSubmittedEvent{
		StudentID:   studentID,
		Module:      module,
		Trigger:     trigger,
		Answered:    answered,
		Total:       total,
		SubmittedAt: at,
	})
}

func NewRoutingComputedEvent(studentID string, route models.DifficultyTier, stats models.RoutingStats, at time.Time) *DiagnosticEvent {
	return NewDiagnosticEvent(EventRoutingComputed, RoutingComputedEvent{
		StudentID:    studentID,
		Route:        route,
		Stats:        stats,
		Stage2Module: models.Stage2ModuleFor(route),
		ComputedAt:   at,
	})
}

func NewDiagnosticCompletedEvent(studentID string, route models.DifficultyTier, mastery map[string]int, recommended []string, dailySkillID string, at time.Time) *DiagnosticEvent {
	return NewDiagnosticEvent(EventDiagnosticCompleted, DiagnosticCompletedEvent{
		StudentID:         studentID,
		Route:             route,
		MasteryBySkill:    mastery,
		RecommendedSkills: recommended,
		DailySkillID:      dailySkillID,
		CompletedAt:       at,
	})
}

func NewMasteryUpdatedEvent(studentID, skillID string, difficulty models.DifficultyTier, isCorrect, isSlow bool, delta, newMastery int, at time.Time) *DiagnosticEvent {
	return NewDiagnosticEvent(EventMasteryUpdated, MasteryUpdatedEvent{
		StudentID:  studentID,
		SkillID:    skillID,
		Difficulty: difficulty,
		IsCorrect:  isCorrect,
		IsSlow:     isSlow,
		Delta:      delta,
		NewMastery: newMastery,
		UpdatedAt:  at,
	})
}

// GenerateEventID returns a unique event identifier
func GenerateEventID() string {
	return uuid.NewString()
}
