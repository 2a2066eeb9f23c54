package services

import (
	"errors"
	"fmt"

	apperrors "github.com/SAP-F-2025/diagnostic-service/internal/errors"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrValidationFailed = errors.New("validation failed")
	ErrInternalError    = errors.New("internal server error")
	ErrBadRequest       = errors.New("bad request")
	ErrConflict         = errors.New("resource conflict")

	// Session specific errors
	ErrSessionNotFound        = errors.New("diagnostic session not found")
	ErrSessionCompleted       = errors.New("diagnostic session already completed")
	ErrModuleNotActive        = errors.New("no module is currently active")
	ErrModuleAlreadyFinalized = errors.New("module already finalized")
	ErrUnansweredNotAcked     = errors.New("module has unanswered questions - acknowledgement required")
	ErrQuestionNotInModule    = errors.New("question does not belong to the active module")

	// Question specific errors
	ErrQuestionNotFound = errors.New("question not found")
	ErrQuestionNotDraft = errors.New("question is not in draft status")

	// Skill/profile errors
	ErrSkillNotFound   = errors.New("skill not found")
	ErrProfileNotFound = errors.New("student profile not found")
	ErrNoDiagnostic    = errors.New("student has not completed the diagnostic")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

type BusinessRuleError struct {
	Rule    string                 `json:"rule"`
	Message string                 `json:"message"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (e *BusinessRuleError) Error() string {
	return fmt.Sprintf("business rule violation [%s]: %s", e.Rule, e.Message)
}

func NewBusinessRuleError(rule, message string) *BusinessRuleError {
	return &BusinessRuleError{
		Rule:    rule,
		Message: message,
	}
}

// ===== ERROR CLASSIFICATION HELPERS =====

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrSessionNotFound) ||
		errors.Is(err, ErrQuestionNotFound) ||
		errors.Is(err, ErrSkillNotFound) ||
		errors.Is(err, ErrProfileNotFound)
}

func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrSessionCompleted) ||
		errors.Is(err, ErrModuleAlreadyFinalized)
}

func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) {
		return true
	}
	var validationErrs ValidationErrors
	if errors.As(err, &validationErrs) {
		return true
	}
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

func IsBusinessRule(err error) bool {
	var businessErr *BusinessRuleError
	return errors.As(err, &businessErr)
}
