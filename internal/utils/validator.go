package utils

import (
	"reflect"
	"strings"

	"github.com/SAP-F-2025/diagnostic-service/internal/models"
	"github.com/go-playground/validator/v10"
)

// Validator wraps go-playground/validator with the service's custom rules
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	validate := validator.New()
	RegisterCustomValidators(validate)
	return &Validator{validate: validate}
}

func (v *Validator) Validate(s interface{}) error {
	return v.validate.Struct(s)
}

func (v *Validator) Var(field interface{}, tag string) error {
	return v.validate.Var(field, tag)
}

// Custom validation functions

func ValidateDifficultyTier(fl validator.FieldLevel) bool {
	validTiers := []models.DifficultyTier{
		models.TierEasy,
		models.TierMedium,
		models.TierHard,
	}

	value := fl.Field().String()
	for _, validTier := range validTiers {
		if string(validTier) == value {
			return true
		}
	}
	return false
}

func ValidateModuleName(fl validator.FieldLevel) bool {
	validModules := []models.ModuleName{
		models.ModuleRouting,
		models.ModuleStage2Easy,
		models.ModuleStage2Medium,
		models.ModuleStage2Hard,
	}

	value := fl.Field().String()
	for _, validModule := range validModules {
		if string(validModule) == value {
			return true
		}
	}
	return false
}

func ValidateQuestionStatus(fl validator.FieldLevel) bool {
	validStatuses := []models.QuestionStatus{
		models.QuestionDraft,
		models.QuestionApproved,
		models.QuestionRejected,
	}

	value := fl.Field().String()
	for _, validStatus := range validStatuses {
		if string(validStatus) == value {
			return true
		}
	}
	return false
}

func ValidateChoiceLabel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "A", "B", "C", "D":
		return true
	}
	return false
}

// RegisterCustomValidators registers all custom validators
func RegisterCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("difficulty_tier", ValidateDifficultyTier)
	validate.RegisterValidation("module_name", ValidateModuleName)
	validate.RegisterValidation("question_status", ValidateQuestionStatus)
	validate.RegisterValidation("choice_label", ValidateChoiceLabel)

	// Register custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}
