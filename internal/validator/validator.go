package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/delarge95/ai-news-aggregator-sub000/internal/domain"
)

// Validator wraps go-playground validator
type Validator struct {
	validate *validator.Validate
}

// New creates a new validator with the domain-specific tags registered
func New() *Validator {
	v := validator.New()

	_ = v.RegisterValidation("alertfreq", func(fl validator.FieldLevel) bool {
		return domain.AlertFrequency(fl.Field().String()).Valid()
	})

	return &Validator{
		validate: v,
	}
}

// Validate validates a struct. Failures are returned as *domain.ValidationError
// naming the first offending field.
func (v *Validator) Validate(s interface{}) error {
	if err := v.validate.Struct(s); err != nil {
		return v.formatValidationError(err)
	}
	return nil
}

func (v *Validator) formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return err
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, v.formatFieldError(e))
	}
	return domain.NewValidationError(
		strings.ToLower(validationErrors[0].Field()),
		fmt.Sprintf("validation failed: %s", strings.Join(messages, "; ")),
	)
}

func (v *Validator) formatFieldError(e validator.FieldError) string {
	field := e.Field()
	tag := e.Tag()

	switch tag {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, e.Param())
	case "alertfreq":
		return fmt.Sprintf("%s must be one of immediate, daily, weekly, never", field)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	default:
		return fmt.Sprintf("%s failed validation for %s", field, tag)
	}
}

var std = New()

// ValidateStruct validates with a shared package-level validator
func ValidateStruct(s interface{}) error {
	return std.Validate(s)
}
