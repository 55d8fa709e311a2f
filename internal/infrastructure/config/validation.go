package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/andrescamacho/coldroute-go/internal/domain/shared"
)

// Validator is a wrapper around go-playground/validator
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance with custom validation rules
func NewValidator() *Validator {
	v := validator.New()

	// hhmm validates "HH:MM" clock strings (departure times)
	_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		_, err := shared.ParseMinuteOfDay(fl.Field().String())
		return err == nil
	})

	return &Validator{
		validate: v,
	}
}

// Validate validates a struct using validation tags
func (v *Validator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return v.formatValidationError(err)
	}
	return nil
}

// formatValidationError converts validator errors into readable messages
func (v *Validator) formatValidationError(err error) error {
	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		var messages []string
		for _, e := range validationErrs {
			messages = append(messages, fmt.Sprintf(
				"field '%s' failed validation: %s (value: '%v')",
				e.Field(),
				e.Tag(),
				e.Value(),
			))
		}
		return fmt.Errorf("validation failed:\n  %s", strings.Join(messages, "\n  "))
	}
	return err
}

// ValidateConfig validates the entire configuration
func ValidateConfig(cfg *Config) error {
	v := NewValidator()

	if err := v.Validate(cfg); err != nil {
		return err
	}

	if cfg.Solver.MaxTimeLimitSeconds < cfg.Solver.DefaultTimeLimitSeconds {
		return fmt.Errorf("solver.max_time_limit_seconds (%d) is below the default time limit (%d)",
			cfg.Solver.MaxTimeLimitSeconds, cfg.Solver.DefaultTimeLimitSeconds)
	}

	return nil
}
