package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

// FieldError represents a validation error for a specific configuration
// field.
type FieldError struct {
	// Field is the dotted path to the configuration field
	// (e.g., "budget.total_credits").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a
// configuration. All field errors are collected before reporting.
type ValidationError struct {
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration. It returns a
// ValidationError listing every rule that failed, or nil.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateBudget(&cfg.Budget)...)
	errs = append(errs, validateController(&cfg.Controller)...)
	errs = append(errs, validateBilling(&cfg.Billing)...)
	errs = append(errs, validateRollout(&cfg.Rollout)...)
	errs = append(errs, validateRouting(&cfg.Routing)...)
	errs = append(errs, validateState(&cfg.State)...)
	errs = append(errs, validateSchedule(&cfg.Schedule)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

func validateBudget(cfg *BudgetConfig) []FieldError {
	var errs []FieldError

	if cfg.TotalCredits <= 0 {
		errs = append(errs, FieldError{
			Field:   "budget.total_credits",
			Message: "total credits must be positive",
		})
	}
	if cfg.SafetyMargin < 0 || cfg.SafetyMargin >= 1 {
		errs = append(errs, FieldError{
			Field:   "budget.safety_margin",
			Message: "safety margin must be in [0, 1)",
		})
	}

	return errs
}

func validateController(cfg *ControllerConfig) []FieldError {
	var errs []FieldError

	if cfg.ProportionalGain < 0 {
		errs = append(errs, FieldError{
			Field:   "controller.proportional_gain",
			Message: "gain must be non-negative",
		})
	}
	if cfg.IntegralGain < 0 {
		errs = append(errs, FieldError{
			Field:   "controller.integral_gain",
			Message: "gain must be non-negative",
		})
	}
	if cfg.DerivativeGain < 0 {
		errs = append(errs, FieldError{
			Field:   "controller.derivative_gain",
			Message: "gain must be non-negative",
		})
	}
	if cfg.OutputBound < 0 || cfg.OutputBound > 100 {
		errs = append(errs, FieldError{
			Field:   "controller.output_bound",
			Message: "output bound must be in [0, 100]",
		})
	}

	return errs
}

func validateBilling(cfg *BillingConfig) []FieldError {
	var errs []FieldError

	if cfg.Provider != "ternary" {
		errs = append(errs, FieldError{
			Field:   "billing.provider",
			Message: fmt.Sprintf("unknown provider %q (supported: ternary)", cfg.Provider),
		})
	}
	if cfg.TenantID == "" {
		errs = append(errs, FieldError{
			Field:   "billing.tenant_id",
			Message: "tenant ID is required",
		})
	}
	if cfg.ProjectID == "" {
		errs = append(errs, FieldError{
			Field:   "billing.project_id",
			Message: "project ID is required",
		})
	}
	if cfg.APIKey == "" {
		errs = append(errs, FieldError{
			Field:   "billing.api_key",
			Message: "API key is required (set CREDITGOV_BILLING_API_KEY)",
		})
	}
	if cfg.Timeout < 0 {
		errs = append(errs, FieldError{
			Field:   "billing.timeout",
			Message: "timeout must be positive",
		})
	}
	if cfg.LookbackDays < 1 {
		errs = append(errs, FieldError{
			Field:   "billing.lookback_days",
			Message: "lookback must be at least one day",
		})
	}

	return errs
}

func validateRollout(cfg *RolloutConfig) []FieldError {
	var errs []FieldError

	switch cfg.Source {
	case "static":
		if cfg.StaticPercentage < 0 || cfg.StaticPercentage > 100 {
			errs = append(errs, FieldError{
				Field:   "rollout.static_percentage",
				Message: "static percentage must be in [0, 100]",
			})
		}
	case "comment":
		if cfg.CommentURL == "" {
			errs = append(errs, FieldError{
				Field:   "rollout.comment_url",
				Message: "comment URL is required for the comment source",
			})
		}
		if cfg.Experiment == "" {
			errs = append(errs, FieldError{
				Field:   "rollout.experiment",
				Message: "experiment name is required for the comment source",
			})
		}
	default:
		errs = append(errs, FieldError{
			Field:   "rollout.source",
			Message: fmt.Sprintf("unknown source %q (supported: static, comment)", cfg.Source),
		})
	}

	return errs
}

func validateRouting(cfg *RoutingConfig) []FieldError {
	var errs []FieldError

	switch cfg.Sink {
	case "log":
	case "file":
		if cfg.FilePath == "" {
			errs = append(errs, FieldError{
				Field:   "routing.file_path",
				Message: "file path is required for the file sink",
			})
		}
		if cfg.Experiment == "" {
			errs = append(errs, FieldError{
				Field:   "routing.experiment",
				Message: "experiment name is required for the file sink",
			})
		}
	default:
		errs = append(errs, FieldError{
			Field:   "routing.sink",
			Message: fmt.Sprintf("unknown sink %q (supported: log, file)", cfg.Sink),
		})
	}

	return errs
}

func validateState(cfg *StateConfig) []FieldError {
	var errs []FieldError

	switch cfg.Backend {
	case "file":
		if cfg.FileDir == "" {
			errs = append(errs, FieldError{
				Field:   "state.file_dir",
				Message: "directory is required for the file backend",
			})
		}
	case "sqlite":
		if cfg.SQLitePath == "" {
			errs = append(errs, FieldError{
				Field:   "state.sqlite_path",
				Message: "database path is required for the sqlite backend",
			})
		}
	default:
		errs = append(errs, FieldError{
			Field:   "state.backend",
			Message: fmt.Sprintf("unknown backend %q (supported: file, sqlite)", cfg.Backend),
		})
	}

	if cfg.Identifier == "" {
		errs = append(errs, FieldError{
			Field:   "state.identifier",
			Message: "identifier is required",
		})
	}

	return errs
}

func validateSchedule(cfg *ScheduleConfig) []FieldError {
	var errs []FieldError

	if _, err := cron.ParseStandard(cfg.Cron); err != nil {
		errs = append(errs, FieldError{
			Field:   "schedule.cron",
			Message: fmt.Sprintf("invalid cron expression: %v", err),
		})
	}

	return errs
}
