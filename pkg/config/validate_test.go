package config

import (
	"strings"
	"testing"
)

// validConfig returns a configuration that passes validation.
func validConfig() Config {
	cfg := Config{
		Billing: BillingConfig{
			TenantID:  "acme",
			ProjectID: "ci-credits",
			APIKey:    "key",
		},
		Rollout: RolloutConfig{Experiment: "lf"},
	}
	ApplyDefaults(&cfg)
	return cfg
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := validConfig()
	if err := Validate(&cfg); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidate_FieldErrors(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{
			name:      "zero total credits",
			mutate:    func(c *Config) { c.Budget.TotalCredits = -1 },
			wantField: "budget.total_credits",
		},
		{
			name:      "safety margin out of range",
			mutate:    func(c *Config) { c.Budget.SafetyMargin = 1.0 },
			wantField: "budget.safety_margin",
		},
		{
			name:      "negative gain",
			mutate:    func(c *Config) { c.Controller.IntegralGain = -0.1 },
			wantField: "controller.integral_gain",
		},
		{
			name:      "output bound too large",
			mutate:    func(c *Config) { c.Controller.OutputBound = 101 },
			wantField: "controller.output_bound",
		},
		{
			name:      "unknown billing provider",
			mutate:    func(c *Config) { c.Billing.Provider = "stripe" },
			wantField: "billing.provider",
		},
		{
			name:      "missing API key",
			mutate:    func(c *Config) { c.Billing.APIKey = "" },
			wantField: "billing.api_key",
		},
		{
			name:      "zero lookback",
			mutate:    func(c *Config) { c.Billing.LookbackDays = -1 },
			wantField: "billing.lookback_days",
		},
		{
			name:      "comment source without URL",
			mutate:    func(c *Config) { c.Rollout.Source = "comment" },
			wantField: "rollout.comment_url",
		},
		{
			name:      "unknown rollout source",
			mutate:    func(c *Config) { c.Rollout.Source = "dns" },
			wantField: "rollout.source",
		},
		{
			name:      "file sink without path",
			mutate:    func(c *Config) { c.Routing.Sink = "file" },
			wantField: "routing.file_path",
		},
		{
			name:      "unknown state backend",
			mutate:    func(c *Config) { c.State.Backend = "redis" },
			wantField: "state.backend",
		},
		{
			name:      "invalid cron expression",
			mutate:    func(c *Config) { c.Schedule.Cron = "every hour" },
			wantField: "schedule.cron",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := Validate(&cfg)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantField) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.wantField)
			}
		})
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Budget.TotalCredits = 0
	cfg.Billing.APIKey = ""
	cfg.Schedule.Cron = "bogus"

	err := Validate(&cfg)
	if err == nil {
		t.Fatal("expected validation error")
	}

	verr, ok := err.(ValidationError)
	if !ok {
		t.Fatalf("error type = %T, want ValidationError", err)
	}
	if len(verr.Errors) != 3 {
		t.Errorf("collected %d errors, want 3: %v", len(verr.Errors), verr)
	}
}
