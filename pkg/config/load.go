package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file, applies defaults,
// and validates the result. Environment variables are not consulted;
// use LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and
// applies CREDITGOV_* environment variable overrides. Environment
// variables always take precedence over file values.
//
// The loading sequence is:
//  1. Load YAML from file
//  2. Apply default values
//  3. Apply environment variable overrides
//  4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// applyEnvOverrides applies CREDITGOV_SECTION_FIELD environment
// variables to the configuration.
func applyEnvOverrides(cfg *Config) {
	// Budget overrides
	if val := os.Getenv("CREDITGOV_BUDGET_TOTAL_CREDITS"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Budget.TotalCredits = f
		}
	}
	if val := os.Getenv("CREDITGOV_BUDGET_SAFETY_MARGIN"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Budget.SafetyMargin = f
		}
	}

	// Controller overrides
	if val := os.Getenv("CREDITGOV_CONTROLLER_PROPORTIONAL_GAIN"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Controller.ProportionalGain = f
		}
	}
	if val := os.Getenv("CREDITGOV_CONTROLLER_INTEGRAL_GAIN"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Controller.IntegralGain = f
		}
	}
	if val := os.Getenv("CREDITGOV_CONTROLLER_DERIVATIVE_GAIN"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Controller.DerivativeGain = f
		}
	}
	if val := os.Getenv("CREDITGOV_CONTROLLER_OUTPUT_BOUND"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Controller.OutputBound = f
		}
	}

	// Billing overrides
	if val := os.Getenv("CREDITGOV_BILLING_BASE_URL"); val != "" {
		cfg.Billing.BaseURL = val
	}
	if val := os.Getenv("CREDITGOV_BILLING_TENANT_ID"); val != "" {
		cfg.Billing.TenantID = val
	}
	if val := os.Getenv("CREDITGOV_BILLING_PROJECT_ID"); val != "" {
		cfg.Billing.ProjectID = val
	}
	if val := os.Getenv("CREDITGOV_BILLING_API_KEY"); val != "" {
		cfg.Billing.APIKey = val
	}
	if val := os.Getenv("CREDITGOV_BILLING_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Billing.Timeout = d
		}
	}
	if val := os.Getenv("CREDITGOV_BILLING_LOOKBACK_DAYS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Billing.LookbackDays = i
		}
	}

	// Rollout overrides
	if val := os.Getenv("CREDITGOV_ROLLOUT_SOURCE"); val != "" {
		cfg.Rollout.Source = val
	}
	if val := os.Getenv("CREDITGOV_ROLLOUT_COMMENT_URL"); val != "" {
		cfg.Rollout.CommentURL = val
	}
	if val := os.Getenv("CREDITGOV_ROLLOUT_EXPERIMENT"); val != "" {
		cfg.Rollout.Experiment = val
	}
	if val := os.Getenv("CREDITGOV_ROLLOUT_GITHUB_TOKEN"); val != "" {
		cfg.Rollout.GitHubToken = val
	}
	if val := os.Getenv("CREDITGOV_ROLLOUT_STATIC_PERCENTAGE"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Rollout.StaticPercentage = f
		}
	}

	// Routing overrides
	if val := os.Getenv("CREDITGOV_ROUTING_SINK"); val != "" {
		cfg.Routing.Sink = val
	}
	if val := os.Getenv("CREDITGOV_ROUTING_FILE_PATH"); val != "" {
		cfg.Routing.FilePath = val
	}
	if val := os.Getenv("CREDITGOV_ROUTING_EXPERIMENT"); val != "" {
		cfg.Routing.Experiment = val
	}

	// State overrides
	if val := os.Getenv("CREDITGOV_STATE_BACKEND"); val != "" {
		cfg.State.Backend = val
	}
	if val := os.Getenv("CREDITGOV_STATE_FILE_DIR"); val != "" {
		cfg.State.FileDir = val
	}
	if val := os.Getenv("CREDITGOV_STATE_SQLITE_PATH"); val != "" {
		cfg.State.SQLitePath = val
	}
	if val := os.Getenv("CREDITGOV_STATE_IDENTIFIER"); val != "" {
		cfg.State.Identifier = val
	}

	// Schedule overrides
	if val := os.Getenv("CREDITGOV_SCHEDULE_CRON"); val != "" {
		cfg.Schedule.Cron = val
	}
	if val := os.Getenv("CREDITGOV_SCHEDULE_RUN_ON_START"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Schedule.RunOnStart = b
		}
	}
	if val := os.Getenv("CREDITGOV_SCHEDULE_WATCH_CONFIG"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Schedule.WatchConfig = b
		}
	}

	// Telemetry overrides
	if val := os.Getenv("CREDITGOV_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("CREDITGOV_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("CREDITGOV_TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("CREDITGOV_TELEMETRY_METRICS_LISTEN_ADDRESS"); val != "" {
		cfg.Telemetry.Metrics.ListenAddress = val
	}
	if val := os.Getenv("CREDITGOV_TELEMETRY_METRICS_PATH"); val != "" {
		cfg.Telemetry.Metrics.Path = val
	}
}
