package config

import "time"

// Default values for configuration fields.
const (
	// Budget defaults
	DefaultTotalCredits = 500000.0
	DefaultSafetyMargin = 0.02

	// Controller defaults
	DefaultProportionalGain = 2.0
	DefaultIntegralGain     = 0.15
	DefaultDerivativeGain   = 0.5
	DefaultOutputBound      = 40.0

	// Billing defaults
	DefaultBillingProvider = "ternary"
	DefaultBillingTimeout  = 10 * time.Second
	DefaultLookbackDays    = 1

	// Rollout defaults
	DefaultRolloutSource    = "static"
	DefaultStaticPercentage = 35.0
	DefaultRolloutTimeout   = 10 * time.Second

	// Routing defaults
	DefaultRoutingSink = "log"

	// State defaults
	DefaultStateBackend    = "file"
	DefaultStateFileDir    = "data/state"
	DefaultSQLitePath      = "data/creditgov.db"
	DefaultStateIdentifier = "default"

	// Schedule defaults
	DefaultCronSchedule = "0 * * * *"

	// Telemetry defaults
	DefaultLoggingLevel  = "info"
	DefaultLoggingFormat = "json"
	DefaultMetricsListen = "127.0.0.1:9090"
	DefaultMetricsPath   = "/metrics"
)

// ApplyDefaults applies default values to a Config struct.
// It sets defaults for any fields that have zero values and is
// idempotent.
func ApplyDefaults(cfg *Config) {
	if cfg.Budget.TotalCredits == 0 {
		cfg.Budget.TotalCredits = DefaultTotalCredits
	}
	if cfg.Budget.SafetyMargin == 0 {
		cfg.Budget.SafetyMargin = DefaultSafetyMargin
	}

	if cfg.Controller.ProportionalGain == 0 {
		cfg.Controller.ProportionalGain = DefaultProportionalGain
	}
	if cfg.Controller.IntegralGain == 0 {
		cfg.Controller.IntegralGain = DefaultIntegralGain
	}
	if cfg.Controller.DerivativeGain == 0 {
		cfg.Controller.DerivativeGain = DefaultDerivativeGain
	}
	if cfg.Controller.OutputBound == 0 {
		cfg.Controller.OutputBound = DefaultOutputBound
	}

	if cfg.Billing.Provider == "" {
		cfg.Billing.Provider = DefaultBillingProvider
	}
	if cfg.Billing.Timeout == 0 {
		cfg.Billing.Timeout = DefaultBillingTimeout
	}
	if cfg.Billing.LookbackDays == 0 {
		cfg.Billing.LookbackDays = DefaultLookbackDays
	}

	if cfg.Rollout.Source == "" {
		cfg.Rollout.Source = DefaultRolloutSource
	}
	if cfg.Rollout.StaticPercentage == 0 {
		cfg.Rollout.StaticPercentage = DefaultStaticPercentage
	}
	if cfg.Rollout.Timeout == 0 {
		cfg.Rollout.Timeout = DefaultRolloutTimeout
	}

	if cfg.Routing.Sink == "" {
		cfg.Routing.Sink = DefaultRoutingSink
	}
	if cfg.Routing.Experiment == "" {
		cfg.Routing.Experiment = cfg.Rollout.Experiment
	}

	if cfg.State.Backend == "" {
		cfg.State.Backend = DefaultStateBackend
	}
	if cfg.State.FileDir == "" {
		cfg.State.FileDir = DefaultStateFileDir
	}
	if cfg.State.SQLitePath == "" {
		cfg.State.SQLitePath = DefaultSQLitePath
	}
	if cfg.State.Identifier == "" {
		cfg.State.Identifier = DefaultStateIdentifier
	}

	if cfg.Schedule.Cron == "" {
		cfg.Schedule.Cron = DefaultCronSchedule
	}

	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.ListenAddress == "" {
		cfg.Telemetry.Metrics.ListenAddress = DefaultMetricsListen
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
}
