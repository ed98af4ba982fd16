package config

import "time"

// Config is the root configuration for the governor.
type Config struct {
	// Budget describes the promotional credit pool.
	Budget BudgetConfig `yaml:"budget"`

	// Controller tunes the feedback regulator.
	Controller ControllerConfig `yaml:"controller"`

	// Billing configures the spend data source.
	Billing BillingConfig `yaml:"billing"`

	// Rollout configures where the published baseline comes from.
	Rollout RolloutConfig `yaml:"rollout"`

	// Routing configures where decided percentages go.
	Routing RoutingConfig `yaml:"routing"`

	// State configures regulator state persistence.
	State StateConfig `yaml:"state"`

	// Schedule configures the daemon's cycle cadence.
	Schedule ScheduleConfig `yaml:"schedule"`

	// Telemetry configures logging and metrics.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// BudgetConfig describes the credit pool being consumed.
type BudgetConfig struct {
	// TotalCredits is the full promotional credit pool.
	TotalCredits float64 `yaml:"total_credits"`

	// SafetyMargin is the fraction of the pool held back, in [0, 1).
	SafetyMargin float64 `yaml:"safety_margin"`
}

// ControllerConfig tunes the regulator. Zero values mean "use default".
type ControllerConfig struct {
	ProportionalGain float64 `yaml:"proportional_gain"`
	IntegralGain     float64 `yaml:"integral_gain"`
	DerivativeGain   float64 `yaml:"derivative_gain"`

	// OutputBound is the symmetric adjustment limit in percentage points.
	OutputBound float64 `yaml:"output_bound"`
}

// BillingConfig configures the spend data source.
type BillingConfig struct {
	// Provider selects the billing backend. Only "ternary" is supported.
	Provider string `yaml:"provider"`

	// BaseURL overrides the billing API endpoint.
	BaseURL string `yaml:"base_url"`

	// TenantID identifies the billing tenant.
	TenantID string `yaml:"tenant_id"`

	// ProjectID scopes queries to the credit account's project.
	ProjectID string `yaml:"project_id"`

	// APIKey authenticates billing requests. Prefer the
	// CREDITGOV_BILLING_API_KEY environment variable over the file.
	APIKey string `yaml:"api_key"`

	// Timeout bounds each billing request.
	Timeout time.Duration `yaml:"timeout"`

	// LookbackDays is the spend-rate window in full days.
	LookbackDays int `yaml:"lookback_days"`
}

// RolloutConfig configures the published-baseline source.
type RolloutConfig struct {
	// Source selects the baseline backend: "comment" or "static".
	Source string `yaml:"source"`

	// CommentURL is the GitHub comment permalink holding the
	// experiments block, for the "comment" source.
	CommentURL string `yaml:"comment_url"`

	// Experiment is the experiment key to read.
	Experiment string `yaml:"experiment"`

	// GitHubToken authenticates comment fetches. Prefer the
	// CREDITGOV_ROLLOUT_GITHUB_TOKEN environment variable.
	GitHubToken string `yaml:"github_token"`

	// StaticPercentage is the fixed baseline for the "static" source.
	StaticPercentage float64 `yaml:"static_percentage"`

	// Timeout bounds each comment fetch.
	Timeout time.Duration `yaml:"timeout"`
}

// RoutingConfig configures the percentage sink.
type RoutingConfig struct {
	// Sink selects the output: "log" or "file".
	Sink string `yaml:"sink"`

	// FilePath is the experiments YAML document for the "file" sink.
	FilePath string `yaml:"file_path"`

	// Experiment is the experiment key to write. Defaults to the
	// rollout experiment.
	Experiment string `yaml:"experiment"`
}

// StateConfig configures regulator state persistence.
type StateConfig struct {
	// Backend selects the store: "file" or "sqlite".
	Backend string `yaml:"backend"`

	// FileDir is the snapshot directory for the "file" backend.
	FileDir string `yaml:"file_dir"`

	// SQLitePath is the database path for the "sqlite" backend.
	SQLitePath string `yaml:"sqlite_path"`

	// Identifier keys the persisted state, allowing several governors
	// to share a store.
	Identifier string `yaml:"identifier"`
}

// ScheduleConfig configures the daemon.
type ScheduleConfig struct {
	// Cron is the cycle cadence in standard 5-field cron syntax.
	Cron string `yaml:"cron"`

	// RunOnStart triggers one cycle immediately when the daemon starts.
	RunOnStart bool `yaml:"run_on_start"`

	// WatchConfig reloads controller tuning when the configuration
	// file changes.
	WatchConfig bool `yaml:"watch_config"`
}

// TelemetryConfig configures logging and metrics.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	// Level is the minimum log level ("debug", "info", "warn", "error").
	Level string `yaml:"level"`

	// Format is the output format ("json", "text").
	Format string `yaml:"format"`

	// AddSource includes file and line number in logs.
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	// Enabled turns the metrics listener on.
	Enabled bool `yaml:"enabled"`

	// ListenAddress is the metrics listener address.
	ListenAddress string `yaml:"listen_address"`

	// Path is the exposition endpoint path.
	Path string `yaml:"path"`
}
