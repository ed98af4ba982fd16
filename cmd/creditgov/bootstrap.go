package main

import (
	"fmt"
	"log/slog"

	"polaris-ci/creditgov/pkg/billing"
	"polaris-ci/creditgov/pkg/config"
	"polaris-ci/creditgov/pkg/controller"
	"polaris-ci/creditgov/pkg/controller/pid"
	"polaris-ci/creditgov/pkg/cycle"
	"polaris-ci/creditgov/pkg/rollout"
	"polaris-ci/creditgov/pkg/routing"
	"polaris-ci/creditgov/pkg/statestore"
	"polaris-ci/creditgov/pkg/telemetry/logging"
	"polaris-ci/creditgov/pkg/telemetry/metrics"
)

// loadConfig loads and validates the configuration named by the global
// --config flag, with environment overrides applied.
func loadConfig() (*config.Config, error) {
	return config.LoadConfigWithEnvOverrides(cfgFile)
}

// buildLogger constructs the process logger. The --verbose flag forces
// debug level regardless of the configured level.
func buildLogger(cfg *config.Config) (*slog.Logger, error) {
	level := cfg.Telemetry.Logging.Level
	if verbose {
		level = "debug"
	}

	logger, err := logging.Setup(logging.Config{
		Level:     level,
		Format:    cfg.Telemetry.Logging.Format,
		AddSource: cfg.Telemetry.Logging.AddSource,
	})
	if err != nil {
		return nil, err
	}

	slog.SetDefault(logger)
	return logger, nil
}

// buildController constructs the controller from configuration.
func buildController(cfg *config.Config, logger *slog.Logger) *controller.Controller {
	return controller.New(controller.Config{
		Budget: controller.BudgetConfig{
			TotalCredits: cfg.Budget.TotalCredits,
			SafetyMargin: cfg.Budget.SafetyMargin,
		},
		Gains: pid.Gains{
			Proportional: cfg.Controller.ProportionalGain,
			Integral:     cfg.Controller.IntegralGain,
			Derivative:   cfg.Controller.DerivativeGain,
		},
		OutputBound: cfg.Controller.OutputBound,
	}, logger)
}

// buildStore constructs the configured state store. The caller owns the
// returned store and must close it.
func buildStore(cfg *config.Config) (statestore.Store, error) {
	switch cfg.State.Backend {
	case "sqlite":
		return statestore.NewSQLiteStore(cfg.State.SQLitePath)
	case "file":
		return statestore.NewFileStore(cfg.State.FileDir)
	default:
		return nil, fmt.Errorf("unsupported state backend: %s", cfg.State.Backend)
	}
}

// buildSpendSource constructs the billing client.
func buildSpendSource(cfg *config.Config, logger *slog.Logger) (billing.SpendSource, error) {
	switch cfg.Billing.Provider {
	case "ternary":
		return billing.NewTernaryClient(billing.TernaryConfig{
			BaseURL:   cfg.Billing.BaseURL,
			TenantID:  cfg.Billing.TenantID,
			ProjectID: cfg.Billing.ProjectID,
			APIKey:    cfg.Billing.APIKey,
			Timeout:   cfg.Billing.Timeout,
		}, logger)
	default:
		return nil, fmt.Errorf("unsupported billing provider: %s", cfg.Billing.Provider)
	}
}

// buildBaselineSource constructs the published-baseline source.
func buildBaselineSource(cfg *config.Config, logger *slog.Logger) (rollout.Source, error) {
	switch cfg.Rollout.Source {
	case "static":
		return rollout.StaticSource(cfg.Rollout.StaticPercentage), nil
	case "comment":
		repo, _, commentID, err := rollout.ParseCommentURL(cfg.Rollout.CommentURL)
		if err != nil {
			return nil, err
		}
		return rollout.NewCommentSource(rollout.CommentConfig{
			Repo:       repo,
			CommentID:  commentID,
			Experiment: cfg.Rollout.Experiment,
			Token:      cfg.Rollout.GitHubToken,
			Timeout:    cfg.Rollout.Timeout,
		}, logger)
	default:
		return nil, fmt.Errorf("unsupported rollout source: %s", cfg.Rollout.Source)
	}
}

// buildSink constructs the routing sink.
func buildSink(cfg *config.Config, logger *slog.Logger) (routing.Sink, error) {
	switch cfg.Routing.Sink {
	case "log":
		return routing.NewLogSink(logger), nil
	case "file":
		return routing.NewFileSink(cfg.Routing.FilePath, cfg.Routing.Experiment, logger)
	default:
		return nil, fmt.Errorf("unsupported routing sink: %s", cfg.Routing.Sink)
	}
}

// buildRunner wires a cycle runner around an existing controller. The
// caller must close the returned store.
func buildRunner(cfg *config.Config, ctrl *controller.Controller, collector *metrics.Collector, logger *slog.Logger) (*cycle.Runner, statestore.Store, error) {
	store, err := buildStore(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open state store: %w", err)
	}

	spend, err := buildSpendSource(cfg, logger)
	if err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("failed to create billing client: %w", err)
	}

	baseline, err := buildBaselineSource(cfg, logger)
	if err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("failed to create baseline source: %w", err)
	}

	sink, err := buildSink(cfg, logger)
	if err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("failed to create routing sink: %w", err)
	}

	runner, err := cycle.NewRunner(cycle.Config{
		Controller:   ctrl,
		Store:        store,
		Spend:        spend,
		Baseline:     baseline,
		Sink:         sink,
		Metrics:      collector,
		Identifier:   cfg.State.Identifier,
		LookbackDays: cfg.Billing.LookbackDays,
	}, logger)
	if err != nil {
		store.Close()
		return nil, nil, err
	}

	return runner, store, nil
}
