package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"polaris-ci/creditgov/pkg/cli"
	"polaris-ci/creditgov/pkg/config"
	"polaris-ci/creditgov/pkg/controller"
	"polaris-ci/creditgov/pkg/telemetry/metrics"
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run control cycles on the configured schedule",
	Long: `Run the governor as a long-lived process. Cycles fire on the configured
cron schedule, Prometheus metrics are served on the metrics listener, and
(when enabled) the configuration file is watched so controller tuning
changes apply without a restart.

Examples:
  # Run hourly (the default schedule)
  creditgov daemon

  # Run with an immediate first cycle
  CREDITGOV_SCHEDULE_RUN_ON_START=true creditgov daemon`,
	RunE: runDaemon,
}

func init() {
	rootCmd.AddCommand(daemonCmd)
}

func runDaemon(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return cli.NewConfigError(cfgFile, err.Error())
	}

	logger, err := buildLogger(cfg)
	if err != nil {
		return cli.NewCommandError("daemon", err)
	}

	var collector *metrics.Collector
	if cfg.Telemetry.Metrics.Enabled {
		collector = metrics.NewCollector(nil)
	}

	ctrl := buildController(cfg, logger)
	runner, store, err := buildRunner(cfg, ctrl, collector, logger)
	if err != nil {
		return cli.NewCommandError("daemon", err)
	}
	defer store.Close()

	ctx := cli.SetupSignalHandler()

	// Metrics listener
	var metricsSrv *http.Server
	if collector != nil {
		mux := http.NewServeMux()
		mux.Handle(cfg.Telemetry.Metrics.Path, collector.Handler())
		metricsSrv = &http.Server{
			Addr:         cfg.Telemetry.Metrics.ListenAddress,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		}
		go func() {
			logger.Info("metrics listener started",
				"address", cfg.Telemetry.Metrics.ListenAddress,
				"path", cfg.Telemetry.Metrics.Path,
			)
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics listener failed", "error", err)
			}
		}()
	}

	// Configuration watcher for hot retuning
	if cfg.Schedule.WatchConfig {
		watcher, err := config.NewWatcher(cfgFile, 0, logger)
		if err != nil {
			return cli.NewCommandError("daemon", err)
		}
		defer watcher.Stop()

		go func() {
			err := watcher.Watch(ctx, func() error {
				return retune(ctrl)
			})
			if err != nil {
				logger.Error("configuration watcher failed", "error", err)
			}
		}()
	}

	// Cycle scheduler
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.Schedule.Cron, func() {
		if err := runner.Run(ctx); err != nil {
			logger.Error("scheduled cycle failed", "error", err)
		}
	}); err != nil {
		return cli.NewCommandError("daemon", fmt.Errorf("invalid schedule: %w", err))
	}
	scheduler.Start()

	logger.Info("daemon started", "schedule", cfg.Schedule.Cron)

	if cfg.Schedule.RunOnStart {
		if err := runner.Run(ctx); err != nil {
			logger.Error("startup cycle failed", "error", err)
		}
	}

	<-ctx.Done()
	logger.Info("shutting down")

	// Stop scheduling new cycles, then wait for an in-flight one.
	cronCtx := scheduler.Stop()
	select {
	case <-cronCtx.Done():
	case <-time.After(30 * time.Second):
		logger.Warn("timed out waiting for in-flight cycle")
	}

	if metricsSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			logger.Error("metrics listener shutdown failed", "error", err)
		}
	}

	return nil
}

// retune reloads the configuration file and applies the controller
// gains to the running regulator. The integral accumulator survives a
// retune; only the gains change.
func retune(ctrl *controller.Controller) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("reload failed, keeping current tuning: %w", err)
	}

	ctrl.Retune(controller.Tuning{
		Proportional: &cfg.Controller.ProportionalGain,
		Integral:     &cfg.Controller.IntegralGain,
		Derivative:   &cfg.Controller.DerivativeGain,
	})
	return nil
}
