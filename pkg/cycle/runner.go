package cycle

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"polaris-ci/creditgov/pkg/billing"
	"polaris-ci/creditgov/pkg/controller"
	"polaris-ci/creditgov/pkg/rollout"
	"polaris-ci/creditgov/pkg/routing"
	"polaris-ci/creditgov/pkg/statestore"
	"polaris-ci/creditgov/pkg/telemetry/metrics"
)

// Config configures a Runner.
type Config struct {
	// Controller produces the routing decisions.
	Controller *controller.Controller

	// Store persists regulator state between cycles.
	Store statestore.Store

	// Spend supplies the billing figures.
	Spend billing.SpendSource

	// Baseline supplies the externally published rollout percentage.
	Baseline rollout.Source

	// Sink applies the decided percentage.
	Sink routing.Sink

	// Metrics is optional; a nil collector disables instrumentation.
	Metrics *metrics.Collector

	// Identifier keys the persisted regulator state. Default: "default".
	Identifier string

	// LookbackDays is the spend-rate window in days. Default: 1.
	LookbackDays int

	// Now supplies the evaluation time, for tests and simulations.
	// Default: time.Now.
	Now func() time.Time
}

// Runner executes control cycles. Run is safe to call from overlapping
// schedules; a cycle that arrives while another is in flight is
// skipped, not queued.
type Runner struct {
	config Config
	logger *slog.Logger

	mu sync.Mutex
}

// NewRunner creates a runner from a validated configuration.
func NewRunner(cfg Config, logger *slog.Logger) (*Runner, error) {
	if cfg.Controller == nil {
		return nil, fmt.Errorf("cycle runner requires a controller")
	}
	if cfg.Store == nil {
		return nil, fmt.Errorf("cycle runner requires a state store")
	}
	if cfg.Spend == nil {
		return nil, fmt.Errorf("cycle runner requires a spend source")
	}
	if cfg.Baseline == nil {
		return nil, fmt.Errorf("cycle runner requires a baseline source")
	}
	if cfg.Sink == nil {
		return nil, fmt.Errorf("cycle runner requires a routing sink")
	}
	if cfg.Identifier == "" {
		cfg.Identifier = "default"
	}
	if cfg.LookbackDays <= 0 {
		cfg.LookbackDays = 1
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Runner{
		config: cfg,
		logger: logger.With("component", "cycle"),
	}, nil
}

// Run executes one control cycle.
func (r *Runner) Run(ctx context.Context) error {
	if !r.mu.TryLock() {
		r.logger.Warn("previous cycle still running, skipping")
		r.recordCycle("skipped", 0)
		return nil
	}
	defer r.mu.Unlock()

	runID := uuid.New().String()
	start := r.config.Now()
	logger := r.logger.With("run_id", runID)

	logger.Info("starting control cycle", "identifier", r.config.Identifier)

	err := r.run(ctx, logger, start)

	result := "success"
	if err != nil {
		result = "failure"
		logger.Error("control cycle failed", "error", err)
	}
	r.recordCycle(result, r.config.Now().Sub(start))

	return err
}

func (r *Runner) run(ctx context.Context, logger *slog.Logger, now time.Time) error {
	state, err := r.config.Store.Load(ctx, r.config.Identifier)
	if err != nil {
		// A snapshot that cannot be decoded is gone either way; a cold
		// start re-accumulates within a few cycles.
		logger.Warn("failed to load regulator state, starting fresh", "error", err)
		state = nil
	}
	r.config.Controller.Restore(state)

	currentSpend, err := r.config.Spend.CurrentPeriodSpend(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch current spend: %w", err)
	}

	spendRate, err := r.config.Spend.RecentSpendRate(ctx, r.config.LookbackDays)
	if err != nil {
		return fmt.Errorf("failed to fetch spend rate: %w", err)
	}

	baseline, err := r.config.Baseline.BaselinePercentage(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch baseline percentage: %w", err)
	}

	decision := r.config.Controller.Evaluate(currentSpend, spendRate, baseline, now)

	if err := r.config.Sink.ApplyPercentage(ctx, decision.Percentage); err != nil {
		// The decision stands; the previously published percentage
		// stays in effect until the next cycle.
		logger.Error("failed to apply routing percentage",
			"percentage", decision.Percentage,
			"error", err,
		)
	}

	if err := r.config.Store.Save(ctx, r.config.Identifier, decision.State); err != nil {
		return fmt.Errorf("failed to persist regulator state: %w", err)
	}

	if m := r.config.Metrics; m != nil {
		m.RecordDecision(decision.Percentage, currentSpend,
			decision.Trajectory.IdealSpend, decision.Trajectory.DeviationPct)
		m.RecordComponents(decision.State.Components[0],
			decision.State.Components[1], decision.State.Components[2])
	}

	logger.Info("control cycle complete",
		"percentage", decision.Percentage,
		"over_budget", decision.OverBudget,
	)

	return nil
}

func (r *Runner) recordCycle(result string, duration time.Duration) {
	if m := r.config.Metrics; m != nil {
		m.RecordCycle(result, duration)
	}
}
