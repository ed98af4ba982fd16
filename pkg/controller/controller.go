package controller

import (
	"log/slog"
	"sync"
	"time"

	"polaris-ci/creditgov/pkg/controller/pid"
	"polaris-ci/creditgov/pkg/controller/trajectory"
	"polaris-ci/creditgov/pkg/statestore"
)

// Controller combines the trajectory model with a PID regulator to
// produce routing decisions. All regulator access is guarded by a
// mutex: the daemon retunes from its config-watcher goroutine while
// scheduled evaluations run.
type Controller struct {
	budget BudgetConfig
	logger *slog.Logger

	mu        sync.Mutex
	regulator *pid.Regulator
}

// New creates a controller. Zero-value gains and output bound fall back
// to the package defaults.
func New(cfg Config, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}

	gains := cfg.Gains
	if gains == (pid.Gains{}) {
		gains = pid.Gains{
			Proportional: DefaultProportionalGain,
			Integral:     DefaultIntegralGain,
			Derivative:   DefaultDerivativeGain,
		}
	}

	bound := cfg.OutputBound
	if bound == 0 {
		bound = DefaultOutputBound
	}

	return &Controller{
		budget:    cfg.Budget,
		regulator: pid.New(gains, bound),
		logger:    logger.With("component", "controller"),
	}
}

// Budget returns the controller's budget configuration.
func (c *Controller) Budget() BudgetConfig {
	return c.budget
}

// Restore loads a persisted regulator snapshot. A nil state is a cold
// start; restoring never fails, it only resets to a zero accumulator
// when the snapshot is unusable.
func (c *Controller) Restore(state *statestore.RegulatorState) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if state == nil {
		c.regulator.Reset()
		c.logger.Info("no previous regulator state, starting fresh")
		return
	}

	c.regulator.Restore(state.Integral, state.LastUpdate)
	c.logger.Info("restored regulator state",
		"integral", c.regulator.Integral(),
		"last_update", state.LastUpdate,
	)
}

// Export snapshots the regulator for persistence. The snapshot
// round-trips through Restore exactly.
func (c *Controller) Export() *statestore.RegulatorState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.export()
}

// export is Export without the lock, for callers already holding it.
func (c *Controller) export() *statestore.RegulatorState {
	components := c.regulator.Components()

	lastUpdate := c.regulator.LastUpdate()
	if lastUpdate.IsZero() {
		lastUpdate = time.Now()
	}

	return &statestore.RegulatorState{
		Integral:   c.regulator.Integral(),
		LastUpdate: lastUpdate,
		Components: [3]float64{
			components.Proportional,
			components.Integral,
			components.Derivative,
		},
	}
}

// Retune replaces any subset of the regulator gains in place. Safe to
// call while an evaluation is in flight; the new gains apply from the
// next evaluation.
func (c *Controller) Retune(t Tuning) {
	c.mu.Lock()
	defer c.mu.Unlock()

	gains := c.regulator.Gains()

	if t.Proportional != nil {
		gains.Proportional = *t.Proportional
	}
	if t.Integral != nil {
		gains.Integral = *t.Integral
	}
	if t.Derivative != nil {
		gains.Derivative = *t.Derivative
	}

	c.regulator.SetGains(gains)
	c.logger.Info("updated regulator tuning",
		"kp", gains.Proportional,
		"ki", gains.Integral,
		"kd", gains.Derivative,
	)
}

// Evaluate computes the routing percentage for one cycle.
//
// currentSpend is the month-to-date spend on the credit account,
// dailySpendRate a recent credits/day figure used only as a readiness
// gate, and baselinePercentage the externally published rollout value.
// The evaluation time supplies the calendar position; pass time.Now()
// outside of tests and simulations.
func (c *Controller) Evaluate(currentSpend, dailySpendRate, baselinePercentage float64, at time.Time) Decision {
	c.mu.Lock()
	defer c.mu.Unlock()

	target := c.budget.TargetCredits()

	// Safety check: at or over budget means no further credit spend,
	// no matter what the regulator would say. The regulator is not
	// advanced in this branch.
	if currentSpend >= target {
		c.logger.Warn("at or over target spend",
			"current_spend", currentSpend,
			"target_credits", target,
		)
		return Decision{
			Percentage: 0,
			OverBudget: true,
			Position:   trajectory.At(at),
			State:      c.export(),
		}
	}

	pos := trajectory.At(at)
	traj := trajectory.Compute(currentSpend, pos, target)

	// The spend rate gates whether the published baseline is a usable
	// estimate; its value is otherwise unused.
	base := fallbackBasePercentage
	if dailySpendRate > 0 && traj.TargetDailySpend > 0 {
		base = clamp(baselinePercentage, 0, 100)
	}

	adjustment := c.regulator.Update(-traj.DeviationPct, at)
	percentage := clamp(base+adjustment, 0, 100)

	components := c.regulator.Components()
	c.logger.Info("evaluated routing percentage",
		"day", pos.DaysElapsed,
		"days_in_month", pos.DaysInMonth,
		"current_spend", currentSpend,
		"ideal_spend", traj.IdealSpend,
		"target_daily_spend", traj.TargetDailySpend,
		"daily_spend_rate", dailySpendRate,
		"deviation", traj.Deviation,
		"deviation_pct", traj.DeviationPct,
		"base_percentage", base,
		"adjustment", adjustment,
		"percentage", percentage,
	)
	c.logger.Debug("regulator components",
		"p", components.Proportional,
		"i", components.Integral,
		"d", components.Derivative,
	)

	return Decision{
		Percentage:     percentage,
		BasePercentage: base,
		Adjustment:     adjustment,
		Position:       pos,
		Trajectory:     traj,
		State:          c.export(),
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
