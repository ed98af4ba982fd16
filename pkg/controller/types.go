package controller

import (
	"polaris-ci/creditgov/pkg/controller/pid"
	"polaris-ci/creditgov/pkg/controller/trajectory"
	"polaris-ci/creditgov/pkg/statestore"
)

// Default tuning. The gains track the spending trajectory closely and
// were chosen against the negated-deviation sign convention.
const (
	// DefaultProportionalGain responds to the current trajectory error.
	DefaultProportionalGain = 2.0

	// DefaultIntegralGain corrects accumulated error.
	DefaultIntegralGain = 0.15

	// DefaultDerivativeGain dampens oscillations.
	DefaultDerivativeGain = 0.5

	// DefaultOutputBound allows adjustments of up to 40 percentage
	// points in either direction.
	DefaultOutputBound = 40.0

	// fallbackBasePercentage is used when the spend-rate gate fails
	// and the external baseline cannot be trusted yet.
	fallbackBasePercentage = 50.0
)

// BudgetConfig describes the credit pool being consumed. It is
// immutable for the lifetime of a controller.
type BudgetConfig struct {
	// TotalCredits is the full promotional credit pool.
	TotalCredits float64

	// SafetyMargin is the fraction of the pool held back as a buffer,
	// in [0, 1). A 0.02 margin targets 98% consumption.
	SafetyMargin float64
}

// TargetCredits returns the spend ceiling the controller steers toward.
func (b BudgetConfig) TargetCredits() float64 {
	return b.TotalCredits * (1 - b.SafetyMargin)
}

// Config configures a Controller.
type Config struct {
	// Budget is the credit pool definition. TotalCredits must be
	// positive and SafetyMargin in [0, 1).
	Budget BudgetConfig

	// Gains are the regulator gains. Zero-value gains are replaced by
	// the defaults.
	Gains pid.Gains

	// OutputBound is the symmetric adjustment range in percentage
	// points. Defaults to DefaultOutputBound when zero.
	OutputBound float64
}

// Tuning carries an optional replacement for each regulator gain.
// Nil fields leave the current gain untouched.
type Tuning struct {
	Proportional *float64
	Integral     *float64
	Derivative   *float64
}

// Decision is the outcome of one evaluation. It has no lifecycle of its
// own; the caller applies the percentage and then persists the state
// snapshot.
type Decision struct {
	// Percentage is the share of CI jobs to route to the credit
	// account, always in [0, 100].
	Percentage float64

	// BasePercentage is the baseline before regulator adjustment.
	BasePercentage float64

	// Adjustment is the bounded regulator output added to the base.
	Adjustment float64

	// OverBudget reports whether the evaluation short-circuited
	// because spend reached the target.
	OverBudget bool

	// Position is the calendar position the evaluation used.
	Position trajectory.PeriodPosition

	// Trajectory holds the trajectory metrics. Zero when OverBudget
	// short-circuited the evaluation.
	Trajectory trajectory.Result

	// State is the regulator snapshot after this evaluation, ready to
	// be persisted.
	State *statestore.RegulatorState
}
