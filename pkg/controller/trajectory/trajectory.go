package trajectory

import "time"

// PeriodPosition locates an evaluation within its billing month.
type PeriodPosition struct {
	// DaysElapsed is the day of the month at evaluation time (1..DaysInMonth).
	DaysElapsed int

	// DaysInMonth is the number of days in the calendar month (28..31).
	DaysInMonth int
}

// DaysRemaining returns the number of days left in the month.
// It is zero or negative on the last day of the month.
func (p PeriodPosition) DaysRemaining() int {
	return p.DaysInMonth - p.DaysElapsed
}

// At derives the period position from a wall-clock time.
// The month length is the last day of the same calendar month.
func At(t time.Time) PeriodPosition {
	// Day 0 of the next month is the last day of this month.
	lastDay := time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()

	return PeriodPosition{
		DaysElapsed: t.Day(),
		DaysInMonth: lastDay,
	}
}

// Result contains the trajectory metrics for a single evaluation.
// It is recomputed on every call and never persisted.
type Result struct {
	// IdealSpend is the point on the straight-line budget trajectory
	// at the current elapsed-day ratio.
	IdealSpend float64

	// TargetDailySpend is the remaining budget divided by the days
	// remaining, or zero when no days remain.
	TargetDailySpend float64

	// Deviation is IdealSpend minus actual spend. Positive means
	// under-spending relative to plan; negative means over-spending.
	Deviation float64

	// DeviationPct is Deviation expressed as a percentage of the
	// target credit amount.
	DeviationPct float64
}

// Compute calculates the trajectory metrics for the given spend and
// period position. targetCredits must be positive; currentSpend must be
// non-negative. Both are caller-guaranteed preconditions.
func Compute(currentSpend float64, pos PeriodPosition, targetCredits float64) Result {
	idealSpend := float64(pos.DaysElapsed) / float64(pos.DaysInMonth) * targetCredits

	var targetDailySpend float64
	if remaining := pos.DaysRemaining(); remaining > 0 {
		targetDailySpend = (targetCredits - currentSpend) / float64(remaining)
	}

	deviation := idealSpend - currentSpend

	return Result{
		IdealSpend:       idealSpend,
		TargetDailySpend: targetDailySpend,
		Deviation:        deviation,
		DeviationPct:     deviation / targetCredits * 100,
	}
}
