package billing

import "context"

// SpendSource provides the spend figures one evaluation cycle needs.
// Both values are non-negative credit amounts.
type SpendSource interface {
	// CurrentPeriodSpend returns the cumulative spend from the start
	// of the current billing month until now.
	CurrentPeriodSpend(ctx context.Context) (float64, error)

	// RecentSpendRate returns the average credits/day over the last
	// lookbackDays full days.
	RecentSpendRate(ctx context.Context, lookbackDays int) (float64, error)
}
