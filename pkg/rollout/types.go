package rollout

import "context"

// Source provides the externally published baseline percentage.
type Source interface {
	// BaselinePercentage returns the current published rollout
	// percentage, expected (but not guaranteed) to be in [0, 100].
	BaselinePercentage(ctx context.Context) (float64, error)
}

// StaticSource is a Source that always returns a fixed value.
type StaticSource float64

// BaselinePercentage returns the fixed value.
func (s StaticSource) BaselinePercentage(ctx context.Context) (float64, error) {
	return float64(s), nil
}
