package routing

import (
	"context"
	"log/slog"
)

// Sink applies a routing percentage to the CI configuration.
type Sink interface {
	// ApplyPercentage publishes the share of jobs, in [0, 100], to
	// route to the credit account.
	ApplyPercentage(ctx context.Context, percentage float64) error
}

// LogSink records the routing decision in the log without touching any
// external configuration.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink creates a log-only sink.
func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger.With("component", "routing")}
}

// ApplyPercentage logs the new percentage.
func (s *LogSink) ApplyPercentage(ctx context.Context, percentage float64) error {
	s.logger.Info("updating job routing", "percentage", percentage)
	return nil
}
