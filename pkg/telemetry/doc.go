// Package telemetry groups the governor's observability concerns.
//
// Subpackages:
//
//   - logging: structured logger setup on log/slog
//   - metrics: Prometheus collectors and the exposition handler
package telemetry
