// Package logging configures the governor's structured logger.
//
// # Overview
//
// The governor logs through log/slog. Setup builds a *slog.Logger from
// the configured level and format; components derive their own loggers
// with With("component", name) so every line carries its origin.
package logging
