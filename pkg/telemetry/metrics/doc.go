// Package metrics provides Prometheus instrumentation for the governor.
//
// # Overview
//
// A Collector owns its own Prometheus registry and exposes one family of
// metrics per control cycle: the decided percentage, the trajectory
// deviation, the regulator components, the observed spend, and cycle
// counts and durations. The collector's Handler serves the standard
// exposition endpoint for the daemon's metrics listener.
//
// All metric names carry the creditgov_ prefix.
package metrics
