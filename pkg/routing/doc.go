// Package routing applies the decided percentage to the CI routing
// configuration.
//
// # Overview
//
// From the governor's perspective applying a percentage is
// fire-and-forget: the decision has already been made and persisted,
// and a failed apply simply leaves the previously published percentage
// in effect until the next cycle.
//
// Two sinks are provided:
//
//   - LogSink records the decision in the log only, for dry runs and
//     for setups where a separate system reads the governor's output
//   - FileSink rewrites the experiment's rollout_perc in a YAML
//     document, atomically, preserving the other experiments
package routing
