// Package cycle runs the governor's control loop.
//
// # Overview
//
// A Runner ties the pieces together: it loads the persisted regulator
// state, fetches the billing figures and the published baseline, asks
// the controller for a decision, applies the percentage through the
// routing sink, and persists the regulator snapshot. One Run call is
// one control cycle; the daemon schedules cycles, the run command
// executes exactly one.
//
// # Failure Semantics
//
// A cycle that cannot observe the world (billing or baseline fetch
// failure) makes no routing change and leaves the persisted state
// untouched. A cycle that decided but could not publish (sink failure)
// still persists its state so the integral history survives. Only a
// corrupt stored snapshot costs history: the runner logs it and starts
// the regulator cold.
package cycle
