// Package controller implements the budget-trajectory feedback
// controller that decides what share of CI workload to route to the
// promotional-credit account.
//
// # Overview
//
// Each evaluation converts the current month-to-date spend, a recent
// daily spend rate, and an externally supplied baseline percentage into
// a single routing percentage:
//
//  1. If spend is at or over the safety-bounded target, the percentage
//     is forced to zero and the regulator is not touched.
//  2. The trajectory model computes the deviation of actual spend from
//     the straight-line plan.
//  3. The negated deviation percentage feeds a PID regulator whose
//     bounded output adjusts the baseline.
//  4. The result is clamped to [0, 100].
//
// The regulator's integral accumulator is the only state that survives
// process restarts; Restore and Export move it in and out of a
// statestore snapshot.
//
// # Sign Convention
//
// The regulator minimizes its input toward zero, so the deviation
// percentage is negated before being fed in: being ahead of schedule
// (negative deviation) becomes a positive input and drives the output
// down, being behind schedule drives it up. The default gains were
// tuned against this exact convention; do not change one without
// retuning the other.
package controller
