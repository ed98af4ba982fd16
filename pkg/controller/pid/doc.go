// Package pid implements the proportional-integral-derivative regulator
// used by the feedback controller.
//
// # Overview
//
// The regulator minimizes its input toward a zero setpoint and produces
// an output bounded to a symmetric range. The output is the sum of
// three weighted terms:
//
//   - Proportional: responds to the current error
//   - Integral: corrects accumulated error over time
//   - Derivative: dampens oscillations (computed on the measurement,
//     not the error, to avoid derivative kick on setpoint changes)
//
// # State Across Runs
//
// The governor process is restarted for every evaluation, so the
// regulator exposes its integral accumulator and last-update time for
// external persistence. Restoring both lets the integral term advance
// with real wall-clock intervals between scheduled runs.
//
// # Anti-Windup
//
// The integral accumulator is clamped to the output bounds on every
// update and on restore, so a long stretch of one-sided error cannot
// wind the accumulator past what the output could ever express.
package pid
