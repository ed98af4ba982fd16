// Package trajectory computes the ideal cumulative spend line for a
// billing month and the deviation of actual spend from it.
//
// # Overview
//
// The trajectory is a straight line from zero on day 1 to the target
// credit amount on the last day of the month. This is a deliberate
// simplification: there is no day-of-week weighting and no fitting to
// historical usage curves. The controller compensates for real-world
// spend patterns through feedback, not through a fancier model.
//
// # Usage
//
//	pos := trajectory.At(time.Now())
//	res := trajectory.Compute(currentSpend, pos, targetCredits)
//	if res.Deviation > 0 {
//	    // behind schedule: under-spending relative to plan
//	}
//
// All functions are pure and safe for concurrent use.
package trajectory
