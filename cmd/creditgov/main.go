// Creditgov steers a CI fleet's spend of promotional cloud credits.
//
// It compares month-to-date spend against a straight-line trajectory and
// uses a PID regulator to decide what share of CI jobs should route to
// the credit-funded account, so the monthly credit grant is consumed
// without overshooting the safety target.
//
// Usage:
//
//	# Run one control cycle
//	creditgov run
//
//	# Run continuously on the configured schedule
//	creditgov daemon
//
//	# Validate the configuration file
//	creditgov validate
//
//	# Simulate a month of cycles against a synthetic spend curve
//	creditgov simulate
//
//	# Inspect or reset the persisted regulator state
//	creditgov state show
//	creditgov state reset
package main

func main() {
	Execute()
}
