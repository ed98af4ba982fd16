package pid

import (
	"math"
	"time"
)

// Gains contains the three regulator gains. Any real values are
// accepted; tuning is an operational concern, not a structural one.
type Gains struct {
	// Proportional weights the current error.
	Proportional float64

	// Integral weights the accumulated error per hour.
	Integral float64

	// Derivative weights the rate of change of the measurement per hour.
	Derivative float64
}

// Components holds the last proportional, integral, and derivative
// contributions to the output. Exposed for observability only.
type Components struct {
	Proportional float64
	Integral     float64
	Derivative   float64
}

// maxStepHours caps the time delta applied to the integral and
// derivative terms. A gap longer than a day between evaluations (a
// paused scheduler, a long outage) must not dump a day's worth of
// error into the accumulator in a single step.
const maxStepHours = 24.0

// Regulator is a PID regulator with a zero setpoint and symmetric
// output bounds. It is not safe for concurrent use; the governor
// evaluates at most one cycle at a time.
type Regulator struct {
	gains Gains

	// Symmetric output bounds: output and integral are clamped to
	// [-bound, +bound].
	bound float64

	integral   float64
	lastInput  float64
	hasInput   bool
	lastUpdate time.Time

	components Components
}

// New creates a regulator with the given gains and a symmetric output
// bound. The bound must be positive.
func New(gains Gains, bound float64) *Regulator {
	return &Regulator{
		gains: gains,
		bound: math.Abs(bound),
	}
}

// Update feeds one measurement into the regulator and returns the
// bounded output. The time delta for the integral and derivative terms
// is measured in hours since the previous update (or since the restored
// last-update time); the first update after a cold start contributes
// only the proportional term.
func (r *Regulator) Update(input float64, now time.Time) float64 {
	err := -input // setpoint is fixed at zero

	var dt float64
	if !r.lastUpdate.IsZero() {
		dt = now.Sub(r.lastUpdate).Hours()
		if dt < 0 {
			dt = 0
		}
		if dt > maxStepHours {
			dt = maxStepHours
		}
	}

	proportional := r.gains.Proportional * err

	r.integral += r.gains.Integral * err * dt
	r.integral = r.clamp(r.integral)

	var derivative float64
	if r.hasInput && dt > 0 {
		derivative = -r.gains.Derivative * (input - r.lastInput) / dt
	}

	r.components = Components{
		Proportional: proportional,
		Integral:     r.integral,
		Derivative:   derivative,
	}

	r.lastInput = input
	r.hasInput = true
	r.lastUpdate = now

	return r.clamp(proportional + r.integral + derivative)
}

// Integral returns the current integral accumulator.
func (r *Regulator) Integral() float64 {
	return r.integral
}

// Restore sets the integral accumulator and the last-update time,
// typically from persisted state. Non-finite values reset the
// accumulator to zero; the value is clamped to the output bounds.
func (r *Regulator) Restore(integral float64, lastUpdate time.Time) {
	if math.IsNaN(integral) || math.IsInf(integral, 0) {
		integral = 0
	}
	r.integral = r.clamp(integral)
	r.lastUpdate = lastUpdate
	r.hasInput = false
}

// Reset clears all regulator state back to a cold start.
func (r *Regulator) Reset() {
	r.integral = 0
	r.lastInput = 0
	r.hasInput = false
	r.lastUpdate = time.Time{}
	r.components = Components{}
}

// Gains returns the current gains.
func (r *Regulator) Gains() Gains {
	return r.gains
}

// SetGains replaces the gains in place. The integral accumulator is
// preserved; retuning is expected to happen between evaluations.
func (r *Regulator) SetGains(gains Gains) {
	r.gains = gains
}

// Components returns the contributions of the last update.
func (r *Regulator) Components() Components {
	return r.components
}

// LastUpdate returns the time of the last update, or the restored
// last-update time if no update has happened since.
func (r *Regulator) LastUpdate() time.Time {
	return r.lastUpdate
}

func (r *Regulator) clamp(v float64) float64 {
	if v > r.bound {
		return r.bound
	}
	if v < -r.bound {
		return -r.bound
	}
	return v
}
