package pid

import (
	"math"
	"testing"
	"time"
)

var t0 = time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

func TestUpdate_ColdStartProportionalOnly(t *testing.T) {
	r := New(Gains{Proportional: 2.0, Integral: 0.15, Derivative: 0.5}, 40)

	// First update with no history: dt is zero, so only the
	// proportional term contributes.
	out := r.Update(-3.0, t0) // behind schedule by 3%

	want := 2.0 * 3.0
	if math.Abs(out-want) > 1e-9 {
		t.Errorf("output = %f, want %f", out, want)
	}

	c := r.Components()
	if c.Integral != 0 {
		t.Errorf("integral component = %f, want 0 on cold start", c.Integral)
	}
	if c.Derivative != 0 {
		t.Errorf("derivative component = %f, want 0 on cold start", c.Derivative)
	}
}

func TestUpdate_IntegralAccumulates(t *testing.T) {
	r := New(Gains{Proportional: 2.0, Integral: 0.15}, 40)

	r.Update(-4.0, t0)
	r.Update(-4.0, t0.Add(time.Hour))

	// One hour of a constant +4 error at Ki=0.15.
	want := 0.15 * 4.0 * 1.0
	if math.Abs(r.Integral()-want) > 1e-9 {
		t.Errorf("integral = %f, want %f", r.Integral(), want)
	}
}

func TestUpdate_SignConvention(t *testing.T) {
	r := New(Gains{Proportional: 2.0}, 40)

	// Positive input (ahead of schedule after negation upstream)
	// must drive the output down.
	if out := r.Update(5.0, t0); out >= 0 {
		t.Errorf("output = %f, want negative for positive input", out)
	}

	r.Reset()

	// Negative input (behind schedule) must drive the output up.
	if out := r.Update(-5.0, t0); out <= 0 {
		t.Errorf("output = %f, want positive for negative input", out)
	}
}

func TestUpdate_OutputClamped(t *testing.T) {
	r := New(Gains{Proportional: 2.0}, 40)

	if out := r.Update(-100.0, t0); out != 40 {
		t.Errorf("output = %f, want clamped to 40", out)
	}

	r.Reset()

	if out := r.Update(100.0, t0); out != -40 {
		t.Errorf("output = %f, want clamped to -40", out)
	}
}

func TestUpdate_IntegralAntiWindup(t *testing.T) {
	r := New(Gains{Integral: 10.0}, 40)

	// Hours of a large constant error cannot wind the accumulator
	// past the output bound.
	now := t0
	for i := 0; i < 20; i++ {
		now = now.Add(time.Hour)
		r.Update(-50.0, now)
	}

	if r.Integral() > 40 {
		t.Errorf("integral = %f, want clamped to 40", r.Integral())
	}
}

func TestUpdate_DerivativeDampens(t *testing.T) {
	r := New(Gains{Derivative: 0.5}, 40)

	r.Update(0, t0)
	// Input rising between updates: derivative term must oppose it.
	out := r.Update(10.0, t0.Add(time.Hour))

	want := -0.5 * 10.0
	if math.Abs(out-want) > 1e-9 {
		t.Errorf("output = %f, want %f", out, want)
	}
}

func TestUpdate_LongGapCapped(t *testing.T) {
	r := New(Gains{Integral: 0.15}, 40)

	r.Update(-2.0, t0)
	// A week-long gap must be treated as a single bounded step.
	r.Update(-2.0, t0.Add(7*24*time.Hour))

	want := 0.15 * 2.0 * maxStepHours
	if math.Abs(r.Integral()-want) > 1e-9 {
		t.Errorf("integral = %f, want %f (capped step)", r.Integral(), want)
	}
}

func TestRestore(t *testing.T) {
	r := New(Gains{Proportional: 2.0, Integral: 0.15}, 40)

	r.Restore(12.5, t0)
	if r.Integral() != 12.5 {
		t.Errorf("integral = %f, want 12.5", r.Integral())
	}
	if !r.LastUpdate().Equal(t0) {
		t.Errorf("lastUpdate = %v, want %v", r.LastUpdate(), t0)
	}

	// Restored integral participates in the next output.
	out := r.Update(0, t0.Add(time.Hour))
	if math.Abs(out-12.5) > 1e-9 {
		t.Errorf("output = %f, want 12.5 from restored integral", out)
	}
}

func TestRestore_NonFinite(t *testing.T) {
	tests := []struct {
		name  string
		value float64
	}{
		{"NaN", math.NaN()},
		{"+Inf", math.Inf(1)},
		{"-Inf", math.Inf(-1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(Gains{Integral: 0.15}, 40)
			r.Restore(tt.value, t0)
			if r.Integral() != 0 {
				t.Errorf("integral = %f, want 0 for non-finite restore", r.Integral())
			}
		})
	}
}

func TestRestore_ClampsToBounds(t *testing.T) {
	r := New(Gains{}, 40)
	r.Restore(1e6, t0)
	if r.Integral() != 40 {
		t.Errorf("integral = %f, want clamped to 40", r.Integral())
	}
}

func TestSetGains(t *testing.T) {
	r := New(Gains{Proportional: 2.0, Integral: 0.15, Derivative: 0.5}, 40)
	r.Restore(5, t0)

	r.SetGains(Gains{Proportional: 1.0, Integral: 0.1, Derivative: 0.2})

	if g := r.Gains(); g.Proportional != 1.0 || g.Integral != 0.1 || g.Derivative != 0.2 {
		t.Errorf("gains = %+v after SetGains", g)
	}
	// Retuning preserves the accumulator.
	if r.Integral() != 5 {
		t.Errorf("integral = %f, want preserved across retune", r.Integral())
	}
}
