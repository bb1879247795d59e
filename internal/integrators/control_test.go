package integrators

import (
	"errors"
	"math"
	"testing"
)

func TestStepControlNext(t *testing.T) {
	c := DefaultControl()
	tests := []struct {
		name string
		err  float64
		want float64
	}{
		{"zero error grows by max scale", 0, 30},
		{"tiny error clamps to max scale", 1e-30, 30},
		{"huge error clamps to min scale", 1e30, 1},
		{"error at target keeps the step", c.Tolerance * c.Safety, 10},
		{"32x target halves the step", 32 * c.Tolerance * c.Safety, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Next(10, tt.err, 1.0/5)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Next = %g, want %g", got, tt.want)
			}
		})
	}
}

func TestStepControlExplosion(t *testing.T) {
	c := DefaultControl()
	for _, e := range []float64{math.NaN(), math.Inf(1), -1} {
		if _, err := c.Next(10, e, 0.2); !errors.Is(err, ErrStepSizeExplosion) {
			t.Errorf("estimate %v: expected ErrStepSizeExplosion, got %v", e, err)
		}
	}
}

func TestStepControlCollapse(t *testing.T) {
	c := DefaultControl()
	c.MinStep = 2

	next, err := c.Next(10, 1e30, 0.2)
	if !errors.Is(err, ErrStepSizeCollapse) {
		t.Fatalf("expected ErrStepSizeCollapse, got %v", err)
	}
	if next != 1 {
		t.Errorf("next = %g, want 1", next)
	}

	if _, err := c.Next(10, 0, 0.2); err != nil {
		t.Errorf("growing step reported %v", err)
	}
}

func TestStepControlValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*StepControl)
		ok     bool
	}{
		{"defaults", func(*StepControl) {}, true},
		{"zero tolerance", func(c *StepControl) { c.Tolerance = 0 }, false},
		{"negative safety", func(c *StepControl) { c.Safety = -1 }, false},
		{"min scale above one", func(c *StepControl) { c.MinScale = 2 }, false},
		{"max scale below one", func(c *StepControl) { c.MaxScale = 0.5 }, false},
		{"infinite max scale", func(c *StepControl) { c.MaxScale = math.Inf(1) }, false},
		{"negative min step", func(c *StepControl) { c.MinStep = -1 }, false},
		{"NaN tolerance", func(c *StepControl) { c.Tolerance = math.NaN() }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultControl()
			tt.mutate(&c)
			err := c.Validate()
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && err == nil {
				t.Error("expected an error")
			}
		})
	}
}
