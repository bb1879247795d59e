package integrators

import (
	"fmt"
	"math"

	"github.com/san-kum/gravsim/internal/vmath"
)

// StepControl is the feedback rule turning a local error estimate into the
// next step size: next = h · clamp((Tolerance·Safety / err)^exponent).
type StepControl struct {
	Tolerance float64 `yaml:"tolerance" mapstructure:"tolerance"`
	Safety    float64 `yaml:"safety" mapstructure:"safety"`
	MinScale  float64 `yaml:"min_scale" mapstructure:"min_scale"`
	MaxScale  float64 `yaml:"max_scale" mapstructure:"max_scale"`
	// MinStep, when positive, is the smallest next step accepted.
	MinStep float64 `yaml:"min_step" mapstructure:"min_step"`
}

// DefaultControl returns tolerance 1e-9 with a 50% safety margin and the
// growth ratio clamped to [0.1, 3].
func DefaultControl() StepControl {
	return StepControl{
		Tolerance: 1e-9,
		Safety:    0.5,
		MinScale:  0.1,
		MaxScale:  3.0,
	}
}

// Validate reports inconsistent control parameters.
func (c StepControl) Validate() error {
	switch {
	case !(c.Tolerance > 0):
		return fmt.Errorf("integrators: tolerance must be positive, got %g", c.Tolerance)
	case !(c.Safety > 0):
		return fmt.Errorf("integrators: safety must be positive, got %g", c.Safety)
	case !(c.MinScale > 0) || c.MinScale > 1:
		return fmt.Errorf("integrators: min scale must be in (0, 1], got %g", c.MinScale)
	case c.MaxScale < 1 || math.IsInf(c.MaxScale, 0):
		return fmt.Errorf("integrators: max scale must be finite and >= 1, got %g", c.MaxScale)
	case c.MinStep < 0:
		return fmt.Errorf("integrators: min step must not be negative, got %g", c.MinStep)
	}
	return nil
}

// Next returns the step size to use after a step of size h whose local error
// was estimated as errEst. A zero estimate grows the step by MaxScale.
func (c StepControl) Next(h, errEst, exponent float64) (float64, error) {
	if !vmath.IsFinite(errEst) || errEst < 0 {
		return 0, fmt.Errorf("%w: estimate %v at h = %g", ErrStepSizeExplosion, errEst, h)
	}

	scale := c.MaxScale
	if errEst > 0 {
		scale = math.Pow(c.Tolerance*c.Safety/errEst, exponent)
		scale = math.Min(c.MaxScale, math.Max(c.MinScale, scale))
	}

	next := h * scale
	if c.MinStep > 0 && next < c.MinStep {
		return next, fmt.Errorf("%w: %g < %g", ErrStepSizeCollapse, next, c.MinStep)
	}
	return next, nil
}
