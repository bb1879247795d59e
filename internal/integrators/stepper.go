package integrators

import (
	"errors"
	"fmt"

	"github.com/san-kum/gravsim/internal/universe"
	"github.com/san-kum/gravsim/internal/vmath"
)

// Registered stepper names.
const (
	NameEuler     = "euler"
	NameRK4       = "rk4"
	NameRKN45     = "rkn45"
	NameNystrom45 = "nystrom45"
	NameRKN67     = "rkn67"
)

// Names returns every registered stepper name, lowest order first.
func Names() []string {
	return []string{NameEuler, NameRK4, NameRKN45, NameNystrom45, NameRKN67}
}

var (
	// ErrInvalidStep indicates a step size that is not a positive finite number.
	ErrInvalidStep = errors.New("integrators: step size must be positive and finite")

	// ErrNonFinite indicates a step that would write NaN or Inf into the universe.
	ErrNonFinite = errors.New("integrators: step produced NaN or Inf")

	// ErrStepSizeCollapse indicates the recommended step fell below the minimum.
	ErrStepSizeCollapse = errors.New("integrators: adaptive step size collapsed")

	// ErrStepSizeExplosion indicates an error estimate that is NaN, Inf or negative.
	ErrStepSizeExplosion = errors.New("integrators: adaptive error estimate exploded")

	// ErrInvalidTableau indicates inconsistent Nyström coefficients.
	ErrInvalidTableau = errors.New("integrators: invalid Nyström tableau")
)

// AccelerationField evaluates the acceleration of bodies with the given
// masses placed at positions. *gravity.Field implements it.
type AccelerationField interface {
	Accelerations(positions []vmath.Vector, masses []float64, out []vmath.Vector) error
}

// Stepper advances a universe by a fixed step h.
type Stepper interface {
	Step(u *universe.Universe, h float64) error
}

// AdaptiveStepper advances a universe by h and recommends the next step size.
type AdaptiveStepper interface {
	Stepper
	StepAdaptive(u *universe.Universe, h float64) (float64, error)
}

var (
	_ Stepper         = (*Euler)(nil)
	_ Stepper         = (*RK4)(nil)
	_ AdaptiveStepper = (*RKN45)(nil)
	_ AdaptiveStepper = (*Nystrom)(nil)
	_ AdaptiveStepper = (*RKN67)(nil)
)

func checkStep(u *universe.Universe, h float64) error {
	if !(h > 0) || !vmath.IsFinite(h) {
		return fmt.Errorf("%w: h = %v", ErrInvalidStep, h)
	}
	return u.Validate()
}

// commit copies the new state into u unless it holds NaN or Inf.
func commit(u *universe.Universe, positions, velocities []vmath.Vector) error {
	if !vmath.Finite(positions) || !vmath.Finite(velocities) {
		return ErrNonFinite
	}
	copy(u.Positions, positions)
	copy(u.Velocities, velocities)
	return nil
}
