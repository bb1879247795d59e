package integrators

import (
	"github.com/san-kum/gravsim/internal/universe"
	"github.com/san-kum/gravsim/internal/vmath"
)

// RKN45 is a four-stage embedded Runge-Kutta-Nyström pair. The committed
// solution is fourth order; one extra evaluation at the committed positions
// yields the error estimate (h²/60)·Σ‖k3 − k4‖.
type RKN45 struct {
	field   AccelerationField
	Control StepControl
}

func NewRKN45(field AccelerationField) *RKN45 {
	return &RKN45{field: field, Control: DefaultControl()}
}

// Step advances u by h, discarding the step size recommendation.
func (r *RKN45) Step(u *universe.Universe, h float64) error {
	_, err := r.StepAdaptive(u, h)
	return err
}

func (r *RKN45) StepAdaptive(u *universe.Universe, h float64) (float64, error) {
	if err := checkStep(u, h); err != nil {
		return 0, err
	}
	if err := r.Control.Validate(); err != nil {
		return 0, err
	}
	n := u.N()
	ws := acquire(n, 7)
	defer release(ws)
	b := ws.bufs
	k0, k1, k2, k3, k4 := b[0], b[1], b[2], b[3], b[4]
	stage, v := b[5], b[6]

	p0, v0, m := u.Positions, u.Velocities, u.Masses
	hh := h * h

	if err := r.field.Accelerations(p0, m, k0); err != nil {
		return 0, err
	}

	for i := 0; i < n; i++ {
		stage[i].X = p0[i].X + v0[i].X*h/3 + k0[i].X*hh/18
		stage[i].Y = p0[i].Y + v0[i].Y*h/3 + k0[i].Y*hh/18
	}
	if err := r.field.Accelerations(stage, m, k1); err != nil {
		return 0, err
	}

	for i := 0; i < n; i++ {
		stage[i].X = p0[i].X + v0[i].X*h*2/3 + k1[i].X*2*hh/9
		stage[i].Y = p0[i].Y + v0[i].Y*h*2/3 + k1[i].Y*2*hh/9
	}
	if err := r.field.Accelerations(stage, m, k2); err != nil {
		return 0, err
	}

	for i := 0; i < n; i++ {
		stage[i].X = p0[i].X + v0[i].X*h + (k0[i].X*2+k2[i].X)*hh/6
		stage[i].Y = p0[i].Y + v0[i].Y*h + (k0[i].Y*2+k2[i].Y)*hh/6
	}
	if err := r.field.Accelerations(stage, m, k3); err != nil {
		return 0, err
	}

	// committed positions
	for i := 0; i < n; i++ {
		stage[i].X = p0[i].X + v0[i].X*h + (k0[i].X*13+k1[i].X*36+k2[i].X*9+k3[i].X*2)*hh/120
		stage[i].Y = p0[i].Y + v0[i].Y*h + (k0[i].Y*13+k1[i].Y*36+k2[i].Y*9+k3[i].Y*2)*hh/120
	}
	for i := 0; i < n; i++ {
		v[i].X = v0[i].X + (k0[i].X+k1[i].X*3+k2[i].X*3+k3[i].X)*h/8
		v[i].Y = v0[i].Y + (k0[i].Y+k1[i].Y*3+k2[i].Y*3+k3[i].Y)*h/8
	}
	if err := r.field.Accelerations(stage, m, k4); err != nil {
		return 0, err
	}

	errEst := 0.0
	for i := 0; i < n; i++ {
		errEst += vmath.Distance(k3[i], k4[i])
	}
	errEst *= hh / 60

	next, err := r.Control.Next(h, errEst, 1.0/5)
	if err != nil {
		return 0, err
	}
	if err := commit(u, stage, v); err != nil {
		return 0, err
	}
	return next, nil
}
