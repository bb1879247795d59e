package integrators

import (
	"github.com/san-kum/gravsim/internal/universe"
	"github.com/san-kum/gravsim/internal/vmath"
)

// RK4 is the classical fourth-order Runge-Kutta method applied to the
// first-order (position, velocity) system.
type RK4 struct {
	field AccelerationField
}

func NewRK4(field AccelerationField) *RK4 {
	return &RK4{field: field}
}

func (r *RK4) Step(u *universe.Universe, h float64) error {
	if err := checkStep(u, h); err != nil {
		return err
	}
	n := u.N()
	ws := acquire(n, 10)
	defer release(ws)
	b := ws.bufs
	k1v, k2v, k3v, k4v := b[0], b[1], b[2], b[3]
	k2x, k3x, k4x := b[4], b[5], b[6]
	stage, p, v := b[7], b[8], b[9]

	p0, v0, m := u.Positions, u.Velocities, u.Masses
	k1x := v0

	if err := r.field.Accelerations(p0, m, k1v); err != nil {
		return err
	}

	vmath.AddScaled(stage, p0, k1x, h/2)
	if err := r.field.Accelerations(stage, m, k2v); err != nil {
		return err
	}
	vmath.AddScaled(k2x, v0, k1v, h/2)

	vmath.AddScaled(stage, p0, k2x, h/2)
	if err := r.field.Accelerations(stage, m, k3v); err != nil {
		return err
	}
	vmath.AddScaled(k3x, v0, k2v, h/2)

	vmath.AddScaled(stage, p0, k3x, h)
	if err := r.field.Accelerations(stage, m, k4v); err != nil {
		return err
	}
	vmath.AddScaled(k4x, v0, k3v, h)

	h6 := h / 6
	for i := 0; i < n; i++ {
		p[i].X = p0[i].X + h6*(k1x[i].X+2*k2x[i].X+2*k3x[i].X+k4x[i].X)
		p[i].Y = p0[i].Y + h6*(k1x[i].Y+2*k2x[i].Y+2*k3x[i].Y+k4x[i].Y)
		v[i].X = v0[i].X + h6*(k1v[i].X+2*k2v[i].X+2*k3v[i].X+k4v[i].X)
		v[i].Y = v0[i].Y + h6*(k1v[i].Y+2*k2v[i].Y+2*k3v[i].Y+k4v[i].Y)
	}

	return commit(u, p, v)
}
