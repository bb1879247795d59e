package integrators

import "github.com/san-kum/gravsim/internal/universe"

// Euler is the semi-implicit (symplectic) Euler method: the velocity is
// updated first and the position advances with the updated velocity.
type Euler struct {
	field AccelerationField
}

func NewEuler(field AccelerationField) *Euler {
	return &Euler{field: field}
}

func (e *Euler) Step(u *universe.Universe, h float64) error {
	if err := checkStep(u, h); err != nil {
		return err
	}
	n := u.N()
	ws := acquire(n, 3)
	defer release(ws)
	a, p, v := ws.bufs[0], ws.bufs[1], ws.bufs[2]

	if err := e.field.Accelerations(u.Positions, u.Masses, a); err != nil {
		return err
	}

	for i := 0; i < n; i++ {
		v[i].X = u.Velocities[i].X + a[i].X*h
		v[i].Y = u.Velocities[i].Y + a[i].Y*h
		p[i].X = u.Positions[i].X + v[i].X*h
		p[i].Y = u.Positions[i].Y + v[i].Y*h
	}

	return commit(u, p, v)
}
