package integrators

import (
	"github.com/san-kum/gravsim/internal/universe"
	"github.com/san-kum/gravsim/internal/vmath"
)

// Nystrom is an embedded Runge-Kutta-Nyström stepper driven by a tableau.
type Nystrom struct {
	field   AccelerationField
	tableau *NystromTableau
	Control StepControl
}

// NewNystrom validates tab and returns a stepper for it.
func NewNystrom(field AccelerationField, tab *NystromTableau) (*Nystrom, error) {
	if err := tab.Validate(); err != nil {
		return nil, err
	}
	return &Nystrom{field: field, tableau: tab, Control: DefaultControl()}, nil
}

func (n *Nystrom) Tableau() *NystromTableau { return n.tableau }

func (n *Nystrom) Step(u *universe.Universe, h float64) error {
	_, err := n.StepAdaptive(u, h)
	return err
}

func (n *Nystrom) StepAdaptive(u *universe.Universe, h float64) (float64, error) {
	return StepNystrom(n.field, u, h, n.tableau, n.Control)
}

// StepNystrom advances u by one step of tab and returns the next step size.
// On error u is unchanged.
func StepNystrom(field AccelerationField, u *universe.Universe, h float64, tab *NystromTableau, ctrl StepControl) (float64, error) {
	if err := tab.Validate(); err != nil {
		return 0, err
	}
	if err := checkStep(u, h); err != nil {
		return 0, err
	}
	if err := ctrl.Validate(); err != nil {
		return 0, err
	}
	s := tab.StageCount
	n := u.N()
	ws := acquire(n, s+3)
	defer release(ws)
	accel := ws.bufs[:s+1]
	stage, v := ws.bufs[s+1], ws.bufs[s+2]

	p0, v0, m := u.Positions, u.Velocities, u.Masses
	hh := h * h

	for k := 0; k <= s; k++ {
		row := tab.Row(k)
		ha := h * tab.Alpha[k]
		for i := 0; i < n; i++ {
			x := p0[i].X + ha*v0[i].X
			y := p0[i].Y + ha*v0[i].Y
			for l, g := range row {
				if g == 0 {
					continue
				}
				x += hh * g * accel[l][i].X
				y += hh * g * accel[l][i].Y
			}
			stage[i] = vmath.Vector{X: x, Y: y}
		}
		if err := field.Accelerations(stage, m, accel[k]); err != nil {
			return 0, err
		}
	}

	vmath.Copy(v, v0)
	for k, c := range tab.Cdot {
		if c == 0 {
			continue
		}
		vmath.AddScaled(v, v, accel[k], h*c)
	}

	errEst := 0.0
	for i := 0; i < n; i++ {
		errEst += vmath.Distance(accel[s-1][i], accel[s][i])
	}
	errEst *= tab.ErrorWeight * hh

	next, err := ctrl.Next(h, errEst, tab.Exponent())
	if err != nil {
		return 0, err
	}
	// stage holds the committed positions after the last iteration.
	if err := commit(u, stage, v); err != nil {
		return 0, err
	}
	return next, nil
}
