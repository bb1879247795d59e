package metrics

import (
	"math"

	"github.com/san-kum/gravsim/internal/gravity"
	"github.com/san-kum/gravsim/internal/universe"
	"github.com/san-kum/gravsim/internal/vmath"
)

// MomentumDrift reports the largest change in linear momentum relative to
// the initial Σ|mᵢ|·|vᵢ|, which stays meaningful in the barycentric frame
// where the total momentum is zero.
type MomentumDrift struct {
	name    string
	field   *gravity.Field
	initial vmath.Vector
	scale   float64
	samples int
	max     float64
}

func NewMomentumDrift(field *gravity.Field) *MomentumDrift {
	return &MomentumDrift{name: "momentum_drift", field: field}
}

func (m *MomentumDrift) Name() string { return m.name }

func (m *MomentumDrift) Observe(u *universe.Universe, t float64) {
	p := m.field.Momentum(u)
	if m.samples == 0 {
		m.initial = p
		for i, mass := range u.Masses {
			m.scale += math.Abs(mass) * vmath.Length(u.Velocities[i])
		}
	}
	m.samples++
	if m.scale > 0 {
		m.max = math.Max(m.max, vmath.Distance(p, m.initial)/m.scale)
	}
}

func (m *MomentumDrift) Value() float64 { return m.max }

func (m *MomentumDrift) Reset() {
	m.initial = vmath.Vector{}
	m.scale = 0
	m.samples = 0
	m.max = 0
}

// AngularMomentumDrift reports the largest |L(t) - L(0)| / |L(0)| about the
// origin.
type AngularMomentumDrift struct {
	name    string
	field   *gravity.Field
	initial float64
	samples int
	max     float64
}

func NewAngularMomentumDrift(field *gravity.Field) *AngularMomentumDrift {
	return &AngularMomentumDrift{name: "angular_momentum_drift", field: field}
}

func (a *AngularMomentumDrift) Name() string { return a.name }

func (a *AngularMomentumDrift) Observe(u *universe.Universe, t float64) {
	l := a.field.AngularMomentum(u)
	if a.samples == 0 {
		a.initial = l
	}
	a.samples++
	if a.initial != 0 {
		a.max = math.Max(a.max, math.Abs(l-a.initial)/math.Abs(a.initial))
	}
}

func (a *AngularMomentumDrift) Value() float64 { return a.max }

func (a *AngularMomentumDrift) Reset() {
	a.initial = 0
	a.samples = 0
	a.max = 0
}
