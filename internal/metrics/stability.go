package metrics

import (
	"github.com/san-kum/gravsim/internal/gravity"
	"github.com/san-kum/gravsim/internal/universe"
	"github.com/san-kum/gravsim/internal/vmath"
)

// Bound reports the fraction of observations in which every body stays
// within radius of the center of gravity.
type Bound struct {
	name       string
	field      *gravity.Field
	radius     float64
	violations int
	samples    int
}

func NewBound(field *gravity.Field, radius float64) *Bound {
	return &Bound{
		name:   "bound",
		field:  field,
		radius: radius,
	}
}

func (b *Bound) Name() string {
	return b.name
}

func (b *Bound) Observe(u *universe.Universe, t float64) {
	b.samples++
	cog, err := b.field.CenterOfGravity(u)
	if err != nil {
		b.violations++
		return
	}
	for _, p := range u.Positions {
		if vmath.Distance(p, cog) > b.radius {
			b.violations++
			break
		}
	}
}

func (b *Bound) Value() float64 {
	if b.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(b.violations)/float64(b.samples)
}

func (b *Bound) Reset() {
	b.violations = 0
	b.samples = 0
}
