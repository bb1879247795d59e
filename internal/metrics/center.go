package metrics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/gravsim/internal/gravity"
	"github.com/san-kum/gravsim/internal/universe"
	"github.com/san-kum/gravsim/internal/vmath"
)

// CenterDrift measures how far the center of gravity strays from uniform
// motion c(0) + t·P/M, relative to the initial extent of the system.
type CenterDrift struct {
	name     string
	field    *gravity.Field
	origin   vmath.Vector
	velocity vmath.Vector
	extent   float64
	samples  int
	max      float64
}

func NewCenterDrift(field *gravity.Field) *CenterDrift {
	return &CenterDrift{name: "center_drift", field: field}
}

func (c *CenterDrift) Name() string { return c.name }

func (c *CenterDrift) Observe(u *universe.Universe, t float64) {
	cog, err := c.field.CenterOfGravity(u)
	if err != nil {
		c.max = math.Inf(1)
		return
	}
	if c.samples == 0 {
		c.origin = cog
		total := 0.0
		for _, m := range u.Masses {
			total += m
		}
		c.velocity = r2.Scale(1/total, c.field.Momentum(u))
		for _, p := range u.Positions {
			c.extent = math.Max(c.extent, vmath.Distance(p, cog))
		}
	}
	c.samples++
	if c.extent > 0 {
		want := r2.Add(c.origin, r2.Scale(t, c.velocity))
		c.max = math.Max(c.max, vmath.Distance(cog, want)/c.extent)
	}
}

func (c *CenterDrift) Value() float64 { return c.max }

func (c *CenterDrift) Reset() {
	*c = CenterDrift{name: c.name, field: c.field}
}
