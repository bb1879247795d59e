package universe

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/san-kum/gravsim/internal/vmath"
)

const (
	DefaultPositionRange = 1e9
	DefaultVelocityRange = 3e2
	DefaultMassMin       = -1e22
	DefaultMassMax       = 1e25
)

// Sampler draws universes with positions, velocities and masses uniform in
// the configured ranges.
//
// Masses are drawn from [MassMin, MassMax]. A negative MassMin is only
// honoured with AllowNegativeMass; otherwise the lower bound is clamped to 0.
type Sampler struct {
	PositionRange     float64 `yaml:"position_range" mapstructure:"position_range"`
	VelocityRange     float64 `yaml:"velocity_range" mapstructure:"velocity_range"`
	MassMin           float64 `yaml:"mass_min" mapstructure:"mass_min"`
	MassMax           float64 `yaml:"mass_max" mapstructure:"mass_max"`
	AllowNegativeMass bool    `yaml:"allow_negative_mass" mapstructure:"allow_negative_mass"`
}

// DefaultSampler reproduces the historical random universe, negative masses
// included.
func DefaultSampler() Sampler {
	return Sampler{
		PositionRange:     DefaultPositionRange,
		VelocityRange:     DefaultVelocityRange,
		MassMin:           DefaultMassMin,
		MassMax:           DefaultMassMax,
		AllowNegativeMass: true,
	}
}

// MassBounds returns the effective mass interval.
func (s Sampler) MassBounds() (lo, hi float64) {
	lo, hi = s.MassMin, s.MassMax
	if !s.AllowNegativeMass && lo < 0 {
		lo = 0
	}
	return lo, hi
}

// Sample draws a universe of n bodies from seed.
func (s Sampler) Sample(n int, seed uint64) (*Universe, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: need at least one body, got %d", ErrInvalidUniverse, n)
	}
	lo, hi := s.MassBounds()
	if hi <= lo {
		return nil, fmt.Errorf("%w: empty mass range [%g, %g]", ErrInvalidUniverse, lo, hi)
	}
	if s.PositionRange <= 0 || s.VelocityRange < 0 {
		return nil, fmt.Errorf("%w: position range %g, velocity range %g",
			ErrInvalidUniverse, s.PositionRange, s.VelocityRange)
	}

	src := rand.NewSource(seed)
	pos := distuv.Uniform{Min: -s.PositionRange, Max: s.PositionRange, Src: src}
	vel := distuv.Uniform{Min: -s.VelocityRange, Max: s.VelocityRange, Src: src}
	mass := distuv.Uniform{Min: lo, Max: hi, Src: src}

	u := New(n)
	for i := 0; i < n; i++ {
		u.Positions[i] = vmath.Vector{X: pos.Rand(), Y: pos.Rand()}
		u.Velocities[i] = vmath.Vector{X: vel.Rand(), Y: vel.Rand()}
		u.Masses[i] = mass.Rand()
	}
	return u, nil
}

// EarthMoon returns the two-body Earth–Moon fixture in SI units.
func EarthMoon() *Universe {
	return FromBodies([]Body{
		{Mass: 5.9724e24},
		{
			Position: vmath.Vector{Y: 3.85e8},
			Velocity: vmath.Vector{X: 1.022e3},
			Mass:     0.07346e24,
		},
	})
}
