// Package universe holds the mutable state of a planar N-body system and the
// constructors that produce initial states.
//
// A Universe is owned by whoever built it. Integrators receive a pointer and
// overwrite positions and velocities in place; nothing resizes it.
package universe

import (
	"errors"
	"fmt"

	"github.com/san-kum/gravsim/internal/vmath"
)

var (
	// ErrInvalidUniverse indicates an empty universe or one holding NaN/Inf.
	ErrInvalidUniverse = errors.New("universe: invalid universe")

	// ErrDimensionMismatch indicates arrays of different lengths.
	ErrDimensionMismatch = errors.New("universe: dimension mismatch between positions, velocities and masses")
)

// Universe is the complete state of N point bodies at one instant.
type Universe struct {
	Positions  []vmath.Vector
	Velocities []vmath.Vector
	Masses     []float64
}

// Body is the initial state of a single body.
type Body struct {
	Position vmath.Vector
	Velocity vmath.Vector
	Mass     float64
}

// Snapshot is the read-only view handed to renderers.
type Snapshot struct {
	Positions []vmath.Vector
	Masses    []float64
}

// N returns the number of bodies.
func (s Snapshot) N() int { return len(s.Positions) }

// New allocates a universe of n bodies at rest at the origin with zero mass.
func New(n int) *Universe {
	return &Universe{
		Positions:  make([]vmath.Vector, n),
		Velocities: make([]vmath.Vector, n),
		Masses:     make([]float64, n),
	}
}

// FromBodies builds a universe from per-body initial state.
func FromBodies(bodies []Body) *Universe {
	u := New(len(bodies))
	for i, b := range bodies {
		u.Positions[i] = b.Position
		u.Velocities[i] = b.Velocity
		u.Masses[i] = b.Mass
	}
	return u
}

// N returns the number of bodies.
func (u *Universe) N() int { return len(u.Masses) }

// Body returns the state of body i.
func (u *Universe) Body(i int) Body {
	return Body{Position: u.Positions[i], Velocity: u.Velocities[i], Mass: u.Masses[i]}
}

// Clone returns a deep copy.
func (u *Universe) Clone() *Universe {
	c := New(u.N())
	copy(c.Positions, u.Positions)
	copy(c.Velocities, u.Velocities)
	copy(c.Masses, u.Masses)
	return c
}

// CopyFrom overwrites u with the state of other. Both must have the same N.
func (u *Universe) CopyFrom(other *Universe) error {
	if other.N() != u.N() {
		return fmt.Errorf("%w: %d != %d", ErrDimensionMismatch, other.N(), u.N())
	}
	copy(u.Positions, other.Positions)
	copy(u.Velocities, other.Velocities)
	copy(u.Masses, other.Masses)
	return nil
}

// Validate checks the length invariant, N >= 1 and that every value is finite.
func (u *Universe) Validate() error {
	n := len(u.Masses)
	if len(u.Positions) != n || len(u.Velocities) != n {
		return fmt.Errorf("%w: %d positions, %d velocities, %d masses",
			ErrDimensionMismatch, len(u.Positions), len(u.Velocities), n)
	}
	if n == 0 {
		return fmt.Errorf("%w: no bodies", ErrInvalidUniverse)
	}
	if !vmath.Finite(u.Positions) || !vmath.Finite(u.Velocities) {
		return fmt.Errorf("%w: NaN or Inf in state", ErrInvalidUniverse)
	}
	for i, m := range u.Masses {
		if !vmath.IsFinite(m) {
			return fmt.Errorf("%w: mass %d is %v", ErrInvalidUniverse, i, m)
		}
	}
	return nil
}

// Snapshot copies positions and masses for a renderer.
func (u *Universe) Snapshot() Snapshot {
	s := Snapshot{
		Positions: make([]vmath.Vector, u.N()),
		Masses:    make([]float64, u.N()),
	}
	copy(s.Positions, u.Positions)
	copy(s.Masses, u.Masses)
	return s
}
