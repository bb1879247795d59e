// Package gravity derives accelerations, energies and the center of gravity
// of a universe under Newtonian gravity.
//
// Accelerations are accumulated symmetrically: every unordered pair is
// visited once and contributes to both bodies, so an evaluation costs N²/2
// distance computations.
package gravity

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/gravsim/internal/universe"
	"github.com/san-kum/gravsim/internal/vmath"
)

// G is the gravitational constant in m³/(kg·s²).
const G = 6.67430e-11

// degenerateRatio bounds |Σm| / Σ|m| below which the total mass is treated as
// zero. Only reachable with negative masses.
const degenerateRatio = 1e-12

var (
	// ErrDegenerateMass indicates a total mass of zero.
	ErrDegenerateMass = errors.New("gravity: degenerate total mass")

	// ErrCoincidentBodies indicates two bodies at the same position.
	ErrCoincidentBodies = errors.New("gravity: coincident bodies")
)

// CoincidenceError names the pair of bodies sharing a position.
type CoincidenceError struct {
	I, J int
}

func (e *CoincidenceError) Error() string {
	return fmt.Sprintf("%s: bodies %d and %d", ErrCoincidentBodies, e.I, e.J)
}

func (e *CoincidenceError) Unwrap() error {
	return ErrCoincidentBodies
}

// Field is a Newtonian gravity field with constant G.
type Field struct {
	G float64
}

// New returns a field using the SI gravitational constant.
func New() *Field {
	return &Field{G: G}
}

// CenterOfGravity returns Σ mᵢpᵢ / Σ mᵢ.
func (f *Field) CenterOfGravity(u *universe.Universe) (vmath.Vector, error) {
	return CenterOf(u.Positions, u.Masses)
}

// CenterOf is CenterOfGravity over bare position and mass slices.
func CenterOf(positions []vmath.Vector, masses []float64) (vmath.Vector, error) {
	if len(positions) != len(masses) {
		return vmath.Vector{}, fmt.Errorf("%w: %d positions, %d masses",
			universe.ErrDimensionMismatch, len(positions), len(masses))
	}
	total, err := totalMass(masses)
	if err != nil {
		return vmath.Vector{}, err
	}

	var c vmath.Vector
	for i, p := range positions {
		c = r2.Add(c, r2.Scale(masses[i]/total, p))
	}
	return c, nil
}

// Acceleration writes the acceleration of every body of u into out.
func (f *Field) Acceleration(u *universe.Universe, out []vmath.Vector) error {
	return f.Accelerations(u.Positions, u.Masses, out)
}

// Accelerations writes into out the accelerations of bodies with the given
// masses placed at positions. On error the content of out is unspecified.
func (f *Field) Accelerations(positions []vmath.Vector, masses []float64, out []vmath.Vector) error {
	n := len(masses)
	if len(positions) != n || len(out) != n {
		return fmt.Errorf("%w: %d positions, %d masses, %d outputs",
			universe.ErrDimensionMismatch, len(positions), n, len(out))
	}

	vmath.Zero(out)
	for i := 1; i < n; i++ {
		pi := positions[i]
		for j := 0; j < i; j++ {
			d := r2.Sub(positions[j], pi)
			inv3, ok := inverseCube(d)
			if !ok {
				return &CoincidenceError{I: j, J: i}
			}

			si := f.G * masses[j] * inv3
			out[i].X += si * d.X
			out[i].Y += si * d.Y

			sj := f.G * masses[i] * inv3
			out[j].X -= sj * d.X
			out[j].Y -= sj * d.Y
		}
	}
	return nil
}

// inverseCube returns 1/|d|³. Separations too small for it to be finite
// count as coincident.
func inverseCube(d vmath.Vector) (float64, bool) {
	r2n := d.X*d.X + d.Y*d.Y
	if r2n == 0 {
		return 0, false
	}
	inv3 := 1 / (r2n * math.Sqrt(r2n))
	return inv3, vmath.IsFinite(inv3)
}

// KineticEnergy returns Σ mᵢ|vᵢ|² / 2.
func (f *Field) KineticEnergy(u *universe.Universe) float64 {
	energy := 0.0
	for i, v := range u.Velocities {
		energy += u.Masses[i] * r2.Norm2(v)
	}
	return energy / 2
}

// GravitationalEnergy returns -G Σ_{i<j} mᵢmⱼ / d(pᵢ, pⱼ).
func (f *Field) GravitationalEnergy(u *universe.Universe) (float64, error) {
	if _, err := totalMass(u.Masses); err != nil {
		return 0, err
	}

	energy := 0.0
	for i := 1; i < u.N(); i++ {
		for j := 0; j < i; j++ {
			d := r2.Sub(u.Positions[j], u.Positions[i])
			if _, ok := inverseCube(d); !ok {
				return 0, &CoincidenceError{I: j, J: i}
			}
			energy -= u.Masses[i] * u.Masses[j] / vmath.Length(d)
		}
	}
	return f.G * energy, nil
}

// TotalEnergy returns kinetic plus gravitational energy. It is conserved by
// the exact dynamics, so its drift measures integration error.
func (f *Field) TotalEnergy(u *universe.Universe) (float64, error) {
	pot, err := f.GravitationalEnergy(u)
	if err != nil {
		return 0, err
	}
	return f.KineticEnergy(u) + pot, nil
}

// Momentum returns the total linear momentum Σ mᵢvᵢ.
func (f *Field) Momentum(u *universe.Universe) vmath.Vector {
	var p vmath.Vector
	for i, v := range u.Velocities {
		p = r2.Add(p, r2.Scale(u.Masses[i], v))
	}
	return p
}

// AngularMomentum returns Σ mᵢ (pᵢ × vᵢ) about the origin.
func (f *Field) AngularMomentum(u *universe.Universe) float64 {
	l := 0.0
	for i := range u.Positions {
		l += u.Masses[i] * r2.Cross(u.Positions[i], u.Velocities[i])
	}
	return l
}

func totalMass(masses []float64) (float64, error) {
	total, abs := 0.0, 0.0
	for _, m := range masses {
		total += m
		abs += math.Abs(m)
	}
	if total == 0 || math.Abs(total) <= degenerateRatio*abs {
		return 0, fmt.Errorf("%w: Σm = %g", ErrDegenerateMass, total)
	}
	return total, nil
}
