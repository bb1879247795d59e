package integrators

import (
	"fmt"

	"github.com/san-kum/gravsim/internal/vmath"
)

// NystromTableau holds the coefficients of an explicit Runge-Kutta-Nyström
// method with one trailing evaluation at the committed positions.
//
// Stage κ (0 ≤ κ ≤ StageCount) sits at p + h·Alpha[κ]·v + h²·Σ Row(κ)[λ]·a[λ].
// Gamma packs the strictly lower triangle row by row: row κ starts at
// κ(κ-1)/2 and has κ entries, so len(Gamma) == s(s+1)/2. Row s is the
// committed position update and Alpha[s] must be 1.
type NystromTableau struct {
	Name       string
	StageCount int
	Alpha      []float64
	Gamma      []float64
	Cdot       []float64
	// ErrorWeight scales h²·Σ‖a[s-1] − a[s]‖ into a position error.
	ErrorWeight float64
	// Order of the committed solution; zero means StageCount.
	Order int
}

// Validate checks the tableau shape and that every coefficient is finite.
func (t *NystromTableau) Validate() error {
	if t == nil {
		return fmt.Errorf("%w: nil tableau", ErrInvalidTableau)
	}
	s := t.StageCount
	if s < 1 {
		return fmt.Errorf("%w: %q has %d stages", ErrInvalidTableau, t.Name, s)
	}
	if len(t.Alpha) != s+1 {
		return fmt.Errorf("%w: %q alpha has %d entries, want %d", ErrInvalidTableau, t.Name, len(t.Alpha), s+1)
	}
	if want := s * (s + 1) / 2; len(t.Gamma) != want {
		return fmt.Errorf("%w: %q gamma has %d entries, want %d", ErrInvalidTableau, t.Name, len(t.Gamma), want)
	}
	if len(t.Cdot) != s {
		return fmt.Errorf("%w: %q cdot has %d entries, want %d", ErrInvalidTableau, t.Name, len(t.Cdot), s)
	}
	if t.Alpha[s] != 1 {
		return fmt.Errorf("%w: %q final alpha is %g, want 1", ErrInvalidTableau, t.Name, t.Alpha[s])
	}
	if !(t.ErrorWeight >= 0) || !vmath.IsFinite(t.ErrorWeight) {
		return fmt.Errorf("%w: %q error weight %g", ErrInvalidTableau, t.Name, t.ErrorWeight)
	}
	if t.Order < 0 {
		return fmt.Errorf("%w: %q order %d", ErrInvalidTableau, t.Name, t.Order)
	}
	for _, coeffs := range [][]float64{t.Alpha, t.Gamma, t.Cdot} {
		for _, c := range coeffs {
			if !vmath.IsFinite(c) {
				return fmt.Errorf("%w: %q has non-finite coefficient", ErrInvalidTableau, t.Name)
			}
		}
	}
	return nil
}

// Row returns the gamma coefficients of stage k.
func (t *NystromTableau) Row(k int) []float64 {
	off := k * (k - 1) / 2
	return t.Gamma[off : off+k]
}

// Exponent is the step adaptation exponent 1/(Order+1).
func (t *NystromTableau) Exponent() float64 {
	order := t.Order
	if order == 0 {
		order = t.StageCount
	}
	return 1 / float64(order+1)
}

// RKN45Tableau is the coefficient form of the RKN45 stepper.
func RKN45Tableau() *NystromTableau {
	return &NystromTableau{
		Name:       NameNystrom45,
		StageCount: 4,
		Alpha:      []float64{0, 1.0 / 3, 2.0 / 3, 1, 1},
		Gamma: []float64{
			1.0 / 18,
			0, 2.0 / 9,
			1.0 / 3, 0, 1.0 / 6,
			13.0 / 120, 3.0 / 10, 3.0 / 40, 1.0 / 60,
		},
		Cdot:        []float64{1.0 / 8, 3.0 / 8, 3.0 / 8, 1.0 / 8},
		ErrorWeight: 1.0 / 60,
		Order:       4,
	}
}

// RKN67Tableau is Butcher's seven-stage sixth-order method in Nyström form,
// followed by an evaluation at the committed positions.
func RKN67Tableau() *NystromTableau {
	return &NystromTableau{
		Name:       NameRKN67,
		StageCount: 7,
		Alpha:      []float64{0, 1.0 / 3, 2.0 / 3, 1.0 / 3, 1.0 / 2, 1.0 / 2, 1, 1},
		Gamma: []float64{
			0,
			2.0 / 9, 0,
			1.0 / 9, -1.0 / 18, 0,
			11.0 / 32, -1.0 / 4, 1.0 / 32, 0,
			9.0 / 32, 1.0 / 16, -1.0 / 32, -3.0 / 16, 0,
			-3.0 / 22, -3.0 / 22, 9.0 / 22, 12.0 / 11, -8.0 / 11, 0,
			11.0 / 120, 0, 9.0 / 40, 9.0 / 20, -2.0 / 15, -2.0 / 15, 0,
		},
		Cdot:        []float64{11.0 / 120, 0, 27.0 / 40, 27.0 / 40, -4.0 / 15, -4.0 / 15, 11.0 / 120},
		ErrorWeight: 11.0 / 120,
		Order:       6,
	}
}
