package gravity_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gravsim/internal/gravity"
	"github.com/san-kum/gravsim/internal/universe"
	"github.com/san-kum/gravsim/internal/vmath"
)

func sampled(n int, seed uint64) *universe.Universe {
	s := universe.DefaultSampler()
	s.AllowNegativeMass = false
	u, err := s.Sample(n, seed)
	Expect(err).NotTo(HaveOccurred())
	return u
}

var _ = Describe("Field", func() {
	var field *gravity.Field

	BeforeEach(func() {
		field = gravity.New()
	})

	Describe("CenterOfGravity", func() {
		It("weights positions by mass", func() {
			u := universe.FromBodies([]universe.Body{
				{Position: vmath.Vector{X: 0, Y: 0}, Mass: 3},
				{Position: vmath.Vector{X: 4, Y: 8}, Mass: 1},
			})
			c, err := field.CenterOfGravity(u)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.X).To(BeNumerically("~", 1, 1e-12))
			Expect(c.Y).To(BeNumerically("~", 2, 1e-12))
		})

		It("rejects a universe of zero total mass", func() {
			u := universe.EarthMoon()
			u.Masses[0], u.Masses[1] = 0, 0
			c, err := field.CenterOfGravity(u)
			Expect(err).To(MatchError(gravity.ErrDegenerateMass))
			Expect(math.IsNaN(c.X) || math.IsNaN(c.Y)).To(BeFalse())
		})

		It("rejects negative masses that cancel out", func() {
			u := universe.EarthMoon()
			u.Masses[0], u.Masses[1] = 5e24, -5e24
			_, err := field.CenterOfGravity(u)
			Expect(err).To(MatchError(gravity.ErrDegenerateMass))
		})

		It("agrees with CenterOf on a snapshot", func() {
			u := sampled(6, 3)
			want, err := field.CenterOfGravity(u)
			Expect(err).NotTo(HaveOccurred())

			snap := u.Snapshot()
			got, err := gravity.CenterOf(snap.Positions, snap.Masses)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(want))
		})

		It("rejects ragged slices", func() {
			_, err := gravity.CenterOf(make([]vmath.Vector, 2), []float64{1})
			Expect(err).To(MatchError(universe.ErrDimensionMismatch))
		})
	})

	Describe("Acceleration", func() {
		It("matches the inverse-square law for two bodies", func() {
			u := universe.EarthMoon()
			out := make([]vmath.Vector, 2)
			Expect(field.Acceleration(u, out)).To(Succeed())

			r := 3.85e8
			Expect(out[0].Y).To(BeNumerically("~", gravity.G*u.Masses[1]/(r*r), 1e-15))
			Expect(out[1].Y).To(BeNumerically("~", -gravity.G*u.Masses[0]/(r*r), 1e-12))
			Expect(out[0].X).To(BeZero())
			Expect(out[1].X).To(BeZero())
		})

		It("obeys Newton's third law pair by pair", func() {
			u := sampled(5, 11)
			pair := make([]vmath.Vector, 2)
			for i := 0; i < u.N(); i++ {
				for j := 0; j < u.N(); j++ {
					if i == j {
						continue
					}
					pos := []vmath.Vector{u.Positions[i], u.Positions[j]}
					mass := []float64{u.Masses[i], u.Masses[j]}
					Expect(field.Accelerations(pos, mass, pair)).To(Succeed())

					fi := vmath.Vector{X: mass[0] * pair[0].X, Y: mass[0] * pair[0].Y}
					fj := vmath.Vector{X: mass[1] * pair[1].X, Y: mass[1] * pair[1].Y}
					scale := vmath.Length(fi)
					Expect(fi.X+fj.X).To(BeNumerically("~", 0, 1e-12*scale))
					Expect(fi.Y+fj.Y).To(BeNumerically("~", 0, 1e-12*scale))
					Expect(fi.X*fj.Y-fi.Y*fj.X).To(BeNumerically("~", 0, 1e-9*scale*scale))
				}
			}
		})

		It("conserves total force over all pairs", func() {
			u := sampled(8, 3)
			out := make([]vmath.Vector, u.N())
			Expect(field.Acceleration(u, out)).To(Succeed())

			var sum vmath.Vector
			largest := 0.0
			for i, a := range out {
				f := vmath.Vector{X: u.Masses[i] * a.X, Y: u.Masses[i] * a.Y}
				sum.X += f.X
				sum.Y += f.Y
				largest = math.Max(largest, vmath.Length(f))
			}
			Expect(vmath.Length(sum)).To(BeNumerically("<", 1e-10*largest))
		})

		It("reports coincident bodies instead of producing Inf", func() {
			u := sampled(3, 5)
			u.Positions[2] = u.Positions[0]
			out := make([]vmath.Vector, 3)

			err := field.Acceleration(u, out)
			Expect(err).To(MatchError(gravity.ErrCoincidentBodies))

			var ce *gravity.CoincidenceError
			Expect(err).To(BeAssignableToTypeOf(ce))
			ce = err.(*gravity.CoincidenceError)
			Expect([]int{ce.I, ce.J}).To(ConsistOf(0, 2))
		})

		It("treats separations whose inverse cube overflows as coincident", func() {
			u := universe.EarthMoon()
			u.Positions[0] = vmath.Vector{}
			u.Positions[1] = vmath.Vector{X: 1e-158, Y: 0}
			out := make([]vmath.Vector, 2)

			Expect(field.Acceleration(u, out)).To(MatchError(gravity.ErrCoincidentBodies))
		})

		It("rejects mismatched buffers", func() {
			u := universe.EarthMoon()
			Expect(field.Acceleration(u, make([]vmath.Vector, 1))).To(MatchError(universe.ErrDimensionMismatch))
		})
	})

	Describe("energies", func() {
		It("computes the kinetic energy", func() {
			u := universe.EarthMoon()
			expected := 0.5 * 0.07346e24 * 1022 * 1022
			Expect(field.KineticEnergy(u)).To(BeNumerically("~", expected, expected*1e-12))
		})

		It("computes the gravitational energy", func() {
			u := universe.EarthMoon()
			pot, err := field.GravitationalEnergy(u)
			Expect(err).NotTo(HaveOccurred())
			expected := -gravity.G * 5.9724e24 * 0.07346e24 / 3.85e8
			Expect(pot).To(BeNumerically("~", expected, math.Abs(expected)*1e-14))
		})

		It("sums both into the total energy", func() {
			u := universe.EarthMoon()
			pot, _ := field.GravitationalEnergy(u)
			total, err := field.TotalEnergy(u)
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(field.KineticEnergy(u) + pot))
			Expect(total).To(BeNumerically("<", 0))
		})

		It("rejects a universe of zero total mass without NaN", func() {
			u := universe.EarthMoon()
			u.Masses[0], u.Masses[1] = 0, 0
			pot, err := field.GravitationalEnergy(u)
			Expect(err).To(MatchError(gravity.ErrDegenerateMass))
			Expect(math.IsNaN(pot)).To(BeFalse())

			_, err = field.TotalEnergy(u)
			Expect(err).To(MatchError(gravity.ErrDegenerateMass))
		})

		It("rejects coincident bodies", func() {
			u := universe.EarthMoon()
			u.Positions[1] = u.Positions[0]
			_, err := field.GravitationalEnergy(u)
			Expect(err).To(MatchError(gravity.ErrCoincidentBodies))
		})

		It("rejects nearly coincident bodies the force law rejects", func() {
			u := universe.EarthMoon()
			u.Positions[0] = vmath.Vector{}
			u.Positions[1] = vmath.Vector{X: 1e-158, Y: 0}
			pot, err := field.GravitationalEnergy(u)
			Expect(err).To(MatchError(gravity.ErrCoincidentBodies))
			Expect(pot).To(BeZero())
		})
	})

	Describe("momenta", func() {
		It("computes linear and angular momentum", func() {
			u := universe.EarthMoon()
			p := field.Momentum(u)
			Expect(p.X).To(BeNumerically("~", 0.07346e24*1022, 0.07346e24*1022*1e-12))
			Expect(p.Y).To(BeZero())
			l := -0.07346e24 * 3.85e8 * 1022
			Expect(field.AngularMomentum(u)).To(BeNumerically("~", l, math.Abs(l)*1e-12))
		})
	})
})
