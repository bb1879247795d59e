// Package vmath provides the 2D vector arithmetic used by the gravity field
// and the integrators.
//
// Slice operations are elementwise over len(out) pairs and panic when an
// input has a different length. The output buffer may alias at most one of
// the input buffers; passing the same buffer as both inputs and the output is
// not supported. Every integrator accumulates into scratch buffers under this
// one contract.
package vmath

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Vector is a 2D displacement, velocity or acceleration sample.
type Vector = r2.Vec

// Length returns the Euclidean norm of v.
func Length(v Vector) float64 {
	return r2.Norm(v)
}

// Distance returns the Euclidean distance between p and q.
func Distance(p, q Vector) float64 {
	return r2.Norm(r2.Sub(p, q))
}

// InvDistance returns 1/Distance(p, q). Coincident points yield +Inf.
func InvDistance(p, q Vector) float64 {
	return 1 / Distance(p, q)
}

// Scale sets out[i] = k * in[i].
func Scale(out, in []Vector, k float64) {
	mustLen(len(out), len(in))
	for i := range out {
		out[i] = r2.Scale(k, in[i])
	}
}

// Add sets out[i] = a[i] + b[i].
func Add(out, a, b []Vector) {
	mustLen(len(out), len(a), len(b))
	for i := range out {
		out[i] = r2.Add(a[i], b[i])
	}
}

// Sub sets out[i] = a[i] - b[i].
func Sub(out, a, b []Vector) {
	mustLen(len(out), len(a), len(b))
	for i := range out {
		out[i] = r2.Sub(a[i], b[i])
	}
}

// AddScaled sets out[i] = a[i] + k*b[i].
func AddScaled(out, a, b []Vector, k float64) {
	mustLen(len(out), len(a), len(b))
	for i := range out {
		out[i] = Vector{X: a[i].X + k*b[i].X, Y: a[i].Y + k*b[i].Y}
	}
}

// Copy copies src into dst.
func Copy(dst, src []Vector) {
	mustLen(len(dst), len(src))
	copy(dst, src)
}

// Zero clears out.
func Zero(out []Vector) {
	for i := range out {
		out[i] = Vector{}
	}
}

// Finite reports whether every component of vs is neither NaN nor Inf.
func Finite(vs []Vector) bool {
	for _, v := range vs {
		if !IsFinite(v.X) || !IsFinite(v.Y) {
			return false
		}
	}
	return true
}

// IsFinite reports whether x is neither NaN nor Inf.
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

func mustLen(n int, others ...int) {
	for _, m := range others {
		if m != n {
			panic(fmt.Sprintf("vmath: length mismatch: %d != %d", m, n))
		}
	}
}
