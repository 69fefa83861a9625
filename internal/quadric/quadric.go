// Package quadric implements the Garland-Heckbert fundamental error
// quadric: the symmetric 4x4 matrix Kp = p*p^T of a plane's homogeneous
// coefficients, and the vertex quadric Qv = sum(Kp) over incident faces.
package quadric

import "math"

// Matrix is a symmetric 4x4 matrix, stored as its upper triangle:
// a11, a12, a13, a14, a22, a23, a24, a33, a34, a44. This mirrors the
// reference engine's Quadric.A layout (mesh_simplification.go) rather
// than a dense 16-float array, since every quadric in this package is
// symmetric by construction.
type Matrix struct {
	a11, a12, a13, a14 float64
	a22, a23, a24      float64
	a33, a34           float64
	a44                float64
}

// FromPlane builds the rank-1 fundamental quadric Kp = p*p^T for the
// homogeneous plane vector p = [a b c d].
//
// Degenerate (zero-area) triangles produce a zero or NaN plane vector
// upstream in Face construction; FromPlane does not special-case that
// here. The NaN/zero quadric propagates into the affected vertices'
// accumulated quadrics like any other face. In practice this is
// harmless: the solver in Best falls back to the midpoint whenever the
// resulting system is singular, which a zero or NaN quadric reliably
// produces.
func FromPlane(a, b, c, d float64) Matrix {
	return Matrix{
		a11: a * a, a12: a * b, a13: a * c, a14: a * d,
		a22: b * b, a23: b * c, a24: b * d,
		a33: c * c, a34: c * d,
		a44: d * d,
	}
}

// Add returns the sum of two quadrics. Vertex quadrics are built by
// repeated Add over incident faces, and pair quadrics by Add of the
// two endpoint quadrics (Qu + Qv) — including, by design, the
// double-counting of any face shared by both endpoints. Some published
// QEM variants subtract the shared-face contribution before summing;
// this implementation preserves the simpler Qu+Qv convention for
// parity with the reference implementation.
func (m Matrix) Add(other Matrix) Matrix {
	return Matrix{
		a11: m.a11 + other.a11, a12: m.a12 + other.a12, a13: m.a13 + other.a13, a14: m.a14 + other.a14,
		a22: m.a22 + other.a22, a23: m.a23 + other.a23, a24: m.a24 + other.a24,
		a33: m.a33 + other.a33, a34: m.a34 + other.a34,
		a44: m.a44 + other.a44,
	}
}

// Error evaluates [x y z 1]^T * Q * [x y z 1], the squared distance
// from (x,y,z) to the set of planes this quadric accumulates.
func (m Matrix) Error(x, y, z float64) float64 {
	return m.a11*x*x + 2*m.a12*x*y + 2*m.a13*x*z + 2*m.a14*x +
		m.a22*y*y + 2*m.a23*y*z + 2*m.a24*y +
		m.a33*z*z + 2*m.a34*z +
		m.a44
}

// Rows returns the full 4x4 representation, row-major, for callers
// (the pair-cost solver) that need a dense matrix to hand to a linear
// solver.
func (m Matrix) Rows() [4][4]float64 {
	return [4][4]float64{
		{m.a11, m.a12, m.a13, m.a14},
		{m.a12, m.a22, m.a23, m.a24},
		{m.a13, m.a23, m.a33, m.a34},
		{m.a14, m.a24, m.a34, m.a44},
	}
}

// IsFinite reports whether every entry of the quadric is a finite
// float, guarding the degenerate-triangle case documented on FromPlane.
func (m Matrix) IsFinite() bool {
	for _, row := range m.Rows() {
		for _, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}
