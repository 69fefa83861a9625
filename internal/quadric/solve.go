package quadric

import "gonum.org/v1/gonum/mat"

// PseudoInverseTolerance is the cutoff below which a singular value of
// the optimisation matrix is treated as zero when building the
// Moore-Penrose pseudo-inverse in Best. Matches the reference
// implementation's hard-coded 1e-30.
const PseudoInverseTolerance = 1e-30

// Best solves for the point x minimising x^T*Q*x subject to the
// homogeneous constraint w=1, by replacing Q's bottom row with
// [0 0 0 1] and solving M*x = [0 0 0 1]^T.
//
// The teacher engine's own Matrix4x4.Invert (matrix.go) is a
// closed-form cofactor-expansion inverse that falls back to the
// identity on a near-zero determinant — adequate for camera/projection
// matrices that are rarely singular. The pair optimisation matrix M is
// frequently singular or ill-conditioned (coplanar or collinear input
// produces a rank-deficient Q), so Best instead builds the
// Moore-Penrose pseudo-inverse via SVD: M+ = V * Sigma+ * U^T, with
// singular values below PseudoInverseTolerance zeroed in the
// reciprocal. This is the standard remedy for the same problem the
// closed-form inverse cannot handle gracefully.
//
// On success ok is true and x holds the solution's (x,y,z); on
// failure (SVD does not converge, or M is rank-deficient — any
// singular value at or below tolerance) ok is false and the caller
// falls back to the midpoint. M's constrained bottom row guarantees
// its largest singular value is always at least 1, so a single
// surviving singular value proves nothing about M's rank; all of them
// must clear the tolerance before the pseudo-inverse solution is
// trusted.
func Best(q Matrix) (x, y, z float64, ok bool) {
	rows := q.Rows()
	m := mat.NewDense(4, 4, nil)
	for r := 0; r < 3; r++ {
		for c := 0; c < 4; c++ {
			m.Set(r, c, rows[r][c])
		}
	}
	m.Set(3, 0, 0)
	m.Set(3, 1, 0)
	m.Set(3, 2, 0)
	m.Set(3, 3, 1)

	var svd mat.SVD
	if !svd.Factorize(m, mat.SVDFull) {
		return 0, 0, 0, false
	}

	values := svd.Values(nil)
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	allUsable := true
	var pinv mat.Dense
	pinv.Mul(&v, diagReciprocal(values, PseudoInverseTolerance, &allUsable))
	pinv.Mul(&pinv, u.T())
	if !allUsable {
		return 0, 0, 0, false
	}

	b := mat.NewVecDense(4, []float64{0, 0, 0, 1})
	var sol mat.VecDense
	sol.MulVec(&pinv, b)

	return sol.AtVec(0), sol.AtVec(1), sol.AtVec(2), true
}

// diagReciprocal builds the n x n diagonal matrix Sigma+ whose entries
// are 1/s for singular values s above tol and 0 otherwise, clearing
// *allUsable if any singular value failed to clear tol (M is then
// rank-deficient and the pseudo-inverse solution is not trustworthy).
func diagReciprocal(values []float64, tol float64, allUsable *bool) *mat.Dense {
	n := len(values)
	d := mat.NewDense(n, n, nil)
	for i, s := range values {
		if s > tol {
			d.Set(i, i, 1/s)
		} else {
			*allUsable = false
		}
	}
	return d
}
