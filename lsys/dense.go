// Copyright 2016 The Geofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lsys

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// SingTol is the default singularity threshold for the small dense solvers
const SingTol = 1.0e-14

// Det2 returns the determinant of a 2 x 2 matrix
func Det2(A [][]float64) float64 {
	return A[0][0]*A[1][1] - A[0][1]*A[1][0]
}

// Det3 returns the determinant of a 3 x 3 matrix
func Det3(A [][]float64) float64 {
	return A[0][0]*(A[1][1]*A[2][2]-A[1][2]*A[2][1]) -
		A[0][1]*(A[1][0]*A[2][2]-A[1][2]*A[2][0]) +
		A[0][2]*(A[1][0]*A[2][1]-A[1][1]*A[2][0])
}

// Solve2 solves a 2 x 2 system by Cramer's rule.
//  tol <= 0 selects the default singularity threshold
func Solve2(x []float64, A [][]float64, b []float64, tol float64) error {
	if tol <= 0 {
		tol = SingTol
	}
	det := Det2(A)
	if math.Abs(det) < tol {
		return chk.Err("2x2 system is singular: |det|=%g < %g", math.Abs(det), tol)
	}
	x[0] = (b[0]*A[1][1] - b[1]*A[0][1]) / det
	x[1] = (b[1]*A[0][0] - b[0]*A[1][0]) / det
	return nil
}

// Solve3 solves a 3 x 3 system by Cramer's rule.
//  tol <= 0 selects the default singularity threshold
func Solve3(x []float64, A [][]float64, b []float64, tol float64) error {
	if tol <= 0 {
		tol = SingTol
	}
	det := Det3(A)
	if math.Abs(det) < tol {
		return chk.Err("3x3 system is singular: |det|=%g < %g", math.Abs(det), tol)
	}
	x[0] = (b[0]*(A[1][1]*A[2][2]-A[1][2]*A[2][1]) -
		A[0][1]*(b[1]*A[2][2]-A[1][2]*b[2]) +
		A[0][2]*(b[1]*A[2][1]-A[1][1]*b[2])) / det
	x[1] = (A[0][0]*(b[1]*A[2][2]-A[1][2]*b[2]) -
		b[0]*(A[1][0]*A[2][2]-A[1][2]*A[2][0]) +
		A[0][2]*(A[1][0]*b[2]-b[1]*A[2][0])) / det
	x[2] = (A[0][0]*(A[1][1]*b[2]-b[1]*A[2][1]) -
		A[0][1]*(A[1][0]*b[2]-b[1]*A[2][0]) +
		b[0]*(A[1][0]*A[2][1]-A[1][1]*A[2][0])) / det
	return nil
}

// SolveN solves an n x n system by Gaussian elimination with partial
// pivoting. A and b are not modified. Small systems dispatch to the closed
// forms.
//  tol <= 0 selects the default singularity threshold
func SolveN(x []float64, A [][]float64, b []float64, tol float64) error {
	if tol <= 0 {
		tol = SingTol
	}
	n := len(b)
	switch n {
	case 0:
		return chk.Err("empty system")
	case 1:
		if math.Abs(A[0][0]) < tol {
			return chk.Err("1x1 system is singular: |A|=%g < %g", math.Abs(A[0][0]), tol)
		}
		x[0] = b[0] / A[0][0]
		return nil
	case 2:
		return Solve2(x, A, b, tol)
	case 3:
		return Solve3(x, A, b, tol)
	}

	// working copies
	a := make([][]float64, n)
	for i := 0; i < n; i++ {
		a[i] = make([]float64, n)
		copy(a[i], A[i])
	}
	copy(x, b)

	// forward elimination with partial pivoting
	for k := 0; k < n-1; k++ {

		// find pivot
		piv, big := k, math.Abs(a[k][k])
		for i := k + 1; i < n; i++ {
			if v := math.Abs(a[i][k]); v > big {
				piv, big = i, v
			}
		}
		if big < tol {
			return chk.Err("%dx%d system is singular: pivot %d is %g < %g", n, n, k, big, tol)
		}
		if piv != k {
			a[k], a[piv] = a[piv], a[k]
			x[k], x[piv] = x[piv], x[k]
		}

		// eliminate below
		for i := k + 1; i < n; i++ {
			f := a[i][k] / a[k][k]
			for j := k; j < n; j++ {
				a[i][j] -= f * a[k][j]
			}
			x[i] -= f * x[k]
		}
	}
	if math.Abs(a[n-1][n-1]) < tol {
		return chk.Err("%dx%d system is singular: pivot %d is %g < %g", n, n, n-1, math.Abs(a[n-1][n-1]), tol)
	}

	// back substitution
	for i := n - 1; i >= 0; i-- {
		s := x[i]
		for j := i + 1; j < n; j++ {
			s -= a[i][j] * x[j]
		}
		x[i] = s / a[i][i]
	}
	return nil
}
