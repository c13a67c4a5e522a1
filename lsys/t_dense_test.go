// Copyright 2016 The Geofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lsys

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"gonum.org/v1/gonum/mat"
)

func verbose() {
	chk.Verbose = true
}

// residual computes |A x - b| with gonum
func residual(A [][]float64, x, b []float64) []float64 {
	n := len(b)
	a := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			a.Set(i, j, A[i][j])
		}
	}
	var ax mat.VecDense
	ax.MulVec(a, mat.NewVecDense(n, x))
	res := make([]float64, n)
	for i := 0; i < n; i++ {
		res[i] = ax.AtVec(i) - b[i]
	}
	return res
}

func Test_dense01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("dense01. 2x2 and 3x3 round trip")

	A2 := [][]float64{{4, 1}, {2, 3}}
	b2 := []float64{9, 8}
	x2 := make([]float64, 2)
	if err := Solve2(x2, A2, b2, 0); err != nil {
		tst.Errorf("Solve2 failed:\n%v", err)
		return
	}
	io.Pforan("x2 = %v\n", x2)
	chk.Vector(tst, "A2 x2 - b2", 1e-14, residual(A2, x2, b2), []float64{0, 0})

	A3 := [][]float64{{2, 1, -1}, {-3, -1, 2}, {-2, 1, 2}}
	b3 := []float64{8, -11, -3}
	x3 := make([]float64, 3)
	if err := Solve3(x3, A3, b3, 0); err != nil {
		tst.Errorf("Solve3 failed:\n%v", err)
		return
	}
	io.Pforan("x3 = %v\n", x3)
	chk.Vector(tst, "x3", 1e-13, x3, []float64{2, 3, -1})
}

func Test_dense02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("dense02. NxN with pivoting")

	// zero on the diagonal forces a row swap
	A := [][]float64{
		{0, 2, 1, 4},
		{3, 1, 0, 1},
		{1, 0, 2, 2},
		{2, 3, 1, 0},
	}
	b := []float64{21, 8, 13, 9}
	x := make([]float64, 4)
	if err := SolveN(x, A, b, 0); err != nil {
		tst.Errorf("SolveN failed:\n%v", err)
		return
	}
	chk.Vector(tst, "A x - b", 1e-12, residual(A, x, b), []float64{0, 0, 0, 0})

	// inputs must be untouched
	chk.Scalar(tst, "A[0][0]", 1e-17, A[0][0], 0)
	chk.Scalar(tst, "b[0]", 1e-17, b[0], 21)

	// 1x1
	x1 := make([]float64, 1)
	if err := SolveN(x1, [][]float64{{4}}, []float64{2}, 0); err != nil {
		tst.Errorf("SolveN(1x1) failed:\n%v", err)
		return
	}
	chk.Scalar(tst, "x1", 1e-15, x1[0], 0.5)
}

func Test_dense03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("dense03. singular guards")

	// rank-deficient 2x2
	if err := Solve2(make([]float64, 2), [][]float64{{1, 2}, {2, 4}}, []float64{1, 2}, 0); err == nil {
		tst.Errorf("singular 2x2 must fail\n")
	}

	// rank-deficient 3x3
	A := [][]float64{{1, 2, 3}, {2, 4, 6}, {1, 0, 1}}
	if err := Solve3(make([]float64, 3), A, []float64{1, 2, 3}, 0); err == nil {
		tst.Errorf("singular 3x3 must fail\n")
	}

	// rank-deficient 4x4
	B := [][]float64{
		{1, 2, 3, 4},
		{2, 4, 6, 8},
		{1, 0, 1, 0},
		{0, 1, 0, 1},
	}
	if err := SolveN(make([]float64, 4), B, []float64{1, 2, 3, 4}, 0); err == nil {
		tst.Errorf("singular 4x4 must fail\n")
	}

	// a loose threshold rejects a well-conditioned but small-determinant system
	C := [][]float64{{1e-8, 0}, {0, 1e-8}}
	if err := Solve2(make([]float64, 2), C, []float64{1, 1}, 1e-10); err == nil {
		tst.Errorf("|det| below the configured threshold must fail\n")
	}
	if err := Solve2(make([]float64, 2), C, []float64{1, 1}, 1e-20); err != nil {
		tst.Errorf("tighter threshold should pass:\n%v", err)
	}
}
