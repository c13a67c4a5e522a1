// Copyright 2016 The Geofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lsys

import (
	"sync"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
)

func Test_sparse01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("sparse01. accumulation and export")

	K, err := NewSparseSystem(3, 0, 3)
	if err != nil {
		tst.Errorf("NewSparseSystem failed:\n%v", err)
		return
	}

	// duplicate entries must sum
	K.AddToRow(0, []int{0, 1}, []float64{1, 2})
	K.AddToRow(0, []int{0}, []float64{3})
	K.AddToRow(1, []int{1}, []float64{5})
	K.AddToRow(2, []int{0, 2}, []float64{-1, 4})
	K.AddToRhs(0, 1.5)
	K.AddToRhs(0, 0.5)
	K.AddToRhs(2, -2)

	ref := [][]float64{
		{4, 2, 0},
		{0, 5, 0},
		{-1, 0, 4},
	}

	// CSR export
	csr := K.ToCSR()
	nr, nc := csr.Dims()
	chk.IntAssert(nr, 3)
	chk.IntAssert(nc, 3)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			chk.Scalar(tst, "csr entry", 1e-15, csr.At(i, j), ref[i][j])
		}
	}

	// triplet export
	var t la.Triplet
	K.ToTriplet(&t)
	chk.Matrix(tst, "triplet matrix", 1e-15, t.ToMatrix(nil).ToDense(), ref)

	// rhs
	chk.Vector(tst, "rhs", 1e-15, K.Rhs(), []float64{2, 0, -2})

	// reset keeps the shape, clears the content
	K.Reset()
	chk.Vector(tst, "rhs after reset", 1e-17, K.Rhs(), []float64{0, 0, 0})
	csr = K.ToCSR()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			chk.Scalar(tst, "entry after reset", 1e-17, csr.At(i, j), 0)
		}
	}
}

func Test_sparse02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("sparse02. concurrent scatters")

	n := 32
	K, err := NewSparseSystem(n, 0, n)
	if err != nil {
		tst.Errorf("NewSparseSystem failed:\n%v", err)
		return
	}

	// many goroutines hammer the same rows
	nworkers := 8
	nadds := 100
	var wg sync.WaitGroup
	for w := 0; w < nworkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for k := 0; k < nadds; k++ {
				for row := 0; row < n; row++ {
					K.AddToRow(row, []int{row}, []float64{1})
					K.AddToRhs(row, 1)
				}
			}
		}()
	}
	wg.Wait()

	want := float64(nworkers * nadds)
	csr := K.ToCSR()
	for row := 0; row < n; row++ {
		chk.Scalar(tst, "diag", 1e-12, csr.At(row, row), want)
		chk.Scalar(tst, "rhs", 1e-12, K.Rhs()[row], want)
	}
}

func Test_sparse03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("sparse03. bad input")

	K, err := NewSparseSystem(4, 1, 3)
	if err != nil {
		tst.Errorf("NewSparseSystem failed:\n%v", err)
		return
	}
	if !K.OwnsRow(1) || !K.OwnsRow(2) || K.OwnsRow(0) || K.OwnsRow(3) {
		tst.Errorf("owned-row range is wrong\n")
	}
	if K.AddToRow(-1, []int{0}, []float64{1}) == nil {
		tst.Errorf("negative row must fail\n")
	}
	if K.AddToRow(0, []int{4}, []float64{1}) == nil {
		tst.Errorf("out-of-range column must fail\n")
	}
	if K.AddToRow(0, []int{0, 1}, []float64{1}) == nil {
		tst.Errorf("cols/vals size mismatch must fail\n")
	}
	if K.AddToRhs(4, 1) == nil {
		tst.Errorf("out-of-range rhs row must fail\n")
	}
	if _, err := NewSparseSystem(0, 0, 0); err == nil {
		tst.Errorf("nrows=0 must fail\n")
	}
	if _, err := NewSparseSystem(3, 2, 1); err == nil {
		tst.Errorf("inverted owned range must fail\n")
	}
}
