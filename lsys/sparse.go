// Copyright 2016 The Geofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package lsys implements the global sparse assembly target and small dense solvers
package lsys

import (
	"sync"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
	"github.com/james-bowman/sparse"
)

// nshards is the number of row-lock shards
const nshards = 64

// SparseSystem accumulates element contributions into a global sparse matrix
// and right-hand side. Adds are row-locked so concurrent element scatters to
// different rows never contend and scatters to the same row never race.
type SparseSystem struct {

	// input
	Nrows int // global number of rows
	OwnLo int // first owned row
	OwnHi int // one past the last owned row

	// storage
	mu   [nshards]sync.Mutex
	cols [][]int
	vals [][]float64
	rhs  []float64
}

// NewSparseSystem allocates a system with the given global size and owned-row
// range [ownLo, ownHi)
func NewSparseSystem(nrows, ownLo, ownHi int) (o *SparseSystem, err error) {
	if nrows < 1 {
		return nil, chk.Err("nrows=%d must be >= 1", nrows)
	}
	if ownLo < 0 || ownHi > nrows || ownLo > ownHi {
		return nil, chk.Err("owned range [%d,%d) out of [0,%d)", ownLo, ownHi, nrows)
	}
	o = &SparseSystem{
		Nrows: nrows,
		OwnLo: ownLo,
		OwnHi: ownHi,
		cols:  make([][]int, nrows),
		vals:  make([][]float64, nrows),
		rhs:   make([]float64, nrows),
	}
	return
}

// OwnsRow tells whether a global row belongs to this partition
func (o *SparseSystem) OwnsRow(row int) bool {
	return row >= o.OwnLo && row < o.OwnHi
}

// AddToRow accumulates vals into (row, cols). The whole call is atomic with
// respect to other adds on the same row.
func (o *SparseSystem) AddToRow(row int, cols []int, vals []float64) error {
	if row < 0 || row >= o.Nrows {
		return chk.Err("row %d out of range [0,%d)", row, o.Nrows)
	}
	if len(cols) != len(vals) {
		return chk.Err("row %d: len(cols)=%d != len(vals)=%d", row, len(cols), len(vals))
	}
	for _, c := range cols {
		if c < 0 || c >= o.Nrows {
			return chk.Err("row %d: column %d out of range [0,%d)", row, c, o.Nrows)
		}
	}
	mu := &o.mu[row%nshards]
	mu.Lock()
	o.cols[row] = append(o.cols[row], cols...)
	o.vals[row] = append(o.vals[row], vals...)
	mu.Unlock()
	return nil
}

// AddToRhs accumulates v into the right-hand side at row
func (o *SparseSystem) AddToRhs(row int, v float64) error {
	if row < 0 || row >= o.Nrows {
		return chk.Err("row %d out of range [0,%d)", row, o.Nrows)
	}
	mu := &o.mu[row%nshards]
	mu.Lock()
	o.rhs[row] += v
	mu.Unlock()
	return nil
}

// Rhs returns the right-hand side vector
func (o *SparseSystem) Rhs() []float64 { return o.rhs }

// Reset clears all accumulated entries, keeping the allocation for reuse
// across nonlinear iterations
func (o *SparseSystem) Reset() {
	for i := range o.cols {
		o.cols[i] = o.cols[i][:0]
		o.vals[i] = o.vals[i][:0]
		o.rhs[i] = 0
	}
}

// ToTriplet fills a triplet with the accumulated (row, col, val) entries.
// Duplicates are kept; sparse solvers sum them on conversion.
func (o *SparseSystem) ToTriplet(t *la.Triplet) {
	nnz := 0
	for _, c := range o.cols {
		nnz += len(c)
	}
	t.Init(o.Nrows, o.Nrows, nnz)
	for row := range o.cols {
		for k, col := range o.cols[row] {
			t.Put(row, col, o.vals[row][k])
		}
	}
}

// ToCSR sums duplicates and exports the matrix in compressed sparse row
// format for the external linear solver
func (o *SparseSystem) ToCSR() *sparse.CSR {
	dok := sparse.NewDOK(o.Nrows, o.Nrows)
	for row := range o.cols {
		for k, col := range o.cols[row] {
			dok.Set(row, col, dok.At(row, col)+o.vals[row][k])
		}
	}
	return dok.ToCSR()
}
