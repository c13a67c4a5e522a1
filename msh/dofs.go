// Copyright 2016 The Geofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msh

import (
	"github.com/cpmech/gosl/chk"
)

// HaloExchanger synchronizes named fields over ghost entities across
// partitions. Implementations block until the exchange is complete; kernel
// launches that read ghost values must not run concurrently with it.
type HaloExchanger interface {

	// ExchangeInts fills vals[e] for every ghost entity e from its owner
	ExchangeInts(field string, vals []int) error

	// ExchangeFloats fills vals[e] for every ghost entity e from its owner
	ExchangeFloats(field string, vals []float64) error
}

// DofManager assigns globally unique, contiguous-per-partition row indices to
// owned unknowns and mirrors owner-assigned indices onto ghost entities.
// Ghost entities never fabricate local indices.
type DofManager struct {

	// input
	Mesh       *Mesh // the mesh (with ghost ranks applied)
	NdofPerElem int  // unknowns per element; e.g. 1 for pressure

	// derived
	Offset    int   // global row offset of this partition (exclusive prefix sum)
	NumOwned  int   // owned rows in this partition
	NumGlobal int   // total rows over all partitions
	elemRow   []int // [ncells*ndof] global row of each (cell, component); -1 for unset ghosts
}

// NewDofManager numbers the owned element unknowns of the local partition.
// ownedCounts holds the owned-row count of every partition (gathered by the
// caller); myrank selects which entry is ours. The ghost rows are then pulled
// through the exchanger.
func NewDofManager(m *Mesh, ndofPerElem int, ownedCounts []int, myrank int, hx HaloExchanger) (o *DofManager, err error) {
	if ndofPerElem < 1 {
		return nil, chk.Err("ndofPerElem must be >= 1")
	}
	if myrank < 0 || myrank >= len(ownedCounts) {
		return nil, chk.Err("myrank %d out of range (%d partitions)", myrank, len(ownedCounts))
	}

	o = &DofManager{Mesh: m, NdofPerElem: ndofPerElem}

	// exclusive prefix sum of owned-row counts
	for p := 0; p < myrank; p++ {
		o.Offset += ownedCounts[p] * ndofPerElem
	}
	for _, c := range ownedCounts {
		o.NumGlobal += c * ndofPerElem
	}

	// number owned cells contiguously
	n := m.NumElements()
	o.elemRow = make([]int, n*ndofPerElem)
	for i := range o.elemRow {
		o.elemRow[i] = -1
	}
	row := o.Offset
	for e, c := range m.Cells {
		if !c.Owned() {
			continue
		}
		for i := 0; i < ndofPerElem; i++ {
			o.elemRow[e*ndofPerElem+i] = row
			row++
		}
	}
	o.NumOwned = row - o.Offset
	if o.NumOwned != ownedCounts[myrank]*ndofPerElem {
		return nil, chk.Err("owned-row count mismatch: numbered %d, announced %d", o.NumOwned, ownedCounts[myrank]*ndofPerElem)
	}

	// ghost rows come from their owners
	if hx != nil {
		err = hx.ExchangeInts("elemRow", o.elemRow)
		if err != nil {
			return nil, chk.Err("ghost row exchange failed:\n%v", err)
		}
	}
	return
}

// Row returns the global row index of (cell e, component i); -1 when the row
// of a ghost cell has not been synchronized
func (o *DofManager) Row(e, i int) int { return o.elemRow[e*o.NdofPerElem+i] }

// OwnsRow tells whether a global row belongs to this partition
func (o *DofManager) OwnsRow(row int) bool {
	return row >= o.Offset && row < o.Offset+o.NumOwned
}

// LocalExchanger implements HaloExchanger for the in-process case where all
// partitions live in one address space. With a single partition it is a no-op;
// with emulated multi-partition runs the owner-side values are provided
// up-front via SetSource.
type LocalExchanger struct {
	src map[string][]int
	srf map[string][]float64
}

// NewLocalExchanger returns an in-process exchanger
func NewLocalExchanger() *LocalExchanger {
	return &LocalExchanger{src: make(map[string][]int), srf: make(map[string][]float64)}
}

// SetSource registers the owner-side values of an integer field
func (o *LocalExchanger) SetSource(field string, vals []int) { o.src[field] = vals }

// SetSourceFloats registers the owner-side values of a float field
func (o *LocalExchanger) SetSourceFloats(field string, vals []float64) { o.srf[field] = vals }

// ExchangeInts copies owner values into the unset (-1) ghost entries
func (o *LocalExchanger) ExchangeInts(field string, vals []int) error {
	src, ok := o.src[field]
	if !ok {
		return nil // single partition: nothing to exchange
	}
	if len(src) != len(vals) {
		return chk.Err("field %q: size mismatch %d != %d", field, len(src), len(vals))
	}
	for i, v := range vals {
		if v < 0 {
			vals[i] = src[i]
		}
	}
	return nil
}

// ExchangeFloats copies owner values over all entries of the field
func (o *LocalExchanger) ExchangeFloats(field string, vals []float64) error {
	src, ok := o.srf[field]
	if !ok {
		return nil
	}
	if len(src) != len(vals) {
		return chk.Err("field %q: size mismatch %d != %d", field, len(src), len(vals))
	}
	copy(vals, src)
	return nil
}
