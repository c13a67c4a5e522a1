// Copyright 2016 The Geofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package fvm implements the upwind finite-volume flux engine for multiphase flow
package fvm

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
	"github.com/geofem/geofem/msh"
)

// derivative packing within the trailing axis of derivative fields:
// index 0 is d/dP, index DerivC+ic is d/dCompDens[ic]
const (
	DerivP = 0
	DerivC = 1
)

// BlockFields holds the per-cell fields of one (region, subregion) block.
// Trailing derivative axes are packed [1+ncomp] as [dP, dC0, dC1, ...]
type BlockFields struct {
	Pres            []float64     // [elem] cell pressure
	GravCoef        []float64     // [elem] gravity times depth
	PhaseMob        [][]float64   // [elem][ip] phase mobility
	DPhaseMob       [][][]float64 // [elem][ip][1+ncomp]
	DPhaseVolFrac   [][][]float64 // [elem][jp][1+ncomp]
	DCompFracDDens  [][][]float64 // [elem][ic][jc] d compFrac / d compDens
	PhaseMassDens   [][]float64   // [elem][ip] phase mass density
	DPhaseMassDens  [][][]float64 // [elem][ip][1+ncomp]
	PhaseCapPres    [][]float64   // [elem][ip] capillary pressure
	DPhaseCapPresDS [][][]float64 // [elem][ip][jp] d capPres / d phaseVolFrac
	PhaseCompFrac   [][][]float64 // [elem][ip][ic] component fraction in phase
	DPhaseCompFrac  [][][][]float64
}

// NewBlockFields allocates all fields of a block
func NewBlockFields(nelem, nph, ncomp int) *BlockFields {
	ndof := 1 + ncomp
	o := &BlockFields{
		Pres:     make([]float64, nelem),
		GravCoef: make([]float64, nelem),
	}
	o.PhaseMob = la.MatAlloc(nelem, nph)
	o.PhaseMassDens = la.MatAlloc(nelem, nph)
	o.PhaseCapPres = la.MatAlloc(nelem, nph)
	o.DPhaseMob = make([][][]float64, nelem)
	o.DPhaseVolFrac = make([][][]float64, nelem)
	o.DCompFracDDens = make([][][]float64, nelem)
	o.DPhaseMassDens = make([][][]float64, nelem)
	o.DPhaseCapPresDS = make([][][]float64, nelem)
	o.PhaseCompFrac = make([][][]float64, nelem)
	o.DPhaseCompFrac = make([][][][]float64, nelem)
	for e := 0; e < nelem; e++ {
		o.DPhaseMob[e] = la.MatAlloc(nph, ndof)
		o.DPhaseVolFrac[e] = la.MatAlloc(nph, ndof)
		o.DCompFracDDens[e] = la.MatAlloc(ncomp, ncomp)
		o.DPhaseMassDens[e] = la.MatAlloc(nph, ndof)
		o.DPhaseCapPresDS[e] = la.MatAlloc(nph, nph)
		o.PhaseCompFrac[e] = la.MatAlloc(nph, ncomp)
		o.DPhaseCompFrac[e] = make([][][]float64, nph)
		for ip := 0; ip < nph; ip++ {
			o.DPhaseCompFrac[e][ip] = la.MatAlloc(ncomp, ndof)
		}
	}
	return o
}

// Fields indexes the per-cell fields by (region, subregion, element)
type Fields struct {
	Blocks [][]*BlockFields // [reg][sub]
}

// NewFields allocates the block table; nsub[r] gives the number of
// subregions of region r. Blocks are set afterwards with SetBlock.
func NewFields(nsub []int) *Fields {
	o := &Fields{Blocks: make([][]*BlockFields, len(nsub))}
	for r, n := range nsub {
		o.Blocks[r] = make([]*BlockFields, n)
	}
	return o
}

// SetBlock installs the fields of one block
func (o *Fields) SetBlock(reg, sub int, bf *BlockFields) error {
	if reg < 0 || reg >= len(o.Blocks) || sub < 0 || sub >= len(o.Blocks[reg]) {
		return chk.Err("block (%d,%d) out of range", reg, sub)
	}
	o.Blocks[reg][sub] = bf
	return nil
}

// At returns the block fields holding cell c
func (o *Fields) At(c msh.CellRef) *BlockFields {
	return o.Blocks[c.Reg][c.Sub]
}

// Stencil describes one two-point flux connection
type Stencil struct {
	Cells    [2]msh.CellRef // the two support points
	Trans    [2]float64     // transmissibility per side
	DTransDp [2]float64     // derivative of transmissibility w.r.t pressure
}

// StencilFromFace builds a stencil from an interior mesh face. The two
// geometric half-factors are combined harmonically into one connection
// transmissibility T, signed +T on side 0 and -T on side 1 so that
// Σ_i Trans[i] p_i forms the pressure difference p_0 - p_1.
func StencilFromFace(m *msh.Mesh, f *msh.Face) (*Stencil, error) {
	if f.Boundary {
		return nil, chk.Err("face %d is a boundary face", f.Id)
	}
	if f.Gamma[0] <= 0 || f.Gamma[1] <= 0 {
		return nil, chk.Err("face %d has non-positive connection factors %v", f.Id, f.Gamma)
	}
	t := f.Gamma[0] * f.Gamma[1] / (f.Gamma[0] + f.Gamma[1])
	return &Stencil{
		Cells: f.Cells,
		Trans: [2]float64{t, -t},
	}, nil
}

// PhaseFlux accumulates one phase flux and its derivatives over the stencil
type PhaseFlux struct {
	Flux    float64
	DFluxDp [2]float64
	DFluxDc [2][]float64 // [ke][jc]
}

// NewPhaseFlux allocates a phase flux accumulator
func NewPhaseFlux(ncomp int) *PhaseFlux {
	o := new(PhaseFlux)
	o.DFluxDc[0] = make([]float64, ncomp)
	o.DFluxDc[1] = make([]float64, ncomp)
	return o
}

// Reset zeroes the accumulator
func (o *PhaseFlux) Reset() {
	o.Flux = 0
	for ke := 0; ke < 2; ke++ {
		o.DFluxDp[ke] = 0
		for jc := range o.DFluxDc[ke] {
			o.DFluxDc[ke][jc] = 0
		}
	}
}

// CompFlux accumulates component fluxes and their derivatives over the stencil
type CompFlux struct {
	Flux    []float64     // [ic]
	DFluxDp [2][]float64  // [ke][ic]
	DFluxDc [2][][]float64 // [ke][ic][jc]
}

// NewCompFlux allocates a component flux accumulator
func NewCompFlux(ncomp int) *CompFlux {
	o := &CompFlux{Flux: make([]float64, ncomp)}
	for ke := 0; ke < 2; ke++ {
		o.DFluxDp[ke] = make([]float64, ncomp)
		o.DFluxDc[ke] = la.MatAlloc(ncomp, ncomp)
	}
	return o
}

// Reset zeroes the accumulator
func (o *CompFlux) Reset() {
	for ic := range o.Flux {
		o.Flux[ic] = 0
		for ke := 0; ke < 2; ke++ {
			o.DFluxDp[ke][ic] = 0
			for jc := range o.DFluxDc[ke][ic] {
				o.DFluxDc[ke][ic][jc] = 0
			}
		}
	}
}

// applyChainRule converts derivatives w.r.t component fractions into
// derivatives w.r.t component densities through the cell transform matrix:
//  out[jc] = Σ_ic dPropDz[DerivC+ic] * dCompFracDDens[ic][jc]
func applyChainRule(ncomp int, dCompFracDDens [][]float64, dPropDz, out []float64) {
	for jc := 0; jc < ncomp; jc++ {
		out[jc] = 0
		for ic := 0; ic < ncomp; ic++ {
			out[jc] += dPropDz[DerivC+ic] * dCompFracDDens[ic][jc]
		}
	}
}
