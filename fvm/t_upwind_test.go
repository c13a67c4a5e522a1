// Copyright 2016 The Geofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fvm

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/geofem/geofem/inp"
	"github.com/geofem/geofem/msh"
)

func verbose() {
	chk.Verbose = true
}

// twoCells builds an engine over a single block with two cells
func twoCells(nph, ncomp int, trans float64) (*Engine, *Stencil) {
	f := NewFields([]int{1})
	f.SetBlock(0, 0, NewBlockFields(2, nph, ncomp))
	st := &Stencil{
		Cells: [2]msh.CellRef{{Reg: 0, Sub: 0, Elem: 0}, {Reg: 0, Sub: 0, Elem: 1}},
		Trans: [2]float64{trans, -trans},
	}
	eng := NewEngine(f, &inp.FluxData{
		Nphases: nph, Ncomps: ncomp,
		MobTol: inp.MobTolDefault,
	})
	return eng, st
}

// reversed returns the same connection seen from the other side
func reversed(st *Stencil) *Stencil {
	return &Stencil{
		Cells:    [2]msh.CellRef{st.Cells[1], st.Cells[0]},
		Trans:    st.Trans,
		DTransDp: st.DTransDp,
	}
}

func Test_ppu01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("ppu01. upwind sign invariant")

	eng, st := twoCells(2, 2, 1e-12)
	b := eng.F.Blocks[0][0]
	b.Pres[0], b.Pres[1] = 2e5, 1e5
	b.PhaseMob[0][0], b.PhaseMob[1][0] = 3.0, 7.0

	res := NewPhaseFlux(2)
	kUp, potGrad := eng.ComputePPUPhaseFlux(0, st, res)
	io.Pforan("potGrad = %v, kUp = %v, flux = %v\n", potGrad, kUp, res.Flux)

	// higher pressure in cell 0: potential gradient positive, cell 0 upstream
	chk.IntAssert(kUp, 0)
	chk.Scalar(tst, "potGrad", 1e-15, potGrad, 1e-12*(2e5-1e5))
	chk.Scalar(tst, "flux", 1e-15, res.Flux, 3.0*potGrad)

	// reversed pressures: cell 1 upstream, its mobility taken
	b.Pres[0], b.Pres[1] = 1e5, 2e5
	kUp, potGrad = eng.ComputePPUPhaseFlux(0, st, res)
	chk.IntAssert(kUp, 1)
	chk.Scalar(tst, "flux rev", 1e-15, res.Flux, 7.0*potGrad)

	// zero gradient ties to cell 0
	b.Pres[1] = 1e5
	kUp, potGrad = eng.ComputePPUPhaseFlux(0, st, res)
	chk.IntAssert(kUp, 0)
	chk.Scalar(tst, "potGrad zero", 1e-17, potGrad, 0)
}

func Test_ppu02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("ppu02. antisymmetry under connection reversal")

	eng, st := twoCells(2, 2, 2e-12)
	b := eng.F.Blocks[0][0]
	b.Pres[0], b.Pres[1] = 1.8e5, 1e5
	b.GravCoef[0], b.GravCoef[1] = -98.1, -196.2
	for e := 0; e < 2; e++ {
		for ip := 0; ip < 2; ip++ {
			b.PhaseMassDens[e][ip] = 900.0 + 100.0*float64(ip) + 5.0*float64(e)
			b.DPhaseMassDens[e][ip][DerivP] = 1e-7
			b.DPhaseMassDens[e][ip][DerivC] = 0.3
			b.DPhaseMassDens[e][ip][DerivC+1] = -0.1
			b.PhaseMob[e][ip] = 2.0 + float64(ip) + 0.5*float64(e)
			b.DPhaseMob[e][ip][DerivP] = 1e-9
			b.DPhaseMob[e][ip][DerivC] = 0.01
		}
		// identity transform: dCompFrac == dCompDens
		b.DCompFracDDens[e][0][0] = 1
		b.DCompFracDDens[e][1][1] = 1
	}

	fwd := NewPhaseFlux(2)
	rev := NewPhaseFlux(2)
	for ip := 0; ip < 2; ip++ {
		kF, _ := eng.ComputePPUPhaseFlux(ip, st, fwd)
		kR, _ := eng.ComputePPUPhaseFlux(ip, reversed(st), rev)

		// both sides agree on the upstream cell
		chk.IntAssert(st.Cells[kF].Elem, reversed(st).Cells[kR].Elem)

		// flux and derivatives are exact negatives, sides swapped
		chk.Scalar(tst, io.Sf("flux ip=%d", ip), 1e-15, rev.Flux, -fwd.Flux)
		chk.Scalar(tst, "dFluxDp side 0", 1e-15, rev.DFluxDp[0], -fwd.DFluxDp[1])
		chk.Scalar(tst, "dFluxDp side 1", 1e-15, rev.DFluxDp[1], -fwd.DFluxDp[0])
		for jc := 0; jc < 2; jc++ {
			chk.Scalar(tst, "dFluxDc side 0", 1e-15, rev.DFluxDc[0][jc], -fwd.DFluxDc[1][jc])
			chk.Scalar(tst, "dFluxDc side 1", 1e-15, rev.DFluxDc[1][jc], -fwd.DFluxDc[0][jc])
		}
	}
}

func Test_ppu03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("ppu03. gravity head uses the arithmetic mean density")

	trans := 3e-12
	eng, st := twoCells(1, 1, trans)
	b := eng.F.Blocks[0][0]
	b.Pres[0], b.Pres[1] = 1e5, 1e5
	b.GravCoef[0], b.GravCoef[1] = -98.1, -196.2
	b.PhaseMassDens[0][0] = 1000.0
	b.PhaseMassDens[1][0] = 800.0
	b.PhaseMob[0][0], b.PhaseMob[1][0] = 1.0, 1.0
	b.DCompFracDDens[0][0][0] = 1
	b.DCompFracDDens[1][0][0] = 1

	res := NewPhaseFlux(1)
	_, potGrad := eng.ComputePPUPhaseFlux(0, st, res)

	// equal pressures: potGrad = -gravHead = -ρmean T (G0 - G1)
	densMean := 0.5 * (1000.0 + 800.0)
	want := -densMean * trans * (b.GravCoef[0] - b.GravCoef[1])
	chk.Scalar(tst, "potGrad", 1e-15, potGrad, want)
}

func Test_pot01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("pot01. driving force potentials")

	trans := 1e-12
	eng, st := twoCells(2, 2, trans)
	b := eng.F.Blocks[0][0]
	b.GravCoef[0], b.GravCoef[1] = -10.0, -20.0
	for e := 0; e < 2; e++ {
		b.PhaseMassDens[e][0] = 1000.0
		b.PhaseMassDens[e][1] = 800.0
		b.PhaseCapPres[e][0] = 0
		b.PhaseCapPres[e][1] = 4000.0 + 500.0*float64(e)
		b.DCompFracDDens[e][0][0] = 1
		b.DCompFracDDens[e][1][1] = 1
	}

	var dPotDp [2]float64
	dPotDc := [2][]float64{make([]float64, 2), make([]float64, 2)}

	// viscous potential is the total flux itself
	pot := eng.ComputePotential(Viscous, 0, st, 123.5, &dPotDp, dPotDc)
	chk.Scalar(tst, "viscous pot", 1e-17, pot, 123.5)
	chk.Scalar(tst, "viscous dPotDp", 1e-17, dPotDp[0], 0)

	// gravity potential: ρmean T (G0 - G1)
	pot = eng.ComputePotential(Gravity, 0, st, 0, &dPotDp, dPotDc)
	chk.Scalar(tst, "gravity pot", 1e-15, pot, 1000.0*trans*(-10.0+20.0))

	// capillary potential: T (pc0 - pc1)
	pot = eng.ComputePotential(Capillary, 1, st, 0, &dPotDp, dPotDc)
	chk.Scalar(tst, "capillary pot", 1e-15, pot, trans*(4000.0-4500.0))
}

func Test_fflow01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("fflow01. fractional flow normalization and zero guard")

	eng, st := twoCells(3, 2, 1e-12)
	b := eng.F.Blocks[0][0]
	mobs := []float64{1.0, 2.0, 5.0}
	for ip := 0; ip < 3; ip++ {
		b.PhaseMob[0][ip] = mobs[ip]
		b.PhaseMob[1][ip] = 10.0 * mobs[ip]
	}

	// positive total flux: viscous upwinding takes every phase from cell 0
	var dFfDp [2]float64
	dFfDc := [2][]float64{make([]float64, 2), make([]float64, 2)}
	sum := 0.0
	for ip := 0; ip < 3; ip++ {
		kUp, ff := eng.ComputeFractionalFlow(Viscous, ip, st, 1.0, &dFfDp, dFfDc)
		chk.IntAssert(kUp, 0)
		chk.Scalar(tst, io.Sf("fflow[%d]", ip), 1e-15, ff, mobs[ip]/8.0)
		sum += ff
	}
	chk.Scalar(tst, "Σ fflow", 1e-15, sum, 1)

	// negative total flux flips the upstream side
	kUp, ff := eng.ComputeFractionalFlow(Viscous, 0, st, -1.0, &dFfDp, dFfDc)
	chk.IntAssert(kUp, 1)
	chk.Scalar(tst, "fflow rev", 1e-15, ff, 10.0/80.0)

	// mobility below the zero guard: no fractional flow, no derivatives
	b.PhaseMob[0][0] = 1e-30
	_, ff = eng.ComputeFractionalFlow(Viscous, 0, st, 1.0, &dFfDp, dFfDc)
	chk.Scalar(tst, "fflow guarded", 1e-17, ff, 0)
	chk.Scalar(tst, "dFfDp guarded", 1e-17, dFfDp[0], 0)
}

func Test_hyb01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("hyb01. hybrid upwinding cross term")

	trans := 1e-12
	eng, st := twoCells(2, 2, trans)
	b := eng.F.Blocks[0][0]
	b.GravCoef[0], b.GravCoef[1] = 0.0, -10.0
	for e := 0; e < 2; e++ {
		b.PhaseMassDens[e][0] = 1000.0
		b.PhaseMassDens[e][1] = 800.0
		b.DCompFracDDens[e][0][0] = 1
		b.DCompFracDDens[e][1][1] = 1
	}
	b.PhaseMob[0][0], b.PhaseMob[1][0] = 1.0, 2.0 // wetting
	b.PhaseMob[0][1], b.PhaseMob[1][1] = 3.0, 4.0 // non-wetting

	// phase potentials: pot_w - pot_n = (1000-800) T (G0-G1) > 0, so the
	// heavy phase flows down and its counter-current side is cell 1
	potW := 1000.0 * trans * 10.0
	potN := 800.0 * trans * 10.0

	// upwind sides under the gravity force: wetting from cell 1, non-wetting
	// from cell 0
	dMobDc := make([]float64, 2)
	kW, mobW, _ := eng.UpwindMobility(Gravity, 0, st, 0, dMobDc)
	kN, mobN, _ := eng.UpwindMobility(Gravity, 1, st, 0, dMobDc)
	chk.IntAssert(kW, 1)
	chk.IntAssert(kN, 0)
	chk.Scalar(tst, "mobW", 1e-15, mobW, 2.0)
	chk.Scalar(tst, "mobN", 1e-15, mobN, 3.0)

	// gravity contribution to the wetting phase flux:
	//  -fflow_w mob_n (pot_w - pot_n)
	res := NewPhaseFlux(2)
	kUp, kUpO := eng.ComputePotentialFluxes(Gravity, 0, st, 0, res)
	chk.IntAssert(kUp, 1)
	chk.IntAssert(kUpO, 0)
	fflowW := mobW / (mobW + mobN)
	want := -fflowW * mobN * (potW - potN)
	chk.Scalar(tst, "gravity flux", 1e-15, res.Flux, want)

	// the two phase fluxes balance: the non-wetting contribution is the
	// exact opposite scaled by the fractional flows
	resN := NewPhaseFlux(2)
	eng.ComputePotentialFluxes(Gravity, 1, st, 0, resN)
	fflowN := mobN / (mobW + mobN)
	chk.Scalar(tst, "counter-current", 1e-15, resN.Flux, fflowN*mobW*(potW-potN))
}

func Test_comp01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("comp01. component flux distribution")

	eng, st := twoCells(2, 2, 1e-12)
	b := eng.F.Blocks[0][0]
	b.Pres[0], b.Pres[1] = 2e5, 1e5
	b.PhaseMob[0][0], b.PhaseMob[1][0] = 3.0, 7.0
	for e := 0; e < 2; e++ {
		// immiscible: phase i carries component i only
		b.PhaseCompFrac[e][0][0] = 1
		b.PhaseCompFrac[e][1][1] = 1
		b.DCompFracDDens[e][0][0] = 1
		b.DCompFracDDens[e][1][1] = 1
	}

	pf := NewPhaseFlux(2)
	kUp, _ := eng.ComputePPUPhaseFlux(0, st, pf)

	cf := NewCompFlux(2)
	eng.ComputePhaseComponentFlux(0, kUp, st, pf, cf)

	// the whole phase flux lands on component 0
	chk.Scalar(tst, "compFlux[0]", 1e-15, cf.Flux[0], pf.Flux)
	chk.Scalar(tst, "compFlux[1]", 1e-17, cf.Flux[1], 0)
	chk.Scalar(tst, "dCompFluxDp[0][0]", 1e-15, cf.DFluxDp[0][0], pf.DFluxDp[0])

	// accumulation over phases: run the second phase into the same result
	b.PhaseMob[0][1], b.PhaseMob[1][1] = 1.0, 1.0
	pf2 := NewPhaseFlux(2)
	kUp2, _ := eng.ComputePPUPhaseFlux(1, st, pf2)
	eng.ComputePhaseComponentFlux(1, kUp2, st, pf2, cf)
	chk.Scalar(tst, "compFlux[1] after phase 1", 1e-15, cf.Flux[1], pf2.Flux)
	chk.Scalar(tst, "compFlux[0] unchanged", 1e-15, cf.Flux[0], pf.Flux)
}

func Test_stencil01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("stencil01. stencil from interior face")

	// 2 x 1 strip of unit quads
	m := &msh.Mesh{
		Ndim: 2,
		Verts: []*msh.Vert{
			{Id: 0, C: []float64{0, 0}}, {Id: 1, C: []float64{1, 0}}, {Id: 2, C: []float64{2, 0}},
			{Id: 3, C: []float64{0, 1}}, {Id: 4, C: []float64{1, 1}}, {Id: 5, C: []float64{2, 1}},
		},
		Cells: []*msh.Cell{
			{Id: 0, Type: "qua4", Verts: []int{0, 1, 4, 3}},
			{Id: 1, Type: "qua4", Verts: []int{1, 2, 5, 4}},
		},
	}
	if err := m.CheckAndDerive(); err != nil {
		tst.Errorf("CheckAndDerive failed:\n%v", err)
		return
	}
	if err := m.BuildConnectivity(); err != nil {
		tst.Errorf("BuildConnectivity failed:\n%v", err)
		return
	}

	for _, f := range m.Faces {
		if f.Boundary {
			if _, err := StencilFromFace(m, f); err == nil {
				tst.Errorf("boundary face must be rejected\n")
			}
			continue
		}
		st, err := StencilFromFace(m, f)
		if err != nil {
			tst.Errorf("StencilFromFace failed:\n%v", err)
			return
		}

		// unit quads: both half-factors are area/distance = 1/0.5 = 2,
		// harmonic combination gives T = 1
		chk.Scalar(tst, "T side 0", 1e-14, st.Trans[0], 1.0)
		chk.Scalar(tst, "T side 1", 1e-14, st.Trans[1], -1.0)
	}
}
