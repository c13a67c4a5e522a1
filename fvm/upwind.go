// Copyright 2016 The Geofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fvm

import (
	"math"

	"github.com/geofem/geofem/inp"
)

// DrivingForce selects the physics forming the upwinding potential
type DrivingForce int

const (
	Viscous DrivingForce = iota
	Gravity
	Capillary
)

// String returns the name of the driving force
func (f DrivingForce) String() string {
	switch f {
	case Viscous:
		return "viscous"
	case Gravity:
		return "gravity"
	case Capillary:
		return "capillary"
	}
	return "unknown"
}

// Engine computes upwinded phase and component fluxes over two-point
// stencils. One Engine is shared by all workers: all methods are read-only
// on the fields and write only to caller-provided accumulators.
type Engine struct {
	F       *Fields // per-cell fields
	Nph     int     // number of phases
	Ncomp   int     // number of components
	CapPres bool    // include capillary pressure in the viscous potential
	MobTol  float64 // zero-guard threshold on mobilities
}

// NewEngine returns an engine configured from the simulation flux data
func NewEngine(f *Fields, fd *inp.FluxData) *Engine {
	return &Engine{
		F:       f,
		Nph:     fd.Nphases,
		Ncomp:   fd.Ncomps,
		CapPres: fd.CapPres,
		MobTol:  fd.MobTol,
	}
}

// ComputePPUPhaseFlux computes the phase-potential-upwinded flux of phase ip
// over the stencil. The potential gradient is presGrad - gravHead, with the
// capillary pressure folded into the pressure part when enabled; the mean
// density entering the gravity head is the arithmetic average of the two
// cells, never upwinded. Cell 0 is upstream iff the potential gradient is
// non-negative. res is overwritten.
func (o *Engine) ComputePPUPhaseFlux(ip int, st *Stencil, res *PhaseFlux) (kUp int, potGrad float64) {

	res.Reset()

	var densMean float64
	var dDensMeanDp [2]float64
	dDensMeanDc := [2][]float64{make([]float64, o.Ncomp), make([]float64, o.Ncomp)}

	var presGrad float64
	var dPresGradDp [2]float64
	dPresGradDc := [2][]float64{make([]float64, o.Ncomp), make([]float64, o.Ncomp)}

	var gravHead float64
	var dGravHeadDp [2]float64
	dGravHeadDc := [2][]float64{make([]float64, o.Ncomp), make([]float64, o.Ncomp)}

	dCapPresDc := make([]float64, o.Ncomp)
	dPropDc := make([]float64, o.Ncomp)

	// arithmetic mean density over the two support points
	for i := 0; i < 2; i++ {
		b := o.F.At(st.Cells[i])
		e := st.Cells[i].Elem

		density := b.PhaseMassDens[e][ip]
		dDensDp := b.DPhaseMassDens[e][ip][DerivP]
		applyChainRule(o.Ncomp, b.DCompFracDDens[e], b.DPhaseMassDens[e][ip], dPropDc)

		densMean += 0.5 * density
		dDensMeanDp[i] = 0.5 * dDensDp
		for jc := 0; jc < o.Ncomp; jc++ {
			dDensMeanDc[i][jc] = 0.5 * dPropDc[jc]
		}
	}

	// potential difference
	for i := 0; i < 2; i++ {
		b := o.F.At(st.Cells[i])
		e := st.Cells[i].Elem

		// capillary pressure
		capPres := 0.0
		dCapPresDp := 0.0
		for ic := 0; ic < o.Ncomp; ic++ {
			dCapPresDc[ic] = 0
		}
		if o.CapPres {
			capPres = b.PhaseCapPres[e][ip]
			for jp := 0; jp < o.Nph; jp++ {
				dCapPresDs := b.DPhaseCapPresDS[e][ip][jp]
				dCapPresDp += dCapPresDs * b.DPhaseVolFrac[e][jp][DerivP]
				for jc := 0; jc < o.Ncomp; jc++ {
					dCapPresDc[jc] += dCapPresDs * b.DPhaseVolFrac[e][jp][DerivC+jc]
				}
			}
		}

		presGrad += st.Trans[i] * (b.Pres[e] - capPres)
		dPresGradDp[i] += st.Trans[i]*(1-dCapPresDp) + st.DTransDp[i]*(b.Pres[e]-capPres)
		for jc := 0; jc < o.Ncomp; jc++ {
			dPresGradDc[i][jc] += -st.Trans[i] * dCapPresDc[jc]
		}

		gravD := st.Trans[i] * b.GravCoef[e]
		dGravDDp := st.DTransDp[i] * b.GravCoef[e]

		// mass density always enters the gravity head
		gravHead += densMean * gravD

		// the mean density depends on both cells
		for j := 0; j < 2; j++ {
			dGravHeadDp[j] += dDensMeanDp[j]*gravD + densMean*dGravDDp
			for jc := 0; jc < o.Ncomp; jc++ {
				dGravHeadDc[j][jc] += dDensMeanDc[j][jc] * gravD
			}
		}
	}

	// phase potential gradient and upstream cell
	potGrad = presGrad - gravHead
	kUp = 1
	if potGrad >= 0 {
		kUp = 0
	}

	up := o.F.At(st.Cells[kUp])
	eUp := st.Cells[kUp].Elem
	mobility := up.PhaseMob[eUp][ip]

	// pressure gradient depends on all stencil points; so does the head
	for ke := 0; ke < 2; ke++ {
		res.DFluxDp[ke] += dPresGradDp[ke] - dGravHeadDp[ke]
		for jc := 0; jc < o.Ncomp; jc++ {
			res.DFluxDc[ke][jc] += dPresGradDc[ke][jc] - dGravHeadDc[ke][jc]
		}
	}

	// flux and derivatives with the upstream mobility
	res.Flux = mobility * potGrad
	for ke := 0; ke < 2; ke++ {
		res.DFluxDp[ke] *= mobility
		for jc := 0; jc < o.Ncomp; jc++ {
			res.DFluxDc[ke][jc] *= mobility
		}
	}

	// upstream mobility derivatives attach to the upstream cell only
	res.DFluxDp[kUp] += up.DPhaseMob[eUp][ip][DerivP] * potGrad
	for jc := 0; jc < o.Ncomp; jc++ {
		res.DFluxDc[kUp][jc] += up.DPhaseMob[eUp][ip][DerivC+jc] * potGrad
	}
	return
}

// ComputePhaseComponentFlux distributes a phase flux onto component fluxes
// using the upstream cell composition, accumulating into res
func (o *Engine) ComputePhaseComponentFlux(ip, kUp int, st *Stencil, pf *PhaseFlux, res *CompFlux) {

	up := o.F.At(st.Cells[kUp])
	eUp := st.Cells[kUp].Elem

	dPropDc := make([]float64, o.Ncomp)

	for ic := 0; ic < o.Ncomp; ic++ {
		ycp := up.PhaseCompFrac[eUp][ip][ic]
		res.Flux[ic] += pf.Flux * ycp

		// derivatives stemming from the phase flux
		for ke := 0; ke < 2; ke++ {
			res.DFluxDp[ke][ic] += pf.DFluxDp[ke] * ycp
			for jc := 0; jc < o.Ncomp; jc++ {
				res.DFluxDc[ke][ic][jc] += pf.DFluxDc[ke][jc] * ycp
			}
		}

		// derivatives stemming from the upstream cell composition
		res.DFluxDp[kUp][ic] += pf.Flux * up.DPhaseCompFrac[eUp][ip][ic][DerivP]
		applyChainRule(o.Ncomp, up.DCompFracDDens[eUp], up.DPhaseCompFrac[eUp][ip][ic], dPropDc)
		for jc := 0; jc < o.Ncomp; jc++ {
			res.DFluxDc[kUp][ic][jc] += pf.Flux * dPropDc[jc]
		}
	}
}

// ComputePotential forms the driving-force potential of phase ip over the
// stencil and its derivatives
func (o *Engine) ComputePotential(force DrivingForce, ip int, st *Stencil, totFlux float64, dPotDp *[2]float64, dPotDc [2][]float64) (pot float64) {

	dPotDp[0], dPotDp[1] = 0, 0
	for ke := 0; ke < 2; ke++ {
		for jc := 0; jc < o.Ncomp; jc++ {
			dPotDc[ke][jc] = 0
		}
	}

	switch force {

	case Viscous:
		// the total flux carries the viscous drive
		pot = totFlux
		return

	case Gravity:
		var densMean float64
		var dDensMeanDp [2]float64
		dDensMeanDc := [2][]float64{make([]float64, o.Ncomp), make([]float64, o.Ncomp)}
		dPropDc := make([]float64, o.Ncomp)

		for i := 0; i < 2; i++ {
			b := o.F.At(st.Cells[i])
			e := st.Cells[i].Elem

			density := b.PhaseMassDens[e][ip]
			dDensDp := b.DPhaseMassDens[e][ip][DerivP]
			applyChainRule(o.Ncomp, b.DCompFracDDens[e], b.DPhaseMassDens[e][ip], dPropDc)

			densMean += 0.5 * density
			dDensMeanDp[i] = 0.5 * dDensDp
			for jc := 0; jc < o.Ncomp; jc++ {
				dDensMeanDc[i][jc] = 0.5 * dPropDc[jc]
			}
		}

		for i := 0; i < 2; i++ {
			b := o.F.At(st.Cells[i])
			e := st.Cells[i].Elem

			gravD := st.Trans[i] * b.GravCoef[e]
			dGravDDp := st.DTransDp[i] * b.GravCoef[e]
			pot += densMean * gravD

			for j := 0; j < 2; j++ {
				dPotDp[j] += dDensMeanDp[j]*gravD + densMean*dGravDDp
				for jc := 0; jc < o.Ncomp; jc++ {
					dPotDc[j][jc] += dDensMeanDc[j][jc] * gravD
				}
			}
		}
		return

	case Capillary:
		for i := 0; i < 2; i++ {
			b := o.F.At(st.Cells[i])
			e := st.Cells[i].Elem

			pot += st.Trans[i] * b.PhaseCapPres[e][ip]
			for jp := 0; jp < o.Nph; jp++ {
				dCapPresDs := b.DPhaseCapPresDS[e][ip][jp]
				dPotDp[i] += st.Trans[i]*dCapPresDs*b.DPhaseVolFrac[e][jp][DerivP] +
					st.DTransDp[i]*b.PhaseCapPres[e][jp]
				for jc := 0; jc < o.Ncomp; jc++ {
					dPotDc[i][jc] += st.Trans[i] * dCapPresDs * b.DPhaseVolFrac[e][jp][DerivC+jc]
				}
			}
		}
		return
	}
	return
}

// upwindDirection decides the upstream cell of phase ip for the given
// driving force following the hybrid upwinding construction: the potential of
// the viscous force is the total flux itself; for gravity and capillarity the
// potential weights the pairwise potential differences against the other
// phases with the mobility of the counter-current cell. Cell 0 is upstream
// iff the potential is positive.
func (o *Engine) upwindDirection(force DrivingForce, ip int, st *Stencil, totFlux float64) int {

	var pot float64
	var dPotDp [2]float64
	dPotDc := [2][]float64{make([]float64, o.Ncomp), make([]float64, o.Ncomp)}

	if force == Viscous {
		pot = totFlux
	} else {
		potI := o.ComputePotential(force, ip, st, totFlux, &dPotDp, dPotDc)
		for jp := 0; jp < o.Nph; jp++ {
			if jp == ip {
				continue
			}
			potJ := o.ComputePotential(force, jp, st, totFlux, &dPotDp, dPotDc)

			bUp := o.F.At(st.Cells[0])
			bDw := o.F.At(st.Cells[1])
			mobUp := bUp.PhaseMob[st.Cells[0].Elem][jp]
			mobDw := bDw.PhaseMob[st.Cells[1].Elem][jp]

			if potI-potJ >= 0 {
				pot += mobDw * (potJ - potI)
			} else {
				pot += mobUp * (potJ - potI)
			}
		}
	}

	if pot > 0 {
		return 0
	}
	return 1
}

// UpwindMobility returns the mobility of phase ip taken from the upstream
// cell of the given driving force, with its derivatives. Mobilities below the
// zero-guard threshold are returned as exactly zero.
func (o *Engine) UpwindMobility(force DrivingForce, ip int, st *Stencil, totFlux float64, dMobDc []float64) (kUp int, mob, dMobDp float64) {

	for jc := 0; jc < o.Ncomp; jc++ {
		dMobDc[jc] = 0
	}

	kUp = o.upwindDirection(force, ip, st, totFlux)
	up := o.F.At(st.Cells[kUp])
	eUp := st.Cells[kUp].Elem

	if math.Abs(up.PhaseMob[eUp][ip]) > o.MobTol {
		mob = up.PhaseMob[eUp][ip]
		dMobDp = up.DPhaseMob[eUp][ip][DerivP]
		for jc := 0; jc < o.Ncomp; jc++ {
			dMobDc[jc] = up.DPhaseMob[eUp][ip][DerivC+jc]
		}
	}
	return
}

// ComputeFractionalFlow returns the fractional flow of phase ip as the ratio
// of its upwinded mobility to the total upwinded mobility, with derivatives
// attributed to the upstream cell of each phase. When the main mobility is
// below the zero-guard threshold the fractional flow and all its derivatives
// are zero.
func (o *Engine) ComputeFractionalFlow(force DrivingForce, ip int, st *Stencil, totFlux float64, dFflowDp *[2]float64, dFflowDc [2][]float64) (kUpMain int, fflow float64) {

	var mainMob, dMainMobDp float64
	dMainMobDc := make([]float64, o.Ncomp)

	var totMob float64
	var dTotMobDp [2]float64
	dTotMobDc := [2][]float64{make([]float64, o.Ncomp), make([]float64, o.Ncomp)}

	kUpMain = -1
	fflow = 0
	dFflowDp[0], dFflowDp[1] = 0, 0
	for ke := 0; ke < 2; ke++ {
		for jc := 0; jc < o.Ncomp; jc++ {
			dFflowDc[ke][jc] = 0
		}
	}

	dMobDc := make([]float64, o.Ncomp)
	for jp := 0; jp < o.Nph; jp++ {
		kUp, mob, dMobDp := o.UpwindMobility(force, jp, st, totFlux, dMobDc)

		totMob += mob
		dTotMobDp[kUp] += dMobDp
		for ic := 0; ic < o.Ncomp; ic++ {
			dTotMobDc[kUp][ic] += dMobDc[ic]
		}

		if jp == ip {
			kUpMain = kUp
			mainMob = mob
			dMainMobDp = dMobDp
			copy(dMainMobDc, dMobDc)
		}
	}

	// no-flow guard
	if math.Abs(mainMob) <= o.MobTol {
		return
	}

	fflow = mainMob / totMob
	dFflowDp[kUpMain] = dMainMobDp / totMob
	for jc := 0; jc < o.Ncomp; jc++ {
		dFflowDc[kUpMain][jc] = dMainMobDc[jc] / totMob
	}
	for ke := 0; ke < 2; ke++ {
		dFflowDp[ke] -= fflow * dTotMobDp[ke] / totMob
		for jc := 0; jc < o.Ncomp; jc++ {
			dFflowDc[ke][jc] -= fflow * dTotMobDc[ke][jc] / totMob
		}
	}
	return
}

// ComputePotentialFluxes accumulates into res the hybrid-upwinding
// contribution of the given driving force to the flux of phase ip:
//  flux_i -= fflow_i Σ_{j≠i} mob_j (pot_i - pot_j)
// with the fractional flow upwinded by this force and each mobility taken
// from the upstream cell of the pairwise potential. kUp is the upstream cell
// of the main phase; kUpO that of the last counter phase.
func (o *Engine) ComputePotentialFluxes(force DrivingForce, ip int, st *Stencil, totFlux float64, res *PhaseFlux) (kUp, kUpO int) {

	var dFflowDp [2]float64
	dFflowDc := [2][]float64{make([]float64, o.Ncomp), make([]float64, o.Ncomp)}

	var dPotDp [2]float64
	dPotDc := [2][]float64{make([]float64, o.Ncomp), make([]float64, o.Ncomp)}
	pot := o.ComputePotential(force, ip, st, totFlux, &dPotDp, dPotDc)

	kUp, fflow := o.ComputeFractionalFlow(force, ip, st, totFlux, &dFflowDp, dFflowDc)

	dMobOtherDc := make([]float64, o.Ncomp)
	var dPotOtherDp [2]float64
	dPotOtherDc := [2][]float64{make([]float64, o.Ncomp), make([]float64, o.Ncomp)}

	for jp := 0; jp < o.Nph; jp++ {
		if jp == ip {
			continue
		}

		potOther := o.ComputePotential(force, jp, st, totFlux, &dPotOtherDp, dPotOtherDc)

		var mobOther, dMobOtherDp float64
		kUpO, mobOther, dMobOtherDp = o.UpwindMobility(force, jp, st, totFlux, dMobOtherDc)

		// flux_i -= fflow_i mob_j (pot_i - pot_j)
		res.Flux -= fflow * mobOther * (pot - potOther)
		res.DFluxDp[kUpO] -= fflow * dMobOtherDp * (pot - potOther)
		for jc := 0; jc < o.Ncomp; jc++ {
			res.DFluxDc[kUpO][jc] -= fflow * dMobOtherDc[jc] * (pot - potOther)
		}

		// the total-mobility part of the fractional flow derivative lives on
		// both cells, the upstream-mobility part on the upstream one only
		for ke := 0; ke < 2; ke++ {
			res.DFluxDp[ke] -= dFflowDp[ke] * mobOther * (pot - potOther)
			for jc := 0; jc < o.Ncomp; jc++ {
				res.DFluxDc[ke][jc] -= dFflowDc[ke][jc] * mobOther * (pot - potOther)
			}
		}
		for ke := 0; ke < 2; ke++ {
			res.DFluxDp[ke] -= fflow * mobOther * (dPotDp[ke] - dPotOtherDp[ke])
			for jc := 0; jc < o.Ncomp; jc++ {
				res.DFluxDc[ke][jc] -= fflow * mobOther * (dPotDc[ke][jc] - dPotOtherDc[ke][jc])
			}
		}
	}
	return
}
