// Copyright 2016 The Geofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mdl

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// Fluid defines the interface for multiphase pore-fluid models. Saturation s
// always refers to the wetting phase; phase 0 is wetting, phase 1 non-wetting.
// Implementations must be safe for concurrent calls.
type Fluid interface {

	// Init initialises the model with parameters from the material database
	Init(prms map[string]float64) error

	// NumPhases returns the number of fluid phases
	NumPhases() int

	// NumComps returns the number of components
	NumComps() int

	// MassDens returns the mass density of phase i and its pressure derivative
	MassDens(i int, p float64) (rho, dRhoDp float64, err error)

	// Mobility returns the mass mobility λ = ρ kr / μ of phase i and its
	// derivatives w.r.t pressure and wetting saturation
	Mobility(i int, p, s float64) (mob, dMobDp, dMobDs float64, err error)

	// RelPerm returns the relative permeability of phase i and its derivative
	// w.r.t wetting saturation
	RelPerm(i int, s float64) (kr, dKrDs float64)

	// CapPres returns the capillary pressure and its derivative w.r.t wetting
	// saturation
	CapPres(s float64) (pc, dPcDs float64)

	// PhaseCompFrac returns the mass fraction of component c in phase i
	PhaseCompFrac(i, c int) float64
}

// TwoPhase implements a two-phase, two-component immiscible fluid with
// slightly compressible phases, Corey relative permeabilities and a linear
// capillary pressure curve
type TwoPhase struct {
	RhoW0 float64 // reference density of wetting phase
	RhoN0 float64 // reference density of non-wetting phase
	Cw    float64 // compressibility of wetting phase
	Cn    float64 // compressibility of non-wetting phase
	MuW   float64 // viscosity of wetting phase
	MuN   float64 // viscosity of non-wetting phase
	SrW   float64 // residual wetting saturation
	SrN   float64 // residual non-wetting saturation
	NexW  float64 // Corey exponent of wetting phase
	NexN  float64 // Corey exponent of non-wetting phase
	Pe    float64 // capillary entry pressure
	Pref  float64 // reference pressure
}

// NewTwoPhase returns an initialised two-phase fluid model
func NewTwoPhase(prms map[string]float64) (*TwoPhase, error) {
	o := new(TwoPhase)
	if err := o.Init(prms); err != nil {
		return nil, err
	}
	return o, nil
}

// Init initialises the model
func (o *TwoPhase) Init(prms map[string]float64) (err error) {

	// defaults
	o.RhoW0, o.RhoN0 = 1000.0, 800.0
	o.Cw, o.Cn = 1e-9, 1e-8
	o.MuW, o.MuN = 1e-3, 5e-3
	o.NexW, o.NexN = 2.0, 2.0

	// parse parameters
	for name, v := range prms {
		switch name {
		case "rhoW":
			o.RhoW0 = v
		case "rhoN":
			o.RhoN0 = v
		case "Cw":
			o.Cw = v
		case "Cn":
			o.Cn = v
		case "muW":
			o.MuW = v
		case "muN":
			o.MuN = v
		case "srW":
			o.SrW = v
		case "srN":
			o.SrN = v
		case "nW":
			o.NexW = v
		case "nN":
			o.NexN = v
		case "pe":
			o.Pe = v
		case "pref":
			o.Pref = v
		default:
			return chk.Err("two-phase: parameter named %q is incorrect", name)
		}
	}
	if o.MuW <= 0 || o.MuN <= 0 {
		return chk.Err("two-phase: viscosities must be positive")
	}
	if o.SrW+o.SrN >= 1.0 {
		return chk.Err("two-phase: srW + srN = %g must be < 1", o.SrW+o.SrN)
	}
	return
}

// NumPhases returns the number of fluid phases
func (o *TwoPhase) NumPhases() int { return 2 }

// NumComps returns the number of components
func (o *TwoPhase) NumComps() int { return 2 }

// MassDens returns the mass density of phase i:
//  ρ = ρ0 (1 + C (p - pref))
func (o *TwoPhase) MassDens(i int, p float64) (rho, dRhoDp float64, err error) {
	rho0, c := o.RhoW0, o.Cw
	if i == 1 {
		rho0, c = o.RhoN0, o.Cn
	}
	rho = rho0 * (1.0 + c*(p-o.Pref))
	dRhoDp = rho0 * c
	if rho <= 0 {
		return 0, 0, chk.Err("two-phase: phase %d density is non-positive (ρ=%g @ p=%g)", i, rho, p)
	}
	return
}

// effSat returns the effective wetting saturation and its derivative
func (o *TwoPhase) effSat(s float64) (se, dSeDs float64) {
	den := 1.0 - o.SrW - o.SrN
	se = (s - o.SrW) / den
	dSeDs = 1.0 / den
	if se < 0 {
		return 0, 0
	}
	if se > 1 {
		return 1, 0
	}
	return
}

// RelPerm returns the Corey relative permeability of phase i
func (o *TwoPhase) RelPerm(i int, s float64) (kr, dKrDs float64) {
	se, dSeDs := o.effSat(s)
	if i == 0 {
		kr = math.Pow(se, o.NexW)
		dKrDs = o.NexW * math.Pow(se, o.NexW-1.0) * dSeDs
		return
	}
	kr = math.Pow(1.0-se, o.NexN)
	dKrDs = -o.NexN * math.Pow(1.0-se, o.NexN-1.0) * dSeDs
	return
}

// Mobility returns the mass mobility λ = ρ kr / μ of phase i
func (o *TwoPhase) Mobility(i int, p, s float64) (mob, dMobDp, dMobDs float64, err error) {
	rho, dRhoDp, err := o.MassDens(i, p)
	if err != nil {
		return
	}
	mu := o.MuW
	if i == 1 {
		mu = o.MuN
	}
	kr, dKrDs := o.RelPerm(i, s)
	mob = rho * kr / mu
	dMobDp = dRhoDp * kr / mu
	dMobDs = rho * dKrDs / mu
	return
}

// CapPres returns the linear capillary pressure curve:
//  pc = pe (1 - se)
func (o *TwoPhase) CapPres(s float64) (pc, dPcDs float64) {
	se, dSeDs := o.effSat(s)
	pc = o.Pe * (1.0 - se)
	dPcDs = -o.Pe * dSeDs
	return
}

// PhaseCompFrac returns the mass fraction of component c in phase i. The
// phases are immiscible, so each phase carries its own component only.
func (o *TwoPhase) PhaseCompFrac(i, c int) float64 {
	if i == c {
		return 1.0
	}
	return 0.0
}
