// Copyright 2016 The Geofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package ana implements analytical solutions
package ana

// ConfinedColumn implements the uniaxial-strain solution of an elastic
// column of height H loaded by a vertical surface traction qn, with the
// base fixed and lateral displacements prevented:
//
//           ↓ ↓ ↓ qn
//          ┌───────┐  y = H
//          │       │
//          │       │
//          │       │
//          ▀▀▀▀▀▀▀▀▀  y = 0
//
//  σyy = -qn (uniform),  σxx = σzz = ν/(1-ν) σyy,  uy(y) = σyy y / M
// where M = E(1-ν)/((1+ν)(1-2ν)) is the constrained modulus.
type ConfinedColumn struct {

	// input
	H  float64 // column height
	E  float64 // Young's modulus
	Nu float64 // Poisson's coefficient
	Qn float64 // downward surface load

	// derived
	M float64 // constrained modulus
}

// Init initialises the structure
func (o *ConfinedColumn) Init(h, e, nu, qn float64) {
	o.H = h
	o.E = e
	o.Nu = nu
	o.Qn = qn
	o.M = e * (1.0 - nu) / ((1.0 + nu) * (1.0 - 2.0*nu))
}

// Stress returns the stress components at any point
func (o *ConfinedColumn) Stress() (sx, sy, sz float64) {
	sy = -o.Qn
	sx = o.Nu / (1.0 - o.Nu) * sy
	sz = sx
	return
}

// Uy returns the vertical displacement at height y
func (o *ConfinedColumn) Uy(y float64) float64 {
	return -o.Qn * y / o.M
}

// SeepColumn implements steady one-dimensional seepage through a column of
// height H with prescribed pressures pTop at y=H and pBot at y=0: the
// pressure profile is linear and the Darcy flux is uniform.
type SeepColumn struct {

	// input
	H    float64 // column height
	Kiso float64 // isotropic permeability over viscosity
	PTop float64 // pressure at the top
	PBot float64 // pressure at the bottom
}

// Init initialises the structure
func (o *SeepColumn) Init(h, kiso, ptop, pbot float64) {
	o.H = h
	o.Kiso = kiso
	o.PTop = ptop
	o.PBot = pbot
}

// P returns the pressure at height y
func (o *SeepColumn) P(y float64) float64 {
	return o.PBot + (o.PTop-o.PBot)*y/o.H
}

// Flux returns the (upward positive) Darcy flux
func (o *SeepColumn) Flux() float64 {
	return -o.Kiso * (o.PTop - o.PBot) / o.H
}
