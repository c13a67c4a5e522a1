// Copyright 2016 The Geofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package inp implements the input data read from a (.sim) JSON file
package inp

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// Data holds global data for simulations
type Data struct {

	// global information
	Desc    string `json:"desc"`    // description of simulation
	Matfile string `json:"matfile"` // materials file path
	DirOut  string `json:"dirout"`  // directory for output; e.g. /tmp/geofem

	// problem definition and options
	Steady bool `json:"steady"` // steady simulation
	Debug  bool `json:"debug"`  // activate debugging
}

// SolverData holds nonlinear solver data
type SolverData struct {
	NmaxIt  int     `json:"nmaxit"`  // number of max iterations
	Atol    float64 `json:"atol"`    // absolute tolerance
	Rtol    float64 `json:"rtol"`    // relative tolerance
	FbTol   float64 `json:"fbtol"`   // tolerance for convergence on fb
	FbMin   float64 `json:"fbmin"`   // minimum value of fb
	DtMin   float64 `json:"dtmin"`   // minimum time step on divergence cut
	NdvgMax int     `json:"ndvgmax"` // max number of continued divergence
	Nworker int     `json:"nworker"` // number of parallel workers for assembly; 0 => all cores

	// derived
	Itol float64 // iterations tolerance
}

// FluxData holds data for the finite-volume flux computations
type FluxData struct {
	Nphases   int     `json:"nphases"`   // number of fluid phases
	Ncomps    int     `json:"ncomps"`    // number of components
	Gravity   float64 `json:"gravity"`   // gravity intensity; e.g. 10
	CapPres   bool    `json:"cappres"`   // include capillary pressure in potential
	MobTol    float64 `json:"mobtol"`    // zero-guard on phase mobility; 0 => use default
	SingTol   float64 `json:"singtol"`   // singular-matrix epsilon for small dense solves; 0 => use default
	HybridUpw bool    `json:"hybridupw"` // use hybrid upwinding for gravity/capillary terms
	Pini      float64 `json:"pini"`      // initial pressure; 0 => use default
	Sini      float64 `json:"sini"`      // initial wetting saturation; 0 => use default
}

// ElemData holds element data
type ElemData struct {
	Tag  int    `json:"tag"`  // tag of element
	Mat  string `json:"mat"`  // material name
	Type string `json:"type"` // type of element. ex: solid, flow, porous, wave
	Nip  int    `json:"nip"`  // number of integration points; 0 => use default
}

// Region holds region data
type Region struct {

	// input data
	Desc      string      `json:"desc"`      // description of region. ex: reservoir, caprock
	Mshfile   string      `json:"mshfile"`   // file path of file with mesh data
	ElemsData []*ElemData `json:"elemsdata"` // list of elements data

	// derived
	etag2idx map[int]int // maps element tag to element index in ElemsData slice
}

// Etag2data returns the ElemData corresponding to element tag
//  Note: returns nil if not found
func (o *Region) Etag2data(tag int) *ElemData {
	idx, ok := o.etag2idx[tag]
	if !ok {
		return nil
	}
	return o.ElemsData[idx]
}

// TimeControl holds data for defining the simulation time stepping
type TimeControl struct {
	Tf    float64 `json:"tf"`    // final time
	Dt    float64 `json:"dt"`    // time step size
	DtOut float64 `json:"dtout"` // time step size for output
}

// Simulation holds all simulation data
type Simulation struct {

	// input
	Data    Data         `json:"data"`    // global simulation data
	Solver  SolverData   `json:"solver"`  // solver data
	Flux    FluxData     `json:"flux"`    // finite-volume flux data
	Regions []*Region    `json:"regions"` // all regions
	Control TimeControl  `json:"control"` // time stepping control
	Mats    []*Material  `json:"mats"`    // materials
	Nparts  int          `json:"nparts"`  // number of mesh partitions; 0 or 1 => serial

	// derived
	DirPath string // directory path of .sim file
}

// default tolerances; overridable via FluxData
const (
	MobTolDefault  = 1e-20 // phase-mobility zero guard
	SingTolDefault = 1e-14 // singular-matrix epsilon
)

// ReadSim reads a simulation file (.sim) and sets default values
func ReadSim(simfilepath string, verbose bool) (o *Simulation, err error) {

	// read file
	b, rerr := os.ReadFile(simfilepath)
	if rerr != nil {
		return nil, chk.Err("cannot read simulation file %q:\n%v", simfilepath, rerr)
	}

	// decode
	o = new(Simulation)
	if jerr := json.Unmarshal(b, o); jerr != nil {
		return nil, chk.Err("cannot unmarshal simulation file %q:\n%v", simfilepath, jerr)
	}
	o.DirPath = filepath.Dir(simfilepath)

	// set default values
	if o.Solver.NmaxIt < 1 {
		o.Solver.NmaxIt = 10
	}
	if o.Solver.Atol <= 0 {
		o.Solver.Atol = 1e-6
	}
	if o.Solver.Rtol <= 0 {
		o.Solver.Rtol = 1e-6
	}
	if o.Solver.FbTol <= 0 {
		o.Solver.FbTol = 1e-8
	}
	if o.Solver.FbMin <= 0 {
		o.Solver.FbMin = 1e-14
	}
	o.Solver.Itol = o.Solver.Atol

	// flux defaults
	if o.Flux.Nphases < 1 {
		o.Flux.Nphases = 1
	}
	if o.Flux.Ncomps < 1 {
		o.Flux.Ncomps = o.Flux.Nphases
	}
	if o.Flux.MobTol <= 0 {
		o.Flux.MobTol = MobTolDefault
	}
	if o.Flux.SingTol <= 0 {
		o.Flux.SingTol = SingTolDefault
	}
	if o.Flux.Pini <= 0 {
		o.Flux.Pini = 1e5
	}
	if o.Flux.Sini <= 0 {
		o.Flux.Sini = 0.5
	}

	// regions
	for _, reg := range o.Regions {
		reg.etag2idx = make(map[int]int)
		for j, ed := range reg.ElemsData {
			reg.etag2idx[ed.Tag] = j
		}
	}

	// materials
	for _, mat := range o.Mats {
		if mat.Prms == nil {
			mat.Prms = make(map[string]float64)
		}
	}

	// message
	if verbose {
		io.Pf("simulation %q loaded: %d region(s), %d material(s)\n", o.Data.Desc, len(o.Regions), len(o.Mats))
	}
	return
}

// MatByName returns a material given its name
//  Note: returns nil if not found
func (o *Simulation) MatByName(name string) *Material {
	for _, m := range o.Mats {
		if m.Name == name {
			return m
		}
	}
	return nil
}
