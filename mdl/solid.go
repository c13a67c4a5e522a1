// Copyright 2016 The Geofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package mdl implements constitutive models for solids and pore fluids
package mdl

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/tsr"
)

// State holds stress data at one integration point. Kernels own one State per
// (element, integration point); models never share state between points.
type State struct {
	Sig []float64 // σ: current Cauchy stress tensor (Mandel) [nsig]
}

// NewState allocates a state structure
func NewState(nsig int) *State {
	return &State{Sig: make([]float64, nsig)}
}

// Set copies another state into this one
func (o *State) Set(other *State) {
	copy(o.Sig, other.Sig)
}

// GetCopy returns a copy of this state
func (o *State) GetCopy() *State {
	other := NewState(len(o.Sig))
	other.Set(o)
	return other
}

// Solid defines the interface for solid constitutive models. Implementations
// must be safe for concurrent calls on distinct states.
type Solid interface {

	// Init initialises the model with parameters from the material database
	Init(ndim int, prms map[string]float64) error

	// NumSig returns the number of stress components
	NumSig() int

	// InitIntVars returns a new internal-variables state
	InitIntVars(sig []float64) (*State, error)

	// Update updates the stress state for a given strain increment
	Update(s *State, deps []float64, eid, ipid int) error

	// CalcD computes the consistent modulus D = dσ/dε
	CalcD(D [][]float64, s *State) error
}

// LinElast implements the linear-elastic solid model
type LinElast struct {
	E    float64 // Young's modulus
	Nu   float64 // Poisson's coefficient
	K    float64 // bulk modulus
	G    float64 // shear modulus
	Nsig int     // number of stress components
}

// NewLinElast returns an initialised linear-elastic model
func NewLinElast(ndim int, prms map[string]float64) (*LinElast, error) {
	o := new(LinElast)
	if err := o.Init(ndim, prms); err != nil {
		return nil, err
	}
	return o, nil
}

// Init initialises the model
func (o *LinElast) Init(ndim int, prms map[string]float64) (err error) {
	if ndim < 2 || ndim > 3 {
		return chk.Err("lin-elast: ndim=%d is invalid", ndim)
	}
	o.Nsig = 2 * ndim
	for name, v := range prms {
		switch name {
		case "E":
			o.E = v
		case "nu":
			o.Nu = v
		case "rho":
		default:
			return chk.Err("lin-elast: parameter named %q is incorrect", name)
		}
	}
	if o.E <= 0 {
		return chk.Err("lin-elast: E=%g must be positive", o.E)
	}
	if o.Nu < 0 || o.Nu >= 0.5 {
		return chk.Err("lin-elast: nu=%g out of range [0, 0.5)", o.Nu)
	}
	o.K = o.E / (3.0 * (1.0 - 2.0*o.Nu))
	o.G = o.E / (2.0 * (1.0 + o.Nu))
	return
}

// NumSig returns the number of stress components
func (o *LinElast) NumSig() int { return o.Nsig }

// InitIntVars returns a new state holding the given initial stresses
func (o *LinElast) InitIntVars(sig []float64) (s *State, err error) {
	s = NewState(o.Nsig)
	if sig != nil {
		copy(s.Sig, sig)
	}
	return
}

// Update updates stresses for a given strain increment:
//  σ += K tr(Δε) I + 2 G dev(Δε)
func (o *LinElast) Update(s *State, deps []float64, eid, ipid int) (err error) {
	trDeps := deps[0] + deps[1] + deps[2]
	for i := 0; i < o.Nsig; i++ {
		devDeps := deps[i] - trDeps*tsr.Im[i]/3.0
		s.Sig[i] += o.K*trDeps*tsr.Im[i] + 2.0*o.G*devDeps
	}
	return
}

// CalcD computes the elastic modulus:
//  D = 2 G Psd + K I ⊗ I
func (o *LinElast) CalcD(D [][]float64, s *State) (err error) {
	for i := 0; i < o.Nsig; i++ {
		for j := 0; j < o.Nsig; j++ {
			D[i][j] = 2.0*o.G*tsr.Psd[i][j] + o.K*tsr.Im[i]*tsr.Im[j]
		}
	}
	return
}
