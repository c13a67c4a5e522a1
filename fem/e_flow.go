// Copyright 2016 The Geofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"

	"github.com/geofem/geofem/lsys"
	"github.com/geofem/geofem/msh"
	"github.com/geofem/geofem/shp"
)

// FlowKernel implements the single-phase mass balance with nodal pressures:
//  R_p[m] = ∫ ( Ss (p - pOld)/Δt S[m] + G[m] · k ∇p ) dV
//  K[m][n] = ∫ ( Ss/Δt S[m] S[n] + G[m] · k G[n] ) dV
// Dt <= 0 means steady state: the storage term is dropped.
type FlowKernel struct {

	// input
	Msh  *msh.Mesh           // the mesh
	Dofs *msh.NodeDofManager // pressure DOFs; ndofPerNode == 1
	Sys  *lsys.SparseSystem  // global assembly target
	Ksat [][]float64         // [ndim][ndim] permeability over viscosity
	Stor float64             // storage coefficient Ss
	Dt   float64             // time step; <= 0 => steady
	P    []float64           // [NumGlobal] current pressure by global row
	POld []float64           // [NumGlobal] previous pressure; nil => zeros
	Nip  int                 // number of integration points; 0 => default

	// derived
	Ndim  int
	nquad []int
}

// flowScratch holds the per-geometry scratch of one worker
type flowScratch struct {
	sh   *shp.Shape
	ips  []shp.Ipoint
	x    [][]float64
	pmap []int       // [np] global rows
	pe   []float64   // [np] local pressures
	peo  []float64   // [np] local old pressures
	rp   []float64   // [np] residual
	Kpp  [][]float64 // [np][np]
	gp   []float64   // [ndim] pressure gradient
	tmp  []float64   // [ndim]
}

type flowStack struct {
	byType map[string]*flowScratch
	cur    *flowScratch
}

// NewFlowKernel allocates and validates a flow kernel
func NewFlowKernel(m *msh.Mesh, dofs *msh.NodeDofManager, sys *lsys.SparseSystem, ksat [][]float64, stor, dt float64, p, pold []float64, nip int) (o *FlowKernel, err error) {
	if dofs.NdofPerNode != 1 {
		return nil, chk.Err("flow kernel needs ndofPerNode == 1. got %d", dofs.NdofPerNode)
	}
	if len(p) != dofs.NumGlobal {
		return nil, chk.Err("p has %d rows. want %d", len(p), dofs.NumGlobal)
	}
	if len(ksat) != m.Ndim {
		return nil, chk.Err("ksat must be [%d][%d]", m.Ndim, m.Ndim)
	}
	o = &FlowKernel{Msh: m, Dofs: dofs, Sys: sys, Ksat: ksat, Stor: stor, Dt: dt, P: p, POld: pold, Nip: nip, Ndim: m.Ndim}
	o.nquad = make([]int, m.NumElements())
	for e, c := range m.Cells {
		ips, err := shp.GetIps(c.Type, nip)
		if err != nil {
			return nil, err
		}
		o.nquad[e] = len(ips)
	}
	return
}

// NumElements returns the number of elements
func (o *FlowKernel) NumElements() int { return o.Msh.NumElements() }

// NumQuadPoints returns the number of quadrature points of element e
func (o *FlowKernel) NumQuadPoints(e int) int { return o.nquad[e] }

// NewStack allocates the per-worker scratch
func (o *FlowKernel) NewStack() Stack {
	return &flowStack{byType: make(map[string]*flowScratch)}
}

func (o *FlowKernel) newScratch(geoType string) *flowScratch {
	sc := new(flowScratch)
	sc.sh = shp.Get(geoType, 1)
	sc.ips, _ = shp.GetIps(geoType, o.Nip)
	np := sc.sh.Nverts
	sc.x = la.MatAlloc(o.Ndim, np)
	sc.pmap = make([]int, np)
	sc.pe = make([]float64, np)
	sc.peo = make([]float64, np)
	sc.rp = make([]float64, np)
	sc.Kpp = la.MatAlloc(np, np)
	sc.gp = make([]float64, o.Ndim)
	sc.tmp = make([]float64, o.Ndim)
	return sc
}

// Setup gathers coordinates, pressures and DOF rows of element e
func (o *FlowKernel) Setup(e int, s Stack) (err error) {
	st := s.(*flowStack)
	c := o.Msh.Cells[e]
	sc, ok := st.byType[c.Type]
	if !ok {
		sc = o.newScratch(c.Type)
		st.byType[c.Type] = sc
	}
	st.cur = sc
	for m, v := range c.Verts {
		for i := 0; i < o.Ndim; i++ {
			sc.x[i][m] = o.Msh.Verts[v].C[i]
		}
		r := o.Dofs.Row(v, 0)
		if r < 0 {
			return chk.Err("node %d: ghost row not synchronized", v)
		}
		sc.pmap[m] = r
		sc.pe[m] = o.P[r]
		if o.POld != nil {
			sc.peo[m] = o.POld[r]
		} else {
			sc.peo[m] = 0
		}
	}
	la.MatFill(sc.Kpp, 0)
	la.VecFill(sc.rp, 0)
	return
}

// QuadPointKernel accumulates rp and Kpp at quadrature point q
func (o *FlowKernel) QuadPointKernel(e, q int, s Stack) (err error) {
	sc := s.(*flowStack).cur
	ip := sc.ips[q]
	if err = sc.sh.CalcAtIp(sc.x, ip, true); err != nil {
		return
	}
	if sc.sh.J < 0 {
		return chk.Err("Jacobian is negative = %g", sc.sh.J)
	}
	coef := sc.sh.J * ip.W
	S := sc.sh.S
	G := sc.sh.G
	nverts := sc.sh.Nverts

	// p, pOld and ∇p at the point
	p, pold := 0.0, 0.0
	for i := 0; i < o.Ndim; i++ {
		sc.gp[i] = 0
	}
	for m := 0; m < nverts; m++ {
		p += S[m] * sc.pe[m]
		pold += S[m] * sc.peo[m]
		for i := 0; i < o.Ndim; i++ {
			sc.gp[i] += G[m][i] * sc.pe[m]
		}
	}

	// k ∇p
	for i := 0; i < o.Ndim; i++ {
		sc.tmp[i] = 0
		for j := 0; j < o.Ndim; j++ {
			sc.tmp[i] += o.Ksat[i][j] * sc.gp[j]
		}
	}

	acc := 0.0
	if o.Dt > 0 {
		acc = o.Stor / o.Dt
	}
	for m := 0; m < nverts; m++ {
		sc.rp[m] += coef * acc * (p - pold) * S[m]
		for i := 0; i < o.Ndim; i++ {
			sc.rp[m] += coef * G[m][i] * sc.tmp[i]
		}
		for n := 0; n < nverts; n++ {
			sc.Kpp[m][n] += coef * acc * S[m] * S[n]
			for i := 0; i < o.Ndim; i++ {
				for j := 0; j < o.Ndim; j++ {
					sc.Kpp[m][n] += coef * G[m][i] * o.Ksat[i][j] * G[n][j]
				}
			}
		}
	}
	return
}

// Complete scatters the owned rows of element e; ghost elements write nothing
func (o *FlowKernel) Complete(e int, s Stack) (diag float64, err error) {
	if !o.Msh.Cells[e].Owned() {
		return 0, nil
	}
	sc := s.(*flowStack).cur
	for m, r := range sc.pmap {
		if v := math.Abs(sc.rp[m]); v > diag {
			diag = v
		}
		if !o.Sys.OwnsRow(r) {
			continue
		}
		if err = o.Sys.AddToRhs(r, -sc.rp[m]); err != nil {
			return
		}
		if err = o.Sys.AddToRow(r, sc.pmap, sc.Kpp[m]); err != nil {
			return
		}
	}
	return
}
