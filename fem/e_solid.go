// Copyright 2016 The Geofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"

	"github.com/geofem/geofem/lsys"
	"github.com/geofem/geofem/mdl"
	"github.com/geofem/geofem/msh"
	"github.com/geofem/geofem/shp"
)

// SolidKernel implements the small-strain momentum balance:
//  R_u = ∫ tr(B) σ dV   and   K = ∫ tr(B) D B dV
// with σ = σ_state + D Δε and Δε = B u, where u is the current displacement
// increment gathered by global row. States are committed separately with
// UpdateStates after the increment converges.
type SolidKernel struct {

	// input
	Msh  *msh.Mesh            // the mesh
	Dofs *msh.NodeDofManager  // displacement DOFs; ndofPerNode == ndim
	Sys  *lsys.SparseSystem   // global assembly target
	Mdl  mdl.Solid            // constitutive model
	U    []float64            // [NumGlobal] displacement increment by global row
	Nip  int                  // number of integration points; 0 => default

	// derived
	Ndim   int
	nquad  []int         // [nele] number of quadrature points
	States [][]*mdl.State // [nele][nip] stress states
}

// solidScratch holds the per-geometry scratch of one worker
type solidScratch struct {
	sh   *shp.Shape
	ips  []shp.Ipoint
	x    [][]float64 // [ndim][nverts] node coordinates
	umap []int       // [nu] global rows
	ue   []float64   // [nu] local displacement increment
	fi   []float64   // [nu] internal force vector
	K    [][]float64 // [nu][nu] stiffness
	B    [][]float64 // [nsig][nu]
	D    [][]float64 // [nsig][nsig]
	sig  []float64   // [nsig]
	deps []float64   // [nsig]
}

// solidStack is the opaque per-worker stack
type solidStack struct {
	byType map[string]*solidScratch
	cur    *solidScratch
}

// NewSolidKernel allocates and validates a solid momentum kernel
func NewSolidKernel(m *msh.Mesh, dofs *msh.NodeDofManager, sys *lsys.SparseSystem, model mdl.Solid, u []float64, nip int) (o *SolidKernel, err error) {
	if dofs.NdofPerNode != m.Ndim {
		return nil, chk.Err("solid kernel needs ndofPerNode == ndim. %d != %d", dofs.NdofPerNode, m.Ndim)
	}
	if len(u) != dofs.NumGlobal {
		return nil, chk.Err("u has %d rows. want %d", len(u), dofs.NumGlobal)
	}
	o = &SolidKernel{Msh: m, Dofs: dofs, Sys: sys, Mdl: model, U: u, Nip: nip, Ndim: m.Ndim}
	n := m.NumElements()
	o.nquad = make([]int, n)
	o.States = make([][]*mdl.State, n)
	for e, c := range m.Cells {
		if shp.GetNverts(c.Type) < 0 {
			return nil, chk.Err("cell %d: unknown geometry type %q", c.Id, c.Type)
		}
		ips, err := shp.GetIps(c.Type, nip)
		if err != nil {
			return nil, err
		}
		o.nquad[e] = len(ips)
		o.States[e] = make([]*mdl.State, len(ips))
		for q := range ips {
			o.States[e][q], err = model.InitIntVars(nil)
			if err != nil {
				return nil, err
			}
		}
	}
	return
}

// NumElements returns the number of elements
func (o *SolidKernel) NumElements() int { return o.Msh.NumElements() }

// NumQuadPoints returns the number of quadrature points of element e
func (o *SolidKernel) NumQuadPoints(e int) int { return o.nquad[e] }

// NewStack allocates the per-worker scratch
func (o *SolidKernel) NewStack() Stack {
	return &solidStack{byType: make(map[string]*solidScratch)}
}

// newScratch allocates the scratch of one geometry type
func (o *SolidKernel) newScratch(geoType string) *solidScratch {
	sc := new(solidScratch)
	sc.sh = shp.Get(geoType, 1) // private copy: scratchpads are per worker
	sc.ips, _ = shp.GetIps(geoType, o.Nip)
	nu := o.Ndim * sc.sh.Nverts
	nsig := o.Mdl.NumSig()
	sc.x = la.MatAlloc(o.Ndim, sc.sh.Nverts)
	sc.umap = make([]int, nu)
	sc.ue = make([]float64, nu)
	sc.fi = make([]float64, nu)
	sc.K = la.MatAlloc(nu, nu)
	sc.B = la.MatAlloc(nsig, nu)
	sc.D = la.MatAlloc(nsig, nsig)
	sc.sig = make([]float64, nsig)
	sc.deps = make([]float64, nsig)
	return sc
}

// Setup gathers coordinates, displacement increment and DOF rows of element e
func (o *SolidKernel) Setup(e int, s Stack) (err error) {
	st := s.(*solidStack)
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
			r := o.Dofs.Row(v, i)
			if r < 0 {
				return chk.Err("node %d: ghost row not synchronized", v)
			}
			sc.umap[i+m*o.Ndim] = r
			sc.ue[i+m*o.Ndim] = o.U[r]
		}
	}
	la.MatFill(sc.K, 0)
	la.VecFill(sc.fi, 0)
	return
}

// QuadPointKernel accumulates fi and K at quadrature point q
func (o *SolidKernel) QuadPointKernel(e, q int, s Stack) (err error) {
	sc := s.(*solidStack).cur
	ip := sc.ips[q]
	if err = sc.sh.CalcAtIp(sc.x, ip, true); err != nil {
		return
	}
	if sc.sh.J < 0 {
		return chk.Err("Jacobian is negative = %g", sc.sh.J)
	}
	coef := sc.sh.J * ip.W
	IpBmatrix(sc.B, o.Ndim, sc.sh.Nverts, sc.sh.G)

	// Δε = B * ue and σ = σ_state + D Δε
	la.MatVecMul(sc.deps, 1, sc.B, sc.ue)
	state := o.States[e][q]
	if err = o.Mdl.CalcD(sc.D, state); err != nil {
		return
	}
	la.MatVecMul(sc.sig, 1, sc.D, sc.deps)
	for i := range sc.sig {
		sc.sig[i] += state.Sig[i]
	}

	la.MatTrVecMulAdd(sc.fi, coef, sc.B, sc.sig)  // fi += coef * tr(B) * σ
	la.MatTrMulAdd3(sc.K, coef, sc.B, sc.D, sc.B) // K += coef * tr(B) * D * B
	return
}

// Complete scatters the owned rows of element e; ghost elements write nothing
func (o *SolidKernel) Complete(e int, s Stack) (diag float64, err error) {
	if !o.Msh.Cells[e].Owned() {
		return 0, nil
	}
	sc := s.(*solidStack).cur
	for i, r := range sc.umap {
		if v := math.Abs(sc.fi[i]); v > diag {
			diag = v
		}
		if !o.Sys.OwnsRow(r) {
			continue
		}
		if err = o.Sys.AddToRhs(r, -sc.fi[i]); err != nil {
			return
		}
		if err = o.Sys.AddToRow(r, sc.umap, sc.K[i]); err != nil {
			return
		}
	}
	return
}

// UpdateStates commits the converged displacement increment into the
// integration-point stress states
func (o *SolidKernel) UpdateStates() (err error) {
	st := o.NewStack().(*solidStack)
	for e := range o.Msh.Cells {
		if err = o.Setup(e, st); err != nil {
			return
		}
		sc := st.cur
		for q := range sc.ips {
			if err = sc.sh.CalcAtIp(sc.x, sc.ips[q], true); err != nil {
				return
			}
			IpBmatrix(sc.B, o.Ndim, sc.sh.Nverts, sc.sh.G)
			la.MatVecMul(sc.deps, 1, sc.B, sc.ue)
			if err = o.Mdl.Update(o.States[e][q], sc.deps, e, q); err != nil {
				return
			}
		}
	}
	return
}
