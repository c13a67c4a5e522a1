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

// WaveKernel implements the explicit elastodynamics step quantities:
// the stiffness action f = ∫ tr(B) D B u dV applied matrix-free to the
// current displacement field (scattered into the RHS), and the row-sum
// lumped mass diag(M)[m] = ∫ ρ S[m] dV per displacement component
// (scattered onto the matrix diagonal).
type WaveKernel struct {

	// input
	Msh  *msh.Mesh
	Dofs *msh.NodeDofManager // displacement DOFs; ndofPerNode == ndim
	Sys  *lsys.SparseSystem
	Mdl  mdl.Solid // provides the elastic modulus D
	Rho  float64   // mass density
	U    []float64 // [NumGlobal] displacement field by global row
	Nip  int

	// derived
	Ndim  int
	nquad []int
	state *mdl.State // shared elastic reference state; D does not depend on it
}

// waveScratch holds the per-geometry scratch of one worker
type waveScratch struct {
	sh   *shp.Shape
	ips  []shp.Ipoint
	x    [][]float64
	umap []int
	ue   []float64
	fi   []float64 // [nu] stiffness action
	mass []float64 // [nu] lumped mass
	diag []int     // [1] scratch for one-column scatter
	B    [][]float64
	D    [][]float64
	sig  []float64
	deps []float64
}

type waveStack struct {
	byType map[string]*waveScratch
	cur    *waveScratch
}

// NewWaveKernel allocates and validates a wave kernel
func NewWaveKernel(m *msh.Mesh, dofs *msh.NodeDofManager, sys *lsys.SparseSystem, model mdl.Solid, rho float64, u []float64, nip int) (o *WaveKernel, err error) {
	if dofs.NdofPerNode != m.Ndim {
		return nil, chk.Err("wave kernel needs ndofPerNode == ndim. %d != %d", dofs.NdofPerNode, m.Ndim)
	}
	if rho <= 0 {
		return nil, chk.Err("wave kernel needs a positive density. rho=%g", rho)
	}
	if len(u) != dofs.NumGlobal {
		return nil, chk.Err("u has %d rows. want %d", len(u), dofs.NumGlobal)
	}
	o = &WaveKernel{Msh: m, Dofs: dofs, Sys: sys, Mdl: model, Rho: rho, U: u, Nip: nip, Ndim: m.Ndim}
	o.state, err = model.InitIntVars(nil)
	if err != nil {
		return nil, err
	}
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
func (o *WaveKernel) NumElements() int { return o.Msh.NumElements() }

// NumQuadPoints returns the number of quadrature points of element e
func (o *WaveKernel) NumQuadPoints(e int) int { return o.nquad[e] }

// NewStack allocates the per-worker scratch
func (o *WaveKernel) NewStack() Stack {
	return &waveStack{byType: make(map[string]*waveScratch)}
}

func (o *WaveKernel) newScratch(geoType string) *waveScratch {
	sc := new(waveScratch)
	sc.sh = shp.Get(geoType, 1)
	sc.ips, _ = shp.GetIps(geoType, o.Nip)
	nu := o.Ndim * sc.sh.Nverts
	nsig := o.Mdl.NumSig()
	sc.x = la.MatAlloc(o.Ndim, sc.sh.Nverts)
	sc.umap = make([]int, nu)
	sc.ue = make([]float64, nu)
	sc.fi = make([]float64, nu)
	sc.mass = make([]float64, nu)
	sc.diag = make([]int, 1)
	sc.B = la.MatAlloc(nsig, nu)
	sc.D = la.MatAlloc(nsig, nsig)
	sc.sig = make([]float64, nsig)
	sc.deps = make([]float64, nsig)
	return sc
}

// Setup gathers coordinates, displacements and DOF rows of element e
func (o *WaveKernel) Setup(e int, s Stack) (err error) {
	st := s.(*waveStack)
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
	la.VecFill(sc.fi, 0)
	la.VecFill(sc.mass, 0)
	return
}

// QuadPointKernel accumulates the stiffness action and the lumped mass
func (o *WaveKernel) QuadPointKernel(e, q int, s Stack) (err error) {
	sc := s.(*waveStack).cur
	ip := sc.ips[q]
	if err = sc.sh.CalcAtIp(sc.x, ip, true); err != nil {
		return
	}
	if sc.sh.J < 0 {
		return chk.Err("Jacobian is negative = %g", sc.sh.J)
	}
	coef := sc.sh.J * ip.W
	nverts := sc.sh.Nverts
	IpBmatrix(sc.B, o.Ndim, nverts, sc.sh.G)

	// f += coef * tr(B) * D * B * u
	la.MatVecMul(sc.deps, 1, sc.B, sc.ue)
	if err = o.Mdl.CalcD(sc.D, o.state); err != nil {
		return
	}
	la.MatVecMul(sc.sig, 1, sc.D, sc.deps)
	la.MatTrVecMulAdd(sc.fi, coef, sc.B, sc.sig)

	// lumped mass per component
	for m := 0; m < nverts; m++ {
		for i := 0; i < o.Ndim; i++ {
			sc.mass[i+m*o.Ndim] += coef * o.Rho * sc.sh.S[m]
		}
	}
	return
}

// Complete scatters the stiffness action into the RHS and the lumped mass
// onto the matrix diagonal; ghost elements write nothing
func (o *WaveKernel) Complete(e int, s Stack) (diag float64, err error) {
	if !o.Msh.Cells[e].Owned() {
		return 0, nil
	}
	sc := s.(*waveStack).cur
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
		sc.diag[0] = r
		if err = o.Sys.AddToRow(r, sc.diag, sc.mass[i:i+1]); err != nil {
			return
		}
	}
	return
}
