// Copyright 2016 The Geofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
	"github.com/cpmech/gosl/tsr"

	"github.com/geofem/geofem/lsys"
	"github.com/geofem/geofem/mdl"
	"github.com/geofem/geofem/msh"
	"github.com/geofem/geofem/shp"
)

// CoupledKernel implements quasi-static poroelasticity (u-p formulation)
// with backward-Euler time discretization:
//  R_u = ∫ tr(B) σ' dV - α ∫ tr(B) m Np p dV
//  R_p = ∫ ( Ss (p - pOld)/Δt + α mᵀB u/Δt ) Np dV + ∫ ∇Np · k ∇p dV
// where m is the identity tensor in Mandel form and u is the displacement
// increment over the step. The four Jacobian blocks are
//  Kuu = ∫ tr(B) D B,  Kup = -α ∫ tr(B) m Np,
//  Kpu = (α/Δt) ∫ Np mᵀ B,  Kpp = ∫ (Ss/Δt) Np Npᵀ + ∇Np · k ∇Np
// Pressure rows live after all displacement rows: the global row of pressure
// DOF r is r + PShift.
type CoupledKernel struct {

	// input
	Msh    *msh.Mesh
	UDofs  *msh.NodeDofManager // displacement DOFs; ndofPerNode == ndim
	PDofs  *msh.NodeDofManager // pressure DOFs; ndofPerNode == 1
	PShift int                 // global row offset of the pressure block
	Sys    *lsys.SparseSystem  // (nu+np) × (nu+np) assembly target
	Mdl    mdl.Solid           // effective-stress constitutive model
	Ksat   [][]float64         // [ndim][ndim] permeability over viscosity
	Alpha  float64             // Biot coefficient
	Stor   float64             // storage coefficient Ss
	Dt     float64             // time step; must be positive
	U      []float64           // displacement increment by (unshifted) u-row
	P      []float64           // current pressure by (unshifted) p-row
	POld   []float64           // previous pressure; nil => zeros
	Nip    int

	// derived
	Ndim   int
	nquad  []int
	States [][]*mdl.State
}

// coupledScratch holds the per-geometry scratch of one worker
type coupledScratch struct {
	sh  *shp.Shape
	ips []shp.Ipoint
	x   [][]float64

	// displacement block
	umap []int
	ue   []float64
	ru   []float64
	Kuu  [][]float64
	B    [][]float64
	D    [][]float64
	btm  []float64 // [nu] tr(B) * m
	sig  []float64
	deps []float64

	// pressure block
	pmap  []int // unshifted rows
	pcols []int // shifted rows, for the scatter
	pe    []float64
	peo   []float64
	rp    []float64
	Kpp   [][]float64
	Kup   [][]float64 // [nu][np]
	Kpu   [][]float64 // [np][nu]
	gp    []float64
	tmp   []float64
}

type coupledStack struct {
	byType map[string]*coupledScratch
	cur    *coupledScratch
}

// NewCoupledKernel allocates and validates a u-p kernel
func NewCoupledKernel(m *msh.Mesh, udofs, pdofs *msh.NodeDofManager, sys *lsys.SparseSystem, model mdl.Solid, ksat [][]float64, alpha, stor, dt float64, u, p, pold []float64, nip int) (o *CoupledKernel, err error) {
	if udofs.NdofPerNode != m.Ndim {
		return nil, chk.Err("coupled kernel needs u ndofPerNode == ndim. %d != %d", udofs.NdofPerNode, m.Ndim)
	}
	if pdofs.NdofPerNode != 1 {
		return nil, chk.Err("coupled kernel needs p ndofPerNode == 1. got %d", pdofs.NdofPerNode)
	}
	if dt <= 0 {
		return nil, chk.Err("coupled kernel needs a positive time step. dt=%g", dt)
	}
	if len(u) != udofs.NumGlobal || len(p) != pdofs.NumGlobal {
		return nil, chk.Err("u/p sizes %d/%d do not match DOF managers %d/%d", len(u), len(p), udofs.NumGlobal, pdofs.NumGlobal)
	}
	o = &CoupledKernel{Msh: m, UDofs: udofs, PDofs: pdofs, PShift: udofs.NumGlobal, Sys: sys,
		Mdl: model, Ksat: ksat, Alpha: alpha, Stor: stor, Dt: dt, U: u, P: p, POld: pold, Nip: nip, Ndim: m.Ndim}
	n := m.NumElements()
	o.nquad = make([]int, n)
	o.States = make([][]*mdl.State, n)
	for e, c := range m.Cells {
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
func (o *CoupledKernel) NumElements() int { return o.Msh.NumElements() }

// NumQuadPoints returns the number of quadrature points of element e
func (o *CoupledKernel) NumQuadPoints(e int) int { return o.nquad[e] }

// NewStack allocates the per-worker scratch
func (o *CoupledKernel) NewStack() Stack {
	return &coupledStack{byType: make(map[string]*coupledScratch)}
}

func (o *CoupledKernel) newScratch(geoType string) *coupledScratch {
	sc := new(coupledScratch)
	sc.sh = shp.Get(geoType, 1)
	sc.ips, _ = shp.GetIps(geoType, o.Nip)
	nverts := sc.sh.Nverts
	nu := o.Ndim * nverts
	np := nverts
	nsig := o.Mdl.NumSig()
	sc.x = la.MatAlloc(o.Ndim, nverts)
	sc.umap = make([]int, nu)
	sc.ue = make([]float64, nu)
	sc.ru = make([]float64, nu)
	sc.Kuu = la.MatAlloc(nu, nu)
	sc.B = la.MatAlloc(nsig, nu)
	sc.D = la.MatAlloc(nsig, nsig)
	sc.btm = make([]float64, nu)
	sc.sig = make([]float64, nsig)
	sc.deps = make([]float64, nsig)
	sc.pmap = make([]int, np)
	sc.pcols = make([]int, np)
	sc.pe = make([]float64, np)
	sc.peo = make([]float64, np)
	sc.rp = make([]float64, np)
	sc.Kpp = la.MatAlloc(np, np)
	sc.Kup = la.MatAlloc(nu, np)
	sc.Kpu = la.MatAlloc(np, nu)
	sc.gp = make([]float64, o.Ndim)
	sc.tmp = make([]float64, o.Ndim)
	return sc
}

// Setup gathers coordinates, primary variables and DOF rows of element e
func (o *CoupledKernel) Setup(e int, s Stack) (err error) {
	st := s.(*coupledStack)
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
			r := o.UDofs.Row(v, i)
			if r < 0 {
				return chk.Err("node %d: ghost u-row not synchronized", v)
			}
			sc.umap[i+m*o.Ndim] = r
			sc.ue[i+m*o.Ndim] = o.U[r]
		}
		r := o.PDofs.Row(v, 0)
		if r < 0 {
			return chk.Err("node %d: ghost p-row not synchronized", v)
		}
		sc.pmap[m] = r
		sc.pcols[m] = r + o.PShift
		sc.pe[m] = o.P[r]
		if o.POld != nil {
			sc.peo[m] = o.POld[r]
		} else {
			sc.peo[m] = 0
		}
	}
	la.MatFill(sc.Kuu, 0)
	la.MatFill(sc.Kup, 0)
	la.MatFill(sc.Kpu, 0)
	la.MatFill(sc.Kpp, 0)
	la.VecFill(sc.ru, 0)
	la.VecFill(sc.rp, 0)
	return
}

// QuadPointKernel accumulates the four blocks at quadrature point q
func (o *CoupledKernel) QuadPointKernel(e, q int, s Stack) (err error) {
	sc := s.(*coupledStack).cur
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
	nu := o.Ndim * nverts
	nsig := o.Mdl.NumSig()

	// strain-displacement operator and tr(B) * m
	IpBmatrix(sc.B, o.Ndim, nverts, sc.sh.G)
	for c := 0; c < nu; c++ {
		sc.btm[c] = 0
		for i := 0; i < nsig; i++ {
			sc.btm[c] += sc.B[i][c] * tsr.Im[i]
		}
	}

	// effective stress σ' = σ_state + D Δε
	la.MatVecMul(sc.deps, 1, sc.B, sc.ue)
	state := o.States[e][q]
	if err = o.Mdl.CalcD(sc.D, state); err != nil {
		return
	}
	la.MatVecMul(sc.sig, 1, sc.D, sc.deps)
	for i := range sc.sig {
		sc.sig[i] += state.Sig[i]
	}

	// p, pOld, ∇p and div(u) at the point
	p, pold, divu := 0.0, 0.0, 0.0
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
	for c := 0; c < nu; c++ {
		divu += sc.btm[c] * sc.ue[c]
	}
	for i := 0; i < o.Ndim; i++ {
		sc.tmp[i] = 0
		for j := 0; j < o.Ndim; j++ {
			sc.tmp[i] += o.Ksat[i][j] * sc.gp[j]
		}
	}

	// momentum block
	la.MatTrVecMulAdd(sc.ru, coef, sc.B, sc.sig)
	la.MatTrMulAdd3(sc.Kuu, coef, sc.B, sc.D, sc.B)
	for c := 0; c < nu; c++ {
		sc.ru[c] -= coef * o.Alpha * p * sc.btm[c]
		for n := 0; n < nverts; n++ {
			sc.Kup[c][n] -= coef * o.Alpha * sc.btm[c] * S[n]
		}
	}

	// mass block
	acc := o.Stor / o.Dt
	for n := 0; n < nverts; n++ {
		sc.rp[n] += coef * (acc*(p-pold) + o.Alpha*divu/o.Dt) * S[n]
		for i := 0; i < o.Ndim; i++ {
			sc.rp[n] += coef * G[n][i] * sc.tmp[i]
		}
		for c := 0; c < nu; c++ {
			sc.Kpu[n][c] += coef * (o.Alpha / o.Dt) * S[n] * sc.btm[c]
		}
		for m := 0; m < nverts; m++ {
			sc.Kpp[n][m] += coef * acc * S[n] * S[m]
			for i := 0; i < o.Ndim; i++ {
				for j := 0; j < o.Ndim; j++ {
					sc.Kpp[n][m] += coef * G[n][i] * o.Ksat[i][j] * G[m][j]
				}
			}
		}
	}
	return
}

// Complete scatters the owned rows of both blocks; ghost elements write nothing
func (o *CoupledKernel) Complete(e int, s Stack) (diag float64, err error) {
	if !o.Msh.Cells[e].Owned() {
		return 0, nil
	}
	sc := s.(*coupledStack).cur
	for i, r := range sc.umap {
		if v := math.Abs(sc.ru[i]); v > diag {
			diag = v
		}
		if !o.Sys.OwnsRow(r) {
			continue
		}
		if err = o.Sys.AddToRhs(r, -sc.ru[i]); err != nil {
			return
		}
		if err = o.Sys.AddToRow(r, sc.umap, sc.Kuu[i]); err != nil {
			return
		}
		if err = o.Sys.AddToRow(r, sc.pcols, sc.Kup[i]); err != nil {
			return
		}
	}
	for n, r := range sc.pmap {
		if v := math.Abs(sc.rp[n]); v > diag {
			diag = v
		}
		row := r + o.PShift
		if !o.Sys.OwnsRow(row) {
			continue
		}
		if err = o.Sys.AddToRhs(row, -sc.rp[n]); err != nil {
			return
		}
		if err = o.Sys.AddToRow(row, sc.umap, sc.Kpu[n]); err != nil {
			return
		}
		if err = o.Sys.AddToRow(row, sc.pcols, sc.Kpp[n]); err != nil {
			return
		}
	}
	return
}
