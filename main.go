// Copyright 2016 The Geofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Geofem assembles one linearized step of a multiphysics subsurface problem:
// finite-element kernels over each region's mesh and, for multiphase runs, an
// upwind finite-volume flux sweep over the interior faces.
package main

import (
	"math"
	"path/filepath"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/geofem/geofem/fem"
	"github.com/geofem/geofem/fvm"
	"github.com/geofem/geofem/inp"
	"github.com/geofem/geofem/lsys"
	"github.com/geofem/geofem/mdl"
	"github.com/geofem/geofem/msh"
)

func main() {

	// catch errors
	defer func() {
		if err := recover(); err != nil {
			chk.Verbose = true
			io.PfRed("ERROR: %v\n", err)
		}
	}()

	// read input parameters
	fnamepath, _ := io.ArgToFilename(0, "examples/twophase/sim", ".sim", true)
	verbose := io.ArgToBool(1, true)
	if verbose {
		io.PfWhite("\nGeofem -- subsurface FEM/FV simulation core\n\n")
		io.Pf("%v\n", io.ArgsTable(
			"filename path", "fnamepath", fnamepath,
			"show messages", "verbose", verbose,
		))
	}

	// simulation data
	sim, err := inp.ReadSim(fnamepath, verbose)
	if err != nil {
		chk.Panic("cannot load simulation:\n%v", err)
	}

	// process regions
	for ireg, reg := range sim.Regions {
		if err := runRegion(sim, ireg, reg, verbose); err != nil {
			chk.Panic("region %d failed:\n%v", ireg, err)
		}
	}
}

// runRegion assembles one region: mesh, partition, DOFs, kernels, fluxes
func runRegion(sim *inp.Simulation, ireg int, reg *inp.Region, verbose bool) (err error) {

	// mesh and connectivity
	m, err := msh.Read(filepath.Join(sim.DirPath, reg.Mshfile))
	if err != nil {
		return err
	}
	if err = m.BuildConnectivity(); err != nil {
		return err
	}

	// partition; this process plays rank 0
	if sim.Nparts > 1 {
		part := &msh.Partitioner{Mesh: m, Np: sim.Nparts, Strategy: msh.GraphPartition}
		eToP, err := part.Partition()
		if err != nil {
			return err
		}
		if err = m.ApplyPartition(eToP, 0); err != nil {
			return err
		}
	}

	// element data and material of this region
	if len(reg.ElemsData) < 1 {
		return chk.Err("region %d has no element data", ireg)
	}
	edat := reg.ElemsData[0]
	mat := sim.MatByName(edat.Mat)
	if mat == nil {
		return chk.Err("material %q is not available", edat.Mat)
	}

	// finite-element pass
	res, ndof, err := assemble(sim, m, edat, mat)
	if err != nil {
		return err
	}
	if res.Failed {
		return chk.Err("assembly failed for %d element(s):\n%v", res.NumFailed, res.FirstErr)
	}
	if verbose {
		io.Pf("region %d (%s): %d cells, %d rows, max residual = %g\n",
			ireg, reg.Desc, m.NumElements(), ndof, res.MaxDiag)
	}

	// finite-volume flux sweep
	if sim.Flux.Nphases > 1 {
		maxFlux, nfaces, err := fluxSweep(sim, m)
		if err != nil {
			return err
		}
		if verbose {
			io.Pf("region %d (%s): %d interior faces, max phase flux = %g\n",
				ireg, reg.Desc, nfaces, maxFlux)
		}
	}
	return
}

// assemble runs the element kernel matching the region's element type
func assemble(sim *inp.Simulation, m *msh.Mesh, edat *inp.ElemData, mat *inp.Material) (res fem.Result, ndof int, err error) {

	// per-partition owned-node counts and owner-side ghost rows; this process
	// plays rank 0 and mirrors the other partitions' rows in-process
	nparts := sim.Nparts
	if nparts < 1 {
		nparts = 1
	}
	newDofs := func(ndofPerNode int) (*msh.NodeDofManager, error) {
		counts, rows, derr := m.NodeRowSource(nparts, ndofPerNode, 0)
		if derr != nil {
			return nil, derr
		}
		hx := msh.NewLocalExchanger()
		hx.SetSource("nodeRow", rows)
		return msh.NewNodeDofManager(m, ndofPerNode, counts, 0, hx)
	}

	newSys := func(n int) (*lsys.SparseSystem, error) {
		return lsys.NewSparseSystem(n, 0, n)
	}

	var kernel fem.Kernel
	switch edat.Type {

	case "solid", "wave":
		dofs, derr := newDofs(m.Ndim)
		if derr != nil {
			return res, 0, derr
		}
		sys, serr := newSys(dofs.NumGlobal)
		if serr != nil {
			return res, 0, serr
		}
		model, merr := mdl.NewLinElast(m.Ndim, mat.Prms)
		if merr != nil {
			return res, 0, merr
		}
		u := make([]float64, dofs.NumGlobal)
		ndof = dofs.NumGlobal
		if edat.Type == "wave" {
			kernel, err = fem.NewWaveKernel(m, dofs, sys, model, mat.GetPrm("rho", 1), u, edat.Nip)
		} else {
			kernel, err = fem.NewSolidKernel(m, dofs, sys, model, u, edat.Nip)
		}

	case "flow":
		dofs, derr := newDofs(1)
		if derr != nil {
			return res, 0, derr
		}
		sys, serr := newSys(dofs.NumGlobal)
		if serr != nil {
			return res, 0, serr
		}
		ksat := isotropic(m.Ndim, mat.GetPrm("kiso", 1))
		p := make([]float64, dofs.NumGlobal)
		ndof = dofs.NumGlobal
		kernel, err = fem.NewFlowKernel(m, dofs, sys, ksat, mat.GetPrm("Ss", 0), sim.Control.Dt, p, nil, edat.Nip)

	case "porous":
		udofs, derr := newDofs(m.Ndim)
		if derr != nil {
			return res, 0, derr
		}
		pdofs, derr := newDofs(1)
		if derr != nil {
			return res, 0, derr
		}
		sys, serr := newSys(udofs.NumGlobal + pdofs.NumGlobal)
		if serr != nil {
			return res, 0, serr
		}
		model, merr := mdl.NewLinElast(m.Ndim, map[string]float64{"E": mat.GetPrm("E", 1000), "nu": mat.GetPrm("nu", 0.25)})
		if merr != nil {
			return res, 0, merr
		}
		ksat := isotropic(m.Ndim, mat.GetPrm("kiso", 1))
		u := make([]float64, udofs.NumGlobal)
		p := make([]float64, pdofs.NumGlobal)
		ndof = udofs.NumGlobal + pdofs.NumGlobal
		kernel, err = fem.NewCoupledKernel(m, udofs, pdofs, sys, model, ksat,
			mat.GetPrm("alpha", 1), mat.GetPrm("Ss", 0), sim.Control.Dt, u, p, nil, edat.Nip)

	default:
		return res, 0, chk.Err("element type %q is not available", edat.Type)
	}
	if err != nil {
		return res, 0, err
	}

	res = fem.KernelLaunch(kernel, sim.Solver.Nworker)
	return
}

// fluxSweep computes phase-potential-upwinded fluxes over all interior faces
func fluxSweep(sim *inp.Simulation, m *msh.Mesh) (maxFlux float64, nfaces int, err error) {

	nph := sim.Flux.Nphases
	ncomp := sim.Flux.Ncomps
	fluid, err := mdl.NewTwoPhase(nil)
	if err != nil {
		return 0, 0, err
	}

	// cell fields per (region, sub-region) block
	fields, err := buildFields(sim, m, fluid)
	if err != nil {
		return 0, 0, err
	}
	eng := fvm.NewEngine(fields, &sim.Flux)
	pf := fvm.NewPhaseFlux(ncomp)
	cf := fvm.NewCompFlux(ncomp)

	for _, f := range m.Faces {
		if f.Boundary {
			continue
		}
		st, serr := fvm.StencilFromFace(m, f)
		if serr != nil {
			return 0, 0, serr
		}
		cf.Reset()
		for ip := 0; ip < nph; ip++ {
			pf.Reset()
			kUp, _ := eng.ComputePPUPhaseFlux(ip, st, pf)
			eng.ComputePhaseComponentFlux(ip, kUp, st, pf, cf)
			if v := math.Abs(pf.Flux); v > maxFlux {
				maxFlux = v
			}
		}
		nfaces++
	}
	return
}

// buildFields fills the per-cell property arrays from the fluid model at a
// uniform initial pressure and saturation
func buildFields(sim *inp.Simulation, m *msh.Mesh, fluid mdl.Fluid) (*fvm.Fields, error) {

	nph := sim.Flux.Nphases
	ncomp := sim.Flux.Ncomps
	if nph != fluid.NumPhases() || ncomp != fluid.NumComps() {
		return nil, chk.Err("flux settings (%d phases, %d comps) do not match the fluid model (%d, %d)",
			nph, ncomp, fluid.NumPhases(), fluid.NumComps())
	}

	// block sizes
	maxReg, maxSub := 0, 0
	for _, c := range m.Cells {
		if c.Reg > maxReg {
			maxReg = c.Reg
		}
		if c.SubReg > maxSub {
			maxSub = c.SubReg
		}
	}
	nsub := make([]int, maxReg+1)
	for r := range nsub {
		nsub[r] = maxSub + 1
	}
	fields := fvm.NewFields(nsub)

	p0, s0 := sim.Flux.Pini, sim.Flux.Sini
	for r := 0; r <= maxReg; r++ {
		for sub := 0; sub <= maxSub; sub++ {
			nelem := len(m.BlockCells(r, sub))
			if nelem == 0 {
				continue
			}
			bf := fvm.NewBlockFields(nelem, nph, ncomp)
			for e := 0; e < nelem; e++ {
				bf.Pres[e] = p0
				cid := m.BlockCells(r, sub)[e]
				cen := 0.0
				for _, v := range m.Cells[cid].Verts {
					cen += m.Verts[v].C[m.Ndim-1]
				}
				cen /= float64(len(m.Cells[cid].Verts))
				bf.GravCoef[e] = sim.Flux.Gravity * cen
				// the fluid model takes the wetting saturation for every phase
				for ip := 0; ip < nph; ip++ {
					rho, drhodp, err := fluid.MassDens(ip, p0)
					if err != nil {
						return nil, err
					}
					mob, dmobdp, _, err := fluid.Mobility(ip, p0, s0)
					if err != nil {
						return nil, err
					}
					bf.PhaseMassDens[e][ip] = rho
					bf.DPhaseMassDens[e][ip][fvm.DerivP] = drhodp
					bf.PhaseMob[e][ip] = mob
					bf.DPhaseMob[e][ip][fvm.DerivP] = dmobdp
					if ip == 1 {
						pc, dpcds := fluid.CapPres(s0)
						bf.PhaseCapPres[e][ip] = pc
						bf.DPhaseCapPresDS[e][ip][0] = dpcds
					}
					for ic := 0; ic < ncomp; ic++ {
						bf.PhaseCompFrac[e][ip][ic] = fluid.PhaseCompFrac(ip, ic)
					}
				}
				for ic := 0; ic < ncomp; ic++ {
					bf.DCompFracDDens[e][ic][ic] = 1
				}
			}
			if err := fields.SetBlock(r, sub, bf); err != nil {
				return nil, err
			}
		}
	}
	return fields, nil
}

// isotropic builds k I
func isotropic(ndim int, k float64) [][]float64 {
	a := make([][]float64, ndim)
	for i := range a {
		a[i] = make([]float64, ndim)
		a[i][i] = k
	}
	return a
}
