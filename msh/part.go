// Copyright 2016 The Geofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msh

import (
	"github.com/cpmech/gosl/chk"
)

// PartitionStrategy defines how cells are grouped into partitions
type PartitionStrategy int

const (
	BlockPartition PartitionStrategy = iota // consecutive cells
	GraphPartition                          // greedy growth over the face-adjacency graph
)

// Partitioner splits the mesh into np partitions and derives ghost layers
type Partitioner struct {
	Mesh     *Mesh
	Np       int // number of partitions
	Strategy PartitionStrategy
}

// Partition assigns every cell to a partition. Returns eToP with
// eToP[cellId] == partition index.
func (o *Partitioner) Partition() (eToP []int, err error) {
	n := o.Mesh.NumElements()
	if o.Np < 1 {
		return nil, chk.Err("number of partitions must be >= 1. np=%d is invalid", o.Np)
	}
	if o.Np > n {
		return nil, chk.Err("more partitions (%d) than cells (%d)", o.Np, n)
	}
	eToP = make([]int, n)
	switch o.Strategy {
	case BlockPartition:
		size := (n + o.Np - 1) / o.Np
		for e := 0; e < n; e++ {
			eToP[e] = e / size
		}
	case GraphPartition:
		err = o.growParts(eToP)
	default:
		err = chk.Err("partition strategy %d is not available", o.Strategy)
	}
	return
}

// growParts grows partitions greedily over the face-adjacency graph,
// seeding each partition at the lowest-id unassigned cell
func (o *Partitioner) growParts(eToP []int) (err error) {
	if o.Mesh.Faces == nil {
		return chk.Err("connectivity must be built before graph partitioning")
	}
	n := o.Mesh.NumElements()
	adj := o.adjacency()
	for e := 0; e < n; e++ {
		eToP[e] = -1
	}
	target := (n + o.Np - 1) / o.Np
	next := 0
	for p := 0; p < o.Np; p++ {
		// seed
		for next < n && eToP[next] >= 0 {
			next++
		}
		if next == n {
			break
		}
		frontier := []int{next}
		count := 0
		for len(frontier) > 0 && count < target {
			e := frontier[0]
			frontier = frontier[1:]
			if eToP[e] >= 0 {
				continue
			}
			eToP[e] = p
			count++
			for _, nb := range adj[e] {
				if eToP[nb] < 0 {
					frontier = append(frontier, nb)
				}
			}
		}
	}
	// sweep leftovers into the last partition
	for e := 0; e < n; e++ {
		if eToP[e] < 0 {
			eToP[e] = o.Np - 1
		}
	}
	return
}

// adjacency builds the cell-to-cell adjacency through interior faces
func (o *Partitioner) adjacency() [][]int {
	adj := make([][]int, o.Mesh.NumElements())
	for _, f := range o.Mesh.Faces {
		if f.Cells[1].Elem < 0 {
			continue
		}
		a := o.Mesh.blocks[regsub{f.Cells[0].Reg, f.Cells[0].Sub}][f.Cells[0].Elem]
		b := o.Mesh.blocks[regsub{f.Cells[1].Reg, f.Cells[1].Sub}][f.Cells[1].Elem]
		adj[a] = append(adj[a], b)
		adj[b] = append(adj[b], a)
	}
	return adj
}

// ApplyPartition sets ghost ranks on the mesh as seen from partition myrank:
// owned cells get rank -1; all other cells carry the owning partition index.
// Faces touching a ghost cell are flagged.
func (o *Mesh) ApplyPartition(eToP []int, myrank int) (err error) {
	if len(eToP) != o.NumElements() {
		return chk.Err("eToP has wrong size: %d != %d", len(eToP), o.NumElements())
	}
	for e, c := range o.Cells {
		if eToP[e] == myrank {
			c.GhostRank = -1
		} else {
			c.GhostRank = eToP[e]
		}
	}
	for _, f := range o.Faces {
		f.Ghost = false
		for i := 0; i < 2; i++ {
			if f.Cells[i].Elem < 0 {
				continue
			}
			cid := o.blocks[regsub{f.Cells[i].Reg, f.Cells[i].Sub}][f.Cells[i].Elem]
			if !o.Cells[cid].Owned() {
				f.Ghost = true
			}
		}
	}
	return
}

// HaloCells returns the cells owned by other partitions that share a face
// with a cell owned by myrank (the halo/ghost layer of myrank)
func (o *Mesh) HaloCells(myrank int) (halo []int) {
	seen := make(map[int]bool)
	for _, f := range o.Faces {
		if f.Cells[1].Elem < 0 {
			continue
		}
		a := o.blocks[regsub{f.Cells[0].Reg, f.Cells[0].Sub}][f.Cells[0].Elem]
		b := o.blocks[regsub{f.Cells[1].Reg, f.Cells[1].Sub}][f.Cells[1].Elem]
		ca, cb := o.Cells[a], o.Cells[b]
		if ca.Owned() && !cb.Owned() && !seen[b] {
			seen[b] = true
			halo = append(halo, b)
		}
		if cb.Owned() && !ca.Owned() && !seen[a] {
			seen[a] = true
			halo = append(halo, a)
		}
	}
	return
}
