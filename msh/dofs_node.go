// Copyright 2016 The Geofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msh

import (
	"github.com/cpmech/gosl/chk"
)

// NodeDofManager assigns global row indices to per-node unknowns such as
// displacement components. A node is owned by the partition that owns the
// lowest-id cell containing it; all other partitions mirror the owner's rows.
type NodeDofManager struct {

	// input
	Mesh        *Mesh
	NdofPerNode int

	// derived
	Offset    int
	NumOwned  int
	NumGlobal int
	nodeOwned []bool
	nodeRow   []int // [nverts*ndof] global row; -1 for unsynchronized ghosts
}

// NewNodeDofManager numbers owned node unknowns. ownedCounts holds the
// owned-node count of each partition; myrank selects ours.
func NewNodeDofManager(m *Mesh, ndofPerNode int, ownedCounts []int, myrank int, hx HaloExchanger) (o *NodeDofManager, err error) {
	if ndofPerNode < 1 {
		return nil, chk.Err("ndofPerNode must be >= 1")
	}
	o = &NodeDofManager{Mesh: m, NdofPerNode: ndofPerNode}

	// node ownership from lowest-id containing cell
	nv := len(m.Verts)
	ownerCell := make([]int, nv)
	for i := range ownerCell {
		ownerCell[i] = -1
	}
	for _, c := range m.Cells {
		for _, v := range c.Verts {
			if ownerCell[v] < 0 || c.Id < ownerCell[v] {
				ownerCell[v] = c.Id
			}
		}
	}
	o.nodeOwned = make([]bool, nv)
	for v, cid := range ownerCell {
		if cid >= 0 {
			o.nodeOwned[v] = m.Cells[cid].Owned()
		}
	}

	// offsets
	for p := 0; p < myrank; p++ {
		o.Offset += ownedCounts[p] * ndofPerNode
	}
	for _, c := range ownedCounts {
		o.NumGlobal += c * ndofPerNode
	}

	// contiguous numbering of owned nodes
	o.nodeRow = make([]int, nv*ndofPerNode)
	for i := range o.nodeRow {
		o.nodeRow[i] = -1
	}
	row := o.Offset
	for v := 0; v < nv; v++ {
		if !o.nodeOwned[v] {
			continue
		}
		for i := 0; i < ndofPerNode; i++ {
			o.nodeRow[v*ndofPerNode+i] = row
			row++
		}
	}
	o.NumOwned = row - o.Offset
	if o.NumOwned != ownedCounts[myrank]*ndofPerNode {
		return nil, chk.Err("owned-node-row count mismatch: numbered %d, announced %d", o.NumOwned, ownedCounts[myrank]*ndofPerNode)
	}

	// ghost node rows come from their owners
	if hx != nil {
		err = hx.ExchangeInts("nodeRow", o.nodeRow)
		if err != nil {
			return nil, chk.Err("ghost node row exchange failed:\n%v", err)
		}
	}
	return
}

// NodeRowSource derives, from a partitioned mesh, the owned-node count of
// every partition and the complete node-row table over all partitions,
// numbering each partition's owned nodes the way its own NodeDofManager
// does. The table seeds a LocalExchanger with the owner-side rows of the
// ghost nodes when all partitions live in one process.
func (o *Mesh) NodeRowSource(nparts, ndofPerNode, myrank int) (ownedCounts, rows []int, err error) {
	if nparts < 1 {
		return nil, nil, chk.Err("nparts must be >= 1")
	}
	if ndofPerNode < 1 {
		return nil, nil, chk.Err("ndofPerNode must be >= 1")
	}
	if myrank < 0 || myrank >= nparts {
		return nil, nil, chk.Err("myrank %d out of range (%d partitions)", myrank, nparts)
	}

	// lowest-id containing cell per node
	nv := len(o.Verts)
	ownerCell := make([]int, nv)
	for v := range ownerCell {
		ownerCell[v] = -1
	}
	for _, c := range o.Cells {
		for _, v := range c.Verts {
			if ownerCell[v] < 0 || c.Id < ownerCell[v] {
				ownerCell[v] = c.Id
			}
		}
	}

	// node owner partition from the owner cell's rank
	ownedCounts = make([]int, nparts)
	ownerPart := make([]int, nv)
	for v, cid := range ownerCell {
		ownerPart[v] = -1
		if cid < 0 {
			continue
		}
		p := o.Cells[cid].GhostRank
		if p < 0 {
			p = myrank
		}
		if p >= nparts {
			return nil, nil, chk.Err("cell %d carries ghost rank %d beyond %d partitions", cid, p, nparts)
		}
		ownerPart[v] = p
		ownedCounts[p]++
	}

	// number each partition's owned nodes in vertex order
	rows = make([]int, nv*ndofPerNode)
	for i := range rows {
		rows[i] = -1
	}
	offset := 0
	for p := 0; p < nparts; p++ {
		row := offset
		for v := 0; v < nv; v++ {
			if ownerPart[v] != p {
				continue
			}
			for i := 0; i < ndofPerNode; i++ {
				rows[v*ndofPerNode+i] = row
				row++
			}
		}
		offset += ownedCounts[p] * ndofPerNode
	}
	return
}

// Row returns the global row of (node v, component i)
func (o *NodeDofManager) Row(v, i int) int { return o.nodeRow[v*o.NdofPerNode+i] }

// NodeOwned tells whether node v is owned by this partition
func (o *NodeDofManager) NodeOwned(v int) bool { return o.nodeOwned[v] }

// OwnsRow tells whether a global row belongs to this partition
func (o *NodeDofManager) OwnsRow(row int) bool {
	return row >= o.Offset && row < o.Offset+o.NumOwned
}
