// Copyright 2016 The Geofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package msh implements the mesh connectivity store: element-to-node,
// element-to-face and face-to-element maps, ghost ranks, partitioning
// and the degree-of-freedom manager
package msh

import (
	"encoding/json"
	"os"

	"github.com/cpmech/gosl/chk"
)

// Vert holds vertex data
type Vert struct {
	Id  int       `json:"i"` // id
	Tag int       `json:"t"` // tag
	C   []float64 `json:"c"` // coordinates (size==ndim)
}

// Cell holds cell data
type Cell struct {

	// input data
	Id    int    `json:"i"`    // id
	Tag   int    `json:"t"`    // tag
	Reg   int    `json:"r"`    // region index
	SubReg int   `json:"s"`    // sub-region index
	Type  string `json:"type"` // geometry type; e.g. "hex8", "qua4"
	Verts []int  `json:"v"`    // ordered vertex ids

	// derived
	GhostRank int   // negative => owned by this partition; >= 0 => owning partition
	Faces     []int // face ids of this cell (built by BuildConnectivity)
}

// Owned tells whether this cell is owned by the local partition
func (o *Cell) Owned() bool { return o.GhostRank < 0 }

// Mesh holds mesh data
type Mesh struct {

	// input data
	Ndim  int     `json:"ndim"`  // space dimension
	Verts []*Vert `json:"verts"` // vertices
	Cells []*Cell `json:"cells"` // cells

	// derived by BuildConnectivity
	Faces []*Face // all unique faces

	// derived: global-to-local maps per (region, sub-region) block
	blocks map[regsub][]int  // (reg,sub) => cell ids in block
	g2l    map[int]CellRef   // cell id => (reg, sub, local index)
}

// regsub identifies a (region, sub-region) pair
type regsub struct{ reg, sub int }

// CellRef locates a cell as a (region, sub-region, local element index) triple
type CellRef struct {
	Reg  int // region index
	Sub  int // sub-region index
	Elem int // local element index within the block
}

// Read reads a mesh (.msh JSON) file
func Read(mshfilepath string) (o *Mesh, err error) {
	b, rerr := os.ReadFile(mshfilepath)
	if rerr != nil {
		return nil, chk.Err("cannot read mesh file %q:\n%v", mshfilepath, rerr)
	}
	o = new(Mesh)
	if jerr := json.Unmarshal(b, o); jerr != nil {
		return nil, chk.Err("cannot unmarshal mesh file %q:\n%v", mshfilepath, jerr)
	}
	err = o.CheckAndDerive()
	return
}

// CheckAndDerive validates input data and computes derived maps.
// Must be called when a Mesh is built directly instead of read from file.
func (o *Mesh) CheckAndDerive() (err error) {
	if o.Ndim < 1 || o.Ndim > 3 {
		return chk.Err("ndim must be 1, 2 or 3. ndim=%d is invalid", o.Ndim)
	}
	nv := len(o.Verts)
	for i, v := range o.Verts {
		if v.Id != i {
			return chk.Err("vertex ids must be sequential: vertex at position %d has id %d", i, v.Id)
		}
	}
	for i, c := range o.Cells {
		if c.Id != i {
			return chk.Err("cell ids must be sequential: cell at position %d has id %d", i, c.Id)
		}
		c.GhostRank = -1
		for _, v := range c.Verts {
			if v < 0 || v >= nv {
				return chk.Err("cell %d references invalid vertex %d (nverts=%d)", c.Id, v, nv)
			}
		}
	}
	o.blocks = make(map[regsub][]int)
	o.g2l = make(map[int]CellRef)
	for _, c := range o.Cells {
		key := regsub{c.Reg, c.SubReg}
		o.g2l[c.Id] = CellRef{c.Reg, c.SubReg, len(o.blocks[key])}
		o.blocks[key] = append(o.blocks[key], c.Id)
	}
	return
}

// NumElements returns the total number of cells
func (o *Mesh) NumElements() int { return len(o.Cells) }

// ElemToNodes returns the ordered vertex ids of cell e
func (o *Mesh) ElemToNodes(e int) []int { return o.Cells[e].Verts }

// ElemToFaces returns the face ids of cell e
//  Note: BuildConnectivity must be called first
func (o *Mesh) ElemToFaces(e int) []int { return o.Cells[e].Faces }

// GhostRank returns the ghost rank of cell e (negative means locally owned)
func (o *Mesh) GhostRank(e int) int { return o.Cells[e].GhostRank }

// CellRefOf returns the (region, sub-region, local index) triple of a cell id
func (o *Mesh) CellRefOf(cid int) (ref CellRef, ok bool) {
	ref, ok = o.g2l[cid]
	return
}

// BlockCells returns the cell ids of a (region, sub-region) block
func (o *Mesh) BlockCells(reg, sub int) []int { return o.blocks[regsub{reg, sub}] }
