// Copyright 2016 The Geofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msh

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/cpmech/gosl/chk"
)

// Face holds a unique geometric face shared by at most two cells.
// Neighbor 0 is always set; a missing second neighbor is encoded with
// Elem == -1 in Cells[1]. The normal points from neighbor 0 to neighbor 1.
type Face struct {
	Id       int        // id
	Verts    []int      // ordered vertex ids
	Cells    [2]CellRef // neighbor (region, sub-region, element) triples
	Gamma    [2]float64 // geometric connection factor (area over distance) per neighbor side
	Normal   []float64  // unit normal, oriented from neighbor 0 to neighbor 1
	Boundary bool       // true if only one neighbor exists
	Ghost    bool       // true if any neighbor cell is a ghost
}

// faceLocalVerts maps cell geometry type to the local vertex indices of each face
var faceLocalVerts = map[string][][]int{
	"lin2": {{0}, {1}},
	"qua4": {{0, 1}, {1, 2}, {2, 3}, {3, 0}},
	"tet4": {{0, 1, 3}, {1, 2, 3}, {2, 0, 3}, {0, 2, 1}},
	"hex8": {
		{0, 4, 7, 3}, {1, 2, 6, 5},
		{0, 1, 5, 4}, {2, 3, 7, 6},
		{0, 3, 2, 1}, {4, 5, 6, 7},
	},
}

// faceKey builds an order-independent key from a set of vertex ids
func faceKey(verts []int) string {
	s := make([]int, len(verts))
	copy(s, verts)
	sort.Ints(s)
	var b strings.Builder
	for _, v := range s {
		b.WriteString(strconv.Itoa(v))
		b.WriteByte(':')
	}
	return b.String()
}

// BuildConnectivity derives the face-to-element and element-to-face maps by
// matching shared vertex sets across cells. Read-only afterwards.
func (o *Mesh) BuildConnectivity() (err error) {

	// collect faces
	o.Faces = o.Faces[:0]
	key2face := make(map[string]int)
	for _, c := range o.Cells {
		flv, ok := faceLocalVerts[c.Type]
		if !ok {
			return chk.Err("cell type %q is not available for connectivity", c.Type)
		}
		ref, refok := o.g2l[c.Id]
		if !refok {
			return chk.Err("cell %d has no (region, sub-region) reference", c.Id)
		}
		c.Faces = make([]int, len(flv))
		for i, lv := range flv {
			verts := make([]int, len(lv))
			for j, l := range lv {
				verts[j] = c.Verts[l]
			}
			key := faceKey(verts)
			fid, seen := key2face[key]
			if !seen {
				f := &Face{Id: len(o.Faces), Verts: verts, Boundary: true}
				f.Cells[0] = ref
				f.Cells[1] = CellRef{-1, -1, -1}
				key2face[key] = f.Id
				o.Faces = append(o.Faces, f)
				fid = f.Id
			} else {
				f := o.Faces[fid]
				if f.Cells[1].Elem >= 0 {
					return chk.Err("face %d is shared by more than two cells", fid)
				}
				f.Cells[1] = ref
				f.Boundary = false
			}
			c.Faces[i] = fid
		}
	}

	// geometric factors and normals
	for _, f := range o.Faces {
		err = o.calcFaceGeometry(f)
		if err != nil {
			return
		}
	}
	return
}

// FaceToElems returns the neighbor triples of face f. The second triple has
// Elem == -1 for boundary faces.
func (o *Mesh) FaceToElems(f int) [2]CellRef { return o.Faces[f].Cells }

// cellCentroid computes the centroid of a cell
func (o *Mesh) cellCentroid(c *Cell) []float64 {
	x := make([]float64, o.Ndim)
	for _, v := range c.Verts {
		for i := 0; i < o.Ndim; i++ {
			x[i] += o.Verts[v].C[i]
		}
	}
	for i := 0; i < o.Ndim; i++ {
		x[i] /= float64(len(c.Verts))
	}
	return x
}

// faceCentroid computes the centroid of a face
func (o *Mesh) faceCentroid(f *Face) []float64 {
	x := make([]float64, o.Ndim)
	for _, v := range f.Verts {
		for i := 0; i < o.Ndim; i++ {
			x[i] += o.Verts[v].C[i]
		}
	}
	for i := 0; i < o.Ndim; i++ {
		x[i] /= float64(len(f.Verts))
	}
	return x
}

// faceArea computes the measure of a face: length in 2D, area in 3D, 1 in 1D
func (o *Mesh) faceArea(f *Face) float64 {
	switch o.Ndim {
	case 1:
		return 1.0
	case 2:
		a := o.Verts[f.Verts[0]].C
		b := o.Verts[f.Verts[1]].C
		dx := b[0] - a[0]
		dy := b[1] - a[1]
		return math.Sqrt(dx*dx + dy*dy)
	}
	// 3D: fan triangulation about the first vertex
	area := 0.0
	a := o.Verts[f.Verts[0]].C
	for i := 1; i < len(f.Verts)-1; i++ {
		b := o.Verts[f.Verts[i]].C
		c := o.Verts[f.Verts[i+1]].C
		ux, uy, uz := b[0]-a[0], b[1]-a[1], b[2]-a[2]
		vx, vy, vz := c[0]-a[0], c[1]-a[1], c[2]-a[2]
		cx := uy*vz - uz*vy
		cy := uz*vx - ux*vz
		cz := ux*vy - uy*vx
		area += 0.5 * math.Sqrt(cx*cx+cy*cy+cz*cz)
	}
	return area
}

// calcFaceGeometry computes the per-side connection factors (area over
// centroid distance) and the unit normal oriented from neighbor 0 to 1
func (o *Mesh) calcFaceGeometry(f *Face) (err error) {
	area := o.faceArea(f)
	xf := o.faceCentroid(f)

	cid0 := o.blocks[regsub{f.Cells[0].Reg, f.Cells[0].Sub}][f.Cells[0].Elem]
	x0 := o.cellCentroid(o.Cells[cid0])

	// normal: from cell 0 towards the face (and on to cell 1 when it exists)
	f.Normal = make([]float64, o.Ndim)
	var target []float64
	if f.Cells[1].Elem >= 0 {
		cid1 := o.blocks[regsub{f.Cells[1].Reg, f.Cells[1].Sub}][f.Cells[1].Elem]
		target = o.cellCentroid(o.Cells[cid1])
	} else {
		target = xf
	}
	norm := 0.0
	for i := 0; i < o.Ndim; i++ {
		f.Normal[i] = target[i] - x0[i]
		norm += f.Normal[i] * f.Normal[i]
	}
	norm = math.Sqrt(norm)
	if norm < 1e-14 {
		return chk.Err("face %d has coincident neighbor centroids", f.Id)
	}
	for i := 0; i < o.Ndim; i++ {
		f.Normal[i] /= norm
	}

	// one connection factor per neighbor side
	f.Gamma[0] = area / dist(x0, xf)
	if f.Cells[1].Elem >= 0 {
		cid1 := o.blocks[regsub{f.Cells[1].Reg, f.Cells[1].Sub}][f.Cells[1].Elem]
		x1 := o.cellCentroid(o.Cells[cid1])
		f.Gamma[1] = area / dist(x1, xf)
	}
	return
}

func dist(a, b []float64) float64 {
	s := 0.0
	for i := 0; i < len(a); i++ {
		d := b[i] - a[i]
		s += d * d
	}
	return math.Sqrt(s)
}
