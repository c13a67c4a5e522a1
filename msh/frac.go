// Copyright 2016 The Geofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msh

import (
	"github.com/cpmech/gosl/chk"
)

// CollocatedNodes holds the many-to-many relation between duplicated
// ("collocated") node sets along an embedded fracture surface. Index i gives
// all global node ids collocated with node i of the 2D face block.
type CollocatedNodes [][]int

// All returns the bucket for 2D-block node i, including i's own global id
func (o CollocatedNodes) All(i int) []int { return o[i] }

// FaceBlock holds a block of 2D elements describing an embedded fracture
// surface inside a 3D mesh
type FaceBlock struct {
	Name       string  // block name
	Elems2d    [][]int // [n2delems] node ids (2D-block local) of each 2D element
	Collocated CollocatedNodes
}

// Frac2dTo3d holds the resolved adjacency of 2D fracture elements to their
// two 3D neighbor cells
type Frac2dTo3d struct {
	Elem2dToCells [][2]CellRef // [n2delems] neighbor triples; Elem == -1 when unresolved
	NumDropped    int          // ambiguous partial matches silently dropped
}

// BuildFracAdjacency resolves the 2D-element-to-3D-element adjacency of an
// embedded fracture block. For each 2D element, the set of collocated global
// nodes is intersected with every candidate cell's vertex set; a cell is
// accepted as neighbor only when the number of shared nodes equals the cell's
// face vertex count exactly. Partial matches are dropped and counted.
//
// The behavior for meshes where partial matches are common is undefined;
// there is no tie-break rule (see DESIGN.md).
func (o *Mesh) BuildFracAdjacency(fb *FaceBlock) (res *Frac2dTo3d, err error) {

	// node -> cells touching it
	node2cells := make(map[int][]int)
	for _, c := range o.Cells {
		for _, v := range c.Verts {
			node2cells[v] = append(node2cells[v], c.Id)
		}
	}

	res = &Frac2dTo3d{Elem2dToCells: make([][2]CellRef, len(fb.Elems2d))}
	for e2d, nodes2d := range fb.Elems2d {

		// bucket of all collocated global nodes of this 2D element
		bucket := make(map[int]bool)
		for _, n := range nodes2d {
			if n < 0 || n >= len(fb.Collocated) {
				return nil, chk.Err("face block %q: 2d element %d references node %d outside the collocation relation", fb.Name, e2d, n)
			}
			for _, g := range fb.Collocated.All(n) {
				bucket[g] = true
			}
		}

		// candidate cells and their shared-node counts
		counts := make(map[int]int)
		for g := range bucket {
			for _, cid := range node2cells[g] {
				counts[cid]++
			}
		}

		// accept only exact matches of the expected face node count
		res.Elem2dToCells[e2d] = [2]CellRef{{-1, -1, -1}, {-1, -1, -1}}
		expected := len(nodes2d)
		nset := 0
		for cid, cnt := range counts {
			if cnt != expected {
				if cnt > expected/2 {
					res.NumDropped++
				}
				continue
			}
			if nset >= 2 {
				return nil, chk.Err("face block %q: 2d element %d matches more than two 3d cells", fb.Name, e2d)
			}
			res.Elem2dToCells[e2d][nset] = o.g2l[cid]
			nset++
		}
	}
	return
}

// BuildElem2dToEdges derives, for each 2D element of a fracture block, the
// list of its edge ids; edges are shared pairs of (collocation-bucket) nodes
func (o *Mesh) BuildElem2dToEdges(fb *FaceBlock) (elem2dToEdges [][]int) {
	type edge struct{ a, b int }
	edgeIds := make(map[edge]int)
	elem2dToEdges = make([][]int, len(fb.Elems2d))
	for e2d, nodes2d := range fb.Elems2d {
		n := len(nodes2d)
		for i := 0; i < n; i++ {
			a, b := nodes2d[i], nodes2d[(i+1)%n]
			if a > b {
				a, b = b, a
			}
			key := edge{a, b}
			id, ok := edgeIds[key]
			if !ok {
				id = len(edgeIds)
				edgeIds[key] = id
			}
			elem2dToEdges[e2d] = append(elem2dToEdges[e2d], id)
		}
	}
	return
}
