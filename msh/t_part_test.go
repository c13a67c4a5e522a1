// Copyright 2016 The Geofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// column builds a 1 x n strip of qua4 cells
func column(n int) *Mesh {
	m := &Mesh{Ndim: 2}
	for i := 0; i <= n; i++ {
		x := float64(i)
		m.Verts = append(m.Verts,
			&Vert{Id: 2 * i, C: []float64{x, 0}},
			&Vert{Id: 2*i + 1, C: []float64{x, 1}},
		)
	}
	for e := 0; e < n; e++ {
		m.Cells = append(m.Cells, &Cell{
			Id: e, Type: "qua4",
			Verts: []int{2 * e, 2 * (e + 1), 2*(e+1) + 1, 2*e + 1},
		})
	}
	if err := m.CheckAndDerive(); err != nil {
		panic(err)
	}
	return m
}

func TestPartitionBlock(t *testing.T) {
	m := column(8)
	require.NoError(t, m.BuildConnectivity())

	pb := &Partitioner{Mesh: m, Np: 2, Strategy: BlockPartition}
	eToP, err := pb.Partition()
	require.NoError(t, err)
	require.Len(t, eToP, 8)

	counts := map[int]int{}
	for _, p := range eToP {
		counts[p]++
	}
	assert.Equal(t, 4, counts[0])
	assert.Equal(t, 4, counts[1])
}

func TestPartitionGraph(t *testing.T) {
	m := column(9)
	require.NoError(t, m.BuildConnectivity())

	pb := &Partitioner{Mesh: m, Np: 3, Strategy: GraphPartition}
	eToP, err := pb.Partition()
	require.NoError(t, err)

	// every cell assigned
	for e, p := range eToP {
		assert.GreaterOrEqual(t, p, 0, "cell %d unassigned", e)
		assert.Less(t, p, 3)
	}
}

func TestGhostRanks(t *testing.T) {
	m := column(4)
	require.NoError(t, m.BuildConnectivity())

	eToP := []int{0, 0, 1, 1}
	require.NoError(t, m.ApplyPartition(eToP, 0))

	assert.True(t, m.Cells[0].Owned())
	assert.True(t, m.Cells[1].Owned())
	assert.False(t, m.Cells[2].Owned())
	assert.Equal(t, 1, m.GhostRank(2))
	assert.Equal(t, -1, m.GhostRank(1))

	// halo of rank 0 is cell 2 (face neighbor of owned cell 1)
	halo := m.HaloCells(0)
	assert.Equal(t, []int{2}, halo)

	// the face between cells 1 and 2 is a ghost face
	ghostFaces := 0
	for _, f := range m.Faces {
		if f.Ghost {
			ghostFaces++
		}
	}
	assert.Greater(t, ghostFaces, 0)
}

func TestDofManagerPrefixSum(t *testing.T) {
	m := column(4)
	require.NoError(t, m.BuildConnectivity())
	require.NoError(t, m.ApplyPartition([]int{0, 0, 1, 1}, 1))

	// rank 1 owns cells 2,3; rank 0 announced 2 owned cells
	dm, err := NewDofManager(m, 1, []int{2, 2}, 1, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, dm.Offset)
	assert.Equal(t, 2, dm.NumOwned)
	assert.Equal(t, 4, dm.NumGlobal)

	// owned rows contiguous from the offset
	assert.Equal(t, 2, dm.Row(2, 0))
	assert.Equal(t, 3, dm.Row(3, 0))

	// ghost rows unset without an exchanger
	assert.Equal(t, -1, dm.Row(0, 0))
	assert.Equal(t, -1, dm.Row(1, 0))

	assert.True(t, dm.OwnsRow(2))
	assert.False(t, dm.OwnsRow(1))
}

func TestDofManagerGhostSync(t *testing.T) {
	m := column(4)
	require.NoError(t, m.BuildConnectivity())
	require.NoError(t, m.ApplyPartition([]int{0, 0, 1, 1}, 1))

	// owner-side rows as rank 0 would have numbered them
	hx := NewLocalExchanger()
	hx.SetSource("elemRow", []int{0, 1, -1, -1})

	dm, err := NewDofManager(m, 1, []int{2, 2}, 1, hx)
	require.NoError(t, err)

	// ghost cells now mirror the owner's rows, never locally fabricated ones
	assert.Equal(t, 0, dm.Row(0, 0))
	assert.Equal(t, 1, dm.Row(1, 0))
	assert.False(t, dm.OwnsRow(0))
}

func TestNodeRowSource(t *testing.T) {
	m := column(4)
	require.NoError(t, m.BuildConnectivity())
	require.NoError(t, m.ApplyPartition([]int{0, 0, 1, 1}, 0))

	counts, rows, err := m.NodeRowSource(2, 1, 0)
	require.NoError(t, err)

	// nodes 0..5 have their lowest-id cell in rank 0; nodes 6..9 in rank 1
	assert.Equal(t, []int{6, 4}, counts)
	for v := 0; v < 10; v++ {
		assert.Equal(t, v, rows[v], "node %d", v)
	}

	// counts and rows plug straight into the rank-0 DOF manager: the
	// announced owned count matches the numbered one and the ghost rows
	// mirror their owners
	hx := NewLocalExchanger()
	hx.SetSource("nodeRow", rows)
	dm, err := NewNodeDofManager(m, 1, counts, 0, hx)
	require.NoError(t, err)
	assert.Equal(t, 6, dm.NumOwned)
	assert.Equal(t, 10, dm.NumGlobal)
	assert.Equal(t, 7, dm.Row(7, 0))
	assert.False(t, dm.OwnsRow(7))

	// announcing every node as rank-0-owned is exactly what must fail here
	_, err = NewNodeDofManager(m, 1, []int{10, 0}, 0, nil)
	assert.Error(t, err)

	// bad inputs
	_, _, err = m.NodeRowSource(0, 1, 0)
	assert.Error(t, err)
	_, _, err = m.NodeRowSource(2, 1, 2)
	assert.Error(t, err)
}

func TestNodeDofManager(t *testing.T) {
	m := column(2)
	require.NoError(t, m.BuildConnectivity())
	require.NoError(t, m.ApplyPartition([]int{0, 0}, 0))

	// single partition owns every node: 6 nodes x 2 dofs
	dm, err := NewNodeDofManager(m, 2, []int{6}, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, 12, dm.NumOwned)
	assert.Equal(t, 12, dm.NumGlobal)
	assert.Equal(t, 0, dm.Offset)

	seen := map[int]bool{}
	for v := 0; v < 6; v++ {
		require.True(t, dm.NodeOwned(v))
		for i := 0; i < 2; i++ {
			r := dm.Row(v, i)
			assert.False(t, seen[r], "row %d assigned twice", r)
			seen[r] = true
			assert.True(t, dm.OwnsRow(r))
		}
	}
}
