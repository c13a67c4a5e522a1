// Copyright 2016 The Geofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/num"
)

// ipAtNode returns the natural coordinates of vertex n as an integration point
func ipAtNode(shape *Shape, n int) (ip Ipoint) {
	ip.R = shape.NatCoords[0][n]
	if shape.Gndim > 1 {
		ip.S = shape.NatCoords[1][n]
	}
	if shape.Gndim > 2 {
		ip.T = shape.NatCoords[2][n]
	}
	return
}

// CheckShape checks that shape functions evaluate to 1.0 @ nodes
func CheckShape(tst *testing.T, shape *Shape, tol float64, verbose bool) {

	// loop over all vertices
	errS := 0.0
	for n := 0; n < shape.Nverts; n++ {

		// compute function @ vertex
		shape.Func(shape.S, shape.DSdR, ipAtNode(shape, n), false)

		// check
		if verbose {
			io.Pf("S = %v\n", shape.S)
		}
		for m := 0; m < shape.Nverts; m++ {
			if n == m {
				errS += math.Abs(shape.S[m] - 1.0)
			} else {
				errS += math.Abs(shape.S[m])
			}
		}
	}

	// error
	if errS > tol {
		tst.Errorf("%s failed with err = %g\n", shape.Type, errS)
		return
	}
}

// CheckShapeFace checks face shape functions @ face nodes
func CheckShapeFace(tst *testing.T, shape *Shape, tol float64, verbose bool) {

	// skip 1D shapes
	nfaces := len(shape.FaceLocalVerts)
	if nfaces == 0 {
		return
	}

	// loop over face vertices
	errS := 0.0
	for k := 0; k < nfaces; k++ {
		for n := range shape.FaceLocalVerts[k] {
			v := shape.FaceLocalVerts[k][n]

			// compute function @ vertex
			shape.Func(shape.S, shape.DSdR, ipAtNode(shape, v), false)

			// check
			if verbose {
				io.Pforan("S = %v\n", shape.S)
			}
			for m := range shape.FaceLocalVerts[k] {
				w := shape.FaceLocalVerts[k][m]
				if n == m {
					errS += math.Abs(shape.S[w] - 1.0)
				} else {
					errS += math.Abs(shape.S[w])
				}
			}
		}
	}

	// error
	if verbose {
		io.Pforan("%g\n", errS)
	}
	if errS > tol {
		tst.Errorf("%s failed with err = %g\n", shape.Type, errS)
		return
	}
}

// CheckDSdR checks dSdR derivatives of shape structures
func CheckDSdR(tst *testing.T, shape *Shape, ip Ipoint, tol float64, verbose bool) {

	// auxiliary
	S_tmp := make([]float64, shape.Nverts)
	r := []float64{ip.R, ip.S, ip.T}

	// analytical
	shape.Func(shape.S, shape.DSdR, ip, true)

	// numerical
	for n := 0; n < shape.Nverts; n++ {
		for i := 0; i < shape.Gndim; i++ {
			dSndRi, _ := num.DerivCentral(func(t float64, args ...interface{}) (Sn float64) {
				var q Ipoint
				q.R, q.S, q.T = r[0], r[1], r[2]
				switch i {
				case 0:
					q.R = t
				case 1:
					q.S = t
				case 2:
					q.T = t
				}
				shape.Func(S_tmp, nil, q, false)
				Sn = S_tmp[n]
				return
			}, r[i], 1e-1)
			if verbose {
				io.Pfgrey2("  dS%ddR%d @ %v = %v (num: %v)\n", n, i, r, shape.DSdR[n][i], dSndRi)
			}
			if math.Abs(shape.DSdR[n][i]-dSndRi) > tol {
				tst.Errorf("dS%ddR%d failed with err = %g\n", n, i, math.Abs(shape.DSdR[n][i]-dSndRi))
				return
			}
		}
	}
}
