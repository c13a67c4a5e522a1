// Copyright 2016 The Geofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

// shape function of qua4 (4-node quadrilateral)
//
//    3-----------2
//    |     s     |
//    |     |     |
//    |     +--r  |
//    |           |
//    |           |
//    0-----------1
//
func init() {
	var qua4 Shape
	qua4.Type = "qua4"
	qua4.FaceType = "lin2"
	qua4.Gndim = 2
	qua4.Nverts = 4
	qua4.FaceNvertsMax = 2
	qua4.FaceLocalVerts = [][]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}}
	qua4.NatCoords = [][]float64{
		{-1, 1, 1, -1},
		{-1, -1, 1, 1},
	}
	qua4.Func = func(S []float64, dSdR [][]float64, ip Ipoint, derivs bool) {
		r, s := ip.R, ip.S
		S[0] = 0.25 * (1.0 - r) * (1.0 - s)
		S[1] = 0.25 * (1.0 + r) * (1.0 - s)
		S[2] = 0.25 * (1.0 + r) * (1.0 + s)
		S[3] = 0.25 * (1.0 - r) * (1.0 + s)
		if !derivs {
			return
		}
		dSdR[0][0] = -0.25 * (1.0 - s)
		dSdR[0][1] = -0.25 * (1.0 - r)
		dSdR[1][0] = 0.25 * (1.0 - s)
		dSdR[1][1] = -0.25 * (1.0 + r)
		dSdR[2][0] = 0.25 * (1.0 + s)
		dSdR[2][1] = 0.25 * (1.0 + r)
		dSdR[3][0] = -0.25 * (1.0 + s)
		dSdR[3][1] = 0.25 * (1.0 - r)
	}
	qua4.init_scratchpad()
	qua4.FaceFunc = func(S []float64, dSdR [][]float64, ip Ipoint, derivs bool) {
		factory["lin2"].Func(S, dSdR, ip, derivs)
	}
	factory["qua4"] = &qua4
}
