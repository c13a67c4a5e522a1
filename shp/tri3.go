// Copyright 2016 The Geofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

// shape function of tri3 (3-node triangle)
//
//    2
//    | \
//    s   \
//    |     \
//    0---r---1
//
func init() {
	var tri3 Shape
	tri3.Type = "tri3"
	tri3.FaceType = "lin2"
	tri3.Gndim = 2
	tri3.Nverts = 3
	tri3.FaceNvertsMax = 2
	tri3.FaceLocalVerts = [][]int{{0, 1}, {1, 2}, {2, 0}}
	tri3.NatCoords = [][]float64{
		{0, 1, 0},
		{0, 0, 1},
	}
	tri3.Func = func(S []float64, dSdR [][]float64, ip Ipoint, derivs bool) {
		r, s := ip.R, ip.S
		S[0] = 1.0 - r - s
		S[1] = r
		S[2] = s
		if !derivs {
			return
		}
		dSdR[0][0] = -1.0
		dSdR[0][1] = -1.0
		dSdR[1][0] = 1.0
		dSdR[1][1] = 0.0
		dSdR[2][0] = 0.0
		dSdR[2][1] = 1.0
	}
	tri3.init_scratchpad()
	tri3.FaceFunc = func(S []float64, dSdR [][]float64, ip Ipoint, derivs bool) {
		factory["lin2"].Func(S, dSdR, ip, derivs)
	}
	factory["tri3"] = &tri3
}
