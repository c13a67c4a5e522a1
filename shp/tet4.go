// Copyright 2016 The Geofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

// shape function of tet4 (4-node tetrahedron)
//
//                 t
//                 3
//                /|\
//               / | \
//              /  |  \
//             0---+---2--s
//              \  |  /
//               \ | /
//                \|/
//                 1
//                 r
//
func init() {
	var tet4 Shape
	tet4.Type = "tet4"
	tet4.FaceType = "tri3"
	tet4.Gndim = 3
	tet4.Nverts = 4
	tet4.FaceNvertsMax = 3
	tet4.FaceLocalVerts = [][]int{{0, 1, 3}, {1, 2, 3}, {2, 0, 3}, {0, 2, 1}}
	tet4.NatCoords = [][]float64{
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
	tet4.Func = func(S []float64, dSdR [][]float64, ip Ipoint, derivs bool) {
		r, s, t := ip.R, ip.S, ip.T
		S[0] = 1.0 - r - s - t
		S[1] = r
		S[2] = s
		S[3] = t
		if !derivs {
			return
		}
		dSdR[0][0] = -1.0
		dSdR[0][1] = -1.0
		dSdR[0][2] = -1.0
		dSdR[1][0] = 1.0
		dSdR[1][1] = 0.0
		dSdR[1][2] = 0.0
		dSdR[2][0] = 0.0
		dSdR[2][1] = 1.0
		dSdR[2][2] = 0.0
		dSdR[3][0] = 0.0
		dSdR[3][1] = 0.0
		dSdR[3][2] = 1.0
	}
	tet4.init_scratchpad()
	tet4.FaceFunc = func(S []float64, dSdR [][]float64, ip Ipoint, derivs bool) {
		factory["tri3"].Func(S, dSdR, ip, derivs)
	}
	factory["tet4"] = &tet4
}
