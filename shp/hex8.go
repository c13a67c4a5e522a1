// Copyright 2016 The Geofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

// shape function of hex8 (8-node hexahedron)
//
//           4________________7
//         ,'|              ,'|
//       ,'  |   t        ,'  |
//     ,'    |   |      ,'    |
//   5'______|___|____6'      |
//   |       |   |    |       |
//   |       |   +----|---s   |
//   |       0__/_____|_______3
//   |     ,'  /      |     ,'
//   |   ,'   r       |   ,'
//   | ,'             | ,'
//   1________________2'
//
func init() {
	var hex8 Shape
	hex8.Type = "hex8"
	hex8.FaceType = "qua4"
	hex8.Gndim = 3
	hex8.Nverts = 8
	hex8.FaceNvertsMax = 4
	hex8.FaceLocalVerts = [][]int{
		{0, 4, 7, 3}, {1, 2, 6, 5},
		{0, 1, 5, 4}, {2, 3, 7, 6},
		{0, 3, 2, 1}, {4, 5, 6, 7},
	}
	hex8.NatCoords = [][]float64{
		{-1, 1, 1, -1, -1, 1, 1, -1},
		{-1, -1, 1, 1, -1, -1, 1, 1},
		{-1, -1, -1, -1, 1, 1, 1, 1},
	}
	hex8.Func = func(S []float64, dSdR [][]float64, ip Ipoint, derivs bool) {
		r, s, t := ip.R, ip.S, ip.T
		S[0] = 0.125 * (1.0 - r) * (1.0 - s) * (1.0 - t)
		S[1] = 0.125 * (1.0 + r) * (1.0 - s) * (1.0 - t)
		S[2] = 0.125 * (1.0 + r) * (1.0 + s) * (1.0 - t)
		S[3] = 0.125 * (1.0 - r) * (1.0 + s) * (1.0 - t)
		S[4] = 0.125 * (1.0 - r) * (1.0 - s) * (1.0 + t)
		S[5] = 0.125 * (1.0 + r) * (1.0 - s) * (1.0 + t)
		S[6] = 0.125 * (1.0 + r) * (1.0 + s) * (1.0 + t)
		S[7] = 0.125 * (1.0 - r) * (1.0 + s) * (1.0 + t)
		if !derivs {
			return
		}
		dSdR[0][0] = -0.125 * (1.0 - s) * (1.0 - t)
		dSdR[0][1] = -0.125 * (1.0 - r) * (1.0 - t)
		dSdR[0][2] = -0.125 * (1.0 - r) * (1.0 - s)
		dSdR[1][0] = 0.125 * (1.0 - s) * (1.0 - t)
		dSdR[1][1] = -0.125 * (1.0 + r) * (1.0 - t)
		dSdR[1][2] = -0.125 * (1.0 + r) * (1.0 - s)
		dSdR[2][0] = 0.125 * (1.0 + s) * (1.0 - t)
		dSdR[2][1] = 0.125 * (1.0 + r) * (1.0 - t)
		dSdR[2][2] = -0.125 * (1.0 + r) * (1.0 + s)
		dSdR[3][0] = -0.125 * (1.0 + s) * (1.0 - t)
		dSdR[3][1] = 0.125 * (1.0 - r) * (1.0 - t)
		dSdR[3][2] = -0.125 * (1.0 - r) * (1.0 + s)
		dSdR[4][0] = -0.125 * (1.0 - s) * (1.0 + t)
		dSdR[4][1] = -0.125 * (1.0 - r) * (1.0 + t)
		dSdR[4][2] = 0.125 * (1.0 - r) * (1.0 - s)
		dSdR[5][0] = 0.125 * (1.0 - s) * (1.0 + t)
		dSdR[5][1] = -0.125 * (1.0 + r) * (1.0 + t)
		dSdR[5][2] = 0.125 * (1.0 + r) * (1.0 - s)
		dSdR[6][0] = 0.125 * (1.0 + s) * (1.0 + t)
		dSdR[6][1] = 0.125 * (1.0 + r) * (1.0 + t)
		dSdR[6][2] = 0.125 * (1.0 + r) * (1.0 + s)
		dSdR[7][0] = -0.125 * (1.0 + s) * (1.0 + t)
		dSdR[7][1] = 0.125 * (1.0 - r) * (1.0 + t)
		dSdR[7][2] = 0.125 * (1.0 - r) * (1.0 + s)
	}
	hex8.init_scratchpad()
	hex8.FaceFunc = func(S []float64, dSdR [][]float64, ip Ipoint, derivs bool) {
		factory["qua4"].Func(S, dSdR, ip, derivs)
	}
	factory["hex8"] = &hex8
}
