// Copyright 2016 The Geofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

// shape function of lin2 (2-node line)
//
//   -1     0    +1
//    0-----------1-->r
//
func init() {
	var lin2 Shape
	lin2.Type = "lin2"
	lin2.Gndim = 1
	lin2.Nverts = 2
	lin2.NatCoords = [][]float64{
		{-1, 1},
	}
	lin2.Func = func(S []float64, dSdR [][]float64, ip Ipoint, derivs bool) {
		r := ip.R
		S[0] = 0.5 * (1.0 - r)
		S[1] = 0.5 * (1.0 + r)
		if !derivs {
			return
		}
		dSdR[0][0] = -0.5
		dSdR[1][0] = 0.5
	}
	lin2.init_scratchpad()
	factory["lin2"] = &lin2
}
