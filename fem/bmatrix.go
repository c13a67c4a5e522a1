// Copyright 2016 The Geofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"github.com/cpmech/gosl/tsr"
)

// IpBmatrix computes the strain-displacement matrix B in Mandel notation:
//  ε = B * u  with  ε = {εxx, εyy, εzz, εxy*√2, εyz*√2, εzx*√2}
// 2D means plane strain: row 2 (εzz) is left zeroed.
//  Input:
//   ndim   -- space dimension
//   nverts -- number of vertices
//   G      -- [nverts][ndim] shape function gradients at the point
//  Output:
//   B      -- [nsig][ndim*nverts] with nsig = 2*ndim
func IpBmatrix(B [][]float64, ndim, nverts int, G [][]float64) {
	if ndim == 3 {
		for m := 0; m < nverts; m++ {
			B[0][0+m*3] = G[m][0]
			B[1][1+m*3] = G[m][1]
			B[2][2+m*3] = G[m][2]
			B[3][0+m*3] = G[m][1] / tsr.SQ2
			B[3][1+m*3] = G[m][0] / tsr.SQ2
			B[4][1+m*3] = G[m][2] / tsr.SQ2
			B[4][2+m*3] = G[m][1] / tsr.SQ2
			B[5][0+m*3] = G[m][2] / tsr.SQ2
			B[5][2+m*3] = G[m][0] / tsr.SQ2
		}
		return
	}
	for m := 0; m < nverts; m++ {
		B[0][0+m*2] = G[m][0]
		B[1][1+m*2] = G[m][1]
		B[3][0+m*2] = G[m][1] / tsr.SQ2
		B[3][1+m*2] = G[m][0] / tsr.SQ2
	}
}
