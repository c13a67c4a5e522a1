// Copyright 2016 The Geofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ana

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_column01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("column01. confined compression")

	var sol ConfinedColumn
	sol.Init(2.0, 1500, 0.25, 10)

	// M = 1500*0.75/(1.25*0.5) = 1800
	chk.Scalar(tst, "M", 1e-12, sol.M, 1800)

	sx, sy, sz := sol.Stress()
	chk.Scalar(tst, "sy", 1e-12, sy, -10)
	chk.Scalar(tst, "sx", 1e-12, sx, -10.0/3.0)
	chk.Scalar(tst, "sz", 1e-12, sz, sx)

	chk.Scalar(tst, "uy(0)", 1e-15, sol.Uy(0), 0)
	chk.Scalar(tst, "uy(H)", 1e-15, sol.Uy(2), -20.0/1800.0)
}

func Test_column02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("column02. steady seepage profile")

	var sol SeepColumn
	sol.Init(4.0, 2.0, 100, 300)

	chk.Scalar(tst, "p(0)", 1e-15, sol.P(0), 300)
	chk.Scalar(tst, "p(H)", 1e-15, sol.P(4), 100)
	chk.Scalar(tst, "p(H/2)", 1e-15, sol.P(2), 200)
	chk.Scalar(tst, "flux", 1e-15, sol.Flux(), 100)
}
