// Copyright 2016 The Geofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mdl

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/num"
)

func Test_twophase01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("twophase01. derivatives")

	mdl, err := NewTwoPhase(map[string]float64{
		"rhoW": 1000, "rhoN": 800,
		"Cw": 1e-6, "Cn": 1e-5,
		"muW": 1e-3, "muN": 5e-3,
		"srW": 0.1, "srN": 0.05,
		"nW": 2, "nN": 2,
		"pe": 5000,
	})
	if err != nil {
		tst.Errorf("NewTwoPhase failed:\n%v", err)
		return
	}
	chk.IntAssert(mdl.NumPhases(), 2)
	chk.IntAssert(mdl.NumComps(), 2)

	p, s := 1e5, 0.6
	tol := 1e-6

	for i := 0; i < 2; i++ {

		// density derivative w.r.t pressure
		_, dRhoDp, err := mdl.MassDens(i, p)
		if err != nil {
			tst.Errorf("MassDens failed:\n%v", err)
			return
		}
		dnum, _ := num.DerivCentral(func(t float64, args ...interface{}) float64 {
			rho, _, _ := mdl.MassDens(i, t)
			return rho
		}, p, 1e-1)
		chk.Scalar(tst, io.Sf("dρ%dDp", i), tol, dRhoDp, dnum)

		// mobility derivatives
		_, dMobDp, dMobDs, err := mdl.Mobility(i, p, s)
		if err != nil {
			tst.Errorf("Mobility failed:\n%v", err)
			return
		}
		dnum, _ = num.DerivCentral(func(t float64, args ...interface{}) float64 {
			mob, _, _, _ := mdl.Mobility(i, t, s)
			return mob
		}, p, 1e-1)
		chk.Scalar(tst, io.Sf("dλ%dDp", i), tol, dMobDp, dnum)
		dnum, _ = num.DerivCentral(func(t float64, args ...interface{}) float64 {
			mob, _, _, _ := mdl.Mobility(i, p, t)
			return mob
		}, s, 1e-3)
		chk.Scalar(tst, io.Sf("dλ%dDs", i), 1e-3, dMobDs, dnum)
	}

	// capillary pressure derivative
	_, dPcDs := mdl.CapPres(s)
	dnum, _ := num.DerivCentral(func(t float64, args ...interface{}) float64 {
		pc, _ := mdl.CapPres(t)
		return pc
	}, s, 1e-3)
	chk.Scalar(tst, "dpcDs", 1e-6, dPcDs, dnum)
}

func Test_twophase02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("twophase02. bounds and failures")

	mdl, err := NewTwoPhase(map[string]float64{"srW": 0.1, "srN": 0.05})
	if err != nil {
		tst.Errorf("NewTwoPhase failed:\n%v", err)
		return
	}

	// relperm bounds at residual saturations
	krW, dKrW := mdl.RelPerm(0, mdl.SrW)
	chk.Scalar(tst, "krW @ srW", 1e-15, krW, 0)
	chk.Scalar(tst, "dkrWds @ srW", 1e-15, dKrW, 0)
	krN, _ := mdl.RelPerm(1, 1.0-mdl.SrN)
	chk.Scalar(tst, "krN @ 1-srN", 1e-15, krN, 0)

	// monotone in between
	krlo, _ := mdl.RelPerm(0, 0.4)
	krhi, _ := mdl.RelPerm(0, 0.7)
	if krhi <= krlo {
		tst.Errorf("krW must increase with s: kr(0.4)=%g kr(0.7)=%g\n", krlo, krhi)
	}

	// immiscible phase composition
	for i := 0; i < 2; i++ {
		sum := 0.0
		for c := 0; c < 2; c++ {
			sum += mdl.PhaseCompFrac(i, c)
		}
		chk.Scalar(tst, io.Sf("Σc x[%d][c]", i), 1e-17, sum, 1)
	}

	// negative density must be reported
	_, _, err = mdl.MassDens(0, -2.0/mdl.Cw)
	if err == nil {
		tst.Errorf("non-positive density must fail\n")
	}

	// invalid parameter sets
	if _, err := NewTwoPhase(map[string]float64{"srW": 0.6, "srN": 0.5}); err == nil {
		tst.Errorf("srW+srN >= 1 must fail\n")
	}
	if _, err := NewTwoPhase(map[string]float64{"bogus": 1}); err == nil {
		tst.Errorf("unknown parameter must fail\n")
	}
	if _, err := NewTwoPhase(map[string]float64{"muW": -1}); err == nil {
		tst.Errorf("negative viscosity must fail\n")
	}

	// capillary pressure vanishes at full wetting saturation
	pc, _ := mdl.CapPres(1.0)
	if math.Abs(pc) > 1e-15 {
		tst.Errorf("pc(se=1) = %g should be zero\n", pc)
	}
}
