// Copyright 2016 The Geofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func verbose() {
	chk.Verbose = true
}

func Test_shape01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("shape01")

	verb := false
	for name, shape := range factory {

		io.Pfyel("--------------------------------- %-6s---------------------------------\n", name)

		// check S
		tol := 1e-17
		CheckShape(tst, shape, tol, verb)

		// check Sf
		tol = 1e-18
		CheckShapeFace(tst, shape, tol, verb)

		// check dSdR
		tol = 1e-14
		CheckDSdR(tst, shape, Ipoint{0, 0, 0, 0}, tol, verb)
		if shape.Type == "tet4" || shape.Type == "tri3" {
			CheckDSdR(tst, shape, Ipoint{0.25, 0.25, 0.25, 0}, tol, verb)
		}

		io.PfGreen("OK\n")
	}
}

func Test_shape02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("shape02. Jacobian of stretched qua4")

	// 3 x 1 rectangle => J = (dx/dr)*(dy/ds) = (3/2)*(1/2)
	xmat := [][]float64{
		{10, 13, 13, 10},
		{8, 8, 9, 9},
	}
	dx, dy := 3.0, 1.0
	dr, ds := 2.0, 2.0
	shape := factory["qua4"]
	err := shape.CalcAtIp(xmat, Ipoint{0, 0, 0, 0}, true)
	if err != nil {
		tst.Errorf("CalcAtIp failed:\n%v", err)
		return
	}
	io.Pforan("J = %v\n", shape.J)
	chk.Scalar(tst, "J", 1e-17, shape.J, (dx/dr)*(dy/ds))

	// gradients sum to zero
	for j := 0; j < shape.Gndim; j++ {
		sum := 0.0
		for m := 0; m < shape.Nverts; m++ {
			sum += shape.G[m][j]
		}
		chk.Scalar(tst, io.Sf("sum(G[:][%d])", j), 1e-15, sum, 0)
	}
}

func Test_shape03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("shape03. degenerate element must fail")

	// all vertices collapsed onto a single point => zero Jacobian
	xmat := [][]float64{
		{1, 1, 1, 1},
		{2, 2, 2, 2},
	}
	shape := Get("qua4", 1)
	err := shape.CalcAtIp(xmat, Ipoint{0, 0, 0, 0}, true)
	if err == nil {
		tst.Errorf("CalcAtIp should have failed with degenerate element\n")
	}
}

func Test_shape04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("shape04. integration point tables")

	// weights of each table sum to the volume of the reference cell
	refvol := map[string]float64{
		"lin2": 2.0,
		"qua4": 4.0,
		"hex8": 8.0,
		"tri3": 0.5,
		"tet4": 1.0 / 6.0,
	}
	for geo, vol := range refvol {
		ips, err := GetIps(geo, 0)
		if err != nil {
			tst.Errorf("GetIps failed:\n%v", err)
			return
		}
		sum := 0.0
		for _, ip := range ips {
			sum += ip.W
		}
		chk.Scalar(tst, io.Sf("sum(W) %s", geo), 1e-15, sum, vol)
	}

	// unknown rule
	_, err := GetIps("qua4", 9)
	if err == nil {
		tst.Errorf("GetIps should have failed with nip=9\n")
	}
}

func Test_shape05(tst *testing.T) {

	//verbose()
	chk.PrintTitle("shape05. copies for concurrent use")

	s0 := Get("hex8", 0)
	s1 := Get("hex8", 1)
	if s0 == nil || s1 == nil {
		tst.Errorf("Get failed\n")
		return
	}
	if s0 == s1 {
		tst.Errorf("goroutineId > 0 must return a copy\n")
		return
	}
	chk.IntAssert(s1.Nverts, 8)
	chk.StrAssert(s1.FaceType, "qua4")

	// scratchpads must be independent
	s1.S[0] = 123.0
	if s0.S[0] == 123.0 {
		tst.Errorf("copy shares scratchpad with original\n")
	}

	// unknown type
	if Get("qua9", 0) != nil {
		tst.Errorf("Get should return nil for unknown type\n")
	}
	chk.IntAssert(GetNverts("tet4"), 4)
	chk.IntAssert(GetNverts("nonexistent"), -1)
}

func Test_shape06(tst *testing.T) {

	//verbose()
	chk.PrintTitle("shape06. face normal of hex8")

	// unit cube: face {1,2,6,5} lies on x=1 with outward normal +x
	xmat := [][]float64{
		{0, 1, 1, 0, 0, 1, 1, 0},
		{0, 0, 1, 1, 0, 0, 1, 1},
		{0, 0, 0, 0, 1, 1, 1, 1},
	}
	shape := Get("hex8", 1)
	err := shape.CalcAtFaceIp(xmat, Ipoint{0, 0, 0, 0}, 1)
	if err != nil {
		tst.Errorf("CalcAtFaceIp failed:\n%v", err)
		return
	}
	io.Pforan("Fnvec = %v\n", shape.Fnvec)
	chk.Scalar(tst, "Fnvec[0]", 1e-15, shape.Fnvec[0], 0.25)
	chk.Scalar(tst, "Fnvec[1]", 1e-15, shape.Fnvec[1], 0)
	chk.Scalar(tst, "Fnvec[2]", 1e-15, shape.Fnvec[2], 0)
}
