// Copyright 2016 The Geofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// gp is the 1D Gauss point coordinate for 2-point rules
var gp = math.Sqrt(3.0) / 3.0

// integration point tables
var (
	// lin2: 2-point Gauss rule
	ipsLin2 = []Ipoint{
		{-gp, 0, 0, 1},
		{gp, 0, 0, 1},
	}

	// qua4: 2 x 2 Gauss rule
	ipsQua4 = []Ipoint{
		{-gp, -gp, 0, 1},
		{gp, -gp, 0, 1},
		{gp, gp, 0, 1},
		{-gp, gp, 0, 1},
	}

	// hex8: 2 x 2 x 2 Gauss rule
	ipsHex8 = []Ipoint{
		{-gp, -gp, -gp, 1},
		{gp, -gp, -gp, 1},
		{gp, gp, -gp, 1},
		{-gp, gp, -gp, 1},
		{-gp, -gp, gp, 1},
		{gp, -gp, gp, 1},
		{gp, gp, gp, 1},
		{-gp, gp, gp, 1},
	}

	// tri3: 1-point and 3-point rules
	ipsTri1 = []Ipoint{
		{1.0 / 3.0, 1.0 / 3.0, 0, 1.0 / 2.0},
	}
	ipsTri3 = []Ipoint{
		{1.0 / 6.0, 1.0 / 6.0, 0, 1.0 / 6.0},
		{2.0 / 3.0, 1.0 / 6.0, 0, 1.0 / 6.0},
		{1.0 / 6.0, 2.0 / 3.0, 0, 1.0 / 6.0},
	}

	// tet4: 1-point and 4-point rules
	ipsTet1 = []Ipoint{
		{1.0 / 4.0, 1.0 / 4.0, 1.0 / 4.0, 1.0 / 6.0},
	}
	ipsTet4 = []Ipoint{
		{(5.0 - math.Sqrt(5.0)) / 20.0, (5.0 - math.Sqrt(5.0)) / 20.0, (5.0 - math.Sqrt(5.0)) / 20.0, 1.0 / 24.0},
		{(5.0 + 3.0*math.Sqrt(5.0)) / 20.0, (5.0 - math.Sqrt(5.0)) / 20.0, (5.0 - math.Sqrt(5.0)) / 20.0, 1.0 / 24.0},
		{(5.0 - math.Sqrt(5.0)) / 20.0, (5.0 + 3.0*math.Sqrt(5.0)) / 20.0, (5.0 - math.Sqrt(5.0)) / 20.0, 1.0 / 24.0},
		{(5.0 - math.Sqrt(5.0)) / 20.0, (5.0 - math.Sqrt(5.0)) / 20.0, (5.0 + 3.0*math.Sqrt(5.0)) / 20.0, 1.0 / 24.0},
	}
)

// ipsfactory maps "geoType_nip" to an integration point table
var ipsfactory = map[string][]Ipoint{
	"lin2_2": ipsLin2,
	"qua4_4": ipsQua4,
	"hex8_8": ipsHex8,
	"tri3_1": ipsTri1,
	"tri3_3": ipsTri3,
	"tet4_1": ipsTet1,
	"tet4_4": ipsTet4,
}

// defaultNips maps a cell type to its default number of integration points
var defaultNips = map[string]int{
	"lin2": 2,
	"qua4": 4,
	"hex8": 8,
	"tri3": 3,
	"tet4": 4,
}

// GetIps returns an integration point table.
//  nip == 0 selects the default rule for the geometry type
func GetIps(geoType string, nip int) (ips []Ipoint, err error) {
	if nip == 0 {
		nip = defaultNips[geoType]
	}
	ips, ok := ipsfactory[io.Sf("%s_%d", geoType, nip)]
	if !ok {
		return nil, chk.Err("cannot find integration point table for %q with nip=%d", geoType, nip)
	}
	return
}
