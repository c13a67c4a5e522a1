// Copyright 2016 The Geofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"encoding/json"
	"os"

	"github.com/cpmech/gosl/chk"
)

// Material holds material data
type Material struct {
	Name  string             `json:"name"`  // name of material
	Model string             `json:"model"` // name of model; e.g. "lin-elast", "two-phase"
	Desc  string             `json:"desc"`  // description
	Prms  map[string]float64 `json:"prms"`  // model parameters; e.g. {"E":1000, "nu":0.25}
}

// GetPrm returns a parameter value or a default if absent
func (o *Material) GetPrm(name string, dflt float64) float64 {
	if v, ok := o.Prms[name]; ok {
		return v
	}
	return dflt
}

// MatDb holds materials read from a separate .mat file
type MatDb struct {
	Materials []*Material `json:"materials"` // all materials
}

// ReadMat reads a materials file (.mat)
func ReadMat(matfilepath string) (db *MatDb, err error) {
	b, rerr := os.ReadFile(matfilepath)
	if rerr != nil {
		return nil, chk.Err("cannot read materials file %q:\n%v", matfilepath, rerr)
	}
	db = new(MatDb)
	if jerr := json.Unmarshal(b, db); jerr != nil {
		return nil, chk.Err("cannot unmarshal materials file %q:\n%v", matfilepath, jerr)
	}
	return
}

// Get returns a material from the database given its name
//  Note: returns nil if not found
func (o *MatDb) Get(name string) *Material {
	for _, m := range o.Materials {
		if m.Name == name {
			return m
		}
	}
	return nil
}
