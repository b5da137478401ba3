/*
Copyright © 2024 the cube-helper authors.
This file is part of cube-helper.

cube-helper is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

cube-helper is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with cube-helper.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package nctest synthesizes small NetCDF files for tests.
package nctest

import (
	"fmt"
	"os"

	"github.com/ctessum/cdf"
)

// Dim is a named dimension of a test file.
type Dim struct {
	Name string
	Len  int
}

// Var is a variable of a test file. A coordinate variable is expressed
// as a Var whose single dimension is its own name. Data is written as
// float64, or as NetCDF characters when Text is set instead.
type Var struct {
	Name  string
	Dims  []string
	Data  []float64
	Text  string
	Attrs map[string]string
}

// WriteFile creates a NetCDF file at path with the given dimensions
// and variables. A dimension with Len 0 is the file's unlimited
// dimension; variables over it are written as records.
func WriteFile(path string, dims []Dim, vars []Var) error {
	names := make([]string, len(dims))
	lengths := make([]int, len(dims))
	for i, d := range dims {
		names[i] = d.Name
		lengths[i] = d.Len
	}
	h := cdf.NewHeader(names, lengths)
	for _, v := range vars {
		if v.Text != "" {
			h.AddVariable(v.Name, v.Dims, "")
		} else {
			h.AddVariable(v.Name, v.Dims, []float64{0})
		}
		for a, val := range v.Attrs {
			h.AddAttribute(v.Name, a, val)
		}
	}
	h.Define()

	ff, err := os.Create(path)
	if err != nil {
		return err
	}
	defer ff.Close()
	f, err := cdf.Create(ff, h)
	if err != nil {
		return err
	}
	for _, v := range vars {
		var w cdf.Writer
		if f.Header.IsRecordVariable(v.Name) {
			// A writer with default bounds extends the file one
			// record at a time.
			w = f.Writer(v.Name, nil, nil)
		} else {
			end := f.Header.Lengths(v.Name)
			w = f.Writer(v.Name, make([]int, len(end)), end)
		}
		var payload interface{} = v.Data
		if v.Text != "" {
			payload = v.Text
		}
		if _, err := w.Write(payload); err != nil {
			return fmt.Errorf("nctest: writing %s: %v", v.Name, err)
		}
	}
	return cdf.UpdateNumRecs(ff)
}

// TimeVar is a convenience for the common case of a time coordinate
// variable with the given units and calendar.
func TimeVar(name, units, calendar string, points []float64) Var {
	attrs := map[string]string{"units": units}
	if calendar != "" {
		attrs["calendar"] = calendar
	}
	return Var{Name: name, Dims: []string{name}, Data: points, Attrs: attrs}
}

// Sequence returns the values 0..n-1, a convenient data payload.
func Sequence(n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = float64(i)
	}
	return s
}
