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

package cube

import (
	"fmt"
	"os"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
)

// LoadRaw permissively loads every data variable in the NetCDF file at
// path as its own raw cube, without attempting to merge partial cubes.
// A non-nil constraint is applied per cube; cubes it does not match,
// and cubes it cannot be evaluated against, are dropped.
func LoadRaw(path string, c *Constraint) (CubeList, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	nc, err := cdf.Open(f)
	if err != nil {
		return nil, fmt.Errorf("cube: opening %s: %v", path, err)
	}
	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("cube: opening %s: %v", path, err)
	}

	cubes, err := readCubes(nc, path, int(nc.Header.NumRecs(fi.Size())))
	if err != nil {
		return nil, err
	}
	if c == nil {
		return cubes, nil
	}
	var out CubeList
	for _, cb := range cubes {
		got, err := c.Extract(cb)
		if err != nil || got == nil {
			continue
		}
		out = append(out, got)
	}
	return out, nil
}

// Load strictly loads the NetCDF file at path as a single cube. Raw
// cubes describing the same phenomenon are merged along their time
// coordinate; the result must be exactly one cube. A failed merge
// returns a *MergeError and a result of zero or several cubes returns a
// *ConstraintMismatchError, both of which IsReconciliation recognizes.
// Other errors indicate I/O or format problems and are fatal.
func Load(path string, c *Constraint) (*Cube, error) {
	raw, err := LoadRaw(path, c)
	if err != nil {
		return nil, err
	}
	merged, err := merge(raw, path)
	if err != nil {
		return nil, err
	}
	if len(merged) != 1 {
		return nil, &ConstraintMismatchError{Path: path, N: len(merged)}
	}
	return merged[0], nil
}

// readCubes converts every non-coordinate variable in nc into a raw
// cube. A coordinate variable is a 1-D variable named after its own
// dimension. nrec is the file's record count, which sizes any
// unlimited dimension.
func readCubes(nc *cdf.File, path string, nrec int) (CubeList, error) {
	coordVars := make(map[string]bool)
	for _, v := range nc.Header.Variables() {
		dims := nc.Header.Dimensions(v)
		if len(dims) == 1 && dims[0] == v {
			coordVars[v] = true
		}
	}

	var cubes CubeList
	for _, v := range nc.Header.Variables() {
		if coordVars[v] {
			continue
		}
		data, err := readVar(nc, v, nrec)
		if err != nil {
			return nil, fmt.Errorf("cube: reading variable %s from %s: %v", v, path, err)
		}
		if data == nil { // not a numeric variable
			continue
		}

		dims := nc.Header.Dimensions(v)
		coords := make([]*Coord, len(dims))
		for i, d := range dims {
			coord := &Coord{Name: d}
			if coordVars[d] {
				points, err := readVar(nc, d, nrec)
				if err != nil {
					return nil, fmt.Errorf("cube: reading coordinate %s from %s: %v", d, path, err)
				}
				if points != nil {
					coord.Points = points.Elements
					if u := attrString(nc, d, "units"); u != "" {
						coord.Unit = ParseUnit(u, attrString(nc, d, "calendar"))
					}
				}
			}
			coords[i] = coord
		}

		cubes = append(cubes, &Cube{
			StandardName: attrString(nc, v, "standard_name"),
			LongName:     attrString(nc, v, "long_name"),
			VarName:      v,
			Units:        attrString(nc, v, "units"),
			Data:         data,
			Coords:       coords,
		})
	}
	return cubes, nil
}

// readVar reads an entire numeric variable into a dense array,
// coercing to float64. It returns nil for character and byte
// variables, which the classic format stores identically.
func readVar(nc *cdf.File, v string, nrec int) (*sparse.DenseArray, error) {
	dims := nc.Header.Lengths(v)
	var r cdf.Reader
	if len(dims) > 0 && dims[0] == 0 {
		// The header carries no length for an unlimited dimension,
		// so size it from the record count and read to an explicit
		// corner. A reader with default bounds stops after the
		// first record.
		dims = append([]int{nrec}, dims[1:]...)
		last := make([]int, len(dims))
		for i, d := range dims {
			last[i] = d - 1
		}
		r = nc.Reader(v, nil, last)
	} else {
		r = nc.Reader(v, nil, nil)
	}
	n := 1
	for _, d := range dims {
		n *= d
	}
	if len(dims) == 0 {
		dims = []int{1}
	}
	if n == 0 {
		return sparse.ZerosDense(dims...), nil
	}

	buf := r.Zero(n)
	if _, err := r.Read(buf); err != nil {
		return nil, err
	}

	var elems []float64
	switch b := buf.(type) {
	case []float64:
		elems = b
	case []float32:
		elems = make([]float64, len(b))
		for i, x := range b {
			elems[i] = float64(x)
		}
	case []int32:
		elems = make([]float64, len(b))
		for i, x := range b {
			elems[i] = float64(x)
		}
	case []int16:
		elems = make([]float64, len(b))
		for i, x := range b {
			elems[i] = float64(x)
		}
	default:
		return nil, nil
	}

	data := sparse.ZerosDense(dims...)
	copy(data.Elements, elems)
	return data, nil
}

// attrString returns a character attribute's value, or "" if the
// attribute is absent or not character-typed.
func attrString(nc *cdf.File, v, a string) string {
	if s, ok := nc.Header.GetAttribute(v, a).(string); ok {
		return s
	}
	return ""
}
