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

// Package cube reads gridded NetCDF data into labeled multi-dimensional
// arrays ("cubes") and provides the merging and constraint machinery the
// loading pipeline in the parent package is built on.
package cube

import (
	"github.com/ctessum/sparse"
)

// Cube is a single multi-dimensional data variable together with its
// coordinate metadata. The data payload is held as a dense array with
// one entry in Coords for each array dimension, outermost first.
type Cube struct {
	// StandardName is the value of the variable's standard_name
	// attribute, or the empty string if the file does not supply one.
	StandardName string

	// LongName is the value of the long_name attribute, if any.
	LongName string

	// VarName is the name of the variable in the source file.
	VarName string

	// Units is the variable's units attribute, carried as an opaque
	// string.
	Units string

	// Data holds the variable's values.
	Data *sparse.DenseArray

	// Coords holds one coordinate per data dimension, in dimension
	// order. A dimension without a coordinate variable in the source
	// file yields a Coord with nil Points.
	Coords []*Coord
}

// Coord is a coordinate dimension of a Cube.
type Coord struct {
	Name   string
	Points []float64

	// Unit is the parsed units attribute of the coordinate variable.
	// It is nil when the coordinate has no units, and reports
	// IsTimeReference() == true when the units encode a time axis.
	Unit *Unit
}

// CubeList is an ordered collection of cubes.
type CubeList []*Cube

// Name returns the cube's standard name, falling back to the long name
// and then to the source variable name.
func (c *Cube) Name() string {
	if c.StandardName != "" {
		return c.StandardName
	}
	if c.LongName != "" {
		return c.LongName
	}
	return c.VarName
}

// Coord returns the coordinate with the given name, or nil.
func (c *Cube) Coord(name string) *Coord {
	for _, coord := range c.Coords {
		if coord.Name == name {
			return coord
		}
	}
	return nil
}

// TimeCoord returns the index of the first coordinate flagged as a time
// reference, or -1 if the cube has none.
func (c *Cube) TimeCoord() int {
	for i, coord := range c.Coords {
		if coord.Unit != nil && coord.Unit.IsTimeReference() {
			return i
		}
	}
	return -1
}

// subset returns a copy of c restricted to the given point indices of
// dimension dim. The indices must be sorted and in range.
func (c *Cube) subset(dim int, idx []int) *Cube {
	shape := make([]int, len(c.Data.Shape))
	copy(shape, c.Data.Shape)
	shape[dim] = len(idx)
	data := sparse.ZerosDense(shape...)
	src := make([]int, len(shape))
	for i := range data.Elements {
		ind := data.IndexNd(i)
		copy(src, ind)
		src[dim] = idx[ind[dim]]
		data.Elements[i] = c.Data.Get(src...)
	}

	coords := make([]*Coord, len(c.Coords))
	for i, coord := range c.Coords {
		if i != dim || coord.Points == nil {
			coords[i] = coord
			continue
		}
		points := make([]float64, len(idx))
		for j, k := range idx {
			points[j] = coord.Points[k]
		}
		coords[i] = &Coord{Name: coord.Name, Points: points, Unit: coord.Unit}
	}

	return &Cube{
		StandardName: c.StandardName,
		LongName:     c.LongName,
		VarName:      c.VarName,
		Units:        c.Units,
		Data:         data,
		Coords:       coords,
	}
}
