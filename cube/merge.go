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
	"sort"

	"github.com/ctessum/sparse"
	"github.com/gonum/floats"
)

// merge combines raw cubes that describe the same phenomenon (same
// name and units) into single cubes by concatenating them along their
// time coordinate. Cubes that have no partner pass through unchanged.
// Incompatible partial cubes yield a *MergeError.
func merge(cubes CubeList, path string) (CubeList, error) {
	var order []string
	groups := make(map[string]CubeList)
	for _, c := range cubes {
		k := c.Name() + "\x00" + c.Units
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], c)
	}

	var out CubeList
	for _, k := range order {
		g := groups[k]
		if len(g) == 1 {
			out = append(out, g[0])
			continue
		}
		c, err := concatenate(g, path)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// concatenate joins partial cubes along their shared time coordinate,
// which must be the outermost dimension of every fragment. Fragments
// are ordered by their earliest time point; the joined time points must
// be strictly increasing, so overlapping or duplicated slices fail.
func concatenate(group CubeList, path string) (*Cube, error) {
	base := group[0]
	fail := func(reason string) (*Cube, error) {
		return nil, &MergeError{Path: path, Name: base.Name(), Reason: reason}
	}

	for _, c := range group {
		if c.TimeCoord() != 0 {
			return fail("every partial cube needs a time reference as its outermost dimension")
		}
		if len(c.Coords) != len(base.Coords) {
			return fail("partial cubes have differing dimensionality")
		}
		tb, tc := base.Coords[0], c.Coords[0]
		if tc.Unit.Origin != tb.Unit.Origin || tc.Unit.Calendar != tb.Unit.Calendar {
			return fail("partial cubes use differing time encodings")
		}
		for i := 1; i < len(base.Coords); i++ {
			cb, cc := base.Coords[i], c.Coords[i]
			if cb.Name != cc.Name {
				return fail("coordinate " + cc.Name + " does not match " + cb.Name)
			}
			if len(cb.Points) != len(cc.Points) || !floats.Equal(cb.Points, cc.Points) {
				return fail("coordinate " + cb.Name + " points differ between partial cubes")
			}
		}
	}

	frags := make(CubeList, len(group))
	copy(frags, group)
	sort.SliceStable(frags, func(i, j int) bool {
		pi, pj := frags[i].Coords[0].Points, frags[j].Coords[0].Points
		if len(pi) == 0 || len(pj) == 0 {
			return len(pi) == 0
		}
		return pi[0] < pj[0]
	})

	var points []float64
	var elems []float64
	nt := 0
	for _, f := range frags {
		if len(f.Coords[0].Points) == 0 {
			return fail("partial cube is missing time coordinate points")
		}
		points = append(points, f.Coords[0].Points...)
		elems = append(elems, f.Data.Elements...)
		nt += f.Data.Shape[0]
	}
	for i := 1; i < len(points); i++ {
		if points[i] <= points[i-1] {
			return fail("overlapping or unordered time points; cannot merge into a single cube")
		}
	}

	shape := make([]int, len(base.Data.Shape))
	copy(shape, base.Data.Shape)
	shape[0] = nt
	data := sparse.ZerosDense(shape...)
	copy(data.Elements, elems)

	coords := make([]*Coord, len(base.Coords))
	coords[0] = &Coord{Name: base.Coords[0].Name, Points: points, Unit: base.Coords[0].Unit}
	copy(coords[1:], base.Coords[1:])

	return &Cube{
		StandardName: base.StandardName,
		LongName:     base.LongName,
		VarName:      base.VarName,
		Units:        base.Units,
		Data:         data,
		Coords:       coords,
	}, nil
}
