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

package cubehelper

import (
	"time"

	"github.com/synapticarbors/cube-helper/cube"
)

// SortByEarliestDate returns a cube's chronological sort key: the zero
// point of its first time-reference coordinate. For calendars with no
// real-datetime equivalent only the year, month and day of the origin
// are kept. The second return value is false when the cube has no
// time-reference coordinate; such cubes have no defined ordering
// position.
func SortByEarliestDate(c *cube.Cube) (time.Time, bool) {
	i := c.TimeCoord()
	if i < 0 {
		return time.Time{}, false
	}
	return originDate(c.Coords[i]), true
}

// FileSortByEarliestDate derives the same key as SortByEarliestDate
// from a file path, so a path list can be keyed consistently with its
// cube list. The file is strictly loaded; on a reconciliation failure
// the first validly-named raw cube with a time-reference coordinate
// supplies the key instead. The second return value is false when no
// key can be derived.
func FileSortByEarliestDate(path string) (time.Time, bool) {
	c, err := cube.Load(path, nil)
	if err == nil {
		return SortByEarliestDate(c)
	}
	if !cube.IsReconciliation(err) {
		return time.Time{}, false
	}
	raw, err := cube.LoadRaw(path, nil)
	if err != nil {
		return time.Time{}, false
	}
	for _, rc := range raw {
		if rc.StandardName == "" {
			continue
		}
		if t, ok := SortByEarliestDate(rc); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

// originDate converts a time coordinate's zero point to the key used
// for chronological ordering.
func originDate(coord *cube.Coord) time.Time {
	d := coord.Unit.Num2Date(0)
	if t, ok := d.Time(); ok {
		return t
	}
	// Model calendar with no real-datetime equivalent: re-derive the
	// date from its year, month and day only, discarding sub-day
	// precision.
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
}
