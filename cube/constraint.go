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

import "fmt"

// TimeMatcher decides whether a single time-coordinate cell satisfies a
// constraint.
type TimeMatcher interface {
	Match(d Date) bool
}

// TimeFunc adapts an ordinary function to the TimeMatcher interface.
type TimeFunc func(d Date) bool

// Match implements TimeMatcher.
func (f TimeFunc) Match(d Date) bool { return f(d) }

// PartialDateTime is a sparse date specification: a nil field places no
// restriction on that calendar component. It is the coarse form of a
// time constraint and cannot be matched against time cells directly;
// it must first be rewritten into a TimeMatcher (see RectifyConstraint
// in the parent package).
type PartialDateTime struct {
	Year, Month, Day                  *int
	Hour, Minute, Second, Microsecond *int
}

// Constraint restricts which cubes a load operation returns. The zero
// value matches everything. At most one of Time and PartialTime may be
// set; a constraint carrying a PartialTime cannot be evaluated until it
// has been rectified.
type Constraint struct {
	// Name, if non-empty, requires the cube's Name() to equal it.
	Name string

	// Time, if non-nil, restricts the cube's time coordinate to cells
	// accepted by the matcher.
	Time TimeMatcher

	// PartialTime is a coarse partial-date restriction awaiting
	// rectification into a Time matcher.
	PartialTime *PartialDateTime
}

// Extract applies the constraint to a cube. It returns a possibly
// subsetted cube on a match and nil on no match. An error means the
// constraint could not be evaluated against the cube at all: the
// constraint still carries an unrectified partial date, or it has a
// time matcher and the cube no time-reference coordinate.
func (c *Constraint) Extract(cb *Cube) (*Cube, error) {
	if c == nil {
		return cb, nil
	}
	if c.PartialTime != nil {
		return nil, fmt.Errorf("cube: partial datetime constraint must be rectified before matching")
	}
	if c.Name != "" && c.Name != cb.Name() {
		return nil, nil
	}
	if c.Time == nil {
		return cb, nil
	}

	ti := cb.TimeCoord()
	if ti < 0 {
		return nil, fmt.Errorf("cube: time constraint on %q: cube has no time reference coordinate", cb.Name())
	}
	tc := cb.Coords[ti]
	var keep []int
	for i, p := range tc.Points {
		if c.Time.Match(tc.Unit.Num2Date(p)) {
			keep = append(keep, i)
		}
	}
	if len(keep) == 0 {
		return nil, nil
	}
	if len(keep) == len(tc.Points) {
		return cb, nil
	}
	return cb.subset(ti, keep), nil
}
