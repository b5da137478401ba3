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
	"fmt"

	"github.com/synapticarbors/cube-helper/cube"
)

// UnsupportedConstraintError is returned when a partial-date constraint
// cannot be rewritten into an evaluable predicate.
type UnsupportedConstraintError struct {
	Reason string
}

func (e *UnsupportedConstraintError) Error() string {
	return "cubehelper: unsupported constraint: " + e.Reason
}

// partialField pairs a PartialDateTime field with the accessor for the
// corresponding Date component.
type partialField struct {
	name string
	val  *int
	get  func(cube.Date) int
}

func partialFields(p *cube.PartialDateTime) []partialField {
	return []partialField{
		{"year", p.Year, func(d cube.Date) int { return d.Year }},
		{"month", p.Month, func(d cube.Date) int { return d.Month }},
		{"day", p.Day, func(d cube.Date) int { return d.Day }},
		{"hour", p.Hour, func(d cube.Date) int { return d.Hour }},
		{"minute", p.Minute, func(d cube.Date) int { return d.Minute }},
		{"second", p.Second, func(d cube.Date) int { return d.Second }},
		{"microsecond", p.Microsecond, func(d cube.Date) int { return d.Microsecond }},
	}
}

// RectifyConstraint rewrites a constraint whose time restriction is a
// partial date into an equivalent constraint with a concrete
// field-equality time matcher, which the cube matcher can evaluate
// directly. Constraints without a partial date pass through unchanged.
// A partial date with zero populated fields, or with more than one
// (ambiguous), yields an *UnsupportedConstraintError.
func RectifyConstraint(c *cube.Constraint) (*cube.Constraint, error) {
	if c == nil || c.PartialTime == nil {
		return c, nil
	}

	var set []partialField
	for _, f := range partialFields(c.PartialTime) {
		if f.val != nil {
			set = append(set, f)
		}
	}
	switch {
	case len(set) == 0:
		return nil, &UnsupportedConstraintError{Reason: "partial datetime has no populated field"}
	case len(set) > 1:
		return nil, &UnsupportedConstraintError{
			Reason: fmt.Sprintf("partial datetime has %d populated fields; exactly one is supported", len(set)),
		}
	}

	want, get := *set[0].val, set[0].get
	out := *c
	out.PartialTime = nil
	out.Time = cube.TimeFunc(func(d cube.Date) bool { return get(d) == want })
	return &out, nil
}

// ConstraintCompatible probes whether cons can be applied to c at all.
// Any failure to evaluate the constraint, whatever its cause, counts as
// incompatible; the probe deliberately does not distinguish a genuine
// constraint mismatch from other evaluation failures.
func ConstraintCompatible(c *cube.Cube, cons *cube.Constraint) bool {
	_, err := cons.Extract(c)
	return err == nil
}
