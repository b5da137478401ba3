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
	"testing"

	"github.com/synapticarbors/cube-helper/cube"
)

func TestRectifyConstraintPassThrough(t *testing.T) {
	got, err := RectifyConstraint(nil)
	if err != nil || got != nil {
		t.Errorf("RectifyConstraint(nil) = %v, %v", got, err)
	}

	c := &cube.Constraint{Name: "air_temperature"}
	got, err = RectifyConstraint(c)
	if err != nil {
		t.Fatal(err)
	}
	if got != c {
		t.Error("a constraint without a partial date should pass through unchanged")
	}
}

func TestRectifyConstraintSingleField(t *testing.T) {
	month := 1
	c := &cube.Constraint{PartialTime: &cube.PartialDateTime{Month: &month}}
	got, err := RectifyConstraint(c)
	if err != nil {
		t.Fatal(err)
	}
	if got.PartialTime != nil {
		t.Error("rectified constraint should not carry the partial date")
	}
	if got.Time == nil {
		t.Fatal("rectified constraint should carry a time matcher")
	}
	if !got.Time.Match(cube.Date{Year: 1999, Month: 1, Day: 15}) {
		t.Error("matcher should accept January of any year")
	}
	if got.Time.Match(cube.Date{Year: 1999, Month: 2, Day: 15}) {
		t.Error("matcher should reject February")
	}
	if c.PartialTime == nil {
		t.Error("rectification must not mutate the input constraint")
	}
}

func TestRectifyConstraintEachField(t *testing.T) {
	v := 7
	cases := []struct {
		name string
		p    cube.PartialDateTime
		hit  cube.Date
		miss cube.Date
	}{
		{"year", cube.PartialDateTime{Year: &v}, cube.Date{Year: 7}, cube.Date{Year: 8}},
		{"day", cube.PartialDateTime{Day: &v}, cube.Date{Day: 7}, cube.Date{Day: 8}},
		{"hour", cube.PartialDateTime{Hour: &v}, cube.Date{Hour: 7}, cube.Date{Hour: 8}},
		{"minute", cube.PartialDateTime{Minute: &v}, cube.Date{Minute: 7}, cube.Date{Minute: 8}},
		{"second", cube.PartialDateTime{Second: &v}, cube.Date{Second: 7}, cube.Date{Second: 8}},
		{"microsecond", cube.PartialDateTime{Microsecond: &v}, cube.Date{Microsecond: 7}, cube.Date{Microsecond: 8}},
	}
	for _, tc := range cases {
		p := tc.p
		got, err := RectifyConstraint(&cube.Constraint{PartialTime: &p})
		if err != nil {
			t.Errorf("%s: %v", tc.name, err)
			continue
		}
		if !got.Time.Match(tc.hit) {
			t.Errorf("%s: matcher rejected %+v", tc.name, tc.hit)
		}
		if got.Time.Match(tc.miss) {
			t.Errorf("%s: matcher accepted %+v", tc.name, tc.miss)
		}
	}
}

func TestRectifyConstraintNoFields(t *testing.T) {
	_, err := RectifyConstraint(&cube.Constraint{PartialTime: &cube.PartialDateTime{}})
	if _, ok := err.(*UnsupportedConstraintError); !ok {
		t.Fatalf("error = %v, want *UnsupportedConstraintError", err)
	}
}

func TestRectifyConstraintMultipleFields(t *testing.T) {
	y, m := 2001, 1
	_, err := RectifyConstraint(&cube.Constraint{
		PartialTime: &cube.PartialDateTime{Year: &y, Month: &m},
	})
	if _, ok := err.(*UnsupportedConstraintError); !ok {
		t.Fatalf("error = %v, want *UnsupportedConstraintError", err)
	}
}

func TestConstraintCompatible(t *testing.T) {
	withTime := memCube("days since 2000-01-01", "", []float64{0, 1})
	timeCons := &cube.Constraint{Time: cube.TimeFunc(func(d cube.Date) bool { return true })}
	if !ConstraintCompatible(withTime, timeCons) {
		t.Error("time constraint should be compatible with a cube carrying a time coordinate")
	}

	// No match is still compatible: the constraint evaluated cleanly.
	noMatch := &cube.Constraint{Time: cube.TimeFunc(func(d cube.Date) bool { return false })}
	if !ConstraintCompatible(withTime, noMatch) {
		t.Error("a cleanly evaluated non-match should count as compatible")
	}

	noTime := &cube.Cube{
		StandardName: "surface_altitude",
		VarName:      "orog",
		Coords:       []*cube.Coord{{Name: "lat", Points: []float64{-45, 45}}},
	}
	if ConstraintCompatible(noTime, timeCons) {
		t.Error("time constraint should be incompatible with a cube lacking a time coordinate")
	}

	y := 2000
	partial := &cube.Constraint{PartialTime: &cube.PartialDateTime{Year: &y}}
	if ConstraintCompatible(withTime, partial) {
		t.Error("an unrectified partial constraint should probe as incompatible")
	}
}
