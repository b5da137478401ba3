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
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/synapticarbors/cube-helper/cube"
	"github.com/synapticarbors/cube-helper/internal/nctest"
)

// writeDataset writes a single-cube file whose time axis starts at the
// given origin.
func writeDataset(t *testing.T, path, origin string) {
	t.Helper()
	err := nctest.WriteFile(path,
		[]nctest.Dim{{Name: "time", Len: 2}},
		[]nctest.Var{
			nctest.TimeVar("time", "hours since "+origin, "gregorian", []float64{0, 1}),
			{Name: "tas", Dims: []string{"time"}, Data: []float64{280, 281},
				Attrs: map[string]string{"standard_name": "air_temperature", "units": "K"}},
		})
	if err != nil {
		t.Fatal(err)
	}
}

func TestLoadFromDirSortsChronologically(t *testing.T) {
	dir := t.TempDir()
	writeDataset(t, filepath.Join(dir, "a.nc"), "2001-01-01 00:00:00")
	writeDataset(t, filepath.Join(dir, "b.nc"), "1999-06-01 00:00:00")

	cubes, paths, err := LoadFromDir(dir, ".nc", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(cubes) != 2 || len(paths) != 2 {
		t.Fatalf("got %d cubes and %d paths, want 2 and 2", len(cubes), len(paths))
	}
	wantPaths := []string{filepath.Join(dir, "b.nc"), filepath.Join(dir, "a.nc")}
	if !reflect.DeepEqual(paths, wantPaths) {
		t.Errorf("paths = %v, want %v", paths, wantPaths)
	}
	k0, _ := SortByEarliestDate(cubes[0])
	k1, _ := SortByEarliestDate(cubes[1])
	if !k0.Before(k1) {
		t.Errorf("cubes out of order: %v before %v", k0, k1)
	}
}

func TestLoadFromFileListMatchesDirLoad(t *testing.T) {
	dir := t.TempDir()
	writeDataset(t, filepath.Join(dir, "a.nc"), "2001-01-01 00:00:00")
	writeDataset(t, filepath.Join(dir, "b.nc"), "1999-06-01 00:00:00")

	fromDir, dirPaths, err := LoadFromDir(dir, ".nc", nil)
	if err != nil {
		t.Fatal(err)
	}
	files := []string{
		filepath.Join(dir, "a.nc"),
		filepath.Join(dir, "b.nc"),
		filepath.Join(dir, "notes.txt"), // silently discarded
	}
	fromList, listPaths, err := LoadFromFileList(files, ".nc", nil)
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(dirPaths, listPaths) {
		t.Errorf("paths differ: %v vs %v", dirPaths, listPaths)
	}
	if len(fromDir) != len(fromList) {
		t.Fatalf("cube counts differ: %d vs %d", len(fromDir), len(fromList))
	}
	for i := range fromDir {
		if fromDir[i].Name() != fromList[i].Name() {
			t.Errorf("cube %d: %q vs %q", i, fromDir[i].Name(), fromList[i].Name())
		}
		if !reflect.DeepEqual(fromDir[i].Data.Elements, fromList[i].Data.Elements) {
			t.Errorf("cube %d data differs", i)
		}
	}
}

// A file that cannot reconcile to a single cube is loaded permissively:
// each validly-named raw cube is recorded against the same source path,
// and raw cubes without a standard name are dropped.
func TestLoadFromDirFallback(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "multi.nc")
	err := nctest.WriteFile(path,
		[]nctest.Dim{{Name: "time", Len: 1}},
		[]nctest.Var{
			nctest.TimeVar("time", "days since 2000-01-01", "", []float64{0}),
			{Name: "tas", Dims: []string{"time"}, Data: []float64{280},
				Attrs: map[string]string{"standard_name": "air_temperature", "units": "K"}},
			{Name: "pr", Dims: []string{"time"}, Data: []float64{1},
				Attrs: map[string]string{"standard_name": "precipitation_flux", "units": "kg m-2 s-1"}},
			{Name: "scratch", Dims: []string{"time"}, Data: []float64{0},
				Attrs: map[string]string{"units": "1"}}, // no standard_name
		})
	if err != nil {
		t.Fatal(err)
	}

	cubes, paths, err := LoadFromDir(dir, ".nc", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(cubes) != 2 {
		t.Fatalf("got %d cubes, want 2 (invalidly named cube dropped)", len(cubes))
	}
	for i, p := range paths {
		if p != path {
			t.Errorf("path %d = %q, want %q", i, p, path)
		}
	}
	for _, c := range cubes {
		if c.StandardName == "" {
			t.Errorf("cube %q passed the name-validity filter without a standard name", c.Name())
		}
	}
}

func TestLoadFromDirPartialDateConstraint(t *testing.T) {
	dir := t.TempDir()
	// Cells 2000-12-31, 2001-01-01, 2001-01-02: two fall in 2001.
	err := nctest.WriteFile(filepath.Join(dir, "straddle.nc"),
		[]nctest.Dim{{Name: "time", Len: 3}},
		[]nctest.Var{
			nctest.TimeVar("time", "days since 2000-12-31", "", []float64{0, 1, 2}),
			{Name: "tas", Dims: []string{"time"}, Data: []float64{280, 281, 282},
				Attrs: map[string]string{"standard_name": "air_temperature", "units": "K"}},
		})
	if err != nil {
		t.Fatal(err)
	}
	// Entirely outside 2001; contributes nothing.
	writeDataset(t, filepath.Join(dir, "early.nc"), "1995-01-01 00:00:00")

	year := 2001
	cons := &cube.Constraint{PartialTime: &cube.PartialDateTime{Year: &year}}
	cubes, paths, err := LoadFromDir(dir, ".nc", cons)
	if err != nil {
		t.Fatal(err)
	}
	if len(cubes) != 1 {
		t.Fatalf("got %d cubes, want 1", len(cubes))
	}
	if want := filepath.Join(dir, "straddle.nc"); paths[0] != want {
		t.Errorf("path = %q, want %q", paths[0], want)
	}
	got := cubes[0].Coords[0].Points
	if !reflect.DeepEqual(got, []float64{1, 2}) {
		t.Errorf("constrained time points = %v, want [1 2]", got)
	}
	if !reflect.DeepEqual(cubes[0].Data.Elements, []float64{281, 282}) {
		t.Errorf("constrained data = %v, want [281 282]", cubes[0].Data.Elements)
	}
}

func TestLoadFromDirUnsupportedConstraint(t *testing.T) {
	dir := t.TempDir()
	writeDataset(t, filepath.Join(dir, "a.nc"), "2001-01-01 00:00:00")

	cons := &cube.Constraint{PartialTime: &cube.PartialDateTime{}}
	_, _, err := LoadFromDir(dir, ".nc", cons)
	if _, ok := err.(*UnsupportedConstraintError); !ok {
		t.Fatalf("error = %v, want *UnsupportedConstraintError", err)
	}
}

func TestLoadFromDirCorruptFile(t *testing.T) {
	dir := t.TempDir()
	writeDataset(t, filepath.Join(dir, "a.nc"), "2001-01-01 00:00:00")
	if err := os.WriteFile(filepath.Join(dir, "bad.nc"), []byte("not netcdf"), 0644); err != nil {
		t.Fatal(err)
	}

	_, _, err := LoadFromDir(dir, ".nc", nil)
	if err == nil {
		t.Fatal("a corrupt file should abort the load")
	}
	if cube.IsReconciliation(err) {
		t.Errorf("corrupt-file error %v must not be treated as recoverable", err)
	}
}

func TestLoadFromDirDefaultFiletype(t *testing.T) {
	dir := t.TempDir()
	writeDataset(t, filepath.Join(dir, "a.nc"), "2001-01-01 00:00:00")

	cubes, _, err := LoadFromDir(dir, "", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(cubes) != 1 {
		t.Fatalf("got %d cubes, want 1", len(cubes))
	}
}

func TestLoadFromDirEmpty(t *testing.T) {
	cubes, paths, err := LoadFromDir(t.TempDir(), ".nc", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(cubes) != 0 || len(paths) != 0 {
		t.Errorf("empty directory returned %d cubes, %d paths", len(cubes), len(paths))
	}
}
