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

// Package cubehelper loads gridded NetCDF datasets from a directory or
// an explicit file list, sorts the resulting cubes chronologically by
// the origin of their time coordinates, and optionally filters them
// with coordinate constraints. The cube subpackage performs the actual
// file decoding, merging and constraint evaluation; this package is the
// orchestration around it.
package cubehelper

import (
	"sort"
	"strings"
	"time"

	"github.com/synapticarbors/cube-helper/cube"
)

// DefaultFiletype is the extension used when callers pass an empty
// filetype.
const DefaultFiletype = ".nc"

// loadState is the terminal state of a single file's load attempt.
type loadState int

const (
	// loadedStrict: the strict single-cube load succeeded.
	loadedStrict loadState = iota
	// loadedFallback: the strict load hit a reconciliation error and
	// the file was loaded permissively instead.
	loadedFallback
	// loadFailed: the file failed for a non-recoverable reason.
	loadFailed
)

// fileLoad is the result of loading one candidate file. Making the
// fallback an explicit state, rather than a caught-error branch, keeps
// the two load paths independently observable.
type fileLoad struct {
	state loadState
	cubes cube.CubeList
	err   error
}

// loadOne attempts a strict load of path and falls back to a
// permissive load on a reconciliation failure. Permissively loaded
// cubes without a valid standard name are silently dropped.
func loadOne(path string, c *cube.Constraint) fileLoad {
	cb, err := cube.Load(path, c)
	if err == nil {
		return fileLoad{state: loadedStrict, cubes: cube.CubeList{cb}}
	}
	if !cube.IsReconciliation(err) {
		return fileLoad{state: loadFailed, err: err}
	}
	raw, err := cube.LoadRaw(path, c)
	if err != nil {
		return fileLoad{state: loadFailed, err: err}
	}
	var kept cube.CubeList
	for _, rc := range raw {
		if rc.StandardName != "" {
			kept = append(kept, rc)
		}
	}
	return fileLoad{state: loadedFallback, cubes: kept}
}

// record keeps a loaded cube, its source path and its chronological
// key together so one sort orders both returned lists and they cannot
// fall out of step.
type record struct {
	key    time.Time
	hasKey bool
	cube   *cube.Cube
	path   string
}

func loadAll(paths []string, c *cube.Constraint) (cube.CubeList, []string, error) {
	c, err := RectifyConstraint(c)
	if err != nil {
		return nil, nil, err
	}

	var recs []record
	for _, path := range paths {
		fl := loadOne(path, c)
		if fl.state == loadFailed {
			return nil, nil, fl.err
		}
		for _, cb := range fl.cubes {
			k, ok := SortByEarliestDate(cb)
			recs = append(recs, record{key: k, hasKey: ok, cube: cb, path: path})
		}
	}

	// Stable, so cubes without a key and cubes sharing an origin date
	// keep their input order. Keyless cubes sort first.
	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].hasKey != recs[j].hasKey {
			return !recs[i].hasKey
		}
		return recs[i].key.Before(recs[j].key)
	})

	cubes := make(cube.CubeList, len(recs))
	files := make([]string, len(recs))
	for i, r := range recs {
		cubes[i] = r.cube
		files[i] = r.path
	}
	return cubes, files, nil
}

// LoadFromDir loads every file in directory whose name ends in
// filetype (DefaultFiletype when empty) and returns the loaded cubes
// together with their source paths, both in ascending order of time
// origin. A non-nil constraint is rectified once and applied to every
// load. The first non-recoverable failure aborts the call; partial
// progress is discarded.
func LoadFromDir(directory, filetype string, c *cube.Constraint) (cube.CubeList, []string, error) {
	if filetype == "" {
		filetype = DefaultFiletype
	}
	paths, err := listCandidates(ParseDirectory(directory), filetype)
	if err != nil {
		return nil, nil, err
	}
	return loadAll(paths, c)
}

// LoadFromFileList behaves like LoadFromDir for an explicit list of
// file paths. Entries not ending in filetype are silently discarded
// before loading.
func LoadFromFileList(files []string, filetype string, c *cube.Constraint) (cube.CubeList, []string, error) {
	if filetype == "" {
		filetype = DefaultFiletype
	}
	var keep []string
	for _, f := range files {
		if strings.HasSuffix(f, filetype) {
			keep = append(keep, f)
		}
	}
	return loadAll(keep, c)
}
