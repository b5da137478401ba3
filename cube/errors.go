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

// MergeError indicates that a file's partial cubes describe the same
// phenomenon but cannot be combined into a single cube.
type MergeError struct {
	Path   string
	Name   string
	Reason string
}

func (e *MergeError) Error() string {
	return fmt.Sprintf("cube: merging %q in %s: %s", e.Name, e.Path, e.Reason)
}

// ConstraintMismatchError indicates that a strict load did not resolve
// to exactly one cube: either nothing matched, or several distinct
// cubes remained after merging.
type ConstraintMismatchError struct {
	Path string
	N    int
}

func (e *ConstraintMismatchError) Error() string {
	if e.N == 0 {
		return fmt.Sprintf("cube: no cubes found in %s", e.Path)
	}
	return fmt.Sprintf("cube: expected exactly one cube in %s, found %d", e.Path, e.N)
}

// IsReconciliation reports whether err is one of the recoverable
// reconciliation failures (an ambiguous merge or a constraint that
// resolved to zero or multiple cubes). Callers use it to decide whether
// a failed strict load should fall back to a permissive one.
func IsReconciliation(err error) bool {
	switch err.(type) {
	case *MergeError, *ConstraintMismatchError:
		return true
	}
	return false
}
