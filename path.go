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
	"strings"
)

// ParseDirectory normalizes a directory string for candidate globbing:
// the result always ends with a separator, and gains a leading
// separator unless the given relative path exists as a directory
// relative to the working directory, in which case it is left relative.
//
// Note the asymmetry: whether a leading separator is added depends on
// an existence probe of the filesystem, so "data" resolves to "data/"
// when ./data exists and to "/data/" when it does not. Callers must
// validate the result; this function never reports an error. The rule
// is kept in this one place so it can be replaced wholesale if its
// semantics are ever revisited.
func ParseDirectory(directory string) string {
	if !strings.HasSuffix(directory, "/") {
		directory += "/"
	}
	if strings.HasPrefix(directory, "/") {
		return directory
	}
	if fi, err := os.Stat(directory); err == nil && fi.IsDir() {
		return directory
	}
	return "/" + directory
}

// listCandidates returns the files directly inside directory whose
// names end in filetype. directory must already carry a trailing
// separator. No recursion, and no ordering beyond what the glob
// provides; callers sort.
func listCandidates(directory, filetype string) ([]string, error) {
	return filepath.Glob(directory + "*" + filetype)
}
