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

package main

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
)

// config holds defaults that a TOML file may supply for the list
// command's flags. Flags set explicitly on the command line win.
type config struct {
	Dir      string `toml:"dir"`
	Filetype string `toml:"filetype"`
}

func loadConfig(path string) (*config, error) {
	cfg := new(config)
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("cubeload: reading config %s: %v", path, err)
	}
	return cfg, nil
}

// apply resolves the directory and filetype, preferring explicitly set
// flags over config file values. It returns the directory to use and
// updates flagFiletype in place when the config supplies one.
func (c *config) apply(cmd *cobra.Command, dir string) string {
	if !cmd.Flags().Changed("dir") && c.Dir != "" {
		dir = c.Dir
	}
	if !cmd.Flags().Changed("filetype") && c.Filetype != "" {
		flagFiletype = c.Filetype
	}
	return dir
}
