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

// Command cubeload is a command-line interface for inspecting and
// chronologically organizing directories of NetCDF cube data.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	cubehelper "github.com/synapticarbors/cube-helper"
	"github.com/synapticarbors/cube-helper/cube"
)

var log = logrus.New()

var (
	flagConfig   string
	flagDir      string
	flagFiletype string
	flagYear     int
	flagMonth    int
	flagDay      int
	flagName     string
)

var rootCmd = &cobra.Command{
	Use:   "cubeload",
	Short: "Load and chronologically organize NetCDF cube data",
	Long: `cubeload loads gridded NetCDF files from a directory, sorts them by
the origin date of their time coordinates, and prints the result. Files
whose contents cannot be reconciled into a single cube are loaded
permissively, so one file may contribute several cubes.`,
	SilenceUsage: true,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List a directory's cubes in chronological order",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(flagConfig)
		if err != nil {
			return err
		}
		dir := cfg.apply(cmd, flagDir)
		if dir == "" {
			return fmt.Errorf("cubeload: no directory given; use --dir or a config file")
		}

		cons := constraintFromFlags(cmd)
		log.WithFields(logrus.Fields{
			"dir":      dir,
			"filetype": flagFiletype,
		}).Info("loading cubes")

		cubes, paths, err := cubehelper.LoadFromDir(dir, flagFiletype, cons)
		if err != nil {
			return err
		}
		if len(cubes) == 0 {
			log.Warn("no cubes matched")
			return nil
		}
		for i, c := range cubes {
			if t, ok := cubehelper.SortByEarliestDate(c); ok {
				fmt.Printf("%s\t%s\t%s\n", t.Format("2006-01-02"), c.Name(), paths[i])
			} else {
				fmt.Printf("%s\t%s\t%s\n", "-", c.Name(), paths[i])
			}
		}
		return nil
	},
}

var infoCmd = &cobra.Command{
	Use:   "info FILE...",
	Short: "Show the cubes inside the given files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, path := range args {
			cubes, err := cube.LoadRaw(path, nil)
			if err != nil {
				return err
			}
			fmt.Printf("%s: %d cube(s)\n", path, len(cubes))
			for _, c := range cubes {
				shape := make([]string, len(c.Data.Shape))
				for i, s := range c.Data.Shape {
					shape[i] = fmt.Sprint(s)
				}
				origin := "no time reference"
				if i := c.TimeCoord(); i >= 0 {
					e := c.Coords[i].Unit.Epoch()
					origin = fmt.Sprintf("origin %04d-%02d-%02d (%s)",
						e.Year, e.Month, e.Day, c.Coords[i].Unit.Calendar)
				}
				fmt.Printf("  %s [%s] (%s) %s\n",
					c.Name(), strings.Join(shape, ", "), c.Units, origin)
			}
		}
		return nil
	},
}

// constraintFromFlags builds a partial-date constraint from whichever
// of the date flags were set. Validation of how many fields are
// populated is left to constraint rectification during the load.
func constraintFromFlags(cmd *cobra.Command) *cube.Constraint {
	p := &cube.PartialDateTime{}
	any := false
	if cmd.Flags().Changed("year") {
		p.Year, any = &flagYear, true
	}
	if cmd.Flags().Changed("month") {
		p.Month, any = &flagMonth, true
	}
	if cmd.Flags().Changed("day") {
		p.Day, any = &flagDay, true
	}
	if !any && flagName == "" {
		return nil
	}
	c := &cube.Constraint{Name: flagName}
	if any {
		c.PartialTime = p
	}
	return c
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "",
		"path to a TOML configuration file supplying flag defaults")
	listCmd.Flags().StringVar(&flagDir, "dir", "", "directory to load data from")
	listCmd.Flags().StringVar(&flagFiletype, "filetype", cubehelper.DefaultFiletype,
		"extension of the files to load")
	listCmd.Flags().IntVar(&flagYear, "year", 0, "restrict to time cells with this year")
	listCmd.Flags().IntVar(&flagMonth, "month", 0, "restrict to time cells with this month")
	listCmd.Flags().IntVar(&flagDay, "day", 0, "restrict to time cells with this day of month")
	listCmd.Flags().StringVar(&flagName, "name", "", "restrict to cubes with this name")
	rootCmd.AddCommand(listCmd, infoCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
