/*
Copyright © 2020 the Snobal authors.
This file is part of Snobal.

Snobal is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

Snobal is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with Snobal.  If not, see <http://www.gnu.org/licenses/>.
*/

package main

import (
	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// configFile is the path given to --config; every subcommand that
// needs configuration reads it via snobalcfg.Load, then layers
// SNOBAL_*-prefixed environment overrides on top via v.
var configFile string

// v holds environment-variable overrides bound with the SNOBAL_
// prefix, following the teacher's cfg.SetEnvPrefix("INMAP") pattern
// in inmaputil/cmd.go. The on-disk TOML format itself is parsed
// separately by snobalcfg, since BurntSushi/toml (not viper's own
// decoder) is the pack's established config-file parser.
var v = viper.New()

var log = logrus.StandardLogger()

func init() {
	v.SetEnvPrefix("SNOBAL")
	v.AutomaticEnv()

	Root.PersistentFlags().StringVar(&configFile, "config", "", "path to a TOML run configuration")
	Root.AddCommand(versionCmd)
	Root.AddCommand(runCmd)
	runCmd.AddCommand(runPointCmd)
	runCmd.AddCommand(runGridCmd)
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "snobal",
	Short: "A two-layer snowcover energy- and mass-balance model.",
	Long: `Snobal simulates the energy and mass balance of a snowcover
over time, given point or gridded atmospheric and precipitation forcing.

Configuration is read from a TOML file given with --config. The fields
DataTstepSeconds, MaxH2OVol and MaxZS0 can be overridden by the
environment variables SNOBAL_DATATSTEPSECONDS, SNOBAL_MAXH2OVOL and
SNOBAL_MAXZS0; other fields have no environment override.`,
	DisableAutoGenTag: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the model.",
	Long:  `run runs a Snobal simulation. Use the subcommands below to choose point or grid mode.`,
	DisableAutoGenTag: true,
}
