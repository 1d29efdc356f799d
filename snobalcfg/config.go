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

// Package snobalcfg parses the TOML configuration that drives
// cmd/snobal, following the teacher's inmaputil/config.go convention
// of a doc comment per field doubling as generated help text.
package snobalcfg

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds everything a single run of cmd/snobal needs: where the
// forcing comes from, what the initial snowcover looks like, the
// physical parameters governing the run, and where output goes.
type Config struct {
	// Mode is either "point" or "grid".
	Mode string

	// ForcingFile is the path to the forcing input: a point CSV in
	// point mode, or a netCDF file in grid mode.
	ForcingFile string

	// OutputPrefix is the path prefix for the two output files (energy
	// balance and snowcover), with ".eb.csv"/".snow.csv" or
	// ".eb.nc"/".snow.nc" appended depending on Mode.
	OutputPrefix string

	// LogFile is the path to the log output. If empty, logs go to
	// stderr.
	LogFile string

	// DataTstepSeconds is the spacing between forcing records, in
	// seconds. Must be a positive integer multiple of 3600.
	DataTstepSeconds float64

	// MaxH2OVol is the maximum liquid water volume fraction the
	// snowcover can hold before draining to runoff.
	MaxH2OVol float64

	// MaxZS0 is the maximum surface-layer thickness, in meters, before
	// the lower layer splits off.
	MaxZS0 float64

	// StopNoSnow, if true, ends the run early once every cell has
	// completely ablated.
	StopNoSnow bool

	// TempsInC is true if forcing and initial-condition temperatures
	// are given in Celsius rather than Kelvin.
	TempsInC bool

	// RelativeHeights is true if measurement heights are given
	// relative to the snow surface rather than as absolute elevations.
	RelativeHeights bool

	// Elevation is the site elevation in meters; grid mode applies the
	// same value to every cell.
	Elevation float64

	// InitialSnow describes the starting snowcover.
	InitialSnow InitialSnowConfig

	// MeasurementHeights describes the instrument heights.
	MeasurementHeights MeasurementHeightsConfig

	// Grid holds the dimensions of a gridded run; ignored in point
	// mode.
	Grid GridConfig
}

// InitialSnowConfig mirrors snobal.InitialState in TOML form.
type InitialSnowConfig struct {
	Z0     float64 // surface roughness length, m
	ZS     float64 // total snowcover thickness, m
	Rho    float64 // average snow density, kg/m^3
	TS0    float64 // surface layer temperature
	TS     float64 // average snowcover temperature
	H2OSat float64 // fractional liquid water saturation, 0-1
}

// MeasurementHeightsConfig mirrors snobal.MeasurementHeights in TOML
// form.
type MeasurementHeightsConfig struct {
	ZU float64 // wind speed measurement height, m
	ZT float64 // air temperature/humidity measurement height, m
	ZG float64 // soil temperature measurement depth, m
}

// GridConfig describes the shape of a gridded run, needed up front to
// preallocate output.GriddedNetCDFSink's in-memory buffers.
type GridConfig struct {
	NY        int
	NX        int
	NT        int
	OutputHrs float64
}

// Load reads and parses a TOML configuration file, expanding
// environment variables in path fields the way
// inmaputil/config.go does for InMAPData/OutputFile/LogFile.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("snobalcfg: opening %s: %w", path, err)
	}
	defer f.Close()

	cfg := new(Config)
	if _, err := toml.NewDecoder(f).Decode(cfg); err != nil {
		return nil, fmt.Errorf("snobalcfg: parsing %s: %w", path, err)
	}

	cfg.ForcingFile = os.ExpandEnv(cfg.ForcingFile)
	cfg.OutputPrefix = os.ExpandEnv(cfg.OutputPrefix)
	cfg.LogFile = os.ExpandEnv(cfg.LogFile)

	if cfg.Mode != "point" && cfg.Mode != "grid" {
		return nil, fmt.Errorf("snobalcfg: Mode must be \"point\" or \"grid\", got %q", cfg.Mode)
	}
	if cfg.DataTstepSeconds <= 0 {
		return nil, fmt.Errorf("snobalcfg: DataTstepSeconds must be positive")
	}
	return cfg, nil
}
