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
	"fmt"
	"os"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"github.com/spatialmodel/snobal/forcing"
	"github.com/spatialmodel/snobal/output"
	"github.com/spatialmodel/snobal/snobal"
	"github.com/spatialmodel/snobal/snobalcfg"
)

var runPointCmd = &cobra.Command{
	Use:   "point",
	Short: "Run a single-cell simulation from a point CSV forcing file.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return runPoint(cfg)
	},
	DisableAutoGenTag: true,
}

var runGridCmd = &cobra.Command{
	Use:   "grid",
	Short: "Run a multi-cell simulation from a gridded netCDF forcing file.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return runGrid(cfg)
	},
	DisableAutoGenTag: true,
}

// loadConfig parses configFile and layers any SNOBAL_*-prefixed
// environment overrides for the handful of numeric run parameters
// that are most commonly tuned per-environment, using spf13/cast to
// coerce the override (always a string, coming from the shell) to
// the field's numeric type, the way inmaputil leans on cast for
// loosely-typed config values.
func loadConfig() (*snobalcfg.Config, error) {
	if configFile == "" {
		return nil, fmt.Errorf("--config is required")
	}
	cfg, err := snobalcfg.Load(configFile)
	if err != nil {
		return nil, err
	}

	if raw := v.Get("datatstepseconds"); raw != nil {
		f, err := cast.ToFloat64E(raw)
		if err != nil {
			return nil, fmt.Errorf("SNOBAL_DATATSTEPSECONDS: %w", err)
		}
		cfg.DataTstepSeconds = f
	}
	if raw := v.Get("maxh2ovol"); raw != nil {
		f, err := cast.ToFloat64E(raw)
		if err != nil {
			return nil, fmt.Errorf("SNOBAL_MAXH2OVOL: %w", err)
		}
		cfg.MaxH2OVol = f
	}
	if raw := v.Get("maxzs0"); raw != nil {
		f, err := cast.ToFloat64E(raw)
		if err != nil {
			return nil, fmt.Errorf("SNOBAL_MAXZS0: %w", err)
		}
		cfg.MaxZS0 = f
	}

	if cfg.LogFile != "" {
		f, err := os.Create(cfg.LogFile)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		log.SetOutput(f)
	}

	return cfg, nil
}

func paramsFromConfig(cfg *snobalcfg.Config) snobal.Params {
	return snobal.Params{
		DataTstepSeconds: cfg.DataTstepSeconds,
		MaxH2OVol:        cfg.MaxH2OVol,
		MaxZS0:           cfg.MaxZS0,
		StopNoSnow:       cfg.StopNoSnow,
		TempsInC:         cfg.TempsInC,
		RelativeHeights:  cfg.RelativeHeights,
		OutFilename:      cfg.OutputPrefix,
	}
}

func measurementHeightsFromConfig(cfg *snobalcfg.Config) snobal.MeasurementHeights {
	return snobal.MeasurementHeights{
		ZU:              cfg.MeasurementHeights.ZU,
		ZT:              cfg.MeasurementHeights.ZT,
		ZG:              cfg.MeasurementHeights.ZG,
		RelativeHeights: cfg.RelativeHeights,
	}
}

func runPoint(cfg *snobalcfg.Config) error {
	params := paramsFromConfig(cfg)
	mh := measurementHeightsFromConfig(cfg)

	table, err := snobal.BuildTimestepTable(params.DataTstepSeconds)
	if err != nil {
		return err
	}

	init := snobal.InitialState{
		Elevation: cfg.Elevation,
		Z0:        cfg.InitialSnow.Z0,
		ZS:        cfg.InitialSnow.ZS,
		Rho:       cfg.InitialSnow.Rho,
		TS0:       cfg.InitialSnow.TS0,
		TS:        cfg.InitialSnow.TS,
		H2OSat:    cfg.InitialSnow.H2OSat,
		Mask:      true,
	}
	cell, err := snobal.NewSnowcoverState(init, mh, params)
	if err != nil {
		return err
	}

	sink, err := output.NewPointCSVSink(cfg.OutputPrefix+".eb.csv", cfg.OutputPrefix+".snow.csv")
	if err != nil {
		return err
	}
	defer sink.Close()

	src, err := forcing.NewPointCSVSource(cfg.ForcingFile, cfg.TempsInC)
	if err != nil {
		return err
	}
	defer src.Close()

	domain := snobal.NewDomain([]*snobal.SnowcoverState{cell}, params, table, sink)
	domain.Log = log

	return driveDomain(domain, src)
}

func runGrid(cfg *snobalcfg.Config) error {
	params := paramsFromConfig(cfg)
	mh := measurementHeightsFromConfig(cfg)

	table, err := snobal.BuildTimestepTable(params.DataTstepSeconds)
	if err != nil {
		return err
	}

	n := cfg.Grid.NY * cfg.Grid.NX
	cells := make([]*snobal.SnowcoverState, n)
	init := snobal.InitialState{
		Elevation: cfg.Elevation,
		Z0:        cfg.InitialSnow.Z0,
		ZS:        cfg.InitialSnow.ZS,
		Rho:       cfg.InitialSnow.Rho,
		TS0:       cfg.InitialSnow.TS0,
		TS:        cfg.InitialSnow.TS,
		H2OSat:    cfg.InitialSnow.H2OSat,
		Mask:      true,
	}
	for i := range cells {
		cell, err := snobal.NewSnowcoverState(init, mh, params)
		if err != nil {
			return err
		}
		cells[i] = cell
	}

	sink := output.NewGriddedNetCDFSink(cfg.OutputPrefix+".eb.nc", cfg.OutputPrefix+".snow.nc",
		cfg.Grid.NY, cfg.Grid.NX, cfg.Grid.NT, cfg.Grid.OutputHrs)
	defer sink.Close()

	src, err := forcing.NewGriddedNetCDFSource(cfg.ForcingFile, cfg.TempsInC)
	if err != nil {
		return err
	}
	defer src.Close()

	domain := snobal.NewDomain(cells, params, table, sink)
	domain.Log = log

	return driveDomain(domain, src)
}

// driveDomain reads successive forcing instants from src and steps
// domain across each interval until src is exhausted, a step fails,
// or StopNoSnow finds every masked cell ablated. It does not check
// the domain's cancellation flag.
func driveDomain(domain *snobal.Domain, src forcing.Source) error {
	prev, _, ok, err := src.Next()
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("forcing source produced no records")
	}

	firstStep := true
	for {
		next, _, ok, err := src.Next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		if err := domain.StepInterval(prev, next, firstStep); err != nil {
			return err
		}
		firstStep = false
		prev = next

		if domain.Params.StopNoSnow && allAblated(domain) {
			log.Info("all cells ablated; stopping early")
			return nil
		}
	}
}

func allAblated(domain *snobal.Domain) bool {
	for _, c := range domain.Cells {
		if c.Mask && c.LayerCount != 0 {
			return false
		}
	}
	return true
}
