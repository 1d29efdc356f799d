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

// Package output holds concrete snobal.Sink implementations: a
// single-cell pair of CSV files, one per output record schema (the
// column lists below, temperatures always in Celsius), and a gridded
// netCDF pair matching ipysnobal's em.nc/snow.nc convention. The CSV
// sink does not write a single combined row of energy-balance and
// layer-state fields, and does not switch temperature units with
// temps_in_C.
package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/spatialmodel/snobal/snobal"
)

var energyBalanceColumns = []string{
	"time_hrs", "net_rad", "sensible_heat", "latent_heat", "snow_soil",
	"precip_advected", "sum_eb", "evaporation", "snowmelt", "swi", "cold_content",
}

var snowcoverColumns = []string{
	"time_hrs", "thickness", "snow_density", "specific_mass", "liquid_water",
	"temp_surf", "temp_lower", "temp_snowcover", "thickness_lower", "water_saturation_percent",
}

// PointCSVSink writes the two output schemas (spec §6) to a pair of
// CSV files, one row per emitted sample, for a single cell. Multiple
// cells sharing one PointCSVSink are serialized with a mutex, since
// the domain may advance distinct cells concurrently.
type PointCSVSink struct {
	mu      sync.Mutex
	ebFile  *os.File
	scFile  *os.File
	ebWr    *csv.Writer
	scWr    *csv.Writer
}

// NewPointCSVSink creates ebPath and scPath, writing their headers.
func NewPointCSVSink(ebPath, scPath string) (*PointCSVSink, error) {
	ebFile, err := os.Create(ebPath)
	if err != nil {
		return nil, err
	}
	scFile, err := os.Create(scPath)
	if err != nil {
		ebFile.Close()
		return nil, err
	}

	ebWr := csv.NewWriter(ebFile)
	scWr := csv.NewWriter(scFile)
	if err := ebWr.Write(energyBalanceColumns); err != nil {
		ebFile.Close()
		scFile.Close()
		return nil, fmt.Errorf("output: writing energy balance header: %w", err)
	}
	if err := scWr.Write(snowcoverColumns); err != nil {
		ebFile.Close()
		scFile.Close()
		return nil, fmt.Errorf("output: writing snowcover header: %w", err)
	}

	return &PointCSVSink{ebFile: ebFile, scFile: scFile, ebWr: ebWr, scWr: scWr}, nil
}

func f64(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

// WriteEnergyBalance implements snobal.Sink.
func (s *PointCSVSink) WriteEnergyBalance(r snobal.EnergyBalanceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row := []string{
		f64(r.TimeHrs), f64(r.NetRad), f64(r.SensibleHeat), f64(r.LatentHeat), f64(r.SnowSoil),
		f64(r.PrecipAdvected), f64(r.SumEB), f64(r.Evaporation), f64(r.Snowmelt), f64(r.SWI), f64(r.ColdContent),
	}
	if err := s.ebWr.Write(row); err != nil {
		return err
	}
	s.ebWr.Flush()
	return s.ebWr.Error()
}

// WriteSnowcover implements snobal.Sink.
func (s *PointCSVSink) WriteSnowcover(r snobal.SnowcoverRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row := []string{
		f64(r.TimeHrs), f64(r.Thickness), f64(r.SnowDensity), f64(r.SpecificMass), f64(r.LiquidWater),
		f64(r.TempSurf), f64(r.TempLower), f64(r.TempSnowcover), f64(r.ThicknessLower), f64(r.WaterSaturationPercent),
	}
	if err := s.scWr.Write(row); err != nil {
		return err
	}
	s.scWr.Flush()
	return s.scWr.Error()
}

// Close flushes and closes both underlying files.
func (s *PointCSVSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ebWr.Flush()
	s.scWr.Flush()
	err1 := s.ebFile.Close()
	err2 := s.scFile.Close()
	if err1 != nil {
		return err1
	}
	return err2
}
