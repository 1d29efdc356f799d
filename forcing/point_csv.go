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

package forcing

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spatialmodel/snobal/snobal"
)

// pointCSVColumns is the fixed header for a single-cell forcing file:
// net_solar, incoming_thermal, air_temp, vapor_pressure, wind_speed,
// soil_temp, precip_mass, percent_snow, snow_density, precip_temp,
// each keyed by an RFC3339 timestamp in the first column.
var pointCSVColumns = []string{
	"time", "net_solar", "incoming_thermal", "air_temp", "vapor_pressure",
	"wind_speed", "soil_temp", "precip_mass", "percent_snow", "snow_density", "precip_temp",
}

// PointCSVSource reads single-cell forcing from a CSV file, one row
// per data interval. The original isnobal driver split this across a
// forcing file and a separate precipitation file keyed by timestamp;
// this merges them into one file with a header row, which is simpler
// to validate and is the layout cmd/snobal's `run point` subcommand
// expects.
type PointCSVSource struct {
	f        *os.File
	r        *csv.Reader
	tempsInC bool
}

// NewPointCSVSource opens path and validates its header against
// pointCSVColumns. tempsInC controls whether air_temp, soil_temp, and
// precip_temp are read in Celsius and converted to Kelvin.
func NewPointCSVSource(path string, tempsInC bool) (*PointCSVSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r := csv.NewReader(f)
	r.FieldsPerRecord = len(pointCSVColumns)

	header, err := r.Read()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("forcing: reading point CSV header: %w", err)
	}
	for i, want := range pointCSVColumns {
		if i >= len(header) || header[i] != want {
			f.Close()
			return nil, fmt.Errorf("forcing: point CSV column %d = %q, want %q", i, header[i], want)
		}
	}

	return &PointCSVSource{f: f, r: r, tempsInC: tempsInC}, nil
}

// Next implements Source.
func (s *PointCSVSource) Next() ([]*snobal.InputRecord, time.Time, bool, error) {
	row, err := s.r.Read()
	if err == io.EOF {
		return nil, time.Time{}, false, nil
	}
	if err != nil {
		return nil, time.Time{}, false, fmt.Errorf("forcing: reading point CSV row: %w", err)
	}

	t, err := time.Parse(time.RFC3339, row[0])
	if err != nil {
		return nil, time.Time{}, false, fmt.Errorf("forcing: parsing timestamp %q: %w", row[0], err)
	}

	vals := make([]float64, len(row)-1)
	for i, cell := range row[1:] {
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, time.Time{}, false, fmt.Errorf("forcing: parsing column %q: %w", pointCSVColumns[i+1], err)
		}
		vals[i] = v
	}

	netSolar, incomingThermal, airTemp, vaporPressure := vals[0], vals[1], vals[2], vals[3]
	windSpeed, soilTemp := vals[4], vals[5]
	precipMass, percentSnow, snowDensity, precipTemp := vals[6], vals[7], vals[8], vals[9]

	if s.tempsInC {
		airTemp += snobal.FREEZE
		soilTemp += snobal.FREEZE
		precipTemp += snobal.FREEZE
	}

	rec, err := snobal.NewInputRecord(netSolar, incomingThermal, airTemp, vaporPressure, windSpeed, soilTemp,
		precipMass, percentSnow, snowDensity, precipTemp)
	if err != nil {
		return nil, time.Time{}, false, err
	}

	return []*snobal.InputRecord{rec}, t, true, nil
}

// Close implements Source.
func (s *PointCSVSource) Close() error { return s.f.Close() }
