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
	"fmt"
	"os"
	"time"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
	"github.com/spatialmodel/snobal/snobal"
)

// griddedVariables lists the gridded forcing fields in the layout the
// original isnobal driver split across separate per-variable netCDF
// files (confirmed against ipysnobal.py's force[...] = nc.Dataset(...)
// block): net_solar, thermal, air_temp, vapor_pressure, wind_speed,
// soil_temp, precip_mass, percent_snow, snow_density, precip_temp.
// Here they are read from one file, one variable per name, each
// shaped (time, y, x).
var griddedVariables = []string{
	"net_solar", "thermal", "air_temp", "vapor_pressure", "wind_speed",
	"soil_temp", "precip_mass", "percent_snow", "snow_density", "precip_temp",
}

// GriddedNetCDFSource reads multi-cell forcing from a single netCDF
// file holding one (time, y, x) variable per griddedVariables entry,
// following the teacher's VarGridConfig.LoadCTMData pattern of
// opening with cdf.Open and reading each variable into a
// sparse.DenseArray.
type GriddedNetCDFSource struct {
	f        *os.File
	nc       *cdf.File
	vars     map[string]*sparse.DenseArray
	nt       int
	ny, nx   int
	startHrs float64 // never set by NewGriddedNetCDFSource; always 0
	// startRef is the "hours since" reference, parsed from the time
	// variable's units attribute.
	startRef time.Time
	i        int // next time index to return
	tempsInC bool
}

// NewGriddedNetCDFSource opens path and loads every variable in
// griddedVariables in its entirety; the source then walks the time
// dimension on each call to Next.
func NewGriddedNetCDFSource(path string, tempsInC bool) (*GriddedNetCDFSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	nc, err := cdf.Open(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("forcing: opening gridded netcdf %s: %w", path, err)
	}

	lens := nc.Header.Lengths("air_temp")
	if len(lens) != 3 {
		f.Close()
		return nil, fmt.Errorf("forcing: air_temp has %d dimensions, want 3 (time, y, x)", len(lens))
	}
	nt, ny, nx := lens[0], lens[1], lens[2]

	unitsAttr, _ := nc.Header.GetAttribute("time", "units").(string)
	startRef, err := parseHoursSince(unitsAttr)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("forcing: time units %q: %w", unitsAttr, err)
	}

	vars := make(map[string]*sparse.DenseArray, len(griddedVariables))
	for _, name := range griddedVariables {
		dims := nc.Header.Lengths(name)
		if len(dims) != 3 || dims[0] != nt || dims[1] != ny || dims[2] != nx {
			f.Close()
			return nil, fmt.Errorf("forcing: variable %s has shape %v, want [%d %d %d]", name, dims, nt, ny, nx)
		}
		data := sparse.ZerosDense(dims...)
		tmp := make([]float32, len(data.Elements))
		r := nc.Reader(name, nil, nil)
		if _, err := r.Read(tmp); err != nil {
			f.Close()
			return nil, fmt.Errorf("forcing: reading variable %s: %w", name, err)
		}
		for i, v := range tmp {
			data.Elements[i] = float64(v)
		}
		vars[name] = data
	}

	return &GriddedNetCDFSource{
		f: f, nc: nc, vars: vars,
		nt: nt, ny: ny, nx: nx,
		startRef: startRef, tempsInC: tempsInC,
	}, nil
}

// parseHoursSince parses a CF-style "hours since 2019-01-01T00:00:00"
// units attribute. ipysnobal.py writes the same convention via
// nc.date2num(tstep, 'hours since %s' % start_date).
func parseHoursSince(units string) (time.Time, error) {
	const prefix = "hours since "
	if len(units) <= len(prefix) || units[:len(prefix)] != prefix {
		return time.Time{}, fmt.Errorf("expected prefix %q", prefix)
	}
	ref := units[len(prefix):]
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, ref); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized reference time %q", ref)
}

// Next implements Source, returning one InputRecord per grid cell in
// row-major (y, x) order for the next time step.
func (g *GriddedNetCDFSource) Next() ([]*snobal.InputRecord, time.Time, bool, error) {
	if g.i >= g.nt {
		return nil, time.Time{}, false, nil
	}
	idx := g.i
	g.i++

	n := g.ny * g.nx
	records := make([]*snobal.InputRecord, n)

	cellAt := func(name string, cell int) float64 {
		return g.vars[name].Elements[idx*n+cell]
	}

	for cell := 0; cell < n; cell++ {
		airTemp := cellAt("air_temp", cell)
		soilTemp := cellAt("soil_temp", cell)
		precipTemp := cellAt("precip_temp", cell)
		if g.tempsInC {
			airTemp += snobal.FREEZE
			soilTemp += snobal.FREEZE
			precipTemp += snobal.FREEZE
		}

		rec, err := snobal.NewInputRecord(
			cellAt("net_solar", cell),
			cellAt("thermal", cell),
			airTemp,
			cellAt("vapor_pressure", cell),
			cellAt("wind_speed", cell),
			soilTemp,
			cellAt("precip_mass", cell),
			cellAt("percent_snow", cell),
			cellAt("snow_density", cell),
			precipTemp,
		)
		if err != nil {
			return nil, time.Time{}, false, fmt.Errorf("forcing: cell %d at step %d: %w", cell, idx, err)
		}
		records[cell] = rec
	}

	t := g.startRef.Add(time.Duration(idx) * time.Hour)
	return records, t, true, nil
}

// Close implements Source.
func (g *GriddedNetCDFSource) Close() error { return g.f.Close() }
