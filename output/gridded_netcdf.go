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

package output

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
	"github.com/spatialmodel/snobal/snobal"
)

// griddedVariable pairs a variable name with its units and
// description, following the {units, description} list convention
// ipysnobal.py builds for its em.nc/snow.nc outputs.
type griddedVariable struct {
	name, units, description string
}

var griddedEnergyBalanceVars = []griddedVariable{
	{"net_rad", "W m-2", "Average net all-wave radiation"},
	{"sensible_heat", "W m-2", "Average sensible heat transfer"},
	{"latent_heat", "W m-2", "Average latent heat exchange"},
	{"snow_soil", "W m-2", "Average snow/soil heat exchange"},
	{"precip_advected", "W m-2", "Average advected heat from precipitation"},
	{"sum_eb", "W m-2", "Average sum of energy balance terms"},
	{"evaporation", "kg m-2", "Total evaporation or condensation"},
	{"snowmelt", "kg m-2", "Total melt"},
	{"swi", "kg or mm m-2", "Total predicted runoff"},
	{"cold_content", "J m-2", "Snowcover cold content"},
}

var griddedSnowcoverVars = []griddedVariable{
	{"thickness", "m", "Predicted thickness of the snowcover"},
	{"snow_density", "kg m-3", "Predicted average snow density"},
	{"specific_mass", "kg m-2", "Predicted specific mass of the snowcover"},
	{"liquid_water", "kg m-2", "Predicted liquid water content of the snowcover"},
	{"temp_surf", "C", "Predicted temperature of the surface layer"},
	{"temp_lower", "C", "Predicted temperature of the lower layer"},
	{"temp_snowcover", "C", "Predicted temperature of the snowcover"},
	{"thickness_lower", "m", "Predicted thickness of the lower layer"},
	{"water_saturation_percent", "percent", "Percent liquid water saturation"},
}

// GriddedNetCDFSink accumulates every cell's output samples into
// (time, y, x) arrays in memory, and writes them to ebPath/scPath on
// Close, following the teacher's CTMData.Write pattern: build the
// header with cdf.NewHeader, declare each variable, cdf.Create, then
// write each variable's full array with the same writeNCF helper
// vargrid.go uses.
//
// Cells fill in at whatever time index their TimeHrs maps to; the
// domain is assumed to emit at a constant output interval so indices
// never collide across goroutines writing distinct cells.
type GriddedNetCDFSink struct {
	mu         sync.Mutex
	ebPath     string
	scPath     string
	ny, nx, nt int
	outputHrs  float64 // spacing between output samples, in hours

	eb map[string]*sparse.DenseArray
	sc map[string]*sparse.DenseArray
}

// NewGriddedNetCDFSink preallocates (nt, ny, nx) arrays for every
// output variable. outputHrs is the spacing between emitted samples,
// used to map a record's TimeHrs to a time index.
func NewGriddedNetCDFSink(ebPath, scPath string, ny, nx, nt int, outputHrs float64) *GriddedNetCDFSink {
	eb := make(map[string]*sparse.DenseArray, len(griddedEnergyBalanceVars))
	for _, v := range griddedEnergyBalanceVars {
		eb[v.name] = sparse.ZerosDense(nt, ny, nx)
	}
	sc := make(map[string]*sparse.DenseArray, len(griddedSnowcoverVars))
	for _, v := range griddedSnowcoverVars {
		sc[v.name] = sparse.ZerosDense(nt, ny, nx)
	}
	return &GriddedNetCDFSink{
		ebPath: ebPath, scPath: scPath,
		ny: ny, nx: nx, nt: nt, outputHrs: outputHrs,
		eb: eb, sc: sc,
	}
}

func (g *GriddedNetCDFSink) timeIndex(timeHrs float64) int {
	if g.outputHrs <= 0 {
		return 0
	}
	idx := int(timeHrs/g.outputHrs + 0.5)
	if idx < 0 {
		idx = 0
	}
	if idx >= g.nt {
		idx = g.nt - 1
	}
	return idx
}

func (g *GriddedNetCDFSink) set(arr *sparse.DenseArray, timeIdx, cell int, v float64) {
	n := g.ny * g.nx
	arr.Elements[timeIdx*n+cell] = v
}

// WriteEnergyBalance implements snobal.Sink.
func (g *GriddedNetCDFSink) WriteEnergyBalance(r snobal.EnergyBalanceRecord) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	idx := g.timeIndex(r.TimeHrs)
	g.set(g.eb["net_rad"], idx, r.Cell, r.NetRad)
	g.set(g.eb["sensible_heat"], idx, r.Cell, r.SensibleHeat)
	g.set(g.eb["latent_heat"], idx, r.Cell, r.LatentHeat)
	g.set(g.eb["snow_soil"], idx, r.Cell, r.SnowSoil)
	g.set(g.eb["precip_advected"], idx, r.Cell, r.PrecipAdvected)
	g.set(g.eb["sum_eb"], idx, r.Cell, r.SumEB)
	g.set(g.eb["evaporation"], idx, r.Cell, r.Evaporation)
	g.set(g.eb["snowmelt"], idx, r.Cell, r.Snowmelt)
	g.set(g.eb["swi"], idx, r.Cell, r.SWI)
	g.set(g.eb["cold_content"], idx, r.Cell, r.ColdContent)
	return nil
}

// WriteSnowcover implements snobal.Sink.
func (g *GriddedNetCDFSink) WriteSnowcover(r snobal.SnowcoverRecord) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	idx := g.timeIndex(r.TimeHrs)
	g.set(g.sc["thickness"], idx, r.Cell, r.Thickness)
	g.set(g.sc["snow_density"], idx, r.Cell, r.SnowDensity)
	g.set(g.sc["specific_mass"], idx, r.Cell, r.SpecificMass)
	g.set(g.sc["liquid_water"], idx, r.Cell, r.LiquidWater)
	g.set(g.sc["temp_surf"], idx, r.Cell, r.TempSurf)
	g.set(g.sc["temp_lower"], idx, r.Cell, r.TempLower)
	g.set(g.sc["temp_snowcover"], idx, r.Cell, r.TempSnowcover)
	g.set(g.sc["thickness_lower"], idx, r.Cell, r.ThicknessLower)
	g.set(g.sc["water_saturation_percent"], idx, r.Cell, r.WaterSaturationPercent)
	return nil
}

// Close writes both accumulated netCDF files and releases their
// memory. It must be called exactly once, after the domain has
// finished.
func (g *GriddedNetCDFSink) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := writeGriddedFile(g.ebPath, g.nt, g.ny, g.nx, griddedEnergyBalanceVars, g.eb); err != nil {
		return fmt.Errorf("output: writing %s: %w", g.ebPath, err)
	}
	if err := writeGriddedFile(g.scPath, g.nt, g.ny, g.nx, griddedSnowcoverVars, g.sc); err != nil {
		return fmt.Errorf("output: writing %s: %w", g.scPath, err)
	}
	return nil
}

func writeGriddedFile(path string, nt, ny, nx int, vars []griddedVariable, data map[string]*sparse.DenseArray) error {
	w, err := os.Create(path)
	if err != nil {
		return err
	}
	defer w.Close()

	h := cdf.NewHeader([]string{"time", "y", "x"}, []int{nt, ny, nx})
	h.AddAttribute("", "comment", "Snobal simulation output")

	names := make([]string, 0, len(vars))
	for _, v := range vars {
		names = append(names, v.name)
	}
	sort.Strings(names)

	byName := make(map[string]griddedVariable, len(vars))
	for _, v := range vars {
		byName[v.name] = v
	}

	for _, name := range names {
		v := byName[name]
		h.AddVariable(name, []string{"time", "y", "x"}, []float32{0})
		h.AddAttribute(name, "description", v.description)
		h.AddAttribute(name, "units", v.units)
	}
	h.Define()

	f, err := cdf.Create(w, h)
	if err != nil {
		return err
	}
	for _, name := range names {
		if err := writeNCF(f, name, data[name]); err != nil {
			return fmt.Errorf("writing variable %s: %w", name, err)
		}
	}
	return cdf.UpdateNumRecs(w)
}

// writeNCF writes the full contents of data into the already-defined
// variable Var in f, converting to float32 (adapted from the
// teacher's vargrid.go helper of the same name).
func writeNCF(f *cdf.File, varName string, data *sparse.DenseArray) error {
	n := 1
	for _, v := range data.Shape {
		n *= v
	}
	if len(data.Elements) != n {
		return fmt.Errorf("dims are %d but array length is %d", n, len(data.Elements))
	}
	data32 := make([]float32, len(data.Elements))
	for i, e := range data.Elements {
		data32[i] = float32(e)
	}
	end := f.Header.Lengths(varName)
	start := make([]int, len(end))
	wr := f.Writer(varName, start, end)
	_, err := wr.Write(data32)
	return err
}
