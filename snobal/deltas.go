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

package snobal

import "gonum.org/v1/gonum/floats"

// nContinuous is the count of continuous forcing variables that get a
// linear per-substep increment. Order matches continuousSlice.
const nContinuous = 6

// LevelDeltas holds the per-substep increments for one timestep level
// (spec §3/§4.3): a linear share of the data-interval's change for
// each continuous variable, and an even share of the deposited
// precipitation quanta.
type LevelDeltas struct {
	NetSolar        float64
	IncomingThermal float64
	AirTemp         float64
	VaporPressure   float64
	WindSpeed       float64
	SoilTemp        float64

	PrecipMass float64
	MSnow      float64
	MRain      float64
	ZSnow      float64
}

// InputDeltas holds, for each of the three substep levels (normal,
// medium, small), the linear increments used to interpolate between
// input1 and input2 over a data interval, plus the classification
// constants copied unchanged from input1.
type InputDeltas struct {
	Levels [4]LevelDeltas // indexed by Level; LevelData is unused

	TSnow      float64
	TRain      float64
	H2oSatSnow float64
	PrecipNow  bool
}

func continuousSlice(r *InputRecord) []float64 {
	return []float64{
		r.NetSolar, r.IncomingThermal, r.AirTemp,
		r.VaporPressure, r.WindSpeed, r.SoilTemp,
	}
}

func setContinuous(d *LevelDeltas, v []float64) {
	d.NetSolar, d.IncomingThermal, d.AirTemp = v[0], v[1], v[2]
	d.VaporPressure, d.WindSpeed, d.SoilTemp = v[3], v[4], v[5]
}

// NewInputDeltas computes the per-level increments needed to step a
// cell's forcing from input1 to input2 over the data interval
// described by table. table must have been built by
// BuildTimestepTable so that level[L].Intervals is the substep count
// for each of normal/medium/small.
func NewInputDeltas(input1, input2 *InputRecord, table [4]TimestepLevel) *InputDeltas {
	d := &InputDeltas{
		TSnow:      input1.TSnow,
		TRain:      input1.TRain,
		H2oSatSnow: input1.H2oSatSnow,
		PrecipNow:  input1.PrecipNow,
	}

	v1 := continuousSlice(input1)
	v2 := continuousSlice(input2)
	diff := make([]float64, nContinuous)
	floats.SubTo(diff, v2, v1)

	cumulative := 1.0
	for _, level := range [3]Level{LevelNormal, LevelMedium, LevelSmall} {
		// N_L (spec §4.3) is the number of level-L substeps per data
		// interval: the product of this level's own Intervals with
		// every ancestor level's Intervals down to NORMAL, not this
		// level's Intervals alone, since each level's Intervals counts
		// substeps of its parent, not of the data interval.
		cumulative *= float64(table[level].Intervals)
		n := cumulative

		perSubstep := make([]float64, nContinuous)
		copy(perSubstep, diff)
		floats.Scale(1/n, perSubstep)
		setContinuous(&d.Levels[level], perSubstep)

		d.Levels[level].PrecipMass = input1.PrecipMass / n
		d.Levels[level].MSnow = input1.MSnow / n
		d.Levels[level].MRain = input1.MRain / n
		d.Levels[level].ZSnow = input1.ZSnow / n
	}

	return d
}
