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

import "math"

// Params carries the run-wide configuration the core needs (spec §6
// constructor inputs). It never changes after construction.
type Params struct {
	DataTstepSeconds float64
	MaxH2OVol        float64 // void-fraction capacity for liquid water
	MaxZS0           float64 // m, cap on surface layer thickness
	StopNoSnow       bool
	TempsInC         bool
	RelativeHeights  bool
	OutFilename      string
}

// MeasurementHeights carries the site instrument geometry (spec §6).
type MeasurementHeights struct {
	ZU              float64
	ZT              float64
	Z0              float64
	ZG              float64
	RelativeHeights bool
}

// InitialState is the per-cell initial condition a SnowcoverState is
// built from (spec §6). Missing (zero) fields default sensibly: Mask
// defaults to true, handled by the caller building the slice.
type InitialState struct {
	Elevation float64
	Z0        float64
	ZS        float64
	Rho       float64
	TS0       float64
	TS        float64
	H2OSat    float64
	Mask      bool
}

// SnowcoverState holds one cell's snowcover: geometry, mass,
// temperature, liquid water, cold content, roughness, and the
// time-weighted accumulators consumed by output (spec §3).
type SnowcoverState struct {
	// Geometry.
	ZS         float64
	ZS0        float64
	ZSL        float64
	LayerCount int

	// Mass.
	MS     float64
	MS0    float64
	MSL    float64
	Rho    float64
	H2O    float64
	H2OMax float64
	H2OSat float64

	// Temperature (Kelvin, always, regardless of Params.TempsInC).
	TS0  float64
	TSL  float64
	TS   float64
	CCS0 float64
	CCSL float64
	CCS  float64

	// Roughness and site geometry.
	Z0              float64
	Elevation       float64
	ZU              float64
	ZT              float64
	ZG              float64
	RelativeHeights bool

	// Accumulators, reset at each output (spec §3, §4.5.6).
	RNBar        float64
	HBar         float64
	LvEBar       float64
	GBar         float64
	G0Bar        float64
	MBar         float64
	DeltaQBar    float64
	DeltaQ0Bar   float64
	EsSum        float64
	MeltSum      float64
	RoPredSum    float64
	TimeSinceOut float64
	CurrentTime  float64

	// Run state.
	PrecipNow bool
	Mask      bool
}

// NewSnowcoverState builds a cell's initial snowcover from an
// InitialState and the measurement heights, applying the temps_in_C
// conversion and deriving layer structure, mass, and cold content so
// that the invariants in spec §3 hold from the first interval.
func NewSnowcoverState(init InitialState, mh MeasurementHeights, params Params) (*SnowcoverState, error) {
	ts0, ts := init.TS0, init.TS
	if params.TempsInC {
		ts0 += FREEZE
		ts += FREEZE
	}

	s := &SnowcoverState{
		Rho:             init.Rho,
		H2OSat:          init.H2OSat,
		Z0:              init.Z0,
		Elevation:       init.Elevation,
		ZU:              mh.ZU,
		ZT:              mh.ZT,
		ZG:              mh.ZG,
		RelativeHeights: mh.RelativeHeights,
		Mask:            init.Mask,
		TS0:             ts0,
		TS:              ts,
	}

	if init.ZS > 0 && init.Rho > 0 {
		s.MS = init.Rho * init.ZS
	}
	// Seed the bulk cold content from the given bulk temperature; the
	// layer split below redistributes it proportionally by thickness.
	// The given T_s_0 is not used for this: adjustLayers derives T_s_0
	// (and T_s_l) from the split cold content, so every layer starts at
	// the bulk temperature T_s.
	s.CCS = s.MS * ceIce * (ts - FREEZE)

	if err := adjustLayers(s, params); err != nil {
		return nil, err
	}

	s.H2OSat = init.H2OSat
	s.H2O = init.H2OSat * s.H2OMax

	return s, nil
}

// Validate checks the layer invariants from spec §3 and returns an
// Invariant error naming the first one that fails.
func (s *SnowcoverState) Validate(cell int, t float64) error {
	const tol = 1e-6

	switch s.LayerCount {
	case 0:
		if s.MS != 0 || s.MS0 != 0 || s.MSL != 0 || s.ZS != 0 || s.ZS0 != 0 ||
			s.ZSL != 0 || s.H2O != 0 || s.CCS != 0 || s.CCS0 != 0 || s.CCSL != 0 {
			return newError(Invariant, cell, t, "layer_count=0 requires all mass/geometry/cc fields zero", nil)
		}
	case 1:
		if s.ZSL != 0 || s.MSL != 0 || s.CCSL != 0 {
			return newError(Invariant, cell, t, "layer_count=1 requires zero lower-layer fields", nil)
		}
		if math.Abs(s.ZS-s.ZS0) > tol || math.Abs(s.MS-s.MS0) > tol || math.Abs(s.CCS-s.CCS0) > tol {
			return newError(Invariant, cell, t, "layer_count=1 requires surface fields to equal bulk fields", nil)
		}
	case 2:
		if s.ZS0 > s.ZS || s.ZSL <= 0 {
			return newError(Invariant, cell, t, "layer_count=2 requires 0 < z_s_l and z_s_0 <= z_s", nil)
		}
	default:
		return newError(Invariant, cell, t, "layer_count out of range", nil)
	}

	if math.Abs(s.MS-(s.MS0+s.MSL)) > tol {
		return newError(Invariant, cell, t, "m_s != m_s_0 + m_s_l", nil)
	}
	if s.LayerCount > 0 && s.ZS > 0 {
		rhoEff := effectiveDensity(s)
		if math.Abs(s.MS-rhoEff*s.ZS) > 1e-3*math.Max(s.MS, 1) {
			return newError(Invariant, cell, t, "m_s inconsistent with rho*z_s", nil)
		}
	}
	if s.H2O < -tol || s.H2O > s.H2OMax+tol {
		return newError(Invariant, cell, t, "h2o out of [0, h2o_max] bounds", nil)
	}
	if s.CCS0 > tol || s.CCSL > tol {
		return newError(Invariant, cell, t, "cold content must be non-positive", nil)
	}
	if math.Abs(s.CCS-(s.CCS0+s.CCSL)) > tol {
		return newError(Invariant, cell, t, "cc_s != cc_s_0 + cc_s_l", nil)
	}
	return nil
}

// Snapshot returns a copy of s suitable for the adaptive engine's
// save/restore stack (spec §4.7): SnowcoverState has no pointer or
// slice fields, so a plain value copy is a deep copy.
func (s *SnowcoverState) Snapshot() SnowcoverState {
	return *s
}

// Restore overwrites s with a previously taken Snapshot.
func (s *SnowcoverState) Restore(snap SnowcoverState) {
	*s = snap
}
