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

// This file implements the layer adjustment step (spec §4.6): after
// any mass change, rebuild layer_count, the per-layer thicknesses,
// and redistribute mass/cold content so the invariants in spec §3
// hold. Draining excess liquid water to runoff is a mass-balance
// concern (§4.5.5), not a layer-adjustment one, and lives in mass.go.

// effectiveDensity blends ice and water density by the snowcover's
// current liquid saturation fraction, used to convert mass to a
// physical thickness.
func effectiveDensity(s *SnowcoverState) float64 {
	return rhoIce*(1-s.H2OSat) + rhoWater*s.H2OSat
}

// adjustLayers rebuilds s's layer structure from its current total
// mass and cold content, per spec §4.6.
func adjustLayers(s *SnowcoverState, params Params) error {
	if s.MS < minSnowMass {
		s.RoPredSum += s.H2O
		s.LayerCount = 0
		s.ZS, s.ZS0, s.ZSL = 0, 0, 0
		s.MS, s.MS0, s.MSL = 0, 0, 0
		s.H2O, s.H2OMax = 0, 0
		s.CCS, s.CCS0, s.CCSL = 0, 0, 0
		return nil
	}

	rhoEff := effectiveDensity(s)
	if rhoEff <= 0 {
		rhoEff = rhoIce
	}
	s.ZS = s.MS / rhoEff

	if s.ZS <= params.MaxZS0 {
		s.LayerCount = 1
		s.ZS0 = s.ZS
		s.ZSL = 0
		s.MS0 = s.MS
		s.MSL = 0
		s.CCS0 = s.CCS
		s.CCSL = 0
	} else {
		s.LayerCount = 2
		s.ZS0 = params.MaxZS0
		s.ZSL = s.ZS - params.MaxZS0

		fracSurface := s.ZS0 / s.ZS
		s.MS0 = s.MS * fracSurface
		s.MSL = s.MS - s.MS0
		s.CCS0 = s.CCS * fracSurface
		s.CCSL = s.CCS - s.CCS0
	}

	s.H2OMax = rhoWater * params.MaxH2OVol * (s.ZS - s.MS/rhoIce)
	if s.H2OMax < 0 {
		s.H2OMax = 0
	}
	if s.H2OMax > 0 {
		s.H2OSat = s.H2O / s.H2OMax
	} else {
		s.H2OSat = 0
	}

	deriveTemperatures(s)
	return nil
}

// deriveTemperatures sets T_s_0, T_s_l, T_s from the corresponding
// cold contents, per spec §4.6: T_layer = FREEZE + cc_layer /
// (m_layer * c_ice), capped at FREEZE since cold content is always
// non-positive.
func deriveTemperatures(s *SnowcoverState) {
	s.TS0 = temperatureFromColdContent(s.CCS0, s.MS0)
	if s.LayerCount == 2 {
		s.TSL = temperatureFromColdContent(s.CCSL, s.MSL)
	} else {
		s.TSL = s.TS0
	}
	s.TS = temperatureFromColdContent(s.CCS, s.MS)
}

func temperatureFromColdContent(cc, m float64) float64 {
	if m <= 0 {
		return FREEZE
	}
	t := FREEZE + cc/(m*ceIce)
	if t > FREEZE {
		t = FREEZE
	}
	return t
}
