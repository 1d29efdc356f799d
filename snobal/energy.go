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

// soilConductivity is a representative thermal conductivity for moist
// mineral soil, W/(m K). The spec does not model soil texture; this
// is the one ambient assumption the energy balance needs to evaluate
// ssxfr at the soil/snow interface.
const soilConductivity = 0.8

// EnergyBalance holds the fluxes computed for one substep (spec
// §4.4), all in W/m^2 except UStar (m/s).
type EnergyBalance struct {
	RN      float64
	H       float64
	LvE     float64
	UStar   float64
	G       float64
	G0      float64
	M       float64
	DeltaQ  float64
	DeltaQ0 float64
}

// computeEnergyBalance evaluates the surface and soil-interface heat
// fluxes for s given the instantaneous forcing in, the precipitation
// mass deposited this substep (mSnow, mRain, at temperatures TSnow,
// TRain), and the substep duration dt (seconds, used to turn the
// deposited precip enthalpy into a flux).
//
// If s.LayerCount is 0 all fluxes are zero and the energy balance is
// bypassed, per spec §4.4.
func computeEnergyBalance(s *SnowcoverState, in *InputRecord, mSnow, mRain, tSnow, tRain, dt float64) (EnergyBalance, error) {
	if s.LayerCount == 0 {
		return EnergyBalance{}, nil
	}

	var eb EnergyBalance

	eb.RN = in.NetSolar + (in.IncomingThermal - stefanBoltzmann*math.Pow(s.TS0, 4)*snowEmissivity)

	// The snow surface is assumed to behave as a saturated ice surface.
	eS, err := sati(s.TS0)
	if err != nil {
		return eb, err
	}

	// When measurement heights are given relative to the snow surface
	// (spec §11), hle1/ssxfr need them as heights above the ground, so
	// the current snowpack thickness is added back in here.
	zu, zt, zg := s.ZU, s.ZT, s.ZG
	if s.RelativeHeights {
		zu += s.ZS
		zt += s.ZS
		zg += s.ZS
	}

	H, LvE, uStar, err := hle1(zu, zt, s.Z0, in.WindSpeed, in.AirTemp, s.TS0, in.VaporPressure, eS, seaLevelPressure)
	if err != nil {
		return eb, err
	}
	eb.H, eb.LvE, eb.UStar = H, LvE, uStar

	kSnow := thermalConductivitySnow(s.Rho)
	kSoil := efcon(soilConductivity, in.SoilTemp, in.VaporPressure)

	switch s.LayerCount {
	case 2:
		dzSoilToLower := zg/2 + s.ZSL/2
		eb.G = ssxfr(kSnow, kSoil, s.TSL, in.SoilTemp, dzSoilToLower)
		dzSurfaceToLower := s.ZS0/2 + s.ZSL/2
		eb.G0 = ssxfr(kSnow, kSnow, s.TS0, s.TSL, dzSurfaceToLower)
	case 1:
		dz := zg/2 + s.ZS0/2
		flux := ssxfr(kSnow, kSoil, s.TS0, in.SoilTemp, dz)
		eb.G, eb.G0 = flux, flux
	}

	if in.PrecipNow && dt > 0 {
		eb.M = (mSnow*specificHeatIce(tSnow)*(tSnow-s.TS0) +
			mRain*specificHeatWater(tRain)*(tRain-s.TS0)) / dt
	}

	eb.DeltaQ = eb.RN + eb.H + eb.LvE + eb.G + eb.M
	eb.DeltaQ0 = eb.RN + eb.H + eb.LvE + eb.G0 + eb.M

	return eb, nil
}
