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

// InputRecord holds one instant of atmospheric and precipitation
// forcing for a single cell, plus the precipitation partitioning and
// saturation vapor pressures derived from it at construction time.
//
// An InputRecord is immutable once built: spec §9 calls for the
// sat_vp lazy-cache to be "replaced wholesale" rather than mutated in
// place, so NewInputRecord does all of the derivation up front. The
// adaptive engine's per-substep records (forcingCursor.asInput in
// domain.go) are built as literals instead and carry only the
// continuous forcing and PrecipNow, without the derived fields.
type InputRecord struct {
	// Continuous forcing.
	NetSolar        float64
	IncomingThermal float64
	AirTemp         float64 // K
	VaporPressure   float64 // Pa
	WindSpeed       float64 // m/s
	SoilTemp        float64 // K

	// Precipitation instant, as given.
	PrecipMass  float64 // kg/m^2
	PercentSnow float64 // fraction in [0,1]
	SnowDensity float64 // kg/m^3
	PrecipTemp  float64 // K

	// Derived precipitation partitioning (spec §4.2).
	MSnow      float64 // kg/m^2, snow fraction of precip_mass
	MRain      float64 // kg/m^2, rain fraction of precip_mass
	ZSnow      float64 // m, depth of deposited snow
	TSnow      float64 // K, temperature to deposit snow at
	TRain      float64 // K, temperature to deposit rain at
	H2oSatSnow float64 // fraction, saturation of deposited snow
	PrecipNow  bool

	// Cached saturation vapor pressures, computed once here instead of
	// recomputed every time the energy balance reads them.
	satVPAir  float64
	satVPSoil float64
}

// NewInputRecord derives precipitation partitioning and caches
// saturation vapor pressure for the given forcing instant, per spec
// §4.2. It fails with InvalidPrecip if percent_snow indicates snow is
// falling but no snow density is given.
func NewInputRecord(netSolar, incomingThermal, airTemp, vaporPressure, windSpeed, soilTemp,
	precipMass, percentSnow, snowDensity, precipTemp float64) (*InputRecord, error) {

	r := &InputRecord{
		NetSolar:        netSolar,
		IncomingThermal: incomingThermal,
		AirTemp:         airTemp,
		VaporPressure:   vaporPressure,
		WindSpeed:       windSpeed,
		SoilTemp:        soilTemp,
		PrecipMass:      precipMass,
		PercentSnow:     percentSnow,
		SnowDensity:     snowDensity,
		PrecipTemp:      precipTemp,
		TSnow:           precipTemp,
		TRain:           precipTemp,
	}

	r.MSnow = precipMass * percentSnow
	r.MRain = precipMass - r.MSnow
	r.PrecipNow = precipMass > 0

	if r.PrecipNow {
		if r.MSnow > 0 {
			if snowDensity <= 0 {
				return nil, newError(InvalidPrecip, -1, 0,
					"percent_snow > 0 requires snow_density > 0", nil)
			}
			r.ZSnow = r.MSnow / snowDensity
		}
		if r.MRain > 0 && precipTemp < FREEZE {
			r.PrecipTemp = FREEZE
			r.TRain = FREEZE
		}

		switch {
		case r.MSnow > 0 && r.MRain > 0:
			// Mixed precipitation.
			r.TSnow = FREEZE
			r.H2oSatSnow = 1
			r.TRain = r.PrecipTemp
		case r.MSnow > 0 && precipTemp < FREEZE:
			// Snow only, cold: deposits at the air/precip temperature,
			// dry.
			r.TSnow = precipTemp
			r.H2oSatSnow = 0
		case r.MSnow > 0:
			// Snow only, warm: deposits at FREEZE, saturated.
			r.TSnow = FREEZE
			r.H2oSatSnow = 1
		default:
			// Rain only.
			r.TRain = r.PrecipTemp
		}
	}

	satAir, err := sati(airTemp)
	if err != nil {
		return nil, err
	}
	satSoil, err := sati(soilTemp)
	if err != nil {
		return nil, err
	}
	r.satVPAir = satAir
	r.satVPSoil = satSoil

	return r, nil
}

// SatVPAir returns the saturation vapor pressure, Pa, cached for
// AirTemp at construction time.
func (r *InputRecord) SatVPAir() float64 { return r.satVPAir }

// SatVPSoil returns the saturation vapor pressure, Pa, cached for
// SoilTemp at construction time.
func (r *InputRecord) SatVPSoil() float64 { return r.satVPSoil }
