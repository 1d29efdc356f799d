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

// FREEZE is the reference melting temperature of water, in Kelvin.
// The model's internal temperature unit is always Kelvin; the
// temps_in_C option only affects values at the external boundary
// (construction and output).
const FREEZE = 273.16

// Physical constants used throughout the energy and mass balance.
// These mirror the "snobal" C model's constants; they are never
// mutated after package init.
const (
	stefanBoltzmann = 5.67032e-8 // W/(m^2 K^4)
	vonKarman       = 0.41       // dimensionless

	gravity   = 9.80665 // m/s^2
	gasConst  = 8.3145  // J/(mol K), universal gas constant
	molWeight = 0.029   // kg/mol, molecular weight of dry air
	rGas      = gasConst / molWeight

	ceIce   = 2100.0 // J/(kg K), specific heat of ice
	ceWater = 4186.0 // J/(kg K), specific heat of water
	ceAir   = 1006.0 // J/(kg K), specific heat of air at constant pressure

	rhoIce   = 917.0  // kg/m^3, density of ice
	rhoWater = 1000.0 // kg/m^3, density of water

	lhFusion = 3.34e5 // J/kg, latent heat of fusion of water at 0C

	snowEmissivity = 0.98 // dimensionless, longwave emissivity of snow

	seaLevelPressure = 101325.0 // Pa, standard atmosphere at sea level

	// minSnowMass is the tolerance below which a snowcover is
	// considered absent; layer_count drops to 0 and any remaining
	// liquid water is dumped to runoff.
	minSnowMass = 0.001 // kg/m^2

	// massBalanceTolerance bounds how far a mass-conservation check may
	// drift (relatively) before it is treated as an Invariant violation.
	massBalanceTolerance = 1e-6
)
