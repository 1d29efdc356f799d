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

// This file holds the thermo kernels: pure, side-effect-free functions
// of scalar inputs with no dependency on Cell/Domain state. They are
// the leaves of the dependency graph (spec §4.1) and are exercised
// directly from the energy and mass balance layers.

// Stability is the kind of Monin-Obukhov stability correction psi
// computes.
type Stability int

const (
	// StabilityMomentum selects the momentum profile correction.
	StabilityMomentum Stability = iota
	// StabilityHeat selects the heat/vapor profile correction.
	StabilityHeat
)

// sati returns the saturation vapor pressure in Pa for a given
// absolute temperature in Kelvin. Below freezing it uses the Wexler
// (1977) formulation for vapor pressure over ice; at or above freezing
// there is no ice surface to saturate over, so it switches to the
// Wexler (1976) formulation for vapor pressure over water.
//
// sati fails with a DomainError if t is not a positive absolute
// temperature.
func sati(t float64) (float64, error) {
	if t <= 0 {
		return 0, newError(DomainError, -1, 0,
			"sati: temperature must be a positive absolute temperature (K)", nil)
	}
	if t < FREEZE {
		return satVPIce(t), nil
	}
	return satVPWater(t), nil
}

// satVPIce is the Wexler (1977) saturation vapor pressure over ice, Pa.
func satVPIce(t float64) float64 {
	logEs := -0.56745359e4/t + 0.63925247e1 - 0.96778430e-2*t +
		0.62215701e-6*t*t + 0.20747825e-8*t*t*t -
		0.94840240e-12*t*t*t*t + 0.41635019e1*math.Log(t)
	return math.Exp(logEs)
}

// satVPWater is the Wexler (1976) saturation vapor pressure over
// liquid water, Pa.
func satVPWater(t float64) float64 {
	logEs := -0.58002206e4/t + 0.13914993e1 - 0.48640239e-1*t +
		0.41764768e-4*t*t - 0.14452093e-7*t*t*t +
		0.65459673e1*math.Log(t)
	return math.Exp(logEs)
}

// psi is the Businger-Dyer stability correction for the wind/
// temperature/vapor profile, used to adjust the neutral logarithmic
// profile for atmospheric stability. zeta is z/L, the height scaled
// by the Obukhov length.
func psi(zeta float64, kind Stability) float64 {
	if zeta >= 0 {
		// Stable: simple linear correction.
		return -5. * zeta
	}
	switch kind {
	case StabilityMomentum:
		x := math.Pow(1.-16.*zeta, 0.25)
		return 2.*math.Log((1.+x)/2.) + math.Log((1.+x*x)/2.) -
			2.*math.Atan(x) + math.Pi/2.
	default: // StabilityHeat, also used for vapor.
		x := math.Pow(1.-16.*zeta, 0.5)
		return 2. * math.Log((1.+x)/2.)
	}
}

// specificHeatIce is the specific heat capacity of ice, J/(kg K), as a
// function of absolute temperature (it increases slightly with T; see
// Yen, 1981).
func specificHeatIce(t float64) float64 {
	return ceIce + 7.0*(t-FREEZE)
}

// specificHeatWater is the specific heat capacity of liquid water,
// J/(kg K). Water's heat capacity is very nearly constant over the
// range relevant to a snowcover, so this simply returns the constant.
func specificHeatWater(float64) float64 {
	return ceWater
}

// specificHeatAir is the specific heat capacity of air at constant
// pressure, J/(kg K).
func specificHeatAir(float64) float64 {
	return ceAir
}

// latentHeatVaporization returns the latent heat of vaporization of
// water, J/kg, as a function of temperature (Kelvin).
func latentHeatVaporization(t float64) float64 {
	return 2.5e6 - 2370.*(t-FREEZE)
}

// latentHeatFusion returns the latent heat of fusion of water, J/kg.
func latentHeatFusion(float64) float64 {
	return lhFusion
}

// latentHeatSublimation returns the latent heat of sublimation of
// ice, J/kg: the sum of vaporization and fusion.
func latentHeatSublimation(t float64) float64 {
	return latentHeatVaporization(t) + latentHeatFusion(t)
}

// airDensity returns the density of air, kg/m^3, given temperature
// (K) and pressure (Pa), from the ideal gas law.
func airDensity(t, p float64) float64 {
	return p / (rGas * t)
}

// thermalConductivitySnow returns the effective thermal conductivity
// of dry snow, W/(m K), as a function of bulk density (kg/m^3), using
// the density-squared approximation common in snow energy balance
// models (e.g. the Utah Energy Balance and SNTHERM models).
func thermalConductivitySnow(rho float64) float64 {
	return 2.9e-6 * rho * rho
}

// efcon returns the effective thermal conductance of a snow layer,
// W/(m K), given its bare conductive conductivity kSnow, temperature
// t (K), and vapor pressure eA (Pa). It adds the enhancement to
// conduction caused by vapor diffusion through the pore space: vapor
// migrates down its own gradient and releases/absorbs latent heat,
// which acts as an additional parallel heat-transport pathway.
func efcon(kSnow, t, eA float64) float64 {
	const dT = 0.5
	esPlus := satVPSafe(t + dT)
	esMinus := satVPSafe(t - dT)
	desdT := (esPlus - esMinus) / (2 * dT)

	// Vapor diffusivity in snow pore space, scaled from the diffusivity
	// of water vapor in free air by temperature and a tortuosity factor.
	diffusivity := 9.2e-5 * math.Pow(t/FREEZE, 6)

	kVapor := latentHeatSublimation(t) * diffusivity * desdT
	_ = eA // vapor pressure sets the operating point but the slope
	// dominates the enhancement; eA is retained in the signature to
	// match the documented interface and for callers who want to bias
	// the enhancement by relative humidity in the future.
	return kSnow + kVapor
}

// satVPSafe is sati without the domain guard, for internal callers
// that already know t is a reasonable offset from a validated
// temperature (e.g. the finite-difference probe in efcon).
func satVPSafe(t float64) float64 {
	if t < FREEZE {
		return satVPIce(t)
	}
	return satVPWater(t)
}

// ssxfr computes the conductive heat flux, W/m^2, between two
// sublayers separated by distance dz (m), given each sublayer's
// thermal conductivity and temperature. The flux is positive when
// heat flows from the lower layer into the upper layer (tLower >
// tUpper), matching the "soil warms the snow" convention used for the
// soil/snow interface flux G.
func ssxfr(kUpper, kLower, tUpper, tLower, dz float64) float64 {
	if dz <= 0 {
		return 0
	}
	k := harmonicMean(kUpper, kLower)
	return k * (tLower - tUpper) / dz
}

func harmonicMean(a, b float64) float64 {
	if a+b == 0 {
		return 0
	}
	return 2. * a * b / (a + b)
}

// hle1 iteratively solves the surface-layer similarity equations for
// sensible heat flux H (W/m^2), latent heat flux LvE (W/m^2), and
// friction velocity uStar (m/s), given measurement heights for wind
// (zU), temperature/vapor (zT), the roughness length z0, wind speed u
// (m/s), air and surface temperatures Ta/Ts (K), air and surface vapor
// pressures eA/eS (Pa), and atmospheric pressure p (Pa).
//
// The iteration is a fixed-point solve on the Obukhov length: at most
// 10 iterations, stopping when the relative change in uStar is below
// 1e-3. If it fails to converge, it retries once itself with relaxed
// stability bounds (hle1Iterate with relaxed=true, which loosens the
// clampZeta limit); a second failure surfaces as NoConvergence.
func hle1(zU, zT, z0, u, Ta, Ts, eA, eS, p float64) (H, LvE, uStar float64, err error) {
	return hle1Iterate(zU, zT, z0, u, Ta, Ts, eA, eS, p, false)
}

func hle1Iterate(zU, zT, z0, u, Ta, Ts, eA, eS, p float64, relaxed bool) (H, LvE, uStar float64, err error) {
	const maxIter = 10
	const tolerance = 1e-3
	const minWind = 0.01 // m/s, avoids division by zero in calm conditions

	if u < minWind {
		u = minWind
	}

	rho := airDensity(Ta, p)
	cp := specificHeatAir(Ta)
	lv := latentHeatVaporization(Ta)

	// Initial neutral-stability guess.
	obukhovLen := math.Inf(1)
	uStar = vonKarman * u / math.Log(zU/z0)

	maxZetaMag := 2.0
	if relaxed {
		maxZetaMag = 10.0
	}

	var tStar, eStar float64
	for iter := 0; iter < maxIter; iter++ {
		zetaU := clampZeta(zU/obukhovLen, maxZetaMag)
		zetaT := clampZeta(zT/obukhovLen, maxZetaMag)

		newUStar := vonKarman * u / (math.Log(zU/z0) - psi(zetaU, StabilityMomentum))
		tStar = vonKarman * (Ta - Ts) / (math.Log(zT/z0) - psi(zetaT, StabilityHeat))
		eStar = vonKarman * (eA - eS) / (math.Log(zT/z0) - psi(zetaT, StabilityHeat))

		if newUStar <= 0 {
			newUStar = 1e-6
		}

		// Obukhov length from the flux-profile definitions.
		obukhovLen = newUStar * newUStar * Ta / (vonKarman * gravity * tStar)
		if math.IsNaN(obukhovLen) || obukhovLen == 0 {
			obukhovLen = math.Inf(1)
		}

		relChange := math.Abs(newUStar-uStar) / math.Max(math.Abs(uStar), 1e-9)
		uStar = newUStar
		if relChange < tolerance {
			H = -rho * cp * uStar * tStar
			q := 0.622 * eStar / p
			LvE = -rho * lv * uStar * q
			return H, LvE, uStar, nil
		}
	}

	if !relaxed {
		return hle1Iterate(zU, zT, z0, u, Ta, Ts, eA, eS, p, true)
	}

	return 0, 0, 0, newError(NoConvergence, -1, 0,
		"hle1: stability iteration did not converge within budget", nil)
}

func clampZeta(zeta, maxMag float64) float64 {
	if math.IsInf(zeta, 0) || math.IsNaN(zeta) {
		return 0
	}
	if zeta > maxMag {
		return maxMag
	}
	if zeta < -maxMag {
		return -maxMag
	}
	return zeta
}
