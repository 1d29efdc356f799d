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

// applyMassBalance advances s's mass and cold content over a substep
// of duration dt (seconds), given the fluxes already computed by
// computeEnergyBalance and the precipitation quanta deposited this
// substep (spec §4.5). The resulting geometry is not self-consistent
// until adjustLayers runs next; this function only moves mass and
// energy between the surface layer, the lower layer, and the h2o/
// runoff pools.
func applyMassBalance(s *SnowcoverState, eb EnergyBalance, in *InputRecord, mSnow, mRain, dt float64, params Params) {
	// 1. Evaporation/condensation at the surface.
	latent := latentHeatVaporization(s.TS0)
	if s.TS0 < FREEZE {
		latent = latentHeatSublimation(s.TS0)
	}
	E := eb.LvE * dt / latent
	switch {
	case E > 0:
		if s.MS0 >= E {
			s.MS0 -= E
		} else {
			remainder := E - s.MS0
			s.MS0 = 0
			s.H2O -= remainder
			if s.H2O < 0 {
				s.H2O = 0
			}
		}
	case E < 0:
		s.MS0 += -E
	}
	s.EsSum += E

	// 2. Precipitation deposition. The enthalpy precip brings with it
	// was already folded into delta_Q_0 via the M term, so only mass
	// moves here; adjustLayers resolves geometry from the new mass.
	if in.PrecipNow {
		s.MS0 += mSnow
		s.H2O += mRain
	}

	// 3. Cold content update.
	s.CCS0 += eb.DeltaQ0 * dt
	if s.LayerCount == 2 {
		s.CCSL += (eb.DeltaQ - eb.DeltaQ0) * dt
	}

	// 4. Melt/refreeze, surface first then lower (free water is
	// tracked in aggregate, not per layer, so the surface layer gets
	// first claim on it, matching where precipitation and melt enter
	// the pack).
	melt := meltOrFreezeLayer(&s.CCS0, &s.MS0, &s.H2O)
	if s.LayerCount == 2 {
		melt += meltOrFreezeLayer(&s.CCSL, &s.MSL, &s.H2O)
	}
	s.MeltSum += melt
	s.MS = s.MS0 + s.MSL
	s.CCS = s.CCS0 + s.CCSL

	// 5. Drain excess free water to runoff, using h2o_max for the
	// geometry after this substep's mass changes: the thickness
	// m_s/rho_eff that adjustLayers derives next, so h2o never exceeds
	// the h2o_max that adjustLayers records.
	rhoEff := effectiveDensity(s)
	if rhoEff <= 0 {
		rhoEff = rhoIce
	}
	h2oMax := rhoWater * params.MaxH2OVol * (s.MS/rhoEff - s.MS/rhoIce)
	if h2oMax < 0 {
		h2oMax = 0
	}
	if s.H2O > h2oMax {
		s.RoPredSum += s.H2O - h2oMax
		s.H2O = h2oMax
	}

	// 6. Time-weighted accumulators.
	s.RNBar += eb.RN * dt
	s.HBar += eb.H * dt
	s.LvEBar += eb.LvE * dt
	s.GBar += eb.G * dt
	s.G0Bar += eb.G0 * dt
	s.MBar += eb.M * dt
	s.DeltaQBar += eb.DeltaQ * dt
	s.DeltaQ0Bar += eb.DeltaQ0 * dt
	s.TimeSinceOut += dt
	s.CurrentTime += dt
}

// meltOrFreezeLayer resolves a layer's cold content against the
// melting point: positive cold content (more energy than needed to
// hold the layer at FREEZE) converts ice to water; negative cold
// content refreezes available free water. h2o is the shared liquid
// water pool. Returns the mass melted (0 if the layer refroze or did
// neither).
func meltOrFreezeLayer(cc, m, h2o *float64) float64 {
	if *cc > 0 {
		melt := *cc / lhFusion
		if melt > *m {
			melt = *m
		}
		*m -= melt
		*h2o += melt
		*cc = 0
		return melt
	}
	if *h2o > 0 && *cc < 0 {
		freeze := -*cc / lhFusion
		if freeze > *h2o {
			freeze = *h2o
		}
		*m += freeze
		*h2o -= freeze
		*cc += freeze * lhFusion
		if *cc > 0 {
			*cc = 0
		}
	}
	return 0
}
