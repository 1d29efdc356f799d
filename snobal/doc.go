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

// Package snobal implements the core of a physically-based, two-layer
// snowcover energy- and mass-balance integrator.
//
// Given time-varying atmospheric forcings and an initial snowpack state
// at one or more spatial locations, a Domain advances each Cell's
// snowcover through time, computing net radiation, turbulent heat
// fluxes, soil heat flux, precipitation-advected heat, cold content,
// melt, runoff, evaporation, and the resulting layer structure.
//
// The package owns the numerical physics, the layer-count state
// machine, and the adaptive timestep control. It does not read forcing
// data, write output, or parse configuration — see the sibling
// `forcing`, `output`, and `snobalcfg` packages, and the `cmd/snobal`
// driver, for those concerns.
package snobal
