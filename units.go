/*
Copyright (C) 2013-2014 Regents of the University of Minnesota.
This file is part of InMAP.

InMAP is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

InMAP is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with InMAP.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package electrons solves for the steady-state energy distribution of
// relativistic electrons and positrons produced inside a spherically
// symmetric dark-matter halo, subject to spatial diffusion and
// continuous energy losses.
package electrons

const (
	// MpcToCm converts megaparsecs to centimeters.
	MpcToCm = 3.0856775814913673e24

	// KpcToCm converts kiloparsecs to centimeters.
	KpcToCm = MpcToCm / 1000.

	// YrToSec converts Julian years to seconds.
	YrToSec = 365.25 * 24. * 3600.

	// electronMassGeV is the electron rest mass, in GeV.
	electronMassGeV = 0.000510998946

	// speedOfLightCmPerSec is c, in cm/s.
	speedOfLightCmPerSec = 2.99792458e10

	// msunToGeV is the rest-energy equivalent of one solar mass, in GeV
	// (M_sun * c^2 expressed in GeV).
	msunToGeV = 1.115e57
)

// msunPerMpc3ToGeVPerCm3 converts a density in Msun/Mpc^3 to GeV/cm^3 via the
// rest-mass-energy equivalence E = m*c^2.
func msunPerMpc3ToGeVPerCm3(rho float64) float64 {
	return rho * msunToGeV / (MpcToCm * MpcToCm * MpcToCm)
}
