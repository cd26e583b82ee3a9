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

package electrons

import "github.com/ctessum/sparse"

// BuildSource assembles Q(r,E) = (1/modeExp) * (rho(r)/mChi)^modeExp * q(E)
// (spec.md §4.3), broadcasting the radial density profile and particle
// spectrum into a (NR, NE) outer product.
//
// rhoMsunMpc3 is the DM density sampled at the grid radii, in
// Msun/Mpc^3; it is converted to GeV/cm^3 internally. qSpectrum is the
// pre-evaluated particle spectrum at the grid energies, in GeV^-1 per
// injection. modeExp is 2 for annihilation, 1 for decay.
func BuildSource(g *Grid, rhoMsunMpc3 []float64, mChi float64, qSpectrum []float64, modeExp int) (*sparse.DenseArray, error) {
	if len(rhoMsunMpc3) != g.NR {
		return nil, &InvalidInputError{Reason: "density sample must have length NR"}
	}
	if len(qSpectrum) != g.NE {
		return nil, &InvalidInputError{Reason: "spectrum sample must have length NE"}
	}
	if mChi == 0 {
		return nil, &InvalidInputError{Reason: "m_chi must be nonzero"}
	}
	if modeExp != 1 && modeExp != 2 {
		return nil, &InvalidInputError{Reason: "mode_exp must be 1 (decay) or 2 (annihilation)"}
	}

	Q := sparse.ZerosDense(g.NR, g.NE)
	invModeExp := 1. / float64(modeExp)

	for i := 0; i < g.NR; i++ {
		rho := rhoMsunMpc3[i]
		if rho < 0 {
			return nil, &InvalidInputError{Reason: "DM density must be non-negative"}
		}
		rhoGeVCm3 := msunPerMpc3ToGeVPerCm3(rho)
		nExp := 1.
		for k := 0; k < modeExp; k++ {
			nExp *= rhoGeVCm3 / mChi
		}
		for j := 0; j < g.NE; j++ {
			q := invModeExp * nExp * qSpectrum[j]
			if !isFinite(q) {
				return nil, &BreakdownError{Field: "Q", I: i, J: j, Value: q}
			}
			Q.Set(q, i, j)
		}
	}
	return Q, nil
}
