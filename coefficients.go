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

import (
	"math"

	"github.com/ctessum/sparse"
)

// Energy-loss rate constants [GeV/s when E is in GeV, n_e in cm^-3,
// B in μG], from spec.md §4.2.
const (
	cSync = 0.0254e-16
	cCoul = 6.13e-16
	cBrem = 4.7e-16
)

// icConstant returns the redshift-dependent inverse-Compton constant.
func icConstant(z float64) float64 {
	return 6.08e-16 + 0.25e-16*math.Pow(1+z, 4)
}

// CoefficientField holds the diffusion coefficient, its radial log-space
// derivative, and the total energy-loss rate, each shaped (NR, NE).
type CoefficientField struct {
	D, DDdr, B *sparse.DenseArray
}

// CoefficientParams collects the inputs the diffusion and energy-loss
// models need beyond the grid itself (spec.md §4.2). All sample arrays
// are indexed by radius and have length grid.NR, except ne which also
// varies only by radius; E-dependence is evaluated on the fly.
type CoefficientParams struct {
	D0        float64 // cm^2/s, reference diffusion normalization
	D0Kpc     float64 // kpc, reference length (usually 1)
	Delta     float64 // δ, diffusion power-law index
	Z         float64 // redshift
	BField    []float64 // μG, length NR
	DBdr      []float64 // 1/Mpc, length NR
	NE        []float64 // cm^-3, length NR (electron/gas number density)
	LossOnly  bool      // if true, D and dD/dr are forced to zero
}

// BuildCoefficientField evaluates D(r,E), ∂D/∂ρ, and b(E,B,n_e) on the
// grid, applying the diffusion ceiling from spec.md §3 and checking for
// non-finite output (spec.md §7 error kind 2).
func BuildCoefficientField(g *Grid, p CoefficientParams) (*CoefficientField, error) {
	if len(p.BField) != g.NR || len(p.DBdr) != g.NR || len(p.NE) != g.NR {
		return nil, &InvalidInputError{Reason: "coefficient sample arrays must have length NR"}
	}
	alpha := 2 - p.Delta

	D := sparse.ZerosDense(g.NR, g.NE)
	dDdr := sparse.ZerosDense(g.NR, g.NE)
	b := sparse.ZerosDense(g.NR, g.NE)

	cIC := icConstant(p.Z)

	for i := 0; i < g.NR; i++ {
		xi := 1. / (math.Pow(10, g.Rho[i]) * math.Ln10 * g.R0)
		bi := p.BField[i]
		dbi := p.DBdr[i]
		nei := p.NE[i]

		for j := 0; j < g.NE; j++ {
			e := g.E[j]

			dij := p.D0 * math.Pow(p.D0Kpc, 1-alpha) * math.Pow(bi, -alpha) * math.Pow(e, alpha)
			ddij := (1. / xi) * (-p.D0 * alpha * math.Pow(p.D0Kpc, 1-alpha) *
				math.Pow(bi, -alpha-1) * dbi * math.Pow(e, alpha))
			if p.LossOnly {
				dij, ddij = 0, 0
			}

			bij := cIC*e*e + cSync*bi*bi*e*e +
				cCoul*nei*(1+math.Log(e/(electronMassGeV*nei+tinyDensity))/75) +
				cBrem*nei*e

			if !isFinite(dij) {
				return nil, &BreakdownError{Field: "D", I: i, J: j, Value: dij}
			}
			if !isFinite(ddij) {
				return nil, &BreakdownError{Field: "dDdr", I: i, J: j, Value: ddij}
			}
			if !isFinite(bij) || bij < 0 {
				return nil, &BreakdownError{Field: "b", I: i, J: j, Value: bij}
			}

			ceiling := 1e32 * math.Pow(e, alpha)
			if dij > ceiling {
				dij = ceiling
			}

			D.Set(dij, i, j)
			dDdr.Set(ddij, i, j)
			b.Set(bij, i, j)
		}
	}

	return &CoefficientField{D: D, DDdr: dDdr, B: b}, nil
}

// tinyDensity avoids a division by zero in the Coulomb-loss logarithm
// when n_e is exactly zero; the Coulomb term itself is still zero in
// that case because of the leading n_e factor.
const tinyDensity = 1e-30

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
