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

// EnergyScheme selects the finite-difference scheme used for the
// energy-loss stencil (design note 9.2). "upwind" reproduces spec.md
// §4.4 exactly (α1_E ≡ 0); "central" adds the symmetric lower
// coefficient.
type EnergyScheme string

const (
	SchemeUpwind EnergyScheme = "upwind"
	SchemeCentral EnergyScheme = "central"
)

// EnergyStencil holds the per-cell tridiagonal coefficients (spec.md
// §4.4) for the energy half-step, each shaped (NR, NE).
type EnergyStencil struct {
	Alpha1, Alpha2, Alpha3 *sparse.DenseArray
}

// RadialStencil holds the per-cell tridiagonal coefficients for the
// radial half-step, each shaped (NR, NE).
type RadialStencil struct {
	Alpha1, Alpha2, Alpha3 *sparse.DenseArray
}

// etaJ returns η_j = 1/(10^ε_j * ln10 * E0), the energy-axis
// log-transform prefactor.
func etaJ(g *Grid, j int) float64 {
	return 1. / (math.Pow(10, g.Eps[j]) * math.Ln10 * g.E0)
}

// BuildEnergyStencil computes (α1_E, α2_E, α3_E) for every cell, per
// spec.md §4.4.
func BuildEnergyStencil(g *Grid, cf *CoefficientField, dt float64, scheme EnergyScheme) *EnergyStencil {
	a1 := sparse.ZerosDense(g.NR, g.NE)
	a2 := sparse.ZerosDense(g.NR, g.NE)
	a3 := sparse.ZerosDense(g.NR, g.NE)

	for i := 0; i < g.NR; i++ {
		for j := 0; j < g.NE; j++ {
			b := cf.B.Get(i, j)
			eta := etaJ(g, j)
			alpha2 := dt * eta * b / g.DEps
			a2.Set(alpha2, i, j)

			var alpha3 float64
			if j < g.NE-1 {
				etaNext := etaJ(g, j+1)
				bNext := cf.B.Get(i, j+1)
				alpha3 = dt * etaNext * bNext / g.DEps
			} else {
				alpha3 = dt * eta * b / g.DEps
			}
			a3.Set(alpha3, i, j)

			if scheme == SchemeCentral && j > 0 {
				etaPrev := etaJ(g, j-1)
				bPrev := cf.B.Get(i, j-1)
				a1.Set(dt*etaPrev*bPrev/g.DEps, i, j)
			}
		}
	}
	return &EnergyStencil{Alpha1: a1, Alpha2: a2, Alpha3: a3}
}

// BuildRadialStencil computes (α1_r, α2_r, α3_r) for every cell, per
// spec.md §4.4, including the reflective inner boundary at i=0.
func BuildRadialStencil(g *Grid, cf *CoefficientField, dt float64) *RadialStencil {
	a1 := sparse.ZerosDense(g.NR, g.NE)
	a2 := sparse.ZerosDense(g.NR, g.NE)
	a3 := sparse.ZerosDense(g.NR, g.NE)

	for j := 0; j < g.NE; j++ {
		for i := 0; i < g.NR; i++ {
			xi := 1. / (math.Pow(10, g.Rho[i]) * math.Ln10 * g.R0)
			d := cf.D.Get(i, j)
			dd := cf.DDdr.Get(i, j)

			if i == 0 {
				alpha2 := dt * xi * xi * 4 * d / (g.DRho * g.DRho)
				a1.Set(0, i, j) // absorbed into α2(0) per spec.md §4.4
				a2.Set(alpha2, i, j)
				a3.Set(alpha2, i, j)
				continue
			}

			alpha1 := dt * xi * xi * (-(math.Ln10*d+dd)/(2*g.DRho) + d/(g.DRho*g.DRho))
			alpha2 := dt * xi * xi * (2 * d / (g.DRho * g.DRho))
			alpha3 := dt * xi * xi * ((math.Ln10*d+dd)/(2*g.DRho) + d/(g.DRho*g.DRho))
			a1.Set(alpha1, i, j)
			a2.Set(alpha2, i, j)
			a3.Set(alpha3, i, j)
		}
	}
	return &RadialStencil{Alpha1: a1, Alpha2: a2, Alpha3: a3}
}

// thomasSolve solves a tridiagonal system A x = d via the Thomas
// algorithm, where A has sub-diagonal sub[1:n], main diagonal diag[0:n],
// and super-diagonal super[0:n-1]. Inputs are not mutated.
func thomasSolve(sub, diag, super, d []float64) ([]float64, error) {
	n := len(diag)
	cp := make([]float64, n)
	dp := make([]float64, n)

	if math.Abs(diag[0]) < 1e-300 {
		return nil, &BreakdownError{Field: "tridiagonal", I: 0, J: 0, Value: diag[0]}
	}
	cp[0] = super[0] / diag[0]
	dp[0] = d[0] / diag[0]

	for i := 1; i < n; i++ {
		m := diag[i] - sub[i]*cp[i-1]
		if math.Abs(m) < epsSingular*(math.Abs(sub[i])+math.Abs(super[i])) {
			return nil, &BreakdownError{Field: "tridiagonal", I: i, Value: m}
		}
		if i < n-1 {
			cp[i] = super[i] / m
		}
		dp[i] = (d[i] - sub[i]*dp[i-1]) / m
	}

	x := make([]float64, n)
	x[n-1] = dp[n-1]
	for i := n - 2; i >= 0; i-- {
		x[i] = dp[i] - cp[i]*x[i+1]
	}
	return x, nil
}

// epsSingular is the tolerance used to detect a near-singular
// tridiagonal system (spec.md §7 error kind 2: "|main diagonal| <
// ε·|off-diagonals|").
const epsSingular = 1e-13
