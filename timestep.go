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
	"gonum.org/v1/gonum/floats"
)

// DefaultStabilityTol is the default rel_diff convergence threshold
// (spec.md §4.6).
const DefaultStabilityTol = 1e-5

// TimestepController maintains the timescale arrays, current Δt, and
// convergence bookkeeping described in spec.md §4.6.
type TimestepController struct {
	Grid *Grid

	TauLoss, TauDiff *sparse.DenseArray

	Dt                float64
	DtMin             float64
	DtReductionFactor float64
	MaxInnerIters     int
	StabilityTol      float64

	Effects     EffectSet
	Benchmark   bool
	ConstantDt  bool

	innerIterCounter int
	dirty            bool
}

// computeTimescales computes τ_loss[i,j] = E/b and τ_diff[i,j] =
// (Δr)^2/D, where Δr is the spacing of the first two radial nodes
// (spec.md §3).
func computeTimescales(g *Grid, cf *CoefficientField) (tauLoss, tauDiff *sparse.DenseArray) {
	tauLoss = sparse.ZerosDense(g.NR, g.NE)
	tauDiff = sparse.ZerosDense(g.NR, g.NE)
	dr2 := g.DR0 * g.DR0
	for i := 0; i < g.NR; i++ {
		for j := 0; j < g.NE; j++ {
			b := cf.B.Get(i, j)
			tauLoss.Set(g.E[j]/b, i, j)
			d := cf.D.Get(i, j)
			tauDiff.Set(dr2/d, i, j)
		}
	}
	return tauLoss, tauDiff
}

// NewTimestepController builds a controller and selects Δt0 per
// spec.md §4.6, given Δt_initial and Δt_min already converted to
// seconds.
func NewTimestepController(g *Grid, cf *CoefficientField, effects EffectSet, dtInitial, dtMin, reductionFactor float64, maxInnerIters int, benchmark, constantDt bool) *TimestepController {
	tauLoss, tauDiff := computeTimescales(g, cf)

	t := &TimestepController{
		Grid: g, TauLoss: tauLoss, TauDiff: tauDiff,
		DtMin: dtMin, DtReductionFactor: reductionFactor,
		MaxInnerIters: maxInnerIters, StabilityTol: DefaultStabilityTol,
		Effects: effects, Benchmark: benchmark, ConstantDt: constantDt,
	}

	if constantDt {
		dt0 := minActive(tauLoss, tauDiff, effects)
		if effects == EffectAll {
			dt0 *= 0.5
		}
		if benchmark {
			dt0 *= 0.1
		}
		t.Dt = dt0
	} else {
		dt0 := dtInitial
		if effects == EffectAll {
			dt0 *= 0.5
		}
		t.Dt = dt0
	}
	return t
}

// minActive returns the minimum of the active timescale arrays, per
// spec.md §4.6: "min(min(τ_loss), min(τ_diff)) restricted to active
// effects".
func minActive(tauLoss, tauDiff *sparse.DenseArray, effects EffectSet) float64 {
	m := math.Inf(1)
	if effects.hasLoss() {
		m = math.Min(m, denseMin(tauLoss))
	}
	if effects.hasDiffusion() {
		m = math.Min(m, denseMin(tauDiff))
	}
	return m
}

// denseMin returns the minimum element of a, which sparse.DenseArray
// does not provide directly (it only exposes Max and AbsMax).
func denseMin(a *sparse.DenseArray) float64 {
	if len(a.Elements) == 0 {
		return math.Inf(1)
	}
	return floats.Min(a.Elements)
}

// Dirty reports whether Δt changed since the stencils were last built.
func (t *TimestepController) Dirty() bool { return t.dirty }

// ClearDirty marks the stencils as freshly rebuilt for the current Δt.
func (t *TimestepController) ClearDirty() { t.dirty = false }

// CheckResult is the outcome of one outer-iteration convergence check
// (spec.md §4.6).
type CheckResult struct {
	Converged        bool
	BenchmarkFailed  bool
	RelDiff          float64
	DtReduced        bool
}

// Check evaluates the termination policy for iteration (1-indexed)
// given the previous and current states. Checks begin only after
// iteration 2, as spec.md §4.6 requires.
func (t *TimestepController) Check(psiPrev, psi *sparse.DenseArray, iteration int) CheckResult {
	if iteration <= 2 {
		t.innerIterCounter++
		return CheckResult{}
	}

	g := t.Grid
	relDiff := 0.
	maxAbsDpsidt := 0.
	lossCheck, diffCheck := true, true

	for i := 0; i < g.NR-1; i++ { // interior: i < NR-1
		for j := 0; j < g.NE; j++ {
			cur := psi.Get(i, j)
			prev := psiPrev.Get(i, j)

			if prev != 0 {
				rd := math.Abs(cur/prev - 1)
				if rd > relDiff {
					relDiff = rd
				}
			}

			dpsidt := (cur - prev) / t.Dt
			if math.Abs(dpsidt) > maxAbsDpsidt {
				maxAbsDpsidt = math.Abs(dpsidt)
			}

			var tauPsi float64
			if dpsidt == 0 {
				tauPsi = math.Inf(1)
			} else {
				tauPsi = math.Abs(cur / dpsidt)
			}

			if t.Effects.hasLoss() && !(tauPsi > t.TauLoss.Get(i, j)) {
				lossCheck = false
			}
			if t.Effects.hasDiffusion() && !(tauPsi > t.TauDiff.Get(i, j)) {
				diffCheck = false
			}
		}
	}

	tsCheck := true
	if t.Effects.hasLoss() {
		tsCheck = tsCheck && lossCheck
	}
	if t.Effects.hasDiffusion() {
		tsCheck = tsCheck && diffCheck
	}

	t.innerIterCounter++

	if t.Benchmark {
		if tsCheck && maxAbsDpsidt == 0 {
			return CheckResult{Converged: true, RelDiff: relDiff}
		}
		return CheckResult{RelDiff: relDiff}
	}

	if t.ConstantDt {
		stabilityCheck := relDiff < t.StabilityTol
		if stabilityCheck && tsCheck {
			return CheckResult{Converged: true, RelDiff: relDiff}
		}
		return CheckResult{RelDiff: relDiff}
	}

	// Accelerated mode.
	stabilityCheck := t.innerIterCounter > t.MaxInnerIters
	if stabilityCheck {
		if t.Dt > t.DtMin {
			t.Dt *= t.DtReductionFactor
			t.innerIterCounter = 0
			t.dirty = true
			return CheckResult{RelDiff: relDiff, DtReduced: true}
		}
		if tsCheck || relDiff < t.StabilityTol {
			return CheckResult{Converged: true, RelDiff: relDiff}
		}
	}
	return CheckResult{RelDiff: relDiff}
}
