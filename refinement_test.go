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
	"context"
	"testing"

	"gonum.org/v1/gonum/stat"
)

// rhoProfile is a smooth, strictly declining density profile evaluated
// pointwise at a physical radius (Mpc); used by
// TestSolveGridRefinementConsistency to give both grids' density
// samples real radial structure instead of a flat constant, so the
// resulting ψ has enough variance for correlation to be meaningful.
func rhoProfile(rMpc []float64) []float64 {
	out := make([]float64, len(rMpc))
	for i, r := range rMpc {
		out[i] = 1e9 / (1 + r*r)
	}
	return out
}

// TestSolveGridRefinementConsistency covers P7: refining the radial
// grid should not change the solution's qualitative shape. The fine
// grid is built with 2*N_r-1 nodes spanning the same physical range as
// the coarse grid, so halving Δρ makes every even-indexed fine node
// coincide with a coarse node (spec.md §4.1's log-spacing requirement
// applied at two resolutions). rho is sampled from the same closed-form
// profile at each grid's own radii, so coincident nodes carry the same
// physical density regardless of resolution.
//
// Both solves use a Δt pinned far below every physical timescale in the
// fixture, so ψ stays close to the (smooth, resolution-independent) Q
// profile and the correlation between the coarse solution and the fine
// solution's coincident-node subsample is expected to be close to 1.
func TestSolveGridRefinementConsistency(t *testing.T) {
	nrCoarse := 4
	nrFine := 2*nrCoarse - 1
	ne := 4

	rCoarse := logSpacedSample(nrCoarse, 1e-2, 10)
	rFine := logSpacedSample(nrFine, 1e-2, 10)
	eSample := logSpacedSample(ne, 1e-1, 1e3)

	cfg := DefaultConfig()
	cfg.DiffIndex = 0.5
	cfg.MaxOuterIters = 6
	cfg.AdiDeltaTi = 10
	cfg.AdiDeltaTMin = 10
	cfg.AdiMaxSteps = 2

	coarse := Inputs{
		MChi: 100, Z: 0,
		ESample: eSample, RSample: rCoarse,
		RhoSample:    rhoProfile(rCoarse),
		QSample:      uniformSample(ne, 1),
		BFieldSample: uniformSample(nrCoarse, 5),
		DBdrSample:   uniformSample(nrCoarse, 0),
		NeSample:     uniformSample(nrCoarse, 1e-3),
		RScale:       1, EScale: 1, D0Kpc: 1,
	}
	fine := coarse
	fine.RSample = rFine
	fine.RhoSample = rhoProfile(rFine)
	fine.BFieldSample = uniformSample(nrFine, 5)
	fine.DBdrSample = uniformSample(nrFine, 0)
	fine.NeSample = uniformSample(nrFine, 1e-3)

	resCoarse, err := Solve(context.Background(), coarse, cfg)
	if err != nil {
		t.Fatalf("coarse solve: unexpected error: %v", err)
	}
	resFine, err := Solve(context.Background(), fine, cfg)
	if err != nil {
		t.Fatalf("fine solve: unexpected error: %v", err)
	}

	j0 := ne / 2
	coarseProfile := make([]float64, nrCoarse)
	fineSubsample := make([]float64, nrCoarse)
	for i := 0; i < nrCoarse; i++ {
		coarseProfile[i] = resCoarse.Psi.Get(j0, i)
		fineSubsample[i] = resFine.Psi.Get(j0, 2*i)
	}

	corr := stat.Correlation(coarseProfile, fineSubsample, nil)
	if corr < 0.99 {
		t.Errorf("coarse/fine radial profiles at coincident nodes should be highly correlated, got %g\ncoarse=%v\nfine subsample=%v",
			corr, coarseProfile, fineSubsample)
	}
}
