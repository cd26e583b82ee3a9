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
	"fmt"

	"github.com/ctessum/sparse"
	"github.com/sirupsen/logrus"
)

// Inputs collects the physical inputs to Solve, corresponding to the
// `solve_electrons` parameters in spec.md §6 that are not carried in
// Config.
type Inputs struct {
	MChi float64 // GeV
	Z    float64

	ESample   []float64 // GeV, length NE, log-spaced
	RSample   []float64 // Mpc, length NR, log-spaced
	RhoSample []float64 // Msun/Mpc^3, length NR
	QSample   []float64 // GeV^-1, length NE

	BFieldSample []float64 // μG, length NR
	DBdrSample   []float64 // 1/Mpc, length NR
	NeSample     []float64 // cm^-3, length NR

	RScale float64 // Mpc
	EScale float64 // GeV

	// D0Kpc is the 1-kpc diffusion reference length from spec.md §4.2
	// (named to match that section's formula; the external interface
	// in spec.md §6 lists this argument's units as Mpc, which the
	// physics formula of §4.2 contradicts — see DESIGN.md for the
	// resolution).
	D0Kpc float64
}

// Result is the outcome of a Solve call.
type Result struct {
	// Psi is the final steady-state (or best-available) distribution,
	// shaped (NE, NR) per the external transpose convention of
	// spec.md §6.
	Psi *sparse.DenseArray

	Iterations int
	Converged  bool
	RelDiff    float64

	Snapshots *Snapshots

	// NonConvergence is non-nil if the iteration ceiling was reached or
	// the context was cancelled before convergence (spec.md §7 error
	// kind 3); it is informational, not fatal. In benchmark mode a
	// solve that reaches the ceiling sets BenchmarkFailed instead and
	// leaves NonConvergence nil.
	NonConvergence *NonConvergence

	// BenchmarkFailed is set if cfg.AdiBenchMarkMode was requested and
	// dψ/dt never reached machine zero before the ceiling (spec.md §7
	// error kind 4).
	BenchmarkFailed bool
}

// Solve computes the steady-state electron/positron distribution ψ(r,E)
// for the given physical inputs and solver configuration. It is the Go
// equivalent of the `solve_electrons` pure function in spec.md §6.
func Solve(ctx context.Context, in Inputs, cfg Config) (*Result, error) {
	nr, ne := len(in.RSample), len(in.ESample)
	if err := cfg.Validate(nr, ne); err != nil {
		return nil, err
	}
	if in.MChi == 0 {
		return nil, &InvalidInputError{Reason: "m_chi must be nonzero"}
	}

	g, err := BuildGrid(in.RSample, in.ESample, in.RScale, in.EScale)
	if err != nil {
		return nil, err
	}

	cf, err := BuildCoefficientField(g, CoefficientParams{
		D0:       cfg.DiffConstant,
		D0Kpc:    in.D0Kpc,
		Delta:    cfg.DiffIndex,
		Z:        in.Z,
		BField:   in.BFieldSample,
		DBdr:     in.DBdrSample,
		NE:       in.NeSample,
		LossOnly: cfg.LossOnly,
	})
	if err != nil {
		return nil, err
	}

	Q, err := BuildSource(g, in.RhoSample, in.MChi, in.QSample, cfg.ModeExp)
	if err != nil {
		return nil, err
	}

	psi := Q.Copy()
	pinOuterBoundary(psi, g)

	effects := cfg.effects()
	dtInitialSec := cfg.AdiDeltaTi * YrToSec
	dtMinSec := cfg.AdiDeltaTMin * YrToSec

	ctrl := NewTimestepController(g, cf, effects, dtInitialSec, dtMinSec,
		cfg.AdiDeltaTReduction, cfg.AdiMaxSteps, cfg.AdiBenchMarkMode, cfg.AdiDeltaTConstant)

	integrator := &CNIntegrator{Grid: g}
	snaps := NewSnapshots(cfg.AnimationFlag)

	scheme := cfg.energyScheme()
	es := BuildEnergyStencil(g, cf, ctrl.Dt, scheme)
	rs := BuildRadialStencil(g, cf, ctrl.Dt)
	ctrl.ClearDirty()

	log := logrus.WithFields(logrus.Fields{"n_r": nr, "n_e": ne, "effects": effects.String()})

	maxIters := cfg.maxOuterIters()
	var relDiff float64
	converged := false
	iter := 0

	for iter = 1; iter <= maxIters; iter++ {
		select {
		case <-ctx.Done():
			return &Result{
				Psi: transpose(psi), Iterations: iter - 1, RelDiff: relDiff, Snapshots: snaps,
				NonConvergence: &NonConvergence{Iterations: iter - 1, RelDiff: relDiff, Cancelled: true},
			}, nil
		default:
		}

		psiPrev := psi.Copy()
		psi, err = integrator.Step(psiPrev, Q, es, rs, ctrl.Dt, effects)
		if err != nil {
			return nil, fmt.Errorf("electrons: outer iteration %d: %w", iter, err)
		}

		snaps.Push(g, psi, ctrl.Dt)

		check := ctrl.Check(psiPrev, psi, iter)
		relDiff = check.RelDiff

		log.WithFields(logrus.Fields{"iteration": iter, "dt": ctrl.Dt, "rel_diff": relDiff}).Debug("outer iteration complete")

		if ctrl.Dirty() {
			es = BuildEnergyStencil(g, cf, ctrl.Dt, scheme)
			rs = BuildRadialStencil(g, cf, ctrl.Dt)
			ctrl.ClearDirty()
			continue
		}

		if check.Converged {
			converged = true
			break
		}
	}

	if iter > maxIters {
		// The loop ran to completion; its counter ends one past the last
		// iteration.
		iter = maxIters
	}

	res := &Result{
		Psi: transpose(psi), Iterations: iter, Converged: converged, RelDiff: relDiff, Snapshots: snaps,
	}

	if !converged {
		if cfg.AdiBenchMarkMode {
			res.BenchmarkFailed = true
			return res, nil
		}
		res.NonConvergence = &NonConvergence{Iterations: iter, RelDiff: relDiff}
	}
	return res, nil
}

// transpose returns a (NE, NR) copy of a (NR, NE) array, matching the
// external API convention of spec.md §6.
func transpose(psi *sparse.DenseArray) *sparse.DenseArray {
	nr, ne := psi.Shape[0], psi.Shape[1]
	out := sparse.ZerosDense(ne, nr)
	for i := 0; i < nr; i++ {
		for j := 0; j < ne; j++ {
			out.Set(psi.Get(i, j), j, i)
		}
	}
	return out
}
