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
	"fmt"
	"math"
)

// logSpacingTolerance is the maximum allowed relative deviation of
// consecutive log-spaced steps before a sample array is rejected as
// not log-spaced (spec.md §4.1: "within ≤1e-10 relative tolerance").
const logSpacingTolerance = 1e-10

// Grid holds the immutable radial and energy coordinates a solve runs
// on, in both physical and log-transformed units.
//
// r and E are strictly increasing. ρ and ε are their log10-transformed
// counterparts relative to the scale radius r0 and scale energy E0;
// Δρ and Δε are constant across their respective axes.
type Grid struct {
	NR, NE int

	R []float64 // cm
	E []float64 // GeV

	R0, E0 float64 // cm, GeV

	Rho []float64 // ρ_i = log10(r_i/r0)
	Eps []float64 // ε_j = log10(E_j/E0)

	DRho, DEps float64

	// DR0 is the physical spacing between the first two radial nodes,
	// used by TimestepController for τ_diff.
	DR0 float64
}

// BuildGrid constructs a Grid from log-spaced radial samples (Mpc) and
// energy samples (GeV), converting radius to centimeters.
//
// rSample and eSample must each be strictly increasing, log-spaced,
// and contain at least 2 nodes; non-conformance is an InvalidInputError.
func BuildGrid(rSampleMpc, eSample []float64, rScaleMpc, eScaleGeV float64) (*Grid, error) {
	if len(rSampleMpc) < 2 {
		return nil, &InvalidInputError{Reason: "radial sample must have at least 2 nodes"}
	}
	if len(eSample) < 2 {
		return nil, &InvalidInputError{Reason: "energy sample must have at least 2 nodes"}
	}

	r := make([]float64, len(rSampleMpc))
	for i, rm := range rSampleMpc {
		r[i] = rm * MpcToCm
	}
	e := append([]float64(nil), eSample...)

	r0 := rScaleMpc * MpcToCm
	e0 := eScaleGeV

	rho, dRho, err := logTransform(r, r0)
	if err != nil {
		return nil, &InvalidInputError{Reason: fmt.Sprintf("radial grid: %v", err)}
	}
	eps, dEps, err := logTransform(e, e0)
	if err != nil {
		return nil, &InvalidInputError{Reason: fmt.Sprintf("energy grid: %v", err)}
	}

	return &Grid{
		NR: len(r), NE: len(e),
		R: r, E: e,
		R0: r0, E0: e0,
		Rho: rho, Eps: eps,
		DRho: dRho, DEps: dEps,
		DR0: r[1] - r[0],
	}, nil
}

// logTransform returns ρ_i = log10(x_i/x0) for each x_i, verifying that
// the values increase and that the spacing is uniform (log-spaced input)
// to within logSpacingTolerance.
func logTransform(x []float64, x0 float64) ([]float64, float64, error) {
	n := len(x)
	rho := make([]float64, n)
	for i, xi := range x {
		if xi <= 0 {
			return nil, 0, errNonPositive
		}
		rho[i] = math.Log10(xi / x0)
	}
	d0 := rho[1] - rho[0]
	if d0 <= 0 {
		return nil, 0, errGridStr("sample values must be strictly increasing")
	}
	for i := 1; i < n-1; i++ {
		d := rho[i+1] - rho[i]
		if d0 == 0 || math.Abs((d-d0)/d0) > logSpacingTolerance {
			return nil, 0, errNotLogSpaced
		}
	}
	return rho, d0, nil
}

var (
	errNonPositive  = errGridStr("sample values must be strictly positive")
	errNotLogSpaced = errGridStr("sample array is not uniformly log-spaced")
)

type errGridStr string

func (e errGridStr) Error() string { return string(e) }
