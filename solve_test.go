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
)

func testInputs(nr, ne int) Inputs {
	return Inputs{
		MChi:         100,
		Z:            0,
		ESample:      logSpacedSample(ne, 1e-1, 1e3),
		RSample:      logSpacedSample(nr, 1e-2, 10),
		RhoSample:    uniformSample(nr, 1e10),
		QSample:      uniformSample(ne, 1),
		BFieldSample: uniformSample(nr, 5),
		DBdrSample:   uniformSample(nr, 0),
		NeSample:     uniformSample(nr, 1e-3),
		RScale:       1,
		EScale:       1,
		D0Kpc:        1,
	}
}

func TestSolveRejectsUnroutableElectronMode(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ElectronMode = "adi-fortran"
	_, err := Solve(context.Background(), testInputs(4, 4), cfg)
	if err == nil {
		t.Error("expected an error for an unroutable electron_mode, got nil")
	}
}

func TestSolveRejectsZeroMass(t *testing.T) {
	cfg := DefaultConfig()
	in := testInputs(4, 4)
	in.MChi = 0
	if _, err := Solve(context.Background(), in, cfg); err == nil {
		t.Error("expected an error for m_chi=0, got nil")
	}
}

func TestSolveHonorsCancellation(t *testing.T) {
	cfg := DefaultConfig()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := Solve(ctx, testInputs(4, 4), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.NonConvergence == nil || !res.NonConvergence.Cancelled {
		t.Error("expected NonConvergence.Cancelled=true for a pre-cancelled context")
	}
}

func TestSolveReturnsTransposedShape(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LossOnly = true
	cfg.MaxOuterIters = 5

	nr, ne := 4, 5
	res, err := Solve(context.Background(), testInputs(nr, ne), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Psi.Shape[0] != ne || res.Psi.Shape[1] != nr {
		t.Errorf("Psi shape = %v, want (%d, %d) per the external (E, r) convention", res.Psi.Shape, ne, nr)
	}
}

func TestSolveRejectsTooFewNodes(t *testing.T) {
	cfg := DefaultConfig()
	if _, err := Solve(context.Background(), testInputs(2, 4), cfg); err == nil {
		t.Error("expected an error for N_r < 3, got nil")
	}
}
