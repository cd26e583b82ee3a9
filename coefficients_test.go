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

import "testing"

func testGrid(t *testing.T) *Grid {
	t.Helper()
	r := logSpacedSample(6, 1e-2, 10)
	e := logSpacedSample(8, 1e-1, 1e3)
	g, err := BuildGrid(r, e, 1, 1)
	if err != nil {
		t.Fatalf("BuildGrid: %v", err)
	}
	return g
}

func uniformSample(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestBuildCoefficientFieldFinite(t *testing.T) {
	g := testGrid(t)
	cf, err := BuildCoefficientField(g, CoefficientParams{
		D0:     3.1e28,
		D0Kpc:  1,
		Delta:  0.5,
		Z:      0,
		BField: uniformSample(g.NR, 5),
		DBdr:   uniformSample(g.NR, 0),
		NE:     uniformSample(g.NR, 1e-3),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, v := range cf.D.Elements {
		if !isFinite(v) || v < 0 {
			t.Fatalf("D contains a non-finite or negative entry: %g", v)
		}
	}
	for _, v := range cf.B.Elements {
		if !isFinite(v) || v < 0 {
			t.Fatalf("B contains a non-finite or negative entry: %g", v)
		}
	}
}

func TestBuildCoefficientFieldLossOnlyZeroesDiffusion(t *testing.T) {
	g := testGrid(t)
	cf, err := BuildCoefficientField(g, CoefficientParams{
		D0:       3.1e28,
		D0Kpc:    1,
		Delta:    0.5,
		BField:   uniformSample(g.NR, 5),
		DBdr:     uniformSample(g.NR, 0),
		NE:       uniformSample(g.NR, 1e-3),
		LossOnly: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, v := range cf.D.Elements {
		if v != 0 {
			t.Errorf("loss_only=true should force D to zero, got %g", v)
		}
	}
	for _, v := range cf.DDdr.Elements {
		if v != 0 {
			t.Errorf("loss_only=true should force dD/dr to zero, got %g", v)
		}
	}
}

func TestBuildCoefficientFieldZeroFieldBreaksDown(t *testing.T) {
	g := testGrid(t)
	_, err := BuildCoefficientField(g, CoefficientParams{
		D0:     3.1e28,
		D0Kpc:  1,
		Delta:  0.5,
		BField: uniformSample(g.NR, 0), // B = 0 everywhere
		DBdr:   uniformSample(g.NR, 0),
		NE:     uniformSample(g.NR, 1e-3),
	})
	if err == nil {
		t.Fatal("expected a breakdown error for B=0, got nil")
	}
	if _, ok := err.(*BreakdownError); !ok {
		t.Errorf("got error of type %T, want *BreakdownError", err)
	}
}

func TestBuildCoefficientFieldRejectsMismatchedLengths(t *testing.T) {
	g := testGrid(t)
	_, err := BuildCoefficientField(g, CoefficientParams{
		D0:     3.1e28,
		D0Kpc:  1,
		Delta:  0.5,
		BField: uniformSample(g.NR-1, 5), // wrong length
		DBdr:   uniformSample(g.NR, 0),
		NE:     uniformSample(g.NR, 1e-3),
	})
	if err == nil {
		t.Fatal("expected an error for a mismatched sample length, got nil")
	}
}
