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
	"sync"
	"testing"

	"github.com/ctessum/sparse"
)

func TestParallelBlocksVisitsEveryIndex(t *testing.T) {
	const n = 37
	seen := make([]bool, n)
	var mu sync.Mutex
	err := parallelBlocks(n, func(k int) error {
		mu.Lock()
		seen[k] = true
		mu.Unlock()
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for k, ok := range seen {
		if !ok {
			t.Errorf("index %d was never visited", k)
		}
	}
}

func TestParallelBlocksPropagatesError(t *testing.T) {
	wantErr := &BreakdownError{Field: "test", I: 1, Value: 1}
	err := parallelBlocks(8, func(k int) error {
		if k == 3 {
			return wantErr
		}
		return nil
	})
	if err != wantErr {
		t.Errorf("got error %v, want %v", err, wantErr)
	}
}

func TestPinOuterBoundaryZeroesLastRow(t *testing.T) {
	g := testGrid(t)
	psi := sparse.ZerosDense(g.NR, g.NE)
	for i := 0; i < g.NR; i++ {
		for j := 0; j < g.NE; j++ {
			psi.Set(1, i, j)
		}
	}
	pinOuterBoundary(psi, g)
	for j := 0; j < g.NE; j++ {
		if psi.Get(g.NR-1, j) != 0 {
			t.Errorf("outer boundary row should be pinned to zero at j=%d, got %g", j, psi.Get(g.NR-1, j))
		}
	}
	if psi.Get(0, 0) != 1 {
		t.Error("pinOuterBoundary should not touch interior cells")
	}
}

func TestStepPreservesNonNegativity(t *testing.T) {
	g, cf := testCoefficientField(t)
	es := BuildEnergyStencil(g, cf, 1e9, SchemeUpwind)
	rs := BuildRadialStencil(g, cf, 1e9)

	Q := sparse.ZerosDense(g.NR, g.NE)
	for i := 0; i < g.NR; i++ {
		for j := 0; j < g.NE; j++ {
			Q.Set(1e-20, i, j)
		}
	}
	psi := Q.Copy()
	pinOuterBoundary(psi, g)

	integrator := &CNIntegrator{Grid: g}
	next, err := integrator.Step(psi, Q, es, rs, 1e9, EffectAll)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, v := range next.Elements {
		if v < 0 {
			t.Errorf("Step produced a negative entry from non-negative psi and Q: %g", v)
		}
	}
	if next.Get(g.NR-1, 0) != 0 {
		t.Error("Step should leave the outer boundary pinned to zero")
	}
}
