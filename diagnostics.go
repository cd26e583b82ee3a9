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

// Snapshot is one recorded state of a solve: a copy of the interior of
// ψ (rows 0..NR-2, since row NR-1 is pinned to zero) and the Δt active
// at that iteration.
type Snapshot struct {
	Psi *sparse.DenseArray
	Dt  float64
}

// Snapshots is a growable sequence of Snapshot, populated only when
// animation capture is enabled (spec.md §4.7, design note 9:
// "skip allocation entirely when disabled").
type Snapshots struct {
	entries []Snapshot
}

// NewSnapshots returns a recorder. If enabled is false, Push is a
// no-op and no backing storage is allocated.
func NewSnapshots(enabled bool) *Snapshots {
	if !enabled {
		return nil
	}
	return &Snapshots{}
}

// Push records a copy of the interior of psi alongside dt. It is safe
// to call on a nil *Snapshots (disabled recording).
func (s *Snapshots) Push(g *Grid, psi *sparse.DenseArray, dt float64) {
	if s == nil {
		return
	}
	interior := sparse.ZerosDense(g.NR-1, g.NE)
	for i := 0; i < g.NR-1; i++ {
		for j := 0; j < g.NE; j++ {
			interior.Set(psi.Get(i, j), i, j)
		}
	}
	s.entries = append(s.entries, Snapshot{Psi: interior, Dt: dt})
}

// Len returns the number of recorded snapshots (0 for a nil receiver).
func (s *Snapshots) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// At returns the snapshot recorded at the given outer iteration index
// (0-based).
func (s *Snapshots) At(i int) Snapshot { return s.entries[i] }
