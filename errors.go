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

import "fmt"

// InvalidInputError reports a fatal problem with the caller-supplied
// grid, density, or configuration, detected at entry before any solve
// has started.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("electrons: invalid input: %s", e.Reason)
}

// BreakdownError reports a fatal non-finite value discovered in a
// derived array, or a singular tridiagonal system, identified by its
// (i,j) grid location.
type BreakdownError struct {
	Field string
	I, J  int
	Value float64
}

func (e *BreakdownError) Error() string {
	return fmt.Sprintf("electrons: numerical breakdown in %s at (i=%d, j=%d): value=%g",
		e.Field, e.I, e.J, e.Value)
}

// NonConvergence is returned (not as an error) alongside the
// best-available ψ when the outer iteration ceiling is reached without
// satisfying any termination criterion, or when the caller's context
// was cancelled mid-solve. It is informational, not fatal: the caller
// decides whether the returned ψ is useful.
type NonConvergence struct {
	Iterations int
	RelDiff    float64
	Cancelled  bool
}

func (n *NonConvergence) Error() string {
	if n.Cancelled {
		return fmt.Sprintf("electrons: solve cancelled after %d iterations (rel_diff=%g)", n.Iterations, n.RelDiff)
	}
	return fmt.Sprintf("electrons: did not converge within %d iterations (rel_diff=%g)", n.Iterations, n.RelDiff)
}

// BenchmarkFailure describes the case where, in benchmark mode, dψ/dt
// never reaches machine zero before the iteration ceiling. Solve does
// not return this type; it reports the case through
// Result.BenchmarkFailed.
type BenchmarkFailure struct {
	Iterations int
}

func (b *BenchmarkFailure) Error() string {
	return fmt.Sprintf("electrons: benchmark mode failed to reach dψ/dt=0 within %d iterations", b.Iterations)
}
