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

// EffectSet selects which half-steps the integrator runs each outer
// iteration (spec.md §4.5).
type EffectSet int

const (
	// EffectAll runs both the energy-loss and spatial-diffusion
	// half-steps.
	EffectAll EffectSet = iota
	// EffectLossOnly runs only the energy-loss half-step.
	EffectLossOnly
	// EffectDiffusionOnly runs only the spatial-diffusion half-step.
	EffectDiffusionOnly
)

func (e EffectSet) hasLoss() bool      { return e == EffectAll || e == EffectLossOnly }
func (e EffectSet) hasDiffusion() bool { return e == EffectAll || e == EffectDiffusionOnly }

func (e EffectSet) String() string {
	switch e {
	case EffectLossOnly:
		return "loss_only"
	case EffectDiffusionOnly:
		return "diffusion_only"
	default:
		return "all"
	}
}
