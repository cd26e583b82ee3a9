/*
Copyright © 2017 the InMAP authors.
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

	"github.com/BurntSushi/toml"
)

// Config collects the recognised solver options (spec.md §6, §9) as a
// single explicit struct rather than a loose key-value map, as design
// note 9 requires. Field names mirror the `adi_*`/`electron_mode`
// dictionary keys the external validator passes through.
type Config struct {
	// ElectronMode selects which transport solver path handles the
	// request. Only "adi-python" routes into this core; any other
	// value means the caller should not invoke Solve.
	ElectronMode string `toml:"electron_mode"`

	LossOnly bool `toml:"loss_only"`
	ModeExp  int  `toml:"mode_exp"`

	DiffConstant float64 `toml:"diff_constant"` // D0, cm^2/s
	DiffIndex    float64 `toml:"diff_index"`    // δ

	AdiDeltaTi            float64 `toml:"adi_delta_ti"`             // yr
	AdiDeltaTMin          float64 `toml:"adi_delta_t_min"`          // yr
	AdiDeltaTReduction    float64 `toml:"adi_delta_t_reduction"`
	AdiMaxSteps           int     `toml:"adi_max_steps"`
	AdiDeltaTConstant     bool    `toml:"adi_delta_t_constant"`
	AdiBenchMarkMode      bool    `toml:"adi_bench_mark_mode"`

	AnimationFlag bool `toml:"animation_flag"`

	// EnergyScheme selects the energy stencil (design note 9.2,
	// supplemented feature): "upwind" (default) or "central".
	EnergyScheme string `toml:"energy_scheme"`

	// MaxOuterIters is the hard iteration ceiling (design note 9.3,
	// promoted from a hardcoded 10^4 to configuration).
	MaxOuterIters int `toml:"max_outer_iters"`
}

// DefaultConfig returns a Config populated with the defaults listed in
// spec.md §6.
func DefaultConfig() Config {
	return Config{
		ElectronMode:       "adi-python",
		ModeExp:            2,
		DiffConstant:       3.1e28,
		DiffIndex:          1.0 / 3.0, // Kolmogorov spectrum index, spec.md §8's S1 fixture
		AdiDeltaTi:         1e9,
		AdiDeltaTMin:       1e1,
		AdiDeltaTReduction: 0.5,
		AdiMaxSteps:        100,
		EnergyScheme:       string(SchemeUpwind),
		MaxOuterIters:      10000,
	}
}

// ReadConfigFile loads a Config from a TOML file, starting from
// DefaultConfig and overwriting any fields present in the file,
// mirroring inmap/cmd's toml.DecodeFile-based ConfigData loader.
func ReadConfigFile(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("electrons: reading config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the invalid-input conditions of spec.md §7 that are
// cheap to verify before any array is allocated. It is a second guard
// independent of the caller's own upstream dictionary validator, which
// remains out of scope for this core (spec.md §1).
func (c Config) Validate(nr, ne int) error {
	if c.ElectronMode != "" && c.ElectronMode != "adi-python" {
		return &InvalidInputError{Reason: fmt.Sprintf("electron_mode %q does not route to this core", c.ElectronMode)}
	}
	if nr < 3 {
		return &InvalidInputError{Reason: "N_r must be >= 3"}
	}
	if ne < 3 {
		return &InvalidInputError{Reason: "N_E must be >= 3"}
	}
	if !c.LossOnly && (c.DiffIndex <= 0 || c.DiffIndex >= 2) {
		return &InvalidInputError{Reason: "diff_index (δ) must be in (0, 2)"}
	}
	if c.ModeExp != 1 && c.ModeExp != 2 {
		return &InvalidInputError{Reason: "mode_exp must be 1 or 2"}
	}
	if c.AdiMaxSteps <= 0 {
		return &InvalidInputError{Reason: "adi_max_steps must be positive"}
	}
	if c.AdiDeltaTReduction <= 0 || c.AdiDeltaTReduction >= 1 {
		return &InvalidInputError{Reason: "adi_delta_t_reduction must be in (0, 1)"}
	}
	scheme := EnergyScheme(c.EnergyScheme)
	if scheme != "" && scheme != SchemeUpwind && scheme != SchemeCentral {
		return &InvalidInputError{Reason: fmt.Sprintf("energy_scheme %q is not recognised", c.EnergyScheme)}
	}
	return nil
}

func (c Config) effects() EffectSet {
	if c.LossOnly {
		return EffectLossOnly
	}
	return EffectAll
}

func (c Config) energyScheme() EnergyScheme {
	if c.EnergyScheme == "" {
		return SchemeUpwind
	}
	return EnergyScheme(c.EnergyScheme)
}

func (c Config) maxOuterIters() int {
	if c.MaxOuterIters <= 0 {
		return 10000
	}
	return c.MaxOuterIters
}
