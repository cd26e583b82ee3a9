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

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	electrons "github.com/astronomike/DarkMatters"
	"github.com/spf13/cobra"
)

const version = "0.1.0"

var (
	configFile string
	inputFile  string
)

func init() {
	Root.AddCommand(versionCmd)
	Root.AddCommand(validateCmd)
	Root.AddCommand(runCmd)

	Root.PersistentFlags().StringVar(&configFile, "config", "./adisolve.toml", "solver configuration file location")
	runCmd.Flags().StringVar(&inputFile, "input", "./inputs.json", "physical input sample file location (JSON)")
	validateCmd.Flags().StringVar(&inputFile, "input", "./inputs.json", "physical input sample file location (JSON)")
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "adisolve",
	Short: "Steady-state electron/positron transport solver for dark-matter halos.",
	Long: `adisolve computes the steady-state energy distribution of relativistic
electrons and positrons produced inside a spherically symmetric dark-matter
halo, subject to spatial diffusion and continuous energy losses, using a
Crank-Nicolson alternating-direction finite-difference scheme.`,
	DisableAutoGenTag: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("adisolve v%s\n", version)
	},
	DisableAutoGenTag: true,
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration and input file without solving.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, in, err := loadConfigAndInputs()
		if err != nil {
			return err
		}
		if err := cfg.Validate(len(in.RSample), len(in.ESample)); err != nil {
			return err
		}
		fmt.Println("configuration and inputs are valid")
		return nil
	},
	DisableAutoGenTag: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the solver to steady state.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, in, err := loadConfigAndInputs()
		if err != nil {
			return err
		}
		res, err := electrons.Solve(context.Background(), in, cfg)
		if err != nil {
			return err
		}
		if res.NonConvergence != nil {
			fmt.Fprintln(os.Stderr, res.NonConvergence.Error())
		}
		if res.BenchmarkFailed {
			fmt.Fprintln(os.Stderr, "benchmark mode did not reach dψ/dt = 0")
		}
		fmt.Printf("converged=%v iterations=%d rel_diff=%g\n", res.Converged, res.Iterations, res.RelDiff)
		return nil
	},
	DisableAutoGenTag: true,
}

func loadConfigAndInputs() (electrons.Config, electrons.Inputs, error) {
	cfg, err := electrons.ReadConfigFile(configFile)
	if err != nil {
		return electrons.Config{}, electrons.Inputs{}, err
	}
	f, err := os.Open(inputFile)
	if err != nil {
		return electrons.Config{}, electrons.Inputs{}, fmt.Errorf("adisolve: opening input file %s: %w", inputFile, err)
	}
	defer f.Close()

	var in electrons.Inputs
	if err := json.NewDecoder(f).Decode(&in); err != nil {
		return electrons.Config{}, electrons.Inputs{}, fmt.Errorf("adisolve: decoding input file %s: %w", inputFile, err)
	}
	return cfg, in, nil
}
