// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"github.com/Thermoquad/calorimeter/pkg/opentherm"
	"github.com/spf13/cobra"
)

var readErrCmd = &cobra.Command{
	Use:   "readerr <index>",
	Short: "Read the fault history buffer",
	Long: `Read fault history buffer (FHB) entries through the gateway.

A non-negative index reads one entry. A negative index asks the
appliance for the buffer size first and reads every entry.

Examples:
  # Read FHB entry 0
  calorimeter readerr 0 --topic wbe2-i-opentherm_11

  # Enumerate the whole fault history
  calorimeter readerr -- -1 --device /dev/ttyMOD1`,
	Args: cobra.ExactArgs(1),
	RunE: runReadErr,
}

func init() {
	rootCmd.AddCommand(readErrCmd)
}

func runReadErr(cmd *cobra.Command, args []string) error {
	return runOps([]opentherm.CommandOp{{Kind: opentherm.OpReadErr, Arg: args[0]}})
}
