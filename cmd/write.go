// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"github.com/Thermoquad/calorimeter/pkg/opentherm"
	"github.com/spf13/cobra"
)

var writeCmd = &cobra.Command{
	Use:   "write <id> <literal>",
	Short: "Write one data-id on the appliance",
	Long: `Write a single OpenTherm data-id through the gateway.

The literal accepts plain integers, %F8.8 float literals in 1/256
steps, and %HB/%LB byte and flag parts combined with '+'. A literal
that does not parse fails locally and nothing is sent.

Examples:
  # Control setpoint 48.5 degrees
  calorimeter write 1 48.5%F8.8 --topic wbe2-i-opentherm_11

  # Raise the CH enable flag of the remote override function
  calorimeter write 100 1%LB0 --device /dev/ttyMOD1`,
	Args: cobra.ExactArgs(2),
	RunE: runWrite,
}

func init() {
	rootCmd.AddCommand(writeCmd)
}

func runWrite(cmd *cobra.Command, args []string) error {
	return runOps([]opentherm.CommandOp{{Kind: opentherm.OpWrite, Arg: args[0], Literal: args[1]}})
}
