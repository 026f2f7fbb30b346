// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"github.com/Thermoquad/calorimeter/pkg/opentherm"
	"github.com/spf13/cobra"
)

var readTSPCmd = &cobra.Command{
	Use:   "readtsp [<start>[-<end>]]",
	Short: "Read transparent slave parameters",
	Long: `Read transparent slave parameters (TSPs) through the gateway.

A single index reads one entry, a range like 2-5 reads the span, and
an open range like 2- asks the appliance for its TSP count first and
reads up to the last entry. Without arguments entry 0 is read.

Examples:
  # Read all TSPs
  calorimeter readtsp 0- --topic wbe2-i-opentherm_11

  # Read TSPs 2 through 5
  calorimeter readtsp 2-5 --device /dev/ttyMOD1`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReadTSP,
}

var writeTSPCmd = &cobra.Command{
	Use:   "writetsp <index> <value>",
	Short: "Write one transparent slave parameter",
	Long: `Write a single transparent slave parameter (TSP) byte.

The value is an 8-bit literal; both the index and the value travel in
one data-id 11 exchange.

Example:
  calorimeter writetsp 3 60 --topic wbe2-i-opentherm_11`,
	Args: cobra.ExactArgs(2),
	RunE: runWriteTSP,
}

func init() {
	rootCmd.AddCommand(readTSPCmd)
	rootCmd.AddCommand(writeTSPCmd)
}

func runReadTSP(cmd *cobra.Command, args []string) error {
	arg := ""
	if len(args) > 0 {
		arg = args[0]
	}
	return runOps([]opentherm.CommandOp{{Kind: opentherm.OpReadTSP, Arg: arg}})
}

func runWriteTSP(cmd *cobra.Command, args []string) error {
	return runOps([]opentherm.CommandOp{{Kind: opentherm.OpWriteTSP, Arg: args[0], Literal: args[1]}})
}
