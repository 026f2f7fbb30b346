// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"github.com/Thermoquad/calorimeter/pkg/opentherm"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <tokens>...",
	Short: "Run a scripted batch of operations",
	Long: `Execute a batch of operations in the token grammar:

  read|r <id>[/<literal>]
  write|w <id> <literal>
  readtsp|rt <start>[-<end>]
  writetsp|wt <index> <value>
  readerr|re <index>
  scan|s
  fullscan|f [<start>[-<end>]]

Operations run strictly in order over one gateway session. A failing
operation reports and the batch continues; only a transport loss or an
interrupt aborts the remainder.

Examples:
  # Status, then flow temperature, then raise the setpoint
  calorimeter run r 0 r 25 w 1 48.5%F8.8 --topic wbe2-i-opentherm_11

  # Scan, then dump the fault history
  calorimeter run s re -1 --device /dev/ttyMOD1`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	return runOps(opentherm.ParseBatch(args))
}
