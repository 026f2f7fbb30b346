// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"github.com/Thermoquad/calorimeter/pkg/opentherm"
	"github.com/spf13/cobra"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan all known readable data-ids",
	Long: `Probe every readable data-id of the built-in catalog.

Each supported id prints with its value; unsupported ids print as
"not supported". When the appliance answers the TSP and FHB size ids,
the scan detours through the reported entries as well.

Example:
  calorimeter scan --topic wbe2-i-opentherm_11`,
	Args: cobra.NoArgs,
	RunE: runScan,
}

var fullScanCmd = &cobra.Command{
	Use:   "fullscan [<start>[-<end>]]",
	Short: "Scan a raw data-id range",
	Long: `Probe every data-id in a raw range, cataloged or not.

Without arguments the whole id space 0-255 is scanned. A single id
probes just that id, a range like 0-127 probes the span, and an open
range like 100- runs to the end of the id space.

Example:
  calorimeter fullscan 0-127 --device /dev/ttyMOD1`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFullScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(fullScanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	return runOps([]opentherm.CommandOp{{Kind: opentherm.OpScan}})
}

func runFullScan(cmd *cobra.Command, args []string) error {
	arg := ""
	if len(args) > 0 {
		arg = args[0]
	}
	return runOps([]opentherm.CommandOp{{Kind: opentherm.OpFullScan, Arg: arg}})
}
