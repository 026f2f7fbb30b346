// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"github.com/Thermoquad/calorimeter/pkg/opentherm"
	"github.com/spf13/cobra"
)

var readCmd = &cobra.Command{
	Use:   "read <id>[/<literal>]",
	Short: "Read one data-id from the appliance",
	Long: `Read a single OpenTherm data-id through the gateway.

The optional literal after the slash seeds the request value: the
status exchange (id 0) echoes master flags, container reads can carry
an index probe. Without it the catalog's default request applies.

A literal may stack %HB/%LB selectors to extract flag bits or bytes
from the response, each reported on its own line.

Examples:
  # Boiler water temperature over MQTT
  calorimeter read 25 --topic wbe2-i-opentherm_11

  # Status exchange with CH and DHW enable raised, direct Modbus
  calorimeter read 0/1%HB0+1%HB1 --device /dev/ttyMOD1`,
	Args: cobra.ExactArgs(1),
	RunE: runRead,
}

func init() {
	rootCmd.AddCommand(readCmd)
}

func runRead(cmd *cobra.Command, args []string) error {
	return runOps([]opentherm.CommandOp{{Kind: opentherm.OpRead, Arg: args[0]}})
}
