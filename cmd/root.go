// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/Thermoquad/calorimeter/pkg/nevoton"
	"github.com/spf13/cobra"
)

var (
	// MQTT gateway flags
	mqttTopic    string
	mqttHost     string
	mqttPort     int
	mqttUsername string
	mqttPassword string

	// Modbus gateway flags
	serialDevice string
	slaveAddress int

	// Exchange behaviour flags
	retryOn    bool
	retryDelay time.Duration
	verbose    bool

	// Logging flags
	debugLog    bool
	logfileName string
	consoleLog  bool
	useSyslog   bool

	// Capture flag
	capturePath string
)

// errOpFailed marks runs where at least one operation failed after the
// gateway connection was up. Execute maps it to exit code 1; every
// other error is a configuration or connection failure and exits 2.
var errOpFailed = errors.New("operation failed")

var rootCmd = &cobra.Command{
	Use:   "calorimeter",
	Short: "OpenTherm explorer for the Nevoton BCG-10 gateway",
	Long: `Calorimeter - Explore OpenTherm heating appliances through a Nevoton
BCG-10.2.1-W gateway on a Wirenboard controller.

Read and write data-ids, transparent slave parameters and the fault
history buffer, scan the appliance for supported ids, or watch a
serial eavesdrop feed of the thermostat/boiler exchange.

Gateway transports (gateway commands take exactly one):
  MQTT:   --topic wbe2-i-opentherm_11 [--host localhost] [--mqtt-port 1883]
  Modbus: --device /dev/ttyMOD1 [--address 11]

For MQTT authentication the password comes from --password, the
CALORIMETER_PASSWORD environment variable, or an interactive prompt
when a username is set.

Exit codes:
  0 - all operations succeeded
  1 - at least one operation failed
  2 - configuration or connection error, nothing was exchanged`,
	Version:       "1.0.0",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setupLogging(); err != nil {
			return err
		}
		if verbose {
			fmt.Printf("Calorimeter - Nevoton OpenTherm Explorer. Ver %s\n", cmd.Root().Version)
		}
		slog.Info("starting calorimeter", "command", cmd.Name(), "args", args)
		return nil
	},
}

func init() {
	// MQTT gateway flags
	rootCmd.PersistentFlags().StringVarP(&mqttTopic, "topic", "t", "", "Nevoton module id as mqtt topic")
	rootCmd.PersistentFlags().StringVar(&mqttHost, "host", "localhost", "MQTT host")
	rootCmd.PersistentFlags().IntVar(&mqttPort, "mqtt-port", 1883, "MQTT port")
	rootCmd.PersistentFlags().StringVarP(&mqttUsername, "username", "u", "", "MQTT username")
	rootCmd.PersistentFlags().StringVarP(&mqttPassword, "password", "P", "", "MQTT password")

	// Modbus gateway flags
	rootCmd.PersistentFlags().StringVarP(&serialDevice, "device", "m", "", "Modbus serial device of the Nevoton module")
	rootCmd.PersistentFlags().IntVarP(&slaveAddress, "address", "a", nevoton.DefaultSlaveAddress, "Modbus slave address")

	// Exchange behaviour flags
	rootCmd.PersistentFlags().BoolVarP(&retryOn, "retry", "r", false, "Retry requests on non-fatal errors")
	rootCmd.PersistentFlags().DurationVar(&retryDelay, "retry-delay", 0, "Pause between retry attempts")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	// Logging flags
	rootCmd.PersistentFlags().BoolVarP(&debugLog, "debug", "d", false, "Debug logging")
	rootCmd.PersistentFlags().StringVarP(&logfileName, "logfile", "l", "calorimeter.log", "Log file name, empty disables")
	rootCmd.PersistentFlags().BoolVarP(&consoleLog, "console-log", "c", false, "Logging to console")
	rootCmd.PersistentFlags().BoolVarP(&useSyslog, "syslog", "s", false, "Logging to syslog")

	// Exchange capture
	rootCmd.PersistentFlags().StringVar(&capturePath, "capture", "", "Append every exchange to a capture file")
}

// Execute runs the root command and maps the outcome to an exit code
func Execute() int {
	err := rootCmd.Execute()

	code := 0
	switch {
	case err == nil:
		slog.Info("returning success (exit code 0)")
	case errors.Is(err, errOpFailed):
		slog.Info("returning exit code 1")
		code = 1
	default:
		fmt.Fprintln(os.Stderr, "Error!", err)
		slog.Error("run failed", "error", err)
		code = 2
	}

	closeLogging()
	return code
}
