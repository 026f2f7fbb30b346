// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/Thermoquad/calorimeter/pkg/opentherm"
	"github.com/spf13/cobra"
)

var exchangeLogCmd = &cobra.Command{
	Use:   "exchange_log <file>",
	Short: "Print a capture file in human-readable format",
	Long: `Decode and display the exchanges of a capture file.

Each record written through --capture prints with its timestamp,
transport, decoded request and response frames, and the failure note
when the exchange got no response.

Example:
  calorimeter exchange_log exchanges.cap`,
	Args: cobra.ExactArgs(1),
	RunE: runExchangeLog,
}

func init() {
	rootCmd.AddCommand(exchangeLogCmd)
}

// formatCapturedFrame renders a stored raw frame, annotated with the
// catalog name of its data-id when there is one
func formatCapturedFrame(registry *opentherm.Registry, raw uint32) string {
	frame, err := opentherm.Decode(raw)
	if err != nil {
		return fmt.Sprintf("0x%08X (%v)", raw, err)
	}
	if item, ok := registry.Lookup(frame.DataID()); ok {
		return fmt.Sprintf("%s (%s)", frame, item.Descr)
	}
	return frame.String()
}

func runExchangeLog(cmd *cobra.Command, args []string) error {
	reader, err := opentherm.OpenCapture(args[0])
	if err != nil {
		return err
	}
	defer reader.Close()

	fmt.Printf("Calorimeter - Exchange Log\n")
	fmt.Printf("Capture: %s\n\n", args[0])

	registry := opentherm.NewRegistry()
	records := 0

	for {
		rec, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("capture file damaged after %d records: %w", records, err)
		}
		records++

		stamp := rec.Timestamp
		if ts, err := time.Parse(time.RFC3339Nano, rec.Timestamp); err == nil {
			stamp = ts.Format("2006-01-02 15:04:05.000")
		}

		request := formatCapturedFrame(registry, rec.Request)
		if rec.Response != nil {
			fmt.Printf("[%s] %-6s %s -> %s\n",
				stamp, rec.Transport, request, formatCapturedFrame(registry, *rec.Response))
		} else {
			fmt.Printf("[%s] %-6s %s -> no response (%s)\n",
				stamp, rec.Transport, request, rec.Note)
		}
	}

	fmt.Printf("\n%d exchanges\n", records)
	return nil
}
