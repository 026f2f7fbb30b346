// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/Thermoquad/calorimeter/pkg/opentherm"
	"github.com/spf13/cobra"
)

var (
	feedTestTimeout int
)

var feedTestCmd = &cobra.Command{
	Use:   "feed_test",
	Short: "Test the feed by waiting for a valid OpenTherm frame",
	Long: `Wait for a valid OpenTherm frame on the eavesdrop feed until timeout.

This command connects to a serial port or WebSocket feed and waits for
the first line that decodes to a complete frame (passing parity and
spare-bit checks). Bridge diagnostic lines are ignored; damaged frame
lines are counted and skipped.

Exit codes:
  0 - Frame received before timeout
  1 - Timeout reached without receiving a valid frame
  2 - Feed connection or read error

Useful for testing connectivity to an OpenTherm eavesdrop bridge.`,
	Args: cobra.NoArgs,
	RunE: runFeedTest,
}

func init() {
	rootCmd.AddCommand(feedTestCmd)
	feedTestCmd.Flags().StringVarP(&feedPort, "port", "p", "", "Serial eavesdrop port")
	feedTestCmd.Flags().IntVarP(&feedBaud, "baud", "b", 9600, "Baud rate of the serial feed")
	feedTestCmd.Flags().StringVar(&feedURL, "url", "", "WebSocket feed URL (ws:// or wss://)")
	feedTestCmd.Flags().StringVar(&feedUsername, "feed-username", "", "Username for HTTP Basic auth on the feed")
	feedTestCmd.Flags().BoolVar(&feedNoSSLVerify, "no-ssl-verify", false, "Skip TLS certificate verification (wss:// only)")
	feedTestCmd.Flags().IntVar(&feedTestTimeout, "timeout", 10, "Timeout in seconds to wait for a frame")
}

func runFeedTest(cmd *cobra.Command, args []string) error {
	conn, connInfo, err := OpenFeed()
	if err != nil {
		return err
	}
	defer conn.Close()

	fmt.Printf("Calorimeter - Feed Test\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Timeout: %d seconds\n", feedTestTimeout)
	fmt.Printf("Waiting for valid OpenTherm frame...\n\n")

	// Channel for frame reception
	frameChan := make(chan opentherm.FeedFrame, 1)
	errChan := make(chan error, 1)

	// Reader goroutine
	go func() {
		invalidLines := 0
		scanner := bufio.NewScanner(conn)
		for scanner.Scan() {
			ff, err := opentherm.ParseFeedLine(scanner.Text())
			if errors.Is(err, opentherm.ErrSkipLine) {
				// Bridge diagnostics, not frame data
				continue
			}
			if err != nil {
				invalidLines++
				continue
			}
			if invalidLines > 0 {
				fmt.Printf("(skipped %d damaged lines before sync)\n", invalidLines)
			}
			frameChan <- ff
			return
		}
		if err := scanner.Err(); err != nil {
			errChan <- err
			return
		}
		errChan <- errors.New("feed closed before any frame")
	}()

	// Wait for frame or timeout
	select {
	case ff := <-frameChan:
		source := "thermostat"
		if ff.Source == 'B' {
			source = "boiler"
		}
		name := ""
		if item, ok := opentherm.NewRegistry().Lookup(ff.Frame.DataID()); ok {
			name = "  " + item.Descr
		}
		fmt.Printf("SUCCESS: Received valid frame\n")
		fmt.Printf("  Source: %c (%s)\n", ff.Source, source)
		fmt.Printf("  Type: %s\n", ff.Frame.Type())
		fmt.Printf("  Data-Id: %d%s\n", ff.Frame.DataID(), name)
		fmt.Printf("  Value: 0x%04X\n", ff.Frame.Value())
		fmt.Printf("  Raw: 0x%08X\n", ff.Raw)
		return nil

	case err := <-errChan:
		return fmt.Errorf("feed read: %w", err)

	case <-time.After(time.Duration(feedTestTimeout) * time.Second):
		fmt.Fprintf(os.Stderr, "TIMEOUT: No valid frame received within %d seconds\n", feedTestTimeout)
		return errOpFailed
	}
}
