// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/Thermoquad/calorimeter/pkg/opentherm"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var (
	// Feed connection flags
	feedPort        string
	feedBaud        int
	feedURL         string
	feedUsername    string
	feedNoSSLVerify bool

	// Front-end flags
	monitorTUI           bool
	monitorStatsInterval int
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Watch an OpenTherm eavesdrop feed",
	Long: `Passively decode the thermostat/boiler exchange on an eavesdrop feed.

The feed carries the T<hex8>/B<hex8> line format of serial OpenTherm
protocol bridges, either from a local serial port or from a WebSocket
bridge. Every frame decodes to a line with direction, message type,
data-id and catalog name; a statistics block prints periodically.
--tui switches to a full-screen view with the latest boiler status,
the temperatures seen on the feed, and a scrolling event log.

The monitor only ever reads; nothing is written to the feed.

Feed connections (exactly one):
  Serial:    --port /dev/ttyUSB0 [--baud 9600]
  WebSocket: --url wss://bridge.local/feed [--feed-username user]

Examples:
  calorimeter monitor --port /dev/ttyUSB0
  calorimeter monitor --url ws://bridge.local:8080/ot --tui`,
	Args: cobra.NoArgs,
	RunE: runMonitor,
}

func init() {
	rootCmd.AddCommand(monitorCmd)
	monitorCmd.Flags().StringVarP(&feedPort, "port", "p", "", "Serial eavesdrop port")
	monitorCmd.Flags().IntVarP(&feedBaud, "baud", "b", 9600, "Baud rate of the serial feed")
	monitorCmd.Flags().StringVar(&feedURL, "url", "", "WebSocket feed URL (ws:// or wss://)")
	monitorCmd.Flags().StringVar(&feedUsername, "feed-username", "", "Username for HTTP Basic auth on the feed")
	monitorCmd.Flags().BoolVar(&feedNoSSLVerify, "no-ssl-verify", false, "Skip TLS certificate verification (wss:// only)")
	monitorCmd.Flags().BoolVar(&monitorTUI, "tui", false, "Use terminal UI (default is text mode)")
	monitorCmd.Flags().IntVar(&monitorStatsInterval, "stats-interval", 10, "Statistics update interval (seconds)")
}

func runMonitor(cmd *cobra.Command, args []string) error {
	conn, connInfo, err := OpenFeed()
	if err != nil {
		return err
	}
	defer conn.Close()

	if monitorTUI {
		return runMonitorTUI(conn, connInfo)
	}
	return runMonitorText(conn, connInfo)
}

// printFeedLine decodes and prints one feed line, keeping the counters
// current. Bridge diagnostic lines count as skipped and stay silent.
func printFeedLine(registry *opentherm.Registry, stats *opentherm.Statistics, line string) {
	ff, err := opentherm.ParseFeedLine(line)
	stats.Update(ff, err)
	timestamp := time.Now().Format("15:04:05.000")

	if err != nil {
		if !errors.Is(err, opentherm.ErrSkipLine) {
			fmt.Printf("[%s] ! %v\n", timestamp, err)
		}
		return
	}

	name := ""
	if item, ok := registry.Lookup(ff.Frame.DataID()); ok {
		name = "  " + item.Descr
	}
	fmt.Printf("[%s] %c %-14s %3d 0x%04X%s\n",
		timestamp, ff.Source, ff.Frame.Type(), ff.Frame.DataID(), ff.Frame.Value(), name)
}

// runMonitorText decodes the feed to stdout line by line
func runMonitorText(conn FeedConnection, connInfo string) error {
	fmt.Printf("Calorimeter - OpenTherm Feed Monitor\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Statistics interval: %d seconds\n", monitorStatsInterval)
	fmt.Printf("Press Ctrl+C to exit\n\n")

	registry := opentherm.NewRegistry()
	stats := opentherm.NewStatistics()

	// Channel for non-blocking feed reads
	lines := make(chan string, 10)
	feedDone := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(conn)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		feedDone <- scanner.Err()
	}()

	statsTicker := time.NewTicker(time.Duration(monitorStatsInterval) * time.Second)
	defer statsTicker.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	for {
		select {
		case line := <-lines:
			printFeedLine(registry, stats, line)

		case <-statsTicker.C:
			fmt.Println()
			fmt.Print(stats.String())
			fmt.Println()

		case err := <-feedDone:
			fmt.Println()
			fmt.Print(stats.String())
			if err != nil && !errors.Is(err, ErrFeedClosed) {
				return fmt.Errorf("feed closed: %w", err)
			}
			fmt.Println("Feed closed")
			return nil

		case <-ctx.Done():
			fmt.Println()
			fmt.Print(stats.String())
			return nil
		}
	}
}

// runMonitorTUI runs the feed monitor as a full-screen TUI
func runMonitorTUI(conn FeedConnection, connInfo string) error {
	m := initialMonitorModel(connInfo)
	p := tea.NewProgram(m)

	// Feed reader goroutine
	go func() {
		scanner := bufio.NewScanner(conn)
		for scanner.Scan() {
			p.Send(feedLineMsg{line: scanner.Text()})
		}
		p.Send(feedLostMsg{err: scanner.Err()})
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %v", err)
	}
	return nil
}
