// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/Thermoquad/calorimeter/pkg/opentherm"
	"github.com/spf13/cobra"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive command shell",
	Long: `Open the gateway once and run operations interactively.

Each line accepts the same token grammar as 'run', plus help/h and
quit/q. Verbose output and retries are always on in the shell. Ctrl-C
quits; a quit during a running exchange lets the exchange unwind
first.

Example:
  calorimeter shell --topic wbe2-i-opentherm_11`,
	Args: cobra.NoArgs,
	RunE: runShell,
}

func init() {
	rootCmd.AddCommand(shellCmd)
}

func printShellHelp() {
	fmt.Println("Commands supported:")
	fmt.Println(" s[can] - scan all known readable opentherm data-id")
	fmt.Println(" f[ullscan] [<startId>[-<lastId>]] - perform unconditional read scan")
	fmt.Println(" r[ead] <id>[/<data>] - read data-id")
	fmt.Println(" w[rite] <id> <data> - write data-id with given data")
	fmt.Println(" readtsp/rt [<startTSP>[-<finishTSP>]] - read Transparent Slave Parameter")
	fmt.Println(" writetsp/wt <id> <data> - write Transparent Slave Parameter")
	fmt.Println(" readerr/re <idx> - read Fault-History-Buffer entry, negative reads all")
	fmt.Println(" h[elp]")
	fmt.Println(" q[uit]")
}

func runShell(cmd *cobra.Command, args []string) error {
	// the original interactive mode always ran verbose with retries
	verbose = true
	retryOn = true

	return withGateway(func(ctx context.Context, it *opentherm.Interpreter) error {
		lines := make(chan string)
		readErr := make(chan error, 1)
		go func() {
			scanner := bufio.NewScanner(os.Stdin)
			for scanner.Scan() {
				lines <- scanner.Text()
			}
			readErr <- scanner.Err()
		}()

		for {
			fmt.Print("Enter command (h for help)> ")

			select {
			case <-ctx.Done():
				fmt.Println()
				fmt.Println("Quitting")
				return nil

			case err := <-readErr:
				// stdin closed, leave like an explicit quit
				fmt.Println()
				return err

			case line := <-lines:
				tokens := strings.Fields(line)
				if len(tokens) == 0 {
					continue
				}
				switch tokens[0] {
				case "help", "h":
					printShellHelp()
					continue
				case "quit", "q":
					fmt.Println("Quitting")
					return nil
				}

				failed, last := it.Execute(ctx, opentherm.ParseBatch(tokens))
				if ctx.Err() != nil {
					fmt.Println("Quitting")
					return nil
				}
				if failed > 0 {
					fmt.Fprintln(os.Stderr, "Error!", last)
					if opentherm.Fatal(last) {
						return last
					}
				}
			}
		}
	})
}
