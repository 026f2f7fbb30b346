// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"fmt"

	"github.com/Thermoquad/calorimeter/pkg/opentherm"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var exploreCmd = &cobra.Command{
	Use:   "explore",
	Short: "Interactive TUI for exploring the appliance",
	Long: `Explore an OpenTherm appliance via an interactive terminal UI.

The left panel lists the data-id catalog, the right panel shows the
selected entry and the annotated result of the latest exchange.

Keys:
  enter   read the selected data-id
  w       open the value input and write the selected data-id
  /       filter the catalog list
  esc     leave the value input or the filter
  q       quit

One exchange is in flight at a time; while the gateway is busy further
requests are ignored.

Requires a gateway transport (--topic or --device).`,
	Args: cobra.NoArgs,
	RunE: runExplore,
}

func init() {
	rootCmd.AddCommand(exploreCmd)
}

func runExplore(cmd *cobra.Command, args []string) error {
	gw, err := openSession()
	if err != nil {
		return err
	}
	defer gw.close()

	// Cancelled before the transport closes so an in-flight exchange
	// unwinds first
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := initialExploreModel(ctx, gw.session, gw.device)
	p := tea.NewProgram(m, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %v", err)
	}
	return nil
}

// exchangeDoneMsg delivers the outcome of one gateway exchange back to
// the explore model
type exchangeDoneMsg struct {
	op       string // "read" or "write"
	id       uint8
	sent     uint16
	frame    opentherm.Frame
	err      error
	describe string
}

// exchangeCmd runs one exchange off the TUI goroutine. The session
// serializes exchanges; the model's busy state keeps a second request
// from queueing behind a slow one.
func exchangeCmd(ctx context.Context, session *opentherm.Session, registry *opentherm.Registry, op string, id uint8, prm uint16) tea.Cmd {
	return func() tea.Msg {
		var frame opentherm.Frame
		var err error
		dir := opentherm.DirRead
		if op == "write" {
			frame, err = session.Write(ctx, id, prm)
			dir = opentherm.DirWrite
		} else {
			frame, err = session.Read(ctx, id, prm)
		}

		msg := exchangeDoneMsg{op: op, id: id, sent: prm, frame: frame, err: err}
		if err == nil {
			text, derr := registry.Describe(id, dir, prm, frame.Value())
			switch {
			case derr == nil:
				msg.describe = text
			case opentherm.NotCataloged(derr):
				msg.describe = fmt.Sprintf("Not in catalog, raw value 0x%04X", frame.Value())
			default:
				msg.describe = derr.Error()
			}
		}
		return msg
	}
}
