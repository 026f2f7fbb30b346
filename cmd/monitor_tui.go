// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Thermoquad/calorimeter/pkg/opentherm"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Event log entry
type eventLogEntry struct {
	timestamp time.Time
	message   string
	isError   bool // true for errors, false for frames and notices
}

// TUI model
type monitorModel struct {
	connInfo      string
	registry      *opentherm.Registry
	stats         *opentherm.Statistics
	eventLog      []eventLogEntry
	maxLogEntries int
	width         int
	height        int
	quitting      bool
	feedLost      bool

	// Latest decoded state seen on the feed
	statusRequest uint16            // master flags of the last id-0 request
	boilerStatus  *uint16           // value of the last id-0 READ-ACK
	temperatures  map[uint8]float64 // latest reading per cataloged °C id
}

// Messages
type monitorTickMsg time.Time
type feedLineMsg struct {
	line string
}
type feedLostMsg struct {
	err error
}

func initialMonitorModel(connInfo string) monitorModel {
	return monitorModel{
		connInfo:      connInfo,
		registry:      opentherm.NewRegistry(),
		stats:         opentherm.NewStatistics(),
		eventLog:      make([]eventLogEntry, 0),
		maxLogEntries: 100,
		width:         80,
		height:        24,
		temperatures:  make(map[uint8]float64),
	}
}

func (m monitorModel) Init() tea.Cmd {
	return tea.Batch(
		monitorTickCmd(),
		tea.EnterAltScreen,
	)
}

func monitorTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return monitorTickMsg(t)
	})
}

func (m monitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case monitorTickMsg:
		// Update statistics rates
		m.stats.CalculateRates()
		return m, monitorTickCmd()

	case feedLineMsg:
		m.processFeedLine(msg.line)

	case feedLostMsg:
		m.feedLost = true
		if msg.err != nil {
			m.addLogEntry(fmt.Sprintf("Feed closed: %v", msg.err), true)
		} else {
			m.addLogEntry("Feed closed", true)
		}
	}

	return m, nil
}

func (m *monitorModel) addLogEntry(message string, isError bool) {
	entry := eventLogEntry{
		timestamp: time.Now(),
		message:   message,
		isError:   isError,
	}
	m.eventLog = append(m.eventLog, entry)

	// Keep only last N entries
	if len(m.eventLog) > m.maxLogEntries {
		m.eventLog = m.eventLog[len(m.eventLog)-m.maxLogEntries:]
	}
}

// processFeedLine updates counters, the event log and the decoded
// state panels from one feed line
func (m *monitorModel) processFeedLine(line string) {
	ff, err := opentherm.ParseFeedLine(line)
	m.stats.Update(ff, err)
	if err != nil {
		if !errors.Is(err, opentherm.ErrSkipLine) {
			m.addLogEntry(fmt.Sprintf("DECODE ERROR: %v", err), true)
		}
		return
	}

	name := ""
	if item, ok := m.registry.Lookup(ff.Frame.DataID()); ok {
		name = "  " + item.Descr
	}
	m.addLogEntry(fmt.Sprintf("%c %s%s", ff.Source, ff.Frame, name), false)

	switch ff.Source {
	case 'T':
		if ff.Frame.DataID() == opentherm.IDStatus {
			m.statusRequest = ff.Frame.Value()
		}

	case 'B':
		if ff.Frame.Type() != opentherm.ReadAck {
			return
		}
		if ff.Frame.DataID() == opentherm.IDStatus {
			v := ff.Frame.Value()
			m.boilerStatus = &v
		}
		item, ok := m.registry.Lookup(ff.Frame.DataID())
		if ok && item.Kind == opentherm.EncF88 && item.Units == "°C" {
			if v, err := opentherm.DecodeValue(ff.Frame.Value(), item.Kind, item.Pos); err == nil {
				m.temperatures[ff.Frame.DataID()] = v
			}
		}
	}
}

// statusFlags renders the raised flag names of one half of the id-0
// status word, with the catalog's byte prefix stripped
func (m monitorModel) statusFlags(value uint16, half, descrPrefix string) string {
	var set []string
	for _, sub := range m.registry.SubEntries(opentherm.Key(opentherm.IDStatus)) {
		if !strings.HasPrefix(sub.Variant, half) || sub.Variant == half {
			continue
		}
		v, err := opentherm.DecodeValue(value, sub.Item.Kind, sub.Item.Pos)
		if err != nil || v == 0 {
			continue
		}
		set = append(set, strings.TrimPrefix(sub.Item.Descr, descrPrefix))
	}
	if len(set) == 0 {
		return "none"
	}
	return strings.Join(set, ", ")
}

func (m monitorModel) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	// Styles
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		Background(lipgloss.Color("235")).
		Padding(0, 1)

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	statsLabelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("12")).
		Bold(true)

	statsValueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("10"))

	errorStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("9")).
		Bold(true)

	warningStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("11"))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	// Header
	var s strings.Builder
	s.WriteString(titleStyle.Render("CALORIMETER - FEED MONITOR"))
	s.WriteString("\n")
	s.WriteString(headerStyle.Render(fmt.Sprintf("%s | Press 'q' to quit", m.connInfo)))
	s.WriteString("\n\n")

	if m.feedLost {
		s.WriteString(errorStyle.Render("Feed closed - no more frames will arrive"))
		s.WriteString("\n\n")
	}

	// Statistics
	m.stats.CalculateRates()
	errorCount := m.stats.ParityErrors + m.stats.DecodeErrors

	statsContent := strings.Builder{}
	statsContent.WriteString(fmt.Sprintf("%s %s   %s %s   %s %s   %s %s\n",
		statsLabelStyle.Render("Total:"), statsValueStyle.Render(fmt.Sprintf("%d", m.stats.TotalFrames)),
		statsLabelStyle.Render("Master:"), statsValueStyle.Render(fmt.Sprintf("%d", m.stats.MasterFrames)),
		statsLabelStyle.Render("Slave:"), statsValueStyle.Render(fmt.Sprintf("%d", m.stats.SlaveFrames)),
		statsLabelStyle.Render("Paired:"), statsValueStyle.Render(fmt.Sprintf("%d", m.stats.PairedExchanges)),
	))

	if errorCount > 0 || m.stats.UnpairedSlave > 0 || m.stats.SkippedLines > 0 {
		statsContent.WriteString(fmt.Sprintf("%s %s   %s %s   %s %s   %s %s\n",
			statsLabelStyle.Render("Parity:"), errorStyle.Render(fmt.Sprintf("%d", m.stats.ParityErrors)),
			statsLabelStyle.Render("Decode:"), errorStyle.Render(fmt.Sprintf("%d", m.stats.DecodeErrors)),
			statsLabelStyle.Render("Unpaired:"), warningStyle.Render(fmt.Sprintf("%d", m.stats.UnpairedSlave)),
			statsLabelStyle.Render("Skipped:"), warningStyle.Render(fmt.Sprintf("%d", m.stats.SkippedLines)),
		))
	}

	statsContent.WriteString(fmt.Sprintf("%s %s   %s %s",
		statsLabelStyle.Render("Frame Rate:"), statsValueStyle.Render(fmt.Sprintf("%.1f frames/s", m.stats.FrameRate)),
		statsLabelStyle.Render("Error Rate:"), func() string {
			if m.stats.ErrorRate > 0 {
				return errorStyle.Render(fmt.Sprintf("%.1f err/s", m.stats.ErrorRate))
			}
			return statsValueStyle.Render(fmt.Sprintf("%.1f err/s", m.stats.ErrorRate))
		}(),
	))

	s.WriteString(boxStyle.Render(statsContent.String()))
	s.WriteString("\n\n")

	// Boiler status section (only shown once an id-0 exchange was seen)
	if m.boilerStatus != nil {
		s.WriteString(statsLabelStyle.Render("Boiler Status:"))
		s.WriteString("\n")

		statusContent := strings.Builder{}
		statusContent.WriteString(fmt.Sprintf("%s %s\n",
			statsLabelStyle.Render("Master:"),
			statsValueStyle.Render(m.statusFlags(m.statusRequest, "HB", "Master status: ")),
		))
		statusContent.WriteString(fmt.Sprintf("%s %s",
			statsLabelStyle.Render("Slave: "),
			statsValueStyle.Render(m.statusFlags(*m.boilerStatus, "LB", "Slave Status: ")),
		))

		s.WriteString(boxStyle.Render(statusContent.String()))
		s.WriteString("\n\n")
	}

	// Temperatures section
	if len(m.temperatures) > 0 {
		s.WriteString(statsLabelStyle.Render("Temperatures:"))
		s.WriteString("\n")

		ids := make([]uint8, 0, len(m.temperatures))
		for id := range m.temperatures {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

		tempContent := strings.Builder{}
		for i, id := range ids {
			item, _ := m.registry.Lookup(id)
			if i > 0 {
				tempContent.WriteString("\n")
			}
			tempContent.WriteString(fmt.Sprintf("%s %s",
				statsLabelStyle.Render(fmt.Sprintf("%-34s", item.Descr+":")),
				statsValueStyle.Render(fmt.Sprintf("%6.2f°C", m.temperatures[id])),
			))
		}

		s.WriteString(boxStyle.Render(tempContent.String()))
		s.WriteString("\n\n")
	}

	// Event log
	s.WriteString(statsLabelStyle.Render("Recent Frames:"))
	s.WriteString("\n")

	// Calculate how many log entries we can show
	logHeight := m.height - 18 // Reserve space for header and panels
	if logHeight < 5 {
		logHeight = 5
	}

	logContent := strings.Builder{}
	startIdx := len(m.eventLog) - logHeight
	if startIdx < 0 {
		startIdx = 0
	}

	if len(m.eventLog) == 0 {
		logContent.WriteString(headerStyle.Render("  (no frames yet)"))
	} else {
		for i := startIdx; i < len(m.eventLog); i++ {
			entry := m.eventLog[i]
			timestamp := entry.timestamp.Format("15:04:05.000")
			if entry.isError {
				logContent.WriteString(fmt.Sprintf("%s %s\n",
					headerStyle.Render(timestamp),
					errorStyle.Render("x "+entry.message),
				))
			} else {
				logContent.WriteString(fmt.Sprintf("%s %s\n",
					headerStyle.Render(timestamp),
					entry.message,
				))
			}
		}
	}

	s.WriteString(boxStyle.Width(m.width - 4).Render(logContent.String()))

	return s.String()
}
