// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Thermoquad/calorimeter/pkg/opentherm"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

//////////////////////////////////////////////////////////////
// Constants
//////////////////////////////////////////////////////////////

// Focus states
const (
	focusItemList = iota
	focusValueInput
)

//////////////////////////////////////////////////////////////
// Types
//////////////////////////////////////////////////////////////

// exploreItem wraps one catalog entry for the item list
type exploreItem struct {
	item opentherm.DataItem
}

// Implement list.Item interface
func (e exploreItem) Title() string {
	return fmt.Sprintf("%3d  %s", e.item.ID, e.item.Descr)
}

func (e exploreItem) Description() string {
	parts := []string{e.item.Dir.String()}
	if e.item.Kind != opentherm.EncNone {
		parts = append(parts, e.item.Kind.String())
	}
	if e.item.Units != "" {
		parts = append(parts, e.item.Units)
	}
	return strings.Join(parts, " ")
}

func (e exploreItem) FilterValue() string {
	return fmt.Sprintf("%d %s", e.item.ID, e.item.Descr)
}

// exploreModel is the Bubble Tea model for the explore TUI
type exploreModel struct {
	ctx      context.Context
	session  *opentherm.Session
	registry *opentherm.Registry
	device   string

	itemList   list.Model
	valueInput textinput.Model

	focusedField int
	busy         bool
	lastResult   *exchangeDoneMsg

	eventLog      []eventLogEntry
	maxLogEntries int

	width    int
	height   int
	quitting bool
}

//////////////////////////////////////////////////////////////
// Model Initialization
//////////////////////////////////////////////////////////////

func initialExploreModel(ctx context.Context, session *opentherm.Session, device string) exploreModel {
	registry := opentherm.NewRegistry()

	// Text input for the write literal
	ti := textinput.New()
	ti.Placeholder = "48.5%F8.8"
	ti.CharLimit = 32
	ti.Width = 24

	items := []list.Item{}
	for _, item := range registry.Items() {
		items = append(items, exploreItem{item: item})
	}

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true
	delegate.SetHeight(2)
	itemList := list.New(items, delegate, 44, 10)
	itemList.Title = "Data-Ids"
	itemList.SetShowStatusBar(false)
	itemList.SetShowHelp(false)

	return exploreModel{
		ctx:           ctx,
		session:       session,
		registry:      registry,
		device:        device,
		itemList:      itemList,
		valueInput:    ti,
		focusedField:  focusItemList,
		eventLog:      make([]eventLogEntry, 0),
		maxLogEntries: 100,
		width:         80,
		height:        24,
	}
}

//////////////////////////////////////////////////////////////
// Bubble Tea Interface
//////////////////////////////////////////////////////////////

func (m exploreModel) Init() tea.Cmd {
	return nil
}

func (m exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateListSize()

	case exchangeDoneMsg:
		m.busy = false
		m.lastResult = &msg
		if msg.err != nil {
			m.addLogEntry(fmt.Sprintf("%s %d failed: %v", msg.op, msg.id, msg.err), true)
		} else {
			m.addLogEntry(fmt.Sprintf("%s %d: %s", msg.op, msg.id, msg.frame), false)
		}
	}

	return m, nil
}

func (m exploreModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// While the list filter is typing, every key belongs to the list
	if m.focusedField == focusItemList && m.itemList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.itemList, cmd = m.itemList.Update(msg)
		return m, cmd
	}

	if m.focusedField == focusValueInput {
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "esc":
			m.valueInput.Blur()
			m.focusedField = focusItemList
			return m, nil

		case "enter":
			return m.startWrite()
		}

		var cmd tea.Cmd
		m.valueInput, cmd = m.valueInput.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "enter":
		return m.startRead()

	case "w":
		if m.busy {
			m.addLogEntry("Gateway busy, exchange in flight", true)
			return m, nil
		}
		if _, ok := m.selectedItem(); !ok {
			return m, nil
		}
		m.focusedField = focusValueInput
		m.valueInput.Focus()
		return m, nil
	}

	var cmd tea.Cmd
	m.itemList, cmd = m.itemList.Update(msg)
	return m, cmd
}

//////////////////////////////////////////////////////////////
// Commands
//////////////////////////////////////////////////////////////

func (m exploreModel) startRead() (tea.Model, tea.Cmd) {
	if m.busy {
		m.addLogEntry("Gateway busy, exchange in flight", true)
		return m, nil
	}
	item, ok := m.selectedItem()
	if !ok {
		return m, nil
	}

	prm := m.registry.DefaultRequest(item.ID)
	m.busy = true
	m.addLogEntry(fmt.Sprintf("Reading dataid %d...", item.ID), false)
	return m, exchangeCmd(m.ctx, m.session, m.registry, "read", item.ID, prm)
}

func (m exploreModel) startWrite() (tea.Model, tea.Cmd) {
	if m.busy {
		m.addLogEntry("Gateway busy, exchange in flight", true)
		return m, nil
	}
	item, ok := m.selectedItem()
	if !ok {
		return m, nil
	}

	literal := m.valueInput.Value()
	value, _, err := opentherm.ParseValue(literal)
	if err != nil {
		// nothing goes on the wire for a bad literal
		m.addLogEntry(fmt.Sprintf("Invalid value '%s': %v", literal, err), true)
		return m, nil
	}

	m.valueInput.Blur()
	m.focusedField = focusItemList
	m.busy = true
	m.addLogEntry(fmt.Sprintf("Writing dataid %d with value %d...", item.ID, value), false)
	return m, exchangeCmd(m.ctx, m.session, m.registry, "write", item.ID, value)
}

//////////////////////////////////////////////////////////////
// View
//////////////////////////////////////////////////////////////

func (m exploreModel) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	var s strings.Builder

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

	focusedBoxStyle := boxStyle.
		BorderForeground(lipgloss.Color("12"))

	// Header
	s.WriteString(titleStyle.Render("CALORIMETER EXPLORE"))
	s.WriteString(" ")
	status := fmt.Sprintf("| %s | enter=read w=write /=filter q=quit", m.device)
	s.WriteString(headerStyle.Render(status))
	if m.busy {
		s.WriteString(" ")
		s.WriteString(warningStyle.Render("exchanging..."))
	}
	s.WriteString("\n\n")

	// Layout: left panel (catalog) | right panel (result)
	leftWidth := 44
	rightWidth := m.width - leftWidth - 6
	if rightWidth < 20 {
		rightWidth = 20
	}

	listStyle := boxStyle.Width(leftWidth)
	if m.focusedField == focusItemList {
		listStyle = focusedBoxStyle.Width(leftWidth)
	}
	listPanel := listStyle.Render(m.itemList.View())

	resultContent := m.renderResultPanel(statsLabelStyle, statsValueStyle, errorStyle, headerStyle)
	resultStyle := boxStyle.Width(rightWidth)
	if m.focusedField == focusValueInput {
		resultStyle = focusedBoxStyle.Width(rightWidth)
	}
	resultPanel := resultStyle.Render(resultContent)

	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, listPanel, " ", resultPanel))
	s.WriteString("\n\n")

	// Event log
	s.WriteString(m.renderEventLog(statsLabelStyle, headerStyle, errorStyle, boxStyle))

	return s.String()
}

//////////////////////////////////////////////////////////////
// View Helpers
//////////////////////////////////////////////////////////////

func (m exploreModel) renderResultPanel(statsLabelStyle, statsValueStyle, errorStyle, headerStyle lipgloss.Style) string {
	var s strings.Builder

	item, ok := m.selectedItem()
	if !ok {
		return headerStyle.Render("No data-id selected")
	}

	// Catalog details of the selection
	s.WriteString(fmt.Sprintf("%s %d %s\n", statsLabelStyle.Render("Selected:"), item.ID, item.Descr))
	details := fmt.Sprintf("%s %s", statsLabelStyle.Render("Direction:"), statsValueStyle.Render(item.Dir.String()))
	if item.Kind != opentherm.EncNone {
		details += fmt.Sprintf("  %s %s", statsLabelStyle.Render("Encoding:"), statsValueStyle.Render(item.Kind.String()))
	}
	if item.Units != "" {
		details += fmt.Sprintf("  %s %s", statsLabelStyle.Render("Units:"), statsValueStyle.Render(item.Units))
	}
	s.WriteString(details)
	s.WriteString("\n")
	if item.Kind != opentherm.EncNone && item.Kind != opentherm.EncFlags {
		s.WriteString(fmt.Sprintf("%s %s\n", statsLabelStyle.Render("Range:"),
			statsValueStyle.Render(fmt.Sprintf("%g..%g", item.Min, item.Max))))
	}
	if subs := m.registry.SubEntries(opentherm.Key(item.ID)); len(subs) > 0 {
		s.WriteString(fmt.Sprintf("%s %s\n", statsLabelStyle.Render("Sub-fields:"),
			statsValueStyle.Render(fmt.Sprintf("%d", len(subs)))))
	}

	// Write input
	if m.focusedField == focusValueInput {
		s.WriteString("\n")
		s.WriteString(statsLabelStyle.Render("Write value: "))
		s.WriteString(m.valueInput.View())
		s.WriteString("\n")
		s.WriteString(headerStyle.Render("enter=send esc=cancel"))
		s.WriteString("\n")
	}

	// Latest exchange
	s.WriteString("\n")
	if m.lastResult == nil {
		s.WriteString(headerStyle.Render("No exchange yet"))
		return s.String()
	}

	r := m.lastResult
	s.WriteString(fmt.Sprintf("%s %s %d/%d\n", statsLabelStyle.Render("Last exchange:"), r.op, r.id, r.sent))
	if r.err != nil {
		s.WriteString(errorStyle.Render(r.err.Error()))
		return s.String()
	}
	s.WriteString(statsValueStyle.Render(r.frame.String()))
	s.WriteString("\n")
	if r.describe != "" {
		s.WriteString("\n")
		s.WriteString(r.describe)
	}
	return s.String()
}

func (m exploreModel) renderEventLog(statsLabelStyle, headerStyle, errorStyle, boxStyle lipgloss.Style) string {
	var s strings.Builder
	s.WriteString(statsLabelStyle.Render("EVENTS"))
	s.WriteString("\n")

	logHeight := 6
	if len(m.eventLog) < logHeight {
		logHeight = len(m.eventLog)
	}

	startIdx := len(m.eventLog) - logHeight
	if startIdx < 0 {
		startIdx = 0
	}

	if len(m.eventLog) == 0 {
		s.WriteString(headerStyle.Render("  (no events yet)"))
	} else {
		for i := startIdx; i < len(m.eventLog); i++ {
			entry := m.eventLog[i]
			timestamp := entry.timestamp.Format("15:04:05.000")
			if entry.isError {
				s.WriteString(fmt.Sprintf("%s %s\n",
					headerStyle.Render(timestamp),
					errorStyle.Render("x "+entry.message)))
			} else {
				s.WriteString(fmt.Sprintf("%s %s\n",
					headerStyle.Render(timestamp),
					entry.message))
			}
		}
	}

	return boxStyle.Width(m.width - 4).Render(s.String())
}

//////////////////////////////////////////////////////////////
// Helpers
//////////////////////////////////////////////////////////////

func (m *exploreModel) addLogEntry(message string, isError bool) {
	entry := eventLogEntry{
		timestamp: time.Now(),
		message:   message,
		isError:   isError,
	}
	m.eventLog = append(m.eventLog, entry)

	if len(m.eventLog) > m.maxLogEntries {
		m.eventLog = m.eventLog[len(m.eventLog)-m.maxLogEntries:]
	}
}

func (m exploreModel) selectedItem() (opentherm.DataItem, bool) {
	selected, ok := m.itemList.SelectedItem().(exploreItem)
	if !ok {
		return opentherm.DataItem{}, false
	}
	return selected.item, true
}

func (m *exploreModel) updateListSize() {
	listHeight := m.height - 14
	if listHeight < 8 {
		listHeight = 8
	}
	m.itemList.SetSize(42, listHeight)
}
