package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/wippyai/pe-emit/win32res"
)

var (
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

const hexRowBytes = 16

type browseState int

const (
	stateList browseState = iota
	stateFilter
	stateDetail
)

type browseModel struct {
	err      error
	filename string
	all      []win32res.Resource
	visible  []int
	filter   textinput.Model
	selected int
	width    int
	state    browseState
	loaded   bool
}

type loadedMsg struct {
	err       error
	resources []win32res.Resource
}

func newBrowseModel(filename string) *browseModel {
	ti := textinput.New()
	ti.Prompt = "filter: "
	ti.Placeholder = "type or name"
	ti.Width = 40
	return &browseModel{
		filename: filename,
		filter:   ti,
		width:    terminalWidth(),
		state:    stateList,
	}
}

func (m *browseModel) Init() tea.Cmd {
	return m.load
}

func (m *browseModel) load() tea.Msg {
	res, err := readResources(m.filename)
	return loadedMsg{resources: res, err: err}
}

// applyFilter keeps the resources whose type or name contains the filter
// text, case-insensitively.
func (m *browseModel) applyFilter() {
	q := strings.ToLower(strings.TrimSpace(m.filter.Value()))
	m.visible = m.visible[:0]
	for i, r := range m.all {
		if q == "" ||
			strings.Contains(strings.ToLower(typeName(r.Type)), q) ||
			strings.Contains(strings.ToLower(r.Name.String()), q) {
			m.visible = append(m.visible, i)
		}
	}
	if m.selected >= len(m.visible) {
		m.selected = max(len(m.visible)-1, 0)
	}
}

func (m *browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.all = msg.resources
		m.loaded = true
		m.applyFilter()

	case tea.KeyMsg:
		if m.state == stateFilter {
			switch msg.String() {
			case "enter", "esc":
				m.filter.Blur()
				m.state = stateList
				return m, nil
			}
			var cmd tea.Cmd
			m.filter, cmd = m.filter.Update(msg)
			m.applyFilter()
			return m, cmd
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "up", "k":
			if m.state == stateList && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateList && m.selected < len(m.visible)-1 {
				m.selected++
			}

		case "/":
			if m.state == stateList {
				m.state = stateFilter
				return m, m.filter.Focus()
			}

		case "enter":
			switch m.state {
			case stateList:
				if len(m.visible) > 0 {
					m.state = stateDetail
				}
			case stateDetail:
				m.state = stateList
			}

		case "esc":
			if m.state == stateDetail {
				m.state = stateList
			}
		}
	}
	return m, nil
}

func (m *browseModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}
	if !m.loaded {
		return "Loading resources..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("RES Browser"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString("\n\n")

	switch m.state {
	case stateList, stateFilter:
		if m.state == stateFilter || m.filter.Value() != "" {
			b.WriteString(m.filter.View())
			b.WriteString("\n\n")
		}
		for i, idx := range m.visible {
			line := formatEntry(m.all[idx], m.width-2)
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		if len(m.visible) == 0 {
			b.WriteString(helpStyle.Render("no matching resources"))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter view • / filter • q quit"))

	case stateDetail:
		r := m.all[m.visible[m.selected]]
		b.WriteString(fmt.Sprintf("%s %s  lang=0x%04x cp=%d size=%d\n\n",
			typeStyle.Render(typeName(r.Type)), nameStyle.Render(r.Name.String()),
			r.LanguageID, r.CodePage, len(r.Data)))
		b.WriteString(hexDump(r.Data))
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter/esc back • q quit"))
	}
	return b.String()
}

// hexDump formats data as offset, hex and printable ASCII columns.
func hexDump(data []byte) string {
	var b strings.Builder
	for off := 0; off < len(data); off += hexRowBytes {
		row := data[off:min(off+hexRowBytes, len(data))]
		fmt.Fprintf(&b, "%08x  %-*s  ", off, hexRowBytes*3-1, spacedHex(row))
		for _, c := range row {
			if c < 0x20 || c > 0x7e {
				c = '.'
			}
			b.WriteByte(c)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func spacedHex(row []byte) string {
	parts := make([]string, len(row))
	for i, c := range row {
		parts[i] = hex.EncodeToString([]byte{c})
	}
	return strings.Join(parts, " ")
}

func runBrowse(filename string) error {
	p := tea.NewProgram(newBrowseModel(filename), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func newBrowseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse <file.res>",
		Short: "Browse a .res file interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(args[0])
		},
	}
}
