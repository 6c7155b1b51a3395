// Package tui provides a terminal user interface for fretwise
package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fretwise/fretwise/pkg/config"
	"github.com/fretwise/fretwise/pkg/midiio"
	"github.com/fretwise/fretwise/pkg/tab"
	"github.com/fretwise/fretwise/pkg/tab/export"
)

// Amber-on-black, like a practice amp's display
var (
	amber    = lipgloss.Color("#FFB000")
	dimWhite = lipgloss.Color("#C0C0C0")
	darkGray = lipgloss.Color("#333333")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(amber).
			Background(darkGray).
			Padding(0, 2).
			MarginBottom(1)

	menuStyle = lipgloss.NewStyle().
			Foreground(dimWhite).
			PaddingLeft(2)

	selectedStyle = lipgloss.NewStyle().
			Foreground(amber).
			Bold(true).
			PaddingLeft(2)

	statusStyle = lipgloss.NewStyle().
			Foreground(amber).
			PaddingTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			MarginTop(1)
)

// State represents the current TUI state
type State int

const (
	StateMenu State = iota
	StateFilePicker
	StateConverting
	StateResult
)

// Model represents the TUI model
type Model struct {
	cfg          *config.Config
	state        State
	presets      []string
	presetIndex  int
	filePicker   filepicker.Model
	spinner      spinner.Model
	viewport     viewport.Model
	selectedFile string
	dropped      int
	err          error
	width        int
	height       int
}

// tabReadyMsg carries a rendered tab back into the update loop.
type tabReadyMsg struct {
	rendered string
	dropped  int
	err      error
}

// New creates a new TUI model
func New(cfg *config.Config) Model {
	fp := filepicker.New()
	fp.AllowedTypes = []string{".mid", ".midi"}
	fp.CurrentDirectory, _ = os.Getwd()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(amber)

	presets := tab.PresetNames()
	for name := range cfg.Tunings {
		presets = append(presets, name)
	}

	return Model{
		cfg:        cfg,
		state:      StateMenu,
		presets:    presets,
		filePicker: fp,
		spinner:    s,
		viewport:   viewport.New(80, 20),
	}
}

// Init initializes the TUI model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick)
}

// Update handles TUI updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// The file picker needs every message while it is active.
	if m.state == StateFilePicker {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "esc":
				m.state = StateMenu
				return m, nil
			case "q", "ctrl+c":
				return m, tea.Quit
			}
		}

		var cmd tea.Cmd
		m.filePicker, cmd = m.filePicker.Update(msg)

		if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
			m.selectedFile = path
			m.state = StateConverting
			return m, tea.Batch(m.spinner.Tick, m.convert())
		}

		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.filePicker.SetHeight(msg.Height - 10)
		m.viewport.Width = msg.Width - 4
		m.viewport.Height = msg.Height - 8
		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case StateMenu:
			return m.updateMenu(msg)
		case StateResult:
			return m.updateResult(msg)
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tabReadyMsg:
		m.state = StateResult
		m.err = msg.err
		m.dropped = msg.dropped
		m.viewport.SetContent(msg.rendered)
		m.viewport.GotoTop()
		return m, nil
	}

	return m, nil
}

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.presetIndex > 0 {
			m.presetIndex--
		}
	case "down", "j":
		if m.presetIndex < len(m.presets)-1 {
			m.presetIndex++
		}
	case "enter":
		m.state = StateFilePicker
		return m, m.filePicker.Init()
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateResult(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.state = StateMenu
		m.err = nil
		m.selectedFile = ""
		return m, nil
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// convert runs the pipeline off the update loop.
func (m Model) convert() tea.Cmd {
	preset := m.presets[m.presetIndex]
	file := m.selectedFile
	cfg := m.cfg
	return func() tea.Msg {
		notes, err := midiio.ReadFile(file)
		if err != nil {
			return tabReadyMsg{err: err}
		}
		tuning, err := cfg.Tuning(preset)
		if err != nil {
			return tabReadyMsg{err: err}
		}
		arranger, err := tab.NewArranger(tuning, cfg.Weights(),
			tab.WithTechniqueParams(cfg.TechniqueParams()))
		if err != nil {
			return tabReadyMsg{err: err}
		}
		result, err := arranger.Arrange(notes)
		if err != nil {
			return tabReadyMsg{err: err}
		}
		rendered := export.ASCII(tuning, result.Notes, file, cfg.ASCIIResolution)
		return tabReadyMsg{rendered: rendered, dropped: len(result.Dropped)}
	}
}

// View renders the TUI
func (m Model) View() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("fretwise — MIDI to tablature"))
	s.WriteString("\n")

	switch m.state {
	case StateMenu:
		s.WriteString(m.viewMenu())
	case StateFilePicker:
		s.WriteString(statusStyle.Render(fmt.Sprintf("Pick a MIDI file (%s tuning)", m.presets[m.presetIndex])))
		s.WriteString("\n")
		s.WriteString(m.filePicker.View())
	case StateConverting:
		s.WriteString(statusStyle.Render(fmt.Sprintf("%s Arranging %s...", m.spinner.View(), m.selectedFile)))
	case StateResult:
		s.WriteString(m.viewResult())
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render("↑/↓: navigate • enter: select • esc: back • q: quit"))

	return s.String()
}

func (m Model) viewMenu() string {
	var s strings.Builder
	s.WriteString(statusStyle.Render("Choose a tuning:"))
	s.WriteString("\n\n")
	for i, name := range m.presets {
		if i == m.presetIndex {
			s.WriteString(selectedStyle.Render("> " + name))
		} else {
			s.WriteString(menuStyle.Render("  " + name))
		}
		s.WriteString("\n")
	}
	return s.String()
}

func (m Model) viewResult() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", m.err))
	}
	var s strings.Builder
	s.WriteString(m.viewport.View())
	if m.dropped > 0 {
		s.WriteString("\n")
		s.WriteString(statusStyle.Render(fmt.Sprintf("%d note(s) were out of range and dropped", m.dropped)))
	}
	return s.String()
}

// Run launches the TUI program.
func Run(cfg *config.Config) error {
	p := tea.NewProgram(New(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
