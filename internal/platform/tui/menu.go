package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-danmaku/internal/core"
	"github.com/vovakirdan/tui-danmaku/internal/games/danmaku/catalog"
	"github.com/vovakirdan/tui-danmaku/internal/storage"
)

// MenuModel is the Bubble Tea model for the stage picker.
type MenuModel struct {
	stages         []catalog.Stage
	highScores     map[string]int
	cursor         int
	width          int
	height         int
	config         core.RuntimeConfig
	keyMapper      *KeyMapper
	quitting       bool
	selected       *catalog.Stage // Set when user picks a stage
	openScoreboard bool           // True if user pressed Tab for scoreboard
}

// NewMenuModel creates a new menu over the given stages. store may be nil.
func NewMenuModel(stages []catalog.Stage, store *storage.Store, cfg core.RuntimeConfig) MenuModel {
	highScores := make(map[string]int, len(stages))
	if store != nil {
		for _, s := range stages {
			if high, err := store.HighScore(s.ID); err == nil {
				highScores[s.ID] = high
			}
		}
	}

	return MenuModel{
		stages:     stages,
		highScores: highScores,
		width:      cfg.ScreenW,
		height:     cfg.ScreenH,
		config:     cfg,
		keyMapper:  NewKeyMapper(),
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.stages)-1 {
			m.cursor++
		}

	case MenuActionSelect:
		if len(m.stages) > 0 {
			selected := m.stages[m.cursor]
			m.selected = &selected
		}

	case MenuActionScoreboard:
		m.openScoreboard = true
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("213"))
	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("D A N M A K U"), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Select a stage", m.width))
	b.WriteString("\n\n")

	if len(m.stages) == 0 {
		b.WriteString(centerText("No stages found", m.width))
		b.WriteString("\n")
	}

	for i, s := range m.stages {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		line := fmt.Sprintf("%s%-16s %2d foes", cursor, s.Name, s.Enemies())
		if high := m.highScores[s.ID]; high > 0 {
			line += fmt.Sprintf("  best %d", high)
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Enter: Play  |  Tab: Runs  |  Q: Quit"
	b.WriteString(centerText(controls, m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the picked stage, or nil if none was picked.
func (m MenuModel) Selected() *catalog.Stage {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard returns true if user requested scoreboard.
func (m MenuModel) WantsScoreboard() bool {
	return m.openScoreboard
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// centerText centers text within width. Styled text is measured without
// its escape codes.
func centerText(text string, width int) string {
	n := lipgloss.Width(text)
	if n >= width {
		return text
	}
	return strings.Repeat(" ", (width-n)/2) + text
}
