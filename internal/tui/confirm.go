package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// confirmModel is a Yes/No dialog for destructive operations.
//
// Navigation: left/right/tab move focus between the buttons and enter
// activates the focused one. y/n/esc are shortcut accelerators.
type confirmModel struct {
	message   string
	focusYes  bool
	answered  bool
	confirmed bool
	help      help.Model
	width     int
}

// newConfirmModel returns a dialog asking message. Focus starts on No.
func newConfirmModel(message string) confirmModel {
	return confirmModel{message: message, help: help.New()}
}

func (m confirmModel) Init() tea.Cmd { return nil }

func (m confirmModel) answer(yes bool) (confirmModel, tea.Cmd) {
	m.answered = true
	m.confirmed = yes
	return m, tea.Quit
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := m.update(msg)
	return m, cmd
}

func (m confirmModel) update(msg tea.Msg) (confirmModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Yes):
			return m.answer(true)
		case key.Matches(msg, keys.No), key.Matches(msg, keys.Back), key.Matches(msg, keys.Quit):
			return m.answer(false)
		case key.Matches(msg, keys.Enter):
			return m.answer(m.focusYes)
		case key.Matches(msg, keys.Left), key.Matches(msg, keys.Right), key.Matches(msg, keys.Tab):
			m.focusYes = !m.focusYes
		}
	}
	return m, nil
}

func (m confirmModel) View() string {
	if m.answered {
		return ""
	}
	width := 48
	if m.width > 0 && m.width-8 < width {
		width = max(m.width-8, 20)
	}
	question := lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Render(m.message)

	yesBtn, noBtn := dialogButtonStyle.Render("Yes"), dialogActiveButtonStyle.Render("No")
	if m.focusYes {
		yesBtn, noBtn = dialogActiveButtonStyle.Render("Yes"), dialogButtonStyle.Render("No")
	}
	buttons := lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Render(lipgloss.JoinHorizontal(lipgloss.Top, yesBtn, "  ", noBtn))

	box := dialogBoxStyle.Render(lipgloss.JoinVertical(lipgloss.Center, question, "", buttons))
	return box + "\n" + helpStyle.Render(m.help.View(confirmHelpKeyMap{})) + "\n"
}
