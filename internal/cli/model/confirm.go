package model

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bnema/ico256/internal/cli/styles"
)

// ConfirmModel asks a yes/no question and quits on the answer.
type ConfirmModel struct {
	theme    *styles.Theme
	prompt   string
	answered bool
	accepted bool
}

// NewConfirmModel creates a prompt. Only y/Y accepts.
func NewConfirmModel(theme *styles.Theme, prompt string) ConfirmModel {
	return ConfirmModel{theme: theme, prompt: prompt}
}

// Init implements tea.Model.
func (m ConfirmModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "y", "Y":
		m.answered, m.accepted = true, true
	case "n", "N", "enter", "esc", "q", "ctrl+c":
		m.answered = true
	default:
		return m, nil
	}
	return m, tea.Quit
}

// View implements tea.Model.
func (m ConfirmModel) View() string {
	if m.answered {
		return ""
	}
	return m.theme.Highlight.Render(m.prompt) + " " + m.theme.Subtle.Render("[y/N]") + "\n"
}

// Accepted reports whether the user answered yes.
func (m ConfirmModel) Accepted() bool {
	return m.accepted
}
