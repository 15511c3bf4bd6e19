// Package model holds the bubbletea models of the CLI.
package model

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bnema/ico256/internal/application/usecase"
	"github.com/bnema/ico256/internal/cli/styles"
)

// ConvertFunc runs one conversion cycle.
type ConvertFunc func(ctx context.Context) (*usecase.ConvertFileOutput, error)

// convertDoneMsg is sent when the conversion finishes.
type convertDoneMsg struct {
	output *usecase.ConvertFileOutput
	err    error
}

// ConvertModel shows a spinner while a conversion runs, then quits.
type ConvertModel struct {
	ctx     context.Context
	cancel  context.CancelFunc
	run     ConvertFunc
	loading styles.LoadingModel

	output   *usecase.ConvertFileOutput
	err      error
	done     bool
	canceled bool
}

// NewConvertModel creates a model that runs fn once on Init.
func NewConvertModel(ctx context.Context, theme *styles.Theme, message string, fn ConvertFunc) ConvertModel {
	ctx, cancel := context.WithCancel(ctx)
	return ConvertModel{
		ctx:     ctx,
		cancel:  cancel,
		run:     fn,
		loading: styles.NewLoading(theme, message),
	}
}

// Init implements tea.Model.
func (m ConvertModel) Init() tea.Cmd {
	return tea.Batch(m.loading.Spinner.Tick, m.convert)
}

func (m ConvertModel) convert() tea.Msg {
	out, err := m.run(m.ctx)
	return convertDoneMsg{output: out, err: err}
}

// Update implements tea.Model.
func (m ConvertModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "esc" {
			m.canceled = true
			m.cancel()
			return m, tea.Quit
		}

	case convertDoneMsg:
		m.cancel()
		m.done = true
		m.output = msg.output
		m.err = msg.err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.loading.Spinner, cmd = m.loading.Spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model. The summary is printed after the program exits.
func (m ConvertModel) View() string {
	if m.done || m.canceled {
		return ""
	}
	return m.loading.View() + "\n"
}

// Output returns the conversion result, or nil.
func (m ConvertModel) Output() *usecase.ConvertFileOutput {
	return m.output
}

// Error returns the conversion error. A user cancel reports context.Canceled.
func (m ConvertModel) Error() error {
	if m.canceled && m.err == nil && m.output == nil {
		return context.Canceled
	}
	return m.err
}
