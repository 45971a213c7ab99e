package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Run runs the TUI until the user quits
func Run(opts Options) error {
	model := New(opts)
	defer model.session.Close()

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
