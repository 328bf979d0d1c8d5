package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// runTUI starts the interactive workbench in alt-screen mode.
func runTUI(app *App) error {
	m := newAppModel(app)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}
