package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"vinylvault/internal/ui"
)

// Browse launches the interactive catalog browser.
func (r *Runner) Browse(ctx context.Context, cmd *cli.Command) error {
	r.config = r.loadConfig(cmd)

	db, repo, _, err := r.openRepository()
	if err != nil {
		return err
	}
	defer db.Close()

	model := ui.NewModel(repo)
	program := tea.NewProgram(model, tea.WithContext(ctx), tea.WithAltScreen())

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("browser failed: %w", err)
	}
	return nil
}
