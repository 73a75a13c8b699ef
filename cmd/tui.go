package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tbakr/troopmedia/internal/shared"
	"github.com/tbakr/troopmedia/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive media library browser.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if r.svc == nil {
		return fmt.Errorf("%w: content service not initialized", shared.ErrServiceUnavailable)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/troopmedia-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	model := ui.NewModel(ctx, r.svc, r.store, r.guard)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
