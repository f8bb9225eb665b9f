package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/spx/internal/shared"
	"github.com/desertthunder/spx/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	if err := shared.RedirectLogger(r.logger, "./tmp/spx-tui.log"); err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}

	if err := r.connect(ctx); err != nil {
		return err
	}

	session := r.newSession()
	defer session.Close()

	model := ui.NewModel(ctx, ui.ModelOpts{
		Catalog:       r.catalog,
		Session:       session,
		Covers:        r.covers,
		DefaultArtist: r.artistArg(cmd),
		ExportDir:     r.config.Export.ImagesDir,
		Workers:       r.config.Export.Workers,
		Logger:        r.logger,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
