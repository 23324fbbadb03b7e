package commands

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/asalgado/tasq/clients/tui"
)

// NewTUICommand returns the tui subcommand.
func NewTUICommand() *cli.Command {
	return &cli.Command{
		Name:  "tui",
		Usage: "Launch the interactive task list",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			app := tui.NewApp(a.session, a.container, a.bus, a.cfg.UI.ToastDuration.Duration())
			p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("run tui: %w", err)
			}
			return nil
		},
	}
}
