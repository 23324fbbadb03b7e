package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/asalgado/tasq/internal/api"
	"github.com/asalgado/tasq/internal/auth"
)

// NewStatusCommand returns the status subcommand.
func NewStatusCommand() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show server and session status",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			fmt.Printf("Server:  %s\n", a.cfg.API.BaseURL)

			if a.session.Status() != auth.StatusAuthenticated {
				fmt.Println("Session: not signed in")
				return nil
			}

			u, reachErr := a.client.Profile(ctx)
			if reachErr != nil {
				// A stored session with an unreachable or rejecting server.
				fmt.Printf("Session: stored, but unusable (%s)\n", api.Message(reachErr))
				return nil
			}

			fmt.Printf("Session: signed in as %s <%s>\n", u.Name, u.Email)
			return nil
		},
	}
}
