package commands

import (
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/asalgado/tasq/internal/api"
	"github.com/asalgado/tasq/internal/auth"
	"github.com/asalgado/tasq/internal/config"
	"github.com/asalgado/tasq/internal/events"
	"github.com/asalgado/tasq/internal/tasks"
)

// NewRootCommand returns the top-level CLI command.
func NewRootCommand() *cli.Command {
	return &cli.Command{
		Name:  "tasq",
		Usage: "Tasks on the command line, synced with your tasq server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file",
				Value:   config.ConfigPath(),
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		},
		Commands: []*cli.Command{
			NewLoginCommand(),
			NewRegisterCommand(),
			NewLogoutCommand(),
			NewWhoamiCommand(),
			NewTasksCommand(),
			NewTUICommand(),
			NewStatusCommand(),
		},
	}
}

// app bundles the wired components every subcommand needs.
type app struct {
	cfg       *config.Config
	bus       *events.Bus
	client    *api.Client
	session   *auth.Store
	container *tasks.Container
}

// newApp loads configuration and wires the client, session store and task
// container together. The persisted session is restored if one exists.
func newApp(cmd *cli.Command) (*app, error) {
	if cmd.Bool("debug") {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	bus := events.NewBus(cfg.Events.BufferSize)
	client := api.New(cfg.API.BaseURL, cfg.API.Timeout.Duration(), bus)
	creds := auth.NewCredentialStore(config.CredentialsPath())
	session := auth.NewStore(client, bus, creds)
	session.Restore()

	return &app{
		cfg:       cfg,
		bus:       bus,
		client:    client,
		session:   session,
		container: tasks.NewContainer(client, bus),
	}, nil
}

func (a *app) close() {
	a.bus.Close()
}

// requireSession fails fast when no session is available.
func (a *app) requireSession() error {
	if a.session.Status() != auth.StatusAuthenticated {
		return fmt.Errorf("not signed in; run `tasq login` first")
	}
	return nil
}
