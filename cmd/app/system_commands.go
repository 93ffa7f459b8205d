package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/allisson/coursehook/cmd/app/commands"
	"github.com/allisson/coursehook/internal/app"
	"github.com/allisson/coursehook/internal/config"
)

func getSystemCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "server",
			Usage: "Start the HTTP API, the metrics server and the delivery scheduler",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunServer(ctx, version)
			},
		},
		{
			Name:  "worker",
			Usage: "Run only the delivery scheduler",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg).WithVersion(version)
				defer func() { _ = container.Shutdown(context.Background()) }()

				scheduler, err := container.Scheduler()
				if err != nil {
					return err
				}

				ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
				defer cancel()

				return commands.RunWorker(ctx, scheduler, container.Logger())
			},
		},
		{
			Name:  "dispatch-once",
			Usage: "Run a single delivery tick and wait for it to finish",
			Flags: []cli.Flag{formatFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg).WithVersion(version)
				defer func() { _ = container.Shutdown(context.Background()) }()

				scheduler, err := container.Scheduler()
				if err != nil {
					return err
				}

				return commands.RunDispatchOnce(
					ctx,
					scheduler,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "migrate",
			Usage: "Run database migrations",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunMigrations(container.Logger(), cfg.DBDriver, cfg.DBConnectionString)
			},
		},
	}
}
