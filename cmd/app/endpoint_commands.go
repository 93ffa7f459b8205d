package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/coursehook/cmd/app/commands"
	"github.com/allisson/coursehook/internal/app"
	"github.com/allisson/coursehook/internal/config"
)

func courseFlag(usage string) *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "course",
		Aliases:  []string{"c"},
		Required: true,
		Usage:    usage,
	}
}

func getEndpointCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "set-course-endpoint",
			Usage: "Register or replace the webhook URL of a course",
			Flags: []cli.Flag{
				courseFlag("Course id"),
				&cli.StringFlag{
					Name:     "url",
					Aliases:  []string{"u"},
					Required: true,
					Usage:    "Absolute http or https webhook URL",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				endpointUseCase, err := container.EndpointUseCase()
				if err != nil {
					return err
				}

				return commands.RunSetCourseEndpoint(
					ctx,
					endpointUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("course"),
					cmd.String("url"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "remove-course-endpoint",
			Usage: "Remove the webhook URL of a course",
			Flags: []cli.Flag{courseFlag("Course id")},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				endpointUseCase, err := container.EndpointUseCase()
				if err != nil {
					return err
				}

				return commands.RunRemoveCourseEndpoint(
					ctx,
					endpointUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("course"),
				)
			},
		},
		{
			Name:  "list-course-endpoints",
			Usage: "List stored course webhook URLs",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "offset",
					Value: 0,
					Usage: "Number of endpoints to skip",
				},
				&cli.IntFlag{
					Name:  "limit",
					Value: 50,
					Usage: "Maximum number of endpoints to list",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				endpointUseCase, err := container.EndpointUseCase()
				if err != nil {
					return err
				}

				return commands.RunListCourseEndpoints(
					ctx,
					endpointUseCase,
					commands.DefaultIO().Writer,
					int(cmd.Int("offset")),
					int(cmd.Int("limit")),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "course-signing-key",
			Usage: "Print the key a course endpoint verifies webhook signatures with",
			Flags: []cli.Flag{
				courseFlag("Course id"),
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)

				return commands.RunCourseSigningKey(
					container.Signer(),
					commands.DefaultIO().Writer,
					cmd.String("course"),
					cmd.String("format"),
				)
			},
		},
	}
}
