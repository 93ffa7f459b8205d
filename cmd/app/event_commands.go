package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/coursehook/cmd/app/commands"
	"github.com/allisson/coursehook/internal/app"
	"github.com/allisson/coursehook/internal/config"
)

func getEventCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "append-event",
			Usage: "Record a course change-event for delivery",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "type",
					Aliases:  []string{"t"},
					Required: true,
					Usage:    "Event type: INSERT, UPDATE or REMOVE",
				},
				&cli.StringFlag{
					Name:     "object",
					Aliases:  []string{"o"},
					Required: true,
					Usage:    "Affected object (e.g., USER, GROUP, COURSE_USER_RELATION)",
				},
				&cli.StringFlag{
					Name:     "course",
					Aliases:  []string{"c"},
					Required: true,
					Usage:    "Course id the event belongs to",
				},
				&cli.StringFlag{
					Name:     "entity",
					Aliases:  []string{"e"},
					Required: true,
					Usage:    "Id of the changed entity",
				},
				&cli.StringFlag{
					Name:    "related",
					Aliases: []string{"r"},
					Usage:   "Id of the related entity, if any",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				eventUseCase, err := container.EventUseCase()
				if err != nil {
					return err
				}

				return commands.RunAppendEvent(
					ctx,
					eventUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					commands.AppendEventArgs{
						Type:            cmd.String("type"),
						AffectedObject:  cmd.String("object"),
						CourseID:        cmd.String("course"),
						EntityID:        cmd.String("entity"),
						RelatedEntityID: cmd.String("related"),
					},
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "requeue-event",
			Usage: "Move an abandoned event back to PENDING",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "id",
					Aliases:  []string{"i"},
					Required: true,
					Usage:    "Event ID (UUID)",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				eventUseCase, err := container.EventUseCase()
				if err != nil {
					return err
				}

				return commands.RunRequeueEvent(
					ctx,
					eventUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("id"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "purge-delivered-events",
			Usage: "Delete delivered events older than specified days",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:     "days",
					Aliases:  []string{"d"},
					Required: true,
					Usage:    "Delete events delivered more than this many days ago",
				},
				&cli.BoolFlag{
					Name:    "dry-run",
					Aliases: []string{"n"},
					Value:   false,
					Usage:   "Show how many events would be deleted without deleting",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				eventUseCase, err := container.EventUseCase()
				if err != nil {
					return err
				}

				return commands.RunPurgeDeliveredEvents(
					ctx,
					eventUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					int(cmd.Int("days")),
					cmd.Bool("dry-run"),
					cmd.String("format"),
				)
			},
		},
	}
}
