// Package main provides the Runway API server.
package main

import (
	"context"
	"os"

	"github.com/runwayci/runway/pkg/cmd"
	"github.com/runwayci/runway/pkg/log"
	"github.com/runwayci/runway/pkg/models"
	"github.com/runwayci/runway/pkg/schedule"
	"github.com/runwayci/runway/pkg/web"
	cli "github.com/urfave/cli/v3"
)

func main() {
	app := &cli.Command{
		Name:                  "runway-server",
		EnableShellCompletion: true,
		Usage:                 "Start the API server that receives repository events and manages pipelines",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Usage:   "Port to listen on",
				Value:   9090,
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:     "database-url",
				Usage:    "Database connection URL for persistence",
				Required: true,
				Sources:  cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:     "event-bus",
				Usage:    "Event bus type (kafka, gochannel)",
				Required: true,
				Sources:  cli.EnvVars("EVENT_BUS_TYPE"),
			},
			&cli.StringSliceFlag{
				Name:    "schedule",
				Usage:   "Cron-driven synthetic manual event as <ref>@<cron>, e.g. 'refs/heads/main@0 2 * * *' (repeatable)",
				Sources: cli.EnvVars("SCHEDULES"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			logger := log.WithModule("runway-server")

			logger.InfoContext(ctx, "Initializing Runway API server")

			eventBus := cmd.NewEventBus(command.String("event-bus"), logger)
			defer func() {
				err := eventBus.Close()
				if err != nil {
					logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
				}
			}()

			persistence := cmd.NewPersistence(ctx, logger, command.String("database-url"))
			defer func() {
				err := persistence.Close(ctx)
				if err != nil {
					logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
				}
			}()

			if raw := command.StringSlice("schedule"); len(raw) > 0 {
				entries := make([]schedule.Entry, 0, len(raw))

				for _, s := range raw {
					entry, err := schedule.ParseEntry(s)
					if err != nil {
						return err
					}

					entries = append(entries, entry)
				}

				source, err := schedule.NewSource(entries, logger)
				if err != nil {
					return err
				}

				err = source.Start(ctx, func(ctx context.Context, event models.RepoEvent) error {
					triggered, err := web.DispatchEvent(ctx, persistence, eventBus, event)
					if err != nil {
						return err
					}

					logger.InfoContext(ctx, "Scheduled event dispatched", "ref", event.Ref, "triggered", len(triggered))

					return nil
				})
				if err != nil {
					return err
				}

				defer func() {
					err := source.Stop(context.Background())
					if err != nil {
						logger.ErrorContext(ctx, "Failed to stop schedule source", "error", err)
					}
				}()
			}

			api := NewAPI(logger, persistence, eventBus)

			return api.Start(command.Int("port"))
		},
	}

	err := app.Run(context.Background(), os.Args)
	if err != nil {
		panic(err)
	}
}
