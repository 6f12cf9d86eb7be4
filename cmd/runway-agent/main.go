// Package main provides the run agent: it consumes run requests from the
// event bus and evaluates the requested pipelines.
package main

import (
	"context"
	"os"

	"github.com/google/uuid"
	"github.com/runwayci/runway/pkg/cmd"
	"github.com/runwayci/runway/pkg/log"
	cli "github.com/urfave/cli/v3"
)

func main() {
	app := &cli.Command{
		Name:                  "runway-agent",
		EnableShellCompletion: true,
		Usage:                 "Start an agent that evaluates requested pipeline runs",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "agent-id",
				Aliases: []string{"id"},
				Usage:   "Custom agent ID (auto-generated if not provided)",
				Value:   "",
				Sources: cli.EnvVars("AGENT_ID"),
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
			&cli.StringFlag{
				Name:    "secrets",
				Usage:   "Secrets provider URL (env://PREFIX or redis://...)",
				Sources: cli.EnvVars("RUNWAY_SECRETS"),
			},
			&cli.StringFlag{
				Name:    "concurrency-registry",
				Usage:   "Redis URL for the shared concurrency registry (in-process if empty)",
				Sources: cli.EnvVars("RUNWAY_CONCURRENCY_REGISTRY"),
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

			agentID := command.String("agent-id")
			if agentID == "" {
				agentID = "agent-" + uuid.New().String()[:8]
			}

			logger := log.WithModule("runway-agent").With("agent_id", agentID)

			logger.InfoContext(ctx, "Initializing Runway agent")

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

			secrets := cmd.NewSecretsProvider(ctx, command.String("secrets"))
			groups := cmd.NewConcurrencyRegistry(ctx, command.String("concurrency-registry"))

			agent := NewAgentManager(
				agentID,
				persistence,
				eventBus,
				secrets,
				groups,
				logger,
			)

			err := agent.Start(ctx)
			if err != nil {
				logger.ErrorContext(ctx, "Failed to start agent", "error", err)
			}

			return nil
		},
	}

	err := app.Run(context.Background(), os.Args)
	if err != nil {
		panic(err)
	}
}
