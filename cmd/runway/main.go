// Package main provides the one-shot local runner: evaluate a pipeline
// document against a synthesized repository event and report the result.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/runwayci/runway/pkg/cmd"
	localcmd "github.com/runwayci/runway/pkg/command"
	"github.com/runwayci/runway/pkg/concurrency"
	"github.com/runwayci/runway/pkg/engine"
	"github.com/runwayci/runway/pkg/executor"
	"github.com/runwayci/runway/pkg/log"
	"github.com/runwayci/runway/pkg/models"
	"github.com/runwayci/runway/pkg/otelhelper"
	"github.com/runwayci/runway/pkg/persistence/file"
	"github.com/runwayci/runway/pkg/pipeline"
	"github.com/runwayci/runway/pkg/registry"
	cli "github.com/urfave/cli/v3"
)

func main() {
	app := &cli.Command{
		Name:                  "runway",
		EnableShellCompletion: true,
		Usage:                 "Evaluate a pipeline document against a repository event",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "pipeline",
				Aliases:  []string{"p"},
				Usage:    "Path to the pipeline document",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "ref",
				Usage: "Ref of the synthesized event",
				Value: "refs/heads/main",
			},
			&cli.StringFlag{
				Name:  "kind",
				Usage: "Event kind (push, tag, manual, pull_request)",
				Value: "push",
			},
			&cli.StringFlag{
				Name:    "secrets",
				Usage:   "Secrets provider URL (env://PREFIX or redis://...)",
				Sources: cli.EnvVars("RUNWAY_SECRETS"),
			},
			&cli.StringFlag{
				Name:    "data-dir",
				Usage:   "Directory for run records",
				Value:   "./.runway",
				Sources: cli.EnvVars("RUNWAY_DATA_DIR"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: run,
	}

	err := app.Run(context.Background(), os.Args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, command *cli.Command) error {
	log.Setup(command.String("log-level"))

	logger := log.WithModule("runway")

	loaded, err := pipeline.NewLoader().LoadFile(command.String("pipeline"))
	if err != nil {
		return err
	}

	event := models.RepoEvent{
		ID:         "evt-" + uuid.New().String()[:8],
		Kind:       models.EventKind(command.String("kind")),
		Ref:        command.String("ref"),
		Actor:      "local",
		ReceivedAt: time.Now().UTC(),
	}

	if !models.KnownEventKind(event.Kind) {
		return fmt.Errorf("unknown event kind %q", event.Kind)
	}

	store := file.NewPersistence(command.String("data-dir"))
	tracer := otelhelper.NoopTracer()

	exec := executor.NewExecutor(
		registry.NewDefaultRegistry(logger),
		localcmd.NewLocalRunner(logger),
		cmd.NewSecretsProvider(ctx, command.String("secrets")),
		logger,
		tracer,
	)

	eng := engine.NewEngine(exec, store, nil, concurrency.NewMemoryRegistry(), logger, tracer)

	run, err := eng.Run(ctx, loaded, event)
	if err != nil {
		return err
	}

	report, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return err
	}

	fmt.Println(string(report))

	if run.Status != models.RunSucceeded {
		return cli.Exit("run finished with status "+string(run.Status), 1)
	}

	return nil
}
