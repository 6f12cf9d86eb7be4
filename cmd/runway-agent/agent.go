package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/runwayci/runway/pkg/command"
	"github.com/runwayci/runway/pkg/concurrency"
	"github.com/runwayci/runway/pkg/engine"
	"github.com/runwayci/runway/pkg/eventbus"
	"github.com/runwayci/runway/pkg/events"
	"github.com/runwayci/runway/pkg/executor"
	"github.com/runwayci/runway/pkg/otelhelper"
	"github.com/runwayci/runway/pkg/persistence"
	"github.com/runwayci/runway/pkg/protocol"
	"github.com/runwayci/runway/pkg/registry"
)

type AgentManager struct {
	id          string
	logger      *slog.Logger
	persistence persistence.Persistence
	eventBus    eventbus.EventBus
	secrets     protocol.SecretsProvider
	groups      concurrency.Registry
	engine      *engine.Engine
}

func NewAgentManager(
	id string,
	persistence persistence.Persistence,
	eventBus eventbus.EventBus,
	secrets protocol.SecretsProvider,
	groups concurrency.Registry,
	logger *slog.Logger,
) *AgentManager {
	return &AgentManager{
		id:          id,
		logger:      logger.With("module", "runway-agent"),
		persistence: persistence,
		eventBus:    eventBus,
		secrets:     secrets,
		groups:      groups,
	}
}

func (a *AgentManager) Start(ctx context.Context) error {
	a.logger.InfoContext(ctx, "Starting agent manager")

	tracer, err := otelhelper.NewTracer(ctx, "runway-agent")
	if err != nil {
		a.logger.WarnContext(ctx, "Failed to initialize tracer, tracing disabled", "error", err)

		tracer = otelhelper.NoopTracer()
	}

	exec := executor.NewExecutor(
		registry.NewDefaultRegistry(a.logger),
		command.NewLocalRunner(a.logger),
		a.secrets,
		a.logger,
		tracer,
	)

	a.engine = engine.NewEngine(exec, a.persistence, a.eventBus, a.groups, a.logger, tracer)

	err = a.eventBus.Handle(events.RunRequestedEvent, a.handleRunRequested)
	if err != nil {
		return err
	}

	err = a.eventBus.Subscribe(ctx)
	if err != nil {
		a.logger.ErrorContext(ctx, "Failed to subscribe to event bus", "error", err)

		return err
	}

	a.logger.InfoContext(ctx, "Agent started successfully")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan
	a.logger.InfoContext(ctx, "Shutting down agent...")

	return nil
}

func (a *AgentManager) handleRunRequested(ctx context.Context, event any) error {
	requested, ok := event.(*events.RunRequested)
	if !ok {
		a.logger.ErrorContext(ctx, "Invalid event type for RunRequested")

		return nil
	}

	logger := a.logger.With(
		"pipeline_id", requested.PipelineID,
		"event_id", requested.Event.ID,
		"ref", requested.Event.Ref,
	)
	logger.InfoContext(ctx, "Processing run request")

	pipeline, err := a.persistence.PipelineByID(ctx, requested.PipelineID)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to fetch pipeline", "error", err)

		return err
	}

	run, err := a.engine.Run(ctx, pipeline, requested.Event)
	if err != nil {
		logger.ErrorContext(ctx, "Run aborted on configuration error", "error", err)

		return err
	}

	logger.InfoContext(ctx, "Run finished", "run_id", run.ID, "status", run.Status)

	return nil
}
