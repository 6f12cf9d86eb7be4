// Package engine evaluates repository events against pipelines: gate,
// fan-out, bounded dispatch, sequential step execution, aggregation.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/runwayci/runway/pkg/concurrency"
	"github.com/runwayci/runway/pkg/eventbus"
	"github.com/runwayci/runway/pkg/events"
	"github.com/runwayci/runway/pkg/executor"
	"github.com/runwayci/runway/pkg/matrix"
	"github.com/runwayci/runway/pkg/models"
	"github.com/runwayci/runway/pkg/otelhelper"
	"github.com/runwayci/runway/pkg/persistence"
	"github.com/runwayci/runway/pkg/report"
	"github.com/runwayci/runway/pkg/scheduler"
	"github.com/runwayci/runway/pkg/trigger"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Engine drives whole runs. It owns no policy beyond the evaluation
// semantics: supersede decisions come from the concurrency registry and
// retry does not exist (a failed run requires an external re-trigger).
type Engine struct {
	executor    *executor.Executor
	persistence persistence.Persistence
	publisher   eventbus.EventPublisher
	groups      concurrency.Registry
	logger      *slog.Logger
	tracer      trace.Tracer

	mu     sync.Mutex
	active map[string]context.CancelFunc
}

func NewEngine(
	exec *executor.Executor,
	store persistence.Persistence,
	publisher eventbus.EventPublisher,
	groups concurrency.Registry,
	logger *slog.Logger,
	tracer trace.Tracer,
) *Engine {
	return &Engine{
		executor:    exec,
		persistence: store,
		publisher:   publisher,
		groups:      groups,
		logger:      logger.With("module", "engine"),
		tracer:      tracer,
		active:      make(map[string]context.CancelFunc),
	}
}

// EvaluateEvent gates every stored pipeline against the event and runs
// the ones whose predicate matches. Returns the finished runs.
func (e *Engine) EvaluateEvent(ctx context.Context, event models.RepoEvent) ([]*models.Run, error) {
	pipelines, err := e.persistence.Pipelines(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pipelines: %w", err)
	}

	runs := make([]*models.Run, 0)

	for _, pipeline := range pipelines {
		if !trigger.Matches(event, pipeline.On) {
			continue
		}

		run, err := e.Run(ctx, pipeline, event)
		if err != nil {
			return runs, err
		}

		runs = append(runs, run)
	}

	return runs, nil
}

// Run evaluates one pipeline against one event. Configuration errors
// (malformed matrix, invalid parallelism) abort before any job starts;
// step failures never surface as engine errors, only as run status.
func (e *Engine) Run(ctx context.Context, pipeline *models.Pipeline, event models.RepoEvent) (*models.Run, error) {
	runID := "run-" + uuid.New().String()[:8]
	group := pipeline.ID + "/" + event.ShortRef()

	logger := e.logger.With(
		"run_id", runID,
		"pipeline_id", pipeline.ID,
		"ref", event.Ref,
		"kind", event.Kind,
	)

	ctx, span := otelhelper.StartSpan(ctx, e.tracer, "run.evaluate",
		attribute.String(otelhelper.RunIDKey, runID),
		attribute.String(otelhelper.PipelineIDKey, pipeline.ID),
	)
	defer span.End()

	// Expand and validate everything up front: matrix and parallelism
	// errors are fatal before any job starts, and the expansion order
	// fixes FIFO admission order.
	jobInstances := make(map[string][]*models.JobInstance, len(pipeline.Jobs))
	schedulers := make(map[string]*scheduler.Scheduler, len(pipeline.Jobs))

	total := 0

	for _, job := range pipeline.Jobs {
		instances, err := matrix.Expand(job)
		if err != nil {
			otelhelper.SetError(span, err, attribute.String(otelhelper.JobIDKey, job.ID))

			return nil, err
		}

		maxParallel := 1
		if job.Matrix != nil {
			maxParallel = job.Matrix.MaxParallel
		}

		sched, err := scheduler.NewScheduler(maxParallel, logger)
		if err != nil {
			otelhelper.SetError(span, err, attribute.String(otelhelper.JobIDKey, job.ID))

			return nil, fmt.Errorf("job %s: %w", job.ID, err)
		}

		jobInstances[job.ID] = instances
		schedulers[job.ID] = sched
		total += len(instances)
	}

	run := &models.Run{
		ID:               runID,
		PipelineID:       pipeline.ID,
		Event:            event,
		ConcurrencyGroup: group,
		Results:          make(map[string]*models.RunResult),
		Status:           models.RunRunning,
		StartedAt:        time.Now().UTC(),
	}

	runCtx := e.register(ctx, run)
	defer e.release(run)

	logger.InfoContext(ctx, "Starting run", "instances", total)
	e.publish(ctx, run, events.RunStarted{
		BaseEvent: e.baseEvent(events.RunStartedEvent, run),
		Event:     event,
		Instances: total,
	})

	for _, job := range pipeline.Jobs {
		results := schedulers[job.ID].Run(runCtx, jobInstances[job.ID], func(ctx context.Context, instance *models.JobInstance) *models.RunResult {
			e.publish(ctx, run, events.InstanceStarted{
				BaseEvent:    e.baseEvent(events.InstanceStartedEvent, run),
				InstanceID:   instance.ID,
				InstanceName: instance.Name,
			})

			result := e.executor.Execute(ctx, run.ID, instance, event)

			for _, step := range result.Steps {
				e.publish(ctx, run, events.StepFinished{
					BaseEvent:  e.baseEvent(events.StepFinishedEvent, run),
					InstanceID: instance.ID,
					StepID:     step.StepID,
					Status:     step.Status,
					Outputs:    step.Outputs,
				})
			}

			e.publish(ctx, run, events.InstanceFinished{
				BaseEvent:  e.baseEvent(events.InstanceFinishedEvent, run),
				InstanceID: instance.ID,
				Status:     result.Status,
				Error:      result.Error,
			})

			return result
		})

		for id, result := range results {
			run.Results[id] = result
		}
	}

	run.Status = report.Aggregate(run.Results)
	run.FinishedAt = time.Now().UTC()

	err := e.persistence.SaveRun(ctx, run)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to persist run", "error", err)
	}

	e.publish(ctx, run, events.RunCompleted{
		BaseEvent: e.baseEvent(events.RunCompletedEvent, run),
		Status:    run.Status,
		Duration:  run.FinishedAt.Sub(run.StartedAt),
	})

	logger.InfoContext(ctx, "Run finished", "status", run.Status)

	return run, nil
}

// CancelRun cancels a run in flight on this engine. Pending instances go
// to Cancelled; running instances stop at their next step boundary.
func (e *Engine) CancelRun(runID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	cancel, ok := e.active[runID]
	if ok {
		cancel()
	}

	return ok
}

// register enters the run into the concurrency registry and cancels the
// local run it supersedes, if any. Already-succeeded results of the
// superseded run are kept; its unfinished instances become Cancelled.
func (e *Engine) register(ctx context.Context, run *models.Run) context.Context {
	runCtx, cancel := context.WithCancel(ctx)

	e.mu.Lock()
	e.active[run.ID] = cancel
	e.mu.Unlock()

	if e.groups == nil {
		return runCtx
	}

	superseded, err := e.groups.Register(ctx, run.ConcurrencyGroup, run.ID)
	if err != nil {
		e.logger.WarnContext(ctx, "Failed to register concurrency group", "group", run.ConcurrencyGroup, "error", err)

		return runCtx
	}

	if superseded != "" && superseded != run.ID {
		if e.CancelRun(superseded) {
			e.logger.InfoContext(ctx, "Superseded older run", "superseded_run_id", superseded, "group", run.ConcurrencyGroup)
		}
	}

	return runCtx
}

func (e *Engine) release(run *models.Run) {
	e.mu.Lock()
	cancel, ok := e.active[run.ID]
	delete(e.active, run.ID)
	e.mu.Unlock()

	if ok {
		cancel()
	}

	if e.groups != nil {
		err := e.groups.Release(context.Background(), run.ConcurrencyGroup, run.ID)
		if err != nil {
			e.logger.Warn("Failed to release concurrency group", "group", run.ConcurrencyGroup, "error", err)
		}
	}
}

func (e *Engine) baseEvent(eventType events.EventType, run *models.Run) events.BaseEvent {
	base := events.NewBaseEvent(eventType, run.PipelineID)
	base.RunID = run.ID

	return base
}

func (e *Engine) publish(ctx context.Context, run *models.Run, event eventbus.Event) {
	if e.publisher == nil {
		return
	}

	err := e.publisher.Publish(ctx, run.PipelineID, event)
	if err != nil {
		e.logger.WarnContext(ctx, "Failed to publish run event", "event_type", event.GetType(), "error", err)
	}
}
