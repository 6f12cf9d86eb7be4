// Package executor runs one job instance's step chain sequentially.
package executor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/runwayci/runway/pkg/models"
	"github.com/runwayci/runway/pkg/otelhelper"
	"github.com/runwayci/runway/pkg/protocol"
	"github.com/runwayci/runway/pkg/registry"
	"github.com/runwayci/runway/pkg/template"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Executor executes the steps of a job instance strictly in declared
// order, short-circuiting on the first failure. Later steps are marked
// Skipped and their side effects never occur.
type Executor struct {
	registry *registry.Registry
	runner   protocol.CommandRunner
	secrets  protocol.SecretsProvider
	logger   *slog.Logger
	tracer   trace.Tracer
}

func NewExecutor(
	reg *registry.Registry,
	runner protocol.CommandRunner,
	secrets protocol.SecretsProvider,
	logger *slog.Logger,
	tracer trace.Tracer,
) *Executor {
	return &Executor{
		registry: reg,
		runner:   runner,
		secrets:  secrets,
		logger:   logger.With("module", "executor"),
		tracer:   tracer,
	}
}

// Execute runs the instance and returns its terminal result. A failed
// step yields InstanceFailed; cancellation observed at a step boundary
// yields InstanceCancelled with the remaining steps skipped. Execute
// never returns an engine-level error for step failures.
func (e *Executor) Execute(ctx context.Context, runID string, instance *models.JobInstance, event models.RepoEvent) *models.RunResult {
	logger := e.logger.With(
		"run_id", runID,
		"instance_id", instance.ID,
		"instance", instance.Name,
	)

	ctx, span := otelhelper.StartSpan(ctx, e.tracer, "instance.execute",
		attribute.String(otelhelper.RunIDKey, runID),
		attribute.String(otelhelper.InstanceIDKey, instance.ID),
		attribute.String(otelhelper.JobIDKey, instance.JobID),
	)
	defer span.End()

	result := &models.RunResult{
		InstanceID:   instance.ID,
		JobID:        instance.JobID,
		InstanceName: instance.Name,
		Status:       models.InstanceRunning,
		StartedAt:    time.Now().UTC(),
	}

	logger.InfoContext(ctx, "Starting job instance", "steps", len(instance.Steps))

	// Output bindings are instance-scoped and discarded at instance end.
	outputs := make(map[string]map[string]string)
	failed := false
	cancelled := false

	for _, step := range instance.Steps {
		if failed || cancelled {
			result.Steps = append(result.Steps, skippedStep(step))

			continue
		}

		// Cancellation is cooperative, checked at step boundaries only;
		// an in-flight step is allowed to finish.
		if ctx.Err() != nil {
			cancelled = true

			result.Steps = append(result.Steps, skippedStep(step))

			continue
		}

		stepResult := e.executeStep(ctx, logger, runID, instance, step, event, outputs)
		result.Steps = append(result.Steps, stepResult)

		if stepResult.Status == models.StepFailed {
			failed = true
			result.Error = stepResult.Error
		} else if len(stepResult.Outputs) > 0 {
			outputs[step.ID] = stepResult.Outputs
		}
	}

	result.FinishedAt = time.Now().UTC()

	switch {
	case failed:
		result.Status = models.InstanceFailed

		otelhelper.SetError(span, fmt.Errorf("instance failed: %s", result.Error),
			attribute.String(otelhelper.InstanceIDKey, instance.ID))
		logger.WarnContext(ctx, "Job instance failed", "error", result.Error)
	case cancelled:
		result.Status = models.InstanceCancelled

		logger.InfoContext(ctx, "Job instance cancelled")
	default:
		result.Status = models.InstanceSucceeded

		logger.InfoContext(ctx, "Job instance succeeded")
	}

	return result
}

func (e *Executor) executeStep(
	ctx context.Context,
	logger *slog.Logger,
	runID string,
	instance *models.JobInstance,
	step *models.StepSpec,
	event models.RepoEvent,
	outputs map[string]map[string]string,
) *models.StepResult {
	ctx, span := otelhelper.StartSpan(ctx, e.tracer, "step.execute",
		attribute.String(otelhelper.StepIDKey, step.ID),
	)
	defer span.End()

	stepResult := &models.StepResult{
		StepID:    step.ID,
		StartedAt: time.Now().UTC(),
	}

	data := template.Data{
		Matrix: instance.Bindings,
		Steps:  outputs,
		Event:  event,
		Env:    mergeEnv(instance.Env, step.Env),
	}

	logger = logger.With("step_id", step.ID)

	if step.IsAction() {
		e.invokeAction(ctx, logger, runID, instance, step, data, stepResult)
	} else {
		e.runCommand(ctx, logger, step, data, stepResult)
	}

	stepResult.FinishedAt = time.Now().UTC()

	if stepResult.Status == models.StepFailed {
		otelhelper.SetError(span, fmt.Errorf("%s", stepResult.Error),
			attribute.String(otelhelper.StepIDKey, step.ID),
			attribute.String("runway.step.failure_kind", string(stepResult.FailureKind)))
	}

	return stepResult
}

func (e *Executor) invokeAction(
	ctx context.Context,
	logger *slog.Logger,
	runID string,
	instance *models.JobInstance,
	step *models.StepSpec,
	data template.Data,
	stepResult *models.StepResult,
) {
	params, err := template.RenderAll(step.With, data)
	if err != nil {
		failStep(stepResult, models.FailureStep, err)

		return
	}

	action, err := e.registry.CreateAction(step.Uses, params)
	if err != nil {
		// A missing or broken action boundary propagates like any step
		// failure, tagged separately for diagnostics.
		failStep(stepResult, models.FailureActionInvocation, err)
		logger.WarnContext(ctx, "Action invocation failed", "uses", step.Uses, "error", err)

		return
	}

	actionCtx := protocol.ActionContext{
		RunID:        runID,
		InstanceID:   instance.ID,
		InstanceName: instance.Name,
		Bindings:     instance.Bindings,
		Env:          data.Env,
		Secrets:      e.secrets,
	}

	result, err := action.Execute(ctx, actionCtx, logger.With("uses", step.Uses))
	if err != nil {
		failStep(stepResult, models.FailureActionInvocation, err)
		logger.WarnContext(ctx, "Action errored", "uses", step.Uses, "error", err)

		return
	}

	if !result.Success {
		failStep(stepResult, models.FailureStep, fmt.Errorf("action %q reported failure", step.Uses))

		return
	}

	stepResult.Status = models.StepSucceeded
	stepResult.Outputs = result.Outputs

	logger.InfoContext(ctx, "Step succeeded", "uses", step.Uses, "outputs", len(result.Outputs))
}

func (e *Executor) runCommand(
	ctx context.Context,
	logger *slog.Logger,
	step *models.StepSpec,
	data template.Data,
	stepResult *models.StepResult,
) {
	cmdline, err := template.Render(step.Run, data)
	if err != nil {
		failStep(stepResult, models.FailureStep, err)

		return
	}

	exitCode, err := e.runner.RunCommand(ctx, cmdline, data.Env)
	if err != nil {
		failStep(stepResult, models.FailureStep, err)

		return
	}

	stepResult.ExitCode = exitCode

	if exitCode != 0 {
		failStep(stepResult, models.FailureStep, fmt.Errorf("command exited with code %d", exitCode))
		logger.WarnContext(ctx, "Command failed", "exit_code", exitCode)

		return
	}

	stepResult.Status = models.StepSucceeded

	logger.InfoContext(ctx, "Step succeeded")
}

func failStep(stepResult *models.StepResult, kind models.FailureKind, err error) {
	stepResult.Status = models.StepFailed
	stepResult.FailureKind = kind
	stepResult.Error = err.Error()
}

func skippedStep(step *models.StepSpec) *models.StepResult {
	now := time.Now().UTC()

	return &models.StepResult{
		StepID:     step.ID,
		Status:     models.StepSkipped,
		StartedAt:  now,
		FinishedAt: now,
	}
}

func mergeEnv(instanceEnv, stepEnv map[string]string) map[string]string {
	merged := make(map[string]string, len(instanceEnv)+len(stepEnv))

	for k, v := range instanceEnv {
		merged[k] = v
	}

	for k, v := range stepEnv {
		merged[k] = v
	}

	return merged
}
