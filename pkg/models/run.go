package models

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// InstanceStatus is the lifecycle state of one job instance.
type InstanceStatus string

const (
	InstancePending   InstanceStatus = "pending"
	InstanceRunning   InstanceStatus = "running"
	InstanceSucceeded InstanceStatus = "succeeded"
	InstanceFailed    InstanceStatus = "failed"
	InstanceSkipped   InstanceStatus = "skipped"
	InstanceCancelled InstanceStatus = "cancelled"
)

// Terminal reports whether the status is final.
func (s InstanceStatus) Terminal() bool {
	switch s {
	case InstanceSucceeded, InstanceFailed, InstanceSkipped, InstanceCancelled:
		return true
	default:
		return false
	}
}

// RunStatus is the aggregated state of a whole run.
type RunStatus string

const (
	RunPending   RunStatus = "pending"
	RunRunning   RunStatus = "running"
	RunSucceeded RunStatus = "succeeded"
	RunFailed    RunStatus = "failed"
	RunCancelled RunStatus = "cancelled"
)

// StepStatus is the state of one step within an instance.
type StepStatus string

const (
	StepSucceeded StepStatus = "succeeded"
	StepFailed    StepStatus = "failed"
	StepSkipped   StepStatus = "skipped"
)

// FailureKind distinguishes why a step failed, for diagnostics only.
// Propagation is identical for both kinds.
type FailureKind string

const (
	FailureStep             FailureKind = "step_failure"
	FailureActionInvocation FailureKind = "action_invocation"
)

// JobInstance is one concrete point of a job's matrix, fully bound and
// ready for execution. Instances are created by the expander and
// discarded when the run ends.
type JobInstance struct {
	ID       string            `json:"id"`
	JobID    string            `json:"job_id"`
	Name     string            `json:"name"`
	RunsOn   string            `json:"runs_on"`
	Bindings map[string]string `json:"bindings"`
	Env      map[string]string `json:"env,omitempty"`
	Steps    []*StepSpec       `json:"steps"`
}

// NewJobInstance builds an instance for the given job and bindings. The
// display name lists binding values in lexicographic dimension order so
// it is stable across runs.
func NewJobInstance(job *JobSpec, bindings map[string]string) *JobInstance {
	name := job.ID
	if job.Name != "" {
		name = job.Name
	}

	if len(bindings) > 0 {
		dims := make([]string, 0, len(bindings))
		for dim := range bindings {
			dims = append(dims, dim)
		}

		sort.Strings(dims)

		values := make([]string, 0, len(dims))
		for _, dim := range dims {
			values = append(values, bindings[dim])
		}

		name = fmt.Sprintf("%s (%s)", name, strings.Join(values, ", "))
	}

	return &JobInstance{
		ID:       "inst-" + uuid.New().String()[:8],
		JobID:    job.ID,
		Name:     name,
		RunsOn:   job.RunsOn,
		Bindings: bindings,
		Env:      job.Env,
		Steps:    job.Steps,
	}
}

// StepResult records the outcome of one step.
type StepResult struct {
	StepID      string            `json:"step_id"`
	Status      StepStatus        `json:"status"`
	ExitCode    int               `json:"exit_code,omitempty"`
	Outputs     map[string]string `json:"outputs,omitempty"`
	FailureKind FailureKind       `json:"failure_kind,omitempty"`
	Error       string            `json:"error,omitempty"`
	StartedAt   time.Time         `json:"started_at"`
	FinishedAt  time.Time         `json:"finished_at"`
}

// RunResult is the terminal record of one job instance.
type RunResult struct {
	InstanceID   string         `json:"instance_id"`
	JobID        string         `json:"job_id"`
	InstanceName string         `json:"instance_name"`
	Status       InstanceStatus `json:"status"`
	Steps        []*StepResult  `json:"steps,omitempty"`
	Error        string         `json:"error,omitempty"`
	StartedAt    time.Time      `json:"started_at,omitempty"`
	FinishedAt   time.Time      `json:"finished_at,omitempty"`
}

// Run is one evaluation of a pipeline against a repository event.
type Run struct {
	ID               string                `json:"id"`
	PipelineID       string                `json:"pipeline_id"`
	Event            RepoEvent             `json:"event"`
	ConcurrencyGroup string                `json:"concurrency_group,omitempty"`
	Results          map[string]*RunResult `json:"results"`
	Status           RunStatus             `json:"status"`
	StartedAt        time.Time             `json:"started_at"`
	FinishedAt       time.Time             `json:"finished_at,omitempty"`
}
