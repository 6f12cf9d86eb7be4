// Package events defines event types for run lifecycle notifications.
package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/runwayci/runway/pkg/models"
)

type EventType string

// Topic carries every run lifecycle event.
const Topic = "runway.runs"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	RunRequestedEvent     EventType = "run.requested"
	RunStartedEvent       EventType = "run.started"
	RunCompletedEvent     EventType = "run.completed"
	InstanceStartedEvent  EventType = "run.instance.started"
	InstanceFinishedEvent EventType = "run.instance.finished"
	StepFinishedEvent     EventType = "run.step.finished"
)

type BaseEvent struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	Timestamp  time.Time `json:"timestamp"`
	PipelineID string    `json:"pipeline_id"`
	RunID      string    `json:"run_id,omitempty"`
	AgentID    string    `json:"agent_id,omitempty"`
}

func NewBaseEvent(eventType EventType, pipelineID string) BaseEvent {
	return BaseEvent{
		ID:         uuid.New().String(),
		Type:       eventType,
		Timestamp:  time.Now().UTC(),
		PipelineID: pipelineID,
	}
}

// RunRequested asks an agent to evaluate a pipeline against an event.
type RunRequested struct {
	BaseEvent

	Event models.RepoEvent `json:"event"`
}

func (e RunRequested) GetType() EventType { return RunRequestedEvent }

type RunStarted struct {
	BaseEvent

	Event     models.RepoEvent `json:"event"`
	Instances int              `json:"instances"`
}

func (e RunStarted) GetType() EventType { return RunStartedEvent }

type RunCompleted struct {
	BaseEvent

	Status   models.RunStatus `json:"status"`
	Duration time.Duration    `json:"duration"`
}

func (e RunCompleted) GetType() EventType { return RunCompletedEvent }

type InstanceStarted struct {
	BaseEvent

	InstanceID   string `json:"instance_id"`
	InstanceName string `json:"instance_name"`
}

func (e InstanceStarted) GetType() EventType { return InstanceStartedEvent }

type InstanceFinished struct {
	BaseEvent

	InstanceID string                `json:"instance_id"`
	Status     models.InstanceStatus `json:"status"`
	Error      string                `json:"error,omitempty"`
}

func (e InstanceFinished) GetType() EventType { return InstanceFinishedEvent }

type StepFinished struct {
	BaseEvent

	InstanceID string            `json:"instance_id"`
	StepID     string            `json:"step_id"`
	Status     models.StepStatus `json:"status"`
	Outputs    map[string]string `json:"outputs,omitempty"`
}

func (e StepFinished) GetType() EventType { return StepFinishedEvent }
