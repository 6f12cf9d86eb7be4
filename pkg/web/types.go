package web

import "github.com/runwayci/runway/pkg/models"

// DeliverEventRequest is the payload for POST /events.
type DeliverEventRequest struct {
	Kind       string         `json:"kind"       validate:"required,oneof=push tag manual pull_request"`
	Ref        string         `json:"ref"        validate:"required"`
	Commit     string         `json:"commit"`
	Repository string         `json:"repository"`
	Actor      string         `json:"actor"`
	Payload    map[string]any `json:"payload"`
}

// DeliverEventResponse reports which pipelines the event triggered.
type DeliverEventResponse struct {
	EventID   string   `json:"event_id"`
	Triggered []string `json:"triggered_pipelines"`
}

// RunSummary is the list representation of a run.
type RunSummary struct {
	ID         string           `json:"id"`
	PipelineID string           `json:"pipeline_id"`
	Status     models.RunStatus `json:"status"`
	Ref        string           `json:"ref"`
	StartedAt  string           `json:"started_at"`
}
