// Package protocol defines the boundaries the engine invokes but never
// interprets: external actions, shell commands, and secret lookup.
package protocol

import (
	"context"
	"log/slog"
)

// ActionContext carries the instance-scoped data an action may read.
type ActionContext struct {
	RunID        string
	InstanceID   string
	InstanceName string
	Bindings     map[string]string
	Env          map[string]string
	Secrets      SecretsProvider
}

// ActionResult is what an opaque action reports back: success plus
// arbitrary output bindings visible to later steps in the same instance.
type ActionResult struct {
	Success bool
	Outputs map[string]string
}

// Action is one opaque external action invocation. The engine never
// interprets action semantics; checkout, interpreter provisioning and
// index publication all live behind this boundary.
type Action interface {
	Execute(ctx context.Context, actionCtx ActionContext, logger *slog.Logger) (*ActionResult, error)
}

// ActionFactory builds actions from their resolved `with` parameters.
type ActionFactory interface {
	// ID returns the action reference name, e.g. "log" or "http_request".
	ID() string

	// Schema returns the JSON Schema for the action parameters.
	Schema() map[string]any

	Create(params map[string]string) (Action, error)
}
