package registry

import (
	"log/slog"

	artifact_upload_action "github.com/runwayci/runway/pkg/actions/artifact_upload"
	http_request_action "github.com/runwayci/runway/pkg/actions/http_request"
	log_action "github.com/runwayci/runway/pkg/actions/log"
)

// NewDefaultRegistry returns a registry with all built-in actions
// registered. Anything else referenced by a pipeline fails as an action
// invocation error at execution time.
func NewDefaultRegistry(logger *slog.Logger) *Registry {
	r := NewRegistry(logger)

	r.RegisterAction(log_action.NewActionFactory())
	r.RegisterAction(http_request_action.NewActionFactory())
	r.RegisterAction(artifact_upload_action.NewActionFactory())

	return r
}
