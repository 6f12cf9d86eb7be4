// Package artifact_upload provides the built-in artifact upload action,
// which stages a file into the run's artifact directory under a stable
// name derived from the instance.
package artifact_upload

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/runwayci/runway/pkg/protocol"
)

type Action struct {
	source string
	name   string
	root   string
}

func NewAction(params map[string]string) (*Action, error) {
	if params["source"] == "" {
		return nil, fmt.Errorf("artifact_upload action requires a source path")
	}

	name := params["name"]
	if name == "" {
		name = filepath.Base(params["source"])
	}

	root := params["artifacts_dir"]
	if root == "" {
		root = "./artifacts"
	}

	return &Action{
		source: params["source"],
		name:   name,
		root:   root,
	}, nil
}

func (a *Action) Execute(ctx context.Context, actionCtx protocol.ActionContext, logger *slog.Logger) (*protocol.ActionResult, error) {
	data, err := os.ReadFile(a.source)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact source: %w", err)
	}

	dir := filepath.Join(a.root, actionCtx.RunID, actionCtx.InstanceID)

	err = os.MkdirAll(dir, 0o750)
	if err != nil {
		return nil, fmt.Errorf("failed to create artifact directory: %w", err)
	}

	target := filepath.Join(dir, a.name)

	err = os.WriteFile(target, data, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to write artifact: %w", err)
	}

	logger.InfoContext(ctx, "Uploaded artifact", "name", a.name, "path", target, "bytes", len(data))

	return &protocol.ActionResult{
		Success: true,
		Outputs: map[string]string{
			"path": target,
			"name": a.name,
		},
	}, nil
}
