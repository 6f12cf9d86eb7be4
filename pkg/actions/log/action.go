// Package log provides the built-in log action.
package log

import (
	"context"
	"log/slog"

	"github.com/runwayci/runway/pkg/protocol"
)

type Action struct {
	message string
	level   string
}

func NewAction(params map[string]string) *Action {
	return &Action{
		message: params["message"],
		level:   params["level"],
	}
}

func (a *Action) Execute(ctx context.Context, _ protocol.ActionContext, logger *slog.Logger) (*protocol.ActionResult, error) {
	switch a.level {
	case "debug":
		logger.DebugContext(ctx, a.message)
	case "warn", "warning":
		logger.WarnContext(ctx, a.message)
	case "error":
		logger.ErrorContext(ctx, a.message)
	default:
		logger.InfoContext(ctx, a.message)
	}

	return &protocol.ActionResult{Success: true}, nil
}
