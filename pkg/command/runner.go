// Package command provides the local shell implementation of the command
// execution boundary.
package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
)

// LocalRunner runs inline commands through the local shell, inheriting the
// process environment plus the step's own variables.
type LocalRunner struct {
	logger *slog.Logger
	shell  string
}

func NewLocalRunner(logger *slog.Logger) *LocalRunner {
	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "/bin/sh"
	}

	return &LocalRunner{
		logger: logger.With("module", "command_runner"),
		shell:  shell,
	}
}

func (r *LocalRunner) RunCommand(ctx context.Context, cmdline string, env map[string]string) (int, error) {
	cmd := exec.CommandContext(ctx, r.shell, "-c", cmdline)

	cmd.Env = os.Environ()
	for key, value := range env {
		cmd.Env = append(cmd.Env, key+"="+value)
	}

	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	r.logger.DebugContext(ctx, "Running command", "cmdline", cmdline)

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}

	return -1, fmt.Errorf("failed to run command %q: %w", cmdline, err)
}
