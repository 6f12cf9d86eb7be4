package protocol

import "context"

// CommandRunner is the opaque shell/process boundary for inline `run`
// steps. Exit code 0 means success.
type CommandRunner interface {
	RunCommand(ctx context.Context, cmdline string, env map[string]string) (exitCode int, err error)
}
