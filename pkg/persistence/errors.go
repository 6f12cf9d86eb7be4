package persistence

import (
	"errors"
	"fmt"
)

// Standard persistence error types that all implementations should use.
var (
	// ErrPipelineNotFound indicates a pipeline was not found by the given identifier.
	ErrPipelineNotFound = errors.New("pipeline not found")

	// ErrRunNotFound indicates a run was not found by the given identifier.
	ErrRunNotFound = errors.New("run not found")

	// ErrPipelineAlreadyExists indicates a pipeline with the same identifier already exists.
	ErrPipelineAlreadyExists = errors.New("pipeline already exists")
)

// PipelineError wraps pipeline-related errors with operation context.
type PipelineError struct {
	Op         string
	PipelineID string
	Err        error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s operation failed for pipeline %s: %v", e.Op, e.PipelineID, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

func (e *PipelineError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

func NewPipelineError(op, pipelineID string, err error) *PipelineError {
	return &PipelineError{
		Op:         op,
		PipelineID: pipelineID,
		Err:        err,
	}
}

// IsPipelineNotFound checks if an error indicates a pipeline was not found.
func IsPipelineNotFound(err error) bool {
	return errors.Is(err, ErrPipelineNotFound)
}

// IsRunNotFound checks if an error indicates a run was not found.
func IsRunNotFound(err error) bool {
	return errors.Is(err, ErrRunNotFound)
}
