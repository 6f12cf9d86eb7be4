package models

import (
	"errors"
	"fmt"
)

// Configuration-time errors. Both are fatal before any job starts.
var (
	// ErrEmptyDimension indicates a matrix dimension with no candidate values.
	ErrEmptyDimension = errors.New("matrix dimension has no values")

	// ErrInvalidParallelism indicates a max_parallel bound below one.
	ErrInvalidParallelism = errors.New("max_parallel must be at least 1")
)

// InvalidMatrixError wraps a malformed matrix definition with the job and
// dimension it belongs to.
type InvalidMatrixError struct {
	JobID     string
	Dimension string
	Err       error
}

func (e *InvalidMatrixError) Error() string {
	return fmt.Sprintf("invalid matrix for job %s (dimension %q): %v", e.JobID, e.Dimension, e.Err)
}

func (e *InvalidMatrixError) Unwrap() error {
	return e.Err
}

// IsInvalidMatrix checks whether err stems from a malformed matrix definition.
func IsInvalidMatrix(err error) bool {
	return errors.Is(err, ErrEmptyDimension)
}
