// Package models defines the core domain models for pipeline evaluation.
package models

import "time"

// Pipeline is an immutable, fully-loaded pipeline definition. It is
// constructed once by the loader and never mutated afterwards.
type Pipeline struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"        validate:"required,min=3"`
	Description string           `json:"description"`
	On          TriggerPredicate `json:"on"          validate:"required"`
	Jobs        []*JobSpec       `json:"jobs"        validate:"required,min=1,dive"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// TriggerPredicate gates a pipeline on repository events. An empty kind
// set or an empty branch-pattern set matches nothing.
type TriggerPredicate struct {
	Kinds    []EventKind `json:"kinds"`
	Branches []string    `json:"branches"`
}

// JobSpec is one job template inside a pipeline.
type JobSpec struct {
	ID          string            `json:"id"           validate:"required,lowercase"`
	Name        string            `json:"name"`
	RunsOn      string            `json:"runs_on"      validate:"required"`
	Matrix      *MatrixSpec       `json:"matrix,omitempty"`
	Steps       []*StepSpec       `json:"steps"        validate:"required,min=1,dive"`
	Permissions []string          `json:"permissions,omitempty"`
	Env         map[string]string `json:"env,omitempty"`
}

// MatrixSpec declares the cross-product dimensions for a job.
type MatrixSpec struct {
	Dimensions  map[string][]string `json:"dimensions"   validate:"required,min=1"`
	MaxParallel int                 `json:"max_parallel" validate:"min=1"`
}

// Size returns the expansion cardinality, the product of all dimension sizes.
func (m *MatrixSpec) Size() int {
	size := 1
	for _, values := range m.Dimensions {
		size *= len(values)
	}

	return size
}

// StepSpec is one unit of sequential work within a job. Exactly one of
// Uses (external action reference) or Run (inline command) is set.
type StepSpec struct {
	ID      string            `json:"id"             validate:"required,lowercase"`
	Name    string            `json:"name"`
	Uses    string            `json:"uses,omitempty"`
	Version string            `json:"version,omitempty"`
	With    map[string]string `json:"with,omitempty"`
	Run     string            `json:"run,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
}

// IsAction reports whether the step references an external action rather
// than an inline command.
func (s *StepSpec) IsAction() bool {
	return s.Uses != ""
}
