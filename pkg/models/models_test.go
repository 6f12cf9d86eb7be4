package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepoEvent_ShortRef(t *testing.T) {
	tests := []struct {
		ref  string
		want string
	}{
		{"refs/heads/main", "main"},
		{"refs/heads/release/1.2", "release/1.2"},
		{"refs/tags/v1.0.0", "v1.0.0"},
		{"main", "main"},
		{"refs/heads/", "refs/heads/"},
	}

	for _, tt := range tests {
		event := RepoEvent{Ref: tt.ref}
		assert.Equal(t, tt.want, event.ShortRef(), "ref=%q", tt.ref)
	}
}

func TestKnownEventKind(t *testing.T) {
	for _, kind := range []EventKind{EventKindPush, EventKindTag, EventKindManual, EventKindPullRequest} {
		assert.True(t, KnownEventKind(kind))
	}

	assert.False(t, KnownEventKind("deployment"))
	assert.False(t, KnownEventKind(""))
}

func TestInstanceStatus_Terminal(t *testing.T) {
	terminal := []InstanceStatus{InstanceSucceeded, InstanceFailed, InstanceSkipped, InstanceCancelled}
	for _, status := range terminal {
		assert.True(t, status.Terminal(), "status=%s", status)
	}

	assert.False(t, InstancePending.Terminal())
	assert.False(t, InstanceRunning.Terminal())
}

func TestMatrixSpec_Size(t *testing.T) {
	matrix := &MatrixSpec{Dimensions: map[string][]string{
		"os":      {"linux", "darwin"},
		"version": {"3.11", "3.12", "3.13"},
	}}

	assert.Equal(t, 6, matrix.Size())

	empty := &MatrixSpec{Dimensions: map[string][]string{}}
	assert.Equal(t, 1, empty.Size())
}

func TestStepSpec_IsAction(t *testing.T) {
	assert.True(t, (&StepSpec{Uses: "log"}).IsAction())
	assert.False(t, (&StepSpec{Run: "make"}).IsAction())
}

func TestNewJobInstance_Name(t *testing.T) {
	job := &JobSpec{ID: "build", RunsOn: "linux"}

	instance := NewJobInstance(job, map[string]string{})
	assert.Equal(t, "build", instance.Name)

	named := &JobSpec{ID: "build", Name: "Build wheels", RunsOn: "linux"}

	instance = NewJobInstance(named, map[string]string{
		"os":      "linux",
		"version": "3.12",
		"arch":    "arm64",
	})

	// Values appear in lexicographic dimension order: arch, os, version.
	assert.Equal(t, "Build wheels (arm64, linux, 3.12)", instance.Name)
	assert.NotEmpty(t, instance.ID)
}

func TestInvalidMatrixError(t *testing.T) {
	err := &InvalidMatrixError{JobID: "build", Dimension: "os", Err: ErrEmptyDimension}

	assert.Contains(t, err.Error(), "build")
	assert.Contains(t, err.Error(), "os")
	assert.True(t, IsInvalidMatrix(err))
	require.ErrorIs(t, err, ErrEmptyDimension)

	wrapped := errors.New("boom")
	assert.False(t, IsInvalidMatrix(wrapped))
}
