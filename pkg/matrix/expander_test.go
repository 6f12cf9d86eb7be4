package matrix

import (
	"testing"

	"github.com/runwayci/runway/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJob(matrix *models.MatrixSpec) *models.JobSpec {
	return &models.JobSpec{
		ID:     "build",
		RunsOn: "linux",
		Matrix: matrix,
		Steps: []*models.StepSpec{
			{ID: "compile", Run: "make"},
		},
	}
}

func TestExpand_NoMatrix(t *testing.T) {
	instances, err := Expand(testJob(nil))

	require.NoError(t, err)
	require.Len(t, instances, 1)
	assert.Equal(t, "build", instances[0].JobID)
	assert.Equal(t, "build", instances[0].Name)
	assert.Empty(t, instances[0].Bindings)
}

func TestExpand_Cardinality(t *testing.T) {
	job := testJob(&models.MatrixSpec{
		Dimensions: map[string][]string{
			"os":      {"linux", "darwin"},
			"arch":    {"amd64", "arm64"},
			"version": {"1.22", "1.23", "1.24"},
		},
		MaxParallel: 2,
	})

	instances, err := Expand(job)

	require.NoError(t, err)
	assert.Len(t, instances, 12)

	// Every combination appears exactly once.
	seen := make(map[string]bool)
	for _, instance := range instances {
		key := instance.Bindings["os"] + "/" + instance.Bindings["arch"] + "/" + instance.Bindings["version"]
		assert.False(t, seen[key], "duplicate combination %s", key)
		seen[key] = true
	}
}

func TestExpand_Deterministic(t *testing.T) {
	job := testJob(&models.MatrixSpec{
		Dimensions: map[string][]string{
			"os":   {"linux", "darwin"},
			"arch": {"amd64", "arm64"},
		},
		MaxParallel: 1,
	})

	first, err := Expand(job)
	require.NoError(t, err)

	second, err := Expand(job)
	require.NoError(t, err)

	require.Len(t, second, len(first))

	for i := range first {
		assert.Equal(t, first[i].Name, second[i].Name)
		assert.Equal(t, first[i].Bindings, second[i].Bindings)
	}

	// Dimensions iterate in lexicographic order, values in declared order,
	// so "arch" varies slower than "os".
	assert.Equal(t, "amd64", first[0].Bindings["arch"])
	assert.Equal(t, "linux", first[0].Bindings["os"])
	assert.Equal(t, "amd64", first[1].Bindings["arch"])
	assert.Equal(t, "darwin", first[1].Bindings["os"])
	assert.Equal(t, "arm64", first[2].Bindings["arch"])
	assert.Equal(t, "linux", first[2].Bindings["os"])
}

func TestExpand_InstanceNames(t *testing.T) {
	job := testJob(&models.MatrixSpec{
		Dimensions: map[string][]string{
			"os":   {"linux"},
			"arch": {"arm64"},
		},
		MaxParallel: 1,
	})

	instances, err := Expand(job)

	require.NoError(t, err)
	require.Len(t, instances, 1)
	assert.Equal(t, "build (arm64, linux)", instances[0].Name)
}

func TestExpand_EmptyDimension(t *testing.T) {
	job := testJob(&models.MatrixSpec{
		Dimensions: map[string][]string{
			"os":   {"linux"},
			"arch": {},
		},
		MaxParallel: 1,
	})

	instances, err := Expand(job)

	require.Error(t, err)
	assert.Nil(t, instances)
	assert.True(t, models.IsInvalidMatrix(err))
	assert.ErrorIs(t, err, models.ErrEmptyDimension)
	assert.Contains(t, err.Error(), "arch")
}

func TestExpand_InstancesShareStepTemplates(t *testing.T) {
	job := testJob(&models.MatrixSpec{
		Dimensions:  map[string][]string{"os": {"linux", "darwin"}},
		MaxParallel: 1,
	})

	instances, err := Expand(job)

	require.NoError(t, err)
	require.Len(t, instances, 2)
	assert.NotEqual(t, instances[0].ID, instances[1].ID)
	assert.Equal(t, job.Steps, instances[0].Steps)
	assert.Equal(t, job.Steps, instances[1].Steps)
}
