package postgresql

import (
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/runwayci/runway/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations(t *testing.T) {
	m := migrations()

	require.Len(t, m, 2)
	assert.Contains(t, m[1], "CREATE TABLE pipelines")
	assert.Contains(t, m[1], "document JSONB NOT NULL")
	assert.Contains(t, m[2], "CREATE TABLE runs")
	assert.Contains(t, m[2], "'cancelled'")
}

func TestScanPipeline(t *testing.T) {
	pipeline := &models.Pipeline{
		ID:   "5c4f9ad1-3e69-4a46-9df9-7c7b0ad0c001",
		Name: "Release",
		On: models.TriggerPredicate{
			Kinds:    []models.EventKind{models.EventKindPush},
			Branches: []string{"main"},
		},
		Jobs: []*models.JobSpec{
			{ID: "build", RunsOn: "linux", Steps: []*models.StepSpec{{ID: "compile", Run: "make"}}},
		},
	}

	document, err := json.Marshal(pipeline)
	require.NoError(t, err)

	scanned, err := scanPipeline(func(dest ...any) error {
		*dest[0].(*[]byte) = document

		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, pipeline.ID, scanned.ID)
	assert.Equal(t, "Release", scanned.Name)
	require.Len(t, scanned.Jobs, 1)
	assert.Equal(t, "build", scanned.Jobs[0].ID)
}

func TestScanPipeline_BadDocument(t *testing.T) {
	_, err := scanPipeline(func(dest ...any) error {
		*dest[0].(*[]byte) = []byte("{not json")

		return nil
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode pipeline document")
}

func TestScanRun(t *testing.T) {
	event, err := json.Marshal(models.RepoEvent{Kind: models.EventKindPush, Ref: "refs/heads/main"})
	require.NoError(t, err)

	results, err := json.Marshal(map[string]*models.RunResult{
		"inst-a": {InstanceID: "inst-a", Status: models.InstanceSucceeded},
	})
	require.NoError(t, err)

	started := time.Now().UTC().Truncate(time.Second)
	finished := started.Add(time.Minute)

	run, err := scanRun(func(dest ...any) error {
		*dest[0].(*string) = "run-1"
		*dest[1].(*string) = "5c4f9ad1-3e69-4a46-9df9-7c7b0ad0c001"
		*dest[2].(*string) = "succeeded"
		*dest[3].(*[]byte) = event
		*dest[4].(*[]byte) = results
		*dest[5].(*sql.NullString) = sql.NullString{String: "pl-1/main", Valid: true}
		*dest[6].(*time.Time) = started
		*dest[7].(*sql.NullTime) = sql.NullTime{Time: finished, Valid: true}

		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, "run-1", run.ID)
	assert.Equal(t, models.RunSucceeded, run.Status)
	assert.Equal(t, "pl-1/main", run.ConcurrencyGroup)
	assert.Equal(t, models.EventKindPush, run.Event.Kind)
	assert.Equal(t, finished, run.FinishedAt)
	require.Len(t, run.Results, 1)
	assert.Equal(t, models.InstanceSucceeded, run.Results["inst-a"].Status)
}

func TestScanRun_UnfinishedRun(t *testing.T) {
	event, err := json.Marshal(models.RepoEvent{Kind: models.EventKindPush, Ref: "refs/heads/main"})
	require.NoError(t, err)

	run, err := scanRun(func(dest ...any) error {
		*dest[0].(*string) = "run-1"
		*dest[1].(*string) = "pl-1"
		*dest[2].(*string) = "running"
		*dest[3].(*[]byte) = event
		*dest[4].(*[]byte) = nil
		*dest[5].(*sql.NullString) = sql.NullString{}
		*dest[6].(*time.Time) = time.Now().UTC()
		*dest[7].(*sql.NullTime) = sql.NullTime{}

		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, models.RunRunning, run.Status)
	assert.True(t, run.FinishedAt.IsZero())
	assert.Empty(t, run.ConcurrencyGroup)
	assert.Nil(t, run.Results)
}
