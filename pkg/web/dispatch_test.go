package web

import (
	"context"
	"testing"
	"time"

	"github.com/runwayci/runway/pkg/events"
	"github.com/runwayci/runway/pkg/models"
	"github.com/runwayci/runway/pkg/persistence/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Scheduled events arrive here without an HTTP request, so the dispatch
// path is exercised directly.
func TestDispatchEvent_ScheduledManualEvent(t *testing.T) {
	ctx := context.Background()
	store := file.NewPersistence(t.TempDir())
	publisher := &capturingPublisher{}

	nightly := &models.Pipeline{
		ID:   "pl-nightly",
		Name: "Nightly release",
		On: models.TriggerPredicate{
			Kinds:    []models.EventKind{models.EventKindManual},
			Branches: []string{"main"},
		},
		Jobs: []*models.JobSpec{
			{
				ID:     "build",
				RunsOn: "linux",
				Steps:  []*models.StepSpec{{ID: "compile", Run: "make"}},
			},
		},
	}
	require.NoError(t, store.SavePipeline(ctx, nightly))

	pushOnly := storedPipeline(t, store)

	event := models.RepoEvent{
		ID:         "evt-sched",
		Kind:       models.EventKindManual,
		Ref:        "refs/heads/main",
		Actor:      "schedule",
		ReceivedAt: time.Now().UTC(),
	}

	triggered, err := DispatchEvent(ctx, store, publisher, event)

	require.NoError(t, err)
	assert.Equal(t, []string{"pl-nightly"}, triggered)
	assert.NotContains(t, triggered, pushOnly.ID)

	require.Len(t, publisher.published, 1)

	requested, ok := publisher.published[0].(events.RunRequested)
	require.True(t, ok)
	assert.Equal(t, "pl-nightly", requested.PipelineID)
	assert.Equal(t, models.EventKindManual, requested.Event.Kind)
}
