package report

import (
	"testing"

	"github.com/runwayci/runway/pkg/models"
	"github.com/stretchr/testify/assert"
)

func results(statuses ...models.InstanceStatus) map[string]*models.RunResult {
	out := make(map[string]*models.RunResult, len(statuses))
	for i, status := range statuses {
		id := "inst-" + string(rune('a'+i))
		out[id] = &models.RunResult{InstanceID: id, Status: status}
	}

	return out
}

func TestAggregate_Empty(t *testing.T) {
	assert.Equal(t, models.RunPending, Aggregate(nil))
	assert.Equal(t, models.RunPending, Aggregate(map[string]*models.RunResult{}))
}

func TestAggregate_FailedDominates(t *testing.T) {
	set := results(
		models.InstanceSucceeded,
		models.InstanceFailed,
		models.InstanceCancelled,
		models.InstanceRunning,
	)

	assert.Equal(t, models.RunFailed, Aggregate(set))
}

func TestAggregate_CancelledDominatesUnresolved(t *testing.T) {
	set := results(
		models.InstanceSucceeded,
		models.InstanceCancelled,
		models.InstancePending,
	)

	assert.Equal(t, models.RunCancelled, Aggregate(set))
}

func TestAggregate_UnresolvedMeansRunning(t *testing.T) {
	set := results(models.InstanceSucceeded, models.InstanceRunning)

	assert.Equal(t, models.RunRunning, Aggregate(set))
}

func TestAggregate_AllResolvedSucceeds(t *testing.T) {
	set := results(
		models.InstanceSucceeded,
		models.InstanceSucceeded,
		models.InstanceSkipped,
	)

	assert.Equal(t, models.RunSucceeded, Aggregate(set))
}

func TestAggregate_AllSkipped(t *testing.T) {
	set := results(models.InstanceSkipped, models.InstanceSkipped)

	// Nothing ran, nothing failed.
	assert.Equal(t, models.RunPending, Aggregate(set))
}

func TestAggregate_Idempotent(t *testing.T) {
	sets := []map[string]*models.RunResult{
		results(models.InstanceSucceeded, models.InstanceFailed),
		results(models.InstanceSucceeded, models.InstanceSkipped),
		results(models.InstanceCancelled, models.InstanceSucceeded),
		results(models.InstanceSkipped),
	}

	for _, set := range sets {
		first := Aggregate(set)
		second := Aggregate(set)
		assert.Equal(t, first, second)
	}
}
