package web

import (
	"context"

	"github.com/runwayci/runway/pkg/eventbus"
	"github.com/runwayci/runway/pkg/events"
	"github.com/runwayci/runway/pkg/models"
	"github.com/runwayci/runway/pkg/persistence"
	"github.com/runwayci/runway/pkg/trigger"
)

// DispatchEvent gates the event against every stored pipeline and
// publishes a run request for each match. Both the event delivery
// endpoint and the cron schedule source feed through here so a
// scheduled event triggers exactly what a delivered one would. Returns
// the triggered pipeline IDs.
func DispatchEvent(
	ctx context.Context,
	store persistence.Persistence,
	publisher eventbus.EventPublisher,
	event models.RepoEvent,
) ([]string, error) {
	pipelines, err := store.Pipelines(ctx)
	if err != nil {
		return nil, err
	}

	triggered := make([]string, 0)

	for _, p := range pipelines {
		if !trigger.Matches(event, p.On) {
			continue
		}

		runEvent := events.RunRequested{
			BaseEvent: events.NewBaseEvent(events.RunRequestedEvent, p.ID),
			Event:     event,
		}

		err = publisher.Publish(ctx, p.ID, runEvent)
		if err != nil {
			return triggered, err
		}

		triggered = append(triggered, p.ID)
	}

	return triggered, nil
}
