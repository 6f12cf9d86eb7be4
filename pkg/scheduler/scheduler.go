// Package scheduler dispatches job instances to a bounded pool of
// execution slots.
package scheduler

import (
	"context"
	"log/slog"
	"sync"

	"github.com/runwayci/runway/pkg/models"
)

// ExecFunc executes one admitted job instance and returns its terminal
// result. The scheduler treats it as opaque.
type ExecFunc func(ctx context.Context, instance *models.JobInstance) *models.RunResult

// Scheduler admits instances FIFO into at most maxParallel concurrent
// slots. There is no priority and no automatic retry: a failed instance is
// recorded and does not block independent siblings.
type Scheduler struct {
	maxParallel int
	logger      *slog.Logger
}

func NewScheduler(maxParallel int, logger *slog.Logger) (*Scheduler, error) {
	if maxParallel < 1 {
		return nil, models.ErrInvalidParallelism
	}

	return &Scheduler{
		maxParallel: maxParallel,
		logger:      logger.With("module", "scheduler", "max_parallel", maxParallel),
	}, nil
}

// Run executes all instances and returns a result per instance ID. At no
// point are more than maxParallel instances running. When ctx is
// cancelled, queued instances are recorded as Cancelled without starting;
// running instances observe the cancellation cooperatively through the
// executor.
func (s *Scheduler) Run(ctx context.Context, instances []*models.JobInstance, execFn ExecFunc) map[string]*models.RunResult {
	results := make(map[string]*models.RunResult, len(instances))

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)

	// The free-slot count is the only shared mutable state; admission and
	// release bracket each instance's lifecycle.
	slots := make(chan struct{}, s.maxParallel)

	s.logger.InfoContext(ctx, "Dispatching job instances", "instances", len(instances))

	for _, instance := range instances {
		admitted := false

		select {
		case slots <- struct{}{}:
			admitted = true
		case <-ctx.Done():
		}

		if !admitted {
			mu.Lock()
			results[instance.ID] = cancelledResult(instance)
			mu.Unlock()

			continue
		}

		if ctx.Err() != nil {
			<-slots

			mu.Lock()
			results[instance.ID] = cancelledResult(instance)
			mu.Unlock()

			continue
		}

		wg.Add(1)

		go func(instance *models.JobInstance) {
			defer wg.Done()
			defer func() { <-slots }()

			result := execFn(ctx, instance)

			mu.Lock()
			results[instance.ID] = result
			mu.Unlock()
		}(instance)
	}

	wg.Wait()

	return results
}

func cancelledResult(instance *models.JobInstance) *models.RunResult {
	return &models.RunResult{
		InstanceID:   instance.ID,
		JobID:        instance.JobID,
		InstanceName: instance.Name,
		Status:       models.InstanceCancelled,
	}
}
