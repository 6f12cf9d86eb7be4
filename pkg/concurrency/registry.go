// Package concurrency tracks the latest run per concurrency group so a
// newer push can supersede an in-flight run on the same branch.
package concurrency

import (
	"context"
	"sync"
)

// Registry records run registrations per concurrency group. Register
// returns the run id the new run supersedes, if any; the caller decides
// whether to cancel it. The engine itself never cancels runs on its own.
type Registry interface {
	// Register marks runID as the latest run of group and returns the id
	// of the run it replaced, or "" when the group was idle.
	Register(ctx context.Context, group, runID string) (superseded string, err error)

	// Release clears the group entry if runID still owns it.
	Release(ctx context.Context, group, runID string) error
}

// MemoryRegistry is the in-process registry for local runs and tests.
type MemoryRegistry struct {
	mu     sync.Mutex
	latest map[string]string
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{latest: make(map[string]string)}
}

func (r *MemoryRegistry) Register(_ context.Context, group, runID string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	superseded := r.latest[group]
	r.latest[group] = runID

	return superseded, nil
}

func (r *MemoryRegistry) Release(_ context.Context, group, runID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.latest[group] == runID {
		delete(r.latest, group)
	}

	return nil
}
