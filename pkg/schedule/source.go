// Package schedule emits synthetic manual events on a cron schedule,
// e.g. nightly release dry-runs.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/runwayci/runway/pkg/models"
)

// Callback receives each synthesized event.
type Callback func(ctx context.Context, event models.RepoEvent) error

// Entry is one cron schedule bound to a ref.
type Entry struct {
	CronExpr string
	Ref      string
}

// ParseEntry parses the "<ref>@<cron>" flag form into an Entry, e.g.
// "refs/heads/main@0 2 * * *". The cron expression is validated later
// by NewSource.
func ParseEntry(raw string) (Entry, error) {
	ref, expr, found := strings.Cut(raw, "@")
	if !found || ref == "" || expr == "" {
		return Entry{}, fmt.Errorf("invalid schedule %q, expected <ref>@<cron>", raw)
	}

	return Entry{CronExpr: expr, Ref: ref}, nil
}

type Source struct {
	entries  []Entry
	cron     *cron.Cron
	callback Callback
	logger   *slog.Logger
}

func NewSource(entries []Entry, logger *slog.Logger) (*Source, error) {
	source := &Source{
		entries: entries,
		logger:  logger.With("module", "schedule_source"),
	}

	err := source.Validate()
	if err != nil {
		return nil, err
	}

	return source, nil
}

func (s *Source) Validate() error {
	if len(s.entries) == 0 {
		return errors.New("schedule source requires at least one entry")
	}

	for _, entry := range s.entries {
		if entry.Ref == "" {
			return errors.New("schedule entry ref is required")
		}

		if _, err := cron.ParseStandard(entry.CronExpr); err != nil {
			return fmt.Errorf("invalid cron expression %q: %w", entry.CronExpr, err)
		}
	}

	return nil
}

func (s *Source) Start(ctx context.Context, callback Callback) error {
	s.callback = callback
	s.cron = cron.New()

	for _, entry := range s.entries {
		entry := entry

		_, err := s.cron.AddFunc(entry.CronExpr, func() {
			s.fire(ctx, entry)
		})
		if err != nil {
			return fmt.Errorf("failed to schedule %q: %w", entry.CronExpr, err)
		}
	}

	s.logger.InfoContext(ctx, "Starting schedule source", "entries", len(s.entries))
	s.cron.Start()

	return nil
}

func (s *Source) Stop(ctx context.Context) error {
	if s.cron == nil {
		return nil
	}

	stopCtx := s.cron.Stop()

	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "Schedule source stopped")

	return nil
}

func (s *Source) fire(ctx context.Context, entry Entry) {
	event := models.RepoEvent{
		ID:         "evt-" + uuid.New().String()[:8],
		Kind:       models.EventKindManual,
		Ref:        entry.Ref,
		Actor:      "schedule",
		ReceivedAt: time.Now().UTC(),
	}

	err := s.callback(ctx, event)
	if err != nil {
		s.logger.ErrorContext(ctx, "Schedule callback failed", "ref", entry.Ref, "error", err)
	}
}
