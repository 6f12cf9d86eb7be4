package schedule

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/runwayci/runway/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func TestParseEntry(t *testing.T) {
	entry, err := ParseEntry("refs/heads/main@0 2 * * *")
	require.NoError(t, err)
	assert.Equal(t, "refs/heads/main", entry.Ref)
	assert.Equal(t, "0 2 * * *", entry.CronExpr)

	// Descriptor expressions keep their leading @.
	entry, err = ParseEntry("refs/heads/nightly@@daily")
	require.NoError(t, err)
	assert.Equal(t, "refs/heads/nightly", entry.Ref)
	assert.Equal(t, "@daily", entry.CronExpr)

	for _, raw := range []string{"refs/heads/main", "@0 2 * * *", "refs/heads/main@", ""} {
		_, err = ParseEntry(raw)
		assert.Error(t, err, "raw=%q", raw)
	}
}

func TestNewSource_Validation(t *testing.T) {
	_, err := NewSource(nil, testLogger())
	assert.Error(t, err)

	_, err = NewSource([]Entry{{CronExpr: "0 2 * * *"}}, testLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ref is required")

	_, err = NewSource([]Entry{{CronExpr: "not a cron", Ref: "main"}}, testLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid cron expression")

	source, err := NewSource([]Entry{
		{CronExpr: "0 2 * * *", Ref: "refs/heads/main"},
		{CronExpr: "@daily", Ref: "refs/heads/nightly"},
	}, testLogger())
	require.NoError(t, err)
	assert.NotNil(t, source)
}

func TestSource_FireSynthesizesManualEvent(t *testing.T) {
	source, err := NewSource([]Entry{{CronExpr: "@daily", Ref: "refs/heads/nightly"}}, testLogger())
	require.NoError(t, err)

	var received models.RepoEvent

	source.callback = func(_ context.Context, event models.RepoEvent) error {
		received = event

		return nil
	}

	source.fire(context.Background(), source.entries[0])

	assert.Equal(t, models.EventKindManual, received.Kind)
	assert.Equal(t, "refs/heads/nightly", received.Ref)
	assert.Equal(t, "schedule", received.Actor)
	assert.NotEmpty(t, received.ID)
	assert.False(t, received.ReceivedAt.IsZero())
}

func TestSource_StopWithoutStart(t *testing.T) {
	source, err := NewSource([]Entry{{CronExpr: "@hourly", Ref: "main"}}, testLogger())
	require.NoError(t, err)

	assert.NoError(t, source.Stop(context.Background()))
}

func TestSource_StartAndStop(t *testing.T) {
	source, err := NewSource([]Entry{{CronExpr: "0 2 * * *", Ref: "main"}}, testLogger())
	require.NoError(t, err)

	err = source.Start(context.Background(), func(_ context.Context, _ models.RepoEvent) error {
		return nil
	})
	require.NoError(t, err)

	assert.NoError(t, source.Stop(context.Background()))
}
