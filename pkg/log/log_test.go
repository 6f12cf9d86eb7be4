package log

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetup_LevelParsing(t *testing.T) {
	ctx := context.Background()

	Setup("debug")
	assert.True(t, slog.Default().Enabled(ctx, slog.LevelDebug))

	Setup("warn")
	assert.False(t, slog.Default().Enabled(ctx, slog.LevelInfo))
	assert.True(t, slog.Default().Enabled(ctx, slog.LevelWarn))

	Setup("nonsense")
	assert.True(t, slog.Default().Enabled(ctx, slog.LevelInfo))
	assert.False(t, slog.Default().Enabled(ctx, slog.LevelDebug))
}

func TestWithModule(t *testing.T) {
	var buf bytes.Buffer

	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))

	WithModule("engine").Info("ready")

	assert.Contains(t, buf.String(), "module=engine")
}
