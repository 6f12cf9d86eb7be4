package log

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/runwayci/runway/pkg/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAction_Execute(t *testing.T) {
	var buf bytes.Buffer

	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	for _, level := range []string{"debug", "info", "warn", "warning", "error", ""} {
		buf.Reset()

		action := NewAction(map[string]string{"message": "release started", "level": level})

		result, err := action.Execute(context.Background(), protocol.ActionContext{}, logger)

		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.Contains(t, buf.String(), "release started")
	}
}

func TestActionFactory(t *testing.T) {
	factory := NewActionFactory()

	assert.Equal(t, "log", factory.ID())
	assert.NotNil(t, factory.Schema())

	action, err := factory.Create(nil)
	require.NoError(t, err)
	assert.NotNil(t, action)
}
