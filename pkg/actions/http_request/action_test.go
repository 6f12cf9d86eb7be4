package http_request

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/runwayci/runway/pkg/protocol"
	"github.com/runwayci/runway/pkg/secrets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func TestNewAction_RequiresURL(t *testing.T) {
	_, err := NewAction(map[string]string{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "url")
}

func TestAction_Execute(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, `{"version": "1.2.0"}`, string(body))

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"ok": true}`))
	}))
	defer server.Close()

	action, err := NewAction(map[string]string{
		"method": "post",
		"url":    server.URL,
		"body":   `{"version": "1.2.0"}`,
	})
	require.NoError(t, err)

	result, err := action.Execute(context.Background(), protocol.ActionContext{}, testLogger())

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "201", result.Outputs["status_code"])
	assert.Equal(t, `{"ok": true}`, result.Outputs["body"])
}

func TestAction_ServerErrorIsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	action, err := NewAction(map[string]string{"url": server.URL})
	require.NoError(t, err)

	result, err := action.Execute(context.Background(), protocol.ActionContext{}, testLogger())

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "502", result.Outputs["status_code"])
}

func TestAction_AuthSecret(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	action, err := NewAction(map[string]string{
		"url":         server.URL,
		"auth_secret": "publish_token",
	})
	require.NoError(t, err)

	actionCtx := protocol.ActionContext{
		Secrets: secrets.NewStaticProvider(map[string]string{"publish_token": "tok-123"}),
	}

	result, err := action.Execute(context.Background(), actionCtx, testLogger())

	require.NoError(t, err)
	assert.True(t, result.Success)
}

func TestAction_AuthSecretWithoutProvider(t *testing.T) {
	action, err := NewAction(map[string]string{
		"url":         "http://localhost:1",
		"auth_secret": "publish_token",
	})
	require.NoError(t, err)

	// No provider configured: the action must fail instead of sending an
	// unauthenticated request.
	result, err := action.Execute(context.Background(), protocol.ActionContext{}, testLogger())

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "no secrets provider")
}
