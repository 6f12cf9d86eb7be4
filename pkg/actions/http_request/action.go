// Package http_request provides the built-in HTTP request action.
package http_request

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/runwayci/runway/pkg/protocol"
)

const defaultTimeout = 30 * time.Second

// maxCapturedBody caps the response body captured into step outputs.
const maxCapturedBody = 64 * 1024

type Action struct {
	method     string
	url        string
	body       string
	authSecret string
	client     *http.Client
}

func NewAction(params map[string]string) (*Action, error) {
	method := strings.ToUpper(params["method"])
	if method == "" {
		method = http.MethodGet
	}

	if params["url"] == "" {
		return nil, fmt.Errorf("http_request action requires a url")
	}

	return &Action{
		method:     method,
		url:        params["url"],
		body:       params["body"],
		authSecret: params["auth_secret"],
		client:     &http.Client{Timeout: defaultTimeout},
	}, nil
}

func (a *Action) Execute(ctx context.Context, actionCtx protocol.ActionContext, logger *slog.Logger) (*protocol.ActionResult, error) {
	req, err := http.NewRequestWithContext(ctx, a.method, a.url, strings.NewReader(a.body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	// Credentials are an explicit capability: an auth_secret parameter
	// without a configured provider is an invocation error, not a silent
	// unauthenticated request.
	if a.authSecret != "" {
		if actionCtx.Secrets == nil {
			return nil, fmt.Errorf("action requires secret %q but no secrets provider is configured", a.authSecret)
		}

		token, err := actionCtx.Secrets.Secret(ctx, a.authSecret)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve secret: %w", err)
		}

		req.Header.Set("Authorization", "Bearer "+token)
	}

	logger.InfoContext(ctx, "Sending HTTP request", "method", a.method, "url", a.url)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxCapturedBody))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &protocol.ActionResult{
		Success: resp.StatusCode < 400,
		Outputs: map[string]string{
			"status_code": strconv.Itoa(resp.StatusCode),
			"body":        string(body),
		},
	}, nil
}
