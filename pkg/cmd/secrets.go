package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/runwayci/runway/pkg/concurrency"
	"github.com/runwayci/runway/pkg/protocol"
	"github.com/runwayci/runway/pkg/secrets"
)

// NewSecretsProvider builds a provider from its URL. An empty URL means
// the deployment runs without secrets; that is an explicit choice, so
// callers receive nil and actions requiring credentials fail loudly.
//
// nolint:ireturn
func NewSecretsProvider(ctx context.Context, url string) protocol.SecretsProvider {
	switch {
	case url == "":
		return nil
	case strings.HasPrefix(url, "env://"):
		return secrets.NewEnvProvider(strings.TrimPrefix(url, "env://"))
	case strings.HasPrefix(url, "redis://"):
		provider, err := secrets.NewRedisProvider(ctx, url, "default")
		if err != nil {
			panic(fmt.Errorf("failed to create redis secrets provider: %w", err))
		}

		return provider
	default:
		panic("Unsupported secrets provider: " + url)
	}
}

// NewConcurrencyRegistry builds the supersede registry. Empty URL keeps
// the state in process.
//
// nolint:ireturn
func NewConcurrencyRegistry(ctx context.Context, url string) concurrency.Registry {
	if url == "" {
		return concurrency.NewMemoryRegistry()
	}

	registry, err := concurrency.NewRedisRegistry(ctx, url)
	if err != nil {
		panic(fmt.Errorf("failed to create redis concurrency registry: %w", err))
	}

	return registry
}
