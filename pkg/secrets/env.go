// Package secrets provides SecretsProvider implementations for action
// invocations.
package secrets

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// EnvProvider resolves secrets from environment variables carrying a
// fixed prefix, e.g. prefix "RUNWAY_SECRET_" maps the secret "pypi_token"
// to RUNWAY_SECRET_PYPI_TOKEN.
type EnvProvider struct {
	prefix string
}

func NewEnvProvider(prefix string) *EnvProvider {
	return &EnvProvider{prefix: prefix}
}

func (p *EnvProvider) Secret(_ context.Context, name string) (string, error) {
	key := p.prefix + strings.ToUpper(name)

	value, ok := os.LookupEnv(key)
	if !ok {
		return "", fmt.Errorf("secret %q not found", name)
	}

	return value, nil
}

// StaticProvider serves a fixed secret map. Intended for tests and
// one-shot local runs.
type StaticProvider struct {
	values map[string]string
}

func NewStaticProvider(values map[string]string) *StaticProvider {
	return &StaticProvider{values: values}
}

func (p *StaticProvider) Secret(_ context.Context, name string) (string, error) {
	value, ok := p.values[name]
	if !ok {
		return "", fmt.Errorf("secret %q not found", name)
	}

	return value, nil
}
