package protocol

import "context"

// SecretsProvider resolves named secrets for action invocations. It is an
// explicit, optional capability: a nil provider means the run was
// configured without credentials, never a silent fallback to ambient
// state.
type SecretsProvider interface {
	Secret(ctx context.Context, name string) (string, error)
}
