// Package registry holds the action factories known to the engine and
// validates action parameters against their schemas.
package registry

import (
	"fmt"
	"log/slog"

	"github.com/runwayci/runway/pkg/protocol"
	"github.com/xeipuuv/gojsonschema"
)

// ErrActionNotRegistered marks an action reference the registry cannot
// resolve; the executor reports it as an action invocation failure.
type ErrActionNotRegistered struct {
	Name string
}

func (e *ErrActionNotRegistered) Error() string {
	return fmt.Sprintf("action %q not registered", e.Name)
}

type Registry struct {
	logger          *slog.Logger
	actionFactories map[string]protocol.ActionFactory
}

func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		logger:          logger,
		actionFactories: make(map[string]protocol.ActionFactory),
	}
}

func (r *Registry) RegisterAction(factory protocol.ActionFactory) {
	r.actionFactories[factory.ID()] = factory
}

// ActionIDs lists the registered action names.
func (r *Registry) ActionIDs() []string {
	ids := make([]string, 0, len(r.actionFactories))
	for id := range r.actionFactories {
		ids = append(ids, id)
	}

	return ids
}

// CreateAction resolves an action reference and builds it from the
// resolved parameters, after validating them against the factory schema.
func (r *Registry) CreateAction(name string, params map[string]string) (protocol.Action, error) {
	factory, ok := r.actionFactories[name]
	if !ok {
		return nil, &ErrActionNotRegistered{Name: name}
	}

	err := r.validateParams(factory, params)
	if err != nil {
		return nil, fmt.Errorf("invalid parameters for action %q: %w", name, err)
	}

	return factory.Create(params)
}

func (r *Registry) validateParams(factory protocol.ActionFactory, params map[string]string) error {
	schema := factory.Schema()
	if schema == nil {
		return nil
	}

	document := make(map[string]any, len(params))
	for k, v := range params {
		document[k] = v
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(schema),
		gojsonschema.NewGoLoader(document),
	)
	if err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}

	if !result.Valid() {
		errs := result.Errors()
		if len(errs) > 0 {
			return fmt.Errorf("parameter %s", errs[0].String())
		}

		return fmt.Errorf("parameters do not match schema")
	}

	return nil
}
