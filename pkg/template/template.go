// Package template resolves binding references inside step parameters and
// commands before execution.
package template

import (
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/runwayci/runway/pkg/models"
)

// Data is the resolution scope for one step: matrix bindings, outputs of
// earlier steps in the same instance, and the triggering event. Bindings
// are resolved explicitly here, never interpolated ambiently into step
// strings.
type Data struct {
	Matrix map[string]string
	Steps  map[string]map[string]string
	Event  models.RepoEvent
	Env    map[string]string
}

// Render resolves all "{{...}}" references in input against data. Inputs
// without template markers are returned unchanged without parsing.
func Render(input string, data Data) (string, error) {
	if !strings.Contains(input, "{{") {
		return input, nil
	}

	tmpl, err := template.
		New("step").
		Option("missingkey=error").
		Funcs(template.FuncMap{
			"now": func() string {
				return time.Now().UTC().Format(time.RFC3339)
			},
		}).Parse(input)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %q: %w", input, err)
	}

	scope := map[string]any{
		"matrix": data.Matrix,
		"steps":  stepScope(data.Steps),
		"env":    data.Env,
		"event": map[string]any{
			"ref":        data.Event.Ref,
			"short_ref":  data.Event.ShortRef(),
			"kind":       string(data.Event.Kind),
			"commit":     data.Event.Commit,
			"repository": data.Event.Repository,
			"actor":      data.Event.Actor,
		},
	}

	var buf strings.Builder

	err = tmpl.Execute(&buf, scope)
	if err != nil {
		return "", fmt.Errorf("failed to resolve template %q: %w", input, err)
	}

	return buf.String(), nil
}

// RenderAll resolves every value of params, returning a new map.
func RenderAll(params map[string]string, data Data) (map[string]string, error) {
	resolved := make(map[string]string, len(params))

	for key, value := range params {
		rendered, err := Render(value, data)
		if err != nil {
			return nil, err
		}

		resolved[key] = rendered
	}

	return resolved, nil
}

func stepScope(steps map[string]map[string]string) map[string]any {
	scope := make(map[string]any, len(steps))
	for id, outputs := range steps {
		scope[id] = map[string]any{"outputs": outputs}
	}

	return scope
}
