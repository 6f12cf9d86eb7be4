package artifact_upload

import "github.com/runwayci/runway/pkg/protocol"

type ActionFactory struct{}

func NewActionFactory() *ActionFactory {
	return &ActionFactory{}
}

func (*ActionFactory) ID() string {
	return "artifact_upload"
}

func (*ActionFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"source": map[string]any{
				"type":        "string",
				"description": "Path of the file to stage. Supports templating.",
			},
			"name": map[string]any{
				"type":        "string",
				"description": "Artifact name; defaults to the source basename",
			},
			"artifacts_dir": map[string]any{
				"type":        "string",
				"description": "Root directory for staged artifacts",
				"default":     "./artifacts",
			},
		},
		"required": []string{"source"},
	}
}

func (f *ActionFactory) Create(params map[string]string) (protocol.Action, error) {
	if params == nil {
		params = map[string]string{}
	}

	return NewAction(params)
}
