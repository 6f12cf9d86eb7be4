package http_request

import "github.com/runwayci/runway/pkg/protocol"

type ActionFactory struct{}

func NewActionFactory() *ActionFactory {
	return &ActionFactory{}
}

func (*ActionFactory) ID() string {
	return "http_request"
}

func (*ActionFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"url": map[string]any{
				"type":        "string",
				"description": "Target URL. Supports templating.",
			},
			"method": map[string]any{
				"type":        "string",
				"description": "HTTP method",
				"default":     "GET",
				"enum":        []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "get", "post", "put", "patch", "delete", "head"},
			},
			"body": map[string]any{
				"type":        "string",
				"description": "Request body. Supports templating.",
			},
			"auth_secret": map[string]any{
				"type":        "string",
				"description": "Name of a secret to send as a bearer token",
			},
		},
		"required": []string{"url"},
	}
}

func (f *ActionFactory) Create(params map[string]string) (protocol.Action, error) {
	if params == nil {
		params = map[string]string{}
	}

	return NewAction(params)
}
