package pipeline

// documentSchema is the JSON Schema every pipeline document is validated
// against before struct-level validation runs.
const documentSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["name", "on", "jobs"],
	"properties": {
		"name": {"type": "string", "minLength": 3},
		"description": {"type": "string"},
		"on": {
			"type": "object",
			"properties": {
				"kinds": {
					"type": "array",
					"items": {"type": "string", "enum": ["push", "tag", "manual", "pull_request"]}
				},
				"branches": {
					"type": "array",
					"items": {"type": "string"}
				}
			}
		},
		"jobs": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"required": ["id", "runs_on", "steps"],
				"properties": {
					"id": {"type": "string", "pattern": "^[a-z][a-z0-9_-]*$"},
					"name": {"type": "string"},
					"runs_on": {"type": "string"},
					"permissions": {"type": "array", "items": {"type": "string"}},
					"env": {"type": "object", "additionalProperties": {"type": "string"}},
					"matrix": {
						"type": "object",
						"required": ["dimensions"],
						"properties": {
							"dimensions": {
								"type": "object",
								"minProperties": 1,
								"additionalProperties": {
									"type": "array",
									"items": {"type": "string"}
								}
							},
							"max_parallel": {"type": "integer"}
						}
					},
					"steps": {
						"type": "array",
						"minItems": 1,
						"items": {
							"type": "object",
							"required": ["id"],
							"properties": {
								"id": {"type": "string", "pattern": "^[a-z][a-z0-9_-]*$"},
								"name": {"type": "string"},
								"uses": {"type": "string"},
								"version": {"type": "string"},
								"with": {"type": "object", "additionalProperties": {"type": "string"}},
								"run": {"type": "string"},
								"env": {"type": "object", "additionalProperties": {"type": "string"}}
							}
						}
					}
				}
			}
		}
	}
}`
