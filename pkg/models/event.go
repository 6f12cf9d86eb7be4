package models

import "time"

// EventKind classifies the repository event that may trigger a pipeline.
type EventKind string

const (
	EventKindPush        EventKind = "push"
	EventKindTag         EventKind = "tag"
	EventKindManual      EventKind = "manual"
	EventKindPullRequest EventKind = "pull_request"
)

// KnownEventKind reports whether kind is one of the supported event kinds.
func KnownEventKind(kind EventKind) bool {
	switch kind {
	case EventKindPush, EventKindTag, EventKindManual, EventKindPullRequest:
		return true
	default:
		return false
	}
}

// RepoEvent is an incoming repository event delivered to the engine.
type RepoEvent struct {
	ID         string         `json:"id"`
	Kind       EventKind      `json:"kind"       validate:"required"`
	Ref        string         `json:"ref"        validate:"required"`
	Commit     string         `json:"commit,omitempty"`
	Repository string         `json:"repository,omitempty"`
	Actor      string         `json:"actor,omitempty"`
	Payload    map[string]any `json:"payload,omitempty"`
	ReceivedAt time.Time      `json:"received_at"`
}

// ShortRef strips the well-known ref prefixes so branch patterns match
// both "refs/heads/main" and plain "main".
func (e RepoEvent) ShortRef() string {
	ref := e.Ref

	for _, prefix := range []string{"refs/heads/", "refs/tags/"} {
		if len(ref) > len(prefix) && ref[:len(prefix)] == prefix {
			return ref[len(prefix):]
		}
	}

	return ref
}
