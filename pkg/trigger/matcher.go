// Package trigger decides whether repository events satisfy pipeline
// trigger predicates.
package trigger

import (
	"strings"

	"github.com/runwayci/runway/pkg/models"
)

// Matches reports whether the event satisfies the predicate. It is a pure
// function: no side effects, no logging.
//
// An empty kind set or an empty branch-pattern set matches nothing. A
// predicate never falls open on missing configuration; publishing on every
// push is exactly the accident this guards against.
func Matches(event models.RepoEvent, predicate models.TriggerPredicate) bool {
	if len(predicate.Kinds) == 0 || len(predicate.Branches) == 0 {
		return false
	}

	if !models.KnownEventKind(event.Kind) {
		return false
	}

	if !kindAccepted(event.Kind, predicate.Kinds) {
		return false
	}

	ref := event.ShortRef()
	for _, pattern := range predicate.Branches {
		if matchPattern(ref, pattern) {
			return true
		}
	}

	return false
}

func kindAccepted(kind models.EventKind, accepted []models.EventKind) bool {
	for _, k := range accepted {
		if k == kind {
			return true
		}
	}

	return false
}

// matchPattern performs glob-style matching with "*" wildcards, e.g.
// "release/*" or "*-hotfix". A bare "*" matches any ref.
func matchPattern(value, pattern string) bool {
	if pattern == "*" {
		return true
	}

	if !strings.Contains(pattern, "*") {
		return value == pattern
	}

	parts := strings.Split(pattern, "*")

	// Leading segment must anchor at the start, trailing at the end, and
	// middle segments must appear in order.
	if !strings.HasPrefix(value, parts[0]) {
		return false
	}

	value = value[len(parts[0]):]

	for i := 1; i < len(parts)-1; i++ {
		idx := strings.Index(value, parts[i])
		if idx < 0 {
			return false
		}

		value = value[idx+len(parts[i]):]
	}

	return strings.HasSuffix(value, parts[len(parts)-1])
}
