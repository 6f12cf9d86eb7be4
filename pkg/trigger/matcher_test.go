package trigger

import (
	"testing"

	"github.com/runwayci/runway/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestMatches_KindAndBranch(t *testing.T) {
	predicate := models.TriggerPredicate{
		Kinds:    []models.EventKind{models.EventKindPush, models.EventKindTag},
		Branches: []string{"main", "release/*"},
	}

	event := models.RepoEvent{Kind: models.EventKindPush, Ref: "refs/heads/main"}
	assert.True(t, Matches(event, predicate))

	event = models.RepoEvent{Kind: models.EventKindPush, Ref: "refs/heads/release/1.2"}
	assert.True(t, Matches(event, predicate))

	event = models.RepoEvent{Kind: models.EventKindPush, Ref: "refs/heads/feature/x"}
	assert.False(t, Matches(event, predicate))

	event = models.RepoEvent{Kind: models.EventKindManual, Ref: "refs/heads/main"}
	assert.False(t, Matches(event, predicate))
}

func TestMatches_ShortRefEquivalence(t *testing.T) {
	predicate := models.TriggerPredicate{
		Kinds:    []models.EventKind{models.EventKindPush},
		Branches: []string{"main"},
	}

	full := models.RepoEvent{Kind: models.EventKindPush, Ref: "refs/heads/main"}
	short := models.RepoEvent{Kind: models.EventKindPush, Ref: "main"}

	assert.True(t, Matches(full, predicate))
	assert.True(t, Matches(short, predicate))
}

func TestMatches_EmptyPredicateMatchesNothing(t *testing.T) {
	event := models.RepoEvent{Kind: models.EventKindPush, Ref: "refs/heads/main"}

	assert.False(t, Matches(event, models.TriggerPredicate{}))
	assert.False(t, Matches(event, models.TriggerPredicate{
		Kinds: []models.EventKind{models.EventKindPush},
	}))
	assert.False(t, Matches(event, models.TriggerPredicate{
		Branches: []string{"*"},
	}))
}

func TestMatches_UnknownKindNeverMatches(t *testing.T) {
	predicate := models.TriggerPredicate{
		Kinds:    []models.EventKind{"deployment"},
		Branches: []string{"*"},
	}

	event := models.RepoEvent{Kind: "deployment", Ref: "refs/heads/main"}

	// Even a predicate that names the unknown kind fails closed.
	assert.False(t, Matches(event, predicate))
}

func TestMatchPattern(t *testing.T) {
	tests := []struct {
		value   string
		pattern string
		want    bool
	}{
		{"main", "main", true},
		{"main", "*", true},
		{"release/1.0", "release/*", true},
		{"release/", "release/*", true},
		{"prerelease/1.0", "release/*", false},
		{"v1-hotfix", "*-hotfix", true},
		{"hotfix-v1", "*-hotfix", false},
		{"release/1.0/final", "release/*/final", true},
		{"release/final", "release/*/final", false},
		{"main", "release/*", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, matchPattern(tt.value, tt.pattern), "value=%q pattern=%q", tt.value, tt.pattern)
	}
}

func TestMatches_TagRefs(t *testing.T) {
	predicate := models.TriggerPredicate{
		Kinds:    []models.EventKind{models.EventKindTag},
		Branches: []string{"v*"},
	}

	event := models.RepoEvent{Kind: models.EventKindTag, Ref: "refs/tags/v1.4.0"}
	assert.True(t, Matches(event, predicate))

	event = models.RepoEvent{Kind: models.EventKindTag, Ref: "refs/tags/nightly"}
	assert.False(t, Matches(event, predicate))
}
