package template

import (
	"testing"

	"github.com/runwayci/runway/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testData() Data {
	return Data{
		Matrix: map[string]string{"os": "linux", "arch": "arm64"},
		Steps: map[string]map[string]string{
			"build": {"artifact": "dist/app.tar.gz"},
		},
		Event: models.RepoEvent{
			Kind:   models.EventKindPush,
			Ref:    "refs/heads/release/1.2",
			Commit: "abc123",
			Actor:  "octocat",
		},
		Env: map[string]string{"CI": "true"},
	}
}

func TestRender_PlainStringUntouched(t *testing.T) {
	out, err := Render("make build", testData())

	require.NoError(t, err)
	assert.Equal(t, "make build", out)
}

func TestRender_MatrixBindings(t *testing.T) {
	out, err := Render("GOOS={{.matrix.os}} GOARCH={{.matrix.arch}} make", testData())

	require.NoError(t, err)
	assert.Equal(t, "GOOS=linux GOARCH=arm64 make", out)
}

func TestRender_StepOutputs(t *testing.T) {
	out, err := Render("upload {{.steps.build.outputs.artifact}}", testData())

	require.NoError(t, err)
	assert.Equal(t, "upload dist/app.tar.gz", out)
}

func TestRender_EventScope(t *testing.T) {
	out, err := Render("deploy {{.event.short_ref}} at {{.event.commit}}", testData())

	require.NoError(t, err)
	assert.Equal(t, "deploy release/1.2 at abc123", out)
}

func TestRender_EnvScope(t *testing.T) {
	out, err := Render("CI={{.env.CI}}", testData())

	require.NoError(t, err)
	assert.Equal(t, "CI=true", out)
}

func TestRender_MissingKeyFails(t *testing.T) {
	_, err := Render("{{.matrix.missing}}", testData())

	assert.Error(t, err)
}

func TestRender_MalformedTemplate(t *testing.T) {
	_, err := Render("{{.matrix.os", testData())

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse template")
}

func TestRenderAll(t *testing.T) {
	params := map[string]string{
		"message": "building on {{.matrix.os}}",
		"level":   "info",
	}

	resolved, err := RenderAll(params, testData())

	require.NoError(t, err)
	assert.Equal(t, "building on linux", resolved["message"])
	assert.Equal(t, "info", resolved["level"])
}

func TestRenderAll_PropagatesErrors(t *testing.T) {
	params := map[string]string{"bad": "{{.steps.nope.outputs.x}}"}

	_, err := RenderAll(params, testData())

	assert.Error(t, err)
}
