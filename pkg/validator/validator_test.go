package validator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const validScreen = `{
  "type": "screen",
  "name": "login",
  "source": "screens/login",
  "cases": [
    {"name": "happy", "steps": [
      {"action": "tap", "id": "submit"},
      {"assert": "visible", "id": "home"}
    ]}
  ]
}`

const validFlow = `{
  "type": "flow",
  "name": "signup",
  "steps": [
    {"action": "tap", "id": "start"},
    {"block": "fill", "steps": [{"action": "input", "id": "user", "value": "a"}]},
    {"file": "login", "case": "happy"}
  ]
}`

func TestValidateDirectoryAllValid(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "login.test.json", validScreen)
	writeFile(t, dir, "signup.test.json", validFlow)

	result := New().Validate(dir)
	assert.True(t, result.IsValid())
	assert.Len(t, result.Files, 2)
}

func TestValidateSingleFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "login.test.json", validScreen)

	result := New().Validate(path)
	assert.True(t, result.IsValid())
	assert.Equal(t, []string{path}, result.Files)
}

func TestValidateMissingPath(t *testing.T) {
	result := New().Validate(filepath.Join(t.TempDir(), "nope"))
	require.False(t, result.IsValid())
	assert.Contains(t, result.Errors[0].Error(), "cannot access")
}

func TestValidateParseErrorIsCollected(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.test.json", `{"type": "screen"`)
	writeFile(t, dir, "login.test.json", validScreen)

	result := New().Validate(dir)
	require.Len(t, result.Errors, 1)
	assert.Len(t, result.Files, 2)
}

func TestValidateUnknownStepKinds(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "screen.test.json", `{
	  "type": "screen",
	  "name": "s",
	  "source": "src",
	  "setup": [{"action": "teleport", "id": "x"}],
	  "cases": [
	    {"name": "a", "steps": [{"assert": "sparkles", "id": "x"}]}
	  ]
	}`)

	result := New().Validate(dir)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0].Error(), `unknown action "teleport"`)
	assert.Contains(t, result.Errors[1].Error(), `unknown assertion "sparkles"`)
	assert.Contains(t, result.Errors[1].Error(), `case "a"`)
}

func TestValidateFlowUnknownInlineAndBlockKinds(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "flow.test.json", `{
	  "type": "flow",
	  "name": "f",
	  "steps": [
	    {"action": "levitate", "id": "x"},
	    {"block": "b", "steps": [{"assert": "glitter", "id": "x"}]}
	  ]
	}`)

	result := New().Validate(dir)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0].Error(), `unknown action "levitate"`)
	assert.Contains(t, result.Errors[1].Error(), `block "b"`)
}

func TestValidateFlowReferenceResolution(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "login.test.json", validScreen)
	writeFile(t, dir, "signup.test.json", validFlow)

	// A second flow referencing a missing file and a missing case.
	writeFile(t, dir, "broken.test.json", `{
	  "type": "flow",
	  "name": "broken",
	  "steps": [
	    {"file": "does-not-exist"},
	    {"file": "login", "case": "no-such-case"}
	  ]
	}`)

	result := New().Validate(dir)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0].Error(), "does-not-exist")
	assert.Contains(t, result.Errors[1].Error(), "no-such-case")
}

func TestValidateFlowReferenceToFlowIsRejected(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "signup.test.json", validFlow)
	writeFile(t, dir, "login.test.json", validScreen)
	writeFile(t, dir, "meta.test.json", `{
	  "type": "flow",
	  "name": "meta",
	  "steps": [{"file": "signup"}]
	}`)

	result := New().Validate(dir)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Error(), "meta.test.json")
}
