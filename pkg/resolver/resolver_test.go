package resolver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devicelab-dev/uitest-runner/pkg/core"
)

const screenFixture = `{
  "type": "screen",
  "name": "login-screen",
  "source": "screens/login",
  "cases": [
    {"name": "a", "steps": [{"action": "tap", "id": "one"}]},
    {"name": "b", "steps": [{"action": "tap", "id": "two"}]},
    {"name": "c", "steps": [{"action": "tap", "id": "three"}]}
  ]
}`

const flowFixture = `{
  "type": "flow",
  "name": "some-flow",
  "steps": [{"action": "back"}]
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestResolveFile_SuffixFallback(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "login.json", screenFixture)

	path, err := NewContext(dir).ResolveFile("login")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "login.json"), path)
}

func TestResolveFile_PrefersTestSuffix(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "login.json", screenFixture)
	writeFile(t, dir, "login.test.json", screenFixture)

	path, err := NewContext(dir).ResolveFile("login")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "login.test.json"), path)
}

func TestResolveFile_LiteralReference(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "fixtures.dat", "raw")

	path, err := NewContext(dir).ResolveFile("fixtures.dat")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "fixtures.dat"), path)
}

func TestResolveFile_NotFound(t *testing.T) {
	_, err := NewContext(t.TempDir()).ResolveFile("missing")
	assert.ErrorIs(t, err, core.ErrReferenceNotFound)
}

func TestResolveFile_BasePathUnset(t *testing.T) {
	var ctx Context
	_, err := ctx.ResolveFile("login")
	assert.ErrorIs(t, err, core.ErrBasePathUnset)
}

func TestResolveCases_AllInDeclaredOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "login.test.json", screenFixture)

	cases, err := NewContext(dir).ResolveCases("login", "", nil)
	require.NoError(t, err)
	require.Len(t, cases, 3)
	assert.Equal(t, "a", cases[0].Name)
	assert.Equal(t, "b", cases[1].Name)
	assert.Equal(t, "c", cases[2].Name)
}

func TestResolveCases_SingleCase(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "login.test.json", screenFixture)

	cases, err := NewContext(dir).ResolveCases("login", "b", nil)
	require.NoError(t, err)
	require.Len(t, cases, 1)
	assert.Equal(t, "b", cases[0].Name)
}

func TestResolveCases_SubsetInGivenOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "login.test.json", screenFixture)

	cases, err := NewContext(dir).ResolveCases("login", "", []string{"c", "a"})
	require.NoError(t, err)
	require.Len(t, cases, 2)
	assert.Equal(t, "c", cases[0].Name)
	assert.Equal(t, "a", cases[1].Name)
}

func TestResolveCases_MissingCaseNamesTheCase(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "login.test.json", screenFixture)
	ctx := NewContext(dir)

	_, err := ctx.ResolveCases("login", "nope", nil)
	require.ErrorIs(t, err, core.ErrCaseNotFound)
	assert.Contains(t, err.Error(), `"nope"`)

	_, err = ctx.ResolveCases("login", "", []string{"a", "ghost"})
	require.ErrorIs(t, err, core.ErrCaseNotFound)
	assert.Contains(t, err.Error(), `"ghost"`)
}

func TestResolveCases_WrongDocumentKind(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "journey.test.json", flowFixture)

	_, err := NewContext(dir).ResolveCases("journey", "", nil)
	assert.ErrorIs(t, err, core.ErrWrongDocumentKind)
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0o755))
	writeFile(t, dir, "a.test.json", screenFixture)
	writeFile(t, dir, "ignore.json", screenFixture)
	writeFile(t, filepath.Join(dir, "nested"), "b.test.json", flowFixture)

	files, err := Discover(dir)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, filepath.Join(dir, "a.test.json"), files[0])
	assert.Equal(t, filepath.Join(dir, "nested", "b.test.json"), files[1])
}
