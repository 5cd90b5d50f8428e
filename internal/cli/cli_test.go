package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WarpspeedSCP/wscpublish/internal/cli"
)

func testInfo() cli.BuildInfo {
	return cli.BuildInfo{Version: "test", Commit: "abc", Date: "today"}
}

// execute runs the root command with the given args, capturing stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	root := cli.NewRootCommand(testInfo())
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), err
}

func TestBuildCommand_CompilesFile(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "post.md")
	require.NoError(t, os.WriteFile(source, []byte("# Hi\n"), 0o644))

	_, err := execute(t, "build", source)
	require.NoError(t, err)

	got, err := os.ReadFile(filepath.Join(dir, "post.html"))
	require.NoError(t, err)
	assert.Equal(t, "<h1>Hi</h1>", string(got))
}

func TestBuildCommand_OutDir(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "public")
	source := filepath.Join(dir, "post.md")
	require.NoError(t, os.WriteFile(source, []byte("*x*"), 0o644))

	_, err := execute(t, "build", source, "--out-dir", outDir)
	require.NoError(t, err)

	got, err := os.ReadFile(filepath.Join(outDir, "post.html"))
	require.NoError(t, err)
	assert.Equal(t, "<em>x</em>", string(got))
}

func TestBuildCommand_WalksDirectories(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.md"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested", "b.md"), []byte("b"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0o644))

	_, err := execute(t, "build", dir)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dir, "a.html"))
	assert.FileExists(t, filepath.Join(dir, "nested", "b.html"))
	assert.NoFileExists(t, filepath.Join(dir, "notes.html"))
}

func TestBuildCommand_ParseFailure(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "bad.md")
	require.NoError(t, os.WriteFile(source, []byte("<div>never closed"), 0o644))

	_, err := execute(t, "build", source)
	require.ErrorIs(t, err, cli.ErrCompileFailed)
	assert.NoFileExists(t, filepath.Join(dir, "bad.html"))
}

func TestBuildCommand_CheckWritesNothing(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "post.md")
	require.NoError(t, os.WriteFile(source, []byte("# Hi\n"), 0o644))

	_, err := execute(t, "build", source, "--check")
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(dir, "post.html"))
}

func TestBuildCommand_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "dist")
	configPath := filepath.Join(dir, "wscpublish.yaml")
	require.NoError(t, os.WriteFile(configPath,
		[]byte("out_dir: "+outDir+"\ncolor: never\n"), 0o644))

	source := filepath.Join(dir, "post.md")
	require.NoError(t, os.WriteFile(source, []byte("text"), 0o644))

	_, err := execute(t, "build", source, "--config", configPath)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(outDir, "post.html"))
}

func TestTokensCommand(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "post.md")
	require.NoError(t, os.WriteFile(source, []byte("# Hi\n- a\n"), 0o644))

	out, err := execute(t, "tokens", source)
	require.NoError(t, err)

	assert.Contains(t, out, "Heading")
	assert.Contains(t, out, "UListItem")
	assert.Contains(t, out, "EOF")
}

func TestTokensCommand_Tree(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "post.md")
	require.NoError(t, os.WriteFile(source, []byte("**x**"), 0o644))

	out, err := execute(t, "tokens", source, "--tree")
	require.NoError(t, err)
	assert.Contains(t, out, `(Bold (Text "x"))`)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)

	assert.Contains(t, out, "wscpublish test")
	assert.Contains(t, out, "abc")
	assert.Contains(t, out, "today")
}
