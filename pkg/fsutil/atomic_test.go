package fsutil_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WarpspeedSCP/wscpublish/pkg/fsutil"
)

func TestWriteAtomic(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.html")
	content := []byte("<p>hi</p>")

	require.NoError(t, fsutil.WriteAtomic(path, content, 0))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, got)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, fsutil.DefaultFileMode, info.Mode().Perm())
}

func TestWriteAtomic_Overwrites(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.html")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

	require.NoError(t, fsutil.WriteAtomic(path, []byte("new"), 0))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(got))
}

func TestWriteAtomic_NoTempFileLeftBehind(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "out.html")
	require.NoError(t, fsutil.WriteAtomic(path, []byte("x"), 0))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "out.html", entries[0].Name())
}

func TestWriteAtomicIfChanged(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.html")

	wrote, err := fsutil.WriteAtomicIfChanged(path, []byte("a"), 0)
	require.NoError(t, err)
	assert.True(t, wrote, "first write must happen")

	wrote, err = fsutil.WriteAtomicIfChanged(path, []byte("a"), 0)
	require.NoError(t, err)
	assert.False(t, wrote, "identical content must be skipped")

	wrote, err = fsutil.WriteAtomicIfChanged(path, []byte("b"), 0)
	require.NoError(t, err)
	assert.True(t, wrote, "changed content must be written")

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "b", string(got))
}
