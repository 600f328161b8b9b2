package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "file.txt")
	CreateFile(t, path, "hello")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(content))
}

func TestCreateCanonicalTree(t *testing.T) {
	root := t.TempDir()
	CreateCanonicalTree(t, root)

	info, err := os.Stat(filepath.Join(root, "constitution.txt"))
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(20_000))

	info, err = os.Stat(filepath.Join(root, "empty_file.txt"))
	require.NoError(t, err)
	assert.Zero(t, info.Size())

	info, err = os.Stat(filepath.Join(root, "empty_dir"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestSnapshot_DetectsChanges(t *testing.T) {
	root := t.TempDir()
	CreateCanonicalTree(t, root)

	before := Snapshot(t, root)
	assert.Equal(t, before, Snapshot(t, root))
	assert.Equal(t, "/", before["empty_dir"])
	assert.Equal(t, "", before["empty_file.txt"])

	require.NoError(t, os.Remove(filepath.Join(root, "empty_file.txt")))
	assert.NotEqual(t, before, Snapshot(t, root))
}

func TestRelPaths_SortsAndRelativizes(t *testing.T) {
	root := t.TempDir()

	got := RelPaths(t, root, []string{
		filepath.Join(root, "b", "two.txt"),
		filepath.Join(root, "a.txt"),
	})
	assert.Equal(t, []string{"a.txt", "b/two.txt"}, got)
}
