// Package testutil provides small helpers for building and comparing
// directory trees in tests.
package testutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// CreateFile writes content to path, creating parent directories as needed.
func CreateFile(t *testing.T, path, content string) {
	t.Helper()

	err := os.MkdirAll(filepath.Dir(path), 0o755)
	require.NoError(t, err)

	err = os.WriteFile(path, []byte(content), 0o644)
	require.NoError(t, err)
}

// CreateDir creates a directory and any missing parents.
func CreateDir(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(path, 0o755))
}

// CreateCanonicalTree builds the directory tree most tests run against:
//
//	constitution.txt                              large file
//	empty_file.txt                                zero bytes
//	empty_dir/                                    empty directory
//	misc/empty_file.txt                           zero bytes
//	pride-and-prejudice/pride-and-prejudice-ch1.txt
//	pride-and-prejudice/pride-and-prejudice-ch2.txt
func CreateCanonicalTree(t *testing.T, root string) {
	t.Helper()

	CreateFile(t, filepath.Join(root, "constitution.txt"), strings.Repeat("We the People\n", 2000))
	CreateFile(t, filepath.Join(root, "empty_file.txt"), "")
	CreateFile(t, filepath.Join(root, "misc", "empty_file.txt"), "")
	CreateFile(t, filepath.Join(root, "pride-and-prejudice", "pride-and-prejudice-ch1.txt"),
		"It is a truth universally acknowledged...\n")
	CreateFile(t, filepath.Join(root, "pride-and-prejudice", "pride-and-prejudice-ch2.txt"),
		"Mr. Bennet was among the earliest of those who waited on Mr. Bingley.\n")
	CreateDir(t, filepath.Join(root, "empty_dir"))
}

// Snapshot captures every path under root, with file contents, as a map
// from slash-separated relative path to content ("/" marks a directory).
// Comparing two snapshots asserts tree equality down to the bytes.
func Snapshot(t *testing.T, root string) map[string]string {
	t.Helper()

	snapshot := make(map[string]string)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			snapshot[rel] = "/"
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		snapshot[rel] = string(content)
		return nil
	})
	require.NoError(t, err)

	return snapshot
}

// RelPaths rewrites absolute paths relative to root and sorts them, for
// stable comparison against expected path lists.
func RelPaths(t *testing.T, root string, paths []string) []string {
	t.Helper()

	rel := make([]string, len(paths))
	for i, p := range paths {
		r, err := filepath.Rel(root, p)
		require.NoError(t, err)
		rel[i] = filepath.ToSlash(r)
	}
	sort.Strings(rel)
	return rel
}
