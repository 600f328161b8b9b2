package filters

import (
	"fmt"
	"os"
	"path/filepath"
)

// Target is a stat snapshot of one filesystem path, taken once per node
// during traversal so every filter in a set tests the same view.
type Target struct {
	Path   string // absolute path
	Rel    string // path relative to the traversal root
	Name   string // final path component
	IsDir  bool
	IsFile bool
	Size   int64

	emptyKnown bool
	empty      bool
}

// Stat builds a Target for path within root. Symlinks are followed; a link
// whose destination is gone is reported as a special file (neither regular
// file nor directory) rather than an error.
func Stat(root, path string) (*Target, error) {
	info, err := os.Stat(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}

		// Broken symlink: stat fails but the link itself exists.
		if _, lerr := os.Lstat(path); lerr != nil {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
		info = nil
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		return nil, fmt.Errorf("relativize %s: %w", path, err)
	}

	t := &Target{
		Path: path,
		Rel:  rel,
		Name: filepath.Base(path),
	}
	if info != nil {
		t.IsDir = info.IsDir()
		t.IsFile = info.Mode().IsRegular()
		t.Size = info.Size()
	}
	return t, nil
}

// IsSpecial reports whether the target is neither a regular file nor a
// directory: sockets, devices, broken symlinks.
func (t *Target) IsSpecial() bool {
	return !t.IsDir && !t.IsFile
}

// Empty reports whether the target is an empty file or an empty directory.
// The directory listing is read at most once per target.
func (t *Target) Empty() (bool, error) {
	if t.emptyKnown {
		return t.empty, nil
	}

	if t.IsDir {
		entries, err := os.ReadDir(t.Path)
		if err != nil {
			return false, fmt.Errorf("read directory %s: %w", t.Path, err)
		}
		t.empty = len(entries) == 0
	} else {
		t.empty = t.Size == 0
	}

	t.emptyKnown = true
	return t.empty, nil
}
