package fileset

import "path/filepath"

// Entry is one matched path. IsRoot marks the topmost included path of a
// subtree: bulk operations act on root entries only, since everything below
// one travels with it. Size is populated for non-directories only.
type Entry struct {
	Path   string
	IsDir  bool
	IsRoot bool
	Size   int64
}

// FileSet is the materialized result of resolving a FilterSet against a
// root directory.
type FileSet struct {
	root    string
	entries []Entry
}

// Root returns the absolute root the set was resolved against.
func (fs *FileSet) Root() string {
	return fs.root
}

// Entries returns all matched entries, swept-in descendants included.
func (fs *FileSet) Entries() []Entry {
	return fs.entries
}

// RootEntries returns only subtree roots, the paths a bulk operation
// should act on directly.
func (fs *FileSet) RootEntries() []Entry {
	var roots []Entry
	for _, e := range fs.entries {
		if e.IsRoot {
			roots = append(roots, e)
		}
	}
	return roots
}

// Paths returns every matched path.
func (fs *FileSet) Paths() []string {
	paths := make([]string, len(fs.entries))
	for i, e := range fs.entries {
		paths[i] = e.Path
	}
	return paths
}

// IsEmpty reports whether nothing matched.
func (fs *FileSet) IsEmpty() bool {
	return len(fs.entries) == 0
}

// FileCount returns the number of matched non-directories.
func (fs *FileSet) FileCount() int {
	n := 0
	for _, e := range fs.entries {
		if !e.IsDir {
			n++
		}
	}
	return n
}

// DirCount returns the number of matched directories.
func (fs *FileSet) DirCount() int {
	n := 0
	for _, e := range fs.entries {
		if e.IsDir {
			n++
		}
	}
	return n
}

// TotalBytes returns the combined size of all matched files.
func (fs *FileSet) TotalBytes() int64 {
	var total int64
	for _, e := range fs.entries {
		total += e.Size
	}
	return total
}

// Relative rewrites an absolute matched path relative to the root. Paths
// outside the root are returned unchanged.
func (fs *FileSet) Relative(path string) string {
	rel, err := filepath.Rel(fs.root, path)
	if err != nil {
		return path
	}
	return rel
}
