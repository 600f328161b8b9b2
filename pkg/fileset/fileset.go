// Package fileset implements the query side of the engine: a FilterSet is
// an unresolved conjunction of filters, and resolving it against a root
// directory produces a FileSet of matched paths.
//
// Resolution walks the tree with an explicit stack rather than recursion,
// so pathological depth cannot exhaust the call stack. Every filter votes
// on both inclusion and descent; a single vote against descent prunes the
// whole subtree.
package fileset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/iafisher/batchop/pkg/filters"
)

// ErrPathOutsideRoot is returned when a path-anchored filter points outside
// the traversal root.
var ErrPathOutsideRoot = errors.New("path is outside of the root directory")

// FilterSet is an ordered list of filters, conceptually a conjunction. The
// chainable builder methods return copies; the stack methods (Push, Pop,
// Clear, Extend) mutate in place to support interactive narrowing.
type FilterSet struct {
	filters      []filters.Filter
	specialFiles bool
}

// New returns an empty filter set.
func New() *FilterSet {
	return &FilterSet{}
}

// NewWithFilters returns a filter set over the given filters.
func NewWithFilters(fs []filters.Filter) *FilterSet {
	return &FilterSet{filters: fs}
}

// WithSpecialFiles disables the implicit filter that rejects sockets,
// devices, and broken symlinks.
func (s *FilterSet) WithSpecialFiles() *FilterSet {
	next := s.copyWith(nil)
	next.specialFiles = true
	return next
}

// Filters returns the applied filters in order.
func (s *FilterSet) Filters() []filters.Filter {
	return s.filters
}

func (s *FilterSet) copyWith(f filters.Filter) *FilterSet {
	next := &FilterSet{
		filters:      append([]filters.Filter(nil), s.filters...),
		specialFiles: s.specialFiles,
	}
	if f != nil {
		next.filters = append(next.filters, f)
	}
	return next
}

// IsFile narrows the set to regular files.
func (s *FilterSet) IsFile() *FilterSet { return s.copyWith(filters.IsFile{}) }

// IsDir narrows the set to directories.
func (s *FilterSet) IsDir() *FilterSet { return s.copyWith(filters.IsDirectory{}) }

// IsEmpty narrows the set to empty files and directories.
func (s *FilterSet) IsEmpty() *FilterSet { return s.copyWith(filters.IsEmpty{}) }

// IsNamed narrows the set to names matching a glob pattern.
func (s *FilterSet) IsNamed(pattern string) *FilterSet {
	return s.copyWith(filters.IsNamed{Pattern: pattern})
}

// IsLike narrows the set with a glob over the name, or over the relative
// path when the pattern contains a separator.
func (s *FilterSet) IsLike(pattern string) *FilterSet {
	return s.copyWith(filters.IsLike{Pattern: pattern})
}

// IsIn narrows the set to descendants of path, resolved at Resolve time
// against the root when relative.
func (s *FilterSet) IsIn(path string) *FilterSet {
	return s.copyWith(filters.IsInPath{Path: path})
}

// IsNotHidden excludes dot-files and prunes hidden directories.
func (s *FilterSet) IsNotHidden() *FilterSet { return s.copyWith(filters.IsNotHidden{}) }

// Matches narrows the set to names matching a regular expression.
func (s *FilterSet) Matches(re *regexp.Regexp) *FilterSet {
	return s.copyWith(filters.Matches{Re: re})
}

// Push appends a filter in place.
func (s *FilterSet) Push(f filters.Filter) {
	s.filters = append(s.filters, f)
}

// Extend appends several filters in place.
func (s *FilterSet) Extend(fs []filters.Filter) {
	s.filters = append(s.filters, fs...)
}

// Pop removes the most recently applied filter, if any.
func (s *FilterSet) Pop() {
	if len(s.filters) > 0 {
		s.filters = s.filters[:len(s.filters)-1]
	}
}

// Clear removes all filters.
func (s *FilterSet) Clear() {
	s.filters = nil
}

// test applies every filter to one target and ANDs the verdicts. A single
// vote against recursion wins over all others.
func (s *FilterSet) test(effective []filters.Filter, t *filters.Target) (filters.Result, error) {
	verdict := filters.Result{Include: true, Recurse: true}
	for _, f := range effective {
		r, err := f.Test(t)
		if err != nil {
			return filters.Result{}, err
		}
		verdict.Include = verdict.Include && r.Include
		verdict.Recurse = verdict.Recurse && r.Recurse
	}
	return verdict, nil
}

// Resolve evaluates the filter set against root.
//
// Entries are tagged with IsRoot: the topmost included path of a subtree.
// When recursive is true, everything below an included directory is swept
// into the set without re-testing filters, tagged IsRoot=false; bulk
// operations act on root entries only while size previews count everything.
// Iteration order is depth-first but otherwise unspecified; callers wanting
// deterministic output must sort.
func (s *FilterSet) Resolve(root string, recursive bool) (*FileSet, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}

	effective := s.filters
	if !s.specialFiles {
		effective = append([]filters.Filter{filters.IsSpecial{}.Negate()}, effective...)
	}

	if err := validateAnchors(absRoot, effective); err != nil {
		return nil, err
	}

	result := &FileSet{root: absRoot}

	stack, err := pushChildren(nil, absRoot, true, false)
	if err != nil {
		return nil, err
	}

	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		target, err := filters.Stat(absRoot, item.path)
		if err != nil {
			return nil, err
		}

		verdict := filters.Result{Include: true, Recurse: true}
		if !item.skipFilters {
			verdict, err = s.test(effective, target)
			if err != nil {
				return nil, err
			}
		}

		if verdict.Include {
			entry := Entry{
				Path:   target.Path,
				IsDir:  target.IsDir,
				IsRoot: item.isRoot,
			}
			if !target.IsDir {
				entry.Size = target.Size
			}
			result.entries = append(result.entries, entry)
		}

		if verdict.Recurse && target.IsDir {
			childIsRoot := !verdict.Include
			childSkip := !childIsRoot && recursive
			stack, err = pushChildren(stack, target.Path, childIsRoot, childSkip)
			if err != nil {
				return nil, err
			}
		}
	}

	return result, nil
}

// workItem is one pending node of the depth-first walk. skipFilters marks
// descendants of an already-included subtree root during a recursive
// resolve: they are swept in without consulting the filters again.
type workItem struct {
	path        string
	isRoot      bool
	skipFilters bool
}

func pushChildren(stack []workItem, dir string, isRoot, skipFilters bool) ([]workItem, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}

	for _, e := range entries {
		stack = append(stack, workItem{
			path:        filepath.Join(dir, e.Name()),
			isRoot:      isRoot,
			skipFilters: skipFilters,
		})
	}
	return stack, nil
}

func validateAnchors(root string, fs []filters.Filter) error {
	for _, f := range fs {
		anchored, ok := f.(filters.PathAnchored)
		if !ok {
			continue
		}
		if !isWithin(root, anchored.AnchorPath()) {
			return fmt.Errorf("%w: %s", ErrPathOutsideRoot, anchored.AnchorPath())
		}
	}
	return nil
}

func isWithin(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !filepath.IsAbs(rel) &&
		!hasDotDotPrefix(rel))
}

func hasDotDotPrefix(rel string) bool {
	return rel == ".." || len(rel) >= 3 && rel[:3] == ".."+string(filepath.Separator)
}
