// Package filters defines the predicate vocabulary of the query language.
// Each filter tests one filesystem path and votes both on including the
// path itself and on descending into it, which lets a single filter prune
// an entire subtree from traversal.
package filters

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// Result is a filter's verdict on one path. Include controls whether the
// path belongs to the result set; Recurse controls whether traversal
// descends into it when it is a directory.
type Result struct {
	Include bool
	Recurse bool
}

func include(ok bool) Result {
	return Result{Include: ok, Recurse: true}
}

// Filter is one named predicate over a filesystem path. Filters are
// immutable values; composition wraps, never mutates.
type Filter interface {
	Test(t *Target) (Result, error)
	Negate() Filter
	String() string
}

// PathAnchored is implemented by filters that carry an absolute path
// argument, so the traversal engine can check the anchor lies inside the
// root before walking.
type PathAnchored interface {
	AnchorPath() string
}

// Negated inverts another filter's inclusion verdict. The recursion verdict
// passes through unchanged so a negated filter never widens traversal.
type Negated struct {
	Inner Filter
}

func (f Negated) Test(t *Target) (Result, error) {
	r, err := f.Inner.Test(t)
	if err != nil {
		return Result{}, err
	}
	return Result{Include: !r.Include, Recurse: r.Recurse}, nil
}

func (f Negated) Negate() Filter { return f.Inner }
func (f Negated) String() string { return fmt.Sprintf("not (%s)", f.Inner) }

// True includes everything.
type True struct{}

func (f True) Test(t *Target) (Result, error) { return include(true), nil }
func (f True) Negate() Filter                 { return Negated{f} }
func (f True) String() string                 { return "anything" }

// IsFile includes regular files.
type IsFile struct{}

func (f IsFile) Test(t *Target) (Result, error) { return include(t.IsFile), nil }
func (f IsFile) Negate() Filter                 { return Negated{f} }
func (f IsFile) String() string                 { return "is file" }

// IsDirectory includes directories.
type IsDirectory struct{}

func (f IsDirectory) Test(t *Target) (Result, error) { return include(t.IsDir), nil }
func (f IsDirectory) Negate() Filter                 { return Negated{f} }
func (f IsDirectory) String() string                 { return "is folder" }

// IsSpecial includes paths that are neither regular files nor directories.
type IsSpecial struct{}

func (f IsSpecial) Test(t *Target) (Result, error) { return include(t.IsSpecial()), nil }
func (f IsSpecial) Negate() Filter                 { return Negated{f} }
func (f IsSpecial) String() string                 { return "is special" }

// IsEmpty includes empty files and empty directories.
type IsEmpty struct{}

func (f IsEmpty) Test(t *Target) (Result, error) {
	empty, err := t.Empty()
	if err != nil {
		return Result{}, err
	}
	return include(empty), nil
}

func (f IsEmpty) Negate() Filter { return Negated{f} }
func (f IsEmpty) String() string { return "is empty" }

// IsHidden includes paths with any dot-prefixed segment below the root.
type IsHidden struct{}

func (f IsHidden) Test(t *Target) (Result, error) {
	for _, segment := range strings.Split(t.Rel, string(filepath.Separator)) {
		if strings.HasPrefix(segment, ".") {
			return include(true), nil
		}
	}
	return include(false), nil
}

func (f IsHidden) Negate() Filter { return IsNotHidden{} }
func (f IsHidden) String() string { return "is hidden" }

// IsNotHidden excludes dot-prefixed paths and prunes traversal at hidden
// directories, so nothing inside them is ever visited.
type IsNotHidden struct{}

func (f IsNotHidden) Test(t *Target) (Result, error) {
	if strings.HasPrefix(t.Name, ".") {
		return Result{Include: false, Recurse: false}, nil
	}
	return include(true), nil
}

func (f IsNotHidden) Negate() Filter { return IsHidden{} }
func (f IsNotHidden) String() string { return "is not hidden" }

// IsNamed includes paths whose name matches a glob pattern.
type IsNamed struct {
	Pattern string
}

func (f IsNamed) Test(t *Target) (Result, error) {
	ok, err := filepath.Match(f.Pattern, t.Name)
	if err != nil {
		return Result{}, fmt.Errorf("bad glob pattern %q: %w", f.Pattern, err)
	}
	return include(ok), nil
}

func (f IsNamed) Negate() Filter { return Negated{f} }
func (f IsNamed) String() string { return fmt.Sprintf("is named %q", f.Pattern) }

// IsLike includes paths matching a glob pattern: against the name when the
// pattern has no separator, against the root-relative path when it does.
type IsLike struct {
	Pattern string
}

func (f IsLike) Test(t *Target) (Result, error) {
	subject := t.Name
	if strings.ContainsRune(f.Pattern, filepath.Separator) {
		subject = t.Rel
	}

	ok, err := filepath.Match(f.Pattern, subject)
	if err != nil {
		return Result{}, fmt.Errorf("bad glob pattern %q: %w", f.Pattern, err)
	}
	return include(ok), nil
}

func (f IsLike) Negate() Filter { return Negated{f} }
func (f IsLike) String() string { return fmt.Sprintf("is like %q", f.Pattern) }

// IsPath includes exactly one absolute path.
type IsPath struct {
	Path string
}

func (f IsPath) Test(t *Target) (Result, error) { return include(t.Path == f.Path), nil }
func (f IsPath) Negate() Filter                 { return Negated{f} }
func (f IsPath) String() string                 { return fmt.Sprintf("is %q", f.Path) }
func (f IsPath) AnchorPath() string             { return f.Path }

// Matches includes paths whose name matches a regular expression.
type Matches struct {
	Re *regexp.Regexp
}

func (f Matches) Test(t *Target) (Result, error) { return include(f.Re.MatchString(t.Name)), nil }
func (f Matches) Negate() Filter                 { return Negated{f} }
func (f Matches) String() string                 { return fmt.Sprintf("matches /%s/", f.Re) }

// IsInPath includes strict descendants of one absolute path.
type IsInPath struct {
	Path string
}

func (f IsInPath) Test(t *Target) (Result, error) {
	return include(isAncestor(f.Path, t.Path)), nil
}

func (f IsInPath) Negate() Filter     { return IsNotInPath{Path: f.Path} }
func (f IsInPath) String() string     { return fmt.Sprintf("is in %q", f.Path) }
func (f IsInPath) AnchorPath() string { return f.Path }

// IsNotInPath excludes one absolute path and prunes traversal at it, so its
// descendants are never visited.
type IsNotInPath struct {
	Path string
}

func (f IsNotInPath) Test(t *Target) (Result, error) {
	if t.Path == f.Path {
		return Result{Include: false, Recurse: false}, nil
	}
	// Descendants of the anchor are unreachable: traversal stopped above.
	return include(true), nil
}

func (f IsNotInPath) Negate() Filter     { return IsInPath{Path: f.Path} }
func (f IsNotInPath) String() string     { return fmt.Sprintf("is not in %q", f.Path) }
func (f IsNotInPath) AnchorPath() string { return f.Path }

// SizeGreater includes paths strictly larger than a byte count.
type SizeGreater struct {
	Bytes int64
}

func (f SizeGreater) Test(t *Target) (Result, error) { return include(t.Size > f.Bytes), nil }
func (f SizeGreater) Negate() Filter                 { return SizeLessEqual{f.Bytes} }
func (f SizeGreater) String() string                 { return fmt.Sprintf("> %d bytes", f.Bytes) }

// SizeGreaterEqual includes paths at least as large as a byte count.
type SizeGreaterEqual struct {
	Bytes int64
}

func (f SizeGreaterEqual) Test(t *Target) (Result, error) { return include(t.Size >= f.Bytes), nil }
func (f SizeGreaterEqual) Negate() Filter                 { return SizeLess{f.Bytes} }
func (f SizeGreaterEqual) String() string                 { return fmt.Sprintf(">= %d bytes", f.Bytes) }

// SizeLess includes paths strictly smaller than a byte count.
type SizeLess struct {
	Bytes int64
}

func (f SizeLess) Test(t *Target) (Result, error) { return include(t.Size < f.Bytes), nil }
func (f SizeLess) Negate() Filter                 { return SizeGreaterEqual{f.Bytes} }
func (f SizeLess) String() string                 { return fmt.Sprintf("< %d bytes", f.Bytes) }

// SizeLessEqual includes paths no larger than a byte count.
type SizeLessEqual struct {
	Bytes int64
}

func (f SizeLessEqual) Test(t *Target) (Result, error) { return include(t.Size <= f.Bytes), nil }
func (f SizeLessEqual) Negate() Filter                 { return SizeGreater{f.Bytes} }
func (f SizeLessEqual) String() string                 { return fmt.Sprintf("<= %d bytes", f.Bytes) }

// HasExtension includes files with a given extension. The stored extension
// always carries a leading dot regardless of how it was written.
type HasExtension struct {
	Ext string
}

// NewHasExtension normalizes ext to include the leading dot.
func NewHasExtension(ext string) HasExtension {
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return HasExtension{Ext: ext}
}

func (f HasExtension) Test(t *Target) (Result, error) {
	return include(filepath.Ext(t.Name) == f.Ext), nil
}

func (f HasExtension) Negate() Filter { return Negated{f} }
func (f HasExtension) String() string { return fmt.Sprintf("has extension %q", f.Ext) }

// isAncestor reports whether child lies strictly below parent. Both paths
// must be absolute and clean.
func isAncestor(parent, child string) bool {
	if parent == child {
		return false
	}
	if !strings.HasSuffix(parent, string(filepath.Separator)) {
		parent += string(filepath.Separator)
	}
	return strings.HasPrefix(child, parent)
}
