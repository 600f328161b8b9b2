// Package safepath guards filesystem mutations so they never touch paths
// outside a designated root directory.
package safepath

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrPathEscape indicates an attempt to access a path outside the root.
	ErrPathEscape = errors.New("path escapes root directory")
	// ErrSymlinkEscape indicates a path resolves through a symlink to a
	// location outside the root.
	ErrSymlinkEscape = errors.New("symlink target escapes root directory")
	// ErrInvalidRoot indicates the root path is invalid.
	ErrInvalidRoot = errors.New("invalid root directory")
	// ErrTargetExists indicates a rename destination already exists.
	ErrTargetExists = errors.New("target already exists")
)

var errCannotRemoveRoot = errors.New("cannot remove root directory")

// Validator ensures all paths passed to mutation helpers are contained
// within a root directory.
type Validator struct {
	root string // absolute, symlink-resolved, cleaned
}

// New creates a Validator for the given root, which must be an existing
// directory.
func New(root string) (*Validator, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRoot, err)
	}

	resolvedRoot, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRoot, err)
	}

	cleanRoot := filepath.Clean(resolvedRoot)

	info, err := os.Stat(cleanRoot)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRoot, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: not a directory", ErrInvalidRoot)
	}

	return &Validator{root: cleanRoot}, nil
}

// Root returns the absolute path to the root directory.
func (v *Validator) Root() string {
	return v.root
}

// Contains reports whether path lies within the root directory. The path is
// made absolute and cleaned but symlinks are not followed.
func (v *Validator) Contains(path string) bool {
	return v.containsPath(path) == nil
}

// ValidatePath returns ErrPathEscape if path is not contained in the root.
func (v *Validator) ValidatePath(path string) error {
	return v.containsPath(path)
}

// SafeRename renames a file only if both source and destination are within
// root, including after resolving symlinks in existing path components.
func (v *Validator) SafeRename(oldPath, newPath string) error {
	if err := v.validateMutation(oldPath); err != nil {
		return fmt.Errorf("source %w: %s", err, oldPath)
	}
	if err := v.validateMutation(newPath); err != nil {
		return fmt.Errorf("destination %w: %s", err, newPath)
	}

	// os.Rename silently overwrites; check first so a collision never
	// destroys data. Lstat so a dangling symlink still counts as occupied.
	if _, err := os.Lstat(newPath); err == nil {
		return fmt.Errorf("%w: %s", ErrTargetExists, newPath)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("cannot stat destination: %w", err)
	}

	return os.Rename(oldPath, newPath)
}

// SafeMkdirAll creates a directory, and any missing parents, only if the
// path is within root.
func (v *Validator) SafeMkdirAll(path string) error {
	if err := v.validateMutation(path); err != nil {
		return fmt.Errorf("%w: %s", err, path)
	}

	return os.MkdirAll(path, 0o755)
}

// SafeRemove removes a file only if it is within root.
func (v *Validator) SafeRemove(path string) error {
	if err := v.validateMutation(path); err != nil {
		return fmt.Errorf("%w: %s", err, path)
	}

	return os.Remove(path)
}

// SafeRemoveDir removes an empty directory only if it is within root and is
// not the root directory itself.
func (v *Validator) SafeRemoveDir(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("%w: cannot resolve path", ErrPathEscape)
	}

	if filepath.Clean(absPath) == v.root {
		return errCannotRemoveRoot
	}

	if err := v.validateMutation(path); err != nil {
		return fmt.Errorf("%w: %s", err, path)
	}

	return os.Remove(path)
}

func (v *Validator) containsPath(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("%w: cannot resolve path", ErrPathEscape)
	}

	if !isSubPath(v.root, filepath.Clean(absPath)) {
		return ErrPathEscape
	}

	return nil
}

// validateMutation checks containment both of the literal path and of its
// symlink-resolved form, so a symlinked parent directory cannot smuggle an
// operation outside the root.
func (v *Validator) validateMutation(path string) error {
	if err := v.containsPath(path); err != nil {
		return err
	}

	resolved, err := resolveExistingPath(path)
	if err != nil {
		return err
	}

	if err := v.containsPath(resolved); err != nil {
		return fmt.Errorf("%w: %s -> %s", ErrSymlinkEscape, path, resolved)
	}

	return nil
}

// resolveExistingPath resolves symlinks in the longest existing prefix of
// path. The path itself may not exist yet, e.g. a rename destination.
func resolveExistingPath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("cannot resolve path: %w", err)
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err == nil {
		return resolved, nil
	}
	if !os.IsNotExist(err) {
		return "", fmt.Errorf("cannot resolve symlinks: %w", err)
	}

	parent := filepath.Dir(absPath)
	if parent == absPath {
		return "", fmt.Errorf("cannot resolve symlinks: %w", err)
	}

	return resolveExistingPath(parent)
}

// isSubPath checks if child is a subpath of parent. Both paths must be
// absolute and clean.
func isSubPath(parent, child string) bool {
	if parent == child {
		return true
	}

	parentWithSep := parent
	if !strings.HasSuffix(parentWithSep, string(filepath.Separator)) {
		parentWithSep += string(filepath.Separator)
	}

	return strings.HasPrefix(child, parentWithSep)
}
