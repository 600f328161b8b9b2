// Package batchop ties the engine together: it resolves filter sets against
// the root directory, asks for confirmation, records destructive operations
// in the undo ledger, and only then mutates the filesystem.
package batchop

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/iafisher/batchop/pkg/display"
	"github.com/iafisher/batchop/pkg/fileset"
	"github.com/iafisher/batchop/pkg/safepath"
	"github.com/iafisher/batchop/pkg/undo"
)

// Confirmer approves or declines one destructive operation. fs holds the
// affected paths for display and may be nil (undo prompts have no file set).
type Confirmer interface {
	Confirm(prompt string, fs *fileset.FileSet) (bool, error)
}

// Options configures a BatchOp instance.
type Options struct {
	// Root is the directory all operations are scoped to. Defaults to the
	// current working directory.
	Root string
	// Context selects an undo history, so CLI and library invocations do
	// not shadow each other. Defaults to undo.ContextLib.
	Context string
	// DataDir is where the ledger database and backups live. Defaults to
	// undo.DefaultDataDir().
	DataDir string
	// SpecialFiles disables the implicit filter that excludes paths which
	// are neither regular files nor directories.
	SpecialFiles bool
}

// ExecOptions configures a single operation.
type ExecOptions struct {
	// DryRun resolves, checks collisions, and returns the result without
	// mutating the filesystem or writing to the ledger.
	DryRun bool
	// Confirm is consulted before mutating. nil approves everything.
	Confirm Confirmer
	// Cmdline is recorded in the ledger and echoed by undo prompts. When
	// empty a description is synthesized from the filters.
	Cmdline string
	// Palette colors prompt text. nil renders plain.
	Palette *display.Palette
}

// Summary counts what an operation covers, including the contents of
// directories that will be swept along.
type Summary struct {
	Files int
	Dirs  int
	Bytes int64
}

// DeleteResult reports the paths moved to backup, and the full size of the
// deleted subtrees.
type DeleteResult struct {
	Paths []string
	Size  Summary
}

// MoveResult reports the paths moved into the destination directory.
type MoveResult struct {
	Paths       []string
	Destination string
}

// RenameResult reports the paths that were renamed in place.
type RenameResult struct {
	Paths []string
}

// UndoResult reports how many recorded operations were reverted.
type UndoResult struct {
	NumOps int
}

// BatchOp executes operations against a root directory. Instances hold the
// undo ledger's advisory lock and must be closed.
type BatchOp struct {
	root         string
	validator    *safepath.Validator
	ledger       *undo.Ledger
	specialFiles bool
}

// New validates the root and opens the undo ledger.
func New(opts Options) (*BatchOp, error) {
	root := opts.Root
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("determine working directory: %w", err)
		}
		root = cwd
	}

	validator, err := safepath.New(root)
	if err != nil {
		return nil, err
	}

	dataDir := opts.DataDir
	if dataDir == "" {
		dataDir, err = undo.DefaultDataDir()
		if err != nil {
			return nil, err
		}
	}

	context := opts.Context
	if context == "" {
		context = undo.ContextLib
	}

	ledger, err := undo.Open(dataDir, context)
	if err != nil {
		return nil, err
	}

	return &BatchOp{
		root:         validator.Root(),
		validator:    validator,
		ledger:       ledger,
		specialFiles: opts.SpecialFiles,
	}, nil
}

// Close releases the undo ledger and its lock.
func (b *BatchOp) Close() error {
	return b.ledger.Close()
}

// Root returns the absolute root directory operations are scoped to.
func (b *BatchOp) Root() string {
	return b.root
}

// List returns the absolute paths matching the filter set, in traversal
// order.
func (b *BatchOp) List(fs *fileset.FilterSet) ([]string, error) {
	resolved, err := b.resolve(fs, false)
	if err != nil {
		return nil, err
	}
	return resolved.Paths(), nil
}

// Count returns the number of paths matching the filter set.
func (b *BatchOp) Count(fs *fileset.FilterSet) (int, error) {
	resolved, err := b.resolve(fs, false)
	if err != nil {
		return 0, err
	}
	return len(resolved.Entries()), nil
}

func (b *BatchOp) resolve(fs *fileset.FilterSet, recursive bool) (*fileset.FileSet, error) {
	if b.specialFiles {
		fs = fs.WithSpecialFiles()
	}
	return fs.Resolve(b.root, recursive)
}

func (b *BatchOp) confirmOp(opts ExecOptions, prompt string, fs *fileset.FileSet) error {
	if opts.Confirm == nil {
		return nil
	}

	ok, err := opts.Confirm.Confirm(prompt, fs)
	if err != nil {
		return err
	}
	if !ok {
		return ErrAborted
	}
	return nil
}

func cmdlineOr(opts ExecOptions, fallback string) string {
	if opts.Cmdline != "" {
		return opts.Cmdline
	}
	return fallback
}

func describeFilters(fs *fileset.FilterSet) string {
	parts := make([]string, 0, len(fs.Filters()))
	for _, f := range fs.Filters() {
		parts = append(parts, f.String())
	}
	if len(parts) == 0 {
		return "everything"
	}
	return strings.Join(parts, " and ")
}

// movePath renames src to dst, falling back to copy-and-remove for regular
// files when the two live on different devices (the backup directory may be
// on another filesystem than the root).
func movePath(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		return fmt.Errorf("move %s: %w", src, err)
	}

	info, statErr := os.Stat(src)
	if statErr != nil {
		return fmt.Errorf("move %s: %w", src, statErr)
	}
	if info.IsDir() {
		// Directory trees are not copied across devices.
		return fmt.Errorf("move %s: %w", src, err)
	}

	if copyErr := copyFile(src, dst, info.Mode()); copyErr != nil {
		return fmt.Errorf("move %s: %w", src, copyErr)
	}
	if rmErr := os.Remove(src); rmErr != nil {
		return fmt.Errorf("move %s: %w", src, rmErr)
	}
	return nil
}

func copyFile(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, mode.Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func entryPaths(entries []fileset.Entry) []string {
	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		paths = append(paths, e.Path)
	}
	return paths
}

func summarize(fs *fileset.FileSet) Summary {
	return Summary{
		Files: fs.FileCount(),
		Dirs:  fs.DirCount(),
		Bytes: fs.TotalBytes(),
	}
}

// resolveDestination turns a possibly relative move destination into an
// absolute path inside the root.
func (b *BatchOp) resolveDestination(dest string) (string, error) {
	destPath := dest
	if !filepath.IsAbs(destPath) {
		destPath = filepath.Join(b.root, destPath)
	}
	destPath = filepath.Clean(destPath)

	if err := b.validator.ValidatePath(destPath); err != nil {
		return "", err
	}
	return destPath, nil
}
