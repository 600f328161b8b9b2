package batchop

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/iafisher/batchop/pkg/english"
	"github.com/iafisher/batchop/pkg/fileset"
	"github.com/iafisher/batchop/pkg/globreplace"
	"github.com/iafisher/batchop/pkg/safepath"
	"github.com/iafisher/batchop/pkg/undo"
)

// Delete moves every matching path into the backup staging area. Matching
// directories take their entire contents with them; the confirmation prompt
// counts the full sweep.
func (b *BatchOp) Delete(fs *fileset.FilterSet, opts ExecOptions) (DeleteResult, error) {
	resolved, err := b.resolve(fs, true)
	if err != nil {
		return DeleteResult{}, err
	}
	if resolved.IsEmpty() {
		return DeleteResult{}, ErrEmptyFileSet
	}

	size := summarize(resolved)
	roots := resolved.RootEntries()
	result := DeleteResult{Paths: entryPaths(roots), Size: size}

	prompt := english.DescribeDelete(opts.Palette, size.Files, size.Dirs, size.Bytes)
	if err := b.confirmOp(opts, prompt, resolved); err != nil {
		return DeleteResult{}, err
	}

	if opts.DryRun {
		return result, nil
	}

	cmdline := cmdlineOr(opts, "delete "+describeFilters(fs))
	if err := b.ledger.Begin(cmdline, true); err != nil {
		return DeleteResult{}, err
	}

	for _, entry := range roots {
		if err := b.validator.ValidatePath(entry.Path); err != nil {
			return DeleteResult{}, err
		}

		// The op is durable before the file moves, so a crash in between
		// leaves a record for a file that still exists rather than a
		// stranded backup with no record.
		backup, err := b.ledger.AddOp(undo.OpDelete, entry.Path, "")
		if err != nil {
			return DeleteResult{}, err
		}
		if err := movePath(entry.Path, backup); err != nil {
			return DeleteResult{}, err
		}
	}

	return result, nil
}

// Move relocates every matching path into the destination directory, which
// is resolved against the root and created if missing. Collisions are
// detected before any file moves.
func (b *BatchOp) Move(fs *fileset.FilterSet, dest string, opts ExecOptions) (MoveResult, error) {
	destPath, err := b.resolveDestination(dest)
	if err != nil {
		return MoveResult{}, err
	}

	destInfo, err := os.Stat(destPath)
	destExists := err == nil
	if err != nil && !os.IsNotExist(err) {
		return MoveResult{}, fmt.Errorf("stat destination: %w", err)
	}
	if destExists && !destInfo.IsDir() {
		return MoveResult{}, &NotADirectoryError{Path: destPath}
	}

	resolved, err := b.resolve(fs, true)
	if err != nil {
		return MoveResult{}, err
	}

	// Paths already inside the destination are not moved onto themselves.
	var roots []fileset.Entry
	for _, entry := range resolved.RootEntries() {
		if entry.Path == destPath || strings.HasPrefix(entry.Path, destPath+string(filepath.Separator)) {
			continue
		}
		roots = append(roots, entry)
	}
	if len(roots) == 0 {
		return MoveResult{}, ErrEmptyFileSet
	}

	targets := make(map[string]bool, len(roots))
	for _, entry := range roots {
		target := filepath.Join(destPath, filepath.Base(entry.Path))
		if targets[target] {
			return MoveResult{}, &PathCollisionError{Path: target}
		}
		if _, err := os.Lstat(target); err == nil {
			return MoveResult{}, &PathCollisionError{Path: target}
		} else if !os.IsNotExist(err) {
			return MoveResult{}, fmt.Errorf("stat move target: %w", err)
		}
		targets[target] = true
	}

	nfiles, ndirs := 0, 0
	for _, entry := range roots {
		if entry.IsDir {
			ndirs++
		} else {
			nfiles++
		}
	}

	rel, relErr := filepath.Rel(b.root, destPath)
	if relErr != nil {
		rel = destPath
	}
	prompt := english.DescribeMove(opts.Palette, nfiles, ndirs, rel)
	if err := b.confirmOp(opts, prompt, resolved); err != nil {
		return MoveResult{}, err
	}

	result := MoveResult{Paths: entryPaths(roots), Destination: destPath}
	if opts.DryRun {
		return result, nil
	}

	cmdline := cmdlineOr(opts, fmt.Sprintf("move %s to %s", describeFilters(fs), rel))
	if err := b.ledger.Begin(cmdline, true); err != nil {
		return MoveResult{}, err
	}

	if !destExists {
		if _, err := b.ledger.AddOp(undo.OpCreate, "", destPath); err != nil {
			return MoveResult{}, err
		}
		if err := b.validator.SafeMkdirAll(destPath); err != nil {
			return MoveResult{}, err
		}
	}

	for _, entry := range roots {
		target := filepath.Join(destPath, filepath.Base(entry.Path))
		if _, err := b.ledger.AddOp(undo.OpMove, entry.Path, target); err != nil {
			return MoveResult{}, err
		}
		if err := b.validator.SafeRename(entry.Path, target); err != nil {
			return MoveResult{}, err
		}
	}

	return result, nil
}

// Rename renames matching files in place, translating the old glob pattern
// into a regex and the new pattern's #N references into group substitutions.
// Names the pattern does not change are skipped; collisions are detected
// before any file moves.
func (b *BatchOp) Rename(fs *fileset.FilterSet, old, new string, opts ExecOptions) (RenameResult, error) {
	re, repl, err := globreplace.Compile(old, new)
	if err != nil {
		return RenameResult{}, err
	}

	resolved, err := b.resolve(fs.Matches(re), false)
	if err != nil {
		return RenameResult{}, err
	}

	type renaming struct {
		src    string
		target string
	}
	var plan []renaming
	targets := make(map[string]bool)
	for _, entry := range resolved.Entries() {
		name := filepath.Base(entry.Path)
		newName, changed := globreplace.Substitute(re, repl, name)
		if !changed || newName == name {
			continue
		}

		target := filepath.Join(filepath.Dir(entry.Path), newName)
		if targets[target] {
			return RenameResult{}, &PathCollisionError{Path: target}
		}
		if _, err := os.Lstat(target); err == nil {
			return RenameResult{}, &PathCollisionError{Path: target}
		} else if !os.IsNotExist(err) {
			return RenameResult{}, fmt.Errorf("stat rename target: %w", err)
		}
		targets[target] = true
		plan = append(plan, renaming{src: entry.Path, target: target})
	}
	if len(plan) == 0 {
		return RenameResult{}, ErrEmptyFileSet
	}

	prompt := english.DescribeRename(opts.Palette, len(plan))
	if err := b.confirmOp(opts, prompt, resolved); err != nil {
		return RenameResult{}, err
	}

	result := RenameResult{}
	for _, r := range plan {
		result.Paths = append(result.Paths, r.src)
	}
	if opts.DryRun {
		return result, nil
	}

	cmdline := cmdlineOr(opts, fmt.Sprintf("rename %q to %q", old, new))
	if err := b.ledger.Begin(cmdline, true); err != nil {
		return RenameResult{}, err
	}

	for _, r := range plan {
		if _, err := b.ledger.AddOp(undo.OpRename, r.src, r.target); err != nil {
			return RenameResult{}, err
		}
		if err := b.validator.SafeRename(r.src, r.target); err != nil {
			return RenameResult{}, err
		}
	}

	return result, nil
}

// Undo reverts the most recent invocation in this context: deleted files
// move back from backup, renamed and moved files move back to their
// original paths, and created directories are removed. Targets that have
// since disappeared are skipped. Single-level: each undo consumes one
// invocation record.
func (b *BatchOp) Undo(opts ExecOptions) (UndoResult, error) {
	inv, ops, err := b.ledger.LastInvocation()
	if errors.Is(err, undo.ErrNoInvocation) {
		return UndoResult{}, ErrNothingToUndo
	}
	if err != nil {
		return UndoResult{}, err
	}
	if !inv.Undoable {
		return UndoResult{}, &NotUndoableError{Cmdline: inv.Cmdline}
	}
	if len(ops) == 0 {
		return UndoResult{}, fmt.Errorf("%w: last invocation recorded no operations", ErrNothingToUndo)
	}

	prompt := english.DescribeUndo(opts.Palette, inv.Cmdline, len(ops))
	if err := b.confirmOp(opts, prompt, nil); err != nil {
		return UndoResult{}, err
	}

	if opts.DryRun {
		return UndoResult{NumOps: len(ops)}, nil
	}

	// Mutations replay in reverse; create ops go last so a directory made
	// for a move is only removed after its contents have moved back out.
	var mutations, creates []undo.Op
	for _, op := range ops {
		if op.Type == undo.OpCreate {
			creates = append(creates, op)
		} else {
			mutations = append(mutations, op)
		}
	}

	numOps := 0
	for i := len(mutations) - 1; i >= 0; i-- {
		reverted, err := b.revertOp(mutations[i])
		if err != nil {
			return UndoResult{NumOps: numOps}, err
		}
		if reverted {
			numOps++
		}
	}
	for i := len(creates) - 1; i >= 0; i-- {
		if b.removeCreated(creates[i].PathAfter) {
			numOps++
		}
	}

	if err := b.ledger.Delete(inv.ID); err != nil {
		return UndoResult{NumOps: numOps}, err
	}

	return UndoResult{NumOps: numOps}, nil
}

// revertOp moves a path back to where it was. Missing sources and occupied
// destinations are skipped rather than failing the whole undo.
func (b *BatchOp) revertOp(op undo.Op) (bool, error) {
	if _, err := os.Lstat(op.PathAfter); os.IsNotExist(err) {
		return false, nil
	}

	if err := b.validator.ValidatePath(op.PathBefore); err != nil {
		return false, err
	}

	switch op.Type {
	case undo.OpDelete:
		// Backups live outside the root, so the containment-checked rename
		// does not apply to the source.
		if _, err := os.Lstat(op.PathBefore); err == nil {
			return false, nil
		}
		if err := movePath(op.PathAfter, op.PathBefore); err != nil {
			return false, err
		}
	case undo.OpRename, undo.OpMove:
		err := b.validator.SafeRename(op.PathAfter, op.PathBefore)
		if errors.Is(err, safepath.ErrTargetExists) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
	default:
		panic(fmt.Sprintf("batchop: unexpected op type %q", op.Type))
	}

	return true, nil
}

func (b *BatchOp) removeCreated(path string) bool {
	info, err := os.Lstat(path)
	if err != nil {
		return false
	}

	if info.IsDir() {
		return b.validator.SafeRemoveDir(path) == nil
	}
	return b.validator.SafeRemove(path) == nil
}
