package main

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iafisher/batchop/pkg/batchop"
	"github.com/iafisher/batchop/pkg/confirm"
	"github.com/iafisher/batchop/pkg/english"
	"github.com/iafisher/batchop/pkg/fileset"
	"github.com/iafisher/batchop/pkg/parsing"
)

// runExecute parses the query and runs it once.
func runExecute(_ *cobra.Command, words []string) error {
	root, err := resolveRoot()
	if err != nil {
		return err
	}

	parsed, err := parsing.ParseArgs(words, root)
	if err != nil {
		return err
	}

	switch c := parsed.(type) {
	case parsing.Unary:
		if c.Name == "delete" {
			return runDelete(c, root, strings.Join(words, " "))
		}
		return runReadOnly(c, root)
	case parsing.Rename:
		return runRename(c, root, strings.Join(words, " "))
	case parsing.Move:
		return runMove(c, root, strings.Join(words, " "))
	case parsing.Special:
		return runUndo(root)
	default:
		panic(fmt.Sprintf("unhandled command type %T", parsed))
	}
}

// runReadOnly handles list and count, which need no ledger and no
// confirmation.
func runReadOnly(c parsing.Unary, root string) error {
	fs := fileset.NewWithFilters(c.Filters)
	if specialFiles {
		fs = fs.WithSpecialFiles()
	}

	resolved, err := fs.Resolve(root, false)
	if err != nil {
		return err
	}

	switch c.Name {
	case "list":
		paths := resolved.Paths()
		rel := make([]string, 0, len(paths))
		for _, p := range paths {
			rel = append(rel, resolved.Relative(p))
		}
		if sortOutput {
			sort.Strings(rel)
		}
		for _, p := range rel {
			fmt.Println(p)
		}
	case "count":
		fmt.Println(len(resolved.Entries()))
	default:
		panic(fmt.Sprintf("unhandled unary command %q", c.Name))
	}

	return nil
}

func openBatchOp(root string) (*batchop.BatchOp, error) {
	return batchop.New(batchop.Options{
		Root:         root,
		Context:      contextName,
		DataDir:      resolvedDataDir(),
		SpecialFiles: specialFiles,
	})
}

func execOptions(cmdline string) batchop.ExecOptions {
	opts := batchop.ExecOptions{
		DryRun:  dryRun,
		Cmdline: cmdline,
		Palette: resolvedPalette(),
	}
	// Dry runs change nothing, so there is nothing to confirm.
	if !noConfirm && !dryRun {
		opts.Confirm = confirm.New(os.Stdin, os.Stdout, opts.Palette)
	}
	return opts
}

func runDelete(c parsing.Unary, root, cmdline string) error {
	bop, err := openBatchOp(root)
	if err != nil {
		return err
	}
	defer bop.Close()

	printDryRunBanner()

	result, err := bop.Delete(fileset.NewWithFilters(c.Filters), execOptions(cmdline))
	if errors.Is(err, batchop.ErrAborted) {
		fmt.Println("Aborted.")
		return nil
	}
	if err != nil {
		return err
	}

	palette := resolvedPalette()
	if dryRun {
		for _, p := range result.Paths {
			fmt.Printf("DELETE: %s\n", p)
		}
	}
	fmt.Printf("Deleted %s", english.Plural(palette, result.Size.Files, "file", ""))
	if result.Size.Dirs > 0 {
		fmt.Printf(" and %s", english.Plural(palette, result.Size.Dirs, "directory", "directories"))
	}
	fmt.Println(".")
	printDryRunHint()

	return nil
}

func runRename(c parsing.Rename, root, cmdline string) error {
	bop, err := openBatchOp(root)
	if err != nil {
		return err
	}
	defer bop.Close()

	printDryRunBanner()

	result, err := bop.Rename(fileset.New(), c.Old, c.New, execOptions(cmdline))
	if errors.Is(err, batchop.ErrAborted) {
		fmt.Println("Aborted.")
		return nil
	}
	if err != nil {
		return err
	}

	if dryRun {
		for _, p := range result.Paths {
			fmt.Printf("RENAME: %s\n", p)
		}
	}
	fmt.Printf("Renamed %s.\n", english.Plural(resolvedPalette(), len(result.Paths), "file", ""))
	printDryRunHint()

	return nil
}

func runMove(c parsing.Move, root, cmdline string) error {
	bop, err := openBatchOp(root)
	if err != nil {
		return err
	}
	defer bop.Close()

	printDryRunBanner()

	result, err := bop.Move(fileset.NewWithFilters(c.Filters), c.Destination, execOptions(cmdline))
	if errors.Is(err, batchop.ErrAborted) {
		fmt.Println("Aborted.")
		return nil
	}
	if err != nil {
		return err
	}

	if dryRun {
		for _, p := range result.Paths {
			fmt.Printf("MOVE: %s\n", p)
			fmt.Printf("  TO: %s\n", result.Destination)
		}
	}
	fmt.Printf("Moved %s to %s.\n",
		english.Plural(resolvedPalette(), len(result.Paths), "path", ""), result.Destination)
	printDryRunHint()

	return nil
}

func runUndo(root string) error {
	bop, err := openBatchOp(root)
	if err != nil {
		return err
	}
	defer bop.Close()

	printDryRunBanner()

	result, err := bop.Undo(execOptions("undo"))
	if errors.Is(err, batchop.ErrAborted) {
		fmt.Println("Aborted.")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Printf("Undid %s.\n", english.Plural(resolvedPalette(), result.NumOps, "operation", ""))
	printDryRunHint()

	return nil
}

func printDryRunBanner() {
	if dryRun {
		fmt.Println("=== DRY RUN - no changes will be made ===")
		fmt.Println()
	}
}

func printDryRunHint() {
	if dryRun {
		fmt.Println()
		fmt.Println("Run without --dry-run to apply changes.")
	}
}
