package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

var (
	directory    string
	dryRun       bool
	noConfirm    bool
	specialFiles bool
	sortOutput   bool
	contextName  string
	dataDirFlag  string
	colorMode    string
)

func buildRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batchop [query...]",
		Short: "Perform operations on sets of files in bulk",
		Long: `batchop runs plain-English queries against a directory tree.

With a query it executes once and exits; without one it starts an
interactive session where filters narrow the working set line by line.

Examples:
  # See what would match before deleting anything
  batchop --dry-run 'delete all empty files'

  # Delete folders named "Archive", answering the confirmation prompt
  batchop 'delete all folders named "Archive"'

  # Rename by glob pattern: chapter1.md, chapter2.md, ...
  batchop 'rename ch*.md to chapter#1.md'

  # Collect scattered markdown files
  batchop 'move anything that ends with .md to notes'

  # Take back the last destructive command
  batchop undo

Safety:
  Destructive commands ask for confirmation, record themselves in an undo
  ledger before touching anything, and never modify files outside the
  target directory. Deleted files are staged in a backup area, not
  destroyed; 'batchop undo' brings them back.`,
		Args:          cobra.ArbitraryArgs,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			initConfig(cmd)
			if len(args) == 0 {
				return runInteractive(cmd)
			}
			return runExecute(cmd, args)
		},
	}

	cmd.PersistentFlags().StringVarP(&directory, "directory", "d", "", "Directory to operate on (default: current directory)")
	cmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Show what would be done without making changes")
	cmd.PersistentFlags().BoolVar(&noConfirm, "no-confirm", false, "Execute without confirmation. Not recommended")
	cmd.PersistentFlags().BoolVar(&specialFiles, "special-files", false, "Include files that are neither regular files nor directories")
	cmd.PersistentFlags().BoolVar(&sortOutput, "sort", false, "Sort list output")
	cmd.PersistentFlags().StringVar(&contextName, "context", "cli", "Undo history to record operations under")
	cmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "Directory for the undo ledger and backups")
	cmd.PersistentFlags().StringVar(&colorMode, "color", "auto", "Colorize output: auto, always, or never")

	return cmd
}

// resolveRoot turns the --directory flag into an absolute path, defaulting
// to the current working directory.
func resolveRoot() (string, error) {
	dir := directory
	if dir == "" {
		dir = "."
	}

	info, err := os.Stat(dir)
	if err != nil {
		return "", fmt.Errorf("cannot access directory: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", dir)
	}

	absPath, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("cannot resolve path: %w", err)
	}
	return absPath, nil
}
