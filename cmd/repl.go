package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iafisher/batchop/pkg/display"
	"github.com/iafisher/batchop/pkg/english"
	"github.com/iafisher/batchop/pkg/fileset"
	"github.com/iafisher/batchop/pkg/parsing"
)

// runInteractive reads predicate phrases line by line, narrowing the working
// file set and reporting its size after every change.
func runInteractive(_ *cobra.Command) error {
	root, err := resolveRoot()
	if err != nil {
		return err
	}

	fs := fileset.New().IsNotHidden()
	if specialFiles {
		fs = fs.WithSpecialFiles()
	}

	if len(fs.Filters()) > 0 {
		fmt.Println("Filters applied by default: ")
		for _, f := range fs.Filters() {
			fmt.Printf("  %s\n", f)
		}
		fmt.Println()
	}

	palette := resolvedPalette()
	scanner := bufio.NewScanner(os.Stdin)
	recalculate := true
	for {
		if recalculate {
			resolved, err := fs.Resolve(root, false)
			if err != nil {
				fmt.Printf("error: %v\n", err)
			} else {
				printSetSize(resolved, palette)
			}
		}
		recalculate = false

		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.EqualFold(line, "list") {
			resolved, err := fs.Resolve(root, false)
			if err != nil {
				fmt.Printf("error: %v\n", err)
				continue
			}
			for _, p := range resolved.Paths() {
				fmt.Println(resolved.Relative(p))
			}
			continue
		}

		if strings.HasPrefix(line, "!") {
			recalculate = runDirective(fs, line[1:])
			continue
		}

		preds, err := parsing.ParsePreds(parsing.Tokenize(line), root)
		if err != nil {
			fmt.Printf("error: %v\n", err)
			continue
		}
		fs.Extend(preds)
		recalculate = true
	}

	return scanner.Err()
}

// runDirective handles ! commands and reports whether the file set changed.
func runDirective(fs *fileset.FilterSet, directive string) bool {
	switch directive {
	case "pop":
		fs.Pop()
		return true
	case "clear":
		fs.Clear()
		return true
	case "filter", "filters":
		for _, f := range fs.Filters() {
			fmt.Println(f)
		}
	case "h", "help":
		fmt.Println("Directives:")
		fmt.Println("  !clear              clear all filters")
		fmt.Println("  !filter/!filters    print list of current filters")
		fmt.Println("  !pop                remove the last-applied filter")
	default:
		fmt.Printf("error: unknown directive: %q (enter !help to see available directives)\n", directive)
	}
	return false
}

func printSetSize(resolved *fileset.FileSet, palette *display.Palette) {
	nfiles := resolved.FileCount()
	ndirs := resolved.DirCount()

	fmt.Print(english.Plural(palette, nfiles, "file", ""))
	if ndirs > 0 {
		fmt.Printf(", %s", english.Plural(palette, ndirs, "directory", "directories"))
	}
	fmt.Println()
}
