// Package english renders counts, sizes, and confirmation prompts as
// human-readable text.
package english

import (
	"fmt"
	"strconv"

	"github.com/iafisher/batchop/pkg/display"
)

// Plural formats "N singular" or "N plural", coloring the number when the
// palette is enabled. An empty plural form appends "s" to the singular.
func Plural(p *display.Palette, n int, singular, plural string) string {
	noun := singular
	if n != 1 {
		if plural == "" {
			noun = singular + "s"
		} else {
			noun = plural
		}
	}
	return p.Number(int64(n)) + " " + noun
}

// ByteCount renders a byte total in decimal units with one decimal place:
// "1.3 KB", "50.0 MB", "238.2 GB". Totals below one kilobyte are not worth
// a unit and report ok=false.
func ByteCount(n int64) (string, bool) {
	switch {
	case n >= 1_000_000_000:
		return fmt.Sprintf("%.1f GB", float64(n)/1_000_000_000), true
	case n >= 1_000_000:
		return fmt.Sprintf("%.1f MB", float64(n)/1_000_000), true
	case n >= 1_000:
		return fmt.Sprintf("%.1f KB", float64(n)/1_000), true
	default:
		return "", false
	}
}

// describeSize renders a byte total for prompts, falling back to a raw
// byte count below one kilobyte.
func describeSize(p *display.Palette, nbytes int64) string {
	if s, ok := ByteCount(nbytes); ok {
		return s
	}
	return Plural(p, int(nbytes), "byte", "")
}

// DescribeDelete builds the confirmation prompt for a delete command.
func DescribeDelete(p *display.Palette, nfiles, ndirs int, nbytes int64) string {
	files := Plural(p, nfiles, "file", "")
	dirs := Plural(p, ndirs, "directory", "directories")
	size := describeSize(p, nbytes)

	switch {
	case nfiles > 0 && ndirs > 0:
		return fmt.Sprintf("Delete %s and %s totaling %s? ", files, dirs, size)
	case nfiles > 0:
		return fmt.Sprintf("Delete %s totaling %s? ", files, size)
	default:
		return fmt.Sprintf("Delete %s totaling %s? ", dirs, size)
	}
}

// DescribeRename builds the confirmation prompt for a rename command.
func DescribeRename(p *display.Palette, nfiles int) string {
	return fmt.Sprintf("Rename %s? ", Plural(p, nfiles, "file", ""))
}

// DescribeMove builds the confirmation prompt for a move command.
func DescribeMove(p *display.Palette, nfiles, ndirs int, destination string) string {
	subject := Plural(p, nfiles, "file", "")
	if ndirs > 0 {
		subject += " and " + Plural(p, ndirs, "directory", "directories")
	}
	return fmt.Sprintf("Move %s to %s? ", subject, strconv.Quote(destination))
}

// DescribeUndo builds the confirmation prompt for undoing an invocation.
func DescribeUndo(p *display.Palette, cmdline string, nops int) string {
	return fmt.Sprintf("Undo %s (%s)? ", p.Code(strconv.Quote(cmdline)), Plural(p, nops, "operation", ""))
}
