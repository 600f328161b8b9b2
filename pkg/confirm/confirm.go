// Package confirm implements the yes/no prompt shown before destructive
// operations, with sub-commands for inspecting the affected paths.
package confirm

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"strings"

	"github.com/iafisher/batchop/pkg/display"
	"github.com/iafisher/batchop/pkg/fileset"
)

// Prompter asks the user to approve one operation. Besides yes and no it
// understands list (print every affected path), random (print a sample of
// ten), and help. EOF declines.
type Prompter struct {
	in      *bufio.Scanner
	out     io.Writer
	palette *display.Palette
}

// New builds a prompter reading responses from in and writing to out.
func New(in io.Reader, out io.Writer, palette *display.Palette) *Prompter {
	return &Prompter{
		in:      bufio.NewScanner(in),
		out:     out,
		palette: palette,
	}
}

// Confirm prompts until it gets a definitive answer. The file set is only
// consulted for display; it is never mutated.
func (p *Prompter) Confirm(prompt string, fs *fileset.FileSet) (bool, error) {
	for {
		fmt.Fprint(p.out, prompt)

		if !p.in.Scan() {
			if err := p.in.Err(); err != nil {
				return false, fmt.Errorf("read confirmation: %w", err)
			}
			// EOF: treat as a decline
			fmt.Fprintln(p.out)
			return false, nil
		}

		switch strings.ToLower(strings.TrimSpace(p.in.Text())) {
		case "yes", "y":
			return true, nil
		case "no", "n":
			return false, nil
		case "list", "l", "ls":
			if fs != nil {
				for _, path := range fs.Paths() {
					fmt.Fprintln(p.out, fs.Relative(path))
				}
			}
		case "random":
			if fs != nil {
				p.printSample(fs)
			}
		case "help", "h":
			fmt.Fprintln(p.out, "Available commands:")
			fmt.Fprintln(p.out, "  yes:           confirm operation")
			fmt.Fprintln(p.out, "  no:            decline operation")
			fmt.Fprintln(p.out, "  list:          list files")
			fmt.Fprintln(p.out, "  random:        list 10 random files")
			fmt.Fprintln(p.out, "  help:          print this dialog")
		default:
			fmt.Fprintln(p.out, "Response not understood. Please enter 'yes' or 'no', or 'help' to view available commands.")
		}
	}
}

func (p *Prompter) printSample(fs *fileset.FileSet) {
	paths := fs.Paths()
	rand.Shuffle(len(paths), func(i, j int) {
		paths[i], paths[j] = paths[j], paths[i]
	})
	if len(paths) > 10 {
		paths = paths[:10]
	}
	for _, path := range paths {
		fmt.Fprintln(p.out, fs.Relative(path))
	}
}

// Auto approves every operation without prompting, for --no-confirm runs
// and library callers.
type Auto struct{}

func (Auto) Confirm(prompt string, fs *fileset.FileSet) (bool, error) {
	return true, nil
}
