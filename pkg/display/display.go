// Package display renders the small set of terminal colors used in prompts
// and summaries. Color support is carried explicitly by a Palette value;
// there is no package-level on/off switch.
package display

import (
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Palette formats numbers, error markers, and quoted commands for terminal
// output. A disabled palette returns its input unstyled, which keeps output
// stable when writing to pipes and files.
type Palette struct {
	enabled bool
	number  lipgloss.Style
	danger  lipgloss.Style
	code    lipgloss.Style
}

// New returns a palette that applies color when enabled is true.
func New(enabled bool) *Palette {
	return &Palette{
		enabled: enabled,
		number:  lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		danger:  lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		code:    lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	}
}

// Detect returns a palette enabled only when f is an interactive terminal.
func Detect(f *os.File) *Palette {
	enabled := isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	return New(enabled)
}

// Enabled reports whether the palette applies color.
func (p *Palette) Enabled() bool {
	return p != nil && p.enabled
}

// Number formats a count for display.
func (p *Palette) Number(n int64) string {
	return p.render(p.numberStyle(), strconv.FormatInt(n, 10))
}

// Danger highlights an error marker or other destructive-action text.
func (p *Palette) Danger(s string) string {
	return p.render(p.dangerStyle(), s)
}

// Code highlights a command line or query fragment.
func (p *Palette) Code(s string) string {
	return p.render(p.codeStyle(), s)
}

func (p *Palette) render(style lipgloss.Style, s string) string {
	if !p.Enabled() {
		return s
	}
	return style.Render(s)
}

func (p *Palette) numberStyle() lipgloss.Style {
	if p == nil {
		return lipgloss.NewStyle()
	}
	return p.number
}

func (p *Palette) dangerStyle() lipgloss.Style {
	if p == nil {
		return lipgloss.NewStyle()
	}
	return p.danger
}

func (p *Palette) codeStyle() lipgloss.Style {
	if p == nil {
		return lipgloss.NewStyle()
	}
	return p.code
}
