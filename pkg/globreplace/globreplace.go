// Package globreplace translates rename patterns into regular expressions:
// each * in the old pattern becomes a capture group, and #N references in
// the new pattern substitute the captured text back in.
package globreplace

import (
	"fmt"
	"regexp"
	"strings"
)

var groupRef = regexp.MustCompile(`#([0-9]+)`)

// ToRegex converts a glob pattern to an anchored regular expression source
// with one non-greedy capture group per wildcard.
func ToRegex(glob string) string {
	parts := strings.Split(glob, "*")
	quoted := make([]string, len(parts))
	for i, part := range parts {
		quoted[i] = regexp.QuoteMeta(part)
	}
	return "^" + strings.Join(quoted, "(.+?)") + "$"
}

// ToRepl converts a replacement pattern to regexp replacement syntax,
// rewriting #N group references to ${N}.
func ToRepl(repl string) string {
	return groupRef.ReplaceAllStringFunc(repl, func(ref string) string {
		return "${" + ref[1:] + "}"
	})
}

// Compile builds the substitution machinery for one rename command.
func Compile(old, new string) (*regexp.Regexp, string, error) {
	re, err := regexp.Compile(ToRegex(old))
	if err != nil {
		return nil, "", fmt.Errorf("bad rename pattern %q: %w", old, err)
	}
	return re, ToRepl(new), nil
}

// Substitute applies a compiled rename pattern to one name. The second
// return value reports whether the name matched at all.
func Substitute(re *regexp.Regexp, repl, name string) (string, bool) {
	if !re.MatchString(name) {
		return name, false
	}
	return re.ReplaceAllString(name, repl), true
}
