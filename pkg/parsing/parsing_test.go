package parsing

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iafisher/batchop/pkg/filters"
)

func filterStrings(fs []filters.Filter) []string {
	var out []string
	for _, f := range fs {
		out = append(out, f.String())
	}
	return out
}

func parseUnary(t *testing.T, query, cwd string) Unary {
	t.Helper()

	cmd, err := ParseCommand(Tokenize(query), cwd)
	require.NoError(t, err)
	unary, ok := cmd.(Unary)
	require.True(t, ok, "expected a unary command for %q", query)
	return unary
}

func TestParseCommand_Delete(t *testing.T) {
	t.Parallel()

	cwd := t.TempDir()

	cmd := parseUnary(t, "delete everything", cwd)
	assert.Equal(t, "delete", cmd.Name)
	assert.Empty(t, cmd.Filters)

	cmd = parseUnary(t, "delete anything that is a file", cwd)
	assert.Equal(t, []string{"is file"}, filterStrings(cmd.Filters))

	cmd = parseUnary(t, "delete folders", cwd)
	assert.Equal(t, []string{"is folder"}, filterStrings(cmd.Filters))

	cmd = parseUnary(t, "delete empty files", cwd)
	assert.Equal(t, []string{"is empty", "is file"}, filterStrings(cmd.Filters))
}

func TestParseCommand_List(t *testing.T) {
	t.Parallel()

	cwd := t.TempDir()

	cmd := parseUnary(t, "list all empty files", cwd)
	assert.Equal(t, "list", cmd.Name)
	assert.Equal(t, []string{"anything", "is empty", "is file"}, filterStrings(cmd.Filters))

	// list with no predicates means everything
	cmd = parseUnary(t, "list", cwd)
	assert.Empty(t, cmd.Filters)
}

func TestParseCommand_NounPatterns(t *testing.T) {
	t.Parallel()

	cwd := t.TempDir()

	cmd := parseUnary(t, `delete '*.txt'`, cwd)
	assert.Equal(t, []string{`is like "*.txt"`}, filterStrings(cmd.Filters))

	cmd = parseUnary(t, "delete pride-and-prejudice", cwd)
	expected := filters.IsPath{Path: filepath.Join(cwd, "pride-and-prejudice")}
	assert.Equal(t, []string{expected.String()}, filterStrings(cmd.Filters))

	cmd = parseUnary(t, `list '/ch[0-9]+/'`, cwd)
	assert.Equal(t, []string{"matches /ch[0-9]+/"}, filterStrings(cmd.Filters))
}

func TestParseCommand_PredicatePhrases(t *testing.T) {
	t.Parallel()

	cwd := t.TempDir()

	cases := map[string][]string{
		"list files that are not empty":      {"is file", "not (is empty)"},
		"list anything that is not a folder": {"not (is folder)"},
		"list files named '*.md'":            {"is file", `is named "*.md"`},
		"list files like 'ch*.txt'":          {"is file", `is like "ch*.txt"`},
		"list files that are not hidden":     {"is file", "is not hidden"},
		"list hidden folders":                {"is hidden", "is folder"},
		"list files that have extension md":  {"is file", `has extension ".md"`},
		"list files with ext md":             {"is file", `has extension ".md"`},
		"list files > 10mb":                  {"is file", "> 10000000 bytes"},
		"list files >= 1.5kb":                {"is file", ">= 1500 bytes"},
		"list files < 10b":                   {"is file", "< 10 bytes"},
		"list files <= 2gb":                  {"is file", "<= 2000000000 bytes"},
	}

	for query, expected := range cases {
		cmd := parseUnary(t, query, cwd)
		assert.Equal(t, expected, filterStrings(cmd.Filters), "query %q", query)
	}
}

func TestParseCommand_InPathResolvesAgainstCwd(t *testing.T) {
	t.Parallel()

	cwd := t.TempDir()

	cmd := parseUnary(t, "list files in chapters", cwd)
	require.Len(t, cmd.Filters, 2)
	inPath, ok := cmd.Filters[1].(filters.IsInPath)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(cwd, "chapters"), inPath.Path)

	cmd = parseUnary(t, "list files not in chapters", cwd)
	require.Len(t, cmd.Filters, 2)
	notIn, ok := cmd.Filters[1].(filters.IsNotInPath)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(cwd, "chapters"), notIn.Path)
}

func TestParseCommand_Rename(t *testing.T) {
	t.Parallel()

	cwd := t.TempDir()

	cmd, err := ParseCommand(Tokenize(`rename '*.md' to '#1.md'`), cwd)
	require.NoError(t, err)
	assert.Equal(t, Rename{Old: "*.md", New: "#1.md"}, cmd)

	_, err = ParseCommand(Tokenize("rename a b c d"), cwd)
	require.ErrorIs(t, err, ErrSyntax)

	_, err = ParseCommand(Tokenize("rename a into b"), cwd)
	var expErr *ExpectedTokenError
	require.ErrorAs(t, err, &expErr)
	assert.Equal(t, "to", expErr.Expected)
}

func TestParseCommand_Move(t *testing.T) {
	t.Parallel()

	cwd := t.TempDir()

	cmd, err := ParseCommand(Tokenize(`move '*-ch*.txt' to books/austen`), cwd)
	require.NoError(t, err)
	move, ok := cmd.(Move)
	require.True(t, ok)
	assert.Equal(t, "books/austen", move.Destination)
	assert.Equal(t, []string{`is like "*-ch*.txt"`}, filterStrings(move.Filters))

	_, err = ParseCommand(Tokenize("move files that are empty"), cwd)
	require.ErrorIs(t, err, ErrEndOfInput)

	_, err = ParseCommand(Tokenize("move files to dest extra"), cwd)
	var extraErr *ExtraInputError
	require.ErrorAs(t, err, &extraErr)
	assert.Equal(t, "extra", extraErr.Token)
}

func TestParseCommand_Undo(t *testing.T) {
	t.Parallel()

	cwd := t.TempDir()

	cmd, err := ParseCommand(Tokenize("undo"), cwd)
	require.NoError(t, err)
	assert.Equal(t, Special{Name: "undo"}, cmd)

	_, err = ParseCommand(Tokenize("undo last delete"), cwd)
	var extraErr *ExtraInputError
	require.ErrorAs(t, err, &extraErr)
}

func TestParseCommand_Errors(t *testing.T) {
	t.Parallel()

	cwd := t.TempDir()

	_, err := ParseCommand(nil, cwd)
	require.ErrorIs(t, err, ErrEmptyInput)
	require.ErrorIs(t, err, ErrSyntax)

	_, err = ParseCommand(Tokenize("explode everything"), cwd)
	var unknownErr *UnknownCommandError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, "explode", unknownErr.Command)

	_, err = ParseCommand(Tokenize("list files that gleam"), cwd)
	var noMatchErr *NoMatchingPatternError
	require.ErrorAs(t, err, &noMatchErr)
	assert.Equal(t, "that", noMatchErr.Token)

	_, err = ParseCommand(Tokenize("delete"), cwd)
	require.ErrorIs(t, err, ErrEmptyInput)
}

func TestParseArgs_SingleArgIsTokenized(t *testing.T) {
	t.Parallel()

	cwd := t.TempDir()

	cmd, err := ParseArgs([]string{"delete empty files"}, cwd)
	require.NoError(t, err)
	assert.Equal(t,
		[]string{"is empty", "is file"},
		filterStrings(cmd.(Unary).Filters))

	cmd, err = ParseArgs([]string{"delete", "empty", "files"}, cwd)
	require.NoError(t, err)
	assert.Equal(t,
		[]string{"is empty", "is file"},
		filterStrings(cmd.(Unary).Filters))
}

func TestTokenize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"list", "all", "files"}, Tokenize("list all files"))
	assert.Equal(t, []string{"named", "*.md"}, Tokenize("named '*.md'"))
	assert.Equal(t, []string{"named", "To Do *.md"}, Tokenize(`named "To Do *.md"`))
	assert.Equal(t, []string{"a", "b", "c"}, Tokenize("    a  b\tc   "))
	assert.Equal(t, []string{"10kb"}, Tokenize("10kb"))
	assert.Empty(t, Tokenize(""))
	assert.Empty(t, Tokenize("   \t "))

	// unterminated quote runs to end of string
	assert.Equal(t, []string{"named", "unfinished business"}, Tokenize("named 'unfinished business"))
}
