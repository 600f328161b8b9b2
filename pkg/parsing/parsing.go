// Package parsing turns a natural-language-like query sentence into a
// parsed command: a verb plus a list of filters. The grammar is a fixed
// table of predicate phrases matched by the pattern engine; at each scan
// position the first phrase in table order that matches wins, so more
// specific phrases are listed before more general ones.
package parsing

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/iafisher/batchop/pkg/filters"
	"github.com/iafisher/batchop/pkg/patterns"
)

// Command is the parsed form of one query sentence.
type Command interface {
	isCommand()
}

// Unary is a list, count, or delete command over a filter list.
type Unary struct {
	Name    string
	Filters []filters.Filter
}

// Rename carries the old and new glob patterns of a rename command.
type Rename struct {
	Old string
	New string
}

// Move carries a filter list and a destination directory.
type Move struct {
	Filters     []filters.Filter
	Destination string
}

// Special is a command with no arguments, currently only undo.
type Special struct {
	Name string
}

func (Unary) isCommand()   {}
func (Rename) isCommand()  {}
func (Move) isCommand()    {}
func (Special) isCommand() {}

// ParseArgs parses command-line arguments: a single argument is treated as
// a full query string and tokenized, multiple arguments are used as
// pre-split tokens.
func ParseArgs(args []string, cwd string) (Command, error) {
	if len(args) == 1 {
		return ParseCommand(Tokenize(args[0]), cwd)
	}
	return ParseCommand(args, cwd)
}

// ParseCommand parses a tokenized query sentence. Relative path arguments
// are resolved against cwd.
func ParseCommand(tokens []string, cwd string) (Command, error) {
	if len(tokens) == 0 {
		return nil, ErrEmptyInput
	}

	verb := strings.ToLower(tokens[0])
	rest := tokens[1:]

	switch verb {
	case "list", "count":
		fs, err := parseNPAndPreds(rest, cwd, true)
		if err != nil {
			return nil, err
		}
		return Unary{Name: verb, Filters: fs}, nil
	case "delete":
		fs, err := parseNPAndPreds(rest, cwd, false)
		if err != nil {
			return nil, err
		}
		return Unary{Name: verb, Filters: fs}, nil
	case "rename":
		return parseRename(rest)
	case "move":
		return parseMove(rest, cwd)
	case "undo":
		// trailing tokens are rejected rather than silently ignored: the
		// ledger can only undo the whole last invocation, so qualifiers
		// would promise selectivity it cannot deliver
		if len(rest) > 0 {
			return nil, &ExtraInputError{Token: rest[0]}
		}
		return Special{Name: verb}, nil
	default:
		return nil, &UnknownCommandError{Command: verb}
	}
}

func parseRename(tokens []string) (Command, error) {
	if len(tokens) != 3 {
		return nil, fmt.Errorf("%w: expected `rename OLD to NEW`", ErrSyntax)
	}
	if !strings.EqualFold(tokens[1], "to") {
		return nil, &ExpectedTokenError{Expected: "to", Actual: tokens[1]}
	}
	return Rename{Old: tokens[0], New: tokens[2]}, nil
}

func parseMove(tokens []string, cwd string) (Command, error) {
	fs, consumed, err := parsePreds(tokens, cwd, true, true)
	if err != nil {
		return nil, err
	}

	rest := tokens[consumed:]
	if len(rest) == 0 {
		return nil, ErrEndOfInput
	}
	if !strings.EqualFold(rest[0], "to") {
		return nil, &ExpectedTokenError{Expected: "to", Actual: rest[0]}
	}
	if len(rest) < 2 {
		return nil, ErrEndOfInput
	}
	if len(rest) > 2 {
		return nil, &ExtraInputError{Token: rest[2]}
	}

	return Move{Filters: fs, Destination: rest[1]}, nil
}

// parseNPAndPreds parses an optional noun-phrase subject followed by
// predicate phrases, consuming all remaining tokens.
func parseNPAndPreds(tokens []string, cwd string, emptyOK bool) ([]filters.Filter, error) {
	if len(tokens) == 0 {
		if emptyOK {
			return nil, nil
		}
		return nil, ErrEmptyInput
	}

	fs, _, err := parsePreds(tokens, cwd, true, false)
	return fs, err
}

// ParsePreds parses a run of predicate phrases, requiring every token to
// be consumed. The interactive prompt uses this to narrow a filter set
// without a command verb.
func ParsePreds(tokens []string, cwd string) ([]filters.Filter, error) {
	fs, _, err := parsePreds(tokens, cwd, false, false)
	return fs, err
}

func parsePreds(tokens []string, cwd string, nounPhrase, trailingOK bool) ([]filters.Filter, int, error) {
	var fs []filters.Filter
	i := 0

	if nounPhrase {
		npFilters, consumed, err := parseNP(tokens, cwd)
		if err != nil {
			return nil, 0, err
		}
		fs = append(fs, npFilters...)
		i = consumed
	}

	for i < len(tokens) {
		f, consumed, err := matchPhraseAt(tokens[i:], cwd)
		if err != nil {
			return nil, 0, err
		}
		if consumed == 0 {
			if trailingOK {
				break
			}
			return nil, 0, &NoMatchingPatternError{Token: tokens[i]}
		}

		fs = append(fs, f)
		i += consumed
	}

	return fs, i, nil
}

// parseNP consumes a run of adjective tokens followed by one noun token.
// When no noun-phrase head is recognizable it consumes nothing and parsing
// falls through to predicate phrases.
func parseNP(tokens []string, cwd string) ([]filters.Filter, int, error) {
	var fs []filters.Filter
	i := 0

	for i < len(tokens) {
		adj := adjectiveToFilter(tokens[i])
		if adj == nil {
			break
		}
		fs = append(fs, adj)
		i++
	}

	if i == len(tokens) {
		// adjectives with no noun: not a noun phrase after all
		return nil, 0, nil
	}

	// a token that starts a predicate phrase is not a noun
	if startsPhrase(tokens[i:]) {
		return fs, i, nil
	}

	noun := strings.ToLower(tokens[i])
	switch noun {
	case "anything", "everything":
		// no filter: the subject is unrestricted
	case "files":
		fs = append(fs, filters.IsFile{})
	case "folders", "directories", "dirs":
		fs = append(fs, filters.IsDirectory{})
	default:
		f, err := PatternToFilter(tokens[i], cwd)
		if err != nil {
			return nil, 0, err
		}
		fs = append(fs, f)
	}

	return fs, i + 1, nil
}

func adjectiveToFilter(token string) filters.Filter {
	switch strings.ToLower(token) {
	case "all", "any":
		return filters.True{}
	case "empty":
		return filters.IsEmpty{}
	case "hidden":
		return filters.IsHidden{}
	default:
		return nil
	}
}

// PatternToFilter interprets a bare token as a path selector: a regex when
// wrapped in slashes, a glob when it contains glob metacharacters, and an
// exact path resolved against cwd otherwise.
func PatternToFilter(token, cwd string) (filters.Filter, error) {
	if len(token) > 2 && strings.HasPrefix(token, "/") && strings.HasSuffix(token, "/") {
		re, err := regexp.Compile(token[1 : len(token)-1])
		if err != nil {
			return nil, fmt.Errorf("%w: bad regex %s: %v", ErrSyntax, token, err)
		}
		return filters.Matches{Re: re}, nil
	}

	if strings.ContainsAny(token, "*?[") {
		return filters.IsLike{Pattern: token}, nil
	}

	return filters.IsPath{Path: resolvePath(cwd, token)}, nil
}

func resolvePath(cwd, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(cwd, path)
}

// phrase is one entry of the grammar table: an ordered pattern list plus a
// constructor from the captured values.
type phrase struct {
	patterns []patterns.Pattern
	build    func(caps []patterns.Capture, cwd string) (filters.Filter, error)
}

func lit(s string) patterns.Pattern           { return patterns.Lit{Literal: s} }
func anyLit(ss ...string) patterns.Pattern    { return patterns.AnyLit{Literals: ss} }
func opt(p patterns.Pattern) patterns.Pattern { return patterns.Opt{Pattern: p} }

var phraseTable = []phrase{
	// 'that is not a file'
	{
		patterns: []patterns.Pattern{opt(lit("that")), anyLit("is", "are"), patterns.Not{}, opt(lit("a")), lit("file")},
		build: func(caps []patterns.Capture, cwd string) (filters.Filter, error) {
			return filters.IsFile{}, nil
		},
	},
	// 'that is not a folder'
	{
		patterns: []patterns.Pattern{opt(lit("that")), anyLit("is", "are"), patterns.Not{}, opt(lit("a")), anyLit("folder", "directory", "dir")},
		build: func(caps []patterns.Capture, cwd string) (filters.Filter, error) {
			return filters.IsDirectory{}, nil
		},
	},
	// 'is not named X' (glob on name)
	{
		patterns: []patterns.Pattern{opt(anyLit("is", "are")), patterns.Not{}, lit("named"), patterns.String{}},
		build: func(caps []patterns.Capture, cwd string) (filters.Filter, error) {
			return filters.IsNamed{Pattern: caps[0].Str}, nil
		},
	},
	// 'that is not like X' (glob on name or relative path)
	{
		patterns: []patterns.Pattern{opt(lit("that")), opt(anyLit("is", "are")), patterns.Not{}, lit("like"), patterns.String{}},
		build: func(caps []patterns.Capture, cwd string) (filters.Filter, error) {
			return filters.IsLike{Pattern: caps[0].Str}, nil
		},
	},
	// 'that matches X' (regex on name)
	{
		patterns: []patterns.Pattern{opt(lit("that")), lit("matches"), patterns.String{}},
		build: func(caps []patterns.Capture, cwd string) (filters.Filter, error) {
			re, err := regexp.Compile(caps[0].Str)
			if err != nil {
				return nil, fmt.Errorf("%w: bad regex %q: %v", ErrSyntax, caps[0].Str, err)
			}
			return filters.Matches{Re: re}, nil
		},
	},
	// 'that is not empty'
	{
		patterns: []patterns.Pattern{opt(lit("that")), anyLit("is", "are"), patterns.Not{}, lit("empty")},
		build: func(caps []patterns.Capture, cwd string) (filters.Filter, error) {
			return filters.IsEmpty{}, nil
		},
	},
	// '> 10mb'
	{
		patterns: []patterns.Pattern{anyLit(">", "gt"), patterns.SizeUnit{}},
		build: func(caps []patterns.Capture, cwd string) (filters.Filter, error) {
			return filters.SizeGreater{Bytes: caps[0].Int}, nil
		},
	},
	// '>= 10mb'
	{
		patterns: []patterns.Pattern{anyLit(">=", "gte", "ge"), patterns.SizeUnit{}},
		build: func(caps []patterns.Capture, cwd string) (filters.Filter, error) {
			return filters.SizeGreaterEqual{Bytes: caps[0].Int}, nil
		},
	},
	// '< 10mb'
	{
		patterns: []patterns.Pattern{anyLit("<", "lt"), patterns.SizeUnit{}},
		build: func(caps []patterns.Capture, cwd string) (filters.Filter, error) {
			return filters.SizeLess{Bytes: caps[0].Int}, nil
		},
	},
	// '<= 10mb'
	{
		patterns: []patterns.Pattern{anyLit("<=", "lte", "le"), patterns.SizeUnit{}},
		build: func(caps []patterns.Capture, cwd string) (filters.Filter, error) {
			return filters.SizeLessEqual{Bytes: caps[0].Int}, nil
		},
	},
	// 'that is not in X' (ancestry, resolved against cwd)
	{
		patterns: []patterns.Pattern{opt(lit("that")), opt(anyLit("is", "are")), patterns.Not{}, lit("in"), patterns.String{}},
		build: func(caps []patterns.Capture, cwd string) (filters.Filter, error) {
			return filters.IsInPath{Path: resolvePath(cwd, caps[0].Str)}, nil
		},
	},
	// 'that is not hidden'
	{
		patterns: []patterns.Pattern{opt(lit("that")), opt(anyLit("is", "are")), patterns.Not{}, lit("hidden")},
		build: func(caps []patterns.Capture, cwd string) (filters.Filter, error) {
			return filters.IsHidden{}, nil
		},
	},
	// 'that has extension X'
	{
		patterns: []patterns.Pattern{opt(lit("that")), anyLit("has", "have"), anyLit("ext", "extension"), patterns.String{}},
		build: func(caps []patterns.Capture, cwd string) (filters.Filter, error) {
			return filters.NewHasExtension(caps[0].Str), nil
		},
	},
	// 'with extension X'
	{
		patterns: []patterns.Pattern{lit("with"), anyLit("ext", "extension"), patterns.String{}},
		build: func(caps []patterns.Capture, cwd string) (filters.Filter, error) {
			return filters.NewHasExtension(caps[0].Str), nil
		},
	},
}

// matchPhraseAt tries every phrase in table order at the head of tokens.
// It returns the built filter and the token count consumed, or zero
// consumed when nothing matches.
func matchPhraseAt(tokens []string, cwd string) (filters.Filter, int, error) {
	for _, ph := range phraseTable {
		m, ok := patterns.TryPhraseMatch(ph.patterns, tokens)
		if !ok {
			continue
		}

		f, err := ph.build(m.Captures, cwd)
		if err != nil {
			return nil, 0, err
		}
		if m.Negated {
			f = f.Negate()
		}
		return f, m.TokensConsumed, nil
	}
	return nil, 0, nil
}

func startsPhrase(tokens []string) bool {
	for _, ph := range phraseTable {
		if m, ok := patterns.TryPhraseMatch(ph.patterns, tokens); ok && m.TokensConsumed > 0 {
			return true
		}
	}
	return false
}
