package parsing

import (
	"errors"
	"fmt"
)

// ErrSyntax is the umbrella for all user-input parse failures. Every error
// returned by this package matches errors.Is(err, ErrSyntax), so callers
// can distinguish malformed queries from internal failures with one check.
var ErrSyntax = errors.New("syntax error")

// ErrEmptyInput is returned for a query with no tokens.
var ErrEmptyInput = fmt.Errorf("%w: empty input", ErrSyntax)

// ErrEndOfInput is returned when a command ends before a required part.
var ErrEndOfInput = fmt.Errorf("%w: premature end of input", ErrSyntax)

// UnknownCommandError reports an unrecognized command verb.
type UnknownCommandError struct {
	Command string
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("unknown command %q", e.Command)
}

func (e *UnknownCommandError) Unwrap() error { return ErrSyntax }

// NoMatchingPatternError reports a token at which no predicate phrase in
// the grammar matched.
type NoMatchingPatternError struct {
	Token string
}

func (e *NoMatchingPatternError) Error() string {
	return fmt.Sprintf("no matching pattern at %q", e.Token)
}

func (e *NoMatchingPatternError) Unwrap() error { return ErrSyntax }

// ExpectedTokenError reports a required literal token that was missing.
type ExpectedTokenError struct {
	Expected string
	Actual   string
}

func (e *ExpectedTokenError) Error() string {
	if e.Actual == "" {
		return fmt.Sprintf("expected %q", e.Expected)
	}
	return fmt.Sprintf("expected %q, got %q", e.Expected, e.Actual)
}

func (e *ExpectedTokenError) Unwrap() error { return ErrSyntax }

// ExtraInputError reports trailing tokens after a complete command.
type ExtraInputError struct {
	Token string
}

func (e *ExtraInputError) Error() string {
	return fmt.Sprintf("extra input starting at %q", e.Token)
}

func (e *ExtraInputError) Unwrap() error { return ErrSyntax }
