// Package patterns implements the phrase-pattern engine behind the query
// grammar. A phrase is an ordered list of atomic word patterns; matching a
// phrase against a token slice yields the captured values, a negation flag,
// and the number of tokens consumed so the caller can keep scanning.
package patterns

import (
	"strconv"
	"strings"
)

// CaptureKind discriminates what a pattern captured from a token.
type CaptureKind int

const (
	CaptureNone CaptureKind = iota
	CaptureString
	CaptureInt
)

// Capture is a value extracted from a single token. Int carries parsed
// numbers and byte counts; Str carries everything else.
type Capture struct {
	Kind CaptureKind
	Str  string
	Int  int64
}

// StringCapture wraps a token as a string capture.
func StringCapture(s string) Capture {
	return Capture{Kind: CaptureString, Str: s}
}

// IntCapture wraps a parsed number as an integer capture.
func IntCapture(n int64) Capture {
	return Capture{Kind: CaptureInt, Int: n}
}

// WordMatch is the result of matching one atomic pattern against one token.
// Optional patterns may succeed without consuming the token.
type WordMatch struct {
	Captured Capture
	Consumed bool
	Negated  bool
}

// Pattern matches a single token. The second return value reports whether
// the pattern matched at all; a match with Consumed=false leaves the token
// for the next pattern in the phrase.
type Pattern interface {
	Match(token string) (WordMatch, bool)
}

// Lit matches one literal word, case-insensitively.
type Lit struct {
	Literal string
}

func (p Lit) Match(token string) (WordMatch, bool) {
	if !strings.EqualFold(token, p.Literal) {
		return WordMatch{}, false
	}
	return WordMatch{Consumed: true}, true
}

// AnyLit matches any one of a list of literal words, case-insensitively.
type AnyLit struct {
	Literals []string
}

func (p AnyLit) Match(token string) (WordMatch, bool) {
	for _, literal := range p.Literals {
		if strings.EqualFold(token, literal) {
			return WordMatch{Consumed: true}, true
		}
	}
	return WordMatch{}, false
}

// Opt makes an inner pattern optional: if the inner pattern fails, Opt
// succeeds without consuming the token.
type Opt struct {
	Pattern Pattern
}

func (p Opt) Match(token string) (WordMatch, bool) {
	if m, ok := p.Pattern.Match(token); ok {
		return m, true
	}
	return WordMatch{}, true
}

// Not matches the word "not", setting the negation flag on the phrase.
// Absence of "not" is not a failure; the pattern simply consumes nothing.
type Not struct{}

func (p Not) Match(token string) (WordMatch, bool) {
	if strings.EqualFold(token, "not") {
		return WordMatch{Consumed: true, Negated: true}, true
	}
	return WordMatch{}, true
}

// Int matches a token that parses as a (possibly signed) integer.
type Int struct{}

func (p Int) Match(token string) (WordMatch, bool) {
	n, err := strconv.ParseInt(token, 0, 64)
	if err != nil {
		return WordMatch{}, false
	}
	return WordMatch{Captured: IntCapture(n), Consumed: true}, true
}

// Decimal matches a token that is a plain decimal number, integer or
// fractional, and captures its text. Numeric interpretation is left to the
// phrase that uses it.
type Decimal struct{}

func (p Decimal) Match(token string) (WordMatch, bool) {
	if token == "" {
		return WordMatch{}, false
	}
	whole, frac, _ := strings.Cut(token, ".")
	if whole == "" && frac == "" {
		return WordMatch{}, false
	}
	for _, digit := range whole + frac {
		if digit < '0' || digit > '9' {
			return WordMatch{}, false
		}
	}
	return WordMatch{Captured: StringCapture(token), Consumed: true}, true
}

// String matches any non-empty token and captures it verbatim.
type String struct{}

func (p String) Match(token string) (WordMatch, bool) {
	if token == "" {
		return WordMatch{}, false
	}
	return WordMatch{Captured: StringCapture(token), Consumed: true}, true
}

// SizeUnit matches a fused size token such as "10kb" or "10.7gb": a decimal
// number joined to a unit with no space. Units are decimal (kb = 1000), and
// the capture is the exact integer byte count.
type SizeUnit struct{}

var sizeUnits = []struct {
	suffix     string
	multiplier int64
}{
	// longer suffixes first so "bytes" is not cut to "b"
	{"kilobytes", 1_000},
	{"kilobyte", 1_000},
	{"megabytes", 1_000_000},
	{"megabyte", 1_000_000},
	{"gigabytes", 1_000_000_000},
	{"gigabyte", 1_000_000_000},
	{"bytes", 1},
	{"byte", 1},
	{"kb", 1_000},
	{"mb", 1_000_000},
	{"gb", 1_000_000_000},
	{"b", 1},
}

func (p SizeUnit) Match(token string) (WordMatch, bool) {
	lower := strings.ToLower(token)
	for _, unit := range sizeUnits {
		number, found := strings.CutSuffix(lower, unit.suffix)
		if !found || number == "" {
			continue
		}

		bytes, ok := decimalTimes(number, unit.multiplier)
		if !ok {
			return WordMatch{}, false
		}
		return WordMatch{Captured: IntCapture(bytes), Consumed: true}, true
	}
	return WordMatch{}, false
}

// decimalTimes computes number*multiplier exactly for a decimal string like
// "10.7". Fractional digits beyond the multiplier's precision are truncated.
func decimalTimes(number string, multiplier int64) (int64, bool) {
	whole, frac, _ := strings.Cut(number, ".")
	if whole == "" {
		whole = "0"
	}

	n, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	total := n * multiplier

	scale := multiplier
	for _, digit := range frac {
		if digit < '0' || digit > '9' {
			return 0, false
		}
		scale /= 10
		total += int64(digit-'0') * scale
	}

	return total, true
}

// PhraseMatch is the result of matching an entire phrase against a token
// slice starting at position zero.
type PhraseMatch struct {
	Captures       []Capture
	Negated        bool
	TokensConsumed int
}

// TryPhraseMatch matches an ordered list of patterns against tokens. It
// returns false as soon as any pattern fails. A phrase that runs past the
// end of input sees empty-string tokens, so trailing optional patterns can
// still succeed.
//
// A phrase definition with two negation markers is a programming defect and
// panics.
func TryPhraseMatch(phrase []Pattern, tokens []string) (PhraseMatch, bool) {
	var match PhraseMatch

	for _, pattern := range phrase {
		token := ""
		if match.TokensConsumed < len(tokens) {
			token = tokens[match.TokensConsumed]
		}

		m, ok := pattern.Match(token)
		if !ok {
			return PhraseMatch{}, false
		}

		if m.Consumed {
			match.TokensConsumed++
		}
		if m.Captured.Kind != CaptureNone {
			match.Captures = append(match.Captures, m.Captured)
		}
		if m.Negated {
			if match.Negated {
				panic("patterns: multiple negations in the same phrase")
			}
			match.Negated = true
		}
	}

	return match, true
}
