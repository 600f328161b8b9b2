package patterns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertMatch(t *testing.T, phrase []Pattern, tokens []string, captures []Capture, negated bool) {
	t.Helper()

	m, ok := TryPhraseMatch(phrase, tokens)
	require.True(t, ok, "expected phrase to match %v", tokens)
	assert.Equal(t, captures, m.Captures)
	assert.Equal(t, negated, m.Negated)
}

func assertNoMatch(t *testing.T, phrase []Pattern, tokens []string) {
	t.Helper()

	_, ok := TryPhraseMatch(phrase, tokens)
	assert.False(t, ok, "expected phrase not to match %v", tokens)
}

func TestTryPhraseMatch_Literal(t *testing.T) {
	t.Parallel()

	phrase := []Pattern{Lit{"is"}}
	assertMatch(t, phrase, []string{"is"}, nil, false)
	assertMatch(t, phrase, []string{"IS"}, nil, false)
	assertNoMatch(t, phrase, []string{"are"})
}

func TestTryPhraseMatch_Optional(t *testing.T) {
	t.Parallel()

	phrase := []Pattern{Opt{Lit{"an"}}}
	assertMatch(t, phrase, []string{"folder"}, nil, false)
	assertMatch(t, phrase, []string{"an"}, nil, false)
	assertMatch(t, phrase, nil, nil, false)
}

func TestTryPhraseMatch_String(t *testing.T) {
	t.Parallel()

	phrase := []Pattern{Lit{"named"}, String{}}
	assertMatch(t, phrase, []string{"named", "test.txt"}, []Capture{StringCapture("test.txt")}, false)
	assertNoMatch(t, phrase, []string{"named"})
}

func TestTryPhraseMatch_AnyLit(t *testing.T) {
	t.Parallel()

	phrase := []Pattern{AnyLit{[]string{"gt", ">"}}}
	assertMatch(t, phrase, []string{"gt"}, nil, false)
	assertMatch(t, phrase, []string{">"}, nil, false)
	assertNoMatch(t, phrase, []string{"<"})
}

func TestTryPhraseMatch_NegationAndSizeUnit(t *testing.T) {
	t.Parallel()

	phrase := []Pattern{Opt{Lit{"is"}}, Not{}, SizeUnit{}}

	assertMatch(t, phrase, []string{"is", "10.7gb"}, []Capture{IntCapture(10_700_000_000)}, false)
	assertMatch(t, phrase, []string{"is", "not", "2.1mb"}, []Capture{IntCapture(2_100_000)}, true)
	assertMatch(t, phrase, []string{"not", "2.1mb"}, []Capture{IntCapture(2_100_000)}, true)
	assertNoMatch(t, phrase, []string{"is", "not", "huge"})
}

func TestTryPhraseMatch_ConsumedCount(t *testing.T) {
	t.Parallel()

	phrase := []Pattern{Opt{Lit{"that"}}, AnyLit{[]string{"is", "are"}}, Not{}, Opt{Lit{"a"}}, Lit{"file"}}

	m, ok := TryPhraseMatch(phrase, []string{"that", "is", "not", "a", "file", "trailing"})
	require.True(t, ok)
	assert.Equal(t, 5, m.TokensConsumed)
	assert.True(t, m.Negated)

	m, ok = TryPhraseMatch(phrase, []string{"is", "file"})
	require.True(t, ok)
	assert.Equal(t, 2, m.TokensConsumed)
	assert.False(t, m.Negated)
}

func TestSizeUnit_Units(t *testing.T) {
	t.Parallel()

	cases := map[string]int64{
		"1b":      1,
		"12bytes": 12,
		"1kb":     1_000,
		"10kb":    10_000,
		"1.5kb":   1_500,
		"2MB":     2_000_000,
		"3gb":     3_000_000_000,
	}
	for token, want := range cases {
		m, ok := SizeUnit{}.Match(token)
		require.True(t, ok, "expected %q to match", token)
		assert.Equal(t, IntCapture(want), m.Captured, "token %q", token)
	}

	for _, token := range []string{"kb", "10", "10 kb", "x10kb", "10tb", ""} {
		_, ok := SizeUnit{}.Match(token)
		assert.False(t, ok, "expected %q not to match", token)
	}
}

func TestDecimal_Matches(t *testing.T) {
	t.Parallel()

	for _, token := range []string{"10", "10.7", "0.5", ".5", "10."} {
		m, ok := Decimal{}.Match(token)
		require.True(t, ok, "expected %q to match", token)
		assert.Equal(t, StringCapture(token), m.Captured, "token %q", token)
	}

	for _, token := range []string{"", ".", "1.2.3", "ten", "-1", "1e3"} {
		_, ok := Decimal{}.Match(token)
		assert.False(t, ok, "expected %q not to match", token)
	}
}

func TestInt_ParsesBase0(t *testing.T) {
	t.Parallel()

	m, ok := Int{}.Match("0x10")
	require.True(t, ok)
	assert.Equal(t, IntCapture(16), m.Captured)

	_, ok = Int{}.Match("ten")
	assert.False(t, ok)
}

func TestTryPhraseMatch_DoubleNegationPanics(t *testing.T) {
	t.Parallel()

	phrase := []Pattern{Not{}, Not{}}
	assert.Panics(t, func() {
		TryPhraseMatch(phrase, []string{"not", "not"})
	})
}
