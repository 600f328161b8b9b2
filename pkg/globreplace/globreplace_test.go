package globreplace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToRegex(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `^(.+?)\.md$`, ToRegex("*.md"))
	assert.Equal(t, `^(.+?)\.(.+?) (.+?)\.md$`, ToRegex("*.* *.md"))
	assert.Equal(t, `^(.+?)\.(.+?)$`, ToRegex("*.*"))
}

func TestToRepl(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "${1} ${2}.${3}", ToRepl("#1 #2.#3"))
	assert.Equal(t, "plain.md", ToRepl("plain.md"))
}

func TestSubstitute(t *testing.T) {
	t.Parallel()

	re, repl, err := Compile("B*.* *.md", "book #1 #3.md")
	require.NoError(t, err)

	name, matched := Substitute(re, repl, "B2024.05 Underworld.md")
	assert.True(t, matched)
	assert.Equal(t, "book 2024 Underworld.md", name)

	name, matched = Substitute(re, repl, "unrelated.txt")
	assert.False(t, matched)
	assert.Equal(t, "unrelated.txt", name)
}

func TestSubstitute_ChapterNumbers(t *testing.T) {
	t.Parallel()

	re, repl, err := Compile("pride-and-prejudice-ch*.txt", "ch#1.txt")
	require.NoError(t, err)

	name, matched := Substitute(re, repl, "pride-and-prejudice-ch1.txt")
	assert.True(t, matched)
	assert.Equal(t, "ch1.txt", name)
}
