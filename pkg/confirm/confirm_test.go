package confirm

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iafisher/batchop/internal/testutil"
	"github.com/iafisher/batchop/pkg/fileset"
)

func resolveFiles(t *testing.T) *fileset.FileSet {
	t.Helper()

	root := t.TempDir()
	testutil.CreateCanonicalTree(t, root)

	fs, err := fileset.New().IsFile().Resolve(root, true)
	require.NoError(t, err)
	return fs
}

func TestPrompter_Yes(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	p := New(strings.NewReader("yes\n"), &out, nil)

	ok, err := p.Confirm("Delete 5 files? ", resolveFiles(t))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Delete 5 files? ", out.String())
}

func TestPrompter_ShortForms(t *testing.T) {
	t.Parallel()

	fs := resolveFiles(t)

	for response, want := range map[string]bool{"y": true, "Y": true, "n": false, "NO": false} {
		var out bytes.Buffer
		p := New(strings.NewReader(response+"\n"), &out, nil)

		ok, err := p.Confirm("? ", fs)
		require.NoError(t, err)
		assert.Equal(t, want, ok, "response %q", response)
	}
}

func TestPrompter_ListThenDecline(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	p := New(strings.NewReader("list\nno\n"), &out, nil)

	ok, err := p.Confirm("? ", resolveFiles(t))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Contains(t, out.String(), "constitution.txt")
	assert.Contains(t, out.String(), "pride-and-prejudice/pride-and-prejudice-ch1.txt")
}

func TestPrompter_RandomSampleThenDecline(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	p := New(strings.NewReader("random\nn\n"), &out, nil)

	ok, err := p.Confirm("? ", resolveFiles(t))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Contains(t, out.String(), ".txt")
}

func TestPrompter_UnknownResponseReprompts(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	p := New(strings.NewReader("maybe\nyes\n"), &out, nil)

	ok, err := p.Confirm("? ", resolveFiles(t))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, out.String(), "Response not understood")
}

func TestPrompter_HelpListsCommands(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	p := New(strings.NewReader("help\nno\n"), &out, nil)

	ok, err := p.Confirm("? ", resolveFiles(t))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Contains(t, out.String(), "confirm operation")
}

func TestPrompter_EOFDeclines(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	p := New(strings.NewReader(""), &out, nil)

	ok, err := p.Confirm("? ", resolveFiles(t))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAuto_AlwaysApproves(t *testing.T) {
	t.Parallel()

	ok, err := Auto{}.Confirm("? ", nil)
	require.NoError(t, err)
	assert.True(t, ok)
}
