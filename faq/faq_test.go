package faq

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var want = []Entry{
	{Question: "How can I reset my password?", Answer: "You can reset your password from the settings page."},
	{Question: "What are your support hours?", Answer: "Our support is available 24/7."},
}

func TestLoadDefault(t *testing.T) {
	entries, err := Load("")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, want, entries[:2])
	assert.Equal(t, "Where can I buy a shirt?", entries[2].Question)
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name string
		file string
		data string
	}{
		{
			name: "json",
			file: "faq.json",
			data: `[
  {"question": "How can I reset my password?", "answer": "You can reset your password from the settings page."},
  {"question": "What are your support hours?", "answer": "Our support is available 24/7."}
]`,
		},
		{
			name: "yaml",
			file: "faq.yml",
			data: `- question: How can I reset my password?
  answer: You can reset your password from the settings page.
- question: "What are your support hours?"
  answer: "  Our support is available 24/7.  "
`,
		},
		{
			name: "markdown",
			file: "FAQ.md",
			data: `# Help Center

Answers to common questions.

## How can I reset my password?

You can reset your password
from the settings page.

## What are your support hours?

Our support is available 24/7.
`,
		},
		{
			name: "html",
			file: "faq.html",
			data: `<html><body>
<h1>Help Center</h1>
<h2>How can I reset my password?</h2>
<p>You can reset your password from the settings page.</p>
<h2>What are your support hours?</h2>
<p>Our support is available 24/7.</p>
</body></html>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := Parse(tt.file, []byte(tt.data))
			require.NoError(t, err)
			assert.Equal(t, want, entries)
		})
	}
}

func TestParseMarkdownMultipleBlocks(t *testing.T) {
	entries, err := Parse("faq.md", []byte(`## How do refunds work?

Refunds are issued within five days.

- Card payments go back to the card
- Store credit is immediate
`))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Refunds are issued within five days.\nCard payments go back to the card\nStore credit is immediate", entries[0].Answer)
}

func TestParseErrors(t *testing.T) {
	_, err := Parse("faq.json", []byte(`[]`))
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = Parse("faq.json", []byte(`[{"question": "Anyone there?", "answer": " "}]`))
	assert.Error(t, err)

	_, err = Parse("faq.md", []byte("# Only a title\n\nNo questions here.\n"))
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = Parse("faq.txt", []byte("Q: a\nA: b"))
	assert.Error(t, err)

	_, err = Parse("faq.json", []byte(`{not json`))
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "faq.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- question: Q1\n  answer: A1\n"), 0o644))

	entries, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []Entry{{Question: "Q1", Answer: "A1"}}, entries)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
