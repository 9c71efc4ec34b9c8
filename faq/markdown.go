package faq

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// parseMarkdown treats every heading below the top level as a question
// and the blocks up to the next heading as its answer. Top-level
// headings are document titles.
func parseMarkdown(source []byte) []Entry {
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var (
		entries []Entry
		current *Entry
		answer  []string
	)
	flush := func() {
		if current != nil {
			current.Answer = strings.Join(answer, "\n")
			entries = append(entries, *current)
		}
		current, answer = nil, nil
	}

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if heading, ok := n.(*ast.Heading); ok {
			flush()
			if heading.Level > 1 {
				current = &Entry{Question: blockText(heading, source)}
			}
			continue
		}
		if current != nil {
			if t := blockText(n, source); t != "" {
				answer = append(answer, t)
			}
		}
	}
	flush()
	return entries
}

func blockText(n ast.Node, source []byte) string {
	if lines := n.Lines(); lines.Len() > 0 {
		parts := make([]string, 0, lines.Len())
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			if s := strings.TrimSpace(string(seg.Value(source))); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " ")
	}
	var parts []string
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if s := blockText(c, source); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n")
}
