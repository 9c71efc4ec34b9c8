package controller

import (
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// replyFlags drop raw HTML and unsafe links; the page inserts the result
// with innerHTML.
const replyFlags = html.CommonFlags | html.SkipHTML | html.Safelink |
	html.NofollowLinks | html.NoreferrerLinks | html.HrefTargetBlank

var safeLinkPrefixes = []string{"http://", "https://", "ftp://", "mailto:", "/", "./", "../", "#"}

// isSafeLink allows web and mail links and relative paths. It replaces
// parser.IsSafeURL, which slices past the end of very short links.
func isSafeLink(link []byte) bool {
	s := strings.ToLower(string(link))
	for _, prefix := range safeLinkPrefixes {
		if len(s) > len(prefix) && strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return s == "/"
}

// RenderMarkdown converts a model reply to HTML.
func RenderMarkdown(text string) string {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: replyFlags})
	renderer.IsSafeURLOverride = isSafeLink
	return string(markdown.ToHTML([]byte(text), p, renderer))
}
