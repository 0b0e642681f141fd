package markdown

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Description returns the plain text of the first non-empty paragraph of
// rendered HTML, truncated to at most limit runes on a word boundary.
func Description(renderedHTML string, limit int) string {
	z := html.NewTokenizer(strings.NewReader(renderedHTML))

	depth := 0
	var b strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			return truncate(collapse(b.String()), limit)
		case html.StartTagToken:
			name, _ := z.TagName()
			if atom.Lookup(name) == atom.P {
				depth++
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if atom.Lookup(name) == atom.P && depth > 0 {
				depth--
				if text := collapse(b.String()); depth == 0 && text != "" {
					return truncate(text, limit)
				}
			}
		case html.TextToken:
			if depth > 0 {
				b.Write(z.Text())
			}
		}
	}
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	cut := string(runes[:limit])
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "…"
}
