package content

import (
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

const ExcerptLength = 140

// PlainText returns the visible text of an HTML fragment with whitespace
// collapsed.
func PlainText(fragment string) string {
	var (
		sb   strings.Builder
		skip int
		z    = html.NewTokenizer(strings.NewReader(fragment))
	)

	for {
		switch tt := z.Next(); tt {
		case html.ErrorToken:
			if z.Err() != io.EOF {
				return ""
			}
			return strings.Join(strings.Fields(sb.String()), " ")
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			if tt == html.StartTagToken && isSkippedTag(string(name)) {
				skip++
			}
			if !isInlineTag(string(name)) {
				sb.WriteByte(' ')
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if isSkippedTag(string(name)) && skip > 0 {
				skip--
			}
			if !isInlineTag(string(name)) {
				sb.WriteByte(' ')
			}
		case html.TextToken:
			if skip == 0 {
				sb.Write(z.Text())
			}
		}
	}
}

func isSkippedTag(name string) bool {
	switch name {
	case "script", "style", "template":
		return true
	}
	return false
}

func isInlineTag(name string) bool {
	switch name {
	case "a", "abbr", "b", "cite", "code", "del", "em", "i", "ins", "kbd",
		"mark", "q", "s", "small", "span", "strong", "sub", "sup", "time", "u":
		return true
	}
	return false
}

// Excerpt cuts the plain text of an HTML fragment to at most max runes on a
// word boundary, appending an ellipsis when anything was cut.
func Excerpt(fragment string, max int) string {
	text := PlainText(fragment)
	if utf8.RuneCountInString(text) <= max {
		return text
	}

	runes := []rune(text)
	cut := string(runes[:max])
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "…"
}
