package report

import (
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// flattenSnippet puts an element's serialized HTML on a single line so that
// every affected node occupies exactly one report line. Whitespace runs in
// text content collapse to one space; line breaks inside tags, quoted
// attribute values included, become spaces. Everything else is kept byte for
// byte, so a multi-line attribute value differs from the serialized HTML.
func flattenSnippet(s string) string {
	if !strings.ContainsAny(s, "\r\n") {
		return s
	}

	var sb strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if !errors.Is(z.Err(), io.EOF) {
				// The tokenizer stopped early; fall back to plain collapsing
				// so no content is lost.
				return collapseSpace(s)
			}
			break
		}

		raw := string(z.Raw())
		switch tt {
		case html.TextToken:
			sb.WriteString(collapseSpace(raw))
		default:
			sb.WriteString(lineBreaks.Replace(raw))
		}
	}
	return strings.TrimSpace(sb.String())
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// collapseSpace replaces each whitespace run with a single space, keeping a
// leading or trailing space if one was present.
func collapseSpace(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		if s == "" {
			return ""
		}
		return " "
	}

	out := strings.Join(fields, " ")
	if isSpace(s[0]) {
		out = " " + out
	}
	if isSpace(s[len(s)-1]) {
		out += " "
	}
	return out
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}
