package util

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// DefaultSnippetLen bounds how much of an upstream body ends up in a diagnostic.
const DefaultSnippetLen = 256

// Snippet reduces an upstream response body to a short single-line hint for error messages.
//
// Wikipedia serves error pages as HTML, so markup is dropped and only visible text is kept.
// The result is truncated to max runes (DefaultSnippetLen when max <= 0).
func Snippet(body []byte, max int) string {
	if len(body) == 0 {
		return ""
	}
	if max <= 0 {
		max = DefaultSnippetLen
	}

	text := string(body)
	if looksLikeHTML(body) {
		text = visibleText(body)
	}
	text = CollapseSpace(text)
	if text == "" {
		return ""
	}
	if utf8.RuneCountInString(text) <= max {
		return text
	}
	runes := []rune(text)
	return strings.TrimSpace(string(runes[:max])) + "..."
}

// CollapseSpace replaces every run of whitespace (including newlines) with a single space.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func looksLikeHTML(body []byte) bool {
	head := bytes.ToLower(bytes.TrimSpace(body))
	if len(head) > 512 {
		head = head[:512]
	}
	return bytes.HasPrefix(head, []byte("<!doctype html")) ||
		bytes.HasPrefix(head, []byte("<html")) ||
		bytes.Contains(head, []byte("<body"))
}

func visibleText(body []byte) string {
	z := html.NewTokenizer(bytes.NewReader(body))
	var b strings.Builder
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF or a tokenizer error; either way keep what was collected.
			return b.String()
		case html.StartTagToken:
			if name, _ := z.TagName(); isHiddenTag(name) {
				skip++
			}
		case html.EndTagToken:
			if name, _ := z.TagName(); isHiddenTag(name) && skip > 0 {
				skip--
			}
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
				b.WriteByte(' ')
			}
		}
	}
}

func isHiddenTag(name []byte) bool {
	switch string(name) {
	case "script", "style", "head":
		return true
	}
	return false
}
