package linker

import (
	"bytes"
	"io"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// elements whose text is never linked
var skipElements = map[string]bool{"a": true, "script": true, "style": true, "textarea": true}

// InsertLink wraps the first whole-word, case-insensitive occurrence of anchor found in the text
// of content with a link to target. Markup is never matched and text inside existing links,
// scripts, styles and textareas is left alone. Returns false if nothing was replaced.
func InsertLink(content, anchor, target string) (string, bool) {
	re := anchorRegexp(anchor)
	if re == nil {
		return content, false
	}

	var out bytes.Buffer
	out.Grow(len(content) + len(target) + 16)
	z := html.NewTokenizer(strings.NewReader(content))
	skipDepth, done := 0, false

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if z.Err() != io.EOF {
				return content, false
			}
			break
		}
		raw := z.Raw()

		switch tt {
		case html.StartTagToken:
			name, _ := z.TagName()
			if skipElements[string(name)] {
				skipDepth++
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if skipElements[string(name)] && skipDepth > 0 {
				skipDepth--
			}
		case html.TextToken:
			if done || skipDepth > 0 {
				break
			}
			loc := findWord(re, raw)
			if loc == nil {
				break
			}
			out.Write(raw[:loc[0]])
			out.WriteString(`<a href="`)
			out.WriteString(escapeAttr(target))
			out.WriteString(`">`)
			out.Write(raw[loc[0]:loc[1]])
			out.WriteString(`</a>`)
			out.Write(raw[loc[1]:])
			done = true
			continue
		}
		out.Write(raw)
	}

	if !done {
		return content, false
	}
	return out.String(), true
}

// anchorRegexp matches the anchor as written or in its entity-escaped form, case-insensitive
func anchorRegexp(anchor string) *regexp.Regexp {
	anchor = strings.TrimSpace(anchor)
	if anchor == "" {
		return nil
	}
	alts := regexp.QuoteMeta(anchor)
	if escaped := html.EscapeString(anchor); escaped != anchor {
		alts += "|" + regexp.QuoteMeta(escaped)
	}
	return regexp.MustCompile(`(?i)(?:` + alts + `)`)
}

// findWord returns the first match of re in text that is not a part of a longer word.
// Boundaries are checked only on the sides where the match itself starts or ends with a word rune.
func findWord(re *regexp.Regexp, text []byte) []int {
	for start := 0; start < len(text); {
		loc := re.FindIndex(text[start:])
		if loc == nil {
			return nil
		}
		from, to := start+loc[0], start+loc[1]
		if wordBoundary(text, from, to) {
			return []int{from, to}
		}
		_, size := utf8.DecodeRune(text[from:])
		start = from + max(size, 1)
	}
	return nil
}

func wordBoundary(text []byte, from, to int) bool {
	first, _ := utf8.DecodeRune(text[from:to])
	if isWordRune(first) && from > 0 {
		if prev, _ := utf8.DecodeLastRune(text[:from]); isWordRune(prev) {
			return false
		}
	}
	last, _ := utf8.DecodeLastRune(text[from:to])
	if isWordRune(last) && to < len(text) {
		if next, _ := utf8.DecodeRune(text[to:]); isWordRune(next) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}

func escapeAttr(s string) string {
	return html.EscapeString(s)
}
