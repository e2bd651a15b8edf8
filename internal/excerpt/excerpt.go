// Package excerpt turns a markdown body into a short plain-text teaser.
package excerpt

import (
	"regexp"
	"strings"
)

// DefaultMaxLength is the excerpt length used when callers pass a
// non-positive maximum.
const DefaultMaxLength = 120

// Ellipsis is appended to truncated excerpts.
const Ellipsis = "..."

// ws matches ASCII whitespace plus NBSP, U+3000 and the other Unicode space
// separators. RE2's \s alone is ASCII only.
const ws = `[\s\v\p{Zs}\x{2028}\x{2029}\x{FEFF}]`

// strip rules run in order. Fenced code must go before inline code so the
// backtick runs of a fence are never read as inline spans.
var strip = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile(`(?m)^#+` + ws + `+.*$`), ""},
	{regexp.MustCompile("```[\\s\\S]*?```"), ""},
	{regexp.MustCompile("`[^`]+`"), ""},
	{regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`), "${1}"},
	{regexp.MustCompile(`[*_~]+`), ""},
	{regexp.MustCompile(`(?m)^` + ws + `*[-*]` + ws + `+`), ""},
	{regexp.MustCompile(`(?m)^` + ws + `*\d+\.` + ws + `+`), ""},
	{regexp.MustCompile(`\n+`), " "},
}

// Clean removes markdown markup from body and flattens it to one line.
func Clean(body string) string {
	text := body
	for _, r := range strip {
		text = r.re.ReplaceAllString(text, r.repl)
	}
	return strings.TrimSpace(text)
}

// Extract returns the cleaned body cut to at most max characters. Longer
// text is cut back to the last word boundary and gets Ellipsis appended.
// Lengths count runes so multi-byte text is never split mid-character.
func Extract(body string, max int) string {
	if max <= 0 {
		max = DefaultMaxLength
	}

	text := Clean(body)
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}

	truncated := string(runes[:max])
	if i := strings.LastIndex(truncated, " "); i > 0 {
		truncated = truncated[:i]
	}
	return truncated + Ellipsis
}
