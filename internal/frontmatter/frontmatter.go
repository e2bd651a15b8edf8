// Package frontmatter splits a post document into its leading key/value
// block and the markdown body that follows it.
package frontmatter

import (
	"regexp"
	"strings"
)

// blockPattern matches a "---" delimited block at the very start of the
// document. The block is matched lazily so the first closing delimiter wins.
var blockPattern = regexp.MustCompile(`^---\s*\n([\s\S]*?)\n---\s*\n([\s\S]*)$`)

// Document is a parsed post document.
type Document struct {
	Metadata map[string]string
	Body     string
}

// Parse extracts the frontmatter block from raw. Documents without a
// well-formed block come back with empty metadata and raw as the body.
func Parse(raw string) Document {
	m := blockPattern.FindStringSubmatch(raw)
	if m == nil {
		return Document{Metadata: map[string]string{}, Body: raw}
	}

	meta := make(map[string]string)
	for _, line := range strings.Split(m[1], "\n") {
		idx := strings.Index(line, ":")
		if idx <= 0 {
			continue
		}
		key := strings.TrimSpace(line[:idx])
		meta[key] = strings.TrimSpace(line[idx+1:])
	}

	return Document{Metadata: meta, Body: m[2]}
}

// Get returns the metadata value for key, or fallback when the key is
// missing or blank.
func (d Document) Get(key, fallback string) string {
	if v := d.Metadata[key]; v != "" {
		return v
	}
	return fallback
}
