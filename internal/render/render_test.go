package render

import (
	"bytes"
	"html/template"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdown(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	got, err := r.Markdown("# Title\n\n- [x] done\n\n| a | b |\n|---|---|\n| 1 | 2 |\n")
	require.NoError(t, err)

	out := string(got)
	assert.Contains(t, out, `<h1 id="title">Title</h1>`)
	assert.Contains(t, out, `type="checkbox"`)
	assert.Contains(t, out, "<table>")
}

func TestMarkdownHighlightsCode(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	got, err := r.Markdown("```go\nfunc main() {}\n```\n")
	require.NoError(t, err)
	assert.Contains(t, string(got), "<pre")
	assert.Contains(t, string(got), "main")
}

func TestPage(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	var buf bytes.Buffer
	err = r.Page(&buf, Page{
		Title:     "Go <Channels>",
		Date:      "2024-01-15 09:30",
		Category:  "Go",
		Content:   "<p>body</p>",
		BasePath:  "../",
		BackLabel: "목록",
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `<html lang="ko" data-theme="light">`)
	assert.Contains(t, out, "Go &lt;Channels&gt;")
	assert.Contains(t, out, "<p>body</p>")
	assert.Contains(t, out, `href="../style.css"`)
	assert.Contains(t, out, "2024-01-15 09:30")
	assert.NotContains(t, out, "/livereload")
}

func TestPageLiveReload(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Page(&buf, Page{Title: "x", Theme: "dark", LiveReload: true}))
	assert.Contains(t, buf.String(), `data-theme="dark"`)
	assert.True(t, strings.Contains(buf.String(), "/livereload"))
}

func TestRewriteMDLinks(t *testing.T) {
	in := `<a href="7.md">next</a> <a href="7.md#intro">intro</a> <a href="https://x.y/readme">ext</a>`
	want := `<a href="7.html">next</a> <a href="7.html#intro">intro</a> <a href="https://x.y/readme">ext</a>`
	assert.Equal(t, want, string(RewriteMDLinks(template.HTML(in))))
}
