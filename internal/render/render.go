// Package render turns post documents into full HTML pages.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// Page holds the data passed to the page template.
type Page struct {
	Lang     string
	Title    string
	Date     string
	Category string
	Content  template.HTML

	// BasePath prefixes links to shared assets, e.g. "../" for pages one
	// directory below the site root.
	BasePath string
	// Theme is "light" or "dark".
	Theme string
	// BackLabel captions the link back to the listing.
	BackLabel string
	// LiveReload adds the websocket client that reloads the page on change.
	LiveReload bool
}

// Renderer converts markdown to HTML and executes the page template.
type Renderer struct {
	md   goldmark.Markdown
	tmpl *template.Template
}

// New creates a Renderer with GFM and syntax highlighting.
func New() (*Renderer, error) {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)

	tmpl, err := template.New("page").Parse(pageTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing page template: %w", err)
	}

	return &Renderer{md: md, tmpl: tmpl}, nil
}

// Markdown converts a markdown body to HTML.
func (r *Renderer) Markdown(body string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(body), &buf); err != nil {
		return "", fmt.Errorf("converting markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// Page writes a complete HTML page.
func (r *Renderer) Page(w io.Writer, p Page) error {
	if p.Lang == "" {
		p.Lang = "ko"
	}
	if p.Theme == "" {
		p.Theme = "light"
	}
	return r.tmpl.Execute(w, p)
}

// RewriteMDLinks changes links to sibling .md documents into .html links,
// for pages written by the static export.
func RewriteMDLinks(content template.HTML) template.HTML {
	s := string(content)
	s = strings.ReplaceAll(s, `.md"`, `.html"`)
	s = strings.ReplaceAll(s, `.md#`, `.html#`)
	return template.HTML(s)
}

// pageTemplate is the Go html/template for each post page.
const pageTemplate = `<!DOCTYPE html>
<html lang="{{.Lang}}" data-theme="{{.Theme}}">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Title}}</title>
  <link rel="stylesheet" href="{{.BasePath}}style.css">
</head>
<body>
  <main class="post">
    <div class="top-bar">
      <a class="back-link" href="{{.BasePath}}index.html">← {{.BackLabel}}</a>
      <button class="theme-toggle" id="theme-toggle" aria-label="Toggle theme">◐</button>
    </div>
    <header class="post-header">
      <h1 class="post-title">{{.Title}}</h1>
      <div class="post-meta">
        {{if .Date}}<span class="post-date">{{.Date}}</span>{{end}}
        {{if .Category}}<span class="post-category">{{.Category}}</span>{{end}}
      </div>
    </header>
    <article class="post-body">
      {{.Content}}
    </article>
  </main>
  <script>
  (function() {
    var html = document.documentElement;
    var btn = document.getElementById("theme-toggle");
    if (!btn) return;
    btn.addEventListener("click", function() {
      fetch("/api/preferences/theme/toggle", {method: "POST", credentials: "same-origin"})
        .then(function(r) { return r.json(); })
        .then(function(body) { html.setAttribute("data-theme", body.theme); });
    });
  })();
  </script>
  {{if .LiveReload}}
  <script>
  (function() {
    var proto = location.protocol === "https:" ? "wss://" : "ws://";
    var ws = new WebSocket(proto + location.host + "/livereload");
    ws.onmessage = function(ev) {
      var msg = JSON.parse(ev.data);
      if (msg.type === "reload") location.reload();
    };
  })();
  </script>
  {{end}}
</body>
</html>`
