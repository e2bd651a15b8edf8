package site

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/ziadkadry99/blogdeck/internal/blog"
	"github.com/ziadkadry99/blogdeck/internal/logging"
	"github.com/ziadkadry99/blogdeck/internal/posts"
	"github.com/ziadkadry99/blogdeck/internal/progress"
	"github.com/ziadkadry99/blogdeck/internal/render"
)

// ExcerptsFile is the name of the excerpt index written next to the pages.
const ExcerptsFile = "excerpts.json"

// PostPage loads post id and fills a page with its rendered body. The error
// wraps posts.ErrNotFound only when the post has no document; fetch failures
// keep their own cause.
func PostPage(ctx context.Context, store *posts.Store, r *render.Renderer, msgs blog.Messages, id string) (render.Page, error) {
	detail, err := store.Detail(ctx, id)
	if err != nil {
		return render.Page{}, err
	}
	detail = msgs.Fill(detail)

	doc, err := store.LoadDocument(ctx, id)
	if err != nil {
		return render.Page{}, err
	}

	content, err := r.Markdown(doc.Body)
	if err != nil {
		return render.Page{}, fmt.Errorf("post %s: %w", id, err)
	}

	return render.Page{
		Lang:      msgs.Tag.String(),
		Title:     detail.Title,
		Date:      detail.Date,
		Category:  detail.Category,
		Content:   content,
		BackLabel: msgs.BackToList,
	}, nil
}

// Entry is one post in the excerpt index.
type Entry struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Date     string `json:"date"`
	Category string `json:"category"`
	Excerpt  string `json:"excerpt"`
	Path     string `json:"path"`
}

// Exporter renders every indexed post to a static HTML page.
type Exporter struct {
	Store     *posts.Store
	Renderer  *render.Renderer
	Messages  blog.Messages
	OutputDir string
	Reporter  progress.Reporter

	log zerolog.Logger
}

// NewExporter creates an Exporter writing to outputDir.
func NewExporter(store *posts.Store, r *render.Renderer, msgs blog.Messages, outputDir string, reporter progress.Reporter) *Exporter {
	if reporter == nil {
		reporter = progress.Discard{}
	}
	return &Exporter{
		Store:     store,
		Renderer:  r,
		Messages:  msgs,
		OutputDir: outputDir,
		Reporter:  reporter,
		log:       logging.Component("export"),
	}
}

// Export writes posts/<id>.html for every post with a document, plus the
// stylesheet and the excerpt index. It returns the excerpt index entries.
// Posts whose document is missing are skipped.
func (e *Exporter) Export(ctx context.Context) ([]Entry, error) {
	summaries := e.Store.Summaries()
	if len(summaries) == 0 {
		return nil, fmt.Errorf("no posts in index")
	}

	postsDir := filepath.Join(e.OutputDir, "posts")
	if err := os.MkdirAll(postsDir, 0o755); err != nil {
		return nil, err
	}

	if err := os.WriteFile(filepath.Join(e.OutputDir, "style.css"), []byte(cssContent), 0o644); err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(summaries))
	e.Reporter.Start(len(summaries))
	for i, s := range summaries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page, err := PostPage(ctx, e.Store, e.Renderer, e.Messages, s.ID)
		if errors.Is(err, posts.ErrNotFound) {
			e.log.Warn().Str("id", s.ID).Msg("skipping post without document")
			e.Reporter.Update(i+1, "skipped "+s.ID)
			continue
		}
		if err != nil {
			return nil, err
		}
		page.Content = render.RewriteMDLinks(page.Content)
		page.BasePath = "../"

		rel := "posts/" + s.ID + ".html"
		if err := e.writePage(filepath.Join(e.OutputDir, filepath.FromSlash(rel)), page); err != nil {
			return nil, fmt.Errorf("rendering %s: %w", rel, err)
		}

		d := e.Messages.Fill(e.Store.Cached(s.ID))
		entries = append(entries, Entry{
			ID:       s.ID,
			Title:    d.Title,
			Date:     d.Date,
			Category: d.Category,
			Excerpt:  d.Excerpt,
			Path:     rel,
		})
		e.Reporter.Update(i+1, rel)
	}
	e.Reporter.Finish()

	if err := WriteExcerpts(entries, filepath.Join(e.OutputDir, ExcerptsFile)); err != nil {
		return nil, fmt.Errorf("writing excerpt index: %w", err)
	}

	e.log.Info().Int("pages", len(entries)).Str("dir", e.OutputDir).Msg("export finished")
	return entries, nil
}

func (e *Exporter) writePage(path string, page render.Page) error {
	var buf bytes.Buffer
	if err := e.Renderer.Page(&buf, page); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// WriteExcerpts writes the excerpt index as JSON.
func WriteExcerpts(entries []Entry, outputPath string) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(outputPath, data, 0o644)
}
