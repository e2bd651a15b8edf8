// Package posts loads the blog's post index and post documents through a
// Fetcher, keeping lightweight summaries for every post and building full
// details lazily on first request.
package posts

import (
	"context"
	"fmt"
	"path"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/ziadkadry99/blogdeck/internal/catalog"
	"github.com/ziadkadry99/blogdeck/internal/excerpt"
	"github.com/ziadkadry99/blogdeck/internal/frontmatter"
	"github.com/ziadkadry99/blogdeck/internal/logging"
)

const (
	DefaultIndexPath = "posts/posts.json"
	DefaultPostsDir  = "posts"
)

// Summary is the index-level view of a post.
type Summary struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	Title    string `json:"title"`
	Date     string `json:"date"`
}

// Detail is a post enriched from its markdown document. Title is empty when
// the document has no frontmatter title and Category is empty when the index
// lists the post without one; see WithPlaceholders.
type Detail struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Date     string `json:"date"`
	Category string `json:"category"`
	Excerpt  string `json:"excerpt"`
}

// WithPlaceholders returns a copy of d with an empty title replaced by
// untitled and an empty category replaced by other. Cached details are
// never modified.
func (d *Detail) WithPlaceholders(untitled, other string) *Detail {
	out := *d
	if out.Title == "" {
		out.Title = untitled
	}
	if out.Category == "" {
		out.Category = other
	}
	return &out
}

// Options configures a Store. Zero values fall back to the defaults above
// and excerpt.DefaultMaxLength.
type Options struct {
	IndexPath     string
	PostsDir      string
	ExcerptLength int
}

func (o Options) withDefaults() Options {
	if o.IndexPath == "" {
		o.IndexPath = DefaultIndexPath
	}
	if o.PostsDir == "" {
		o.PostsDir = DefaultPostsDir
	}
	if o.ExcerptLength <= 0 {
		o.ExcerptLength = excerpt.DefaultMaxLength
	}
	return o
}

// Store holds the post summaries and a cache of loaded details. Details are
// never evicted for the lifetime of the Store.
type Store struct {
	fetcher Fetcher
	opts    Options
	log     zerolog.Logger

	mu        sync.RWMutex
	summaries []Summary
	byID      map[string]int
	cache     map[string]*Detail

	group singleflight.Group
}

// NewStore creates an empty Store. Call LoadIndex to populate it.
func NewStore(f Fetcher, opts Options) *Store {
	return &Store{
		fetcher: f,
		opts:    opts.withDefaults(),
		log:     logging.Component("posts"),
		byID:    make(map[string]int),
		cache:   make(map[string]*Detail),
	}
}

// LoadIndex fetches and flattens the post index, newest first, and keeps the
// result as the store's summaries. Failures are logged and produce an empty
// list.
func (s *Store) LoadIndex(ctx context.Context) []Summary {
	summaries, err := s.fetchIndex(ctx)
	if err != nil {
		s.log.Error().Err(err).Str("path", s.opts.IndexPath).Msg("loading post index")
		summaries = []Summary{}
	}

	byID := make(map[string]int, len(summaries))
	for i, sum := range summaries {
		if _, ok := byID[sum.ID]; !ok {
			byID[sum.ID] = i
		}
	}

	s.mu.Lock()
	s.summaries = summaries
	s.byID = byID
	s.mu.Unlock()

	s.log.Debug().Int("posts", len(summaries)).Msg("post index loaded")
	return slices.Clone(summaries)
}

func (s *Store) fetchIndex(ctx context.Context) ([]Summary, error) {
	data, err := s.fetcher.Fetch(ctx, s.opts.IndexPath)
	if err != nil {
		return nil, err
	}
	doc, err := catalog.Decode(data)
	if err != nil {
		return nil, err
	}
	summaries := Flatten(doc)
	SortByDate(summaries)
	return summaries, nil
}

// Flatten lists every post of the index's category groups in index order.
func Flatten(doc catalog.Document) []Summary {
	var out []Summary
	for _, g := range doc.Groups() {
		for _, p := range g.Posts {
			out = append(out, Summary{
				ID:       string(p.ID),
				Category: g.Category,
				Title:    p.Title,
				Date:     p.Date,
			})
		}
	}
	if out == nil {
		out = []Summary{}
	}
	return out
}

// SortByDate orders summaries newest first. The sort is stable and dates
// that do not parse sort after every dated post.
func SortByDate(summaries []Summary) {
	type keyed struct {
		at  time.Time
		sum Summary
	}
	tmp := make([]keyed, len(summaries))
	for i, sum := range summaries {
		tmp[i] = keyed{at: ParseDate(sum.Date), sum: sum}
	}
	slices.SortStableFunc(tmp, func(a, b keyed) int {
		return b.at.Compare(a.at)
	})
	for i := range tmp {
		summaries[i] = tmp[i].sum
	}
}

var dateLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
}

// ParseDate parses the date formats found in post indexes. Unknown formats
// yield the zero time.
func ParseDate(s string) time.Time {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Summaries returns a copy of the summaries from the last LoadIndex.
func (s *Store) Summaries() []Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.summaries)
}

// Lookup returns the summary for id.
func (s *Store) Lookup(id string) (Summary, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.byID[id]
	if !ok {
		return Summary{}, false
	}
	return s.summaries[i], true
}

// Cached returns the cached detail for id, or nil.
func (s *Store) Cached(id string) *Detail {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cache[id]
}

// LoadDetail returns the detail for id, fetching its document on the first
// request. A failed load returns nil and leaves the cache untouched.
func (s *Store) LoadDetail(ctx context.Context, id string) *Detail {
	d, err := s.Detail(ctx, id)
	if err != nil {
		s.log.Warn().Err(err).Str("id", id).Msg("loading post")
		return nil
	}
	return d
}

// Detail is LoadDetail with the reason for a failure. Concurrent first
// requests for one id share a single fetch. The shared fetch is not cancelled
// with any one caller's ctx; a caller whose ctx ends stops waiting and gets
// ctx.Err() while the others keep waiting for the result.
func (s *Store) Detail(ctx context.Context, id string) (*Detail, error) {
	if d := s.Cached(id); d != nil {
		return d, nil
	}

	fetchCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan(id, func() (any, error) {
		if d := s.Cached(id); d != nil {
			return d, nil
		}

		data, err := s.fetcher.Fetch(fetchCtx, s.documentPath(id))
		if err != nil {
			return nil, err
		}

		d := s.build(id, frontmatter.Parse(string(data)))

		s.mu.Lock()
		s.cache[id] = d
		s.mu.Unlock()
		return d, nil
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("loading post %s: %w", id, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, fmt.Errorf("loading post %s: %w", id, res.Err)
		}
		return res.Val.(*Detail), nil
	}
}

// LoadDetails loads the details for ids concurrently and waits for all of
// them. The result has one entry per id in the same order; failed loads are
// nil.
func (s *Store) LoadDetails(ctx context.Context, ids []string) []*Detail {
	out := make([]*Detail, len(ids))

	var g errgroup.Group
	for i, id := range ids {
		g.Go(func() error {
			out[i] = s.LoadDetail(ctx, id)
			return nil
		})
	}
	_ = g.Wait()

	return out
}

// LoadDocument fetches and parses the document for id without touching the
// detail cache.
func (s *Store) LoadDocument(ctx context.Context, id string) (frontmatter.Document, error) {
	data, err := s.fetcher.Fetch(ctx, s.documentPath(id))
	if err != nil {
		return frontmatter.Document{}, fmt.Errorf("loading post %s: %w", id, err)
	}
	return frontmatter.Parse(string(data)), nil
}

func (s *Store) documentPath(id string) string {
	return path.Join(s.opts.PostsDir, id+".md")
}

func (s *Store) build(id string, doc frontmatter.Document) *Detail {
	d := &Detail{
		ID:       id,
		Title:    doc.Get("title", ""),
		Excerpt:  excerpt.Extract(doc.Body, s.opts.ExcerptLength),
	}
	if sum, ok := s.Lookup(id); ok {
		d.Date = sum.Date
		d.Category = sum.Category
	}
	return d
}
