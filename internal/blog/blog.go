// Package blog coordinates the post store, the filter state and pagination
// into the view models shown by the CLI, the HTTP API and the MCP tools.
package blog

import (
	"context"
	"strings"

	"github.com/ziadkadry99/blogdeck/internal/listing"
	"github.com/ziadkadry99/blogdeck/internal/paging"
	"github.com/ziadkadry99/blogdeck/internal/posts"
)

// DefaultRecentCount is the number of recent posts shown in the sidebar.
const DefaultRecentCount = 3

// Options configures a Coordinator.
type Options struct {
	PageSize    int
	RecentCount int
	Messages    Messages
}

// Coordinator owns one post store and one filter state.
type Coordinator struct {
	store *posts.Store
	state *listing.State
	opts  Options
}

// New creates a coordinator over the summaries the store already holds.
// Call Init to (re)load the index.
func New(store *posts.Store, opts Options) *Coordinator {
	if opts.PageSize <= 0 {
		opts.PageSize = paging.DefaultPageSize
	}
	if opts.RecentCount <= 0 {
		opts.RecentCount = DefaultRecentCount
	}
	if opts.Messages.NoPosts == "" {
		opts.Messages = Korean
	}
	return &Coordinator{
		store: store,
		state: listing.New(store.Summaries()),
		opts:  opts,
	}
}

// Init loads the index and resets every filter.
func (c *Coordinator) Init(ctx context.Context) {
	c.state.Reset(c.store.LoadIndex(ctx))
}

// Messages returns the locale strings in use.
func (c *Coordinator) Messages() Messages {
	return c.opts.Messages
}

// State exposes the filter state.
func (c *Coordinator) State() *listing.State {
	return c.state
}

// Search applies a title search.
func (c *Coordinator) Search(term string) {
	c.state.Search(term)
}

// FilterByCategory applies or toggles a category filter.
func (c *Coordinator) FilterByCategory(category string) {
	c.state.FilterByCategory(category)
}

// Clear removes every filter.
func (c *Coordinator) Clear() {
	c.state.Clear()
}

// View is one rendered page of the listing.
type View struct {
	Mode       listing.Mode      `json:"mode"`
	Heading    string            `json:"heading,omitempty"`
	SearchTerm string            `json:"searchTerm,omitempty"`
	Category   string            `json:"category,omitempty"`
	Total      int               `json:"total"`
	Pagination paging.Pagination `json:"pagination"`
	Posts      []*posts.Detail   `json:"posts"`
	Buttons    []paging.Button   `json:"buttons"`

	Empty        bool   `json:"empty"`
	EmptyMessage string `json:"emptyMessage,omitempty"`
	EmptyDetail  string `json:"emptyDetail,omitempty"`
}

// Display builds the view of page of the active subset. Only the posts on
// that page are loaded; posts that fail to load are left out.
func (c *Coordinator) Display(ctx context.Context, page int) View {
	msgs := c.opts.Messages
	active := c.state.Active()

	p := paging.Paginate(len(active), c.opts.PageSize, c.state.SetPage(page, c.opts.PageSize))
	v := View{
		Mode:       c.state.Mode(),
		SearchTerm: c.state.SearchTerm(),
		Total:      len(active),
		Pagination: p,
		Posts:      []*posts.Detail{},
		Buttons:    paging.Buttons(p, msgs.Labels),
	}

	switch v.Mode {
	case listing.ModeSearch:
		v.Heading = msgs.SearchHeading(v.Total)
	case listing.ModeCategory:
		v.Category, _ = c.state.Category()
		v.Heading = msgs.CategoryHeading(v.Category, v.Total)
	}

	if len(active) == 0 {
		v.Empty = true
		if v.Mode == listing.ModeSearch {
			v.EmptyMessage = msgs.NoResults
			v.EmptyDetail = msgs.NoResultsFor(v.SearchTerm)
		} else {
			v.EmptyMessage = msgs.NoPosts
		}
		return v
	}

	visible := paging.Slice(active, p)
	ids := make([]string, len(visible))
	for i, s := range visible {
		ids[i] = s.ID
	}
	v.Posts = c.compact(c.store.LoadDetails(ctx, ids))
	return v
}

// RecentPost is an entry of the recent posts list.
type RecentPost struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Date  string `json:"date"`
}

// Recent returns the n newest posts with short dates. A non-positive n uses
// the configured count.
func (c *Coordinator) Recent(ctx context.Context, n int) []RecentPost {
	if n <= 0 {
		n = c.opts.RecentCount
	}
	all := c.store.Summaries()
	if n > len(all) {
		n = len(all)
	}

	ids := make([]string, n)
	for i := range ids {
		ids[i] = all[i].ID
	}

	out := []RecentPost{}
	for _, d := range c.compact(c.store.LoadDetails(ctx, ids)) {
		out = append(out, RecentPost{ID: d.ID, Title: d.Title, Date: ShortDate(d.Date)})
	}
	return out
}

// ShortDate turns "2024-01-15 09:30" into "2024.01.15".
func ShortDate(date string) string {
	day, _, _ := strings.Cut(date, " ")
	return strings.ReplaceAll(day, "-", ".")
}

// Categories returns the sidebar category counts over the whole index.
func (c *Coordinator) Categories() listing.Counts {
	return c.state.CategoryCounts(c.opts.Messages.Other)
}

// Post loads one post with the locale's placeholders filled in. The error
// wraps posts.ErrNotFound when the post has no document.
func (c *Coordinator) Post(ctx context.Context, id string) (*posts.Detail, error) {
	d, err := c.store.Detail(ctx, id)
	if err != nil {
		return nil, err
	}
	return c.opts.Messages.Fill(d), nil
}

// compact drops failed loads and fills in placeholders.
func (c *Coordinator) compact(details []*posts.Detail) []*posts.Detail {
	out := make([]*posts.Detail, 0, len(details))
	for _, d := range details {
		if d != nil {
			out = append(out, c.opts.Messages.Fill(d))
		}
	}
	return out
}
