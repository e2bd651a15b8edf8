// Package listing holds the search and category filter over the post
// summaries and derives the active subset from them.
package listing

import (
	"fmt"
	"slices"
	"strings"

	"github.com/ziadkadry99/blogdeck/internal/paging"
	"github.com/ziadkadry99/blogdeck/internal/posts"
)

// Mode says which filter produced the active subset.
type Mode int

const (
	ModeAll Mode = iota
	ModeSearch
	ModeCategory
)

func (m Mode) String() string {
	switch m {
	case ModeSearch:
		return "search"
	case ModeCategory:
		return "category"
	default:
		return "all"
	}
}

// MarshalText encodes the mode by name.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// State is the filter state of one listing. At most one of the search term
// and the category is set at any time, and every filter change returns to
// the first page.
type State struct {
	all []posts.Summary

	searchTerm  string
	category    string
	hasCategory bool
	page        int

	active []posts.Summary
}

// New creates an unfiltered state over all.
func New(all []posts.Summary) *State {
	s := &State{}
	s.Reset(all)
	return s
}

// Reset replaces the summaries and clears every filter.
func (s *State) Reset(all []posts.Summary) {
	s.all = all
	s.Clear()
}

// Search filters to posts whose title contains term, ignoring case and
// surrounding whitespace. An empty term clears all filtering. The category
// filter is always cleared.
func (s *State) Search(term string) {
	s.searchTerm = strings.ToLower(strings.TrimSpace(term))
	s.category = ""
	s.hasCategory = false
	s.apply()
}

// FilterByCategory filters to posts of category. An empty category, or the
// category already selected, clears the filter. The search term is always
// cleared.
func (s *State) FilterByCategory(category string) {
	switch {
	case category == "", s.hasCategory && s.category == category:
		s.category = ""
		s.hasCategory = false
	default:
		s.category = category
		s.hasCategory = true
	}
	s.searchTerm = ""
	s.apply()
}

// Clear removes both filters.
func (s *State) Clear() {
	s.searchTerm = ""
	s.category = ""
	s.hasCategory = false
	s.apply()
}

func (s *State) apply() {
	switch s.Mode() {
	case ModeSearch:
		s.active = filter(s.all, func(p posts.Summary) bool {
			return strings.Contains(strings.ToLower(p.Title), s.searchTerm)
		})
	case ModeCategory:
		s.active = filter(s.all, func(p posts.Summary) bool {
			return p.Category == s.category
		})
	default:
		s.active = s.all
	}
	s.page = 1
	s.check()
}

func (s *State) check() {
	if s.searchTerm != "" && s.hasCategory {
		panic(fmt.Sprintf("listing: search %q and category %q both active", s.searchTerm, s.category))
	}
	if s.page != 1 {
		panic(fmt.Sprintf("listing: filter change left page at %d", s.page))
	}
}

func filter(all []posts.Summary, keep func(posts.Summary) bool) []posts.Summary {
	out := make([]posts.Summary, 0, len(all))
	for _, p := range all {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

// Mode reports which filter is active.
func (s *State) Mode() Mode {
	switch {
	case s.searchTerm != "":
		return ModeSearch
	case s.hasCategory:
		return ModeCategory
	default:
		return ModeAll
	}
}

// Active returns the summaries passing the current filter, in index order.
func (s *State) Active() []posts.Summary {
	return s.active
}

// SearchTerm returns the normalized search term, or "".
func (s *State) SearchTerm() string {
	return s.searchTerm
}

// Category returns the selected category and whether one is selected.
func (s *State) Category() (string, bool) {
	return s.category, s.hasCategory
}

// Page returns the current page.
func (s *State) Page() int {
	return s.page
}

// SetPage moves to page, clamped to the pages of the active subset.
func (s *State) SetPage(page, pageSize int) int {
	s.page = paging.Paginate(len(s.active), pageSize, page).Page
	return s.page
}

// CategoryCount is one category of the sidebar.
type CategoryCount struct {
	Name   string `json:"name"`
	Count  int    `json:"count"`
	Active bool   `json:"active"`
}

// Counts summarizes categories over the whole index.
type Counts struct {
	Total      int             `json:"total"`
	AllActive  bool            `json:"allActive"`
	Categories []CategoryCount `json:"categories"`
}

// CategoryCounts counts posts per category over every summary, ignoring the
// current filter. Posts without a category are counted under other.
// Categories are sorted by name.
func (s *State) CategoryCounts(other string) Counts {
	counts := make(map[string]int)
	for _, p := range s.all {
		name := p.Category
		if name == "" {
			name = other
		}
		counts[name]++
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	slices.Sort(names)

	out := Counts{
		Total:      len(s.all),
		AllActive:  !s.hasCategory,
		Categories: make([]CategoryCount, 0, len(names)),
	}
	for _, name := range names {
		out.Categories = append(out.Categories, CategoryCount{
			Name:   name,
			Count:  counts[name],
			Active: s.hasCategory && s.category == name,
		})
	}
	return out
}
