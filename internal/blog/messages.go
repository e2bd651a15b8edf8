package blog

import (
	"fmt"

	"golang.org/x/text/language"

	"github.com/ziadkadry99/blogdeck/internal/paging"
	"github.com/ziadkadry99/blogdeck/internal/posts"
)

// Messages holds the user-facing strings of one locale.
type Messages struct {
	Tag language.Tag

	Untitled      string
	Other         string
	AllCategories string
	NoPosts       string
	NoResults     string
	BackToList    string

	// Format strings.
	noResultsFor    string
	searchHeading   string
	categoryHeading string

	Labels paging.Labels
}

// Korean is the default locale.
var Korean = Messages{
	Tag:             language.Korean,
	Untitled:        "제목 없음",
	Other:           "기타",
	AllCategories:   "전체",
	NoPosts:         "포스트가 없습니다.",
	NoResults:       "검색 결과가 없습니다.",
	BackToList:      "목록으로",
	noResultsFor:    "\"%s\"에 대한 검색 결과를 찾을 수 없습니다.",
	searchHeading:   "검색 결과 (%d개)",
	categoryHeading: "%s 포스트 (%d개)",
	Labels:          paging.DefaultLabels,
}

var English = Messages{
	Tag:             language.English,
	Untitled:        "Untitled",
	Other:           "Other",
	AllCategories:   "All",
	NoPosts:         "No posts yet.",
	NoResults:       "No results found.",
	BackToList:      "Back to posts",
	noResultsFor:    "Nothing matched \"%s\".",
	searchHeading:   "Search results (%d)",
	categoryHeading: "%s posts (%d)",
	Labels:          paging.Labels{Prev: "Prev", Next: "Next", Ellipsis: "..."},
}

var (
	supported = []Messages{Korean, English}
	matcher   = language.NewMatcher([]language.Tag{Korean.Tag, English.Tag})
)

// MessagesFor picks the best supported locale for the given BCP 47 tags or
// Accept-Language values. Korean is used when nothing matches.
func MessagesFor(tags ...string) Messages {
	_, idx := language.MatchStrings(matcher, tags...)
	return supported[idx]
}

// Fill returns a copy of d with the locale's placeholders for a missing
// title or category.
func (m Messages) Fill(d *posts.Detail) *posts.Detail {
	return d.WithPlaceholders(m.Untitled, m.Other)
}

// SearchHeading is the heading above search results.
func (m Messages) SearchHeading(n int) string {
	return fmt.Sprintf(m.searchHeading, n)
}

// CategoryHeading is the heading above a category listing.
func (m Messages) CategoryHeading(category string, n int) string {
	return fmt.Sprintf(m.categoryHeading, category, n)
}

// NoResultsFor names the search term that matched nothing.
func (m Messages) NoResultsFor(term string) string {
	return fmt.Sprintf(m.noResultsFor, term)
}
