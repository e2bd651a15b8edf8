// Package paging splits a list into fixed-size pages and lays out the page
// buttons shown under it.
package paging

import (
	"strconv"
	"strings"
)

// DefaultPageSize is used when a non-positive page size is given.
const DefaultPageSize = 5

const (
	maxVisible = 5
	half       = 2
)

// Pagination describes one page of a list of Total items.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalPages int `json:"totalPages"`
	Total      int `json:"total"`

	// Start and End bound the visible items as a half-open range.
	Start int `json:"-"`
	End   int `json:"-"`
}

// Paginate computes the page of total items that contains page. The page is
// clamped to [1, max(TotalPages, 1)].
func Paginate(total, pageSize, page int) Pagination {
	if total < 0 {
		total = 0
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	totalPages := (total + pageSize - 1) / pageSize
	page = Clamp(page, totalPages)

	start := (page - 1) * pageSize
	end := min(start+pageSize, total)
	if start > total {
		start = total
	}

	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
		Total:      total,
		Start:      start,
		End:        end,
	}
}

// Clamp limits page to [1, max(totalPages, 1)].
func Clamp(page, totalPages int) int {
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	return page
}

// HasPrev reports whether a previous page exists.
func (p Pagination) HasPrev() bool { return p.Page > 1 }

// HasNext reports whether a next page exists.
func (p Pagination) HasNext() bool { return p.Page < p.TotalPages }

// Window returns the first and last page number shown as numbered buttons.
// At most five numbers are shown, centred on the current page where
// possible.
func (p Pagination) Window() (first, last int) {
	if p.TotalPages <= maxVisible {
		return 1, p.TotalPages
	}
	switch {
	case p.Page <= half+1:
		return 1, maxVisible
	case p.Page >= p.TotalPages-half:
		return p.TotalPages - maxVisible + 1, p.TotalPages
	default:
		return p.Page - half, p.Page + half
	}
}

// Slice returns the items of items visible on page p.
func Slice[T any](items []T, p Pagination) []T {
	start := min(p.Start, len(items))
	end := min(p.End, len(items))
	return items[start:end]
}

// Kind distinguishes page buttons.
type Kind string

const (
	KindPrev     Kind = "prev"
	KindNext     Kind = "next"
	KindPage     Kind = "page"
	KindEllipsis Kind = "ellipsis"
)

// Button is one element of the page navigation. Page is the page a button
// leads to; it is zero for ellipses.
type Button struct {
	Kind     Kind   `json:"kind"`
	Label    string `json:"label"`
	Page     int    `json:"page,omitempty"`
	Active   bool   `json:"active,omitempty"`
	Disabled bool   `json:"disabled,omitempty"`
}

// Labels are the captions of the non-numeric buttons.
type Labels struct {
	Prev     string
	Next     string
	Ellipsis string
}

// DefaultLabels are the Korean captions.
var DefaultLabels = Labels{Prev: "이전", Next: "다음", Ellipsis: "..."}

// Buttons lays out the navigation for p: previous, first page and an
// ellipsis when the window does not start at 1, the window itself, an
// ellipsis and the last page when the window ends early, then next. An
// empty list has no buttons.
func Buttons(p Pagination, labels Labels) []Button {
	if p.Total == 0 {
		return nil
	}

	var out []Button
	prev := Button{Kind: KindPrev, Label: labels.Prev, Page: p.Page - 1}
	if !p.HasPrev() {
		prev.Page = 0
		prev.Disabled = true
	}
	out = append(out, prev)

	first, last := p.Window()
	if first > 1 {
		out = append(out, pageButton(1, p.Page))
		if first > 2 {
			out = append(out, Button{Kind: KindEllipsis, Label: labels.Ellipsis, Disabled: true})
		}
	}
	for i := first; i <= last; i++ {
		out = append(out, pageButton(i, p.Page))
	}
	if last < p.TotalPages {
		if last < p.TotalPages-1 {
			out = append(out, Button{Kind: KindEllipsis, Label: labels.Ellipsis, Disabled: true})
		}
		out = append(out, pageButton(p.TotalPages, p.Page))
	}

	next := Button{Kind: KindNext, Label: labels.Next, Page: p.Page + 1}
	if !p.HasNext() {
		next.Page = 0
		next.Disabled = true
	}
	return append(out, next)
}

func pageButton(n, current int) Button {
	return Button{Kind: KindPage, Label: strconv.Itoa(n), Page: n, Active: n == current}
}

// Render writes buttons as one line of text: the active page in brackets,
// disabled prev/next in parentheses.
func Render(buttons []Button) string {
	parts := make([]string, 0, len(buttons))
	for _, b := range buttons {
		switch {
		case b.Active:
			parts = append(parts, "["+b.Label+"]")
		case b.Disabled && b.Kind != KindEllipsis:
			parts = append(parts, "("+b.Label+")")
		default:
			parts = append(parts, b.Label)
		}
	}
	return strings.Join(parts, " ")
}
