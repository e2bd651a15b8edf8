package paging

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var englishLabels = Labels{Prev: "Prev", Next: "Next", Ellipsis: "..."}

func TestPaginate(t *testing.T) {
	tests := []struct {
		name      string
		total     int
		size      int
		page      int
		wantPage  int
		wantPages int
		wantStart int
		wantEnd   int
	}{
		{"first page", 12, 5, 1, 1, 3, 0, 5},
		{"last partial page", 12, 5, 3, 3, 3, 10, 12},
		{"page past end clamps", 12, 5, 9, 3, 3, 10, 12},
		{"page below one clamps", 12, 5, -4, 1, 3, 0, 5},
		{"default size", 12, 0, 2, 2, 3, 5, 10},
		{"empty list", 0, 5, 3, 1, 0, 0, 0},
		{"exact multiple", 10, 5, 2, 2, 2, 5, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Paginate(tt.total, tt.size, tt.page)
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantPages, p.TotalPages)
			assert.Equal(t, tt.wantStart, p.Start)
			assert.Equal(t, tt.wantEnd, p.End)
		})
	}
}

func TestWindow(t *testing.T) {
	tests := []struct {
		total, page int
		first, last int
	}{
		{15, 2, 1, 3},
		{25, 5, 1, 5},
		{100, 1, 1, 5},
		{100, 3, 1, 5},
		{100, 4, 2, 6},
		{100, 10, 8, 12},
		{100, 17, 15, 19},
		{100, 18, 16, 20},
		{100, 20, 16, 20},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d/%d", tt.page, tt.total), func(t *testing.T) {
			first, last := Paginate(tt.total, 5, tt.page).Window()
			assert.Equal(t, tt.first, first)
			assert.Equal(t, tt.last, last)
		})
	}
}

func TestButtonsLayouts(t *testing.T) {
	cases := []struct {
		name  string
		total int
		page  int
	}{
		{"single page", 3, 1},
		{"few pages", 12, 2},
		{"near start", 35, 3},
		{"centre without gaps", 35, 4},
		{"first of many", 100, 1},
		{"middle of many", 100, 10},
		{"near end", 100, 18},
		{"last of many", 100, 20},
	}

	var b strings.Builder
	for _, c := range cases {
		buttons := Buttons(Paginate(c.total, DefaultPageSize, c.page), englishLabels)
		fmt.Fprintf(&b, "%s: %s\n", c.name, Render(buttons))
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "buttons", []byte(b.String()))
}

func TestButtonsTargets(t *testing.T) {
	buttons := Buttons(Paginate(100, 5, 10), DefaultLabels)

	require.NotEmpty(t, buttons)
	prev, next := buttons[0], buttons[len(buttons)-1]
	assert.Equal(t, Button{Kind: KindPrev, Label: "이전", Page: 9}, prev)
	assert.Equal(t, Button{Kind: KindNext, Label: "다음", Page: 11}, next)

	active := 0
	for _, b := range buttons {
		if b.Active {
			active++
			assert.Equal(t, 10, b.Page)
		}
		if b.Kind == KindEllipsis {
			assert.Zero(t, b.Page)
			assert.True(t, b.Disabled)
		}
	}
	assert.Equal(t, 1, active)
}

func TestButtonsDisabledEnds(t *testing.T) {
	buttons := Buttons(Paginate(3, 5, 1), DefaultLabels)

	require.Len(t, buttons, 3)
	assert.True(t, buttons[0].Disabled)
	assert.Zero(t, buttons[0].Page)
	assert.True(t, buttons[2].Disabled)
	assert.Zero(t, buttons[2].Page)
}

func TestButtonsEmpty(t *testing.T) {
	assert.Nil(t, Buttons(Paginate(0, 5, 1), DefaultLabels))
}

func TestSlice(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	assert.Equal(t, []int{1, 2, 3, 4, 5}, Slice(items, Paginate(len(items), 5, 1)))
	assert.Equal(t, []int{6, 7}, Slice(items, Paginate(len(items), 5, 2)))
	assert.Empty(t, Slice([]int{}, Paginate(0, 5, 1)))
}

func TestSliceCoversEveryItemOnce(t *testing.T) {
	for total := 0; total <= 23; total++ {
		items := make([]int, total)
		for i := range items {
			items[i] = i
		}

		var seen []int
		pages := max(Paginate(total, 5, 1).TotalPages, 1)
		for page := 1; page <= pages; page++ {
			seen = append(seen, Slice(items, Paginate(total, 5, page))...)
		}
		assert.Equal(t, items, append([]int{}, seen...), "total=%d", total)
	}
}
