package posts

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testIndex = `[
	{"all_posts_count": 4},
	{"category_posts": [
		{"category": "Go", "count": 2, "posts": [
			{"id": "b", "title": "Channels", "date": "2024-03-01 10:00"},
			{"id": "a", "title": "Hello Go", "date": "2024-01-15 09:30"}
		]},
		{"category": "", "count": 1, "posts": [
			{"id": "c", "title": "Loose", "date": "2024-02-10 08:00"}
		]},
		{"category": "Life", "count": 1, "posts": [
			{"id": "d", "title": "Undated", "date": "someday"}
		]}
	]}
]`

const (
	testTimeout = 2 * time.Second
	testTick    = 10 * time.Millisecond
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"posts/posts.json": {Data: []byte(testIndex)},
		"posts/a.md":       {Data: []byte("---\ntitle: A\n---\n# Heading\nHello **world**")},
		"posts/b.md":       {Data: []byte("---\ntitle: B\n---\nSecond post")},
		"posts/c.md":       {Data: []byte("No frontmatter here")},
	}
}

// countingFetcher counts fetches per name.
type countingFetcher struct {
	Fetcher
	mu    sync.Mutex
	calls map[string]int
}

func (c *countingFetcher) Fetch(ctx context.Context, name string) ([]byte, error) {
	c.mu.Lock()
	if c.calls == nil {
		c.calls = make(map[string]int)
	}
	c.calls[name]++
	c.mu.Unlock()
	return c.Fetcher.Fetch(ctx, name)
}

func (c *countingFetcher) count(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[name]
}

func loadedStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(DirFetcher{FS: testFS()}, Options{})
	require.Len(t, s.LoadIndex(context.Background()), 4)
	return s
}

func TestLoadIndexSortsNewestFirst(t *testing.T) {
	s := NewStore(DirFetcher{FS: testFS()}, Options{})

	got := s.LoadIndex(context.Background())

	ids := make([]string, len(got))
	for i, sum := range got {
		ids[i] = sum.ID
	}
	assert.Equal(t, []string{"b", "c", "a", "d"}, ids)
	assert.Equal(t, Summary{ID: "b", Category: "Go", Title: "Channels", Date: "2024-03-01 10:00"}, got[0])
	assert.Equal(t, got, s.Summaries())
}

func TestLoadIndexFailures(t *testing.T) {
	tests := []struct {
		name string
		fs   fstest.MapFS
	}{
		{"missing index", fstest.MapFS{}},
		{"invalid json", fstest.MapFS{"posts/posts.json": {Data: []byte("{")}}},
		{"no groups", fstest.MapFS{"posts/posts.json": {Data: []byte(`[{"all_posts_count": 0}]`)}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore(DirFetcher{FS: tt.fs}, Options{})
			got := s.LoadIndex(context.Background())
			assert.NotNil(t, got)
			assert.Empty(t, got)
			assert.Empty(t, s.Summaries())
		})
	}
}

func TestSortByDateStable(t *testing.T) {
	in := []Summary{
		{ID: "1", Date: "2024-01-01"},
		{ID: "2", Date: "bad"},
		{ID: "3", Date: "2024-01-01 00:00"},
		{ID: "4", Date: "2024-06-01T12:00:00Z"},
		{ID: "5", Date: ""},
	}

	SortByDate(in)

	ids := make([]string, len(in))
	for i, sum := range in {
		ids[i] = sum.ID
	}
	assert.Equal(t, []string{"4", "1", "3", "2", "5"}, ids)
}

func TestParseDate(t *testing.T) {
	assert.False(t, ParseDate("2024-01-15 09:30").IsZero())
	assert.False(t, ParseDate("2024-01-15").IsZero())
	assert.False(t, ParseDate("2024-01-15T09:30:00+09:00").IsZero())
	assert.True(t, ParseDate("15/01/2024").IsZero())
	assert.True(t, ParseDate("").IsZero())
}

func TestLoadDetail(t *testing.T) {
	s := loadedStore(t)

	d := s.LoadDetail(context.Background(), "a")
	require.NotNil(t, d)
	assert.Equal(t, &Detail{
		ID:       "a",
		Title:    "A",
		Date:     "2024-01-15 09:30",
		Category: "Go",
		Excerpt:  "Hello world",
	}, d)
	assert.Same(t, d, s.Cached("a"))
}

func TestLoadDetailLeavesPlaceholdersEmpty(t *testing.T) {
	s := loadedStore(t)

	d := s.LoadDetail(context.Background(), "c")
	require.NotNil(t, d)
	assert.Equal(t, "", d.Title)
	assert.Equal(t, "", d.Category)
	assert.Equal(t, "No frontmatter here", d.Excerpt)
}

func TestWithPlaceholders(t *testing.T) {
	s := NewStore(DirFetcher{FS: testFS()}, Options{ExcerptLength: 5})
	s.LoadIndex(context.Background())

	d := s.LoadDetail(context.Background(), "c")
	require.NotNil(t, d)

	en := d.WithPlaceholders("Untitled", "Other")
	ko := d.WithPlaceholders("제목 없음", "기타")

	assert.Equal(t, "Untitled", en.Title)
	assert.Equal(t, "Other", en.Category)
	assert.Equal(t, "제목 없음", ko.Title)
	assert.Equal(t, "기타", ko.Category)
	assert.Equal(t, "No...", en.Excerpt)
	assert.Equal(t, "", s.Cached("c").Title)

	a := s.LoadDetail(context.Background(), "a").WithPlaceholders("Untitled", "Other")
	assert.Equal(t, "A", a.Title)
	assert.Equal(t, "Go", a.Category)
}

func TestLoadDetailUnknownToIndex(t *testing.T) {
	fsys := testFS()
	fsys["posts/zz.md"] = &fstest.MapFile{Data: []byte("---\ntitle: Orphan\n---\nbody")}
	s := NewStore(DirFetcher{FS: fsys}, Options{})
	s.LoadIndex(context.Background())

	d := s.LoadDetail(context.Background(), "zz")
	require.NotNil(t, d)
	assert.Equal(t, "Orphan", d.Title)
	assert.Equal(t, "", d.Date)
	assert.Equal(t, "", d.Category)
}

func TestLoadDetailMissingIsNotCached(t *testing.T) {
	fsys := testFS()
	s := NewStore(DirFetcher{FS: fsys}, Options{})
	s.LoadIndex(context.Background())

	assert.Nil(t, s.LoadDetail(context.Background(), "d"))
	assert.Nil(t, s.Cached("d"))

	fsys["posts/d.md"] = &fstest.MapFile{Data: []byte("---\ntitle: D\n---\nlate")}
	d := s.LoadDetail(context.Background(), "d")
	require.NotNil(t, d)
	assert.Equal(t, "D", d.Title)
}

func TestLoadDetailCachesFetch(t *testing.T) {
	f := &countingFetcher{Fetcher: DirFetcher{FS: testFS()}}
	s := NewStore(f, Options{})
	s.LoadIndex(context.Background())

	first := s.LoadDetail(context.Background(), "b")
	second := s.LoadDetail(context.Background(), "b")

	assert.Same(t, first, second)
	assert.Equal(t, 1, f.count("posts/b.md"))
}

func TestLoadDetailConcurrentSameID(t *testing.T) {
	f := &countingFetcher{Fetcher: DirFetcher{FS: testFS()}}
	s := NewStore(f, Options{})
	s.LoadIndex(context.Background())

	const n = 32
	results := make([]*Detail, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = s.LoadDetail(context.Background(), "a")
		}()
	}
	wg.Wait()

	for _, d := range results {
		assert.Same(t, results[0], d)
	}
	assert.Same(t, results[0], s.Cached("a"))
}

func TestLoadDetailsPreservesOrder(t *testing.T) {
	s := loadedStore(t)

	got := s.LoadDetails(context.Background(), []string{"a", "missing", "b"})

	require.Len(t, got, 3)
	require.NotNil(t, got[0])
	assert.Equal(t, "A", got[0].Title)
	assert.Nil(t, got[1])
	require.NotNil(t, got[2])
	assert.Equal(t, "B", got[2].Title)
}

func TestLoadDetailsEmpty(t *testing.T) {
	s := loadedStore(t)
	assert.Empty(t, s.LoadDetails(context.Background(), nil))
}

// gateFetcher blocks document fetches until released.
type gateFetcher struct {
	Fetcher
	release chan struct{}
	started atomic.Int32
}

func (g *gateFetcher) Fetch(ctx context.Context, name string) ([]byte, error) {
	if name != DefaultIndexPath {
		g.started.Add(1)
		<-g.release
	}
	return g.Fetcher.Fetch(ctx, name)
}

func TestLoadDetailsRunsConcurrently(t *testing.T) {
	g := &gateFetcher{Fetcher: DirFetcher{FS: testFS()}, release: make(chan struct{})}
	s := NewStore(g, Options{})
	s.LoadIndex(context.Background())

	done := make(chan []*Detail)
	go func() {
		done <- s.LoadDetails(context.Background(), []string{"a", "b", "c"})
	}()

	require.Eventually(t, func() bool { return g.started.Load() == 3 }, testTimeout, testTick)
	close(g.release)

	got := <-done
	for _, d := range got {
		assert.NotNil(t, d)
	}
}

func TestDetailReportsCause(t *testing.T) {
	s := loadedStore(t)

	_, err := s.Detail(context.Background(), "d")
	assert.ErrorIs(t, err, ErrNotFound)

	boom := errors.New("upstream unavailable")
	failing := NewStore(errFetcher{err: boom}, Options{})
	_, err = failing.Detail(context.Background(), "a")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrNotFound)
}

// errFetcher fails every fetch with err.
type errFetcher struct{ err error }

func (f errFetcher) Fetch(ctx context.Context, name string) ([]byte, error) {
	return nil, f.err
}

// ctxGateFetcher blocks document fetches until released or until the fetch
// context ends.
type ctxGateFetcher struct {
	Fetcher
	release chan struct{}
	started chan struct{}
	once    sync.Once
}

func (g *ctxGateFetcher) Fetch(ctx context.Context, name string) ([]byte, error) {
	if name != DefaultIndexPath {
		g.once.Do(func() { close(g.started) })
		select {
		case <-g.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return g.Fetcher.Fetch(ctx, name)
}

func TestDetailCancelledCallerDoesNotFailOthers(t *testing.T) {
	g := &ctxGateFetcher{
		Fetcher: DirFetcher{FS: testFS()},
		release: make(chan struct{}),
		started: make(chan struct{}),
	}
	s := NewStore(g, Options{})
	s.LoadIndex(context.Background())

	ctxA, cancelA := context.WithCancel(context.Background())
	resA := make(chan error, 1)
	go func() {
		_, err := s.Detail(ctxA, "a")
		resA <- err
	}()
	<-g.started

	resB := make(chan *Detail, 1)
	go func() {
		resB <- s.LoadDetail(context.Background(), "a")
	}()

	cancelA()
	select {
	case err := <-resA:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(testTimeout):
		t.Fatal("cancelled caller kept waiting for the fetch")
	}

	close(g.release)
	select {
	case d := <-resB:
		require.NotNil(t, d)
		assert.Equal(t, "A", d.Title)
	case <-time.After(testTimeout):
		t.Fatal("second caller never got the post")
	}
	assert.NotNil(t, s.Cached("a"))
}

func TestLoadDocument(t *testing.T) {
	s := loadedStore(t)

	doc, err := s.LoadDocument(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "A", doc.Metadata["title"])
	assert.Nil(t, s.Cached("a"))

	_, err = s.LoadDocument(context.Background(), "nope")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestLookup(t *testing.T) {
	s := loadedStore(t)

	sum, ok := s.Lookup("d")
	assert.True(t, ok)
	assert.Equal(t, "Life", sum.Category)

	_, ok = s.Lookup("x")
	assert.False(t, ok)
}
