package posts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"
)

// ErrNotFound is returned by a Fetcher when the named resource does not exist.
var ErrNotFound = errors.New("posts: not found")

// Fetcher loads raw bytes for a slash-separated resource name such as
// "posts/posts.json" or "posts/7.md".
type Fetcher interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
}

// StatusError reports a non-success HTTP response other than 404.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetching %s: unexpected status %d", e.URL, e.Code)
}

// HTTPFetcher fetches resources relative to a base URL.
type HTTPFetcher struct {
	BaseURL string
	Client  *http.Client

	// Version is appended as the "v" query parameter to every request so
	// intermediate caches never serve a stale index. Empty disables it.
	Version string
}

// NewHTTPFetcher creates a fetcher for baseURL. With cacheBust set, every
// request of this fetcher carries the same v=<unix millis> parameter taken
// at construction.
func NewHTTPFetcher(baseURL string, timeout time.Duration, cacheBust bool) *HTTPFetcher {
	f := &HTTPFetcher{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: timeout},
	}
	if cacheBust {
		f.Version = strconv.FormatInt(time.Now().UnixMilli(), 10)
	}
	return f
}

// URL returns the absolute URL requested for name.
func (f *HTTPFetcher) URL(name string) string {
	u := f.BaseURL + "/" + strings.TrimLeft(name, "/")
	if f.Version != "" {
		u += "?" + url.Values{"v": {f.Version}}.Encode()
	}
	return u
}

// Fetch performs a GET for name. A 404 maps to ErrNotFound.
func (f *HTTPFetcher) Fetch(ctx context.Context, name string) ([]byte, error) {
	u := f.URL(name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", u, err)
	}

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%s: %w", u, ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: u, Code: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", u, err)
	}
	return data, nil
}

// DirFetcher reads resources from a file system, typically os.DirFS of the
// site directory.
type DirFetcher struct {
	FS fs.FS
}

// Fetch reads name from the file system. A missing file maps to ErrNotFound.
func (f DirFetcher) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name = path.Clean(strings.TrimLeft(name, "/"))
	data, err := fs.ReadFile(f.FS, name)
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrInvalid) {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return data, nil
}
