// Package catalog reads and writes the posts.json index that lists every
// post of the blog grouped by category.
//
// The index is a JSON array. One element carries the total post count
// ("all_posts_count"), another the category groups ("category_posts").
// Elements this package does not understand are preserved on write.
package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	keyAllPostsCount = "all_posts_count"
	keyCategoryPosts = "category_posts"
)

// ErrNoCategory is returned when a post is added without a category.
var ErrNoCategory = errors.New("catalog: category is required")

// ID is a post identifier. Older indexes store ids as JSON numbers, newer
// ones as strings; both decode to the same value.
type ID string

// UnmarshalJSON accepts a JSON string or number.
func (id *ID) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("catalog: post id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// PostRef is one post as listed in the index.
type PostRef struct {
	ID    ID     `json:"id"`
	Title string `json:"title"`
	Date  string `json:"date"`
}

// Group holds the posts of one category, newest first.
type Group struct {
	Category string    `json:"category"`
	Count    int       `json:"count"`
	Posts    []PostRef `json:"posts"`
}

// Entry is one element of the index array.
type Entry struct {
	AllPostsCount *int
	// CategoryPosts is nil when the element has no category_posts key.
	CategoryPosts []Group

	extra  map[string]json.RawMessage
	opaque json.RawMessage
}

// UnmarshalJSON decodes an index element. Non-object elements are kept
// verbatim and ignored.
func (e *Entry) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		e.opaque = append(json.RawMessage(nil), trimmed...)
		return nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return err
	}

	if v, ok := raw[keyAllPostsCount]; ok {
		var n int
		if err := json.Unmarshal(v, &n); err != nil {
			return fmt.Errorf("catalog: %s: %w", keyAllPostsCount, err)
		}
		e.AllPostsCount = &n
		delete(raw, keyAllPostsCount)
	}

	if v, ok := raw[keyCategoryPosts]; ok {
		var groups []Group
		if err := json.Unmarshal(v, &groups); err != nil {
			return fmt.Errorf("catalog: %s: %w", keyCategoryPosts, err)
		}
		e.CategoryPosts = groups
		delete(raw, keyCategoryPosts)
	}

	if len(raw) > 0 {
		e.extra = raw
	}
	return nil
}

// MarshalJSON writes the element back with any unknown keys it carried.
func (e Entry) MarshalJSON() ([]byte, error) {
	if e.opaque != nil {
		return e.opaque, nil
	}

	out := make(map[string]any, len(e.extra)+2)
	for k, v := range e.extra {
		out[k] = v
	}
	if e.AllPostsCount != nil {
		out[keyAllPostsCount] = *e.AllPostsCount
	}
	if e.CategoryPosts != nil {
		out[keyCategoryPosts] = e.CategoryPosts
	}
	return marshal(out, "")
}

// Document is the whole index.
type Document []Entry

// Decode parses an index. Elements of an unexpected shape are tolerated;
// only invalid JSON or a non-array top level is an error.
func Decode(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding index: %w", err)
	}
	return doc, nil
}

// Encode renders the index tab-indented with non-ASCII text left as is.
func Encode(doc Document) ([]byte, error) {
	data, err := marshal(doc, "\t")
	if err != nil {
		return nil, fmt.Errorf("encoding index: %w", err)
	}
	return data, nil
}

// marshal encodes v without escaping HTML characters.
func marshal(v any, indent string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Load reads and decodes the index file at path.
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading index %s: %w", path, err)
	}
	return Decode(data)
}

// Save encodes doc and writes it to path.
func Save(path string, doc Document) error {
	data, err := Encode(doc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing index %s: %w", path, err)
	}
	return nil
}

// Groups returns the category groups of the first element that has them,
// or nil when no element does.
func (d Document) Groups() []Group {
	for _, e := range d {
		if e.CategoryPosts != nil {
			return e.CategoryPosts
		}
	}
	return nil
}

// Categories lists the category names in index order.
func (d Document) Categories() []string {
	groups := d.Groups()
	names := make([]string, 0, len(groups))
	for _, g := range groups {
		names = append(names, g.Category)
	}
	return names
}

// NextID returns one more than the largest numeric post id. Ids that are
// not integers do not take part.
func (d Document) NextID() int {
	max := 0
	for _, g := range d.Groups() {
		for _, p := range g.Posts {
			n, err := strconv.Atoi(strings.TrimSpace(string(p.ID)))
			if err != nil {
				continue
			}
			if n > max {
				max = n
			}
		}
	}
	return max + 1
}

// AddPost records a new post at the front of its category and bumps the
// counters. A missing category group is created at the end of the list.
// It returns the id assigned to the post.
func (d *Document) AddPost(category, title, date string) (ID, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return "", ErrNoCategory
	}

	id := ID(strconv.Itoa(d.NextID()))
	ref := PostRef{ID: id, Title: title, Date: date}

	d.bumpTotal()

	entry := d.groupsEntry()
	groups := entry.CategoryPosts
	idx := -1
	for i := range groups {
		if groups[i].Category == category {
			idx = i
			break
		}
	}
	if idx < 0 {
		groups = append(groups, Group{Category: category, Posts: []PostRef{}})
		idx = len(groups) - 1
	}

	g := &groups[idx]
	g.Count++
	g.Posts = append([]PostRef{ref}, g.Posts...)
	entry.CategoryPosts = groups

	return id, nil
}

func (d *Document) bumpTotal() {
	for i := range *d {
		if (*d)[i].AllPostsCount != nil {
			*(*d)[i].AllPostsCount++
			return
		}
	}
	n := 1
	*d = append(Document{{AllPostsCount: &n}}, *d...)
}

func (d *Document) groupsEntry() *Entry {
	for i := range *d {
		if (*d)[i].CategoryPosts != nil {
			return &(*d)[i]
		}
	}
	*d = append(*d, Entry{CategoryPosts: []Group{}})
	return &(*d)[len(*d)-1]
}
