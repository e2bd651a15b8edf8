// Package content checks that the markdown documents on disk and the
// entries of the posts index agree with each other.
package content

import (
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/ziadkadry99/blogdeck/internal/catalog"
)

// DefaultExcludes are patterns of markdown files that are never posts.
var DefaultExcludes = []string{
	"**/README.md",
	"**/_*.md",
	"**/.*/**",
}

// Options controls a Scan.
type Options struct {
	// PostsDir is the directory holding <id>.md documents, relative to the
	// scanned file system.
	PostsDir string
	// Exclude lists extra doublestar patterns, matched against paths
	// relative to PostsDir.
	Exclude []string
}

// Report lists every disagreement found by Scan.
type Report struct {
	// Orphans are markdown files no index entry points to.
	Orphans []string `json:"orphans"`
	// Missing are index ids without a markdown file.
	Missing []string `json:"missing"`
	// Duplicates are ids listed more than once in the index.
	Duplicates []string `json:"duplicates"`
	// Counts describes stored counters that disagree with the listed posts.
	Counts []string `json:"counts"`
	// Posts is the number of index entries checked.
	Posts int `json:"posts"`
}

// Ok reports whether the scan found no problems.
func (r Report) Ok() bool {
	return len(r.Orphans) == 0 && len(r.Missing) == 0 && len(r.Duplicates) == 0 && len(r.Counts) == 0
}

// Scan compares the markdown files under opts.PostsDir in fsys with the
// posts listed in doc. Nested directories are searched too, so a document
// filed under a subdirectory shows up as an orphan.
func Scan(fsys fs.FS, doc catalog.Document, opts Options) (Report, error) {
	dir := opts.PostsDir
	if dir == "" {
		dir = "."
	}
	sub, err := fs.Sub(fsys, path.Clean(dir))
	if err != nil {
		return Report{}, fmt.Errorf("content: %w", err)
	}

	files, err := doublestar.Glob(sub, "**/*.md")
	if err != nil {
		return Report{}, fmt.Errorf("content: glob %s: %w", dir, err)
	}

	excludes := append(slices.Clone(DefaultExcludes), opts.Exclude...)
	onDisk := make(map[string]bool, len(files))
	for _, f := range files {
		if matchesAny(f, excludes) {
			continue
		}
		onDisk[f] = true
	}

	var report Report
	listed := make(map[string]int)
	for _, g := range doc.Groups() {
		for _, p := range g.Posts {
			id := string(p.ID)
			if id == "" {
				continue
			}
			report.Posts++
			listed[id]++
			if listed[id] == 2 {
				report.Duplicates = append(report.Duplicates, id)
			}
			if listed[id] == 1 && !onDisk[id+".md"] {
				report.Missing = append(report.Missing, id)
			}
		}
	}

	report.Counts = checkCounts(doc)

	for f := range onDisk {
		id := strings.TrimSuffix(f, ".md")
		if listed[id] == 0 {
			report.Orphans = append(report.Orphans, path.Join(dir, f))
		}
	}

	slices.Sort(report.Orphans)
	slices.Sort(report.Missing)
	slices.Sort(report.Duplicates)
	return report, nil
}

// checkCounts compares all_posts_count and every group count with the
// number of posts actually listed.
func checkCounts(doc catalog.Document) []string {
	var out []string
	listed := 0
	for _, g := range doc.Groups() {
		listed += len(g.Posts)
		if g.Count != len(g.Posts) {
			out = append(out, fmt.Sprintf("category %q: count is %d but %d posts are listed", g.Category, g.Count, len(g.Posts)))
		}
	}
	for _, e := range doc {
		if e.AllPostsCount != nil && *e.AllPostsCount != listed {
			out = append(out, fmt.Sprintf("all_posts_count is %d but %d posts are listed", *e.AllPostsCount, listed))
		}
	}
	return out
}

// matchesAny checks relPath against doublestar patterns. Patterns without a
// slash are also tried against the base name.
func matchesAny(relPath string, patterns []string) bool {
	base := path.Base(relPath)
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, relPath); err == nil && ok {
			return true
		}
		if !strings.Contains(pattern, "/") {
			if ok, err := doublestar.Match(pattern, base); err == nil && ok {
				return true
			}
		}
	}
	return false
}
