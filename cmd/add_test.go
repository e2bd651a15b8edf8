package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/blogdeck/internal/catalog"
	"github.com/ziadkadry99/blogdeck/internal/content"
)

const seedIndex = `[
	{"all_posts_count": 2},
	{"category_posts": [
		{"category": "기술", "count": 2, "posts": [
			{"id": "2", "title": "둘째", "date": "2024-01-02 10:00"},
			{"id": "1", "title": "첫째", "date": "2024-01-01 10:00"}
		]}
	]}
]`

func seedSite(t *testing.T) (indexPath, postsDir string) {
	t.Helper()
	dir := t.TempDir()
	postsDir = filepath.Join(dir, "posts")
	indexPath = filepath.Join(postsDir, "posts.json")
	require.NoError(t, os.MkdirAll(postsDir, 0o755))
	require.NoError(t, os.WriteFile(indexPath, []byte(seedIndex), 0o644))
	return indexPath, postsDir
}

func TestAddPost(t *testing.T) {
	indexPath, postsDir := seedSite(t)
	doc, err := loadIndex(indexPath)
	require.NoError(t, err)

	id, dest, err := addPost(indexPath, postsDir, doc, newPost{
		Title:    "셋째",
		Category: "기술",
		Date:     "2024-01-03 10:00",
		Content:  []byte("# 본문\n"),
	})
	require.NoError(t, err)

	assert.Equal(t, catalog.ID("3"), id)
	assert.Equal(t, filepath.Join(postsDir, "3.md"), dest)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "# 본문\n", string(data))

	saved, err := catalog.Load(indexPath)
	require.NoError(t, err)
	groups := saved.Groups()
	require.Len(t, groups, 1)
	assert.Equal(t, 3, groups[0].Count)
	assert.Equal(t, catalog.PostRef{ID: "3", Title: "셋째", Date: "2024-01-03 10:00"}, groups[0].Posts[0])
	assert.Equal(t, 3, *saved[0].AllPostsCount)
}

func TestAddPostNewCategoryAndIndex(t *testing.T) {
	dir := t.TempDir()
	indexPath := filepath.Join(dir, "posts", "posts.json")
	postsDir := filepath.Join(dir, "posts")

	doc, err := loadIndex(indexPath)
	require.NoError(t, err)
	assert.Empty(t, doc)

	id, _, err := addPost(indexPath, postsDir, doc, newPost{
		Title:    "Hello",
		Category: "일상",
		Date:     "2024-05-01 08:00",
		Content:  []byte("hi"),
	})
	require.NoError(t, err)
	assert.Equal(t, catalog.ID("1"), id)

	saved, err := catalog.Load(indexPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"일상"}, saved.Categories())
}

func TestAddPostRefusesToOverwrite(t *testing.T) {
	indexPath, postsDir := seedSite(t)
	require.NoError(t, os.WriteFile(filepath.Join(postsDir, "3.md"), []byte("already here"), 0o644))
	doc, err := loadIndex(indexPath)
	require.NoError(t, err)

	_, _, err = addPost(indexPath, postsDir, doc, newPost{Title: "T", Category: "기술", Content: []byte("x")})
	assert.Error(t, err)

	saved, err := catalog.Load(indexPath)
	require.NoError(t, err)
	assert.Equal(t, 2, saved.Groups()[0].Count, "index untouched")
}

func TestAddPostValidation(t *testing.T) {
	indexPath, postsDir := seedSite(t)
	doc, err := loadIndex(indexPath)
	require.NoError(t, err)

	_, _, err = addPost(indexPath, postsDir, doc, newPost{Title: "", Category: "기술"})
	assert.Error(t, err)

	_, _, err = addPost(indexPath, postsDir, doc, newPost{Title: "T", Category: " "})
	assert.ErrorIs(t, err, catalog.ErrNoCategory)
}

func TestWithTitle(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"no frontmatter", "Body\n", "---\ntitle: New\n---\nBody\n"},
		{"block without title", "---\ndate: 2024\n---\nBody\n", "---\ntitle: New\ndate: 2024\n---\nBody\n"},
		{"title kept", "---\ntitle: Old\n---\nBody\n", "---\ntitle: Old\n---\nBody\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, string(withTitle([]byte(tt.content), "New")))
		})
	}
}

func TestPrintReport(t *testing.T) {
	var ok, bad strings.Builder
	printReport(&ok, contentReport(nil, nil))
	assert.Contains(t, ok.String(), "OK: 0 posts")

	printReport(&bad, contentReport([]string{"posts/9.md"}, []string{"4"}))
	assert.Contains(t, bad.String(), "Documents not in the index (1):\n  posts/9.md\n")
	assert.Contains(t, bad.String(), "Posts without a document (1):\n  4\n")
	assert.NotContains(t, bad.String(), "Ids listed more than once")
}

func contentReport(orphans, missing []string) content.Report {
	return content.Report{Orphans: orphans, Missing: missing}
}
