package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/blogdeck/internal/catalog"
	"github.com/ziadkadry99/blogdeck/internal/frontmatter"
	"github.com/ziadkadry99/blogdeck/internal/logging"
)

// DateLayout is the format of post dates in the index.
const DateLayout = "2006-01-02 15:04"

var addCmd = &cobra.Command{
	Use:   "add <file.md>",
	Short: "Add a markdown file to the blog as a new post",
	Long: `Assigns the next post id, records the post at the front of its category
in the index and copies the file to <posts dir>/<id>.md. The title and
category are asked for when not given as flags. The title defaults to the
file's own frontmatter title.`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().String("title", "", "post title")
	addCmd.Flags().String("category", "", "post category (created when new)")
	addCmd.Flags().Bool("frontmatter", false, "prepend a title frontmatter block when the file has none")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Site.BaseURL != "" {
		return fmt.Errorf("cannot add posts to a remote site (%s); unset site.base_url", cfg.Site.BaseURL)
	}

	src := args[0]
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("reading post: %w", err)
	}

	indexPath := filepath.Join(cfg.Site.Dir, filepath.FromSlash(cfg.Site.IndexPath))
	doc, err := loadIndex(indexPath)
	if err != nil {
		return err
	}

	title, _ := cmd.Flags().GetString("title")
	if strings.TrimSpace(title) == "" {
		title, err = promptTitle(frontmatter.Parse(string(data)).Get("title", ""))
		if err != nil {
			return err
		}
	}

	category, _ := cmd.Flags().GetString("category")
	if strings.TrimSpace(category) == "" {
		category, err = promptCategory(doc.Categories())
		if err != nil {
			return err
		}
	}

	withFrontmatter, _ := cmd.Flags().GetBool("frontmatter")
	p := newPost{
		Title:       strings.TrimSpace(title),
		Category:    strings.TrimSpace(category),
		Date:        time.Now().Format(DateLayout),
		Content:     data,
		Frontmatter: withFrontmatter,
	}

	postsDir := filepath.Join(cfg.Site.Dir, filepath.FromSlash(cfg.Site.PostsPath))
	id, dest, err := addPost(indexPath, postsDir, doc, p)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Post added")
	fmt.Fprintf(out, "  ID:       %s\n", id)
	fmt.Fprintf(out, "  Title:    %s\n", p.Title)
	fmt.Fprintf(out, "  Category: %s\n", p.Category)
	fmt.Fprintf(out, "  Date:     %s\n", p.Date)
	fmt.Fprintf(out, "  File:     %s\n", dest)
	return nil
}

// loadIndex reads the index, starting an empty one when the file does not
// exist yet.
func loadIndex(path string) (catalog.Document, error) {
	doc, err := catalog.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return catalog.Document{}, nil
	}
	return doc, err
}

type newPost struct {
	Title       string
	Category    string
	Date        string
	Content     []byte
	Frontmatter bool
}

// addPost records p in doc, writes its document and saves the index. The
// document is written first and removed again if the index cannot be saved.
func addPost(indexPath, postsDir string, doc catalog.Document, p newPost) (catalog.ID, string, error) {
	if p.Title == "" {
		return "", "", errors.New("title is required")
	}

	id, err := doc.AddPost(p.Category, p.Title, p.Date)
	if err != nil {
		return "", "", err
	}

	if err := os.MkdirAll(postsDir, 0o755); err != nil {
		return "", "", err
	}
	dest := filepath.Join(postsDir, string(id)+".md")
	if _, err := os.Stat(dest); err == nil {
		return "", "", fmt.Errorf("%s already exists; the index and the posts directory disagree (run `blogdeck check`)", dest)
	}

	content := p.Content
	if p.Frontmatter {
		content = withTitle(content, p.Title)
	}
	if err := os.WriteFile(dest, content, 0o644); err != nil {
		return "", "", fmt.Errorf("writing post: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(indexPath), 0o755); err != nil {
		os.Remove(dest)
		return "", "", err
	}
	if err := catalog.Save(indexPath, doc); err != nil {
		os.Remove(dest)
		return "", "", err
	}

	log := logging.Component("add")
	log.Info().Str("id", string(id)).Str("category", p.Category).Str("file", dest).Msg("post added")
	return id, dest, nil
}

// withTitle prepends a frontmatter block naming title unless the document
// already has a frontmatter title.
func withTitle(content []byte, title string) []byte {
	doc := frontmatter.Parse(string(content))
	if doc.Get("title", "") != "" {
		return content
	}
	if len(doc.Metadata) > 0 {
		// Keep the existing block and add the title as its first line.
		_, rest, _ := strings.Cut(string(content), "\n")
		return []byte("---\ntitle: " + title + "\n" + rest)
	}
	return []byte("---\ntitle: " + title + "\n---\n" + string(content))
}

func promptTitle(suggested string) (string, error) {
	prompt := promptui.Prompt{
		Label:   "Title",
		Default: suggested,
		Validate: func(s string) error {
			if strings.TrimSpace(s) == "" {
				return errors.New("title cannot be empty")
			}
			return nil
		},
	}
	title, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("title: %w", err)
	}
	return title, nil
}

func promptCategory(existing []string) (string, error) {
	if len(existing) == 0 {
		prompt := promptui.Prompt{
			Label:    "Category",
			Validate: validateCategory,
		}
		category, err := prompt.Run()
		if err != nil {
			return "", fmt.Errorf("category: %w", err)
		}
		return category, nil
	}

	sel := promptui.SelectWithAdd{
		Label:    "Category",
		Items:    existing,
		AddLabel: "New category",
		Validate: validateCategory,
	}
	_, category, err := sel.Run()
	if err != nil {
		return "", fmt.Errorf("category: %w", err)
	}
	return category, nil
}

func validateCategory(s string) error {
	if strings.TrimSpace(s) == "" {
		return catalog.ErrNoCategory
	}
	return nil
}
