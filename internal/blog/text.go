package blog

import (
	"fmt"
	"io"
	"strings"

	"github.com/ziadkadry99/blogdeck/internal/listing"
	"github.com/ziadkadry99/blogdeck/internal/paging"
)

// WriteView prints v as plain text for the terminal.
func WriteView(w io.Writer, v View) error {
	var b strings.Builder

	if v.Heading != "" {
		fmt.Fprintf(&b, "%s\n\n", v.Heading)
	}

	if v.Empty {
		b.WriteString(v.EmptyMessage + "\n")
		if v.EmptyDetail != "" {
			b.WriteString(v.EmptyDetail + "\n")
		}
		_, err := io.WriteString(w, b.String())
		return err
	}

	for _, p := range v.Posts {
		fmt.Fprintf(&b, "[%s] %s  %s · %s\n", p.ID, p.Title, p.Date, p.Category)
		if p.Excerpt != "" {
			fmt.Fprintf(&b, "    %s\n", p.Excerpt)
		}
		b.WriteString("\n")
	}

	if len(v.Buttons) > 0 {
		b.WriteString(paging.Render(v.Buttons) + "\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteCategories prints the sidebar category list.
func WriteCategories(w io.Writer, counts listing.Counts, msgs Messages) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s (%d)\n", marker(counts.AllActive), msgs.AllCategories, counts.Total)
	for _, c := range counts.Categories {
		fmt.Fprintf(&b, "%s %s (%d)\n", marker(c.Active), c.Name, c.Count)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteRecent prints the recent posts list.
func WriteRecent(w io.Writer, recent []RecentPost, msgs Messages) error {
	if len(recent) == 0 {
		_, err := fmt.Fprintln(w, msgs.NoPosts)
		return err
	}
	var b strings.Builder
	for _, r := range recent {
		fmt.Fprintf(&b, "%s  %s  (%s)\n", r.Date, r.Title, r.ID)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func marker(active bool) string {
	if active {
		return "*"
	}
	return " "
}
