package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/blogdeck/internal/blog"
	"github.com/ziadkadry99/blogdeck/internal/posts"
)

// handleSearchPosts returns one page of the filtered listing.
func (s *Server) handleSearchPosts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := request.GetString("query", "")
	category := request.GetString("category", "")
	page := request.GetInt("page", 1)

	c := s.coordinator()
	switch {
	case strings.TrimSpace(query) != "":
		c.Search(query)
	case category != "":
		c.FilterByCategory(category)
	}

	var sb strings.Builder
	if err := blog.WriteView(&sb, c.Display(ctx, page)); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("rendering listing failed: %v", err)), nil
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// handleListCategories returns the category counts.
func (s *Server) handleListCategories(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c := s.coordinator()

	var sb strings.Builder
	if err := blog.WriteCategories(&sb, c.Categories(), c.Messages()); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("rendering categories failed: %v", err)), nil
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// handleGetPost returns a post's metadata followed by its markdown body.
func (s *Server) handleGetPost(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: id"), nil
	}

	d, err := s.coordinator().Post(ctx, id)
	if errors.Is(err, posts.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("No post with id %q. Use search_posts to list post ids.", id)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load post: %v", err)), nil
	}

	doc, err := s.store.LoadDocument(ctx, id)
	if errors.Is(err, posts.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("Post %q has no document.", id)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read post: %v", err)), nil
	}

	return mcp.NewToolResultText(formatPost(d, doc.Body)), nil
}

// handleRecentPosts returns the newest posts.
func (s *Server) handleRecentPosts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c := s.coordinator()
	recent := c.Recent(ctx, request.GetInt("limit", 0))

	var sb strings.Builder
	if err := blog.WriteRecent(&sb, recent, c.Messages()); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("rendering recent posts failed: %v", err)), nil
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// formatPost lays a post out for AI agent consumption.
func formatPost(d *posts.Detail, body string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", d.Title)
	fmt.Fprintf(&sb, "ID: %s\n", d.ID)
	if d.Date != "" {
		fmt.Fprintf(&sb, "Date: %s\n", d.Date)
	}
	fmt.Fprintf(&sb, "Category: %s\n", d.Category)
	if d.Excerpt != "" {
		fmt.Fprintf(&sb, "Excerpt: %s\n", d.Excerpt)
	}
	sb.WriteString("\n")
	sb.WriteString(strings.TrimSpace(body))
	sb.WriteString("\n")
	return sb.String()
}
