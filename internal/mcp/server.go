// Package mcp exposes the blog listing to AI agents over the Model Context
// Protocol.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/blogdeck/internal/blog"
	"github.com/ziadkadry99/blogdeck/internal/posts"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes blog tools.
type Server struct {
	store *posts.Store
	opts  blog.Options
	mcp   *server.MCPServer
}

// NewServer creates a new MCP server over a store whose index is already
// loaded.
func NewServer(store *posts.Store, opts blog.Options) *Server {
	s := &Server{
		store: store,
		opts:  opts,
	}

	s.mcp = server.NewMCPServer(
		"blogdeck",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(searchPostsTool, s.handleSearchPosts)
	s.mcp.AddTool(listCategoriesTool, s.handleListCategories)
	s.mcp.AddTool(getPostTool, s.handleGetPost)
	s.mcp.AddTool(recentPostsTool, s.handleRecentPosts)
}

// coordinator returns a fresh listing so tool calls never share filters.
func (s *Server) coordinator() *blog.Coordinator {
	return blog.New(s.store, s.opts)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
