package mcp

import "github.com/mark3labs/mcp-go/mcp"

// searchPostsTool defines the search_posts MCP tool.
var searchPostsTool = mcp.NewTool("search_posts",
	mcp.WithDescription("List blog posts, optionally filtered by a case-insensitive title search or a category. Returns one page with excerpts."),
	mcp.WithString("query",
		mcp.Description("Text to look for in post titles. Leave empty to list every post."),
	),
	mcp.WithString("category",
		mcp.Description("Only list posts of this category. Ignored when query is set."),
	),
	mcp.WithNumber("page",
		mcp.Description("Page number, starting at 1 (default 1)"),
	),
)

// listCategoriesTool defines the list_categories MCP tool.
var listCategoriesTool = mcp.NewTool("list_categories",
	mcp.WithDescription("List every post category with its number of posts."),
)

// getPostTool defines the get_post MCP tool.
var getPostTool = mcp.NewTool("get_post",
	mcp.WithDescription("Get one blog post: title, date, category and the full markdown body."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Post id as listed by search_posts"),
	),
)

// recentPostsTool defines the recent_posts MCP tool.
var recentPostsTool = mcp.NewTool("recent_posts",
	mcp.WithDescription("List the newest blog posts."),
	mcp.WithNumber("limit",
		mcp.Description("Number of posts to return (default 3)"),
	),
)
