// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes bcdtools capabilities as MCP tools over stdio.
package mcpserver

import (
	"context"
	"regexp"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/bcdtools"
)

const serverInstructions = `bcdtools MCP server. Walks browser compatibility data documents and answers support questions about web platform features.

Documents are passed as file, url or content. Parsed documents are cached per session, so repeated calls against the same file are cheap.

Configuration is read from BCDTOOLS_* environment variables set in your MCP client config:
- BCDTOOLS_WALK_LIMIT (default: 100): default result limit for walk_features
- BCDTOOLS_WALK_MAX_LIMIT (default: 1000): upper bound for any limit
- BCDTOOLS_FOLD_POLICY (default: any): how multi-entry support statements are folded (any, primary, all)
- BCDTOOLS_CACHE_ENABLED (default: true), BCDTOOLS_CACHE_FILE_TTL (default: 15m), BCDTOOLS_CACHE_URL_TTL (default: 5m)
- BCDTOOLS_MAX_INLINE_SIZE (default: 10MiB): maximum size of inline content
- BCDTOOLS_ALLOW_PRIVATE_IPS (default: false): allow url documents on private networks`

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled.
func Run(ctx context.Context) error {
	if cfg.CacheEnabled {
		docCache.startSweeper(ctx, cfg.CacheSweepInterval)
	}

	server := mcp.NewServer(
		&mcp.Implementation{Name: "bcdtools", Version: bcdtools.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "document_info",
		Description: "Summarize a browser compatibility data document: top-level categories, browser count, number of __compat nodes, and schema branches that are missing from the document. Call this first on an unfamiliar document.",
	}, handleDocumentInfo)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "walk_features",
		Description: "Walk a browser compatibility data document and list feature records. By default walks the css, html and javascript branches of the built-in schema; set all=true to walk every category, or pass a YAML schema. Filter by category prefix, name search terms, one browser's support (supported, exactly-supported, unsupported, unknown, no-data), status flags, or required fields. Returns summaries by default or full records with detail=true. Use group_by=category for counts instead of items.",
	}, handleWalkFeatures)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "classify_support",
		Description: "Classify support for a single feature (dotted name such as css.at-rules.media) in every browser that has a statement for it. Each browser is reported as supported, unsupported, unknown, or supported since a version. fold selects how multi-entry statements are reduced (any, primary, all).",
	}, handleClassifySupport)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_browsers",
		Description: "List the browsers declared in a compat data document with display names, types, and release counts. Set releases=true to include every release.",
	}, handleListBrowsers)
}

// paginate applies offset/limit pagination to a slice, returning the
// requested page. A non-positive limit defaults to cfg.WalkLimit.
func paginate[T any](items []T, offset, limit int) []T {
	if limit <= 0 {
		limit = cfg.WalkLimit
	}
	if limit > cfg.MaxLimit {
		limit = cfg.MaxLimit
	}
	if offset < 0 || offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end < offset || end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

// makeSlice returns nil when n is 0 so omitempty drops the field.
func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, 0, n)
}

// pathPattern matches absolute filesystem paths in error messages.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

// sanitizeError strips absolute paths so clients do not learn the server's
// directory layout.
func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}

// groupCount represents a single group in group_by results.
type groupCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}
