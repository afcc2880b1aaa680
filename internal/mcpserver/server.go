// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes oasfilter's filtering engine as an MCP tool over stdio.
package mcpserver

import (
	"context"
	"regexp"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	oasfilter "github.com/erraggy/oasfilter"
)

const serverInstructions = `oasfilter MCP server — reduces OpenAPI specs to a self-consistent subset of their operations.

Configuration: All defaults are configurable via OASFILTER_* environment variables set in your MCP client config. The Go MCP SDK does not support initializationOptions; use env vars instead.

Key settings:
- OASFILTER_CACHE_FILE_TTL (default: 15m) — cache TTL for local file specs
- OASFILTER_CACHE_URL_TTL (default: 5m) — cache TTL for URL-fetched specs
- OASFILTER_CACHE_ENABLED (default: true) — disable spec caching entirely
- OASFILTER_MAX_INLINE_SIZE (default: 10MiB) — maximum inline content size
- OASFILTER_ALLOW_PRIVATE_IPS (default: false) — allow fetching specs from private/loopback addresses

Caching: Decoded specs are cached per session. File entries use path+mtime as key (auto-invalidated on change). URL entries are cached with a shorter TTL. A background sweeper removes expired entries every 60s.`

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled.
func Run(ctx context.Context) error {
	if cfg.CacheEnabled {
		specCache.startSweeper(ctx, cfg.CacheSweepInterval)
	}

	server := mcp.NewServer(
		&mcp.Implementation{Name: "oasfilter", Version: oasfilter.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "filter",
		Description: "Filter an OpenAPI Specification document down to the operations matching every given selector (path globs, HTTP methods, tags, security scheme names), plus the transitive closure of components they reference and the tags they carry. Selectors of the same kind are alternatives; different kinds must all match. With no selectors, all operations are kept and only unreferenced components and unused tags are pruned. Returns the filtered document in the input's format (JSON or YAML) plus kept/dropped statistics. Use output to write to a file instead of returning the document inline.",
	}, handleFilter)
}

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

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
