// Package mcpserver implements an MCP (Model Context Protocol) server that
// exposes modmerge capabilities as MCP tools over stdio.
package mcpserver

import (
	"context"
	"regexp"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hoangluudev/modmerge"
	"github.com/hoangluudev/modmerge/registry"
)

const serverInstructions = `modmerge MCP server — scans game mod directories, previews semantic XML merges against a mission, commits merges, and collapses duplicate entries.

Configuration: defaults are configurable via MODMERGE_* environment variables set in your MCP client config.

Key settings:
- MODMERGE_MISSION_DIR — default mission directory for preview and merge
- MODMERGE_INCLUDE_UNKNOWN (default: false) — include unknown-schema files as verbatim copies
- MODMERGE_REGISTRY_OVERLAY — YAML file extending the schema registry
- MODMERGE_FIX_MODE (default: keep-last) — default duplicate-collapse mode for fix_duplicates

Typical workflow: scan to inventory mods, preview to classify entries (new/duplicate/conflict), then merge with a resolve policy (first, last, or fail) once conflicts are acceptable.`

// Run starts the MCP server over stdio and blocks until the client
// disconnects or the context is cancelled.
func Run(ctx context.Context) error {
	server := mcp.NewServer(
		&mcp.Implementation{Name: "modmerge", Version: modmerge.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "scan",
		Description: "Scan mod directories and classify every configuration file they ship: mergeable, empty, unknown schema, or invalid. Read-only. Use include_unknown=true to list files with no schema model; use skip to exclude mods by folder identifier.",
	}, handleScan)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "preview",
		Description: "Dry-run a merge of mod directories against a mission. Every entry is classified new, duplicate, or conflict per target file; nothing is written. Conflict groups list each candidate's source mod so an operator can choose a resolution before merging.",
	}, handlePreview)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "merge",
		Description: "Merge mod directories into a mission. Conflicts must be resolvable by the chosen policy: resolve=first keeps the mission's existing entry (or the first mod's), resolve=last favours the most recently scanned mod, resolve=fail (default) refuses to commit while conflicts remain. Writes are atomic per file; failures are reported per file and never roll back committed targets.",
	}, handleMerge)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "fix_duplicates",
		Description: "Collapse duplicate entries inside a merged configuration file. Modes: keep-first, keep-last (default), merge-children (child union, only for file types that permit it). Use dry_run=true to preview without writing.",
	}, handleFixDuplicates)
}

// loadRegistry resolves the schema registry for a tool call, applying the
// overlay from the call input or the server default.
func loadRegistry(overlayPath string) (*registry.Registry, error) {
	if overlayPath == "" {
		overlayPath = cfg.RegistryOverlay
	}
	if overlayPath == "" {
		return registry.Default(), nil
	}
	return registry.Default().WithOverlay(overlayPath)
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

// makeSlice returns nil when n is 0 (preserving omitempty JSON semantics),
// otherwise returns make([]T, 0, n) for pre-allocated appending.
func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, 0, n)
}
