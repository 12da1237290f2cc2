// Package mcptools exposes repository and package lookups as MCP tools.
package mcptools

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	ServerName    = "taskboard-tools"
	ServerVersion = "1.0.0"
)

// Tools holds the tool handlers and their upstream registry.
type Tools struct {
	registry *Registry
	logger   *slog.Logger
}

// NewTools returns the handlers backed by registry.
func NewTools(registry *Registry, logger *slog.Logger) *Tools {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tools{registry: registry, logger: logger}
}

// NewServer builds an MCP server with every tool registered.
func NewServer(t *Tools) *server.MCPServer {
	s := server.NewMCPServer(
		ServerName,
		ServerVersion,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	s.AddTool(GitHubStatsTool(), t.HandleGitHubStats)
	s.AddTool(PackageInfoTool(), t.HandlePackageInfo)
	return s
}

// GitHubStatsTool describes get-github-stats.
func GitHubStatsTool() mcp.Tool {
	return mcp.NewTool("get-github-stats",
		mcp.WithTitleAnnotation("Get GitHub Repository Stats"),
		mcp.WithDescription("Fetch GitHub repository statistics including stars, forks, and issues"),
		mcp.WithString("owner", mcp.Required(), mcp.Description(`Repository owner (e.g., "angular")`)),
		mcp.WithString("repo", mcp.Required(), mcp.Description(`Repository name (e.g., "angular-cli")`)),
	)
}

// PackageInfoTool describes get-npm-package-info.
func PackageInfoTool() mcp.Tool {
	return mcp.NewTool("get-npm-package-info",
		mcp.WithTitleAnnotation("Get NPM Package Info"),
		mcp.WithDescription("Fetch NPM package information including version, description, and repository"),
		mcp.WithString("packageName", mcp.Required(), mcp.Description(`NPM package name (e.g., "express", "@angular/cli")`)),
	)
}

// HandleGitHubStats serves get-github-stats. Upstream failures become error
// results rather than protocol errors.
func (t *Tools) HandleGitHubStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	owner, err := req.RequireString("owner")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	repo, err := req.RequireString("repo")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	stats, err := t.registry.GitHubStats(ctx, owner, repo)
	if err != nil {
		return t.toolError("get-github-stats", err), nil
	}
	return structured(stats)
}

// HandlePackageInfo serves get-npm-package-info.
func (t *Tools) HandlePackageInfo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("packageName")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	info, err := t.registry.PackageInfo(ctx, name)
	if err != nil {
		return t.toolError("get-npm-package-info", err), nil
	}
	return structured(info)
}

func (t *Tools) toolError(tool string, err error) *mcp.CallToolResult {
	t.logger.Warn("tool call failed", slog.String("tool", tool), slog.String("error", err.Error()))
	return mcp.NewToolResultError("Error: " + err.Error())
}

func structured(v any) (*mcp.CallToolResult, error) {
	text, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultStructured(v, string(text)), nil
}
