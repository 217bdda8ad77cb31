// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/joonpark/srnav/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the srnav MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, provider contract.RecordProvider) *server.MCPServer {
	s := server.NewMCPServer(
		"SR Navigator Evidence Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg:  baseCfg,
		provider: provider,
	}

	// --- 1. Tool: search_similar_srs ---
	s.AddTool(mcp.NewTool("search_similar_srs",
		mcp.WithDescription("Search historical service requests similar to a proposed development task."),
		mcp.WithString("title", mcp.Description("Title of the proposed task. At least one of title/description is required.")),
		mcp.WithString("description", mcp.Description("Free-text description of the proposed task.")),
		mcp.WithString("system", mcp.Description("Owning system hint (inferred from text when omitted).")),
		mcp.WithString("components", mcp.Description("Comma-separated affected components hint.")),
		mcp.WithString("category", mcp.Description("Work category hint, e.g. '기능개선'.")),
		mcp.WithString("priority", mcp.Description("Priority hint."), mcp.Enum("Critical", "High", "Medium", "Low")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of results returned.")),
	), h.handleSearchSimilarSRs)

	// --- 2. Tool: search_related_incidents ---
	s.AddTool(mcp.NewTool("search_related_incidents",
		mcp.WithDescription("Search past incidents correlated with a proposed development task."),
		mcp.WithString("title", mcp.Description("Title of the proposed task. At least one of title/description is required.")),
		mcp.WithString("description", mcp.Description("Free-text description of the proposed task.")),
		mcp.WithString("system", mcp.Description("Owning system hint (inferred from text when omitted).")),
		mcp.WithString("components", mcp.Description("Comma-separated affected components hint.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of results returned.")),
	), h.handleSearchRelatedIncidents)

	// --- 3. Tool: gather_risk_evidence ---
	s.AddTool(mcp.NewTool("gather_risk_evidence",
		mcp.WithDescription("Run both search engines concurrently and build a combined risk evidence bundle."),
		mcp.WithString("title", mcp.Description("Title of the proposed task. At least one of title/description is required.")),
		mcp.WithString("description", mcp.Description("Free-text description of the proposed task.")),
		mcp.WithString("system", mcp.Description("Owning system hint (inferred from text when omitted).")),
		mcp.WithString("components", mcp.Description("Comma-separated affected components hint.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of results per engine.")),
		mcp.WithNumber("sr_limit", mcp.Description("Limit the number of SR results, overriding 'limit' for that engine.")),
		mcp.WithNumber("incident_limit", mcp.Description("Limit the number of incident results, overriding 'limit' for that engine.")),
		mcp.WithBoolean("include_prompt", mcp.Description("Include the grounded FMEA prompt text in the response.")),
	), h.handleGatherRiskEvidence)

	return s
}

// StartMCPServer starts the srnav MCP server over stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, provider contract.RecordProvider) error {
	s := NewMCPServer(baseCfg, provider)
	return server.ServeStdio(s)
}
