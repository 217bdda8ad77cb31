package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/joonpark/srnav/core"
	"github.com/joonpark/srnav/internal/contract"
	"github.com/joonpark/srnav/internal/narrative"
	"github.com/joonpark/srnav/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg  *contract.Config
	provider contract.RecordProvider
}

// queryFromRequest builds the search query from tool arguments.
func queryFromRequest(request mcp.CallToolRequest) schema.Query {
	q := schema.Query{
		Title:       request.GetString("title", ""),
		Description: request.GetString("description", ""),
		System:      request.GetString("system", ""),
		Category:    request.GetString("category", ""),
		Priority:    schema.Priority(request.GetString("priority", "")),
	}
	if raw := request.GetString("components", ""); raw != "" {
		for _, c := range strings.Split(raw, ",") {
			if c = strings.TrimSpace(c); c != "" {
				q.Components = append(q.Components, c)
			}
		}
	}
	return q
}

// configFromRequest clones the base config with any per-call overrides.
func (h *toolHandler) configFromRequest(request mcp.CallToolRequest) *contract.Config {
	cfg := h.baseCfg.Clone()
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.ResultLimit = l
		cfg.SRResultLimit = 0
		cfg.IncidentResultLimit = 0
	}
	return cfg
}

func (h *toolHandler) handleSearchSimilarSRs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.configFromRequest(request)
	q := queryFromRequest(request)
	if q.IsEmpty() {
		return mcp.NewToolResultError("invalid query: at least one of title/description is required"), nil
	}

	records, err := h.provider.SRRecords(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("record fetch failed: %v", err)), nil
	}
	engine, err := core.NewSREngine(cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("engine setup failed: %v", err)), nil
	}
	matches, err := engine.Search(ctx, q, records)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(matches, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleSearchRelatedIncidents(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.configFromRequest(request)
	q := queryFromRequest(request)
	if q.IsEmpty() {
		return mcp.NewToolResultError("invalid query: at least one of title/description is required"), nil
	}

	records, err := h.provider.IncidentRecords(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("record fetch failed: %v", err)), nil
	}
	engine, err := core.NewIncidentEngine(cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("engine setup failed: %v", err)), nil
	}
	matches, err := engine.Search(ctx, q, records)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(matches, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGatherRiskEvidence(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.configFromRequest(request)
	q := queryFromRequest(request)
	if q.IsEmpty() {
		return mcp.NewToolResultError("invalid query: at least one of title/description is required"), nil
	}

	srTopK := request.GetInt("sr_limit", cfg.EffectiveSRLimit())
	incidentTopK := request.GetInt("incident_limit", cfg.EffectiveIncidentLimit())
	bundle, err := core.NewGatherer(cfg, h.provider).Gather(ctx, q, srTopK, incidentTopK)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("gather failed: %v", err)), nil
	}

	// The prompt is opt-in because it dwarfs the bundle itself.
	response := struct {
		*schema.EvidenceBundle
		FMEAPrompt string `json:"fmea_prompt,omitempty"`
	}{EvidenceBundle: bundle}
	if request.GetBool("include_prompt", false) {
		response.FMEAPrompt = narrative.BuildFMEAPrompt(bundle)
	}

	jsonData, _ := json.MarshalIndent(response, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
