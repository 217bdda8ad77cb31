package mcp_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/joonpark/srnav/internal/contract"
	mcp_internal "github.com/joonpark/srnav/internal/mcp"
	"github.com/joonpark/srnav/internal/recordstore"
	"github.com/joonpark/srnav/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBaseConfig() *contract.Config {
	return &contract.Config{
		ResultLimit:     5,
		Precision:       2,
		SRWeights:       schema.GetDefaultSRWeights(),
		IncidentWeights: schema.GetDefaultIncidentWeights(),
		Bands:           schema.GetDefaultTemporalBands(),
	}
}

func seededProvider(t *testing.T) contract.RecordProvider {
	t.Helper()
	store := recordstore.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.PutSRRecords(ctx, []schema.SRRecord{
		{
			ID:                 "SR-1",
			Title:              "결제 게이트웨이 타임아웃 개선",
			Description:        "PG사 연동 구간 타임아웃 처리",
			System:             "Billing",
			Priority:           schema.PriorityHigh,
			AffectedComponents: []string{"payment-gateway"},
		},
	}))
	require.NoError(t, store.PutIncidentRecords(ctx, []schema.IncidentRecord{
		{
			ID:                 "INC-1",
			Title:              "결제 게이트웨이 장애",
			Description:        "커넥션 풀 고갈로 결제 실패",
			System:             "Billing",
			Severity:           schema.SeverityCritical,
			AffectedComponents: []string{"payment-gateway"},
		},
	}))
	return store
}

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	s := mcp_internal.NewMCPServer(testBaseConfig(), seededProvider(t))
	ctx := context.Background()

	for _, name := range []string{"search_similar_srs", "search_related_incidents", "gather_risk_evidence"} {
		t.Run(name+" empty query", func(t *testing.T) {
			tool := s.GetTool(name)
			require.NotNil(t, tool, "Tool %s should exist", name)

			res, err := tool.Handler(ctx, callRequest(name, map[string]any{
				"title":       "",
				"description": "",
			}))
			require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
			assert.True(t, res.IsError, "The response should indicate an error state")
			assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "title/description is required")
		})
	}
}

func TestMCPServerHandlers_SearchSimilarSRs(t *testing.T) {
	s := mcp_internal.NewMCPServer(testBaseConfig(), seededProvider(t))
	ctx := context.Background()

	tool := s.GetTool("search_similar_srs")
	require.NotNil(t, tool)

	res, err := tool.Handler(ctx, callRequest("search_similar_srs", map[string]any{
		"title":      "결제 게이트웨이 타임아웃 개선",
		"system":     "Billing",
		"components": "payment-gateway, billing-api",
		"limit":      3.0,
	}))
	require.NoError(t, err)
	require.False(t, res.IsError)

	var matches []schema.SRMatch
	require.NoError(t, json.Unmarshal([]byte(res.Content[0].(mcp.TextContent).Text), &matches))
	require.Len(t, matches, 1)
	assert.Equal(t, "SR-1", matches[0].SR.ID)
	assert.True(t, matches[0].MatchFactors.SystemMatch)
}

func TestMCPServerHandlers_GatherRiskEvidence(t *testing.T) {
	s := mcp_internal.NewMCPServer(testBaseConfig(), seededProvider(t))
	ctx := context.Background()

	tool := s.GetTool("gather_risk_evidence")
	require.NotNil(t, tool)

	t.Run("bundle only", func(t *testing.T) {
		res, err := tool.Handler(ctx, callRequest("gather_risk_evidence", map[string]any{
			"title": "결제 게이트웨이 개선",
		}))
		require.NoError(t, err)
		require.False(t, res.IsError)

		var response struct {
			schema.EvidenceBundle
			FMEAPrompt string `json:"fmea_prompt"`
		}
		require.NoError(t, json.Unmarshal([]byte(res.Content[0].(mcp.TextContent).Text), &response))
		require.Len(t, response.SRResults, 1)
		require.Len(t, response.IncidentResults, 1)
		assert.Empty(t, response.FMEAPrompt, "prompt is opt-in")
	})

	t.Run("per-engine limits", func(t *testing.T) {
		store := recordstore.NewMemoryStore()
		require.NoError(t, store.PutSRRecords(ctx, []schema.SRRecord{
			{ID: "SR-1", Title: "결제 게이트웨이 개선 1차"},
			{ID: "SR-2", Title: "결제 게이트웨이 개선 2차"},
			{ID: "SR-3", Title: "결제 게이트웨이 개선 3차"},
		}))
		require.NoError(t, store.PutIncidentRecords(ctx, []schema.IncidentRecord{
			{ID: "INC-1", Title: "결제 게이트웨이 장애 1차"},
			{ID: "INC-2", Title: "결제 게이트웨이 장애 2차"},
		}))
		srv := mcp_internal.NewMCPServer(testBaseConfig(), store)
		limitTool := srv.GetTool("gather_risk_evidence")
		require.NotNil(t, limitTool)

		res, err := limitTool.Handler(ctx, callRequest("gather_risk_evidence", map[string]any{
			"title":          "결제 게이트웨이 개선",
			"sr_limit":       1.0,
			"incident_limit": 2.0,
		}))
		require.NoError(t, err)
		require.False(t, res.IsError)

		var response schema.EvidenceBundle
		require.NoError(t, json.Unmarshal([]byte(res.Content[0].(mcp.TextContent).Text), &response))
		assert.Len(t, response.SRResults, 1, "sr side should honor its own limit")
		assert.Len(t, response.IncidentResults, 2, "incident side should honor its own limit")
	})

	t.Run("with prompt", func(t *testing.T) {
		res, err := tool.Handler(ctx, callRequest("gather_risk_evidence", map[string]any{
			"title":          "결제 게이트웨이 개선",
			"include_prompt": true,
		}))
		require.NoError(t, err)
		require.False(t, res.IsError)

		var response struct {
			schema.EvidenceBundle
			FMEAPrompt string `json:"fmea_prompt"`
		}
		require.NoError(t, json.Unmarshal([]byte(res.Content[0].(mcp.TextContent).Text), &response))
		assert.Contains(t, response.FMEAPrompt, "FMEA")
		assert.Contains(t, response.FMEAPrompt, "SR-1")
	})
}
