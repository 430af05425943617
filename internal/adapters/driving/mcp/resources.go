package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// uriScheme is the custom URI scheme for Sercha Stream resources.
const uriScheme = "search://"

// historyResourceLimit caps entries in the history resource.
const historyResourceLimit = 50

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "history",
		Name:        "history",
		Description: "Recent code searches, newest first",
		MIMEType:    "application/json",
	}, s.handleHistoryResource)
}

// handleHistoryResource returns the recent searches list.
func (s *Server) handleHistoryResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.History == nil {
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     "[]",
			}},
		}, nil
	}

	entries, err := s.ports.History.Recent(ctx, historyResourceLimit)
	if err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}

	type entryInfo struct {
		Query      string    `json:"query"`
		Pattern    string    `json:"pattern_type"`
		MatchCount int       `json:"match_count"`
		State      string    `json:"state"`
		CreatedAt  time.Time `json:"created_at"`
	}

	infos := make([]entryInfo, len(entries))
	for i, e := range entries {
		infos[i] = entryInfo{
			Query:      e.Query,
			Pattern:    e.PatternType.String(),
			MatchCount: e.MatchCount,
			State:      e.State.String(),
			CreatedAt:  e.CreatedAt,
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling history: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
