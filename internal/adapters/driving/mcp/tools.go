package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/sercha-stream/internal/core/domain"
)

// defaultToolLimit caps results returned from the search tool.
const defaultToolLimit = 30

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query         string `json:"query" jsonschema:"the code search query"`
	PatternType   string `json:"pattern_type,omitempty" jsonschema:"pattern type: standard, literal, regexp, structural, or keyword"`
	CaseSensitive bool   `json:"case_sensitive,omitempty" jsonschema:"make the search case sensitive"`
	Limit         int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 30)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	State      string               `json:"state"`
	Results    []SearchResultOutput `json:"results"`
	Count      int                  `json:"count"`
	MatchCount int                  `json:"match_count"`
	Error      string               `json:"error,omitempty"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	Type       string   `json:"type"`
	Repository string   `json:"repository,omitempty"`
	Path       string   `json:"path,omitempty"`
	Preview    []string `json:"preview,omitempty"`
	Detail     string   `json:"detail,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Run a streaming code search against the configured server and return the final results",
	}, s.handleSearch)
}

// handleSearch handles the search tool invocation. The stream is run to
// completion; partial results that arrived before a stream fault are
// still returned alongside the error message.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultToolLimit
	}

	req := domain.StreamRequest{
		Query:         input.Query,
		CaseSensitive: input.CaseSensitive,
		PatternType:   domain.PatternType(input.PatternType),
	}
	if s.ports.Settings != nil {
		req = s.ports.Settings.Get().Request(input.Query)
		if input.PatternType != "" {
			req.PatternType = domain.PatternType(input.PatternType)
		}
		if input.CaseSensitive {
			req.CaseSensitive = true
		}
	}

	agg, err := s.ports.Search.SearchCollect(ctx, req)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		State:   agg.State.String(),
		Results: make([]SearchResultOutput, 0, limit),
	}
	if agg.Error != nil {
		output.Error = agg.Error.Message
	}
	output.MatchCount = agg.Progress.MatchCount

	for _, m := range agg.Results {
		if len(output.Results) >= limit {
			break
		}
		output.Results = append(output.Results, resultOutput(m))
	}
	output.Count = len(output.Results)

	return nil, output, nil
}

// resultOutput flattens one match into the tool's result shape.
func resultOutput(m domain.SearchMatch) SearchResultOutput {
	out := SearchResultOutput{
		Type:       m.Type().String(),
		Repository: m.RepoName(),
	}

	switch v := m.(type) {
	case *domain.ContentMatch:
		out.Path = v.Path
		items := domain.ItemsFromContentMatch(v)
		for _, item := range items {
			out.Preview = append(out.Preview, fmt.Sprintf("%d: %s", item.Line+1, item.Preview))
		}
	case *domain.PathMatch:
		out.Path = v.Path
	case *domain.SymbolMatch:
		out.Path = v.Path
		for _, sym := range v.Symbols {
			out.Preview = append(out.Preview, fmt.Sprintf("%d: %s %s", sym.Line+1, sym.Kind, sym.Name))
		}
	case *domain.RepoMatch:
		out.Detail = v.Description
	case *domain.CommitMatch:
		out.Detail = fmt.Sprintf("%s: %s", v.AuthorName, v.Message)
	case *domain.PersonMatch:
		out.Detail = v.DisplayName
	case *domain.TeamMatch:
		out.Detail = v.Name
	}
	return out
}
