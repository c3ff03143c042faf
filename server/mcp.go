package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/poiesic/marketscout/core"
)

// ToolName is the MCP tool exposing the pipeline.
const ToolName = "market_research"

// ResearchInput are the market_research tool arguments.
type ResearchInput struct {
	Query   string `json:"query" jsonschema:"the market research question"`
	Ticker  string `json:"ticker,omitempty" jsonschema:"explicit ticker symbol such as NVDA or TCS.NS"`
	Country string `json:"country,omitempty" jsonschema:"two-letter country code of the listing"`
	TopK    int    `json:"top_k,omitempty" jsonschema:"number of corpus passages to retrieve"`
}

// NewMCPServer returns an MCP server with the market_research tool.
func NewMCPServer(answerer Answerer, version string, defaultTopK int) *mcp.Server {
	if defaultTopK < 1 {
		defaultTopK = DefaultTopK
	}
	srv := mcp.NewServer(&mcp.Implementation{Name: "marketscout", Version: version}, nil)

	mcp.AddTool(srv, &mcp.Tool{
		Name: ToolName,
		Description: "Answer a market research question about a listed company using a document " +
			"corpus, live news, search trends and quote fundamentals. Queries naming " +
			"restricted topics are refused.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, in ResearchInput) (*mcp.CallToolResult, any, error) {
		query := strings.TrimSpace(in.Query)
		if query == "" {
			return nil, nil, errors.New("query is required")
		}
		k := in.TopK
		if k < 1 || k > maxTopK {
			k = defaultTopK
		}

		ans := answerer.Answer(ctx, core.Query{
			Text:    query,
			Ticker:  strings.TrimSpace(in.Ticker),
			Country: strings.TrimSpace(in.Country),
		}, k)

		body, err := json.Marshal(ans)
		if err != nil {
			return nil, nil, fmt.Errorf("encode answer: %w", err)
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: string(body)}},
			IsError: ans.Error != "",
		}, nil, nil
	})
	return srv
}

// ServeStdio runs srv over stdin/stdout until ctx is done or the client
// disconnects.
func ServeStdio(ctx context.Context, srv *mcp.Server) error {
	return srv.Run(ctx, &mcp.StdioTransport{})
}
