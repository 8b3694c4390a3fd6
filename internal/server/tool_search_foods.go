package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/jonboulle/clockwork"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/HemantaPatil/mcp-postgres/internal/store"
)

const defaultSearchLimit = 20

type SearchFoodsInput struct {
	Keyword string `json:"keyword"`
	Limit   int    `json:"limit,omitempty"`
}

func RegisterSearchFoodsTool(log *slog.Logger, server *mcp.Server, st *store.Store, clock clockwork.Clock, timeout time.Duration) error {
	req, err := jsonschema.For[SearchFoodsInput](nil)
	if err != nil {
		return fmt.Errorf("failed to create search_foods input schema: %w", err)
	}

	tool := &mcp.Tool{
		Name: "search_foods",
		Description: `Search for foods by keyword in their long or short descriptions (case-insensitive substring match).
			Each match includes its NDB number and food group. Results are ordered by description; default limit 20.`,
		InputSchema: req,
	}

	handler := func(ctx context.Context, _ *mcp.CallToolRequest, in SearchFoodsInput) (*mcp.CallToolResult, any, error) {
		start := clock.Now()
		log.Debug("mcp/tool: handling search_foods", "keyword", in.Keyword)

		limit := in.Limit
		if limit <= 0 {
			limit = defaultSearchLimit
		}

		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		foods, err := st.SearchFoods(ctx, in.Keyword, limit)
		return finish(log, clock, "search_foods", start, foods, err), nil, nil
	}

	mcp.AddTool(server, tool, handler)
	return nil
}
