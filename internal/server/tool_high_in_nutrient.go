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

const defaultNutrientLimit = 20

type HighInNutrientInput struct {
	Nutrient string `json:"nutrient"`
	Limit    int    `json:"limit,omitempty"`
}

func RegisterHighInNutrientTool(log *slog.Logger, server *mcp.Server, st *store.Store, clock clockwork.Clock, timeout time.Duration) error {
	req, err := jsonschema.For[HighInNutrientInput](nil)
	if err != nil {
		return fmt.Errorf("failed to create find_foods_high_in_nutrient input schema: %w", err)
	}

	tool := &mcp.Tool{
		Name: "find_foods_high_in_nutrient",
		Description: `Find the foods highest in a nutrient, e.g. "Protein" or "Vitamin C".
			The nutrient is matched case-insensitively as a substring of the nutrient name;
			only positive values are considered. Results are ordered by value descending; default limit 20.`,
		InputSchema: req,
	}

	handler := func(ctx context.Context, _ *mcp.CallToolRequest, in HighInNutrientInput) (*mcp.CallToolResult, any, error) {
		start := clock.Now()
		log.Debug("mcp/tool: handling find_foods_high_in_nutrient", "nutrient", in.Nutrient)

		limit := in.Limit
		if limit <= 0 {
			limit = defaultNutrientLimit
		}

		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		foods, err := st.FoodsHighInNutrient(ctx, in.Nutrient, limit)
		return finish(log, clock, "find_foods_high_in_nutrient", start, foods, err), nil, nil
	}

	mcp.AddTool(server, tool, handler)
	return nil
}
