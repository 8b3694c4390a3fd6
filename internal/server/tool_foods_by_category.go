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

const defaultCategoryLimit = 50

type FoodsByCategoryInput struct {
	Category string `json:"category"`
	Limit    int    `json:"limit,omitempty"`
}

func RegisterFoodsByCategoryTool(log *slog.Logger, server *mcp.Server, st *store.Store, clock clockwork.Clock, timeout time.Duration) error {
	req, err := jsonschema.For[FoodsByCategoryInput](nil)
	if err != nil {
		return fmt.Errorf("failed to create get_foods_by_category input schema: %w", err)
	}

	tool := &mcp.Tool{
		Name: "get_foods_by_category",
		Description: `Get foods from a food category, e.g. "Fruits and Fruit Juices".
			The category is matched case-insensitively as a substring of the food group description.
			Results are ordered by description; default limit 50. Use get_food_categories to list categories.`,
		InputSchema: req,
	}

	handler := func(ctx context.Context, _ *mcp.CallToolRequest, in FoodsByCategoryInput) (*mcp.CallToolResult, any, error) {
		start := clock.Now()
		log.Debug("mcp/tool: handling get_foods_by_category", "category", in.Category)

		limit := in.Limit
		if limit <= 0 {
			limit = defaultCategoryLimit
		}

		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		foods, err := st.FoodsByCategory(ctx, in.Category, limit)
		return finish(log, clock, "get_foods_by_category", start, foods, err), nil, nil
	}

	mcp.AddTool(server, tool, handler)
	return nil
}
