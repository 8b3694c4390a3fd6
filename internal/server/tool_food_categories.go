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

type FoodCategoriesInput struct{}

func RegisterFoodCategoriesTool(log *slog.Logger, server *mcp.Server, st *store.Store, clock clockwork.Clock, timeout time.Duration) error {
	req, err := jsonschema.For[FoodCategoriesInput](nil)
	if err != nil {
		return fmt.Errorf("failed to create get_food_categories input schema: %w", err)
	}

	tool := &mcp.Tool{
		Name: "get_food_categories",
		Description: `Get all food categories with the number of foods in each, ordered by food count descending.
			Categories with no foods are included with a count of 0.`,
		InputSchema: req,
	}

	handler := func(ctx context.Context, _ *mcp.CallToolRequest, in FoodCategoriesInput) (*mcp.CallToolResult, any, error) {
		start := clock.Now()
		log.Debug("mcp/tool: handling get_food_categories")

		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		categories, err := st.FoodCategories(ctx)
		return finish(log, clock, "get_food_categories", start, categories, err), nil, nil
	}

	mcp.AddTool(server, tool, handler)
	return nil
}
