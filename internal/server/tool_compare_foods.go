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

type CompareFoodsInput struct {
	NDBNumbers []string `json:"ndb_numbers"`
	Nutrients  []string `json:"nutrients,omitempty"`
}

func RegisterCompareFoodsTool(log *slog.Logger, server *mcp.Server, st *store.Store, clock clockwork.Clock, timeout time.Duration) error {
	req, err := jsonschema.For[CompareFoodsInput](nil)
	if err != nil {
		return fmt.Errorf("failed to create compare_foods_nutrition input schema: %w", err)
	}

	tool := &mcp.Tool{
		Name: "compare_foods_nutrition",
		Description: `Compare nutrition values between multiple foods identified by NDB numbers.
			Nutrients are matched by exact name; when omitted, the comparison covers
			Energy, Protein, Total lipid (fat) and Carbohydrate, by difference.
			At least one NDB number is required. Results are ordered by food description then nutrient order.`,
		InputSchema: req,
	}

	handler := func(ctx context.Context, _ *mcp.CallToolRequest, in CompareFoodsInput) (*mcp.CallToolResult, any, error) {
		start := clock.Now()
		log.Debug("mcp/tool: handling compare_foods_nutrition", "ndb_numbers", in.NDBNumbers)

		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		comparison, err := st.CompareFoods(ctx, in.NDBNumbers, in.Nutrients)
		return finish(log, clock, "compare_foods_nutrition", start, comparison, err), nil, nil
	}

	mcp.AddTool(server, tool, handler)
	return nil
}
