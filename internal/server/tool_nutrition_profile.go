package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/jonboulle/clockwork"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/HemantaPatil/mcp-postgres/internal/metrics"
	"github.com/HemantaPatil/mcp-postgres/internal/store"
)

type NutritionProfileInput struct {
	NDBNo string `json:"ndb_no"`
}

// noFoodFound renders the structured not-found object for an unknown NDB
// number. Unlike query failures this is JSON, not an "Error:" string, and
// callers depend on telling the two apart.
func noFoodFound(ndbNo string) string {
	msg, _ := json.Marshal("No food found with NDB number: " + ndbNo)
	return fmt.Sprintf(`{"error": %s}`, msg)
}

func RegisterNutritionProfileTool(log *slog.Logger, server *mcp.Server, st *store.Store, clock clockwork.Clock, timeout time.Duration) error {
	req, err := jsonschema.For[NutritionProfileInput](nil)
	if err != nil {
		return fmt.Errorf("failed to create get_nutrition_profile input schema: %w", err)
	}

	tool := &mcp.Tool{
		Name: "get_nutrition_profile",
		Description: `Get the complete nutrition profile for a food by its NDB number:
			every nutrient with a positive value, with units, ordered by the standard nutrient display order.
			An unknown NDB number returns {"error": "No food found with NDB number: <id>"}.`,
		InputSchema: req,
	}

	handler := func(ctx context.Context, _ *mcp.CallToolRequest, in NutritionProfileInput) (*mcp.CallToolResult, any, error) {
		start := clock.Now()
		log.Debug("mcp/tool: handling get_nutrition_profile", "ndb_no", in.NDBNo)

		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		profile, err := st.NutritionProfile(ctx, in.NDBNo)
		if err == nil && len(profile) == 0 {
			metrics.ToolCallsTotal.WithLabelValues("get_nutrition_profile", "success").Inc()
			metrics.ToolCallDuration.WithLabelValues("get_nutrition_profile").Observe(clock.Since(start).Seconds())
			return textResult(noFoodFound(in.NDBNo)), nil, nil
		}
		return finish(log, clock, "get_nutrition_profile", start, profile, err), nil, nil
	}

	mcp.AddTool(server, tool, handler)
	return nil
}
