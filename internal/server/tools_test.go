package server

import (
	"log/slog"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/HemantaPatil/mcp-postgres/internal/store"
)

func TestMCP_Server_Tools_Register(t *testing.T) {
	t.Parallel()

	pool := testPool(t)
	st := testStore(t, pool)
	clock := clockwork.NewFakeClock()

	registrations := map[string]func(*slog.Logger, *mcp.Server, *store.Store, clockwork.Clock, time.Duration) error{
		"execute_query":               RegisterExecuteQueryTool,
		"list_tables":                 RegisterListTablesTool,
		"describe_table":              RegisterDescribeTableTool,
		"get_table_sample":            RegisterTableSampleTool,
		"search_foods":                RegisterSearchFoodsTool,
		"get_nutrition_profile":       RegisterNutritionProfileTool,
		"get_foods_by_category":       RegisterFoodsByCategoryTool,
		"get_food_categories":         RegisterFoodCategoriesTool,
		"compare_foods_nutrition":     RegisterCompareFoodsTool,
		"find_foods_high_in_nutrient": RegisterHighInNutrientTool,
	}

	for name, register := range registrations {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			mcpServer := mcp.NewServer(&mcp.Implementation{
				Name:    "Test Server",
				Version: "1.0.0",
			}, nil)
			err := register(testLogger(t), mcpServer, st, clock, 30*time.Second)
			require.NoError(t, err)
		})
	}
}
