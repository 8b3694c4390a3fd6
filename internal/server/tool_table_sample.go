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

const defaultSampleLimit = 10

type TableSampleInput struct {
	TableName string `json:"table_name"`
	Limit     int    `json:"limit,omitempty"`
}

func RegisterTableSampleTool(log *slog.Logger, server *mcp.Server, st *store.Store, clock clockwork.Clock, timeout time.Duration) error {
	req, err := jsonschema.For[TableSampleInput](nil)
	if err != nil {
		return fmt.Errorf("failed to create get_table_sample input schema: %w", err)
	}

	tool := &mcp.Tool{
		Name: "get_table_sample",
		Description: `Get a sample of rows from a table (default 10).
			The table name is checked against the database catalog; names not found there are rejected.`,
		InputSchema: req,
	}

	handler := func(ctx context.Context, _ *mcp.CallToolRequest, in TableSampleInput) (*mcp.CallToolResult, any, error) {
		start := clock.Now()
		log.Debug("mcp/tool: handling get_table_sample", "table", in.TableName)

		limit := in.Limit
		if limit <= 0 {
			limit = defaultSampleLimit
		}

		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		rows, err := st.TableSample(ctx, in.TableName, limit)
		return finish(log, clock, "get_table_sample", start, rows, err), nil, nil
	}

	mcp.AddTool(server, tool, handler)
	return nil
}
