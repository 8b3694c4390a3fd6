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

type DescribeTableInput struct {
	TableName string `json:"table_name"`
}

func RegisterDescribeTableTool(log *slog.Logger, server *mcp.Server, st *store.Store, clock clockwork.Clock, timeout time.Duration) error {
	req, err := jsonschema.For[DescribeTableInput](nil)
	if err != nil {
		return fmt.Errorf("failed to create describe_table input schema: %w", err)
	}

	tool := &mcp.Tool{
		Name: "describe_table",
		Description: `Get the schema of a table: column name, data type, nullability and default,
			ordered by column position. An unknown table returns an empty list.`,
		InputSchema: req,
	}

	handler := func(ctx context.Context, _ *mcp.CallToolRequest, in DescribeTableInput) (*mcp.CallToolResult, any, error) {
		start := clock.Now()
		log.Debug("mcp/tool: handling describe_table", "table", in.TableName)

		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		columns, err := st.DescribeTable(ctx, in.TableName)
		return finish(log, clock, "describe_table", start, columns, err), nil, nil
	}

	mcp.AddTool(server, tool, handler)
	return nil
}
