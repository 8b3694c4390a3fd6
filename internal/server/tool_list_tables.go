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

type ListTablesInput struct{}

func RegisterListTablesTool(log *slog.Logger, server *mcp.Server, st *store.Store, clock clockwork.Clock, timeout time.Duration) error {
	req, err := jsonschema.For[ListTablesInput](nil)
	if err != nil {
		return fmt.Errorf("failed to create list_tables input schema: %w", err)
	}

	tool := &mcp.Tool{
		Name: "list_tables",
		Description: `List all tables in the USDA nutrition database (public schema), alphabetically ordered.
			Use this to discover tables before describing or sampling them.`,
		InputSchema: req,
	}

	handler := func(ctx context.Context, _ *mcp.CallToolRequest, in ListTablesInput) (*mcp.CallToolResult, any, error) {
		start := clock.Now()
		log.Debug("mcp/tool: handling list_tables")

		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		tables, err := st.ListTables(ctx)
		return finish(log, clock, "list_tables", start, tables, err), nil, nil
	}

	mcp.AddTool(server, tool, handler)
	return nil
}
