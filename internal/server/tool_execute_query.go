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

type ExecuteQueryInput struct {
	Query  string   `json:"query"`
	Params []string `json:"params,omitempty"`
}

func RegisterExecuteQueryTool(log *slog.Logger, server *mcp.Server, st *store.Store, clock clockwork.Clock, timeout time.Duration) error {
	req, err := jsonschema.For[ExecuteQueryInput](nil)
	if err != nil {
		return fmt.Errorf("failed to create execute_query input schema: %w", err)
	}

	tool := &mcp.Tool{
		Name: "execute_query",
		Description: `Execute a SQL query on the USDA nutrition database.
			The statement runs verbatim with optional positional bound parameters ($1, $2, ...).
			All data is read-only; prefer SELECT statements with LIMIT clauses to keep results manageable.
			Returns a JSON array of row objects.`,
		InputSchema: req,
	}

	handler := func(ctx context.Context, _ *mcp.CallToolRequest, in ExecuteQueryInput) (*mcp.CallToolResult, any, error) {
		start := clock.Now()
		log.Debug("mcp/tool: handling execute_query", "sql", in.Query)

		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		rows, err := st.ExecQuery(ctx, in.Query, in.Params)
		return finish(log, clock, "execute_query", start, rows, err), nil, nil
	}

	mcp.AddTool(server, tool, handler)
	return nil
}
