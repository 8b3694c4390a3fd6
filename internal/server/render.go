package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/HemantaPatil/mcp-postgres/internal/metrics"
)

// Every tool resolves to a textual result: JSON on success, a plain
// "Error: <message>" string on failure. Query failures never surface as
// MCP protocol errors, so handlers always return a nil error alongside
// one of these results.

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func renderJSON(v any) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode result: %w", err)
	}
	return string(b), nil
}

// finish converts a tool outcome into the textual contract and records
// the call's metrics.
func finish(log *slog.Logger, clock clockwork.Clock, tool string, start time.Time, v any, err error) *mcp.CallToolResult {
	duration := clock.Since(start).Seconds()

	if err == nil {
		var text string
		text, err = renderJSON(v)
		if err == nil {
			metrics.ToolCallsTotal.WithLabelValues(tool, "success").Inc()
			metrics.ToolCallDuration.WithLabelValues(tool).Observe(duration)
			return textResult(text)
		}
	}

	log.Error("mcp/tool: "+tool+" failed", "error", err)
	metrics.ToolCallsTotal.WithLabelValues(tool, "error").Inc()
	metrics.ToolCallDuration.WithLabelValues(tool).Observe(duration)
	return textResult("Error: " + err.Error())
}
