package server

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/HemantaPatil/mcp-postgres/internal/store"
)

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestMCP_Server_RenderJSON(t *testing.T) {
	t.Parallel()

	rows := []store.Row{
		{"ndb_no": "01001", "long_desc": "Butter, salted"},
	}

	text, err := renderJSON(rows)
	require.NoError(t, err)

	// 2-space indentation, array of row objects.
	require.Equal(t, "[\n  {\n    \"long_desc\": \"Butter, salted\",\n    \"ndb_no\": \"01001\"\n  }\n]", text)

	// Round-trip preserves row count and key set.
	var decoded []map[string]any
	require.NoError(t, json.Unmarshal([]byte(text), &decoded))
	require.Len(t, decoded, 1)
	require.Len(t, decoded[0], 2)
}

func TestMCP_Server_RenderJSON_EmptyRows(t *testing.T) {
	t.Parallel()

	text, err := renderJSON([]store.Row{})
	require.NoError(t, err)
	require.Equal(t, "[]", text)
}

func TestMCP_Server_Finish(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	log := testLogger(t)

	t.Run("success renders json", func(t *testing.T) {
		t.Parallel()

		res := finish(log, clock, "search_foods", clock.Now(), []store.Row{}, nil)
		require.Equal(t, "[]", resultText(t, res))
	})

	t.Run("failure renders error text", func(t *testing.T) {
		t.Parallel()

		res := finish(log, clock, "search_foods", clock.Now(), nil, errors.New("relation does not exist"))
		text := resultText(t, res)
		require.Equal(t, "Error: relation does not exist", text)

		// The error response is deliberately not JSON.
		var decoded any
		require.Error(t, json.Unmarshal([]byte(text), &decoded))
	})
}

func TestMCP_Server_NoFoodFound(t *testing.T) {
	t.Parallel()

	text := noFoodFound("nonexistent-id")
	require.Equal(t, `{"error": "No food found with NDB number: nonexistent-id"}`, text)

	// Structured JSON, not a plain-text error and not an array.
	var decoded map[string]string
	require.NoError(t, json.Unmarshal([]byte(text), &decoded))
	require.Equal(t, "No food found with NDB number: nonexistent-id", decoded["error"])
}
