package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMCP_Server_New(t *testing.T) {
	t.Parallel()

	t.Run("registers all tools", func(t *testing.T) {
		t.Parallel()

		s, err := New(validConfig(t))
		require.NoError(t, err)
		require.NotNil(t, s.mcpServer)
		require.NotNil(t, s.httpServer)
	})

	t.Run("invalid config", func(t *testing.T) {
		t.Parallel()

		cfg := validConfig(t)
		cfg.Store = nil
		_, err := New(cfg)
		require.Error(t, err)
	})
}

func TestMCP_Server_ReadyzHandler(t *testing.T) {
	t.Parallel()

	// With a lazily unopened pool the server is ready; no database is
	// dialed.
	s, err := New(validConfig(t))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rr := httptest.NewRecorder()

	s.readyzHandler(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "ok\n", rr.Body.String())
}

func TestMCP_Server_AuthMiddleware(t *testing.T) {
	t.Parallel()

	cfg := validConfig(t)
	cfg.AllowedTokens = []string{"sekret"}
	s, err := New(cfg)
	require.NoError(t, err)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := s.authMiddleware(next)

	tests := []struct {
		name       string
		authHeader string
		wantCode   int
	}{
		{
			name:       "missing header",
			authHeader: "",
			wantCode:   http.StatusUnauthorized,
		},
		{
			name:       "invalid format",
			authHeader: "Basic abc123",
			wantCode:   http.StatusUnauthorized,
		},
		{
			name:       "empty token",
			authHeader: "Bearer ",
			wantCode:   http.StatusUnauthorized,
		},
		{
			name:       "unknown token",
			authHeader: "Bearer nope",
			wantCode:   http.StatusUnauthorized,
		},
		{
			name:       "valid token",
			authHeader: "Bearer sekret",
			wantCode:   http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodPost, "/", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			require.Equal(t, tt.wantCode, rr.Code)
		})
	}
}
