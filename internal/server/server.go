// Package server wires the USDA nutrition tool catalog into an MCP server
// served over streamable HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/HemantaPatil/mcp-postgres/internal/metrics"
)

type Server struct {
	cfg Config

	mcpServer  *mcp.Server
	httpServer *http.Server
}

func New(cfg Config) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    "USDA Nutrition MCP Server",
		Version: cfg.Version,
	}, nil)

	type registration struct {
		name     string
		register func() error
	}
	registrations := []registration{
		{"execute_query", func() error {
			return RegisterExecuteQueryTool(cfg.Logger, mcpServer, cfg.Store, cfg.Clock, cfg.QueryTimeout)
		}},
		{"list_tables", func() error {
			return RegisterListTablesTool(cfg.Logger, mcpServer, cfg.Store, cfg.Clock, cfg.QueryTimeout)
		}},
		{"describe_table", func() error {
			return RegisterDescribeTableTool(cfg.Logger, mcpServer, cfg.Store, cfg.Clock, cfg.QueryTimeout)
		}},
		{"get_table_sample", func() error {
			return RegisterTableSampleTool(cfg.Logger, mcpServer, cfg.Store, cfg.Clock, cfg.QueryTimeout)
		}},
		{"search_foods", func() error {
			return RegisterSearchFoodsTool(cfg.Logger, mcpServer, cfg.Store, cfg.Clock, cfg.QueryTimeout)
		}},
		{"get_nutrition_profile", func() error {
			return RegisterNutritionProfileTool(cfg.Logger, mcpServer, cfg.Store, cfg.Clock, cfg.QueryTimeout)
		}},
		{"get_foods_by_category", func() error {
			return RegisterFoodsByCategoryTool(cfg.Logger, mcpServer, cfg.Store, cfg.Clock, cfg.QueryTimeout)
		}},
		{"get_food_categories", func() error {
			return RegisterFoodCategoriesTool(cfg.Logger, mcpServer, cfg.Store, cfg.Clock, cfg.QueryTimeout)
		}},
		{"compare_foods_nutrition", func() error {
			return RegisterCompareFoodsTool(cfg.Logger, mcpServer, cfg.Store, cfg.Clock, cfg.QueryTimeout)
		}},
		{"find_foods_high_in_nutrient", func() error {
			return RegisterHighInNutrientTool(cfg.Logger, mcpServer, cfg.Store, cfg.Clock, cfg.QueryTimeout)
		}},
	}
	for _, r := range registrations {
		if err := r.register(); err != nil {
			return nil, fmt.Errorf("failed to register %s tool: %w", r.name, err)
		}
	}

	s := &Server{
		cfg:       cfg,
		mcpServer: mcpServer,
	}

	mux := http.NewServeMux()
	handler := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return mcpServer
	}, &mcp.StreamableHTTPOptions{
		Stateless: true, // Auto-initialize sessions, no manual initialize required
	})

	metricsHandler := s.metricsMiddleware(handler)
	if len(cfg.AllowedTokens) > 0 {
		mux.Handle("/", s.authMiddleware(metricsHandler))
	} else {
		mux.Handle("/", metricsHandler)
	}

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})
	mux.HandleFunc("/readyz", s.readyzHandler)

	s.httpServer = &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: s.cfg.ReadHeaderTimeout,
		// Add timeouts to prevent connection issues from affecting the server
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		// Set MaxHeaderBytes to prevent abuse
		MaxHeaderBytes: 1 << 20, // 1MB
	}

	return s, nil
}

func (s *Server) Run(ctx context.Context) error {
	serveErrCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.cfg.Logger.Error("server: http server error", "error", err)
			serveErrCh <- fmt.Errorf("failed to listen and serve: %w", err)
		}
	}()

	s.cfg.Logger.Info("server: mcp streamable http listening",
		"listenAddr", s.cfg.ListenAddr,
	)

	select {
	case <-ctx.Done():
		s.cfg.Logger.Info("server: shutting down")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer shutdownCancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}
		return nil
	case err := <-serveErrCh:
		return err
	}
}

// readyzHandler reports ready while the pool is unopened (it opens lazily
// on the first tool call) and pings the database once a pool exists.
func (s *Server) readyzHandler(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Pool.Open() {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		pool, err := s.cfg.Pool.Acquire(ctx)
		if err == nil {
			err = pool.Ping(ctx)
		}
		if err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("database not reachable\n"))
			return
		}
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok\n"))
}

// authMiddleware wraps an HTTP handler with Bearer token authentication
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			metrics.AuthFailuresTotal.WithLabelValues("missing_header").Inc()
			w.Header().Set("WWW-Authenticate", `Bearer`)
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("unauthorized: missing authorization header\n"))
			return
		}

		// Extract token from "Bearer <token>" format
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			metrics.AuthFailuresTotal.WithLabelValues("invalid_format").Inc()
			w.Header().Set("WWW-Authenticate", `Bearer`)
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("unauthorized: invalid authorization header format\n"))
			return
		}

		token := strings.TrimSpace(parts[1])
		if token == "" {
			metrics.AuthFailuresTotal.WithLabelValues("empty_token").Inc()
			w.Header().Set("WWW-Authenticate", `Bearer`)
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("unauthorized: empty token\n"))
			return
		}

		allowed := false
		for _, allowedToken := range s.cfg.AllowedTokens {
			if token == allowedToken {
				allowed = true
				break
			}
		}

		if !allowed {
			metrics.AuthFailuresTotal.WithLabelValues("invalid_token").Inc()
			w.Header().Set("WWW-Authenticate", `Bearer`)
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("unauthorized: invalid token\n"))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// metricsMiddleware wraps an HTTP handler with metrics collection
func (s *Server) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		startTime := time.Now()

		// Capture the status code for the request counter
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(startTime).Seconds()
		status := fmt.Sprintf("%d", wrapped.statusCode)

		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, r.URL.Path, status).Inc()
		metrics.HTTPRequestDuration.Observe(duration)
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
